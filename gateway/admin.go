package gateway

import (
	"github.com/shopspring/decimal"

	"pushgateway/shared"
)

// requireAdmin gates non-pause policy mutation: admin only, and never while
// paused.
func requireAdmin(s *state, caller shared.Pubkey, action string) error {
	if s.config.Paused {
		return errPaused()
	}
	if s.config.Admin != caller {
		return errUnauthorized(action)
	}
	return nil
}

// Pause halts all deposits and withdrawals. Pauser or admin.
func (g *Gateway) Pause(caller shared.Pubkey) error {
	return g.run("pause", func(s *state, emit func(any)) error {
		if s.config.Pauser != caller && s.config.Admin != caller {
			return errUnauthorized("pause")
		}
		s.config.Paused = true
		return nil
	})
}

// Unpause resumes operation. Pauser or admin.
func (g *Gateway) Unpause(caller shared.Pubkey) error {
	return g.run("unpause", func(s *state, emit func(any)) error {
		if s.config.Pauser != caller && s.config.Admin != caller {
			return errUnauthorized("unpause")
		}
		s.config.Paused = false
		return nil
	})
}

// SetTssAddress rotates the authorization authority identity. Admin only.
func (g *Gateway) SetTssAddress(caller, newTss shared.Pubkey) error {
	return g.run("set_tss_address", func(s *state, emit func(any)) error {
		if err := requireAdmin(s, caller, "set_tss_address"); err != nil {
			return err
		}
		if newTss.IsDefault() {
			return errZeroAddress("tss")
		}
		old := s.config.TssAddress
		s.config.TssAddress = newTss
		emit(TSSAddressUpdated{OldTss: old, NewTss: newTss})
		return nil
	})
}

// SetCapsUsd updates the USD deposit caps (8-decimal fixed point). Admin only.
func (g *Gateway) SetCapsUsd(caller shared.Pubkey, minCap, maxCap decimal.Decimal) error {
	return g.run("set_caps_usd", func(s *state, emit func(any)) error {
		if err := requireAdmin(s, caller, "set_caps_usd"); err != nil {
			return err
		}
		if minCap.Cmp(maxCap) > 0 {
			return errInvalidCapRange()
		}
		s.config.MinCapUsd = minCap
		s.config.MaxCapUsd = maxCap
		emit(CapsUpdated{MinCapUsd: minCap.String(), MaxCapUsd: maxCap.String()})
		return nil
	})
}

// SetPriceFeed points the gateway at a different oracle feed account. Admin only.
func (g *Gateway) SetPriceFeed(caller, feed shared.Pubkey) error {
	return g.run("set_price_feed", func(s *state, emit func(any)) error {
		if err := requireAdmin(s, caller, "set_price_feed"); err != nil {
			return err
		}
		if feed.IsDefault() {
			return errZeroAddress("price feed")
		}
		s.config.PriceFeed = feed
		return nil
	})
}

// SetConfidenceThreshold updates the maximum tolerated oracle confidence
// interval. Admin only; zero is rejected (use a large threshold to relax).
func (g *Gateway) SetConfidenceThreshold(caller shared.Pubkey, threshold uint64) error {
	return g.run("set_confidence_threshold", func(s *state, emit func(any)) error {
		if err := requireAdmin(s, caller, "set_confidence_threshold"); err != nil {
			return err
		}
		if threshold == 0 {
			return errInvalidAmount()
		}
		s.config.ConfidenceThreshold = threshold
		return nil
	})
}

// WhitelistToken approves a token mint for bridging. Admin only.
func (g *Gateway) WhitelistToken(caller, token shared.Pubkey) error {
	return g.run("whitelist_token", func(s *state, emit func(any)) error {
		if err := requireAdmin(s, caller, "whitelist_token"); err != nil {
			return err
		}
		if token.IsDefault() {
			return errZeroAddress("token")
		}
		if err := s.whitelist.add(token); err != nil {
			return err
		}
		emit(TokenWhitelisted{TokenAddress: token})
		return nil
	})
}

// RemoveWhitelistToken revokes a token mint. Admin only.
func (g *Gateway) RemoveWhitelistToken(caller, token shared.Pubkey) error {
	return g.run("remove_whitelist_token", func(s *state, emit func(any)) error {
		if err := requireAdmin(s, caller, "remove_whitelist_token"); err != nil {
			return err
		}
		if token.IsDefault() {
			return errZeroAddress("token")
		}
		if err := s.whitelist.remove(token); err != nil {
			return err
		}
		emit(TokenRemovedFromWhitelist{TokenAddress: token})
		return nil
	})
}

package gateway

import (
	"pushgateway/crypto"
	"pushgateway/oracle"
	"pushgateway/shared"
)

// checkCaps reads the oracle and enforces the USD cap policy on a native
// amount. Caps apply only to gas-route deposits.
func (g *Gateway) checkCaps(s *state, amount uint64) error {
	if g.price == nil {
		return errInvalidPrice(nil)
	}
	price, err := g.price.Price()
	if err != nil {
		return errInvalidPrice(err)
	}
	err = oracle.CheckCaps(s.config.MinCapUsd, s.config.MaxCapUsd, s.config.ConfidenceThreshold, amount, price)
	switch e := err.(type) {
	case nil:
		return nil
	case *oracle.CapError:
		if e.Below {
			return errBelowMinCap(e)
		}
		return errAboveMaxCap(e)
	default:
		return errInvalidPrice(err)
	}
}

// SendTxWithGas funds gas on the destination chain with a native deposit.
// The amount is cap-checked in USD; the event carries a hash of the payload,
// not the payload itself.
func (g *Gateway) SendTxWithGas(caller shared.Pubkey, payload *shared.UniversalPayload, revertCfg shared.RevertSettings, amount uint64) error {
	err := g.run("send_tx_with_gas", func(s *state, emit func(any)) error {
		if s.config.Paused {
			return errPaused()
		}
		if revertCfg.FundRecipient.IsDefault() {
			return errInvalidRecipient("revert fund recipient")
		}
		if amount == 0 {
			return errInvalidAmount()
		}
		if s.ledger.Balance(caller) < amount {
			return errInsufficientBalance(nil)
		}
		if err := g.checkCaps(s, amount); err != nil {
			return err
		}
		if err := s.ledger.Transfer(caller, g.vault, amount); err != nil {
			return errInsufficientBalance(err)
		}
		emit(TxWithGas{
			Sender:               caller,
			PayloadHash:          crypto.PayloadHash(payload),
			NativeTokenDeposited: amount,
			RevertCfg:            revertCfg,
			TxType:               shared.TxGasAndPayload,
		})
		return nil
	})
	depositsTotal.WithLabelValues("gas", statusLabel(err)).Inc()
	return err
}

// SendFunds bridges whitelisted tokens to a literal recipient. No USD cap on
// this route.
func (g *Gateway) SendFunds(caller shared.Pubkey, recipient, bridgeToken shared.Pubkey, bridgeAmount uint64, userTokenAccount shared.TokenAccount, revertCfg shared.RevertSettings) error {
	err := g.run("send_funds", func(s *state, emit func(any)) error {
		if s.config.Paused {
			return errPaused()
		}
		if recipient.IsDefault() {
			return errInvalidRecipient("recipient")
		}
		if revertCfg.FundRecipient.IsDefault() {
			return errInvalidRecipient("revert fund recipient")
		}
		if bridgeAmount == 0 {
			return errInvalidAmount()
		}
		if bridgeToken.IsDefault() {
			return errInvalidToken()
		}
		if !s.whitelist.Contains(bridgeToken) {
			return errTokenNotWhitelisted()
		}
		if userTokenAccount.Owner != caller {
			return errInvalidOwner("user token account")
		}
		if userTokenAccount.Mint != bridgeToken {
			return errInvalidMint("user token account")
		}
		if err := s.ledger.TransferToken(bridgeToken, caller, g.vault, bridgeAmount); err != nil {
			return errInsufficientBalance(err)
		}
		emit(TxWithFunds{
			Sender:       caller,
			Recipient:    recipient,
			BridgeAmount: bridgeAmount,
			GasAmount:    0,
			BridgeToken:  bridgeToken,
			Data:         []byte{},
			RevertCfg:    revertCfg,
			TxType:       shared.TxFunds,
		})
		return nil
	})
	depositsTotal.WithLabelValues("funds_token", statusLabel(err)).Inc()
	return err
}

// SendFundsNative bridges the native asset to a literal recipient. The
// default token identity in the event marks the native route.
func (g *Gateway) SendFundsNative(caller shared.Pubkey, recipient shared.Pubkey, bridgeAmount uint64, revertCfg shared.RevertSettings) error {
	err := g.run("send_funds_native", func(s *state, emit func(any)) error {
		if s.config.Paused {
			return errPaused()
		}
		if recipient.IsDefault() {
			return errInvalidRecipient("recipient")
		}
		if revertCfg.FundRecipient.IsDefault() {
			return errInvalidRecipient("revert fund recipient")
		}
		if bridgeAmount == 0 {
			return errInvalidAmount()
		}
		if s.ledger.Balance(caller) < bridgeAmount {
			return errInsufficientBalance(nil)
		}
		if err := s.ledger.Transfer(caller, g.vault, bridgeAmount); err != nil {
			return errInsufficientBalance(err)
		}
		emit(TxWithFunds{
			Sender:       caller,
			Recipient:    recipient,
			BridgeAmount: bridgeAmount,
			GasAmount:    0,
			BridgeToken:  shared.DefaultPubkey,
			Data:         []byte{},
			RevertCfg:    revertCfg,
			TxType:       shared.TxFunds,
		})
		return nil
	})
	depositsTotal.WithLabelValues("funds_native", statusLabel(err)).Inc()
	return err
}

// SendTxWithFunds is the composite route: a cap-checked gas leg followed by a
// native or token funds leg, emitting TxWithGas then TxWithFunds. The funds
// event's recipient is the default identity; the destination is determined by
// executing the payload downstream.
func (g *Gateway) SendTxWithFunds(caller shared.Pubkey, bridgeToken shared.Pubkey, bridgeAmount uint64, payload *shared.UniversalPayload, userTokenAccount shared.TokenAccount, revertCfg shared.RevertSettings, gasAmount uint64) error {
	err := g.run("send_tx_with_funds", func(s *state, emit func(any)) error {
		if s.config.Paused {
			return errPaused()
		}
		if bridgeAmount == 0 {
			return errInvalidAmount()
		}
		if revertCfg.FundRecipient.IsDefault() {
			return errInvalidRecipient("revert fund recipient")
		}
		if gasAmount == 0 {
			return errInvalidAmount()
		}

		// Balance preconditions come before any transfer so a failing leg
		// cannot leak a partial gas-only deposit.
		if bridgeToken.IsDefault() {
			if s.ledger.Balance(caller) < bridgeAmount+gasAmount {
				return errInsufficientBalance(nil)
			}
		} else {
			if s.ledger.Balance(caller) < gasAmount {
				return errInsufficientBalance(nil)
			}
			if !s.whitelist.Contains(bridgeToken) {
				return errTokenNotWhitelisted()
			}
			if userTokenAccount.Owner != caller {
				return errInvalidOwner("user token account")
			}
			if userTokenAccount.Mint != bridgeToken {
				return errInvalidMint("user token account")
			}
		}

		if err := g.checkCaps(s, gasAmount); err != nil {
			return err
		}
		if err := s.ledger.Transfer(caller, g.vault, gasAmount); err != nil {
			return errInsufficientBalance(err)
		}
		emit(TxWithGas{
			Sender:               caller,
			PayloadHash:          [32]byte{},
			NativeTokenDeposited: gasAmount,
			RevertCfg: shared.RevertSettings{
				FundRecipient: caller,
				RevertMsg:     []byte("Gas funding"),
			},
			TxType: shared.TxGas,
		})

		if bridgeToken.IsDefault() {
			if err := s.ledger.Transfer(caller, g.vault, bridgeAmount); err != nil {
				return errInsufficientBalance(err)
			}
		} else {
			if err := s.ledger.TransferToken(bridgeToken, caller, g.vault, bridgeAmount); err != nil {
				return errInsufficientBalance(err)
			}
		}

		emit(TxWithFunds{
			Sender:       caller,
			Recipient:    shared.DefaultPubkey,
			BridgeAmount: bridgeAmount,
			GasAmount:    gasAmount,
			BridgeToken:  bridgeToken,
			Data:         payload.EncodeBinary(),
			RevertCfg:    revertCfg,
			TxType:       shared.TxFundsAndPayload,
		})
		return nil
	})
	depositsTotal.WithLabelValues("funds_and_payload", statusLabel(err)).Inc()
	return err
}

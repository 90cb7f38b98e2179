package gateway

import (
	"pushgateway/crypto"
	"pushgateway/shared"
)

// WithdrawArgs are the TSS verification arguments every withdrawal carries.
type WithdrawArgs struct {
	Signature   [64]byte
	RecoveryID  byte
	MessageHash [32]byte
	Nonce       uint64
}

// Withdraw releases native custody to a recipient, gated by TSS verification
// with instruction id 1.
func (g *Gateway) Withdraw(recipient shared.Pubkey, amount uint64, args WithdrawArgs) error {
	err := g.run("withdraw", func(s *state, emit func(any)) error {
		if s.config.Paused {
			return errPaused()
		}
		if amount == 0 {
			return errInvalidAmount()
		}
		additional := [][]byte{recipient[:]}
		if err := validateMessage(s, crypto.InstructionWithdraw, args.Nonce, &amount, additional, args.MessageHash, args.Signature, args.RecoveryID); err != nil {
			return err
		}
		if err := s.ledger.Transfer(g.vault, recipient, amount); err != nil {
			return errInsufficientBalance(err)
		}
		emit(WithdrawFunds{
			Recipient: recipient,
			Amount:    amount,
			Token:     shared.DefaultPubkey,
		})
		return nil
	})
	withdrawalsTotal.WithLabelValues("native", statusLabel(err)).Inc()
	return err
}

// WithdrawToken releases token custody to a recipient token account, gated by
// TSS verification with instruction id 2. The recipient account must already
// exist; provisioning happens off-chain.
func (g *Gateway) WithdrawToken(tokenMint shared.Pubkey, recipientTokenAccount shared.TokenAccount, amount uint64, args WithdrawArgs) error {
	err := g.run("withdraw_token", func(s *state, emit func(any)) error {
		if s.config.Paused {
			return errPaused()
		}
		if amount == 0 {
			return errInvalidAmount()
		}
		if !s.whitelist.Contains(tokenMint) {
			return errTokenNotWhitelisted()
		}
		if recipientTokenAccount.Mint != tokenMint {
			return errInvalidMint("recipient token account")
		}
		additional := [][]byte{tokenMint[:]}
		if err := validateMessage(s, crypto.InstructionWithdrawToken, args.Nonce, &amount, additional, args.MessageHash, args.Signature, args.RecoveryID); err != nil {
			return err
		}
		if err := s.ledger.TransferToken(tokenMint, g.vault, recipientTokenAccount.Owner, amount); err != nil {
			return errInsufficientBalance(err)
		}
		emit(WithdrawFunds{
			Recipient: recipientTokenAccount.Address(),
			Amount:    amount,
			Token:     tokenMint,
		})
		return nil
	})
	withdrawalsTotal.WithLabelValues("token", statusLabel(err)).Inc()
	return err
}

// RevertWithdraw returns native custody to the deposit-time revert recipient,
// gated by TSS verification with instruction id 3. The destination is bound
// to revertCfg, not a free recipient argument.
func (g *Gateway) RevertWithdraw(amount uint64, revertCfg shared.RevertSettings, args WithdrawArgs) error {
	err := g.run("revert_withdraw", func(s *state, emit func(any)) error {
		if s.config.Paused {
			return errPaused()
		}
		if amount == 0 {
			return errInvalidAmount()
		}
		if revertCfg.FundRecipient.IsDefault() {
			return errInvalidRecipient("revert fund recipient")
		}
		additional := [][]byte{revertCfg.FundRecipient[:]}
		if err := validateMessage(s, crypto.InstructionRevertWithdraw, args.Nonce, &amount, additional, args.MessageHash, args.Signature, args.RecoveryID); err != nil {
			return err
		}
		if err := s.ledger.Transfer(g.vault, revertCfg.FundRecipient, amount); err != nil {
			return errInsufficientBalance(err)
		}
		emit(WithdrawFunds{
			Recipient: revertCfg.FundRecipient,
			Amount:    amount,
			Token:     shared.DefaultPubkey,
		})
		return nil
	})
	withdrawalsTotal.WithLabelValues("revert_native", statusLabel(err)).Inc()
	return err
}

// RevertWithdrawToken returns token custody to the deposit-time revert
// recipient, gated by TSS verification with instruction id 4.
func (g *Gateway) RevertWithdrawToken(tokenMint shared.Pubkey, amount uint64, revertCfg shared.RevertSettings, args WithdrawArgs) error {
	err := g.run("revert_withdraw_token", func(s *state, emit func(any)) error {
		if s.config.Paused {
			return errPaused()
		}
		if amount == 0 {
			return errInvalidAmount()
		}
		if revertCfg.FundRecipient.IsDefault() {
			return errInvalidRecipient("revert fund recipient")
		}
		if !s.whitelist.Contains(tokenMint) {
			return errTokenNotWhitelisted()
		}
		additional := [][]byte{tokenMint[:]}
		if err := validateMessage(s, crypto.InstructionRevertWithdrawToken, args.Nonce, &amount, additional, args.MessageHash, args.Signature, args.RecoveryID); err != nil {
			return err
		}
		if err := s.ledger.TransferToken(tokenMint, g.vault, revertCfg.FundRecipient, amount); err != nil {
			return errInsufficientBalance(err)
		}
		emit(WithdrawFunds{
			Recipient: revertCfg.FundRecipient,
			Amount:    amount,
			Token:     tokenMint,
		})
		return nil
	})
	withdrawalsTotal.WithLabelValues("revert_token", statusLabel(err)).Inc()
	return err
}

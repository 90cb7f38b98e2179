package gateway

import (
	"crypto/subtle"

	"github.com/ethereum/go-ethereum/common"

	"pushgateway/crypto"
	"pushgateway/shared"
)

// InitTss provisions the TSS authority record. One-time; the caller becomes
// the record's owning authority.
func (g *Gateway) InitTss(authority shared.Pubkey, ethAddress common.Address, chainID uint64) error {
	return g.run("init_tss", func(s *state, emit func(any)) error {
		if s.tss != nil {
			return errInvalidInput("tss record already initialized")
		}
		if authority.IsDefault() {
			return errZeroAddress("authority")
		}
		s.tss = &TssState{
			EthAddress: ethAddress,
			ChainID:    chainID,
			Nonce:      0,
			Authority:  authority,
		}
		return nil
	})
}

// UpdateTss rotates the signing address and chain id. Record owner only.
func (g *Gateway) UpdateTss(caller shared.Pubkey, ethAddress common.Address, chainID uint64) error {
	return g.run("update_tss", func(s *state, emit func(any)) error {
		if s.tss == nil {
			return errNotInitialized()
		}
		if s.tss.Authority != caller {
			return errUnauthorized("update_tss")
		}
		s.tss.EthAddress = ethAddress
		s.tss.ChainID = chainID
		return nil
	})
}

// ResetNonce force-sets the nonce. Record owner only; this is the recovery
// path for nonces burned by failed verifications.
func (g *Gateway) ResetNonce(caller shared.Pubkey, newNonce uint64) error {
	return g.run("reset_nonce", func(s *state, emit func(any)) error {
		if s.tss == nil {
			return errNotInitialized()
		}
		if s.tss.Authority != caller {
			return errUnauthorized("reset_nonce")
		}
		s.tss.Nonce = newNonce
		return nil
	})
}

// validateMessage is the single choke point for privileged outbound actions.
// It checks the nonce, rebuilds and hashes the canonical message, and
// recovers the signer, in that order.
//
// The nonce is consumed before the hash and signature checks. A submission
// that passes the nonce check but fails later burns that nonce inside the
// transaction; the surrounding rollback discards the increment, so the
// committed nonce only advances on full success.
func validateMessage(
	s *state,
	id crypto.InstructionID,
	nonce uint64,
	amount *uint64,
	additional [][]byte,
	messageHash [32]byte,
	signature [64]byte,
	recoveryID byte,
) error {
	if s.tss == nil {
		return errNotInitialized()
	}
	if nonce != s.tss.Nonce {
		verificationFailures.WithLabelValues("nonce_mismatch").Inc()
		return errNonceMismatch(s.tss.Nonce, nonce)
	}
	s.tss.Nonce++

	message := crypto.BuildMessage(id, s.tss.ChainID, nonce, amount, additional)
	computed := crypto.MessageHash(message)
	if computed != messageHash {
		verificationFailures.WithLabelValues("message_hash_mismatch").Inc()
		return errMessageHashMismatch()
	}

	recovered, err := crypto.RecoverEthAddress(messageHash, signature, recoveryID)
	if err != nil {
		verificationFailures.WithLabelValues("recovery_failed").Inc()
		return errTssAuthFailed(err)
	}
	if subtle.ConstantTimeCompare(recovered[:], s.tss.EthAddress[:]) != 1 {
		verificationFailures.WithLabelValues("signer_mismatch").Inc()
		return errTssAuthFailed(nil)
	}
	return nil
}

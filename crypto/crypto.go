// Package crypto implements the TSS message protocol: canonical message
// construction, keccak-256 hashing, and secp256k1 signature recovery against
// a 20-byte external-chain address.
package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	"pushgateway/shared"
)

// MessagePrefix is the fixed ASCII domain-separation tag for this deployment.
// Every signed TSS message starts with it; signatures produced for any other
// system cannot authorize actions here.
const MessagePrefix = "PUSH_CHAIN_SVM"

// InstructionID domain-separates which privileged operation a signature
// authorizes. Each operation owns a disjoint byte; tags are never reused.
type InstructionID byte

const (
	InstructionWithdraw            InstructionID = 1
	InstructionWithdrawToken       InstructionID = 2
	InstructionRevertWithdraw      InstructionID = 3
	InstructionRevertWithdrawToken InstructionID = 4
)

func (id InstructionID) String() string {
	switch id {
	case InstructionWithdraw:
		return "withdraw"
	case InstructionWithdrawToken:
		return "withdraw_token"
	case InstructionRevertWithdraw:
		return "revert_withdraw"
	case InstructionRevertWithdrawToken:
		return "revert_withdraw_token"
	default:
		return fmt.Sprintf("instruction(%d)", byte(id))
	}
}

// BuildMessage reconstructs the canonical signed message:
// prefix || instruction id || chain id (BE) || nonce (BE) || amount (BE, optional)
// || each additional field in caller order.
func BuildMessage(id InstructionID, chainID, nonce uint64, amount *uint64, additional [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(MessagePrefix)
	buf.WriteByte(byte(id))

	var b [8]byte
	binary.BigEndian.PutUint64(b[:], chainID)
	buf.Write(b[:])
	binary.BigEndian.PutUint64(b[:], nonce)
	buf.Write(b[:])
	if amount != nil {
		binary.BigEndian.PutUint64(b[:], *amount)
		buf.Write(b[:])
	}
	for _, d := range additional {
		buf.Write(d)
	}
	return buf.Bytes()
}

// MessageHash is keccak-256 of the canonical message bytes.
func MessageHash(message []byte) [32]byte {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(message)
	var h [32]byte
	copy(h[:], hasher.Sum(nil))
	return h
}

// RecoverEthAddress recovers the secp256k1 public key from a 64-byte
// signature plus recovery id and returns its Ethereum-style address
// (keccak-256 of the uncompressed key, low 20 bytes).
func RecoverEthAddress(messageHash [32]byte, signature [64]byte, recoveryID byte) (common.Address, error) {
	if recoveryID > 3 {
		return common.Address{}, fmt.Errorf("invalid recovery id: %d", recoveryID)
	}
	sig := make([]byte, 65)
	copy(sig[:64], signature[:])
	sig[64] = recoveryID

	pub, err := ethcrypto.Ecrecover(messageHash[:], sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("secp256k1 recovery failed: %w", err)
	}
	// pub is 65 bytes: 0x04 || X || Y. Address is keccak(X || Y)[12:32].
	var addr common.Address
	copy(addr[:], ethcrypto.Keccak256(pub[1:])[12:])
	return addr, nil
}

// Sign produces a 64-byte compact signature and recovery id over a 32-byte
// message hash. Used by the signing CLI and tests; the production signer is
// the off-chain TSS.
func Sign(privKey []byte, messageHash [32]byte) (signature [64]byte, recoveryID byte, err error) {
	if len(privKey) != 32 {
		return signature, 0, fmt.Errorf("invalid private key length: expected 32 bytes, got %d", len(privKey))
	}
	priv, _ := btcec.PrivKeyFromBytes(privKey)

	// SignCompact returns header || r || s with header = 27 + recovery id.
	compact := btcecdsa.SignCompact(priv, messageHash[:], false)
	if len(compact) != 65 {
		return signature, 0, fmt.Errorf("unexpected compact signature length: %d", len(compact))
	}
	copy(signature[:], compact[1:])
	return signature, compact[0] - 27, nil
}

// EthAddressFromPrivKey derives the signer's Ethereum-style address.
func EthAddressFromPrivKey(privKey []byte) (common.Address, error) {
	if len(privKey) != 32 {
		return common.Address{}, fmt.Errorf("invalid private key length: expected 32 bytes, got %d", len(privKey))
	}
	_, pub := btcec.PrivKeyFromBytes(privKey)
	uncompressed := pub.SerializeUncompressed()
	var addr common.Address
	copy(addr[:], ethcrypto.Keccak256(uncompressed[1:])[12:])
	return addr, nil
}

// PayloadHash is sha256 over the canonical payload encoding. Deposit events
// carry this hash rather than the payload itself on the gas route.
func PayloadHash(payload *shared.UniversalPayload) [32]byte {
	return sha256.Sum256(payload.EncodeBinary())
}

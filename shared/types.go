package shared

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Pubkey is a 32-byte account identity on the host ledger.
// The zero value is the explicit "default address" sentinel used by the wire
// protocol (native asset marker, unset recipient); it is never a valid account.
type Pubkey [32]byte

// DefaultPubkey is the zero sentinel.
var DefaultPubkey = Pubkey{}

// IsDefault reports whether the key is the zero sentinel.
func (p Pubkey) IsDefault() bool {
	return p == DefaultPubkey
}

// String returns the hex encoding of the key.
func (p Pubkey) String() string {
	return hex.EncodeToString(p[:])
}

// PubkeyFromHex parses a 64-char hex string into a Pubkey.
func PubkeyFromHex(s string) (Pubkey, error) {
	var p Pubkey
	b, err := hex.DecodeString(s)
	if err != nil {
		return p, fmt.Errorf("invalid pubkey hex: %w", err)
	}
	if len(b) != len(p) {
		return p, fmt.Errorf("invalid pubkey length: expected %d bytes, got %d", len(p), len(b))
	}
	copy(p[:], b)
	return p, nil
}

// DerivePubkey deterministically derives a program-owned address from seeds,
// the way the host derives custody addresses. Only the program can produce
// transfers out of a derived address.
func DerivePubkey(seeds ...[]byte) Pubkey {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	var p Pubkey
	copy(p[:], h.Sum(nil))
	return p
}

// TxType tags a bridge message with its relay route.
type TxType uint8

const (
	// TxGas funds gas only; no high-value funds, no payload execution.
	TxGas TxType = iota
	// TxGasAndPayload funds gas and executes a payload instantly; cap-ranged.
	TxGasAndPayload
	// TxFunds bridges large funds only; no payload.
	TxFunds
	// TxFundsAndPayload bridges funds and a payload for execution; no cap range.
	TxFundsAndPayload
)

func (t TxType) String() string {
	switch t {
	case TxGas:
		return "Gas"
	case TxGasAndPayload:
		return "GasAndPayload"
	case TxFunds:
		return "Funds"
	case TxFundsAndPayload:
		return "FundsAndPayload"
	default:
		return fmt.Sprintf("TxType(%d)", uint8(t))
	}
}

// VerificationType selects how a universal payload is verified at execution.
type VerificationType uint8

const (
	SignedVerification VerificationType = iota
	UniversalTxVerification
)

// UniversalPayload describes a cross-chain call. The gateway hashes and
// forwards it; execution happens downstream. Deadline is advisory data,
// not enforced here.
type UniversalPayload struct {
	To                   Pubkey
	Value                uint64
	Data                 []byte
	GasLimit             uint64
	MaxFeePerGas         uint64
	MaxPriorityFeePerGas uint64
	Nonce                uint64
	Deadline             int64
	VType                VerificationType
}

// EncodeBinary serializes the payload into the canonical wire layout:
// little-endian integers, u32-length-prefixed byte vectors, u8 enum tags.
// The encoding is deterministic; relays and the execution layer depend on it.
func (p *UniversalPayload) EncodeBinary() []byte {
	var buf bytes.Buffer
	buf.Write(p.To[:])
	writeU64(&buf, p.Value)
	writeU32(&buf, uint32(len(p.Data)))
	buf.Write(p.Data)
	writeU64(&buf, p.GasLimit)
	writeU64(&buf, p.MaxFeePerGas)
	writeU64(&buf, p.MaxPriorityFeePerGas)
	writeU64(&buf, p.Nonce)
	writeU64(&buf, uint64(p.Deadline))
	buf.WriteByte(byte(p.VType))
	return buf.Bytes()
}

// TokenAccount identifies a holder's account in a mint. Address derives the
// associated account identity the way the host does.
type TokenAccount struct {
	Owner Pubkey
	Mint  Pubkey
}

// Address returns the derived account identity for this (owner, mint) pair.
func (a TokenAccount) Address() Pubkey {
	return DerivePubkey([]byte("token"), a.Mint[:], a.Owner[:])
}

// RevertSettings is the deposit-time commitment for failed cross-chain
// operations: where funds fall back to and an opaque operator message.
type RevertSettings struct {
	FundRecipient Pubkey
	RevertMsg     []byte
}

// Validate rejects a default fund recipient.
func (r *RevertSettings) Validate() error {
	if r.FundRecipient.IsDefault() {
		return fmt.Errorf("revert fund recipient cannot be the default address")
	}
	return nil
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

package gateway

import (
	"time"

	"github.com/google/uuid"

	"pushgateway/shared"
)

// Bridge events are the only externally observable audit trail. Field order
// and typing are load-bearing: the off-chain relay decodes them positionally.

// TxWithGas signals a gas-route deposit.
type TxWithGas struct {
	Sender                shared.Pubkey         `json:"sender"`
	PayloadHash           [32]byte              `json:"payload_hash"`
	NativeTokenDeposited  uint64                `json:"native_token_deposited"`
	RevertCfg             shared.RevertSettings `json:"revert_cfg"`
	TxType                shared.TxType         `json:"tx_type"`
}

// TxWithFunds signals a funds-route deposit.
type TxWithFunds struct {
	Sender       shared.Pubkey         `json:"sender"`
	Recipient    shared.Pubkey         `json:"recipient"`
	BridgeAmount uint64                `json:"bridge_amount"`
	GasAmount    uint64                `json:"gas_amount"`
	BridgeToken  shared.Pubkey         `json:"bridge_token"`
	Data         []byte                `json:"data"`
	RevertCfg    shared.RevertSettings `json:"revert_cfg"`
	TxType       shared.TxType         `json:"tx_type"`
}

// WithdrawFunds signals custody release.
type WithdrawFunds struct {
	Recipient shared.Pubkey `json:"recipient"`
	Amount    uint64        `json:"amount"`
	Token     shared.Pubkey `json:"token"`
}

// TSSAddressUpdated signals an authority identity change.
type TSSAddressUpdated struct {
	OldTss shared.Pubkey `json:"old_tss"`
	NewTss shared.Pubkey `json:"new_tss"`
}

// CapsUpdated signals a USD cap policy change.
type CapsUpdated struct {
	MinCapUsd string `json:"min_cap_usd"`
	MaxCapUsd string `json:"max_cap_usd"`
}

// TokenWhitelisted signals a whitelist addition.
type TokenWhitelisted struct {
	TokenAddress shared.Pubkey `json:"token_address"`
}

// TokenRemovedFromWhitelist signals a whitelist removal.
type TokenRemovedFromWhitelist struct {
	TokenAddress shared.Pubkey `json:"token_address"`
}

// Envelope wraps an emitted event with a dedupe ID and emission time.
type Envelope struct {
	ID      string    `json:"id"`
	Emitted time.Time `json:"emitted"`
	Event   any       `json:"event"`
}

// Emitter receives committed events. Emission happens strictly after the
// instruction's state has been published; a failed instruction emits nothing.
type Emitter interface {
	Emit(Envelope)
}

// Recorder is an Emitter that retains events in order, for tests and for
// in-process relays polling the gateway.
type Recorder struct {
	events []Envelope
}

func (r *Recorder) Emit(e Envelope) {
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Envelope {
	out := make([]Envelope, len(r.events))
	copy(out, r.events)
	return out
}

func newEnvelope(event any) Envelope {
	return Envelope{
		ID:      uuid.NewString(),
		Emitted: time.Now().UTC(),
		Event:   event,
	}
}

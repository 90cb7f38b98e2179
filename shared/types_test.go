package shared

import (
	"bytes"
	"testing"
)

func samplePayload() *UniversalPayload {
	return &UniversalPayload{
		To:                   DerivePubkey([]byte("target")),
		Value:                42,
		Data:                 []byte{0xde, 0xad, 0xbe, 0xef},
		GasLimit:             21000,
		MaxFeePerGas:         100,
		MaxPriorityFeePerGas: 2,
		Nonce:                7,
		Deadline:             1700000000,
		VType:                UniversalTxVerification,
	}
}

func TestPayloadEncodeDeterministic(t *testing.T) {
	p := samplePayload()
	a := p.EncodeBinary()
	b := p.EncodeBinary()
	if !bytes.Equal(a, b) {
		t.Error("EncodeBinary() is not deterministic")
	}
}

func TestPayloadEncodeLayout(t *testing.T) {
	p := samplePayload()
	encoded := p.EncodeBinary()

	// 32 (to) + 8 (value) + 4 + len(data) + 8*5 (gas params, nonce, deadline) + 1 (vtype)
	wantLen := 32 + 8 + 4 + len(p.Data) + 8*5 + 1
	if len(encoded) != wantLen {
		t.Errorf("EncodeBinary() length = %d, want %d", len(encoded), wantLen)
	}
	if !bytes.Equal(encoded[:32], p.To[:]) {
		t.Error("encoding does not start with destination key")
	}
	if encoded[len(encoded)-1] != byte(UniversalTxVerification) {
		t.Error("encoding does not end with verification type tag")
	}
}

func TestPayloadEncodeSensitive(t *testing.T) {
	a := samplePayload().EncodeBinary()

	p := samplePayload()
	p.Data[0] ^= 0x01
	b := p.EncodeBinary()

	if bytes.Equal(a, b) {
		t.Error("single-byte payload change did not change encoding")
	}
}

func TestPubkeyDefault(t *testing.T) {
	var p Pubkey
	if !p.IsDefault() {
		t.Error("zero Pubkey should be default")
	}
	q := DerivePubkey([]byte("x"))
	if q.IsDefault() {
		t.Error("derived Pubkey should not be default")
	}
}

func TestPubkeyHexRoundTrip(t *testing.T) {
	p := DerivePubkey([]byte("round-trip"))
	q, err := PubkeyFromHex(p.String())
	if err != nil {
		t.Fatalf("PubkeyFromHex() error = %v", err)
	}
	if p != q {
		t.Error("hex round trip changed the key")
	}
}

func TestPubkeyFromHexErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "not hex", in: "zz"},
		{name: "short", in: "abcd"},
		{name: "empty", in: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PubkeyFromHex(tt.in); err == nil {
				t.Error("PubkeyFromHex() expected error")
			}
		})
	}
}

func TestTokenAccountAddress(t *testing.T) {
	mint := DerivePubkey([]byte("mint"))
	alice := DerivePubkey([]byte("alice"))
	bob := DerivePubkey([]byte("bob"))

	a := TokenAccount{Owner: alice, Mint: mint}.Address()
	b := TokenAccount{Owner: bob, Mint: mint}.Address()
	if a == b {
		t.Error("different owners derived the same token account address")
	}
	if a != (TokenAccount{Owner: alice, Mint: mint}.Address()) {
		t.Error("token account address derivation is not deterministic")
	}
}

func TestRevertSettingsValidate(t *testing.T) {
	ok := RevertSettings{FundRecipient: DerivePubkey([]byte("r")), RevertMsg: []byte("m")}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	bad := RevertSettings{RevertMsg: []byte("m")}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() expected error for default recipient")
	}
}

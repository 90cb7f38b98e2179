package gateway

import (
	"testing"

	"pushgateway/crypto"
	"pushgateway/ledger"
	"pushgateway/oracle"
)

func fundVault(g *Gateway, amount uint64) {
	g.Credit(g.Vault(), amount)
}

func TestInitTss(t *testing.T) {
	g, _ := newTestGateway(t)

	tss, err := g.Tss()
	if err != nil {
		t.Fatalf("Tss() error = %v", err)
	}
	if tss.Nonce != 0 {
		t.Errorf("initial nonce = %d, want 0", tss.Nonce)
	}
	if tss.ChainID != testChainID {
		t.Errorf("chain id = %d, want %d", tss.ChainID, testChainID)
	}
	if tss.EthAddress != tssEthAddress(t) {
		t.Error("stored eth address mismatch")
	}

	wantCode(t, g.InitTss(tssAuthority, tssEthAddress(t), testChainID), CodeInvalidInput)
}

func TestUpdateTssAuthorization(t *testing.T) {
	g, _ := newTestGateway(t)

	wantCode(t, g.UpdateTss(alice, tssEthAddress(t), 1), CodeUnauthorized)

	if err := g.UpdateTss(tssAuthority, tssEthAddress(t), 7777); err != nil {
		t.Fatalf("UpdateTss() error = %v", err)
	}
	tss, _ := g.Tss()
	if tss.ChainID != 7777 {
		t.Errorf("chain id = %d, want 7777", tss.ChainID)
	}
}

func TestResetNonce(t *testing.T) {
	g, _ := newTestGateway(t)

	wantCode(t, g.ResetNonce(alice, 5), CodeUnauthorized)

	if err := g.ResetNonce(tssAuthority, 5); err != nil {
		t.Fatalf("ResetNonce() error = %v", err)
	}
	tss, _ := g.Tss()
	if tss.Nonce != 5 {
		t.Errorf("nonce = %d, want 5", tss.Nonce)
	}
}

func TestNonceAdvancesOnlyOnSuccess(t *testing.T) {
	g, _ := newTestGateway(t)
	fundVault(g, 1_000_000)

	// Correct nonce but garbage signature: the verification consumes the
	// nonce in-flight, the rollback discards it.
	args := signArgs(t, crypto.InstructionWithdraw, 0, 500, bob[:])
	args.Signature[0] ^= 0xff
	err := g.Withdraw(bob, 500, args)
	if err == nil {
		t.Fatal("expected verification failure")
	}
	tss, _ := g.Tss()
	if tss.Nonce != 0 {
		t.Fatalf("nonce = %d after failed verification, want 0", tss.Nonce)
	}
	if g.Balance(bob) != 0 {
		t.Error("failed verification moved funds")
	}

	// Valid submission consumes the nonce.
	if err := g.Withdraw(bob, 500, signArgs(t, crypto.InstructionWithdraw, 0, 500, bob[:])); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	tss, _ = g.Tss()
	if tss.Nonce != 1 {
		t.Fatalf("nonce = %d after success, want 1", tss.Nonce)
	}
}

func TestReplayFailsWithNonceMismatch(t *testing.T) {
	g, _ := newTestGateway(t)
	fundVault(g, 1_000_000)

	args := signArgs(t, crypto.InstructionWithdraw, 0, 500, bob[:])
	if err := g.Withdraw(bob, 500, args); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}

	// Replaying the consumed (nonce, signature) pair must fail on the nonce
	// check specifically, never a later step.
	wantCode(t, g.Withdraw(bob, 500, args), CodeNonceMismatch)
	if g.Balance(bob) != 500 {
		t.Errorf("balance = %d, want 500", g.Balance(bob))
	}
}

func TestStaleAndFutureNonce(t *testing.T) {
	g, _ := newTestGateway(t)
	fundVault(g, 1_000_000)

	wantCode(t, g.Withdraw(bob, 500, signArgs(t, crypto.InstructionWithdraw, 3, 500, bob[:])), CodeNonceMismatch)
}

func TestMessageHashMismatch(t *testing.T) {
	g, _ := newTestGateway(t)
	fundVault(g, 1_000_000)

	// Signature over a different amount than the instruction carries.
	args := signArgs(t, crypto.InstructionWithdraw, 0, 999, bob[:])
	wantCode(t, g.Withdraw(bob, 500, args), CodeMessageHashMismatch)
}

func TestDomainSeparationAcrossInstructions(t *testing.T) {
	g, _ := newTestGateway(t)
	fundVault(g, 1_000_000)

	// A signature minted for plain withdraw (id 1) must not authorize a
	// revert withdraw (id 3) over an otherwise identical body.
	args := signArgs(t, crypto.InstructionWithdraw, 0, 500, bob[:])
	err := g.RevertWithdraw(500, revertTo(bob), args)
	wantCode(t, err, CodeMessageHashMismatch)
	if g.Balance(bob) != 0 {
		t.Error("cross-instruction signature moved funds")
	}
}

func TestWrongSignerRejected(t *testing.T) {
	g, _ := newTestGateway(t)
	fundVault(g, 1_000_000)

	otherKey := make([]byte, 32)
	for i := range otherKey {
		otherKey[i] = byte(i + 1)
	}
	amount := uint64(500)
	msg := crypto.BuildMessage(crypto.InstructionWithdraw, testChainID, 0, &amount, [][]byte{bob[:]})
	hash := crypto.MessageHash(msg)
	sig, recID, err := crypto.Sign(otherKey, hash)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	err = g.Withdraw(bob, amount, WithdrawArgs{Signature: sig, RecoveryID: recID, MessageHash: hash, Nonce: 0})
	wantCode(t, err, CodeTssAuthFailed)
}

func TestChainIDBindsMessage(t *testing.T) {
	rec := &Recorder{}
	g := New(ledger.New(), Options{
		PriceReader: oracle.StaticReader{Data: testPrice},
		Emitter:     rec,
	})
	err := g.Initialize(InitializeParams{
		Admin: admin, Pauser: pauser, Tss: tssAuthority,
		MinCapUsd: testMinCap, MaxCapUsd: testMaxCap, PriceFeed: priceFeed,
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	// Record registered for a different chain than the signature targets.
	if err := g.InitTss(tssAuthority, tssEthAddress(t), testChainID+1); err != nil {
		t.Fatalf("InitTss() error = %v", err)
	}
	g.Credit(g.Vault(), 1_000_000)

	args := signArgs(t, crypto.InstructionWithdraw, 0, 500, bob[:])
	wantCode(t, g.Withdraw(bob, 500, args), CodeMessageHashMismatch)
}

func TestResetNonceRecoversBurnedNonce(t *testing.T) {
	g, _ := newTestGateway(t)
	fundVault(g, 1_000_000)

	// Consume nonces 0 and 1.
	for n := uint64(0); n < 2; n++ {
		if err := g.Withdraw(bob, 100, signArgs(t, crypto.InstructionWithdraw, n, 100, bob[:])); err != nil {
			t.Fatalf("Withdraw(nonce=%d) error = %v", n, err)
		}
	}
	if err := g.ResetNonce(tssAuthority, 0); err != nil {
		t.Fatalf("ResetNonce() error = %v", err)
	}
	if err := g.Withdraw(bob, 100, signArgs(t, crypto.InstructionWithdraw, 0, 100, bob[:])); err != nil {
		t.Fatalf("Withdraw() after reset error = %v", err)
	}
}

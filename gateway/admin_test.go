package gateway

import (
	"testing"

	"github.com/shopspring/decimal"

	"pushgateway/ledger"
	"pushgateway/shared"
)

func TestInitializeValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*InitializeParams)
		wantCode string
	}{
		{
			name:     "inverted caps",
			mutate:   func(p *InitializeParams) { p.MinCapUsd, p.MaxCapUsd = p.MaxCapUsd, p.MinCapUsd },
			wantCode: CodeInvalidCapRange,
		},
		{
			name:     "default admin",
			mutate:   func(p *InitializeParams) { p.Admin = shared.DefaultPubkey },
			wantCode: CodeZeroAddress,
		},
		{
			name:     "default tss",
			mutate:   func(p *InitializeParams) { p.Tss = shared.DefaultPubkey },
			wantCode: CodeZeroAddress,
		},
		{
			name:     "default price feed",
			mutate:   func(p *InitializeParams) { p.PriceFeed = shared.DefaultPubkey },
			wantCode: CodeZeroAddress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(ledger.New(), Options{})
			params := InitializeParams{
				Admin:     admin,
				Pauser:    pauser,
				Tss:       tssAuthority,
				MinCapUsd: testMinCap,
				MaxCapUsd: testMaxCap,
				PriceFeed: priceFeed,
			}
			tt.mutate(&params)
			wantCode(t, g.Initialize(params), tt.wantCode)
		})
	}
}

func TestInitializeOnce(t *testing.T) {
	g, _ := newTestGateway(t)
	err := g.Initialize(InitializeParams{
		Admin: admin, Pauser: pauser, Tss: tssAuthority,
		MinCapUsd: testMinCap, MaxCapUsd: testMaxCap, PriceFeed: priceFeed,
	})
	wantCode(t, err, CodeInvalidInput)
}

func TestInitializeDefaults(t *testing.T) {
	g, _ := newTestGateway(t)
	cfg, err := g.Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	if cfg.Paused {
		t.Error("gateway should start unpaused")
	}
	if cfg.ConfidenceThreshold != shared.DefaultConfidenceThreshold {
		t.Errorf("confidence threshold = %d, want %d", cfg.ConfidenceThreshold, shared.DefaultConfidenceThreshold)
	}
}

func TestPauseAuthorization(t *testing.T) {
	tests := []struct {
		name     string
		caller   shared.Pubkey
		wantCode string
	}{
		{name: "pauser", caller: pauser},
		{name: "admin", caller: admin},
		{name: "stranger", caller: alice, wantCode: CodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGateway(t)
			err := g.Pause(tt.caller)
			if tt.wantCode != "" {
				wantCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("Pause() error = %v", err)
			}
			cfg, _ := g.Config()
			if !cfg.Paused {
				t.Error("gateway not paused")
			}
			if err := g.Unpause(tt.caller); err != nil {
				t.Fatalf("Unpause() error = %v", err)
			}
			cfg, _ = g.Config()
			if cfg.Paused {
				t.Error("gateway still paused")
			}
		})
	}
}

func TestAdminOpsRequireAdminAndUnpaused(t *testing.T) {
	g, _ := newTestGateway(t)

	wantCode(t, g.SetCapsUsd(alice, testMinCap, testMaxCap), CodeUnauthorized)
	wantCode(t, g.SetTssAddress(alice, bob), CodeUnauthorized)
	wantCode(t, g.WhitelistToken(alice, mint), CodeUnauthorized)

	if err := g.Pause(pauser); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	wantCode(t, g.SetCapsUsd(admin, testMinCap, testMaxCap), CodePaused)
	wantCode(t, g.WhitelistToken(admin, mint), CodePaused)
}

func TestSetCapsUsd(t *testing.T) {
	g, rec := newTestGateway(t)

	newMin := decimal.NewFromInt(200_000000)
	newMax := decimal.NewFromInt(500_000000)
	if err := g.SetCapsUsd(admin, newMin, newMax); err != nil {
		t.Fatalf("SetCapsUsd() error = %v", err)
	}
	cfg, _ := g.Config()
	if !cfg.MinCapUsd.Equal(newMin) || !cfg.MaxCapUsd.Equal(newMax) {
		t.Errorf("caps = %s/%s, want %s/%s", cfg.MinCapUsd, cfg.MaxCapUsd, newMin, newMax)
	}

	events := eventsOfType[CapsUpdated](rec)
	if len(events) != 1 {
		t.Fatalf("CapsUpdated events = %d, want 1", len(events))
	}
	if events[0].MinCapUsd != newMin.String() || events[0].MaxCapUsd != newMax.String() {
		t.Errorf("event caps = %s/%s", events[0].MinCapUsd, events[0].MaxCapUsd)
	}

	wantCode(t, g.SetCapsUsd(admin, newMax, newMin), CodeInvalidCapRange)
}

func TestSetTssAddress(t *testing.T) {
	g, rec := newTestGateway(t)

	wantCode(t, g.SetTssAddress(admin, shared.DefaultPubkey), CodeZeroAddress)

	newTss := shared.DerivePubkey([]byte("new-tss"))
	if err := g.SetTssAddress(admin, newTss); err != nil {
		t.Fatalf("SetTssAddress() error = %v", err)
	}
	cfg, _ := g.Config()
	if cfg.TssAddress != newTss {
		t.Error("tss address not updated")
	}

	events := eventsOfType[TSSAddressUpdated](rec)
	if len(events) != 1 {
		t.Fatalf("TSSAddressUpdated events = %d, want 1", len(events))
	}
	if events[0].OldTss != tssAuthority || events[0].NewTss != newTss {
		t.Error("TSSAddressUpdated event carries wrong addresses")
	}
}

func TestWhitelistSetSemantics(t *testing.T) {
	g, rec := newTestGateway(t)

	wantCode(t, g.WhitelistToken(admin, shared.DefaultPubkey), CodeZeroAddress)

	if err := g.WhitelistToken(admin, mint); err != nil {
		t.Fatalf("WhitelistToken() error = %v", err)
	}
	if !g.Whitelisted(mint) {
		t.Error("token not whitelisted")
	}
	wantCode(t, g.WhitelistToken(admin, mint), CodeTokenAlreadyWhitelisted)

	if err := g.RemoveWhitelistToken(admin, mint); err != nil {
		t.Fatalf("RemoveWhitelistToken() error = %v", err)
	}
	if g.Whitelisted(mint) {
		t.Error("token still whitelisted after removal")
	}
	wantCode(t, g.RemoveWhitelistToken(admin, mint), CodeTokenNotWhitelisted)

	added := eventsOfType[TokenWhitelisted](rec)
	removed := eventsOfType[TokenRemovedFromWhitelist](rec)
	if len(added) != 1 || len(removed) != 1 {
		t.Errorf("whitelist events = %d added, %d removed, want 1/1", len(added), len(removed))
	}
}

func TestWhitelistCapacity(t *testing.T) {
	g, _ := newTestGateway(t)
	for i := 0; i < shared.MaxWhitelistedTokens; i++ {
		token := shared.DerivePubkey([]byte{byte(i), byte(i >> 8), 0x7f})
		if err := g.WhitelistToken(admin, token); err != nil {
			t.Fatalf("WhitelistToken(%d) error = %v", i, err)
		}
	}
	overflow := shared.DerivePubkey([]byte("one-too-many"))
	wantCode(t, g.WhitelistToken(admin, overflow), CodeWhitelistFull)
}

func TestSetConfidenceThreshold(t *testing.T) {
	g, _ := newTestGateway(t)

	wantCode(t, g.SetConfidenceThreshold(admin, 0), CodeInvalidAmount)

	if err := g.SetConfidenceThreshold(admin, 42); err != nil {
		t.Fatalf("SetConfidenceThreshold() error = %v", err)
	}
	cfg, _ := g.Config()
	if cfg.ConfidenceThreshold != 42 {
		t.Errorf("threshold = %d, want 42", cfg.ConfidenceThreshold)
	}
}

func TestSetPriceFeed(t *testing.T) {
	g, _ := newTestGateway(t)

	wantCode(t, g.SetPriceFeed(admin, shared.DefaultPubkey), CodeZeroAddress)

	feed := shared.DerivePubkey([]byte("other-feed"))
	if err := g.SetPriceFeed(admin, feed); err != nil {
		t.Fatalf("SetPriceFeed() error = %v", err)
	}
	cfg, _ := g.Config()
	if cfg.PriceFeed != feed {
		t.Error("price feed not updated")
	}
}

func TestNotInitialized(t *testing.T) {
	g := New(ledger.New(), Options{})
	wantCode(t, g.Pause(pauser), CodeNotInitialized)
	wantCode(t, g.SendFundsNative(alice, bob, 1, revertTo(alice)), CodeNotInitialized)
	if _, err := g.Config(); err == nil {
		t.Error("Config() expected error before initialization")
	}
}

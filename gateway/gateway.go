// Package gateway implements the bridge authorization core: deposit
// classification with USD cap enforcement, TSS-verified withdrawals, and the
// admin surface over the policy singletons.
package gateway

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pushgateway/ledger"
	"pushgateway/oracle"
	"pushgateway/shared"
)

// VaultSeed derives the custody address. Only gateway instructions move
// balance out of the vault.
var VaultSeed = []byte("vault")

// Gateway owns the policy singletons and the custody vault. All exported
// instructions are atomic: on any error no state is mutated and no event is
// emitted.
type Gateway struct {
	mu      sync.Mutex
	st      *state
	vault   shared.Pubkey
	price   oracle.Reader
	emitter Emitter
	log     *zap.Logger
}

// Options configures collaborators. Zero values get safe defaults.
type Options struct {
	PriceReader oracle.Reader
	Emitter     Emitter
	Logger      *zap.Logger
}

// New returns an uninitialized gateway bound to a ledger. Every instruction
// except Initialize fails with NOT_INITIALIZED until Initialize succeeds.
func New(l *ledger.Ledger, opts Options) *Gateway {
	if opts.Emitter == nil {
		opts.Emitter = &Recorder{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	g := &Gateway{
		vault:   shared.DerivePubkey(VaultSeed),
		price:   opts.PriceReader,
		emitter: opts.Emitter,
		log:     opts.Logger,
	}
	g.st = &state{
		config:    nil,
		whitelist: &TokenWhitelist{},
		ledger:    l,
	}
	return g
}

// InitializeParams provisions the gateway configuration.
type InitializeParams struct {
	Admin     shared.Pubkey
	Pauser    shared.Pubkey
	Tss       shared.Pubkey
	MinCapUsd decimal.Decimal
	MaxCapUsd decimal.Decimal
	PriceFeed shared.Pubkey
}

// Initialize provisions the config singleton. One-time; a second call fails.
func (g *Gateway) Initialize(p InitializeParams) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.st.config != nil {
		return errInvalidInput("gateway already initialized")
	}
	if p.MinCapUsd.Cmp(p.MaxCapUsd) > 0 {
		return errInvalidCapRange()
	}
	if p.Admin.IsDefault() {
		return errZeroAddress("admin")
	}
	if p.Tss.IsDefault() {
		return errZeroAddress("tss")
	}
	if p.PriceFeed.IsDefault() {
		return errZeroAddress("price feed")
	}

	g.st.config = &Config{
		Admin:               p.Admin,
		Pauser:              p.Pauser,
		TssAddress:          p.Tss,
		MinCapUsd:           p.MinCapUsd,
		MaxCapUsd:           p.MaxCapUsd,
		Paused:              false,
		PriceFeed:           p.PriceFeed,
		ConfidenceThreshold: shared.DefaultConfidenceThreshold,
	}
	g.log.Info("gateway initialized",
		zap.String("admin", p.Admin.String()),
		zap.String("tss", p.Tss.String()),
	)
	return nil
}

// run executes one instruction against a clone of the current state. The
// clone is published and pending events flushed only if fn returns nil.
func (g *Gateway) run(op string, fn func(s *state, emit func(any)) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.st.config == nil {
		return errNotInitialized()
	}

	work := g.st.clone()
	var pending []any
	emit := func(e any) { pending = append(pending, e) }

	if err := fn(work, emit); err != nil {
		g.log.Warn("instruction rejected", zap.String("op", op), zap.Error(err))
		return err
	}

	g.st = work
	for _, e := range pending {
		env := newEnvelope(e)
		eventsEmitted.WithLabelValues(fmt.Sprintf("%T", e)).Inc()
		g.emitter.Emit(env)
	}
	if g.st.config.Paused {
		pausedGauge.Set(1)
	} else {
		pausedGauge.Set(0)
	}
	g.log.Debug("instruction committed", zap.String("op", op), zap.Int("events", len(pending)))
	return nil
}

// Vault returns the custody address.
func (g *Gateway) Vault() shared.Pubkey {
	return g.vault
}

// Config returns a copy of the current configuration.
func (g *Gateway) Config() (Config, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.st.config == nil {
		return Config{}, errNotInitialized()
	}
	return *g.st.config, nil
}

// Tss returns a copy of the TSS authority record.
func (g *Gateway) Tss() (TssState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.st.tss == nil {
		return TssState{}, errNotInitialized()
	}
	return *g.st.tss, nil
}

// Whitelisted reports whether a token mint is approved.
func (g *Gateway) Whitelisted(token shared.Pubkey) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.st.whitelist.Contains(token)
}

// Balance returns an account's committed native balance.
func (g *Gateway) Balance(account shared.Pubkey) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.st.ledger.Balance(account)
}

// Credit funds an account's native balance. Provisioning hook; the host
// normally settles inbound balance outside the gateway.
func (g *Gateway) Credit(account shared.Pubkey, amount uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.st.ledger.Credit(account, amount)
}

// CreditToken funds a holder's token balance. Provisioning hook.
func (g *Gateway) CreditToken(mint, holder shared.Pubkey, amount uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.st.ledger.CreditToken(mint, holder, amount)
}

// TokenBalance returns a holder's committed balance in a mint.
func (g *Gateway) TokenBalance(mint, holder shared.Pubkey) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.st.ledger.TokenBalance(mint, holder)
}

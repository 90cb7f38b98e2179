package gateway

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"pushgateway/ledger"
	"pushgateway/shared"
)

// Config is the singleton gateway policy record.
type Config struct {
	Admin               shared.Pubkey
	Pauser              shared.Pubkey
	TssAddress          shared.Pubkey
	MinCapUsd           decimal.Decimal // 1e8 = $1
	MaxCapUsd           decimal.Decimal // 1e8 = $1
	Paused              bool
	PriceFeed           shared.Pubkey
	ConfidenceThreshold uint64
}

func (c *Config) clone() *Config {
	cc := *c
	return &cc
}

// TssState is the singleton record of the off-chain threshold-signing
// authority: its external-chain address, the chain it signs for, and the
// replay-protection nonce. The nonce is mutated only by message validation
// and ResetNonce.
type TssState struct {
	EthAddress common.Address
	ChainID    uint64
	Nonce      uint64
	Authority  shared.Pubkey
}

func (t *TssState) clone() *TssState {
	tc := *t
	return &tc
}

// TokenWhitelist is the ordered set of approved token mints.
type TokenWhitelist struct {
	tokens []shared.Pubkey
}

// Contains reports exact-match membership.
func (w *TokenWhitelist) Contains(token shared.Pubkey) bool {
	for _, t := range w.tokens {
		if t == token {
			return true
		}
	}
	return false
}

// Tokens returns a copy of the whitelist in insertion order.
func (w *TokenWhitelist) Tokens() []shared.Pubkey {
	out := make([]shared.Pubkey, len(w.tokens))
	copy(out, w.tokens)
	return out
}

func (w *TokenWhitelist) add(token shared.Pubkey) error {
	if w.Contains(token) {
		return errTokenAlreadyWhitelisted()
	}
	if len(w.tokens) >= shared.MaxWhitelistedTokens {
		return errWhitelistFull()
	}
	w.tokens = append(w.tokens, token)
	return nil
}

func (w *TokenWhitelist) remove(token shared.Pubkey) error {
	for i, t := range w.tokens {
		if t == token {
			w.tokens = append(w.tokens[:i], w.tokens[i+1:]...)
			return nil
		}
	}
	return errTokenNotWhitelisted()
}

func (w *TokenWhitelist) clone() *TokenWhitelist {
	return &TokenWhitelist{tokens: w.Tokens()}
}

// state is everything an instruction may mutate. Instructions work on a
// clone which is published only on success, reproducing the host's
// full-commit-or-full-rollback guarantee.
type state struct {
	config    *Config
	tss       *TssState
	whitelist *TokenWhitelist
	ledger    *ledger.Ledger
}

func (s *state) clone() *state {
	c := &state{
		config:    s.config.clone(),
		whitelist: s.whitelist.clone(),
		ledger:    s.ledger.Clone(),
	}
	if s.tss != nil {
		c.tss = s.tss.clone()
	}
	return c
}

// Package ledger is an in-memory stand-in for the host chain's balance model.
// It tracks native and token balances and supports copy-on-write snapshots so
// each gateway instruction commits fully or not at all.
package ledger

import (
	"fmt"

	"pushgateway/shared"
)

// Ledger holds native balances and per-mint token balances.
type Ledger struct {
	native map[shared.Pubkey]uint64
	tokens map[shared.Pubkey]map[shared.Pubkey]uint64 // mint -> holder -> balance
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		native: make(map[shared.Pubkey]uint64),
		tokens: make(map[shared.Pubkey]map[shared.Pubkey]uint64),
	}
}

// Clone deep-copies the ledger. Instructions mutate a clone and publish it
// only on success.
func (l *Ledger) Clone() *Ledger {
	c := New()
	for k, v := range l.native {
		c.native[k] = v
	}
	for mint, holders := range l.tokens {
		m := make(map[shared.Pubkey]uint64, len(holders))
		for k, v := range holders {
			m[k] = v
		}
		c.tokens[mint] = m
	}
	return c
}

// Balance returns the native balance of an account.
func (l *Ledger) Balance(account shared.Pubkey) uint64 {
	return l.native[account]
}

// TokenBalance returns the balance a holder has in a mint.
func (l *Ledger) TokenBalance(mint, holder shared.Pubkey) uint64 {
	return l.tokens[mint][holder]
}

// Credit mints native balance onto an account. Test and provisioning hook.
func (l *Ledger) Credit(account shared.Pubkey, amount uint64) {
	l.native[account] += amount
}

// CreditToken mints token balance onto a holder. Test and provisioning hook.
func (l *Ledger) CreditToken(mint, holder shared.Pubkey, amount uint64) {
	holders, ok := l.tokens[mint]
	if !ok {
		holders = make(map[shared.Pubkey]uint64)
		l.tokens[mint] = holders
	}
	holders[holder] += amount
}

// Transfer moves native balance between accounts.
func (l *Ledger) Transfer(from, to shared.Pubkey, amount uint64) error {
	if l.native[from] < amount {
		return fmt.Errorf("insufficient balance: account %s has %d, need %d", from, l.native[from], amount)
	}
	l.native[from] -= amount
	l.native[to] += amount
	return nil
}

// TransferToken moves token balance between holders of a mint.
func (l *Ledger) TransferToken(mint, from, to shared.Pubkey, amount uint64) error {
	holders, ok := l.tokens[mint]
	if !ok {
		holders = make(map[shared.Pubkey]uint64)
		l.tokens[mint] = holders
	}
	if holders[from] < amount {
		return fmt.Errorf("insufficient token balance: holder %s has %d of %s, need %d",
			from, holders[from], mint, amount)
	}
	holders[from] -= amount
	holders[to] += amount
	return nil
}

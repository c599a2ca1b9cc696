package payments

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// TransferRecord is one completed transfer through the in-memory gateway.
type TransferRecord struct {
	To        string
	Amount    decimal.Decimal
	Reference string
}

// MemoryGateway tracks per-account balances in process. It backs service
// tests and local development when no bank API is configured.
type MemoryGateway struct {
	mu        sync.Mutex
	balances  map[string]decimal.Decimal
	rejecting map[string]bool
	transfers []TransferRecord
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		balances:  make(map[string]decimal.Decimal),
		rejecting: make(map[string]bool),
	}
}

// RejectTransfersTo makes every transfer to the account fail, simulating a
// recipient that cannot accept funds.
func (g *MemoryGateway) RejectTransfersTo(account string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rejecting[account] = true
}

func (g *MemoryGateway) Transfer(ctx context.Context, to string, amount decimal.Decimal, reference string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.rejecting[to] {
		return fmt.Errorf("%w: account %s rejected transfer %s", ErrTransferFailed, to, reference)
	}

	g.balances[to] = g.balances[to].Add(amount)
	g.transfers = append(g.transfers, TransferRecord{To: to, Amount: amount, Reference: reference})
	return nil
}

// BalanceOf returns the total value the account has received.
func (g *MemoryGateway) BalanceOf(account string) decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.balances[account]
}

// Transfers returns a copy of the completed transfer log.
func (g *MemoryGateway) Transfers() []TransferRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]TransferRecord, len(g.transfers))
	copy(out, g.transfers)
	return out
}

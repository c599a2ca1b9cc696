package escrow

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryJournal is an in-process journal with the same accounting semantics as
// the Postgres one. Used by tests and as the ledger's journal when the service
// runs without a database-backed store.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Append(e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	j.entries = append(j.entries, e)
}

func (j *MemoryJournal) Balance(ctx context.Context) (decimal.Decimal, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	balance := decimal.Zero
	for _, e := range j.entries {
		if e.Direction == DirectionCredit {
			balance = balance.Add(e.Amount)
		} else {
			balance = balance.Sub(e.Amount)
		}
	}
	return balance, nil
}

func (j *MemoryJournal) Entries(ctx context.Context, projectID int64) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Entry, 0, 4)
	for _, e := range j.entries {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

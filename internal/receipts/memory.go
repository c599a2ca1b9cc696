package receipts

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory is an in-process registry with the same at-most-one-mint guarantee
// as the Postgres table.
type Memory struct {
	mu      sync.Mutex
	records map[int64]*Receipt
}

func NewMemory() *Memory {
	return &Memory{records: make(map[int64]*Receipt)}
}

func (m *Memory) Mint(projectID int64, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[projectID]; exists {
		return fmt.Errorf("%w: project %d", ErrAlreadyMinted, projectID)
	}
	m.records[projectID] = &Receipt{ProjectID: projectID, Owner: owner, MintedAt: time.Now()}
	return nil
}

func (m *Memory) OwnerOf(ctx context.Context, projectID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[projectID]
	if !ok {
		return "", fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	return rec.Owner, nil
}

func (m *Memory) Get(ctx context.Context, projectID int64) (*Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[projectID]
	if !ok {
		return nil, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	out := *rec
	return &out, nil
}

func (m *Memory) Transfer(ctx context.Context, projectID int64, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[projectID]
	if !ok {
		return fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	if rec.Owner != from {
		return fmt.Errorf("%w: project %d, caller %s", ErrNotOwner, projectID, from)
	}
	rec.Owner = to
	return nil
}

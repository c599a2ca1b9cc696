package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heritage-esg/escrow-backend/internal/escrow"
	"github.com/heritage-esg/escrow-backend/internal/ledger/domain"
	"github.com/heritage-esg/escrow-backend/internal/receipts"
)

// MemoryStore keeps the ledger in process, with a mutex per project standing
// in for the row lock the Postgres store takes. Ids are dense and start at 1.
type MemoryStore struct {
	mu       sync.Mutex
	projects map[int64]*domain.Project
	locks    map[int64]*sync.Mutex
	nextID   int64

	journal  *escrow.MemoryJournal
	registry *receipts.Memory
}

func NewMemoryStore(journal *escrow.MemoryJournal, registry *receipts.Memory) *MemoryStore {
	return &MemoryStore{
		projects: make(map[int64]*domain.Project),
		locks:    make(map[int64]*sync.Mutex),
		nextID:   1,
		journal:  journal,
		registry: registry,
	}
}

func (s *MemoryStore) Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	p := &domain.Project{
		ID:                s.nextID,
		Name:              req.Name,
		FundingGoal:       req.FundingGoal,
		Status:            domain.StatusWaiting,
		HeritageRecipient: req.HeritageRecipient,
		FundedAmount:      decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.projects[p.ID] = p
	s.locks[p.ID] = &sync.Mutex{}
	s.nextID++

	cp := *p
	return &cp, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrProjectNotFound, id)
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Project, 0, len(s.projects))
	for id := int64(1); id < s.nextID; id++ {
		if p, ok := s.projects[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *MemoryStore) NextProjectID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID, nil
}

// OutstandingTotal mirrors the Postgres reconciliation query.
func (s *MemoryStore) OutstandingTotal(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, p := range s.projects {
		if p.Status != domain.StatusCompleted {
			total = total.Add(p.FundedAmount)
		}
	}
	return total, nil
}

func (s *MemoryStore) Mutate(ctx context.Context, id int64, fn func(tx MutationTx) error) error {
	s.mu.Lock()
	lock, ok := s.locks[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: id %d", domain.ErrProjectNotFound, id)
	}

	// Held across the whole callback, external calls included, matching the
	// FOR UPDATE critical section of the Postgres store.
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	snapshot := *s.projects[id]
	s.mu.Unlock()

	m := &mutation{project: &snapshot}
	if err := fn(m); err != nil {
		return err
	}

	if m.mintOwner != "" {
		if err := s.registry.Mint(id, m.mintOwner); err != nil {
			return err
		}
	}
	for _, e := range m.entries {
		s.journal.Append(e)
	}
	if m.updated != nil {
		s.mu.Lock()
		up := *m.updated
		up.UpdatedAt = time.Now()
		s.projects[id] = &up
		s.mu.Unlock()
	}
	return nil
}

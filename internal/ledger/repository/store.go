package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/heritage-esg/escrow-backend/internal/escrow"
	"github.com/heritage-esg/escrow-backend/internal/ledger/domain"
)

// Store is the persistence port for the project ledger. Mutate is the only
// way to change an existing project: it runs fn with the project under a
// per-project exclusive lock, and everything fn stages — the project update,
// escrow entries, a receipt mint — commits or rolls back as one unit. fn
// returning an error aborts the whole mutation with no state change.
type Store interface {
	Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error)
	Get(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	NextProjectID(ctx context.Context) (int64, error)
	Mutate(ctx context.Context, id int64, fn func(tx MutationTx) error) error
}

// MutationTx is the staging surface handed to a Mutate callback.
type MutationTx interface {
	// Project returns a copy of the locked project row.
	Project() *domain.Project
	SetProject(p *domain.Project)
	CreditEscrow(amount decimal.Decimal, reference string)
	DebitEscrow(amount decimal.Decimal, reference string)
	MintReceipt(owner string)
}

// mutation collects staged effects; shared by the Postgres and memory stores.
type mutation struct {
	project   *domain.Project
	updated   *domain.Project
	entries   []escrow.Entry
	mintOwner string
}

func (m *mutation) Project() *domain.Project {
	cp := *m.project
	return &cp
}

func (m *mutation) SetProject(p *domain.Project) {
	cp := *p
	m.updated = &cp
}

func (m *mutation) CreditEscrow(amount decimal.Decimal, reference string) {
	m.entries = append(m.entries, escrow.Entry{
		ProjectID: m.project.ID,
		Direction: escrow.DirectionCredit,
		Amount:    amount,
		Reference: reference,
	})
}

func (m *mutation) DebitEscrow(amount decimal.Decimal, reference string) {
	m.entries = append(m.entries, escrow.Entry{
		ProjectID: m.project.ID,
		Direction: escrow.DirectionDebit,
		Amount:    amount,
		Reference: reference,
	})
}

func (m *mutation) MintReceipt(owner string) {
	m.mintOwner = owner
}

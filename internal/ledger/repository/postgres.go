package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heritage-esg/escrow-backend/internal/escrow"
	"github.com/heritage-esg/escrow-backend/internal/ledger/domain"
	"github.com/heritage-esg/escrow-backend/internal/receipts"
)

// PostgresStore persists projects in Postgres. Mutations hold the project row
// with SELECT ... FOR UPDATE for the duration of the callback, which gives the
// per-project serialization the lifecycle invariants rely on.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const projectColumns = `
id, name, funding_goal::text, status, heritage_recipient,
coalesce(funder, ''), funded_amount::text, coalesce(evidence_hash, ''),
created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	const q = `
insert into projects (name, funding_goal, status, heritage_recipient, funded_amount)
values ($1, $2::numeric, 'WAITING', $3, 0)
returning ` + projectColumns + `;`

	row := s.db.QueryRow(ctx, q, req.Name, req.FundingGoal.String(), req.HeritageRecipient)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*domain.Project, error) {
	const q = `select ` + projectColumns + ` from projects where id = $1;`

	p, err := scanProject(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrProjectNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]domain.Project, error) {
	const q = `select ` + projectColumns + ` from projects order by id;`

	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) NextProjectID(ctx context.Context) (int64, error) {
	const q = `select coalesce(max(id), 0) + 1 from projects;`

	var next int64
	if err := s.db.QueryRow(ctx, q).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to read next project id: %w", err)
	}
	return next, nil
}

// OutstandingTotal sums fundedAmount over projects still holding escrowed
// value. Used by the reconciliation worker.
func (s *PostgresStore) OutstandingTotal(ctx context.Context) (decimal.Decimal, error) {
	const q = `
select coalesce(sum(funded_amount), 0)::text
from projects
where status <> 'COMPLETED';`

	var raw string
	if err := s.db.QueryRow(ctx, q).Scan(&raw); err != nil {
		return decimal.Zero, fmt.Errorf("failed to read outstanding total: %w", err)
	}

	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse outstanding total %q: %w", raw, err)
	}
	return total, nil
}

func (s *PostgresStore) Mutate(ctx context.Context, id int64, fn func(tx MutationTx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `select ` + projectColumns + ` from projects where id = $1 for update;`

	p, err := scanProject(tx.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: id %d", domain.ErrProjectNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to lock project: %w", err)
	}

	m := &mutation{project: p}
	if err := fn(m); err != nil {
		return err
	}

	if m.updated != nil {
		const up = `
update projects
set status = $2,
    funder = nullif($3, ''),
    funded_amount = $4::numeric,
    evidence_hash = nullif($5, ''),
    updated_at = now()
where id = $1;`
		_, err := tx.Exec(ctx, up,
			id, string(m.updated.Status), m.updated.Funder,
			m.updated.FundedAmount.String(), m.updated.EvidenceHash)
		if err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
	}

	for _, e := range m.entries {
		if err := escrow.InsertTx(ctx, tx, e); err != nil {
			return err
		}
	}

	if m.mintOwner != "" {
		if err := receipts.MintTx(ctx, tx, id, m.mintOwner); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p          domain.Project
		goalRaw    string
		fundedRaw  string
		statusRaw  string
	)
	err := row.Scan(
		&p.ID, &p.Name, &goalRaw, &statusRaw, &p.HeritageRecipient,
		&p.Funder, &fundedRaw, &p.EvidenceHash,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.Status(statusRaw)
	if p.FundingGoal, err = decimal.NewFromString(goalRaw); err != nil {
		return nil, fmt.Errorf("failed to parse funding goal %q: %w", goalRaw, err)
	}
	if p.FundedAmount, err = decimal.NewFromString(fundedRaw); err != nil {
		return nil, fmt.Errorf("failed to parse funded amount %q: %w", fundedRaw, err)
	}
	return &p, nil
}

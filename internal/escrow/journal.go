package escrow

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Entry is one movement of custodied value. Credits record funds taken into
// escrow on funding; debits record the release to the heritage recipient on
// disbursement. The journal is append-only.
type Entry struct {
	ProjectID int64           `json:"project_id"`
	Direction Direction       `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
}

// InsertTx appends an entry inside an open ledger transaction so that escrow
// movements commit or roll back together with the project state change that
// caused them.
func InsertTx(ctx context.Context, tx pgx.Tx, e Entry) error {
	const q = `
insert into escrow_entries (project_id, direction, amount, reference)
values ($1, $2, $3::numeric, $4);
`
	if _, err := tx.Exec(ctx, q, e.ProjectID, string(e.Direction), e.Amount.String(), e.Reference); err != nil {
		return fmt.Errorf("failed to record escrow entry: %w", err)
	}
	return nil
}

// Journal reads custody totals from Postgres.
type Journal struct {
	db *pgxpool.Pool
}

func NewJournal(db *pgxpool.Pool) *Journal {
	return &Journal{db: db}
}

// Balance returns the total value currently held in custody: credits minus
// debits over the whole journal.
func (j *Journal) Balance(ctx context.Context) (decimal.Decimal, error) {
	const q = `
select coalesce(sum(case when direction = 'credit' then amount else -amount end), 0)::text
from escrow_entries;
`
	var raw string
	if err := j.db.QueryRow(ctx, q).Scan(&raw); err != nil {
		return decimal.Zero, fmt.Errorf("failed to read escrow balance: %w", err)
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse escrow balance %q: %w", raw, err)
	}
	return balance, nil
}

// Entries lists the journal for one project, oldest first.
func (j *Journal) Entries(ctx context.Context, projectID int64) ([]Entry, error) {
	const q = `
select project_id, direction, amount::text, reference, created_at
from escrow_entries
where project_id = $1
order by id;
`
	rows, err := j.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list escrow entries: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, 4)
	for rows.Next() {
		var (
			e   Entry
			raw string
		)
		if err := rows.Scan(&e.ProjectID, &e.Direction, &raw, &e.Reference, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("failed to parse entry amount %q: %w", raw, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

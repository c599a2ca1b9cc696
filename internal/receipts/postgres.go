package receipts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MintTx creates the ownership record inside an open ledger transaction, so a
// failed disbursement rolls the mint back as well. A second mint for the same
// project hits the primary key and fails with ErrAlreadyMinted.
func MintTx(ctx context.Context, tx pgx.Tx, projectID int64, owner string) error {
	const q = `insert into receipts (project_id, owner_address) values ($1, $2);`

	if _, err := tx.Exec(ctx, q, projectID, owner); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: project %d", ErrAlreadyMinted, projectID)
		}
		return fmt.Errorf("failed to mint receipt: %w", err)
	}
	return nil
}

// PostgresRegistry serves receipt lookups and holder-initiated transfers.
type PostgresRegistry struct {
	db *pgxpool.Pool
}

func NewPostgresRegistry(db *pgxpool.Pool) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

func (r *PostgresRegistry) OwnerOf(ctx context.Context, projectID int64) (string, error) {
	const q = `select owner_address from receipts where project_id = $1;`

	var owner string
	err := r.db.QueryRow(ctx, q, projectID).Scan(&owner)
	if err == pgx.ErrNoRows {
		return "", fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up receipt owner: %w", err)
	}
	return owner, nil
}

func (r *PostgresRegistry) Get(ctx context.Context, projectID int64) (*Receipt, error) {
	const q = `select project_id, owner_address, minted_at from receipts where project_id = $1;`

	var rec Receipt
	err := r.db.QueryRow(ctx, q, projectID).Scan(&rec.ProjectID, &rec.Owner, &rec.MintedAt)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return &rec, nil
}

func (r *PostgresRegistry) Transfer(ctx context.Context, projectID int64, from, to string) error {
	const q = `update receipts set owner_address = $3 where project_id = $1 and owner_address = $2;`

	ct, err := r.db.Exec(ctx, q, projectID, from, to)
	if err != nil {
		return fmt.Errorf("failed to transfer receipt: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either unminted or held by someone else; look up which.
		if _, err := r.OwnerOf(ctx, projectID); err != nil {
			return err
		}
		return fmt.Errorf("%w: project %d, caller %s", ErrNotOwner, projectID, from)
	}
	return nil
}

package receipts

import (
	"context"
	"errors"
	"time"
)

// A completion receipt is the durable, transferable proof that a project was
// funded and completed. Exactly one exists per completed project, keyed by the
// project id and minted to the funder by the ledger; it is never minted or
// transferred by anyone else on the holder's behalf.
type Receipt struct {
	ProjectID int64     `json:"project_id"`
	Owner     string    `json:"owner"`
	MintedAt  time.Time `json:"minted_at"`
}

var (
	ErrNotFound      = errors.New("receipt not found")
	ErrAlreadyMinted = errors.New("receipt already minted")
	ErrNotOwner      = errors.New("caller does not own receipt")
)

// Registry is the ownership store shared by the Postgres and in-memory
// implementations.
type Registry interface {
	OwnerOf(ctx context.Context, projectID int64) (string, error)
	Get(ctx context.Context, projectID int64) (*Receipt, error)
	// Transfer moves ownership; from must be the current owner.
	Transfer(ctx context.Context, projectID int64, from, to string) error
}

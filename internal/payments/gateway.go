package payments

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrTransferFailed is returned when the external payment could not be
// completed. The ledger rolls the whole disbursement back when it sees this.
var ErrTransferFailed = errors.New("transfer failed")

// Gateway is the outbound payment rail used to release escrowed funds.
// Disbursement is a single attempt per reference; the ledger does not retry.
type Gateway interface {
	// Transfer sends amount to the recipient account. reference is an
	// idempotency key unique to one disbursement attempt.
	Transfer(ctx context.Context, to string, amount decimal.Decimal, reference string) error
}

package reconcile

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

// CustodyReader reports the total value the escrow journal says we hold.
type CustodyReader interface {
	Balance(ctx context.Context) (decimal.Decimal, error)
}

// OutstandingReader reports the funded amount still owed across projects that
// have not completed.
type OutstandingReader interface {
	OutstandingTotal(ctx context.Context) (decimal.Decimal, error)
}

// Report is the outcome of one reconciliation pass. The two totals must be
// equal at all times; drift means an escrow invariant was violated somewhere.
type Report struct {
	CustodiedBalance decimal.Decimal `json:"custodied_balance"`
	OutstandingTotal decimal.Decimal `json:"outstanding_total"`
	Balanced         bool            `json:"balanced"`
}

type Reconciler struct {
	custody CustodyReader
	ledger  OutstandingReader
}

func New(custody CustodyReader, ledger OutstandingReader) *Reconciler {
	return &Reconciler{custody: custody, ledger: ledger}
}

func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	balance, err := r.custody.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read custodied balance: %w", err)
	}

	outstanding, err := r.ledger.OutstandingTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read outstanding total: %w", err)
	}

	report := &Report{
		CustodiedBalance: balance,
		OutstandingTotal: outstanding,
		Balanced:         balance.Equal(outstanding),
	}

	if report.Balanced {
		log.Printf("reconcile: balanced, custody=%s", balance)
	} else {
		log.Printf("reconcile: DRIFT detected, custody=%s outstanding=%s diff=%s",
			balance, outstanding, balance.Sub(outstanding))
	}

	return report, nil
}

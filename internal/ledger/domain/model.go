package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle stage of a restoration project. Transitions only
// ever move forward: WAITING -> FUNDED -> COMPLETED.
type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusFunded    Status = "FUNDED"
	StatusCompleted Status = "COMPLETED"
)

// Project is the central ledger entity. Name, funding goal and recipient are
// fixed at creation; funder and funded amount are set exactly once when the
// project is funded; the evidence hash may be overwritten while FUNDED.
type Project struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	FundingGoal       decimal.Decimal `json:"funding_goal"`
	Status            Status          `json:"status"`
	HeritageRecipient string          `json:"heritage_recipient"`
	Funder            string          `json:"funder,omitempty"`
	FundedAmount      decimal.Decimal `json:"funded_amount"`
	EvidenceHash      string          `json:"evidence_hash,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// CreateProjectRequest carries the caller-supplied fields for a new project.
type CreateProjectRequest struct {
	Name              string
	FundingGoal       decimal.Decimal
	HeritageRecipient string
}

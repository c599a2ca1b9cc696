package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published on project transitions. External observers subscribe
// and read state via the query API; the ledger never depends on a listener.
const (
	TypeProjectCreated    = "project.created"
	TypeProjectFunded     = "project.funded"
	TypeEvidenceSubmitted = "evidence.submitted"
	TypeProjectCompleted  = "project.completed"
)

type Event struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	ProjectID    int64     `json:"project_id"`
	Amount       string    `json:"amount,omitempty"`
	Funder       string    `json:"funder,omitempty"`
	Recipient    string    `json:"recipient,omitempty"`
	EvidenceHash string    `json:"evidence_hash,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// New stamps an event with a fresh id and timestamp.
func New(eventType string, projectID int64) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		ProjectID:  projectID,
		OccurredAt: time.Now().UTC(),
	}
}

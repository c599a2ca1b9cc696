package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heritage-esg/escrow-backend/internal/events"
	"github.com/heritage-esg/escrow-backend/internal/ledger/domain"
	"github.com/heritage-esg/escrow-backend/internal/ledger/repository"
	"github.com/heritage-esg/escrow-backend/internal/payments"
	"github.com/heritage-esg/escrow-backend/internal/roles"
)

// RoleChecker answers role membership queries. Satisfied by roles.Repo.
type RoleChecker interface {
	HasRole(ctx context.Context, role roles.Role, address string) (bool, error)
}

// Service drives the project lifecycle: WAITING -> FUNDED -> COMPLETED.
// Every mutation runs inside the store's per-project critical section, so no
// two calls ever interleave on the same project.
type Service struct {
	store   repository.Store
	roles   RoleChecker
	gateway payments.Gateway
	events  events.Publisher
}

func New(store repository.Store, rc RoleChecker, gateway payments.Gateway, publisher events.Publisher) *Service {
	return &Service{
		store:   store,
		roles:   rc,
		gateway: gateway,
		events:  publisher,
	}
}

// CreateProject registers a new restoration project in WAITING state. Only
// HERITAGE-role callers may create; the funding goal must be strictly
// positive. No value moves here.
func (s *Service) CreateProject(ctx context.Context, caller string, req domain.CreateProjectRequest) (*domain.Project, error) {
	if err := s.requireRole(ctx, roles.RoleHeritage, caller); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: project name is required", domain.ErrBadInput)
	}
	if !req.FundingGoal.IsPositive() {
		return nil, fmt.Errorf("%w: funding goal must be positive, got %s", domain.ErrBadInput, req.FundingGoal)
	}
	if strings.TrimSpace(req.HeritageRecipient) == "" {
		return nil, fmt.Errorf("%w: heritage recipient is required", domain.ErrBadInput)
	}

	p, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	e := events.New(events.TypeProjectCreated, p.ID)
	e.Amount = p.FundingGoal.String()
	e.Recipient = p.HeritageRecipient
	s.publish(ctx, e)

	return p, nil
}

// FundProject escrows the full funding goal from an SME caller. The amount
// must match the goal exactly; anything else is rejected before any value is
// taken, so a rejected call never captures the caller's funds.
func (s *Service) FundProject(ctx context.Context, caller string, id int64, amount decimal.Decimal) (*domain.Project, error) {
	if err := s.requireRole(ctx, roles.RoleSME, caller); err != nil {
		return nil, err
	}

	var funded *domain.Project
	err := s.store.Mutate(ctx, id, func(tx repository.MutationTx) error {
		p := tx.Project()

		if p.Status != domain.StatusWaiting {
			return fmt.Errorf("%w: project %d is %s, not WAITING", domain.ErrWrongState, id, p.Status)
		}
		if !amount.Equal(p.FundingGoal) {
			return fmt.Errorf("%w: project %d requires exactly %s, got %s",
				domain.ErrBadInput, id, p.FundingGoal, amount)
		}

		p.Status = domain.StatusFunded
		p.Funder = caller
		p.FundedAmount = amount

		tx.SetProject(p)
		tx.CreditEscrow(amount, fmt.Sprintf("funding:%d", id))
		funded = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	e := events.New(events.TypeProjectFunded, id)
	e.Amount = funded.FundedAmount.String()
	e.Funder = funded.Funder
	s.publish(ctx, e)

	return funded, nil
}

// SubmitEvidence attaches a progress-proof fingerprint to a FUNDED project.
// Only the project's designated heritage recipient may submit, and the hash
// may be overwritten any number of times before disbursement; the last write
// wins.
func (s *Service) SubmitEvidence(ctx context.Context, caller string, id int64, evidenceHash string) (*domain.Project, error) {
	if strings.TrimSpace(evidenceHash) == "" {
		return nil, fmt.Errorf("%w: evidence hash is required", domain.ErrBadInput)
	}

	var updated *domain.Project
	err := s.store.Mutate(ctx, id, func(tx repository.MutationTx) error {
		p := tx.Project()

		if p.Status != domain.StatusFunded {
			return fmt.Errorf("%w: project %d is %s, not FUNDED", domain.ErrWrongState, id, p.Status)
		}
		if caller != p.HeritageRecipient {
			return fmt.Errorf("%w: project %d, caller %s", domain.ErrNotRecipient, id, caller)
		}

		p.EvidenceHash = evidenceHash
		tx.SetProject(p)
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	e := events.New(events.TypeEvidenceSubmitted, id)
	e.EvidenceHash = evidenceHash
	s.publish(ctx, e)

	return updated, nil
}

// ApproveAndDisburse releases the escrowed value to the heritage recipient
// and mints the completion receipt to the funder, as a single irreversible
// transition. The external payment happens inside the project's critical
// section, before any state is committed: if the transfer fails the project
// stays FUNDED, no receipt exists, and the escrow journal is untouched. A
// second call for the same project fails with WrongState, which makes the
// payout and the receipt at-most-once.
func (s *Service) ApproveAndDisburse(ctx context.Context, caller string, id int64) (*domain.Project, error) {
	if err := s.requireRole(ctx, roles.RoleBank, caller); err != nil {
		return nil, err
	}

	var completed *domain.Project
	err := s.store.Mutate(ctx, id, func(tx repository.MutationTx) error {
		p := tx.Project()

		if p.Status != domain.StatusFunded {
			return fmt.Errorf("%w: project %d is %s, not FUNDED", domain.ErrWrongState, id, p.Status)
		}

		reference := uuid.New().String()
		if err := s.gateway.Transfer(ctx, p.HeritageRecipient, p.FundedAmount, reference); err != nil {
			return err
		}

		p.Status = domain.StatusCompleted
		tx.SetProject(p)
		tx.DebitEscrow(p.FundedAmount, reference)
		tx.MintReceipt(p.Funder)
		completed = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	e := events.New(events.TypeProjectCompleted, id)
	e.Amount = completed.FundedAmount.String()
	e.Funder = completed.Funder
	e.Recipient = completed.HeritageRecipient
	s.publish(ctx, e)

	return completed, nil
}

func (s *Service) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.store.List(ctx)
}

// NextProjectID exposes the ledger's id counter, mirroring the sequence the
// next created project will receive.
func (s *Service) NextProjectID(ctx context.Context) (int64, error) {
	return s.store.NextProjectID(ctx)
}

func (s *Service) requireRole(ctx context.Context, role roles.Role, caller string) error {
	ok, err := s.roles.HasRole(ctx, role, caller)
	if err != nil {
		return fmt.Errorf("failed to check role: %w", err)
	}
	if !ok {
		return roles.Unauthorized(caller, role)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		log.Printf("Warning: failed to publish %s event for project %d: %v", e.Type, e.ProjectID, err)
	}
}

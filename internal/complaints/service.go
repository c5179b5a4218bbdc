package complaints

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the complaint workflow operations.
type Service interface {
	Get(ctx context.Context, complaintID uuid.UUID) (*models.Complaint, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Complaint, error)
	Process(ctx context.Context, input DecisionInput) (*models.Complaint, error)
	Resolve(ctx context.Context, input DecisionInput) (*models.Complaint, error)
	Reject(ctx context.Context, input DecisionInput) (*models.Complaint, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// ActorInput identifies the admin performing a mutation, for audit events.
type ActorInput struct {
	ActorAdminID   uuid.UUID
	ActorRole      enums.AdminRole
	ActorIP        string
	ActorUserAgent string
}

// DecisionInput carries a workflow transition on a complaint ticket.
type DecisionInput struct {
	ComplaintID uuid.UUID
	Notes       string
	ActorInput
}

// NewService builds a complaints service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("complaints repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc}, nil
}

func (s *service) Get(ctx context.Context, complaintID uuid.UUID) (*models.Complaint, error) {
	complaint, err := s.repo.FindComplaint(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find complaint")
	}
	return complaint, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Complaint, error) {
	complaints, err := s.repo.ListComplaintsByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list complaints")
	}
	return complaints, nil
}

// Process picks up a pending ticket.
func (s *service) Process(ctx context.Context, input DecisionInput) (*models.Complaint, error) {
	return s.transition(ctx, input, enums.ComplaintStatusProcessing,
		[]enums.ComplaintStatus{enums.ComplaintStatusPending})
}

// Resolve closes a ticket successfully, from either pending or processing.
func (s *service) Resolve(ctx context.Context, input DecisionInput) (*models.Complaint, error) {
	return s.transition(ctx, input, enums.ComplaintStatusResolved,
		[]enums.ComplaintStatus{enums.ComplaintStatusPending, enums.ComplaintStatusProcessing})
}

// Reject closes a ticket without remedy. Notes are required at the API
// boundary.
func (s *service) Reject(ctx context.Context, input DecisionInput) (*models.Complaint, error) {
	return s.transition(ctx, input, enums.ComplaintStatusRejected,
		[]enums.ComplaintStatus{enums.ComplaintStatusPending, enums.ComplaintStatusProcessing})
}

func (s *service) transition(ctx context.Context, input DecisionInput, target enums.ComplaintStatus, allowedFrom []enums.ComplaintStatus) (*models.Complaint, error) {
	if input.ActorAdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "handling admin required")
	}

	var complaint *models.Complaint
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		complaint, err = repo.FindComplaint(ctx, input.ComplaintID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find complaint")
		}

		fromStatus := complaint.Status
		if !statusIn(fromStatus, allowedFrom) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("complaint in %s cannot move to %s", fromStatus, target))
		}

		now := time.Now().UTC()
		adminID := input.ActorAdminID
		updates := map[string]any{
			"status":     target,
			"handled_by": adminID,
		}
		complaint.HandledBy = &adminID
		if target == enums.ComplaintStatusResolved || target == enums.ComplaintStatusRejected {
			updates["resolved_at"] = now
			complaint.ResolvedAt = &now
			if input.Notes != "" {
				updates["resolution_notes"] = input.Notes
				complaint.ResolutionNotes = &input.Notes
			}
		}
		if err := repo.UpdateComplaint(ctx, complaint.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update complaint")
		}
		complaint.Status = target

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventComplaintStatusChanged,
			AggregateType: enums.AggregateComplaint,
			AggregateID:   complaint.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.ComplaintStatusChangedEvent{
				ComplaintID:     complaint.ID,
				OrderID:         complaint.OrderID,
				FromStatus:      fromStatus,
				ToStatus:        target,
				HandledBy:       complaint.HandledBy,
				ResolutionNotes: input.Notes,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

func statusIn(status enums.ComplaintStatus, allowed []enums.ComplaintStatus) bool {
	for _, candidate := range allowed {
		if candidate == status {
			return true
		}
	}
	return false
}

func buildActor(input ActorInput) *outbox.ActorRef {
	if input.ActorAdminID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{
		AdminID:   input.ActorAdminID,
		Role:      string(input.ActorRole),
		IP:        input.ActorIP,
		UserAgent: input.ActorUserAgent,
	}
}

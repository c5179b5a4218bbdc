package payments

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
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the manual verification flows for payment proofs and
// standalone payment records.
type Service interface {
	VerifyProof(ctx context.Context, input ProofDecisionInput) (*models.PaymentProof, error)
	RejectProof(ctx context.Context, input ProofDecisionInput) (*models.PaymentProof, error)
	VerifyPayment(ctx context.Context, input PaymentDecisionInput) (*models.Payment, error)
	RejectPayment(ctx context.Context, input PaymentDecisionInput) (*models.Payment, error)
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

// ProofDecisionInput carries a verify or reject call on a payment proof.
// Notes are required for rejection at the API boundary.
type ProofDecisionInput struct {
	ProofID uuid.UUID
	Notes   string
	ActorInput
}

// PaymentDecisionInput carries a verify or reject call on a payment record.
type PaymentDecisionInput struct {
	PaymentID uuid.UUID
	Notes     string
	ActorInput
}

// NewService builds a payments service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc}, nil
}

// VerifyProof marks the proof verified and advances the order to processing.
// Repeat calls re-stamp the verifier and timestamp; last writer wins.
func (s *service) VerifyProof(ctx context.Context, input ProofDecisionInput) (*models.PaymentProof, error) {
	return s.decideProof(ctx, input, enums.PaymentStatusVerified)
}

// RejectProof marks the proof rejected, clears any earlier verification, and
// reverts the order to awaiting payment.
func (s *service) RejectProof(ctx context.Context, input ProofDecisionInput) (*models.PaymentProof, error) {
	return s.decideProof(ctx, input, enums.PaymentStatusRejected)
}

func (s *service) decideProof(ctx context.Context, input ProofDecisionInput, decision enums.PaymentStatus) (*models.PaymentProof, error) {
	if input.ActorAdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deciding admin required")
	}

	var proof *models.PaymentProof
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		proof, err = repo.FindPaymentProof(ctx, input.ProofID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment proof not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find payment proof")
		}

		order, err := repo.FindOrder(ctx, proof.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find owning order")
		}

		now := time.Now().UTC()
		var proofUpdates map[string]any
		var orderStatus enums.OrderStatus
		var eventType enums.OutboxEventType

		switch decision {
		case enums.PaymentStatusVerified:
			proofUpdates = map[string]any{
				"status":          enums.PaymentStatusVerified,
				"verified_by":     input.ActorAdminID,
				"verified_at":     now,
				"rejection_notes": nil,
			}
			adminID := input.ActorAdminID
			proof.VerifiedBy = &adminID
			proof.VerifiedAt = &now
			proof.RejectionNotes = nil
			orderStatus = enums.OrderStatusProcessing
			eventType = enums.EventPaymentProofVerified
		case enums.PaymentStatusRejected:
			proofUpdates = map[string]any{
				"status":          enums.PaymentStatusRejected,
				"verified_by":     nil,
				"verified_at":     nil,
				"rejection_notes": input.Notes,
			}
			proof.VerifiedBy = nil
			proof.VerifiedAt = nil
			proof.RejectionNotes = &input.Notes
			orderStatus = enums.OrderStatusAwaitingPayment
			eventType = enums.EventPaymentProofRejected
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid proof decision %q", decision))
		}
		proof.Status = decision

		if err := repo.UpdatePaymentProof(ctx, proof.ID, proofUpdates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment proof")
		}
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"status": orderStatus}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply proof decision to order")
		}

		event := outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregatePaymentProof,
			AggregateID:   proof.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.PaymentProofDecisionEvent{
				ProofID:     proof.ID,
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				Status:      decision,
				VerifiedBy:  input.ActorAdminID,
				Notes:       input.Notes,
				DecidedAt:   now,
			},
		}
		// Verify re-stamps are idempotent on the flag; only the first
		// verification of a proof produces an event. Rejections always do.
		if decision == enums.PaymentStatusVerified {
			return s.outbox.EmitIfNotExists(ctx, tx, event)
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return proof, nil
}

// VerifyPayment marks a standalone payment record verified. No order coupling.
func (s *service) VerifyPayment(ctx context.Context, input PaymentDecisionInput) (*models.Payment, error) {
	return s.decidePayment(ctx, input, enums.PaymentStatusVerified)
}

// RejectPayment marks a standalone payment record rejected.
func (s *service) RejectPayment(ctx context.Context, input PaymentDecisionInput) (*models.Payment, error) {
	return s.decidePayment(ctx, input, enums.PaymentStatusRejected)
}

func (s *service) decidePayment(ctx context.Context, input PaymentDecisionInput, decision enums.PaymentStatus) (*models.Payment, error) {
	if input.ActorAdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deciding admin required")
	}

	var payment *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		payment, err = repo.FindPayment(ctx, input.PaymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find payment")
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": decision}
		eventType := enums.EventPaymentVerified
		switch decision {
		case enums.PaymentStatusVerified:
			updates["verified_by"] = input.ActorAdminID
			updates["verified_at"] = now
			adminID := input.ActorAdminID
			payment.VerifiedBy = &adminID
			payment.VerifiedAt = &now
		case enums.PaymentStatusRejected:
			updates["verified_by"] = nil
			updates["verified_at"] = nil
			payment.VerifiedBy = nil
			payment.VerifiedAt = nil
			eventType = enums.EventPaymentRejected
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment decision %q", decision))
		}
		if input.Notes != "" {
			updates["notes"] = input.Notes
			payment.Notes = &input.Notes
		}
		payment.Status = decision

		if err := repo.UpdatePayment(ctx, payment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment")
		}

		orderID := uuid.Nil
		if payment.OrderID != nil {
			orderID = *payment.OrderID
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregatePayment,
			AggregateID:   payment.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.PaymentDecisionEvent{
				PaymentID:  payment.ID,
				OrderID:    orderID,
				Status:     decision,
				VerifiedBy: input.ActorAdminID,
				Notes:      input.Notes,
				DecidedAt:  now,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
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

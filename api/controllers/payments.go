package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/api/responses"
	"github.com/dimasprakoso/lokalive-backend/api/validators"
	"github.com/dimasprakoso/lokalive-backend/internal/payments"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
)

type paymentDecisionRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=500"`
}

func proofDecisionInput(r *http.Request, proofID uuid.UUID, notes string) payments.ProofDecisionInput {
	actor := actorFrom(r)
	return payments.ProofDecisionInput{
		ProofID: proofID,
		Notes:   validators.SanitizeString(notes, 500),
		ActorInput: payments.ActorInput{
			ActorAdminID:   actor.AdminID,
			ActorRole:      actor.Role,
			ActorIP:        actor.IP,
			ActorUserAgent: actor.UserAgent,
		},
	}
}

func paymentDecisionInput(r *http.Request, paymentID uuid.UUID, notes string) payments.PaymentDecisionInput {
	actor := actorFrom(r)
	return payments.PaymentDecisionInput{
		PaymentID: paymentID,
		Notes:     validators.SanitizeString(notes, 500),
		ActorInput: payments.ActorInput{
			ActorAdminID:   actor.AdminID,
			ActorRole:      actor.Role,
			ActorIP:        actor.IP,
			ActorUserAgent: actor.UserAgent,
		},
	}
}

// VerifyPaymentProof accepts a manual transfer proof and advances the order.
func VerifyPaymentProof(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proofID, err := validators.PathUUID(chi.URLParam(r, "proofID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paymentDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		proof, err := svc.VerifyProof(r.Context(), proofDecisionInput(r, proofID, body.Notes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, proof)
	}
}

// RejectPaymentProof declines a manual transfer proof. Rejections must carry
// notes so the customer sees a reason.
func RejectPaymentProof(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proofID, err := validators.PathUUID(chi.URLParam(r, "proofID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paymentDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if strings.TrimSpace(body.Notes) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "rejection notes required"))
			return
		}

		proof, err := svc.RejectProof(r.Context(), proofDecisionInput(r, proofID, body.Notes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, proof)
	}
}

// VerifyPayment settles a payment record directly.
func VerifyPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID, err := validators.PathUUID(chi.URLParam(r, "paymentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paymentDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.VerifyPayment(r.Context(), paymentDecisionInput(r, paymentID, body.Notes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

// RejectPayment declines a payment record. Same notes rule as proof
// rejections.
func RejectPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID, err := validators.PathUUID(chi.URLParam(r, "paymentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paymentDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if strings.TrimSpace(body.Notes) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "rejection notes required"))
			return
		}

		payment, err := svc.RejectPayment(r.Context(), paymentDecisionInput(r, paymentID, body.Notes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

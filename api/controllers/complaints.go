package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/api/responses"
	"github.com/dimasprakoso/lokalive-backend/api/validators"
	"github.com/dimasprakoso/lokalive-backend/internal/complaints"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
)

type complaintDecisionRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

func complaintDecisionInput(r *http.Request, complaintID uuid.UUID, notes string) complaints.DecisionInput {
	actor := actorFrom(r)
	return complaints.DecisionInput{
		ComplaintID: complaintID,
		Notes:       validators.SanitizeString(notes, 1000),
		ActorInput: complaints.ActorInput{
			ActorAdminID:   actor.AdminID,
			ActorRole:      actor.Role,
			ActorIP:        actor.IP,
			ActorUserAgent: actor.UserAgent,
		},
	}
}

// GetComplaint returns one complaint.
func GetComplaint(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		complaintID, err := validators.PathUUID(chi.URLParam(r, "complaintID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		complaint, err := svc.Get(r.Context(), complaintID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, complaint)
	}
}

// ListOrderComplaints returns the complaints filed against an order.
func ListOrderComplaints(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ProcessComplaint moves a submitted complaint into handling.
func ProcessComplaint(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		complaintID, err := validators.PathUUID(chi.URLParam(r, "complaintID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body complaintDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		complaint, err := svc.Process(r.Context(), complaintDecisionInput(r, complaintID, body.Notes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, complaint)
	}
}

// ResolveComplaint closes a complaint in the customer's favour.
func ResolveComplaint(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		complaintID, err := validators.PathUUID(chi.URLParam(r, "complaintID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body complaintDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		complaint, err := svc.Resolve(r.Context(), complaintDecisionInput(r, complaintID, body.Notes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, complaint)
	}
}

// RejectComplaint declines a complaint. Rejections must carry notes so the
// customer sees a reason.
func RejectComplaint(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		complaintID, err := validators.PathUUID(chi.URLParam(r, "complaintID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body complaintDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if strings.TrimSpace(body.Notes) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "rejection notes required"))
			return
		}

		complaint, err := svc.Reject(r.Context(), complaintDecisionInput(r, complaintID, body.Notes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, complaint)
	}
}

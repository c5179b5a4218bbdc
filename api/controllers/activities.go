package controllers

import (
	"net/http"
	"strings"

	"github.com/dimasprakoso/lokalive-backend/api/responses"
	"github.com/dimasprakoso/lokalive-backend/api/validators"
	"github.com/dimasprakoso/lokalive-backend/internal/audit"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

// ListActivities returns the audit trail with optional filters.
func ListActivities(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := audit.Filters{
			Action:      validators.SanitizeString(r.URL.Query().Get("action"), 120),
			SubjectType: validators.SanitizeString(r.URL.Query().Get("subject_type"), 60),
		}
		if filters.AdminID, err = validators.ParseQueryUUID(r, "admin_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.DateFrom, err = validators.ParseQueryDate(r, "date_from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.DateTo, err = validators.ParseQueryDate(r, "date_to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

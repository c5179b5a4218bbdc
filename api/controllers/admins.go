package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dimasprakoso/lokalive-backend/api/responses"
	"github.com/dimasprakoso/lokalive-backend/api/validators"
	"github.com/dimasprakoso/lokalive-backend/internal/admins"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

type createAdminRequest struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	Role        string   `json:"role" validate:"required"`
	Permissions []string `json:"permissions"`
}

type updateAdminRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=120"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role"`
}

type setPermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

// CreateAdmin registers an admin account.
func CreateAdmin(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createAdminRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFrom(r)
		admin, err := svc.Create(r.Context(), admins.CreateInput{
			Name:        validators.SanitizeString(body.Name, 120),
			Email:       body.Email,
			Password:    body.Password,
			Role:        enums.AdminRole(body.Role),
			Permissions: body.Permissions,
			ActorInput: admins.ActorInput{
				ActorAdminID:   actor.AdminID,
				ActorRole:      actor.Role,
				ActorIP:        actor.IP,
				ActorUserAgent: actor.UserAgent,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, admin)
	}
}

// GetAdmin returns one admin account.
func GetAdmin(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := validators.PathUUID(chi.URLParam(r, "adminID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		admin, err := svc.Get(r.Context(), adminID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, admin)
	}
}

// ListAdmins returns a paginated admin account page with optional filters.
func ListAdmins(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := admins.Filters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 120),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role := enums.AdminRole(raw)
			if !role.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role filter"))
				return
			}
			filters.Role = &role
		}
		if filters.IsActive, err = validators.ParseQueryBool(r, "is_active"); err != nil {
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

// UpdateAdmin mutates an admin account.
func UpdateAdmin(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := validators.PathUUID(chi.URLParam(r, "adminID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateAdminRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var role *enums.AdminRole
		if body.Role != nil {
			parsed := enums.AdminRole(*body.Role)
			role = &parsed
		}

		actor := actorFrom(r)
		admin, err := svc.Update(r.Context(), admins.UpdateInput{
			AdminID:  adminID,
			Name:     body.Name,
			Email:    body.Email,
			Password: body.Password,
			Role:     role,
			ActorInput: admins.ActorInput{
				ActorAdminID:   actor.AdminID,
				ActorRole:      actor.Role,
				ActorIP:        actor.IP,
				ActorUserAgent: actor.UserAgent,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, admin)
	}
}

// DeleteAdmin removes an admin account.
func DeleteAdmin(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := validators.PathUUID(chi.URLParam(r, "adminID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFrom(r)
		if err := svc.Delete(r.Context(), admins.DeleteInput{
			AdminID: adminID,
			ActorInput: admins.ActorInput{
				ActorAdminID:   actor.AdminID,
				ActorRole:      actor.Role,
				ActorIP:        actor.IP,
				ActorUserAgent: actor.UserAgent,
			},
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ToggleAdminStatus flips an account between active and deactivated.
func ToggleAdminStatus(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := validators.PathUUID(chi.URLParam(r, "adminID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFrom(r)
		admin, err := svc.ToggleStatus(r.Context(), admins.ToggleInput{
			AdminID: adminID,
			ActorInput: admins.ActorInput{
				ActorAdminID:   actor.AdminID,
				ActorRole:      actor.Role,
				ActorIP:        actor.IP,
				ActorUserAgent: actor.UserAgent,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, admin)
	}
}

// SetAdminPermissions replaces the explicit permission list on an account.
func SetAdminPermissions(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := validators.PathUUID(chi.URLParam(r, "adminID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setPermissionsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFrom(r)
		admin, err := svc.SetPermissions(r.Context(), admins.PermissionsInput{
			AdminID:     adminID,
			Permissions: body.Permissions,
			ActorInput: admins.ActorInput{
				ActorAdminID:   actor.AdminID,
				ActorRole:      actor.Role,
				ActorIP:        actor.IP,
				ActorUserAgent: actor.UserAgent,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, admin)
	}
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dimasprakoso/lokalive-backend/api/responses"
	"github.com/dimasprakoso/lokalive-backend/api/validators"
	"github.com/dimasprakoso/lokalive-backend/internal/templates"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
)

type createTemplateRequest struct {
	Name string `json:"name" validate:"required,max=120"`
	Body string `json:"body" validate:"required,max=2000"`
}

type updateTemplateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=120"`
	Body     *string `json:"body" validate:"omitempty,max=2000"`
	IsActive *bool   `json:"is_active"`
}

type renderTemplateRequest struct {
	Variables map[string]string `json:"variables" validate:"required"`
}

// CreateTemplate registers a WhatsApp notification template.
func CreateTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createTemplateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		template, err := svc.Create(r.Context(), templates.CreateInput{
			Name:      validators.SanitizeString(body.Name, 120),
			Body:      body.Body,
			CreatedBy: actorFrom(r).AdminID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, template)
	}
}

// GetTemplate returns one template.
func GetTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateID, err := validators.PathUUID(chi.URLParam(r, "templateID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		template, err := svc.Get(r.Context(), templateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, template)
	}
}

// ListTemplates returns templates, optionally only active ones.
func ListTemplates(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly, err := validators.ParseQueryBool(r, "active_only")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), activeOnly != nil && *activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// UpdateTemplate mutates a template.
func UpdateTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateID, err := validators.PathUUID(chi.URLParam(r, "templateID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateTemplateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		template, err := svc.Update(r.Context(), templates.UpdateInput{
			TemplateID: templateID,
			Name:       body.Name,
			Body:       body.Body,
			IsActive:   body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, template)
	}
}

// DeleteTemplate removes a template.
func DeleteTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateID, err := validators.PathUUID(chi.URLParam(r, "templateID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), templateID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// RenderTemplate previews a template with the provided variables.
func RenderTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateID, err := validators.PathUUID(chi.URLParam(r, "templateID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body renderTemplateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rendered, err := svc.Render(r.Context(), templateID, body.Variables)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"rendered": rendered})
	}
}

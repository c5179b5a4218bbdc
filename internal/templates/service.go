package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
)

// Service defines WhatsApp template management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.WhatsAppTemplate, error)
	Get(ctx context.Context, templateID uuid.UUID) (*models.WhatsAppTemplate, error)
	List(ctx context.Context, activeOnly bool) ([]models.WhatsAppTemplate, error)
	Update(ctx context.Context, input UpdateInput) (*models.WhatsAppTemplate, error)
	Delete(ctx context.Context, templateID uuid.UUID) error
	Render(ctx context.Context, templateID uuid.UUID, vars map[string]string) (string, error)
}

type service struct {
	repo Repository
}

// CreateInput provisions a new template.
type CreateInput struct {
	Name      string
	Body      string
	CreatedBy uuid.UUID
}

// UpdateInput mutates a template. Nil fields are left alone.
type UpdateInput struct {
	TemplateID uuid.UUID
	Name       *string
	Body       *string
	IsActive   *bool
}

// NewService builds a templates service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("templates repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.WhatsAppTemplate, error) {
	name := strings.TrimSpace(input.Name)
	body := strings.TrimSpace(input.Body)
	if name == "" || body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template name and body required")
	}
	if input.CreatedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creating admin required")
	}

	if _, err := s.repo.FindTemplateByName(ctx, name); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "template name already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check template name")
	}

	template := &models.WhatsAppTemplate{
		Name:      name,
		Body:      body,
		IsActive:  true,
		CreatedBy: input.CreatedBy,
	}
	created, err := s.repo.CreateTemplate(ctx, template)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create template")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, templateID uuid.UUID) (*models.WhatsAppTemplate, error) {
	template, err := s.repo.FindTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find template")
	}
	return template, nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.WhatsAppTemplate, error) {
	templates, err := s.repo.ListTemplates(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list templates")
	}
	return templates, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.WhatsAppTemplate, error) {
	template, err := s.Get(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "template name cannot be empty")
		}
		if existing, err := s.repo.FindTemplateByName(ctx, name); err == nil && existing.ID != template.ID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "template name already in use")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check template name")
		}
		updates["name"] = name
		template.Name = name
	}
	if input.Body != nil {
		body := strings.TrimSpace(*input.Body)
		if body == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "template body cannot be empty")
		}
		updates["body"] = body
		template.Body = body
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
		template.IsActive = *input.IsActive
	}
	if len(updates) == 0 {
		return template, nil
	}

	if err := s.repo.UpdateTemplate(ctx, template.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update template")
	}
	return template, nil
}

func (s *service) Delete(ctx context.Context, templateID uuid.UUID) error {
	if err := s.repo.DeleteTemplate(ctx, templateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete template")
	}
	return nil
}

// Render fills placeholders for the admin preview. Inactive templates render
// too; sending is the admin's call.
func (s *service) Render(ctx context.Context, templateID uuid.UUID, vars map[string]string) (string, error) {
	template, err := s.Get(ctx, templateID)
	if err != nil {
		return "", err
	}
	return template.Render(vars), nil
}

package templates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
)

// Repository defines persistence operations for WhatsApp templates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateTemplate(ctx context.Context, template *models.WhatsAppTemplate) (*models.WhatsAppTemplate, error)
	FindTemplate(ctx context.Context, templateID uuid.UUID) (*models.WhatsAppTemplate, error)
	FindTemplateByName(ctx context.Context, name string) (*models.WhatsAppTemplate, error)
	ListTemplates(ctx context.Context, activeOnly bool) ([]models.WhatsAppTemplate, error)
	UpdateTemplate(ctx context.Context, templateID uuid.UUID, updates map[string]any) error
	DeleteTemplate(ctx context.Context, templateID uuid.UUID) error
}

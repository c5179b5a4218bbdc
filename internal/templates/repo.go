package templates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a templates repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTemplate(ctx context.Context, template *models.WhatsAppTemplate) (*models.WhatsAppTemplate, error) {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

func (r *repository) FindTemplate(ctx context.Context, templateID uuid.UUID) (*models.WhatsAppTemplate, error) {
	var template models.WhatsAppTemplate
	err := r.db.WithContext(ctx).
		Where("id = ?", templateID).
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *repository) FindTemplateByName(ctx context.Context, name string) (*models.WhatsAppTemplate, error) {
	var template models.WhatsAppTemplate
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *repository) ListTemplates(ctx context.Context, activeOnly bool) ([]models.WhatsAppTemplate, error) {
	query := r.db.WithContext(ctx).Model(&models.WhatsAppTemplate{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var templates []models.WhatsAppTemplate
	if err := query.Order("name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *repository) UpdateTemplate(ctx context.Context, templateID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.WhatsAppTemplate{}).
		Where("id = ?", templateID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", templateID).
		Delete(&models.WhatsAppTemplate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

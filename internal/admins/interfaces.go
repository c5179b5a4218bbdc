package admins

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

// Filters narrows admin listings.
type Filters struct {
	Role     *enums.AdminRole
	IsActive *bool
	Query    string
}

// AdminList is one page of admin accounts.
type AdminList struct {
	Admins     []models.Admin `json:"admins"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Repository defines persistence operations for admin accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateAdmin(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	FindAdmin(ctx context.Context, adminID uuid.UUID) (*models.Admin, error)
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	ListAdmins(ctx context.Context, params pagination.Params, filters Filters) (*AdminList, error)
	UpdateAdmin(ctx context.Context, adminID uuid.UUID, updates map[string]any) error
	DeleteAdmin(ctx context.Context, adminID uuid.UUID) error
}

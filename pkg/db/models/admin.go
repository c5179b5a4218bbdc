package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// Admin is an operator identity. Super admins implicitly hold every
// permission; the explicit list matters for the other roles.
type Admin struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string          `gorm:"column:name;type:text;not null" json:"name"`
	Email        string          `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string          `gorm:"column:password_hash;type:text;not null" json:"-"`
	Role         enums.AdminRole `gorm:"column:role;type:text;not null;default:'staff'" json:"role"`
	Permissions  pq.StringArray  `gorm:"column:permissions;type:text[]" json:"permissions"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at;type:timestamptz" json:"last_login_at,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// HasPermission reports whether the admin may perform the named action.
func (a *Admin) HasPermission(permission string) bool {
	if a.Role == enums.AdminRoleSuperAdmin {
		return true
	}
	for _, candidate := range a.Permissions {
		if candidate == permission {
			return true
		}
	}
	return false
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WhatsAppTemplate is a reusable message body with {{placeholder}} slots that
// admins fill when contacting buyers about an order.
type WhatsAppTemplate struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
	Body      string    `gorm:"column:body;type:text;not null" json:"body"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Render substitutes {{key}} placeholders in the body. Unknown placeholders
// are left intact so the admin can spot them before sending.
func (t *WhatsAppTemplate) Render(vars map[string]string) string {
	out := t.Body
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}

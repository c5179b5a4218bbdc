package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AdminID     uuid.UUID
	Role        enums.AdminRole
	Permissions []string
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to admin clients.
type AccessTokenClaims struct {
	AdminID     uuid.UUID       `json:"admin_id"`
	Role        enums.AdminRole `json:"role"`
	Permissions []string        `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

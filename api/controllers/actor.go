package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/api/middleware"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// requestActor carries the identity fields every mutation input embeds.
type requestActor struct {
	AdminID   uuid.UUID
	Role      enums.AdminRole
	IP        string
	UserAgent string
}

func actorFrom(r *http.Request) requestActor {
	actor := requestActor{
		Role:      enums.AdminRole(middleware.RoleFromContext(r.Context())),
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if id, err := uuid.Parse(middleware.AdminIDFromContext(r.Context())); err == nil {
		actor.AdminID = id
	}
	return actor
}

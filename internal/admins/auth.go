package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/auth"
	"github.com/dimasprakoso/lokalive-backend/pkg/auth/session"
	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/security"
)

// LoginInput authenticates an admin by email and password.
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// RefreshInput rotates a session using the expired access token plus the
// refresh token issued alongside it.
type RefreshInput struct {
	AccessToken  string
	RefreshToken string
}

// LogoutInput revokes the session tied to the access token.
type LogoutInput struct {
	AccessToken string
}

// LoginResult is the token pair handed to the admin client.
type LoginResult struct {
	Admin        *models.Admin `json:"admin"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}

// Login verifies credentials, applies per-email and per-IP rate limits, and
// issues an access/refresh token pair backed by a Redis session.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}

	if err := s.allowLogin(ctx, email, input.ClientIP); err != nil {
		return nil, err
	}

	admin, err := s.repo.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find admin")
	}
	if !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated")
	}

	match, err := security.VerifyPassword(input.Password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	result, err := s.issueTokens(ctx, admin, session.NewAccessID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateAdmin(ctx, admin.ID, map[string]any{"last_login_at": now}); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithAdminID(ctx, admin.ID.String()), "last login stamp failed")
	}
	admin.LastLoginAt = &now

	return result, nil
}

// Refresh rotates the refresh token and mints a fresh access token using the
// admin's current role and permissions.
func (s *service) Refresh(ctx context.Context, input RefreshInput) (*LoginResult, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	admin, err := s.repo.FindAdmin(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find admin")
	}
	if !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, time.Now(), auth.AccessTokenPayload{
		AdminID:     admin.ID,
		Role:        admin.Role,
		Permissions: admin.Permissions,
		JTI:         newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResult{Admin: admin, AccessToken: token, RefreshToken: newRefresh}, nil
}

// Logout revokes the Redis session behind the access token. An already
// expired token still logs out.
func (s *service) Logout(ctx context.Context, input LogoutInput) error {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) allowLogin(ctx context.Context, email, clientIP string) error {
	allowed, _, err := s.limiter.FixedWindowAllow(ctx,
		fmt.Sprintf("login:email:%s", email),
		int64(s.rlCfg.LoginEmailLimit), s.rlCfg.LoginWindow)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "login rate limit")
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
	}

	if clientIP != "" {
		allowed, _, err = s.limiter.FixedWindowAllow(ctx,
			fmt.Sprintf("login:ip:%s", clientIP),
			int64(s.rlCfg.LoginIPLimit), s.rlCfg.LoginWindow)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "login rate limit")
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
		}
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, admin *models.Admin, accessID string) (*LoginResult, error) {
	token, err := auth.MintAccessToken(s.jwtCfg, time.Now(), auth.AccessTokenPayload{
		AdminID:     admin.ID,
		Role:        admin.Role,
		Permissions: admin.Permissions,
		JTI:         accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &LoginResult{Admin: admin, AccessToken: token, RefreshToken: refresh}, nil
}

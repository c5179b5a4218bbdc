package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/config"
	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox/payloads"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
	"github.com/dimasprakoso/lokalive-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type loginLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Service defines admin account management and authentication.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Admin, error)
	Get(ctx context.Context, adminID uuid.UUID) (*models.Admin, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*AdminList, error)
	Update(ctx context.Context, input UpdateInput) (*models.Admin, error)
	Delete(ctx context.Context, input DeleteInput) error
	ToggleStatus(ctx context.Context, input ToggleInput) (*models.Admin, error)
	SetPermissions(ctx context.Context, input PermissionsInput) (*models.Admin, error)

	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Refresh(ctx context.Context, input RefreshInput) (*LoginResult, error)
	Logout(ctx context.Context, input LogoutInput) error
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	sessions sessionManager
	limiter  loginLimiter
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	rlCfg    config.AuthRateLimitConfig
	logg     *logger.Logger
}

// ActorInput identifies the admin performing a mutation, for audit events.
type ActorInput struct {
	ActorAdminID   uuid.UUID
	ActorRole      enums.AdminRole
	ActorIP        string
	ActorUserAgent string
}

// CreateInput provisions a new admin account.
type CreateInput struct {
	Name        string
	Email       string
	Password    string
	Role        enums.AdminRole
	Permissions []string
	ActorInput
}

// UpdateInput mutates an existing account. Nil fields are left alone.
type UpdateInput struct {
	AdminID  uuid.UUID
	Name     *string
	Email    *string
	Password *string
	Role     *enums.AdminRole
	ActorInput
}

// DeleteInput removes an account.
type DeleteInput struct {
	AdminID uuid.UUID
	ActorInput
}

// ToggleInput flips the is_active flag.
type ToggleInput struct {
	AdminID uuid.UUID
	ActorInput
}

// PermissionsInput replaces the explicit permission list.
type PermissionsInput struct {
	AdminID     uuid.UUID
	Permissions []string
	ActorInput
}

// NewService builds an admins service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, sessions sessionManager, limiter loginLimiter, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, rlCfg config.AuthRateLimitConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admins repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("login rate limiter required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   outboxSvc,
		sessions: sessions,
		limiter:  limiter,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		rlCfg:    rlCfg,
		logg:     logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Admin, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid admin role %q", input.Role))
	}
	if input.ActorAdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "acting admin required")
	}

	permissions := input.Permissions
	if len(permissions) == 0 {
		permissions = DefaultPermissionsForRole(input.Role)
	}
	for _, perm := range permissions {
		if !KnownPermission(perm) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown permission %q", perm))
		}
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var admin *models.Admin
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindAdminByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		}

		admin = &models.Admin{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         input.Role,
			Permissions:  pq.StringArray(permissions),
			IsActive:     true,
		}
		if _, err := repo.CreateAdmin(ctx, admin); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdminMutated,
			AggregateType: enums.AggregateAdmin,
			AggregateID:   admin.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.AdminMutatedEvent{
				AdminID:   admin.ID,
				Email:     admin.Email,
				Action:    "created",
				Role:      admin.Role,
				MutatedBy: input.ActorAdminID,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *service) Get(ctx context.Context, adminID uuid.UUID) (*models.Admin, error) {
	admin, err := s.repo.FindAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find admin")
	}
	return admin, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*AdminList, error) {
	list, err := s.repo.ListAdmins(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list admins")
	}
	return list, nil
}

// Update mutates account fields. Role changes are refused on the actor's own
// account and on super admin accounts.
func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Admin, error) {
	if input.ActorAdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "acting admin required")
	}
	if input.Role != nil && !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid admin role %q", *input.Role))
	}

	var admin *models.Admin
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		admin, err = repo.FindAdmin(ctx, input.AdminID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find admin")
		}

		updates := map[string]any{}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
			}
			updates["name"] = name
			admin.Name = name
		}
		if input.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*input.Email))
			if email == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
			}
			if existing, err := repo.FindAdminByEmail(ctx, email); err == nil && existing.ID != admin.ID {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
			}
			updates["email"] = email
			admin.Email = email
		}
		if input.Password != nil {
			hash, err := security.HashPassword(*input.Password, s.pwCfg)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
			}
			updates["password_hash"] = hash
			admin.PasswordHash = hash
		}
		if input.Role != nil && *input.Role != admin.Role {
			if admin.ID == input.ActorAdminID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "admins cannot change their own role")
			}
			if admin.Role == enums.AdminRoleSuperAdmin {
				return pkgerrors.New(pkgerrors.CodeForbidden, "super admin role cannot be changed")
			}
			updates["role"] = *input.Role
			admin.Role = *input.Role
		}
		if len(updates) == 0 {
			return nil
		}

		if err := repo.UpdateAdmin(ctx, admin.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update admin")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdminMutated,
			AggregateType: enums.AggregateAdmin,
			AggregateID:   admin.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.AdminMutatedEvent{
				AdminID:   admin.ID,
				Email:     admin.Email,
				Action:    "updated",
				Role:      admin.Role,
				MutatedBy: input.ActorAdminID,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// Delete removes an account. Super admin accounts and the actor's own
// account are protected.
func (s *service) Delete(ctx context.Context, input DeleteInput) error {
	if input.ActorAdminID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "acting admin required")
	}
	if input.AdminID == input.ActorAdminID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admins cannot delete their own account")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		admin, err := repo.FindAdmin(ctx, input.AdminID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find admin")
		}
		if admin.Role == enums.AdminRoleSuperAdmin {
			return pkgerrors.New(pkgerrors.CodeForbidden, "super admin accounts cannot be deleted")
		}

		if err := repo.DeleteAdmin(ctx, admin.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete admin")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdminMutated,
			AggregateType: enums.AggregateAdmin,
			AggregateID:   admin.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.AdminMutatedEvent{
				AdminID:   admin.ID,
				Email:     admin.Email,
				Action:    "deleted",
				Role:      admin.Role,
				MutatedBy: input.ActorAdminID,
			},
		})
	})
}

// ToggleStatus flips is_active. Self-toggle and any toggle on a super admin
// account are refused.
func (s *service) ToggleStatus(ctx context.Context, input ToggleInput) (*models.Admin, error) {
	if input.ActorAdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "acting admin required")
	}
	if input.AdminID == input.ActorAdminID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admins cannot toggle their own account")
	}

	var admin *models.Admin
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		admin, err = repo.FindAdmin(ctx, input.AdminID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find admin")
		}
		if admin.Role == enums.AdminRoleSuperAdmin {
			return pkgerrors.New(pkgerrors.CodeForbidden, "super admin accounts cannot be deactivated")
		}

		next := !admin.IsActive
		if err := repo.UpdateAdmin(ctx, admin.ID, map[string]any{"is_active": next}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle admin status")
		}
		admin.IsActive = next

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdminStatusToggled,
			AggregateType: enums.AggregateAdmin,
			AggregateID:   admin.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.AdminStatusToggledEvent{
				AdminID:   admin.ID,
				Email:     admin.Email,
				IsActive:  admin.IsActive,
				ToggledBy: input.ActorAdminID,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// SetPermissions replaces the explicit permission list. The list is
// irrelevant for super admins but stored as given.
func (s *service) SetPermissions(ctx context.Context, input PermissionsInput) (*models.Admin, error) {
	if input.ActorAdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "acting admin required")
	}
	for _, perm := range input.Permissions {
		if !KnownPermission(perm) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown permission %q", perm))
		}
	}

	var admin *models.Admin
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		admin, err = repo.FindAdmin(ctx, input.AdminID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find admin")
		}

		permissions := pq.StringArray(input.Permissions)
		if err := repo.UpdateAdmin(ctx, admin.ID, map[string]any{"permissions": permissions}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update permissions")
		}
		admin.Permissions = permissions

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdminMutated,
			AggregateType: enums.AggregateAdmin,
			AggregateID:   admin.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.AdminMutatedEvent{
				AdminID:   admin.ID,
				Email:     admin.Email,
				Action:    "permissions_updated",
				Role:      admin.Role,
				MutatedBy: input.ActorAdminID,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func buildActor(input ActorInput) *outbox.ActorRef {
	if input.ActorAdminID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{
		AdminID:   input.ActorAdminID,
		Role:      string(input.ActorRole),
		IP:        input.ActorIP,
		UserAgent: input.ActorUserAgent,
	}
}

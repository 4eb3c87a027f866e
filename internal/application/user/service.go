package user

import (
	"context"
	"fmt"
	"time"

	auditapp "tessera/internal/application/audit"
	"tessera/internal/domain/authz"
	domainaudit "tessera/internal/domain/audit"
	"tessera/internal/domain/user"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/logger"
)

// PasswordHasher abstracts password hashing so tests can swap the bcrypt
// implementation for a cheap one.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uint, email string, globalRole string) (string, time.Time, error)
}

type Service struct {
	userRepo user.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	auditSvc *auditapp.Service
	logger   logger.Interface
}

func NewService(
	userRepo user.Repository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	auditSvc *auditapp.Service,
	logger logger.Interface,
) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		auditSvc: auditSvc,
		logger:   logger,
	}
}

type UserDTO struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	GlobalRole  string     `json:"global_role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:          u.ID(),
		Email:       u.Email(),
		DisplayName: u.DisplayName(),
		GlobalRole:  string(u.GlobalRole()),
		Status:      string(u.Status()),
		LastLoginAt: u.LastLoginAt(),
		CreatedAt:   u.CreatedAt(),
	}
}

type RegisterCommand struct {
	Email       string
	Password    string
	DisplayName string
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*UserDTO, error) {
	if len(cmd.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("email already registered")
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := user.NewUser(cmd.Email, hash, cmd.DisplayName)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("email already registered")
		}
		s.logger.Errorw("failed to create user", "error", err, "email", cmd.Email)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("user registered", "user_id", u.ID(), "email", u.Email())
	return toUserDTO(u), nil
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *UserDTO  `json:"user"`
}

// Login authenticates by email and password. Wrong email and wrong
// password return the same Unauthorized error.
func (s *Service) Login(ctx context.Context, email, password, ipAddress string) (*LoginResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil || !s.hasher.Verify(u.PasswordHash(), password) {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}
	if !u.IsActive() {
		return nil, apperrors.NewForbiddenError("account is suspended")
	}

	token, expiresAt, err := s.tokens.Issue(u.ID(), u.Email(), string(u.GlobalRole()))
	if err != nil {
		s.logger.Errorw("failed to issue token", "error", err, "user_id", u.ID())
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	u.RecordLogin()
	if err := s.userRepo.Update(ctx, u); err != nil {
		s.logger.Warnw("failed to record login time", "error", err, "user_id", u.ID())
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID: u.ID(),
		Action:      domainaudit.ActionUserLogin,
		TargetType:  "user",
		TargetID:    fmt.Sprintf("%d", u.ID()),
		IPAddress:   ipAddress,
	})

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: toUserDTO(u)}, nil
}

func (s *Service) Get(ctx context.Context, userID uint) (*UserDTO, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return toUserDTO(u), nil
}

func (s *Service) List(ctx context.Context, search string, page, pageSize int) ([]*UserDTO, int64, error) {
	users, total, err := s.userRepo.List(ctx, user.Filter{
		Search:   search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	return out, total, nil
}

type UpdateProfileCommand struct {
	UserID      uint
	DisplayName string
}

func (s *Service) UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*UserDTO, error) {
	u, err := s.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	if err := u.UpdateDisplayName(cmd.DisplayName); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return toUserDTO(u), nil
}

type ChangePasswordCommand struct {
	UserID      uint
	OldPassword string
	NewPassword string
}

func (s *Service) ChangePassword(ctx context.Context, cmd ChangePasswordCommand) error {
	if len(cmd.NewPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters")
	}

	u, err := s.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return apperrors.NewNotFoundError("user not found")
	}
	if !s.hasher.Verify(u.PasswordHash(), cmd.OldPassword) {
		return apperrors.NewUnauthorizedError("current password is incorrect")
	}

	hash, err := s.hasher.Hash(cmd.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := u.ChangePassword(hash); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return s.userRepo.Update(ctx, u)
}

type SetGlobalRoleCommand struct {
	UserID      uint
	Role        authz.GlobalRole
	ActorUserID uint
}

// SetGlobalRole changes a user's platform-wide role. Only reachable behind
// the super-admin gate.
func (s *Service) SetGlobalRole(ctx context.Context, cmd SetGlobalRoleCommand) error {
	u, err := s.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return apperrors.NewNotFoundError("user not found")
	}

	oldRole := u.GlobalRole()
	if err := u.SetGlobalRole(cmd.Role); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID: cmd.ActorUserID,
		Action:      domainaudit.ActionUserRoleChange,
		TargetType:  "user",
		TargetID:    fmt.Sprintf("%d", u.ID()),
		Detail:      map[string]any{"old_role": string(oldRole), "new_role": string(cmd.Role)},
	})

	s.logger.Infow("global role changed", "user_id", u.ID(), "old_role", oldRole, "new_role", cmd.Role, "actor_user_id", cmd.ActorUserID)
	return nil
}

func (s *Service) Suspend(ctx context.Context, userID uint) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return apperrors.NewNotFoundError("user not found")
	}

	u.Suspend()
	return s.userRepo.Update(ctx, u)
}

func (s *Service) Activate(ctx context.Context, userID uint) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return apperrors.NewNotFoundError("user not found")
	}

	u.Activate()
	return s.userRepo.Update(ctx, u)
}

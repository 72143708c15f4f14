package services

import (
	"context"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/adapters/persistence/repositories"
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/pkg/logger"
	"dailywage-hub/internal/pkg/pagination"
	"dailywage-hub/internal/pkg/password"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User service errors
var (
	ErrOldPasswordWrong = domain.BusinessRule("Old password is incorrect")
)

// UserService handles user profile business logic
type UserService struct {
	userRepo repositories.UserRepository
	log      *zap.Logger

	hashPassword func(string) (string, error)
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, log *zap.Logger) *UserService {
	return &UserService{
		userRepo:     userRepo,
		log:          log,
		hashPassword: password.Hash,
	}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Role  domain.Role
	Skill string
	Page  int
	Limit int
}

// UpdateProfileInput represents the owner-editable profile fields.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name      *string   `json:"name"`
	Phone     *string   `json:"phone"`
	Language  *string   `json:"language"`
	Location  *string   `json:"location"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Skills    *[]string `json:"skills"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ListUsers lists public profiles, newest first
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) ([]*models.UserResponse, int64, error) {
	if input.Role != "" && !input.Role.Valid() {
		return nil, 0, domain.Validation("Invalid role",
			domain.FieldError{Field: "role", Message: "unknown role"})
	}

	params := pagination.NewParams(input.Page, input.Limit)
	users, total, err := s.userRepo.List(ctx, repositories.UserFilter{
		Role:   input.Role,
		Skill:  input.Skill,
		Offset: params.Offset,
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, "list users")
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, total, nil
}

// GetUserByID returns a profile. The owner and admins see private fields.
func (s *UserService) GetUserByID(ctx context.Context, principal domain.Principal, id uuid.UUID) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "get user")
	}

	if principal.Is(id) || principal.IsAdmin() {
		return user.ToPrivateResponse(), nil
	}
	return user.ToResponse(), nil
}

// UpdateProfile updates own profile. Role is immutable.
func (s *UserService) UpdateProfile(ctx context.Context, principal domain.Principal, input *UpdateProfileInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "get user")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Language != nil {
		user.Language = *input.Language
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.Latitude != nil {
		user.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		user.Longitude = input.Longitude
	}
	if input.Skills != nil {
		user.Skills = *input.Skills
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, errors.Wrap(err, "update profile")
	}

	s.log.Info("✅ Profile updated", zap.String(logger.FieldUserID, user.ID.String()))
	return user.ToPrivateResponse(), nil
}

// ChangePassword changes user's password
func (s *UserService) ChangePassword(ctx context.Context, principal domain.Principal, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return notFoundOr(err, ErrUserNotFound, "get user")
	}

	// Verify old password
	if !password.Verify(input.OldPassword, user.Password) {
		return ErrOldPasswordWrong
	}

	// Validate new password
	if !password.ValidatePassword(input.NewPassword) {
		return domain.Validation("Password too short",
			domain.FieldError{Field: "newPassword", Message: "must be at least 8 characters"})
	}

	hashedPassword, err := s.hashPassword(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return errors.Wrap(err, "update password")
	}

	s.log.Info("✅ Password changed", zap.String(logger.FieldUserID, user.ID.String()))
	return nil
}

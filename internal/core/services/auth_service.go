package services

import (
	"context"
	"strings"
	"time"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/adapters/persistence/repositories"
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/pkg/jwt"
	"dailywage-hub/internal/pkg/logger"
	"dailywage-hub/internal/pkg/password"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = domain.Unauthorized("Invalid username or password")
	ErrSessionInvalid     = domain.Unauthorized("Invalid or expired session")
	ErrUserAlreadyExists  = domain.Conflict("Username already exists")
	ErrAdminRegistration  = domain.Forbidden("Admin accounts cannot be self-registered")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	secret      string
	ttl         time.Duration
	log         *zap.Logger

	hashPassword func(string) (string, error)
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	secret string,
	ttl time.Duration,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		secret:       secret,
		ttl:          ttl,
		log:          log,
		hashPassword: password.Hash,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username   string      `json:"username"`
	Password   string      `json:"password"`
	Role       domain.Role `json:"role"`
	Name       string      `json:"name"`
	Phone      string      `json:"phone"`
	Language   string      `json:"language"`
	Location   string      `json:"location"`
	Latitude   *float64    `json:"latitude"`
	Longitude  *float64    `json:"longitude"`
	Skills     []string    `json:"skills"`
	NationalID string      `json:"nationalId"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is a freshly opened session
type AuthResult struct {
	User      *models.UserResponse
	Token     string
	ExpiresAt time.Time
}

// Register registers a new user and logs them in
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	// 1. Role: admins are provisioned, never self-registered
	switch {
	case input.Role == domain.RoleAdmin:
		return nil, ErrAdminRegistration
	case !input.Role.Valid():
		return nil, domain.Validation("Invalid role",
			domain.FieldError{Field: "role", Message: "must be one of worker, employer, ngo"})
	}

	if !password.ValidatePassword(input.Password) {
		return nil, domain.Validation("Password too short",
			domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}

	// 2. Check if username already exists
	username := strings.TrimSpace(input.Username)
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(err, "check username")
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	// 3. Hash password
	hashedPassword, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	language := input.Language
	if language == "" {
		language = "en"
	}

	// 4. Create user
	user := &models.User{
		Username:   username,
		Password:   hashedPassword,
		Role:       input.Role,
		Name:       input.Name,
		Phone:      input.Phone,
		Language:   language,
		Location:   input.Location,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		Skills:     input.Skills,
		NationalID: input.NationalID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, errors.Wrap(err, "create user")
	}

	s.log.Info("✅ User registered",
		zap.String(logger.FieldUserID, user.ID.String()),
		zap.String("role", string(user.Role)))

	// 5. Open a session
	return s.openSession(ctx, user)
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, notFoundOr(err, ErrInvalidCredentials, "get user")
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ User logged in", zap.String(logger.FieldUserID, user.ID.String()))
	return result, nil
}

// Logout revokes the caller's session
func (s *AuthService) Logout(ctx context.Context, principal domain.Principal) error {
	if err := s.sessionRepo.Revoke(ctx, principal.SessionID); err != nil {
		return errors.Wrap(err, "revoke session")
	}

	s.log.Info("✅ User logged out", zap.String(logger.FieldUserID, principal.UserID.String()))
	return nil
}

// LogoutAll revokes every session of the caller
func (s *AuthService) LogoutAll(ctx context.Context, principal domain.Principal) error {
	if err := s.sessionRepo.RevokeAllByUserID(ctx, principal.UserID); err != nil {
		return errors.Wrap(err, "revoke sessions")
	}

	s.log.Info("✅ All sessions revoked", zap.String(logger.FieldUserID, principal.UserID.String()))
	return nil
}

// Me returns the caller's own profile
func (s *AuthService) Me(ctx context.Context, principal domain.Principal) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "get user")
	}
	return user.ToPrivateResponse(), nil
}

// Authenticate resolves a session token to the principal it belongs to.
// The token must verify and its session row must still be active.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := jwt.ValidateSessionToken(token, s.secret)
	if err != nil {
		return domain.Principal{}, ErrSessionInvalid
	}

	sessionID, err := claims.SessionID()
	if err != nil {
		return domain.Principal{}, ErrSessionInvalid
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domain.Principal{}, ErrSessionInvalid
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return domain.Principal{}, notFoundOr(err, ErrSessionInvalid, "get session")
	}
	if session.IsRevoked() || session.IsExpired() || session.UserID != userID {
		return domain.Principal{}, ErrSessionInvalid
	}

	return domain.Principal{
		UserID:    userID,
		Role:      domain.Role(claims.Role),
		SessionID: sessionID,
	}, nil
}

// openSession stores a session row and signs a token for it
func (s *AuthService) openSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "create session")
	}

	token, err := jwt.GenerateSessionToken(session.ID, user.ID, string(user.Role), s.secret, session.ExpiresAt)
	if err != nil {
		return nil, errors.Wrap(err, "sign session token")
	}

	return &AuthResult{
		User:      user.ToPrivateResponse(),
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

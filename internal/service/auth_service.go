package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillforge-labs/skillforge-core/internal/models"
	appErrors "github.com/skillforge-labs/skillforge-core/pkg/errors"
)

type authRepository interface {
	FindUserByEmail(email string) *models.User
	AddUser(u *models.User)
	SaveUsers() error
}

// PasswordHasher is the injected one-way digest primitive.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(digest, password string) bool
}

// AdminBootstrap describes the well-known administrator account guaranteed
// to exist after startup.
type AdminBootstrap struct {
	Email    string
	Name     string
	Password string
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Username string          `json:"username" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"required,oneof=Student Instructor Admin"`
}

// AuthService handles registration, login and the admin bootstrap.
type AuthService struct {
	repo      authRepository
	hasher    PasswordHasher
	validator *validator.Validate
	logger    *zap.Logger
	newID     func() string
}

// NewAuthService constructs an AuthService. A nil newID defaults to UUIDs.
func NewAuthService(repo authRepository, hasher PasswordHasher, validate *validator.Validate, logger *zap.Logger, newID func() string) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &AuthService{repo: repo, hasher: hasher, validator: validate, logger: logger, newID: newID}
}

// Register creates the role variant with empty collections and persists the
// user collection. Emails are unique case-insensitively across all users.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid registration payload")
	}

	if existing := s.repo.FindUserByEmail(req.Email); existing != nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEmail, "")
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to hash password")
	}

	user := models.NewUser(s.newID(), req.Username, req.Email, digest, req.Role)
	s.repo.AddUser(user)

	if err := s.repo.SaveUsers(); err != nil {
		s.logger.Error("failed to persist users after registration", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist users")
	}

	s.logger.Info("user registered", zap.String("userId", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login returns the user matching the email whose password verifies against
// the stored digest. No lockout or rate limiting.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user := s.repo.FindUserByEmail(email)
	if user == nil || !s.hasher.Verify(user.PasswordHash, password) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	return user, nil
}

// EnsureAdmin creates the well-known admin account if no user carries its
// email yet. Called once at startup; idempotent.
func (s *AuthService) EnsureAdmin(ctx context.Context, boot AdminBootstrap) error {
	if s.repo.FindUserByEmail(boot.Email) != nil {
		return nil
	}

	digest, err := s.hasher.Hash(boot.Password)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to hash admin password")
	}

	admin := models.NewUser(s.newID(), boot.Name, boot.Email, digest, models.RoleAdmin)
	s.repo.AddUser(admin)

	if err := s.repo.SaveUsers(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist bootstrap admin")
	}

	s.logger.Info("bootstrap admin created", zap.String("email", boot.Email))
	return nil
}

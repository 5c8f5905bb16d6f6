package service

import (
	"go.uber.org/zap"

	"github.com/skillforge-labs/skillforge-core/internal/repository"
)

// Engine bundles the full service surface consumed by an embedding
// presentation layer. All services share one EntityRepository; the caller
// owns its lifecycle.
type Engine struct {
	Auth       *AuthService
	Enrollment *EnrollmentService
	Progress   *ProgressService
	Moderation *ModerationService
	Analytics  *AnalyticsService
}

// NewEngine wires every service over the shared repository with default id
// generation and clock.
func NewEngine(repo *repository.EntityRepository, hasher PasswordHasher, exports fileStorage, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	progress := NewProgressService(repo, nil, logger, nil, nil)
	return &Engine{
		Auth:       NewAuthService(repo, hasher, nil, logger, nil),
		Enrollment: NewEnrollmentService(repo, nil, logger, nil),
		Progress:   progress,
		Moderation: NewModerationService(repo, logger),
		Analytics:  NewAnalyticsService(repo, progress, exports, logger, nil, nil),
	}
}

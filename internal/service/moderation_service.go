package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/skillforge-labs/skillforge-core/internal/models"
	appErrors "github.com/skillforge-labs/skillforge-core/pkg/errors"
)

type moderationRepository interface {
	FindCourseByID(id string) *models.Course
	Courses() []*models.Course
	SaveCourses() error
}

// ModerationService drives the course lifecycle: courses start PENDING and
// an admin moves them to APPROVED or REJECTED. Only APPROVED courses are
// visible and enrollable to students.
type ModerationService struct {
	repo   moderationRepository
	logger *zap.Logger
}

// NewModerationService constructs a ModerationService.
func NewModerationService(repo moderationRepository, logger *zap.Logger) *ModerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationService{repo: repo, logger: logger}
}

// Approve marks the course APPROVED. Unknown ids no-op.
func (s *ModerationService) Approve(ctx context.Context, courseID string) error {
	return s.setStatus(courseID, models.CourseStatusApproved)
}

// Reject marks the course REJECTED. Unknown ids no-op.
func (s *ModerationService) Reject(ctx context.Context, courseID string) error {
	return s.setStatus(courseID, models.CourseStatusRejected)
}

func (s *ModerationService) setStatus(courseID string, status models.CourseStatus) error {
	course := s.repo.FindCourseByID(courseID)
	if course == nil {
		return nil
	}
	course.Status = status
	if err := s.repo.SaveCourses(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist courses")
	}
	s.logger.Info("course moderated", zap.String("courseId", courseID), zap.String("status", string(status)))
	return nil
}

// PendingCourses lists courses awaiting moderation.
func (s *ModerationService) PendingCourses() []*models.Course {
	var out []*models.Course
	for _, c := range s.repo.Courses() {
		if c.Status == models.CourseStatusPending {
			out = append(out, c)
		}
	}
	return out
}

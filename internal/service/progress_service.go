package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillforge-labs/skillforge-core/internal/models"
	appErrors "github.com/skillforge-labs/skillforge-core/pkg/errors"
	"github.com/skillforge-labs/skillforge-core/pkg/export"
)

type progressRepository interface {
	FindStudentByID(id string) *models.User
	FindCourseByID(id string) *models.Course
	Users() []*models.User
	SaveUsers() error
}

type certificateRenderer interface {
	RenderCertificate(data export.CertificateData) ([]byte, error)
}

// ProgressService tracks quiz scores and issues completion certificates.
// Scores are monotonic (best of all submissions) and certificate issuance
// is one-shot per (student, course).
type ProgressService struct {
	repo   progressRepository
	pdf    certificateRenderer
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

// NewProgressService constructs a ProgressService. Nil newID/now default to
// UUIDs and the wall clock.
func NewProgressService(repo progressRepository, pdf certificateRenderer, logger *zap.Logger, newID func() string, now func() time.Time) *ProgressService {
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &ProgressService{repo: repo, pdf: pdf, logger: logger, newID: newID, now: now}
}

// SubmitQuiz stores max(existing, score) for the lesson, persists users,
// and runs the certificate check when the stored score passes. The score is
// the caller-computed percentage of correct answers, clamped to 0-100.
// Unknown students no-op.
func (s *ProgressService) SubmitQuiz(ctx context.Context, studentID, courseID, lessonID string, score int) error {
	student := s.repo.FindStudentByID(studentID)
	if student == nil {
		return nil
	}

	score = models.ClampScore(score)
	if old, ok := student.QuizScores[lessonID]; !ok || score > old {
		student.QuizScores[lessonID] = score
	}

	if err := s.repo.SaveUsers(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist users")
	}

	if student.QuizScores[lessonID] >= models.PassingScore {
		return s.checkCourseCompletion(student, courseID)
	}
	return nil
}

// UnmarkLesson clears the stored score so the student can redo the quiz
// from scratch. An already-issued certificate is not retracted.
func (s *ProgressService) UnmarkLesson(ctx context.Context, studentID, lessonID string) error {
	student := s.repo.FindStudentByID(studentID)
	if student == nil {
		return nil
	}
	if _, ok := student.QuizScores[lessonID]; !ok {
		return nil
	}
	delete(student.QuizScores, lessonID)
	if err := s.repo.SaveUsers(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist users")
	}
	return nil
}

// checkCourseCompletion issues a certificate the first time every
// quiz-bearing lesson in the course is completed by the student. Re-issuance
// is forbidden even if scores later change.
func (s *ProgressService) checkCourseCompletion(student *models.User, courseID string) error {
	course := s.repo.FindCourseByID(courseID)
	if course == nil {
		return nil
	}
	if student.CertificateFor(courseID) != nil {
		return nil
	}
	for _, lesson := range course.Lessons {
		if lesson.HasQuiz() && !student.LessonCompleted(lesson.ID) {
			return nil
		}
	}

	cert := models.Certificate{
		ID:          s.newID(),
		StudentID:   student.ID,
		StudentName: student.Username,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		IssueDate:   s.now().Format("2006-01-02"),
	}
	student.Certificates = append(student.Certificates, cert)

	if err := s.repo.SaveUsers(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist users")
	}
	s.logger.Info("certificate issued",
		zap.String("studentId", student.ID),
		zap.String("courseId", course.ID),
		zap.String("certificateId", cert.ID))
	return nil
}

// Certificates returns the student's issued certificates, oldest first.
func (s *ProgressService) Certificates(studentID string) []models.Certificate {
	student := s.repo.FindStudentByID(studentID)
	if student == nil {
		return nil
	}
	return student.Certificates
}

// RenderCertificate produces a printable PDF for an issued certificate.
func (s *ProgressService) RenderCertificate(ctx context.Context, studentID, certificateID string) ([]byte, error) {
	student := s.repo.FindStudentByID(studentID)
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	for _, cert := range student.Certificates {
		if cert.ID == certificateID {
			return s.pdf.RenderCertificate(export.CertificateData{
				StudentName: cert.StudentName,
				CourseTitle: cert.CourseTitle,
				IssueDate:   cert.IssueDate,
				Reference:   cert.ID,
			})
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
}

// CourseStatistics aggregates completion and quiz performance by scanning
// the enrolled students against the course's lessons. Zero enrolled
// students or zero lessons yields zeros, never a division by zero.
func (s *ProgressService) CourseStatistics(courseID string) models.CourseStatistics {
	course := s.repo.FindCourseByID(courseID)
	if course == nil || len(course.Lessons) == 0 {
		return models.CourseStatistics{}
	}

	var students []*models.User
	for _, u := range s.repo.Users() {
		if u.IsStudent() && course.HasStudent(u.ID) {
			students = append(students, u)
		}
	}
	if len(students) == 0 {
		return models.CourseStatistics{}
	}

	totalScore := 0
	scoreCount := 0
	completed := 0
	possible := len(students) * len(course.Lessons)

	for _, student := range students {
		for _, lesson := range course.Lessons {
			if !student.LessonCompleted(lesson.ID) {
				continue
			}
			completed++
			if score, ok := student.QuizScores[lesson.ID]; ok {
				totalScore += score
				scoreCount++
			}
		}
	}

	stats := models.CourseStatistics{}
	if possible > 0 {
		stats.AvgCompletion = float64(completed) / float64(possible) * 100
	}
	if scoreCount > 0 {
		stats.AvgQuizScore = float64(totalScore) / float64(scoreCount)
	}
	return stats
}

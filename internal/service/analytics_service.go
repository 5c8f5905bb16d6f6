package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/skillforge-labs/skillforge-core/internal/models"
	appErrors "github.com/skillforge-labs/skillforge-core/pkg/errors"
	"github.com/skillforge-labs/skillforge-core/pkg/export"
)

// ReportFormat selects the rendered output of a course report.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

type analyticsRepository interface {
	FindCourseByID(id string) *models.Course
	Users() []*models.User
}

type statisticsProvider interface {
	CourseStatistics(courseID string) models.CourseStatistics
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// AnalyticsService exposes course statistics to the presentation layer and
// renders per-student progress reports to the exports directory.
type AnalyticsService struct {
	repo    analyticsRepository
	stats   statisticsProvider
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(repo analyticsRepository, stats statisticsProvider, storage fileStorage, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &AnalyticsService{repo: repo, stats: stats, storage: storage, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// CourseStatistics returns the aggregate view for a course.
func (s *AnalyticsService) CourseStatistics(courseID string) models.CourseStatistics {
	return s.stats.CourseStatistics(courseID)
}

// ExportCourseReport writes a per-student progress table for the course in
// the requested format and returns the stored file name.
func (s *AnalyticsService) ExportCourseReport(ctx context.Context, courseID string, format ReportFormat) (string, error) {
	course := s.repo.FindCourseByID(courseID)
	if course == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	dataset := s.buildReport(course)

	var (
		payload []byte
		err     error
	)
	switch format {
	case ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("Course Report: %s", course.Title))
	case ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to render course report")
	}

	filename := fmt.Sprintf("course-report-%s-%s.%s", course.ID, s.now().Format("20060102-150405"), format)
	if _, err := s.storage.Save(filename, payload); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to store course report")
	}

	s.logger.Info("course report exported", zap.String("courseId", course.ID), zap.String("file", filename))
	return filename, nil
}

func (s *AnalyticsService) buildReport(course *models.Course) export.Dataset {
	headers := []string{"Student", "Email", "Completed Lessons", "Average Score", "Certificate"}
	rows := make([]map[string]string, 0, len(course.Students))

	for _, u := range s.repo.Users() {
		if !u.IsStudent() || !course.HasStudent(u.ID) {
			continue
		}
		completed := 0
		total := 0
		counted := 0
		for _, lesson := range course.Lessons {
			if u.LessonCompleted(lesson.ID) {
				completed++
				total += u.QuizScores[lesson.ID]
				counted++
			}
		}
		avg := "0"
		if counted > 0 {
			avg = strconv.Itoa(total / counted)
		}
		hasCert := "no"
		if u.CertificateFor(course.ID) != nil {
			hasCert = "yes"
		}
		rows = append(rows, map[string]string{
			"Student":           u.Username,
			"Email":             u.Email,
			"Completed Lessons": fmt.Sprintf("%d/%d", completed, len(course.Lessons)),
			"Average Score":     avg,
			"Certificate":       hasCert,
		})
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

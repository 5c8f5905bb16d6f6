package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillforge-labs/skillforge-core/internal/models"
	appErrors "github.com/skillforge-labs/skillforge-core/pkg/errors"
)

type enrollmentRepository interface {
	FindStudentByID(id string) *models.User
	FindInstructorByID(id string) *models.User
	FindCourseByID(id string) *models.Course
	AddCourse(c *models.Course)
	RemoveCourse(id string)
	Users() []*models.User
	Courses() []*models.Course
	SaveUsers() error
	SaveCourses() error
}

// CreateCourseRequest is the payload for course creation.
type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	InstructorID string `json:"instructorId" validate:"required"`
}

// AddLessonRequest is the payload for appending a lesson to a course.
type AddLessonRequest struct {
	Title     string       `json:"title" validate:"required"`
	Content   string       `json:"content"`
	Resources []string     `json:"resources"`
	Quiz      *models.Quiz `json:"quiz,omitempty"`
}

// EnrollmentService keeps the user and course collections cross-consistent:
// bidirectional enrollment references, course/lesson lifecycle, and the
// cascading deletes that scrub references from every user.
type EnrollmentService struct {
	repo      enrollmentRepository
	validator *validator.Validate
	logger    *zap.Logger
	newID     func() string
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, validate *validator.Validate, logger *zap.Logger, newID func() string) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &EnrollmentService{repo: repo, validator: validate, logger: logger, newID: newID}
}

// Enroll adds the bidirectional student/course references and persists both
// collections. Only APPROVED courses accept enrollment; an already enrolled
// student is a no-op success.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) error {
	student := s.repo.FindStudentByID(studentID)
	if student == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	course := s.repo.FindCourseByID(courseID)
	if course == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if course.Status != models.CourseStatusApproved {
		return appErrors.Clone(appErrors.ErrCourseNotApproved, "")
	}
	if student.EnrolledIn(courseID) && course.HasStudent(studentID) {
		return nil
	}

	if !student.EnrolledIn(courseID) {
		student.EnrolledCourses = append(student.EnrolledCourses, courseID)
	}
	if !course.HasStudent(studentID) {
		course.Students = append(course.Students, studentID)
	}

	if err := s.saveBoth(); err != nil {
		return err
	}
	s.logger.Info("student enrolled", zap.String("studentId", studentID), zap.String("courseId", courseID))
	return nil
}

// CreateCourse registers a new course in PENDING status under the
// instructor and persists both collections.
func (s *EnrollmentService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid course payload")
	}

	course := &models.Course{
		ID:           s.newID(),
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: req.InstructorID,
		Lessons:      []*models.Lesson{},
		Students:     []string{},
		Status:       models.CourseStatusPending,
	}
	s.repo.AddCourse(course)

	if instructor := s.repo.FindInstructorByID(req.InstructorID); instructor != nil {
		instructor.CreatedCourses = append(instructor.CreatedCourses, course.ID)
		if err := s.repo.SaveUsers(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist users")
		}
	}

	if err := s.repo.SaveCourses(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist courses")
	}

	s.logger.Info("course created", zap.String("courseId", course.ID), zap.String("instructorId", req.InstructorID))
	return course, nil
}

// AddLesson appends a lesson, with an optional sanitized quiz, to the
// course. Unknown course ids are a no-op.
func (s *EnrollmentService) AddLesson(ctx context.Context, courseID string, req AddLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid lesson payload")
	}

	course := s.repo.FindCourseByID(courseID)
	if course == nil {
		return nil, nil
	}

	lesson := &models.Lesson{
		ID:        s.newID(),
		Title:     req.Title,
		Content:   req.Content,
		Resources: req.Resources,
		Quiz:      req.Quiz,
	}
	if lesson.Resources == nil {
		lesson.Resources = []string{}
	}
	if lesson.Quiz != nil {
		lesson.Quiz.LessonID = lesson.ID
		if lesson.Quiz.ID == "" {
			lesson.Quiz.ID = s.newID()
		}
		lesson.Quiz.Sanitize()
	}
	course.Lessons = append(course.Lessons, lesson)

	if err := s.repo.SaveCourses(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist courses")
	}
	return lesson, nil
}

// UpdateCourse mutates title and description in place. Unknown ids no-op.
func (s *EnrollmentService) UpdateCourse(ctx context.Context, courseID, title, description string) error {
	course := s.repo.FindCourseByID(courseID)
	if course == nil {
		return nil
	}
	course.Title = title
	course.Description = description
	if err := s.repo.SaveCourses(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist courses")
	}
	return nil
}

// UpdateLesson mutates lesson fields in place. A nil quiz preserves the
// existing quiz; use RemoveLessonQuiz to drop one explicitly.
func (s *EnrollmentService) UpdateLesson(ctx context.Context, courseID, lessonID, title, content string, quiz *models.Quiz) error {
	course := s.repo.FindCourseByID(courseID)
	if course == nil {
		return nil
	}
	lesson := course.FindLesson(lessonID)
	if lesson == nil {
		return nil
	}
	lesson.Title = title
	lesson.Content = content
	if quiz != nil {
		quiz.LessonID = lessonID
		if quiz.ID == "" {
			quiz.ID = s.newID()
		}
		quiz.Sanitize()
		lesson.Quiz = quiz
	}
	if err := s.repo.SaveCourses(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist courses")
	}
	return nil
}

// RemoveLessonQuiz detaches the quiz from a lesson. Stored student scores
// for the lesson are left alone. Unknown ids no-op.
func (s *EnrollmentService) RemoveLessonQuiz(ctx context.Context, courseID, lessonID string) error {
	course := s.repo.FindCourseByID(courseID)
	if course == nil {
		return nil
	}
	lesson := course.FindLesson(lessonID)
	if lesson == nil || lesson.Quiz == nil {
		return nil
	}
	lesson.Quiz = nil
	if err := s.repo.SaveCourses(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist courses")
	}
	return nil
}

// DeleteCourse removes the course and scrubs every reference to it from the
// user set: instructor created lists, student enrollments, certificates for
// the course, and quiz scores for its lessons. The fan-out is computed for
// all users before any mutation is applied, then both collections persist.
func (s *EnrollmentService) DeleteCourse(ctx context.Context, courseID string) error {
	course := s.repo.FindCourseByID(courseID)
	if course == nil {
		return nil
	}

	cascades := courseDeleteFanout(course, s.repo.Users())
	s.repo.RemoveCourse(courseID)
	for _, c := range cascades {
		c.apply(courseID)
	}

	if err := s.repo.SaveCourses(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist courses")
	}
	if err := s.repo.SaveUsers(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist users")
	}

	s.logger.Info("course deleted", zap.String("courseId", courseID), zap.Int("usersTouched", len(cascades)))
	return nil
}

// DeleteLesson removes the lesson from its course and sweeps the orphaned
// quiz-score entries for that lesson from every student. Issued
// certificates stay put. Unknown ids no-op.
func (s *EnrollmentService) DeleteLesson(ctx context.Context, courseID, lessonID string) error {
	course := s.repo.FindCourseByID(courseID)
	if course == nil {
		return nil
	}
	found := false
	for i, l := range course.Lessons {
		if l.ID == lessonID {
			course.Lessons = append(course.Lessons[:i], course.Lessons[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	swept := false
	for _, u := range s.repo.Users() {
		if !u.IsStudent() {
			continue
		}
		if _, ok := u.QuizScores[lessonID]; ok {
			delete(u.QuizScores, lessonID)
			swept = true
		}
	}

	if err := s.repo.SaveCourses(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist courses")
	}
	if swept {
		if err := s.repo.SaveUsers(); err != nil {
			return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist users")
		}
	}
	return nil
}

// ApprovedCourses lists the courses visible and enrollable to students.
func (s *EnrollmentService) ApprovedCourses() []*models.Course {
	var out []*models.Course
	for _, c := range s.repo.Courses() {
		if c.Status == models.CourseStatusApproved {
			out = append(out, c)
		}
	}
	return out
}

// EnrolledCourses lists the approved courses the student is enrolled in.
func (s *EnrollmentService) EnrolledCourses(studentID string) []*models.Course {
	student := s.repo.FindStudentByID(studentID)
	if student == nil {
		return nil
	}
	var out []*models.Course
	for _, c := range s.repo.Courses() {
		if c.Status == models.CourseStatusApproved && student.EnrolledIn(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// CoursesByInstructor lists all courses owned by the instructor.
func (s *EnrollmentService) CoursesByInstructor(instructorID string) []*models.Course {
	var out []*models.Course
	for _, c := range s.repo.Courses() {
		if c.InstructorID == instructorID {
			out = append(out, c)
		}
	}
	return out
}

// EnrolledStudents lists the student users enrolled in the course.
func (s *EnrollmentService) EnrolledStudents(courseID string) []*models.User {
	course := s.repo.FindCourseByID(courseID)
	if course == nil {
		return nil
	}
	var out []*models.User
	for _, u := range s.repo.Users() {
		if u.IsStudent() && course.HasStudent(u.ID) {
			out = append(out, u)
		}
	}
	return out
}

func (s *EnrollmentService) saveBoth() error {
	if err := s.repo.SaveUsers(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist users")
	}
	if err := s.repo.SaveCourses(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "failed to persist courses")
	}
	return nil
}

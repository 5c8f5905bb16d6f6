package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge-labs/skillforge-core/internal/models"
	appErrors "github.com/skillforge-labs/skillforge-core/pkg/errors"
)

func TestEnrollmentServiceEnroll(t *testing.T) {
	student := testStudent("s1", "alice", "alice@example.com")
	course := testCourse("c1", "i1", models.CourseStatusApproved)
	store := &fakeStore{users: []*models.User{student}, courses: []*models.Course{course}}
	svc := NewEnrollmentService(newTestRepo(store), nil, nil, nil)

	require.NoError(t, svc.Enroll(context.Background(), "s1", "c1"))
	assert.True(t, student.EnrolledIn("c1"))
	assert.True(t, course.HasStudent("s1"))
	assert.Equal(t, 1, store.saveUsersCalls)
	assert.Equal(t, 1, store.saveCoursesCalls)

	// Enrolling again is a no-op success with no extra persistence.
	require.NoError(t, svc.Enroll(context.Background(), "s1", "c1"))
	assert.Len(t, student.EnrolledCourses, 1)
	assert.Len(t, course.Students, 1)
	assert.Equal(t, 1, store.saveUsersCalls)
	assert.Equal(t, 1, store.saveCoursesCalls)
}

func TestEnrollmentServiceEnrollRejectsUnapproved(t *testing.T) {
	for _, status := range []models.CourseStatus{models.CourseStatusPending, models.CourseStatusRejected} {
		student := testStudent("s1", "alice", "alice@example.com")
		course := testCourse("c1", "i1", status)
		store := &fakeStore{users: []*models.User{student}, courses: []*models.Course{course}}
		svc := NewEnrollmentService(newTestRepo(store), nil, nil, nil)

		err := svc.Enroll(context.Background(), "s1", "c1")
		assert.ErrorIs(t, err, appErrors.ErrCourseNotApproved, string(status))
		assert.Empty(t, student.EnrolledCourses)
		assert.Empty(t, course.Students)
		assert.Zero(t, store.saveUsersCalls)
		assert.Zero(t, store.saveCoursesCalls)
	}
}

func TestEnrollmentServiceEnrollUnknownIDs(t *testing.T) {
	store := &fakeStore{
		users:   []*models.User{testStudent("s1", "alice", "alice@example.com")},
		courses: []*models.Course{testCourse("c1", "i1", models.CourseStatusApproved)},
	}
	svc := NewEnrollmentService(newTestRepo(store), nil, nil, nil)

	assert.ErrorIs(t, svc.Enroll(context.Background(), "ghost", "c1"), appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.Enroll(context.Background(), "s1", "ghost"), appErrors.ErrNotFound)
}

func TestEnrollmentServiceCreateCourse(t *testing.T) {
	instructor := testInstructor("i1", "bob", "bob@example.com")
	store := &fakeStore{users: []*models.User{instructor}}
	svc := NewEnrollmentService(newTestRepo(store), nil, nil, seqID())

	course, err := svc.CreateCourse(context.Background(), CreateCourseRequest{
		Title:        "Go Basics",
		Description:  "intro",
		InstructorID: "i1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusPending, course.Status)
	assert.Equal(t, "id-1", course.ID)
	assert.Contains(t, instructor.CreatedCourses, course.ID)
	assert.Equal(t, 1, store.saveUsersCalls)
	assert.Equal(t, 1, store.saveCoursesCalls)
}

func TestEnrollmentServiceAddLesson(t *testing.T) {
	course := testCourse("c1", "i1", models.CourseStatusApproved)
	store := &fakeStore{courses: []*models.Course{course}}
	svc := NewEnrollmentService(newTestRepo(store), nil, nil, seqID())

	quiz := &models.Quiz{Questions: []*models.Question{
		{Text: "q1", Options: []string{"a", "b", "c"}, CorrectOption: 7},
	}}
	lesson, err := svc.AddLesson(context.Background(), "c1", AddLessonRequest{Title: "L1", Content: "body", Quiz: quiz})
	require.NoError(t, err)
	require.NotNil(t, lesson)
	require.Len(t, course.Lessons, 1)
	assert.Equal(t, lesson.ID, lesson.Quiz.LessonID)
	// Out-of-range correct option is coerced to a safe default.
	assert.Equal(t, 0, lesson.Quiz.Questions[0].CorrectOption)

	// Unknown course id is absorbed as a no-op.
	lesson, err = svc.AddLesson(context.Background(), "ghost", AddLessonRequest{Title: "L2"})
	require.NoError(t, err)
	assert.Nil(t, lesson)
	assert.Equal(t, 1, store.saveCoursesCalls)
}

func TestEnrollmentServiceUpdateLessonPreservesQuiz(t *testing.T) {
	course := testCourse("c1", "i1", models.CourseStatusApproved)
	lesson := quizLesson("l1", 2)
	course.Lessons = []*models.Lesson{lesson}
	store := &fakeStore{courses: []*models.Course{course}}
	svc := NewEnrollmentService(newTestRepo(store), nil, nil, seqID())

	// Nil quiz keeps the existing one.
	require.NoError(t, svc.UpdateLesson(context.Background(), "c1", "l1", "new title", "new body", nil))
	assert.Equal(t, "new title", lesson.Title)
	require.NotNil(t, lesson.Quiz)
	assert.Len(t, lesson.Quiz.Questions, 2)

	// A replacement quiz swaps it out.
	replacement := &models.Quiz{Questions: []*models.Question{{Text: "q", Options: []string{"a", "b", "c"}, CorrectOption: 1}}}
	require.NoError(t, svc.UpdateLesson(context.Background(), "c1", "l1", "t", "b", replacement))
	assert.Len(t, lesson.Quiz.Questions, 1)
	assert.Equal(t, "l1", lesson.Quiz.LessonID)
}

func TestEnrollmentServiceRemoveLessonQuiz(t *testing.T) {
	course := testCourse("c1", "i1", models.CourseStatusApproved)
	course.Lessons = []*models.Lesson{quizLesson("l1", 1)}
	store := &fakeStore{courses: []*models.Course{course}}
	svc := NewEnrollmentService(newTestRepo(store), nil, nil, nil)

	require.NoError(t, svc.RemoveLessonQuiz(context.Background(), "c1", "l1"))
	assert.Nil(t, course.Lessons[0].Quiz)
	assert.Equal(t, 1, store.saveCoursesCalls)

	// Already gone: no extra flush.
	require.NoError(t, svc.RemoveLessonQuiz(context.Background(), "c1", "l1"))
	assert.Equal(t, 1, store.saveCoursesCalls)
}

func TestEnrollmentServiceDeleteCourseCascade(t *testing.T) {
	instructor := testInstructor("i1", "bob", "bob@example.com")
	instructor.CreatedCourses = []string{"c1", "c2"}

	student := testStudent("s1", "alice", "alice@example.com")
	student.EnrolledCourses = []string{"c1", "c2"}
	student.QuizScores = map[string]int{"l1": 80, "other": 70}
	student.Certificates = []models.Certificate{
		{ID: "cert1", StudentID: "s1", CourseID: "c1", CourseTitle: "Course c1"},
		{ID: "cert2", StudentID: "s1", CourseID: "c2", CourseTitle: "Course c2"},
	}

	course := testCourse("c1", "i1", models.CourseStatusApproved)
	course.Lessons = []*models.Lesson{quizLesson("l1", 1)}
	course.Students = []string{"s1"}
	other := testCourse("c2", "i1", models.CourseStatusApproved)

	store := &fakeStore{users: []*models.User{instructor, student}, courses: []*models.Course{course, other}}
	repo := newTestRepo(store)
	svc := NewEnrollmentService(repo, nil, nil, nil)

	require.NoError(t, svc.DeleteCourse(context.Background(), "c1"))

	assert.Nil(t, repo.FindCourseByID("c1"))
	assert.Equal(t, []string{"c2"}, instructor.CreatedCourses)
	assert.Equal(t, []string{"c2"}, student.EnrolledCourses)
	assert.NotContains(t, student.QuizScores, "l1")
	assert.Contains(t, student.QuizScores, "other")
	require.Len(t, student.Certificates, 1)
	assert.Equal(t, "c2", student.Certificates[0].CourseID)
	assert.Equal(t, 1, store.saveUsersCalls)
	assert.Equal(t, 1, store.saveCoursesCalls)

	// Deleting an unknown course is a silent no-op.
	require.NoError(t, svc.DeleteCourse(context.Background(), "ghost"))
	assert.Equal(t, 1, store.saveCoursesCalls)
}

func TestEnrollmentServiceDeleteLessonSweepsScores(t *testing.T) {
	student := testStudent("s1", "alice", "alice@example.com")
	student.QuizScores = map[string]int{"l1": 90, "l2": 40}
	course := testCourse("c1", "i1", models.CourseStatusApproved)
	course.Lessons = []*models.Lesson{quizLesson("l1", 1), quizLesson("l2", 1)}
	store := &fakeStore{users: []*models.User{student}, courses: []*models.Course{course}}
	svc := NewEnrollmentService(newTestRepo(store), nil, nil, nil)

	require.NoError(t, svc.DeleteLesson(context.Background(), "c1", "l1"))
	require.Len(t, course.Lessons, 1)
	assert.Equal(t, "l2", course.Lessons[0].ID)
	assert.NotContains(t, student.QuizScores, "l1")
	assert.Contains(t, student.QuizScores, "l2")
	assert.Equal(t, 1, store.saveUsersCalls)

	// Unknown lesson: course untouched, nothing flushed.
	require.NoError(t, svc.DeleteLesson(context.Background(), "c1", "ghost"))
	assert.Equal(t, 1, store.saveCoursesCalls)
}

func TestEnrollmentServiceListings(t *testing.T) {
	student := testStudent("s1", "alice", "alice@example.com")
	student.EnrolledCourses = []string{"c1", "c3"}
	approved := testCourse("c1", "i1", models.CourseStatusApproved)
	approved.Students = []string{"s1"}
	pending := testCourse("c2", "i1", models.CourseStatusPending)
	rejected := testCourse("c3", "i2", models.CourseStatusRejected)

	store := &fakeStore{users: []*models.User{student}, courses: []*models.Course{approved, pending, rejected}}
	svc := NewEnrollmentService(newTestRepo(store), nil, nil, nil)

	assert.Len(t, svc.ApprovedCourses(), 1)
	// Only approved courses show up in a student's enrolled list.
	enrolled := svc.EnrolledCourses("s1")
	require.Len(t, enrolled, 1)
	assert.Equal(t, "c1", enrolled[0].ID)
	assert.Len(t, svc.CoursesByInstructor("i1"), 2)

	students := svc.EnrolledStudents("c1")
	require.Len(t, students, 1)
	assert.Equal(t, "s1", students[0].ID)
	assert.Nil(t, svc.EnrolledStudents("ghost"))
}

package service

import (
	"fmt"
	"time"

	"github.com/skillforge-labs/skillforge-core/internal/models"
	"github.com/skillforge-labs/skillforge-core/internal/repository"
)

// fakeStore keeps collections in memory and counts flushes so tests can
// assert exactly when persistence happens.
type fakeStore struct {
	users   []*models.User
	courses []*models.Course

	saveUsersCalls   int
	saveCoursesCalls int
	saveUsersErr     error
	saveCoursesErr   error
}

func (f *fakeStore) LoadUsers() ([]*models.User, error)     { return f.users, nil }
func (f *fakeStore) LoadCourses() ([]*models.Course, error) { return f.courses, nil }

func (f *fakeStore) SaveUsers(users []*models.User) error {
	f.saveUsersCalls++
	if f.saveUsersErr != nil {
		return f.saveUsersErr
	}
	f.users = users
	return nil
}

func (f *fakeStore) SaveCourses(courses []*models.Course) error {
	f.saveCoursesCalls++
	if f.saveCoursesErr != nil {
		return f.saveCoursesErr
	}
	f.courses = courses
	return nil
}

func newTestRepo(store *fakeStore) *repository.EntityRepository {
	repo, err := repository.Load(store)
	if err != nil {
		panic(err)
	}
	return repo
}

// seqID returns a deterministic id generator: id-1, id-2, ...
func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock(date string) func() time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }
func (fakeHasher) Verify(digest, password string) bool  { return digest == "hash:"+password }

func testStudent(id, name, email string) *models.User {
	return models.NewUser(id, name, email, "hash:pw", models.RoleStudent)
}

func testInstructor(id, name, email string) *models.User {
	return models.NewUser(id, name, email, "hash:pw", models.RoleInstructor)
}

func testCourse(id, instructorID string, status models.CourseStatus) *models.Course {
	return &models.Course{
		ID:           id,
		Title:        "Course " + id,
		Description:  "desc",
		InstructorID: instructorID,
		Lessons:      []*models.Lesson{},
		Students:     []string{},
		Status:       status,
	}
}

func quizLesson(id string, questions int) *models.Lesson {
	quiz := &models.Quiz{ID: "quiz-" + id, LessonID: id}
	for i := 0; i < questions; i++ {
		quiz.Questions = append(quiz.Questions, &models.Question{
			Text:          fmt.Sprintf("q%d", i+1),
			Options:       []string{"a", "b", "c"},
			CorrectOption: 0,
		})
	}
	return &models.Lesson{ID: id, Title: "Lesson " + id, Content: "content", Resources: []string{}, Quiz: quiz}
}

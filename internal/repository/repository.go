package repository

import (
	"github.com/skillforge-labs/skillforge-core/internal/models"
)

// Store is the persistence collaborator flushing whole collections to disk.
type Store interface {
	LoadUsers() ([]*models.User, error)
	SaveUsers(users []*models.User) error
	LoadCourses() ([]*models.Course, error)
	SaveCourses(courses []*models.Course) error
}

// EntityRepository holds the in-memory user and course collections the
// services mutate. Lookups are linear scans; the dataset is assumed small.
// It performs no cascading side effects — those belong to the services.
type EntityRepository struct {
	store   Store
	users   []*models.User
	courses []*models.Course
}

// Load reads both collections from the store into a new repository.
func Load(store Store) (*EntityRepository, error) {
	users, err := store.LoadUsers()
	if err != nil {
		return nil, err
	}
	courses, err := store.LoadCourses()
	if err != nil {
		return nil, err
	}
	return &EntityRepository{store: store, users: users, courses: courses}, nil
}

// Users returns the live user collection.
func (r *EntityRepository) Users() []*models.User { return r.users }

// Courses returns the live course collection.
func (r *EntityRepository) Courses() []*models.Course { return r.courses }

// FindUserByEmail scans users by case-insensitive email.
func (r *EntityRepository) FindUserByEmail(email string) *models.User {
	for _, u := range r.users {
		if u.EmailMatches(email) {
			return u
		}
	}
	return nil
}

// FindUserByID scans users by id.
func (r *EntityRepository) FindUserByID(id string) *models.User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// FindStudentByID returns the user only when tagged as a student.
func (r *EntityRepository) FindStudentByID(id string) *models.User {
	if u := r.FindUserByID(id); u != nil && u.IsStudent() {
		return u
	}
	return nil
}

// FindInstructorByID returns the user only when tagged as an instructor.
func (r *EntityRepository) FindInstructorByID(id string) *models.User {
	if u := r.FindUserByID(id); u != nil && u.IsInstructor() {
		return u
	}
	return nil
}

// FindCourseByID scans courses by id.
func (r *EntityRepository) FindCourseByID(id string) *models.Course {
	for _, c := range r.courses {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// AddUser appends a user to the collection.
func (r *EntityRepository) AddUser(u *models.User) {
	r.users = append(r.users, u)
}

// RemoveUser deletes the user with the given id, if present.
func (r *EntityRepository) RemoveUser(id string) {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return
		}
	}
}

// AddCourse appends a course to the collection.
func (r *EntityRepository) AddCourse(c *models.Course) {
	r.courses = append(r.courses, c)
}

// RemoveCourse deletes the course with the given id, if present.
func (r *EntityRepository) RemoveCourse(id string) {
	for i, c := range r.courses {
		if c.ID == id {
			r.courses = append(r.courses[:i], r.courses[i+1:]...)
			return
		}
	}
}

// SaveUsers flushes the user collection through the store.
func (r *EntityRepository) SaveUsers() error {
	return r.store.SaveUsers(r.users)
}

// SaveCourses flushes the course collection through the store.
func (r *EntityRepository) SaveCourses() error {
	return r.store.SaveCourses(r.courses)
}

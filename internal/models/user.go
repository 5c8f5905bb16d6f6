package models

import "strings"

// UserRole is the discriminator distinguishing the stored user variants.
type UserRole string

const (
	RoleStudent    UserRole = "Student"
	RoleInstructor UserRole = "Instructor"
	RoleAdmin      UserRole = "Admin"
)

// Valid reports whether the role is one of the known variants.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// User is a tagged record over the Student/Instructor/Admin variants. The
// role field decides which of the variant fields are meaningful; the stored
// JSON documents carry only the fields belonging to the tagged variant.
type User struct {
	ID           string   `json:"userId"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"passwordHash"`
	Role         UserRole `json:"role"`

	// Student variant.
	EnrolledCourses []string       `json:"enrolledCourses,omitempty"`
	QuizScores      map[string]int `json:"quizScores,omitempty"`
	Certificates    []Certificate  `json:"certificates,omitempty"`

	// Instructor variant.
	CreatedCourses []string `json:"createdCourses,omitempty"`
}

// NewUser builds a user of the given role with empty variant collections.
func NewUser(id, username, email, passwordHash string, role UserRole) *User {
	u := &User{ID: id, Username: username, Email: email, PasswordHash: passwordHash, Role: role}
	u.Normalize()
	return u
}

// IsStudent reports whether the user is tagged as a student.
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsInstructor reports whether the user is tagged as an instructor.
func (u *User) IsInstructor() bool { return u.Role == RoleInstructor }

// EmailMatches compares emails case-insensitively.
func (u *User) EmailMatches(email string) bool {
	return strings.EqualFold(u.Email, email)
}

// Normalize initialises the collections belonging to the tagged variant and
// drops fields that do not belong to it. Decoded documents pass through here
// so the rest of the engine never sees nil variant collections.
func (u *User) Normalize() {
	switch u.Role {
	case RoleStudent:
		if u.EnrolledCourses == nil {
			u.EnrolledCourses = []string{}
		}
		if u.QuizScores == nil {
			u.QuizScores = map[string]int{}
		}
		if u.Certificates == nil {
			u.Certificates = []Certificate{}
		}
		u.CreatedCourses = nil
	case RoleInstructor:
		if u.CreatedCourses == nil {
			u.CreatedCourses = []string{}
		}
		u.EnrolledCourses = nil
		u.QuizScores = nil
		u.Certificates = nil
	default:
		u.EnrolledCourses = nil
		u.QuizScores = nil
		u.Certificates = nil
		u.CreatedCourses = nil
	}
}

// EnrolledIn reports whether the student is enrolled in the course.
func (u *User) EnrolledIn(courseID string) bool {
	for _, id := range u.EnrolledCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// LessonCompleted reports whether the stored score passes the lesson.
func (u *User) LessonCompleted(lessonID string) bool {
	score, ok := u.QuizScores[lessonID]
	return ok && score >= PassingScore
}

// CertificateFor returns the certificate issued for the course, or nil.
func (u *User) CertificateFor(courseID string) *Certificate {
	for i := range u.Certificates {
		if u.Certificates[i].CourseID == courseID {
			return &u.Certificates[i]
		}
	}
	return nil
}

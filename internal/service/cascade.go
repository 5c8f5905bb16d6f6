package service

import "github.com/skillforge-labs/skillforge-core/internal/models"

// userCascade describes the per-user cleanup a course deletion requires.
// Fan-out is computed for the full user set before anything is applied, so
// no partial cascade is ever visible to callers.
type userCascade struct {
	user            *models.User
	removeCreated   bool
	removeEnrolled  bool
	removeCertIDs   []string
	removeScoreKeys []string
}

// courseDeleteFanout returns the sub-mutations needed to scrub every
// reference to the course from the user set: the instructor's created list,
// each student's enrollment, certificates for the course, and quiz scores
// keyed by the course's lesson ids.
func courseDeleteFanout(course *models.Course, users []*models.User) []userCascade {
	lessonIDs := make(map[string]bool, len(course.Lessons))
	for _, l := range course.Lessons {
		lessonIDs[l.ID] = true
	}

	var cascades []userCascade
	for _, u := range users {
		c := userCascade{user: u}
		switch {
		case u.IsInstructor():
			for _, id := range u.CreatedCourses {
				if id == course.ID {
					c.removeCreated = true
					break
				}
			}
		case u.IsStudent():
			c.removeEnrolled = u.EnrolledIn(course.ID)
			for _, cert := range u.Certificates {
				if cert.CourseID == course.ID {
					c.removeCertIDs = append(c.removeCertIDs, cert.ID)
				}
			}
			for lessonID := range u.QuizScores {
				if lessonIDs[lessonID] {
					c.removeScoreKeys = append(c.removeScoreKeys, lessonID)
				}
			}
		}
		if c.removeCreated || c.removeEnrolled || len(c.removeCertIDs) > 0 || len(c.removeScoreKeys) > 0 {
			cascades = append(cascades, c)
		}
	}
	return cascades
}

// apply performs the sub-mutations against the user in memory.
func (c userCascade) apply(courseID string) {
	u := c.user
	if c.removeCreated {
		u.CreatedCourses = removeString(u.CreatedCourses, courseID)
	}
	if c.removeEnrolled {
		u.EnrolledCourses = removeString(u.EnrolledCourses, courseID)
	}
	if len(c.removeCertIDs) > 0 {
		kept := u.Certificates[:0]
		drop := make(map[string]bool, len(c.removeCertIDs))
		for _, id := range c.removeCertIDs {
			drop[id] = true
		}
		for _, cert := range u.Certificates {
			if !drop[cert.ID] {
				kept = append(kept, cert)
			}
		}
		u.Certificates = kept
	}
	for _, key := range c.removeScoreKeys {
		delete(u.QuizScores, key)
	}
}

func removeString(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

package models

// CourseStatus tracks a course through the moderation workflow.
type CourseStatus string

const (
	CourseStatusPending  CourseStatus = "PENDING"
	CourseStatusApproved CourseStatus = "APPROVED"
	CourseStatusRejected CourseStatus = "REJECTED"
)

// PassingScore is the minimum stored quiz score for a lesson to count as completed.
const PassingScore = 50

// Course is a denormalized course document with nested lessons and the
// enrolled student id set. Field names match the legacy JSON documents.
type Course struct {
	ID           string       `json:"courseId"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	InstructorID string       `json:"instructorId"`
	Lessons      []*Lesson    `json:"lessons"`
	Students     []string     `json:"students"`
	Status       CourseStatus `json:"status"`
}

// Lesson carries content plus an optional quiz (at most one).
type Lesson struct {
	ID        string   `json:"lessonId"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Resources []string `json:"resources"`
	Quiz      *Quiz    `json:"quiz,omitempty"`
}

// HasQuiz reports whether the lesson carries a non-empty quiz.
func (l *Lesson) HasQuiz() bool {
	return l.Quiz != nil && len(l.Quiz.Questions) > 0
}

// Quiz is an ordered list of questions attached to a lesson.
type Quiz struct {
	ID        string      `json:"quizId"`
	LessonID  string      `json:"lessonId"`
	Questions []*Question `json:"questions"`
}

// Grade returns the percentage of answers matching the correct option index,
// rounded down. Missing answers count as wrong.
func (q *Quiz) Grade(answers []int) int {
	if q == nil || len(q.Questions) == 0 {
		return 0
	}
	correct := 0
	for i, question := range q.Questions {
		if i < len(answers) && answers[i] == question.CorrectOption {
			correct++
		}
	}
	return correct * 100 / len(q.Questions)
}

// Sanitize clamps out-of-range correct option indices on every question.
func (q *Quiz) Sanitize() {
	if q == nil {
		return
	}
	for _, question := range q.Questions {
		question.Clamp()
	}
}

// Question is a multiple-choice question with one correct option.
type Question struct {
	Text          string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOptionIndex"`
}

// Clamp coerces an out-of-range correct option index to a safe default.
func (q *Question) Clamp() {
	if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
		q.CorrectOption = 0
	}
}

// ClampScore bounds a quiz score to the 0-100 percentage range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Certificate is an immutable completion record snapshotting the student
// and course names at issuance time. IssueDate is an ISO calendar date.
type Certificate struct {
	ID          string `json:"certificateId"`
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	CourseID    string `json:"courseId"`
	CourseTitle string `json:"courseTitle"`
	IssueDate   string `json:"issueDate"`
}

// CourseStatistics aggregates completion and quiz performance for a course.
type CourseStatistics struct {
	AvgCompletion float64 `json:"avgCompletion"`
	AvgQuizScore  float64 `json:"avgQuizScore"`
}

// FindLesson returns the lesson with the given id, or nil.
func (c *Course) FindLesson(lessonID string) *Lesson {
	for _, l := range c.Lessons {
		if l.ID == lessonID {
			return l
		}
	}
	return nil
}

// HasStudent reports whether the student id is in the enrolled set.
func (c *Course) HasStudent(studentID string) bool {
	for _, id := range c.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

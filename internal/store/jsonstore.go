package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/skillforge-labs/skillforge-core/internal/models"
)

// JSONStore persists the user and course collections as two whole-file JSON
// documents under a data directory. Every save rewrites the full document;
// a missing file reads as an empty collection. Writes are serialized with a
// mutex so concurrent mutating calls cannot interleave partial writes.
type JSONStore struct {
	dir         string
	usersFile   string
	coursesFile string
	logger      *zap.Logger

	mu sync.Mutex
}

// New ensures the data directory exists and returns a store over it.
func New(dir, usersFile, coursesFile string, logger *zap.Logger) (*JSONStore, error) {
	if dir == "" {
		dir = "./data"
	}
	if usersFile == "" {
		usersFile = "users.json"
	}
	if coursesFile == "" {
		coursesFile = "courses.json"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &JSONStore{dir: dir, usersFile: usersFile, coursesFile: coursesFile, logger: logger}, nil
}

// LoadUsers reads the users document. The role discriminator on each record
// decides which variant fields are kept; records with an unknown role are
// dropped.
func (s *JSONStore) LoadUsers() ([]*models.User, error) {
	path := filepath.Join(s.dir, s.usersFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("users document missing, starting empty", zap.String("path", path))
			return []*models.User{}, nil
		}
		return nil, fmt.Errorf("read users document: %w", err)
	}

	var decoded []*models.User
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode users document: %w", err)
	}

	users := make([]*models.User, 0, len(decoded))
	for _, u := range decoded {
		if u == nil || !u.Role.Valid() {
			s.logger.Warn("skipping user record with unknown role", zap.String("userId", userID(u)))
			continue
		}
		u.Normalize()
		users = append(users, u)
	}
	return users, nil
}

// SaveUsers rewrites the whole users document.
func (s *JSONStore) SaveUsers(users []*models.User) error {
	return s.write(s.usersFile, users)
}

// LoadCourses reads the courses document.
func (s *JSONStore) LoadCourses() ([]*models.Course, error) {
	path := filepath.Join(s.dir, s.coursesFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("courses document missing, starting empty", zap.String("path", path))
			return []*models.Course{}, nil
		}
		return nil, fmt.Errorf("read courses document: %w", err)
	}

	var courses []*models.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		return nil, fmt.Errorf("decode courses document: %w", err)
	}
	if courses == nil {
		courses = []*models.Course{}
	}
	return courses, nil
}

// SaveCourses rewrites the whole courses document.
func (s *JSONStore) SaveCourses(courses []*models.Course) error {
	return s.write(s.coursesFile, courses)
}

func (s *JSONStore) write(filename string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filename, err)
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func userID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

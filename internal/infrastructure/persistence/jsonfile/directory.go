package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
)

// teacherRecord mirrors one directory entry on disk. The file shape is a
// flat object keyed by class code:
//
//	{"10A": {"name": "...", "subject": "...", ...}, ...}
type teacherRecord struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Phone      string `json:"phone"`
	Experience string `json:"experience"`
	Students   int    `json:"students"`
}

// DirectorySource reads the class-to-teacher assignment file. Implements
// roster.DirectorySource.
type DirectorySource struct {
	path string
}

// NewDirectorySource creates a directory source for the given file path.
func NewDirectorySource(path string) *DirectorySource {
	return &DirectorySource{path: path}
}

// LoadDirectory reads and decodes the assignment file. An empty path
// yields an empty directory so every class resolves to the unassigned
// sentinel.
func (s *DirectorySource) LoadDirectory(_ context.Context) (*roster.Directory, error) {
	if s.path == "" {
		return roster.NewDirectory(nil), nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("directory file %s: %w", s.path, err)
	}

	var records map[string]teacherRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("directory file %s: invalid JSON: %w", s.path, err)
	}

	assignments := make(map[roster.ClassCode]roster.Teacher, len(records))
	for code, rec := range records {
		assignments[roster.ClassCode(code)] = roster.Teacher{
			Name:          rec.Name,
			Email:         rec.Email,
			Subject:       rec.Subject,
			Phone:         rec.Phone,
			Experience:    rec.Experience,
			StudentsCount: rec.Students,
		}
	}
	return roster.NewDirectory(assignments), nil
}

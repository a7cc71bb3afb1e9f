package roster

import "context"

// RosterSource loads the student roster from wherever it is persisted
// (JSON file, PostgreSQL, ...). Implementations are partial-failure
// tolerant: malformed records come back as issues next to the valid
// students, and only a wholly unreadable source is an error.
type RosterSource interface {
	// Load reads the full roster. The returned issues describe records
	// that were skipped or loaded with absent signals.
	Load(ctx context.Context) ([]*Student, []RecordIssue, error)
}

// DirectorySource loads the teacher directory reference data.
type DirectorySource interface {
	// LoadDirectory reads the class-code -> teacher mapping.
	LoadDirectory(ctx context.Context) (*Directory, error)
}

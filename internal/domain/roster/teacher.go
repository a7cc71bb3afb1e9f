package roster

import (
	"sort"
	"strconv"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER DIRECTORY
// ══════════════════════════════════════════════════════════════════════════════

// NotAssignedName is the sentinel teacher name used when a class code has no
// directory entry. Lookups never fail; gaps stay visible to operators.
const NotAssignedName = "Not Assigned"

// Teacher holds the directory attributes of a class teacher.
type Teacher struct {
	// Name - teacher full name.
	Name string

	// Email - teacher contact address.
	Email string

	// Subject - taught subjects, free text.
	Subject string

	// Phone - teacher contact phone.
	Phone string

	// Experience - free text with a leading integer, e.g. "12 years".
	Experience string

	// StudentsCount - nominal enrolled-student count from the directory.
	StudentsCount int
}

// IsAssigned reports whether this is a real directory entry rather than
// the NotAssigned sentinel.
func (t Teacher) IsAssigned() bool {
	return t.Name != NotAssignedName && t.Name != ""
}

// ExperienceYears parses the leading integer of the free-text experience
// field. Unparsable text counts as 0 years.
func (t Teacher) ExperienceYears() int {
	fields := strings.Fields(t.Experience)
	if len(fields) == 0 {
		return 0
	}
	years, err := strconv.Atoi(fields[0])
	if err != nil || years < 0 {
		return 0
	}
	return years
}

// notAssigned is the sentinel returned for unknown class codes.
var notAssigned = Teacher{Name: NotAssignedName}

// Directory maps class codes to their teachers. Read-only reference data,
// loaded once at startup.
type Directory struct {
	entries map[ClassCode]Teacher
}

// NewDirectory creates a directory from a class-code mapping.
func NewDirectory(entries map[ClassCode]Teacher) *Directory {
	copied := make(map[ClassCode]Teacher, len(entries))
	for code, t := range entries {
		copied[code] = t
	}
	return &Directory{entries: copied}
}

// Resolve returns the teacher for a class code. A code with no registered
// teacher resolves to the NotAssigned sentinel, never a lookup failure.
// The second return reports whether a real entry was found.
func (d *Directory) Resolve(code ClassCode) (Teacher, bool) {
	if d == nil {
		return notAssigned, false
	}
	t, ok := d.entries[code]
	if !ok {
		return notAssigned, false
	}
	return t, true
}

// Classes returns all class codes in the directory, sorted for
// deterministic iteration.
func (d *Directory) Classes() []ClassCode {
	if d == nil {
		return nil
	}
	codes := make([]ClassCode, 0, len(d.entries))
	for code := range d.entries {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Len returns the number of directory entries.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// AverageExperienceYears returns the mean of the parsed experience years
// across all entries, 0 for an empty directory.
func (d *Directory) AverageExperienceYears() float64 {
	if d == nil || len(d.entries) == 0 {
		return 0
	}
	total := 0
	for _, t := range d.entries {
		total += t.ExperienceYears()
	}
	return float64(total) / float64(len(d.entries))
}

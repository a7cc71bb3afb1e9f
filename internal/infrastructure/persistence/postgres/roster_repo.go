package postgres

import (
	"context"
	"fmt"

	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// RosterRepository serves the student roster and the class-teacher
// directory from PostgreSQL. Implements roster.RosterSource and
// roster.DirectorySource. Signal columns are nullable: a NULL signal
// loads as an absent value and is reported as a record issue, matching
// the file-based source's behavior.
type RosterRepository struct {
	conn *Connection
}

// NewRosterRepository creates a new roster repository.
func NewRosterRepository(conn *Connection) *RosterRepository {
	return &RosterRepository{conn: conn}
}

// Load returns every student in the roster with per-record issues for
// absent signals.
func (r *RosterRepository) Load(ctx context.Context) ([]*roster.Student, []roster.RecordIssue, error) {
	const query = `
		SELECT id, name, email, phone, guardian_name, class_code,
		       attendance, marks, fee_overdue_days
		FROM students
		ORDER BY id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: failed to query students: %w", err)
	}
	defer rows.Close()

	var students []*roster.Student
	var issues []roster.RecordIssue

	for rows.Next() {
		var (
			params     roster.NewStudentParams
			attendance *float64
			marks      *float64
			feeDays    *int
		)
		var classCode string
		if err := rows.Scan(
			&params.ID,
			&params.Name,
			&params.Email,
			&params.Phone,
			&params.GuardianName,
			&classCode,
			&attendance,
			&marks,
			&feeDays,
		); err != nil {
			return nil, nil, fmt.Errorf("postgres: failed to scan student row: %w", err)
		}
		params.Class = roster.ClassCode(classCode)

		if attendance != nil {
			params.Attendance = roster.NewMeasure(*attendance)
		} else {
			issues = append(issues, roster.RecordIssue{StudentID: params.ID, Field: "attendance", Detail: "null in database"})
		}
		if marks != nil {
			params.Marks = roster.NewMeasure(*marks)
		} else {
			issues = append(issues, roster.RecordIssue{StudentID: params.ID, Field: "marks", Detail: "null in database"})
		}
		if feeDays != nil {
			params.FeeOverdueDays = roster.NewDays(*feeDays)
		} else {
			issues = append(issues, roster.RecordIssue{StudentID: params.ID, Field: "fee_overdue_days", Detail: "null in database"})
		}

		student, err := roster.NewStudent(params)
		if err != nil {
			issues = append(issues, roster.RecordIssue{StudentID: params.ID, Field: "record", Detail: err.Error()})
			continue
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("postgres: failed to iterate students: %w", err)
	}

	return students, issues, nil
}

// LoadDirectory returns the class-to-teacher assignment map.
func (r *RosterRepository) LoadDirectory(ctx context.Context) (*roster.Directory, error) {
	const query = `
		SELECT class_code, name, email, subject, phone, experience, students
		FROM class_teachers
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query class teachers: %w", err)
	}
	defer rows.Close()

	assignments := make(map[roster.ClassCode]roster.Teacher)
	for rows.Next() {
		var code string
		var teacher roster.Teacher
		if err := rows.Scan(
			&code,
			&teacher.Name,
			&teacher.Email,
			&teacher.Subject,
			&teacher.Phone,
			&teacher.Experience,
			&teacher.StudentsCount,
		); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan teacher row: %w", err)
		}
		assignments[roster.ClassCode(code)] = teacher
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate class teachers: %w", err)
	}

	return roster.NewDirectory(assignments), nil
}

// UpsertStudent inserts or updates one roster record.
func (r *RosterRepository) UpsertStudent(ctx context.Context, s *roster.Student) error {
	const query = `
		INSERT INTO students (id, name, email, phone, guardian_name, class_code,
		                      attendance, marks, fee_overdue_days, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			guardian_name = EXCLUDED.guardian_name,
			class_code = EXCLUDED.class_code,
			attendance = EXCLUDED.attendance,
			marks = EXCLUDED.marks,
			fee_overdue_days = EXCLUDED.fee_overdue_days,
			updated_at = NOW()
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Name,
		s.Email,
		s.Phone,
		s.GuardianName,
		string(s.Class),
		measureArg(s.Attendance),
		measureArg(s.Marks),
		daysArg(s.FeeOverdueDays),
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to upsert student %s: %w", s.ID, err)
	}
	return nil
}

// UpsertTeacher inserts or updates one class-teacher assignment.
func (r *RosterRepository) UpsertTeacher(ctx context.Context, code roster.ClassCode, t roster.Teacher) error {
	const query = `
		INSERT INTO class_teachers (class_code, name, email, subject, phone, experience, students)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (class_code) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			subject = EXCLUDED.subject,
			phone = EXCLUDED.phone,
			experience = EXCLUDED.experience,
			students = EXCLUDED.students
	`

	_, err := r.conn.Exec(ctx, query,
		string(code), t.Name, t.Email, t.Subject, t.Phone, t.Experience, t.StudentsCount,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to upsert teacher for class %s: %w", code, err)
	}
	return nil
}

// measureArg maps an absent measure to SQL NULL.
func measureArg(m roster.Measure) *float64 {
	if !m.Valid {
		return nil
	}
	return &m.Value
}

// daysArg maps an absent day count to SQL NULL.
func daysArg(d roster.Days) *int {
	if !d.Valid {
		return nil
	}
	return &d.Value
}

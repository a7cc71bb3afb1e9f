package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/eduguard-hub/eduguard-core/internal/domain/analytics"
)

// StudentCSV renders student risk rows as a CSV document with a header.
func StudentCSV(rows []analytics.StudentRow) ([]byte, error) {
	return encodeCSV(analytics.StudentExportHeader, studentCells(rows))
}

// TeacherCSV renders teacher performance rows as a CSV document with a header.
func TeacherCSV(rows []analytics.TeacherRow) ([]byte, error) {
	return encodeCSV(analytics.TeacherExportHeader, teacherCells(rows))
}

func encodeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("export: failed to write csv header: %w", err)
	}
	for i, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export: failed to write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

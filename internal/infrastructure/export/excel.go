// Package export renders roster analytics into downloadable documents.
// The column orders come from the analytics export contract and must not
// be reshuffled here; spreadsheets produced by this package are consumed
// by school administration tooling that addresses columns by position.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/eduguard-hub/eduguard-core/internal/domain/analytics"
)

const (
	// StudentSheetName is the workbook sheet with per-student rows.
	StudentSheetName = "Students"

	// TeacherSheetName is the workbook sheet with per-teacher rows.
	TeacherSheetName = "Teachers"
)

// Workbook builds an XLSX document with one sheet of student risk rows
// and one sheet of teacher performance rows.
func Workbook(students []analytics.StudentRow, teachers []analytics.TeacherRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StudentSheetName); err != nil {
		return nil, fmt.Errorf("export: failed to rename student sheet: %w", err)
	}
	if _, err := f.NewSheet(TeacherSheetName); err != nil {
		return nil, fmt.Errorf("export: failed to create teacher sheet: %w", err)
	}

	if err := writeSheet(f, StudentSheetName, analytics.StudentExportHeader, studentCells(students)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, TeacherSheetName, analytics.TeacherExportHeader, teacherCells(teachers)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// StudentWorkbook builds an XLSX document with only the student sheet.
func StudentWorkbook(students []analytics.StudentRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StudentSheetName); err != nil {
		return nil, fmt.Errorf("export: failed to rename student sheet: %w", err)
	}
	if err := writeSheet(f, StudentSheetName, analytics.StudentExportHeader, studentCells(students)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSheet writes a header row followed by data rows.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("export: invalid row %d: %w", rowNum, err)
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("export: failed to write row %d on %s: %w", rowNum, sheet, err)
	}
	return nil
}

func studentCells(rows []analytics.StudentRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Values()
	}
	return out
}

func teacherCells(rows []analytics.TeacherRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Values()
	}
	return out
}

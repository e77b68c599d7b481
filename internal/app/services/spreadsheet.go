package services

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

const attendanceSheet = "Attendance"

var attendanceHeader = []interface{}{"Date", "Student", "Email", "Course", "Batch", "Status"}

// readRosterEmails returns the distinct lower-cased emails found in column A
// of the first sheet, skipping the header row and blank cells.
func readRosterEmails(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		logger.Warn().Err(err).Msg("Rejected roster upload")
		return nil, apperrors.ErrRosterFileFormat
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing roster workbook")
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, apperrors.ErrRosterFileFormat
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.ErrRosterFileFormat
	}

	seen := make(map[string]struct{}, len(rows))
	emails := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(row[0]))
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}

	return emails, nil
}

// writeAttendanceWorkbook renders records as a single-sheet workbook
func writeAttendanceWorkbook(records []*models.AttendanceRecord, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), attendanceSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(attendanceSheet, "A1", &attendanceHeader); err != nil {
		return err
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			record.Date.String(),
			record.StudentName,
			record.StudentEmail,
			record.CourseName,
			record.BatchName,
			models.StatusLabel(record.Status),
		}
		if err := f.SetSheetRow(attendanceSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/app/repositories"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/testutil"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	database := testutil.NewDatabase(t)
	return NewServices(database, repositories.NewRepositories(database))
}

func createStudent(t *testing.T, svc *Services, first, last, email string) *models.Student {
	t.Helper()
	student, err := svc.StudentService.CreateStudent(context.Background(), &dto.StudentRequest{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		DateOfBirth: "2000-12-10",
		Gender:      "F",
	})
	if err != nil {
		t.Fatalf("create student %s: %v", email, err)
	}
	return student
}

func createCourse(t *testing.T, svc *Services, code string) *models.Course {
	t.Helper()
	course, err := svc.CourseService.CreateCourse(context.Background(), &dto.CourseRequest{
		CourseCode: code, CourseName: "Intro", Description: "desc", Credits: 3,
	})
	if err != nil {
		t.Fatalf("create course %s: %v", code, err)
	}
	return course
}

func createBatch(t *testing.T, svc *Services, courseID int64, name, start, end string) *models.Batch {
	t.Helper()
	batch, err := svc.BatchService.CreateBatch(context.Background(), &dto.BatchRequest{
		BatchName: name, CourseID: courseID, StartDate: start, EndDate: end,
	})
	if err != nil {
		t.Fatalf("create batch %s: %v", name, err)
	}
	return batch
}

func TestEndToEndBatchDetailsListRosteredStudent(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	course := createCourse(t, svc, "CS101")
	batch := createBatch(t, svc, course.ID, "B1", "2024-01-01", "2024-06-01")
	s1 := createStudent(t, svc, "Ada", "Lovelace", "ada@example.com")

	if _, err := svc.BatchService.AddStudentsToBatch(ctx, batch.ID, []int64{s1.ID}); err != nil {
		t.Fatalf("add students: %v", err)
	}

	details, err := svc.BatchService.GetBatchDetails(ctx, batch.ID)
	if err != nil {
		t.Fatalf("batch details: %v", err)
	}
	if details.CourseName != "Intro" {
		t.Fatalf("expected course name Intro, got %q", details.CourseName)
	}
	if len(details.Students) != 1 || details.Students[0] != "Ada Lovelace" {
		t.Fatalf("expected roster [Ada Lovelace], got %v", details.Students)
	}
}

func TestCreateStudentDuplicateEmail(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	createStudent(t, svc, "Ada", "Lovelace", "ada@example.com")
	_, err := svc.StudentService.CreateStudent(ctx, &dto.StudentRequest{
		FirstName: "Someone", LastName: "Else", Email: "ADA@example.com", DateOfBirth: "1999-01-01", Gender: "M",
	})
	if !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	students, err := svc.StudentService.ListStudents(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("expected 1 student after rejected insert, got %d", len(students))
	}
}

func TestCreateStudentValidation(t *testing.T) {
	svc := newTestServices(t)

	valid := dto.StudentRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", DateOfBirth: "2000-12-10", Gender: "F"}
	tests := []struct {
		name   string
		mutate func(r *dto.StudentRequest)
	}{
		{"blank first name", func(r *dto.StudentRequest) { r.FirstName = "   " }},
		{"bad email", func(r *dto.StudentRequest) { r.Email = "not-an-email" }},
		{"bad date", func(r *dto.StudentRequest) { r.DateOfBirth = "10/12/2000" }},
		{"bad gender", func(r *dto.StudentRequest) { r.Gender = "X" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if _, err := svc.StudentService.CreateStudent(context.Background(), &req); !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestGetStudentDetailsMissing(t *testing.T) {
	svc := newTestServices(t)

	if _, err := svc.StudentService.GetStudentDetails(context.Background(), 404); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkAttendanceUpsertsOneRow(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	course := createCourse(t, svc, "CS101")
	createBatch(t, svc, course.ID, "B1", "2024-01-01", "2024-06-01")
	student := createStudent(t, svc, "Ada", "Lovelace", "ada@example.com")

	first, err := svc.AttendanceService.MarkAttendance(ctx, student.ID, course.ID, "present")
	if err != nil {
		t.Fatalf("mark present: %v", err)
	}
	if !first.Created || first.Message() != "Attendance marked" {
		t.Fatalf("expected a created row, got %+v", first)
	}

	second, err := svc.AttendanceService.MarkAttendance(ctx, student.ID, course.ID, "absent")
	if err != nil {
		t.Fatalf("mark absent: %v", err)
	}
	if second.Created || second.ID != first.ID || second.Message() != "Attendance updated" {
		t.Fatalf("expected an update of row %d, got %+v", first.ID, second)
	}

	records, err := svc.AttendanceService.ListAttendance(ctx, &models.AttendanceFilter{StudentID: student.ID, CourseID: course.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].Status {
		t.Fatalf("expected exactly one absent row, got %+v", records)
	}
}

func TestMarkAttendancePrefersRosteredBatch(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	course := createCourse(t, svc, "CS101")
	early := createBatch(t, svc, course.ID, "B1", "2024-01-01", "2024-06-01")
	createBatch(t, svc, course.ID, "B2", "2024-09-01", "2025-01-31")
	student := createStudent(t, svc, "Ada", "Lovelace", "ada@example.com")

	if _, err := svc.BatchService.AddStudentsToBatch(ctx, early.ID, []int64{student.ID}); err != nil {
		t.Fatalf("roster: %v", err)
	}

	result, err := svc.AttendanceService.MarkAttendance(ctx, student.ID, course.ID, "1")
	if err != nil {
		t.Fatalf("mark: %v", err)
	}

	attendance, err := svc.AttendanceService.GetAttendance(ctx, result.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if attendance.BatchID != early.ID {
		t.Fatalf("expected rostered batch %d, got %d", early.ID, attendance.BatchID)
	}
	if !attendance.Date.Equal(models.Today().Time) {
		t.Fatalf("expected today's date, got %s", attendance.Date)
	}
}

func TestMarkAttendanceErrors(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	course := createCourse(t, svc, "CS101")
	student := createStudent(t, svc, "Ada", "Lovelace", "ada@example.com")

	if _, err := svc.AttendanceService.MarkAttendance(ctx, student.ID, course.ID, "present"); !errors.Is(err, apperrors.ErrCourseHasNoBatch) {
		t.Fatalf("expected course without batch to fail, got %v", err)
	}
	if _, err := svc.AttendanceService.MarkAttendance(ctx, student.ID, course.ID, "late"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected invalid status to fail validation, got %v", err)
	}
	if _, err := svc.AttendanceService.MarkAttendance(ctx, 999, course.ID, "present"); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("expected missing student, got %v", err)
	}
	if _, err := svc.AttendanceService.MarkAttendance(ctx, student.ID, 999, "present"); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("expected missing course, got %v", err)
	}
}

func TestAddStudentsToBatchIdempotentAndSkipsUnknown(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	course := createCourse(t, svc, "CS101")
	batch := createBatch(t, svc, course.ID, "B1", "2024-01-01", "2024-06-01")
	s1 := createStudent(t, svc, "Ada", "Lovelace", "ada@example.com")
	s2 := createStudent(t, svc, "Alan", "Turing", "alan@example.com")

	first, err := svc.BatchService.AddStudentsToBatch(ctx, batch.ID, []int64{s1.ID, s2.ID, 777})
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if first.Added != 2 || len(first.SkippedIDs) != 1 || first.SkippedIDs[0] != 777 {
		t.Fatalf("unexpected first result %+v", first)
	}

	second, err := svc.BatchService.AddStudentsToBatch(ctx, batch.ID, []int64{s1.ID, s2.ID})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.Added != 0 || len(second.SkippedIDs) != 0 {
		t.Fatalf("unexpected second result %+v", second)
	}

	details, err := svc.BatchService.GetBatchDetails(ctx, batch.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(details.Students) != 2 {
		t.Fatalf("expected roster of 2, got %v", details.Students)
	}

	roster, err := svc.BatchService.RosterStudentIDs(ctx, batch.ID)
	if err != nil {
		t.Fatalf("roster ids: %v", err)
	}
	if len(roster) != 2 || roster[0] != s1.ID || roster[1] != s2.ID {
		t.Fatalf("roster ids = %v, want [%d %d]", roster, s1.ID, s2.ID)
	}
	if _, err := svc.BatchService.RosterStudentIDs(ctx, 999); !errors.Is(err, apperrors.ErrBatchNotFound) {
		t.Fatalf("expected missing batch for roster ids, got %v", err)
	}

	if _, err := svc.BatchService.AddStudentsToBatch(ctx, 999, []int64{s1.ID}); !errors.Is(err, apperrors.ErrBatchNotFound) {
		t.Fatalf("expected missing batch, got %v", err)
	}
}

func TestCreateBatchRules(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	course := createCourse(t, svc, "CS101")

	_, err := svc.BatchService.CreateBatch(ctx, &dto.BatchRequest{BatchName: "B1", CourseID: course.ID, StartDate: "2024-06-01", EndDate: "2024-01-01"})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected start after end to fail validation, got %v", err)
	}

	_, err = svc.BatchService.CreateBatch(ctx, &dto.BatchRequest{BatchName: "B1", CourseID: 999, StartDate: "2024-01-01", EndDate: "2024-06-01"})
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("expected missing course, got %v", err)
	}

	if _, err := svc.BatchService.CreateBatch(ctx, &dto.BatchRequest{BatchName: "Same day", CourseID: course.ID, StartDate: "2024-01-01", EndDate: "2024-01-01"}); err != nil {
		t.Fatalf("single-day batch should be accepted: %v", err)
	}
}

func TestDeleteCourseRemovesBatchesAndAttendance(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	course := createCourse(t, svc, "CS101")
	batch := createBatch(t, svc, course.ID, "B1", "2024-01-01", "2024-06-01")
	student := createStudent(t, svc, "Ada", "Lovelace", "ada@example.com")
	if err := svc.CourseService.EnrollStudent(ctx, course.ID, student.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := svc.AttendanceService.MarkAttendance(ctx, student.ID, course.ID, "present"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	if err := svc.CourseService.DeleteCourse(ctx, course.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.BatchService.GetBatch(ctx, batch.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected batch removed, got %v", err)
	}
	records, err := svc.AttendanceService.ListAttendance(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no attendance, got %d rows", len(records))
	}

	details, err := svc.StudentService.GetStudentDetails(ctx, student.ID)
	if err != nil {
		t.Fatalf("student details: %v", err)
	}
	if len(details.Courses) != 0 || len(details.Attendance) != 0 {
		t.Fatalf("expected no courses or history, got %+v", details)
	}
}

func TestStudentDetailsHistoryOrderedByDate(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	course := createCourse(t, svc, "CS101")
	batch := createBatch(t, svc, course.ID, "B1", "2024-01-01", "2024-06-01")
	student := createStudent(t, svc, "Ada", "Lovelace", "ada@example.com")
	if err := svc.CourseService.EnrollStudent(ctx, course.ID, student.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	for _, day := range []string{"2024-03-01", "2024-01-15"} {
		_, err := svc.AttendanceService.CreateAttendance(ctx, &dto.AttendanceRequest{StudentID: student.ID, BatchID: batch.ID, Date: day, Status: "present"})
		if err != nil {
			t.Fatalf("create attendance %s: %v", day, err)
		}
	}

	details, err := svc.StudentService.GetStudentDetails(ctx, student.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(details.Courses) != 1 || details.Courses[0] != "Intro" {
		t.Fatalf("unexpected courses %v", details.Courses)
	}
	if len(details.Attendance) != 2 || details.Attendance[0].Date.String() != "2024-01-15" || details.Attendance[1].Date.String() != "2024-03-01" {
		t.Fatalf("unexpected history %+v", details.Attendance)
	}
}

func TestImportBatchRoster(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	course := createCourse(t, svc, "CS101")
	batch := createBatch(t, svc, course.ID, "B1", "2024-01-01", "2024-06-01")
	createStudent(t, svc, "Ada", "Lovelace", "ada@example.com")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{{"email"}, {"ADA@example.com"}, {"ghost@example.com"}, {""}}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	result, err := svc.BatchService.ImportBatchRoster(ctx, batch.ID, &buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Added != 1 || len(result.UnknownEmails) != 1 || result.UnknownEmails[0] != "ghost@example.com" {
		t.Fatalf("unexpected import result %+v", result)
	}

	if _, err := svc.BatchService.ImportBatchRoster(ctx, batch.ID, bytes.NewBufferString("not a workbook")); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected a rejected upload, got %v", err)
	}
}

func TestExportAttendance(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	course := createCourse(t, svc, "CS101")
	createBatch(t, svc, course.ID, "B1", "2024-01-01", "2024-06-01")
	student := createStudent(t, svc, "Ada", "Lovelace", "ada@example.com")
	if _, err := svc.AttendanceService.MarkAttendance(ctx, student.ID, course.ID, "absent"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.AttendanceService.ExportAttendance(ctx, nil, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(attendanceSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one row, got %d rows", len(rows))
	}
	if rows[1][1] != "Ada Lovelace" || rows[1][2] != "ada@example.com" || rows[1][5] != "Absent" {
		t.Fatalf("unexpected export row %v", rows[1])
	}
}

func TestListStudentsLeavesFilterUntouched(t *testing.T) {
	svc := newTestServices(t)
	createStudent(t, svc, "Ada", "Lovelace", "ada@example.com")

	filter := &models.StudentFilter{Gender: " f "}
	students, err := svc.StudentService.ListStudents(context.Background(), filter)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("expected the lowercase gender filter to match, got %d students", len(students))
	}
	if filter.Gender != " f " {
		t.Fatalf("filter gender rewritten to %q", filter.Gender)
	}
}

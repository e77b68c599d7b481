package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/testutil"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func newStudent(t *testing.T, repos *Repositories, first, last, email string) *models.Student {
	t.Helper()
	s := &models.Student{
		FirstName:      first,
		LastName:       last,
		Email:          email,
		DateOfBirth:    mustDate(t, "2000-05-01"),
		Gender:         models.GenderFemale,
		EnrollmentDate: models.Today(),
	}
	if err := repos.StudentRepository.Create(context.Background(), s); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return s
}

func newCourseWithBatch(t *testing.T, repos *Repositories, code string) (*models.Course, *models.Batch) {
	t.Helper()
	ctx := context.Background()
	c := &models.Course{CourseCode: code, CourseName: "Intro " + code, Description: "desc", Credits: 3}
	if err := repos.CourseRepository.Create(ctx, c); err != nil {
		t.Fatalf("create course: %v", err)
	}
	b := &models.Batch{BatchName: "B1", CourseID: c.ID, StartDate: mustDate(t, "2024-01-01"), EndDate: mustDate(t, "2024-06-01")}
	if err := repos.BatchRepository.Create(ctx, b); err != nil {
		t.Fatalf("create batch: %v", err)
	}
	return c, b
}

func TestStudentCreateDuplicateEmail(t *testing.T) {
	repos := NewRepositories(testutil.NewDatabase(t))
	ctx := context.Background()

	first := newStudent(t, repos, "Ada", "Lovelace", "ada@example.com")
	if first.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}

	dup := &models.Student{FirstName: "Other", LastName: "Person", Email: "ada@example.com", DateOfBirth: mustDate(t, "2001-01-01"), Gender: models.GenderMale, EnrollmentDate: models.Today()}
	err := repos.StudentRepository.Create(ctx, dup)
	if !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	all, err := repos.StudentRepository.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected store unchanged with 1 student, got %d", len(all))
	}
}

func TestStudentGetAndUpdate(t *testing.T) {
	repos := NewRepositories(testutil.NewDatabase(t))
	ctx := context.Background()

	s := newStudent(t, repos, "Grace", "Hopper", "grace@example.com")

	got, err := repos.StudentRepository.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != s.Email || got.DateOfBirth.String() != "2000-05-01" || got.Gender != models.GenderFemale {
		t.Fatalf("unexpected student %+v", got)
	}

	got.LastName = "Murray"
	if err := repos.StudentRepository.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := repos.StudentRepository.GetByID(ctx, s.ID)
	if again.LastName != "Murray" {
		t.Fatalf("update not persisted: %+v", again)
	}

	got.ID = 9999
	if err := repos.StudentRepository.Update(ctx, got); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found on missing update, got %v", err)
	}
	if _, err := repos.StudentRepository.GetByID(ctx, 9999); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListEmptyStoreReturnsEmptySlice(t *testing.T) {
	repos := NewRepositories(testutil.NewDatabase(t))
	ctx := context.Background()

	students, err := repos.StudentRepository.List(ctx, nil)
	if err != nil {
		t.Fatalf("list students: %v", err)
	}
	if students == nil || len(students) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", students)
	}

	records, err := repos.AttendanceRepository.List(ctx, nil)
	if err != nil {
		t.Fatalf("list attendance: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", records)
	}
}

func TestStudentListFilters(t *testing.T) {
	repos := NewRepositories(testutil.NewDatabase(t))
	ctx := context.Background()

	ada := newStudent(t, repos, "Ada", "Lovelace", "ada@example.com")
	newStudent(t, repos, "Alan", "Turing", "alan@example.com")
	course, batch := newCourseWithBatch(t, repos, "CS101")

	if err := repos.CourseRepository.Enroll(ctx, course.ID, ada.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := repos.BatchRepository.AddStudents(ctx, batch.ID, []int64{ada.ID}); err != nil {
		t.Fatalf("add to batch: %v", err)
	}

	tests := []struct {
		name   string
		filter *models.StudentFilter
		want   int
	}{
		{"no filter", nil, 2},
		{"name substring", &models.StudentFilter{Name: "tur"}, 1},
		{"email", &models.StudentFilter{Email: "ada@example.com"}, 1},
		{"course", &models.StudentFilter{CourseID: course.ID}, 1},
		{"batch", &models.StudentFilter{BatchID: batch.ID}, 1},
		{"gender", &models.StudentFilter{Gender: models.GenderMale}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repos.StudentRepository.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("expected %d students, got %d", tt.want, len(got))
			}
		})
	}
}

func TestAddStudentsIsIdempotent(t *testing.T) {
	repos := NewRepositories(testutil.NewDatabase(t))
	ctx := context.Background()

	s1 := newStudent(t, repos, "Ada", "Lovelace", "ada@example.com")
	s2 := newStudent(t, repos, "Alan", "Turing", "alan@example.com")
	_, batch := newCourseWithBatch(t, repos, "CS101")

	for i := 0; i < 2; i++ {
		if _, err := repos.BatchRepository.AddStudents(ctx, batch.ID, []int64{s1.ID, s2.ID}); err != nil {
			t.Fatalf("add students (round %d): %v", i, err)
		}
	}

	roster, err := repos.BatchRepository.RosterIDs(ctx, batch.ID)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(roster) != 2 || roster[0] != s1.ID || roster[1] != s2.ID {
		t.Fatalf("unexpected roster %v", roster)
	}

	names, err := repos.StudentRepository.FullNamesByBatch(ctx, batch.ID)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 2 || names[0] != "Ada Lovelace" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestDeleteCourseCascades(t *testing.T) {
	repos := NewRepositories(testutil.NewDatabase(t))
	ctx := context.Background()

	s := newStudent(t, repos, "Ada", "Lovelace", "ada@example.com")
	course, batch := newCourseWithBatch(t, repos, "CS101")
	other, otherBatch := newCourseWithBatch(t, repos, "CS102")

	if err := repos.CourseRepository.Enroll(ctx, course.ID, s.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := repos.BatchRepository.AddStudents(ctx, batch.ID, []int64{s.ID}); err != nil {
		t.Fatalf("roster: %v", err)
	}
	for _, b := range []*models.Batch{batch, otherBatch} {
		a := &models.Attendance{StudentID: s.ID, BatchID: b.ID, Date: models.Today(), Status: true}
		if err := repos.AttendanceRepository.Create(ctx, a); err != nil {
			t.Fatalf("attendance: %v", err)
		}
	}

	removed, err := repos.CourseRepository.Delete(ctx, course.ID)
	if err != nil {
		t.Fatalf("delete course: %v", err)
	}
	if removed["courses"] != 1 || removed["batches"] != 1 || removed["attendances"] != 1 || removed["course_enrollments"] != 1 || removed["batch_students"] != 1 {
		t.Fatalf("unexpected cascade result %v", removed)
	}

	if _, err := repos.BatchRepository.GetByID(ctx, batch.ID); !errors.Is(err, apperrors.ErrBatchNotFound) {
		t.Fatalf("expected batch gone, got %v", err)
	}
	records, err := repos.AttendanceRepository.List(ctx, nil)
	if err != nil {
		t.Fatalf("list attendance: %v", err)
	}
	if len(records) != 1 || records[0].CourseID != other.ID {
		t.Fatalf("expected only the other course's attendance to remain, got %+v", records)
	}
	if _, err := repos.StudentRepository.GetByID(ctx, s.ID); err != nil {
		t.Fatalf("student must survive course delete: %v", err)
	}
}

func TestDeleteMissingRowRollsBack(t *testing.T) {
	repos := NewRepositories(testutil.NewDatabase(t))

	if _, err := repos.CourseRepository.Delete(context.Background(), 42); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("expected course not found, got %v", err)
	}
}

func TestAttendanceLookupByStudentAndCourse(t *testing.T) {
	repos := NewRepositories(testutil.NewDatabase(t))
	ctx := context.Background()

	s := newStudent(t, repos, "Ada", "Lovelace", "ada@example.com")
	course, batch := newCourseWithBatch(t, repos, "CS101")

	if _, err := repos.AttendanceRepository.FindByStudentAndCourse(ctx, s.ID, course.ID); !errors.Is(err, apperrors.ErrAttendanceNotFound) {
		t.Fatalf("expected no attendance yet, got %v", err)
	}

	a := &models.Attendance{StudentID: s.ID, BatchID: batch.ID, Date: mustDate(t, "2024-02-01"), Status: true}
	if err := repos.AttendanceRepository.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repos.AttendanceRepository.UpdateStatus(ctx, a.ID, false); err != nil {
		t.Fatalf("update status: %v", err)
	}

	found, err := repos.AttendanceRepository.FindByStudentAndCourse(ctx, s.ID, course.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != a.ID || found.Status {
		t.Fatalf("unexpected attendance %+v", found)
	}

	record, err := repos.AttendanceRepository.GetRecord(ctx, a.ID)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if record.StudentName != "Ada Lovelace" || record.BatchName != "B1" || record.CourseName != "Intro CS101" || record.Date.String() != "2024-02-01" {
		t.Fatalf("unexpected record %+v", record)
	}

	absent := false
	filtered, err := repos.AttendanceRepository.List(ctx, &models.AttendanceFilter{CourseID: course.ID, Status: &absent})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 absent record, got %d", len(filtered))
	}
}

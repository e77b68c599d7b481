package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/app/repositories"
	"github.com/yigit/collegerecords/internal/app/routes"
	"github.com/yigit/collegerecords/internal/app/services"
	"github.com/yigit/collegerecords/internal/middleware"
	"github.com/yigit/collegerecords/internal/testutil"
)

func newRouter(t *testing.T) (*gin.Engine, *services.Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database := testutil.NewDatabase(t)
	svc := services.NewServices(database, repositories.NewRepositories(database))
	return routes.NewEngine(routes.NewHandlers(svc, database), middleware.NewMetrics()), svc
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func post(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func studentForm(email string) url.Values {
	return url.Values{
		"first_name": {"Ada"},
		"last_name":  {"Lovelace"},
		"email":      {email},
		"dob":        {"2000-12-10"},
		"gender":     {"F"},
	}
}

func TestPagesRender(t *testing.T) {
	router, _ := newRouter(t)

	for _, path := range []string{
		"/",
		"/students/", "/students/create/",
		"/faculties/", "/faculties/create/",
		"/courses/", "/courses/create/",
		"/batches/", "/batches/create/",
		"/attendances/", "/attendances/create/", "/attendances/mark/",
	} {
		rec := get(router, path)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, rec.Code)
			continue
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("GET %s Content-Type = %q", path, ct)
		}
	}
}

func TestCreateStudentForm(t *testing.T) {
	router, svc := newRouter(t)
	ctx := context.Background()

	rec := post(router, "/students/create/", studentForm("ada@example.com"))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/students/" {
		t.Fatalf("valid submission: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	list := get(router, "/students/")
	if !strings.Contains(list.Body.String(), "ada@example.com") {
		t.Errorf("list page does not show the new student:\n%s", list.Body.String())
	}

	rec = post(router, "/students/create/", studentForm("ada@example.com"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already exists") {
		t.Errorf("duplicate email error not shown:\n%s", rec.Body.String())
	}

	students, err := svc.StudentService.ListStudents(ctx, nil)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(students) != 1 {
		t.Errorf("students = %d, want 1", len(students))
	}
}

func TestInvalidSubmissionKeepsValues(t *testing.T) {
	router, _ := newRouter(t)

	form := studentForm("not-an-email")
	form.Set("first_name", "Grace")
	rec := post(router, "/students/create/", form)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `class="error"`) {
		t.Errorf("error message missing:\n%s", body)
	}
	if !strings.Contains(body, `value="Grace"`) || !strings.Contains(body, `value="not-an-email"`) {
		t.Errorf("submitted values not re-rendered:\n%s", body)
	}
}

func TestMissingRecordPages(t *testing.T) {
	router, _ := newRouter(t)

	for _, path := range []string{"/students/42/", "/courses/42/update/", "/batches/42/delete/", "/attendances/abc/"} {
		if rec := get(router, path); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
	}
}

func TestCourseBatchAndAttendanceForms(t *testing.T) {
	router, svc := newRouter(t)
	ctx := context.Background()

	rec := post(router, "/courses/create/", url.Values{
		"course_code": {"CS101"},
		"course_name": {"Intro to Programming"},
		"description": {"Basics"},
		"credits":     {"3"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create course status = %d: %s", rec.Code, rec.Body.String())
	}
	courses, err := svc.CourseService.ListCourses(ctx, nil)
	if err != nil || len(courses) != 1 {
		t.Fatalf("courses = %v, err = %v", courses, err)
	}
	courseID := strconv.FormatInt(courses[0].ID, 10)

	rec = post(router, "/batches/create/", url.Values{
		"batch_name": {"B1"},
		"course_id":  {courseID},
		"start_date": {"2024-06-01"},
		"end_date":   {"2024-01-01"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("reversed dates status = %d, want 400", rec.Code)
	}

	rec = post(router, "/batches/create/", url.Values{
		"batch_name": {"B1"},
		"course_id":  {courseID},
		"start_date": {"2024-01-01"},
		"end_date":   {"2024-06-01"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create batch status = %d: %s", rec.Code, rec.Body.String())
	}
	batches, err := svc.BatchService.ListBatches(ctx, nil)
	if err != nil || len(batches) != 1 {
		t.Fatalf("batches = %v, err = %v", batches, err)
	}
	batchPath := "/batches/" + strconv.FormatInt(batches[0].ID, 10) + "/"

	student, err := svc.StudentService.CreateStudent(ctx, &dto.StudentRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", DateOfBirth: "2000-12-10", Gender: "F",
	})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	studentID := strconv.FormatInt(student.ID, 10)

	rec = post(router, batchPath+"students/", url.Values{"student_ids": {studentID}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != batchPath {
		t.Fatalf("add students: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if detail := get(router, batchPath); !strings.Contains(detail.Body.String(), "Ada Lovelace") {
		t.Errorf("batch detail does not list the student:\n%s", detail.Body.String())
	}
	if roster := get(router, batchPath+"students/"); !strings.Contains(roster.Body.String(), `value="`+studentID+`" checked`) {
		t.Errorf("roster form does not tick the rostered student:\n%s", roster.Body.String())
	}

	for _, status := range []string{"present", "absent"} {
		rec = post(router, "/attendances/mark/", url.Values{
			"student_id": {studentID},
			"course_id":  {courseID},
			"status":     {status},
		})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("mark %s status = %d: %s", status, rec.Code, rec.Body.String())
		}
	}

	records, err := svc.AttendanceService.ListAttendance(ctx, nil)
	if err != nil {
		t.Fatalf("ListAttendance: %v", err)
	}
	if len(records) != 1 || records[0].Status {
		t.Fatalf("records = %+v, want one absent record", records)
	}
	if records[0].Date.String() != models.Today().String() {
		t.Errorf("date = %s, want today", records[0].Date)
	}

	rec = post(router, "/attendances/mark/", url.Values{
		"student_id": {studentID},
		"course_id":  {courseID},
		"status":     {"late"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status code = %d, want 400", rec.Code)
	}

	rec = post(router, "/courses/"+courseID+"/delete/", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete course status = %d", rec.Code)
	}
	if rec := get(router, batchPath); rec.Code != http.StatusNotFound {
		t.Errorf("batch after course delete status = %d, want 404", rec.Code)
	}
	records, err = svc.AttendanceService.ListAttendance(ctx, nil)
	if err != nil {
		t.Fatalf("ListAttendance: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records after course delete = %d, want 0", len(records))
	}
}

package controllers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/collegerecords/internal/app/repositories"
	"github.com/yigit/collegerecords/internal/app/routes"
	"github.com/yigit/collegerecords/internal/app/services"
	"github.com/yigit/collegerecords/internal/middleware"
	"github.com/yigit/collegerecords/internal/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

type acknowledgement struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database := testutil.NewDatabase(t)
	svc := services.NewServices(database, repositories.NewRepositories(database))
	return routes.NewEngine(routes.NewHandlers(svc, database), middleware.NewMetrics())
}

func perform(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s response: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

// create posts body to path, expects 201 and returns the new id
func create(t *testing.T, router *gin.Engine, path string, body interface{}) int64 {
	t.Helper()

	rec, env := perform(t, router, http.MethodPost, path, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST %s status = %d, want 201: %s", path, rec.Code, rec.Body.String())
	}
	var ack acknowledgement
	if err := json.Unmarshal(env.Data, &ack); err != nil {
		t.Fatalf("decode acknowledgement: %v", err)
	}
	if ack.ID == 0 {
		t.Fatalf("POST %s returned no id", path)
	}
	return ack.ID
}

func studentBody(email string) gin.H {
	return gin.H{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      email,
		"dob":        "2000-12-10",
		"gender":     "F",
	}
}

// seedCourse creates a course with one batch and returns both ids
func seedCourse(t *testing.T, router *gin.Engine, code string) (courseID, batchID int64) {
	t.Helper()

	courseID = create(t, router, "/api/v1/courses", gin.H{
		"course_code": code,
		"course_name": "Course " + code,
		"credits":     3,
	})
	batchID = create(t, router, "/api/v1/batches", gin.H{
		"batch_name": "B1",
		"course_id":  courseID,
		"start_date": "2024-01-01",
		"end_date":   "2024-06-01",
	})
	return courseID, batchID
}

func TestStudentEndpoints(t *testing.T) {
	router := newRouter(t)

	id := create(t, router, "/api/v1/students", studentBody("ada@example.com"))

	rec, env := perform(t, router, http.MethodPost, "/api/v1/students", studentBody("ADA@example.com"))
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "RES_002" {
		t.Fatalf("duplicate email: status %d error %+v, want 400 RES_002", rec.Code, env.Error)
	}

	rec, env = perform(t, router, http.MethodGet, "/api/v1/students", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var students []struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(env.Data, &students); err != nil {
		t.Fatalf("decode students: %v", err)
	}
	if len(students) != 1 || students[0].ID != id {
		t.Fatalf("students = %+v, want only %d", students, id)
	}

	update := studentBody("ada@example.com")
	update["last_name"] = "King"
	rec, _ = perform(t, router, http.MethodPut, "/api/v1/students/"+strconv.FormatInt(id, 10), update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}

	rec, env = perform(t, router, http.MethodGet, "/api/v1/students/"+strconv.FormatInt(id, 10), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var details struct {
		FullName string `json:"full_name"`
	}
	if err := json.Unmarshal(env.Data, &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if details.FullName != "Ada King" {
		t.Errorf("full_name = %q, want Ada King", details.FullName)
	}

	rec, _ = perform(t, router, http.MethodDelete, "/api/v1/students/"+strconv.FormatInt(id, 10), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec, env = perform(t, router, http.MethodGet, "/api/v1/students/"+strconv.FormatInt(id, 10), nil)
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != "RES_001" {
		t.Errorf("get deleted: status %d error %+v, want 404 RES_001", rec.Code, env.Error)
	}
}

func TestRequestErrors(t *testing.T) {
	router := newRouter(t)

	missingEmail := studentBody("")
	delete(missingEmail, "email")

	badGender := studentBody("g@example.com")
	badGender["gender"] = "X"

	tests := []struct {
		name      string
		method    string
		path      string
		body      interface{}
		wantCode  int
		wantError string
		wantField string
	}{
		{"missing field", http.MethodPost, "/api/v1/students", missingEmail, http.StatusBadRequest, "VAL_001", "email"},
		{"bad gender", http.MethodPost, "/api/v1/students", badGender, http.StatusBadRequest, "VAL_001", "gender"},
		{"non numeric id", http.MethodGet, "/api/v1/students/abc", nil, http.StatusBadRequest, "VAL_002", "id"},
		{"unknown student", http.MethodGet, "/api/v1/students/999", nil, http.StatusNotFound, "RES_001", ""},
		{"unknown course", http.MethodDelete, "/api/v1/courses/999", nil, http.StatusNotFound, "RES_001", ""},
		{"bad status filter", http.MethodGet, "/api/v1/attendances?status=late", nil, http.StatusBadRequest, "VAL_001", ""},
		{"bad date filter", http.MethodGet, "/api/v1/attendances?date=yesterday", nil, http.StatusBadRequest, "VAL_001", "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := perform(t, router, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if env.Success || env.Error == nil {
				t.Fatalf("expected an error envelope, got %s", rec.Body.String())
			}
			if env.Error.Code != tt.wantError {
				t.Errorf("code = %s, want %s", env.Error.Code, tt.wantError)
			}
			if tt.wantField != "" && env.Error.Field != tt.wantField {
				t.Errorf("field = %q, want %q", env.Error.Field, tt.wantField)
			}
		})
	}
}

func TestMarkAttendanceEndpoint(t *testing.T) {
	router := newRouter(t)

	courseID, batchID := seedCourse(t, router, "CS101")
	studentID := create(t, router, "/api/v1/students", studentBody("ada@example.com"))

	rec, _ := perform(t, router, http.MethodPost, "/api/v1/batches/"+strconv.FormatInt(batchID, 10)+"/students",
		gin.H{"student_ids": []int64{studentID}})
	if rec.Code != http.StatusOK {
		t.Fatalf("add students status = %d: %s", rec.Code, rec.Body.String())
	}

	mark := gin.H{"student_id": studentID, "course_id": courseID, "status": "present"}
	rec, env := perform(t, router, http.MethodPost, "/api/v1/attendances/mark", mark)
	if rec.Code != http.StatusCreated || env.Message != "Attendance marked" {
		t.Fatalf("first mark: status %d message %q", rec.Code, env.Message)
	}

	mark["status"] = "absent"
	rec, env = perform(t, router, http.MethodPost, "/api/v1/attendances/mark", mark)
	if rec.Code != http.StatusOK || env.Message != "Attendance updated" {
		t.Fatalf("second mark: status %d message %q", rec.Code, env.Message)
	}

	rec, env = perform(t, router, http.MethodGet, "/api/v1/attendances?course_id="+strconv.FormatInt(courseID, 10), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var records []struct {
		BatchID int64 `json:"batch_id"`
		Status  bool  `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 1 || records[0].Status || records[0].BatchID != batchID {
		t.Errorf("records = %+v, want one absent record in batch %d", records, batchID)
	}

	mark["status"] = "late"
	rec, env = perform(t, router, http.MethodPost, "/api/v1/attendances/mark", mark)
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "VAL_001" {
		t.Errorf("invalid status: status %d error %+v, want 400 VAL_001", rec.Code, env.Error)
	}
}

func TestCourseDeleteRemovesBatches(t *testing.T) {
	router := newRouter(t)

	courseID, batchID := seedCourse(t, router, "CS101")
	_, otherBatch := seedCourse(t, router, "CS102")

	rec, _ := perform(t, router, http.MethodDelete, "/api/v1/courses/"+strconv.FormatInt(courseID, 10), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}

	rec, _ = perform(t, router, http.MethodGet, "/api/v1/batches/"+strconv.FormatInt(batchID, 10), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("batch of deleted course: status %d, want 404", rec.Code)
	}
	rec, _ = perform(t, router, http.MethodGet, "/api/v1/batches/"+strconv.FormatInt(otherBatch, 10), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("batch of other course: status %d, want 200", rec.Code)
	}
}

func TestEnrollAndAssign(t *testing.T) {
	router := newRouter(t)

	courseID, _ := seedCourse(t, router, "CS101")
	studentID := create(t, router, "/api/v1/students", studentBody("ada@example.com"))
	facultyID := create(t, router, "/api/v1/faculties", gin.H{
		"first_name": "Alan",
		"last_name":  "Turing",
		"email":      "alan@example.com",
		"department": "Computer Science",
	})
	course := "/api/v1/courses/" + strconv.FormatInt(courseID, 10)

	rec, _ := perform(t, router, http.MethodPost, course+"/students", gin.H{"student_id": studentID})
	if rec.Code != http.StatusOK {
		t.Fatalf("enroll status = %d: %s", rec.Code, rec.Body.String())
	}
	rec, _ = perform(t, router, http.MethodPost, course+"/instructors", gin.H{"faculty_id": facultyID})
	if rec.Code != http.StatusOK {
		t.Fatalf("assign status = %d: %s", rec.Code, rec.Body.String())
	}

	rec, env := perform(t, router, http.MethodGet, course, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get course status = %d", rec.Code)
	}
	var details struct {
		Students    []string `json:"students"`
		Instructors []string `json:"instructors"`
	}
	if err := json.Unmarshal(env.Data, &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if len(details.Students) != 1 || details.Students[0] != "Ada Lovelace" {
		t.Errorf("students = %v", details.Students)
	}
	if len(details.Instructors) != 1 || details.Instructors[0] != "Alan Turing" {
		t.Errorf("instructors = %v", details.Instructors)
	}

	rec, _ = perform(t, router, http.MethodDelete, course+"/students/"+strconv.FormatInt(studentID, 10), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unenroll status = %d", rec.Code)
	}
	rec, _ = perform(t, router, http.MethodDelete, course+"/students/"+strconv.FormatInt(studentID, 10), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second unenroll status = %d, want 404", rec.Code)
	}
}

func TestRosterImportAndExport(t *testing.T) {
	router := newRouter(t)

	courseID, batchID := seedCourse(t, router, "CS101")
	studentID := create(t, router, "/api/v1/students", studentBody("ada@example.com"))

	roster := excelize.NewFile()
	for cell, value := range map[string]string{"A1": "email", "A2": "Ada@Example.com", "A3": "ghost@example.com"} {
		if err := roster.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatalf("SetCellValue: %v", err)
		}
	}
	var workbook bytes.Buffer
	if err := roster.Write(&workbook); err != nil {
		t.Fatalf("write roster: %v", err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "roster.xlsx")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(workbook.Bytes()); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := form.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/"+strconv.FormatInt(batchID, 10)+"/students/import", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode import: %v", err)
	}
	var result struct {
		Added         int64    `json:"added"`
		UnknownEmails []string `json:"unknown_emails"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Added != 1 || len(result.UnknownEmails) != 1 || result.UnknownEmails[0] != "ghost@example.com" {
		t.Fatalf("import result = %+v", result)
	}

	create(t, router, "/api/v1/attendances/mark", gin.H{"student_id": studentID, "course_id": courseID, "status": "present"})

	req = httptest.NewRequest(http.MethodGet, "/api/v1/attendances/export", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(got, "attachment;") {
		t.Errorf("Content-Disposition = %q", got)
	}

	exported, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	rows, err := exported.GetRows(exported.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v, want header and one record", rows)
	}
	if rows[1][1] != "Ada Lovelace" || rows[1][5] != "Present" {
		t.Errorf("record row = %v", rows[1])
	}
}

func TestHealthAndMetrics(t *testing.T) {
	router := newRouter(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		rec, env := perform(t, router, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK || !env.Success {
			t.Errorf("GET %s: status %d body %s", path, rec.Code, rec.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `collegerecords_http_requests_total{method="GET",route="/health",status="200"} 1`) {
		t.Errorf("metrics missing the health request:\n%s", rec.Body.String())
	}
}

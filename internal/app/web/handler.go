// Package web serves the HTML form interface. Every handler binds the same
// request types as the JSON API and calls the same services.
package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/app/services"
	"github.com/yigit/collegerecords/internal/middleware"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

// Handler renders the form pages
type Handler struct {
	students    services.StudentService
	faculties   services.FacultyService
	courses     services.CourseService
	batches     services.BatchService
	attendances services.AttendanceService
}

// NewHandler creates a new Handler
func NewHandler(svc *services.Services) *Handler {
	return &Handler{
		students:    svc.StudentService,
		faculties:   svc.FacultyService,
		courses:     svc.CourseService,
		batches:     svc.BatchService,
		attendances: svc.AttendanceService,
	}
}

// Register mounts the form routes on router
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/", h.home)

	h.registerResource(router, "/students/", resource{
		list: h.listStudents, detail: h.studentDetail,
		createForm: h.createStudentForm, create: h.createStudent,
		updateForm: h.updateStudentForm, update: h.updateStudent,
		confirmDelete: h.confirmDeleteStudent, remove: h.deleteStudent,
	})
	h.registerResource(router, "/faculties/", resource{
		list: h.listFaculties, detail: h.facultyDetail,
		createForm: h.createFacultyForm, create: h.createFaculty,
		updateForm: h.updateFacultyForm, update: h.updateFaculty,
		confirmDelete: h.confirmDeleteFaculty, remove: h.deleteFaculty,
	})
	h.registerResource(router, "/courses/", resource{
		list: h.listCourses, detail: h.courseDetail,
		createForm: h.createCourseForm, create: h.createCourse,
		updateForm: h.updateCourseForm, update: h.updateCourse,
		confirmDelete: h.confirmDeleteCourse, remove: h.deleteCourse,
	})
	h.registerResource(router, "/batches/", resource{
		list: h.listBatches, detail: h.batchDetail,
		createForm: h.createBatchForm, create: h.createBatch,
		updateForm: h.updateBatchForm, update: h.updateBatch,
		confirmDelete: h.confirmDeleteBatch, remove: h.deleteBatch,
	})
	h.registerResource(router, "/attendances/", resource{
		list: h.listAttendances, detail: h.attendanceDetail,
		createForm: h.createAttendanceForm, create: h.createAttendance,
		updateForm: h.updateAttendanceForm, update: h.updateAttendance,
		confirmDelete: h.confirmDeleteAttendance, remove: h.deleteAttendance,
	})

	router.GET("/batches/:id/students/", h.batchStudentsForm)
	router.POST("/batches/:id/students/", h.addBatchStudents)
	router.GET("/attendances/mark/", h.markAttendanceForm)
	router.POST("/attendances/mark/", h.markAttendance)
}

// resource groups the eight handlers every entity exposes
type resource struct {
	list, detail          gin.HandlerFunc
	createForm, create    gin.HandlerFunc
	updateForm, update    gin.HandlerFunc
	confirmDelete, remove gin.HandlerFunc
}

func (h *Handler) registerResource(router gin.IRouter, base string, r resource) {
	router.GET(base, r.list)
	router.GET(base+"create/", r.createForm)
	router.POST(base+"create/", r.create)
	router.GET(base+":id/", r.detail)
	router.GET(base+":id/update/", r.updateForm)
	router.POST(base+":id/update/", r.update)
	router.GET(base+":id/delete/", r.confirmDelete)
	router.POST(base+":id/delete/", r.remove)
}

func (h *Handler) home(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "home.html", homePage{
		Title: "College Records",
		Links: []link{
			{URL: "/students/", Label: "Students"},
			{URL: "/faculties/", Label: "Faculty"},
			{URL: "/courses/", Label: "Courses"},
			{URL: "/batches/", Label: "Batches"},
			{URL: "/attendances/", Label: "Attendance"},
			{URL: "/attendances/mark/", Label: "Mark attendance"},
		},
	})
}

// pathID reads the :id segment. An unparsable id renders the not-found page.
func (h *Handler) pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderError(ctx, apperrors.NewResourceNotFoundError("no such record"))
		return 0, false
	}
	return id, true
}

// renderError shows the error page with the status the JSON API would use
func (h *Handler) renderError(ctx *gin.Context, err error) {
	status, _ := middleware.ErrorStatus(err)
	message := apperrors.Message(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(ctx.Request.Context()).Error().Err(err).Str("path", ctx.Request.URL.Path).Msg("Form handler failed")
		message = "Something went wrong. Please try again."
	}
	ctx.HTML(status, "error.html", messagePage{Title: http.StatusText(status), Message: message})
}

// rejectForm re-renders page with the error when err is a client mistake
func (h *Handler) rejectForm(ctx *gin.Context, page formPage, err error) {
	status, _ := middleware.ErrorStatus(err)
	if status != http.StatusBadRequest {
		h.renderError(ctx, err)
		return
	}
	page.Error = apperrors.Message(err)
	ctx.HTML(http.StatusBadRequest, "form.html", page)
}

// rejectBinding re-renders page after the submission failed to bind
func (h *Handler) rejectBinding(ctx *gin.Context, page formPage, err error) {
	page.Error = dto.HandleValidationError(err).Message
	ctx.HTML(http.StatusBadRequest, "form.html", page)
}

func (h *Handler) redirect(ctx *gin.Context, location string) {
	ctx.Redirect(http.StatusSeeOther, location)
}

// confirmDelete renders the confirmation for deleting the record at base+id
func (h *Handler) confirmDelete(ctx *gin.Context, base, title, message string, id int64) {
	ctx.HTML(http.StatusOK, "confirm_delete.html", confirmPage{
		Title:   title,
		Message: message,
		Action:  itemURL(base, id) + "delete/",
		Cancel:  itemURL(base, id),
	})
}

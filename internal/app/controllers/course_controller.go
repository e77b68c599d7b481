package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/app/services"
	"github.com/yigit/collegerecords/internal/middleware"
)

// CourseController handles course, enrollment and teaching endpoints
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// ListCourses lists courses
// @Summary List courses
// @Tags courses
// @Produce json
// @Param code query string false "Exact course code"
// @Param name query string false "Course name substring"
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var query dto.CourseQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	courses, err := c.courseService.ListCourses(ctx.Request.Context(), query.Filter())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, courses, "")
}

// GetCourse retrieves a course with students, batches and instructors
// @Summary Get course details
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseDetails}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	details, err := c.courseService.GetCourseDetails(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, details, "")
}

// CreateCourse creates a course
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid data or course code already in use"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusCreated, "Course created", course.ID)
}

// UpdateCourse updates a course
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.CourseRequest true "Course"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, course, "Course updated")
}

// DeleteCourse deletes a course with its batches and their attendance
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusOK, "Course deleted", id)
}

// EnrollStudent enrolls a student in a course
// @Summary Enroll a student
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.EnrollmentRequest true "Student"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/students [post]
func (c *CourseController) EnrollStudent(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.EnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.courseService.EnrollStudent(ctx.Request.Context(), courseID, req.StudentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusOK, "Student enrolled", req.StudentID)
}

// UnenrollStudent removes a student from a course
// @Summary Unenroll a student
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/students/{studentId} [delete]
func (c *CourseController) UnenrollStudent(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	if err := c.courseService.UnenrollStudent(ctx.Request.Context(), courseID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusOK, "Student unenrolled", studentID)
}

// AssignInstructor assigns a faculty member to a course
// @Summary Assign an instructor
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.InstructorRequest true "Faculty member"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/instructors [post]
func (c *CourseController) AssignInstructor(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.InstructorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.courseService.AssignInstructor(ctx.Request.Context(), courseID, req.FacultyID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusOK, "Instructor assigned", req.FacultyID)
}

// UnassignInstructor removes a faculty member from a course
// @Summary Unassign an instructor
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Param facultyId path int true "Faculty ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/instructors/{facultyId} [delete]
func (c *CourseController) UnassignInstructor(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	facultyID, ok := parseIDParam(ctx, "facultyId")
	if !ok {
		return
	}

	if err := c.courseService.UnassignInstructor(ctx.Request.Context(), courseID, facultyID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusOK, "Instructor unassigned", facultyID)
}

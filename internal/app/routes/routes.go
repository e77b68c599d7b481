package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/controllers"
	"github.com/yigit/collegerecords/internal/app/services"
	"github.com/yigit/collegerecords/internal/app/web"
	"github.com/yigit/collegerecords/internal/middleware"
)

// Handlers bundles the controllers and form handler the router mounts
type Handlers struct {
	Students    *controllers.StudentController
	Faculties   *controllers.FacultyController
	Courses     *controllers.CourseController
	Batches     *controllers.BatchController
	Attendances *controllers.AttendanceController
	Health      *controllers.HealthController
	Forms       *web.Handler
}

// NewHandlers builds every handler on top of the given services
func NewHandlers(svc *services.Services, store controllers.Pinger) *Handlers {
	return &Handlers{
		Students:    controllers.NewStudentController(svc.StudentService),
		Faculties:   controllers.NewFacultyController(svc.FacultyService),
		Courses:     controllers.NewCourseController(svc.CourseService),
		Batches:     controllers.NewBatchController(svc.BatchService),
		Attendances: controllers.NewAttendanceController(svc.AttendanceService),
		Health:      controllers.NewHealthController(store),
		Forms:       web.NewHandler(svc),
	}
}

// NewEngine creates the gin engine with the request middleware, the form UI,
// the JSON API, swagger docs and the metrics endpoint
func NewEngine(h *Handlers, metrics *middleware.Metrics) *gin.Engine {
	middleware.RegisterValidatorFieldNames()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.Middleware())
	router.SetHTMLTemplate(web.Templates())

	SetupRouter(router, h)
	SetupSwagger(router)
	router.GET("/metrics", metrics.Handler())

	return router
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h *Handlers) {
	// API version group
	v1 := router.Group("/api/v1")

	students := v1.Group("/students")
	{
		students.GET("", h.Students.ListStudents)
		students.GET("/:id", h.Students.GetStudent)
		students.POST("", h.Students.CreateStudent)
		students.PUT("/:id", h.Students.UpdateStudent)
		students.DELETE("/:id", h.Students.DeleteStudent)
	}

	faculties := v1.Group("/faculties")
	{
		faculties.GET("", h.Faculties.ListFaculties)
		faculties.GET("/:id", h.Faculties.GetFaculty)
		faculties.POST("", h.Faculties.CreateFaculty)
		faculties.PUT("/:id", h.Faculties.UpdateFaculty)
		faculties.DELETE("/:id", h.Faculties.DeleteFaculty)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", h.Courses.ListCourses)
		courses.GET("/:id", h.Courses.GetCourse)
		courses.POST("", h.Courses.CreateCourse)
		courses.PUT("/:id", h.Courses.UpdateCourse)
		courses.DELETE("/:id", h.Courses.DeleteCourse)

		courses.POST("/:id/students", h.Courses.EnrollStudent)
		courses.DELETE("/:id/students/:studentId", h.Courses.UnenrollStudent)
		courses.POST("/:id/instructors", h.Courses.AssignInstructor)
		courses.DELETE("/:id/instructors/:facultyId", h.Courses.UnassignInstructor)
	}

	batches := v1.Group("/batches")
	{
		batches.GET("", h.Batches.ListBatches)
		batches.GET("/:id", h.Batches.GetBatch)
		batches.POST("", h.Batches.CreateBatch)
		batches.PUT("/:id", h.Batches.UpdateBatch)
		batches.DELETE("/:id", h.Batches.DeleteBatch)

		// Roster management
		batches.POST("/:id/students", h.Batches.AddStudents)
		batches.POST("/:id/students/import", h.Batches.ImportRoster)
		batches.DELETE("/:id/students/:studentId", h.Batches.RemoveStudent)
	}

	attendances := v1.Group("/attendances")
	{
		attendances.GET("", h.Attendances.ListAttendance)
		attendances.GET("/export", h.Attendances.ExportAttendance)
		attendances.GET("/:id", h.Attendances.GetAttendance)
		attendances.POST("", h.Attendances.CreateAttendance)
		attendances.POST("/mark", h.Attendances.MarkAttendance)
		attendances.PUT("/:id", h.Attendances.UpdateAttendance)
		attendances.DELETE("/:id", h.Attendances.DeleteAttendance)
	}

	v1.GET("/health", h.Health.Health)
	router.GET("/health", h.Health.Health)

	// HTML forms
	h.Forms.Register(router)
}

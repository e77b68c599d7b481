package services

import (
	"github.com/yigit/collegerecords/internal/app/repositories"
	"github.com/yigit/collegerecords/internal/db"
)

// Services holds every service the presentation adapters call. The JSON API
// and the HTML forms share these instances, so both validate identically.
type Services struct {
	StudentService    StudentService
	FacultyService    FacultyService
	CourseService     CourseService
	BatchService      BatchService
	AttendanceService AttendanceService
}

// NewServices wires the services to their repositories
func NewServices(database *db.Database, repos *repositories.Repositories) *Services {
	batchService := NewBatchService(database, repos.BatchRepository, repos.CourseRepository, repos.StudentRepository)
	return &Services{
		StudentService:    NewStudentService(repos.StudentRepository, repos.CourseRepository, repos.AttendanceRepository),
		FacultyService:    NewFacultyService(repos.FacultyRepository, repos.CourseRepository),
		CourseService:     NewCourseService(repos.CourseRepository, repos.StudentRepository, repos.FacultyRepository, repos.BatchRepository),
		BatchService:      batchService,
		AttendanceService: NewAttendanceService(database, repos.AttendanceRepository, repos.StudentRepository, repos.CourseRepository, repos.BatchRepository),
	}
}

package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/accredhub/abet/core"
)

var (
	// ErrNotFound is returned when a requested catalog record does not exist.
	ErrNotFound = errors.New("record not found")
)

type Repository interface {
	CreateDepartment(ctx context.Context, dept Department) (Department, error)
	QueryDepartments(ctx context.Context) ([]Department, error)
	GetDepartment(ctx context.Context, id string) (Department, error)
	DeleteDepartment(ctx context.Context, id string) error
	CountDepartments(ctx context.Context) (int, error)

	CreateFaculty(ctx context.Context, fac Faculty) (Faculty, error)
	QueryFaculty(ctx context.Context) ([]Faculty, error)
	GetFaculty(ctx context.Context, id string) (Faculty, error)
	DeleteFaculty(ctx context.Context, id string) error
	CountFaculty(ctx context.Context) (int, error)

	CreateProgram(ctx context.Context, prog Program) (Program, error)
	QueryPrograms(ctx context.Context) ([]Program, error)
	GetProgram(ctx context.Context, id string) (Program, error)
	DeleteProgram(ctx context.Context, id string) error
	CountPrograms(ctx context.Context) (int, error)

	CreateCourse(ctx context.Context, crs Course) (Course, error)
	QueryCourses(ctx context.Context, ordering ...core.DBOrdering) ([]Course, error)
	QueryCoursesByProgram(ctx context.Context, programID string) ([]Course, error)
	GetCourse(ctx context.Context, id string) (Course, error)
	UpdateCourse(ctx context.Context, crs Course) (Course, error)
	DeleteCourse(ctx context.Context, id string) error
	CountCourses(ctx context.Context) (int, error)

	CreateStudent(ctx context.Context, std Student) (Student, error)
	QueryStudents(ctx context.Context) ([]Student, error)
	GetStudent(ctx context.Context, id string) (Student, error)
	DeleteStudent(ctx context.Context, id string) error

	CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
	QueryEnrollmentsByCourse(ctx context.Context, courseID string) ([]Enrollment, error)
	CountCourseEnrollment(ctx context.Context, courseID string) (int, error)
}

// Service manages the university catalog: departments, faculty,
// programs, courses and student enrollment.
type Service struct {
	repo Repository
	log  core.Logger
}

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

func (svc *Service) CreateDepartment(ctx context.Context, nd NewDepartment) (Department, error) {
	now := time.Now().UTC()
	dept := Department{
		Name:      nd.Name,
		Email:     nd.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateDepartment(ctx, dept)
}

func (svc *Service) QueryDepartments(ctx context.Context) ([]Department, error) {
	return svc.repo.QueryDepartments(ctx)
}

func (svc *Service) GetDepartment(ctx context.Context, id string) (Department, error) {
	return svc.repo.GetDepartment(ctx, id)
}

func (svc *Service) DeleteDepartment(ctx context.Context, id string) error {
	return svc.repo.DeleteDepartment(ctx, id)
}

func (svc *Service) CreateFaculty(ctx context.Context, nf NewFaculty) (Faculty, error) {
	if _, err := svc.repo.GetDepartment(ctx, nf.DepartmentID); err != nil {
		return Faculty{}, err
	}
	now := time.Now().UTC()
	fac := Faculty{
		Name:           nf.Name,
		Email:          nf.Email,
		DepartmentID:   nf.DepartmentID,
		Qualifications: nf.Qualifications,
		Expertise:      nf.Expertise,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateFaculty(ctx, fac)
}

func (svc *Service) QueryFaculty(ctx context.Context) ([]Faculty, error) {
	return svc.repo.QueryFaculty(ctx)
}

func (svc *Service) GetFaculty(ctx context.Context, id string) (Faculty, error) {
	return svc.repo.GetFaculty(ctx, id)
}

func (svc *Service) DeleteFaculty(ctx context.Context, id string) error {
	return svc.repo.DeleteFaculty(ctx, id)
}

func (svc *Service) CreateProgram(ctx context.Context, np NewProgram) (Program, error) {
	if _, err := svc.repo.GetDepartment(ctx, np.DepartmentID); err != nil {
		return Program{}, err
	}
	now := time.Now().UTC()
	prog := Program{
		Name:         np.Name,
		Description:  np.Description,
		DepartmentID: np.DepartmentID,
		Level:        np.Level,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateProgram(ctx, prog)
}

func (svc *Service) QueryPrograms(ctx context.Context) ([]Program, error) {
	return svc.repo.QueryPrograms(ctx)
}

func (svc *Service) GetProgram(ctx context.Context, id string) (Program, error) {
	return svc.repo.GetProgram(ctx, id)
}

func (svc *Service) DeleteProgram(ctx context.Context, id string) error {
	return svc.repo.DeleteProgram(ctx, id)
}

func (svc *Service) CreateCourse(ctx context.Context, nc NewCourse) (Course, error) {
	if _, err := svc.repo.GetProgram(ctx, nc.ProgramID); err != nil {
		return Course{}, err
	}
	now := time.Now().UTC()
	crs := Course{
		Code:         nc.Code,
		Name:         nc.Name,
		Description:  nc.Description,
		Credits:      nc.Credits,
		ProgramID:    nc.ProgramID,
		InstructorID: null.NewString(nc.InstructorID, nc.InstructorID != ""),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if crs.InstructorID.Valid {
		if _, err := svc.repo.GetFaculty(ctx, crs.InstructorID.String); err != nil {
			return Course{}, err
		}
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) QueryCourses(ctx context.Context, ordering ...core.DBOrdering) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, ordering...)
}

func (svc *Service) QueryCoursesByProgram(ctx context.Context, programID string) ([]Course, error) {
	return svc.repo.QueryCoursesByProgram(ctx, programID)
}

func (svc *Service) GetCourse(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

// UpdateCourse applies the provided fields to the course; empty fields keep their current value.
func (svc *Service) UpdateCourse(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if uc.Code != "" {
		crs.Code = uc.Code
	}
	if uc.Name != "" {
		crs.Name = uc.Name
	}
	if uc.Description != "" {
		crs.Description = uc.Description
	}
	if uc.Credits > 0 {
		crs.Credits = uc.Credits
	}
	if uc.InstructorID != "" {
		if _, err := svc.repo.GetFaculty(ctx, uc.InstructorID); err != nil {
			return Course{}, err
		}
		crs.InstructorID = null.StringFrom(uc.InstructorID)
	}
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *Service) DeleteCourse(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	if ns.EnrollmentDate.IsZero() {
		ns.EnrollmentDate = now
	}
	std := Student{
		FirstName:      ns.FirstName,
		LastName:       ns.LastName,
		Email:          ns.Email,
		EnrollmentDate: ns.EnrollmentDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) QueryStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) DeleteStudent(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}

// EnrollStudent registers a student in a course.
func (svc *Service) EnrollStudent(ctx context.Context, courseID, studentID string) (Enrollment, error) {
	if _, err := svc.repo.GetCourse(ctx, courseID); err != nil {
		return Enrollment{}, err
	}
	if _, err := svc.repo.GetStudent(ctx, studentID); err != nil {
		return Enrollment{}, err
	}
	enr := Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateEnrollment(ctx, enr)
}

func (svc *Service) CountCourseEnrollment(ctx context.Context, courseID string) (int, error) {
	return svc.repo.CountCourseEnrollment(ctx, courseID)
}

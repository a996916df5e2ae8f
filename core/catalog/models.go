package catalog

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/accredhub/abet/core"
)

// Program levels
const (
	LevelBaccalaureate = "B"
	LevelMasters       = "M"
)

type (
	Department struct {
		ID        string    `db:"id" json:"id"`
		Name      string    `db:"name" json:"name"`
		Email     string    `db:"email" json:"email,omitempty"`
		CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
		UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // UTC
	}

	Faculty struct {
		ID             string    `db:"id" json:"id"`
		Name           string    `db:"name" json:"name"`
		Email          string    `db:"email" json:"email,omitempty"`
		DepartmentID   string    `db:"department_id" json:"department_id"`
		Qualifications string    `db:"qualifications" json:"qualifications,omitempty"`
		Expertise      string    `db:"expertise" json:"expertise,omitempty"`
		CreatedAt      time.Time `db:"created_at" json:"created_at"`
		UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
	}

	Program struct {
		ID           string    `db:"id" json:"id"`
		Name         string    `db:"name" json:"name"`
		Description  string    `db:"description" json:"description,omitempty"`
		DepartmentID string    `db:"department_id" json:"department_id"`
		Level        string    `db:"level" json:"level"`
		CreatedAt    time.Time `db:"created_at" json:"created_at"`
		UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	}

	Course struct {
		ID           string      `db:"id" json:"id"`
		Code         string      `db:"code" json:"code"`
		Name         string      `db:"name" json:"name"`
		Description  string      `db:"description" json:"description,omitempty"`
		Credits      int         `db:"credits" json:"credits"`
		ProgramID    string      `db:"program_id" json:"program_id"`
		InstructorID null.String `db:"instructor_id" json:"instructor_id,omitempty"`
		CreatedAt    time.Time   `db:"created_at" json:"created_at"`
		UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
	}

	Student struct {
		ID             string    `db:"id" json:"id"`
		FirstName      string    `db:"first_name" json:"first_name"`
		LastName       string    `db:"last_name" json:"last_name"`
		Email          string    `db:"email" json:"email"`
		EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
		CreatedAt      time.Time `db:"created_at" json:"created_at"`
		UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
	}

	// Enrollment ties a Student to a Course.
	Enrollment struct {
		ID        string    `db:"id" json:"id"`
		CourseID  string    `db:"course_id" json:"course_id"`
		StudentID string    `db:"student_id" json:"student_id"`
		CreatedAt time.Time `db:"created_at" json:"created_at"`
	}
)

type NewDepartment struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (nd *NewDepartment) Validate() error {
	nd.Name = core.CleanString(nd.Name)
	nd.Email = core.CleanString(nd.Email, true)
	return core.Validate.Struct(nd)
}

type NewFaculty struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	DepartmentID   string `json:"department_id" validate:"required"`
	Qualifications string `json:"qualifications"`
	Expertise      string `json:"expertise"`
}

func (nf *NewFaculty) Validate() error {
	nf.Name = core.CleanString(nf.Name)
	nf.Email = core.CleanString(nf.Email, true)
	nf.DepartmentID = core.CleanString(nf.DepartmentID)
	nf.Qualifications = core.CleanString(nf.Qualifications)
	nf.Expertise = core.CleanString(nf.Expertise)
	return core.Validate.Struct(nf)
}

type NewProgram struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	DepartmentID string `json:"department_id" validate:"required"`
	Level        string `json:"level" validate:"required,oneof=B M"`
}

func (np *NewProgram) Validate() error {
	np.Name = core.CleanString(np.Name)
	np.Description = core.CleanString(np.Description)
	np.DepartmentID = core.CleanString(np.DepartmentID)
	np.Level = core.CleanString(np.Level)
	return core.Validate.Struct(np)
}

type NewCourse struct {
	Code         string `json:"code" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	Credits      int    `json:"credits" validate:"min=0,max=12"`
	ProgramID    string `json:"program_id" validate:"required"`
	InstructorID string `json:"instructor_id"`
}

func (nc *NewCourse) Validate() error {
	nc.Code = core.CleanString(nc.Code)
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	nc.ProgramID = core.CleanString(nc.ProgramID)
	nc.InstructorID = core.CleanString(nc.InstructorID)
	return core.Validate.Struct(nc)
}

type UpdateCourse struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Credits      int    `json:"credits" validate:"min=0,max=12"`
	InstructorID string `json:"instructor_id"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Code = core.CleanString(uc.Code)
	uc.Name = core.CleanString(uc.Name)
	uc.Description = core.CleanString(uc.Description)
	uc.InstructorID = core.CleanString(uc.InstructorID)
	return core.Validate.Struct(uc)
}

type NewStudent struct {
	FirstName      string    `json:"first_name" validate:"required"`
	LastName       string    `json:"last_name" validate:"required"`
	Email          string    `json:"email" validate:"required,email"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}

func (ns *NewStudent) Validate() error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true)
	return core.Validate.Struct(ns)
}

package compliance

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/accredhub/abet/core"
)

// Assessment method types
const (
	TypeDirect   = "direct"
	TypeIndirect = "indirect"
)

// Compliance KPI keys
const (
	MetricCourseSyllabi   = "course_syllabi"
	MetricAssessmentData  = "assessment_data"
	MetricStudentOutcomes = "student_outcomes"
	MetricFacultyTraining = "faculty_training"
)

var (
	// ErrNotFound is returned when a requested compliance record does not exist.
	ErrNotFound = errors.New("compliance record not found")
	// ErrMethodExists is returned when an assessment method name is taken.
	ErrMethodExists = errors.New("an assessment method with this name already exists")
)

type (
	// Syllabus tracks whether a course syllabus was brought up to date
	// for an academic year.
	Syllabus struct {
		ID           string    `db:"id" json:"id"`
		CourseID     string    `db:"course_id" json:"course_id"`
		AcademicYear string    `db:"academic_year" json:"academic_year"`
		IsUpdated    bool      `db:"is_updated" json:"is_updated"`
		CreatedAt    time.Time `db:"created_at" json:"created_at"` // UTC
		UpdatedAt    time.Time `db:"updated_at" json:"updated_at"` // UTC
	}

	// FacultyTraining tracks a faculty member's completion of an
	// accreditation training for an academic year.
	FacultyTraining struct {
		ID           string    `db:"id" json:"id"`
		FacultyID    string    `db:"faculty_id" json:"faculty_id"`
		TrainingName string    `db:"training_name" json:"training_name"`
		AcademicYear string    `db:"academic_year" json:"academic_year"`
		IsCompleted  bool      `db:"is_completed" json:"is_completed"`
		CompletedAt  null.Time `db:"completed_at" json:"completed_at,omitempty"`
		CreatedAt    time.Time `db:"created_at" json:"created_at"`
		UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	}

	// Method is an assessment method from the compliance catalog
	// (exam questions, student surveys, ...), with its targets.
	Method struct {
		ID                   string    `db:"id" json:"id"`
		Name                 string    `db:"name" json:"name"`
		DisplayName          string    `db:"display_name" json:"display_name"`
		AssessmentType       string    `db:"assessment_type" json:"assessment_type"`
		TargetCompletionRate float64   `db:"target_completion_rate" json:"target_completion_rate"`
		TargetScore          float64   `db:"target_score" json:"target_score"`
		IsActive             bool      `db:"is_active" json:"is_active"`
		CreatedAt            time.Time `db:"created_at" json:"created_at"`
		UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
	}

	// MethodRecord is one course's use of an assessment method in a semester.
	// Score is on the 0..4 rubric scale and absent until the method completes.
	MethodRecord struct {
		ID               string       `db:"id" json:"id"`
		CourseID         string       `db:"course_id" json:"course_id"`
		MethodID         string       `db:"method_id" json:"method_id"`
		Semester         string       `db:"semester" json:"semester"`
		CompletionStatus bool         `db:"completion_status" json:"completion_status"`
		Score            null.Float64 `db:"score" json:"score,omitempty"`
		CreatedAt        time.Time    `db:"created_at" json:"created_at"`
		UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
	}

	// MetricSnapshot is a persisted KPI reading, kept for trend reporting.
	MetricSnapshot struct {
		ID           string    `db:"id" json:"id"`
		MetricKey    string    `db:"metric_key" json:"metric_key"`
		Percentage   float64   `db:"percentage" json:"percentage"`
		Current      int       `db:"current" json:"current"`
		Total        int       `db:"total" json:"total"`
		Status       string    `db:"status" json:"status"`
		AcademicYear string    `db:"academic_year" json:"academic_year"`
		ComputedAt   time.Time `db:"computed_at" json:"computed_at"`
	}
)

type Repository interface {
	UpsertSyllabus(ctx context.Context, syl Syllabus) (Syllabus, error)
	QuerySyllabi(ctx context.Context, academicYear string) ([]Syllabus, error)
	CountUpdatedSyllabi(ctx context.Context, academicYear string) (int, error)

	CreateFacultyTraining(ctx context.Context, ft FacultyTraining) (FacultyTraining, error)
	QueryFacultyTraining(ctx context.Context, academicYear string) ([]FacultyTraining, error)
	// CountTrainedFaculty counts distinct faculty with at least one
	// completed training in the academic year.
	CountTrainedFaculty(ctx context.Context, academicYear string) (int, error)

	CreateMethod(ctx context.Context, m Method) (Method, error)
	GetMethodByName(ctx context.Context, name string) (Method, error)
	QueryMethods(ctx context.Context, activeOnly bool) ([]Method, error)

	CreateMethodRecord(ctx context.Context, rec MethodRecord) (MethodRecord, error)
	QueryMethodRecords(ctx context.Context, methodID, semester string) ([]MethodRecord, error)

	CreateSnapshot(ctx context.Context, snap MetricSnapshot) (MetricSnapshot, error)
	QuerySnapshots(ctx context.Context, academicYear string) ([]MetricSnapshot, error)
}

// CatalogReader is the slice of the catalog the compliance layer needs.
// catalog.Repository satisfies it.
type CatalogReader interface {
	CountCourses(ctx context.Context) (int, error)
	CountFaculty(ctx context.Context) (int, error)
}

type NewSyllabus struct {
	CourseID     string `json:"course_id" validate:"required"`
	AcademicYear string `json:"academic_year"`
	IsUpdated    bool   `json:"is_updated"`
}

func (ns *NewSyllabus) Validate() error {
	ns.CourseID = core.CleanString(ns.CourseID)
	ns.AcademicYear = core.CleanString(ns.AcademicYear)
	return core.Validate.Struct(ns)
}

type NewFacultyTraining struct {
	FacultyID    string `json:"faculty_id" validate:"required"`
	TrainingName string `json:"training_name" validate:"required"`
	AcademicYear string `json:"academic_year"`
	IsCompleted  bool   `json:"is_completed"`
}

func (nt *NewFacultyTraining) Validate() error {
	nt.FacultyID = core.CleanString(nt.FacultyID)
	nt.TrainingName = core.CleanString(nt.TrainingName)
	nt.AcademicYear = core.CleanString(nt.AcademicYear)
	return core.Validate.Struct(nt)
}

type NewMethod struct {
	Name                 string  `json:"name" validate:"required,alphanum_"`
	DisplayName          string  `json:"display_name" validate:"required"`
	AssessmentType       string  `json:"assessment_type" validate:"required,oneof=direct indirect"`
	TargetCompletionRate float64 `json:"target_completion_rate" validate:"min=0,max=100"`
	TargetScore          float64 `json:"target_score" validate:"min=0,max=4"`
}

func (nm *NewMethod) Validate() error {
	nm.Name = core.CleanString(nm.Name, true)
	nm.DisplayName = core.CleanString(nm.DisplayName)
	nm.AssessmentType = core.CleanString(nm.AssessmentType, true)
	return core.Validate.Struct(nm)
}

type NewMethodRecord struct {
	CourseID         string   `json:"course_id" validate:"required"`
	MethodID         string   `json:"method_id" validate:"required"`
	Semester         string   `json:"semester"`
	CompletionStatus bool     `json:"completion_status"`
	Score            *float64 `json:"score" validate:"omitempty,min=0,max=4"`
}

func (nr *NewMethodRecord) Validate() error {
	nr.CourseID = core.CleanString(nr.CourseID)
	nr.MethodID = core.CleanString(nr.MethodID)
	nr.Semester = core.CleanString(nr.Semester)
	return core.Validate.Struct(nr)
}

package compliance

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/accredhub/abet/core"
)

// Service manages the compliance bookkeeping records the Calculator reads:
// syllabi, faculty trainings, assessment methods and their course records.
type Service struct {
	repo Repository
	conf *core.Config
	log  core.Logger
}

func NewService(repo Repository, conf *core.Config, log core.Logger) *Service {
	return &Service{
		repo: repo,
		conf: conf,
		log:  log,
	}
}

// RecordSyllabus upserts a course's syllabus status. An empty academic year
// defaults to the configured accreditation cycle.
func (svc *Service) RecordSyllabus(ctx context.Context, ns NewSyllabus) (Syllabus, error) {
	if ns.AcademicYear == "" {
		ns.AcademicYear = svc.conf.AcademicYear
	}
	now := time.Now().UTC()
	syl := Syllabus{
		CourseID:     ns.CourseID,
		AcademicYear: ns.AcademicYear,
		IsUpdated:    ns.IsUpdated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.UpsertSyllabus(ctx, syl)
}

func (svc *Service) QuerySyllabi(ctx context.Context, academicYear string) ([]Syllabus, error) {
	if academicYear == "" {
		academicYear = svc.conf.AcademicYear
	}
	return svc.repo.QuerySyllabi(ctx, academicYear)
}

func (svc *Service) RecordFacultyTraining(ctx context.Context, nt NewFacultyTraining) (FacultyTraining, error) {
	if nt.AcademicYear == "" {
		nt.AcademicYear = svc.conf.AcademicYear
	}
	now := time.Now().UTC()
	ft := FacultyTraining{
		FacultyID:    nt.FacultyID,
		TrainingName: nt.TrainingName,
		AcademicYear: nt.AcademicYear,
		IsCompleted:  nt.IsCompleted,
		CompletedAt:  null.NewTime(now, nt.IsCompleted),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateFacultyTraining(ctx, ft)
}

func (svc *Service) QueryFacultyTraining(ctx context.Context, academicYear string) ([]FacultyTraining, error) {
	if academicYear == "" {
		academicYear = svc.conf.AcademicYear
	}
	return svc.repo.QueryFacultyTraining(ctx, academicYear)
}

func (svc *Service) CreateMethod(ctx context.Context, nm NewMethod) (Method, error) {
	if _, err := svc.repo.GetMethodByName(ctx, nm.Name); err == nil {
		return Method{}, core.NewValidationError(
			ErrMethodExists, core.FieldError{Field: "name", Error: ErrMethodExists.Error()})
	} else if err != ErrNotFound {
		return Method{}, err
	}
	now := time.Now().UTC()
	m := Method{
		Name:                 nm.Name,
		DisplayName:          nm.DisplayName,
		AssessmentType:       nm.AssessmentType,
		TargetCompletionRate: nm.TargetCompletionRate,
		TargetScore:          nm.TargetScore,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	return svc.repo.CreateMethod(ctx, m)
}

func (svc *Service) QueryMethods(ctx context.Context, activeOnly bool) ([]Method, error) {
	return svc.repo.QueryMethods(ctx, activeOnly)
}

func (svc *Service) GetMethodByName(ctx context.Context, name string) (Method, error) {
	return svc.repo.GetMethodByName(ctx, name)
}

// RecordMethodResult records a course's use of an assessment method. An empty
// semester defaults to the configured one.
func (svc *Service) RecordMethodResult(ctx context.Context, nr NewMethodRecord) (MethodRecord, error) {
	if nr.Semester == "" {
		nr.Semester = svc.conf.Semester
	}
	now := time.Now().UTC()
	rec := MethodRecord{
		CourseID:         nr.CourseID,
		MethodID:         nr.MethodID,
		Semester:         nr.Semester,
		CompletionStatus: nr.CompletionStatus,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if nr.Score != nil {
		rec.Score = null.Float64From(*nr.Score)
	}
	return svc.repo.CreateMethodRecord(ctx, rec)
}

func (svc *Service) QuerySnapshots(ctx context.Context, academicYear string) ([]MetricSnapshot, error) {
	if academicYear == "" {
		academicYear = svc.conf.AcademicYear
	}
	return svc.repo.QuerySnapshots(ctx, academicYear)
}

package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/assessment"
)

// KPI statuses
const (
	StatusExcellent = "excellent"
	StatusGood      = "good"
	StatusWarning   = "warning"
	StatusCritical  = "critical"
)

// KPI targets
const (
	targetSyllabiPct    = 100.0
	targetAssessmentPct = 90.0
	targetTrainingPct   = 95.0

	// share of the ABET outcome catalog expected to meet attainment, e.g. "8/10"
	outcomesTargetFraction = 0.8
)

type (
	// Metric is one KPI reading of the compliance dashboard.
	Metric struct {
		Key        string  `json:"key"`
		Name       string  `json:"name"`
		Percentage float64 `json:"percentage"`
		Current    int     `json:"current"`
		Total      int     `json:"total"`
		Target     string  `json:"target"`
		Status     string  `json:"status"`
	}

	// MetricsReport carries the four compliance KPIs for an academic year.
	MetricsReport struct {
		CourseSyllabi   Metric    `json:"course_syllabi"`
		AssessmentData  Metric    `json:"assessment_data"`
		StudentOutcomes Metric    `json:"student_outcomes"`
		FacultyTraining Metric    `json:"faculty_training"`
		AcademicYear    string    `json:"academic_year"`
		GeneratedAt     time.Time `json:"generated_at"`
	}
)

// StatusFor maps a compliance percentage to its KPI tier.
func StatusFor(pct float64) string {
	switch {
	case pct >= 95:
		return StatusExcellent
	case pct >= 80:
		return StatusGood
	case pct >= 60:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// Metrics returns a Metric slice view of a report, in dashboard order.
func (r MetricsReport) Metrics() []Metric {
	return []Metric{r.CourseSyllabi, r.AssessmentData, r.StudentOutcomes, r.FacultyTraining}
}

// Calculator computes compliance KPIs from the catalog, the scoring engine
// and the compliance records of the configured accreditation cycle.
type Calculator struct {
	repo    Repository
	catalog CatalogReader
	engine  *assessment.Engine
	alerter *Alerter
	conf    *core.Config
	log     core.Logger
}

// NewCalculator wires a compliance calculator. alerter may be nil when
// critical KPI alerting is not wanted (tests, CLI one-shots).
func NewCalculator(repo Repository, catalog CatalogReader, engine *assessment.Engine, alerter *Alerter, conf *core.Config, log core.Logger) *Calculator {
	return &Calculator{
		repo:    repo,
		catalog: catalog,
		engine:  engine,
		alerter: alerter,
		conf:    conf,
		log:     log,
	}
}

// Report computes the four compliance KPIs. Each KPI degrades to a zeroed,
// critical reading on a repository fault instead of failing the report.
func (calc *Calculator) Report(ctx context.Context) MetricsReport {
	return MetricsReport{
		CourseSyllabi:   calc.syllabiMetric(ctx),
		AssessmentData:  calc.assessmentDataMetric(ctx),
		StudentOutcomes: calc.outcomesMetric(ctx),
		FacultyTraining: calc.trainingMetric(ctx),
		AcademicYear:    calc.conf.AcademicYear,
		GeneratedAt:     time.Now().UTC(),
	}
}

// syllabiMetric: share of catalog courses with an up to date syllabus this academic year.
func (calc *Calculator) syllabiMetric(ctx context.Context) Metric {
	m := Metric{
		Key:    MetricCourseSyllabi,
		Name:   "Course Syllabi Updated",
		Target: fmt.Sprintf("%.0f%%", targetSyllabiPct),
		Status: StatusCritical,
	}
	total, err := calc.catalog.CountCourses(ctx)
	if err != nil {
		calc.log.Warn("counting courses for syllabi metric", err)
		return m
	}
	updated, err := calc.repo.CountUpdatedSyllabi(ctx, calc.conf.AcademicYear)
	if err != nil {
		calc.log.Warn("counting updated syllabi", err)
		return m
	}
	m.Current = updated
	m.Total = total
	m.Percentage = core.Round1(ratio(updated, total))
	m.Status = StatusFor(m.Percentage)
	return m
}

// assessmentDataMetric: share of assessments with collected (nonzero) scores,
// reported against the mean collected score.
func (calc *Calculator) assessmentDataMetric(ctx context.Context) Metric {
	m := Metric{
		Key:    MetricAssessmentData,
		Name:   "Assessment Data Collected",
		Target: fmt.Sprintf("%.0f%%", targetAssessmentPct),
	}
	avg, collected, total := calc.engine.CollectedAverage(ctx)
	m.Current = collected
	m.Total = total
	m.Percentage = core.Round1(avg)
	m.Status = StatusFor(m.Percentage)
	return m
}

// outcomesMetric: share of catalog ABET outcomes meeting their attainment target.
func (calc *Calculator) outcomesMetric(ctx context.Context) Metric {
	m := Metric{
		Key:    MetricStudentOutcomes,
		Name:   "Student Outcomes Met",
		Status: StatusCritical,
	}
	statuses, err := calc.engine.OutcomeDashboard(ctx)
	if err != nil {
		calc.log.Warn("building outcome dashboard for metrics", err)
		return m
	}
	var met int
	for _, st := range statuses {
		if st.Status != assessment.OutcomeBelow {
			met++
		}
	}
	m.Current = met
	m.Total = len(statuses)
	m.Target = fmt.Sprintf("%d/%d", int(float64(len(statuses))*outcomesTargetFraction), len(statuses))
	m.Percentage = core.Round1(ratio(met, len(statuses)))
	m.Status = StatusFor(m.Percentage)
	return m
}

// trainingMetric: share of faculty with a completed training this academic year.
func (calc *Calculator) trainingMetric(ctx context.Context) Metric {
	m := Metric{
		Key:    MetricFacultyTraining,
		Name:   "Faculty Training Completed",
		Target: fmt.Sprintf("%.0f%%", targetTrainingPct),
		Status: StatusCritical,
	}
	total, err := calc.catalog.CountFaculty(ctx)
	if err != nil {
		calc.log.Warn("counting faculty for training metric", err)
		return m
	}
	trained, err := calc.repo.CountTrainedFaculty(ctx, calc.conf.AcademicYear)
	if err != nil {
		calc.log.Warn("counting trained faculty", err)
		return m
	}
	m.Current = trained
	m.Total = total
	m.Percentage = core.Round1(ratio(trained, total))
	m.Status = StatusFor(m.Percentage)
	return m
}

// TrainingStats is the faculty training drill-down of the compliance dashboard.
type TrainingStats struct {
	AcademicYear   string  `json:"academic_year"`
	TrainedFaculty int     `json:"trained_faculty"`
	TotalFaculty   int     `json:"total_faculty"`
	Percentage     float64 `json:"percentage"`
	Status         string  `json:"status"`
}

func (calc *Calculator) TrainingStats(ctx context.Context) TrainingStats {
	m := calc.trainingMetric(ctx)
	return TrainingStats{
		AcademicYear:   calc.conf.AcademicYear,
		TrainedFaculty: m.Current,
		TotalFaculty:   m.Total,
		Percentage:     m.Percentage,
		Status:         m.Status,
	}
}

// Snapshot computes the current KPIs, persists one reading per KPI and fires
// the critical alerting hook. It returns the persisted snapshots.
func (calc *Calculator) Snapshot(ctx context.Context) ([]MetricSnapshot, error) {
	report := calc.Report(ctx)

	snaps := make([]MetricSnapshot, 0, 4)
	for _, m := range report.Metrics() {
		snap := MetricSnapshot{
			MetricKey:    m.Key,
			Percentage:   m.Percentage,
			Current:      m.Current,
			Total:        m.Total,
			Status:       m.Status,
			AcademicYear: report.AcademicYear,
			ComputedAt:   report.GeneratedAt,
		}
		snap, err := calc.repo.CreateSnapshot(ctx, snap)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}

	if calc.alerter != nil {
		calc.alerter.AlertCritical(report)
	}
	return snaps, nil
}

func ratio(current, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(current) / float64(total) * 100
}

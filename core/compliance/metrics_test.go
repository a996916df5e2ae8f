package compliance_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/assessment"
	"github.com/accredhub/abet/core/catalog"
	"github.com/accredhub/abet/core/compliance"
	dummydb "github.com/accredhub/abet/storage/database/dummy"
)

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

// recordingMailService captures sent messages instead of delivering them.
type recordingMailService struct {
	sent []*core.EmailMessage
}

func (svc *recordingMailService) SendMessages(messages ...*core.EmailMessage) {
	svc.sent = append(svc.sent, messages...)
}

type fixtures struct {
	conf    *core.Config
	catalog catalog.Repository
	assess  assessment.Repository
	comp    compliance.Repository
	svc     *compliance.Service
	calc    *compliance.Calculator
	mail    *recordingMailService
}

func setup(t *testing.T) *fixtures {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := &core.Config{
		AppName:               "AccredHub",
		AcademicYear:          "2024-2025",
		Semester:              "Fall 2024",
		ComplianceAlertEmails: []string{"compliance@school.test"},
	}
	catRepo := dummydb.NewCatalogRepository(db)
	assessRepo := dummydb.NewAssessmentRepository(db)
	compRepo := dummydb.NewComplianceRepository(db)
	engine := assessment.NewEngine(assessRepo, catRepo, testLogger{})
	mailSvc := &recordingMailService{}
	alerter := compliance.NewAlerter(conf, mailSvc)
	return &fixtures{
		conf:    conf,
		catalog: catRepo,
		assess:  assessRepo,
		comp:    compRepo,
		svc:     compliance.NewService(compRepo, conf, testLogger{}),
		calc:    compliance.NewCalculator(compRepo, catRepo, engine, alerter, conf, testLogger{}),
		mail:    mailSvc,
	}
}

func createCourse(t *testing.T, f *fixtures, code string) catalog.Course {
	t.Helper()
	ctx := context.Background()
	dept, err := f.catalog.CreateDepartment(ctx, catalog.Department{Name: "Engineering"})
	require.NoError(t, err)
	prog, err := f.catalog.CreateProgram(ctx, catalog.Program{Name: "BSc Engineering", DepartmentID: dept.ID, Level: catalog.LevelBaccalaureate})
	require.NoError(t, err)
	crs, err := f.catalog.CreateCourse(ctx, catalog.Course{Code: code, Name: "Course " + code, Credits: 3, ProgramID: prog.ID})
	require.NoError(t, err)
	return crs
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, compliance.StatusExcellent},
		{95, compliance.StatusExcellent},
		{94.9, compliance.StatusGood},
		{80, compliance.StatusGood},
		{79.9, compliance.StatusWarning},
		{60, compliance.StatusWarning},
		{59.9, compliance.StatusCritical},
		{0, compliance.StatusCritical},
	}
	for _, tt := range tests {
		if got := compliance.StatusFor(tt.pct); got != tt.want {
			t.Errorf("StatusFor(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestCalculator_Report(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs1 := createCourse(t, f, "ENG101")
	crs2, err := f.catalog.CreateCourse(ctx, catalog.Course{Code: "ENG102", Name: "Course ENG102", Credits: 3, ProgramID: crs1.ProgramID})
	require.NoError(t, err)
	_ = crs2

	// one of two syllabi updated this cycle
	_, err = f.svc.RecordSyllabus(ctx, compliance.NewSyllabus{CourseID: crs1.ID, IsUpdated: true})
	require.NoError(t, err)

	// two faculty, both trained
	for _, name := range []string{"Dr. Ada", "Dr. Grace"} {
		fac, err := f.catalog.CreateFaculty(ctx, catalog.Faculty{Name: name, DepartmentID: "dept"})
		require.NoError(t, err)
		_, err = f.svc.RecordFacultyTraining(ctx, compliance.NewFacultyTraining{
			FacultyID:    fac.ID,
			TrainingName: "ABET Workshop",
			IsCompleted:  true,
		})
		require.NoError(t, err)
	}

	report := f.calc.Report(ctx)
	assert.Equal(t, "2024-2025", report.AcademicYear)

	syl := report.CourseSyllabi
	assert.Equal(t, compliance.MetricCourseSyllabi, syl.Key)
	assert.Equal(t, 1, syl.Current)
	assert.Equal(t, 2, syl.Total)
	assert.InDelta(t, 50.0, syl.Percentage, 1e-9)
	assert.Equal(t, compliance.StatusCritical, syl.Status)

	training := report.FacultyTraining
	assert.Equal(t, 2, training.Current)
	assert.Equal(t, 2, training.Total)
	assert.InDelta(t, 100.0, training.Percentage, 1e-9)
	assert.Equal(t, compliance.StatusExcellent, training.Status)

	// no assessments and no outcomes yet: both readings bottom out
	assert.Equal(t, compliance.StatusCritical, report.AssessmentData.Status)
	assert.Equal(t, compliance.StatusCritical, report.StudentOutcomes.Status)
}

func TestCalculator_Report_outcomesTargetFraction(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// target is 80% of the outcome catalog, "8/10" style
	for i := 1; i <= 10; i++ {
		_, err := f.assess.CreateABETOutcome(ctx, assessment.ABETOutcome{
			Label:       fmt.Sprintf("SO%d", i),
			Description: "outcome",
		})
		require.NoError(t, err)
	}

	outcomes := f.calc.Report(ctx).StudentOutcomes
	assert.Equal(t, "8/10", outcomes.Target)
	assert.Equal(t, 0, outcomes.Current)
	assert.Equal(t, 10, outcomes.Total)
}

func TestCalculator_Report_trainingCountsDistinctFaculty(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	fac, err := f.catalog.CreateFaculty(ctx, catalog.Faculty{Name: "Dr. Ada", DepartmentID: "dept"})
	require.NoError(t, err)
	for _, training := range []string{"ABET Workshop", "Rubric Calibration"} {
		_, err = f.svc.RecordFacultyTraining(ctx, compliance.NewFacultyTraining{
			FacultyID:    fac.ID,
			TrainingName: training,
			IsCompleted:  true,
		})
		require.NoError(t, err)
	}

	m := f.calc.TrainingStats(ctx)
	assert.Equal(t, 1, m.TrainedFaculty)
	assert.Equal(t, 1, m.TotalFaculty)
	assert.InDelta(t, 100.0, m.Percentage, 1e-9)
}

func TestCalculator_Snapshot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	snaps, err := f.calc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 4)

	keys := make([]string, 0, 4)
	for _, snap := range snaps {
		keys = append(keys, snap.MetricKey)
		assert.NotEmpty(t, snap.ID)
		assert.Equal(t, "2024-2025", snap.AcademicYear)
		assert.False(t, snap.ComputedAt.IsZero())
	}
	assert.Equal(t, []string{
		compliance.MetricCourseSyllabi,
		compliance.MetricAssessmentData,
		compliance.MetricStudentOutcomes,
		compliance.MetricFacultyTraining,
	}, keys)

	persisted, err := f.svc.QuerySnapshots(ctx, "")
	require.NoError(t, err)
	assert.Len(t, persisted, 4)

	// an empty catalog makes every KPI critical, so one alert goes out
	require.Len(t, f.mail.sent, 1)
	msg := f.mail.sent[0]
	assert.Contains(t, msg.Subject, "Critical compliance alert")
	assert.Contains(t, msg.TextContent, "2024-2025")
	require.Len(t, msg.To, 1)
	assert.Equal(t, "compliance@school.test", msg.To[0].Address)
}

func TestCalculator_Snapshot_noAlertWhenHealthy(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// a fully compliant single-course, single-faculty catalog
	crs := createCourse(t, f, "ENG101")
	_, err := f.svc.RecordSyllabus(ctx, compliance.NewSyllabus{CourseID: crs.ID, IsUpdated: true})
	require.NoError(t, err)
	fac, err := f.catalog.CreateFaculty(ctx, catalog.Faculty{Name: "Dr. Ada", DepartmentID: "dept"})
	require.NoError(t, err)
	_, err = f.svc.RecordFacultyTraining(ctx, compliance.NewFacultyTraining{
		FacultyID: fac.ID, TrainingName: "ABET Workshop", IsCompleted: true,
	})
	require.NoError(t, err)

	a, err := f.assess.CreateAssessment(ctx, assessment.Assessment{Name: "Final", CourseID: crs.ID})
	require.NoError(t, err)
	_, err = f.assess.CreateAcademicPerformance(ctx, assessment.AcademicPerformance{AssessmentID: a.ID, Grade: 96, Weight: 1})
	require.NoError(t, err)

	so, err := f.assess.CreateABETOutcome(ctx, assessment.ABETOutcome{Label: "SO1", Description: "problem solving"})
	require.NoError(t, err)
	lo, err := f.assess.CreateLearningOutcome(ctx, assessment.LearningOutcome{AssessmentID: a.ID, Description: "mastery"})
	require.NoError(t, err)
	_, err = f.assess.CreateOutcomeScore(ctx, assessment.OutcomeScore{LearningOutcomeID: lo.ID, ABETOutcomeID: so.ID, Score: 4, EvidenceType: "direct"})
	require.NoError(t, err)

	_, err = f.calc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, f.mail.sent)
}

func TestService_RecordSyllabus_upserts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crs := createCourse(t, f, "ENG101")

	first, err := f.svc.RecordSyllabus(ctx, compliance.NewSyllabus{CourseID: crs.ID, IsUpdated: false})
	require.NoError(t, err)
	second, err := f.svc.RecordSyllabus(ctx, compliance.NewSyllabus{CourseID: crs.ID, IsUpdated: true})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsUpdated)

	syllabi, err := f.svc.QuerySyllabi(ctx, "")
	require.NoError(t, err)
	require.Len(t, syllabi, 1)
	assert.True(t, syllabi[0].IsUpdated)
}

func TestService_CreateMethod_duplicateName(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	nm := compliance.NewMethod{
		Name:                 "exam_questions",
		DisplayName:          "Exam Questions",
		AssessmentType:       compliance.TypeDirect,
		TargetCompletionRate: 85,
		TargetScore:          3.2,
	}
	m, err := f.svc.CreateMethod(ctx, nm)
	require.NoError(t, err)
	assert.True(t, m.IsActive)

	_, err = f.svc.CreateMethod(ctx, nm)
	require.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, compliance.ErrMethodExists, vErr.Err)
}

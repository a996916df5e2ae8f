package assessment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/accredhub/abet/core/assessment"
	"github.com/accredhub/abet/core/catalog"
)

func TestClassifyCourseStatus(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		coverage float64
		want     string
	}{
		{"high score high coverage", 90, 85, assessment.StatusExcellent},
		{"excellent thresholds exactly", 85, 80, assessment.StatusExcellent},
		{"good score good coverage", 78, 65, assessment.StatusGood},
		{"high score low coverage", 90, 50, assessment.StatusNeedsImprovement},
		{"low score decent coverage", 50, 45, assessment.StatusNeedsImprovement},
		{"score alone qualifies", 62, 0, assessment.StatusNeedsImprovement},
		{"both low", 30, 20, assessment.StatusNeedsReview},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assessment.ClassifyCourseStatus(tt.score, tt.coverage); got != tt.want {
				t.Errorf("ClassifyCourseStatus(%v, %v) = %q, want %q", tt.score, tt.coverage, got, tt.want)
			}
		})
	}
}

func TestEngine_DashboardStats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crs := createCourse(t, f)
	a := createAssessment(t, f, crs.ID)

	_, err := f.assess.CreateAcademicPerformance(ctx, assessment.AcademicPerformance{AssessmentID: a.ID, Grade: 90, Weight: 1})
	require.NoError(t, err)

	stats := f.engine.DashboardStats(ctx)
	assert.Equal(t, 1, stats.Departments)
	assert.Equal(t, 1, stats.Programs)
	assert.Equal(t, 1, stats.Courses)
	assert.Equal(t, 1, stats.Assessments)
	assert.InDelta(t, 90.0, stats.AverageScore, 1e-9)
}

func TestEngine_CourseSummaries_noAssessments(t *testing.T) {
	f := setup(t)
	crs := createCourse(t, f)

	summaries, err := f.engine.CourseSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	summary := summaries[0]
	assert.Equal(t, crs.ID, summary.CourseID)
	assert.Equal(t, "TBD", summary.Instructor)
	assert.Equal(t, assessment.StatusNeedsAssessment, summary.Status)
	assert.Empty(t, summary.Outcomes)
	assert.Zero(t, summary.AssessmentScore)
}

func TestEngine_CourseSummaries_mapsStrongestEvidence(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crs := createCourse(t, f)

	fac, err := f.catalog.CreateFaculty(ctx, catalog.Faculty{Name: "Dr. Reyes", DepartmentID: "dept"})
	require.NoError(t, err)
	crs.InstructorID = null.StringFrom(fac.ID)
	crs, err = f.catalog.UpdateCourse(ctx, crs)
	require.NoError(t, err)

	a := createAssessment(t, f, crs.ID)
	_, err = f.assess.CreateAcademicPerformance(ctx, assessment.AcademicPerformance{AssessmentID: a.ID, Grade: 95, Weight: 1})
	require.NoError(t, err)

	so1, err := f.assess.CreateABETOutcome(ctx, assessment.ABETOutcome{Label: "SO1", Description: "problem solving"})
	require.NoError(t, err)
	so2, err := f.assess.CreateABETOutcome(ctx, assessment.ABETOutcome{Label: "SO2", Description: "design"})
	require.NoError(t, err)

	lo, err := f.assess.CreateLearningOutcome(ctx, assessment.LearningOutcome{AssessmentID: a.ID, Description: "mastery"})
	require.NoError(t, err)

	// SO1 is scored twice; only the strongest evidence should surface
	_, err = f.assess.CreateOutcomeScore(ctx, assessment.OutcomeScore{LearningOutcomeID: lo.ID, ABETOutcomeID: so1.ID, Score: 2, EvidenceType: "indirect"})
	require.NoError(t, err)
	_, err = f.assess.CreateOutcomeScore(ctx, assessment.OutcomeScore{LearningOutcomeID: lo.ID, ABETOutcomeID: so1.ID, Score: 4, EvidenceType: "direct"})
	require.NoError(t, err)
	_, err = f.assess.CreateOutcomeScore(ctx, assessment.OutcomeScore{LearningOutcomeID: lo.ID, ABETOutcomeID: so2.ID, Score: 1, EvidenceType: "direct"})
	require.NoError(t, err)

	summaries, err := f.engine.CourseSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	summary := summaries[0]

	assert.Equal(t, "Dr. Reyes", summary.Instructor)
	assert.Equal(t, []string{"SO1", "SO2"}, summary.Outcomes)
	require.Len(t, summary.MappedOutcomes, 2)

	so1Evidence := summary.MappedOutcomes[0]
	assert.Equal(t, "SO1", so1Evidence.Label)
	assert.Equal(t, 4, so1Evidence.Score)
	assert.Equal(t, assessment.OutcomeMet, so1Evidence.Status)

	so2Evidence := summary.MappedOutcomes[1]
	assert.Equal(t, 1, so2Evidence.Score)
	assert.Equal(t, assessment.OutcomeBelow, so2Evidence.Status)

	// both catalog outcomes have evidence: full coverage
	assert.InDelta(t, 100.0, summary.OutcomeCoverage, 1e-9)

	// composite averages the performance group (95) with the rubric group
	// ((50+100+25)/3), landing in the good band with full coverage
	assert.InDelta(t, 76.7, summary.AssessmentScore, 1e-9)
	assert.Equal(t, assessment.StatusGood, summary.Status)
}

func TestEngine_OutcomeDashboard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crs := createCourse(t, f)
	a := createAssessment(t, f, crs.ID)

	so1, err := f.assess.CreateABETOutcome(ctx, assessment.ABETOutcome{Label: "SO1", Description: "problem solving"})
	require.NoError(t, err)
	so2, err := f.assess.CreateABETOutcome(ctx, assessment.ABETOutcome{Label: "SO2", Description: "design"})
	require.NoError(t, err)
	so3, err := f.assess.CreateABETOutcome(ctx, assessment.ABETOutcome{Label: "SO3", Description: "communication"})
	require.NoError(t, err)

	lo, err := f.assess.CreateLearningOutcome(ctx, assessment.LearningOutcome{AssessmentID: a.ID, Description: "mastery"})
	require.NoError(t, err)

	// SO1 averages 4 (100%) -> exceeded; SO2 averages 3 (75%) -> met; SO3 has no scores -> below
	_, err = f.assess.CreateOutcomeScore(ctx, assessment.OutcomeScore{LearningOutcomeID: lo.ID, ABETOutcomeID: so1.ID, Score: 4, EvidenceType: "direct"})
	require.NoError(t, err)
	_, err = f.assess.CreateOutcomeScore(ctx, assessment.OutcomeScore{LearningOutcomeID: lo.ID, ABETOutcomeID: so2.ID, Score: 3, EvidenceType: "direct"})
	require.NoError(t, err)
	_ = so3

	statuses, err := f.engine.OutcomeDashboard(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	assert.Equal(t, "SO1", statuses[0].Label)
	assert.Equal(t, assessment.OutcomeExceeded, statuses[0].Status)
	assert.InDelta(t, 4.0, statuses[0].AverageScore, 1e-9)
	assert.InDelta(t, 100.0, statuses[0].Percentage, 1e-9)

	assert.Equal(t, "SO2", statuses[1].Label)
	assert.Equal(t, assessment.OutcomeMet, statuses[1].Status)
	assert.InDelta(t, 75.0, statuses[1].Percentage, 1e-9)

	assert.Equal(t, "SO3", statuses[2].Label)
	assert.Equal(t, assessment.OutcomeBelow, statuses[2].Status)
	assert.Zero(t, statuses[2].Percentage)
}

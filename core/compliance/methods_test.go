package compliance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accredhub/abet/core/compliance"
)

func createMethod(t *testing.T, f *fixtures, name, assessmentType string, targetCompletion, targetScore float64) compliance.Method {
	t.Helper()
	m, err := f.svc.CreateMethod(context.Background(), compliance.NewMethod{
		Name:                 name,
		DisplayName:          name,
		AssessmentType:       assessmentType,
		TargetCompletionRate: targetCompletion,
		TargetScore:          targetScore,
	})
	require.NoError(t, err)
	return m
}

func recordResult(t *testing.T, f *fixtures, methodID, courseID string, completed bool, score *float64) {
	t.Helper()
	_, err := f.svc.RecordMethodResult(context.Background(), compliance.NewMethodRecord{
		CourseID:         courseID,
		MethodID:         methodID,
		CompletionStatus: completed,
		Score:            score,
	})
	require.NoError(t, err)
}

func floatPtr(v float64) *float64 { return &v }

func TestCalculator_MethodsSummary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs1 := createCourse(t, f, "ENG101")
	crs2 := createCourse(t, f, "ENG102")
	m := createMethod(t, f, "exam_questions", compliance.TypeDirect, 85, 3.2)

	// crs1 completed with a score, crs2 still pending
	recordResult(t, f, m.ID, crs1.ID, true, floatPtr(3.6))
	recordResult(t, f, m.ID, crs2.ID, false, nil)

	summaries, err := f.calc.MethodsSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "exam_questions", s.Name)
	assert.Equal(t, 2, s.Courses)
	assert.InDelta(t, 50.0, s.CompletionRate, 1e-9)
	assert.InDelta(t, 3.6, s.AverageScore, 1e-9)
	assert.False(t, s.IsCompliant) // completion target missed
	assert.Equal(t, compliance.MethodNonCompliant, s.Status)
}

func TestCalculator_MethodsSummary_duplicateCourseRecords(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs := createCourse(t, f, "ENG101")
	m := createMethod(t, f, "project_rubrics", compliance.TypeDirect, 90, 3.4)

	// multiple records for the same course count it once; unscored
	// completions never dilute the average
	recordResult(t, f, m.ID, crs.ID, true, floatPtr(3.5))
	recordResult(t, f, m.ID, crs.ID, true, nil)

	summaries, err := f.calc.MethodsSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, 1, s.Courses)
	assert.InDelta(t, 100.0, s.CompletionRate, 1e-9)
	assert.InDelta(t, 3.5, s.AverageScore, 1e-9)
	assert.True(t, s.IsCompliant)
	assert.Equal(t, compliance.MethodCompliant, s.Status)
}

func TestCalculator_MethodsSummary_noRecords(t *testing.T) {
	f := setup(t)
	createMethod(t, f, "student_surveys", compliance.TypeIndirect, 75, 3.1)

	summaries, err := f.calc.MethodsSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Zero(t, s.Courses)
	assert.Zero(t, s.CompletionRate)
	assert.Zero(t, s.AverageScore)
	assert.False(t, s.IsCompliant)
}

func TestCalculator_MethodsDashboard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs := createCourse(t, f, "ENG101")
	exam := createMethod(t, f, "exam_questions", compliance.TypeDirect, 85, 3.2)
	rubric := createMethod(t, f, "project_rubrics", compliance.TypeDirect, 90, 3.4)
	survey := createMethod(t, f, "student_surveys", compliance.TypeIndirect, 75, 3.1)

	// exam and survey are compliant; rubric has no records at all
	recordResult(t, f, exam.ID, crs.ID, true, floatPtr(3.6))
	recordResult(t, f, survey.ID, crs.ID, true, floatPtr(3.3))
	_ = rubric

	dash, err := f.calc.MethodsDashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, dash.TotalMethods)
	assert.Equal(t, 2, dash.CompliantMethods)
	assert.InDelta(t, 66.7, dash.OverallComplianceRate, 1e-9)
	assert.InDelta(t, 50.0, dash.DirectAssessmentCompliance, 1e-9)
	assert.InDelta(t, 100.0, dash.IndirectAssessmentCompliance, 1e-9)
	require.Len(t, dash.Methods, 3)

	require.Len(t, dash.Trends, 6)
	for _, point := range dash.Trends {
		assert.InDelta(t, dash.OverallComplianceRate, point.ComplianceRate, 1e-9)
		assert.NotEmpty(t, point.Month)
		assert.NotEmpty(t, point.Date)
	}
}

func TestCalculator_MethodsSummary_activeOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	createMethod(t, f, "exam_questions", compliance.TypeDirect, 85, 3.2)
	createMethod(t, f, "alumni_feedback", compliance.TypeIndirect, 70, 3.3)

	all, err := f.svc.QueryMethods(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	summaries, err := f.calc.MethodsSummary(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}

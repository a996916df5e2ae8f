package assessment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accredhub/abet/core/assessment"
)

var actor = assessment.Actor{ID: "00000007", Username: "jdoe"}

func TestService_Create_emitsEvent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crs := createCourse(t, f)

	a, err := f.svc.Create(ctx, actor, assessment.NewAssessment{
		Name:     "Final Exam",
		Date:     time.Now().UTC(),
		CourseID: crs.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	events, err := f.svc.QueryRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	evt := events[0]
	assert.Equal(t, a.ID, evt.AssessmentID)
	assert.Equal(t, "Final Exam", evt.AssessmentName)
	assert.Equal(t, assessment.EventCreate, evt.EventType)
	assert.Equal(t, actor.ID, evt.ActorID)
	assert.Equal(t, actor.Username, evt.ActorUsername)
}

func TestService_Create_unknownCourse(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), actor, assessment.NewAssessment{
		Name:     "Final Exam",
		Date:     time.Now().UTC(),
		CourseID: "nope",
	})
	assert.Error(t, err)
}

func TestService_Update_emitsEvent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crs := createCourse(t, f)
	a := createAssessment(t, f, crs.ID)

	updated, err := f.svc.Update(ctx, actor, a.ID, assessment.UpdateAssessment{Name: "Midterm v2"})
	require.NoError(t, err)
	assert.Equal(t, "Midterm v2", updated.Name)
	assert.Equal(t, a.Date.Unix(), updated.Date.Unix()) // zero date leaves the old one

	events, err := f.svc.QueryRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, assessment.EventUpdate, events[0].EventType)
	assert.Equal(t, "Midterm v2", events[0].AssessmentName)
}

func TestService_Delete_cascadesAndKeepsEvent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crs := createCourse(t, f)
	a := createAssessment(t, f, crs.ID)

	lo, err := f.svc.AddLearningOutcome(ctx, actor, a.ID, assessment.NewLearningOutcome{Description: "mastery"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, actor, a.ID))

	_, err = f.svc.GetByID(ctx, a.ID)
	assert.Equal(t, assessment.ErrNotFound, err)
	los, err := f.svc.QueryLearningOutcomes(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, los)
	_, err = f.assess.GetLearningOutcome(ctx, lo.ID)
	assert.Equal(t, assessment.ErrNotFound, err)

	// the audit trail outlives the record it describes
	events, err := f.svc.QueryRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, assessment.EventDelete, events[0].EventType)
	assert.Equal(t, a.ID, events[0].AssessmentID)
}

func TestService_Delete_unknownAssessment(t *testing.T) {
	f := setup(t)
	err := f.svc.Delete(context.Background(), actor, "nope")
	assert.Equal(t, assessment.ErrNotFound, err)
}

func TestService_AddComponents_eventNamesAndScores(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crs := createCourse(t, f)
	a := createAssessment(t, f, crs.ID)

	_, err := f.svc.AddContinuousImprovement(ctx, actor, a.ID, assessment.NewContinuousImprovement{
		Score:       92,
		Weight:      1,
		ActionTaken: "Revised lab rubric",
	})
	require.NoError(t, err)

	_, err = f.svc.AddAcademicPerformance(ctx, actor, a.ID, assessment.NewAcademicPerformance{
		Grade:           96,
		Weight:          1,
		PerformanceType: "final_exam",
	})
	require.NoError(t, err)

	events, err := f.svc.QueryRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// newest first; each event snapshots the composite after its own write
	assert.Equal(t, "Midterm - Academic Performance", events[0].AssessmentName)
	assert.InDelta(t, 94.0, events[0].Score, 1e-9)
	assert.Equal(t, "Midterm - Continuous Improvement", events[1].AssessmentName)
	assert.InDelta(t, 92.0, events[1].Score, 1e-9)
	for _, evt := range events {
		assert.Equal(t, assessment.EventCreate, evt.EventType)
	}
}

func TestService_AddOutcomeScore_derivesLevel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crs := createCourse(t, f)
	a := createAssessment(t, f, crs.ID)

	so, err := f.svc.CreateABETOutcome(ctx, assessment.NewABETOutcome{Label: "SO1", Description: "problem solving"})
	require.NoError(t, err)
	lo, err := f.svc.AddLearningOutcome(ctx, actor, a.ID, assessment.NewLearningOutcome{Description: "mastery"})
	require.NoError(t, err)

	score, err := f.svc.AddOutcomeScore(ctx, actor, lo.ID, assessment.NewOutcomeScore{
		ABETOutcomeID: so.ID,
		Score:         4,
		EvidenceType:  "direct",
	})
	require.NoError(t, err)
	assert.Equal(t, "Exceeds Expectations", score.LevelDescription)

	score, err = f.svc.UpdateOutcomeScore(ctx, actor, score.ID, assessment.NewOutcomeScore{
		ABETOutcomeID: so.ID,
		Score:         2,
		EvidenceType:  "indirect",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, score.Score)
	assert.Equal(t, "Approaching Expectations", score.LevelDescription)
	assert.Equal(t, "indirect", score.EvidenceType)

	events, err := f.svc.QueryRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3) // learning outcome + score create + score update
	assert.Equal(t, "Midterm - Outcome Score", events[0].AssessmentName)
	assert.Equal(t, assessment.EventUpdate, events[0].EventType)
}

func TestService_AddOutcomeScore_unknownLearningOutcome(t *testing.T) {
	f := setup(t)
	_, err := f.svc.AddOutcomeScore(context.Background(), actor, "nope", assessment.NewOutcomeScore{
		ABETOutcomeID: "whatever",
		Score:         3,
		EvidenceType:  "direct",
	})
	assert.Equal(t, assessment.ErrNotFound, err)
}

func TestService_QueryRecentEvents_limit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crs := createCourse(t, f)
	a := createAssessment(t, f, crs.ID)

	for i := 0; i < 4; i++ {
		_, err := f.svc.Update(ctx, actor, a.ID, assessment.UpdateAssessment{Name: "Midterm"})
		require.NoError(t, err)
	}

	events, err := f.svc.QueryRecentEvents(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

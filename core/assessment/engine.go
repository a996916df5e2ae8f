package assessment

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/accredhub/abet/core"
)

// accreditationThreshold is the composite score at or above which an
// assessment (or program) is considered to meet the accreditation bar.
const accreditationThreshold = 90.0

// ScoreResult is the engine's normalized output for a single assessment.
// Component scores are 0..100; a component group with no records
// contributes nothing to the composite.
type ScoreResult struct {
	CompositeScore             float64 `json:"composite_score"`
	ContinuousImprovementScore float64 `json:"continuous_improvement_score"`
	AcademicPerformanceScore   float64 `json:"academic_performance_score"`
	LearningOutcomeScore       float64 `json:"learning_outcome_score"`
	IsAccredited               bool    `json:"is_accredited"`
}

// ProgramAverage is the aggregate score across all assessments of a program's courses.
type ProgramAverage struct {
	ProgramID       string  `json:"program_id"`
	ProgramName     string  `json:"program_name,omitempty"`
	AverageScore    float64 `json:"average_score"`
	AssessmentCount int     `json:"assessment_count"`
	IsAccredited    bool    `json:"is_accredited"`
}

// Engine computes assessment scores and their aggregates. All reads go
// through the repositories; nothing is cached between calls.
type Engine struct {
	repo    Repository
	catalog CatalogReader
	log     core.Logger
}

func NewEngine(repo Repository, catalog CatalogReader, log core.Logger) *Engine {
	return &Engine{
		repo:    repo,
		catalog: catalog,
		log:     log,
	}
}

// CalculateScore computes the composite score of an assessment. It never
// fails: a missing assessment or an internal fault yields a zeroed result,
// so one bad record cannot take down a whole dashboard.
func (eng *Engine) CalculateScore(ctx context.Context, assessmentID string) ScoreResult {
	res, err := eng.calculateScore(ctx, assessmentID)
	if err != nil {
		eng.log.Warn(fmt.Sprintf("scoring assessment %s", assessmentID), err)
		return ScoreResult{}
	}
	return res
}

func (eng *Engine) calculateScore(ctx context.Context, assessmentID string) (ScoreResult, error) {
	cis, err := eng.repo.QueryContinuousImprovements(ctx, assessmentID)
	if err != nil {
		return ScoreResult{}, errors.Wrap(err, "querying continuous improvements")
	}
	var ciSum float64
	var ciWeight int
	for _, ci := range cis {
		ciSum += ci.Score * float64(ci.Weight)
		ciWeight += ci.Weight
	}

	aps, err := eng.repo.QueryAcademicPerformances(ctx, assessmentID)
	if err != nil {
		return ScoreResult{}, errors.Wrap(err, "querying academic performances")
	}
	var apSum float64
	var apWeight int
	for _, ap := range aps {
		apSum += float64(ap.Grade) * float64(ap.Weight)
		apWeight += ap.Weight
	}

	// learning outcomes are unweighted: every rubric score counts the same
	los, err := eng.repo.QueryLearningOutcomes(ctx, assessmentID)
	if err != nil {
		return ScoreResult{}, errors.Wrap(err, "querying learning outcomes")
	}
	var loSum float64
	var loCount int
	for _, lo := range los {
		scores, err := eng.repo.QueryOutcomeScores(ctx, lo.ID)
		if err != nil {
			return ScoreResult{}, errors.Wrap(err, "querying outcome scores")
		}
		for _, score := range scores {
			loSum += float64(score.Score) / rubricMax * 100
			loCount++
		}
	}

	// the composite averages the component groups that have data
	var res ScoreResult
	var total float64
	var groups int
	if ciWeight > 0 {
		res.ContinuousImprovementScore = ciSum / float64(ciWeight)
		total += res.ContinuousImprovementScore
		groups++
	}
	if apWeight > 0 {
		res.AcademicPerformanceScore = apSum / float64(apWeight)
		total += res.AcademicPerformanceScore
		groups++
	}
	if loCount > 0 {
		res.LearningOutcomeScore = loSum / float64(loCount)
		total += res.LearningOutcomeScore
		groups++
	}
	if groups > 0 {
		res.CompositeScore = total / float64(groups)
	}
	res.IsAccredited = res.CompositeScore >= accreditationThreshold
	return res, nil
}

// AverageScore returns the mean composite score across all assessments, 0 when none exist.
func (eng *Engine) AverageScore(ctx context.Context) float64 {
	assessments, err := eng.repo.QueryAssessments(ctx)
	if err != nil {
		eng.log.Warn("querying assessments for average", err)
		return 0
	}
	return eng.AverageScoreAcross(ctx, assessments)
}

// AverageScoreAcross returns the mean composite score over the given assessments.
func (eng *Engine) AverageScoreAcross(ctx context.Context, assessments []Assessment) float64 {
	if len(assessments) == 0 {
		return 0
	}
	var total float64
	for _, a := range assessments {
		total += eng.CalculateScore(ctx, a.ID).CompositeScore
	}
	return core.Round2(total / float64(len(assessments)))
}

// CollectedAverage returns the mean composite score over assessments with a
// nonzero score, plus how many contributed and the total assessment count.
func (eng *Engine) CollectedAverage(ctx context.Context) (avg float64, collected, total int) {
	assessments, err := eng.repo.QueryAssessments(ctx)
	if err != nil {
		eng.log.Warn("querying assessments for collected average", err)
		return 0, 0, 0
	}
	var sum float64
	for _, a := range assessments {
		if score := eng.CalculateScore(ctx, a.ID).CompositeScore; score > 0 {
			sum += score
			collected++
		}
	}
	if collected > 0 {
		avg = sum / float64(collected)
	}
	return avg, collected, len(assessments)
}

// ProgramAverageScore aggregates the scores of every assessment in the
// program's courses. A faulty course is skipped, not fatal.
func (eng *Engine) ProgramAverageScore(ctx context.Context, programID string) (ProgramAverage, error) {
	prog, err := eng.catalog.GetProgram(ctx, programID)
	if err != nil {
		return ProgramAverage{}, err
	}
	courses, err := eng.catalog.QueryCoursesByProgram(ctx, programID)
	if err != nil {
		return ProgramAverage{}, errors.Wrap(err, "querying program courses")
	}

	var total float64
	var count int
	for _, crs := range courses {
		assessments, err := eng.repo.QueryAssessmentsByCourse(ctx, crs.ID)
		if err != nil {
			eng.log.Warn(fmt.Sprintf("querying assessments for course %s", crs.ID), err)
			continue
		}
		for _, a := range assessments {
			total += eng.CalculateScore(ctx, a.ID).CompositeScore
			count++
		}
	}

	avg := ProgramAverage{
		ProgramID:       programID,
		ProgramName:     prog.Name,
		AssessmentCount: count,
	}
	if count > 0 {
		avg.AverageScore = core.Round2(total / float64(count))
	}
	avg.IsAccredited = avg.AverageScore >= accreditationThreshold
	return avg, nil
}

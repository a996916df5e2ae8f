package assessment

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/catalog"
)

// Course readiness statuses
const (
	StatusExcellent        = "excellent"
	StatusGood             = "good"
	StatusNeedsImprovement = "needs_improvement"
	StatusNeedsReview      = "needs_review"
	StatusNeedsAssessment  = "needs_assessment"
)

// ABET outcome attainment statuses
const (
	OutcomeExceeded = "exceeded"
	OutcomeMet      = "met"
	OutcomeBelow    = "below"
)

// outcomeTargetPct is the attainment percentage at which an outcome counts as met.
const outcomeTargetPct = 75.0

type (
	// OutcomeEvidence is the strongest rubric evidence a course holds for one
	// ABET outcome, with the per-outcome target check applied (rubric >= 3).
	OutcomeEvidence struct {
		Label        string `json:"label"`
		Score        int    `json:"score"`
		Status       string `json:"status"`
		EvidenceType string `json:"evidence_type"`
	}

	// CourseSummary is one row of the per-course readiness dashboard.
	CourseSummary struct {
		CourseID        string            `json:"course_id"`
		Code            string            `json:"code"`
		Name            string            `json:"name"`
		Instructor      string            `json:"instructor"`
		Enrollment      int               `json:"enrollment"`
		Outcomes        []string          `json:"outcomes"`
		MappedOutcomes  []OutcomeEvidence `json:"mapped_outcomes"`
		OutcomeCoverage float64           `json:"outcome_coverage"`
		AssessmentScore float64           `json:"assessment_score"`
		Status          string            `json:"status"`
	}

	// OutcomeStatus is one row of the ABET outcome attainment dashboard.
	OutcomeStatus struct {
		Label        string  `json:"label"`
		Description  string  `json:"description"`
		AverageScore float64 `json:"average_score"` // raw rubric scale, 0..4
		Percentage   float64 `json:"percentage"`    // normalized, 0..100
		Target       float64 `json:"target"`
		TargetScore  float64 `json:"target_score"`
		Status       string  `json:"status"`
	}

	// DashboardStats carries the headline counters of the landing dashboard.
	DashboardStats struct {
		Departments  int     `json:"departments"`
		Programs     int     `json:"programs"`
		Courses      int     `json:"courses"`
		Assessments  int     `json:"assessments"`
		AverageScore float64 `json:"average_score"`
	}
)

// ClassifyCourseStatus applies the two-dimensional readiness thresholds to a
// course's average assessment score and its ABET outcome coverage (both 0..100).
func ClassifyCourseStatus(score, coverage float64) string {
	switch {
	case score >= 85 && coverage >= 80:
		return StatusExcellent
	case score >= 75 && coverage >= 60:
		return StatusGood
	case score >= 60 || coverage >= 40:
		return StatusNeedsImprovement
	default:
		return StatusNeedsReview
	}
}

// DashboardStats gathers the headline counters. Each counter degrades to 0
// on a repository fault instead of failing the whole dashboard.
func (eng *Engine) DashboardStats(ctx context.Context) DashboardStats {
	count := func(name string, fn func(context.Context) (int, error)) int {
		n, err := fn(ctx)
		if err != nil {
			eng.log.Warn(fmt.Sprintf("counting %s", name), err)
			return 0
		}
		return n
	}
	return DashboardStats{
		Departments:  count("departments", eng.catalog.CountDepartments),
		Programs:     count("programs", eng.catalog.CountPrograms),
		Courses:      count("courses", eng.catalog.CountCourses),
		Assessments:  count("assessments", eng.repo.CountAssessments),
		AverageScore: eng.AverageScore(ctx),
	}
}

// CourseSummaries builds the readiness row of every course in the catalog.
func (eng *Engine) CourseSummaries(ctx context.Context) ([]CourseSummary, error) {
	courses, err := eng.catalog.QueryCourses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	outcomes, err := eng.repo.QueryABETOutcomes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying outcome catalog")
	}
	labelsByID := make(map[string]string, len(outcomes))
	for _, o := range outcomes {
		labelsByID[o.ID] = o.Label
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for _, crs := range courses {
		summaries = append(summaries, eng.courseSummary(ctx, crs, labelsByID, len(outcomes)))
	}
	return summaries, nil
}

func (eng *Engine) courseSummary(ctx context.Context, crs catalog.Course, labelsByID map[string]string, totalOutcomes int) CourseSummary {
	summary := CourseSummary{
		CourseID:       crs.ID,
		Code:           crs.Code,
		Name:           crs.Name,
		Instructor:     "TBD",
		Outcomes:       []string{},
		MappedOutcomes: []OutcomeEvidence{},
		Status:         StatusNeedsAssessment,
	}
	if crs.InstructorID.Valid {
		if fac, err := eng.catalog.GetFaculty(ctx, crs.InstructorID.String); err == nil {
			summary.Instructor = fac.Name
		}
	}
	if n, err := eng.catalog.CountCourseEnrollment(ctx, crs.ID); err == nil {
		summary.Enrollment = n
	}

	assessments, err := eng.repo.QueryAssessmentsByCourse(ctx, crs.ID)
	if err != nil {
		eng.log.Warn(fmt.Sprintf("summarizing course %s", crs.ID), err)
		return summary
	}
	if len(assessments) == 0 {
		return summary
	}

	// map each ABET outcome to the strongest evidence any assessment holds for it
	mapped := make(map[string]OutcomeEvidence)
	var total float64
	for _, a := range assessments {
		total += eng.CalculateScore(ctx, a.ID).CompositeScore

		los, err := eng.repo.QueryLearningOutcomes(ctx, a.ID)
		if err != nil {
			eng.log.Warn(fmt.Sprintf("summarizing assessment %s", a.ID), err)
			continue
		}
		for _, lo := range los {
			scores, err := eng.repo.QueryOutcomeScores(ctx, lo.ID)
			if err != nil {
				eng.log.Warn(fmt.Sprintf("summarizing learning outcome %s", lo.ID), err)
				continue
			}
			for _, score := range scores {
				label, ok := labelsByID[score.ABETOutcomeID]
				if !ok {
					continue
				}
				evidence, seen := mapped[label]
				if !seen {
					mapped[label] = OutcomeEvidence{
						Label:        label,
						Score:        score.Score,
						EvidenceType: score.EvidenceType,
					}
				} else if score.Score > evidence.Score {
					evidence.Score = score.Score
					mapped[label] = evidence
				}
			}
		}
	}

	labels := make([]string, 0, len(mapped))
	for label := range mapped {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		evidence := mapped[label]
		evidence.Status = OutcomeBelow
		if float64(evidence.Score) >= rubricMax-1 { // rubric 3+ meets the per-outcome bar
			evidence.Status = OutcomeMet
		}
		summary.Outcomes = append(summary.Outcomes, label)
		summary.MappedOutcomes = append(summary.MappedOutcomes, evidence)
	}

	avgScore := total / float64(len(assessments))
	coverage := float64(len(mapped)) / float64(max(totalOutcomes, 1)) * 100
	summary.AssessmentScore = core.Round1(avgScore)
	summary.OutcomeCoverage = core.Round1(coverage)
	summary.Status = ClassifyCourseStatus(avgScore, coverage)
	return summary
}

// OutcomeDashboard reports the attainment of every ABET outcome in the
// catalog, averaged over all rubric scores mapped to it.
func (eng *Engine) OutcomeDashboard(ctx context.Context) ([]OutcomeStatus, error) {
	outcomes, err := eng.repo.QueryABETOutcomes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying outcome catalog")
	}

	statuses := make([]OutcomeStatus, 0, len(outcomes))
	for _, o := range outcomes {
		status := OutcomeStatus{
			Label:       o.Label,
			Description: o.Description,
			Target:      rubricMax,
			TargetScore: outcomeTargetPct,
			Status:      OutcomeBelow,
		}
		scores, err := eng.repo.QueryOutcomeScoresByOutcome(ctx, o.ID)
		if err != nil {
			eng.log.Warn(fmt.Sprintf("querying scores for outcome %s", o.Label), err)
			scores = nil
		}
		if len(scores) > 0 {
			var sum float64
			for _, score := range scores {
				sum += float64(score.Score)
			}
			avg := sum / float64(len(scores))
			pct := avg / rubricMax * 100
			switch {
			case pct >= 85:
				status.Status = OutcomeExceeded
			case pct >= outcomeTargetPct:
				status.Status = OutcomeMet
			}
			status.AverageScore = core.Round2(avg)
			status.Percentage = core.Round1(pct)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/accredhub/abet/core"
)

// Method compliance statuses
const (
	MethodCompliant    = "compliant"
	MethodNonCompliant = "non_compliant"
)

type (
	// MethodSummary reports one assessment method's use across courses in the
	// configured semester, checked against both of its targets.
	MethodSummary struct {
		Name             string  `json:"name"`
		DisplayName      string  `json:"display_name"`
		AssessmentType   string  `json:"assessment_type"`
		Courses          int     `json:"courses"`
		CompletionRate   float64 `json:"completion_rate"`
		AverageScore     float64 `json:"avg_score"`
		TargetCompletion float64 `json:"target_completion"`
		TargetScore      float64 `json:"target_score"`
		IsCompliant      bool    `json:"is_compliant"`
		Status           string  `json:"status"`
	}

	// TrendPoint is one month of the compliance trend line.
	TrendPoint struct {
		Month          string  `json:"month"`
		ComplianceRate float64 `json:"compliance_rate"`
		Date           string  `json:"date"`
	}

	// MethodsDashboard is the assessment-methods compliance dashboard payload.
	MethodsDashboard struct {
		OverallComplianceRate        float64         `json:"overall_compliance_rate"`
		DirectAssessmentCompliance   float64         `json:"direct_assessment_compliance"`
		IndirectAssessmentCompliance float64         `json:"indirect_assessment_compliance"`
		TotalMethods                 int             `json:"total_methods"`
		CompliantMethods             int             `json:"compliant_methods"`
		Methods                      []MethodSummary `json:"methods_summary"`
		Trends                       []TrendPoint    `json:"compliance_trends"`
	}
)

// MethodsSummary evaluates every active assessment method against its
// completion and score targets for the configured semester. A method whose
// records cannot be read is reported as a zeroed, non compliant row.
func (calc *Calculator) MethodsSummary(ctx context.Context) ([]MethodSummary, error) {
	methods, err := calc.repo.QueryMethods(ctx, true)
	if err != nil {
		return nil, errors.Wrap(err, "querying assessment methods")
	}

	summaries := make([]MethodSummary, 0, len(methods))
	for _, m := range methods {
		summary := MethodSummary{
			Name:             m.Name,
			DisplayName:      m.DisplayName,
			AssessmentType:   m.AssessmentType,
			TargetCompletion: m.TargetCompletionRate,
			TargetScore:      m.TargetScore,
			Status:           MethodNonCompliant,
		}
		records, err := calc.repo.QueryMethodRecords(ctx, m.ID, calc.conf.Semester)
		if err != nil {
			calc.log.Warn(fmt.Sprintf("querying records for method %s", m.Name), err)
			summaries = append(summaries, summary)
			continue
		}

		courses := make(map[string]bool)
		completed := make(map[string]bool)
		var scoreSum float64
		var scoreCount int
		for _, rec := range records {
			courses[rec.CourseID] = true
			if rec.CompletionStatus {
				completed[rec.CourseID] = true
				// incomplete or unscored records never dilute the average
				if rec.Score.Valid {
					scoreSum += rec.Score.Float64
					scoreCount++
				}
			}
		}

		summary.Courses = len(courses)
		if len(courses) > 0 {
			summary.CompletionRate = float64(len(completed)) / float64(len(courses)) * 100
		}
		if scoreCount > 0 {
			summary.AverageScore = scoreSum / float64(scoreCount)
		}
		summary.IsCompliant = summary.CompletionRate >= m.TargetCompletionRate &&
			summary.AverageScore >= m.TargetScore
		if summary.IsCompliant {
			summary.Status = MethodCompliant
		}
		summary.CompletionRate = core.Round1(summary.CompletionRate)
		summary.AverageScore = core.Round2(summary.AverageScore)
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// MethodsDashboard aggregates the method summaries into overall and
// per-evidence-type compliance rates, with the trailing 6 month trend.
func (calc *Calculator) MethodsDashboard(ctx context.Context) (MethodsDashboard, error) {
	summaries, err := calc.MethodsSummary(ctx)
	if err != nil {
		return MethodsDashboard{}, err
	}

	dash := MethodsDashboard{
		TotalMethods: len(summaries),
		Methods:      summaries,
		Trends:       []TrendPoint{},
	}

	var direct, directCompliant, indirect, indirectCompliant int
	for _, s := range summaries {
		if s.IsCompliant {
			dash.CompliantMethods++
		}
		switch s.AssessmentType {
		case TypeDirect:
			direct++
			if s.IsCompliant {
				directCompliant++
			}
		case TypeIndirect:
			indirect++
			if s.IsCompliant {
				indirectCompliant++
			}
		}
	}
	dash.OverallComplianceRate = core.Round1(ratio(dash.CompliantMethods, dash.TotalMethods))
	dash.DirectAssessmentCompliance = core.Round1(ratio(directCompliant, direct))
	dash.IndirectAssessmentCompliance = core.Round1(ratio(indirectCompliant, indirect))
	dash.Trends = trailingTrend(dash.OverallComplianceRate, time.Now().UTC())
	return dash, nil
}

// trailingTrend builds the 6 month trend line ending at `now`.
// Historical per-month rates are not tracked per method record yet, so every
// point carries the current rate.
// TODO: derive monthly points from persisted MetricSnapshot rows instead.
func trailingTrend(currentRate float64, now time.Time) []TrendPoint {
	points := make([]TrendPoint, 0, 6)
	for i := 5; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		points = append(points, TrendPoint{
			Month:          month.Format("January 2006"),
			ComplianceRate: currentRate,
			Date:           month.Format("2006-01-02"),
		})
	}
	return points
}

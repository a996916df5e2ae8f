package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/assessment"
)

type AssessmentRepository struct {
	db *sqlx.DB
}

var (
	_ assessment.Repository      = (*AssessmentRepository)(nil)
	_ assessment.EventRepository = (*AssessmentRepository)(nil)
)

func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func (repo *AssessmentRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := repo.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting records")
	}
	return n, nil
}

// Assessments

func (repo *AssessmentRepository) CreateAssessment(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	a.ID = uuid.New().String()
	query := `INSERT INTO assessment (id, name, date, course_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := repo.db.ExecContext(ctx, query, a.ID, a.Name, a.Date, a.CourseID, a.CreatedAt, a.UpdatedAt); err != nil {
		return assessment.Assessment{}, errors.Wrap(err, "creating assessment")
	}
	return a, nil
}

func (repo *AssessmentRepository) QueryAssessments(ctx context.Context, ordering ...core.DBOrdering) ([]assessment.Assessment, error) {
	var assessments []assessment.Assessment
	query := `SELECT * FROM assessment` + orderBy("date DESC", ordering)
	if err := repo.db.SelectContext(ctx, &assessments, query); err != nil {
		return nil, errors.Wrap(err, "querying assessments")
	}
	return assessments, nil
}

func (repo *AssessmentRepository) QueryAssessmentsByCourse(ctx context.Context, courseID string) ([]assessment.Assessment, error) {
	var assessments []assessment.Assessment
	query := `SELECT * FROM assessment WHERE course_id = $1 ORDER BY date DESC`
	if err := repo.db.SelectContext(ctx, &assessments, query, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course assessments")
	}
	return assessments, nil
}

func (repo *AssessmentRepository) GetAssessment(ctx context.Context, id string) (assessment.Assessment, error) {
	var a assessment.Assessment
	if err := repo.db.GetContext(ctx, &a, `SELECT * FROM assessment WHERE id = $1`, id); err != nil {
		return assessment.Assessment{}, trapNoRowsErr(err, assessment.ErrNotFound, "getting assessment")
	}
	return a, nil
}

func (repo *AssessmentRepository) UpdateAssessment(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	query := `UPDATE assessment SET name = $2, date = $3, updated_at = $4 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, a.ID, a.Name, a.Date, a.UpdatedAt)
	if err != nil {
		return assessment.Assessment{}, errors.Wrap(err, "updating assessment")
	}
	if err := ensureFound(res, assessment.ErrNotFound); err != nil {
		return assessment.Assessment{}, err
	}
	return a, nil
}

func (repo *AssessmentRepository) DeleteAssessment(ctx context.Context, id string) error {
	// attached records go with it via ON DELETE CASCADE
	res, err := repo.db.ExecContext(ctx, `DELETE FROM assessment WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting assessment")
	}
	return ensureFound(res, assessment.ErrNotFound)
}

func (repo *AssessmentRepository) CountAssessments(ctx context.Context) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM assessment`)
}

// Continuous improvements

func (repo *AssessmentRepository) CreateContinuousImprovement(ctx context.Context, ci assessment.ContinuousImprovement) (assessment.ContinuousImprovement, error) {
	ci.ID = uuid.New().String()
	query := `INSERT INTO continuous_improvement
			  (id, assessment_id, score, weight, action_taken, effectiveness_measure, implementation_date, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, query,
		ci.ID, ci.AssessmentID, ci.Score, ci.Weight, ci.ActionTaken, ci.EffectivenessMeasure,
		ci.ImplementationDate, ci.CreatedAt, ci.UpdatedAt)
	if err != nil {
		return assessment.ContinuousImprovement{}, errors.Wrap(err, "creating continuous improvement")
	}
	return ci, nil
}

func (repo *AssessmentRepository) QueryContinuousImprovements(ctx context.Context, assessmentID string) ([]assessment.ContinuousImprovement, error) {
	var cis []assessment.ContinuousImprovement
	query := `SELECT * FROM continuous_improvement WHERE assessment_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &cis, query, assessmentID); err != nil {
		return nil, errors.Wrap(err, "querying continuous improvements")
	}
	return cis, nil
}

func (repo *AssessmentRepository) DeleteContinuousImprovement(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM continuous_improvement WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting continuous improvement")
	}
	return ensureFound(res, assessment.ErrNotFound)
}

// Academic performances

func (repo *AssessmentRepository) CreateAcademicPerformance(ctx context.Context, ap assessment.AcademicPerformance) (assessment.AcademicPerformance, error) {
	ap.ID = uuid.New().String()
	query := `INSERT INTO academic_performance
			  (id, assessment_id, grade, weight, performance_type, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		ap.ID, ap.AssessmentID, ap.Grade, ap.Weight, ap.PerformanceType, ap.CreatedAt, ap.UpdatedAt)
	if err != nil {
		return assessment.AcademicPerformance{}, errors.Wrap(err, "creating academic performance")
	}
	return ap, nil
}

func (repo *AssessmentRepository) QueryAcademicPerformances(ctx context.Context, assessmentID string) ([]assessment.AcademicPerformance, error) {
	var aps []assessment.AcademicPerformance
	query := `SELECT * FROM academic_performance WHERE assessment_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &aps, query, assessmentID); err != nil {
		return nil, errors.Wrap(err, "querying academic performances")
	}
	return aps, nil
}

func (repo *AssessmentRepository) DeleteAcademicPerformance(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM academic_performance WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting academic performance")
	}
	return ensureFound(res, assessment.ErrNotFound)
}

// Learning outcomes

func (repo *AssessmentRepository) CreateLearningOutcome(ctx context.Context, lo assessment.LearningOutcome) (assessment.LearningOutcome, error) {
	lo.ID = uuid.New().String()
	query := `INSERT INTO learning_outcome (id, assessment_id, description, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := repo.db.ExecContext(ctx, query, lo.ID, lo.AssessmentID, lo.Description, lo.CreatedAt, lo.UpdatedAt); err != nil {
		return assessment.LearningOutcome{}, errors.Wrap(err, "creating learning outcome")
	}
	return lo, nil
}

func (repo *AssessmentRepository) QueryLearningOutcomes(ctx context.Context, assessmentID string) ([]assessment.LearningOutcome, error) {
	var los []assessment.LearningOutcome
	query := `SELECT * FROM learning_outcome WHERE assessment_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &los, query, assessmentID); err != nil {
		return nil, errors.Wrap(err, "querying learning outcomes")
	}
	return los, nil
}

func (repo *AssessmentRepository) GetLearningOutcome(ctx context.Context, id string) (assessment.LearningOutcome, error) {
	var lo assessment.LearningOutcome
	if err := repo.db.GetContext(ctx, &lo, `SELECT * FROM learning_outcome WHERE id = $1`, id); err != nil {
		return assessment.LearningOutcome{}, trapNoRowsErr(err, assessment.ErrNotFound, "getting learning outcome")
	}
	return lo, nil
}

func (repo *AssessmentRepository) DeleteLearningOutcome(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM learning_outcome WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting learning outcome")
	}
	return ensureFound(res, assessment.ErrNotFound)
}

// Outcome scores

func (repo *AssessmentRepository) CreateOutcomeScore(ctx context.Context, score assessment.OutcomeScore) (assessment.OutcomeScore, error) {
	score.ID = uuid.New().String()
	query := `INSERT INTO outcome_score
			  (id, learning_outcome_id, abet_outcome_id, score, evidence_type, level_description, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, query,
		score.ID, score.LearningOutcomeID, score.ABETOutcomeID, score.Score, score.EvidenceType,
		score.LevelDescription, score.CreatedAt, score.UpdatedAt)
	if err != nil {
		return assessment.OutcomeScore{}, errors.Wrap(err, "creating outcome score")
	}
	return score, nil
}

func (repo *AssessmentRepository) QueryOutcomeScores(ctx context.Context, learningOutcomeID string) ([]assessment.OutcomeScore, error) {
	var scores []assessment.OutcomeScore
	query := `SELECT * FROM outcome_score WHERE learning_outcome_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &scores, query, learningOutcomeID); err != nil {
		return nil, errors.Wrap(err, "querying outcome scores")
	}
	return scores, nil
}

func (repo *AssessmentRepository) QueryOutcomeScoresByOutcome(ctx context.Context, abetOutcomeID string) ([]assessment.OutcomeScore, error) {
	var scores []assessment.OutcomeScore
	query := `SELECT * FROM outcome_score WHERE abet_outcome_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &scores, query, abetOutcomeID); err != nil {
		return nil, errors.Wrap(err, "querying outcome scores")
	}
	return scores, nil
}

func (repo *AssessmentRepository) UpdateOutcomeScore(ctx context.Context, score assessment.OutcomeScore) (assessment.OutcomeScore, error) {
	query := `UPDATE outcome_score
			  SET abet_outcome_id = $2, score = $3, evidence_type = $4, level_description = $5, updated_at = $6
			  WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		score.ID, score.ABETOutcomeID, score.Score, score.EvidenceType, score.LevelDescription, score.UpdatedAt)
	if err != nil {
		return assessment.OutcomeScore{}, errors.Wrap(err, "updating outcome score")
	}
	if err := ensureFound(res, assessment.ErrNotFound); err != nil {
		return assessment.OutcomeScore{}, err
	}
	return score, nil
}

func (repo *AssessmentRepository) GetOutcomeScore(ctx context.Context, id string) (assessment.OutcomeScore, error) {
	var score assessment.OutcomeScore
	if err := repo.db.GetContext(ctx, &score, `SELECT * FROM outcome_score WHERE id = $1`, id); err != nil {
		return assessment.OutcomeScore{}, trapNoRowsErr(err, assessment.ErrNotFound, "getting outcome score")
	}
	return score, nil
}

// ABET outcome catalog

func (repo *AssessmentRepository) CreateABETOutcome(ctx context.Context, outcome assessment.ABETOutcome) (assessment.ABETOutcome, error) {
	outcome.ID = uuid.New().String()
	query := `INSERT INTO abet_outcome (id, label, description, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := repo.db.ExecContext(ctx, query, outcome.ID, outcome.Label, outcome.Description, outcome.CreatedAt); err != nil {
		return assessment.ABETOutcome{}, errors.Wrap(err, "creating abet outcome")
	}
	return outcome, nil
}

func (repo *AssessmentRepository) QueryABETOutcomes(ctx context.Context) ([]assessment.ABETOutcome, error) {
	var outcomes []assessment.ABETOutcome
	if err := repo.db.SelectContext(ctx, &outcomes, `SELECT * FROM abet_outcome ORDER BY label`); err != nil {
		return nil, errors.Wrap(err, "querying abet outcomes")
	}
	return outcomes, nil
}

func (repo *AssessmentRepository) GetABETOutcomeByLabel(ctx context.Context, label string) (assessment.ABETOutcome, error) {
	var outcome assessment.ABETOutcome
	if err := repo.db.GetContext(ctx, &outcome, `SELECT * FROM abet_outcome WHERE label = $1`, label); err != nil {
		return assessment.ABETOutcome{}, trapNoRowsErr(err, assessment.ErrNotFound, "getting abet outcome")
	}
	return outcome, nil
}

func (repo *AssessmentRepository) CountABETOutcomes(ctx context.Context) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM abet_outcome`)
}

// Events

func (repo *AssessmentRepository) CreateEvent(ctx context.Context, evt assessment.Event) (assessment.Event, error) {
	evt.ID = uuid.New().String()
	query := `INSERT INTO assessment_event
			  (id, assessment_id, assessment_name, event_type, score, average_score, actor_id, actor_username, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, query,
		evt.ID, evt.AssessmentID, evt.AssessmentName, evt.EventType, evt.Score, evt.AverageScore,
		evt.ActorID, evt.ActorUsername, evt.CreatedAt)
	if err != nil {
		return assessment.Event{}, errors.Wrap(err, "creating assessment event")
	}
	return evt, nil
}

func (repo *AssessmentRepository) QueryRecentEvents(ctx context.Context, limit int) ([]assessment.Event, error) {
	var events []assessment.Event
	query := `SELECT * FROM assessment_event ORDER BY created_at DESC LIMIT $1`
	if err := repo.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, errors.Wrap(err, "querying assessment events")
	}
	return events, nil
}

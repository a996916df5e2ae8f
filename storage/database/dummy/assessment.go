package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/assessment"
)

type assessmentRepository struct {
	db *DB
}

var (
	_ assessment.Repository      = (*assessmentRepository)(nil)
	_ assessment.EventRepository = (*assessmentRepository)(nil)
)

func NewAssessmentRepository(db *DB) *assessmentRepository {
	return &assessmentRepository{db: db}
}

func (repo *assessmentRepository) CreateAssessment(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	a.ID = repo.db.nextID()
	repo.db.assessments[a.ID] = &a
	return a, nil
}

func (repo *assessmentRepository) QueryAssessments(ctx context.Context, ordering ...core.DBOrdering) ([]assessment.Assessment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.assessments))
	for id := range repo.db.assessments {
		keys = append(keys, id)
	}
	assessments := make([]assessment.Assessment, 0, len(keys))
	for _, id := range sorted(keys) {
		assessments = append(assessments, *repo.db.assessments[id])
	}
	return assessments, nil
}

func (repo *assessmentRepository) QueryAssessmentsByCourse(ctx context.Context, courseID string) ([]assessment.Assessment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.assessments))
	for id, a := range repo.db.assessments {
		if a.CourseID == courseID {
			keys = append(keys, id)
		}
	}
	assessments := make([]assessment.Assessment, 0, len(keys))
	for _, id := range sorted(keys) {
		assessments = append(assessments, *repo.db.assessments[id])
	}
	return assessments, nil
}

func (repo *assessmentRepository) GetAssessment(ctx context.Context, id string) (assessment.Assessment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	a, ok := repo.db.assessments[id]
	if !ok {
		return assessment.Assessment{}, assessment.ErrNotFound
	}
	return *a, nil
}

func (repo *assessmentRepository) UpdateAssessment(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.assessments[a.ID]; !ok {
		return assessment.Assessment{}, assessment.ErrNotFound
	}
	repo.db.assessments[a.ID] = &a
	return a, nil
}

func (repo *assessmentRepository) DeleteAssessment(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.assessments[id]; !ok {
		return assessment.ErrNotFound
	}
	delete(repo.db.assessments, id)

	// cascade like the ON DELETE CASCADE constraints do
	loIDs := make(map[string]bool)
	for loID, lo := range repo.db.los {
		if lo.AssessmentID == id {
			loIDs[loID] = true
			delete(repo.db.los, loID)
		}
	}
	for scoreID, score := range repo.db.scores {
		if loIDs[score.LearningOutcomeID] {
			delete(repo.db.scores, scoreID)
		}
	}
	for ciID, ci := range repo.db.cis {
		if ci.AssessmentID == id {
			delete(repo.db.cis, ciID)
		}
	}
	for apID, ap := range repo.db.aps {
		if ap.AssessmentID == id {
			delete(repo.db.aps, apID)
		}
	}
	return nil
}

func (repo *assessmentRepository) CountAssessments(ctx context.Context) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.db.assessments), nil
}

func (repo *assessmentRepository) CreateContinuousImprovement(ctx context.Context, ci assessment.ContinuousImprovement) (assessment.ContinuousImprovement, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	ci.ID = repo.db.nextID()
	repo.db.cis[ci.ID] = &ci
	return ci, nil
}

func (repo *assessmentRepository) QueryContinuousImprovements(ctx context.Context, assessmentID string) ([]assessment.ContinuousImprovement, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.cis))
	for id, ci := range repo.db.cis {
		if ci.AssessmentID == assessmentID {
			keys = append(keys, id)
		}
	}
	cis := make([]assessment.ContinuousImprovement, 0, len(keys))
	for _, id := range sorted(keys) {
		cis = append(cis, *repo.db.cis[id])
	}
	return cis, nil
}

func (repo *assessmentRepository) DeleteContinuousImprovement(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.cis[id]; !ok {
		return assessment.ErrNotFound
	}
	delete(repo.db.cis, id)
	return nil
}

func (repo *assessmentRepository) CreateAcademicPerformance(ctx context.Context, ap assessment.AcademicPerformance) (assessment.AcademicPerformance, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	ap.ID = repo.db.nextID()
	repo.db.aps[ap.ID] = &ap
	return ap, nil
}

func (repo *assessmentRepository) QueryAcademicPerformances(ctx context.Context, assessmentID string) ([]assessment.AcademicPerformance, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.aps))
	for id, ap := range repo.db.aps {
		if ap.AssessmentID == assessmentID {
			keys = append(keys, id)
		}
	}
	aps := make([]assessment.AcademicPerformance, 0, len(keys))
	for _, id := range sorted(keys) {
		aps = append(aps, *repo.db.aps[id])
	}
	return aps, nil
}

func (repo *assessmentRepository) DeleteAcademicPerformance(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.aps[id]; !ok {
		return assessment.ErrNotFound
	}
	delete(repo.db.aps, id)
	return nil
}

func (repo *assessmentRepository) CreateLearningOutcome(ctx context.Context, lo assessment.LearningOutcome) (assessment.LearningOutcome, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	lo.ID = repo.db.nextID()
	repo.db.los[lo.ID] = &lo
	return lo, nil
}

func (repo *assessmentRepository) QueryLearningOutcomes(ctx context.Context, assessmentID string) ([]assessment.LearningOutcome, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.los))
	for id, lo := range repo.db.los {
		if lo.AssessmentID == assessmentID {
			keys = append(keys, id)
		}
	}
	los := make([]assessment.LearningOutcome, 0, len(keys))
	for _, id := range sorted(keys) {
		los = append(los, *repo.db.los[id])
	}
	return los, nil
}

func (repo *assessmentRepository) GetLearningOutcome(ctx context.Context, id string) (assessment.LearningOutcome, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	lo, ok := repo.db.los[id]
	if !ok {
		return assessment.LearningOutcome{}, assessment.ErrNotFound
	}
	return *lo, nil
}

func (repo *assessmentRepository) DeleteLearningOutcome(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.los[id]; !ok {
		return assessment.ErrNotFound
	}
	delete(repo.db.los, id)
	for scoreID, score := range repo.db.scores {
		if score.LearningOutcomeID == id {
			delete(repo.db.scores, scoreID)
		}
	}
	return nil
}

func (repo *assessmentRepository) CreateOutcomeScore(ctx context.Context, score assessment.OutcomeScore) (assessment.OutcomeScore, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	score.ID = repo.db.nextID()
	repo.db.scores[score.ID] = &score
	return score, nil
}

func (repo *assessmentRepository) QueryOutcomeScores(ctx context.Context, learningOutcomeID string) ([]assessment.OutcomeScore, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.scores))
	for id, score := range repo.db.scores {
		if score.LearningOutcomeID == learningOutcomeID {
			keys = append(keys, id)
		}
	}
	scores := make([]assessment.OutcomeScore, 0, len(keys))
	for _, id := range sorted(keys) {
		scores = append(scores, *repo.db.scores[id])
	}
	return scores, nil
}

func (repo *assessmentRepository) QueryOutcomeScoresByOutcome(ctx context.Context, abetOutcomeID string) ([]assessment.OutcomeScore, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.scores))
	for id, score := range repo.db.scores {
		if score.ABETOutcomeID == abetOutcomeID {
			keys = append(keys, id)
		}
	}
	scores := make([]assessment.OutcomeScore, 0, len(keys))
	for _, id := range sorted(keys) {
		scores = append(scores, *repo.db.scores[id])
	}
	return scores, nil
}

func (repo *assessmentRepository) UpdateOutcomeScore(ctx context.Context, score assessment.OutcomeScore) (assessment.OutcomeScore, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.scores[score.ID]; !ok {
		return assessment.OutcomeScore{}, assessment.ErrNotFound
	}
	repo.db.scores[score.ID] = &score
	return score, nil
}

func (repo *assessmentRepository) GetOutcomeScore(ctx context.Context, id string) (assessment.OutcomeScore, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	score, ok := repo.db.scores[id]
	if !ok {
		return assessment.OutcomeScore{}, assessment.ErrNotFound
	}
	return *score, nil
}

func (repo *assessmentRepository) CreateABETOutcome(ctx context.Context, outcome assessment.ABETOutcome) (assessment.ABETOutcome, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	outcome.ID = repo.db.nextID()
	repo.db.abetOutcomes[outcome.ID] = &outcome
	return outcome, nil
}

func (repo *assessmentRepository) QueryABETOutcomes(ctx context.Context) ([]assessment.ABETOutcome, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	outcomes := make([]assessment.ABETOutcome, 0, len(repo.db.abetOutcomes))
	for _, outcome := range repo.db.abetOutcomes {
		outcomes = append(outcomes, *outcome)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Label < outcomes[j].Label })
	return outcomes, nil
}

func (repo *assessmentRepository) GetABETOutcomeByLabel(ctx context.Context, label string) (assessment.ABETOutcome, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, outcome := range repo.db.abetOutcomes {
		if outcome.Label == label {
			return *outcome, nil
		}
	}
	return assessment.ABETOutcome{}, assessment.ErrNotFound
}

func (repo *assessmentRepository) CountABETOutcomes(ctx context.Context) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.db.abetOutcomes), nil
}

func (repo *assessmentRepository) CreateEvent(ctx context.Context, evt assessment.Event) (assessment.Event, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	evt.ID = repo.db.nextID()
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now().UTC()
	}
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *assessmentRepository) QueryRecentEvents(ctx context.Context, limit int) ([]assessment.Event, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	events := make([]assessment.Event, 0, len(repo.db.events))
	for _, evt := range repo.db.events {
		events = append(events, *evt)
	}
	// newest first, falling back to insertion order for equal timestamps
	sort.Slice(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID > events[j].ID
		}
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/catalog"
)

var (
	// ErrNotFound is returned when a requested assessment record does not exist.
	ErrNotFound = errors.New("assessment not found")
)

type Repository interface {
	CreateAssessment(ctx context.Context, a Assessment) (Assessment, error)
	QueryAssessments(ctx context.Context, ordering ...core.DBOrdering) ([]Assessment, error)
	QueryAssessmentsByCourse(ctx context.Context, courseID string) ([]Assessment, error)
	GetAssessment(ctx context.Context, id string) (Assessment, error)
	UpdateAssessment(ctx context.Context, a Assessment) (Assessment, error)
	// DeleteAssessment removes the assessment and all its attached records.
	DeleteAssessment(ctx context.Context, id string) error
	CountAssessments(ctx context.Context) (int, error)

	CreateContinuousImprovement(ctx context.Context, ci ContinuousImprovement) (ContinuousImprovement, error)
	QueryContinuousImprovements(ctx context.Context, assessmentID string) ([]ContinuousImprovement, error)
	DeleteContinuousImprovement(ctx context.Context, id string) error

	CreateAcademicPerformance(ctx context.Context, ap AcademicPerformance) (AcademicPerformance, error)
	QueryAcademicPerformances(ctx context.Context, assessmentID string) ([]AcademicPerformance, error)
	DeleteAcademicPerformance(ctx context.Context, id string) error

	CreateLearningOutcome(ctx context.Context, lo LearningOutcome) (LearningOutcome, error)
	QueryLearningOutcomes(ctx context.Context, assessmentID string) ([]LearningOutcome, error)
	GetLearningOutcome(ctx context.Context, id string) (LearningOutcome, error)
	DeleteLearningOutcome(ctx context.Context, id string) error

	CreateOutcomeScore(ctx context.Context, score OutcomeScore) (OutcomeScore, error)
	QueryOutcomeScores(ctx context.Context, learningOutcomeID string) ([]OutcomeScore, error)
	QueryOutcomeScoresByOutcome(ctx context.Context, abetOutcomeID string) ([]OutcomeScore, error)
	UpdateOutcomeScore(ctx context.Context, score OutcomeScore) (OutcomeScore, error)
	GetOutcomeScore(ctx context.Context, id string) (OutcomeScore, error)

	CreateABETOutcome(ctx context.Context, outcome ABETOutcome) (ABETOutcome, error)
	QueryABETOutcomes(ctx context.Context) ([]ABETOutcome, error)
	GetABETOutcomeByLabel(ctx context.Context, label string) (ABETOutcome, error)
	CountABETOutcomes(ctx context.Context) (int, error)
}

// CatalogReader is the slice of the catalog the engine needs.
// catalog.Repository satisfies it.
type CatalogReader interface {
	GetProgram(ctx context.Context, id string) (catalog.Program, error)
	QueryCourses(ctx context.Context, ordering ...core.DBOrdering) ([]catalog.Course, error)
	QueryCoursesByProgram(ctx context.Context, programID string) ([]catalog.Course, error)
	GetCourse(ctx context.Context, id string) (catalog.Course, error)
	GetFaculty(ctx context.Context, id string) (catalog.Faculty, error)
	CountDepartments(ctx context.Context) (int, error)
	CountPrograms(ctx context.Context) (int, error)
	CountCourses(ctx context.Context) (int, error)
	CountCourseEnrollment(ctx context.Context, courseID string) (int, error)
}

// Service manages assessments and their evidence records. Every successful
// write emits an audit event carrying the scores at the time of the change.
type Service struct {
	repo    Repository
	catalog CatalogReader
	events  EventRepository
	engine  *Engine
	log     core.Logger
}

func NewService(repo Repository, catalog CatalogReader, events EventRepository, engine *Engine, log core.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		events:  events,
		engine:  engine,
		log:     log,
	}
}

// Engine exposes the scoring engine backing this service.
func (svc *Service) Engine() *Engine { return svc.engine }

func (svc *Service) Create(ctx context.Context, actor Actor, na NewAssessment) (Assessment, error) {
	if _, err := svc.catalog.GetCourse(ctx, na.CourseID); err != nil {
		return Assessment{}, err
	}
	now := time.Now().UTC()
	a := Assessment{
		Name:      na.Name,
		Date:      na.Date,
		CourseID:  na.CourseID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	a, err := svc.repo.CreateAssessment(ctx, a)
	if err != nil {
		return Assessment{}, err
	}
	svc.emitEvent(ctx, actor, a.ID, a.Name, EventCreate)
	return a, nil
}

func (svc *Service) Query(ctx context.Context, ordering ...core.DBOrdering) ([]Assessment, error) {
	return svc.repo.QueryAssessments(ctx, ordering...)
}

func (svc *Service) QueryByCourse(ctx context.Context, courseID string) ([]Assessment, error) {
	return svc.repo.QueryAssessmentsByCourse(ctx, courseID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Assessment, error) {
	return svc.repo.GetAssessment(ctx, id)
}

func (svc *Service) Update(ctx context.Context, actor Actor, id string, ua UpdateAssessment) (Assessment, error) {
	a, err := svc.repo.GetAssessment(ctx, id)
	if err != nil {
		return Assessment{}, err
	}
	if ua.Name != "" {
		a.Name = ua.Name
	}
	if !ua.Date.IsZero() {
		a.Date = ua.Date
	}
	a.UpdatedAt = time.Now().UTC()
	a, err = svc.repo.UpdateAssessment(ctx, a)
	if err != nil {
		return Assessment{}, err
	}
	svc.emitEvent(ctx, actor, a.ID, a.Name, EventUpdate)
	return a, nil
}

func (svc *Service) Delete(ctx context.Context, actor Actor, id string) error {
	a, err := svc.repo.GetAssessment(ctx, id)
	if err != nil {
		return err
	}
	if err := svc.repo.DeleteAssessment(ctx, id); err != nil {
		return err
	}
	svc.emitEvent(ctx, actor, a.ID, a.Name, EventDelete)
	return nil
}

func (svc *Service) AddContinuousImprovement(ctx context.Context, actor Actor, assessmentID string, nc NewContinuousImprovement) (ContinuousImprovement, error) {
	a, err := svc.repo.GetAssessment(ctx, assessmentID)
	if err != nil {
		return ContinuousImprovement{}, err
	}
	now := time.Now().UTC()
	if nc.ImplementationDate.IsZero() {
		nc.ImplementationDate = now
	}
	ci := ContinuousImprovement{
		AssessmentID:         assessmentID,
		Score:                nc.Score,
		Weight:               nc.Weight,
		ActionTaken:          nc.ActionTaken,
		EffectivenessMeasure: nc.EffectivenessMeasure,
		ImplementationDate:   nc.ImplementationDate,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	ci, err = svc.repo.CreateContinuousImprovement(ctx, ci)
	if err != nil {
		return ContinuousImprovement{}, err
	}
	svc.emitEvent(ctx, actor, a.ID, a.Name+" - Continuous Improvement", EventCreate)
	return ci, nil
}

func (svc *Service) QueryContinuousImprovements(ctx context.Context, assessmentID string) ([]ContinuousImprovement, error) {
	return svc.repo.QueryContinuousImprovements(ctx, assessmentID)
}

func (svc *Service) AddAcademicPerformance(ctx context.Context, actor Actor, assessmentID string, np NewAcademicPerformance) (AcademicPerformance, error) {
	a, err := svc.repo.GetAssessment(ctx, assessmentID)
	if err != nil {
		return AcademicPerformance{}, err
	}
	now := time.Now().UTC()
	ap := AcademicPerformance{
		AssessmentID:    assessmentID,
		Grade:           np.Grade,
		Weight:          np.Weight,
		PerformanceType: np.PerformanceType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	ap, err = svc.repo.CreateAcademicPerformance(ctx, ap)
	if err != nil {
		return AcademicPerformance{}, err
	}
	svc.emitEvent(ctx, actor, a.ID, a.Name+" - Academic Performance", EventCreate)
	return ap, nil
}

func (svc *Service) QueryAcademicPerformances(ctx context.Context, assessmentID string) ([]AcademicPerformance, error) {
	return svc.repo.QueryAcademicPerformances(ctx, assessmentID)
}

func (svc *Service) AddLearningOutcome(ctx context.Context, actor Actor, assessmentID string, nl NewLearningOutcome) (LearningOutcome, error) {
	a, err := svc.repo.GetAssessment(ctx, assessmentID)
	if err != nil {
		return LearningOutcome{}, err
	}
	now := time.Now().UTC()
	lo := LearningOutcome{
		AssessmentID: assessmentID,
		Description:  nl.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	lo, err = svc.repo.CreateLearningOutcome(ctx, lo)
	if err != nil {
		return LearningOutcome{}, err
	}
	svc.emitEvent(ctx, actor, a.ID, a.Name+" - Learning Outcome", EventCreate)
	return lo, nil
}

func (svc *Service) QueryLearningOutcomes(ctx context.Context, assessmentID string) ([]LearningOutcome, error) {
	return svc.repo.QueryLearningOutcomes(ctx, assessmentID)
}

// AddOutcomeScore attaches a rubric score to a learning outcome. The level
// description is derived from the score here, never taken from the caller.
func (svc *Service) AddOutcomeScore(ctx context.Context, actor Actor, learningOutcomeID string, ns NewOutcomeScore) (OutcomeScore, error) {
	lo, err := svc.repo.GetLearningOutcome(ctx, learningOutcomeID)
	if err != nil {
		return OutcomeScore{}, err
	}
	now := time.Now().UTC()
	score := OutcomeScore{
		LearningOutcomeID: learningOutcomeID,
		ABETOutcomeID:     ns.ABETOutcomeID,
		Score:             ns.Score,
		EvidenceType:      ns.EvidenceType,
		LevelDescription:  LevelDescription(ns.Score),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	score, err = svc.repo.CreateOutcomeScore(ctx, score)
	if err != nil {
		return OutcomeScore{}, err
	}
	if a, err := svc.repo.GetAssessment(ctx, lo.AssessmentID); err == nil {
		svc.emitEvent(ctx, actor, a.ID, a.Name+" - Outcome Score", EventCreate)
	}
	return score, nil
}

func (svc *Service) QueryOutcomeScores(ctx context.Context, learningOutcomeID string) ([]OutcomeScore, error) {
	return svc.repo.QueryOutcomeScores(ctx, learningOutcomeID)
}

// UpdateOutcomeScore re-scores an existing rubric entry, re-deriving its level description.
func (svc *Service) UpdateOutcomeScore(ctx context.Context, actor Actor, id string, ns NewOutcomeScore) (OutcomeScore, error) {
	score, err := svc.repo.GetOutcomeScore(ctx, id)
	if err != nil {
		return OutcomeScore{}, err
	}
	score.ABETOutcomeID = ns.ABETOutcomeID
	score.Score = ns.Score
	score.EvidenceType = ns.EvidenceType
	score.LevelDescription = LevelDescription(ns.Score)
	score.UpdatedAt = time.Now().UTC()
	score, err = svc.repo.UpdateOutcomeScore(ctx, score)
	if err != nil {
		return OutcomeScore{}, err
	}
	if lo, err := svc.repo.GetLearningOutcome(ctx, score.LearningOutcomeID); err == nil {
		if a, err := svc.repo.GetAssessment(ctx, lo.AssessmentID); err == nil {
			svc.emitEvent(ctx, actor, a.ID, a.Name+" - Outcome Score", EventUpdate)
		}
	}
	return score, nil
}

func (svc *Service) CreateABETOutcome(ctx context.Context, no NewABETOutcome) (ABETOutcome, error) {
	outcome := ABETOutcome{
		Label:       no.Label,
		Description: no.Description,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateABETOutcome(ctx, outcome)
}

func (svc *Service) QueryABETOutcomes(ctx context.Context) ([]ABETOutcome, error) {
	return svc.repo.QueryABETOutcomes(ctx)
}

func (svc *Service) GetABETOutcomeByLabel(ctx context.Context, label string) (ABETOutcome, error) {
	return svc.repo.GetABETOutcomeByLabel(ctx, label)
}

func (svc *Service) QueryRecentEvents(ctx context.Context, limit int) ([]Event, error) {
	return svc.events.QueryRecentEvents(ctx, limit)
}

// emitEvent records an audit event for a successful write. It is a side
// effect: failures are logged and swallowed, never propagated to the caller.
func (svc *Service) emitEvent(ctx context.Context, actor Actor, assessmentID, name, eventType string) {
	if svc.events == nil {
		return
	}
	evt := Event{
		AssessmentID:   assessmentID,
		AssessmentName: name,
		EventType:      eventType,
		Score:          svc.engine.CalculateScore(ctx, assessmentID).CompositeScore,
		AverageScore:   svc.engine.AverageScore(ctx),
		ActorID:        actor.ID,
		ActorUsername:  actor.Username,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := svc.events.CreateEvent(ctx, evt); err != nil {
		svc.log.Warn(fmt.Sprintf("recording %s event for assessment %s", eventType, assessmentID), err)
	}
}

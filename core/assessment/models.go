package assessment

import (
	"time"

	"github.com/accredhub/abet/core"
)

// Evidence types for outcome scores
const (
	EvidenceDirect   = "direct"
	EvidenceIndirect = "indirect"
)

// rubricMax is the top of the 1..4 outcome rubric.
const rubricMax = 4.0

// levelDescriptions maps a rubric score to its ABET wording.
var levelDescriptions = map[int]string{
	4: "Exceeds Expectations",
	3: "Meets Expectations",
	2: "Approaching Expectations",
	1: "Does Not Meet Expectations",
}

const levelUnspecified = "Unspecified"

// LevelDescription returns the ABET wording for a rubric score.
func LevelDescription(score int) string {
	if desc, ok := levelDescriptions[score]; ok {
		return desc
	}
	return levelUnspecified
}

type (
	// Assessment is a graded evaluation performed in a course. Its score is
	// derived from the evidence records attached to it, never stored.
	Assessment struct {
		ID        string    `db:"id" json:"id"`
		Name      string    `db:"name" json:"name"`
		Date      time.Time `db:"date" json:"date"`
		CourseID  string    `db:"course_id" json:"course_id"`
		CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
		UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // UTC
	}

	// ContinuousImprovement records a remedial action taken after an
	// assessment and how effective it was (0..100), with a relative weight.
	ContinuousImprovement struct {
		ID                   string    `db:"id" json:"id"`
		AssessmentID         string    `db:"assessment_id" json:"assessment_id"`
		Score                float64   `db:"score" json:"score"`
		Weight               int       `db:"weight" json:"weight"`
		ActionTaken          string    `db:"action_taken" json:"action_taken"`
		EffectivenessMeasure string    `db:"effectiveness_measure" json:"effectiveness_measure,omitempty"`
		ImplementationDate   time.Time `db:"implementation_date" json:"implementation_date"`
		CreatedAt            time.Time `db:"created_at" json:"created_at"`
		UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
	}

	// AcademicPerformance records a student performance measure (0..100 grade)
	// for an assessment, with a relative weight.
	AcademicPerformance struct {
		ID              string    `db:"id" json:"id"`
		AssessmentID    string    `db:"assessment_id" json:"assessment_id"`
		Grade           int       `db:"grade" json:"grade"`
		Weight          int       `db:"weight" json:"weight"`
		PerformanceType string    `db:"performance_type" json:"performance_type,omitempty"`
		CreatedAt       time.Time `db:"created_at" json:"created_at"`
		UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
	}

	// LearningOutcome is a statement of what students should demonstrate
	// in an assessment. Rubric scores hang off of it.
	LearningOutcome struct {
		ID           string    `db:"id" json:"id"`
		AssessmentID string    `db:"assessment_id" json:"assessment_id"`
		Description  string    `db:"description" json:"description"`
		CreatedAt    time.Time `db:"created_at" json:"created_at"`
		UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	}

	// OutcomeScore maps a learning outcome to an ABET student outcome with a
	// 1..4 rubric score. LevelDescription is derived from the score on every
	// write; it is never accepted from callers.
	OutcomeScore struct {
		ID                string    `db:"id" json:"id"`
		LearningOutcomeID string    `db:"learning_outcome_id" json:"learning_outcome_id"`
		ABETOutcomeID     string    `db:"abet_outcome_id" json:"abet_outcome_id"`
		Score             int       `db:"score" json:"score"`
		EvidenceType      string    `db:"evidence_type" json:"evidence_type"`
		LevelDescription  string    `db:"level_description" json:"level_description"`
		CreatedAt         time.Time `db:"created_at" json:"created_at"`
		UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
	}

	// ABETOutcome is a student outcome from the accreditation catalog (SO1..SO7).
	ABETOutcome struct {
		ID          string    `db:"id" json:"id"`
		Label       string    `db:"label" json:"label"`
		Description string    `db:"description" json:"description"`
		CreatedAt   time.Time `db:"created_at" json:"created_at"`
	}
)

type NewAssessment struct {
	Name     string    `json:"name" validate:"required"`
	Date     time.Time `json:"date" validate:"required"`
	CourseID string    `json:"course_id" validate:"required"`
}

func (na *NewAssessment) Validate() error {
	na.Name = core.CleanString(na.Name)
	na.CourseID = core.CleanString(na.CourseID)
	return core.Validate.Struct(na)
}

type UpdateAssessment struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

func (ua *UpdateAssessment) Validate() error {
	ua.Name = core.CleanString(ua.Name)
	return core.Validate.Struct(ua)
}

type NewContinuousImprovement struct {
	Score                float64   `json:"score" validate:"min=0,max=100"`
	Weight               int       `json:"weight" validate:"min=0"`
	ActionTaken          string    `json:"action_taken" validate:"required"`
	EffectivenessMeasure string    `json:"effectiveness_measure"`
	ImplementationDate   time.Time `json:"implementation_date"`
}

func (nc *NewContinuousImprovement) Validate() error {
	nc.ActionTaken = core.CleanString(nc.ActionTaken)
	nc.EffectivenessMeasure = core.CleanString(nc.EffectivenessMeasure)
	return core.Validate.Struct(nc)
}

type NewAcademicPerformance struct {
	Grade           int    `json:"grade" validate:"min=0,max=100"`
	Weight          int    `json:"weight" validate:"min=0"`
	PerformanceType string `json:"performance_type"`
}

func (np *NewAcademicPerformance) Validate() error {
	np.PerformanceType = core.CleanString(np.PerformanceType)
	return core.Validate.Struct(np)
}

type NewLearningOutcome struct {
	Description string `json:"description" validate:"required"`
}

func (nl *NewLearningOutcome) Validate() error {
	nl.Description = core.CleanString(nl.Description)
	return core.Validate.Struct(nl)
}

type NewOutcomeScore struct {
	ABETOutcomeID string `json:"abet_outcome_id" validate:"required"`
	Score         int    `json:"score" validate:"required,min=1,max=4"`
	EvidenceType  string `json:"evidence_type" validate:"required,oneof=direct indirect"`
}

func (ns *NewOutcomeScore) Validate() error {
	ns.ABETOutcomeID = core.CleanString(ns.ABETOutcomeID)
	ns.EvidenceType = core.CleanString(ns.EvidenceType, true)
	return core.Validate.Struct(ns)
}

type NewABETOutcome struct {
	Label       string `json:"label" validate:"required,alphanum_"`
	Description string `json:"description" validate:"required"`
}

func (no *NewABETOutcome) Validate() error {
	no.Label = core.CleanString(no.Label)
	no.Description = core.CleanString(no.Description)
	return core.Validate.Struct(no)
}

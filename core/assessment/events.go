package assessment

import (
	"context"
	"time"
)

// Event types
const (
	EventCreate = "CREATE"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Actor identifies who performed a mutating operation. Callers pass it
// explicitly; the assessment layer keeps no ambient user state.
type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Event is an audit record of an assessment write, capturing the
// assessment's score and the overall average at the time of the change.
type Event struct {
	ID             string    `db:"id" json:"id"`
	AssessmentID   string    `db:"assessment_id" json:"assessment_id"`
	AssessmentName string    `db:"assessment_name" json:"assessment_name"`
	EventType      string    `db:"event_type" json:"event_type"`
	Score          float64   `db:"score" json:"score"`
	AverageScore   float64   `db:"average_score" json:"average_score_at_time"`
	ActorID        string    `db:"actor_id" json:"actor_id,omitempty"`
	ActorUsername  string    `db:"actor_username" json:"actor_username,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type EventRepository interface {
	CreateEvent(ctx context.Context, evt Event) (Event, error)
	QueryRecentEvents(ctx context.Context, limit int) ([]Event, error)
}

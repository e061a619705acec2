package session

import (
	"time"

	"github.com/conorfennell/mapdrill/internal/domain"
)

// CardStore is the durable home of scheduling records, one per item.
type CardStore interface {
	Get(itemID string) (*domain.Card, error) // nil, nil when absent
	Put(card domain.Card) error
	QueryDue(now time.Time) ([]domain.Card, error)
	All() ([]domain.Card, error)
}

// EventStore appends learning events to the local audit log.
type EventStore interface {
	AppendEvent(ev domain.LearningEvent) error
}

// TelemetrySink forwards learning events to a remote collector. Delivery is
// best effort: failures are logged by the controller and never surface to the
// grading flow.
type TelemetrySink interface {
	Log(ev domain.LearningEvent) error
}

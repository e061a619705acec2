package legacy

import (
	"time"

	"github.com/conorfennell/mapdrill/internal/domain"
)

// IntervalStrategy adapts the doubling/halving model to the grading interface
// the session controller expects, so it can stand in for the forgetting-curve
// model without touching the overlay or selection logic. Interval state is
// keyed by item id and lives for the strategy's lifetime.
type IntervalStrategy struct {
	items map[string]*ItemState
}

// NewIntervalStrategy returns an adapter with no history.
func NewIntervalStrategy() *IntervalStrategy {
	return &IntervalStrategy{items: make(map[string]*ItemState)}
}

// NextState treats any grade above Again as a correct answer and reschedules
// the card on the doubling/halving curve.
func (s *IntervalStrategy) NextState(card domain.Card, grade domain.Grade, now time.Time) domain.Card {
	it, ok := s.items[card.ItemID]
	if !ok {
		it = &ItemState{ItemID: card.ItemID, Interval: initialInterval}
		s.items[card.ItemID] = it
	}

	correct := grade != domain.GradeAgain
	it.Repetitions = append(it.Repetitions, Repetition{Correct: correct, Date: now})
	it.reschedule(now)

	card.Due = it.DueAt
	card.LastReview = now
	card.Reps++
	if correct {
		card.State = domain.StateReview
	} else {
		card.Lapses++
		card.State = domain.StateRelearning
	}
	return card
}

package scheduler

import (
	"time"

	"github.com/conorfennell/mapdrill/internal/domain"
)

// Strategy is the injected memory model. Given a card and a grade it computes
// the card's next due date and updated memory state. Implementations must not
// read or mutate the overlay fields (WinStreak, FailStreak, Level); those are
// merged back by Grade.
type Strategy interface {
	NextState(card domain.Card, grade domain.Grade, now time.Time) domain.Card
}

// LevelUpInterval is how soon a just-leveled card reappears. A level-up
// overrides the memory model's long-horizon schedule so the item gets one
// quick reinforcement round.
const LevelUpInterval = 30 * time.Second

// Grade runs one full grading turn: the leveling overlay first, then the
// memory model, then the merge. All memory-model fields are taken verbatim
// from the strategy's output except Due, which is overridden when the overlay
// reports a level-up this turn.
func Grade(s Strategy, card domain.Card, grade domain.Grade, now time.Time) (domain.Card, bool) {
	levelUp := applyOverlay(&card, grade)

	next := s.NextState(card, grade, now)
	next.WinStreak = card.WinStreak
	next.FailStreak = card.FailStreak
	next.Level = card.Level

	if levelUp {
		next.Due = now.Add(LevelUpInterval)
	}
	return next, levelUp
}

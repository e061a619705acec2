package scheduler

import (
	"time"

	gofsrs "github.com/open-spaced-repetition/go-fsrs/v3"

	"github.com/conorfennell/mapdrill/internal/domain"
)

// FSRS adapts the go-fsrs forgetting-curve scheduler to the Strategy
// contract. The library is treated as a black box: the adapter only converts
// between the domain card and the library's card and never touches overlay
// fields.
type FSRS struct {
	f *gofsrs.FSRS
}

// NewFSRS returns an FSRS strategy with the library's default parameters.
func NewFSRS() *FSRS {
	return &FSRS{f: gofsrs.NewFSRS(gofsrs.DefaultParam())}
}

// NextState implements Strategy.
func (s *FSRS) NextState(card domain.Card, grade domain.Grade, now time.Time) domain.Card {
	scheduled := s.f.Repeat(toLibrary(card), now)[gofsrs.Rating(grade)].Card
	return fromLibrary(card, scheduled)
}

func toLibrary(card domain.Card) gofsrs.Card {
	return gofsrs.Card{
		Due:           card.Due,
		Stability:     card.Stability,
		Difficulty:    card.Difficulty,
		ElapsedDays:   card.ElapsedDays,
		ScheduledDays: card.ScheduledDays,
		Reps:          card.Reps,
		Lapses:        card.Lapses,
		State:         gofsrs.State(card.State),
		LastReview:    card.LastReview,
	}
}

// fromLibrary copies the library's memory state onto a copy of the original
// card, preserving the item id and overlay fields.
func fromLibrary(orig domain.Card, lib gofsrs.Card) domain.Card {
	next := orig
	next.Due = lib.Due
	next.Stability = lib.Stability
	next.Difficulty = lib.Difficulty
	next.ElapsedDays = lib.ElapsedDays
	next.ScheduledDays = lib.ScheduledDays
	next.Reps = lib.Reps
	next.Lapses = lib.Lapses
	next.State = domain.State(lib.State)
	next.LastReview = lib.LastReview
	return next
}

package domain

import "time"

// Card is the per-item scheduling record: the memory model's state plus the
// leveling overlay's streak counters. Exactly one Card exists per item.
type Card struct {
	ItemID string

	// Memory-model state. Owned by the scheduling strategy; callers only
	// rely on Due ordering.
	Due           time.Time
	Stability     float64
	Difficulty    float64
	ElapsedDays   uint64
	ScheduledDays uint64
	Reps          uint64
	Lapses        uint64
	State         State
	LastReview    time.Time

	// Leveling overlay state. WinStreak and FailStreak are mutually
	// exclusive: at most one of them is non-zero at any time.
	WinStreak  int
	FailStreak int
	Level      int
}

// NewCard creates the initial record for an item that has never been shown:
// state New, level 0, both streaks 0, due immediately.
func NewCard(itemID string, now time.Time) Card {
	return Card{
		ItemID: itemID,
		Due:    now,
		State:  StateNew,
	}
}

// IsDue reports whether the card's scheduled review time has passed.
func (c Card) IsDue(now time.Time) bool {
	return !c.Due.After(now)
}

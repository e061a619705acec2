package challenge

import (
	"fmt"
	"time"

	"github.com/conorfennell/mapdrill/internal/domain"
)

// Store persists challenge runs and the per-date completion flag. The flag is
// stored independently of the run record.
type Store interface {
	GetRun(date string) (*domain.DailyChallengeRun, error)
	PutRun(run domain.DailyChallengeRun) error
	Completed(date string) (bool, error)
	MarkCompleted(date string) error
}

// Manager creates and scores daily runs against a Store.
type Manager struct {
	store   Store
	catalog []string
	now     func() time.Time
}

// NewManager returns a manager for the given catalog. A nil now falls back to
// time.Now.
func NewManager(store Store, catalog []string, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{store: store, catalog: catalog, now: now}
}

// Run is one in-progress daily challenge.
type Run struct {
	m      *Manager
	record domain.DailyChallengeRun
	index  int
	done   bool
}

// StartRun begins today's challenge. It fails with ErrAlreadyCompleted when
// the date's challenge was already finished; the stored results stay
// untouched in that case. Slots come from a previously materialized run when
// one exists, otherwise they are derived fresh — both paths yield the same
// sequence for the same date.
func (m *Manager) StartRun() (*Run, error) {
	date := DateUTC(m.now())

	completed, err := m.store.Completed(date)
	if err != nil {
		return nil, fmt.Errorf("challenge: checking completion for %s: %w", date, err)
	}
	if completed {
		return nil, ErrAlreadyCompleted
	}

	stored, err := m.store.GetRun(date)
	if err != nil {
		return nil, fmt.Errorf("challenge: loading run for %s: %w", date, err)
	}

	record := domain.DailyChallengeRun{Date: date}
	if stored != nil && len(stored.Slots) == SlotCount {
		record.Slots = stored.Slots
	} else {
		slots, err := Slots(date, m.catalog)
		if err != nil {
			return nil, err
		}
		record.Slots = slots
	}
	return &Run{m: m, record: record}, nil
}

// Current returns the slot awaiting an answer.
func (r *Run) Current() domain.ChallengeSlot {
	return r.record.Slots[r.index]
}

// Index returns how many slots have been answered so far.
func (r *Run) Index() int {
	return r.index
}

// TotalScore returns the points accumulated so far.
func (r *Run) TotalScore() int {
	return r.record.TotalScore
}

// TotalTimeMs returns the answer time accumulated so far.
func (r *Run) TotalTimeMs() int64 {
	return r.record.TotalTimeMs
}

// RecordResult scores the current slot and advances. An incorrect answer
// scores zero regardless of time. Recording the tenth result persists the run
// and the completion flag; done reports whether that happened.
func (r *Run) RecordResult(correct bool, elapsedMs int64) (done bool, err error) {
	if r.done {
		return true, nil
	}

	slot := r.record.Slots[r.index]
	score := 0
	if correct {
		score = Score(elapsedMs)
	}
	r.record.Results = append(r.record.Results, domain.ChallengeResult{
		ItemID:          slot.ItemID,
		Correct:         correct,
		ElapsedMs:       elapsedMs,
		DifficultyLevel: slot.DifficultyLevel,
	})
	r.record.TotalScore += score
	r.record.TotalTimeMs += elapsedMs

	if r.index < SlotCount-1 {
		r.index++
		return false, nil
	}

	if err := r.m.store.PutRun(r.record); err != nil {
		return false, fmt.Errorf("challenge: saving run for %s: %w", r.record.Date, err)
	}
	if err := r.m.store.MarkCompleted(r.record.Date); err != nil {
		return false, fmt.Errorf("challenge: marking %s completed: %w", r.record.Date, err)
	}
	r.done = true
	return true, nil
}

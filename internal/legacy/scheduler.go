// Package legacy implements the original interval-doubling scheduler and its
// confusion/nemesis analytics. It predates the forgetting-curve model and is
// kept as an alternative strategy with a deliberately different selection
// bias.
package legacy

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	initialInterval  = 10  // seconds
	firstRepInterval = 120 // forced after an item's very first repetition
	minInterval      = 10
	maxInterval      = 100 // clamp applies on the incorrect branch only
	duePreference    = 0.8 // chance to restrict the pick to due-and-seen items
	sessionWarmup    = 10  // answers before the nemesis exclusion lifts
	nemesisThreshold = 2   // consecutive failures that exclude an item at session start
)

var (
	// ErrDone is returned by Pick when no item is due and none is new.
	ErrDone = errors.New("legacy: nothing due right now")
	// ErrUnknownItem is returned by Record for items outside the catalog.
	ErrUnknownItem = errors.New("legacy: unknown item")
)

// Repetition is one recorded answer for an item.
type Repetition struct {
	Correct      bool
	Date         time.Time
	MixedUpWith  string  // the item actually clicked, empty when correct
	ThinkingTime float64 // seconds, capped by the caller
}

// ItemState holds the scheduling state of one item.
type ItemState struct {
	ItemID      string
	Interval    float64 // seconds
	DueAt       time.Time
	Seen        bool // false until the first answer
	Repetitions []Repetition
}

// streak returns the length of the unbroken run of correct answers at the end
// of the repetition history.
func (it *ItemState) streak() int {
	n := 0
	for i := len(it.Repetitions) - 1; i >= 0; i-- {
		if !it.Repetitions[i].Correct {
			break
		}
		n++
	}
	return n
}

// reschedule recomputes the interval and due date from the repetition just
// appended to the history.
func (it *ItemState) reschedule(now time.Time) {
	if it.Repetitions[len(it.Repetitions)-1].Correct {
		it.Interval *= math.Pow(2, float64(it.streak()))
		// A brand-new item jumps straight to two minutes.
		if len(it.Repetitions) == 1 {
			it.Interval = firstRepInterval
		}
	} else {
		it.Interval /= 2
		if it.Interval < minInterval {
			it.Interval = minInterval
		}
		if it.Interval > maxInterval {
			it.Interval = maxInterval
		}
	}
	it.DueAt = now.Add(time.Duration(it.Interval * float64(time.Second)))
	it.Seen = true
}

// Scheduler tracks interval state for a fixed catalog of items.
type Scheduler struct {
	items        map[string]*ItemState
	order        []string // catalog order, for deterministic iteration
	stats        *Stats
	rng          *rand.Rand
	unitsSession int
}

// New creates a scheduler for the given catalog. A nil rng gets a time-seeded
// source.
func New(catalog []string, rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Scheduler{
		items: make(map[string]*ItemState, len(catalog)),
		order: append([]string(nil), catalog...),
		stats: NewStats(),
		rng:   rng,
	}
	for _, item := range catalog {
		s.items[item] = &ItemState{ItemID: item, Interval: initialInterval}
	}
	return s
}

// Stats exposes the accumulated analytics.
func (s *Scheduler) Stats() *Stats {
	return s.stats
}

// Item returns the state for an item, or nil when it is not in the catalog.
func (s *Scheduler) Item(itemID string) *ItemState {
	return s.items[itemID]
}

// Record registers one answer: target is the prompted item, clicked what the
// learner actually picked. It reschedules the target and updates the
// analytics.
func (s *Scheduler) Record(target, clicked string, thinkingTime float64, now time.Time) error {
	it, ok := s.items[target]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, target)
	}
	correct := target == clicked
	s.unitsSession++

	rep := Repetition{Correct: correct, Date: now, ThinkingTime: thinkingTime}
	if !correct {
		rep.MixedUpWith = clicked
	}
	it.Repetitions = append(it.Repetitions, rep)
	it.reschedule(now)

	s.stats.recordAnswer(target, correct)
	if !correct {
		s.stats.recordConfusion(target, clicked)
	}
	return nil
}

// Pick selects the next item. With 80% probability the candidate pool is
// first restricted to due-and-previously-seen items; never-seen items come
// next, then due items again if both pools were empty. During the first ten
// answers of a session, items with a consecutive-failure count of two or more
// are excluded so the session does not open on the hardest material.
func (s *Scheduler) Pick(now time.Time) (string, error) {
	pool := s.order
	if s.unitsSession < sessionWarmup {
		filtered := make([]string, 0, len(pool))
		for _, item := range pool {
			if s.stats.consecutiveFailures[item] < nemesisThreshold {
				filtered = append(filtered, item)
			}
		}
		pool = filtered
	}

	var candidates []string
	if s.rng.Float64() < duePreference {
		candidates = s.dueItems(pool, now)
	}
	if len(candidates) == 0 {
		for _, item := range pool {
			if !s.items[item].Seen {
				candidates = append(candidates, item)
			}
		}
	}
	if len(candidates) == 0 {
		candidates = s.dueItems(pool, now)
	}
	if len(candidates) == 0 {
		return "", ErrDone
	}
	return candidates[s.rng.Intn(len(candidates))], nil
}

func (s *Scheduler) dueItems(pool []string, now time.Time) []string {
	var due []string
	for _, item := range pool {
		it := s.items[item]
		if it.Seen && it.DueAt.Before(now) {
			due = append(due, item)
		}
	}
	return due
}

// ResetSession restarts the session-start warmup counter, e.g. when the
// learner comes back after a break.
func (s *Scheduler) ResetSession() {
	s.unitsSession = 0
}

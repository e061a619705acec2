// Package challenge implements the deterministic daily challenge: a
// date-seeded sequence of ten prompts with a time-based score and
// at-most-once-per-day completion.
package challenge

import (
	"errors"
	"math"
	"time"

	"github.com/conorfennell/mapdrill/internal/domain"
)

// SlotCount is the fixed number of prompts per daily run.
const SlotCount = 10

const (
	minDifficulty  = 100 // world view
	difficultySpan = 75  // exclusive upper bound is minDifficulty+difficultySpan
)

// ErrAlreadyCompleted is returned when starting a run for a date whose
// challenge has already been finished. Callers must not retry automatically.
var ErrAlreadyCompleted = errors.New("challenge: already completed today")

// ErrNoItems is returned when the catalog is empty.
var ErrNoItems = errors.New("challenge: no items available")

// DateUTC formats the UTC calendar date the way seeds and store keys expect.
func DateUTC(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// Seed derives the daily seed: the sum of the character codes of the UTC date
// string. Stable for a date, different across dates.
func Seed(date string) int {
	sum := 0
	for _, r := range date {
		sum += int(r)
	}
	return sum
}

// seededRandom maps an integer seed to a pseudo-random float in [0,1). The
// sin-based construction is intentionally simple; it only has to be
// deterministic and evenly spread, not cryptographic.
func seededRandom(seed int) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}

// Slots derives the ten (item, difficulty) pairs for a date. The same date
// and catalog always produce the same slots, so a run can be re-derived
// without storage until it is first materialized.
func Slots(date string, catalog []string) ([]domain.ChallengeSlot, error) {
	if len(catalog) == 0 {
		return nil, ErrNoItems
	}
	seed := Seed(date)
	slots := make([]domain.ChallengeSlot, 0, SlotCount)
	for i := 0; i < SlotCount; i++ {
		idx := int(seededRandom(seed+i) * float64(len(catalog)))
		difficulty := int(seededRandom(seed+i+1000)*difficultySpan) + minDifficulty
		slots = append(slots, domain.ChallengeSlot{
			ItemID:          catalog[idx],
			DifficultyLevel: difficulty,
		})
	}
	return slots, nil
}

// Score converts the time to answer into points: 1000 for an instant answer,
// 50 from five seconds up, logarithmic in between.
func Score(elapsedMs int64) int {
	const (
		minScore = 50
		maxScore = 1000
		maxTime  = 5000
	)
	if elapsedMs == 0 {
		return maxScore
	}
	if elapsedMs >= maxTime {
		return minScore
	}
	normalized := float64(elapsedMs) / maxTime
	score := maxScore - (maxScore-minScore)*math.Log10(1+9*normalized)
	return int(math.Round(score))
}

package scheduler

import "github.com/conorfennell/mapdrill/internal/domain"

// RequiredWinStreak returns how many consecutive first-try wins advance a card
// past the given level. Early levels move fast, later levels need proof.
func RequiredWinStreak(level int) int {
	switch {
	case level <= 2:
		return 1
	case level <= 5:
		return 2
	default:
		return 3
	}
}

// failStreakLimit is the number of consecutive misses that costs a level.
const failStreakLimit = 3

// applyOverlay mutates the card's streak counters and level for one graded
// answer and reports whether a level-up happened. Thresholds are evaluated
// against the pre-transition level.
//
// GradeGood means correct on the first try, GradeHard correct on a later try,
// GradeAgain incorrect with attempts exhausted.
func applyOverlay(card *domain.Card, grade domain.Grade) bool {
	switch grade {
	case domain.GradeGood, domain.GradeEasy:
		card.WinStreak++
		card.FailStreak = 0
		if card.WinStreak == RequiredWinStreak(card.Level) {
			card.Level++
			card.WinStreak = 0
			return true
		}
	case domain.GradeHard:
		// A win that needed a retry breaks the win streak but is still
		// counted against the card.
		card.WinStreak = 0
		card.FailStreak++
	default:
		card.WinStreak = 0
		card.FailStreak++
		if card.FailStreak == failStreakLimit {
			if card.Level > 0 {
				card.Level--
			}
			card.FailStreak = 0
		}
	}
	return false
}

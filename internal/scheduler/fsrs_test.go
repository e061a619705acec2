package scheduler

import (
	"testing"
	"time"

	"github.com/conorfennell/mapdrill/internal/domain"
)

func TestFSRSNextState(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewFSRS()

	t.Run("first review moves the card out of New", func(t *testing.T) {
		card := domain.NewCard("Chad", now)
		next := s.NextState(card, domain.GradeGood, now)
		if next.State == domain.StateNew {
			t.Error("card should have left the New state")
		}
		if next.Reps != 1 {
			t.Errorf("reps = %d, want 1", next.Reps)
		}
		if !next.Due.After(now) {
			t.Errorf("due = %v, want after %v", next.Due, now)
		}
		if !next.LastReview.Equal(now) {
			t.Errorf("lastReview = %v, want %v", next.LastReview, now)
		}
	})

	t.Run("again schedules sooner than good", func(t *testing.T) {
		card := domain.NewCard("Chad", now)
		card = s.NextState(card, domain.GradeGood, now)

		later := card.Due.Add(time.Hour)
		again := s.NextState(card, domain.GradeAgain, later)
		good := s.NextState(card, domain.GradeGood, later)
		if !again.Due.Before(good.Due) {
			t.Errorf("again due %v should be before good due %v", again.Due, good.Due)
		}
	})

	t.Run("overlay fields pass through untouched", func(t *testing.T) {
		card := domain.NewCard("Chad", now)
		card.WinStreak = 2
		card.Level = 7
		next := s.NextState(card, domain.GradeGood, now)
		if next.WinStreak != 2 || next.FailStreak != 0 || next.Level != 7 {
			t.Errorf("overlay fields changed: win=%d fail=%d level=%d", next.WinStreak, next.FailStreak, next.Level)
		}
		if next.ItemID != "Chad" {
			t.Errorf("itemID = %q, want Chad", next.ItemID)
		}
	})
}

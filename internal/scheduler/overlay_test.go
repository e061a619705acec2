package scheduler

import (
	"testing"

	"github.com/conorfennell/mapdrill/internal/domain"
)

func TestRequiredWinStreak(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{0, 1}, {1, 1}, {2, 1},
		{3, 2}, {4, 2}, {5, 2},
		{6, 3}, {7, 3}, {42, 3},
	}
	for _, c := range cases {
		if got := RequiredWinStreak(c.level); got != c.want {
			t.Errorf("RequiredWinStreak(%d) = %d, want %d", c.level, got, c.want)
		}
	}
}

func TestApplyOverlay(t *testing.T) {
	t.Run("first win at level 0 levels up immediately", func(t *testing.T) {
		card := domain.Card{Level: 0}
		levelUp := applyOverlay(&card, domain.GradeGood)
		if !levelUp {
			t.Fatal("expected a level-up")
		}
		if card.Level != 1 || card.WinStreak != 0 || card.FailStreak != 0 {
			t.Errorf("got level=%d winStreak=%d failStreak=%d, want 1/0/0", card.Level, card.WinStreak, card.FailStreak)
		}
	})

	t.Run("level 3 needs two wins", func(t *testing.T) {
		card := domain.Card{Level: 3}
		if applyOverlay(&card, domain.GradeGood) {
			t.Fatal("first win should not level up at level 3")
		}
		if card.WinStreak != 1 {
			t.Fatalf("winStreak = %d, want 1", card.WinStreak)
		}
		if !applyOverlay(&card, domain.GradeGood) {
			t.Fatal("second win should level up at level 3")
		}
		if card.Level != 4 || card.WinStreak != 0 {
			t.Errorf("got level=%d winStreak=%d, want 4/0", card.Level, card.WinStreak)
		}
	})

	t.Run("hard answer breaks the win streak", func(t *testing.T) {
		card := domain.Card{Level: 3, WinStreak: 1}
		if applyOverlay(&card, domain.GradeHard) {
			t.Fatal("hard answer must never level up")
		}
		if card.WinStreak != 0 || card.FailStreak != 1 {
			t.Errorf("got winStreak=%d failStreak=%d, want 0/1", card.WinStreak, card.FailStreak)
		}
	})

	t.Run("third consecutive miss costs a level", func(t *testing.T) {
		card := domain.Card{Level: 5, FailStreak: 2}
		applyOverlay(&card, domain.GradeAgain)
		if card.Level != 4 || card.FailStreak != 0 {
			t.Errorf("got level=%d failStreak=%d, want 4/0", card.Level, card.FailStreak)
		}
	})

	t.Run("one or two misses leave the level alone", func(t *testing.T) {
		card := domain.Card{Level: 5}
		applyOverlay(&card, domain.GradeAgain)
		applyOverlay(&card, domain.GradeAgain)
		if card.Level != 5 {
			t.Errorf("level = %d, want 5", card.Level)
		}
		if card.FailStreak != 2 {
			t.Errorf("failStreak = %d, want 2", card.FailStreak)
		}
	})

	t.Run("level never drops below zero", func(t *testing.T) {
		card := domain.Card{Level: 0, FailStreak: 2}
		applyOverlay(&card, domain.GradeAgain)
		if card.Level != 0 {
			t.Errorf("level = %d, want 0", card.Level)
		}
		if card.FailStreak != 0 {
			t.Errorf("failStreak = %d, want 0 after the limit", card.FailStreak)
		}
	})

	t.Run("streak counters stay mutually exclusive", func(t *testing.T) {
		card := domain.Card{Level: 6}
		grades := []domain.Grade{
			domain.GradeGood, domain.GradeAgain, domain.GradeGood,
			domain.GradeHard, domain.GradeGood, domain.GradeGood,
		}
		for _, g := range grades {
			applyOverlay(&card, g)
			if card.WinStreak > 0 && card.FailStreak > 0 {
				t.Fatalf("both streaks non-zero after %v: win=%d fail=%d", g, card.WinStreak, card.FailStreak)
			}
		}
	})
}

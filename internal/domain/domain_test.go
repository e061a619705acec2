package domain

import (
	"testing"
	"time"
)

func TestGradeForAttempts(t *testing.T) {
	cases := []struct {
		attempts int
		want     Grade
	}{
		{1, GradeGood},
		{2, GradeHard},
		{3, GradeAgain},
		{7, GradeAgain},
	}
	for _, c := range cases {
		if got := GradeForAttempts(c.attempts); got != c.want {
			t.Errorf("GradeForAttempts(%d) = %v, want %v", c.attempts, got, c.want)
		}
	}
}

func TestStateTextRoundTrip(t *testing.T) {
	for s := StateNew; s <= StateRelearning; s++ {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var back State
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != s {
			t.Errorf("round trip %v -> %q -> %v", s, text, back)
		}
	}

	var s State
	if err := s.UnmarshalText([]byte("Forgotten")); err == nil {
		t.Error("expected an error for an unknown state name")
	}
	if _, err := State(9).MarshalText(); err == nil {
		t.Error("expected an error for an invalid state value")
	}
}

func TestGradeTextRoundTrip(t *testing.T) {
	for g := GradeAgain; g <= GradeEasy; g++ {
		text, err := g.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", g, err)
		}
		var back Grade
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != g {
			t.Errorf("round trip %v -> %q -> %v", g, text, back)
		}
	}

	var g Grade
	if err := g.UnmarshalText([]byte("")); err == nil {
		t.Error("expected an error for an empty grade name")
	}
}

func TestCardIsDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	card := NewCard("Bhutan", now)
	if !card.IsDue(now) {
		t.Error("a fresh card must be due immediately")
	}
	if card.IsDue(now.Add(-time.Second)) {
		t.Error("a card is not due before its scheduled time")
	}
	if !card.IsDue(now.Add(time.Hour)) {
		t.Error("a card stays due after its scheduled time")
	}
}

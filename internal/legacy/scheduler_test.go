package legacy

import (
	"math/rand"
	"testing"
	"time"
)

func newTestScheduler(catalog ...string) *Scheduler {
	return New(catalog, rand.New(rand.NewSource(7)))
}

func TestRecordIntervals(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("first ever correct answer forces two minutes", func(t *testing.T) {
		s := newTestScheduler("Kenya", "Chile")
		if err := s.Record("Kenya", "Kenya", 3, now); err != nil {
			t.Fatal(err)
		}
		it := s.Item("Kenya")
		if it.Interval != firstRepInterval {
			t.Errorf("interval = %v, want %v", it.Interval, float64(firstRepInterval))
		}
		if want := now.Add(firstRepInterval * time.Second); !it.DueAt.Equal(want) {
			t.Errorf("dueAt = %v, want %v", it.DueAt, want)
		}
	})

	t.Run("correct streak doubles exponentially", func(t *testing.T) {
		s := newTestScheduler("Kenya")
		s.Record("Kenya", "Kenya", 1, now) // forced to 120
		s.Record("Kenya", "Kenya", 1, now) // streak 2: 120 * 2^2
		it := s.Item("Kenya")
		if it.Interval != 480 {
			t.Errorf("interval = %v, want 480", it.Interval)
		}
	})

	t.Run("incorrect halves and clamps", func(t *testing.T) {
		s := newTestScheduler("Kenya", "Chile")
		s.Record("Kenya", "Chile", 1, now)
		if got := s.Item("Kenya").Interval; got != minInterval {
			t.Errorf("interval = %v, want clamp at %v", got, float64(minInterval))
		}

		// Drive the interval high, then miss once: half of 480 exceeds the
		// incorrect-branch ceiling.
		s2 := newTestScheduler("Kenya")
		s2.Record("Kenya", "Kenya", 1, now)
		s2.Record("Kenya", "Kenya", 1, now) // 480
		s2.Record("Kenya", "Chile", 1, now)
		if got := s2.Item("Kenya").Interval; got != maxInterval {
			t.Errorf("interval = %v, want clamp at %v", got, float64(maxInterval))
		}
	})

	t.Run("unknown item is rejected", func(t *testing.T) {
		s := newTestScheduler("Kenya")
		if err := s.Record("Atlantis", "Kenya", 1, now); err == nil {
			t.Error("expected an error for an unknown item")
		}
	})
}

func TestPick(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("unseen items are served when nothing is due", func(t *testing.T) {
		s := newTestScheduler("Kenya", "Chile")
		item, err := s.Pick(now)
		if err != nil {
			t.Fatal(err)
		}
		if item != "Kenya" && item != "Chile" {
			t.Errorf("picked %q, want a catalog item", item)
		}
	})

	t.Run("due items come back", func(t *testing.T) {
		s := newTestScheduler("Kenya")
		s.Record("Kenya", "Kenya", 1, now)
		later := now.Add(time.Duration(firstRepInterval+1) * time.Second)
		item, err := s.Pick(later)
		if err != nil {
			t.Fatal(err)
		}
		if item != "Kenya" {
			t.Errorf("picked %q, want Kenya", item)
		}
	})

	t.Run("nothing due and nothing new is done", func(t *testing.T) {
		s := newTestScheduler("Kenya")
		s.Record("Kenya", "Kenya", 1, now)
		if _, err := s.Pick(now.Add(time.Second)); err != ErrDone {
			t.Errorf("err = %v, want ErrDone", err)
		}
	})

	t.Run("session start skips items failing twice in a row", func(t *testing.T) {
		s := newTestScheduler("Kenya", "Chile")
		s.Record("Kenya", "Chile", 1, now)
		s.Record("Kenya", "Chile", 1, now)
		s.Record("Chile", "Chile", 1, now)

		later := now.Add(10 * time.Minute)
		for i := 0; i < 50; i++ {
			item, err := s.Pick(later)
			if err != nil {
				t.Fatal(err)
			}
			if item == "Kenya" {
				t.Fatal("warmup pick returned a nemesis item")
			}
		}
	})
}

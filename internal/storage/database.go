// Package storage is the sqlite persistence layer: cards, the learning-event
// audit log, daily challenge runs and device identity.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/conorfennell/mapdrill/internal/domain"
)

// DB wraps the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Get retrieves a card by item id. Absent cards return nil, nil.
func (db *DB) Get(itemID string) (*domain.Card, error) {
	row := db.conn.QueryRow(`
		SELECT item_id, due, stability, difficulty, elapsed_days, scheduled_days,
		       reps, lapses, state, last_review, win_streak, fail_streak, level
		FROM cards WHERE item_id = ?
	`, itemID)

	card, err := scanCard(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find card %s: %w", itemID, err)
	}
	return card, nil
}

// Put inserts or replaces the card for its item id.
func (db *DB) Put(card domain.Card) error {
	var lastReview sql.NullTime
	if !card.LastReview.IsZero() {
		lastReview = sql.NullTime{Time: card.LastReview, Valid: true}
	}
	_, err := db.conn.Exec(`
		INSERT INTO cards (item_id, due, stability, difficulty, elapsed_days, scheduled_days,
		                   reps, lapses, state, last_review, win_streak, fail_streak, level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			due = excluded.due,
			stability = excluded.stability,
			difficulty = excluded.difficulty,
			elapsed_days = excluded.elapsed_days,
			scheduled_days = excluded.scheduled_days,
			reps = excluded.reps,
			lapses = excluded.lapses,
			state = excluded.state,
			last_review = excluded.last_review,
			win_streak = excluded.win_streak,
			fail_streak = excluded.fail_streak,
			level = excluded.level
	`,
		card.ItemID, card.Due, card.Stability, card.Difficulty, card.ElapsedDays,
		card.ScheduledDays, card.Reps, card.Lapses, int(card.State), lastReview,
		card.WinStreak, card.FailStreak, card.Level,
	)
	if err != nil {
		return fmt.Errorf("failed to save card %s: %w", card.ItemID, err)
	}
	return nil
}

// QueryDue returns all cards whose due date has passed.
func (db *DB) QueryDue(now time.Time) ([]domain.Card, error) {
	rows, err := db.conn.Query(`
		SELECT item_id, due, stability, difficulty, elapsed_days, scheduled_days,
		       reps, lapses, state, last_review, win_streak, fail_streak, level
		FROM cards WHERE due <= ?
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due cards: %w", err)
	}
	defer rows.Close()
	return collectCards(rows)
}

// All returns every stored card.
func (db *DB) All() ([]domain.Card, error) {
	rows, err := db.conn.Query(`
		SELECT item_id, due, stability, difficulty, elapsed_days, scheduled_days,
		       reps, lapses, state, last_review, win_streak, fail_streak, level
		FROM cards
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()
	return collectCards(rows)
}

// Reset clears all scheduling state, events and challenge records.
func (db *DB) Reset() error {
	for _, table := range []string{"cards", "learning_events", "daily_challenges", "challenge_completions"} {
		if _, err := db.conn.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var c domain.Card
	var state int
	var lastReview sql.NullTime
	err := row.Scan(
		&c.ItemID, &c.Due, &c.Stability, &c.Difficulty, &c.ElapsedDays,
		&c.ScheduledDays, &c.Reps, &c.Lapses, &state, &lastReview,
		&c.WinStreak, &c.FailStreak, &c.Level,
	)
	if err != nil {
		return nil, err
	}
	c.State = domain.State(state)
	if lastReview.Valid {
		c.LastReview = lastReview.Time
	}
	return &c, nil
}

func collectCards(rows *sql.Rows) ([]domain.Card, error) {
	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

// AppendEvent writes one learning event to the audit log.
func (db *DB) AppendEvent(ev domain.LearningEvent) error {
	_, err := db.conn.Exec(`
		INSERT INTO learning_events (device_id, timestamp, item_id, ms_to_first_click,
		                             ms_to_completion, attempts, first_click_distance)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ev.DeviceID, ev.Timestamp, ev.ItemID, ev.MsToFirstClick, ev.MsToCompletion, ev.Attempts, ev.FirstClickDistance)
	if err != nil {
		return fmt.Errorf("failed to append learning event for %s: %w", ev.ItemID, err)
	}
	return nil
}

// EventsForItem returns the audit records for one item, oldest first.
func (db *DB) EventsForItem(itemID string) ([]domain.LearningEvent, error) {
	rows, err := db.conn.Query(`
		SELECT device_id, timestamp, item_id, ms_to_first_click, ms_to_completion,
		       attempts, first_click_distance
		FROM learning_events WHERE item_id = ? ORDER BY id
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for %s: %w", itemID, err)
	}
	defer rows.Close()

	var events []domain.LearningEvent
	for rows.Next() {
		var ev domain.LearningEvent
		if err := rows.Scan(&ev.DeviceID, &ev.Timestamp, &ev.ItemID, &ev.MsToFirstClick,
			&ev.MsToCompletion, &ev.Attempts, &ev.FirstClickDistance); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// GetRun retrieves the challenge run for a date. Absent runs return nil, nil.
func (db *DB) GetRun(date string) (*domain.DailyChallengeRun, error) {
	var run domain.DailyChallengeRun
	var slots, results string
	row := db.conn.QueryRow(`
		SELECT date, slots, results, total_score, total_time_ms
		FROM daily_challenges WHERE date = ?
	`, date)
	err := row.Scan(&run.Date, &slots, &results, &run.TotalScore, &run.TotalTimeMs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find challenge run for %s: %w", date, err)
	}
	if err := json.Unmarshal([]byte(slots), &run.Slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots for %s: %w", date, err)
	}
	if err := json.Unmarshal([]byte(results), &run.Results); err != nil {
		return nil, fmt.Errorf("failed to decode results for %s: %w", date, err)
	}
	return &run, nil
}

// PutRun inserts or replaces a challenge run.
func (db *DB) PutRun(run domain.DailyChallengeRun) error {
	slots, err := json.Marshal(run.Slots)
	if err != nil {
		return fmt.Errorf("failed to encode slots for %s: %w", run.Date, err)
	}
	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to encode results for %s: %w", run.Date, err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO daily_challenges (date, slots, results, total_score, total_time_ms)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			slots = excluded.slots,
			results = excluded.results,
			total_score = excluded.total_score,
			total_time_ms = excluded.total_time_ms
	`, run.Date, string(slots), string(results), run.TotalScore, run.TotalTimeMs)
	if err != nil {
		return fmt.Errorf("failed to save challenge run for %s: %w", run.Date, err)
	}
	return nil
}

// Completed reports whether the date's challenge has been finished.
func (db *DB) Completed(date string) (bool, error) {
	var found string
	err := db.conn.QueryRow(`SELECT date FROM challenge_completions WHERE date = ?`, date).Scan(&found)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check completion for %s: %w", date, err)
	}
	return true, nil
}

// MarkCompleted flags the date's challenge as finished.
func (db *DB) MarkCompleted(date string) error {
	_, err := db.conn.Exec(`INSERT OR IGNORE INTO challenge_completions (date) VALUES (?)`, date)
	if err != nil {
		return fmt.Errorf("failed to mark %s completed: %w", date, err)
	}
	return nil
}

// DeviceID returns the stable per-installation identifier, creating one on
// first use.
func (db *DB) DeviceID() (string, error) {
	const key = "device"
	var id string
	err := db.conn.QueryRow(`SELECT device_id FROM device_info WHERE id = ?`, key).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to load device id: %w", err)
	}

	id = uuid.NewString()
	if _, err := db.conn.Exec(`INSERT INTO device_info (id, device_id) VALUES (?, ?)`, key, id); err != nil {
		return "", fmt.Errorf("failed to store device id: %w", err)
	}
	return id, nil
}

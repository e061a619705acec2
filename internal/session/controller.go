// Package session orchestrates one learner's drill loop: selection, leveling,
// memory-model grading, persistence and telemetry for a single active item at
// a time.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/conorfennell/mapdrill/internal/domain"
	"github.com/conorfennell/mapdrill/internal/scheduler"
	"github.com/conorfennell/mapdrill/internal/selection"
)

// State is the controller's answer-gate state.
type State int

const (
	// Idle means no prompt is outstanding.
	Idle State = iota
	// AwaitingAnswer means a prompt is outstanding and at most one grading
	// operation may be in flight for its card.
	AwaitingAnswer
)

var (
	// ErrNoActivePrompt is returned when Answer is called while Idle.
	ErrNoActivePrompt = errors.New("session: no prompt awaiting an answer")
	// ErrCardMissing signals the defensive data-inconsistency branch: the
	// target item had no card at grading time. The turn is aborted.
	ErrCardMissing = errors.New("session: no card for target item")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session: closed")
)

// DefaultAdvanceDelay is how long UI feedback gets to animate before the next
// prompt appears.
const DefaultAdvanceDelay = 2 * time.Second

// Prompt tells the UI which item to ask for.
type Prompt struct {
	ItemID string
}

// Outcome describes how one answer changed the session.
type Outcome struct {
	Correct   bool
	FirstTry  bool
	Resolved  bool // the card was graded and the turn ended
	Highlight bool // first miss: the UI should highlight the target
	LevelUp   bool
	Message   string
}

// Config wires a Controller. Cards and Catalog are required; everything else
// has a usable default.
type Config struct {
	Cards        CardStore
	Events       EventStore    // optional local audit log
	Sink         TelemetrySink // optional remote sink
	Catalog      []string
	Strategy     scheduler.Strategy // defaults to the FSRS adapter
	DeviceID     string
	AdvanceDelay time.Duration
	Logger       *slog.Logger
	Rand         *rand.Rand
	Now          func() time.Time
	// OnPrompt is invoked (under no lock) whenever a new prompt is selected,
	// including the delayed advance after a resolved turn.
	OnPrompt func(Prompt)
}

// Controller runs the session state machine. All methods are safe for
// concurrent use; answer events are processed one at a time.
type Controller struct {
	cards    CardStore
	events   EventStore
	sink     TelemetrySink
	catalog  []string
	strategy scheduler.Strategy
	policy   *selection.Policy
	deviceID string
	delay    time.Duration
	log      *slog.Logger
	now      func() time.Time
	onPrompt func(Prompt)

	mu           sync.Mutex
	state        State
	target       string
	last         string
	firstTry     bool
	attempts     int
	promptAt     time.Time
	firstClickAt time.Time
	timer        *time.Timer
	generation   int
	closed       bool
}

// New validates cfg and builds a controller in the Idle state.
func New(cfg Config) (*Controller, error) {
	if cfg.Cards == nil {
		return nil, errors.New("session: Config.Cards is required")
	}
	if len(cfg.Catalog) == 0 {
		return nil, selection.ErrNoItems
	}
	if cfg.Strategy == nil {
		cfg.Strategy = scheduler.NewFSRS()
	}
	if cfg.AdvanceDelay == 0 {
		cfg.AdvanceDelay = DefaultAdvanceDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Controller{
		cards:    cfg.Cards,
		events:   cfg.Events,
		sink:     cfg.Sink,
		catalog:  cfg.Catalog,
		strategy: cfg.Strategy,
		policy:   selection.NewPolicy(cfg.Rand),
		deviceID: cfg.DeviceID,
		delay:    cfg.AdvanceDelay,
		log:      cfg.Logger,
		now:      cfg.Now,
		onPrompt: cfg.OnPrompt,
	}, nil
}

// Start selects and emits the first prompt.
func (c *Controller) Start() (Prompt, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Prompt{}, ErrClosed
	}
	prompt, err := c.selectNextLocked()
	c.mu.Unlock()
	if err != nil {
		return Prompt{}, err
	}
	c.emitPrompt(prompt)
	return prompt, nil
}

// Target returns the currently prompted item, or empty when Idle.
func (c *Controller) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// State returns the current gate state.
func (c *Controller) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Answer processes one click on the given item. distance is how far the click
// landed from the target's true location; it only feeds the audit record.
func (c *Controller) Answer(clicked string, distance float64) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Outcome{}, ErrClosed
	}
	if c.state != AwaitingAnswer {
		return Outcome{}, ErrNoActivePrompt
	}

	now := c.now()
	c.attempts++
	if c.firstClickAt.IsZero() {
		c.firstClickAt = now
	}

	correct := clicked == c.target
	if correct {
		return c.resolveLocked(domain.GradeForAttempts(c.attempts), correct, distance, now)
	}
	if c.firstTry {
		// First miss: reveal the target and allow one more attempt.
		c.firstTry = false
		return Outcome{
			Highlight: true,
			Message:   fmt.Sprintf("Nope, %s is highlighted now. Try again!", c.target),
		}, nil
	}
	return c.resolveLocked(domain.GradeAgain, correct, distance, now)
}

// resolveLocked grades the target card, persists it, dispatches telemetry and
// schedules the delayed advance. Called with the mutex held.
func (c *Controller) resolveLocked(grade domain.Grade, correct bool, distance float64, now time.Time) (Outcome, error) {
	card, err := c.cards.Get(c.target)
	if err != nil {
		return Outcome{}, fmt.Errorf("session: loading card %q: %w", c.target, err)
	}
	if card == nil {
		// Data inconsistency: abort the turn, do not crash.
		c.log.Error("no card for target item, aborting turn", "item", c.target)
		c.toIdleLocked()
		return Outcome{}, ErrCardMissing
	}

	next, levelUp := scheduler.Grade(c.strategy, *card, grade, now)
	if err := c.cards.Put(next); err != nil {
		// The turn is not complete until the write is acknowledged; the
		// caller may retry the same answer.
		return Outcome{}, fmt.Errorf("session: saving card %q: %w", c.target, err)
	}

	c.dispatchEventLocked(distance, now)

	out := Outcome{
		Correct:  correct,
		FirstTry: c.attempts == 1,
		Resolved: true,
		LevelUp:  levelUp,
	}
	switch {
	case correct && c.attempts == 1:
		out.Message = fmt.Sprintf("Correct! That's %s!", c.target)
	case correct:
		out.Message = fmt.Sprintf("Good job finding %s on the second try!", c.target)
	default:
		out.Message = fmt.Sprintf("That's not quite right. %s was highlighted.", c.target)
	}

	c.scheduleAdvanceLocked()
	return out, nil
}

// dispatchEventLocked writes the audit record and fires telemetry. Neither
// failure blocks or rolls back the turn; the card write has already landed.
func (c *Controller) dispatchEventLocked(distance float64, now time.Time) {
	ev := domain.LearningEvent{
		DeviceID:           c.deviceID,
		Timestamp:          now,
		ItemID:             c.target,
		MsToFirstClick:     c.firstClickAt.Sub(c.promptAt).Milliseconds(),
		MsToCompletion:     now.Sub(c.promptAt).Milliseconds(),
		Attempts:           c.attempts,
		FirstClickDistance: distance,
	}
	if c.events != nil {
		if err := c.events.AppendEvent(ev); err != nil {
			c.log.Warn("failed to append learning event", "item", ev.ItemID, "error", err)
		}
	}
	if c.sink != nil {
		sink, logger := c.sink, c.log
		go func() {
			if err := sink.Log(ev); err != nil {
				logger.Warn("telemetry dispatch failed", "item", ev.ItemID, "error", err)
			}
		}()
	}
}

// scheduleAdvanceLocked arms the cancelable advance timer. The generation
// counter guarantees a timer from a torn-down or replaced turn never fires
// against new state.
func (c *Controller) scheduleAdvanceLocked() {
	c.last = c.target
	c.toIdleLocked()
	gen := c.generation
	c.timer = time.AfterFunc(c.delay, func() {
		c.advance(gen)
	})
}

func (c *Controller) advance(gen int) {
	c.mu.Lock()
	if c.closed || gen != c.generation || c.state != Idle {
		c.mu.Unlock()
		return
	}
	prompt, err := c.selectNextLocked()
	c.mu.Unlock()
	if err != nil {
		c.log.Error("failed to select next item", "error", err)
		return
	}
	c.emitPrompt(prompt)
}

// selectNextLocked runs the selection policy and moves to AwaitingAnswer.
func (c *Controller) selectNextLocked() (Prompt, error) {
	now := c.now()
	due, err := c.cards.QueryDue(now)
	if err != nil {
		return Prompt{}, fmt.Errorf("session: querying due cards: %w", err)
	}
	all, err := c.cards.All()
	if err != nil {
		return Prompt{}, fmt.Errorf("session: listing cards: %w", err)
	}

	item, created, err := c.policy.Next(due, all, c.catalog, c.last, now)
	if err != nil {
		return Prompt{}, err
	}
	if created != nil {
		if err := c.cards.Put(*created); err != nil {
			return Prompt{}, fmt.Errorf("session: creating card %q: %w", item, err)
		}
	}

	c.state = AwaitingAnswer
	c.target = item
	c.firstTry = true
	c.attempts = 0
	c.promptAt = now
	c.firstClickAt = time.Time{}
	return Prompt{ItemID: item}, nil
}

func (c *Controller) toIdleLocked() {
	c.state = Idle
	c.target = ""
	c.firstTry = true
	c.attempts = 0
}

func (c *Controller) emitPrompt(p Prompt) {
	if c.onPrompt != nil {
		c.onPrompt(p)
	}
}

// Close tears the session down. Any pending advance is canceled and can no
// longer fire against replaced state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.toIdleLocked()
}

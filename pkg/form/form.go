// Package form drives a trip request from field edits to a displayed plan.
//
// A Controller moves through Idle, Submitting and then either Displaying or
// AwaitingResubmit. Both end states accept another submission. Only one
// submission may be in flight, and a result that arrives after the form was
// reset is dropped so the last submission always wins.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/tripplanner/pkg/trip"
)

var (
	// ErrInFlight is returned by Submit while a previous submission is running.
	ErrInFlight = errors.New("a submission is already in flight")

	// ErrSuperseded is returned by a submission whose result was discarded
	// because the form was reset while it ran.
	ErrSuperseded = errors.New("submission superseded")
)

// MsgEndBeforeStart is the inline message shown while the date range is inverted.
const MsgEndBeforeStart = "End date must be after start date"

// State is the controller's position in the submission lifecycle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateDisplaying
	StateAwaitingResubmit
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateDisplaying:
		return "displaying"
	case StateAwaitingResubmit:
		return "awaiting-resubmit"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Relay sends a prompt to the relay endpoint and returns the streamed text.
// *relayclient.Client satisfies it.
type Relay interface {
	Chat(ctx context.Context, prompt string, onChunk func(string)) (string, error)
}

// Controller owns one trip form. It is safe for concurrent use.
type Controller struct {
	relay    Relay
	logger   *zap.Logger
	now      func() time.Time
	observer func(string)

	mu      sync.Mutex
	details trip.Details
	state   State
	seq     uint64
	result  string
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the source of "today" used for date validation.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithObserver registers fn to receive streamed text as it arrives.
func WithObserver(fn func(chunk string)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// New creates a Controller that submits through relay.
func New(relay Relay, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		relay:  relay,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set updates one field. Moving the start date past the end date clamps the
// end date to the new start date.
func (c *Controller) Set(field trip.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, err := c.details.With(field, value)
	if err != nil {
		return err
	}
	c.details = d
	return nil
}

// Details returns a copy of the current field values.
func (c *Controller) Details() trip.Details {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details
}

// Today is the earliest date either date field accepts.
func (c *Controller) Today() string {
	return trip.Today(c.now())
}

// ValidationMessage returns the inline message for the current fields, or ""
// when there is nothing to show.
func (c *Controller) ValidationMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.details.EndBeforeStart() {
		return MsgEndBeforeStart
	}
	return ""
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the last displayed plan.
func (c *Controller) Result() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Reset clears the form and returns it to Idle. A submission still in flight
// is allowed to finish but its result is discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.details = trip.Details{}
	c.state = StateIdle
	c.result = ""
	c.seq++
}

// Submit validates the form, sends its prompt through the relay and stores the
// trimmed reply. Invalid input is rejected without contacting the relay. A
// relay failure is logged and leaves the controller in AwaitingResubmit.
func (c *Controller) Submit(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return "", ErrInFlight
	}
	if err := c.details.Validate(trip.Today(c.now())); err != nil {
		c.mu.Unlock()
		return "", err
	}

	prompt := trip.BuildPrompt(c.details)
	c.seq++
	seq := c.seq
	c.state = StateSubmitting
	c.mu.Unlock()

	c.logger.Debug("submitting trip",
		zap.String("destination", c.Details().Destination),
		zap.Uint64("seq", seq),
	)

	text, err := c.relay.Chat(ctx, prompt, func(chunk string) {
		if c.observer != nil && c.current(seq) {
			c.observer(chunk)
		}
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.logger.Debug("dropping stale result", zap.Uint64("seq", seq), zap.Uint64("latest", c.seq))
		return "", ErrSuperseded
	}

	if err != nil {
		c.logger.Error("trip submission failed", zap.Uint64("seq", seq), zap.Error(err))
		c.state = StateAwaitingResubmit
		return "", fmt.Errorf("submit trip: %w", err)
	}

	c.result = strings.TrimSpace(text)
	c.state = StateDisplaying
	return c.result, nil
}

func (c *Controller) current(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq == c.seq
}

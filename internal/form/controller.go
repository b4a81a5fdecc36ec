package form

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

// State is the lifecycle of a form.
type State int

const (
	StateEditing State = iota
	StateValidating
	StateSubmitting
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	default:
		return "editing"
	}
}

// Outcome is what a successful submission reports: a confirmation message
// and the screen to move to afterwards (empty to stay).
type Outcome struct {
	Message string
	Next    string
}

// Submitter sends the validated values to the backend.
type Submitter[T any] func(ctx context.Context, values T) (Outcome, error)

// Options configure the post-success redirect.
type Options struct {
	RedirectDelay time.Duration
	Navigate      func(ctx context.Context, path string) error
	Sleep         func(ctx context.Context, d time.Duration) error
	// OnSuccess sees the outcome before the redirect delay starts.
	OnSuccess func(Outcome)
	Logger    *zap.Logger
}

// Controller drives one form: it validates locally, allows a single
// submission in flight and keeps the entered values when submission fails.
type Controller[T any] struct {
	name      string
	validator *Validator
	submit    Submitter[T]
	opts      Options

	mu      sync.Mutex
	state   State
	values  T
	lastErr *appErrors.Error
}

// NewController builds a form controller. name is used in logs only.
func NewController[T any](name string, v *Validator, submit Submitter[T], opts Options) *Controller[T] {
	if v == nil {
		v = NewValidator()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	return &Controller[T]{name: name, validator: v, submit: submit, opts: opts}
}

// Edit replaces the field values. It is rejected while submitting.
func (c *Controller[T]) Edit(values T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting || c.state == StateValidating {
		return appErrors.ErrSubmitInFlight
	}
	c.values = values
	c.state = StateEditing
	return nil
}

// Submit validates and sends the current values. Field errors never reach the
// backend. On failure the form returns to editing with the error retained.
func (c *Controller[T]) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.state == StateSubmitting || c.state == StateValidating {
		c.mu.Unlock()
		return Outcome{}, appErrors.ErrSubmitInFlight
	}
	c.state = StateValidating
	values := c.values
	c.mu.Unlock()

	if err := c.validator.Struct(values); err != nil {
		return Outcome{}, c.fail(err)
	}

	c.mu.Lock()
	c.state = StateSubmitting
	c.mu.Unlock()

	outcome, err := c.submit(ctx, values)
	if err != nil {
		return Outcome{}, c.fail(err)
	}

	c.mu.Lock()
	c.state = StateSuccess
	c.lastErr = nil
	c.mu.Unlock()
	c.opts.Logger.Info("form submitted", zap.String("form", c.name))
	if c.opts.OnSuccess != nil {
		c.opts.OnSuccess(outcome)
	}

	if outcome.Next != "" && c.opts.Navigate != nil {
		if err := c.opts.Sleep(ctx, c.opts.RedirectDelay); err != nil {
			return outcome, err
		}
		if err := c.opts.Navigate(ctx, outcome.Next); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

func (c *Controller[T]) fail(err error) error {
	appErr := appErrors.FromError(err)
	c.mu.Lock()
	c.state = StateEditing
	c.lastErr = appErr
	c.mu.Unlock()
	c.opts.Logger.Debug("form rejected", zap.String("form", c.name), zap.String("code", appErr.Code))
	return appErr
}

// Values returns the entered field values.
func (c *Controller[T]) Values() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err is the error of the last failed submission, nil after a success.
func (c *Controller[T]) Err() *appErrors.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// FieldErrors are the per-field messages of the last failed validation.
func (c *Controller[T]) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastErr == nil {
		return nil
	}
	return c.lastErr.Fields
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

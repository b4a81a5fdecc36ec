package listing

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/models"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

// State is the lifecycle of a list screen.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateLoadError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadError:
		return "load_error"
	default:
		return "idle"
	}
}

// Fetcher retrieves the full collection from the backend.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Fields returns the values of an item that search matches against.
type Fields[T any] func(item T) []string

// Confirmer asks the user to approve a destructive or stateful action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Controller holds the canonical collection last fetched for a screen and the
// filtered view derived from it. Mutations never patch local state; a
// successful mutation is followed by a full reload.
//
// Overlapping loads are not cancelled. Whichever response lands last wins.
type Controller[T any] struct {
	mu        sync.Mutex
	fetch     Fetcher[T]
	fields    Fields[T]
	confirmer Confirmer
	logger    *zap.Logger

	state     State
	canonical []T
	filtered  []T
	term      string
	page      int
	lastErr   error
}

// New builds a controller. A nil confirmer approves everything.
func New[T any](fetch Fetcher[T], fields Fields[T], confirmer Confirmer, logger *zap.Logger) *Controller[T] {
	if confirmer == nil {
		confirmer = AlwaysConfirm
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{fetch: fetch, fields: fields, confirmer: confirmer, logger: logger}
}

// Load fetches the full collection. On success the filtered view is reset to a
// full copy; on failure the previous collection is kept and the error returned.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateLoadError
		c.lastErr = err
		c.logger.Warn("list load failed", zap.Error(err))
		return err
	}
	c.state = StateLoaded
	c.lastErr = nil
	c.canonical = append([]T(nil), items...)
	c.filtered = append([]T(nil), items...)
	c.term = ""
	c.page = 0
	return nil
}

// Search re-derives the filtered view and resets to the first page.
func (c *Controller[T]) Search(term string) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.term = term
	c.page = 0
	c.filtered = Filter(c.canonical, term, c.fields)
	return append([]T(nil), c.filtered...)
}

// Filter keeps the items with at least one field containing term,
// ignoring case. Whitespace in term is significant; only "" keeps everything.
func Filter[T any](items []T, term string, fields Fields[T]) []T {
	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle == "" || matches(fields(item), needle) {
			out = append(out, item)
		}
	}
	return out
}

func matches(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// Page returns the slice of the filtered view at index. Indices outside
// [0, PageCount) yield an empty slice.
func (c *Controller[T]) Page(index, size int) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = index
	return Paginate(c.filtered, index, size)
}

// Paginate slices items into pages of size.
func Paginate[T any](items []T, index, size int) []T {
	if size <= 0 || index < 0 {
		return []T{}
	}
	start := index * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[start:end]...)
}

// PageCount is the number of pages the filtered view spans.
func (c *Controller[T]) PageCount(size int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pageCount(len(c.filtered), size)
}

func pageCount(n, size int) int {
	if size <= 0 || n == 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Pagination describes the page last requested.
func (c *Controller[T]) Pagination(size int) models.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Pagination{
		Page:       c.page,
		PageSize:   size,
		TotalCount: len(c.filtered),
		TotalPages: pageCount(len(c.filtered), size),
	}
}

// Mutate confirms, runs action and reloads. A declined prompt returns
// errors.ErrCancelled without calling action. A failed action leaves the
// collection untouched.
func (c *Controller[T]) Mutate(ctx context.Context, prompt string, action func(ctx context.Context) error) error {
	ok, err := c.confirmer.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.ErrCancelled
	}
	if err := action(ctx); err != nil {
		c.logger.Info("list mutation failed", zap.Error(err))
		return err
	}
	return c.Load(ctx)
}

// Items is a copy of the filtered view.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.filtered...)
}

// All is a copy of the canonical collection.
func (c *Controller[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.canonical...)
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err is the error from the last failed load.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller[T]) Term() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term
}

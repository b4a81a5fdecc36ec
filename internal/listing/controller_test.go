package listing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

type course struct {
	name     string
	category string
}

func courseFields(c course) []string { return []string{c.name, c.category} }

var sample = []course{
	{"Algorithms", "Science"},
	{"Ancient Rome", "History"},
	{"Microeconomics", "Economics"},
	{"Linear Algebra", "Mathematics"},
	{"Poetry", "Literature"},
	{"Data Science", "Science"},
	{"Calculus", "Mathematics"},
}

type fakeBackend struct {
	items []course
	calls int
	err   error
}

func (f *fakeBackend) fetch(context.Context) ([]course, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]course(nil), f.items...), nil
}

func loaded(t *testing.T, items []course) (*Controller[course], *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{items: items}
	c := New(backend.fetch, courseFields, nil, nil)
	require.NoError(t, c.Load(context.Background()))
	return c, backend
}

func TestLoadPopulatesBothViews(t *testing.T) {
	c, _ := loaded(t, sample)
	assert.Equal(t, StateLoaded, c.State())
	assert.Equal(t, sample, c.All())
	assert.Equal(t, sample, c.Items())
}

func TestLoadErrorKeepsPreviousCollection(t *testing.T) {
	c, backend := loaded(t, sample)
	backend.err = appErrors.ErrTransport

	err := c.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateLoadError, c.State())
	assert.Equal(t, sample, c.All())
	assert.ErrorIs(t, c.Err(), appErrors.ErrTransport)
}

func TestSearchResultsAreMatchingSubset(t *testing.T) {
	c, _ := loaded(t, sample)

	for _, term := range []string{"sci", "SCIENCE", "al", "rome", "zzz", " math", "Data ", " "} {
		got := c.Search(term)
		needle := strings.ToLower(term)
		for _, item := range got {
			assert.Contains(t, sample, item)
			assert.True(t,
				strings.Contains(strings.ToLower(item.name), needle) || strings.Contains(strings.ToLower(item.category), needle),
				"%v does not contain %q", item, term)
		}
	}

	assert.Equal(t, sample, c.Search(""))
	assert.Len(t, c.Search("science"), 2)
}

func TestFilterKeepsSurroundingSpaces(t *testing.T) {
	items := []course{{"Science", "Science"}, {"Data Science", "Science"}, {"Database", "Mathematics"}}

	assert.Equal(t, []course{{"Data Science", "Science"}}, Filter(items, "Data ", courseFields))
	assert.Equal(t, []course{{"Data Science", "Science"}}, Filter(items, " sci", courseFields))
	assert.Equal(t, items, Filter(items, "", courseFields))
	assert.Empty(t, Filter(items, "  ", courseFields))
}

func TestSearchIsIdempotentAndResetsPage(t *testing.T) {
	c, _ := loaded(t, sample)
	c.Page(1, 2)

	first := c.Search("a")
	second := c.Search("a")
	assert.Equal(t, first, second)
	assert.Equal(t, 0, c.Pagination(2).Page)
	assert.Equal(t, "a", c.Term())
}

func TestPagesReconstructFilteredView(t *testing.T) {
	c, _ := loaded(t, sample)

	for _, size := range []int{1, 2, 3, 5, 7, 10} {
		for _, term := range []string{"", "a", "science"} {
			view := c.Search(term)
			var joined []course
			for i := 0; i < c.PageCount(size); i++ {
				page := c.Page(i, size)
				assert.LessOrEqual(t, len(page), size)
				joined = append(joined, page...)
			}
			if len(view) == 0 {
				assert.Empty(t, joined)
				continue
			}
			assert.Equal(t, view, joined, "size=%d term=%q", size, term)
		}
	}
}

func TestPageOutOfRangeIsEmpty(t *testing.T) {
	c, _ := loaded(t, sample)
	assert.Empty(t, c.Page(99, 5))
	assert.Empty(t, c.Page(-1, 5))
	assert.Empty(t, c.Page(0, 0))
	assert.Equal(t, 2, c.PageCount(5))

	p := c.Pagination(5)
	assert.Equal(t, 7, p.TotalCount)
	assert.Equal(t, 2, p.TotalPages)
}

func TestEmptyCollection(t *testing.T) {
	c, _ := loaded(t, nil)
	assert.Empty(t, c.Search("anything"))
	assert.Empty(t, c.Search(""))
	assert.Equal(t, 0, c.PageCount(5))
	assert.Empty(t, c.Page(0, 5))
}

func TestMutateDeclinedSkipsAction(t *testing.T) {
	backend := &fakeBackend{items: sample}
	c := New(backend.fetch, courseFields, ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		assert.Equal(t, "Delete Poetry?", prompt)
		return false, nil
	}), nil)
	require.NoError(t, c.Load(context.Background()))

	acted := false
	err := c.Mutate(context.Background(), "Delete Poetry?", func(context.Context) error {
		acted = true
		return nil
	})
	assert.ErrorIs(t, err, appErrors.ErrCancelled)
	assert.False(t, acted)
	assert.Equal(t, 1, backend.calls)
}

func TestMutateSuccessReloads(t *testing.T) {
	c, backend := loaded(t, sample)
	c.Search("science")

	err := c.Mutate(context.Background(), "Enroll?", func(context.Context) error {
		backend.items = backend.items[1:]
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)
	assert.Equal(t, sample[1:], c.All())
	assert.Equal(t, "", c.Term())
}

func TestMutateFailureLeavesCollection(t *testing.T) {
	c, backend := loaded(t, sample)
	boom := errors.New("boom")

	err := c.Mutate(context.Background(), "Delete?", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, sample, c.All())
	assert.Equal(t, StateLoaded, c.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "load_error", StateLoadError.String())
}

package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/guardforce-admin/internal/models"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

type widget struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (w widget) EntityID() int64 { return w.ID }

type widgetInput struct {
	Name string
}

type fakeGateway struct {
	listFn       func(ctx context.Context, params models.ListParams) ([]widget, models.Pagination, error)
	getFn        func(ctx context.Context, id int64, include []string) (widget, error)
	createFn     func(ctx context.Context, in widgetInput) (widget, error)
	updateFn     func(ctx context.Context, id int64, in widgetInput) (widget, error)
	deleteFn     func(ctx context.Context, id int64) error
	transitionFn func(ctx context.Context, id int64, action string, payload map[string]interface{}) (widget, error)
}

func (f *fakeGateway) List(ctx context.Context, params models.ListParams) ([]widget, models.Pagination, error) {
	return f.listFn(ctx, params)
}

func (f *fakeGateway) Get(ctx context.Context, id int64, include []string) (widget, error) {
	return f.getFn(ctx, id, include)
}

func (f *fakeGateway) Create(ctx context.Context, in widgetInput) (widget, error) {
	return f.createFn(ctx, in)
}

func (f *fakeGateway) Update(ctx context.Context, id int64, in widgetInput) (widget, error) {
	return f.updateFn(ctx, id, in)
}

func (f *fakeGateway) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeGateway) Transition(ctx context.Context, id int64, action string, payload map[string]interface{}) (widget, error) {
	return f.transitionFn(ctx, id, action, payload)
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingObserver) ObserveOperation(entity string, op Operation, outcome Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, entity+":"+string(op)+":"+string(outcome))
}

func seeded(t *testing.T, gw *fakeGateway, items ...widget) *Container[widget, widgetInput, widgetInput] {
	t.Helper()
	gw.listFn = func(context.Context, models.ListParams) ([]widget, models.Pagination, error) {
		return items, models.NewPagination(1, 20, len(items)), nil
	}
	c := New[widget, widgetInput, widgetInput](gw, Options{Entity: "widget"})
	_, _, err := c.List(context.Background(), models.ListParams{})
	require.NoError(t, err)
	return c
}

func TestListReplacesItemsAndPagination(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw, widget{ID: 1, Name: "a"}, widget{ID: 2, Name: "b"})

	state := c.State()
	assert.Equal(t, []widget{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, state.Items)
	assert.Equal(t, 2, state.Pagination.Total)
	assert.False(t, state.IsLoading)

	gw.listFn = func(context.Context, models.ListParams) ([]widget, models.Pagination, error) {
		return []widget{{ID: 9, Name: "z"}}, models.NewPagination(2, 1, 5), nil
	}
	_, _, err := c.List(context.Background(), models.ListParams{Page: 2, PerPage: 1})
	require.NoError(t, err)
	state = c.State()
	assert.Equal(t, []widget{{ID: 9, Name: "z"}}, state.Items)
	assert.Equal(t, models.Pagination{CurrentPage: 2, LastPage: 5, Total: 5, PerPage: 1}, state.Pagination)
}

func TestCreateUnshiftsFocusesAndCounts(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw, widget{ID: 1, Name: "a"})
	gw.createFn = func(_ context.Context, in widgetInput) (widget, error) {
		return widget{ID: 42, Name: in.Name}, nil
	}

	rec, err := c.Create(context.Background(), widgetInput{Name: "new"})
	require.NoError(t, err)

	state := c.State()
	assert.Equal(t, int64(42), rec.ID)
	assert.Equal(t, int64(42), state.Items[0].ID)
	require.NotNil(t, state.Current)
	assert.Equal(t, int64(42), state.Current.ID)
	assert.Equal(t, 2, state.Pagination.Total)
	assert.Len(t, state.Items, 2)
}

func TestCreateNeverDuplicatesID(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw, widget{ID: 1, Name: "a"}, widget{ID: 2, Name: "b"})
	gw.createFn = func(context.Context, widgetInput) (widget, error) {
		return widget{ID: 2, Name: "b2"}, nil
	}

	_, err := c.Create(context.Background(), widgetInput{})
	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: 2, Name: "b2"}, {ID: 1, Name: "a"}}, c.State().Items)
}

func TestUpdateReplacesOnlyMatchingRecord(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw, widget{ID: 1, Name: "a"}, widget{ID: 2, Name: "b"}, widget{ID: 3, Name: "c"})
	gw.getFn = func(_ context.Context, id int64, _ []string) (widget, error) {
		return widget{ID: id, Name: "b"}, nil
	}
	_, err := c.Get(context.Background(), 2)
	require.NoError(t, err)

	gw.updateFn = func(_ context.Context, id int64, in widgetInput) (widget, error) {
		return widget{ID: id, Name: in.Name}, nil
	}
	_, err = c.Update(context.Background(), 2, widgetInput{Name: "renamed"})
	require.NoError(t, err)

	state := c.State()
	assert.Equal(t, []widget{{ID: 1, Name: "a"}, {ID: 2, Name: "renamed"}, {ID: 3, Name: "c"}}, state.Items)
	assert.Equal(t, "renamed", state.Current.Name)
}

func TestUpdateAbsentRecordLeavesItems(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw, widget{ID: 1, Name: "a"})
	gw.updateFn = func(_ context.Context, id int64, in widgetInput) (widget, error) {
		return widget{ID: id, Name: in.Name}, nil
	}

	_, err := c.Update(context.Background(), 77, widgetInput{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: 1, Name: "a"}}, c.State().Items)
	assert.Nil(t, c.State().Current)
}

func TestDeleteRemovesAndClearsCurrent(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw, widget{ID: 1}, widget{ID: 2})
	gw.getFn = func(_ context.Context, id int64, _ []string) (widget, error) { return widget{ID: id}, nil }
	gw.deleteFn = func(context.Context, int64) error { return nil }

	_, err := c.Get(context.Background(), 2)
	require.NoError(t, err)
	require.NoError(t, c.Delete(context.Background(), 1))
	state := c.State()
	assert.Equal(t, []widget{{ID: 2}}, state.Items)
	assert.Equal(t, 1, state.Pagination.Total)
	require.NotNil(t, state.Current, "current held a different id")

	require.NoError(t, c.Delete(context.Background(), 2))
	state = c.State()
	assert.Empty(t, state.Items)
	assert.Nil(t, state.Current)
	assert.Equal(t, 0, state.Pagination.Total)

	require.NoError(t, c.Delete(context.Background(), 3))
	assert.Equal(t, 0, c.State().Pagination.Total, "total never drops below zero")
}

func TestFailedDeleteKeepsStateAndRecordsMessage(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw, widget{ID: 1}, widget{ID: 2})
	gw.deleteFn = func(context.Context, int64) error {
		return appErrors.Clone(appErrors.ErrConflict, "In use")
	}

	err := c.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	state := c.State()
	assert.Equal(t, []widget{{ID: 1}, {ID: 2}}, state.Items)
	assert.Equal(t, 2, state.Pagination.Total)
	assert.Equal(t, "In use", state.Error)
	assert.False(t, state.IsLoading)
}

func TestFailureFallsBackToOperationMessage(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw)
	gw.createFn = func(context.Context, widgetInput) (widget, error) {
		return widget{}, &appErrors.Error{Code: appErrors.ErrInternal.Code, Status: 500}
	}

	_, err := c.Create(context.Background(), widgetInput{})
	require.Error(t, err)
	assert.Equal(t, "Failed to create widget. Please try again.", c.State().Error)

	gw.createFn = func(_ context.Context, in widgetInput) (widget, error) { return widget{ID: 1}, nil }
	_, err = c.Create(context.Background(), widgetInput{})
	require.NoError(t, err)
	assert.Empty(t, c.State().Error, "next operation clears the error")
}

func TestUntypedFailureIsWrapped(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw)
	gw.createFn = func(context.Context, widgetInput) (widget, error) {
		return widget{}, errors.New("socket closed")
	}

	_, err := c.Create(context.Background(), widgetInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
	assert.Equal(t, "socket closed", c.State().Error)
}

func TestGetIsIdempotent(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw)
	gw.getFn = func(_ context.Context, id int64, include []string) (widget, error) {
		return widget{ID: id, Name: "guard"}, nil
	}

	_, err := c.Get(context.Background(), 5, "guard")
	require.NoError(t, err)
	first := c.State().Current
	_, err = c.Get(context.Background(), 5, "guard")
	require.NoError(t, err)
	assert.Equal(t, first, c.State().Current)
}

func TestFailedGetKeepsCurrent(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw)
	gw.getFn = func(_ context.Context, id int64, _ []string) (widget, error) { return widget{ID: id}, nil }
	_, err := c.Get(context.Background(), 5)
	require.NoError(t, err)

	gw.getFn = func(context.Context, int64, []string) (widget, error) {
		return widget{}, appErrors.Clone(appErrors.ErrNotFound, "Widget not found")
	}
	_, err = c.Get(context.Background(), 6)
	require.Error(t, err)
	state := c.State()
	assert.Equal(t, int64(5), state.Current.ID)
	assert.Equal(t, "Widget not found", state.Error)
}

func TestTransitionReplacesLikeUpdate(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw, widget{ID: 1, Name: "active"})
	gw.transitionFn = func(_ context.Context, id int64, action string, payload map[string]interface{}) (widget, error) {
		assert.Equal(t, "status", action)
		return widget{ID: id, Name: payload["status"].(string)}, nil
	}

	_, err := c.Transition(context.Background(), 1, "status", map[string]interface{}{"status": "inactive"})
	require.NoError(t, err)
	assert.Equal(t, "inactive", c.State().Items[0].Name)
}

func TestStaleListIsDiscarded(t *testing.T) {
	obs := &recordingObserver{}
	releaseFirst := make(chan struct{})
	firstStarted := make(chan struct{})
	gw := &fakeGateway{
		listFn: func(_ context.Context, params models.ListParams) ([]widget, models.Pagination, error) {
			if params.Search == "a" {
				close(firstStarted)
				<-releaseFirst
				return []widget{{ID: 1, Name: "a"}}, models.NewPagination(1, 20, 1), nil
			}
			return []widget{{ID: 2, Name: "ab"}}, models.NewPagination(1, 20, 1), nil
		},
	}
	c := New[widget, widgetInput, widgetInput](gw, Options{Entity: "widget", Observer: obs})

	errCh := make(chan error, 1)
	go func() {
		_, _, err := c.List(context.Background(), models.ListParams{Search: "a"})
		errCh <- err
	}()
	<-firstStarted

	_, _, err := c.List(context.Background(), models.ListParams{Search: "ab"})
	require.NoError(t, err)
	assert.True(t, c.State().IsLoading, "first list is still in flight")

	close(releaseFirst)
	require.ErrorIs(t, <-errCh, ErrStale)

	state := c.State()
	assert.Equal(t, []widget{{ID: 2, Name: "ab"}}, state.Items)
	assert.False(t, state.IsLoading)
	assert.Contains(t, obs.calls, "widget:list:stale")
}

func TestLoadingFlagSurvivesOverlappingOperations(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gw := &fakeGateway{
		deleteFn: func(context.Context, int64) error {
			close(started)
			<-release
			return nil
		},
		getFn: func(_ context.Context, id int64, _ []string) (widget, error) { return widget{ID: id}, nil },
	}
	c := New[widget, widgetInput, widgetInput](gw, Options{Entity: "widget"})

	done := make(chan struct{})
	go func() {
		_ = c.Delete(context.Background(), 1)
		close(done)
	}()
	<-started

	_, err := c.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, c.State().IsLoading)

	close(release)
	<-done
	assert.False(t, c.State().IsLoading)
}

func TestRefreshReusesLastParams(t *testing.T) {
	var seen []models.ListParams
	gw := &fakeGateway{
		listFn: func(_ context.Context, params models.ListParams) ([]widget, models.Pagination, error) {
			seen = append(seen, params)
			return nil, models.NewPagination(params.Page, params.PerPage, 0), nil
		},
	}
	c := New[widget, widgetInput, widgetInput](gw, Options{Entity: "widget"})

	_, _, err := c.List(context.Background(), models.ListParams{Page: 3, Filters: map[string]string{"status": "open"}})
	require.NoError(t, err)
	_, _, err = c.Refresh(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1])
	assert.Equal(t, 3, seen[1].Page)
	assert.Equal(t, "open", seen[1].Filters["status"])
	assert.NotNil(t, c.State().Items)
}

func TestFailedListKeepsRefreshParams(t *testing.T) {
	gw := &fakeGateway{}
	c := seeded(t, gw, widget{ID: 1, Name: "a"})
	_, _, err := c.List(context.Background(), models.ListParams{Page: 2, Search: "gate"})
	require.NoError(t, err)

	gw.listFn = func(context.Context, models.ListParams) ([]widget, models.Pagination, error) {
		return nil, models.Pagination{}, errors.New("connection refused")
	}
	_, _, err = c.List(context.Background(), models.ListParams{Page: 7, Search: "broken"})
	require.Error(t, err)

	params, ok := c.LastParams()
	require.True(t, ok)
	assert.Equal(t, 2, params.Page)
	assert.Equal(t, "gate", params.Search)
}

func TestStaleListKeepsRefreshParams(t *testing.T) {
	release := make(chan struct{})
	gw := &fakeGateway{
		listFn: func(_ context.Context, params models.ListParams) ([]widget, models.Pagination, error) {
			if params.Search == "slow" {
				<-release
			}
			return []widget{{ID: 1}}, models.NewPagination(params.Page, params.PerPage, 1), nil
		},
	}
	c := New[widget, widgetInput, widgetInput](gw, Options{Entity: "widget"})

	done := make(chan error, 1)
	go func() {
		_, _, err := c.List(context.Background(), models.ListParams{Search: "slow"})
		done <- err
	}()
	require.Eventually(t, func() bool { return c.State().IsLoading }, time.Second, time.Millisecond)

	_, _, err := c.List(context.Background(), models.ListParams{Search: "fast"})
	require.NoError(t, err)
	close(release)
	require.ErrorIs(t, <-done, ErrStale)

	params, ok := c.LastParams()
	require.True(t, ok)
	assert.Equal(t, "fast", params.Search)
}

func TestSearchDoesNotChangeRefreshParams(t *testing.T) {
	var seen []models.ListParams
	gw := &fakeGateway{
		listFn: func(_ context.Context, params models.ListParams) ([]widget, models.Pagination, error) {
			seen = append(seen, params)
			return []widget{{ID: 4, Name: "gate"}}, models.NewPagination(params.Page, params.PerPage, 1), nil
		},
	}
	c := New[widget, widgetInput, widgetInput](gw, Options{Entity: "widget"})

	_, _, err := c.List(context.Background(), models.ListParams{Page: 2, Filters: map[string]string{"status": "open"}})
	require.NoError(t, err)
	items, _, err := c.Search(context.Background(), models.ListParams{Page: 1, PerPage: 20, Search: "x"})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, _, err = c.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, seen, 3)
	assert.Equal(t, seen[0], seen[2])
	assert.Empty(t, seen[2].Search)
}

func TestFetchDoesNotFocusOrFence(t *testing.T) {
	release := make(chan struct{})
	gw := &fakeGateway{
		getFn: func(_ context.Context, id int64, _ []string) (widget, error) {
			if id == 3 {
				<-release
			}
			return widget{ID: id, Name: "w"}, nil
		},
	}
	c := New[widget, widgetInput, widgetInput](gw, Options{Entity: "widget"})

	type fetched struct {
		rec widget
		err error
	}
	done := make(chan fetched, 1)
	go func() {
		rec, err := c.Fetch(context.Background(), 3)
		done <- fetched{rec, err}
	}()
	require.Eventually(t, func() bool { return c.State().IsLoading }, time.Second, time.Millisecond)

	_, err := c.Get(context.Background(), 9)
	require.NoError(t, err)
	close(release)

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, int64(3), got.rec.ID)
	require.NotNil(t, c.State().Current)
	assert.Equal(t, int64(9), c.State().Current.ID)
	assert.False(t, c.State().IsLoading)
}

func TestCancelledOperationDoesNotRecordError(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(ctx context.Context, _ int64, _ []string) (widget, error) { return widget{}, ctx.Err() },
	}
	c := New[widget, widgetInput, widgetInput](gw, Options{Entity: "widget"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.State().Error)
}

func TestClearActions(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(context.Context, int64, []string) (widget, error) {
			return widget{}, appErrors.Clone(appErrors.ErrNotFound, "gone")
		},
	}
	c := New[widget, widgetInput, widgetInput](gw, Options{Entity: "widget"})
	_, _ = c.Get(context.Background(), 1)
	require.Equal(t, "gone", c.State().Error)

	c.ClearError()
	c.ClearCurrent()
	assert.Empty(t, c.State().Error)
	assert.Nil(t, c.State().Current)
}

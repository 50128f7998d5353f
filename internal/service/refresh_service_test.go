package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/guardforce-admin/internal/store"
)

type fakeTarget struct {
	name  string
	err   error
	calls int
}

func (f *fakeTarget) Name() string { return f.name }
func (f *fakeTarget) Refresh(context.Context) error {
	f.calls++
	return f.err
}

type fakeSession bool

func (f fakeSession) Active() bool { return bool(f) }

type refreshRecorder struct {
	results map[string]error
}

func (r *refreshRecorder) ObserveRefresh(entity string, err error) {
	if r.results == nil {
		r.results = map[string]error{}
	}
	r.results[entity] = err
}

type fakeCleaner struct{ removed []string }

func (f fakeCleaner) Cleanup() ([]string, error) { return f.removed, nil }

func TestRefreshNowSkipsWithoutSession(t *testing.T) {
	target := &fakeTarget{name: "duty-attendances"}
	svc, err := NewRefreshService(RefreshConfig{Enabled: true, Schedule: "@every 1m"}, fakeSession(false), []RefreshTarget{target}, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, svc.RefreshNow(context.Background()))
	assert.Equal(t, 0, target.calls)
}

func TestRefreshNowRefreshesEveryTarget(t *testing.T) {
	attendances := &fakeTarget{name: "duty-attendances"}
	reports := &fakeTarget{name: "duty-status-reports", err: store.ErrStale}
	broken := &fakeTarget{name: "duties", err: errors.New("boom")}
	rec := &refreshRecorder{}

	svc, err := NewRefreshService(RefreshConfig{Enabled: true, Schedule: "@every 1m"}, fakeSession(true), []RefreshTarget{attendances, reports, broken}, nil, rec, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, svc.RefreshNow(context.Background()))
	assert.Equal(t, 1, attendances.calls)
	assert.Equal(t, 1, reports.calls)
	assert.NoError(t, rec.results["duty-status-reports"])
	assert.Error(t, rec.results["duties"])
}

func TestRefreshRejectsBadSchedule(t *testing.T) {
	_, err := NewRefreshService(RefreshConfig{Enabled: true, Schedule: "every minute"}, fakeSession(true), []RefreshTarget{&fakeTarget{name: "x"}}, nil, nil, nil)
	assert.Error(t, err)
}

func TestRegistersJobs(t *testing.T) {
	svc, err := NewRefreshService(RefreshConfig{Enabled: true, Schedule: "@every 1m", CleanupSchedule: "@hourly"}, fakeSession(true), []RefreshTarget{&fakeTarget{name: "x"}}, fakeCleaner{}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, svc.cron.Entries(), 2)

	disabled, err := NewRefreshService(RefreshConfig{Enabled: false, Schedule: "@every 1m"}, fakeSession(true), []RefreshTarget{&fakeTarget{name: "x"}}, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, disabled.cron.Entries())
}

func TestCleanupNow(t *testing.T) {
	svc, err := NewRefreshService(RefreshConfig{}, fakeSession(true), nil, fakeCleaner{removed: []string{"a.csv", "b.pdf"}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.CleanupNow())
}

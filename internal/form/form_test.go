package form

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/guardforce-admin/internal/dto"
	"github.com/noah-isme/guardforce-admin/internal/models"
	"github.com/noah-isme/guardforce-admin/internal/notify"
	"github.com/noah-isme/guardforce-admin/internal/store"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

type complaintGateway struct {
	mu      sync.Mutex
	nextID  int64
	creates []dto.ComplaintInput
	err     error
}

func (g *complaintGateway) List(context.Context, models.ListParams) ([]models.Complaint, models.Pagination, error) {
	return nil, models.Pagination{}, nil
}

func (g *complaintGateway) Get(context.Context, int64, []string) (models.Complaint, error) {
	return models.Complaint{}, nil
}

func (g *complaintGateway) Create(_ context.Context, in dto.ComplaintInput) (models.Complaint, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.creates = append(g.creates, in)
	if g.err != nil {
		return models.Complaint{}, g.err
	}
	g.nextID++
	return complaintFromInput(100+g.nextID, in), nil
}

func (g *complaintGateway) Update(_ context.Context, id int64, in dto.ComplaintInput) (models.Complaint, error) {
	if g.err != nil {
		return models.Complaint{}, g.err
	}
	return complaintFromInput(id, in), nil
}

func (g *complaintGateway) Delete(context.Context, int64) error { return nil }

func (g *complaintGateway) Transition(context.Context, int64, string, map[string]interface{}) (models.Complaint, error) {
	return models.Complaint{}, nil
}

func complaintFromInput(id int64, in dto.ComplaintInput) models.Complaint {
	return models.Complaint{
		ID: id, Title: in.Title, Description: in.Description, Priority: in.Priority, Status: in.Status,
		ReportedByID: in.ReportedByID, AgainstID: in.AgainstID, SiteID: in.SiteID,
		IsVisibleToClient: in.IsVisibleToClient, IsVisibleToGuard: in.IsVisibleToGuard,
	}
}

func complaintSpec() Spec[models.Complaint, dto.ComplaintInput] {
	return Spec[models.Complaint, dto.ComplaintInput]{
		Entity:   "complaint",
		Defaults: func() dto.ComplaintInput { return dto.ComplaintInput{Priority: "medium", Status: "open"} },
		Tracked:  []string{"title", "description", "priority", "status", "reported_by_id"},
		FromEntity: func(c models.Complaint) dto.ComplaintInput {
			return dto.ComplaintInput{
				Title: c.Title, Description: c.Description, Priority: c.Priority, Status: c.Status,
				ReportedByID: c.ReportedByID, AgainstID: c.AgainstID, SiteID: c.SiteID,
				IsVisibleToClient: c.IsVisibleToClient, IsVisibleToGuard: c.IsVisibleToGuard,
			}
		},
	}
}

type complaintForm = Form[models.Complaint, dto.ComplaintInput]

func newComplaintForm(t *testing.T, gw *complaintGateway, answer bool) (*complaintForm, *store.Container[models.Complaint, dto.ComplaintInput, dto.ComplaintInput], *notify.Recorder) {
	t.Helper()
	container := store.New[models.Complaint, dto.ComplaintInput, dto.ComplaintInput](gw, store.Options{Entity: "complaint"})
	rec := notify.NewRecorder(answer)
	return New(complaintSpec(), Target[models.Complaint, dto.ComplaintInput](container), rec, nil, Options[models.Complaint]{}), container, rec
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func TestSubmitCreatesComplaint(t *testing.T) {
	gw := &complaintGateway{}
	f, container, rec := newComplaintForm(t, gw, true)
	var called models.Complaint
	f.onSuccess = func(c models.Complaint) { called = c }

	f.OpenCreate()
	f.Apply(dto.ComplaintInput{
		Title: "  Noise ", Priority: "high", Status: "open", ReportedByID: 5,
		AgainstID: int64Ptr(12), SiteID: int64Ptr(3), Description: strPtr("   "),
		IsVisibleToClient: true, IsVisibleToGuard: false,
	})

	created, err := f.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, gw.creates, 1)
	assert.Equal(t, "Noise", gw.creates[0].Title)
	assert.Nil(t, gw.creates[0].Description)

	state := container.State()
	require.Len(t, state.Items, 1)
	first := state.Items[0]
	assert.Equal(t, created.ID, first.ID)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "Noise", first.Title)
	assert.Equal(t, "high", first.Priority)
	assert.Equal(t, int64(5), first.ReportedByID)
	assert.Equal(t, int64(12), *first.AgainstID)
	assert.Equal(t, int64(3), *first.SiteID)
	assert.True(t, first.IsVisibleToClient)
	assert.False(t, first.IsVisibleToGuard)

	n, ok := rec.Last(notify.KindSuccess)
	require.True(t, ok)
	assert.Equal(t, "Complaint created successfully", n.Message)
	assert.False(t, f.IsOpen())
	assert.Equal(t, created.ID, called.ID)
	assert.Equal(t, complaintSpec().Defaults(), f.Values())
}

func TestSubmitRejectsMissingTitleWithoutDispatch(t *testing.T) {
	gw := &complaintGateway{}
	f, _, rec := newComplaintForm(t, gw, true)

	f.OpenCreate()
	f.Apply(dto.ComplaintInput{Title: "   ", Priority: "high", Status: "open", ReportedByID: 5})

	_, err := f.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Title is required", verr.Fields["title"])
	assert.Equal(t, "Title is required", f.Errors()["title"])
	assert.Empty(t, gw.creates)
	assert.Empty(t, rec.Notifications())
	assert.True(t, f.IsOpen())
}

func TestValidationMessages(t *testing.T) {
	f, _, _ := newComplaintForm(t, &complaintGateway{}, true)
	f.OpenCreate()
	f.Apply(dto.ComplaintInput{Title: "Noise", Priority: "extreme", Status: "open"})

	fields := f.Validate()
	assert.Equal(t, "Priority must be one of: low, medium, high, urgent", fields["priority"])
	assert.Equal(t, "Reported By is required", fields["reported_by_id"])
	assert.NotContains(t, fields, "title")
}

func TestBlurValidatesSingleField(t *testing.T) {
	f, _, _ := newComplaintForm(t, &complaintGateway{}, true)
	f.OpenCreate()

	assert.Equal(t, "Title is required", f.Blur("title"))
	assert.NotContains(t, f.Errors(), "reported_by_id")

	require.NoError(t, f.Change(context.Background(), "title", func(v *dto.ComplaintInput) { v.Title = "Noise" }))
	assert.NotContains(t, f.Errors(), "title")
}

func TestSubmitFailureKeepsDialogOpen(t *testing.T) {
	gw := &complaintGateway{err: appErrors.Clone(appErrors.ErrConflict, "Duplicate complaint")}
	f, container, rec := newComplaintForm(t, gw, true)

	f.OpenCreate()
	input := dto.ComplaintInput{Title: "Noise", Priority: "high", Status: "open", ReportedByID: 5}
	f.Apply(input)

	_, err := f.Submit(context.Background())
	require.Error(t, err)

	n, ok := rec.Last(notify.KindError)
	require.True(t, ok)
	assert.Equal(t, "Duplicate complaint", n.Message)
	assert.True(t, f.IsOpen())
	assert.Equal(t, input, f.Values())
	assert.Equal(t, "Duplicate complaint", container.State().Error)
}

func TestSubmitFailureFallbackAndServerFields(t *testing.T) {
	serverErr := &appErrors.Error{
		Code:   appErrors.ErrValidation.Code,
		Status: appErrors.ErrValidation.Status,
		Fields: map[string]string{"title": "Title has already been taken"},
	}
	gw := &complaintGateway{err: serverErr}
	f, _, rec := newComplaintForm(t, gw, true)

	f.OpenCreate()
	f.Apply(dto.ComplaintInput{Title: "Noise", Priority: "high", Status: "open", ReportedByID: 5})
	_, err := f.Submit(context.Background())
	require.Error(t, err)

	n, _ := rec.Last(notify.KindError)
	assert.Equal(t, "Failed to create complaint. Please try again.", n.Message)
	assert.Equal(t, "Title has already been taken", f.Errors()["title"])
}

func TestEditRoundTrip(t *testing.T) {
	gw := &complaintGateway{}
	f, _, rec := newComplaintForm(t, gw, true)

	stored := models.Complaint{ID: 42, Title: "Noise", Priority: "high", Status: "open", ReportedByID: 5, SiteID: int64Ptr(3)}
	require.NoError(t, f.OpenRecord(stored))
	assert.False(t, f.Dirty())

	mode, id := f.Mode()
	assert.Equal(t, ModeEdit, mode)
	assert.Equal(t, int64(42), id)

	updated, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, complaintSpec().FromEntity(stored), complaintSpec().FromEntity(updated))

	n, _ := rec.Last(notify.KindSuccess)
	assert.Equal(t, "Complaint updated successfully", n.Message)
}

func TestRequestCloseConfirmsWhenDirty(t *testing.T) {
	f, _, rec := newComplaintForm(t, &complaintGateway{}, false)
	f.OpenCreate()

	require.NoError(t, f.Change(context.Background(), "title", func(v *dto.ComplaintInput) { v.Title = "Noise" }))
	require.True(t, f.Dirty())

	closed, err := f.RequestClose(context.Background())
	require.NoError(t, err)
	assert.False(t, closed)
	assert.True(t, f.IsOpen())
	assert.Equal(t, "Noise", f.Values().Title)
	_, asked := rec.Last(notify.KindConfirm)
	assert.True(t, asked)
}

func TestRequestCloseDiscardsOnConfirm(t *testing.T) {
	f, _, _ := newComplaintForm(t, &complaintGateway{}, true)
	f.OpenCreate()
	require.NoError(t, f.Change(context.Background(), "title", func(v *dto.ComplaintInput) { v.Title = "Noise" }))

	closed, err := f.RequestClose(context.Background())
	require.NoError(t, err)
	assert.True(t, closed)
	assert.False(t, f.IsOpen())
	assert.Empty(t, f.Values().Title)
}

func TestRequestCloseCleanIsImmediate(t *testing.T) {
	f, _, rec := newComplaintForm(t, &complaintGateway{}, false)
	f.OpenCreate()

	closed, err := f.RequestClose(context.Background())
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Empty(t, rec.Notifications())
}

func TestSubmitOnClosedForm(t *testing.T) {
	f, _, _ := newComplaintForm(t, &complaintGateway{}, true)
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

type locationLister struct {
	mu    sync.Mutex
	calls []models.ListParams
}

func (l *locationLister) Search(_ context.Context, params models.ListParams) ([]models.SiteLocation, models.Pagination, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, params.Clone())
	siteID, _ := strconv.ParseInt(params.Filters["site_id"], 10, 64)
	return []models.SiteLocation{{ID: siteID*10 + 1, SiteID: siteID, Name: "Gate"}}, models.Pagination{}, nil
}

func (l *locationLister) snapshot() []models.ListParams {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.ListParams(nil), l.calls...)
}

type dutyTarget struct{}

func (dutyTarget) Create(_ context.Context, in dto.DutyInput) (models.Duty, error) {
	return models.Duty{ID: 1, Title: in.Title, SiteID: in.SiteID}, nil
}

func (dutyTarget) Update(_ context.Context, id int64, in dto.DutyInput) (models.Duty, error) {
	return models.Duty{ID: id, Title: in.Title, SiteID: in.SiteID}, nil
}

func TestChangingSiteClearsLocationAndRescopesLookup(t *testing.T) {
	lister := &locationLister{}
	locations := NewLookup[models.SiteLocation](lister, LookupOptions{Debounce: time.Millisecond})

	f := New(Spec[models.Duty, dto.DutyInput]{Entity: "duty"}, Target[models.Duty, dto.DutyInput](dutyTarget{}), notify.NewRecorder(true), nil, Options[models.Duty]{})
	f.Depend(Dependency[dto.DutyInput]{
		Parent: "site_id",
		Fields: []string{"site_location_id"},
		Reset:  func(v *dto.DutyInput) { v.SiteLocationID = nil },
		Refetch: func(ctx context.Context, v dto.DutyInput) error {
			_, err := locations.Scope(ctx, "site_id", strconv.FormatInt(v.SiteID, 10))
			return err
		},
	})
	f.Attach(locations)

	ctx := context.Background()
	f.OpenCreate()
	require.NoError(t, f.Change(ctx, "site_id", func(v *dto.DutyInput) { v.SiteID = 1 }))
	require.NoError(t, f.Change(ctx, "site_location_id", func(v *dto.DutyInput) { v.SiteLocationID = int64Ptr(11) }))

	require.NoError(t, f.Change(ctx, "site_id", func(v *dto.DutyInput) { v.SiteID = 2 }))
	assert.Nil(t, f.Values().SiteLocationID)

	calls := lister.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, "2", calls[1].Filters["site_id"])
	assert.Equal(t, 100, calls[1].PerPage)
	require.Len(t, locations.Options(), 1)
	assert.Equal(t, int64(21), locations.Options()[0].ID)

	// same value: no reset
	require.NoError(t, f.Change(ctx, "site_location_id", func(v *dto.DutyInput) { v.SiteLocationID = int64Ptr(21) }))
	require.NoError(t, f.Change(ctx, "site_id", func(v *dto.DutyInput) { v.SiteID = 2 }))
	assert.Equal(t, int64(21), *f.Values().SiteLocationID)
	assert.Len(t, lister.snapshot(), 2)
}

func TestApplyResetsStaleDependent(t *testing.T) {
	f := New(Spec[models.Duty, dto.DutyInput]{Entity: "duty"}, Target[models.Duty, dto.DutyInput](dutyTarget{}), nil, nil, Options[models.Duty]{})
	f.Depend(Dependency[dto.DutyInput]{
		Parent: "site_id",
		Fields: []string{"site_location_id"},
		Reset:  func(v *dto.DutyInput) { v.SiteLocationID = nil },
	})
	f.OpenEdit(7, dto.DutyInput{Title: "Night", SiteID: 1, SiteLocationID: int64Ptr(11)})

	f.Apply(dto.DutyInput{Title: "Night", SiteID: 2, SiteLocationID: int64Ptr(11)})
	assert.Nil(t, f.Values().SiteLocationID)

	f.Apply(dto.DutyInput{Title: "Night", SiteID: 3, SiteLocationID: int64Ptr(31)})
	assert.Equal(t, int64(31), *f.Values().SiteLocationID)
}

func TestDebouncedSearchIssuesSingleCall(t *testing.T) {
	lister := &locationLister{}
	lookup := NewLookup[models.SiteLocation](lister, LookupOptions{Debounce: 30 * time.Millisecond, PageSize: 20})

	first := lookup.Search("g")
	second := lookup.Search("ga")
	last := lookup.Search("gate")

	for _, ch := range []<-chan Result[models.SiteLocation]{first, second, last} {
		select {
		case res := <-ch:
			require.NoError(t, res.Err)
			assert.Equal(t, "gate", res.Text)
		case <-time.After(2 * time.Second):
			t.Fatal("debounced search never fired")
		}
	}

	calls := lister.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "gate", calls[0].Search)
	assert.Equal(t, 20, calls[0].PerPage)
}

func TestLookupResetCancelsPendingSearch(t *testing.T) {
	lister := &locationLister{}
	lookup := NewLookup[models.SiteLocation](lister, LookupOptions{Debounce: time.Hour})

	ch := lookup.Search("gate")
	lookup.Reset()

	res := <-ch
	assert.True(t, errors.Is(res.Err, ErrSearchCancelled))
	assert.Empty(t, lookup.Text())
	assert.Empty(t, lister.snapshot())
}

func TestLookupOpenUsesOpenPageSize(t *testing.T) {
	lister := &locationLister{}
	lookup := NewLookup[models.SiteLocation](lister, LookupOptions{OpenPageSize: 50})

	_, err := lookup.Open(context.Background())
	require.NoError(t, err)

	items, err := lookup.SearchNow(context.Background(), "gate")
	require.NoError(t, err)
	require.Len(t, items, 1)

	calls := lister.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, 50, calls[0].PerPage)
	assert.Empty(t, calls[0].Search)
	assert.Equal(t, "gate", calls[1].Search)
}

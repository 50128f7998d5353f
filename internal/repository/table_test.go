package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/guardforce-admin/internal/dto"
	"github.com/noah-isme/guardforce-admin/internal/models"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

const complaintCols = "id, title, description, priority, status, reported_by_id, against_id, site_id, is_visible_to_client, is_visible_to_guard, created_at, updated_at"

func complaintRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "priority", "status", "reported_by_id", "against_id", "site_id",
		"is_visible_to_client", "is_visible_to_guard", "created_at", "updated_at"})
}

func int64Ptr(v int64) *int64 { return &v }

func TestTableListBuildsFilteredQuery(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	table := NewTable[models.Complaint, dto.ComplaintInput, dto.ComplaintInput](db, ComplaintsTable, nil)

	now := time.Now()
	where := "1=1 AND (LOWER(title) LIKE $1 OR LOWER(description) LIKE $1) AND status = $2"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + complaintCols + " FROM complaints WHERE " + where + " ORDER BY priority ASC, id DESC LIMIT 20 OFFSET 0")).
		WithArgs("%noise%", "open").
		WillReturnRows(complaintRows().AddRow(int64(1), "Noise", nil, "high", "open", int64(5), int64(12), int64(3), true, false, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM complaints WHERE " + where)).
		WithArgs("%noise%", "open").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))

	items, page, err := table.List(context.Background(), models.ListParams{
		Search:  " Noise ",
		Sort:    "priority",
		Order:   "asc",
		Filters: map[string]string{"status": "open", "unknown": "x"},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Noise", items[0].Title)
	assert.Equal(t, int64(12), *items[0].AgainstID)
	assert.Equal(t, models.Pagination{CurrentPage: 1, LastPage: 2, Total: 21, PerPage: 20}, page)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableListFallsBackToDefaultSort(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	table := NewTable[models.Complaint, dto.ComplaintInput, dto.ComplaintInput](db, ComplaintsTable, nil)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 ORDER BY created_at DESC, id DESC LIMIT 100 OFFSET 100")).
		WillReturnRows(complaintRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM complaints WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	items, _, err := table.List(context.Background(), models.ListParams{Page: 2, PerPage: 500, Sort: "password; DROP TABLE"})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableCreateSkipsAbsentOptionals(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	table := NewTable[models.Complaint, dto.ComplaintInput, dto.ComplaintInput](db, ComplaintsTable, nil)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO complaints (title, priority, status, reported_by_id, against_id, site_id, is_visible_to_client, is_visible_to_guard, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING " + complaintCols)).
		WithArgs("Noise", "high", "open", int64(5), int64(12), int64(3), true, false).
		WillReturnRows(complaintRows().AddRow(int64(40), "Noise", nil, "high", "open", int64(5), int64(12), int64(3), true, false, now, now))

	rec, err := table.Create(context.Background(), dto.ComplaintInput{
		Title: "Noise", Priority: "high", Status: "open", ReportedByID: 5,
		AgainstID: int64Ptr(12), SiteID: int64Ptr(3), IsVisibleToClient: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(40), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableUpdateWritesNulls(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	table := NewTable[models.Complaint, dto.ComplaintInput, dto.ComplaintInput](db, ComplaintsTable, nil)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE complaints SET title = $1, description = $2, priority = $3, status = $4, reported_by_id = $5, against_id = $6, site_id = $7, is_visible_to_client = $8, is_visible_to_guard = $9, updated_at = NOW() WHERE id = $10 RETURNING")).
		WithArgs("Noise", nil, "low", "resolved", int64(5), nil, nil, false, true, int64(40)).
		WillReturnRows(complaintRows().AddRow(int64(40), "Noise", nil, "low", "resolved", int64(5), nil, nil, false, true, now, now))

	rec, err := table.Update(context.Background(), 40, dto.ComplaintInput{
		Title: "Noise", Priority: "low", Status: "resolved", ReportedByID: 5, IsVisibleToGuard: true,
	})
	require.NoError(t, err)
	assert.Nil(t, rec.AgainstID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableGetNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	table := NewTable[models.Complaint, dto.ComplaintInput, dto.ComplaintInput](db, ComplaintsTable, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM complaints WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(complaintRows())

	_, err := table.Get(context.Background(), 9, []string{"site"})
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "Complaint not found.", appErrors.Message(err, ""))
}

func TestTableDeleteMapsForeignKeyToInUse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	table := NewTable[models.Guard, dto.GuardInput, dto.GuardInput](db, GuardsTable, nil)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM guards WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnError(&pq.Error{Code: "23503"})

	err := table.Delete(context.Background(), 4)
	require.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Equal(t, "In use", appErrors.Message(err, ""))
}

func TestTableDeleteMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	table := NewTable[models.Guard, dto.GuardInput, dto.GuardInput](db, GuardsTable, nil)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM guards WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := table.Delete(context.Background(), 4)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTableGenericFailureHasNoMessage(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	table := NewTable[models.Guard, dto.GuardInput, dto.GuardInput](db, GuardsTable, nil)

	mock.ExpectExec("DELETE FROM guards").WillReturnError(&pq.Error{Code: "XX000", Message: "internal detail"})

	err := table.Delete(context.Background(), 4)
	require.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Equal(t, "Failed to delete guard. Please try again.", appErrors.Message(err, "Failed to delete guard. Please try again."))
}

func TestTableTransitionVisibility(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	table := NewTable[models.Complaint, dto.ComplaintInput, dto.ComplaintInput](db, ComplaintsTable, nil)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE complaints SET is_visible_to_guard = $1, updated_at = NOW() WHERE id = $2 RETURNING")).
		WithArgs(true, int64(7)).
		WillReturnRows(complaintRows().AddRow(int64(7), "Noise", nil, "high", "open", int64(5), nil, nil, false, true, now, now))

	rec, err := table.Transition(context.Background(), 7, "visibility", map[string]interface{}{"is_visible_to_guard": true})
	require.NoError(t, err)
	assert.True(t, rec.IsVisibleToGuard)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableTransitionCheckIn(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	table := NewTable[models.DutyAttendance, dto.DutyAttendanceInput, dto.DutyAttendanceInput](db, DutyAttendancesTable, nil)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE duty_attendances SET check_in_at = NOW(), updated_at = NOW() WHERE id = $1 RETURNING id, guard_id, duty_id, to_char(attendance_date, 'YYYY-MM-DD') AS attendance_date")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "guard_id", "duty_id", "attendance_date", "check_in_at", "check_out_at", "status", "notes", "created_at", "updated_at"}).
			AddRow(int64(3), int64(1), int64(2), "2024-05-01", now, nil, "present", nil, now, now))

	rec, err := table.Transition(context.Background(), 3, "check-in", nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", rec.AttendanceDate)
	require.NotNil(t, rec.CheckInAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableTransitionUnknownAction(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	table := NewTable[models.Contact, dto.ContactInput, dto.ContactInput](db, ContactsTable, nil)

	_, err := table.Transition(context.Background(), 1, "status", nil)
	require.ErrorIs(t, err, appErrors.ErrUnsupported)
}

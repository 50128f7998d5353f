package workspace

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/guardforce-admin/internal/dto"
	"github.com/noah-isme/guardforce-admin/internal/form"
	"github.com/noah-isme/guardforce-admin/internal/models"
	"github.com/noah-isme/guardforce-admin/internal/repository"
)

func statusRule(values ...string) dto.TransitionRule {
	return dto.TransitionRule{Action: "status", Field: "status", OneOf: values}
}

func activeRule() dto.TransitionRule {
	return dto.TransitionRule{Action: "status", Field: "is_active"}
}

func attach[E models.Identifiable, P any](lookups ...form.Resetter) func(*form.Form[E, P]) {
	return func(f *form.Form[E, P]) { f.Attach(lookups...) }
}

func idString(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func instant(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func build(src source, opts Options) *Workspace {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Validate == nil {
		opts.Validate = dto.NewValidator()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	w := &Workspace{opts: opts, entities: map[string]Entity{}}

	w.GuardTypes = register(w, src, entityDef[models.GuardType, dto.GuardTypeInput]{
		name: "guard-types", label: "guard type", table: repository.GuardTypesTable,
		spec: form.Spec[models.GuardType, dto.GuardTypeInput]{
			Defaults: func() dto.GuardTypeInput { return dto.GuardTypeInput{IsActive: true} },
			Tracked:  []string{"name", "description", "is_active"},
			FromEntity: func(g models.GuardType) dto.GuardTypeInput {
				return dto.GuardTypeInput{Name: g.Name, Description: g.Description, IsActive: g.IsActive}
			},
		},
		rules: []dto.TransitionRule{activeRule()},
	})

	w.Guards = register(w, src, entityDef[models.Guard, dto.GuardInput]{
		name: "guards", label: "guard", table: repository.GuardsTable,
		spec: form.Spec[models.Guard, dto.GuardInput]{
			Defaults: func() dto.GuardInput { return dto.GuardInput{Status: models.GuardStatusActive} },
			Tracked:  []string{"name", "email", "phone", "national_id", "guard_type_id", "address", "date_of_birth", "joined_on", "status"},
			FromEntity: func(g models.Guard) dto.GuardInput {
				return dto.GuardInput{
					Name: g.Name, Email: g.Email, Phone: g.Phone, NationalID: g.NationalID, GuardTypeID: g.GuardTypeID,
					Address: g.Address, DateOfBirth: g.DateOfBirth, JoinedOn: g.JoinedOn, Status: g.Status,
				}
			},
		},
		rules: []dto.TransitionRule{statusRule(models.GuardStatusActive, models.GuardStatusInactive, models.GuardStatusSuspended)},
	})
	w.Guards.setup = attach[models.Guard, dto.GuardInput](w.GuardTypes.lookup)

	w.Clients = register(w, src, entityDef[models.Client, dto.ClientInput]{
		name: "clients", label: "client", table: repository.ClientsTable,
		spec: form.Spec[models.Client, dto.ClientInput]{
			Defaults: func() dto.ClientInput { return dto.ClientInput{Status: models.ClientStatusActive} },
			Tracked:  []string{"name", "contact_person", "email", "phone", "address", "status"},
			FromEntity: func(c models.Client) dto.ClientInput {
				return dto.ClientInput{Name: c.Name, ContactPerson: c.ContactPerson, Email: c.Email, Phone: c.Phone, Address: c.Address, Status: c.Status}
			},
		},
		rules: []dto.TransitionRule{statusRule(models.ClientStatusActive, models.ClientStatusInactive)},
	})

	w.Contacts = register(w, src, entityDef[models.Contact, dto.ContactInput]{
		name: "contacts", label: "contact", table: repository.ContactsTable,
		spec: form.Spec[models.Contact, dto.ContactInput]{
			Tracked: []string{"client_id", "name", "email", "phone", "designation"},
			FromEntity: func(c models.Contact) dto.ContactInput {
				return dto.ContactInput{ClientID: c.ClientID, Name: c.Name, Email: c.Email, Phone: c.Phone, Designation: c.Designation, IsPrimary: c.IsPrimary}
			},
		},
	})
	w.Contacts.setup = attach[models.Contact, dto.ContactInput](w.Clients.lookup)

	w.Sites = register(w, src, entityDef[models.Site, dto.SiteInput]{
		name: "sites", label: "site", table: repository.SitesTable,
		spec: form.Spec[models.Site, dto.SiteInput]{
			Defaults: func() dto.SiteInput { return dto.SiteInput{RequiredGuards: 1, Status: models.ClientStatusActive} },
			Tracked:  []string{"client_id", "name", "address", "city", "latitude", "longitude", "required_guards", "status"},
			FromEntity: func(s models.Site) dto.SiteInput {
				return dto.SiteInput{
					ClientID: s.ClientID, Name: s.Name, Address: s.Address, City: s.City, Latitude: s.Latitude,
					Longitude: s.Longitude, RequiredGuards: s.RequiredGuards, Status: s.Status,
				}
			},
		},
		rules: []dto.TransitionRule{statusRule(models.ClientStatusActive, models.ClientStatusInactive)},
	})
	w.Sites.setup = attach[models.Site, dto.SiteInput](w.Clients.lookup)

	w.SiteLocations = register(w, src, entityDef[models.SiteLocation, dto.SiteLocationInput]{
		name: "site-locations", label: "site location", table: repository.SiteLocationsTable,
		spec: form.Spec[models.SiteLocation, dto.SiteLocationInput]{
			Defaults: func() dto.SiteLocationInput { return dto.SiteLocationInput{IsActive: true} },
			Tracked:  []string{"site_id", "name", "description", "latitude", "longitude", "is_active"},
			FromEntity: func(l models.SiteLocation) dto.SiteLocationInput {
				return dto.SiteLocationInput{SiteID: l.SiteID, Name: l.Name, Description: l.Description, Latitude: l.Latitude, Longitude: l.Longitude, IsActive: l.IsActive}
			},
		},
		rules: []dto.TransitionRule{activeRule()},
	})
	w.SiteLocations.setup = attach[models.SiteLocation, dto.SiteLocationInput](w.Sites.lookup)

	w.DutyTimeTypes = register(w, src, entityDef[models.DutyTimeType, dto.DutyTimeTypeInput]{
		name: "duty-time-types", label: "duty time type", table: repository.DutyTimeTypesTable,
		spec: form.Spec[models.DutyTimeType, dto.DutyTimeTypeInput]{
			Tracked: []string{"name", "start_time", "end_time"},
			FromEntity: func(d models.DutyTimeType) dto.DutyTimeTypeInput {
				return dto.DutyTimeTypeInput{Name: d.Name, StartTime: d.StartTime, EndTime: d.EndTime}
			},
		},
	})

	w.Duties = register(w, src, entityDef[models.Duty, dto.DutyInput]{
		name: "duties", label: "duty", plural: "duties", table: repository.DutiesTable,
		spec: form.Spec[models.Duty, dto.DutyInput]{
			Defaults: func() dto.DutyInput {
				return dto.DutyInput{RequiredGuards: 1, Status: models.DutyStatusScheduled}
			},
			Tracked: []string{"title", "site_id", "site_location_id", "duty_time_type_id", "start_date", "end_date", "start_time", "end_time", "required_guards", "status", "notes"},
			FromEntity: func(d models.Duty) dto.DutyInput {
				return dto.DutyInput{
					Title: d.Title, SiteID: d.SiteID, SiteLocationID: d.SiteLocationID, DutyTimeTypeID: d.DutyTimeTypeID,
					StartDate: d.StartDate, EndDate: d.EndDate, StartTime: d.StartTime, EndTime: d.EndTime,
					RequiredGuards: d.RequiredGuards, Status: d.Status, Notes: d.Notes,
				}
			},
		},
		rules: []dto.TransitionRule{statusRule(models.DutyStatusScheduled, models.DutyStatusActive, models.DutyStatusCompleted, models.DutyStatusCancelled)},
	})
	w.Duties.setup = func(f *form.Form[models.Duty, dto.DutyInput]) {
		f.Depend(form.Dependency[dto.DutyInput]{
			Parent: "site_id",
			Fields: []string{"site_location_id"},
			Reset:  func(v *dto.DutyInput) { v.SiteLocationID = nil },
			Refetch: func(ctx context.Context, v dto.DutyInput) error {
				_, err := w.SiteLocations.lookup.Scope(ctx, "site_id", idString(v.SiteID))
				return err
			},
		})
		f.Attach(w.Sites.lookup, w.SiteLocations.lookup, w.DutyTimeTypes.lookup)
	}

	w.GuardAssignments = register(w, src, entityDef[models.GuardAssignment, dto.GuardAssignmentInput]{
		name: "guard-assignments", label: "guard assignment", table: repository.GuardAssignmentsTable,
		spec: form.Spec[models.GuardAssignment, dto.GuardAssignmentInput]{
			Defaults: func() dto.GuardAssignmentInput { return dto.GuardAssignmentInput{Status: "assigned"} },
			Tracked:  []string{"guard_id", "duty_id", "assigned_on", "status", "notes"},
			FromEntity: func(a models.GuardAssignment) dto.GuardAssignmentInput {
				return dto.GuardAssignmentInput{GuardID: a.GuardID, DutyID: a.DutyID, AssignedOn: a.AssignedOn, Status: a.Status, Notes: a.Notes}
			},
		},
		rules: []dto.TransitionRule{statusRule("assigned", "released")},
	})
	w.GuardAssignments.setup = attach[models.GuardAssignment, dto.GuardAssignmentInput](w.Guards.lookup, w.Duties.lookup)

	w.DutyAttendances = register(w, src, entityDef[models.DutyAttendance, dto.DutyAttendanceInput]{
		name: "duty-attendances", label: "duty attendance", table: repository.DutyAttendancesTable,
		spec: form.Spec[models.DutyAttendance, dto.DutyAttendanceInput]{
			Defaults: func() dto.DutyAttendanceInput { return dto.DutyAttendanceInput{Status: models.AttendancePresent} },
			Tracked:  []string{"guard_id", "duty_id", "attendance_date", "check_in_at", "check_out_at", "status", "notes"},
			FromEntity: func(a models.DutyAttendance) dto.DutyAttendanceInput {
				return dto.DutyAttendanceInput{
					GuardID: a.GuardID, DutyID: a.DutyID, AttendanceDate: a.AttendanceDate,
					CheckInAt: instant(a.CheckInAt), CheckOutAt: instant(a.CheckOutAt), Status: a.Status, Notes: a.Notes,
				}
			},
		},
		rules: []dto.TransitionRule{{Action: "check-in"}, {Action: "check-out"}},
	})
	w.DutyAttendances.setup = attach[models.DutyAttendance, dto.DutyAttendanceInput](w.Guards.lookup, w.Duties.lookup)

	w.DutyStatusReports = register(w, src, entityDef[models.DutyStatusReport, dto.DutyStatusReportInput]{
		name: "duty-status-reports", label: "duty status report", table: repository.DutyStatusReportsTable,
		spec: form.Spec[models.DutyStatusReport, dto.DutyStatusReportInput]{
			Defaults: func() dto.DutyStatusReportInput { return dto.DutyStatusReportInput{Status: "all_clear"} },
			Tracked:  []string{"guard_id", "duty_id", "status", "message"},
			FromEntity: func(r models.DutyStatusReport) dto.DutyStatusReportInput {
				return dto.DutyStatusReportInput{GuardID: r.GuardID, DutyID: r.DutyID, Status: r.Status, Message: r.Message, ReportedAt: instant(&r.ReportedAt)}
			},
		},
	})
	w.DutyStatusReports.setup = attach[models.DutyStatusReport, dto.DutyStatusReportInput](w.Guards.lookup, w.Duties.lookup)

	w.Complaints = register(w, src, entityDef[models.Complaint, dto.ComplaintInput]{
		name: "complaints", label: "complaint", table: repository.ComplaintsTable,
		spec: form.Spec[models.Complaint, dto.ComplaintInput]{
			Defaults: func() dto.ComplaintInput {
				return dto.ComplaintInput{Priority: models.PriorityMedium, Status: models.ComplaintOpen}
			},
			Tracked: []string{
				"title", "description", "priority", "status", "reported_by_id", "against_id", "site_id",
				"is_visible_to_client", "is_visible_to_guard",
			},
			FromEntity: func(c models.Complaint) dto.ComplaintInput {
				return dto.ComplaintInput{
					Title: c.Title, Description: c.Description, Priority: c.Priority, Status: c.Status,
					ReportedByID: c.ReportedByID, AgainstID: c.AgainstID, SiteID: c.SiteID,
					IsVisibleToClient: c.IsVisibleToClient, IsVisibleToGuard: c.IsVisibleToGuard,
				}
			},
			Labels: map[string]string{"against_id": "Against"},
		},
		rules: []dto.TransitionRule{
			statusRule(models.ComplaintOpen, models.ComplaintInProgress, models.ComplaintResolved, models.ComplaintClosed),
			{Action: "visibility", Flags: []string{"is_visible_to_client", "is_visible_to_guard"}},
		},
	})
	w.Complaints.setup = attach[models.Complaint, dto.ComplaintInput](w.Guards.lookup, w.Sites.lookup)

	w.ExpenseCategories = register(w, src, entityDef[models.ExpenseCategory, dto.ExpenseCategoryInput]{
		name: "expense-categories", label: "expense category", plural: "expense categories", table: repository.ExpenseCategoriesTable,
		spec: form.Spec[models.ExpenseCategory, dto.ExpenseCategoryInput]{
			Defaults: func() dto.ExpenseCategoryInput { return dto.ExpenseCategoryInput{IsActive: true} },
			Tracked:  []string{"name", "description", "is_active"},
			FromEntity: func(c models.ExpenseCategory) dto.ExpenseCategoryInput {
				return dto.ExpenseCategoryInput{Name: c.Name, Description: c.Description, IsActive: c.IsActive}
			},
		},
		rules: []dto.TransitionRule{activeRule()},
	})

	w.Expenses = register(w, src, entityDef[models.Expense, dto.ExpenseInput]{
		name: "expenses", label: "expense", table: repository.ExpensesTable,
		spec: form.Spec[models.Expense, dto.ExpenseInput]{
			Defaults: func() dto.ExpenseInput { return dto.ExpenseInput{Status: models.ExpensePending} },
			Tracked:  []string{"title", "amount", "expense_date", "expense_category_id", "guard_id", "site_id", "description", "status"},
			FromEntity: func(e models.Expense) dto.ExpenseInput {
				return dto.ExpenseInput{
					Title: e.Title, Amount: e.Amount, ExpenseDate: e.ExpenseDate, ExpenseCategoryID: e.ExpenseCategoryID,
					GuardID: e.GuardID, SiteID: e.SiteID, Description: e.Description, Status: e.Status,
				}
			},
			Labels: map[string]string{"expense_category_id": "Category"},
		},
		rules: []dto.TransitionRule{statusRule(models.ExpensePending, models.ExpenseApproved, models.ExpenseRejected)},
	})
	w.Expenses.setup = attach[models.Expense, dto.ExpenseInput](w.ExpenseCategories.lookup, w.Guards.lookup, w.Sites.lookup)

	w.ExpenseReviews = register(w, src, entityDef[models.ExpenseReview, dto.ExpenseReviewInput]{
		name: "expense-reviews", label: "expense review", table: repository.ExpenseReviewsTable,
		spec: form.Spec[models.ExpenseReview, dto.ExpenseReviewInput]{
			Tracked: []string{"expense_id", "decision", "comment"},
			FromEntity: func(r models.ExpenseReview) dto.ExpenseReviewInput {
				return dto.ExpenseReviewInput{ExpenseID: r.ExpenseID, Decision: r.Decision, Comment: r.Comment, ReviewedByID: r.ReviewedByID}
			},
		},
	})
	w.ExpenseReviews.setup = attach[models.ExpenseReview, dto.ExpenseReviewInput](w.Expenses.lookup)

	w.Leaves = register(w, src, entityDef[models.Leave, dto.LeaveInput]{
		name: "leaves", label: "leave", table: repository.LeavesTable,
		spec: form.Spec[models.Leave, dto.LeaveInput]{
			Defaults: func() dto.LeaveInput { return dto.LeaveInput{LeaveType: "annual", Status: models.LeavePending} },
			Tracked:  []string{"guard_id", "leave_type", "start_date", "end_date", "reason", "status"},
			FromEntity: func(l models.Leave) dto.LeaveInput {
				return dto.LeaveInput{GuardID: l.GuardID, LeaveType: l.LeaveType, StartDate: l.StartDate, EndDate: l.EndDate, Reason: l.Reason, Status: l.Status}
			},
		},
		rules: []dto.TransitionRule{statusRule(models.LeavePending, models.LeaveApproved, models.LeaveRejected, models.LeaveCancelled)},
	})
	w.Leaves.setup = attach[models.Leave, dto.LeaveInput](w.Guards.lookup)

	return w
}

package repository

const (
	statusAction = "status"
	activeCols   = "is_active"
)

func dateOf(col string) string  { return "to_char(" + col + ", 'YYYY-MM-DD')" }
func clockOf(col string) string { return "to_char(" + col + ", 'HH24:MI')" }

func statusTransition() map[string]Transition {
	return map[string]Transition{statusAction: {Columns: []string{"status"}}}
}

func activeTransition() map[string]Transition {
	return map[string]Transition{statusAction: {Columns: []string{activeCols}}}
}

// Table layouts for the direct PostgreSQL backend.
var (
	GuardTypesTable = TableSpec{
		Table:       "guard_types",
		Entity:      "guard type",
		Columns:     []string{"id", "name", "description", "is_active", "created_at", "updated_at"},
		Writable:    []string{"name", "description", "is_active"},
		Search:      []string{"name"},
		Filters:     map[string]string{"is_active": "is_active"},
		Sorts:       []string{"name", "created_at"},
		Transitions: activeTransition(),
	}

	GuardsTable = TableSpec{
		Table:   "guards",
		Entity:  "guard",
		Columns: []string{"id", "name", "email", "phone", "national_id", "guard_type_id", "address", "date_of_birth", "joined_on", "status", "created_at", "updated_at"},
		Casts: map[string]string{
			"date_of_birth": dateOf("date_of_birth"),
			"joined_on":     dateOf("joined_on"),
		},
		Writable:    []string{"name", "email", "phone", "national_id", "guard_type_id", "address", "date_of_birth", "joined_on", "status"},
		Search:      []string{"name", "phone", "email", "national_id"},
		Filters:     map[string]string{"status": "status", "guard_type_id": "guard_type_id"},
		Sorts:       []string{"name", "joined_on", "status", "created_at"},
		Transitions: statusTransition(),
	}

	ClientsTable = TableSpec{
		Table:       "clients",
		Entity:      "client",
		Columns:     []string{"id", "name", "contact_person", "email", "phone", "address", "status", "created_at", "updated_at"},
		Writable:    []string{"name", "contact_person", "email", "phone", "address", "status"},
		Search:      []string{"name", "contact_person", "email"},
		Filters:     map[string]string{"status": "status"},
		Sorts:       []string{"name", "status", "created_at"},
		Transitions: statusTransition(),
	}

	ContactsTable = TableSpec{
		Table:    "contacts",
		Entity:   "contact",
		Columns:  []string{"id", "client_id", "name", "email", "phone", "designation", "is_primary", "created_at", "updated_at"},
		Writable: []string{"client_id", "name", "email", "phone", "designation", "is_primary"},
		Search:   []string{"name", "email", "phone"},
		Filters:  map[string]string{"client_id": "client_id", "is_primary": "is_primary"},
		Sorts:    []string{"name", "created_at"},
	}

	SitesTable = TableSpec{
		Table:       "sites",
		Entity:      "site",
		Columns:     []string{"id", "client_id", "name", "address", "city", "latitude", "longitude", "required_guards", "status", "created_at", "updated_at"},
		Writable:    []string{"client_id", "name", "address", "city", "latitude", "longitude", "required_guards", "status"},
		Search:      []string{"name", "address", "city"},
		Filters:     map[string]string{"client_id": "client_id", "status": "status", "city": "city"},
		Sorts:       []string{"name", "city", "required_guards", "created_at"},
		Transitions: statusTransition(),
	}

	SiteLocationsTable = TableSpec{
		Table:       "site_locations",
		Entity:      "site location",
		Columns:     []string{"id", "site_id", "name", "description", "latitude", "longitude", "is_active", "created_at", "updated_at"},
		Writable:    []string{"site_id", "name", "description", "latitude", "longitude", "is_active"},
		Search:      []string{"name"},
		Filters:     map[string]string{"site_id": "site_id", "is_active": "is_active"},
		Sorts:       []string{"name", "created_at"},
		Transitions: activeTransition(),
	}

	DutyTimeTypesTable = TableSpec{
		Table:   "duty_time_types",
		Entity:  "duty time type",
		Columns: []string{"id", "name", "start_time", "end_time", "created_at", "updated_at"},
		Casts: map[string]string{
			"start_time": clockOf("start_time"),
			"end_time":   clockOf("end_time"),
		},
		Writable: []string{"name", "start_time", "end_time"},
		Search:   []string{"name"},
		Sorts:    []string{"name", "start_time", "created_at"},
	}

	DutiesTable = TableSpec{
		Table:  "duties",
		Entity: "duty",
		Columns: []string{"id", "title", "site_id", "site_location_id", "duty_time_type_id", "start_date", "end_date",
			"start_time", "end_time", "required_guards", "status", "notes", "created_at", "updated_at"},
		Casts: map[string]string{
			"start_date": dateOf("start_date"),
			"end_date":   dateOf("end_date"),
			"start_time": clockOf("start_time"),
			"end_time":   clockOf("end_time"),
		},
		Writable: []string{"title", "site_id", "site_location_id", "duty_time_type_id", "start_date", "end_date",
			"start_time", "end_time", "required_guards", "status", "notes"},
		Search:      []string{"title", "notes"},
		Filters:     map[string]string{"site_id": "site_id", "site_location_id": "site_location_id", "status": "status", "start_date": "start_date"},
		Sorts:       []string{"title", "start_date", "status", "created_at"},
		Transitions: statusTransition(),
	}

	GuardAssignmentsTable = TableSpec{
		Table:       "guard_assignments",
		Entity:      "guard assignment",
		Columns:     []string{"id", "guard_id", "duty_id", "assigned_on", "status", "notes", "created_at", "updated_at"},
		Casts:       map[string]string{"assigned_on": dateOf("assigned_on")},
		Writable:    []string{"guard_id", "duty_id", "assigned_on", "status", "notes"},
		Search:      []string{"notes"},
		Filters:     map[string]string{"guard_id": "guard_id", "duty_id": "duty_id", "status": "status"},
		Sorts:       []string{"assigned_on", "created_at"},
		Transitions: statusTransition(),
	}

	DutyAttendancesTable = TableSpec{
		Table:    "duty_attendances",
		Entity:   "duty attendance",
		Columns:  []string{"id", "guard_id", "duty_id", "attendance_date", "check_in_at", "check_out_at", "status", "notes", "created_at", "updated_at"},
		Casts:    map[string]string{"attendance_date": dateOf("attendance_date")},
		Writable: []string{"guard_id", "duty_id", "attendance_date", "check_in_at", "check_out_at", "status", "notes"},
		Search:   []string{"notes"},
		Filters:  map[string]string{"guard_id": "guard_id", "duty_id": "duty_id", "status": "status", "attendance_date": "attendance_date"},
		Sorts:    []string{"attendance_date", "check_in_at", "created_at"},
		Transitions: map[string]Transition{
			"check-in":  {Exprs: map[string]string{"check_in_at": "NOW()"}},
			"check-out": {Exprs: map[string]string{"check_out_at": "NOW()"}},
		},
	}

	DutyStatusReportsTable = TableSpec{
		Table:       "duty_status_reports",
		Entity:      "duty status report",
		Columns:     []string{"id", "guard_id", "duty_id", "status", "message", "reported_at", "created_at", "updated_at"},
		Writable:    []string{"guard_id", "duty_id", "status", "message", "reported_at"},
		Search:      []string{"message"},
		Filters:     map[string]string{"guard_id": "guard_id", "duty_id": "duty_id", "status": "status"},
		Sorts:       []string{"reported_at", "created_at"},
		DefaultSort: "reported_at",
	}

	ComplaintsTable = TableSpec{
		Table:  "complaints",
		Entity: "complaint",
		Columns: []string{"id", "title", "description", "priority", "status", "reported_by_id", "against_id", "site_id",
			"is_visible_to_client", "is_visible_to_guard", "created_at", "updated_at"},
		Writable: []string{"title", "description", "priority", "status", "reported_by_id", "against_id", "site_id",
			"is_visible_to_client", "is_visible_to_guard"},
		Search:  []string{"title", "description"},
		Filters: map[string]string{"status": "status", "priority": "priority", "site_id": "site_id"},
		Sorts:   []string{"title", "priority", "status", "created_at"},
		Transitions: map[string]Transition{
			statusAction: {Columns: []string{"status"}},
			"visibility": {Columns: []string{"is_visible_to_client", "is_visible_to_guard"}},
		},
	}

	ExpenseCategoriesTable = TableSpec{
		Table:       "expense_categories",
		Entity:      "expense category",
		Columns:     []string{"id", "name", "description", "is_active", "created_at", "updated_at"},
		Writable:    []string{"name", "description", "is_active"},
		Search:      []string{"name"},
		Filters:     map[string]string{"is_active": "is_active"},
		Sorts:       []string{"name", "created_at"},
		Transitions: activeTransition(),
	}

	ExpensesTable = TableSpec{
		Table:  "expenses",
		Entity: "expense",
		Columns: []string{"id", "title", "amount", "expense_date", "expense_category_id", "guard_id", "site_id", "description",
			"status", "created_at", "updated_at"},
		Casts: map[string]string{"expense_date": dateOf("expense_date")},
		Writable: []string{"title", "amount", "expense_date", "expense_category_id", "guard_id", "site_id", "description",
			"status"},
		Search:      []string{"title", "description"},
		Filters:     map[string]string{"status": "status", "expense_category_id": "expense_category_id", "guard_id": "guard_id", "site_id": "site_id"},
		Sorts:       []string{"title", "amount", "expense_date", "created_at"},
		Transitions: statusTransition(),
	}

	ExpenseReviewsTable = TableSpec{
		Table:    "expense_reviews",
		Entity:   "expense review",
		Columns:  []string{"id", "expense_id", "decision", "comment", "reviewed_by_id", "created_at", "updated_at"},
		Writable: []string{"expense_id", "decision", "comment", "reviewed_by_id"},
		Search:   []string{"comment"},
		Filters:  map[string]string{"expense_id": "expense_id", "decision": "decision"},
		Sorts:    []string{"created_at"},
	}

	LeavesTable = TableSpec{
		Table:   "leaves",
		Entity:  "leave",
		Columns: []string{"id", "guard_id", "leave_type", "start_date", "end_date", "reason", "status", "created_at", "updated_at"},
		Casts: map[string]string{
			"start_date": dateOf("start_date"),
			"end_date":   dateOf("end_date"),
		},
		Writable:    []string{"guard_id", "leave_type", "start_date", "end_date", "reason", "status"},
		Search:      []string{"reason"},
		Filters:     map[string]string{"guard_id": "guard_id", "status": "status", "leave_type": "leave_type"},
		Sorts:       []string{"start_date", "status", "created_at"},
		Transitions: statusTransition(),
	}
)

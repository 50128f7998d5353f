package models

import "time"

// Expense and review decisions.
const (
	ExpensePending  = "pending"
	ExpenseApproved = "approved"
	ExpenseRejected = "rejected"
)

// ExpenseCategory groups expenses (fuel, uniforms, equipment).
type ExpenseCategory struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EntityID implements Identifiable.
func (c ExpenseCategory) EntityID() int64 { return c.ID }

// Expense is a cost claimed against a site or guard.
type Expense struct {
	ID                int64         `db:"id" json:"id"`
	Title             string        `db:"title" json:"title"`
	Amount            float64       `db:"amount" json:"amount"`
	ExpenseDate       string        `db:"expense_date" json:"expense_date"`
	ExpenseCategoryID int64         `db:"expense_category_id" json:"expense_category_id"`
	GuardID           *int64        `db:"guard_id" json:"guard_id,omitempty"`
	SiteID            *int64        `db:"site_id" json:"site_id,omitempty"`
	Description       *string       `db:"description" json:"description,omitempty"`
	Status            string        `db:"status" json:"status"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
	Category          *NamedSummary `db:"-" json:"category,omitempty"`
}

// EntityID implements Identifiable.
func (e Expense) EntityID() int64 { return e.ID }

// ExpenseReview is an approval or rejection recorded against an expense.
type ExpenseReview struct {
	ID           int64     `db:"id" json:"id"`
	ExpenseID    int64     `db:"expense_id" json:"expense_id"`
	Decision     string    `db:"decision" json:"decision"`
	Comment      *string   `db:"comment" json:"comment,omitempty"`
	ReviewedByID *int64    `db:"reviewed_by_id" json:"reviewed_by_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// EntityID implements Identifiable.
func (r ExpenseReview) EntityID() int64 { return r.ID }

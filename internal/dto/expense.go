package dto

// ExpenseCategoryInput is the create/edit payload for an expense category.
type ExpenseCategoryInput struct {
	Name        string  `json:"name" form:"name" validate:"required,max=100"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=500"`
	IsActive    bool    `json:"is_active" form:"is_active"`
}

// ExpenseInput is the create/edit payload for an expense.
type ExpenseInput struct {
	Title             string  `json:"title" form:"title" validate:"required,max=200"`
	Amount            float64 `json:"amount" form:"amount" validate:"required,gt=0,lte=10000000"`
	ExpenseDate       string  `json:"expense_date" form:"expense_date" validate:"required,datetime=2006-01-02"`
	ExpenseCategoryID int64   `json:"expense_category_id" form:"expense_category_id" validate:"required,gt=0"`
	GuardID           *int64  `json:"guard_id" form:"guard_id" validate:"omitempty,gt=0"`
	SiteID            *int64  `json:"site_id" form:"site_id" validate:"omitempty,gt=0"`
	Description       *string `json:"description" form:"description" validate:"omitempty,max=2000"`
	Status            string  `json:"status" form:"status" validate:"required,oneof=pending approved rejected"`
}

// ExpenseReviewInput records a decision on an expense.
type ExpenseReviewInput struct {
	ExpenseID    int64   `json:"expense_id" form:"expense_id" validate:"required,gt=0"`
	Decision     string  `json:"decision" form:"decision" validate:"required,oneof=approved rejected"`
	Comment      *string `json:"comment" form:"comment" validate:"omitempty,max=1000"`
	ReviewedByID *int64  `json:"reviewed_by_id" form:"reviewed_by_id" validate:"omitempty,gt=0"`
}

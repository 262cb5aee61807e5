package costcenters

import "time"

// CostCenter models a cost-allocation node. The hierarchy is independent of
// the chart of accounts.
type CostCenter struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    *int64    `json:"parent_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateForm carries the payload for creating a cost center.
type CreateForm struct {
	Code        string `json:"code" validate:"required,max=20"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id"`
}

// UpdateForm carries a partial update; nil pointers are left untouched and a
// ParentID of 0 detaches the node.
type UpdateForm struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ParentID    *int64  `json:"parent_id"`
	IsActive    *bool   `json:"is_active"`
}

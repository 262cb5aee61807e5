package accounts

// CreateForm carries the payload for creating an account.
type CreateForm struct {
	Code          string `json:"code" validate:"required,max=20"`
	Name          string `json:"name" validate:"required,max=200"`
	AccountTypeID int64  `json:"account_type_id" validate:"required"`
	ParentID      *int64 `json:"parent_id"`
	Level         int    `json:"level"`
	IsAnalytical  *bool  `json:"is_analytical"`
}

// UpdateForm carries a partial update. Nil pointers leave the field
// untouched; a ParentID of 0 detaches the account from its parent.
type UpdateForm struct {
	Name          *string `json:"name"`
	AccountTypeID *int64  `json:"account_type_id"`
	ParentID      *int64  `json:"parent_id"`
	Level         *int    `json:"level"`
	IsAnalytical  *bool   `json:"is_analytical"`
	IsActive      *bool   `json:"is_active"`
}

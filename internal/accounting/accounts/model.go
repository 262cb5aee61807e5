package accounts

import "time"

// Account models a chart of accounts node. Codes are unique per company;
// the full hierarchical code is derived on read by walking the parent chain.
type Account struct {
	ID            int64     `json:"id"`
	CompanyID     int64     `json:"company_id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	AccountTypeID int64     `json:"account_type_id"`
	ParentID      *int64    `json:"parent_id,omitempty"`
	Level         int       `json:"level"`
	IsAnalytical  bool      `json:"is_analytical"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// View augments an Account with derived presentation fields.
type View struct {
	Account
	FullCode        string `json:"full_code"`
	AccountTypeName string `json:"account_type_name,omitempty"`
}

// FullCode derives the dot-joined hierarchical code for the account with the
// given ID. Lookups are iterative by parent ID; a broken or cyclic chain
// terminates at the first unresolvable hop.
func FullCode(byID map[int64]Account, id int64) string {
	acc, ok := byID[id]
	if !ok {
		return ""
	}
	code := acc.Code
	seen := map[int64]bool{id: true}
	for acc.ParentID != nil {
		parent, ok := byID[*acc.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		code = parent.Code + "." + code
		acc = parent
	}
	return code
}

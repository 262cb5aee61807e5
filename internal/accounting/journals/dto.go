package journals

import (
	"time"

	"github.com/shopspring/decimal"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
)

// LineForm is one journal line as submitted by the client. Decimal fields
// accept both JSON numbers and quoted strings.
type LineForm struct {
	AccountID    int64           `json:"account_id" validate:"required"`
	CostCenterID *int64          `json:"cost_center_id"`
	Description  string          `json:"description" validate:"max=255"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// CreateForm is the journal entry creation payload.
type CreateForm struct {
	EntryDate   string           `json:"entry_date" validate:"required"`
	Description string           `json:"description" validate:"required,max=255"`
	DocumentRef string           `json:"document_ref" validate:"max=100"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Lines       []LineForm       `json:"lines" validate:"required,min=2,dive"`
}

// ListFilter narrows entry listings.
type ListFilter struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PerPage   int
}

// toLines converts forms to domain lines, enforcing the per-line rules:
// non-negative amounts and exactly one non-zero side.
func toLines(forms []LineForm) ([]Line, error) {
	if len(forms) < 2 {
		return nil, acctshared.ErrTooFewLines
	}
	lines := make([]Line, 0, len(forms))
	for i, f := range forms {
		if f.Debit.IsNegative() || f.Credit.IsNegative() {
			return nil, acctshared.ErrUnbalanced
		}
		debitSet := f.Debit.IsPositive()
		creditSet := f.Credit.IsPositive()
		if debitSet == creditSet {
			return nil, acctshared.ErrUnbalanced
		}
		lines = append(lines, Line{
			AccountID:    f.AccountID,
			CostCenterID: f.CostCenterID,
			Description:  f.Description,
			Debit:        f.Debit,
			Credit:       f.Credit,
			Position:     i + 1,
		})
	}
	return lines, nil
}

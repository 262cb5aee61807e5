package journals

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the journal entry lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPosted    Status = "posted"
	StatusCancelled Status = "cancelled"
)

// Entry is a journal entry header. Amounts are exact decimals; TotalAmount
// always equals the sum of line debits.
type Entry struct {
	ID          int64           `json:"id"`
	CompanyID   int64           `json:"company_id"`
	EntryNumber string          `json:"entry_number"`
	EntryDate   time.Time       `json:"entry_date"`
	Description string          `json:"description"`
	DocumentRef string          `json:"document_ref,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      Status          `json:"status"`
	CreatedBy   int64           `json:"created_by"`
	PostedAt    *time.Time      `json:"posted_at,omitempty"`
	PostedBy    *int64          `json:"posted_by,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Lines       []Line          `json:"lines,omitempty"`
}

// Line is a single debit or credit against an analytical account.
type Line struct {
	ID           int64           `json:"id"`
	EntryID      int64           `json:"entry_id"`
	AccountID    int64           `json:"account_id"`
	CostCenterID *int64          `json:"cost_center_id,omitempty"`
	Description  string          `json:"description,omitempty"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Position     int             `json:"position"`
}

// SumDebits adds up the debit side of the lines.
func SumDebits(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Debit)
	}
	return total
}

// SumCredits adds up the credit side of the lines.
func SumCredits(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Credit)
	}
	return total
}

// Balanced reports exact decimal equality of the two sides.
func Balanced(lines []Line) bool {
	return SumDebits(lines).Equal(SumCredits(lines))
}

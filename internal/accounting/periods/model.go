package periods

import "time"

// FiscalPeriod represents a company-scoped calendar month window. Closed
// periods reject new postings.
type FiscalPeriod struct {
	ID        int64      `json:"id"`
	CompanyID int64      `json:"company_id"`
	Year      int        `json:"year"`
	Month     int        `json:"month"`
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	IsClosed  bool       `json:"is_closed"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	ClosedBy  *int64     `json:"closed_by,omitempty"`
}

// Contains reports whether the date falls inside the period window.
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

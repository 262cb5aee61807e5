package periods

import (
	"context"
	"errors"
	"time"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
)

// Guard answers whether a company may post on a given date. Journal
// operations consult it before any write.
type Guard interface {
	EnsureOpenForDate(ctx context.Context, companyID int64, date time.Time) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, companyID int64) ([]FiscalPeriod, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, id int64) (FiscalPeriod, error) {
	return s.repo.Get(ctx, id)
}

// Open creates the fiscal period for the given month. Window bounds are
// derived from year and month.
func (s *Service) Open(ctx context.Context, companyID int64, year, month int) (FiscalPeriod, error) {
	if year < 1900 || year > 2200 || month < 1 || month > 12 {
		return FiscalPeriod{}, acctshared.ErrInvalidReference
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return s.repo.Create(ctx, FiscalPeriod{
		CompanyID: companyID,
		Year:      year,
		Month:     month,
		StartDate: start,
		EndDate:   end,
	})
}

func (s *Service) Close(ctx context.Context, id, userID int64) error {
	return s.repo.SetClosed(ctx, id, true, userID)
}

func (s *Service) Reopen(ctx context.Context, id, userID int64) error {
	return s.repo.SetClosed(ctx, id, false, userID)
}

// EnsureOpenForDate rejects dates covered by a closed period. A date with
// no period at all is allowed.
func (s *Service) EnsureOpenForDate(ctx context.Context, companyID int64, date time.Time) error {
	p, err := s.repo.FindByDate(ctx, companyID, date)
	if err != nil {
		if errors.Is(err, ErrNoPeriod) {
			return nil
		}
		return err
	}
	if p.IsClosed {
		return acctshared.ErrPeriodClosed
	}
	return nil
}

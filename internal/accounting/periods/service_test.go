package periods

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
)

type fakePeriodRepo struct {
	periods map[int64]FiscalPeriod
	nextID  int64
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{periods: map[int64]FiscalPeriod{}}
}

func (f *fakePeriodRepo) ListByCompany(ctx context.Context, companyID int64) ([]FiscalPeriod, error) {
	var out []FiscalPeriod
	for _, p := range f.periods {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePeriodRepo) Get(ctx context.Context, id int64) (FiscalPeriod, error) {
	p, ok := f.periods[id]
	if !ok {
		return FiscalPeriod{}, ErrNoPeriod
	}
	return p, nil
}

func (f *fakePeriodRepo) FindByDate(ctx context.Context, companyID int64, date time.Time) (FiscalPeriod, error) {
	for _, p := range f.periods {
		if p.CompanyID == companyID && p.Contains(date) {
			return p, nil
		}
	}
	return FiscalPeriod{}, ErrNoPeriod
}

func (f *fakePeriodRepo) Create(ctx context.Context, p FiscalPeriod) (FiscalPeriod, error) {
	for _, existing := range f.periods {
		if existing.CompanyID == p.CompanyID && existing.Year == p.Year && existing.Month == p.Month {
			return FiscalPeriod{}, acctshared.ErrDuplicateCode
		}
	}
	f.nextID++
	p.ID = f.nextID
	f.periods[p.ID] = p
	return p, nil
}

func (f *fakePeriodRepo) SetClosed(ctx context.Context, id int64, closed bool, closedBy int64) error {
	p, ok := f.periods[id]
	if !ok {
		return ErrNoPeriod
	}
	p.IsClosed = closed
	f.periods[id] = p
	return nil
}

func TestOpenDerivesMonthWindow(t *testing.T) {
	svc := NewService(newFakePeriodRepo())

	p, err := svc.Open(context.Background(), 10, 2026, 2)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), p.StartDate)
	require.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), p.EndDate)
	require.False(t, p.IsClosed)
}

func TestOpenRejectsDuplicateMonth(t *testing.T) {
	svc := NewService(newFakePeriodRepo())

	_, err := svc.Open(context.Background(), 10, 2026, 3)
	require.NoError(t, err)
	_, err = svc.Open(context.Background(), 10, 2026, 3)
	require.ErrorIs(t, err, acctshared.ErrDuplicateCode)
}

func TestOpenRejectsBadMonth(t *testing.T) {
	svc := NewService(newFakePeriodRepo())

	_, err := svc.Open(context.Background(), 10, 2026, 13)
	require.ErrorIs(t, err, acctshared.ErrInvalidReference)
}

func TestGetReflectsCloseAndReopen(t *testing.T) {
	svc := NewService(newFakePeriodRepo())

	p, err := svc.Open(context.Background(), 10, 2026, 4)
	require.NoError(t, err)

	require.NoError(t, svc.Close(context.Background(), p.ID, 1))
	closed, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.True(t, closed.IsClosed)

	require.NoError(t, svc.Reopen(context.Background(), p.ID, 1))
	reopened, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.False(t, reopened.IsClosed)
}

func TestEnsureOpenForDateAllowsMissingPeriod(t *testing.T) {
	svc := NewService(newFakePeriodRepo())

	err := svc.EnsureOpenForDate(context.Background(), 10, time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
}

func TestEnsureOpenForDateRejectsClosedPeriod(t *testing.T) {
	repo := newFakePeriodRepo()
	svc := NewService(repo)

	p, err := svc.Open(context.Background(), 10, 2026, 3)
	require.NoError(t, err)
	require.NoError(t, svc.Close(context.Background(), p.ID, 1))

	inside := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	require.ErrorIs(t, svc.EnsureOpenForDate(context.Background(), 10, inside), acctshared.ErrPeriodClosed)

	// Reopening lifts the restriction.
	require.NoError(t, svc.Reopen(context.Background(), p.ID, 1))
	require.NoError(t, svc.EnsureOpenForDate(context.Background(), 10, inside))
}

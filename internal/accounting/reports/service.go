package reports

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/razao-erp/razao-erp/internal/accounting/accounts"
	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
	"github.com/razao-erp/razao-erp/internal/accounting/types"
)

type Service struct {
	repo     Repository
	accounts accounts.Repository
	catalog  *types.Catalog
	cache    *Cache
	group    singleflight.Group
}

func NewService(repo Repository, accountsRepo accounts.Repository, catalog *types.Catalog, cache *Cache) *Service {
	return &Service{repo: repo, accounts: accountsRepo, catalog: catalog, cache: cache}
}

// AccountBalance computes the nature-signed movement of one account over
// the period. Not cached; single-account reads are cheap.
func (s *Service) AccountBalance(ctx context.Context, accountID int64, start, end *time.Time) (AccountBalance, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return AccountBalance{}, err
	}
	at, ok := s.catalog.Get(account.AccountTypeID)
	if !ok {
		return AccountBalance{}, acctshared.ErrInvalidReference
	}
	all, err := s.accounts.ListByCompany(ctx, account.CompanyID, false)
	if err != nil {
		return AccountBalance{}, err
	}
	byID := indexAccounts(all)
	totals, err := s.repo.AccountTotals(ctx, accountID, start, end)
	if err != nil {
		return AccountBalance{}, err
	}
	return AccountBalance{
		AccountID:   accountID,
		AccountCode: accounts.FullCode(byID, accountID),
		AccountName: account.Name,
		Balance:     NatureBalance(at.Nature, totals.Debit, totals.Credit),
		StartDate:   formatDate(start),
		EndDate:     formatDate(end),
	}, nil
}

// TrialBalance builds the per-account debit/credit columns for the period.
// Results are cached; concurrent misses for the same key collapse into one
// build.
func (s *Service) TrialBalance(ctx context.Context, companyID int64, start, end *time.Time) (TrialBalance, error) {
	key, err := s.cache.BuildKey(ctx, companyID, "tb", formatDate(start), formatDate(end))
	if err != nil {
		return TrialBalance{}, err
	}
	result, err, _ := s.group.Do(key, func() (any, error) {
		var tb TrialBalance
		err := s.cache.FetchJSON(ctx, key, &tb, func(ctx context.Context) (any, error) {
			return s.buildTrialBalance(ctx, companyID, start, end)
		})
		return tb, err
	})
	if err != nil {
		return TrialBalance{}, err
	}
	return result.(TrialBalance), nil
}

func (s *Service) buildTrialBalance(ctx context.Context, companyID int64, start, end *time.Time) (TrialBalance, error) {
	infos, err := s.accountInfos(ctx, companyID)
	if err != nil {
		return TrialBalance{}, err
	}
	totals, err := s.repo.CompanyTotals(ctx, companyID, start, end)
	if err != nil {
		return TrialBalance{}, err
	}
	tb := BuildTrialBalance(infos, totals)
	tb.StartDate = formatDate(start)
	tb.EndDate = formatDate(end)
	return tb, nil
}

// BalanceSheet builds the cumulative position up to endDate. Since
// inception when endDate is nil.
func (s *Service) BalanceSheet(ctx context.Context, companyID int64, end *time.Time) (BalanceSheet, error) {
	key, err := s.cache.BuildKey(ctx, companyID, "bs", formatDate(end))
	if err != nil {
		return BalanceSheet{}, err
	}
	result, err, _ := s.group.Do(key, func() (any, error) {
		var bs BalanceSheet
		err := s.cache.FetchJSON(ctx, key, &bs, func(ctx context.Context) (any, error) {
			return s.buildBalanceSheet(ctx, companyID, end)
		})
		return bs, err
	})
	if err != nil {
		return BalanceSheet{}, err
	}
	return result.(BalanceSheet), nil
}

func (s *Service) buildBalanceSheet(ctx context.Context, companyID int64, end *time.Time) (BalanceSheet, error) {
	infos, err := s.accountInfos(ctx, companyID)
	if err != nil {
		return BalanceSheet{}, err
	}
	totals, err := s.repo.CompanyTotals(ctx, companyID, nil, end)
	if err != nil {
		return BalanceSheet{}, err
	}
	bs := BuildBalanceSheet(infos, totals)
	bs.EndDate = formatDate(end)
	return bs, nil
}

// Warm rebuilds the cached trial balance and balance sheet for a company.
// Used by the scheduled warmup job.
func (s *Service) Warm(ctx context.Context, companyID int64) error {
	if _, err := s.TrialBalance(ctx, companyID, nil, nil); err != nil {
		return err
	}
	_, err := s.BalanceSheet(ctx, companyID, nil)
	return err
}

// accountInfos resolves active analytical accounts with their full codes
// and catalog classification. Full codes walk the whole chart, including
// inactive ancestors.
func (s *Service) accountInfos(ctx context.Context, companyID int64) ([]AccountInfo, error) {
	all, err := s.accounts.ListByCompany(ctx, companyID, false)
	if err != nil {
		return nil, err
	}
	byID := indexAccounts(all)
	infos := make([]AccountInfo, 0, len(all))
	for _, a := range all {
		if !a.IsActive || !a.IsAnalytical {
			continue
		}
		at, ok := s.catalog.Get(a.AccountTypeID)
		if !ok {
			continue
		}
		infos = append(infos, AccountInfo{
			ID:       a.ID,
			FullCode: accounts.FullCode(byID, a.ID),
			Name:     a.Name,
			Nature:   at.Nature,
			Category: at.Category,
		})
	}
	return infos, nil
}

func indexAccounts(list []accounts.Account) map[int64]accounts.Account {
	byID := make(map[int64]accounts.Account, len(list))
	for _, a := range list {
		byID[a.ID] = a
	}
	return byID
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

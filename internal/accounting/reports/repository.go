package reports

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AccountTotal carries the posted debit/credit sums for one account.
type AccountTotal struct {
	AccountID int64
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// Repository aggregates posted journal lines. Draft and cancelled entries
// never contribute.
type Repository interface {
	AccountTotals(ctx context.Context, accountID int64, start, end *time.Time) (AccountTotal, error)
	CompanyTotals(ctx context.Context, companyID int64, start, end *time.Time) (map[int64]AccountTotal, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) AccountTotals(ctx context.Context, accountID int64, start, end *time.Time) (AccountTotal, error) {
	query, args := accountTotalsQuery(accountID, start, end)

	total := AccountTotal{AccountID: accountID}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total.Debit, &total.Credit); err != nil {
		return AccountTotal{}, err
	}
	return total, nil
}

func (r *repository) CompanyTotals(ctx context.Context, companyID int64, start, end *time.Time) (map[int64]AccountTotal, error) {
	query, args := companyTotalsQuery(companyID, start, end)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	totals := make(map[int64]AccountTotal)
	for rows.Next() {
		var t AccountTotal
		if err := rows.Scan(&t.AccountID, &t.Debit, &t.Credit); err != nil {
			return nil, err
		}
		totals[t.AccountID] = t
	}
	return totals, rows.Err()
}

// accountTotalsQuery only aggregates lines of posted entries. Drafts and
// cancelled entries never reach a balance.
func accountTotalsQuery(accountID int64, start, end *time.Time) (string, []any) {
	query := `
SELECT COALESCE(SUM(l.debit),0), COALESCE(SUM(l.credit),0)
FROM journal_lines l
JOIN journal_entries e ON e.id = l.entry_id
WHERE l.account_id=$1 AND e.status='posted'`
	return appendDateFilters(query, []any{accountID}, start, end)
}

func companyTotalsQuery(companyID int64, start, end *time.Time) (string, []any) {
	query := `
SELECT l.account_id, COALESCE(SUM(l.debit),0), COALESCE(SUM(l.credit),0)
FROM journal_lines l
JOIN journal_entries e ON e.id = l.entry_id
WHERE e.company_id=$1 AND e.status='posted'`
	query, args := appendDateFilters(query, []any{companyID}, start, end)
	return query + ` GROUP BY l.account_id`, args
}

func appendDateFilters(query string, args []any, start, end *time.Time) (string, []any) {
	if start != nil {
		args = append(args, *start)
		query += ` AND e.entry_date>=$` + strconv.Itoa(len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += ` AND e.entry_date<=$` + strconv.Itoa(len(args))
	}
	return query, args
}

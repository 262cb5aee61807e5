package periods

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
	"github.com/razao-erp/razao-erp/internal/shared"
)

// Repository encapsulates DB operations for fiscal periods.
type Repository interface {
	ListByCompany(ctx context.Context, companyID int64) ([]FiscalPeriod, error)
	Get(ctx context.Context, id int64) (FiscalPeriod, error)
	FindByDate(ctx context.Context, companyID int64, date time.Time) (FiscalPeriod, error)
	Create(ctx context.Context, p FiscalPeriod) (FiscalPeriod, error)
	SetClosed(ctx context.Context, id int64, closed bool, closedBy int64) error
}

// ErrNoPeriod indicates no fiscal period covers the requested date.
var ErrNoPeriod = errors.New("accounting: no fiscal period for date")

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const periodColumns = `id, company_id, year, month, start_date, end_date, is_closed, closed_at, closed_by`

func scanPeriod(row pgx.Row) (FiscalPeriod, error) {
	var p FiscalPeriod
	err := row.Scan(&p.ID, &p.CompanyID, &p.Year, &p.Month, &p.StartDate, &p.EndDate, &p.IsClosed, &p.ClosedAt, &p.ClosedBy)
	return p, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64) ([]FiscalPeriod, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+periodColumns+` FROM fiscal_periods WHERE company_id=$1 ORDER BY year, month`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var periods []FiscalPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (FiscalPeriod, error) {
	p, err := scanPeriod(r.pool.QueryRow(ctx, `SELECT `+periodColumns+` FROM fiscal_periods WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FiscalPeriod{}, shared.ErrNotFound
		}
		return FiscalPeriod{}, err
	}
	return p, nil
}

func (r *repository) FindByDate(ctx context.Context, companyID int64, date time.Time) (FiscalPeriod, error) {
	p, err := scanPeriod(r.pool.QueryRow(ctx,
		`SELECT `+periodColumns+` FROM fiscal_periods WHERE company_id=$1 AND start_date<=$2 AND end_date>=$2`, companyID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FiscalPeriod{}, ErrNoPeriod
		}
		return FiscalPeriod{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p FiscalPeriod) (FiscalPeriod, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO fiscal_periods (company_id, year, month, start_date, end_date, is_closed)
VALUES ($1,$2,$3,$4,$5,FALSE)
RETURNING `+periodColumns,
		p.CompanyID, p.Year, p.Month, p.StartDate, p.EndDate)
	created, err := scanPeriod(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return FiscalPeriod{}, acctshared.ErrDuplicateCode
		}
		return FiscalPeriod{}, err
	}
	return created, nil
}

func (r *repository) SetClosed(ctx context.Context, id int64, closed bool, closedBy int64) error {
	var cmd pgconn.CommandTag
	var err error
	if closed {
		cmd, err = r.pool.Exec(ctx, `UPDATE fiscal_periods SET is_closed=TRUE, closed_at=NOW(), closed_by=$2 WHERE id=$1`, id, closedBy)
	} else {
		cmd, err = r.pool.Exec(ctx, `UPDATE fiscal_periods SET is_closed=FALSE, closed_at=NULL, closed_by=NULL WHERE id=$1`, id)
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

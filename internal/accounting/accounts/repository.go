package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
)

// Repository encapsulates DB operations for the chart of accounts.
type Repository interface {
	ListByCompany(ctx context.Context, companyID int64, onlyActive bool) ([]Account, error)
	Get(ctx context.Context, id int64) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	Update(ctx context.Context, account Account) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const accountColumns = `id, company_id, code, name, account_type_id, parent_id, level, is_analytical, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.AccountTypeID, &a.ParentID, &a.Level, &a.IsAnalytical, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64, onlyActive bool) ([]Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id=$1`
	if onlyActive {
		query += ` AND is_active`
	}
	query += ` ORDER BY code`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, acctshared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, account Account) (Account, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO accounts (company_id, code, name, account_type_id, parent_id, level, is_analytical, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,TRUE,NOW(),NOW())
RETURNING `+accountColumns,
		account.CompanyID, account.Code, account.Name, account.AccountTypeID, account.ParentID, account.Level, account.IsAnalytical)
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, acctshared.ErrDuplicateCode
		}
		return Account{}, err
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, account Account) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE accounts
SET name=$2, account_type_id=$3, parent_id=$4, level=$5, is_analytical=$6, is_active=$7, updated_at=NOW()
WHERE id=$1`,
		account.ID, account.Name, account.AccountTypeID, account.ParentID, account.Level, account.IsAnalytical, account.IsActive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return acctshared.ErrAccountNotFound
	}
	return nil
}

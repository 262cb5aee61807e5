package companies

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/razao-erp/razao-erp/internal/shared"
)

// ErrDuplicateCNPJ indicates a company with the same CNPJ already exists.
var ErrDuplicateCNPJ = errors.New("companies: cnpj already registered")

// Repository encapsulates DB operations for companies.
type Repository interface {
	List(ctx context.Context, onlyActive bool) ([]Company, error)
	Get(ctx context.Context, id int64) (Company, error)
	Create(ctx context.Context, company Company) (Company, error)
	Update(ctx context.Context, id int64, company Company) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const companyColumns = `id, cnpj, name, trade_name, email, phone, address, city, state, zip_code, tax_regime, is_active, created_at, updated_at`

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.CNPJ, &c.Name, &c.TradeName, &c.Email, &c.Phone, &c.Address, &c.City, &c.State, &c.ZipCode, &c.TaxRegime, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context, onlyActive bool) ([]Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Company, error) {
	c, err := scanCompany(r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, shared.ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, company Company) (Company, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO companies (cnpj, name, trade_name, email, phone, address, city, state, zip_code, tax_regime, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,TRUE,NOW(),NOW())
RETURNING `+companyColumns,
		company.CNPJ, company.Name, company.TradeName, company.Email, company.Phone,
		company.Address, company.City, company.State, company.ZipCode, company.TaxRegime)
	created, err := scanCompany(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Company{}, ErrDuplicateCNPJ
		}
		return Company{}, err
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, company Company) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE companies
SET name=$2, trade_name=$3, email=$4, phone=$5, address=$6, city=$7, state=$8, zip_code=$9, tax_regime=$10, updated_at=NOW()
WHERE id=$1`,
		id, company.Name, company.TradeName, company.Email, company.Phone,
		company.Address, company.City, company.State, company.ZipCode, company.TaxRegime)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

package costcenters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
)

// Repository encapsulates DB operations for cost centers.
type Repository interface {
	ListByCompany(ctx context.Context, companyID int64, onlyActive bool) ([]CostCenter, error)
	Get(ctx context.Context, id int64) (CostCenter, error)
	Create(ctx context.Context, cc CostCenter) (CostCenter, error)
	Update(ctx context.Context, cc CostCenter) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const costCenterColumns = `id, company_id, code, name, description, parent_id, is_active, created_at, updated_at`

func scanCostCenter(row pgx.Row) (CostCenter, error) {
	var cc CostCenter
	err := row.Scan(&cc.ID, &cc.CompanyID, &cc.Code, &cc.Name, &cc.Description, &cc.ParentID, &cc.IsActive, &cc.CreatedAt, &cc.UpdatedAt)
	return cc, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64, onlyActive bool) ([]CostCenter, error) {
	query := `SELECT ` + costCenterColumns + ` FROM cost_centers WHERE company_id=$1`
	if onlyActive {
		query += ` AND is_active`
	}
	query += ` ORDER BY code`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var centers []CostCenter
	for rows.Next() {
		cc, err := scanCostCenter(rows)
		if err != nil {
			return nil, err
		}
		centers = append(centers, cc)
	}
	return centers, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (CostCenter, error) {
	cc, err := scanCostCenter(r.pool.QueryRow(ctx, `SELECT `+costCenterColumns+` FROM cost_centers WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CostCenter{}, acctshared.ErrInvalidReference
		}
		return CostCenter{}, err
	}
	return cc, nil
}

func (r *repository) Create(ctx context.Context, cc CostCenter) (CostCenter, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO cost_centers (company_id, code, name, description, parent_id, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,TRUE,NOW(),NOW())
RETURNING `+costCenterColumns,
		cc.CompanyID, cc.Code, cc.Name, cc.Description, cc.ParentID)
	created, err := scanCostCenter(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return CostCenter{}, acctshared.ErrDuplicateCode
		}
		return CostCenter{}, err
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, cc CostCenter) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cost_centers
SET name=$2, description=$3, parent_id=$4, is_active=$5, updated_at=NOW()
WHERE id=$1`,
		cc.ID, cc.Name, cc.Description, cc.ParentID, cc.IsActive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return acctshared.ErrInvalidReference
	}
	return nil
}

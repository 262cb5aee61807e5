package journals

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
	"github.com/razao-erp/razao-erp/internal/platform/db"
	"github.com/razao-erp/razao-erp/internal/shared"
)

// Repository exposes read operations plus a transactional scope for the
// lifecycle mutations.
type Repository interface {
	WithTx(ctx context.Context, fn func(TxRepository) error) error
	GetWithLines(ctx context.Context, id int64) (Entry, error)
	List(ctx context.Context, companyID int64, filter ListFilter) ([]Entry, int, error)
}

// TxRepository runs inside a single RepeatableRead transaction. The entry,
// its lines, the number counter and the idempotency claim commit or roll
// back together.
type TxRepository interface {
	ClaimIdempotencyKey(ctx context.Context, key, module string) error
	NextEntryNumber(ctx context.Context, companyID int64) (string, error)
	InsertEntry(ctx context.Context, entry Entry) (Entry, error)
	InsertLines(ctx context.Context, entryID int64, lines []Line) ([]Line, error)
	GetEntryForUpdate(ctx context.Context, id int64) (Entry, error)
	LoadLines(ctx context.Context, entryID int64) ([]Line, error)
	MarkPosted(ctx context.Context, id, postedBy int64) error
	MarkCancelled(ctx context.Context, id int64) error
	DeleteDraft(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{tx: tx})
	})
}

const entryColumns = `id, company_id, entry_number, entry_date, description, document_ref, total_amount, status, created_by, posted_at, posted_by, cancelled_at, created_at, updated_at`

const lineColumns = `id, entry_id, account_id, cost_center_id, description, debit, credit, position`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.CompanyID, &e.EntryNumber, &e.EntryDate, &e.Description, &e.DocumentRef,
		&e.TotalAmount, &e.Status, &e.CreatedBy, &e.PostedAt, &e.PostedBy, &e.CancelledAt, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func collectLines(rows pgx.Rows) ([]Line, error) {
	defer rows.Close()
	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.CostCenterID, &l.Description, &l.Debit, &l.Credit, &l.Position); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) GetWithLines(ctx context.Context, id int64) (Entry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, acctshared.ErrEntryNotFound
		}
		return Entry{}, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+lineColumns+` FROM journal_lines WHERE entry_id=$1 ORDER BY position`, id)
	if err != nil {
		return Entry{}, err
	}
	e.Lines, err = collectLines(rows)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (r *repository) List(ctx context.Context, companyID int64, filter ListFilter) ([]Entry, int, error) {
	where := `WHERE company_id=$1`
	args := []any{companyID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND status=$%d`, len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += fmt.Sprintf(` AND entry_date>=$%d`, len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += fmt.Sprintf(` AND entry_date<=$%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entries `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	args = append(args, filter.PerPage, offset)
	query := fmt.Sprintf(`SELECT `+entryColumns+` FROM journal_entries %s ORDER BY entry_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(entries) == 0 {
		return entries, total, nil
	}

	ids := make([]int64, len(entries))
	index := make(map[int64]*Entry, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
		index[entries[i].ID] = &entries[i]
	}
	lineRows, err := r.pool.Query(ctx, `SELECT `+lineColumns+` FROM journal_lines WHERE entry_id=ANY($1) ORDER BY entry_id, position`, ids)
	if err != nil {
		return nil, 0, err
	}
	lines, err := collectLines(lineRows)
	if err != nil {
		return nil, 0, err
	}
	for _, l := range lines {
		if e, ok := index[l.EntryID]; ok {
			e.Lines = append(e.Lines, l)
		}
	}
	return entries, total, nil
}

type txRepository struct {
	tx pgx.Tx
}

// ClaimIdempotencyKey inserts the key inside the entry transaction, so a
// rolled-back creation never strands its key.
func (r *txRepository) ClaimIdempotencyKey(ctx context.Context, key, module string) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO idempotency_keys (key, module, created_at) VALUES ($1, $2, NOW())`, key, module)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrIdempotencyConflict
		}
		return err
	}
	return nil
}

// NextEntryNumber bumps the company counter atomically and formats the
// sequential entry number.
func (r *txRepository) NextEntryNumber(ctx context.Context, companyID int64) (string, error) {
	var n int64
	err := r.tx.QueryRow(ctx, `
INSERT INTO entry_counters (company_id, last_number)
VALUES ($1, 1)
ON CONFLICT (company_id) DO UPDATE SET last_number = entry_counters.last_number + 1
RETURNING last_number`, companyID).Scan(&n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LC%06d", n), nil
}

func (r *txRepository) InsertEntry(ctx context.Context, entry Entry) (Entry, error) {
	row := r.tx.QueryRow(ctx, `
INSERT INTO journal_entries (company_id, entry_number, entry_date, description, document_ref, total_amount, status, created_by, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
RETURNING `+entryColumns,
		entry.CompanyID, entry.EntryNumber, entry.EntryDate, entry.Description, entry.DocumentRef,
		entry.TotalAmount, entry.Status, entry.CreatedBy)
	return scanEntry(row)
}

func (r *txRepository) InsertLines(ctx context.Context, entryID int64, lines []Line) ([]Line, error) {
	inserted := make([]Line, 0, len(lines))
	for _, l := range lines {
		row := r.tx.QueryRow(ctx, `
INSERT INTO journal_lines (entry_id, account_id, cost_center_id, description, debit, credit, position)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING `+lineColumns,
			entryID, l.AccountID, l.CostCenterID, l.Description, l.Debit, l.Credit, l.Position)
		var out Line
		if err := row.Scan(&out.ID, &out.EntryID, &out.AccountID, &out.CostCenterID, &out.Description, &out.Debit, &out.Credit, &out.Position); err != nil {
			return nil, err
		}
		inserted = append(inserted, out)
	}
	return inserted, nil
}

func (r *txRepository) GetEntryForUpdate(ctx context.Context, id int64) (Entry, error) {
	e, err := scanEntry(r.tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, acctshared.ErrEntryNotFound
		}
		return Entry{}, err
	}
	return e, nil
}

func (r *txRepository) LoadLines(ctx context.Context, entryID int64) ([]Line, error) {
	rows, err := r.tx.Query(ctx, `SELECT `+lineColumns+` FROM journal_lines WHERE entry_id=$1 ORDER BY position`, entryID)
	if err != nil {
		return nil, err
	}
	return collectLines(rows)
}

// MarkPosted is a compare-and-set on status. Zero rows means the entry left
// draft between the lock and the update.
func (r *txRepository) MarkPosted(ctx context.Context, id, postedBy int64) error {
	cmd, err := r.tx.Exec(ctx, `
UPDATE journal_entries
SET status='posted', posted_at=NOW(), posted_by=$2, updated_at=NOW()
WHERE id=$1 AND status='draft'`, id, postedBy)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return acctshared.ErrInvalidStatus
	}
	return nil
}

func (r *txRepository) MarkCancelled(ctx context.Context, id int64) error {
	cmd, err := r.tx.Exec(ctx, `
UPDATE journal_entries
SET status='cancelled', cancelled_at=NOW(), updated_at=NOW()
WHERE id=$1 AND status IN ('draft','posted')`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return acctshared.ErrInvalidStatus
	}
	return nil
}

func (r *txRepository) DeleteDraft(ctx context.Context, id int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id=$1`, id); err != nil {
		return err
	}
	cmd, err := r.tx.Exec(ctx, `DELETE FROM journal_entries WHERE id=$1 AND status='draft'`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return acctshared.ErrInvalidStatus
	}
	return nil
}

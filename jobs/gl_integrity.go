package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// GLIntegrityJob scans posted journal entries whose lines no longer sum to
// equal debit and credit. Such rows can only appear through out-of-band
// writes; the scan is the safety net.
type GLIntegrityJob struct {
	pool      *pgxpool.Pool
	logger    *slog.Logger
	anomalies prometheus.Counter
}

// NewGLIntegrityJob constructs the job and registers its anomaly counter.
func NewGLIntegrityJob(pool *pgxpool.Pool, logger *slog.Logger, reg prometheus.Registerer) *GLIntegrityJob {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "razao_gl_integrity_anomalies_total",
		Help: "Posted journal entries found with unbalanced lines.",
	})
	if reg != nil {
		reg.MustRegister(counter)
	}
	return &GLIntegrityJob{pool: pool, logger: logger, anomalies: counter}
}

// Handle processes TaskGLIntegrity tasks.
func (j *GLIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload GLIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	query := `
SELECT e.id, e.company_id, e.entry_number, COALESCE(SUM(l.debit),0), COALESCE(SUM(l.credit),0)
FROM journal_entries e
JOIN journal_lines l ON l.entry_id = e.id
WHERE e.status='posted'`
	args := []any{}
	if payload.CompanyID > 0 {
		query += ` AND e.company_id=$1`
		args = append(args, payload.CompanyID)
	}
	query += `
GROUP BY e.id, e.company_id, e.entry_number
HAVING COALESCE(SUM(l.debit),0) <> COALESCE(SUM(l.credit),0)`

	rows, err := j.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	found := 0
	for rows.Next() {
		var entryID, companyID int64
		var number string
		var debit, credit decimal.Decimal
		if err := rows.Scan(&entryID, &companyID, &number, &debit, &credit); err != nil {
			return err
		}
		found++
		j.anomalies.Inc()
		j.logger.Error("unbalanced posted entry",
			slog.Int64("entry_id", entryID),
			slog.Int64("company_id", companyID),
			slog.String("entry_number", number),
			slog.String("debit", debit.String()),
			slog.String("credit", credit.String()),
		)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	j.logger.Info("gl integrity scan finished",
		slog.Int64("company_id", payload.CompanyID),
		slog.Int("anomalies", found),
	)
	return nil
}

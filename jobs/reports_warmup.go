package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/razao-erp/razao-erp/internal/accounting/reports"
)

// ReportsWarmupJob pre-builds trial balance and balance sheet caches so the
// first morning request hits warm Redis.
type ReportsWarmupJob struct {
	service *reports.Service
	pool    *pgxpool.Pool
	logger  *slog.Logger
}

func NewReportsWarmupJob(service *reports.Service, pool *pgxpool.Pool, logger *slog.Logger) *ReportsWarmupJob {
	return &ReportsWarmupJob{service: service, pool: pool, logger: logger}
}

// Handle processes TaskReportsWarmup tasks.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ReportsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	query := `SELECT id FROM companies`
	if payload.Scope != "all" {
		query += ` WHERE is_active`
	}
	rows, err := j.pool.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	var companyIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		companyIDs = append(companyIDs, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	warmed := 0
	for _, id := range companyIDs {
		if err := j.service.Warm(ctx, id); err != nil {
			j.logger.Warn("warm report cache", slog.Int64("company_id", id), slog.Any("error", err))
			continue
		}
		warmed++
	}
	j.logger.Info("report cache warmup finished",
		slog.Int("companies", len(companyIDs)),
		slog.Int("warmed", warmed),
	)
	return nil
}

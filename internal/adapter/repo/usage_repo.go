package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
	"server/internal/usage"
)

// UsageRepositoryPG is the Postgres-backed usage counter. The conditional
// upsert in QConsumeGenerationSlot serializes concurrent increments on the
// row, so two requests racing for the last slot cannot both win.
type UsageRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUsageRepository creates a new UsageRepositoryPG.
func NewUsageRepository(sql infra.SQLExecutor) *UsageRepositoryPG {
	return &UsageRepositoryPG{sql: sql}
}

// UsedToday implements usage.Store.
func (r *UsageRepositoryPG) UsedToday(ctx context.Context, userID string) (int, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUsageToday, userID)
	var used int
	if err := row.Scan(&used); err != nil {
		return 0, err
	}
	return used, nil
}

// Consume implements usage.Store. No row returned means the guard rejected
// the increment at the limit.
func (r *UsageRepositoryPG) Consume(ctx context.Context, userID string, limit int) (int, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QConsumeGenerationSlot, userID, limit)
	var used int
	if err := row.Scan(&used); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrQuotaExceeded
		}
		return 0, err
	}
	return used, nil
}

// PurgeStale removes counter rows from previous days; the worker runs this
// at the UTC day boundary.
func (r *UsageRepositoryPG) PurgeStale(ctx context.Context) (int64, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QPurgeStaleUsage)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ usage.Store = (*UsageRepositoryPG)(nil)

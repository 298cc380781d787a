package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// SubscriptionRepositoryPG reads raw subscription records. The pipeline
// never writes this table; billing owns it.
type SubscriptionRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewSubscriptionRepository creates a new SubscriptionRepositoryPG.
func NewSubscriptionRepository(sql infra.SQLExecutor) *SubscriptionRepositoryPG {
	return &SubscriptionRepositoryPG{sql: sql}
}

// Qualifying returns the user's subscription records that currently satisfy
// the active-window predicate, newest period end first.
func (r *SubscriptionRepositoryPG) Qualifying(ctx context.Context, userID string) ([]domain.Subscription, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectQualifyingSubscriptions, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subs []domain.Subscription
	for rows.Next() {
		var s domain.Subscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.CustomerRef, &s.Status, &s.CurrentPeriodEnd); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

package entitlement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"server/internal/domain"
)

// SubscriptionStore supplies the raw billing records the resolver interprets.
type SubscriptionStore interface {
	Qualifying(ctx context.Context, userID string) ([]domain.Subscription, error)
}

// UsageReader reports the user's committed generation count for today.
type UsageReader interface {
	UsedToday(ctx context.Context, userID string) (int, error)
}

// ProjectCounter reports the user's total project count.
type ProjectCounter interface {
	CountByUser(ctx context.Context, userID string) (int, error)
}

// Resolver computes point-in-time plan snapshots. Resolution is a pure read:
// nothing is cached beyond the single call and nothing is written.
type Resolver struct {
	subs     SubscriptionStore
	usage    UsageReader
	projects ProjectCounter
	logger   zerolog.Logger
	group    singleflight.Group

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewResolver creates a Resolver over the given stores. projects may be nil
// when project counts are not needed.
func NewResolver(subs SubscriptionStore, usage UsageReader, projects ProjectCounter, logger zerolog.Logger) *Resolver {
	return &Resolver{subs: subs, usage: usage, projects: projects, logger: logger, Now: time.Now}
}

// Resolve determines the user's plan tier, limits and current usage.
// Absence of a subscription is the free state, not an error; a failed or
// ambiguous subscription lookup falls back to the conservative free tier.
// Concurrent resolutions for the same user are collapsed into one lookup.
func (r *Resolver) Resolve(ctx context.Context, userID string) (domain.PlanSnapshot, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.PlanSnapshot{}, fmt.Errorf("resolve entitlement: %w", domain.ErrUnauthorized)
	}
	v, err, _ := r.group.Do(userID, func() (any, error) {
		snapshot, err := r.resolve(ctx, userID)
		return snapshot, err
	})
	if err != nil {
		return domain.PlanSnapshot{}, err
	}
	return v.(domain.PlanSnapshot), nil
}

func (r *Resolver) resolve(ctx context.Context, userID string) (domain.PlanSnapshot, error) {
	now := r.Now()
	snapshot := r.tierSnapshot(ctx, userID, now)

	used, err := r.usage.UsedToday(ctx, userID)
	if err != nil {
		return domain.PlanSnapshot{}, fmt.Errorf("read usage for %s: %w", userID, err)
	}
	snapshot.GenerationsToday = used

	if r.projects != nil {
		total, err := r.projects.CountByUser(ctx, userID)
		if err != nil {
			r.logger.Warn().Err(err).Str("user_id", userID).Msg("project count unavailable")
		} else {
			snapshot.TotalProjects = total
		}
	}
	return snapshot, nil
}

// tierSnapshot interprets the subscription records. More than one qualifying
// record is a data-integrity anomaly; rather than guess a precedence rule
// the resolver degrades to the free tier and flags it.
func (r *Resolver) tierSnapshot(ctx context.Context, userID string, now time.Time) domain.PlanSnapshot {
	records, err := r.subs.Qualifying(ctx, userID)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("subscription lookup failed, defaulting to free tier")
		return domain.FreeSnapshot(userID, now)
	}
	entitled := records[:0:0]
	for _, record := range records {
		if record.Entitles(now) {
			entitled = append(entitled, record)
		}
	}
	switch len(entitled) {
	case 0:
		return domain.FreeSnapshot(userID, now)
	case 1:
		return domain.ProSnapshot(userID, now)
	default:
		r.logger.Warn().Str("user_id", userID).Int("records", len(entitled)).
			Err(domain.ErrAmbiguousEntitlement).Msg("multiple qualifying subscriptions, defaulting to free tier")
		return domain.FreeSnapshot(userID, now)
	}
}

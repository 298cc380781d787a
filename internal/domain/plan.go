package domain

import "time"

// PlanTier enumerates billing plans.
type PlanTier string

const (
	PlanFree PlanTier = "free"
	PlanPro  PlanTier = "pro"
)

// Plan limit defaults. The free daily quota gates generation before any
// engine call; pro users are metered but not pre-gated.
const (
	FreeGenerationsPerDay = 3
	FreeProjectsLimit     = 1
	FreeProfilesLimit     = 1
	ProGenerationsPerDay  = 50
	ProProjectsLimit      = 25
	ProProfilesLimit      = 5
)

// Subscription is the raw billing record the resolver interprets. The core
// never writes these; upgrades arrive through the billing collaborator.
type Subscription struct {
	ID               string
	UserID           string
	CustomerRef      string
	Status           string
	CurrentPeriodEnd time.Time
}

// Entitles reports whether the subscription grants pro access at the given
// instant: active or trialing, with the period end strictly in the future.
func (s Subscription) Entitles(now time.Time) bool {
	switch s.Status {
	case "active", "trialing":
		return s.CurrentPeriodEnd.After(now)
	default:
		return false
	}
}

// PlanSnapshot is a point-in-time view of a user's entitlement. It is
// recomputed on every check and never cached beyond a single request.
type PlanSnapshot struct {
	UserID            string
	Tier              PlanTier
	GenerationsPerDay int
	ProjectsLimit     int
	ProfilesLimit     int
	GenerationsToday  int
	TotalProjects     int
	ResolvedAt        time.Time
}

// IsPro reports whether the snapshot reflects a paid plan. Derived from the
// tier, never stored independently.
func (p PlanSnapshot) IsPro() bool {
	return p.Tier == PlanPro
}

// RemainingToday returns how many generations the user may still run today,
// clamped at zero.
func (p PlanSnapshot) RemainingToday() int {
	remaining := p.GenerationsPerDay - p.GenerationsToday
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FreeSnapshot returns the default free-tier snapshot. Absence of a
// subscription is the free state, not an error.
func FreeSnapshot(userID string, now time.Time) PlanSnapshot {
	return PlanSnapshot{
		UserID:            userID,
		Tier:              PlanFree,
		GenerationsPerDay: FreeGenerationsPerDay,
		ProjectsLimit:     FreeProjectsLimit,
		ProfilesLimit:     FreeProfilesLimit,
		ResolvedAt:        now,
	}
}

// ProSnapshot returns the pro-tier snapshot shell for the user.
func ProSnapshot(userID string, now time.Time) PlanSnapshot {
	return PlanSnapshot{
		UserID:            userID,
		Tier:              PlanPro,
		GenerationsPerDay: ProGenerationsPerDay,
		ProjectsLimit:     ProProjectsLimit,
		ProfilesLimit:     ProProfilesLimit,
		ResolvedAt:        now,
	}
}

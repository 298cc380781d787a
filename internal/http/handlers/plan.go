package handlers

import (
	"net/http"

	"server/internal/domain"
)

type planResponse struct {
	Tier              domain.PlanTier `json:"tier"`
	IsPro             bool            `json:"is_pro"`
	GenerationsPerDay int             `json:"generations_per_day"`
	GenerationsToday  int             `json:"generations_today"`
	RemainingToday    int             `json:"remaining_today"`
	ProjectsLimit     int             `json:"projects_limit"`
	TotalProjects     int             `json:"total_projects"`
	ProfilesLimit     int             `json:"profiles_limit"`
}

func toPlanResponse(snapshot domain.PlanSnapshot) planResponse {
	return planResponse{
		Tier:              snapshot.Tier,
		IsPro:             snapshot.IsPro(),
		GenerationsPerDay: snapshot.GenerationsPerDay,
		GenerationsToday:  snapshot.GenerationsToday,
		RemainingToday:    snapshot.RemainingToday(),
		ProjectsLimit:     snapshot.ProjectsLimit,
		TotalProjects:     snapshot.TotalProjects,
		ProfilesLimit:     snapshot.ProfilesLimit,
	}
}

// MePlan returns the caller's current plan snapshot.
func (a *App) MePlan(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, string(domain.ReasonUnauthorized), "missing user context")
		return
	}
	snapshot, err := a.Resolver.Resolve(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("plan resolution failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to resolve plan")
		return
	}
	a.json(w, http.StatusOK, toPlanResponse(snapshot))
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/studio"
	"server/internal/studio/contract"
)

type studioGenerateRequest struct {
	ProfileID string        `json:"profile_id,omitempty"`
	Recipe    domain.Recipe `json:"recipe"`
}

type studioGenerateResponse struct {
	Verdict  string              `json:"verdict"`
	State    domain.ResultState  `json:"state"`
	Content  *domain.Content     `json:"content,omitempty"`
	Reason   domain.RejectReason `json:"reason,omitempty"`
	Failures []contract.Failure  `json:"failures,omitempty"`
	Plan     planResponse        `json:"plan"`
}

// StudioGenerate runs the full generation pipeline for the authenticated
// user's profile: entitlement gate, prompt composition, engine call,
// contract validation and the bounded silent repair.
func (a *App) StudioGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, string(domain.ReasonUnauthorized), "missing user context")
		return
	}
	var req studioGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	profile, err := a.loadProfile(r.Context(), req.ProfileID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "no active profile")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
		return
	}

	history, err := a.Projects.Recent(r.Context(), profile.ID, 5)
	if err != nil {
		a.Logger.Warn().Err(err).Str("profile_id", profile.ID).Msg("history unavailable, composing without it")
		history = nil
	}

	outcome, err := a.Orchestrator.Generate(r.Context(), studio.Request{
		UserID:  userID,
		Profile: *profile,
		History: history,
		Recipe:  req.Recipe,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRecipe):
			a.error(w, http.StatusBadRequest, "invalid_recipe", err.Error())
		case errors.Is(err, context.Canceled):
			// Caller disconnected; nothing useful to write.
		default:
			a.Logger.Error().Err(err).Str("user_id", userID).Msg("generation pipeline failed")
			a.error(w, http.StatusInternalServerError, "internal", "generation failed")
		}
		return
	}

	resp := studioGenerateResponse{
		State:    outcome.State,
		Content:  outcome.Content,
		Reason:   outcome.Reason,
		Failures: outcome.Failures,
		Plan:     toPlanResponse(outcome.Plan),
	}
	if outcome.Accepted() {
		resp.Verdict = "accepted"
		a.json(w, http.StatusOK, resp)
		return
	}
	resp.Verdict = "rejected"
	switch outcome.Reason {
	case domain.ReasonQuotaExceeded:
		a.json(w, http.StatusForbidden, resp)
	case domain.ReasonUnauthorized:
		a.json(w, http.StatusUnauthorized, resp)
	default:
		a.json(w, http.StatusUnprocessableEntity, resp)
	}
}

func (a *App) loadProfile(ctx context.Context, profileID, userID string) (*domain.Profile, error) {
	if profileID != "" {
		return a.Profiles.ByID(ctx, profileID, userID)
	}
	return a.Profiles.Active(ctx, userID)
}

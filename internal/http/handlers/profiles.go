package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
)

type profileCreateRequest struct {
	Archetype   string   `json:"archetype"`
	BrandName   string   `json:"brand_name"`
	Language    string   `json:"language"`
	ToneMarkers []string `json:"tone_markers"`
}

type profileResponse struct {
	ID          string   `json:"id"`
	Archetype   string   `json:"archetype"`
	BrandName   string   `json:"brand_name"`
	Language    string   `json:"language"`
	ToneMarkers []string `json:"tone_markers"`
	Active      bool     `json:"active"`
}

func toProfileResponse(p domain.Profile) profileResponse {
	return profileResponse{
		ID:          p.ID,
		Archetype:   string(p.Archetype),
		BrandName:   p.BrandName,
		Language:    p.Language,
		ToneMarkers: p.ToneMarkers,
		Active:      p.Active,
	}
}

// ProfileCreate onboards a new persona; it becomes the active profile and
// the user's previous profiles are deactivated in the same statement.
func (a *App) ProfileCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, string(domain.ReasonUnauthorized), "missing user context")
		return
	}
	var req profileCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	archetype := domain.ProfileArchetype(strings.ToLower(strings.TrimSpace(req.Archetype)))
	switch archetype {
	case domain.ArchetypeBusiness, domain.ArchetypeCreator:
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "archetype must be business or creator")
		return
	}
	if strings.TrimSpace(req.BrandName) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "brand_name is required")
		return
	}
	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = middleware.LocaleFromContext(r.Context())
	}
	if _, ok := domain.SupportedLanguages[language]; !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported language")
		return
	}

	snapshot, err := a.Resolver.Resolve(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("plan resolution failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to resolve plan")
		return
	}
	existing, err := a.Profiles.List(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list profiles")
		return
	}
	if len(existing) >= snapshot.ProfilesLimit {
		a.error(w, http.StatusForbidden, "profiles_limit", "profile limit reached for plan")
		return
	}

	profile, err := a.Profiles.Create(r.Context(), &domain.Profile{
		UserID:      userID,
		Archetype:   archetype,
		BrandName:   strings.TrimSpace(req.BrandName),
		Language:    language,
		ToneMarkers: req.ToneMarkers,
	})
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to create profile")
		return
	}
	a.json(w, http.StatusCreated, toProfileResponse(*profile))
}

// ProfileList returns the caller's non-archived profiles, newest first.
func (a *App) ProfileList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, string(domain.ReasonUnauthorized), "missing user context")
		return
	}
	profiles, err := a.Profiles.List(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list profiles")
		return
	}
	items := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, toProfileResponse(p))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// ProfileActivate makes the profile the single active persona.
func (a *App) ProfileActivate(w http.ResponseWriter, r *http.Request) {
	a.profileAction(w, r, a.Profiles.Activate)
}

// ProfileArchive soft-deletes the profile; archived profiles are retained
// but never resurface in listings.
func (a *App) ProfileArchive(w http.ResponseWriter, r *http.Request) {
	a.profileAction(w, r, a.Profiles.Archive)
}

func (a *App) profileAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, profileID, userID string) error) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, string(domain.ReasonUnauthorized), "missing user context")
		return
	}
	profileID := chi.URLParam(r, "profile_id")
	if profileID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "profile_id required")
		return
	}
	if err := action(r.Context(), profileID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "profile update failed")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"id": profileID, "status": "ok"})
}

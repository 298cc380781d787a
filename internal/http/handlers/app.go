package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/studio"
)

// ProfileStore is the identity-profile collaborator.
type ProfileStore interface {
	Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	Active(ctx context.Context, userID string) (*domain.Profile, error)
	ByID(ctx context.Context, profileID, userID string) (*domain.Profile, error)
	List(ctx context.Context, userID string) ([]domain.Profile, error)
	Activate(ctx context.Context, profileID, userID string) error
	Archive(ctx context.Context, profileID, userID string) error
}

// ProjectStore supplies read-only project history.
type ProjectStore interface {
	Recent(ctx context.Context, profileID string, limit int) ([]domain.ProjectSummary, error)
}

// App carries the wired collaborators for all HTTP handlers.
type App struct {
	Config       *infra.Config
	Logger       zerolog.Logger
	Profiles     ProfileStore
	Projects     ProjectStore
	Resolver     studio.Resolver
	Orchestrator *studio.Orchestrator
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]errorResponse{"error": {Code: errCode, Message: message}})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

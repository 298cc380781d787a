package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// NewRouter wires the public and authenticated API surface. The country
// lookup is optional; pass nil when no GeoIP database is configured.
func NewRouter(app *handlers.App, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(app.Config.CORSOrigins),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
		middleware.I18N(app.Config.DefaultLocale, lookup),
		middleware.Logger(app.Logger),
	)

	r.Get("/v1/healthz", app.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))

		r.Get("/v1/me/plan", app.MePlan)

		r.Route("/v1/profiles", func(r chi.Router) {
			r.Post("/", app.ProfileCreate)
			r.Get("/", app.ProfileList)
			r.Post("/{profile_id}/activate", app.ProfileActivate)
			r.Delete("/{profile_id}", app.ProfileArchive)
		})

		r.Post("/v1/studio/generate", app.StudioGenerate)
	})

	return r
}

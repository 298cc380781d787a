package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/middleware"
)

func profileApp(resolver stubResolver, existing []domain.Profile) (*App, *fakeProfiles) {
	profiles := &fakeProfiles{list: existing}
	return &App{
		Logger:   zerolog.Nop(),
		Profiles: profiles,
		Resolver: resolver,
	}, profiles
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middleware.ContextWithUserID(req.Context(), "u1"))
}

func TestProfileCreate(t *testing.T) {
	app, profiles := profileApp(stubResolver{snap: freeSnap(0)}, nil)
	rec := httptest.NewRecorder()

	body := `{"archetype":"creator","brand_name":"Quiet Desk","language":"en","tone_markers":["calm"]}`
	app.ProfileCreate(rec, authedRequest(http.MethodPost, "/v1/profiles", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if profiles.created == nil || profiles.created.Archetype != domain.ArchetypeCreator {
		t.Fatalf("created profile = %+v", profiles.created)
	}
	var resp struct {
		ID     string `json:"id"`
		Active bool   `json:"active"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" || !resp.Active {
		t.Fatalf("response = %+v", resp)
	}
}

func TestProfileCreateRejectsUnknownArchetype(t *testing.T) {
	app, _ := profileApp(stubResolver{snap: freeSnap(0)}, nil)
	rec := httptest.NewRecorder()

	body := `{"archetype":"influencer","brand_name":"X","language":"en"}`
	app.ProfileCreate(rec, authedRequest(http.MethodPost, "/v1/profiles", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestProfileCreateRejectsUnsupportedLanguage(t *testing.T) {
	app, _ := profileApp(stubResolver{snap: freeSnap(0)}, nil)
	rec := httptest.NewRecorder()

	body := `{"archetype":"business","brand_name":"X","language":"fr"}`
	app.ProfileCreate(rec, authedRequest(http.MethodPost, "/v1/profiles", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestProfileCreateDefaultsLanguageFromLocale(t *testing.T) {
	app, profiles := profileApp(stubResolver{snap: freeSnap(0)}, nil)
	rec := httptest.NewRecorder()

	req := authedRequest(http.MethodPost, "/v1/profiles", `{"archetype":"business","brand_name":"Warung Kopi"}`)
	ctx := context.WithValue(req.Context(), middleware.LocaleKey, "id")
	app.ProfileCreate(rec, req.WithContext(ctx))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if profiles.created.Language != "id" {
		t.Fatalf("language = %q, want locale fallback id", profiles.created.Language)
	}
}

func TestProfileCreateEnforcesPlanLimit(t *testing.T) {
	existing := []domain.Profile{{ID: "p1", UserID: "u1", Active: true}}
	app, _ := profileApp(stubResolver{snap: freeSnap(0)}, existing)
	rec := httptest.NewRecorder()

	body := `{"archetype":"creator","brand_name":"Second","language":"en"}`
	app.ProfileCreate(rec, authedRequest(http.MethodPost, "/v1/profiles", body))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestProfileListRequiresAuth(t *testing.T) {
	app, _ := profileApp(stubResolver{snap: freeSnap(0)}, nil)
	rec := httptest.NewRecorder()

	app.ProfileList(rec, httptest.NewRequest(http.MethodGet, "/v1/profiles", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

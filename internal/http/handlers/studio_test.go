package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/providers/engine"
	"server/internal/studio"
	"server/internal/studio/contract"
	"server/internal/studio/prompt"
	"server/internal/usage"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

const validEngineResponse = `{
	"hook": "Most founders overlook one quiet habit that compounds into real trust.",
	"caption": "Slow brands win because customers can feel consistency. Follow for more."
}`

type fakeProfiles struct {
	active  *domain.Profile
	byID    map[string]*domain.Profile
	list    []domain.Profile
	created *domain.Profile
}

func (f *fakeProfiles) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	p := *profile
	p.ID = "new-profile"
	p.Active = true
	f.created = &p
	return &p, nil
}

func (f *fakeProfiles) Active(ctx context.Context, userID string) (*domain.Profile, error) {
	if f.active == nil {
		return nil, domain.ErrNotFound
	}
	return f.active, nil
}

func (f *fakeProfiles) ByID(ctx context.Context, profileID, userID string) (*domain.Profile, error) {
	if p, ok := f.byID[profileID]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProfiles) List(ctx context.Context, userID string) ([]domain.Profile, error) {
	return f.list, nil
}

func (f *fakeProfiles) Activate(ctx context.Context, profileID, userID string) error { return nil }
func (f *fakeProfiles) Archive(ctx context.Context, profileID, userID string) error  { return nil }

type fakeProjects struct {
	recent []domain.ProjectSummary
}

func (f *fakeProjects) Recent(ctx context.Context, profileID string, limit int) ([]domain.ProjectSummary, error) {
	return f.recent, nil
}

type stubResolver struct {
	snap domain.PlanSnapshot
	err  error
}

func (s stubResolver) Resolve(ctx context.Context, userID string) (domain.PlanSnapshot, error) {
	return s.snap, s.err
}

func testApp(t *testing.T, resolver studio.Resolver, engineResponse string) (*App, *usage.MemoryStore) {
	t.Helper()
	store := usage.NewMemoryStore()
	store.Now = func() time.Time { return testNow }
	orch := studio.NewOrchestrator(resolver, prompt.NewComposer(), contract.NewValidator(),
		engine.NewStatic(engineResponse), store, zerolog.Nop())
	profile := &domain.Profile{
		ID:        "p1",
		UserID:    "u1",
		Archetype: domain.ArchetypeCreator,
		BrandName: "Quiet Desk",
		Language:  "en",
		Active:    true,
	}
	return &App{
		Logger:       zerolog.Nop(),
		Profiles:     &fakeProfiles{active: profile, byID: map[string]*domain.Profile{"p1": profile}},
		Projects:     &fakeProjects{},
		Resolver:     resolver,
		Orchestrator: orch,
	}, store
}

func freeSnap(used int) domain.PlanSnapshot {
	snap := domain.FreeSnapshot("u1", testNow)
	snap.GenerationsToday = used
	return snap
}

func generateRequest(t *testing.T, body string, authenticated bool) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/studio/generate", strings.NewReader(body))
	if authenticated {
		req = req.WithContext(middleware.ContextWithUserID(req.Context(), "u1"))
	}
	return req
}

const generateBody = `{"recipe":{"parts":["hook","caption"],"platform":"tiktok","language":"en"}}`

func TestStudioGenerateRequiresAuth(t *testing.T) {
	app, _ := testApp(t, stubResolver{snap: freeSnap(0)}, validEngineResponse)
	rec := httptest.NewRecorder()

	app.StudioGenerate(rec, generateRequest(t, generateBody, false))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestStudioGenerateAccepted(t *testing.T) {
	app, store := testApp(t, stubResolver{snap: freeSnap(0)}, validEngineResponse)
	rec := httptest.NewRecorder()

	app.StudioGenerate(rec, generateRequest(t, generateBody, true))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Verdict string          `json:"verdict"`
		State   string          `json:"state"`
		Content *domain.Content `json:"content"`
		Plan    struct {
			GenerationsToday int `json:"generations_today"`
		} `json:"plan"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Verdict != "accepted" || resp.State != string(domain.ResultAccepted) {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Content == nil || resp.Content.Hook == "" {
		t.Fatalf("content missing: %+v", resp.Content)
	}
	if resp.Plan.GenerationsToday != 1 {
		t.Fatalf("plan usage = %d, want 1", resp.Plan.GenerationsToday)
	}
	if used, _ := store.UsedToday(context.Background(), "u1"); used != 1 {
		t.Fatalf("store usage = %d, want 1", used)
	}
}

func TestStudioGenerateContractRejectionIs422(t *testing.T) {
	app, _ := testApp(t, stubResolver{snap: freeSnap(0)}, "not json at all")
	rec := httptest.NewRecorder()

	app.StudioGenerate(rec, generateRequest(t, generateBody, true))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var resp struct {
		Verdict string `json:"verdict"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Verdict != "rejected" || resp.Reason != string(domain.ReasonMalformedOutput) {
		t.Fatalf("response = %+v", resp)
	}
}

func TestStudioGenerateQuotaRejectionIs403(t *testing.T) {
	app, _ := testApp(t, stubResolver{snap: freeSnap(domain.FreeGenerationsPerDay)}, validEngineResponse)
	rec := httptest.NewRecorder()

	app.StudioGenerate(rec, generateRequest(t, generateBody, true))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestStudioGenerateInvalidRecipeIs400(t *testing.T) {
	app, _ := testApp(t, stubResolver{snap: freeSnap(0)}, validEngineResponse)
	rec := httptest.NewRecorder()

	body := `{"recipe":{"parts":[],"platform":"tiktok","language":"en"}}`
	app.StudioGenerate(rec, generateRequest(t, body, true))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStudioGenerateUnknownProfileIs404(t *testing.T) {
	app, _ := testApp(t, stubResolver{snap: freeSnap(0)}, validEngineResponse)
	rec := httptest.NewRecorder()

	body := `{"profile_id":"missing","recipe":{"parts":["hook"],"platform":"tiktok","language":"en"}}`
	app.StudioGenerate(rec, generateRequest(t, body, true))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestMePlanReturnsSnapshot(t *testing.T) {
	app, _ := testApp(t, stubResolver{snap: freeSnap(2)}, validEngineResponse)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/me/plan", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "u1"))

	app.MePlan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Tier           string `json:"tier"`
		IsPro          bool   `json:"is_pro"`
		RemainingToday int    `json:"remaining_today"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Tier != "free" || resp.IsPro || resp.RemainingToday != domain.FreeGenerationsPerDay-2 {
		t.Fatalf("response = %+v", resp)
	}
}

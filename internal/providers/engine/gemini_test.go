package engine

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"server/internal/domain"
	"server/internal/studio/prompt"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestGeminiGenerateExtractsText(t *testing.T) {
	var captured *http.Request
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		captured = r
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"hook\":\"x\"}"}]}}]}`), nil
	})}
	eng, err := NewGeminiEngine(GeminiOptions{APIKey: "key-123", Model: "gemini-1.5-flash", HTTPClient: client})
	if err != nil {
		t.Fatalf("NewGeminiEngine: %v", err)
	}

	text, err := eng.Generate(context.Background(), prompt.Payload{Text: "compose", Language: "en"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != `{"hook":"x"}` {
		t.Fatalf("text = %q", text)
	}
	if captured.Header.Get("x-goog-api-key") != "key-123" {
		t.Fatal("api key header missing")
	}
	if !strings.Contains(captured.URL.Path, "models/gemini-1.5-flash:generateContent") {
		t.Fatalf("unexpected path %s", captured.URL.Path)
	}
}

func TestGeminiGenerateNonOKIsUnavailable(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{}`), nil
	})}
	eng, _ := NewGeminiEngine(GeminiOptions{APIKey: "k", HTTPClient: client})

	_, err := eng.Generate(context.Background(), prompt.Payload{Text: "compose"})
	if !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Fatalf("error = %v, want ErrEngineUnavailable", err)
	}
}

func TestGeminiGenerateDeadlineIsTimeout(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})}
	eng, _ := NewGeminiEngine(GeminiOptions{APIKey: "k", HTTPClient: client})

	_, err := eng.Generate(context.Background(), prompt.Payload{Text: "compose"})
	if !errors.Is(err, domain.ErrEngineTimeout) {
		t.Fatalf("error = %v, want ErrEngineTimeout", err)
	}
}

func TestGeminiGenerateEmptyCandidates(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"candidates":[]}`), nil
	})}
	eng, _ := NewGeminiEngine(GeminiOptions{APIKey: "k", HTTPClient: client})

	_, err := eng.Generate(context.Background(), prompt.Payload{Text: "compose"})
	if !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Fatalf("error = %v, want ErrEngineUnavailable", err)
	}
}

func TestGeminiRequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiEngine(GeminiOptions{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestStaticEngineDefaultResponseParses(t *testing.T) {
	eng := NewStatic("")
	text, err := eng.Generate(context.Background(), prompt.Payload{Language: "en"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		t.Fatalf("default response is not a JSON object: %q", text)
	}
}

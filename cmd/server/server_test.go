package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"healthbridge/internal/config"
)

func testApp(t *testing.T) *app {
	t.Helper()
	cfg := &config.Config{
		Env:         "test",
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
		OpenAIModel: "gpt-4o-mini",
		CORSOrigins: []string{"*"},
	}
	a, err := newApp(cfg, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	return a
}

func TestRouter_PublicRoutes(t *testing.T) {
	h := testApp(t).router()
	for _, path := range []string{
		"/health",
		"/api/symptom-checker/symptoms",
		"/api/countries",
		"/api/services?type=clinic",
		"/api/education?language=ar",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	h := testApp(t).router()
	for _, path := range []string{
		"/api/dashboard/refugee",
		"/api/dashboard/ngo",
		"/api/medication-history",
		"/api/reports/RPT-1/pdf",
		"/api/chatbot/history",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	testApp(t).router().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing CORS header")
	}
}

func TestRouter_AssessEndToEnd(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/symptom-checker/assess",
		strings.NewReader(`{"selectedSymptoms":["difficulty_breathing","cough"]}`))
	req.Header.Set("Content-Type", "application/json")
	testApp(t).router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"severity":"severe"`) {
		t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" && rec.Header().Get("X-Request-ID") == "" {
		t.Log("request id is not echoed; logger still records it")
	}
}

func TestRouter_AnalyzeRejectsBadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/analyze", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	testApp(t).router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

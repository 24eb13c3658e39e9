package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/SalaryIQ/internal/dtos"
	"github.com/justsurfingit/SalaryIQ/internal/handlers"
	"github.com/justsurfingit/SalaryIQ/internal/services"
	"github.com/sirupsen/logrus"
)

const aiJSON = `{"min_salary":80000,"median_salary":100000,"max_salary":130000,
"verdict":"fair","difference_percentage":-5,"confidence":80,"recommendations":["Ask for a raise"]}`

type stubAnalyzer struct {
	err error
}

func (s stubAnalyzer) AnalyzeSalary(ctx context.Context, p *services.Profile) (*services.AIResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return services.ParseAIResponse(aiJSON)
}

func newTestRouter(ai services.SalaryAnalyzer, limits services.RateLimits) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	analysis := services.NewAnalysisService(
		services.NewMemoryStore(nil),
		services.NewSlidingWindowLimiter(limits, nil),
		ai,
		log,
	)
	return handlers.NewRouter(
		handlers.NewSalaryHandler(analysis, "https://salaryiq.example", log),
		handlers.NewPreviewHandler(log),
	)
}

const validBody = `{"formData":{"jobTitle":"Software Engineer","yearsExperience":5,"location":"Austin, TX",
"industry":"Technology","skills":["Go","SQL"],"currentSalary":95000,"currency":"USD"}}`

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// ── POST /analyze ────────────────────────────────────────────────────────────

func TestAnalyze_Success(t *testing.T) {
	r := newTestRouter(stubAnalyzer{}, services.DefaultRateLimits)

	w := do(r, http.MethodPost, "/analyze", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp dtos.AnalysisResponse
	decode(t, w, &resp)
	if !resp.Success || resp.Data == nil || resp.Cached == nil || *resp.Cached {
		t.Fatalf("unexpected response %s", w.Body.String())
	}
	if resp.Data.Verdict != "fair" {
		t.Errorf("verdict = %s", resp.Data.Verdict)
	}

	w = do(r, http.MethodPost, "/analyze", validBody)
	decode(t, w, &resp)
	if resp.Cached == nil || !*resp.Cached {
		t.Errorf("second call not cached: %s", w.Body.String())
	}
}

func TestAnalyze_Errors(t *testing.T) {
	cases := []struct {
		name       string
		ai         services.SalaryAnalyzer
		body       string
		wantStatus int
		wantError  string
	}{
		{"bad json", stubAnalyzer{}, `{`, http.StatusBadRequest, "Invalid form data"},
		{"missing formData", stubAnalyzer{}, `{}`, http.StatusBadRequest, "Invalid form data"},
		{"invalid form", stubAnalyzer{}, `{"formData":{"jobTitle":"X"}}`, http.StatusBadRequest, "Invalid form data"},
		{"unparsable", stubAnalyzer{err: services.ErrUnparsableResponse}, validBody, http.StatusInternalServerError,
			"failed to parse AI response, please try again"},
		{"unexpected", stubAnalyzer{err: services.ErrConfiguration}, validBody, http.StatusInternalServerError,
			"Failed to analyze salary. Please try again."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(newTestRouter(tc.ai, services.DefaultRateLimits), http.MethodPost, "/analyze", tc.body)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.wantStatus, w.Body.String())
			}
			var resp dtos.AnalysisResponse
			decode(t, w, &resp)
			if resp.Success || resp.Error != tc.wantError {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestAnalyze_InvalidFormListsDetails(t *testing.T) {
	w := do(newTestRouter(stubAnalyzer{}, services.DefaultRateLimits), http.MethodPost, "/analyze",
		`{"formData":{"jobTitle":"X","skills":[]}}`)
	var resp dtos.AnalysisResponse
	decode(t, w, &resp)
	if len(resp.Details) < 4 {
		t.Errorf("details = %v", resp.Details)
	}
}

func TestAnalyze_RateLimited(t *testing.T) {
	r := newTestRouter(stubAnalyzer{}, services.RateLimits{PerMinute: 1, PerDay: 10})

	if w := do(r, http.MethodPost, "/analyze", validBody); w.Code != http.StatusOK {
		t.Fatalf("first status = %d", w.Code)
	}

	other := bytes.Replace([]byte(validBody), []byte("Technology"), []byte("Finance"), 1)
	w := do(r, http.MethodPost, "/analyze", string(other))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if ra := w.Header().Get("Retry-After"); ra == "" || ra == "0" {
		t.Errorf("Retry-After = %q", ra)
	}
}

func TestAnalyze_GetNotAllowed(t *testing.T) {
	w := do(newTestRouter(stubAnalyzer{}, services.DefaultRateLimits), http.MethodGet, "/analyze", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

// ── results ──────────────────────────────────────────────────────────────────

func TestResults(t *testing.T) {
	r := newTestRouter(stubAnalyzer{}, services.DefaultRateLimits)

	var created dtos.AnalysisResponse
	decode(t, do(r, http.MethodPost, "/analyze", validBody), &created)
	id := created.Data.ID

	w := do(r, http.MethodGet, "/results/"+id, "")
	var got dtos.AnalysisResponse
	decode(t, w, &got)
	if w.Code != http.StatusOK || got.Data == nil || got.Data.ID != id {
		t.Errorf("GET result: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/results/"+id+"/metadata", "")
	var meta dtos.MetadataResponse
	decode(t, w, &meta)
	if w.Code != http.StatusOK || meta.Data == nil || meta.Data.Difference != 5 || meta.Data.Currency != "USD" {
		t.Errorf("GET metadata: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/results/"+id+"/share", "")
	var share struct {
		Success bool            `json:"success"`
		Data    dtos.ShareLinks `json:"data"`
	}
	decode(t, w, &share)
	if w.Code != http.StatusOK || share.Data.ShareURL != "https://salaryiq.example/results/"+id {
		t.Errorf("GET share: %d %s", w.Code, w.Body.String())
	}

	for _, path := range []string{"/results/missing", "/results/missing/metadata", "/results/missing/share"} {
		if w := do(r, http.MethodGet, path, ""); w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, w.Code)
		}
	}
}

func TestStats(t *testing.T) {
	r := newTestRouter(stubAnalyzer{}, services.DefaultRateLimits)
	do(r, http.MethodPost, "/analyze", validBody)

	var stats dtos.StatsResponse
	decode(t, do(r, http.MethodGet, "/stats", ""), &stats)
	if stats.TotalAnalyses != 1 || stats.RateLimit.RPM.Used != 1 || stats.RateLimit.RPD.Limit != 200 {
		t.Errorf("stats = %+v", stats)
	}
}

// ── preview & health ─────────────────────────────────────────────────────────

func TestOGImage(t *testing.T) {
	r := newTestRouter(stubAnalyzer{}, services.DefaultRateLimits)
	for _, path := range []string{
		"/og?verdict=underpaid&difference=12.5&min=80000&max=130000&currency=GBP",
		"/og",
		"/og?verdict=nope&min=abc",
	} {
		w := do(r, http.MethodGet, path, "")
		if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
			t.Errorf("GET %s: %d %q", path, w.Code, w.Header().Get("Content-Type"))
		}
	}
}

func TestHealthCheck(t *testing.T) {
	w := do(newTestRouter(stubAnalyzer{}, services.DefaultRateLimits), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"ok"`)) {
		t.Errorf("health: %d %s", w.Code, w.Body.String())
	}
}

package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resumatch-backend/internal/usage"
)

func setupAnalysisRouter(t *testing.T, backend *stubLLM) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	svc := &Service{Repo: repo, Usage: usage.NewService(), LLM: backend, Model: "gpt-4o"}
	handler := NewHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-Test-User"); userID != "" {
			c.Set("userId", userID)
		}
		c.Next()
	})
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, repo
}

func postAnalysis(t *testing.T, router *gin.Engine, userID string, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateAnalysisReturnsRecord(t *testing.T) {
	router, repo := setupAnalysisRouter(t, &stubLLM{response: goodResponse()})

	resume, jd := validInputs()
	resp := postAnalysis(t, router, "user-1", map[string]string{
		"resumeText":         resume,
		"jobDescriptionText": jd,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created Analysis
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" || created.ATSScore != 62 {
		t.Fatalf("unexpected record: %+v", created)
	}
	if created.MissingKeywords.Skills[0] != "Kubernetes" {
		t.Fatalf("missingKeywords not flattened into response: %+v", created)
	}

	stored, err := repo.GetByID(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
	if stored.ATSScore != created.ATSScore {
		t.Fatalf("stored score mismatch: %d vs %d", stored.ATSScore, created.ATSScore)
	}
}

func TestCreateAnalysisValidationDetails(t *testing.T) {
	router, _ := setupAnalysisRouter(t, &stubLLM{response: goodResponse()})

	resp := postAnalysis(t, router, "user-1", map[string]string{
		"resumeText":         strings.Repeat("r", 90),
		"jobDescriptionText": strings.Repeat("j", 60),
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details []struct {
				Field     string `json:"field"`
				Issue     string `json:"issue"`
				Shortfall int    `json:"shortfall"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Fatalf("code: %s", body.Error.Code)
	}
	if len(body.Error.Details) != 1 {
		t.Fatalf("want 1 detail, got %+v", body.Error.Details)
	}
	d := body.Error.Details[0]
	if d.Field != "resumeText" || d.Shortfall != 10 {
		t.Fatalf("unexpected detail: %+v", d)
	}
}

func TestCreateAnalysisWithoutIdentity(t *testing.T) {
	router, _ := setupAnalysisRouter(t, &stubLLM{response: goodResponse()})

	resume, jd := validInputs()
	resp := postAnalysis(t, router, "", map[string]string{
		"resumeText":         resume,
		"jobDescriptionText": jd,
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestCreateAnalysisQuotaExceeded(t *testing.T) {
	router, _ := setupAnalysisRouter(t, &stubLLM{response: goodResponse()})

	resume, jd := validInputs()
	payload := map[string]string{"resumeText": resume, "jobDescriptionText": jd}
	for i := 0; i < 10; i++ {
		if resp := postAnalysis(t, router, "user-1", payload); resp.Code != http.StatusCreated {
			t.Fatalf("analysis %d: expected 201, got %d", i, resp.Code)
		}
	}
	resp := postAnalysis(t, router, "user-1", payload)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", resp.Code)
	}
}

func TestCreateAnalysisBackendDown(t *testing.T) {
	router, _ := setupAnalysisRouter(t, &stubLLM{err: context.DeadlineExceeded})

	resume, jd := validInputs()
	resp := postAnalysis(t, router, "user-1", map[string]string{
		"resumeText":         resume,
		"jobDescriptionText": jd,
	})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "connection") {
		t.Fatal("backend details must not leak to the client")
	}
}

func TestGetAnalysisNotFoundForForeignUser(t *testing.T) {
	router, repo := setupAnalysisRouter(t, &stubLLM{response: goodResponse()})

	resume, jd := validInputs()
	stored, err := repo.Insert(context.Background(), Analysis{
		UserID:             "user-1",
		ResumeText:         resume,
		JobDescriptionText: jd,
		Report:             Report{ATSScore: 50, Suggestions: []string{"x"}, Strengths: []string{}},
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+stored.ID, nil)
	req.Header.Set("X-Test-User", "user-2")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestListAnalysesHonorsLimit(t *testing.T) {
	router, repo := setupAnalysisRouter(t, &stubLLM{response: goodResponse()})

	resume, jd := validInputs()
	for i := 0; i < 5; i++ {
		if _, err := repo.Insert(context.Background(), Analysis{
			UserID:             "user-1",
			ResumeText:         resume,
			JobDescriptionText: jd,
			Report:             Report{ATSScore: i, Suggestions: []string{"x"}, Strengths: []string{}},
		}); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=3", nil)
	req.Header.Set("X-Test-User", "user-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var body struct {
		Analyses []Analysis `json:"analyses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Analyses) != 3 {
		t.Fatalf("want 3, got %d", len(body.Analyses))
	}
}

func TestListAnalysesRejectsBadLimit(t *testing.T) {
	router, _ := setupAnalysisRouter(t, &stubLLM{response: goodResponse()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=abc", nil)
	req.Header.Set("X-Test-User", "user-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

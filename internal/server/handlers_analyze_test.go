package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pratham/resumeats/internal/analysis"
	"github.com/pratham/resumeats/internal/db"
	"github.com/pratham/resumeats/internal/types"
)

const sampleResume = `John Doe
Experience
Developed and led backend services in Go.
Education
BS Computer Science
Skills
Go, SQL, Docker`

// registerAndLogin creates a user through the API and returns a bearer token.
func registerAndLogin(t *testing.T, handler http.Handler) string {
	t.Helper()
	rec := postJSON(t, handler, "/auth/register",
		`{"username":"alice","email":"alice@x.com","password":"hunter22"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp types.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.Token
}

// analyzeRequest builds an authenticated multipart POST /analyze request.
func analyzeRequest(t *testing.T, token string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if resume, ok := fields["resume"]; ok {
		part, err := mw.CreateFormFile("resume", "resume.txt")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(resume)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for key, value := range fields {
		if key == "resume" {
			continue
		}
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAnalyzeEndpoint(t *testing.T) {
	client := &fakeLLM{response: "Strong resume with clear impact statements."}
	s := newTestServer(t, newFakeStore(), client)
	handler := s.routes()
	token := registerAndLogin(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, analyzeRequest(t, token, map[string]string{"resume": sampleResume}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var result analysis.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Breakdown.TotalScore <= 0 {
		t.Errorf("TotalScore = %v, want > 0", result.Breakdown.TotalScore)
	}
	if !strings.Contains(result.Narrative, "Strong resume") {
		t.Errorf("Narrative = %q, want generated text", result.Narrative)
	}
	if result.Cached {
		t.Error("first analysis should not report a cache hit")
	}

	// A repeat of the same resume is served from the session cache.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, analyzeRequest(t, token, map[string]string{"resume": sampleResume}))
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat status = %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode repeat result: %v", err)
	}
	if !result.Cached {
		t.Error("repeat analysis should report a cache hit")
	}
	if got := client.calls.Load(); got != 1 {
		t.Errorf("LLM calls = %d, want 1", got)
	}
}

func TestAnalyzeWithJobDescription(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakeLLM{})
	handler := s.routes()
	token := registerAndLogin(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, analyzeRequest(t, token, map[string]string{
		"resume":          sampleResume,
		"job_description": "Go developer with SQL and Docker experience",
		"analysis_type":   "detailed",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var result analysis.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Breakdown.MatchScore <= 0 {
		t.Errorf("MatchScore = %v, want > 0 for overlapping job description", result.Breakdown.MatchScore)
	}
}

func TestAnalyzeBadRequests(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakeLLM{})
	handler := s.routes()
	token := registerAndLogin(t, handler)

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{name: "missing resume", fields: map[string]string{"job_description": "Go developer"}},
		{
			name: "job_description and job_url together",
			fields: map[string]string{
				"resume":          sampleResume,
				"job_description": "Go developer",
				"job_url":         "https://example.com/job",
			},
		},
		{
			name:   "unknown analysis type",
			fields: map[string]string{"resume": sampleResume, "analysis_type": "exhaustive"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, analyzeRequest(t, token, tt.fields))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}

func TestAnalyzeNarrativeFailureStillScores(t *testing.T) {
	client := &fakeLLM{err: errors.New("content blocked by safety filters")}
	s := newTestServer(t, newFakeStore(), client)
	handler := s.routes()
	token := registerAndLogin(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, analyzeRequest(t, token, map[string]string{"resume": sampleResume}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var result analysis.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Breakdown.TotalScore <= 0 {
		t.Errorf("TotalScore = %v, heuristic score must survive narrative failure", result.Breakdown.TotalScore)
	}
	if result.NarrativeError == "" {
		t.Error("expected a narrative error in the response")
	}
}

func TestChatEndpoint(t *testing.T) {
	client := &fakeLLM{response: "Add more metrics to your bullet points."}
	s := newTestServer(t, newFakeStore(), client)
	handler := s.routes()
	token := registerAndLogin(t, handler)

	body := `{"resume_text":"some resume","previous_analysis":"prior","question":"how to improve?"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp types.ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != "Add more metrics to your bullet points." {
		t.Errorf("Answer = %q", resp.Answer)
	}

	t.Run("missing question", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"resume_text":"r"}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestFeedbackEndpoint(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(t, store, &fakeLLM{})
	handler := s.routes()
	token := registerAndLogin(t, handler)

	req := httptest.NewRequest(http.MethodPost, "/feedback",
		strings.NewReader(`{"message":"Really useful scoring breakdown."}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.feedback) != 1 {
		t.Fatalf("stored feedback = %d, want 1", len(store.feedback))
	}
	if store.feedback[0].Message != "Really useful scoring breakdown." {
		t.Errorf("Message = %q", store.feedback[0].Message)
	}

	t.Run("empty message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(`{"message":""}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("list returns stored messages", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/feedback", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}

		var items []db.Feedback
		if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if len(items) != 1 || items[0].Message != "Really useful scoring breakdown." {
			t.Errorf("items = %+v, want the stored message", items)
		}
	})

	t.Run("list rejects bad limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/feedback?limit=zero", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestMeEndpoint(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakeLLM{})
	handler := s.routes()
	token := registerAndLogin(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var user types.User
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Username != "alice" || user.Email != "alice@x.com" {
		t.Errorf("user = %+v", user)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not contain password data")
	}
}

func TestAnalyzeRejectsOversizedUpload(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakeLLM{})
	handler := s.routes()
	token := registerAndLogin(t, handler)

	huge := strings.Repeat("a", maxUploadBytes+1)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, analyzeRequest(t, token, map[string]string{"resume": huge}))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

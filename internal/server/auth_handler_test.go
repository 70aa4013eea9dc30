package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pratham/resumeats/internal/types"
)

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakeLLM{})
	handler := s.routes()

	t.Run("success", func(t *testing.T) {
		rec := postJSON(t, handler, "/auth/register",
			`{"username":"alice","email":"alice@x.com","password":"hunter22"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var resp types.LoginResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token in the register response")
		}
		if resp.User == nil || resp.User.Username != "alice" {
			t.Errorf("User = %+v, want username alice", resp.User)
		}
		if strings.Contains(rec.Body.String(), "password") {
			t.Error("response must not contain password data")
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		rec := postJSON(t, handler, "/auth/register",
			`{"username":"alice","email":"other@x.com","password":"hunter22"}`)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := postJSON(t, handler, "/auth/register",
			`{"username":"bob","email":"not-an-email","password":"hunter22"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := postJSON(t, handler, "/auth/register", `{"username":`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestLoginEndpoint(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakeLLM{})
	handler := s.routes()

	rec := postJSON(t, handler, "/auth/register",
		`{"username":"alice","email":"alice@x.com","password":"hunter22"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	t.Run("success", func(t *testing.T) {
		rec := postJSON(t, handler, "/auth/login",
			`{"username":"alice","password":"hunter22"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var resp types.LoginResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token in the login response")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postJSON(t, handler, "/auth/login",
			`{"username":"alice","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := postJSON(t, handler, "/auth/login",
			`{"username":"nobody","password":"hunter22"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := postJSON(t, handler, "/auth/login", `{"username":"alice"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

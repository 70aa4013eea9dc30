package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// stubBrowser replaces the headless browser for the duration of a test.
func stubBrowser(t *testing.T, html string, err error) {
	t.Helper()
	orig := browserRender
	browserRender = func(context.Context, string, time.Duration) (string, error) {
		return html, err
	}
	t.Cleanup(func() { browserRender = orig })
}

func TestExtractMainText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		contains string
		excludes string
	}{
		{
			name:     "job description selector wins",
			html:     `<html><body><div class="sidebar">noise</div><div class="job-description">Go engineer wanted</div></body></html>`,
			contains: "Go engineer wanted",
			excludes: "noise",
		},
		{
			name:     "falls back to body",
			html:     `<html><body><p>Plain posting text</p></body></html>`,
			contains: "Plain posting text",
		},
		{
			name:     "strips script and nav",
			html:     `<html><body><nav>menu</nav><script>var x=1</script><main>Backend role</main></body></html>`,
			contains: "Backend role",
			excludes: "menu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractMainText(tt.html)
			if err != nil {
				t.Fatalf("ExtractMainText failed: %v", err)
			}
			if !strings.Contains(text, tt.contains) {
				t.Errorf("text %q missing %q", text, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(text, tt.excludes) {
				t.Errorf("text %q should not contain %q", text, tt.excludes)
			}
		})
	}
}

func TestJobDescription(t *testing.T) {
	// Short content triggers the browser path; fail it so the HTTP content
	// is kept.
	stubBrowser(t, "", fmt.Errorf("no browser available"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="job-details">Senior   Gopher
		role</div></body></html>`))
	}))
	defer srv.Close()

	text, err := JobDescription(t.Context(), srv.URL)
	if err != nil {
		t.Fatalf("JobDescription failed: %v", err)
	}
	if !strings.Contains(text, "Senior Gopher") {
		t.Errorf("text = %q, whitespace not collapsed", text)
	}
}

func TestJobDescriptionBrowserFallback(t *testing.T) {
	// SPA shell: plain HTTP gets no posting text
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="app"></div></body></html>`))
	}))
	defer srv.Close()

	stubBrowser(t, `<html><body><div class="job-description">Rendered Gopher role</div></body></html>`, nil)

	text, err := JobDescription(t.Context(), srv.URL)
	if err != nil {
		t.Fatalf("JobDescription failed: %v", err)
	}
	if !strings.Contains(text, "Rendered Gopher role") {
		t.Errorf("text = %q, want browser-rendered content", text)
	}
}

func TestJobDescriptionSkipsBrowserForFullContent(t *testing.T) {
	browserCalled := false
	orig := browserRender
	browserRender = func(context.Context, string, time.Duration) (string, error) {
		browserCalled = true
		return "", fmt.Errorf("browser must not be invoked")
	}
	t.Cleanup(func() { browserRender = orig })

	long := strings.Repeat("Senior Gopher role with strong distributed systems background. ", 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><div class="job-details">%s</div></body></html>`, long)
	}))
	defer srv.Close()

	if _, err := JobDescription(t.Context(), srv.URL); err != nil {
		t.Fatalf("JobDescription failed: %v", err)
	}
	if browserCalled {
		t.Error("browser fallback ran despite sufficient HTTP content")
	}
}

func TestShouldUseBrowser(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "empty", text: "", want: true},
		{name: "short", text: "Apply now", want: true},
		{name: "whitespace padding ignored", text: strings.Repeat(" ", 600), want: true},
		{name: "full posting", text: strings.Repeat("responsibilities ", 40), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldUseBrowser(tt.text); got != tt.want {
				t.Errorf("ShouldUseBrowser() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJobDescriptionErrors(t *testing.T) {
	t.Run("invalid url", func(t *testing.T) {
		if _, err := JobDescription(t.Context(), "not-a-url"); err == nil {
			t.Fatal("expected error for invalid URL")
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := JobDescription(t.Context(), srv.URL)
		if err == nil {
			t.Fatal("expected error for 404")
		}
		if !strings.Contains(err.Error(), "404") {
			t.Errorf("err = %v, want status in message", err)
		}
	})
}

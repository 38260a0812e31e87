package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOriginAllowed(t *testing.T) {
	policy := New(DefaultConfig())

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://notespy.vercel.app", true},
		{"https://www.notespy.vercel.app", true},
		{"http://localhost:3000", true},
		{"https://evil.com", false},
		{"", false},
		// Preview deployments need the project marker
		{"https://notespy-preview123.vercel.app", true},
		{"https://random-name.vercel.app", false},
		// Suffix alone on another host does not qualify
		{"https://notespy.evil.com", false},
	}

	for _, tt := range tests {
		if got := policy.OriginAllowed(tt.origin); got != tt.want {
			t.Errorf("OriginAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestOriginAllowedCaseInsensitive(t *testing.T) {
	policy := New(DefaultConfig())
	if !policy.OriginAllowed("https://NoteSpy.vercel.app") {
		t.Error("Origin matching should be case-insensitive")
	}
}

func TestSetHeadersAllowedOrigin(t *testing.T) {
	policy := New(DefaultConfig())

	h := http.Header{}
	policy.SetHeaders(h, "https://notespy.vercel.app")

	if h.Get("Access-Control-Allow-Origin") != "https://notespy.vercel.app" {
		t.Errorf("Expected exact origin echo, got %q", h.Get("Access-Control-Allow-Origin"))
	}
	if h.Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("Expected Allow-Credentials for allowed origin")
	}
	if h.Get("Vary") != "Origin" {
		t.Errorf("Expected Vary: Origin, got %q", h.Get("Vary"))
	}
	if h.Get("Access-Control-Allow-Methods") == "" {
		t.Error("Expected Allow-Methods header")
	}
	if h.Get("Access-Control-Max-Age") != "86400" {
		t.Errorf("Expected max age 86400, got %q", h.Get("Access-Control-Max-Age"))
	}
}

func TestSetHeadersDeniedOrigin(t *testing.T) {
	policy := New(DefaultConfig())

	h := http.Header{}
	policy.SetHeaders(h, "https://evil.com")

	if h.Get("Access-Control-Allow-Origin") != "" {
		t.Error("Allow-Origin must be omitted for denied origins")
	}
	if h.Get("Access-Control-Allow-Credentials") != "" {
		t.Error("Allow-Credentials must be omitted for denied origins")
	}
	// Methods/headers/max-age are emitted regardless of the decision
	if h.Get("Access-Control-Allow-Methods") == "" {
		t.Error("Expected Allow-Methods header even when denied")
	}
}

func TestPreflight(t *testing.T) {
	policy := New(DefaultConfig())

	w := httptest.NewRecorder()
	policy.Preflight(w, "https://notespy.vercel.app")

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://notespy.vercel.app" {
		t.Error("Expected Allow-Origin on preflight response")
	}
}

func TestNewCustomConfig(t *testing.T) {
	policy := New(Config{
		AllowedOrigins: []string{"https://example.com"},
		PreviewSuffix:  ".pages.dev",
		PreviewMarker:  "myapp",
	})

	if !policy.OriginAllowed("https://example.com") {
		t.Error("Expected exact match to be allowed")
	}
	if !policy.OriginAllowed("https://myapp-42.pages.dev") {
		t.Error("Expected suffix+marker match to be allowed")
	}
	if policy.OriginAllowed("https://other.pages.dev") {
		t.Error("Expected suffix without marker to be denied")
	}
}

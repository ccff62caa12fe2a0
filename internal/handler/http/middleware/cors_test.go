package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsConfig(origins ...string) CORSConfig {
	return CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Admin-Token"},
		MaxAge:         600,
	}
}

func TestCORS_Wildcard(t *testing.T) {
	called := false
	h := CORS(corsConfig("*"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
	req.Header.Set("Origin", "https://privatelivesmatter.se")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_Preflight(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		origin      string
		wantOrigin  string
		wantMethods string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "https://a.se", wantOrigin: "*", wantMethods: "GET, POST, PUT, OPTIONS"},
		{name: "listed origin", origins: []string{"https://a.se/"}, origin: "https://A.se", wantOrigin: "https://A.se", wantMethods: "GET, POST, PUT, OPTIONS"},
		{name: "unlisted origin", origins: []string{"https://a.se"}, origin: "https://evil.example", wantOrigin: "", wantMethods: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := CORS(corsConfig(tt.origins...))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodOptions, "/api/news", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.False(t, called, "preflight must not reach the handler")
			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Empty(t, rec.Body.String())
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantMethods, rec.Header().Get("Access-Control-Allow-Methods"))
			if tt.wantMethods != "" {
				assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
				assert.Equal(t, "Content-Type, X-Admin-Token", rec.Header().Get("Access-Control-Allow-Headers"))
			}
		})
	}
}

func TestCORS_ListedOriginSetsVary(t *testing.T) {
	h := CORS(corsConfig("https://a.se"))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	req.Header.Set("Origin", "https://a.se")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://a.se", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestWhitelistValidator(t *testing.T) {
	v := NewWhitelistValidator([]string{" https://a.se/ ", "", "HTTP://localhost:5173"})

	assert.True(t, v.IsAllowed("https://a.se"))
	assert.True(t, v.IsAllowed("http://localhost:5173"))
	assert.False(t, v.IsAllowed("https://b.se"))
	assert.False(t, v.AllowsAny())
}

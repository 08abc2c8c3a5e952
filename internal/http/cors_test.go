package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateCORSMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		enabled bool
		origins string
		wantNil bool
	}{
		{name: "Disabled", enabled: false, origins: "https://backoffice.example.com", wantNil: true},
		{name: "EnabledWithoutOrigins", enabled: true, origins: "", wantNil: true},
		{name: "EnabledWithOnlySeparators", enabled: true, origins: " , ,", wantNil: true},
		{name: "CommaSeparated", enabled: true, origins: "https://a.example.com,https://b.example.com"},
		{name: "Whitespace", enabled: true, origins: " https://a.example.com , https://b.example.com "},
		{name: "Wildcard", enabled: true, origins: "*"},
		{name: "OnlySchemeless", enabled: true, origins: "backoffice.example.com", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := createCORSMiddleware(tt.enabled, tt.origins, logger)
			if tt.wantNil {
				assert.Nil(t, middleware)
				return
			}
			assert.NotNil(t, middleware)
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantOrigins  []string
		wantRejected []string
	}{
		{name: "empty", input: ""},
		{
			name:        "blanks and trailing slash",
			input:       " https://a.example.com/ ,, http://localhost:3000 ",
			wantOrigins: []string{"https://a.example.com", "http://localhost:3000"},
		},
		{
			name:         "schemeless rejected",
			input:        "https://a.example.com,backoffice.example.com",
			wantOrigins:  []string{"https://a.example.com"},
			wantRejected: []string{"backoffice.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origins, rejected := parseOrigins(tt.input)
			assert.Equal(t, tt.wantOrigins, origins)
			assert.Equal(t, tt.wantRejected, rejected)
		})
	}
}

func newCORSRouter(enabled bool) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	if middleware := createCORSMiddleware(enabled, "https://backoffice.example.com", logger); middleware != nil {
		router.Use(middleware)
	}
	router.GET("/v1/loan-requests", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
	})
	router.PATCH("/v1/loan-requests/:id/status", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestCORSIntegration(t *testing.T) {
	t.Run("HeadersAddedWhenEnabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/loan-requests", nil)
		req.Header.Set("Origin", "https://backoffice.example.com")
		newCORSRouter(true).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://backoffice.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("NoHeadersWhenDisabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/loan-requests", nil)
		req.Header.Set("Origin", "https://backoffice.example.com")
		newCORSRouter(false).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("PatchPreflightAllowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/v1/loan-requests/abc/status", nil)
		req.Header.Set("Origin", "https://backoffice.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		newCORSRouter(true).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	})

	t.Run("UnknownOriginRejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/loan-requests", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		newCORSRouter(true).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

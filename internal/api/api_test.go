package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/vouch/internal/api"
	"github.com/JaimeStill/vouch/internal/classifier"
	"github.com/JaimeStill/vouch/internal/config"
	"github.com/JaimeStill/vouch/internal/infrastructure"
	"github.com/JaimeStill/vouch/internal/notify"
	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/database"
	"github.com/JaimeStill/vouch/pkg/middleware"
	"github.com/JaimeStill/vouch/pkg/module"
	"github.com/JaimeStill/vouch/pkg/pagination"
)

func validConfig() *config.Config {
	votes := 30
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "30s",
			WriteTimeout:    "30s",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "vouch",
			User:            "vouch",
			Password:        "vouch",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		API: config.APIConfig{
			BasePath:      "/api",
			PublicURL:     "https://vouch.example.com/",
			MaxBodySize:   "1MB",
			VoteRateLimit: &votes,
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
		},
		Classifier:      classifier.Config{Timeout: "5s", CacheTTL: "0s"},
		Auth:            auth.Config{Secret: "0123456789abcdef0123456789abcdef", Issuer: "vouch"},
		Notify:          notify.Config{From: "Vouch", Timeout: "10s"},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max page size: got %d, want 100", runtime.Pagination.MaxPageSize)
	}
	if want := "https://vouch.example.com/api/reviews/confirm"; runtime.ConfirmURL != want {
		t.Errorf("confirm url: got %s, want %s", runtime.ConfirmURL, want)
	}
	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Database == nil {
		t.Error("runtime database is nil")
	}
	if runtime.Classifier == nil {
		t.Error("runtime classifier is nil")
	}
	if runtime.Notifier == nil {
		t.Error("runtime notifier is nil")
	}
	if runtime.Limiter != infra.Limiter {
		t.Error("runtime limiter is not shared with infrastructure")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	domain := api.NewDomain(api.NewRuntime(cfg, infra))

	if domain.Reviews == nil {
		t.Error("reviews system is nil")
	}
	if domain.Ratings == nil {
		t.Error("ratings system is nil")
	}
	if domain.Visits == nil {
		t.Error("visits system is nil")
	}
	if domain.Comments == nil {
		t.Error("comments system is nil")
	}
	if domain.Providers == nil {
		t.Error("providers system is nil")
	}
	if domain.Taxonomy == nil {
		t.Error("taxonomy system is nil")
	}
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	router := module.NewRouter()
	router.Mount(m)
	return router
}

func TestModuleRouting(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		header map[string]string
		want   int
	}{
		{"provider delete is forbidden", "DELETE", "/api/providers/1", "", nil, http.StatusForbidden},
		{"submit requires actor", "POST", "/api/reviews", `{"title":"t","description":"d"}`, nil, http.StatusUnauthorized},
		{"tag create requires actor", "POST", "/api/tags", `{"name":"x"}`, nil, http.StatusUnauthorized},
		{"comment delete requires actor", "DELETE", "/api/comments/1", "", nil, http.StatusUnauthorized},
		{"invalid bearer token", "GET", "/api/reviews/check", "", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"unknown route", "GET", "/api/nothing", "", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestModuleCheckUsesFallbackWithoutClassifier(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest("POST", "/api/reviews/check", strings.NewReader(`{"title":"t","text":"body"}`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var got struct {
		Fallback        bool   `json:"fallback"`
		IsAutoConfirmed bool   `json:"is_auto_confirmed"`
		Text            string `json:"confirmation_text"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !got.Fallback {
		t.Error("expected fallback result")
	}
	if got.IsAutoConfirmed {
		t.Error("fallback result must not auto-confirm")
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

package auth_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JaimeStill/vouch/pkg/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newVerifier(t *testing.T) *auth.Verifier {
	t.Helper()
	cfg := &auth.Config{Secret: testSecret}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return auth.NewVerifier(cfg)
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func claimsFor(subject, issuer string, exp time.Time) auth.Claims {
	return auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestVerifyValid(t *testing.T) {
	v := newVerifier(t)

	provider := int64(9)
	claims := claimsFor("42", "vouch", time.Now().Add(time.Hour))
	claims.Staff = true
	claims.ProviderID = &provider

	actor, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if actor.ID != 42 {
		t.Errorf("ID: got %d, want 42", actor.ID)
	}
	if !actor.Staff {
		t.Error("Staff should be true")
	}
	if actor.ProviderID == nil || *actor.ProviderID != 9 {
		t.Errorf("ProviderID: got %v, want 9", actor.ProviderID)
	}
}

func TestVerifyRejects(t *testing.T) {
	v := newVerifier(t)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("ffffffffffffffffffffffffffffffff"), claimsFor("1", "vouch", future))},
		{"wrong issuer", sign(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("1", "other", future))},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("1", "vouch", time.Now().Add(-time.Hour)))},
		{"non-numeric subject", sign(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("abc", "vouch", future))},
		{"zero subject", sign(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("0", "vouch", future))},
		{"none algorithm", sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor("1", "vouch", future))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			if !errors.Is(err, auth.ErrInvalidToken) {
				t.Errorf("got %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	v := newVerifier(t)
	valid := sign(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("7", "vouch", time.Now().Add(time.Hour)))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantActor  int64
	}{
		{"anonymous", "", http.StatusOK, 0},
		{"non-bearer scheme", "Basic abc", http.StatusOK, 0},
		{"valid token", "Bearer " + valid, http.StatusOK, 7},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *auth.Actor
			handler := auth.Middleware(v, discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = auth.FromContext(r.Context())
			}))

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantActor == 0 && got != nil {
				t.Errorf("actor: got %+v, want nil", got)
			}
			if tt.wantActor != 0 && (got == nil || got.ID != tt.wantActor) {
				t.Errorf("actor: got %+v, want id %d", got, tt.wantActor)
			}
		})
	}
}

func TestRequireActor(t *testing.T) {
	handler := auth.RequireActor(discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}

	req := httptest.NewRequest("POST", "/", nil)
	req = req.WithContext(auth.WithActor(req.Context(), &auth.Actor{ID: 1}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("authenticated: got %d, want 204", rec.Code)
	}
}

func TestTrackActor(t *testing.T) {
	var slot *auth.Actor
	ctx := auth.TrackActor(t.Context(), &slot)

	inner := auth.WithActor(ctx, &auth.Actor{ID: 9})

	if slot == nil || slot.ID != 9 {
		t.Fatalf("slot: got %v, want actor 9", slot)
	}
	if got := auth.FromContext(inner); got != slot {
		t.Error("context actor and slot should match")
	}
	if auth.FromContext(ctx) != nil {
		t.Error("outer context should stay anonymous")
	}
}

func TestCanModify(t *testing.T) {
	tests := []struct {
		name  string
		actor *auth.Actor
		owner int64
		want  bool
	}{
		{"nil actor", nil, 1, false},
		{"owner", &auth.Actor{ID: 1}, 1, true},
		{"stranger", &auth.Actor{ID: 2}, 1, false},
		{"staff", &auth.Actor{ID: 2, Staff: true}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.actor.CanModify(tt.owner); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("short secret rejected", func(t *testing.T) {
		cfg := &auth.Config{Secret: "short"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for short secret")
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_AUTH_SECRET", testSecret)
		t.Setenv("TEST_AUTH_ISSUER", "issuer-x")

		cfg := &auth.Config{}
		err := cfg.Finalize(&auth.Env{Secret: "TEST_AUTH_SECRET", Issuer: "TEST_AUTH_ISSUER"})
		if err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Issuer != "issuer-x" {
			t.Errorf("Issuer: got %s, want issuer-x", cfg.Issuer)
		}
	})

	t.Run("default issuer", func(t *testing.T) {
		cfg := &auth.Config{Secret: testSecret}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Issuer != "vouch" {
			t.Errorf("Issuer: got %s, want vouch", cfg.Issuer)
		}
	})
}

package reviews_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/vouch/internal/classifier"
	"github.com/JaimeStill/vouch/internal/reviews"
	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/pagination"
	"github.com/JaimeStill/vouch/pkg/routes"
)

type mockSystem struct {
	submitFn  func(ctx context.Context, actor *auth.Actor, cmd reviews.SubmitCommand) (*reviews.Review, error)
	checkFn   func(ctx context.Context, title, text string) classifier.Result
	listFn    func(ctx context.Context, page pagination.PageRequest, f reviews.Filters) (*pagination.PageResult[reviews.Review], error)
	findFn    func(ctx context.Context, id int64) (*reviews.Review, error)
	updateFn  func(ctx context.Context, actor *auth.Actor, id int64, cmd reviews.UpdateCommand) (*reviews.Review, error)
	deleteFn  func(ctx context.Context, actor *auth.Actor, id int64) error
	confirmFn func(ctx context.Context, email, token string, reviewID int64) error
}

func (m *mockSystem) Handler(rec func(http.Handler) http.Handler) *reviews.Handler {
	return reviews.NewHandler(m, discard(), testPagination(), rec)
}

func (m *mockSystem) Submit(ctx context.Context, actor *auth.Actor, cmd reviews.SubmitCommand) (*reviews.Review, error) {
	return m.submitFn(ctx, actor, cmd)
}

func (m *mockSystem) Check(ctx context.Context, title, text string) classifier.Result {
	return m.checkFn(ctx, title, text)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, f reviews.Filters) (*pagination.PageResult[reviews.Review], error) {
	return m.listFn(ctx, page, f)
}

func (m *mockSystem) Find(ctx context.Context, id int64) (*reviews.Review, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Update(ctx context.Context, actor *auth.Actor, id int64, cmd reviews.UpdateCommand) (*reviews.Review, error) {
	return m.updateFn(ctx, actor, id, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	return m.deleteFn(ctx, actor, id)
}

func (m *mockSystem) ConfirmEmailToken(ctx context.Context, email, token string, reviewID int64) error {
	return m.confirmFn(ctx, email, token, reviewID)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPagination() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func setupMux(sys reviews.System, rec func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(rec).Routes())
	return mux
}

func asActor(req *http.Request, actor *auth.Actor) *http.Request {
	return req.WithContext(auth.WithActor(req.Context(), actor))
}

func TestHandlerSubmit(t *testing.T) {
	var gotActor *auth.Actor
	var gotCmd reviews.SubmitCommand
	sys := &mockSystem{
		submitFn: func(_ context.Context, actor *auth.Actor, cmd reviews.SubmitCommand) (*reviews.Review, error) {
			gotActor, gotCmd = actor, cmd
			if cmd.Title == "" {
				return nil, reviews.ErrInvalidReview
			}
			return &reviews.Review{ID: 9, Title: cmd.Title, IsAutoConfirmed: true, ConfirmationText: "87"}, nil
		},
	}
	mux := setupMux(sys, nil)

	t.Run("created", func(t *testing.T) {
		body := `{"title":"Great service","description":"fast","tags":[1,2],"is_anon":true}`
		req := asActor(httptest.NewRequest("POST", "/reviews", strings.NewReader(body)), &auth.Actor{ID: 5})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if gotActor == nil || gotActor.ID != 5 {
			t.Errorf("actor = %+v, want id 5", gotActor)
		}
		if !gotCmd.Anonymous || len(gotCmd.Tags) != 2 {
			t.Errorf("cmd = %+v", gotCmd)
		}

		var review reviews.Review
		if err := json.NewDecoder(rec.Body).Decode(&review); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if review.ConfirmationText != "87" || !review.IsAutoConfirmed {
			t.Errorf("review = %+v", review)
		}
	})

	t.Run("anonymous caller", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/reviews", strings.NewReader(`{}`)))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		req := asActor(httptest.NewRequest("POST", "/reviews", strings.NewReader(`{"title":""}`)), &auth.Actor{ID: 5})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerCheck(t *testing.T) {
	sys := &mockSystem{
		checkFn: func(_ context.Context, title, text string) classifier.Result {
			if title == "down" {
				return classifier.Fallback()
			}
			return classifier.Result{Label: classifier.Clean, Confidence: 87}
		},
	}
	mux := setupMux(sys, nil)

	tests := []struct {
		title         string
		autoConfirmed bool
		text          string
	}{
		{"Great service", true, "87"},
		{"down", false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			body := `{"title":"` + tt.title + `","text":"body"}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", "/reviews/check", strings.NewReader(body)))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			var got map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got["is_auto_confirmed"] != tt.autoConfirmed {
				t.Errorf("is_auto_confirmed = %v, want %v", got["is_auto_confirmed"], tt.autoConfirmed)
			}
			if got["confirmation_text"] != tt.text {
				t.Errorf("confirmation_text = %v, want %s", got["confirmation_text"], tt.text)
			}
		})
	}
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, id int64) (*reviews.Review, error) {
			if id == 404 {
				return nil, reviews.ErrNotFound
			}
			return &reviews.Review{ID: id, Title: "t"}, nil
		},
	}

	var recorded []string
	recorder := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorded = append(recorded, r.PathValue("id"))
			next.ServeHTTP(w, r)
		})
	}
	mux := setupMux(sys, recorder)

	tests := []struct {
		path   string
		status int
	}{
		{"/reviews/3", http.StatusOK},
		{"/reviews/404", http.StatusNotFound},
		{"/reviews/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("%s status = %d, want %d", tt.path, rec.Code, tt.status)
		}
	}

	if len(recorded) != 3 || recorded[0] != "3" {
		t.Errorf("recorder saw %v, want every detail request", recorded)
	}
}

func TestHandlerList(t *testing.T) {
	var got reviews.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f reviews.Filters) (*pagination.PageResult[reviews.Review], error) {
			got = f
			res := pagination.NewPageResult([]reviews.Review{{ID: 1}}, 1, page.Page, page.PageSize)
			return &res, nil
		},
	}
	mux := setupMux(sys, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/reviews?tags=3&user_id=8", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(got.Tags) != 1 || got.Tags[0] != 3 || got.UserID == nil || *got.UserID != 8 {
		t.Errorf("filters = %+v", got)
	}
}

func TestHandlerUpdateDelete(t *testing.T) {
	sys := &mockSystem{
		updateFn: func(_ context.Context, actor *auth.Actor, id int64, cmd reviews.UpdateCommand) (*reviews.Review, error) {
			if !actor.CanModify(1) {
				return nil, reviews.ErrForbidden
			}
			return &reviews.Review{ID: id, Title: *cmd.Title}, nil
		},
		deleteFn: func(_ context.Context, actor *auth.Actor, id int64) error {
			if !actor.CanModify(1) {
				return reviews.ErrForbidden
			}
			return nil
		},
	}
	mux := setupMux(sys, nil)

	tests := []struct {
		name   string
		method string
		actor  *auth.Actor
		status int
	}{
		{"owner put", "PUT", &auth.Actor{ID: 1}, http.StatusOK},
		{"owner patch", "PATCH", &auth.Actor{ID: 1}, http.StatusOK},
		{"stranger put", "PUT", &auth.Actor{ID: 2}, http.StatusForbidden},
		{"staff put", "PUT", &auth.Actor{ID: 2, Staff: true}, http.StatusOK},
		{"anonymous put", "PUT", nil, http.StatusUnauthorized},
		{"owner delete", "DELETE", &auth.Actor{ID: 1}, http.StatusNoContent},
		{"stranger delete", "DELETE", &auth.Actor{ID: 2}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/reviews/1", strings.NewReader(`{"title":"new"}`))
			if tt.actor != nil {
				req = asActor(req, tt.actor)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestHandlerConfirm(t *testing.T) {
	var gotEmail, gotToken string
	var gotReview int64
	sys := &mockSystem{
		confirmFn: func(_ context.Context, email, token string, reviewID int64) error {
			gotEmail, gotToken, gotReview = email, token, reviewID
			if email == "" || token == "" || reviewID <= 0 || token == "used" {
				return reviews.ErrNotFound
			}
			return nil
		},
	}
	mux := setupMux(sys, nil)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"confirmed", "?email=a%40b.test&token=abc123XYZ&review=4", http.StatusOK},
		{"reused token", "?email=a%40b.test&token=used&review=4", http.StatusNotFound},
		{"missing params", "", http.StatusNotFound},
		{"non-numeric review", "?email=a%40b.test&token=abc&review=x", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", "/reviews/confirm"+tt.query, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/reviews/confirm?email=a%40b.test&token=abc123XYZ&review=4", nil))
	if gotEmail != "a@b.test" || gotToken != "abc123XYZ" || gotReview != 4 {
		t.Errorf("got (%q, %q, %d)", gotEmail, gotToken, gotReview)
	}
}

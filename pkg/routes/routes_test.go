package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/vouch/pkg/routes"
)

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/items",
		Routes: []routes.Route{
			{
				Method:  "GET",
				Pattern: "",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				},
			},
			{
				Method:  "GET",
				Pattern: "/{id}",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				},
			},
		},
	})

	tests := []struct {
		name   string
		method string
		path   string
		wantOK bool
	}{
		{"list items", "GET", "/items", true},
		{"get item", "GET", "/items/123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			mux.ServeHTTP(rec, req)

			if tt.wantOK && rec.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rec.Code)
			}
		})
	}
}

func TestNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/api",
		Children: []routes.Group{
			{
				Prefix: "/v1",
				Routes: []routes.Route{
					{
						Method:  "GET",
						Pattern: "/items",
						Handler: func(w http.ResponseWriter, r *http.Request) {
							w.WriteHeader(http.StatusOK)
						},
					},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/items", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("nested route: got %d, want 200", rec.Code)
	}
}

func TestRouteMiddlewareOrder(t *testing.T) {
	mux := http.NewServeMux()

	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	routes.Register(mux, routes.Group{
		Prefix: "/items",
		Routes: []routes.Route{
			{
				Method:  "POST",
				Pattern: "",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					order = append(order, "handler")
					w.WriteHeader(http.StatusCreated)
				},
				Middleware: []func(http.Handler) http.Handler{tag("outer"), tag("inner")},
			},
			{
				Method:  "GET",
				Pattern: "",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					order = append(order, "plain")
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/items", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", rec.Code)
	}
	want := []string{"outer", "inner", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order: got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d]: got %s, want %s", i, order[i], want[i])
		}
	}

	order = nil
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/items", nil))
	if len(order) != 1 || order[0] != "plain" {
		t.Errorf("unwrapped route: got %v, want [plain]", order)
	}
}

func TestGroupMiddlewareInherited(t *testing.T) {
	mux := http.NewServeMux()

	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}

	routes.Register(mux, routes.Group{
		Prefix:     "/api",
		Middleware: []func(http.Handler) http.Handler{tag("api")},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/ping", Handler: handler},
		},
		Children: []routes.Group{
			{
				Prefix:     "/admin",
				Middleware: []func(http.Handler) http.Handler{tag("admin")},
				Routes: []routes.Route{
					{
						Method:     "GET",
						Pattern:    "/stats",
						Handler:    handler,
						Middleware: []func(http.Handler) http.Handler{tag("route")},
					},
				},
			},
		},
	})

	tests := []struct {
		path string
		want []string
	}{
		{"/api/ping", []string{"api", "handler"}},
		{"/api/admin/stats", []string{"api", "admin", "route", "handler"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			order = nil
			mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", tt.path, nil))
			if len(order) != len(tt.want) {
				t.Fatalf("order: got %v, want %v", order, tt.want)
			}
			for i := range tt.want {
				if order[i] != tt.want[i] {
					t.Errorf("order[%d]: got %s, want %s", i, order[i], tt.want[i])
				}
			}
		})
	}
}

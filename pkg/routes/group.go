package routes

import (
	"net/http"
	"slices"
)

// Group organizes routes under a common prefix. Group middleware wraps every
// route in the group and its children, outside any route-level middleware.
type Group struct {
	Prefix     string
	Middleware []func(http.Handler) http.Handler
	Routes     []Route
	Children   []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", nil, group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, inherited []func(http.Handler) http.Handler, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	stack := append(slices.Clip(inherited), group.Middleware...)

	for _, route := range group.Routes {
		route.Middleware = append(slices.Clip(stack), route.Middleware...)
		mux.Handle(route.Method+" "+fullPrefix+route.Pattern, route.handler())
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, stack, child)
	}
}

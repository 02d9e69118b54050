package server

import (
	"net/http"
	"strings"
)

// RouteHandler is a function type for HTTP handlers
type RouteHandler func(http.ResponseWriter, *http.Request)

// PathSuffixRouter checks if path ends with a specific suffix and routes to handler
type PathSuffixRouter struct {
	Suffix  string
	Handler RouteHandler
}

// RouteByPathSuffix routes requests based on path suffix. The part between
// prefix and suffix must be a single non-empty segment.
// Returns true if a route was matched and handled
func RouteByPathSuffix(w http.ResponseWriter, r *http.Request, prefix string, routes []PathSuffixRouter) bool {
	path := r.URL.Path
	if len(path) <= len(prefix) {
		return false
	}

	pathSuffix := path[len(prefix):]
	for _, route := range routes {
		if !strings.HasSuffix(pathSuffix, route.Suffix) {
			continue
		}
		segment := strings.TrimSuffix(pathSuffix, route.Suffix)
		if segment == "" || strings.Contains(segment, "/") {
			continue
		}
		route.Handler(w, r)
		return true
	}
	return false
}

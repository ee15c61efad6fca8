package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, Accept"
	corsMaxAge       = "86400"
)

// Origins is the set of browser origins allowed to call the API.
// A "*" entry allows every origin.
type Origins struct {
	any     bool
	allowed map[string]struct{}
}

// NewOrigins normalizes the configured origins (trimmed, no trailing slash).
func NewOrigins(list []string) Origins {
	o := Origins{allowed: make(map[string]struct{}, len(list))}
	for _, s := range list {
		s = strings.TrimSuffix(strings.TrimSpace(s), "/")
		switch s {
		case "":
		case "*":
			o.any = true
		default:
			o.allowed[s] = struct{}{}
		}
	}
	return o
}

// Allow reports whether origin may call the API.
func (o Origins) Allow(origin string) bool {
	if origin == "" {
		return false
	}
	if o.any {
		return true
	}
	_, ok := o.allowed[origin]
	return ok
}

// CORS returns a handler that adds CORS headers for allowed origins and
// responds to OPTIONS preflight requests with 204.
func CORS(origins Origins, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		ok := origins.Allow(origin)
		if ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if ok {
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
				w.Header().Set("Access-Control-Max-Age", corsMaxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

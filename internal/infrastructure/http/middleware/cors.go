package middleware

import (
	"net/http"
	"strings"
)

type corsPolicy struct {
	anyOrigin bool
	origins   map[string]struct{}
	methods   string
	headers   string
}

func (p corsPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.anyOrigin {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

// CORS answers preflight requests and sets Access-Control-* headers for allowed origins.
// An empty allowedOrigins returns a pass-through middleware. "*" allows any origin.
// Nil methods or headers select GET, POST, OPTIONS and Authorization, Content-Type.
func CORS(allowedOrigins, allowedMethods, allowedHeaders []string) func(next http.Handler) http.Handler {
	p := corsPolicy{
		origins: make(map[string]struct{}),
		methods: "GET, POST, OPTIONS",
		headers: "Authorization, Content-Type",
	}
	for _, o := range allowedOrigins {
		switch o = strings.TrimSpace(o); o {
		case "":
		case "*":
			p.anyOrigin = true
		default:
			p.origins[o] = struct{}{}
		}
	}
	if len(p.origins) == 0 && !p.anyOrigin {
		return noopMiddleware
	}
	if len(allowedMethods) > 0 {
		p.methods = strings.Join(allowedMethods, ", ")
	}
	if len(allowedHeaders) > 0 {
		p.headers = strings.Join(allowedHeaders, ", ")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")
			origin := r.Header.Get("Origin")
			if !p.allows(origin) {
				next.ServeHTTP(w, r)
				return
			}
			h.Set("Access-Control-Allow-Origin", origin)
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if !preflight {
				next.ServeHTTP(w, r)
				return
			}
			h.Set("Access-Control-Allow-Methods", p.methods)
			h.Set("Access-Control-Allow-Headers", p.headers)
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureOptions returns the header policy for a JSON-only API. Development mode
// disables the host and HSTS checks.
func SecureOptions(isDevelopment bool, allowedHosts []string) secure.Options {
	return secure.Options{
		IsDevelopment:         isDevelopment,
		AllowedHosts:          allowedHosts,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=()",
	}
}

// NewSecure returns the header middleware. Requests for hosts outside
// AllowedHosts get a JSON 400 instead of the library's plain-text reply.
func NewSecure(opts secure.Options) func(next http.Handler) http.Handler {
	s := secure.New(opts)
	s.SetBadHostHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusBadRequest, "bad_host", "bad host")
	}))
	return s.Handler
}

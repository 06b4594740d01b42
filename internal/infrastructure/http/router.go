package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/http/middleware"
)

// APIPrefix is the mount point of every versioned route.
const APIPrefix = "/api/v1"

type RouterConfig struct {
	AuthHandler   *handlers.AuthHandler
	HealthHandler *handlers.HealthHandler
	RequireJWT    func(http.Handler) http.Handler // bearer auth for /auth/profile
	Log           zerolog.Logger
	Secure        func(http.Handler) http.Handler
	CORS          func(http.Handler) http.Handler
	IPRateLimit   func(http.Handler) http.Handler
	// SensitiveRateLimit guards credential, OTP and reset endpoints.
	SensitiveRateLimit func(http.Handler) http.Handler
	Metrics            bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route(APIPrefix, func(r chi.Router) {
		r.Use(middleware.APIVersion("v1"))
		r.Use(middleware.NoStore)
		r.Use(chimid.AllowContentType("application/json"))
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.SensitiveRateLimit != nil {
					r.Use(cfg.SensitiveRateLimit)
				}
				r.Post("/register", cfg.AuthHandler.Register)
				r.Post("/login", cfg.AuthHandler.Login)
				r.Post("/verify", cfg.AuthHandler.VerifyOTP)
				r.Post("/forgot-password", cfg.AuthHandler.ForgotPassword)
				r.Post("/verify-forgot-password", cfg.AuthHandler.VerifyForgotPassword)
				r.Post("/reset-password", cfg.AuthHandler.ResetPassword)
			})
			// Logout reads the bearer header itself so a repeated logout still succeeds.
			r.Post("/logout", cfg.AuthHandler.Logout)
			if cfg.RequireJWT != nil {
				r.Group(func(r chi.Router) {
					r.Use(cfg.RequireJWT)
					r.Get("/profile", cfg.AuthHandler.Profile)
				})
			}
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/amirhosseinghanipour/otpgate/internal/application/auth"
	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	"github.com/amirhosseinghanipour/otpgate/internal/config"
	infraauth "github.com/amirhosseinghanipour/otpgate/internal/infrastructure/auth"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/cache"
	httprouter "github.com/amirhosseinghanipour/otpgate/internal/infrastructure/http"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/observability"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/persistence/migrations"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/persistence/postgres"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/queue"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/security"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/webhook"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, newLogger())
		},
	}
}

func runServe(ctx context.Context, log zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "load config").Wrap(err)
	}

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		return oops.Code("TRACING_SETUP_FAILED").Wrap(err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	if cfg.Database.AutoMigrate {
		if err := migrateUp(cfg.Database.URL); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	users := postgres.NewUserRepository(pool)

	checks := map[string]handlers.Check{"database": pool.Ping}

	var (
		store       ports.Cache
		notifier    ports.Notifier
		redisClient *redis.Client
		worker      *queue.Worker
	)
	links := queue.ResetLinks{BaseURL: cfg.Notify.ResetBaseURL}
	mailer := queue.NewLogMailer(log)
	if cfg.Redis.URL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		store = cache.NewRedisCache(redisClient)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }

		redisOpt, err := asynq.ParseRedisURI(cfg.Redis.URL)
		if err != nil {
			return oops.Code("CONFIG_INVALID").With("operation", "parse REDIS_URL").Wrap(err)
		}
		enq := queue.NewAsynqEnqueuer(redisOpt, links, cfg.OTP.TTL, log)
		defer enq.Close()
		notifier = enq
		worker = queue.NewWorker(redisOpt, mailer, log)
		go func() {
			if err := worker.Run(); err != nil {
				log.Error().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		log.Warn().Msg("REDIS_URL not set; using in-process cache and direct email delivery")
		mem := cache.NewMemoryCache()
		go mem.RunSweeper(ctx, sweepInterval)
		store = mem
		notifier = queue.NewDirectNotifier(mailer, links)
	}

	hasher, err := security.NewMultiHasher(security.Scheme(cfg.Hasher.Scheme), cfg.Hasher.BcryptCost, security.Argon2Params{
		Memory:      cfg.Hasher.Argon2Memory,
		Iterations:  cfg.Hasher.Argon2Iterations,
		Parallelism: cfg.Hasher.Argon2Parallelism,
	})
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	issuer, err := infraauth.NewTokenIssuer(infraauth.Config{
		AccessSecret: cfg.JWT.Secret,
		ResetSecret:  cfg.JWT.ResetPasswordSecret,
		AccessExpiry: cfg.JWT.AccessExpiry,
		Issuer:       cfg.JWT.Issuer,
		Audience:     cfg.JWT.Audience,
	})
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	dispatcher := auth.NewDispatcher(notifier, log, cfg.Notify.Timeout)
	otps := auth.NewOTPIssuer(store, dispatcher, cfg.OTP.TTL)
	authenticate := auth.NewAuthenticate(store, issuer)

	var emitter ports.WebhookEmitter
	if cfg.Webhook.URL != "" {
		var opts []webhook.HTTPEmitterOption
		if cfg.Webhook.Secret != "" {
			opts = append(opts, webhook.WithSecret(cfg.Webhook.Secret))
		}
		emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL, opts...)
	}
	auditor := handlers.NewAuditor(log, emitter)

	authHandler := handlers.NewAuthHandler(handlers.AuthUseCases{
		Register:             auth.NewRegisterUser(users, hasher, otps),
		Login:                auth.NewLogin(users, hasher, issuer, otps),
		VerifyOTP:            auth.NewVerifyOTP(users, store, issuer),
		Logout:               auth.NewLogout(store, issuer),
		ForgotPassword:       auth.NewForgotPassword(users, store, issuer, dispatcher),
		VerifyForgotPassword: auth.NewVerifyForgotPassword(users, store, issuer),
		ResetPassword:        auth.NewResetPassword(users, store, issuer, hasher, dispatcher),
		GetProfile:           auth.NewGetProfile(users),
	}, auditor, log)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP, "ip", redisClient)
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "create IP rate limiter").Wrap(err)
	}
	sensitiveLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIPSensitive, "sensitive", redisClient)
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "create sensitive rate limiter").Wrap(err)
	}
	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:        authHandler,
		HealthHandler:      handlers.NewHealthHandler(checks),
		RequireJWT:         middleware.NewAuthValidator(authenticate, log).Handler,
		Log:                log,
		Secure:             middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment, cfg.Secure.AllowedHosts)),
		CORS:               middleware.CORS(cfg.Server.AllowedOrigins, nil, nil),
		IPRateLimit:        ipLimit,
		SensitiveRateLimit: sensitiveLimit,
		Metrics:            true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return oops.Code("SERVER_FAILED").Wrap(err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	dispatcher.Wait()
	auditor.Wait()
	if worker != nil {
		worker.Shutdown()
	}
	log.Info().Msg("server stopped")
	return nil
}

func migrateUp(databaseURL string) error {
	m, err := migrations.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"example.com/ecosangam/internal/advisor"
	"example.com/ecosangam/internal/api"
	"example.com/ecosangam/internal/auth"
	"example.com/ecosangam/internal/config"
	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/mail"
	"example.com/ecosangam/internal/notify"
	"example.com/ecosangam/internal/observability"
	"example.com/ecosangam/internal/outbox"
	"example.com/ecosangam/internal/persistence/postgres"
	httptransport "example.com/ecosangam/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat).With().Str("service", "ecosangam-api").Logger()
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("api stopped")
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewRepository(pool, logger)
	producer := outbox.NewKafkaProducer(cfg.KafkaBrokers, outbox.WithProducerLogger(logger))
	defer producer.Close()

	registry := outbox.NewSchemaRegistryClient(cfg.SchemaRegistryURL)
	dispatcher := outbox.NewDispatcher(pool, producer, registry, cfg.OutboxPollInterval, cfg.OutboxBatchSize,
		outbox.WithDispatcherLogger(logger))

	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
	deps := api.Deps{
		Service:      domain.NewService(repo, repo),
		Estimator:    emissions.NewEstimator(emissions.WithElectricityFactor(cfg.ElectricityFactor)),
		Issuer:       auth.NewIssuer(authCfg, cfg.JWTTTL),
		FrontendURL:  cfg.FrontendURL,
		SecureCookie: strings.HasPrefix(cfg.FrontendURL, "https://"),
		Logger:       logger,
	}
	if adv := newAdvisor(ctx, cfg, logger); adv != nil {
		deps.Advisor = adv
	}
	if notifier := newNotifier(ctx, cfg, logger); notifier != nil {
		deps.Certificates = notifier
	}
	if login := auth.NewGoogleLogin(auth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	}); login.Configured() {
		deps.Login = login
	} else {
		logger.Warn().Msg("google sign-in not configured")
	}

	mux := http.NewServeMux()
	api.NewHandler(deps).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	authMiddleware := auth.NewMiddleware(authCfg, auth.PublicPaths(api.PublicPaths...))
	handler := httptransport.Chain(httptransport.Routes(mux),
		httptransport.CORS(cfg.FrontendURL),
		httptransport.RequestLogger(logger),
		authMiddleware.Wrap,
	)
	server := httptransport.NewServer(httptransport.DefaultServerConfig(cfg.HTTPAddress), handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dispatcher.Start(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info().Str("address", cfg.HTTPAddress).Msg("api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
		return nil
	})

	err = g.Wait()
	dispatcher.Wait()
	return err
}

// newAdvisor returns nil when no Gemini key is configured. The Redis cache is optional.
func newAdvisor(ctx context.Context, cfg config.Config, logger zerolog.Logger) *advisor.Advisor {
	gen, err := advisor.NewGeminiClient(advisor.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("advisor disabled")
		return nil
	}
	opts := []advisor.Option{advisor.WithLogger(logger)}
	if cfg.RedisURL != "" {
		client, err := advisor.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("advice cache disabled")
		} else {
			opts = append(opts, advisor.WithCache(advisor.NewRedisCache(client, "ecosangam:"), cfg.AdviceCacheTTL))
		}
	}
	return advisor.New(gen, opts...)
}

// newNotifier returns nil when Gmail delivery is not configured.
func newNotifier(ctx context.Context, cfg config.Config, logger zerolog.Logger) *notify.Notifier {
	notifier, err := notify.NewGmailNotifier(ctx, mail.GmailConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RefreshToken: cfg.MailRefreshToken,
		From:         cfg.MailFrom,
	}, cfg.CertificateIssuer, notify.WithLogger(logger))
	if err != nil {
		logger.Warn().Err(err).Msg("certificate delivery disabled")
		return nil
	}
	return notifier
}

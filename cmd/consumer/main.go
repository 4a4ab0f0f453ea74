package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"example.com/ecosangam/internal/config"
	"example.com/ecosangam/internal/consumer"
	"example.com/ecosangam/internal/events"
	"example.com/ecosangam/internal/mail"
	"example.com/ecosangam/internal/notify"
	"example.com/ecosangam/internal/observability"
	"example.com/ecosangam/internal/persistence/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat).With().Str("service", "ecosangam-consumer").Logger()
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("consumer stopped")
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	router := consumer.NewRouter().All(consumer.NewEventLogHandler(pool))
	notifier, err := notify.NewGmailNotifier(ctx, mail.GmailConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RefreshToken: cfg.MailRefreshToken,
		From:         cfg.MailFrom,
	}, cfg.CertificateIssuer,
		notify.WithDeliveryStore(postgres.NewDeliveryLog(pool)),
		notify.WithLogger(logger),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("certificate delivery disabled")
	} else {
		router.On(events.TypeGoalCompleted, consumer.NewCompletionHandler(notifier))
	}

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("address", cfg.MetricsAddress).Msg("consumer metrics listening")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown error")
		}
		return nil
	})

	for _, topic := range cfg.ConsumerTopics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:         cfg.KafkaBrokers,
			GroupID:         cfg.ConsumerGroupID,
			Topic:           topic,
			MinBytes:        1e3,
			MaxBytes:        10e6,
			CommitInterval:  time.Second,
			RetentionTime:   24 * time.Hour,
			ReadLagInterval: -1,
		})
		topicLogger := logger.With().Str("topic", topic).Str("group", cfg.ConsumerGroupID).Logger()
		proc := consumer.NewProcessor(reader, router,
			consumer.WithLogger(topicLogger),
			consumer.WithRetry(3, 2*time.Second),
		)

		g.Go(func() error {
			defer reader.Close()
			topicLogger.Info().Msg("consumer started")
			if err := proc.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				topicLogger.Error().Err(err).Msg("consumer stopped with error")
			}
			return nil
		})
	}

	return g.Wait()
}

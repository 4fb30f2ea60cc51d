package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/classifier"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/config"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/fulfillment"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/service"
	httpt "github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/transport/http"
	kafkat "github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/transport/kafka"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/kafka"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/metric"

	"golang.org/x/sync/errgroup"
)

func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	metrics := initMetrics(ctx, eg, &cfg.Metrics, log)

	directory, err := initDirectoryClient(&cfg.Fulfillment, log, metrics)
	if err != nil {
		return err
	}

	publisher, closePublisher, err := initPublisher(cfg, log, metrics)
	if err != nil {
		return err
	}
	defer closePublisher()

	reassignService, err := initReassignmentService(cfg, directory, publisher, log, metrics)
	if err != nil {
		return err
	}

	if cfg.Webhook.Secret == "" {
		log.Warnw("webhook secret is not set, signature verification is disabled")
	}
	if cfg.Admin.Token == "" {
		log.Infow("admin token is not set, manual reprocessing is disabled")
	}

	if serverErr := initHTTPServer(ctx, eg, cfg, reassignService, log, metrics); serverErr != nil {
		return serverErr
	}

	return waitForShutdown(eg)
}

func initMetrics(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Metrics,
	log logger.Logger,
) metric.Factory {
	metrics := metric.NewFactory()

	hostPort := net.JoinHostPort(cfg.Host, cfg.Port)
	metricsServer := &http.Server{
		Addr:              hostPort,
		Handler:           metrics.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	eg.Go(func() error {
		log.Infow("starting metrics server", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app.initMetrics: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		if err := metricsServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			return fmt.Errorf("app.initMetrics: shutdown: %w", err)
		}
		return nil
	})

	return metrics
}

func initDirectoryClient(
	cfg *config.Fulfillment,
	log logger.Logger,
	metrics metric.Factory,
) (*fulfillment.Client, error) {
	client, err := fulfillment.NewClient(
		cfg,
		log.With("component", "fulfillment client"),
		metrics.Downstream(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initDirectoryClient: %w", err)
	}
	return client, nil
}

// initPublisher returns a Kafka outcome publisher when enabled, otherwise a
// no-op one. The returned func closes the underlying writer.
func initPublisher(
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Factory,
) (service.OutcomePublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return service.NopPublisher{}, func() {}, nil
	}

	publisherLog := log.With("component", "outcome publisher")

	writer, err := kafka.NewWriter(cfg.Kafka, publisherLog)
	if err != nil {
		return nil, nil, fmt.Errorf("app.initPublisher: kafka writer creation: %w", err)
	}

	publisher, err := kafkat.NewOutcomePublisher(writer, cfg.Kafka.Topic, metrics.Publisher(), publisherLog)
	if err != nil {
		_ = writer.Close()
		return nil, nil, fmt.Errorf("app.initPublisher: %w", err)
	}

	closeFn := func() {
		if closeErr := publisher.Close(); closeErr != nil {
			publisherLog.Warnw("failed to close outcome publisher", "error", closeErr)
		}
	}
	return publisher, closeFn, nil
}

func initReassignmentService(
	cfg *config.Config,
	directory service.DirectoryClient,
	publisher service.OutcomePublisher,
	log logger.Logger,
	metrics metric.Factory,
) (*service.ReassignmentService, error) {
	rules := classifier.Rules{
		TagKeywords:        cfg.Classifier.TagKeywords,
		ShippingKeywords:   cfg.Classifier.ShippingKeywords,
		PickupLocationName: cfg.Classifier.PickupLocationName,
	}

	svc, err := service.NewReassignmentService(
		directory,
		classifier.New(rules),
		publisher,
		service.SettingsFromConfig(cfg),
		log.With("component", "reassignment service"),
		metrics.Reassignment(),
		metrics.Downstream(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initReassignmentService: %w", err)
	}
	return svc, nil
}

func initHTTPServer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Config,
	reassignService *service.ReassignmentService,
	log logger.Logger,
	metrics metric.Factory,
) error {
	handler, err := httpt.NewWebhookHandler(reassignService, cfg, log, metrics.HTTP())
	if err != nil {
		return fmt.Errorf("app.initHTTPServer: %w", err)
	}

	httpServer, err := httpt.NewHTTPServer(
		handler,
		&cfg.HTTP,
		log.With("component", "http server"),
	)
	if err != nil {
		return fmt.Errorf("app.initHTTPServer: %w", err)
	}

	eg.Go(func() error {
		return httpServer.Start(ctx)
	})
	return nil
}

func waitForShutdown(eg *errgroup.Group) error {
	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("app.waitForShutdown: application failed: %w", err)
	}
	return nil
}

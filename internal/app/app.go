// Package app wires together all dependencies and runs the catalog search
// service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/client"
	esclient "github.com/lruozzi9/SyliusElasticsearchPlugin/internal/client/elasticsearch"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/client/memory"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/config"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/event"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/generator"
	handler "github.com/lruozzi9/SyliusElasticsearchPlugin/internal/handler/http"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/locale"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/normalizer"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/parser"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/provider"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/query"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/query/fragment"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/service"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/health"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/httpclient"
	pkgkafka "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/kafka"
)

// App wires together all dependencies and runs the catalog search service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	consumers  []*pkgkafka.Consumer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Search engine client.
	var searchClient client.SearchClient
	switch cfg.SearchEngine {
	case "elasticsearch":
		es, err := esclient.New(cfg.ElasticsearchURL, logger)
		if err != nil {
			return nil, fmt.Errorf("init elasticsearch client: %w", err)
		}
		searchClient = es
		logger.Info("elasticsearch client initialized",
			slog.String("url", cfg.ElasticsearchURL),
		)
	default:
		searchClient = memory.New()
		logger.Info("in-memory search client initialized")
	}

	// Channel topology from configuration.
	codes, channelLocales, err := cfg.ChannelLocales()
	if err != nil {
		return nil, err
	}
	channelList := make([]*domain.Channel, 0, len(codes))
	for _, code := range codes {
		channelList = append(channelList, &domain.Channel{
			Code:          code,
			DefaultLocale: channelLocales[code],
		})
	}
	channels := provider.NewStaticChannelProvider(channelList)
	channelCtx := &provider.ContextChannelResolver{Channels: channels, Default: cfg.DefaultChannel}
	locales := locale.ContextResolver{Default: cfg.DefaultLocale}

	// Catalog source behind a retrying client and a circuit breaker.
	baseClient := httpclient.New(httpclient.DefaultConfig())
	catalogClient := httpclient.NewCircuitBreakerClient(baseClient, httpclient.DefaultCircuitBreakerConfig("catalog"), logger)
	catalog := provider.NewHTTPCatalogProvider(cfg.CatalogServiceURL, catalogClient, logger)

	// Query pipeline.
	renderer, err := fragment.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("init fragment renderer: %w", err)
	}

	searchService := service.NewSearchService(service.Deps{
		Client:     searchClient,
		Builder:    query.NewBuilder(renderer, locales, logger),
		Parser:     parser.NewDocumentParser(locales, channelCtx, cfg.DefaultLocale),
		Normalizer: normalizer.NewProductNormalizer(normalizer.PositionVariantResolver{}),
		Names:      generator.NewIndexNameGenerator(cfg.IndexPrefix),
		Channels:   channels,
		ChannelCtx: channelCtx,
		Products:   catalog,
		Taxons:     catalog,
		Locales:    locales,
		Logger:     logger,
	})

	// Kafka consumers for catalog product events.
	var consumers []*pkgkafka.Consumer
	if cfg.KafkaEnabled {
		eventConsumer := event.NewConsumer(searchService, logger)
		topics := []string{
			event.TopicProductCreated,
			event.TopicProductUpdated,
			event.TopicProductDeleted,
		}
		for _, topic := range topics {
			consumerCfg := pkgkafka.ConsumerConfig{
				Brokers:  cfg.KafkaBrokers,
				GroupID:  cfg.KafkaGroupID,
				Topic:    topic,
				MinBytes: 1,
				MaxBytes: 10e6, // 10 MB
			}
			consumers = append(consumers, pkgkafka.NewConsumer(consumerCfg, eventConsumer.Handle, logger))
		}
		logger.Info("kafka consumers initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.Int("topic_count", len(topics)),
		)
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("search-engine", searchClient.Ping)
	if cfg.KafkaEnabled {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
		})
	}

	router := handler.NewRouter(searchService, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		consumers:  consumers,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and Kafka consumers, blocking until the context
// is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	for _, c := range a.consumers {
		c := c
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

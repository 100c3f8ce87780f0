package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/catalogapi"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

const (
	driverMemory   = "memory"
	driverPostgres = "postgres"

	requestTimeoutMargin = 5 * time.Second
)

type storages struct {
	kv    port.KeyValueStorage
	sqldb *storage.SQLDB
}

// Broker adapters stay nil unless broker.seed_brokers is configured.
type broker struct {
	cartEvents    *kafka.CartEventsProducer
	cartStatsProc *kafka.CartStatsProcessor
	cartStatsView *kafka.CartStatsView
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	storages   storages
	broker     broker
	service    *service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initBroker()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	switch app.cfg.Storage.Driver {
	case driverMemory:
		app.storages.kv = storage.NewMemoryKV()
	case driverPostgres:
		db, err := storage.NewSQLDB(app.ctx, app.cfg.Storage.DSN)
		if err != nil {
			app.fallDown(op, err)
		}
		app.storages.sqldb = &db
		app.storages.kv = storage.NewSQLKV(db)
	default:
		app.fallDown(op, fmt.Errorf("unknown storage driver %q", app.cfg.Storage.Driver))
	}
}

func (app *App) initBroker() {
	const op = "App.initBroker"

	if !app.cfg.Broker.Enabled() {
		slog.Info("broker is not configured, cart events are disabled")
		return
	}

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	cartEventsTopic := app.cfg.Broker.Topics.CartEvents
	cartStatsGroup := app.cfg.Broker.Consumers.CartStatsGroup

	tlsConfig, err := app.brokerTLSConfig()
	if err != nil {
		app.fallDown(op, err)
	}
	kafka.ApplyGokaTLS(tlsConfig)

	srOpts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(tlsConfig))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	cartEventSerde, err := schema.NewSerdeCartEventV1(
		ctx,
		schema.SubjectOpt(cartEventsTopic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaIdentifier(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	cartEvents, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, cartEventsTopic, tlsConfig),
		kafka.ProducerEncoderOpt(cartEventSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.broker.cartEvents = &cartEvents

	cartStatsProc, err := kafka.NewCartStatsProc(
		seedBrokers, cartEventsTopic, cartStatsGroup, cartEventSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.broker.cartStatsProc = &cartStatsProc

	cartStatsView, err := kafka.NewCartStatsView(seedBrokers, cartStatsGroup)
	if err != nil {
		app.fallDown(op, err)
	}
	app.broker.cartStatsView = &cartStatsView
}

func (app *App) brokerTLSConfig() (*tls.Config, error) {
	c := app.cfg.Broker.TLS
	if !c.Enabled() {
		return nil, nil
	}
	return adapter.MakeTLSConfig(c.CAFile, c.CertFile, c.KeyFile)
}

func (app *App) initCoreService() {
	var opts []service.Opt
	if app.broker.cartEvents != nil {
		opts = append(opts, service.CartEventsOpt(app.broker.cartEvents))
	}
	if app.broker.cartStatsView != nil {
		opts = append(opts, service.CartStatsOpt(app.broker.cartStatsView))
	}

	catalogClient := catalogapi.NewClient(
		app.cfg.Catalog.BaseURL,
		catalogapi.LimitOpt(app.cfg.Catalog.Limit),
		catalogapi.TimeoutOpt(app.cfg.Catalog.Timeout),
	)

	app.service = service.New(
		catalogClient,
		storage.NewCartRepository(app.storages.kv),
		opts...,
	)
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	views := httphandler.MustNewViews()

	mux := http.NewServeMux()
	httphandler.RegisterPages(mux, app.service, app.service, app.service, views)
	httphandler.RegisterCartAPI(mux, app.service)

	handler := httphandler.LogRequests(httphandler.WithVisitor(mux))
	app.httpServer = httphandler.NewHTTPServer(
		addr,
		handler,
		httphandler.RequestTimeoutOpt(app.cfg.Catalog.Timeout+requestTimeoutMargin),
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	if app.broker.cartStatsProc != nil {
		var wg sync.WaitGroup
		wg.Add(2)
		go app.broker.cartStatsProc.Run(app.ctx, &wg)
		go app.broker.cartStatsView.Run(app.ctx, &wg)
		wg.Wait()
	}

	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)

	if app.broker.cartStatsProc != nil {
		app.broker.cartStatsProc.Close()
	}
	if app.broker.cartEvents != nil {
		app.broker.cartEvents.Close()
	}
	if app.storages.sqldb != nil {
		app.storages.sqldb.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}

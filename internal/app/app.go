// Package app wires configuration, storage, the bus and the generator
// services together.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/transfraud/internal/cache"
	"github.com/Dan9191/transfraud/internal/config"
	"github.com/Dan9191/transfraud/internal/handler"
	"github.com/Dan9191/transfraud/internal/metrics"
	"github.com/Dan9191/transfraud/internal/middleware"
	"github.com/Dan9191/transfraud/internal/publisher"
	"github.com/Dan9191/transfraud/internal/repository"
	"github.com/Dan9191/transfraud/internal/schema"
	"github.com/Dan9191/transfraud/internal/service"
	"github.com/Dan9191/transfraud/internal/utils/email"
)

var (
	_ service.Store     = (*repository.Repository)(nil)
	_ handler.Directory = (*repository.Repository)(nil)
)

// App holds the wired components
type App struct {
	Config      *config.Config
	Logger      *logrus.Logger
	DB          *sql.DB
	Repo        *repository.Repository
	Publisher   *publisher.KafkaPublisher
	Metrics     *metrics.Metrics
	Activity    *cache.ActivityCache
	Controller  *service.Controller
	Synthesizer *service.Synthesizer
	Monitor     *service.Monitor
	Handler     *handler.Handler
}

// New connects to the database, prepares the schema and topics, and builds
// the services
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repo := repository.NewRepository(db)
	if err := repo.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.Kafka.ProvisionTopics {
		if err := publisher.ProvisionTopics(ctx, cfg.Kafka, logger); err != nil {
			logger.Warnf("Failed to provision topics: %v", err)
		}
	}

	codec, err := schema.NewCodec()
	if err != nil {
		db.Close()
		return nil, err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	if err := m.Register(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	// Initialize layers
	seed := cfg.Generation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	entityRNG, txRNG := newRNGs(seed)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Repo:      repo,
		Publisher: publisher.NewKafkaPublisher(cfg.Kafka, codec, m, logger),
		Metrics:   m,
		Activity:  cache.NewActivityCache(cfg.ActivityCacheTTL, cache.DefaultMaxRecent),
	}

	gen := service.NewEntityGenerator(entityRNG, cfg.CVVHashCost, logger)
	a.Controller = service.NewController(repo, gen, a.Activity, m, service.ControllerConfig{
		Enabled:          cfg.Generation.Enabled,
		InitialCustomers: cfg.Generation.InitialCustomers,
		CardsPerCustomer: cfg.Generation.CardsPerCustomer,
	}, logger)
	a.Synthesizer = service.NewSynthesizer(repo, a.Publisher, a.Controller.ReadLocker(), txRNG, a.Activity, m,
		service.SynthesizerConfig{
			MaxBulkSize:         cfg.Generation.MaxBulkSize,
			PersistTransactions: cfg.Generation.PersistTransactions,
		}, logger)

	var alerter service.Alerter
	if cfg.SMTP.Enabled() {
		alerter = email.NewSender(cfg.SMTP, logger)
	}
	a.Monitor = service.NewMonitor(a.Controller, a.Synthesizer, alerter, m, service.MonitorConfig{
		Enabled:  cfg.Generation.Enabled,
		Interval: cfg.Generation.TransactionInterval,
	}, logger)

	a.Handler = handler.NewHandler(a.Controller, a.Synthesizer, repo, a.Activity, logger)
	return a, nil
}

// Router returns the HTTP routes
func (a *App) Router() *mux.Router {
	r := mux.NewRouter()
	a.Handler.Routes(r, middleware.AuthMiddleware(a.Config.JWTSecret, a.Logger), promhttp.Handler())
	return r
}

// Close stops the scheduler, flushes the publisher and closes the database
func (a *App) Close() error {
	a.Monitor.Stop()
	return errors.Join(a.Publisher.Close(), a.DB.Close())
}

// newRNGs derives independent sources for seeding and transaction synthesis
func newRNGs(seed int64) (entity, transaction *rand.Rand) {
	master := rand.New(rand.NewSource(seed))
	return rand.New(rand.NewSource(master.Int63())), rand.New(rand.NewSource(master.Int63()))
}

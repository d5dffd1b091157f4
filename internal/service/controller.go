package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/transfraud/internal/cache"
	"github.com/Dan9191/transfraud/internal/metrics"
	"github.com/Dan9191/transfraud/internal/models"
)

// seedProgressEvery controls how often seeding progress is logged
const seedProgressEvery = 20

// ControllerConfig sizes the seeded dataset
type ControllerConfig struct {
	Enabled          bool
	InitialCustomers int
	CardsPerCustomer int
}

// Controller owns the lifecycle of the seeded dataset. Initialize,
// Reinitialize and Recover are mutually exclusive; the initialized flag is
// only written while holding mu.
type Controller struct {
	mu          sync.RWMutex
	initialized atomic.Bool

	store   Store
	gen     *EntityGenerator
	cache   *cache.ActivityCache
	metrics *metrics.Metrics
	cfg     ControllerConfig
	log     *logrus.Entry
}

// NewController creates a Controller in the not initialized state
func NewController(store Store, gen *EntityGenerator, activity *cache.ActivityCache, m *metrics.Metrics,
	cfg ControllerConfig, log *logrus.Logger) *Controller {
	return &Controller{
		store:   store,
		gen:     gen,
		cache:   activity,
		metrics: m,
		cfg:     cfg,
		log:     log.WithField("component", "controller"),
	}
}

// ReadLocker returns a lock shared by readers of the card pool. It excludes
// any reinitialization in progress.
func (c *Controller) ReadLocker() sync.Locker {
	return c.mu.RLocker()
}

// IsInitialized reports whether a seeding pass has completed
func (c *Controller) IsInitialized() bool {
	return c.initialized.Load()
}

// Initialize seeds customers and cards when the store is empty. It is a no-op
// when generation is disabled or data already exists.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.initializeLocked(ctx)
}

// Reinitialize wipes transactions, cards and customers, clears the activity
// cache and seeds a fresh dataset
func (c *Controller) Reinitialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Info("Reinitializing data")
	c.initialized.Store(false)

	if err := c.store.DeleteAllTransactions(ctx); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	if err := c.store.DeleteAllCards(ctx); err != nil {
		return fmt.Errorf("failed to delete cards: %w", err)
	}
	if err := c.store.DeleteAllCustomers(ctx); err != nil {
		return fmt.Errorf("failed to delete customers: %w", err)
	}
	if n := c.cache.Clear(); n > 0 {
		c.log.Infof("Cleared activity for %d cards", n)
	}

	return c.initializeLocked(ctx)
}

// Recover resets the initialized flag and reruns initialization. The monitor
// calls it when the active card pool turns out to be empty.
func (c *Controller) Recover(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Warn("No active cards found, resetting initialization state")
	c.initialized.Store(false)
	if err := c.initializeLocked(ctx); err != nil {
		return err
	}
	c.metrics.SelfHealed()
	return nil
}

// Status derives the dataset readiness from the initialized flag and the
// customer and active card counts
func (c *Controller) Status(ctx context.Context) (models.DataStatus, error) {
	if !c.IsInitialized() {
		return models.StatusNotInitialized, nil
	}

	customers, err := c.store.CountCustomers(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count customers: %w", err)
	}
	active, err := c.store.CountActiveCards(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count active cards: %w", err)
	}
	if customers == 0 || active == 0 {
		return models.StatusInitializedButNoData, nil
	}
	return models.StatusReady, nil
}

// Stats returns the current dataset counters
func (c *Controller) Stats(ctx context.Context) (models.Stats, error) {
	var (
		stats models.Stats
		err   error
	)
	if stats.TotalCustomers, err = c.store.CountCustomers(ctx); err != nil {
		return models.Stats{}, fmt.Errorf("failed to count customers: %w", err)
	}
	if stats.ActiveCards, err = c.store.CountActiveCards(ctx); err != nil {
		return models.Stats{}, fmt.Errorf("failed to count active cards: %w", err)
	}
	if stats.TotalTransactions, err = c.store.CountTransactions(ctx); err != nil {
		return models.Stats{}, fmt.Errorf("failed to count transactions: %w", err)
	}
	return stats, nil
}

func (c *Controller) initializeLocked(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info("Data generation is disabled")
		return nil
	}

	customers, err := c.store.CountCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count customers: %w", err)
	}
	if customers > 0 {
		cards, err := c.store.CountCards(ctx)
		if err != nil {
			return fmt.Errorf("failed to count cards: %w", err)
		}
		c.log.Infof("Data already exists: %d customers, %d cards", customers, cards)
		c.initialized.Store(true)
		return nil
	}

	c.log.Infof("Starting initial data generation: %d customers with %d cards each", c.cfg.InitialCustomers, c.cfg.CardsPerCustomer)
	c.seed(ctx)

	c.initialized.Store(true)
	c.reportSeeded(ctx)
	return nil
}

func (c *Controller) seed(ctx context.Context) {
	used := make(map[string]struct{}, c.cfg.InitialCustomers)
	for i := 0; i < c.cfg.InitialCustomers; i++ {
		if ctx.Err() != nil {
			c.log.Warnf("Data generation interrupted after %d customers", i)
			return
		}

		customer, err := c.gen.NewCustomer(used)
		if err != nil {
			c.log.Warnf("Skipping customer %d: %v", i+1, err)
			continue
		}
		if err := c.seedCustomer(ctx, customer); err != nil {
			c.log.Errorf("Error generating customer %d: %v", i+1, err)
			continue
		}

		if (i+1)%seedProgressEvery == 0 {
			c.log.Infof("Generated %d customers", i+1)
		}
	}
}

func (c *Controller) seedCustomer(ctx context.Context, customer *models.Customer) error {
	if err := c.store.SaveCustomer(ctx, customer); err != nil {
		return err
	}
	for j := 0; j < c.cfg.CardsPerCustomer; j++ {
		card, err := c.gen.NewCard(customer)
		if err != nil {
			return err
		}
		if err := c.store.SaveCard(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) reportSeeded(ctx context.Context) {
	customers, err := c.store.CountCustomers(ctx)
	if err != nil {
		c.log.Errorf("Failed to count customers: %v", err)
		return
	}
	cards, err := c.store.CountCards(ctx)
	if err != nil {
		c.log.Errorf("Failed to count cards: %v", err)
		return
	}
	active, err := c.store.CountActiveCards(ctx)
	if err != nil {
		c.log.Errorf("Failed to count active cards: %v", err)
		return
	}

	c.metrics.Seeded(customers, active)
	c.log.Infof("Data generation completed: %d customers, %d cards", customers, cards)
	if active == 0 {
		c.log.Warn("No active cards after initialization")
		return
	}
	c.log.Infof("Active cards available: %d", active)
}

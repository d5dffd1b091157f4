package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/transfraud/internal/cache"
	"github.com/Dan9191/transfraud/internal/metrics"
	"github.com/Dan9191/transfraud/internal/models"
	"github.com/Dan9191/transfraud/internal/schema"
)

const (
	onlineProbability   = 0.4
	previousProbability = 0.3
	defaultCurrency     = "USD"
	merchantCountry     = "USA"

	// bulkPauseEvery paces bulk emission: a pause follows every tenth publish
	bulkPauseEvery = 10
)

var (
	merchantNames = []string{"Amazon", "Walmart", "Starbucks", "Target", "Best Buy", "McDonald's", "Apple Store",
		"Netflix", "Uber", "Shell Gas"}
	merchantCategories = []string{"RETAIL", "FOOD", "ENTERTAINMENT", "TRAVEL", "SERVICES", "UTILITIES"}
	merchantCities     = []string{"New York", "Los Angeles", "Chicago", "Houston", "Miami"}
	deviceTypes        = []string{"MOBILE", "DESKTOP", "TABLET"}
	userAgents         = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 14_0 like Mac OS X) AppleWebKit/537.36",
		"Mozilla/5.0 (Android 10; Mobile) AppleWebKit/537.36",
	}
)

// SynthesizerConfig tunes transaction emission
type SynthesizerConfig struct {
	MaxBulkSize         int
	PersistTransactions bool
	BulkPause           time.Duration
}

// Synthesized pairs a generated domain transaction with its wire record
type Synthesized struct {
	Transaction *models.Transaction
	Record      *schema.CardTransaction
}

// Synthesizer builds random transactions against the active card pool and
// publishes them
type Synthesizer struct {
	store     Store
	publisher Publisher
	pool      sync.Locker
	cache     *cache.ActivityCache
	metrics   *metrics.Metrics
	cfg       SynthesizerConfig
	log       *logrus.Entry

	rngMu sync.Mutex
	rng   *rand.Rand

	now   func() time.Time
	pause func(ctx context.Context, d time.Duration) error
}

// NewSynthesizer creates a Synthesizer. pool is held for reading from the
// active card read through persisting the transaction, so a concurrent
// reinitialization is never observed half done. A nil pool disables that guard.
func NewSynthesizer(store Store, publisher Publisher, pool sync.Locker, rng *rand.Rand, activity *cache.ActivityCache,
	m *metrics.Metrics, cfg SynthesizerConfig, log *logrus.Logger) *Synthesizer {
	if pool == nil {
		pool = new(sync.RWMutex).RLocker()
	}
	if cfg.BulkPause <= 0 {
		cfg.BulkPause = 50 * time.Millisecond
	}
	return &Synthesizer{
		store:     store,
		publisher: publisher,
		pool:      pool,
		cache:     activity,
		metrics:   m,
		cfg:       cfg,
		log:       log.WithField("component", "synthesizer"),
		rng:       rng,
		now:       time.Now,
		pause:     sleep,
	}
}

// Generate builds one random transaction for a uniformly chosen active card.
// Nothing is persisted or published.
func (s *Synthesizer) Generate(ctx context.Context) (*Synthesized, error) {
	s.pool.Lock()
	defer s.pool.Unlock()
	return s.generateLocked(ctx)
}

// GenerateRandomTransaction returns a wire record without publishing it
func (s *Synthesizer) GenerateRandomTransaction(ctx context.Context) (*schema.CardTransaction, error) {
	syn, err := s.Generate(ctx)
	if err != nil {
		return nil, err
	}
	return syn.Record, nil
}

// GenerateAndPublishOne generates a transaction and hands it to the publisher.
// Every failure is wrapped in ErrPublishFailure.
func (s *Synthesizer) GenerateAndPublishOne(ctx context.Context) (*schema.CardTransaction, error) {
	syn, err := s.generateAndPersist(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPublishFailure, err)
	}

	if err := s.publisher.Publish(ctx, syn.Record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPublishFailure, err)
	}
	s.cache.Record(syn.Transaction.CardID, syn.Transaction.ID, syn.Transaction.Timestamp)

	s.log.Debugf("Generated and sent transaction: %s", syn.Record.TransactionID)
	return syn.Record, nil
}

// GenerateAndPublishMany publishes count transactions sequentially and
// returns how many succeeded. Individual failures are logged and skipped.
func (s *Synthesizer) GenerateAndPublishMany(ctx context.Context, count int) (int, error) {
	if count <= 0 || count > s.cfg.MaxBulkSize {
		return 0, fmt.Errorf("%w: count must be between 1 and %d, got %d", ErrInvalidCount, s.cfg.MaxBulkSize, count)
	}

	s.log.Infof("Generating %d transactions", count)

	succeeded := 0
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			s.log.Warnf("Bulk generation interrupted after %d of %d transactions", succeeded, count)
			return succeeded, err
		}

		if _, err := s.GenerateAndPublishOne(ctx); err != nil {
			s.log.Errorf("Error generating transaction %d of %d: %v", i+1, count, err)
			continue
		}
		succeeded++

		if i%bulkPauseEvery == 0 {
			if err := s.pause(ctx, s.cfg.BulkPause); err != nil {
				s.log.Warnf("Bulk generation interrupted after %d of %d transactions", succeeded, count)
				return succeeded, err
			}
		}
	}

	s.log.Infof("Successfully generated %d out of %d transactions", succeeded, count)
	return succeeded, nil
}

// generateAndPersist keeps the pool read lock from the card read through
// SaveTransaction so a reset cannot run between them
func (s *Synthesizer) generateAndPersist(ctx context.Context) (*Synthesized, error) {
	s.pool.Lock()
	defer s.pool.Unlock()

	syn, err := s.generateLocked(ctx)
	if err != nil {
		return nil, err
	}
	if s.cfg.PersistTransactions {
		if err := s.store.SaveTransaction(ctx, syn.Transaction); err != nil {
			return nil, err
		}
	}
	return syn, nil
}

// generateLocked must be called with pool held
func (s *Synthesizer) generateLocked(ctx context.Context) (*Synthesized, error) {
	cards, err := s.store.FindActiveCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrNoActiveCards
	}

	s.rngMu.Lock()
	card := cards[s.rng.Intn(len(cards))]
	tx, err := s.randomTransaction(card)
	s.rngMu.Unlock()
	if err != nil {
		return nil, err
	}

	rec, err := schema.FromTransaction(tx, card.CustomerID)
	if err != nil {
		return nil, err
	}
	s.metrics.TransactionGenerated()

	return &Synthesized{Transaction: tx, Record: rec}, nil
}

// randomTransaction must be called with rngMu held
func (s *Synthesizer) randomTransaction(card *models.Card) (*models.Transaction, error) {
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction id: %w", err)
	}

	online := s.rng.Float64() < onlineProbability
	txType := models.TransactionTypePOS
	if online {
		txType = models.TransactionTypeOnline
	}

	tx := &models.Transaction{
		ID:               id.String(),
		CardID:           card.ID,
		Amount:           10.0 + s.rng.Float64()*490,
		Currency:         defaultCurrency,
		MerchantID:       fmt.Sprintf("MERCH_%d", s.rng.Intn(100000)),
		MerchantName:     fmt.Sprintf("%s %d", pick(s.rng, merchantNames), s.rng.Intn(100)),
		MerchantCategory: pick(s.rng, merchantCategories),
		MerchantLocation: &models.MerchantLocation{
			Latitude:  referenceLatitude + (s.rng.Float64()-0.5)*coordinateSpread,
			Longitude: referenceLongitude + (s.rng.Float64()-0.5)*coordinateSpread,
			City:      pick(s.rng, merchantCities),
			Country:   merchantCountry,
		},
		TransactionType: txType,
		IsCardPresent:   !online,
		Timestamp:       s.now().UTC(),
		Status:          models.TransactionStatusApproved,
	}

	if online {
		tx.DeviceInfo = &models.DeviceInfo{
			DeviceID:   fmt.Sprintf("DEV_%d", s.rng.Intn(10000)),
			DeviceType: pick(s.rng, deviceTypes),
			IPAddress:  fmt.Sprintf("192.168.%d.%d", s.rng.Intn(256), s.rng.Intn(256)),
			UserAgent:  pick(s.rng, userAgents),
		}
	}

	if s.rng.Float64() < previousProbability {
		prev, err := uuid.NewRandomFromReader(s.rng)
		if err != nil {
			return nil, fmt.Errorf("failed to generate previous transaction id: %w", err)
		}
		prevID := "PREV_" + prev.String()
		tx.PreviousTransactionID = &prevID
	}

	return tx, nil
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package service

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/transfraud/internal/cache"
	"github.com/Dan9191/transfraud/internal/models"
	"github.com/Dan9191/transfraud/internal/schema"
)

// memStore keeps entities in memory
type memStore struct {
	mu           sync.Mutex
	customers    map[string]*models.Customer
	cards        []*models.Card
	transactions []*models.Transaction
	saveCardErr  error
}

func newMemStore() *memStore {
	return &memStore{customers: make(map[string]*models.Customer)}
}

func (s *memStore) SaveCustomer(_ context.Context, c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.customers {
		if existing.Email == c.Email && existing.ID != c.ID {
			return errors.New("duplicate email")
		}
	}
	s.customers[c.ID] = c
	return nil
}

func (s *memStore) SaveCard(_ context.Context, card *models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveCardErr != nil {
		return s.saveCardErr
	}
	s.cards = append(s.cards, card)
	return nil
}

func (s *memStore) SaveTransaction(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, tx)
	return nil
}

func (s *memStore) CountCustomers(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.customers)), nil
}

func (s *memStore) CountCards(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.cards)), nil
}

func (s *memStore) CountActiveCards(ctx context.Context) (int64, error) {
	cards, _ := s.FindActiveCards(ctx)
	return int64(len(cards)), nil
}

func (s *memStore) CountTransactions(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.transactions)), nil
}

func (s *memStore) FindActiveCards(context.Context) ([]*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []*models.Card
	for _, c := range s.cards {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *memStore) DeleteAllTransactions(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = nil
	return nil
}

func (s *memStore) DeleteAllCards(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = nil
	return nil
}

func (s *memStore) DeleteAllCustomers(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = make(map[string]*models.Customer)
	return nil
}

// recordingPublisher captures published records and can be told to fail
type recordingPublisher struct {
	mu      sync.Mutex
	records []*schema.CardTransaction
	fail    func(n int) error
	calls   int
}

func (p *recordingPublisher) Publish(_ context.Context, rec *schema.CardTransaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fail != nil {
		if err := p.fail(p.calls); err != nil {
			return err
		}
	}
	p.records = append(p.records, rec)
	return nil
}

func (p *recordingPublisher) published() []*schema.CardTransaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*schema.CardTransaction(nil), p.records...)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fixture wires a controller and synthesizer over an in-memory store
type fixture struct {
	store     *memStore
	publisher *recordingPublisher
	activity  *cache.ActivityCache
	gen       *EntityGenerator
	ctrl      *Controller
	synth     *Synthesizer
}

func newFixture(customers, cardsPerCustomer int) *fixture {
	log := testLogger()
	f := &fixture{
		store:     newMemStore(),
		publisher: &recordingPublisher{},
		activity:  cache.NewActivityCache(time.Hour, cache.DefaultMaxRecent),
	}
	f.gen = NewEntityGenerator(rand.New(rand.NewSource(1)), bcrypt.MinCost, log)
	f.ctrl = NewController(f.store, f.gen, f.activity, nil, ControllerConfig{
		Enabled:          true,
		InitialCustomers: customers,
		CardsPerCustomer: cardsPerCustomer,
	}, log)
	f.synth = NewSynthesizer(f.store, f.publisher, f.ctrl.ReadLocker(), rand.New(rand.NewSource(2)), f.activity, nil,
		SynthesizerConfig{MaxBulkSize: 1000}, log)
	f.synth.pause = func(context.Context, time.Duration) error { return nil }
	return f
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/transfraud/internal/metrics"
	"github.com/Dan9191/transfraud/internal/models"
)

// Alerter notifies an operator that the dataset healed itself
type Alerter interface {
	SendSelfHealAlert(reason string, stats models.Stats) error
}

// MonitorConfig controls the periodic emitter
type MonitorConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Monitor emits one transaction per tick and reinitializes the dataset when
// the active card pool is found empty
type Monitor struct {
	ctrl    *Controller
	synth   *Synthesizer
	alerter Alerter
	metrics *metrics.Metrics
	cfg     MonitorConfig
	log     *logrus.Entry

	mu      sync.Mutex
	cron    *cron.Cron
	alerts  sync.WaitGroup
	baseCtx context.Context
}

// NewMonitor creates a Monitor. alerter may be nil.
func NewMonitor(ctrl *Controller, synth *Synthesizer, alerter Alerter, m *metrics.Metrics, cfg MonitorConfig,
	log *logrus.Logger) *Monitor {
	return &Monitor{
		ctrl:    ctrl,
		synth:   synth,
		alerter: alerter,
		metrics: m,
		cfg:     cfg,
		log:     log.WithField("component", "monitor"),
	}
}

// Tick runs one emission cycle. Failures are logged and never propagate.
func (m *Monitor) Tick(ctx context.Context) {
	if !m.cfg.Enabled {
		return
	}
	if !m.ctrl.IsInitialized() {
		m.log.Warn("Data not initialized yet, skipping transaction generation")
		m.metrics.Tick(metrics.TickSkipped)
		return
	}

	_, err := m.synth.GenerateAndPublishOne(ctx)
	switch {
	case err == nil:
		m.metrics.Tick(metrics.TickPublished)
	case errors.Is(err, ErrNoActiveCards):
		m.metrics.Tick(metrics.TickSelfHeal)
		m.heal(ctx)
	default:
		m.metrics.Tick(metrics.TickFailed)
		m.log.Errorf("Error in scheduled transaction generation: %v", err)
	}
}

func (m *Monitor) heal(ctx context.Context) {
	if err := m.ctrl.Recover(ctx); err != nil {
		m.log.Errorf("Failed to reinitialize data: %v", err)
		return
	}

	stats, err := m.ctrl.Stats(ctx)
	if err != nil {
		m.log.Errorf("Failed to read stats after reinitialization: %v", err)
		return
	}
	m.log.Infof("Data reinitialized: %d customers, %d active cards", stats.TotalCustomers, stats.ActiveCards)

	if m.alerter == nil {
		return
	}
	m.alerts.Add(1)
	go func() {
		defer m.alerts.Done()
		if err := m.alerter.SendSelfHealAlert(ErrNoActiveCards.Error(), stats); err != nil {
			m.log.Errorf("Failed to send self-heal alert: %v", err)
		}
	}()
}

// Start schedules Tick at the configured fixed rate. A tick that is still
// running when the next one is due causes that one to be skipped.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cfg.Enabled {
		m.log.Info("Transaction generation is disabled, scheduler not started")
		return nil
	}
	if m.cron != nil {
		return fmt.Errorf("monitor already started")
	}
	if m.cfg.Interval <= 0 {
		return fmt.Errorf("invalid tick interval %s", m.cfg.Interval)
	}

	cronLog := cron.PrintfLogger(m.log)
	m.cron = cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	m.baseCtx = ctx
	m.cron.Schedule(fixedRate(m.cfg.Interval), cron.FuncJob(func() { m.Tick(m.baseCtx) }))
	m.cron.Start()

	m.log.Infof("Transaction scheduler started with interval %s", m.cfg.Interval)
	return nil
}

// Stop halts scheduling and waits for the running tick and pending alerts
func (m *Monitor) Stop() {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
		m.log.Info("Transaction scheduler stopped")
	}
	m.alerts.Wait()
}

// fixedRate fires every interval after the previous activation. Unlike
// cron.Every it keeps sub-second precision and does not align to seconds.
type fixedRate time.Duration

func (r fixedRate) Next(t time.Time) time.Time {
	return t.Add(time.Duration(r))
}

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/pkg/logger"

	"github.com/robfig/cron/v3"
)

const indexReloadTimeout = 2 * time.Minute

// IndexLoader refreshes the duplicate index from storage.
type IndexLoader interface {
	Load(ctx context.Context) error
}

// CachePurger drops stale result cache entries.
type CachePurger interface {
	PurgeExpired() int
}

// MaintenanceScheduler runs the periodic upkeep jobs of the analyzer: reloading
// the duplicate index and purging stale cache entries. An empty cron spec
// disables the job.
type MaintenanceScheduler struct {
	cfg     config.Scheduler
	index   IndexLoader
	purgers map[string]CachePurger
	logger  *logger.Logger

	cron   *cron.Cron
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewMaintenanceScheduler creates a new MaintenanceScheduler. purgers is keyed
// by a name used in logs, typically the category.
func NewMaintenanceScheduler(cfg config.Scheduler, index IndexLoader, purgers map[string]CachePurger, log *logger.Logger) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cfg:     cfg,
		index:   index,
		purgers: purgers,
		logger:  log,
	}
}

// Start registers the jobs and starts the cron loop. It fails without starting
// anything when a spec does not parse.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("maintenance scheduler already started")
	}

	cl := cronLogger{log: s.logger}
	c := cron.New(
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		cron.WithLogger(cl),
	)

	jobCtx, cancel := context.WithCancel(ctx)
	if s.cfg.IndexReloadCron != "" {
		if _, err := c.AddFunc(s.cfg.IndexReloadCron, func() { s.ReloadIndex(jobCtx) }); err != nil {
			cancel()
			return fmt.Errorf("invalid index reload cron %q: %w", s.cfg.IndexReloadCron, err)
		}
	}
	if s.cfg.CachePurgeCron != "" {
		if _, err := c.AddFunc(s.cfg.CachePurgeCron, func() { s.PurgeCaches() }); err != nil {
			cancel()
			return fmt.Errorf("invalid cache purge cron %q: %w", s.cfg.CachePurgeCron, err)
		}
	}

	c.Start()
	s.cron = c
	s.cancel = cancel
	s.logger.Info("Maintenance scheduler started",
		logger.StringField("index_reload_cron", s.cfg.IndexReloadCron),
		logger.StringField("cache_purge_cron", s.cfg.CachePurgeCron),
		logger.IntField("jobs", len(c.Entries())))
	return nil
}

// ReloadIndex merges persisted fingerprints into the duplicate index.
func (s *MaintenanceScheduler) ReloadIndex(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, indexReloadTimeout)
	defer cancel()

	start := time.Now()
	if err := s.index.Load(ctx); err != nil {
		s.logger.Error("Failed to reload duplicate index", logger.ErrorField(err))
		return
	}
	s.logger.Debug("Duplicate index reloaded", logger.DurationField("duration", time.Since(start)))
}

// PurgeCaches drops stale entries from every registered cache and returns the
// total number removed.
func (s *MaintenanceScheduler) PurgeCaches() int {
	total := 0
	for name, p := range s.purgers {
		n := p.PurgeExpired()
		if n > 0 {
			s.logger.Info("Purged stale cache entries", logger.StringField("cache", name), logger.IntField("count", n))
		}
		total += n
	}
	return total
}

// Stop cancels running jobs and waits for them to return.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return
	}
	s.cancel()
	<-s.cron.Stop().Done()
	s.cron = nil
	s.logger.Info("Maintenance scheduler stopped")
}

// cronLogger routes cron's key/value logs through zap.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}

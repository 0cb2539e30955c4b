// Package service owns the wardrobe store, the outfit planner and the wear
// pipeline, and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	eventqueue "github.com/okian/fitcheck/internal/adapters/mq/queue"
	workerpool "github.com/okian/fitcheck/internal/adapters/mq/worker"
	"github.com/okian/fitcheck/internal/adapters/repository"
	"github.com/okian/fitcheck/internal/domain/caption"
	"github.com/okian/fitcheck/internal/domain/dedupe"
	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/planner"
	"github.com/okian/fitcheck/internal/domain/rng"
	"github.com/okian/fitcheck/internal/domain/scoring"
	"github.com/okian/fitcheck/internal/seed"
	"github.com/okian/fitcheck/pkg/logger"
	"github.com/okian/fitcheck/pkg/metrics"
)

const (
	defaultAnalyticsWindow = 500
	stopTimeout            = 10 * time.Second
)

// Service implements the API dependencies for the wardrobe.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	ownsStore bool
	planner   *planner.Planner
	deduper   dedupe.Deduper
	queue     *eventqueue.InMemoryQueue
	pool      *workerpool.Pool
	policy    *bluemonday.Policy

	// Configuration
	storeDriver      string
	databaseURL      string
	userID           string
	workerCount      int
	queueSize        int
	dedupeSize       int
	randomSeed       uint64
	source           rng.Source
	bottomReuseLimit int
	wearerName       string
	loc              *time.Location
	analyticsWindow  int
	seedWardrobe     bool
	now              func() time.Time

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects an already opened store. The service will not close it.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithStoreDriver selects the store Start opens when none was injected.
func WithStoreDriver(driver, databaseURL string) Option {
	return func(s *Service) {
		s.storeDriver = driver
		s.databaseURL = databaseURL
	}
}

// WithUserID scopes the store to one wardrobe owner.
func WithUserID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.userID = id
		}
	}
}

// WithWorkerCount sets the number of wear writers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending wear events.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many wear event ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithRandomSeed seeds scoring and captions. Zero seeds from the clock.
func WithRandomSeed(seed uint64) Option {
	return func(s *Service) { s.randomSeed = seed }
}

// WithRandomSource replaces the random source outright.
func WithRandomSource(src rng.Source) Option {
	return func(s *Service) { s.source = src }
}

// WithBottomReuseLimit caps bottom reuse in weekly plans. Zero disables it.
func WithBottomReuseLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.bottomReuseLimit = n
		}
	}
}

// WithWearerName sets the name used in captions.
func WithWearerName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.wearerName = name
		}
	}
}

// WithLocation sets the zone for dates, weekdays and streak days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithAnalyticsWindow sets how many history entries analytics reads.
func WithAnalyticsWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.analyticsWindow = n
		}
	}
}

// WithSeedWardrobe loads the starter wardrobe into an empty store on Start.
func WithSeedWardrobe(enabled bool) Option {
	return func(s *Service) { s.seedWardrobe = enabled }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeDriver:      repository.DriverMemory,
		userID:           "default",
		workerCount:      1,
		queueSize:        1024,
		dedupeSize:       4096,
		bottomReuseLimit: 2,
		wearerName:       "champ",
		loc:              time.UTC,
		analyticsWindow:  defaultAnalyticsWindow,
		now:              time.Now,
		policy:           bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store, seeds it if configured and starts the wear writers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting wardrobe service...")

	if s.store == nil {
		store, err := repository.Open(ctx, s.storeDriver, s.databaseURL,
			repository.WithUserID(s.userID),
			repository.WithLocation(s.loc),
		)
		if err != nil {
			return fmt.Errorf("open %s store: %w", s.storeDriver, err)
		}
		s.store = store
		s.ownsStore = true
	}

	if s.seedWardrobe {
		n, err := seed.IfEmpty(ctx, s.store)
		if err != nil {
			return fmt.Errorf("seed wardrobe: %w", err)
		}
		if n > 0 {
			s.logger.Info(ctx, "seeded starter wardrobe", logger.Int("items", n))
		}
	}

	src := s.source
	if src == nil {
		src = rng.New(s.randomSeed)
	}
	s.planner = planner.New(
		planner.WithScorer(scoring.NewWeightedScorer(scoring.WithSource(src))),
		planner.WithCaptioner(caption.NewGenerator(caption.WithSource(src), caption.WithWearer(s.wearerName))),
		planner.WithBottomReuseLimit(s.bottomReuseLimit),
		planner.WithLocation(s.loc),
		planner.WithLogger(s.logger.Named("planner")),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store,
		workerpool.WithResultHook(wearHook(s.store, s.deduper, s.loc, s.now)),
	)

	// Writers outlive the request that started the service.
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.pool.Start(runCtx)

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "wardrobe service started",
		logger.String("store", s.storeDriver),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains pending wears and closes the store it opened.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	s.logger.Info(ctx, "stopping wardrobe service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "wear writers did not drain", logger.Error(err))
	}
	s.cancel()

	if s.ownsStore {
		if err := s.store.Close(); err != nil {
			s.logger.Error(ctx, "error closing store", logger.Error(err))
		}
		s.store = nil
		s.ownsStore = false
	}

	s.started = false
	s.logger.Info(ctx, "wardrobe service stopped")
}

// running returns the components or ErrNotStarted.
func (s *Service) running() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// Ready reports whether the service accepts requests.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          s.started,
		"store":            s.storeDriver,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"dedupeSize":       s.dedupeSize,
		"bottomReuseLimit": s.bottomReuseLimit,
		"timezone":         s.loc.String(),
	}
	if !s.started {
		return stats
	}

	stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt).Seconds())
	stats["queueLength"] = s.queue.Len(ctx)
	stats["dedupeEntries"] = s.deduper.Size()
	if tops, err := s.store.CountItems(ctx, model.SlotTop); err == nil {
		stats["tops"] = tops
	}
	if bottoms, err := s.store.CountItems(ctx, model.SlotBottom); err == nil {
		stats["bottoms"] = bottoms
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	return stats
}

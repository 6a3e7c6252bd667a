package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"stocklens/internal/catalog"
	"stocklens/internal/quotes"
)

// Scheduler runs the periodic global refresh: the same wholesale
// eviction the explicit refresh endpoint performs, on a timer, so quote
// sets and the catalog cannot drift stale indefinitely between edits.
type Scheduler struct {
	scheduler gocron.Scheduler
	cache     *quotes.Cache
	catalog   *catalog.Catalog
}

func NewScheduler(cache *quotes.Cache, cat *catalog.Catalog, interval time.Duration) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler: scheduler,
		cache:     cache,
		catalog:   cat,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.globalRefresh, context.Background()),
		gocron.WithName("global-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	log.Printf("Starting background job scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) globalRefresh(ctx context.Context) {
	s.cache.BustAll()
	if err := s.catalog.Refresh(ctx); err != nil {
		log.Printf("Scheduled catalog refresh failed: %v", err)
	}
}

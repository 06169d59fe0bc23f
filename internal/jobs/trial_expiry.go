package jobs

import (
	"context"
	"log"
	"time"

	"dinepos/internal/caching"
	"dinepos/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// TrialExpiryScheduler periodically flips lapsed trials to EXPIRED so the
// subscription gate stops admitting them. The gate also evaluates trial end
// per request; this sweep keeps the stored status honest for reporting.
type TrialExpiryScheduler struct {
	scheduler  gocron.Scheduler
	tenantRepo repositories.TenantRepository
	cache      caching.CacheService
}

func NewTrialExpiryScheduler(tenantRepo repositories.TenantRepository, cache caching.CacheService) (*TrialExpiryScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &TrialExpiryScheduler{
		scheduler:  scheduler,
		tenantRepo: tenantRepo,
		cache:      cache,
	}, nil
}

func (s *TrialExpiryScheduler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(s.expireLapsedTrials, context.Background()),
		gocron.WithName("trial-expiry-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	s.scheduler.Start()
	log.Println("Trial expiry scheduler started")
	return nil
}

func (s *TrialExpiryScheduler) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *TrialExpiryScheduler) expireLapsedTrials(ctx context.Context) {
	ids, err := s.tenantRepo.ExpireLapsedTrials(ctx)
	if err != nil {
		log.Printf("Trial expiry sweep failed: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	// Evict the flipped tenants so the gate stops admitting them right away
	// instead of after the cache TTL.
	if s.cache != nil {
		for _, id := range ids {
			if err := s.cache.DeleteTenant(ctx, id); err != nil {
				log.Printf("WARN: could not evict tenant %s from cache: %v", id, err)
			}
		}
	}
	log.Printf("Trial expiry sweep marked %d tenants EXPIRED", len(ids))
}

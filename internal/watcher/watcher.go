package watcher

import (
	"context"
	"fmt"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/go-co-op/gocron"

	"laundry-cycle-backend/config"
	"laundry-cycle-backend/internal/laundry"
	"laundry-cycle-backend/internal/model"
	"laundry-cycle-backend/internal/notification"
	"laundry-cycle-backend/internal/store"
)

// Dispatcher queues a notification job.
type Dispatcher interface {
	Dispatch(ctx context.Context, job notification.Job) error
}

// Service periodically looks for running cycles that have just finished and
// announces each one once. It only reads loads.
type Service struct {
	cfg        *config.Config
	store      store.Store
	workerPool *notification.WorkerPool
	dispatcher Dispatcher
	now        func() time.Time
}

// NewService creates the watcher together with its notification worker pool.
func NewService(cfg *config.Config, s store.Store) *Service {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, s, &webpushOptions)

	return &Service{
		cfg:        cfg,
		store:      s,
		workerPool: workerPool,
		dispatcher: workerPool,
		now:        time.Now,
	}
}

// Run checks on the configured interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	log := logger.New("watcher").Function("Run")

	if !s.cfg.Watcher.Enabled {
		log.Info("Watcher is disabled, not starting")
		return nil
	}

	s.workerPool.Start(ctx)

	scheduler := gocron.NewScheduler(time.UTC)
	// a slow check must not overlap the next one
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(s.cfg.Watcher.Interval).Do(func() {
		if _, err := s.CheckOnce(ctx); err != nil {
			log.Er("readiness check failed", err)
		}
	})
	if err != nil {
		return log.Err("failed to schedule readiness check", err, "interval", s.cfg.Watcher.Interval)
	}

	log.Info("Starting watcher", "interval", s.cfg.Watcher.Interval)
	scheduler.StartAsync()

	<-ctx.Done()
	scheduler.Stop()
	s.workerPool.Wait()
	log.Info("Watcher shut down")
	return nil
}

// CheckOnce evaluates every running load and dispatches a notification for
// each phase that became ready since the last check. It returns how many were sent.
func (s *Service) CheckOnce(ctx context.Context) (int, error) {
	log := logger.New("watcher").Function("CheckOnce")

	loads, err := s.store.ListLoads(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list loads: %w", err)
	}

	now := s.now().UTC()
	sent := 0
	for _, load := range loads {
		if load.Status != model.StatusWashing && load.Status != model.StatusDrying {
			continue
		}
		if !laundry.Evaluate(load, now).Ready {
			continue
		}

		first, err := s.store.RecordReadyNotice(ctx, load.ID, load.Status)
		if err != nil {
			log.Er("failed to record ready notice", err, "loadID", load.ID, "status", load.Status)
			continue
		}
		if !first {
			continue
		}

		if err := s.dispatcher.Dispatch(ctx, notification.Job{Load: load, Phase: load.Status}); err != nil {
			return sent, fmt.Errorf("failed to dispatch notification for load %s: %w", load.ID, err)
		}
		log.Info("Cycle finished", "loadID", load.ID, "phase", load.Status)
		sent++
	}
	return sent, nil
}

package notification

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/SherClockHolmes/webpush-go"

	"laundry-cycle-backend/internal/model"
	"laundry-cycle-backend/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Job announces that the phase a load was in has finished.
type Job struct {
	Load  model.Load
	Phase model.LoadStatus
}

// Message is the text shown to staff for j.
func (j Job) Message() string {
	if j.Phase == model.StatusDrying {
		dryer := 0
		if j.Load.DryerNumber != nil {
			dryer = *j.Load.DryerNumber
		}
		return fmt.Sprintf("Dryer %d finished: %s load %s is ready to fold", dryer, j.Load.Type.Label(), j.Load.ShortID())
	}
	return fmt.Sprintf("Washer finished: %s load %s, move it to a dryer", j.Load.Type.Label(), j.Load.ShortID())
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Job
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size), // Buffered channel
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has returned after ctx was cancelled.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log := logger.New("notification").Function("worker")
	log.Debug("Worker started", "worker", id)
	for {
		select {
		case job := <-wp.jobs:
			log.Debug("Processing job", "worker", id, "loadID", job.Load.ID, "phase", job.Phase)
			wp.notifyAll(ctx, job)
		case <-ctx.Done():
			log.Debug("Worker shutting down", "worker", id)
			return
		}
	}
}

// Dispatch queues a job, waiting for room in the queue until ctx ends.
func (wp *WorkerPool) Dispatch(ctx context.Context, job Job) error {
	select {
	case wp.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// notifyAll sends the job's message to every subscribed device.
func (wp *WorkerPool) notifyAll(ctx context.Context, job Job) {
	log := logger.New("notification").Function("notifyAll")

	subscriptions, err := wp.store.ListSubscriptions(ctx)
	if err != nil {
		log.Er("failed to fetch subscriptions", err, "loadID", job.Load.ID)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Info("Sending notifications", "count", len(subscriptions), "loadID", job.Load.ID, "phase", job.Phase)
	payload := []byte(job.Message())
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	log := logger.New("notification").Function("sendNotification")

	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Er("failed to send notification", err, "endpoint", sub.Endpoint)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Info("Subscription expired, deleting", "endpoint", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Er("failed to delete expired subscription", err, "endpoint", sub.Endpoint)
		}
	}
}

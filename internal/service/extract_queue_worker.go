package service

import (
	"context"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"poaudit/internal/port"
)

// ExtractQueueConfig holds settings for the extraction queue worker.
type ExtractQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
	ThrottleMin  time.Duration
	ThrottleMax  time.Duration
}

// ExtractQueueWorker polls for queued orders and dispatches them for extraction.
type ExtractQueueWorker struct {
	orderRepo    port.OrderRepository
	orderService OrderService
	cfg          ExtractQueueConfig
	wg           sync.WaitGroup
}

// NewExtractQueueWorker creates a new ExtractQueueWorker. Concurrency is
// bounded by the number of CPUs.
func NewExtractQueueWorker(orderRepo port.OrderRepository, orderService OrderService, cfg ExtractQueueConfig) *ExtractQueueWorker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cpus := runtime.NumCPU(); cfg.Concurrency > cpus {
		cfg.Concurrency = cpus
	}
	return &ExtractQueueWorker{
		orderRepo:    orderRepo,
		orderService: orderService,
		cfg:          cfg,
	}
}

// throttleDelay returns a random delay in [ThrottleMin, ThrottleMax] so
// dispatched model calls do not land on the provider at the same instant.
func (w *ExtractQueueWorker) throttleDelay() time.Duration {
	if w.cfg.ThrottleMax <= w.cfg.ThrottleMin {
		return w.cfg.ThrottleMin
	}
	return w.cfg.ThrottleMin + time.Duration(rand.Int63n(int64(w.cfg.ThrottleMax-w.cfg.ThrottleMin)))
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extraction goroutines have finished.
func (w *ExtractQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("extractQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("extractQueueWorker: shutting down, waiting for in-flight extractions...")
			w.wg.Wait()
			log.Printf("extractQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			orders, err := w.orderRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll — exit gracefully
					continue
				}
				log.Printf("extractQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range orders {
				ord := orders[i] // copy for goroutine
				ord.ExtractAttempts++

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					if delay := w.throttleDelay(); delay > 0 {
						time.Sleep(delay)
					}

					// Use a fresh context independent of the poll context
					// so in-flight extractions complete even during shutdown.
					extractCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("extractQueueWorker: dispatching order %s (attempt %d)", ord.ID, ord.ExtractAttempts)
					w.orderService.ExtractOrder(extractCtx, &ord, w.cfg.MaxRetries)
				}()
			}
		}
	}
}

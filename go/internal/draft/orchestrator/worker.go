package orchestrator

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Run starts the worker pool and blocks until ctx is cancelled. Pending
// timers are stopped on the way out.
func (s *Scheduler) Run(ctx context.Context) error {
	log.Info().
		Str("instance", s.instanceID).
		Int("workers", s.numWorkers).
		Msg("auto-pick scheduler started")

	var wg sync.WaitGroup
	for i := 0; i < s.numWorkers; i++ {
		wg.Add(1)
		go s.worker(ctx, &wg, i)
	}

	<-ctx.Done()
	log.Info().Str("instance", s.instanceID).Msg("scheduler shutdown requested")

	s.shutdown()
	wg.Wait()

	log.Info().Str("instance", s.instanceID).Msg("all workers shut down")
	return nil
}

// worker runs fired tasks from the work channel
func (s *Scheduler) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	log.Debug().
		Str("instance", s.instanceID).
		Int("worker_id", workerID).
		Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().
				Str("instance", s.instanceID).
				Int("worker_id", workerID).
				Msg("worker shutting down")
			return
		case task := <-s.workCh:
			log.Debug().
				Str("session_id", task.SessionID.String()).
				Int("overall_pick", task.OverallPick).
				Int("worker_id", workerID).
				Msg("worker running auto-pick")

			if err := task.Run(ctx); err != nil {
				log.Error().
					Err(err).
					Str("session_id", task.SessionID.String()).
					Int("overall_pick", task.OverallPick).
					Str("instance", s.instanceID).
					Int("worker_id", workerID).
					Msg("auto-pick failed")
			}
		}
	}
}

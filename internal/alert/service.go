package alert

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Service drives the pipeline on a fixed interval: Evaluator first,
// then Dispatcher, once per tick. A mutex guarantees single-flight; a
// tick that fires while the previous cycle is still running is
// skipped, never overlapped.
type Service struct {
	evaluator  *Evaluator
	dispatcher *Dispatcher
	interval   time.Duration
	mu         sync.Mutex
}

func NewService(evaluator *Evaluator, dispatcher *Dispatcher, interval time.Duration) *Service {
	return &Service{
		evaluator:  evaluator,
		dispatcher: dispatcher,
		interval:   interval,
	}
}

// Start launches the periodic checker in the background. It runs one
// cycle immediately, then once per interval until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			s.RunCycle(ctx)
			select {
			case <-ctx.Done():
				log.Info("Alert service stopped.")
				return
			case <-ticker.C:
			}
		}
	}()
	log.Info("Alert service started.")
}

// RunCycle performs one evaluate-then-dispatch pass.
func (s *Service) RunCycle(ctx context.Context) {
	if !s.mu.TryLock() {
		log.Debug("previous alert cycle still running, skipping tick")
		return
	}
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic recovered in alert cycle: %v", r)
		}
	}()

	log.Debug("checking alerts...")

	evaluated, err := s.evaluator.EvaluateAll(ctx)
	if err != nil {
		log.Errorf("alert evaluation failed: %v", err)
		return
	}

	sent, err := s.dispatcher.DispatchPending(ctx)
	if err != nil {
		log.Errorf("notification dispatch failed: %v", err)
	}

	log.Infof("alert cycle completed: %d evaluated, %d notified", evaluated, sent)
}

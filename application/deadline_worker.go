package application

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

const stalledRetryDelay = time.Minute

// DeadlineWorker keeps one timer armed for the next known deadline. When the
// timer fires it runs the scheduled action, then re-reads the deadline.
type DeadlineWorker struct {
	name     string
	clock    clockwork.Clock
	deadline func() time.Time
	action   func(ctx context.Context)
	rearm    chan struct{}
}

// NewDeadlineWorker creates a worker. deadline returns the zero time when nothing is scheduled.
func NewDeadlineWorker(name string, clock clockwork.Clock, deadline func() time.Time, action func(ctx context.Context)) *DeadlineWorker {
	return &DeadlineWorker{
		name:     name,
		clock:    clock,
		deadline: deadline,
		action:   action,
		rearm:    make(chan struct{}, 1),
	}
}

// Rearm makes the worker re-read its deadline, e.g. after an admin override
func (w *DeadlineWorker) Rearm() {
	select {
	case w.rearm <- struct{}{}:
	default:
	}
}

// Start begins the worker
func (w *DeadlineWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		logger := log.WithField("worker", w.name)
		logger.Info("Deadline worker started")

		for {
			next := w.deadline()

			if next.IsZero() {
				logger.Debug("Nothing scheduled, waiting for rearm")
				select {
				case <-ctx.Done():
					logger.Info("Deadline worker shutting down (context cancelled)...")
					return
				case <-stopChan:
					logger.Info("Deadline worker shutting down (stop requested)...")
					return
				case <-w.rearm:
					continue
				}
			}

			wait := next.Sub(w.clock.Now())
			if wait <= 0 {
				w.fire(ctx, logger)
				if !w.deadline().Equal(next) {
					continue
				}
				// The action did not move the deadline; retry later instead of spinning
				logger.WithField("retryIn", stalledRetryDelay).Warn("Deadline not advanced by scheduled action")
				wait = stalledRetryDelay
			}

			logger.WithFields(log.Fields{
				"deadline": next,
				"wait":     wait,
			}).Debug("Timer armed")

			timer := w.clock.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				logger.Info("Deadline worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				timer.Stop()
				logger.Info("Deadline worker shutting down (stop requested)...")
				return
			case <-w.rearm:
				timer.Stop()
			case <-timer.Chan():
				w.fire(ctx, logger)
			}
		}
	}()

	var stopped bool
	return func() {
		if stopped {
			return
		}
		stopped = true
		close(stopChan)
		<-done
	}
}

func (w *DeadlineWorker) fire(ctx context.Context, logger *log.Entry) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Scheduled action panicked")
		}
	}()
	w.action(ctx)
}

package worker

import (
	"context"
	"sync"
	"time"

	"neowatch/internal/logger"
	"neowatch/internal/models"
)

// Runner is the part of the pipeline the worker drives.
type Runner interface {
	Run(ctx context.Context) (*models.RunReport, error)
}

// NEOWorker re-runs the pipeline on a fixed interval. The first run happens
// one interval after Start, since the process runs the pipeline once at boot.
// Runs never overlap.
type NEOWorker struct {
	runner   Runner
	interval time.Duration
	timeout  time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	running  bool
}

func NewNEOWorker(runner Runner, interval time.Duration) *NEOWorker {
	return &NEOWorker{
		runner:   runner,
		interval: interval,
		timeout:  5 * time.Minute,
		stopChan: make(chan struct{}),
	}
}

func (w *NEOWorker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	logger.GetLogger("neo_worker").Infof("NEO Worker started with interval %v", w.interval)

	go w.run()
}

func (w *NEOWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		logger.GetLogger("neo_worker").Info("NEO Worker stopped")
	})
}

func (w *NEOWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.refresh()
		case <-w.stopChan:
			return
		}
	}
}

func (w *NEOWorker) refresh() {
	log := logger.GetLogger("neo_worker")

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	go func() {
		select {
		case <-w.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info("NEO Worker: starting refresh...")

	report, err := w.runner.Run(ctx)
	switch {
	case err != nil:
		log.Errorw("NEO Worker: pipeline failed", "error", err)
	case report.PersistErr != nil:
		log.Warnw("NEO Worker: refresh finished without persisting",
			"run_id", report.RunID.String(), "error", report.PersistErr)
	default:
		log.Infow("NEO Worker: refresh completed",
			"run_id", report.RunID.String(), "rows", report.Rows, "matches", len(report.Names))
	}
}

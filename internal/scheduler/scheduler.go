package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockReturns/internal/model"
)

// WindowBusinessDays is how many business days the default window spans before its end.
const WindowBusinessDays = 4

// Warmer recomputes a batch window and stores it in the cache.
type Warmer interface {
	Warm(ctx context.Context, start, end time.Time) (*model.BatchResult, error)
}

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron   *cron.Cron
	Warmer Warmer
	Ctx    context.Context

	logger *zap.Logger
	now    func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, w Warmer, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Warmer: w,
		Ctx:    ctx,
		logger: logger.With(zap.String("component", "scheduler")),
		now:    time.Now,
	}
}

// RegisterAll registers the cache warm-up task.
func (s *Scheduler) RegisterAll(warmCron string) error {
	if _, err := s.Cron.AddFunc(warmCron, s.warmTask); err != nil {
		return fmt.Errorf("register warm task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunWarmNow executes the warm-up task immediately (for RUN_ON_START).
func (s *Scheduler) RunWarmNow() {
	s.warmTask()
}

func (s *Scheduler) warmTask() {
	start, end := DefaultWindow(s.now())
	log := s.logger.With(
		zap.String("start", start.Format(model.DateLayout)),
		zap.String("end", end.Format(model.DateLayout)),
	)
	log.Info("warming default window")

	began := time.Now()
	res, err := s.Warmer.Warm(s.Ctx, start, end)
	if err != nil {
		log.Error("warm default window", zap.Error(err))
		return
	}
	empty := 0
	for _, sym := range res.Symbols {
		if len(res.Data[sym]) == 0 {
			empty++
		}
	}
	log.Info("default window warmed",
		zap.Int("symbols", len(res.Symbols)),
		zap.Int("empty", empty),
		zap.Duration("took", time.Since(began)),
	)
}

// DefaultWindow returns the dashboard's default range as seen at now: it ends on
// the previous business day and starts WindowBusinessDays business days earlier.
func DefaultWindow(now time.Time) (start, end time.Time) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end = subtractBusinessDays(today, 1)
	return subtractBusinessDays(end, WindowBusinessDays), end
}

func subtractBusinessDays(t time.Time, n int) time.Time {
	for n > 0 {
		t = t.AddDate(0, 0, -1)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n--
		}
	}
	return t
}

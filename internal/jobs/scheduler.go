package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

type Scheduler struct {
	sched  gocron.Scheduler
	ctx    context.Context
	logger *slog.Logger
}

// NewScheduler returns a stopped scheduler whose jobs run with ctx.
func NewScheduler(ctx context.Context, logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		sched:  sched,
		ctx:    ctx,
		logger: logger.With(slog.String("component", "scheduler")),
	}, nil
}

// SchedulePresence runs the reconciler now and then every interval.
func (s *Scheduler) SchedulePresence(r *PresenceReconciler, interval time.Duration) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := r.Run(s.ctx); err != nil {
				s.logger.Error("presence reconciliation failed", slog.Any("error", err))
			}
		}),
		gocron.WithName("presence-reconciler"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	return err
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

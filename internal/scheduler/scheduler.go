package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/riskibarqy/squad-manager/internal/platform/logging"
	"github.com/riskibarqy/squad-manager/internal/usecase"
)

const (
	JobDispatchNotifications = "dispatch-notifications"
	JobWeeklyNudges          = "weekly-nudges"

	defaultJobTimeout = 5 * time.Minute
)

var ErrUnknownJob = errors.New("unknown scheduler job")

var newGocron = gocron.NewScheduler

type Dispatcher interface {
	DispatchDue(ctx context.Context) (usecase.DispatchResult, error)
}

type Nudger interface {
	ScheduleWeeklyNudges(ctx context.Context) (usecase.NudgeResult, error)
}

type Config struct {
	DispatchCron    string
	WeeklyNudgeCron string
	Location        *time.Location
	JobTimeout      time.Duration
}

// Scheduler runs the notification jobs in process. Each job is a singleton: a tick that
// fires while the previous run is still going is rescheduled, not stacked.
type Scheduler struct {
	sched    gocron.Scheduler
	logger   *logging.Logger
	timeout  time.Duration
	stopOnce sync.Once
	stopErr  error
}

func New(cfg Config, dispatcher Dispatcher, nudger Nudger, logger *logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}

	sched, err := newGocron(
		gocron.WithLocation(loc),
		gocron.WithGlobalJobOptions(
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("scheduler job panicked",
						"job_id", jobID.String(),
						"job_name", jobName,
						"panic", fmt.Sprint(recoverData),
					)
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{sched: sched, logger: logger, timeout: timeout}

	if dispatcher != nil && strings.TrimSpace(cfg.DispatchCron) != "" {
		if err := s.add(JobDispatchNotifications, cfg.DispatchCron, func(ctx context.Context) error {
			_, err := dispatcher.DispatchDue(ctx)
			return err
		}); err != nil {
			return nil, s.abort(err)
		}
	}
	if nudger != nil && strings.TrimSpace(cfg.WeeklyNudgeCron) != "" {
		if err := s.add(JobWeeklyNudges, cfg.WeeklyNudgeCron, func(ctx context.Context) error {
			_, err := nudger.ScheduleWeeklyNudges(ctx)
			return err
		}); err != nil {
			return nil, s.abort(err)
		}
	}

	return s, nil
}

// abort releases the gocron executor of a scheduler that failed to build.
func (s *Scheduler) abort(cause error) error {
	if err := s.Shutdown(); err != nil {
		return errors.Join(cause, fmt.Errorf("shutdown scheduler: %w", err))
	}
	return cause
}

func (s *Scheduler) add(name, cronExpr string, run func(context.Context) error) error {
	task := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		if err := run(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduler job failed", "job_name", name, "error", err)
			return
		}
		s.logger.DebugContext(ctx, "scheduler job completed", "job_name", name, "elapsed_ms", time.Since(start).Milliseconds())
	}

	if _, err := s.sched.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(task),
		gocron.WithName(name),
	); err != nil {
		return fmt.Errorf("register job %s cron=%q: %w", name, cronExpr, err)
	}
	s.logger.Info("scheduler job registered", "job_name", name, "cron", cronExpr)
	return nil
}

func (s *Scheduler) Start() {
	s.logger.Info("scheduler starting", "jobs", s.JobNames())
	s.sched.Start()
}

// RunNow triggers a registered job outside its schedule. The scheduler must be started.
func (s *Scheduler) RunNow(name string) error {
	for _, job := range s.sched.Jobs() {
		if job.Name() == name {
			return job.RunNow()
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

func (s *Scheduler) JobNames() []string {
	jobs := s.sched.Jobs()
	out := make([]string, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, job.Name())
	}
	return out
}

func (s *Scheduler) Shutdown() error {
	s.stopOnce.Do(func() {
		s.logger.Info("scheduler stopping")
		s.stopErr = s.sched.Shutdown()
	})
	return s.stopErr
}

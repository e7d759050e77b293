package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Purger drops records older than cutoff and reports how many went.
type Purger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Task expires one store. A non-positive MaxAge disables it.
type Task struct {
	Name   string
	Store  Purger
	MaxAge time.Duration
}

// Options configures a Janitor. Schedule accepts five-field crontab lines and descriptors such as "@every 1m".
type Options struct {
	Schedule string
	Logger   *slog.Logger
	Now      func() time.Time
	Backlog  func() (pending, failed int)
}

// Janitor runs periodic maintenance over the in-process stores.
type Janitor struct {
	cron    *cron.Cron
	logger  *slog.Logger
	now     func() time.Time
	backlog func() (int, int)
	tasks   []Task
}

func New(opts Options, tasks ...Task) (*Janitor, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cl := cronLogger{logger: logger.With("component", "janitor")}
	j := &Janitor{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  cl.logger,
		now:     now,
		backlog: opts.Backlog,
		tasks:   tasks,
	}
	if _, err := j.cron.AddFunc(opts.Schedule, func() { _, _ = j.Sweep(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule: invalid maintenance schedule %q: %w", opts.Schedule, err)
	}
	return j, nil
}

func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule and waits for a running sweep, bounded by ctx.
func (j *Janitor) Stop(ctx context.Context) error {
	select {
	case <-j.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep runs every task once. A failing task does not stop the others.
func (j *Janitor) Sweep(ctx context.Context) (map[string]int, error) {
	removed := make(map[string]int, len(j.tasks))
	var errs []error
	now := j.now()
	for _, task := range j.tasks {
		if task.Store == nil || task.MaxAge <= 0 {
			continue
		}
		n, err := task.Store.PurgeBefore(ctx, now.Add(-task.MaxAge))
		if err != nil {
			j.logger.Error("purge failed", "task", task.Name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", task.Name, err))
			continue
		}
		removed[task.Name] = n
		if n > 0 {
			j.logger.Info("purged expired records", "task", task.Name, "removed", n)
		}
	}
	if j.backlog != nil {
		pending, failed := j.backlog()
		if failed > 0 {
			j.logger.Warn("outbox backlog", "pending", pending, "failed", failed)
		} else {
			j.logger.Debug("outbox backlog", "pending", pending)
		}
	}
	return removed, errors.Join(errs...)
}

// cronLogger routes scheduler chatter into slog; routine ticks stay at debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}

var _ cron.Logger = cronLogger{}

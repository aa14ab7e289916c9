// Package scheduler provides a periodic scan-and-dispatch runner: it fires
// registered tasks on their cadence, isolates per-item failures inside a
// firing, and keeps an audit trail of every firing.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/t-okubo/revplan/internal/cadence"
)

// ErrDuplicateTask is returned when registering two tasks with one name.
var ErrDuplicateTask = errors.New("duplicate task name")

// Task is one recurring unit of scan-and-dispatch work.
type Task interface {
	// Name returns a unique identifier used for logging, audit records,
	// and deduplication.
	Name() string

	// Cadence returns when the task fires.
	Cadence() cadence.Cadence

	// Run executes one firing. Per-item failures belong in the returned
	// BatchResult; a non-nil error means the firing itself failed (for
	// example, the candidate selector errored) and aborts only this
	// firing, never the task.
	Run(ctx context.Context) (BatchResult, error)
}

type taskState struct {
	task    Task
	running sync.Mutex
	active  bool
}

// Scheduler fires registered tasks on their cadences. Tasks must be
// registered before Start. Each task runs its firings one at a time: a
// firing that is still running when the next one is due causes that next
// firing to be skipped, never run concurrently.
type Scheduler struct {
	mu     sync.Mutex
	tasks  map[string]*taskState
	order  []string
	store  ExecutionStore
	logger *slog.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler writing audit records to store.
func New(store ExecutionStore, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		tasks:  make(map[string]*taskState),
		store:  store,
		logger: logger,
	}
}

// Register adds a task. Must be called before Start. A nil cadence or a
// duplicate name is rejected here, at registration time, so a bad
// configuration can never surface mid-run.
func (s *Scheduler) Register(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := task.Name()
	if _, exists := s.tasks[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, name)
	}
	if task.Cadence() == nil {
		return fmt.Errorf("task %q has no cadence: %w", name, cadence.ErrInvalidCadence)
	}

	s.tasks[name] = &taskState{task: task, active: true}
	s.order = append(s.order, name)
	return nil
}

// Deactivate stops a task from being selected for execution. An in-flight
// firing is not interrupted. Unknown names are ignored.
func (s *Scheduler) Deactivate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.tasks[name]; ok {
		state.active = false
	}
}

// Activate re-enables a deactivated task.
func (s *Scheduler) Activate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.tasks[name]; ok {
		state.active = true
	}
}

// Start launches one driver loop per registered task. The loops run until
// Stop is called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)
	for _, name := range s.order {
		state := s.tasks[name]
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.driveTask(ctx, state)
		}()
	}
	s.logger.Info("scheduler started", "tasks", len(s.order))
}

// Stop cancels the driver loops and waits for in-flight firings, or until
// ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler shutdown wait > %w", ctx.Err())
	}
}

// driveTask sleeps until the task's next firing time, fires it, and
// recomputes the next firing from the cadence.
func (s *Scheduler) driveTask(ctx context.Context, state *taskState) {
	taskCadence := state.task.Cadence()
	nextRunAt := taskCadence.Next(time.Now())

	timer := time.NewTimer(time.Until(nextRunAt))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.fire(ctx, state)
			nextRunAt = taskCadence.Next(time.Now())
			timer.Reset(time.Until(nextRunAt))
		}
	}
}

// fire runs one firing asynchronously so a slow batch never delays the
// next-run computation. If the previous firing for this task is still
// running, the new firing is skipped.
func (s *Scheduler) fire(ctx context.Context, state *taskState) {
	name := state.task.Name()

	s.mu.Lock()
	active := state.active
	s.mu.Unlock()
	if !active {
		s.logger.Debug("task inactive, not firing", "task", name)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// TryLock is atomic, so the check and the acquire cannot race.
		if !state.running.TryLock() {
			s.logger.Warn("previous firing still running, skipping", "task", name)
			return
		}
		defer state.running.Unlock()

		s.execute(ctx, state.task)
	}()
}

// execute runs a single firing under an execution record.
func (s *Scheduler) execute(ctx context.Context, task Task) {
	name := task.Name()
	record := ExecutionRecord{
		TaskName:  name,
		StartedAt: time.Now(),
		Status:    ExecutionStatusRunning,
	}
	id := s.store.Append(record)

	result, err := s.runGuarded(ctx, task)

	record.CompletedAt = time.Now()
	record.Attempted = result.Attempted
	record.Succeeded = result.Succeeded
	record.Failed = result.Failed
	if err != nil {
		record.Status = ExecutionStatusFailed
		record.Error = err.Error()
		s.logger.Error("task firing failed", "task", name, "error", err)
	} else {
		record.Status = ExecutionStatusSuccess
		s.logger.Info("task firing completed",
			"task", name,
			"attempted", result.Attempted,
			"succeeded", result.Succeeded,
			"failed", result.Failed,
		)
		for _, outcome := range result.FailedOutcomes() {
			s.logger.Warn("item dispatch failed", "task", name, "item", outcome.ID, "error", outcome.Err)
		}
	}
	s.store.Update(id, record)
}

// runGuarded turns a panic inside Task.Run into a batch-level failure so
// one broken task cannot take down the scheduler process.
func (s *Scheduler) runGuarded(ctx context.Context, task Task) (result BatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %q panicked: %v", task.Name(), r)
		}
	}()
	return task.Run(ctx)
}

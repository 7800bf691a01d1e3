package pixhuff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultMessageBuffer is the default capacity of Task.Messages.
const DefaultMessageBuffer = 64

// Supervisor runs estimations on background goroutines, at most one at a
// time.  Starting a new task cancels the previous one first, so two tasks can
// never deliver messages to the same host concurrently.
//
// The zero value is ready for use.
type Supervisor struct {
	// Estimator configures each task's pipeline.
	Estimator Estimator

	// Buffer is the capacity of each task's message channel.  Zero means
	// DefaultMessageBuffer.  One slot is always kept free for the terminal
	// message; progress that does not fit is dropped.
	Buffer int

	// Logger receives task lifecycle events.  Nil means slog.Default().
	Logger *slog.Logger

	// runner replaces Estimator.Run when non-nil.
	runner runFunc

	mu     sync.Mutex
	active *Task
	nextID uint64
}

// Start cancels the active task, if any, and starts a new one for r.  The
// new task stops when ctx is done, when Task.Cancel is called, or when a
// later Start replaces it.
func (s *Supervisor) Start(ctx context.Context, r Raster) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if prev := s.active; prev != nil {
		if prev.cancelIfRunning() {
			logger.Debug("replaced running task", "task", prev.id)
		}
	}

	s.nextID++
	buffer := s.Buffer
	if buffer <= 0 {
		buffer = DefaultMessageBuffer
	}
	if buffer < 2 {
		buffer = 2
	}

	ctx, cancel := context.WithCancelCause(ctx)
	t := &Task{
		id:       s.nextID,
		cancel:   cancel,
		logger:   logger.With("task", s.nextID),
		messages: make(chan Message, buffer),
		done:     make(chan struct{}),
	}
	s.active = t

	run := s.runner
	if run == nil {
		e := s.Estimator
		run = e.Run
	}

	t.logger.Debug("task started", "raster", r.String())
	go t.run(ctx, run, r)
	return t
}

// Active returns the most recently started task, or nil if no task has been
// started or the last one was cancelled through the Supervisor.
func (s *Supervisor) Active() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Cancel stops the active task, if any.
func (s *Supervisor) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Cancel()
		s.active = nil
	}
}

// Task is the handle of one background estimation.
type Task struct {
	id       uint64
	cancel   context.CancelCauseFunc
	logger   *slog.Logger
	messages chan Message
	done     chan struct{}

	mu       sync.Mutex
	stopped  bool
	finished bool
	dropped  int
	result   Result
	err      error
}

// ID returns the sequence number of this task within its Supervisor.
func (t *Task) ID() uint64 {
	return t.id
}

// Messages returns the channel of progress and terminal messages.  The
// channel is closed when the task ends.  After Cancel returns, nothing more
// is received from it except the close.
func (t *Task) Messages() <-chan Message {
	return t.messages
}

// Done returns a channel that is closed when the task has ended.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task ends or ctx is done.  A cancelled task reports
// an error wrapping ErrCancelled and a zero Result.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Result returns the outcome of a finished task.  It must not be called
// before Done is closed.
func (t *Task) Result() (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.err
}

// Dropped returns the number of progress messages that were discarded
// because the channel was full.
func (t *Task) Dropped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}

// Cancel stops the task immediately.  Undelivered messages are discarded and
// no result is produced.  Cancelling a finished task has no effect.
func (t *Task) Cancel() {
	t.cancelIfRunning()
}

func (t *Task) cancelIfRunning() bool {
	t.mu.Lock()
	running := !t.stopped && !t.finished
	if running {
		t.stopped = true
		t.drainLocked()
	}
	t.mu.Unlock()

	t.cancel(ErrCancelled)
	if running {
		t.logger.Debug("task cancelled")
	}
	return running
}

func (t *Task) drainLocked() {
	for {
		select {
		case _, ok := <-t.messages:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// report enqueues a progress message unless the task was stopped.  The
// last slot of the channel is reserved for the terminal message.
func (t *Task) report(m Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if len(t.messages) >= cap(t.messages)-1 {
		t.dropped++
		return
	}
	t.messages <- m
}

type runFunc func(ctx context.Context, r Raster, report Reporter) (Result, error)

func (t *Task) run(ctx context.Context, fn runFunc, r Raster) {
	start := time.Now()
	res, err := t.runEstimator(ctx, fn, r)

	t.mu.Lock()
	if errors.Is(err, ErrCancelled) || t.stopped {
		t.stopped = true
		t.drainLocked()
		if !errors.Is(err, ErrCancelled) {
			err = fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
		}
		res = Result{}
	} else if err != nil {
		t.messages <- ErrorMessage(err)
	} else {
		t.messages <- ResultMessage(res)
	}
	t.finished = true
	t.result, t.err = res, err
	close(t.messages)
	t.mu.Unlock()

	close(t.done)
	t.cancel(nil)

	switch {
	case errors.Is(err, ErrCancelled):
		t.logger.Debug("task stopped without result", "elapsed", time.Since(start))
	case err != nil:
		t.logger.Warn("task failed", "error", err, "elapsed", time.Since(start))
	default:
		t.logger.Info("task finished",
			"colors", res.Symbols,
			"originalBytes", res.OriginalBytes,
			"compressedBytes", res.CompressedBytes,
			"elapsed", time.Since(start))
	}
}

// runEstimator converts a panic inside the pipeline into a TaskError.
func (t *Task) runEstimator(ctx context.Context, fn runFunc, r Raster) (res Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			res, err = Result{}, TaskError{Value: v}
		}
	}()
	return fn(ctx, r, t.report)
}

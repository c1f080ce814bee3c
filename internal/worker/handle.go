package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/born-ml/wordgen/internal/autodiff"
	"github.com/born-ml/wordgen/internal/message"
	"github.com/born-ml/wordgen/internal/model"
)

// Config configures a worker started with Start.
type Config struct {
	ResultBuffer  int          // Result channel capacity (default DefaultResultBuffer)
	CommandBuffer int          // Command channel capacity (default 16)
	Logger        *slog.Logger // nil discards
}

// Handle controls a worker running on its own goroutine.
type Handle struct {
	commands chan message.Command
	results  chan message.Result
	done     chan struct{}

	once sync.Once
	err  error
}

// Start runs a Worker for m on a new goroutine.
// The results channel is closed when the worker exits.
func Start[B autodiff.BackwardCapable](ctx context.Context, m *model.Model[B], cfg Config) *Handle {
	if cfg.ResultBuffer <= 0 {
		cfg.ResultBuffer = DefaultResultBuffer
	}
	if cfg.CommandBuffer <= 0 {
		cfg.CommandBuffer = 16
	}

	h := &Handle{
		commands: make(chan message.Command, cfg.CommandBuffer),
		results:  make(chan message.Result, cfg.ResultBuffer),
		done:     make(chan struct{}),
	}

	w := New(m, h.commands, h.results, cfg.Logger)
	go func() {
		defer close(h.done)
		defer close(h.results)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			h.err = err
		}
	}()

	return h
}

// Send queues cmd. It returns ErrStopped if the worker has exited.
func (h *Handle) Send(cmd message.Command) error {
	select {
	case <-h.done:
		return ErrStopped
	default:
	}

	select {
	case h.commands <- cmd:
		return nil
	case <-h.done:
		return ErrStopped
	}
}

// Results returns the result stream. It is closed when the worker exits.
func (h *Handle) Results() <-chan message.Result {
	return h.results
}

// Done is closed when the worker has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Shutdown asks the worker to stop after its current operation and waits
// for it to exit. Results nobody has read yet are discarded so the worker
// cannot block on a full channel. Safe to call more than once.
func (h *Handle) Shutdown() error {
	h.once.Do(func() {
		commands := h.commands
		results := h.results
		for {
			select {
			case commands <- message.Shutdown{}:
				commands = nil
			case _, ok := <-results:
				if !ok {
					results = nil
				}
			case <-h.done:
				return
			}
		}
	})
	<-h.done
	return h.err
}

// Package worker runs a Model on its own goroutine and drives it with
// commands from a channel.
//
// The worker is the only owner of the model: commands are handled one at a
// time, and results flow back on a buffered channel in emission order.
//
//	h := worker.Start(ctx, m, worker.Config{DataPath: "data/names.txt"})
//	h.Send(message.Train{Iterations: 1000})
//	for r := range h.Results() { ... }
//	h.Shutdown()
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/wordgen/internal/autodiff"
	"github.com/born-ml/wordgen/internal/message"
	"github.com/born-ml/wordgen/internal/model"
)

// DefaultResultBuffer is the result channel capacity used when none is configured.
const DefaultResultBuffer = 1024

// Worker executes commands against one Model.
type Worker[B autodiff.BackwardCapable] struct {
	model    *model.Model[B]
	commands <-chan message.Command
	results  chan<- message.Result
	logger   *slog.Logger

	// Path of the loaded dataset. A Train naming another path reloads.
	dataPath string
}

// New creates a Worker reading commands and writing results on the given
// channels. A nil logger discards records.
func New[B autodiff.BackwardCapable](
	m *model.Model[B],
	commands <-chan message.Command,
	results chan<- message.Result,
	logger *slog.Logger,
) *Worker[B] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Worker[B]{
		model:    m,
		commands: commands,
		results:  results,
		logger:   logger,
	}
}

// Run handles commands until Shutdown arrives, the command channel is
// closed, or ctx is done. Failed operations are reported as Error results
// and do not stop the loop.
func (w *Worker[B]) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.logger.Debug("command channel closed")
				return nil
			}
			if _, stop := cmd.(message.Shutdown); stop {
				w.logger.Debug("shutdown requested")
				return nil
			}
			w.handle(ctx, cmd)
		}
	}
}

// handle runs one command and reports its failure, if any, as an Error result.
func (w *Worker[B]) handle(ctx context.Context, cmd message.Command) {
	runID := uuid.New()
	logger := w.logger.With(slog.String("run", runID.String()), slog.String("command", commandName(cmd)))
	started := time.Now()

	logger.Info("command started")

	if err := w.execute(ctx, cmd); err != nil {
		logger.Error("command failed", slog.Any("error", err))
		w.send(ctx, message.ErrorFrom(err))
		return
	}

	logger.Info("command finished", slog.Duration("elapsed", time.Since(started)))
}

func (w *Worker[B]) execute(ctx context.Context, cmd message.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	sink := func(r message.Result) { w.send(ctx, r) }

	switch cmd := cmd.(type) {
	case message.Train:
		if cmd.DataPath != "" && cmd.DataPath != w.dataPath {
			if err := w.model.LoadData(cmd.DataPath); err != nil {
				return err
			}
			w.dataPath = cmd.DataPath
		}
		return w.model.Train(cmd.Iterations, cmd.Start, sink)

	case message.Generate:
		return w.model.Generate(cmd.Count, sink)

	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}

// send blocks until r is queued or ctx is done; in the latter case r is dropped.
func (w *Worker[B]) send(ctx context.Context, r message.Result) {
	select {
	case w.results <- r:
	case <-ctx.Done():
	}
}

func commandName(cmd message.Command) string {
	switch cmd.(type) {
	case message.Train:
		return "train"
	case message.Generate:
		return "generate"
	case message.Shutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("%T", cmd)
	}
}

// ErrStopped is returned by Send after the worker has exited.
var ErrStopped = errors.New("worker stopped")

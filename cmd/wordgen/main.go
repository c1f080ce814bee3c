// Command wordgen trains a character-level MLP on a list of words and
// samples new ones.
//
// Usage:
//
//	wordgen [-config wordgen.yaml] [-data data/names.txt] [-iterations 1000] [-headless]
//
// By default a terminal UI is started (t trains, g generates, q quits).
// With -headless the model is trained once, a batch of words is printed, and
// the program exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/wordgen/internal/autodiff"
	"github.com/born-ml/wordgen/internal/backend/cpu"
	"github.com/born-ml/wordgen/internal/config"
	"github.com/born-ml/wordgen/internal/message"
	"github.com/born-ml/wordgen/internal/model"
	"github.com/born-ml/wordgen/internal/tensor"
	"github.com/born-ml/wordgen/internal/ui"
	"github.com/born-ml/wordgen/internal/worker"
)

func main() {
	opts, err := config.Parse(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("wordgen: %v", err)
	}

	if err := run(opts); err != nil {
		log.Fatalf("wordgen: %v", err)
	}
}

func run(opts config.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	level, _ := opts.Level()

	// The UI owns the terminal, so its logs go to a file.
	var logOut io.Writer = os.Stderr
	if !opts.Headless {
		f, err := tea.LogToFile(opts.LogFile, "")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	device, err := tensor.ParseDevice(opts.Device)
	if err != nil {
		return err
	}
	backend := autodiff.New(cpu.New())
	logger.Info("backend ready", slog.String("device", device.String()), slog.String("backend", backend.Name()))

	modelOpts := []model.Option{model.WithLogger(logger)}
	if opts.Seed != 0 {
		modelOpts = append(modelOpts, model.WithSource(rand.NewPCG(opts.Seed, opts.Seed)))
	}
	m, err := model.New(opts.Hyperparameters(), backend, modelOpts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	h := worker.Start(ctx, m, worker.Config{
		ResultBuffer: opts.ResultBuffer,
		Logger:       logger.With(slog.String("component", "worker")),
	})
	defer h.Shutdown()

	if opts.Headless {
		return headless(opts, h, os.Stdout)
	}

	frontend := ui.New(ui.Config{
		DataPath:      opts.DataPath,
		Iterations:    opts.TrainIterations,
		GenerateCount: opts.GenerateCount,
	}, h, h.Results())

	if _, err := tea.NewProgram(frontend, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil &&
		!errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return h.Shutdown()
}

// headless trains once, prints validation checkpoints and a batch of words.
func headless(opts config.Options, h *worker.Handle, out io.Writer) error {
	if err := h.Send(message.Train{Iterations: opts.TrainIterations, DataPath: opts.DataPath}); err != nil {
		return err
	}

	var losses []float64
	err := drain(h, func(r message.Result) {
		p, ok := r.(message.Progress)
		if !ok {
			return
		}
		switch p.Kind {
		case message.Training:
			losses = append(losses, float64(p.Loss))
		case message.Validation:
			fmt.Fprintf(out, "iteration %6d  train %.4f  validation %.4f\n", p.Iteration, losses[len(losses)-1], p.Loss)
		}
	})
	if err != nil {
		return err
	}
	if len(losses) > 0 {
		tail := losses[max(0, len(losses)-100):]
		fmt.Fprintf(out, "trained %d iterations, mean loss over last %d: %.4f\n",
			len(losses), len(tail), floats.Sum(tail)/float64(len(tail)))
	}

	if err := h.Send(message.Generate{Count: opts.GenerateCount}); err != nil {
		return err
	}
	return drain(h, func(r message.Result) {
		if g, ok := r.(message.Generated); ok {
			fmt.Fprintln(out, g.Text)
		}
	})
}

// drain passes results to fn until the operation finishes.
func drain(h *worker.Handle, fn func(message.Result)) error {
	for r := range h.Results() {
		switch r := r.(type) {
		case message.Finished:
			return nil
		case message.Error:
			return errors.New(r.Message)
		default:
			fn(r)
		}
	}
	return worker.ErrStopped
}

package model

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/wordgen/internal/message"
	"github.com/born-ml/wordgen/internal/tensor"
)

// ValidationInterval returns how often Train evaluates the validation split:
// every iterations/10 steps, and at least every step.
func ValidationInterval(iterations int) int {
	return max(1, iterations/10)
}

// Train runs iterations SGD steps numbered start..start+iterations-1.
//
// Each step samples BatchSize training rows uniformly with replacement,
// updates the parameters and emits Progress(Training). Every
// ValidationInterval steps (by step number) the whole validation split is
// evaluated and Progress(Validation) follows. Finished is emitted last.
func (m *Model[B]) Train(iterations, start int, sink Sink) (err error) {
	if iterations <= 0 {
		return fmt.Errorf("train: iterations must be positive, got %d: %w", iterations, ErrInvalidArgument)
	}
	if start < 0 {
		return fmt.Errorf("train: start must be non-negative, got %d: %w", start, ErrInvalidArgument)
	}
	if m.data == nil {
		return fmt.Errorf("train: %w", ErrNoData)
	}
	defer recoverError(&err)

	tape := m.backend.GetTape()
	defer func() {
		tape.StopRecording()
		tape.Clear()
	}()

	interval := ValidationInterval(iterations)
	rows := m.data.Train.Rows()
	batch := make([]int32, m.hp.BatchSize)

	for count := start; count < start+iterations; count++ {
		for i := range batch {
			batch[i] = int32(m.rng.IntN(rows))
		}
		idx, err := tensor.FromSlice(batch, tensor.Shape{len(batch)}, m.backend)
		if err != nil {
			return fmt.Errorf("train: batch indices: %w", err)
		}
		inputs := m.data.Train.Inputs.IndexSelect(idx)
		targets := m.data.Train.Targets.IndexSelect(idx)

		tape.Clear()
		tape.StartRecording()
		loss := m.Forward(inputs, targets)
		value := loss.Item()
		if err := m.Backpropagate(loss); err != nil {
			return fmt.Errorf("train: iteration %d: %w", count, err)
		}

		sink(message.Progress{Kind: message.Training, Iteration: count, Loss: value})

		if count%interval == 0 && m.data.HasValidation() {
			v := m.Forward(m.data.Validation.Inputs, m.data.Validation.Targets).Item()
			sink(message.Progress{Kind: message.Validation, Iteration: count, Loss: v})
			m.logger.Debug("validation",
				slog.Int("iteration", count),
				slog.Float64("train_loss", float64(value)),
				slog.Float64("validation_loss", float64(v)))
		}
	}

	sink(message.Finished{})
	return nil
}

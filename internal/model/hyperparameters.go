package model

import "fmt"

// Hyperparameters fix the shape and training behavior of a Model.
// They do not change for the lifetime of a Model.
type Hyperparameters struct {
	BatchSize     int     // Rows sampled per training step
	BlockSize     int     // Context window length
	EmbeddingSize int     // Width of one character embedding
	HiddenSize    int     // Width of the tanh layer
	LearnRate     float32 // SGD step size
	MaxWordLength int     // Generated words stop here (truncated)
}

// DefaultHyperparameters returns the settings used when nothing is configured.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		BatchSize:     32,
		BlockSize:     3,
		EmbeddingSize: 10,
		HiddenSize:    200,
		LearnRate:     0.1,
		MaxWordLength: 32,
	}
}

// Validate reports the first unusable field.
func (hp Hyperparameters) Validate() error {
	switch {
	case hp.BatchSize <= 0:
		return fmt.Errorf("batch size %d: %w", hp.BatchSize, ErrInvalidHyperparameters)
	case hp.BlockSize <= 0:
		return fmt.Errorf("block size %d: %w", hp.BlockSize, ErrInvalidHyperparameters)
	case hp.EmbeddingSize <= 0:
		return fmt.Errorf("embedding size %d: %w", hp.EmbeddingSize, ErrInvalidHyperparameters)
	case hp.HiddenSize <= 0:
		return fmt.Errorf("hidden size %d: %w", hp.HiddenSize, ErrInvalidHyperparameters)
	case !(hp.LearnRate > 0):
		return fmt.Errorf("learn rate %v: %w", hp.LearnRate, ErrInvalidHyperparameters)
	case hp.MaxWordLength <= 0:
		return fmt.Errorf("max word length %d: %w", hp.MaxWordLength, ErrInvalidHyperparameters)
	}
	return nil
}

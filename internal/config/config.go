// Package config resolves wordgen's options from defaults, an optional YAML
// file and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/wordgen/internal/model"
	"github.com/born-ml/wordgen/internal/tensor"
)

// ErrInvalidOption is returned by Validate.
var ErrInvalidOption = errors.New("invalid option")

// Options holds everything the wordgen binary needs to start.
type Options struct {
	BatchSize     int     `yaml:"batch_size"`
	BlockSize     int     `yaml:"block_size"`
	EmbeddingSize int     `yaml:"embedding_size"`
	HiddenSize    int     `yaml:"hidden_size"`
	LearnRate     float32 `yaml:"learn_rate"`
	MaxWordLength int     `yaml:"max_word_length"`

	DataPath        string `yaml:"data_path"`
	Device          string `yaml:"device"`
	TrainIterations int    `yaml:"train_iterations"`
	GenerateCount   int    `yaml:"generate_count"`
	ResultBuffer    int    `yaml:"result_buffer"`
	Seed            uint64 `yaml:"seed"` // 0 seeds from the runtime
	LogFile         string `yaml:"log_file"`
	LogLevel        string `yaml:"log_level"`
	Headless        bool   `yaml:"headless"`
}

// Default returns the options used when nothing else is configured.
func Default() Options {
	hp := model.DefaultHyperparameters()
	return Options{
		BatchSize:       hp.BatchSize,
		BlockSize:       hp.BlockSize,
		EmbeddingSize:   hp.EmbeddingSize,
		HiddenSize:      hp.HiddenSize,
		LearnRate:       hp.LearnRate,
		MaxWordLength:   hp.MaxWordLength,
		DataPath:        "data/names.txt",
		Device:          "cpu",
		TrainIterations: 1000,
		GenerateCount:   10,
		ResultBuffer:    1024,
		LogFile:         "wordgen.log",
		LogLevel:        "info",
	}
}

// Hyperparameters returns the model hyperparameters carried by o.
func (o Options) Hyperparameters() model.Hyperparameters {
	return model.Hyperparameters{
		BatchSize:     o.BatchSize,
		BlockSize:     o.BlockSize,
		EmbeddingSize: o.EmbeddingSize,
		HiddenSize:    o.HiddenSize,
		LearnRate:     o.LearnRate,
		MaxWordLength: o.MaxWordLength,
	}
}

// LoadFile overlays the YAML document at path onto o.
// Keys absent from the file keep their current values.
func (o *Options) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first unusable option.
func (o Options) Validate() error {
	if err := o.Hyperparameters().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	if _, err := tensor.ParseDevice(o.Device); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	switch {
	case o.DataPath == "":
		return fmt.Errorf("%w: data path is empty", ErrInvalidOption)
	case o.TrainIterations <= 0:
		return fmt.Errorf("%w: train iterations must be positive, got %d", ErrInvalidOption, o.TrainIterations)
	case o.GenerateCount < 0:
		return fmt.Errorf("%w: generate count must be non-negative, got %d", ErrInvalidOption, o.GenerateCount)
	case o.ResultBuffer <= 0:
		return fmt.Errorf("%w: result buffer must be positive, got %d", ErrInvalidOption, o.ResultBuffer)
	}

	if _, err := o.Level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	return nil
}

// Level parses LogLevel.
func (o Options) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", o.LogLevel, err)
	}
	return level, nil
}

package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
)

// Parse resolves options from args (without the program name).
//
// Defaults are overlaid by the YAML file named with -config, if any, and
// then by every flag given explicitly.
func Parse(name string, args []string, output io.Writer) (Options, error) {
	opts := Default()
	path, err := parseInto(&opts, name, args, output)
	if err != nil {
		return Options{}, err
	}
	if path == "" {
		return opts, nil
	}

	opts = Default()
	if err := opts.LoadFile(path); err != nil {
		return Options{}, err
	}
	if _, err := parseInto(&opts, name, args, io.Discard); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// parseInto binds flags to opts, parses args and returns the -config value.
func parseInto(opts *Options, name string, args []string, output io.Writer) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	var path string
	fs.StringVar(&path, "config", "", "YAML options file")
	opts.Bind(fs)

	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() > 0 {
		return "", fmt.Errorf("%w: unexpected arguments %v", ErrInvalidOption, fs.Args())
	}
	return path, nil
}

// Bind registers a flag for every option, defaulting to its current value.
func (o *Options) Bind(fs *flag.FlagSet) {
	fs.IntVar(&o.BatchSize, "batch-size", o.BatchSize, "training rows per step")
	fs.IntVar(&o.BlockSize, "block-size", o.BlockSize, "context window length")
	fs.IntVar(&o.EmbeddingSize, "embedding-size", o.EmbeddingSize, "embedding width per symbol")
	fs.IntVar(&o.HiddenSize, "hidden-size", o.HiddenSize, "hidden layer width")
	fs.Var((*float32Value)(&o.LearnRate), "learn-rate", "SGD learning rate")
	fs.IntVar(&o.MaxWordLength, "max-word-length", o.MaxWordLength, "longest generated word")

	fs.StringVar(&o.DataPath, "data", o.DataPath, "training words, one per line")
	fs.StringVar(&o.Device, "device", o.Device, "compute device (cpu)")
	fs.IntVar(&o.TrainIterations, "iterations", o.TrainIterations, "training steps per train command")
	fs.IntVar(&o.GenerateCount, "generate", o.GenerateCount, "words per generate command")
	fs.IntVar(&o.ResultBuffer, "result-buffer", o.ResultBuffer, "worker result channel capacity")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "random seed (0 = random)")
	fs.StringVar(&o.LogFile, "log-file", o.LogFile, "log file used by the terminal UI")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&o.Headless, "headless", o.Headless, "train and generate once without the terminal UI")
}

type float32Value float32

func (f *float32Value) String() string {
	return strconv.FormatFloat(float64(*f), 'g', -1, 32)
}

func (f *float32Value) Set(s string) error {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return err
	}
	*f = float32Value(v)
	return nil
}

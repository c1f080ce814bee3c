// Package dataset turns a word list into (context, next symbol) training pairs.
//
// Build reads one word per line, shuffles the words, holds out a tenth of
// them for validation and tokenizes both parts with a sliding context window:
//
//	"ab", block 3:  [. . .] -> a
//	                [. . a] -> b
//	                [. a b] -> .
package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/born-ml/wordgen/internal/tensor"
	"github.com/born-ml/wordgen/internal/vocab"
)

// ErrEmptySplit is returned when the training split has no rows.
var ErrEmptySplit = errors.New("empty training split")

// ValidationFraction is the share of words held out for validation.
const ValidationFraction = 0.1

// Split holds the inputs [rows, block_size] and targets [rows] of one part
// of the dataset. Both are nil for an empty split.
type Split[B tensor.Backend] struct {
	Inputs  *tensor.Tensor[int32, B]
	Targets *tensor.Tensor[int32, B]
}

// Rows returns the number of (context, target) pairs.
func (s Split[B]) Rows() int {
	if s.Targets == nil {
		return 0
	}
	return s.Targets.Shape()[0]
}

// Dataset is a tokenized word list ready for training.
type Dataset[B tensor.Backend] struct {
	Path       string
	BlockSize  int
	Train      Split[B]
	Validation Split[B]
}

// HasValidation reports whether the validation split has any rows.
func (d *Dataset[B]) HasValidation() bool {
	return d.Validation.Rows() > 0
}

// Rows returns the number of training rows.
func (d *Dataset[B]) Rows() int {
	return d.Train.Rows()
}

// Build reads, shuffles, splits and tokenizes the word list at path.
func Build[B tensor.Backend](path string, blockSize int, backend B) (*Dataset[B], error) {
	return BuildWithRand(path, blockSize, backend, nil)
}

// BuildWithRand is Build with an explicit shuffle source.
// A nil rng uses the global math/rand/v2 generator.
func BuildWithRand[B tensor.Backend](path string, blockSize int, backend B, rng *rand.Rand) (*Dataset[B], error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("block size must be positive, got %d", blockSize)
	}

	words, err := ReadWords(path)
	if err != nil {
		return nil, err
	}

	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})

	trainWords, validationWords := SplitWords(words)

	train, err := newSplit(trainWords, blockSize, backend)
	if err != nil {
		return nil, fmt.Errorf("training split: %w", err)
	}
	if train.Rows() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptySplit)
	}

	validation, err := newSplit(validationWords, blockSize, backend)
	if err != nil {
		return nil, fmt.Errorf("validation split: %w", err)
	}

	return &Dataset[B]{
		Path:       path,
		BlockSize:  blockSize,
		Train:      train,
		Validation: validation,
	}, nil
}

// ReadWords returns the trimmed, lowercased, non-blank lines of the file at path.
func ReadWords(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var words []string
	for _, line := range strings.Split(string(content), "\n") {
		word := strings.ToLower(strings.TrimSpace(line))
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	return words, nil
}

// SplitWords holds out round(0.1 * len(words)) words for validation,
// taken from the end of the list.
func SplitWords(words []string) (train, validation []string) {
	n := int(math.Round(float64(len(words)) * ValidationFraction))
	split := len(words) - n
	return words[:split], words[split:]
}

// Tokenize emits one (context, target) pair per character of every word plus
// a trailing delimiter target. Each word starts from an all-delimiter window.
// inputs is row-major [rows, blockSize].
func Tokenize(words []string, blockSize int) (inputs, targets []int32) {
	for _, word := range words {
		ctx := vocab.NewContext(blockSize)
		for _, symbol := range vocab.EncodeWord(word) {
			inputs = append(inputs, ctx.Int32()...)
			targets = append(targets, int32(symbol))
			ctx.Slide(symbol)
		}
	}
	return inputs, targets
}

func newSplit[B tensor.Backend](words []string, blockSize int, backend B) (Split[B], error) {
	inputs, targets := Tokenize(words, blockSize)
	if len(targets) == 0 {
		return Split[B]{}, nil
	}

	x, err := tensor.FromSlice(inputs, tensor.Shape{len(targets), blockSize}, backend)
	if err != nil {
		return Split[B]{}, err
	}
	y, err := tensor.FromSlice(targets, tensor.Shape{len(targets)}, backend)
	if err != nil {
		return Split[B]{}, err
	}
	return Split[B]{Inputs: x, Targets: y}, nil
}

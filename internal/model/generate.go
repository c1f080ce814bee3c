package model

import (
	"fmt"
	"strings"

	"github.com/born-ml/wordgen/internal/message"
	"github.com/born-ml/wordgen/internal/tensor"
	"github.com/born-ml/wordgen/internal/vocab"
)

// Generate samples count words, emitting Generated for each and Finished
// after the last.
//
// Every word starts from an all-delimiter context; symbols are sampled from
// softmax(logits) until the delimiter comes up. A word that reaches
// MaxWordLength characters is emitted with Truncated set.
func (m *Model[B]) Generate(count int, sink Sink) (err error) {
	if count < 0 {
		return fmt.Errorf("generate: count must be non-negative, got %d: %w", count, ErrInvalidArgument)
	}
	defer recoverError(&err)

	for range count {
		word, truncated, err := m.sampleWord()
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		sink(message.Generated{Text: word, Truncated: truncated})
	}

	sink(message.Finished{})
	return nil
}

func (m *Model[B]) sampleWord() (string, bool, error) {
	ctx := vocab.NewContext(m.hp.BlockSize)
	var sb strings.Builder

	for n := 0; n < m.hp.MaxWordLength; n++ {
		x, err := tensor.FromSlice(ctx.Int32(), tensor.Shape{1, ctx.Len()}, m.backend)
		if err != nil {
			return "", false, err
		}

		probs := m.Logits(x).Softmax(-1)
		next := Sample(probs, m.draw())
		if next == vocab.Delimiter {
			return sb.String(), false, nil
		}

		sb.WriteRune(vocab.Decode(next))
		ctx.Slide(next)
	}

	return sb.String(), true, nil
}

package dataset_test

import (
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/wordgen/internal/backend/cpu"
	"github.com/born-ml/wordgen/internal/dataset"
	"github.com/born-ml/wordgen/internal/vocab"
)

func writeWords(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600))
	return path
}

func TestSplitWords_ValidationCount(t *testing.T) {
	for _, n := range []int{1, 3, 4, 5, 10, 14, 15, 100, 1001} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			words := make([]string, n)
			train, validation := dataset.SplitWords(words)

			want := int(float64(n)/10 + 0.5)
			assert.Equal(t, want, len(validation))
			assert.Equal(t, n-want, len(train))
		})
	}
}

func TestTokenize_PairsPerWord(t *testing.T) {
	inputs, targets := dataset.Tokenize([]string{"emma", "bo"}, 3)

	// L+1 pairs per word.
	require.Len(t, targets, 5+3)
	require.Len(t, inputs, 3*len(targets))

	assert.Equal(t, []int32{5, 13, 13, 1, 0, 2, 15, 0}, targets)
	// Each word restarts from an all-delimiter window.
	assert.Equal(t, []int32{0, 0, 0}, inputs[0:3])
	assert.Equal(t, []int32{0, 0, 0}, inputs[15:18])
	assert.Equal(t, []int32{13, 13, 1}, inputs[12:15])
}

func TestTokenize_SlidingInvariant(t *testing.T) {
	const block = 4
	inputs, targets := dataset.Tokenize([]string{"sophia", "liam"}, block)

	for row := 1; row < len(targets); row++ {
		prev := inputs[(row-1)*block : row*block]
		cur := inputs[row*block : (row+1)*block]
		if targets[row-1] == vocab.Delimiter {
			// Word boundary: the next word starts from a fresh window.
			assert.Equal(t, []int32{0, 0, 0, 0}, cur, "row %d", row)
			continue
		}
		assert.Equal(t, prev[1:], cur[:block-1], "row %d", row)
		assert.Equal(t, targets[row-1], cur[block-1], "row %d", row)
	}
}

func TestBuild(t *testing.T) {
	words := []string{"emma", "olivia", "ava", "isabella", "sophia", "mia", "amelia", "harper", "evelyn", "abigail"}
	path := writeWords(t, append(words, "", "  ")...)

	ds, err := dataset.BuildWithRand(path, 3, cpu.New(), rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	assert.True(t, ds.HasValidation())
	assert.Equal(t, 3, ds.BlockSize)
	assert.Equal(t, []int{ds.Rows(), 3}, []int(ds.Train.Inputs.Shape()))
	assert.Equal(t, ds.Validation.Rows(), ds.Validation.Inputs.Shape()[0])

	total := 0
	for _, w := range words {
		total += len(w) + 1
	}
	assert.Equal(t, total, ds.Train.Rows()+ds.Validation.Rows())
}

func TestBuild_LowercasesAndTrims(t *testing.T) {
	path := writeWords(t, "  AB  ")

	ds, err := dataset.Build(path, 2, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 0}, ds.Train.Targets.Data())
	assert.False(t, ds.HasValidation())
}

func TestBuild_ThreeWordsHasNoValidation(t *testing.T) {
	path := writeWords(t, "ab", "cd", "ef")

	ds, err := dataset.Build(path, 3, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, 9, ds.Rows())
	assert.False(t, ds.HasValidation())
	assert.Nil(t, ds.Validation.Inputs)
}

func TestBuild_Errors(t *testing.T) {
	backend := cpu.New()

	_, err := dataset.Build(filepath.Join(t.TempDir(), "missing.txt"), 3, backend)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = dataset.Build(writeWords(t, "", " "), 3, backend)
	assert.ErrorIs(t, err, dataset.ErrEmptySplit)

	_, err = dataset.Build(writeWords(t, "ab"), 0, backend)
	assert.Error(t, err)
}

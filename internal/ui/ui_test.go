package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/wordgen/internal/message"
)

type fakeSender struct {
	sent []message.Command
	err  error
}

func (f *fakeSender) Send(cmd message.Command) error {
	f.sent = append(f.sent, cmd)
	return f.err
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(sender *fakeSender) Model {
	return New(Config{DataPath: "names.txt", Iterations: 100, GenerateCount: 5}, sender, make(chan message.Result))
}

// press runs a key through Update and executes the command it returns.
func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	if cmd == nil {
		return next.(Model), nil
	}
	return next.(Model), cmd()
}

func feed(m Model, results ...message.Result) Model {
	for _, r := range results {
		next, _ := m.Update(resultMsg{result: r})
		m = next.(Model)
	}
	return m
}

func TestTrainKeySendsTrainFromNextIteration(t *testing.T) {
	sender := &fakeSender{}
	m := newTestModel(sender)

	m, msg := press(t, m, runes("t"))
	assert.True(t, m.busy)
	assert.IsType(t, sentMsg{}, msg)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, message.Train{Iterations: 100, Start: 0, DataPath: "names.txt"}, sender.sent[0])

	m = feed(m,
		message.Progress{Kind: message.Training, Iteration: 0, Loss: 3.3},
		message.Progress{Kind: message.Training, Iteration: 1, Loss: 3.1},
		message.Progress{Kind: message.Validation, Iteration: 1, Loss: 3.2},
		message.Finished{},
	)
	assert.False(t, m.busy)
	assert.Equal(t, 2, m.nextIteration)
	assert.Equal(t, []float64{float64(float32(3.3)), float64(float32(3.1))}, m.losses)
	require.NotNil(t, m.validation)
	assert.Equal(t, float32(3.2), m.validation.Loss)

	_, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, sender.sent, 2)
	assert.Equal(t, 2, sender.sent[1].(message.Train).Start)
}

func TestBusyIgnoresOperations(t *testing.T) {
	sender := &fakeSender{}
	m := newTestModel(sender)

	m, _ = press(t, m, runes("g"))
	m, msg := press(t, m, runes("t"))
	assert.Nil(t, msg)
	assert.Len(t, sender.sent, 1)
	assert.True(t, m.busy)
}

func TestGenerateCollectsWords(t *testing.T) {
	sender := &fakeSender{}
	m := newTestModel(sender)

	m, _ = press(t, m, runes("g"))
	assert.Equal(t, message.Generate{Count: 5}, sender.sent[0])

	m = feed(m,
		message.Generated{Text: "ava"},
		message.Generated{Text: "abcdefgh", Truncated: true},
		message.Finished{},
	)
	require.Len(t, m.generated, 2)
	view := m.View()
	assert.Contains(t, view, "ava")
	assert.Contains(t, view, "abcdefgh…")

	// A new request starts from an empty list.
	m, _ = press(t, m, runes("g"))
	assert.Empty(t, m.generated)
}

func TestToggleHidesGeneratedPanel(t *testing.T) {
	m := newTestModel(&fakeSender{})
	m = feed(m, message.Generated{Text: "mia"}, message.Finished{})
	assert.Contains(t, m.View(), "mia")

	m, _ = press(t, m, runes("p"))
	assert.False(t, m.showGenerated)
	assert.NotContains(t, m.View(), "mia")
}

func TestErrorShownInStatusLine(t *testing.T) {
	m := newTestModel(&fakeSender{})
	m, _ = press(t, m, runes("t"))

	m = feed(m, message.Error{Message: "no training data loaded"})
	assert.False(t, m.busy)
	assert.Empty(t, m.generated)
	assert.Contains(t, m.View(), "error: no training data loaded")

	// Starting another operation clears it.
	m, _ = press(t, m, runes("g"))
	assert.Empty(t, m.status)
}

func TestSendFailureShownInStatusLine(t *testing.T) {
	m := newTestModel(&fakeSender{err: errors.New("worker stopped")})

	m, msg := press(t, m, runes("t"))
	next, _ := m.Update(msg)
	m = next.(Model)

	assert.False(t, m.busy)
	assert.Equal(t, "worker stopped", m.status)
}

func TestQuitSendsShutdown(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}} {
		sender := &fakeSender{}
		m := newTestModel(sender)

		m, msg := press(t, m, k)
		require.Equal(t, []message.Command{message.Shutdown{}}, sender.sent)

		_, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestResultChannelClosedQuits(t *testing.T) {
	ch := make(chan message.Result, 1)
	m := New(Config{}, &fakeSender{}, ch)

	ch <- message.Finished{}
	close(ch)

	msg := waitForResult(ch)()
	assert.Equal(t, resultMsg{result: message.Finished{}}, msg)

	msg = waitForResult(ch)()
	assert.Equal(t, closedMsg{}, msg)

	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestLossHistoryIsBounded(t *testing.T) {
	m := newTestModel(&fakeSender{})
	for i := range lossHistory + 10 {
		m = feed(m, message.Progress{Kind: message.Training, Iteration: i, Loss: float32(i)})
	}
	assert.Len(t, m.losses, lossHistory)
	assert.Equal(t, float64(10), m.losses[0])
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "....", sparkline(nil, 2))
	assert.Equal(t, "▁▅█▁▁", sparkline([]float64{0, 0.5, 1}, 5))
	assert.Equal(t, "▇▇▁▁", sparkline([]float64{2, 2}, 4))

	long := make([]float64, 100)
	for i := range long {
		long[i] = float64(100 - i)
	}
	line := sparkline(long, 10)
	assert.Equal(t, 10, len([]rune(line)))
	assert.True(t, strings.HasPrefix(line, "█"))
	assert.True(t, strings.HasSuffix(line, "▁"))
}

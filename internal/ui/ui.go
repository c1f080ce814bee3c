// Package ui is the terminal frontend: it sends commands to the model worker
// and renders the results it streams back.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/born-ml/wordgen/internal/message"
)

// lossHistory bounds the training losses kept for the sparkline.
const lossHistory = 1024

// Sender queues a command for the model worker.
type Sender interface {
	Send(cmd message.Command) error
}

// Config holds what the frontend puts into commands.
type Config struct {
	DataPath      string
	Iterations    int
	GenerateCount int
}

type resultMsg struct{ result message.Result }

type closedMsg struct{}

type sentMsg struct {
	cmd message.Command
	err error
}

// Model is the bubbletea model of the frontend.
type Model struct {
	cfg     Config
	sender  Sender
	results <-chan message.Result

	keys   keyMap
	help   help.Model
	spin   spinner.Model
	styles styles
	width  int

	busy      bool
	operation string

	nextIteration int
	losses        []float64
	training      *message.Progress
	validation    *message.Progress

	generated     []message.Generated
	showGenerated bool

	status string
}

// New creates the frontend. results is the worker's result stream.
func New(cfg Config, sender Sender, results <-chan message.Result) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))

	return Model{
		cfg:           cfg,
		sender:        sender,
		results:       results,
		keys:          defaultKeys(),
		help:          help.New(),
		spin:          sp,
		styles:        defaultStyles(),
		width:         80,
		showGenerated: true,
	}
}

// Init starts the spinner and the result reader.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForResult(m.results))
}

// waitForResult reads the next result; it yields closedMsg once the worker exits.
func waitForResult(ch <-chan message.Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return resultMsg{result: r}
	}
}

// send delivers cmd off the update loop, since Send may block.
func (m Model) send(cmd message.Command) tea.Cmd {
	sender := m.sender
	return func() tea.Msg {
		return sentMsg{cmd: cmd, err: sender.Send(cmd)}
	}
}

// Update handles keys, worker results and spinner ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case resultMsg:
		m.apply(msg.result)
		return m, waitForResult(m.results)

	case closedMsg:
		return m, tea.Quit

	case sentMsg:
		if _, quit := msg.cmd.(message.Shutdown); quit {
			return m, tea.Quit
		}
		if msg.err != nil {
			m.busy = false
			m.status = msg.err.Error()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.operation = "stopping"
		return m, m.send(message.Shutdown{})

	case key.Matches(msg, m.keys.Toggle):
		m.showGenerated = !m.showGenerated
		return m, nil

	case m.busy:
		// One operation at a time; the worker would queue it anyway.
		return m, nil

	case key.Matches(msg, m.keys.Train):
		m.busy, m.operation, m.status = true, "training", ""
		return m, m.send(message.Train{
			Iterations: m.cfg.Iterations,
			Start:      m.nextIteration,
			DataPath:   m.cfg.DataPath,
		})

	case key.Matches(msg, m.keys.Generate):
		m.busy, m.operation, m.status = true, "generating", ""
		m.generated = nil
		return m, m.send(message.Generate{Count: m.cfg.GenerateCount})
	}

	return m, nil
}

// apply folds one worker result into the model.
func (m *Model) apply(r message.Result) {
	switch r := r.(type) {
	case message.Progress:
		switch r.Kind {
		case message.Training:
			m.training = &r
			m.nextIteration = r.Iteration + 1
			m.losses = append(m.losses, float64(r.Loss))
			if len(m.losses) > lossHistory {
				m.losses = m.losses[len(m.losses)-lossHistory:]
			}
		case message.Validation:
			m.validation = &r
		}

	case message.Generated:
		m.generated = append(m.generated, r)

	case message.Error:
		m.busy = false
		m.status = r.Message

	case message.Finished:
		m.busy = false
	}
}

// View renders the frontend.
func (m Model) View() string {
	w := max(m.width-4, 20)
	var b strings.Builder

	b.WriteString(m.styles.title.Render("wordgen"))
	if m.busy {
		b.WriteString("  " + m.spin.View() + " " + m.styles.dim.Render(m.operation))
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.panel.Width(w).Render(m.lossPanel(w - 4)))
	b.WriteString("\n")

	if m.showGenerated {
		b.WriteString(m.styles.panel.Width(w).Render(m.wordsPanel()))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.styles.err.Render("error: "+m.status) + "\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) lossPanel(w int) string {
	lines := []string{m.styles.label.Render("Loss")}

	train, val := "-", "-"
	if m.training != nil {
		train = fmt.Sprintf("%.4f", m.training.Loss)
	}
	if m.validation != nil {
		val = fmt.Sprintf("%.4f (iter %d)", m.validation.Loss, m.validation.Iteration)
	}
	lines = append(lines,
		fmt.Sprintf("iteration %d   train %s   validation %s", m.nextIteration, train, val),
		m.styles.graph.Render(sparkline(m.losses, w)),
	)
	return strings.Join(lines, "\n")
}

func (m Model) wordsPanel() string {
	lines := []string{m.styles.label.Render("Generated")}
	if len(m.generated) == 0 {
		lines = append(lines, m.styles.dim.Render("press g to sample words"))
	}
	for _, g := range m.generated {
		text := g.Text
		if g.Truncated {
			text += "…"
		}
		lines = append(lines, m.styles.word.Render(text))
	}
	return strings.Join(lines, "\n")
}

package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/timemap/internal/report"
)

// tickMsg triggers a snapshot refresh.
type tickMsg time.Time

// workDoneMsg is sent when the observed work returns.
type workDoneMsg struct {
	rounds int
	err    error
}

// watchModel is the BubbleTea model of the live view.
type watchModel struct {
	opts    Options
	work    WorkFunc
	ctx     context.Context
	spinner spinner.Model
	started time.Time
	table   string
	width   int
	done    bool
	rounds  int
	err     error
}

func newWatchModel(ctx context.Context, opts Options, work WorkFunc) watchModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))

	if _, ok := opts.Theme.Value.GetForeground().(lipgloss.NoColor); !ok {
		s.Style = opts.Theme.Value
	}

	m := watchModel{
		opts:    opts,
		work:    work,
		ctx:     ctx,
		spinner: s,
		started: time.Now(),
	}
	m.refresh()

	return m
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.opts.refresh(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m watchModel) runWork() tea.Cmd {
	return func() tea.Msg {
		n, err := m.work(m.ctx)

		return workDoneMsg{rounds: n, err: err}
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick(), m.runWork())
}

//nolint:ireturn // tea.Model is required by the bubbletea framework
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.refresh()

	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd

			m.spinner, cmd = m.spinner.Update(msg)

			return m, cmd
		}

	case tickMsg:
		if m.done {
			return m, nil
		}

		m.refresh()

		return m, m.tick()

	case workDoneMsg:
		m.done = true
		m.rounds = msg.rounds
		m.err = msg.err
		m.refresh()

		return m, tea.Quit
	}

	return m, nil
}

func (m *watchModel) refresh() {
	var b strings.Builder

	r := report.NewTableRenderer(m.opts.Theme, m.width)
	if err := r.Render(&b, report.NewSnapshot(m.opts.snapshot(), "")); err != nil {
		m.table = err.Error()

		return
	}

	m.table = b.String()
}

func (m watchModel) View() string {
	if m.done {
		// Cleared so the final table printed after exit can scroll.
		return ""
	}

	status := fmt.Sprintf("%s watching %d profile(s), %s (q to quit)",
		m.spinner.View(),
		m.opts.Registry.Len(),
		time.Since(m.started).Truncate(time.Millisecond),
	)

	return m.opts.Theme.Header.Render(status) + "\n\n" + m.table
}

// InteractiveViewer redraws a live table in place while the work runs, then
// prints the final table once it finishes.
type InteractiveViewer struct {
	opts Options
	out  io.Writer
}

// NewInteractiveViewer creates an InteractiveViewer that renders to out.
func NewInteractiveViewer(opts Options, out io.Writer) *InteractiveViewer {
	return &InteractiveViewer{opts: opts, out: out}
}

// IsInteractive returns true.
func (*InteractiveViewer) IsInteractive() bool {
	return true
}

// Watch implements Viewer. Quitting early cancels the work.
func (v *InteractiveViewer) Watch(ctx context.Context, work WorkFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newWatchModel(ctx, v.opts, work), tea.WithContext(ctx), tea.WithOutput(v.out))

	final, err := p.Run()
	if err != nil {
		return errors.Wrap(err, "running live view")
	}

	m, ok := final.(watchModel)
	if !ok {
		return nil
	}

	m.refresh()
	fmt.Fprint(v.out, m.table)

	if m.done {
		fmt.Fprintf(v.out, "done after %d round(s)\n", m.rounds)
	}

	return m.err
}

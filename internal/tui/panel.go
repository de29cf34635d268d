// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"strings"

	"discolight/internal/transport"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type snapshotMsg transport.Snapshot

// PanelModel draws one lamp per channel with its hysteresis counter.
type PanelModel struct {
	names []string
	max   int
	snap  transport.Snapshot
	bar   progress.Model
}

// NewPanelModel returns a panel for the named channels. max is the counter
// ceiling used to scale the bars.
func NewPanelModel(names []string, max int) PanelModel {
	return PanelModel{
		names: names,
		max:   max,
		bar: progress.New(
			progress.WithSolidFill("#25A065"),
			progress.WithoutPercentage(),
			progress.WithWidth(max+2),
		),
	}
}

// Init does nothing; snapshots arrive through Send.
func (m PanelModel) Init() tea.Cmd { return nil }

func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = transport.Snapshot(msg)
	case tea.KeyMsg:
		if key.Matches(msg, key.NewBinding(key.WithKeys(quitKeys...))) {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the UI
func (m PanelModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("discolight"))
	sb.WriteString("\n\n")

	for i, name := range m.names {
		on := i < len(m.snap.States) && m.snap.States[i]
		counter := 0
		if i < len(m.snap.Counters) {
			counter = m.snap.Counters[i]
		}

		lamp := lampOffStyle.Render("○")
		if on {
			lamp = lampOnStyle.Render("●")
		}
		pct := 0.0
		if m.max > 0 {
			pct = float64(counter) / float64(m.max)
		}
		fmt.Fprintf(&sb, "%s %-8s %s %3d\n", lamp, name, m.bar.ViewAs(pct), counter)
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("frame %d • overruns %d", m.snap.Seq, m.snap.Overruns)))
	sb.WriteString("\n")
	sb.WriteString(infoStyle.Render("q: Quit"))
	return sb.String()
}

// Panel runs a PanelModel and feeds it snapshots. It implements
// transport.Transport so a transport.Publisher can drive it.
type Panel struct {
	program *tea.Program
}

// NewPanel creates a full-screen panel program. Extra options are passed
// to bubbletea.
func NewPanel(names []string, max int, opts ...tea.ProgramOption) *Panel {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &Panel{program: tea.NewProgram(NewPanelModel(names, max), opts...)}
}

// Run blocks until the user quits or Close is called.
func (p *Panel) Run() error {
	_, err := p.program.Run()
	return err
}

// Send delivers a snapshot to the panel. Other values are ignored.
func (p *Panel) Send(data any) error {
	if snap, ok := data.(transport.Snapshot); ok {
		p.program.Send(snapshotMsg(snap))
	}
	return nil
}

// Close asks the program to exit.
func (p *Panel) Close() error {
	p.program.Quit()
	return nil
}

var _ transport.Transport = (*Panel)(nil)

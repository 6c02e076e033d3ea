// Package monitor is an interactive stepping debugger for a bus.Console:
// single-step, breakpoints, and a live register/memory view, replacing
// the teacher's fmt.Scanf-driven BIOS() REPL with a real bubbletea TUI.
package monitor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/bwalden/nescore/bus"
)

var statusStyle = lipgloss.NewStyle().Bold(true)

type model struct {
	console     *bus.Console
	breakpoints map[uint16]struct{}
	lastErr     error
	running     bool
	stepCount   int
}

// New returns a bubbletea program wired to console, ready to Run().
func New(console *bus.Console) *tea.Program {
	return tea.NewProgram(model{console: console, breakpoints: map[uint16]struct{}{}})
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "s":
		m.step()
	case "r":
		m.running = true
		for m.running && m.lastErr == nil {
			pc := m.console.CPU.PC
			if _, hit := m.breakpoints[pc]; hit && m.stepCount > 0 {
				m.running = false
				break
			}
			m.step()
		}
	case "b":
		m.breakpoints[m.console.CPU.PC] = struct{}{}
	case "c":
		m.breakpoints = map[uint16]struct{}{}
	}
	return m, nil
}

func (m *model) step() {
	if _, err := m.console.CPU.Step(); err != nil {
		m.lastErr = err
		return
	}
	for i := 0; i < 3; i++ {
		m.console.PPU.Tick()
	}
	m.stepCount++
}

func (m model) memoryWindow() string {
	pc := m.console.CPU.PC
	start := pc &^ 0x000F
	var sb strings.Builder
	fmt.Fprintf(&sb, "%04X | ", start)
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		v := m.console.Read(addr)
		if addr == pc {
			fmt.Fprintf(&sb, "[%02X] ", v)
		} else {
			fmt.Fprintf(&sb, " %02X  ", v)
		}
	}
	return sb.String()
}

func (m model) registerLine() string {
	c := m.console.CPU
	return statusStyle.Render(fmt.Sprintf(
		"%s  scanline=%d cycle=%d  next=%s",
		c.String(), m.console.PPU.Scanline(), m.console.PPU.Cycle(), c.CurrentMnemonic(),
	))
}

func (m model) breakpointLine() string {
	if len(m.breakpoints) == 0 {
		return "breakpoints: none"
	}
	var addrs []string
	for bp := range m.breakpoints {
		addrs = append(addrs, fmt.Sprintf("%04X", bp))
	}
	return "breakpoints: " + strings.Join(addrs, " ")
}

func (m model) View() string {
	if m.lastErr != nil {
		return fmt.Sprintf("halted: %v\n\n[q]uit\n", m.lastErr)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.registerLine(),
		m.memoryWindow(),
		m.breakpointLine(),
		"",
		spew.Sdump(m.console.CPU),
		"[space/s]tep  [r]un to breakpoint  [b]reak here  [c]lear breakpoints  [q]uit",
	)
}

// Package tui is the Bubble Tea host for the adventure interpreter.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine"
)

// Sink buffers session output between Update cycles. It is the
// engine.UI handed to the session; the model drains it after every
// HandleInput call.
type Sink struct {
	lines []string
}

// NewSink creates an empty output buffer.
func NewSink() *Sink { return &Sink{} }

func (s *Sink) Println(lines ...string) { s.lines = append(s.lines, lines...) }

func (s *Sink) ShowArt(art string) {
	for _, line := range strings.Split(art, "\n") {
		s.lines = append(s.lines, artMarker+line)
	}
}

// RefreshStatus is a no-op; the view reads session status every frame.
func (s *Sink) RefreshStatus() {}

// Drain returns and clears the buffered lines.
func (s *Sink) Drain() []string {
	out := s.lines
	s.lines = nil
	return out
}

// artMarker tags sink lines that came from ShowArt so they keep their
// own styling and never get re-wrapped.
const artMarker = "\x00art\x00"

// rawLine stores an unstyled output line with its classification, so
// the transcript can be re-wrapped and re-styled on terminal resize.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool
	isSystem bool
	isArt    bool
}

// Model is the Bubble Tea model hosting one session.
type Model struct {
	session *engine.Session
	sink    *Sink

	viewport viewport.Model
	input    textinput.Model
	history  *inputLog

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	debug    bool
	quitting bool
}

// outputMsg carries drained session output into the Update loop.
type outputMsg struct {
	input    string // echoed player input, empty for session-initiated text
	lines    []string
	isSystem bool
}

// New creates a model over a session and the sink the session writes
// to. Start or Continue the session before running the program; the
// buffered opening text becomes the first screen.
func New(sess *engine.Session, sink *Sink) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		session: sess,
		sink:    sink,
		input:   ti,
		history: &inputLog{limit: 100},
	}
}

// Run starts the Bubble Tea program.
func Run(sess *engine.Session, sink *Sink) error {
	p := tea.NewProgram(New(sess, sink), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg {
		return outputMsg{lines: m.sink.Drain()}
	})
}

// Update handles key presses, window resizes, and drained output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // status bar + input line
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.older(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.newer(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case outputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}

	m.history.record(input)

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(outputMsg{input: input, lines: output, isSystem: true})
		m = m.appendOutput(outputMsg{lines: m.sink.Drain()})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	m.session.HandleInput(input)
	m = m.appendOutput(outputMsg{input: input, lines: m.sink.Drain()})

	if !m.session.IsActive() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleMeta dispatches slash commands. Returns output and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		m.session.Exit()
		return nil, true

	case "/reset":
		if err := m.session.Reset(); err != nil {
			return []string{fmt.Sprintf("Neustart fehlgeschlagen: %v", err)}, false
		}
		return nil, false

	case "/debug":
		m.debug = !m.debug
		m.session.SetDebug(m.debug)
		if m.debug {
			return []string{"Debug-Ausgabe an."}, false
		}
		return []string{"Debug-Ausgabe aus."}, false

	case "/state":
		return m.cmdState(), false

	case "/help":
		return []string{
			"System: /quit, /reset, /debug, /state, /help",
			"Blättern: Bild-auf/Bild-ab. Eingabe-Verlauf: Pfeiltasten.",
		}, false

	default:
		return []string{fmt.Sprintf("Unbekannter Befehl: %s. /help zeigt alle.", input)}, false
	}
}

// cmdState dumps the session state, one fact per line.
func (m *Model) cmdState() []string {
	w := m.session.World()
	if w == nil {
		return []string{"Keine laufende Sitzung."}
	}
	out := []string{
		fmt.Sprintf("Raum: %s", w.Room),
		fmt.Sprintf("HP: %d/%d  Angriff: %d  Verteidigung: %d",
			w.Stats.HP, w.Stats.MaxHP, w.Stats.Attack, w.Stats.Defense),
		fmt.Sprintf("Inventar: %v", w.Inventory),
	}
	if len(w.Flags) > 0 {
		out = append(out, fmt.Sprintf("Flags: %v", w.Flags))
	}
	if len(w.Counters) > 0 {
		out = append(out, fmt.Sprintf("Zähler: %v", w.Counters))
	}
	if w.Combat.Active {
		out = append(out, fmt.Sprintf("Kampf: %s (%d HP)", w.Combat.OpponentID, w.Combat.OpponentHP))
	}
	if w.Dialog.Active {
		out = append(out, fmt.Sprintf("Dialog: %s@%s", w.Dialog.Actor, w.Dialog.Node))
	}
	return out
}

// appendOutput adds lines to the transcript and refreshes the viewport.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if art, ok := strings.CutPrefix(line, artMarker); ok {
			rl.text = art
			rl.isArt = true
		} else if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	if len(msg.lines) > 0 || msg.input != "" {
		// Blank separator between turns.
		m.rawLines = append(m.rawLines, rawLine{})
	}

	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles the transcript at the current
// width and scrolls to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		switch {
		case rl.text == "":
			styled = append(styled, "")
		case rl.isArt:
			styled = append(styled, styleArt.Render(rl.text))
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wordWrap(rl.text, width)))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wordWrap(rl.text, width)))
		default:
			styled = append(styled, renderLineKind(wordWrap(rl.text, width), rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text at word boundaries to fit the width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		wLen := len(word)
		switch {
		case i == 0:
			result.WriteString(word)
			lineLen = wLen
		case lineLen+1+wLen > width:
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		default:
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}
	return result.String()
}

// View renders viewport + status bar + input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Lade..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// inputLog keeps recent commands for Up/Down recall in the prompt. The
// cursor counts steps back from the newest entry; zero means fresh
// input.
type inputLog struct {
	lines []string
	back  int
	limit int
}

// record appends a command and leaves recall mode. Repeating the last
// command adds no entry.
func (l *inputLog) record(cmd string) {
	l.back = 0
	if n := len(l.lines); n > 0 && l.lines[n-1] == cmd {
		return
	}
	l.lines = append(l.lines, cmd)
	if l.limit > 0 && len(l.lines) > l.limit {
		l.lines = l.lines[len(l.lines)-l.limit:]
	}
}

// older steps one command back, clamping at the oldest kept entry.
func (l *inputLog) older() (string, bool) {
	if l.back < len(l.lines) {
		l.back++
	}
	if l.back == 0 {
		return "", false
	}
	return l.lines[len(l.lines)-l.back], true
}

// newer steps one command forward; ("", false) means back at fresh
// input.
func (l *inputLog) newer() (string, bool) {
	if l.back > 0 {
		l.back--
	}
	if l.back == 0 {
		return "", false
	}
	return l.lines[len(l.lines)-l.back], true
}

// viewportKeyMap disables Up/Down scrolling; those keys drive the
// input history instead.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}

// Package cli is the plain terminal host: prompt loop, output sink,
// meta-command dispatch, and script playback.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine"
)

// CLI handles terminal interaction with the player. It implements
// engine.UI; the session pushes lines, the CLI prints them.
type CLI struct {
	Session   *engine.Session
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (script playback)

	debug bool
}

// New creates a CLI bound to stdin/stdout. Attach the session after
// construction; the session needs the CLI as its UI sink first.
func New() *CLI {
	return &CLI{In: os.Stdin, Out: os.Stdout}
}

// --- engine.UI ---

func (c *CLI) Println(lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(c.Out, line)
	}
}

func (c *CLI) ShowArt(art string) {
	fmt.Fprintln(c.Out, art)
}

// RefreshStatus is a no-op in plain mode; the TUI renders a status bar.
func (c *CLI) RefreshStatus() {}

// Run loops: prompt → input → dispatch → output, until the session
// deactivates or input runs dry.
func (c *CLI) Run() {
	scanner := bufio.NewScanner(c.In)
	for c.Session.IsActive() {
		fmt.Fprint(c.Out, "> ")
		if !scanner.Scan() {
			break
		}
		c.dispatch(scanner.Text())
	}
}

// PlayScript feeds commands from a file through the session, echoing
// each. Authors use this for regression runs against an adventure.
func (c *CLI) PlayScript(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()

	echo := c.EchoInput
	c.EchoInput = true
	defer func() { c.EchoInput = echo }()

	scanner := bufio.NewScanner(f)
	for c.Session.IsActive() && scanner.Scan() {
		c.dispatch(scanner.Text())
	}
	return scanner.Err()
}

func (c *CLI) dispatch(raw string) {
	input := strings.TrimSpace(raw)
	if input == "" || strings.HasPrefix(input, "#") {
		return
	}
	if c.EchoInput {
		fmt.Fprintln(c.Out, "> "+input)
	}
	if strings.HasPrefix(input, "/") {
		c.handleMeta(input)
		return
	}
	c.Session.HandleInput(input)
}

// handleMeta dispatches slash commands outside the adventure's own
// verb set.
func (c *CLI) handleMeta(input string) {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		c.Session.Exit()

	case "/reset":
		if err := c.Session.Reset(); err != nil {
			c.printSystem(fmt.Sprintf("Neustart fehlgeschlagen: %v", err))
		}

	case "/debug":
		c.debug = !c.debug
		c.Session.SetDebug(c.debug)
		if c.debug {
			c.printSystem("Debug-Ausgabe an.")
		} else {
			c.printSystem("Debug-Ausgabe aus.")
		}

	case "/state":
		c.cmdState()

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem(fmt.Sprintf("Unbekannter Befehl: %s. /help zeigt alle.", input))
	}
}

func (c *CLI) cmdState() {
	w := c.Session.World()
	if w == nil {
		c.printSystem("Keine laufende Sitzung.")
		return
	}
	c.printSystem(fmt.Sprintf("Raum: %s", w.Room))
	c.printSystem(fmt.Sprintf("HP: %d/%d  Angriff: %d  Verteidigung: %d",
		w.Stats.HP, w.Stats.MaxHP, w.Stats.Attack, w.Stats.Defense))
	c.printSystem(fmt.Sprintf("Inventar: %v", w.Inventory))
	if len(w.Flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", w.Flags))
	}
	if len(w.Counters) > 0 {
		c.printSystem(fmt.Sprintf("Zähler: %v", w.Counters))
	}
	if w.Combat.Active {
		c.printSystem(fmt.Sprintf("Kampf: %s (%d HP)", w.Combat.OpponentID, w.Combat.OpponentHP))
	}
	if w.Dialog.Active {
		c.printSystem(fmt.Sprintf("Dialog: %s@%s", w.Dialog.Actor, w.Dialog.Node))
	}
}

func (c *CLI) cmdHelp() {
	for _, line := range []string{
		"System:",
		"  /quit   — Beenden",
		"  /reset  — Spielstand löschen und neu beginnen",
		"  /debug  — Debug-Ausgabe umschalten",
		"  /state  — Sitzungszustand anzeigen",
		"  /help   — Diese Hilfe",
		"",
	} {
		fmt.Fprintln(c.Out, line)
	}
	c.Session.HandleInput("hilfe")
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

package tui

import (
	"strings"
	"testing"
)

func TestInputLogRecall(t *testing.T) {
	l := &inputLog{limit: 10}
	l.record("schau")
	l.record("nimm chip")
	l.record("norden")

	if got, ok := l.older(); !ok || got != "norden" {
		t.Fatalf("older = %q, %v", got, ok)
	}
	if got, ok := l.older(); !ok || got != "nimm chip" {
		t.Fatalf("older = %q, %v", got, ok)
	}
	if got, ok := l.newer(); !ok || got != "norden" {
		t.Fatalf("newer = %q, %v", got, ok)
	}
	if _, ok := l.newer(); ok {
		t.Fatal("newer past the latest entry should report false")
	}
}

func TestInputLogDedupesConsecutive(t *testing.T) {
	l := &inputLog{limit: 10}
	l.record("schau")
	l.record("schau")
	l.record("schau")

	if got, ok := l.older(); !ok || got != "schau" {
		t.Fatalf("older = %q, %v", got, ok)
	}
	// A single collapsed entry: stepping further back stays put.
	if got, ok := l.older(); !ok || got != "schau" {
		t.Fatalf("older past oldest = %q, %v", got, ok)
	}
	if _, ok := l.newer(); ok {
		t.Fatal("newer from the only entry should leave recall")
	}
}

func TestInputLogLimit(t *testing.T) {
	l := &inputLog{limit: 2}
	l.record("eins")
	l.record("zwei")
	l.record("drei")

	if got, _ := l.older(); got != "drei" {
		t.Fatalf("older = %q", got)
	}
	if got, _ := l.older(); got != "zwei" {
		t.Fatalf("older = %q", got)
	}
	// "eins" was evicted; the cursor clamps at the oldest kept entry.
	if got, _ := l.older(); got != "zwei" {
		t.Fatalf("older past eviction = %q", got)
	}
}

func TestInputLogRecordLeavesRecall(t *testing.T) {
	l := &inputLog{limit: 10}
	l.record("schau")
	l.record("norden")
	if got, _ := l.older(); got != "norden" {
		t.Fatalf("older = %q", got)
	}

	l.record("sueden")
	if got, ok := l.older(); !ok || got != "sueden" {
		t.Fatalf("older after record = %q, %v", got, ok)
	}
}

func TestClassifyLine(t *testing.T) {
	cases := []struct {
		line string
		want lineKind
	}{
		{"Hier liegt: ein Chip.", kindListing},
		{"Du siehst: einen Schalter.", kindListing},
		{"Anwesend: die Wache.", kindListing},
		{"Du trägst: nichts.", kindListing},
		{"Ausgänge: norden, süden.", kindExits},
		{"Es gibt keinen sichtbaren Ausgang.", kindExits},
		{"  1) Was willst du hier?", kindDialogue},
		{"[Debug-Ausgabe an.]", kindSystem},
		{"Der Regen trommelt gegen das Wellblech.", kindNarrative},
	}
	for _, tc := range cases {
		if got := classifyLine(tc.line); got != tc.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("der regen trommelt gegen das wellblech", 14)
	want := "der regen\ntrommelt gegen\ndas wellblech"
	if got != want {
		t.Fatalf("wordWrap =\n%q\nwant\n%q", got, want)
	}
}

func TestWordWrapShortLineUntouched(t *testing.T) {
	if got := wordWrap("kurz", 80); got != "kurz" {
		t.Fatalf("wordWrap = %q", got)
	}
}

func TestWordWrapLongWordKeptWhole(t *testing.T) {
	got := wordWrap("Donaudampfschifffahrtsgesellschaft ok", 10)
	if !strings.Contains(got, "Donaudampfschifffahrtsgesellschaft") {
		t.Fatalf("long word was mangled: %q", got)
	}
}

func TestSinkDrain(t *testing.T) {
	s := NewSink()
	s.Println("eins", "zwei")
	s.Println("drei")

	got := s.Drain()
	if len(got) != 3 || got[0] != "eins" || got[2] != "drei" {
		t.Fatalf("Drain = %v", got)
	}
	if again := s.Drain(); len(again) != 0 {
		t.Fatalf("second Drain = %v, want empty", again)
	}
}

func TestSinkShowArtSplitsAndMarks(t *testing.T) {
	s := NewSink()
	s.ShowArt(" /\\ \n/__\\")

	got := s.Drain()
	if len(got) != 2 {
		t.Fatalf("Drain = %v", got)
	}
	for _, line := range got {
		if !strings.HasPrefix(line, artMarker) {
			t.Fatalf("art line %q missing marker", line)
		}
	}
}

func TestAppendOutputRecordsTranscript(t *testing.T) {
	m := New(nil, NewSink())
	m.width = 80
	m = m.appendOutput(outputMsg{input: "schau", lines: []string{"Eine Zelle.", "Ausgänge: norden."}})

	if len(m.rawLines) != 4 { // echo + 2 lines + separator
		t.Fatalf("rawLines = %d, want 4", len(m.rawLines))
	}
	if !m.rawLines[0].isInput || m.rawLines[0].text != "> schau" {
		t.Fatalf("echo line = %+v", m.rawLines[0])
	}
	if m.rawLines[2].kind != kindExits {
		t.Fatalf("exits line classified as %v", m.rawLines[2].kind)
	}
	if m.rawLines[3].text != "" {
		t.Fatal("missing separator line")
	}
}

func TestAppendOutputSystemLinesSkipClassification(t *testing.T) {
	m := New(nil, NewSink())
	m = m.appendOutput(outputMsg{lines: []string{"Debug-Ausgabe an."}, isSystem: true})

	if !m.rawLines[0].isSystem {
		t.Fatalf("line = %+v", m.rawLines[0])
	}
}

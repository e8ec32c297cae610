package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	l, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	l.Debugf("unsichtbar %d", 1)
	l.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "unsichtbar") {
		t.Error("disabled logger wrote debug output")
	}
}

func TestToggle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	l, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	l.SetEnabled(true)
	if !l.Enabled() {
		t.Fatal("Enabled() = false after SetEnabled(true)")
	}
	l.Debugf("sichtbar %s", "ja")
	l.SetEnabled(false)
	l.Debugf("wieder unsichtbar")
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "sichtbar ja") {
		t.Errorf("enabled line missing: %q", out)
	}
	if strings.Contains(out, "wieder unsichtbar") {
		t.Errorf("disabled line written: %q", out)
	}
}

func TestNopAndNilSafe(t *testing.T) {
	Nop().Debugf("ok")
	Nop().Warnf("ok")

	var l *Logger
	l.Debugf("nil receiver must not panic")
	l.Sync()
}

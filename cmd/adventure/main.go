// Adventure is a data-driven interpreter for German text adventures.
// Usage: adventure [--version] [--plain] [--new] [--debug] [--script <file>]
//
//	[--user <name>] [--store <file:dir|sqlite:path>] <adventure_directory>
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/cli"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/debuglog"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/loader"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/storage"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: adventure [--version] [--plain] [--new] [--debug] [--script <file>] [--user <name>] [--store <file:dir|sqlite:path>] [--data <dir>] <adventure_directory>\n")
	os.Exit(1)
}

func main() {
	plain := false
	fresh := false
	debug := false
	user := "spieler"
	storeSpec := "file:saves"
	var dataDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("adventure %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--new":
			fresh = true
		case "--debug":
			debug = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		case "--data":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--data requires a directory\n")
				os.Exit(1)
			}
			i++
			dataDir = args[i]
		case "--user":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--user requires a name\n")
				os.Exit(1)
			}
			i++
			user = args[i]
		case "--store":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--store requires file:<dir> or sqlite:<path>\n")
				os.Exit(1)
			}
			i++
			storeSpec = args[i]
		default:
			if dataDir == "" {
				dataDir = args[i]
			}
		}
	}

	if dataDir == "" {
		usage()
	}

	defs, err := openAdventure(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading adventure: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(storeSpec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening save store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	log := debuglog.Nop()
	if debug {
		log, err = debuglog.New("adventure-debug.log")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
	}

	adventure := filepath.Base(filepath.Clean(dataDir))

	// Script mode: plain host fed from a file, commands echoed.
	if scriptFile != "" {
		c := cli.New()
		if err := runSession(c, adventure, user, defs, store, log, fresh, debug); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := c.PlayScript(scriptFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Plain CLI if requested or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New()
		if err := runSession(c, adventure, user, defs, store, log, fresh, debug); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		c.Run()
		return
	}

	sink := tui.NewSink()
	sess := engine.NewSession(adventure, user, defs, store, sink, log)
	sess.SetDebug(debug)
	if err := startOrContinue(sess, fresh); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := tui.Run(sess, sink); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openAdventure picks the content front-end: a directory with a
// game.lua is authored in Lua, anything else holds JSON/YAML documents.
func openAdventure(dir string) (*loader.Loader, error) {
	if _, err := os.Stat(filepath.Join(dir, "game.lua")); err == nil {
		f, err := loader.LoadLuaDir(dir)
		if err != nil {
			return nil, err
		}
		return loader.New(f), nil
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return loader.New(loader.DirFetcher{Root: dir}), nil
}

// openStore parses file:<dir> or sqlite:<path>; a bare path means a
// file store rooted there.
func openStore(spec string) (storage.BlobStore, error) {
	scheme, rest, found := strings.Cut(spec, ":")
	if !found {
		return storage.NewFileStore(spec)
	}
	switch scheme {
	case "file":
		return storage.NewFileStore(rest)
	case "sqlite":
		return storage.NewSQLiteStore(rest)
	default:
		return nil, fmt.Errorf("unknown store scheme %q (want file: or sqlite:)", scheme)
	}
}

func runSession(c *cli.CLI, adventure, user string, defs *loader.Loader, store storage.BlobStore, log *debuglog.Logger, fresh, debug bool) error {
	sess := engine.NewSession(adventure, user, defs, store, c, log)
	sess.SetDebug(debug)
	c.Session = sess
	return startOrContinue(sess, fresh)
}

// startOrContinue resumes a saved game unless a fresh start was asked
// for. Continue itself falls back to Start when no save exists.
func startOrContinue(sess *engine.Session, fresh bool) error {
	if fresh {
		return sess.Start()
	}
	return sess.Continue()
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

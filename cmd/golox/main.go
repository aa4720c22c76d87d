package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"

	"github.com/labstack/gommon/color"
	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"

	"golox"
	"golox/report"
)

const historyFile = ".golox_history"

func main() {
	os.Exit(run())
}

func run() int {
	// Statement tracing if enabled via the env-var LOX_TRACE.
	if _, has := os.LookupEnv("LOX_TRACE"); has {
		log.SetLevel(log.DebugLevel)
	}

	// Start CPU profile if enabled via the env-var CPUPROFILE.
	if profOut, has := os.LookupEnv("CPUPROFILE"); has && profOut != "" {
		f, err := os.Create(profOut)
		if err != nil {
			log.WithError(err).Fatalf("Cannot create profile output file '%v'.", profOut)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	switch len(os.Args) {
	case 0, 1:
		return execPrompt()
	case 2:
		return execFromFile(os.Args[1])

	default:
		fmt.Fprintln(os.Stderr, "Usage: golox [script]")
		return 64
	}
}

func execFromFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		// Fatal exits with code 1.
		log.WithError(err).Fatalf("Cannot open file '%v'.", path)
	}

	lox := golox.New(nil, nil)
	lox.Run(string(source))

	switch {
	case lox.Reporter.HadError:
		return 65
	case lox.Reporter.HadRuntimeError:
		return 70
	}

	return 0
}

func execPrompt() int {
	rep := report.NewReporter()
	lox := golox.New(rep, nil)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println(color.Cyan("golox interactive prompt, Ctrl+D to exit."))

	for {
		line, err := ln.Prompt("> ")

		switch {
		case errors.Is(err, io.EOF):
			fmt.Println()
			return 0
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			fmt.Fprintln(os.Stderr, color.Red(
				fmt.Sprintf("Error reading input: %v.", err)))
			return 1
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		lox.Run(line)
		// One bad line must not poison the next.
		rep.Reset()
		ln.AppendHistory(line)
	}
}

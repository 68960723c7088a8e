package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/wchar/guest"
)

type command struct {
	run   func(ctx context.Context, log *zap.Logger, args []string) error
	usage string
}

var commands = map[string]command{
	"decode":      {runDecode, "decode [-chunk n] [-nul] [text]   UTF-8 to code points"},
	"encode":      {runEncode, "encode [-hex] U+XXXX...           code points to UTF-8"},
	"utf32":       {runUTF32, "utf32 [-reverse]                   stream stdin as UTF-32LE"},
	"parse-float": {runParseFloat, "parse-float text                  wcstod"},
	"parse-int":   {runParseInt, "parse-int [-base n] [-unsigned] text  wcstol / wcstoul"},
	"classify":    {runClassify, "classify text                     classes, case and width"},
	"run":         {runGuest, "run [-func name] module.wasm [args]  call a guest export"},
}

func main() {
	var (
		verbose     = flag.Bool("v", false, "Verbose logging")
		jsonLog     = flag.Bool("log-json", false, "Log as JSON")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Usage = usage
	flag.Parse()

	log, err := newLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	guest.SetLogger(log)

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(1)
	}

	if err := cmd.run(context.Background(), log.Named(args[0]), args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: wchar [-v] [-log-json] <command> [flags] [args]")
	fmt.Fprintln(os.Stderr, "       wchar -i  (interactive mode)")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}

// newLogger builds a console logger for terminals and a JSON logger
// otherwise or when asked for. Debug output needs -v.
func newLogger(verbose, jsonOut bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	if jsonOut {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		return cfg.Build()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = !verbose
	if term.IsTerminal(int(os.Stderr.Fd())) {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg.Build()
}

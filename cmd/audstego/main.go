// SPDX-License-Identifier: EPL-2.0

// Command audstego hides files inside audio carriers and extracts them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ik5/audstego/internal/config"
	"github.com/ik5/audstego/internal/logging"
)

const version = "1.0.0"

var errUsage = errors.New("invalid arguments")

type app struct {
	cfg    config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("audstego", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "configuration file (default "+config.DefaultPath()+")")
	verbose := fs.Bool("v", false, "verbose logging")
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, "audstego", version)
		return 0
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	log, closer, err := logging.New(level, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer closer.Close()

	a := &app{cfg: cfg, log: log, stdout: stdout, stderr: stderr}

	commands := map[string]func([]string) error{
		"encode":    a.encode,
		"decode":    a.decode,
		"analyze":   a.analyze,
		"capacity":  a.capacity,
		"info":      a.info,
		"testfiles": a.testFiles,
	}

	cmd := fs.Arg(0)
	fn, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		fs.Usage()
		return 2
	}

	if err := fn(fs.Args()[1:]); err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			return 2
		}

		log.Debug("command failed", "command", cmd, "error", err)
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	return 0
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "usage: audstego [-config file] [-v] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  encode     hide files in a carrier")
	fmt.Fprintln(w, "  decode     extract hidden files")
	fmt.Fprintln(w, "  analyze    list hidden files without extracting")
	fmt.Fprintln(w, "  capacity   show how much a carrier can hold")
	fmt.Fprintln(w, "  info       show supported formats and quality modes")
	fmt.Fprintln(w, "  testfiles  write sample secrets and carriers")
	fmt.Fprintln(w)
	fs.PrintDefaults()
}

// loadConfig reads path, or the per-user file when path is empty. A missing
// per-user file means defaults.
func loadConfig(path string) (config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}
	if path == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(path)
	if errors.Is(err, config.ErrConfigNotFound) && !explicit {
		return config.DefaultConfig(), nil
	}
	if err != nil {
		return cfg, err
	}

	return cfg, config.ValidateConfig(cfg)
}

func (a *app) flagSet(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "usage: audstego %s %s\n\n", name, args)
		fs.PrintDefaults()
	}

	return fs
}

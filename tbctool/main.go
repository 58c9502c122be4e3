package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tbctools/capturedb"
	"tbctools/tbc"
	"tbctools/video"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string) error
}

var commands = []command{
	{"convert", "decode a video file and repack its first frame as v210, yuyv or planar", runConvert},
	{"bars", "generate a colour bar frame", runBars},
	{"vits", "analyze test-signal lines of a TBC file", runVITS},
	{"phase", "measure colour burst phase per field", runPhase},
	{"lines", "print raw statistics of TBC lines", runLines},
	{"synth", "write a TBC file with sync, burst and test lines", runSynth},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: tbctool <command> [flags]\n\ncommands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.summary)
	}
}

func main() {
	log.SetFlags(0)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()})))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name, args := os.Args[1], os.Args[2:]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(ctx, args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				os.Exit(0)
			}
			log.Fatalf("%s: %v", name, err)
		}
		return
	}
	usage()
	log.Fatalf("unknown command %q", name)
}

func logLevel() slog.Level {
	if os.Getenv("TBCTOOL_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// capture is an open TBC file with the parameters it was recorded with.
type capture struct {
	std  video.Standard
	file *tbc.File
	db   string // metadata file the standard came from, if any
}

// openCapture resolves the standard of a TBC file from its metadata
// database when one exists, falling back to the defaults of system, then
// opens the file.
func openCapture(ctx context.Context, path, dbPath string, system video.System) (*capture, error) {
	std, err := video.ForSystem(system)
	if err != nil {
		return nil, err
	}
	var used string
	explicit := dbPath != ""
	if !explicit {
		dbPath = capturedb.PathFor(path)
	}
	if _, statErr := os.Stat(dbPath); statErr == nil || explicit {
		c, err := capturedb.Load(ctx, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read capture metadata: %w", err)
		}
		std = c.Standard()
		used = dbPath
		log.Printf("Using %s parameters from %s", std.System, dbPath)
	}

	f, err := tbc.Open(path, tbc.GeometryFor(std))
	if err != nil {
		return nil, err
	}
	return &capture{std: std, file: f, db: used}, nil
}

func (c *capture) Close() error { return c.file.Close() }

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"tbctools/config"
	"tbctools/measure"
	"tbctools/report"
	"tbctools/video"
)

func runVITS(ctx context.Context, args []string) error {
	cfg, err := config.ParseVITS(args, os.Stderr)
	if err != nil {
		return err
	}
	var profile *config.Profile
	if cfg.Profile != "" {
		if profile, err = config.LoadProfile(cfg.Profile); err != nil {
			return err
		}
	}

	c, err := openCapture(ctx, cfg.Input, cfg.DB, profile.SystemOr(cfg.System))
	if err != nil {
		return err
	}
	defer c.Close()

	std := profile.Apply(c.std)
	an := measure.NewAnalyzer(std)
	if profile != nil {
		an.SignalThreshold = profile.SignalThreshold
	}

	if n := c.file.FrameCount(); cfg.Frame >= n {
		return fmt.Errorf("frame %d: file has %d frames: %w", cfg.Frame, n, video.ErrAddressing)
	}

	lines := cfg.Lines
	if len(lines) == 0 && profile != nil {
		lines = profile.Lines
	}
	if len(lines) == 0 {
		lines = config.DefaultVITSLines(std.FieldHeight)
	}

	doc := report.VITS{
		Run:   report.NewRun("vits", cfg.Input, std.System.String()),
		Frame: cfg.Frame,
	}
	for _, fl := range lines {
		addr, samples, err := c.file.FrameLine(cfg.Frame, fl)
		if err != nil {
			return fmt.Errorf("frame line %d: %w", fl, err)
		}
		spec, err := profile.SpecFor(fl, cfg.Spec, std)
		if err != nil {
			return err
		}
		rep, err := an.AnalyzeLine(samples, spec)
		if err != nil {
			return fmt.Errorf("frame line %d: %w", fl, err)
		}
		entry := report.LineEntry{
			FrameLine: fl,
			Field:     addr.Field,
			FieldLine: addr.Line,
			Report:    rep,
		}
		if cfg.Timing {
			tm, err := an.Transitions(samples, spec.Active)
			if err != nil {
				return err
			}
			entry.Timing = &tm
		}
		if !rep.HasSignal {
			log.Printf("Frame line %d carries no test signal", fl)
		}
		doc.Lines = append(doc.Lines, entry)
	}

	if cfg.JSON {
		return report.WriteJSON(os.Stdout, doc)
	}
	return report.RenderVITS(os.Stdout, doc)
}

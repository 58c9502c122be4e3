package main

import (
	"context"
	"os"

	"tbctools/config"
	"tbctools/measure"
	"tbctools/report"
)

func runLines(ctx context.Context, args []string) error {
	cfg, err := config.ParseLines(args, os.Stderr)
	if err != nil {
		return err
	}
	c, err := openCapture(ctx, cfg.Input, cfg.DB, cfg.System)
	if err != nil {
		return err
	}
	defer c.Close()

	an := measure.NewAnalyzer(c.std)
	doc := report.Lines{Run: report.NewRun("lines", cfg.Input, c.std.System.String())}
	for _, l := range cfg.Lines {
		samples, err := c.file.FullLine(cfg.Field, l)
		if err != nil {
			return err
		}
		doc.Lines = append(doc.Lines, report.LineStats{Field: cfg.Field, Line: l, Summary: an.Summarize(samples)})
	}

	if cfg.JSON {
		return report.WriteJSON(os.Stdout, doc)
	}
	return report.RenderLines(os.Stdout, doc)
}

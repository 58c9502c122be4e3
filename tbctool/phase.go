package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"tbctools/capturedb"
	"tbctools/config"
	"tbctools/measure"
	"tbctools/report"
)

func runPhase(ctx context.Context, args []string) error {
	cfg, err := config.ParsePhase(args, os.Stderr)
	if err != nil {
		return err
	}
	c, err := openCapture(ctx, cfg.Input, cfg.DB, cfg.System)
	if err != nil {
		return err
	}
	defer c.Close()

	fields := min(cfg.Fields, c.file.FieldCount())
	if fields == 0 {
		return fmt.Errorf("%s holds no complete field", cfg.Input)
	}

	var seq []capturedb.Field
	if c.db != "" {
		if seq, err = capturedb.LoadFields(ctx, c.db); err != nil {
			log.Printf("No field records in %s, colour sequence not shown", c.db)
		}
	}

	pal := c.std.System.IsPAL()
	doc := report.Phase{
		Run: report.NewRun("phase", cfg.Input, c.std.System.String()),
		PAL: pal,
	}
	for f := 0; f < fields; f++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := c.file.FullLine(f, cfg.Line)
		if err != nil {
			return fmt.Errorf("field %d: %w", f, err)
		}
		p, err := measure.BurstPhaseFor(line, c.std)
		if err != nil {
			return err
		}
		e := report.NewPhaseEntry(f, cfg.Line, p, pal)
		if f < len(seq) {
			e.Sequence = &seq[f].PhaseID
		}
		doc.Fields = append(doc.Fields, e)
	}

	if cfg.JSON {
		return report.WriteJSON(os.Stdout, doc)
	}
	return report.RenderPhase(os.Stdout, doc)
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"tbctools/colorimetry"
	"tbctools/config"
	"tbctools/pixfmt"
	"tbctools/testcard"
	"tbctools/video"
)

func runBars(_ context.Context, args []string) error {
	cfg, err := config.ParseBars(args, os.Stderr)
	if err != nil {
		return err
	}
	out, err := testcard.ParseOutput(cfg.Format)
	if err != nil {
		return err
	}

	r := video.BT601()
	set := video.NewColorBars(cfg.Saturation, r)
	g := pixfmt.Geometry{Width: cfg.Width, Height: cfg.Height}
	gen := testcard.New()

	buf, err := gen.Render(set, g, out)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Output, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write bars: %w", err)
	}
	log.Printf("Wrote %d%% bars, %s %s, %d bytes to %s", cfg.Saturation, g, out, len(buf), cfg.Output)

	conv := colorimetry.New()
	for i, ycc := range conv.BarsYCbCr(set) {
		log.Printf("  %-8s Y=%4d Cb=%4d Cr=%4d", video.BarNames[i], ycc[0], ycc[1], ycc[2])
	}

	if cfg.TIFF != "" {
		rgb, err := gen.RGB(set, g)
		if err != nil {
			return err
		}
		if err := testcard.SaveTIFF(cfg.TIFF, rgb, r); err != nil {
			return err
		}
		log.Printf("Wrote preview to %s", cfg.TIFF)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"tbctools/config"
	"tbctools/pixfmt"
	"tbctools/report"
	"tbctools/source"
	"tbctools/video"
)

func runConvert(ctx context.Context, args []string) error {
	cfg, err := config.ParseConvert(args, os.Stderr)
	if err != nil {
		return err
	}
	to, err := pixfmt.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	dec := &source.Decoder{FFmpeg: cfg.FFmpeg, FFprobe: cfg.FFprobe}
	var prefer []int
	if cfg.System != video.PAL {
		// 486-line NTSC sources decode to the target height
		prefer = append(prefer, cfg.Height)
	}
	log.Printf("Decoding first frame of %s...", cfg.Input)
	frame, err := dec.DecodeFirstFrame(ctx, cfg.Input, prefer...)
	if err != nil {
		return err
	}

	codec := pixfmt.NewCodec()
	codec.Strict = cfg.Strict
	g := frame.Geometry
	yuyv, err := codec.Convert(frame.Data, pixfmt.Planar10LE, pixfmt.YUYV10LE, g)
	if err != nil {
		return err
	}

	switch {
	case g.Width < cfg.Width:
		if yuyv, err = codec.PadWidth(yuyv, g, cfg.Width); err != nil {
			return err
		}
		g.Width = cfg.Width
	case g.Width > cfg.Width:
		log.Printf("Decoded width %d exceeds target %d, keeping %d", g.Width, cfg.Width, g.Width)
	}
	if g.Height != cfg.Height {
		if yuyv, err = codec.CropOrPadHeight(yuyv, g, cfg.Height); err != nil {
			return err
		}
		g.Height = cfg.Height
	}

	out := yuyv
	if to != pixfmt.YUYV10LE {
		if out, err = codec.Convert(yuyv, pixfmt.YUYV10LE, to, g); err != nil {
			return err
		}
	}
	if err := os.WriteFile(cfg.Output, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return report.RenderConvert(os.Stdout, report.Convert{
		Run:      report.NewRun("convert", cfg.Input, cfg.System.String()),
		Reported: frame.Reported,
		Decoded:  frame.Geometry,
		Output:   g,
		Format:   to.String(),
		Path:     cfg.Output,
		Bytes:    len(out),
	})
}

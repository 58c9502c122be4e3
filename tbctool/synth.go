package main

import (
	"context"
	"log"
	"os"

	"tbctools/config"
	"tbctools/synth"
	"tbctools/video"
)

func runSynth(ctx context.Context, args []string) error {
	cfg, err := config.ParseSynth(args, os.Stderr)
	if err != nil {
		return err
	}
	var profile *config.Profile
	if cfg.Profile != "" {
		if profile, err = config.LoadProfile(cfg.Profile); err != nil {
			return err
		}
	}

	std, err := video.ForSystem(profile.SystemOr(cfg.System))
	if err != nil {
		return err
	}
	std = profile.Apply(std)

	g := synth.New(std)
	g.BurstIRE = cfg.BurstIRE
	g.PictureIRE = cfg.PictureIRE
	if profile != nil {
		for fl := range profile.Assign {
			spec, err := profile.SpecFor(fl, "", std)
			if err != nil {
				return err
			}
			g.Specs[fl] = spec
		}
	}

	if cfg.NoDB {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		if err := g.Write(ctx, f, cfg.Frames); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	} else if err := g.WriteFile(ctx, cfg.Output, cfg.Frames); err != nil {
		return err
	}
	log.Printf("Wrote %d %s frames to %s", cfg.Frames, std.System, cfg.Output)
	return nil
}

package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"tbctools/measure"
	"tbctools/video"
)

func TestParseConvert(t *testing.T) {
	cfg, err := ParseConvert([]string{"-in", "clip.mov", "-system", "ntsc", "-to", "v210"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.System != video.NTSC || cfg.Height != 480 || cfg.Width != 720 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Output != "clip.v210" {
		t.Errorf("default output = %q", cfg.Output)
	}
	if _, err := ParseConvert(nil, io.Discard); !errors.Is(err, ErrMissingInput) {
		t.Errorf("got %v, want ErrMissingInput", err)
	}
	if _, err := ParseConvert([]string{"-in", "x", "-system", "secam"}, io.Discard); err == nil {
		t.Error("secam should be rejected")
	}
}

func TestParseBars(t *testing.T) {
	cfg, err := ParseBars([]string{"-saturation", "75", "-format", "yuyv"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Height != 576 || cfg.Output != "bars_pal_75.yuyv" {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := ParseBars([]string{"-saturation", "0"}, io.Discard); err == nil {
		t.Error("zero saturation should be rejected")
	}
}

func TestParseVITS(t *testing.T) {
	cfg, err := ParseVITS([]string{"-in", "a.tbc", "-lines", "19, 332", "-json"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(cfg.Lines, []int{19, 332}) || !cfg.JSON {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := ParseVITS([]string{"-in", "a.tbc", "-lines", "19,x"}, io.Discard); err == nil {
		t.Error("bad line list should be rejected")
	}
}

func TestParsePhaseAndLines(t *testing.T) {
	p, err := ParsePhase([]string{"-in", "a.tbc", "-fields", "16", "-system", "pal_m"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if p.Fields != 16 || p.Line != 20 || p.System != video.PALM {
		t.Errorf("phase cfg = %+v", p)
	}
	if _, err := ParsePhase([]string{"-in", "a.tbc", "-fields", "0"}, io.Discard); err == nil {
		t.Error("zero fields should be rejected")
	}

	l, err := ParseLines([]string{"-in", "a.tbc", "-field", "1"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if l.Field != 1 || !slices.Equal(l.Lines, []int{18}) {
		t.Errorf("lines cfg = %+v", l)
	}
}

const sampleProfile = `
system: pal
levels:
  blanking: 16384
  white: 53248
lines: [19, 332]
specs:
  - name: Bars-Only
    components:
      - id: W
        span: 100
        kind: Level
        expected_min: 100
        expected_max: 100
        tolerance: 3
      - id: D
        kind: staircase
        expected_max: 100
        tolerance: 2
assign:
  19: bars-only
  332: pal-line19-iec60856
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfile))
	if err != nil {
		t.Fatal(err)
	}
	if p.SignalThreshold != measure.DefaultSignalThreshold {
		t.Errorf("threshold default = %d", p.SignalThreshold)
	}
	if p.Specs[0].Name != "bars-only" || p.Specs[0].Components[1].Steps != 6 {
		t.Errorf("spec defaults not filled: %+v", p.Specs[0])
	}

	std := p.Apply(video.NewPAL())
	if std.White != 53248 || std.Blanking != 16384 || std.Sync != 0 {
		t.Errorf("levels = %d/%d/%d", std.Sync, std.Blanking, std.White)
	}

	spec, err := p.SpecFor(19, "", std)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Name != "bars-only" || spec.Active.Start != std.ActiveStart || spec.Components[0].Kind != measure.KindLevel {
		t.Errorf("line 19 spec = %+v", spec)
	}
	if spec, _ := p.SpecFor(332, "", std); spec.Name != "pal-line19-iec60856" {
		t.Errorf("line 332 spec = %q", spec.Name)
	}
	if spec, _ := p.SpecFor(20, "", std); spec.Name != "pal-line19-iec60856" {
		t.Errorf("unassigned line spec = %q", spec.Name)
	}
}

func TestProfileValidate(t *testing.T) {
	bad := []string{
		"system: secam",
		"active: {start: 10, end: 5}",
		"lines: [0]",
		"specs: [{name: x}]",
		"specs: [{name: x, components: [{id: a, kind: ramp}]}]",
		"specs: [{name: x, components: [{id: a, expected_min: 10, expected_max: 5}]}]",
		"specs: [{name: x, components: [{id: a}]}, {name: X, components: [{id: b}]}]",
		"assign: {19: nothing}",
		"lines: [19",
	}
	for _, doc := range bad {
		if _, err := ParseProfile([]byte(doc)); err == nil {
			t.Errorf("%q should be rejected", doc)
		}
	}
}

func TestNilProfile(t *testing.T) {
	var p *Profile
	std := video.NewNTSC()
	if p.Apply(std) != std {
		t.Error("nil profile changed the standard")
	}
	if p.SystemOr(video.NTSC) != video.NTSC {
		t.Error("nil profile system")
	}
	spec, err := p.SpecFor(19, "", std)
	if err != nil || spec.Name != "ntsc-vir" {
		t.Errorf("got %q, %v", spec.Name, err)
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	if err := os.WriteFile(path, []byte(sampleProfile), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.SystemOr(video.NTSC) != video.PAL {
		t.Error("profile system not used")
	}
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("missing profile should fail")
	}
}

func TestDefaultVITSLines(t *testing.T) {
	if got := DefaultVITSLines(313); !slices.Equal(got, []int{19, 20, 332, 333}) {
		t.Errorf("PAL = %v", got)
	}
	if got := DefaultVITSLines(263); !slices.Equal(got, []int{19, 20, 282, 283}) {
		t.Errorf("NTSC = %v", got)
	}
}

func TestParseSynth(t *testing.T) {
	cfg, err := ParseSynth([]string{"-system", "pal-m"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Frames != 2 || cfg.Output != "synth_pal_m.tbc" || cfg.BurstIRE != 20 || cfg.NoDB {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := ParseSynth([]string{"-frames", "0"}, io.Discard); err == nil {
		t.Error("zero frames should fail")
	}
}

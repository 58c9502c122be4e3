package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"tbctools/video"
)

// ConvertConfig holds the flags of the convert command.
type ConvertConfig struct {
	Input   string
	Output  string
	System  video.System
	Width   int
	Height  int
	Format  string
	Strict  bool
	FFmpeg  string
	FFprobe string
}

// BarsConfig holds the flags of the bars command.
type BarsConfig struct {
	System     video.System
	Saturation int
	Format     string
	Output     string
	TIFF       string
	Width      int
	Height     int
}

// VITSConfig holds the flags of the vits command.
type VITSConfig struct {
	Input   string
	DB      string
	System  video.System
	Frame   int
	Lines   []int
	Spec    string
	Profile string
	JSON    bool
	Timing  bool
}

// PhaseConfig holds the flags of the phase command.
type PhaseConfig struct {
	Input  string
	DB     string
	System video.System
	Fields int
	Line   int // 0-based line within each field
	JSON   bool
}

// LinesConfig holds the flags of the lines command.
type LinesConfig struct {
	Input  string
	DB     string
	System video.System
	Field  int
	Lines  []int // 0-based lines within the field
	JSON   bool
}

// SynthConfig holds the flags of the synth command.
type SynthConfig struct {
	System     video.System
	Frames     int
	Output     string
	Profile    string
	BurstIRE   float64
	PictureIRE float64
	NoDB       bool
}

// systemFlag lets a video.System be set from a flag.
type systemFlag struct{ s *video.System }

func (f systemFlag) String() string {
	if f.s == nil {
		return ""
	}
	return f.s.String()
}

func (f systemFlag) Set(v string) error {
	s, err := video.ParseSystem(v)
	if err != nil {
		return err
	}
	*f.s = s
	return nil
}

// intListFlag parses comma separated integers.
type intListFlag struct{ l *[]int }

func (f intListFlag) String() string {
	if f.l == nil {
		return ""
	}
	parts := make([]string, len(*f.l))
	for i, v := range *f.l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (f intListFlag) Set(v string) error {
	list, err := ParseIntList(v)
	if err != nil {
		return err
	}
	*f.l = list
	return nil
}

// ParseIntList parses "19,20,332" into integers.
func ParseIntList(s string) ([]int, error) {
	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad number %q in list", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if out != nil {
		fs.SetOutput(out)
	}
	return fs
}

// ErrMissingInput is returned when a command needs -in and has none.
var ErrMissingInput = errors.New("missing -in file")

// ParseConvert parses the convert command line.
func ParseConvert(args []string, out io.Writer) (*ConvertConfig, error) {
	cfg := &ConvertConfig{System: video.PAL}
	fs := newFlagSet("convert", out)
	fs.StringVar(&cfg.Input, "in", "", "Input video file (anything ffmpeg reads)")
	fs.StringVar(&cfg.Output, "out", "", "Output raw frame file")
	fs.Var(systemFlag{&cfg.System}, "system", "Video system: pal, ntsc or pal_m")
	fs.IntVar(&cfg.Width, "width", 720, "Output width in pixels")
	fs.IntVar(&cfg.Height, "height", 0, "Output height in lines (default 576 PAL, 480 NTSC)")
	fs.StringVar(&cfg.Format, "to", "yuyv", "Output format: yuyv, v210 or planar")
	fs.BoolVar(&cfg.Strict, "strict", false, "Fail on truncated input instead of padding")
	fs.StringVar(&cfg.FFmpeg, "ffmpeg", "ffmpeg", "ffmpeg binary")
	fs.StringVar(&cfg.FFprobe, "ffprobe", "ffprobe", "ffprobe binary")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Input == "" {
		return nil, ErrMissingInput
	}
	if cfg.Output == "" {
		cfg.Output = strings.TrimSuffix(cfg.Input, filepath.Ext(cfg.Input)) + "." + cfg.Format
	}
	if cfg.Height == 0 {
		cfg.Height = defaultHeight(cfg.System)
	}
	return cfg, nil
}

// ParseBars parses the bars command line.
func ParseBars(args []string, out io.Writer) (*BarsConfig, error) {
	cfg := &BarsConfig{System: video.PAL}
	fs := newFlagSet("bars", out)
	fs.Var(systemFlag{&cfg.System}, "system", "Video system: pal, ntsc or pal_m")
	fs.IntVar(&cfg.Saturation, "saturation", 100, "Bar saturation in percent (100 or 75)")
	fs.StringVar(&cfg.Format, "format", "rgb48", "Output format: rgb48, yuyv, v210 or planar")
	fs.StringVar(&cfg.Output, "out", "", "Output raw frame file")
	fs.StringVar(&cfg.TIFF, "tiff", "", "Also write a 16-bit TIFF preview")
	fs.IntVar(&cfg.Width, "width", 720, "Frame width in pixels")
	fs.IntVar(&cfg.Height, "height", 0, "Frame height in lines (default 576 PAL, 480 NTSC)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Saturation <= 0 || cfg.Saturation > 100 {
		return nil, fmt.Errorf("saturation %d outside 1-100", cfg.Saturation)
	}
	if cfg.Height == 0 {
		cfg.Height = defaultHeight(cfg.System)
	}
	if cfg.Output == "" {
		cfg.Output = fmt.Sprintf("bars_%s_%d.%s", strings.ToLower(cfg.System.String()), cfg.Saturation, cfg.Format)
	}
	return cfg, nil
}

// ParseVITS parses the vits command line.
func ParseVITS(args []string, out io.Writer) (*VITSConfig, error) {
	cfg := &VITSConfig{System: video.PAL}
	fs := newFlagSet("vits", out)
	fs.StringVar(&cfg.Input, "in", "", "TBC file")
	fs.StringVar(&cfg.DB, "db", "", "Capture metadata database (default <in>.db when present)")
	fs.Var(systemFlag{&cfg.System}, "system", "Video system when there is no database")
	fs.IntVar(&cfg.Frame, "frame", 0, "Frame to analyze")
	fs.Var(intListFlag{&cfg.Lines}, "lines", "Frame lines to analyze (default 19 and 20 of each field)")
	fs.StringVar(&cfg.Spec, "spec", "", "Line spec name (default depends on system)")
	fs.StringVar(&cfg.Profile, "profile", "", "YAML analysis profile")
	fs.BoolVar(&cfg.JSON, "json", false, "Write the report as JSON")
	fs.BoolVar(&cfg.Timing, "timing", false, "Also report transitions of each line")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Input == "" {
		return nil, ErrMissingInput
	}
	if cfg.Frame < 0 {
		return nil, fmt.Errorf("frame %d must not be negative", cfg.Frame)
	}
	return cfg, nil
}

// DefaultVITSLines are frame lines 19 and 20 of both fields: 19, 20, 332
// and 333 for PAL.
func DefaultVITSLines(linesPerField int) []int {
	return []int{19, 20, 19 + linesPerField, 20 + linesPerField}
}

// ParsePhase parses the phase command line.
func ParsePhase(args []string, out io.Writer) (*PhaseConfig, error) {
	cfg := &PhaseConfig{System: video.PAL}
	fs := newFlagSet("phase", out)
	fs.StringVar(&cfg.Input, "in", "", "TBC file")
	fs.StringVar(&cfg.DB, "db", "", "Capture metadata database (default <in>.db when present)")
	fs.Var(systemFlag{&cfg.System}, "system", "Video system when there is no database")
	fs.IntVar(&cfg.Fields, "fields", 8, "Number of fields to measure")
	fs.IntVar(&cfg.Line, "line", 20, "Field line (0-based) whose burst is measured")
	fs.BoolVar(&cfg.JSON, "json", false, "Write the report as JSON")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Input == "" {
		return nil, ErrMissingInput
	}
	if cfg.Fields <= 0 {
		return nil, fmt.Errorf("fields %d must be positive", cfg.Fields)
	}
	return cfg, nil
}

// ParseLines parses the lines command line.
func ParseLines(args []string, out io.Writer) (*LinesConfig, error) {
	cfg := &LinesConfig{System: video.PAL, Lines: []int{18}}
	fs := newFlagSet("lines", out)
	fs.StringVar(&cfg.Input, "in", "", "TBC file")
	fs.StringVar(&cfg.DB, "db", "", "Capture metadata database (default <in>.db when present)")
	fs.Var(systemFlag{&cfg.System}, "system", "Video system when there is no database")
	fs.IntVar(&cfg.Field, "field", 0, "Field to read")
	fs.Var(intListFlag{&cfg.Lines}, "line", "Field lines (0-based) to read")
	fs.BoolVar(&cfg.JSON, "json", false, "Write the report as JSON")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Input == "" {
		return nil, ErrMissingInput
	}
	return cfg, nil
}

// ParseSynth parses the synth command line.
func ParseSynth(args []string, out io.Writer) (*SynthConfig, error) {
	cfg := &SynthConfig{System: video.PAL}
	fs := newFlagSet("synth", out)
	fs.Var(systemFlag{&cfg.System}, "system", "Video system: pal, ntsc or pal_m")
	fs.IntVar(&cfg.Frames, "frames", 2, "Frames to write")
	fs.StringVar(&cfg.Output, "out", "", "Output TBC file (default synth_<system>.tbc)")
	fs.StringVar(&cfg.Profile, "profile", "", "YAML analysis profile whose assigned lines are rendered")
	fs.Float64Var(&cfg.BurstIRE, "burst", 20, "Burst amplitude in IRE")
	fs.Float64Var(&cfg.PictureIRE, "picture", 50, "Picture line level in IRE")
	fs.BoolVar(&cfg.NoDB, "nodb", false, "Do not write the capture metadata database")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("frames %d must be positive", cfg.Frames)
	}
	if cfg.Output == "" {
		cfg.Output = fmt.Sprintf("synth_%s.tbc", strings.ToLower(cfg.System.String()))
	}
	return cfg, nil
}

func defaultHeight(s video.System) int {
	if s == video.PAL {
		return 576
	}
	return 480
}

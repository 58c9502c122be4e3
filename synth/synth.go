// Package synth renders TBC captures with known content: line and field
// sync, colour burst, a flat picture and the test lines that the measure
// package analyzes. The output is what an ideal time base corrector would
// deliver, so every measurement on it has a known answer.
package synth

import (
	"log/slog"
	"math"

	"tbctools/measure"
	"tbctools/tbc"
	"tbctools/video"
)

// Generator renders fields of one standard.
type Generator struct {
	Standard video.Standard // read only after New

	// BurstIRE is the burst amplitude, peak, in IRE of the luma range.
	BurstIRE float64
	// PictureIRE is the level of every active picture line.
	PictureIRE float64
	// Specs maps frame lines to the test line they carry.
	Specs map[int]measure.LineSpec
	// Logger receives progress; nil means slog.Default().
	Logger *slog.Logger

	levels   measure.Levels
	geometry tbc.FieldGeometry
}

// New returns a generator carrying the default test line of std on frame
// line 19 of both fields.
func New(std video.Standard) *Generator {
	spec := measure.DefaultSpec(std)
	return &Generator{
		Standard:   std,
		BurstIRE:   20,
		PictureIRE: 50,
		Specs: map[int]measure.LineSpec{
			19:                   spec,
			19 + std.FieldHeight: spec,
		},
		levels:   measure.LevelsFor(std),
		geometry: tbc.GeometryFor(std),
	}
}

func (g *Generator) log() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// vbiLines is the number of lines at the top of each field that carry no
// picture.
func (g *Generator) vbiLines() int {
	if g.Standard.FieldHeight > 300 {
		return 23
	}
	return 21
}

func (g *Generator) us(t float64) int { return g.Standard.MicrosecondsToSample(t) }

// frameLine is the 1-based line of the frame that field line line of
// field belongs to. Odd fields hold the second half of the frame.
func (g *Generator) frameLine(field, line int) int {
	return (field%2)*g.Standard.FieldHeight + line + 1
}

// BurstPhase is the phase, in degrees against the first burst sample, of
// the burst on a frame line. PAL swings between +135 and -135 line by
// line. NTSC holds 227.5 cycles per line so its burst alternates between
// 180 and 0.
func (g *Generator) BurstPhase(frameLine int) float64 {
	if g.Standard.System.IsPAL() {
		if frameLine%2 == 0 {
			return -135
		}
		return 135
	}
	if frameLine%2 == 0 {
		return 0
	}
	return 180
}

// Line renders one field line as 16-bit samples.
func (g *Generator) Line(field, line int) []uint16 {
	std := g.Standard
	buf := make([]float64, std.FieldWidth)
	blank := g.levels.Blanking
	for s := range buf {
		buf[s] = blank
	}

	if g.sync(buf, line) {
		return quantize(buf)
	}

	fl := g.frameLine(field, line)
	if spec, ok := g.Specs[fl]; ok {
		g.render(buf, spec)
	} else if line >= g.vbiLines() {
		pic := g.levels.FromIRE(g.PictureIRE)
		for s := max(std.ActiveStart, 0); s < min(std.ActiveEnd, len(buf)); s++ {
			buf[s] = pic
		}
	}
	g.burst(buf, g.BurstPhase(fl))
	return quantize(buf)
}

// sync writes the line's sync pulses and reports whether the line is part
// of the vertical sync interval, which carries nothing else.
func (g *Generator) sync(buf []float64, line int) bool {
	syncLevel := g.levels.Sync
	half := len(buf) / 2
	pulse := func(start, n int) {
		for s := start; s < start+n && s < len(buf); s++ {
			buf[s] = syncLevel
		}
	}

	n := line + 1
	if g.Standard.FieldHeight > 300 {
		switch {
		case n <= 2:
			// broad pulses
			pulse(0, half-g.us(4.7))
			pulse(half, half-g.us(4.7))
			return true
		case n <= 5:
			// equalizing pulses
			pulse(0, g.us(2.35))
			pulse(half, g.us(2.35))
			return true
		}
	} else {
		switch {
		case n <= 3, n >= 7 && n <= 9:
			pulse(0, g.us(2.3))
			pulse(half, g.us(2.3))
			return true
		case n <= 6:
			pulse(0, g.us(27.1))
			pulse(half, g.us(27.1))
			return true
		}
	}
	pulse(0, g.us(4.7))
	return false
}

// burst adds the colour burst at phase degrees, referenced to the first
// burst sample.
func (g *Generator) burst(buf []float64, degrees float64) {
	std := g.Standard
	amp := g.BurstIRE / 100 * (g.levels.White - g.levels.Blanking)
	w := 2 * math.Pi * std.Fsc / std.SampleRate
	theta := degrees * math.Pi / 180
	for s := max(std.BurstStart, 0); s < min(std.BurstEnd, len(buf)); s++ {
		n := float64(s - std.BurstStart)
		buf[s] += amp * math.Cos(w*n-theta)
	}
}

// Field renders a whole field, line after line.
func (g *Generator) Field(field int) []uint16 {
	out := make([]uint16, 0, g.geometry.SamplesPerField())
	for l := 0; l < g.Standard.FieldHeight; l++ {
		out = append(out, g.Line(field, l)...)
	}
	return out
}

func quantize(buf []float64) []uint16 {
	out := make([]uint16, len(buf))
	for i, v := range buf {
		out[i] = uint16(math.Round(min(max(v, 0), 65535)))
	}
	return out
}

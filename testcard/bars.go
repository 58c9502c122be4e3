// Package testcard renders colour bar frames in any of the supported
// pixel layouts.
package testcard

import (
	"fmt"
	"strings"

	"tbctools/colorimetry"
	"tbctools/pixfmt"
	"tbctools/video"
)

// Output is an encoding Render can produce: RGB48LE or one of the packed
// Y'CbCr formats.
type Output struct {
	RGB48  bool
	Format pixfmt.Format
}

func (o Output) String() string {
	if o.RGB48 {
		return "rgb48le"
	}
	return o.Format.String()
}

// ParseOutput accepts "rgb48"/"rgb48le" or any pixfmt format name.
func ParseOutput(name string) (Output, error) {
	switch strings.ToLower(name) {
	case "rgb48", "rgb48le", "rgb":
		return Output{RGB48: true}, nil
	}
	f, err := pixfmt.ParseFormat(name)
	if err != nil {
		return Output{}, err
	}
	return Output{Format: f}, nil
}

// FrameBytes is the encoded size of one frame of g.
func (o Output) FrameBytes(g pixfmt.Geometry) int {
	if o.RGB48 {
		return 6 * g.Pixels()
	}
	return o.Format.FrameBytes(g)
}

// Generator renders bar frames.
type Generator struct {
	Converter colorimetry.Converter
	Codec     pixfmt.Codec
}

// New returns a generator for the BT.601 studio range.
func New() Generator {
	return Generator{Converter: colorimetry.New(), Codec: pixfmt.NewCodec()}
}

// RGB draws the eight bars of set across a frame of g. Each bar is
// width/8 pixels wide; the last one takes the remainder.
func (gen Generator) RGB(set video.ColorBarSet, g pixfmt.Geometry) (*pixfmt.RGB48, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	f := pixfmt.NewRGB48(g)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := set.Bars[video.BarIndex(x, g.Width)]
			f.Set(x, y, uint16(c.R), uint16(c.G), uint16(c.B))
		}
	}
	return f, nil
}

// Planar draws the bars and converts them to 4:2:2.
func (gen Generator) Planar(set video.ColorBarSet, g pixfmt.Geometry) (*pixfmt.Planar, error) {
	rgb, err := gen.RGB(set, g)
	if err != nil {
		return nil, err
	}
	return gen.Converter.FrameFromRGB48(rgb)
}

// Render draws one bar frame encoded as out.
func (gen Generator) Render(set video.ColorBarSet, g pixfmt.Geometry, out Output) ([]byte, error) {
	if out.RGB48 {
		rgb, err := gen.RGB(set, g)
		if err != nil {
			return nil, err
		}
		return rgb.Bytes(), nil
	}
	p, err := gen.Planar(set, g)
	if err != nil {
		return nil, fmt.Errorf("render bars: %w", err)
	}
	return gen.Codec.Pack(p, out.Format)
}

// Bars renders set with the default generator.
func Bars(set video.ColorBarSet, g pixfmt.Geometry, out Output) ([]byte, error) {
	return New().Render(set, g, out)
}

// GeometryFor is the active picture size used for bar frames of a system.
func GeometryFor(s video.System) pixfmt.Geometry {
	if s == video.PAL {
		return pixfmt.Geometry{Width: 720, Height: 576}
	}
	return pixfmt.Geometry{Width: 720, Height: 480}
}

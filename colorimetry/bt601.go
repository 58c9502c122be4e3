// Package colorimetry converts studio-range R'G'B' to Y'CbCr using the
// ITU-R BT.601 matrix at 10-bit quantization.
package colorimetry

import (
	"tbctools/pixfmt"
	"tbctools/video"
)

// BT.601 luma and colour-difference coefficients.
const (
	kr = 0.299
	kg = 0.587
	kb = 0.114

	cbR = -0.168736
	cbG = -0.331264
	cbB = 0.5

	crR = 0.5
	crG = -0.418688
	crB = -0.081312
)

// Converter holds the quantization bounds used on both sides of the matrix.
type Converter struct {
	Range video.StudioRange
}

// New returns a Converter for the 10-bit BT.601 studio range.
func New() Converter {
	return Converter{Range: video.BT601()}
}

// RGBToYCbCr converts one studio-range R'G'B' triple. Results are rounded
// by adding 0.5 and truncating, then clamped to the studio range.
func (c Converter) RGBToYCbCr(r, g, b int) (y, cb, cr int) {
	rg := c.Range
	span := float64(rg.YWhite - rg.YBlack)
	rn := float64(r-rg.YBlack) / span
	gn := float64(g-rg.YBlack) / span
	bn := float64(b-rg.YBlack) / span

	yn := kr*rn + kg*gn + kb*bn
	cbn := cbR*rn + cbG*gn + cbB*bn
	crn := crR*rn + crG*gn + crB*bn

	cspan := float64(rg.CMax - rg.CMin)
	y = quantize(float64(rg.YBlack) + yn*span)
	cb = quantize(float64(rg.CZero) + cbn*cspan)
	cr = quantize(float64(rg.CZero) + crn*cspan)

	return clamp(y, rg.YBlack, rg.YWhite), clamp(cb, rg.CMin, rg.CMax), clamp(cr, rg.CMin, rg.CMax)
}

// quantize adds 0.5 and truncates toward zero. Results in this domain are
// non-negative, where this equals round-half-up.
func quantize(v float64) int {
	return int(v + 0.5)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FrameFromRGB48 converts a whole frame to planar 4:2:2. Each pair's
// chroma is the rounded-up average of its two pixels' chroma.
func (c Converter) FrameFromRGB48(f *pixfmt.RGB48) (*pixfmt.Planar, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	p := pixfmt.NewPlanar(f.Geometry)
	for row := 0; row < f.Height; row++ {
		for x := 0; x < f.Width; x += 2 {
			r0, g0, b0 := f.At(x, row)
			r1, g1, b1 := f.At(x+1, row)
			y0, cb0, cr0 := c.RGBToYCbCr(int(r0), int(g0), int(b0))
			y1, cb1, cr1 := c.RGBToYCbCr(int(r1), int(g1), int(b1))
			p.SetPair(x, row, uint16(y0), uint16(y1),
				uint16((cb0+cb1+1)/2), uint16((cr0+cr1+1)/2))
		}
	}
	return p, nil
}

// BarsYCbCr converts every bar of set.
func (c Converter) BarsYCbCr(set video.ColorBarSet) [video.BarCount][3]int {
	var out [video.BarCount][3]int
	for i, bar := range set.Bars {
		y, cb, cr := c.RGBToYCbCr(bar.R, bar.G, bar.B)
		out[i] = [3]int{y, cb, cr}
	}
	return out
}

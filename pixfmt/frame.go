// Package pixfmt converts one frame of 10-bit 4:2:2 video between the
// v210, planar (YUV422P10LE) and packed YUYV10 layouts.
//
// All conversions allocate a new buffer of the target layout; inputs are
// never modified, so frames can be converted concurrently by the caller.
package pixfmt

import (
	"fmt"

	"tbctools/video"
)

// Mask10 extracts a 10-bit sample from its 16-bit container.
const Mask10 = 0x3FF

// Geometry is the size of one frame in pixels. Chroma is always 4:2:2.
type Geometry struct {
	Width  int
	Height int
}

// Validate rejects odd widths and non-positive dimensions.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%dx%d: %w", g.Width, g.Height, video.ErrInvalidGeometry)
	}
	if g.Width%2 != 0 {
		return fmt.Errorf("width %d is odd: %w", g.Width, video.ErrInvalidGeometry)
	}
	return nil
}

// ChromaWidth is the number of Cb (or Cr) samples per line.
func (g Geometry) ChromaWidth() int { return g.Width / 2 }

// Pixels is the number of luma samples in the frame.
func (g Geometry) Pixels() int { return g.Width * g.Height }

func (g Geometry) String() string { return fmt.Sprintf("%dx%d", g.Width, g.Height) }

// Planar is one frame as three planes. Y is Width*Height samples, Cb and
// Cr are Width/2*Height. Values are 10-bit.
type Planar struct {
	Geometry
	Y  []uint16
	Cb []uint16
	Cr []uint16
}

// NewPlanar allocates a zeroed frame.
func NewPlanar(g Geometry) *Planar {
	return &Planar{
		Geometry: g,
		Y:        make([]uint16, g.Pixels()),
		Cb:       make([]uint16, g.ChromaWidth()*g.Height),
		Cr:       make([]uint16, g.ChromaWidth()*g.Height),
	}
}

// NewNeutralPlanar allocates a frame filled with studio black.
func NewNeutralPlanar(g Geometry, r video.StudioRange) *Planar {
	p := NewPlanar(g)
	y, cb, cr := r.Neutral()
	fill(p.Y, y)
	fill(p.Cb, cb)
	fill(p.Cr, cr)
	return p
}

func fill(s []uint16, v uint16) {
	for i := range s {
		s[i] = v
	}
}

// At returns the sample values at pixel (x, y). Both pixels of a pair
// report the pair's shared chroma; this is the 4:2:2 to 4:4:4 projection.
func (p *Planar) At(x, y int) (luma, cb, cr uint16) {
	c := y*p.ChromaWidth() + x/2
	return p.Y[y*p.Width+x], p.Cb[c], p.Cr[c]
}

// SetPair writes one horizontal pixel pair starting at the even column x.
func (p *Planar) SetPair(x, y int, y0, y1, cb, cr uint16) {
	i := y*p.Width + x
	p.Y[i] = y0 & Mask10
	p.Y[i+1] = y1 & Mask10
	c := y*p.ChromaWidth() + x/2
	p.Cb[c] = cb & Mask10
	p.Cr[c] = cr & Mask10
}

// Equal reports whether two frames have the same geometry and samples.
func (p *Planar) Equal(o *Planar) bool {
	if p.Geometry != o.Geometry {
		return false
	}
	return equalSamples(p.Y, o.Y) && equalSamples(p.Cb, o.Cb) && equalSamples(p.Cr, o.Cr)
}

func equalSamples(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// InferWidth derives the width of a planar 4:2:2 10-bit frame from its
// byte count. ffmpeg applies crop metadata, so the decoded frame may be
// narrower than the container reports (702 instead of 720 for PAL).
func InferWidth(bufLen, height int) int {
	if height <= 0 {
		return 0
	}
	return bufLen / (4 * height)
}

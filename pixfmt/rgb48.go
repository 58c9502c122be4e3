package pixfmt

import "encoding/binary"

// RGB48 is an interleaved R, G, B frame of 10-bit values in 16-bit
// little-endian words (the RGB30-in-RGB48 container the bar generator writes).
type RGB48 struct {
	Geometry
	Pix []uint16
}

// NewRGB48 allocates a zeroed frame.
func NewRGB48(g Geometry) *RGB48 {
	return &RGB48{Geometry: g, Pix: make([]uint16, 3*g.Pixels())}
}

// At returns the components of pixel (x, y).
func (f *RGB48) At(x, y int) (r, g, b uint16) {
	i := 3 * (y*f.Width + x)
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Set writes pixel (x, y), masking each component to 10 bits.
func (f *RGB48) Set(x, y int, r, g, b uint16) {
	i := 3 * (y*f.Width + x)
	f.Pix[i] = r & Mask10
	f.Pix[i+1] = g & Mask10
	f.Pix[i+2] = b & Mask10
}

// Bytes encodes the frame as RGB48LE.
func (f *RGB48) Bytes() []byte {
	out := make([]byte, 2*len(f.Pix))
	for i, v := range f.Pix {
		binary.LittleEndian.PutUint16(out[2*i:], v&Mask10)
	}
	return out
}

// UnpackRGB48 decodes an RGB48LE frame. Missing pixels are studio black.
func (c Codec) UnpackRGB48(buf []byte, g Geometry) (*RGB48, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	want := 6 * g.Pixels()
	if err := c.checkSize("rgb48le", len(buf), want); err != nil {
		return nil, err
	}
	f := NewRGB48(g)
	black := uint16(c.Range.YBlack)
	for i := range f.Pix {
		if 2*i+2 > len(buf) {
			f.Pix[i] = black
			continue
		}
		f.Pix[i] = binary.LittleEndian.Uint16(buf[2*i:]) & Mask10
	}
	return f, nil
}

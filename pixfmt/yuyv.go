package pixfmt

import (
	"encoding/binary"
	"fmt"

	"tbctools/video"
)

const yuyvPairBytes = 8

// PackYUYV encodes p as YUYV10LE: Y0, Cb, Y1, Cr per pixel pair, upper
// six bits zero. Samples are copied, never interpolated.
func PackYUYV(p *Planar) []byte {
	out := make([]byte, YUYV10LE.FrameBytes(p.Geometry))
	off := 0
	for row := 0; row < p.Height; row++ {
		for x := 0; x < p.Width; x += 2 {
			y0, cb, cr := p.At(x, row)
			y1, _, _ := p.At(x+1, row)
			putPair(out[off:], y0, cb, y1, cr)
			off += yuyvPairBytes
		}
	}
	return out
}

func putPair(b []byte, y0, cb, y1, cr uint16) {
	binary.LittleEndian.PutUint16(b[0:], y0&Mask10)
	binary.LittleEndian.PutUint16(b[2:], cb&Mask10)
	binary.LittleEndian.PutUint16(b[4:], y1&Mask10)
	binary.LittleEndian.PutUint16(b[6:], cr&Mask10)
}

// UnpackYUYV decodes a YUYV10LE frame. Each pair's chroma goes to one
// chroma-plane position; At then reports it for both pixels of the pair.
func (c Codec) UnpackYUYV(buf []byte, g Geometry) (*Planar, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := c.checkSize(YUYV10LE.String(), len(buf), YUYV10LE.FrameBytes(g)); err != nil {
		return nil, err
	}

	p := NewNeutralPlanar(g, c.Range)
	off := 0
	for row := 0; row < g.Height; row++ {
		for x := 0; x < g.Width; x += 2 {
			if off+yuyvPairBytes > len(buf) {
				return p, nil
			}
			p.SetPair(x, row,
				binary.LittleEndian.Uint16(buf[off:]),
				binary.LittleEndian.Uint16(buf[off+4:]),
				binary.LittleEndian.Uint16(buf[off+2:]),
				binary.LittleEndian.Uint16(buf[off+6:]))
			off += yuyvPairBytes
		}
	}
	return p, nil
}

// neutralPairs returns n studio-black YUYV pixel pairs.
func (c Codec) neutralPairs(n int) []byte {
	y, cb, cr := c.Range.Neutral()
	out := make([]byte, n*yuyvPairBytes)
	for i := 0; i < n; i++ {
		putPair(out[i*yuyvPairBytes:], y, cb, y, cr)
	}
	return out
}

// completeYUYV returns buf extended with neutral pairs to the full frame
// size of g, or buf itself when nothing is missing.
func (c Codec) completeYUYV(buf []byte, g Geometry) ([]byte, error) {
	want := YUYV10LE.FrameBytes(g)
	if err := c.checkSize(YUYV10LE.String(), len(buf), want); err != nil {
		return nil, err
	}
	if len(buf) >= want {
		return buf[:want], nil
	}
	missing := (want - len(buf) + yuyvPairBytes - 1) / yuyvPairBytes
	full := append(append([]byte(nil), buf[:len(buf)/yuyvPairBytes*yuyvPairBytes]...), c.neutralPairs(missing)...)
	return full[:want], nil
}

// PadWidth widens a YUYV10LE frame to target pixels with neutral pairs.
// floor(pairs/2) pairs go on the left of every line and the rest, including
// any odd pair, on the right.
func (c Codec) PadWidth(buf []byte, g Geometry, target int) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if target < g.Width || target%2 != 0 {
		return nil, fmt.Errorf("pad width %d to %d: %w", g.Width, target, video.ErrInvalidGeometry)
	}
	src, err := c.completeYUYV(buf, g)
	if err != nil {
		return nil, err
	}

	pairs := (target - g.Width) / 2
	left := c.neutralPairs(pairs / 2)
	right := c.neutralPairs(pairs - pairs/2)
	lineSize := YUYV10LE.LineBytes(g.Width)

	out := make([]byte, 0, YUYV10LE.FrameBytes(Geometry{Width: target, Height: g.Height}))
	for row := 0; row < g.Height; row++ {
		out = append(out, left...)
		out = append(out, src[row*lineSize:(row+1)*lineSize]...)
		out = append(out, right...)
	}
	return out, nil
}

// CropOrPadHeight keeps the first target lines of a YUYV10LE frame, or
// appends neutral lines at the bottom when the frame is shorter.
func (c Codec) CropOrPadHeight(buf []byte, g Geometry, target int) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if target <= 0 {
		return nil, fmt.Errorf("height %d: %w", target, video.ErrInvalidGeometry)
	}
	src, err := c.completeYUYV(buf, g)
	if err != nil {
		return nil, err
	}

	lineSize := YUYV10LE.LineBytes(g.Width)
	if target <= g.Height {
		return append([]byte(nil), src[:target*lineSize]...), nil
	}
	out := make([]byte, 0, target*lineSize)
	out = append(out, src...)
	out = append(out, c.neutralPairs((target-g.Height)*g.Width/2)...)
	return out, nil
}

package pixfmt

import "encoding/binary"

// v210 group layout, three 10-bit fields per word at bits 0, 10 and 20:
//
//	word 0: Cb0 Y0  Cr0
//	word 1: Y1  Cb2 Y2
//	word 2: Cr2 Y3  Cb4
//	word 3: Y4  Cr4 Y5
const (
	v210GroupBytes  = 16
	v210GroupPixels = 6
)

// UnpackV210 decodes a v210 frame. Components past Width in the last
// group of a line are padding and are dropped. Chroma is taken as is:
// each Cb/Cr pair already belongs to one luma pair.
func (c Codec) UnpackV210(buf []byte, g Geometry) (*Planar, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	stride := V210.LineBytes(g.Width)
	if err := c.checkSize(V210.String(), len(buf), stride*g.Height); err != nil {
		return nil, err
	}

	p := NewNeutralPlanar(g, c.Range)
	for row := 0; row < g.Height; row++ {
		lineStart := row * stride
		col := 0
		for off := lineStart; col < g.Width; off += v210GroupBytes {
			if off+v210GroupBytes > len(buf) {
				break
			}
			w0 := binary.LittleEndian.Uint32(buf[off:])
			w1 := binary.LittleEndian.Uint32(buf[off+4:])
			w2 := binary.LittleEndian.Uint32(buf[off+8:])
			w3 := binary.LittleEndian.Uint32(buf[off+12:])

			pairs := [3][4]uint16{
				{field(w0, 10), field(w1, 0), field(w0, 0), field(w0, 20)},  // Y0 Y1 Cb0 Cr0
				{field(w1, 20), field(w2, 10), field(w1, 10), field(w2, 0)}, // Y2 Y3 Cb2 Cr2
				{field(w3, 0), field(w3, 20), field(w2, 20), field(w3, 10)}, // Y4 Y5 Cb4 Cr4
			}
			for _, pr := range pairs {
				if col >= g.Width {
					break
				}
				p.SetPair(col, row, pr[0], pr[1], pr[2], pr[3])
				col += 2
			}
		}
	}
	return p, nil
}

func field(w uint32, shift uint) uint16 {
	return uint16(w>>shift) & Mask10
}

// PackV210 encodes p as v210. Groups and components beyond Width are zero.
func PackV210(p *Planar) []byte {
	stride := V210.LineBytes(p.Width)
	out := make([]byte, stride*p.Height)
	for row := 0; row < p.Height; row++ {
		lineStart := row * stride
		for base, off := 0, lineStart; base < p.Width; base, off = base+v210GroupPixels, off+v210GroupBytes {
			var ys [6]uint32
			var cbs, crs [3]uint32
			for k := 0; k < 3; k++ {
				x := base + 2*k
				if x >= p.Width {
					break
				}
				luma0, cb, cr := p.At(x, row)
				luma1, _, _ := p.At(x+1, row)
				ys[2*k] = uint32(luma0 & Mask10)
				ys[2*k+1] = uint32(luma1 & Mask10)
				cbs[k] = uint32(cb & Mask10)
				crs[k] = uint32(cr & Mask10)
			}
			binary.LittleEndian.PutUint32(out[off:], cbs[0]|ys[0]<<10|crs[0]<<20)
			binary.LittleEndian.PutUint32(out[off+4:], ys[1]|cbs[1]<<10|ys[2]<<20)
			binary.LittleEndian.PutUint32(out[off+8:], crs[1]|ys[3]<<10|cbs[2]<<20)
			binary.LittleEndian.PutUint32(out[off+12:], ys[4]|crs[2]<<10|ys[5]<<20)
		}
	}
	return out
}

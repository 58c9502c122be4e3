package pixfmt

import "encoding/binary"

// UnpackPlanar decodes a YUV422P10LE frame: the Y plane, then Cb, then Cr,
// each sample a little-endian 16-bit word masked to 10 bits.
func (c Codec) UnpackPlanar(buf []byte, g Geometry) (*Planar, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := c.checkSize(Planar10LE.String(), len(buf), Planar10LE.FrameBytes(g)); err != nil {
		return nil, err
	}

	p := NewNeutralPlanar(g, c.Range)
	off := readPlane(buf, 0, p.Y)
	off = readPlane(buf, off, p.Cb)
	readPlane(buf, off, p.Cr)
	return p, nil
}

// readPlane fills dst from buf starting at byte off and returns the offset
// just past the plane. Samples beyond the end of buf keep their value.
func readPlane(buf []byte, off int, dst []uint16) int {
	for i := range dst {
		at := off + 2*i
		if at+2 > len(buf) {
			break
		}
		dst[i] = binary.LittleEndian.Uint16(buf[at:]) & Mask10
	}
	return off + 2*len(dst)
}

// PackPlanar encodes p as YUV422P10LE.
func PackPlanar(p *Planar) []byte {
	out := make([]byte, 2*(len(p.Y)+len(p.Cb)+len(p.Cr)))
	off := 0
	for _, plane := range [][]uint16{p.Y, p.Cb, p.Cr} {
		for _, v := range plane {
			binary.LittleEndian.PutUint16(out[off:], v&Mask10)
			off += 2
		}
	}
	return out
}

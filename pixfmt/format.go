package pixfmt

import (
	"fmt"
	"strings"
)

// Format is one of the physical layouts of a 10-bit 4:2:2 frame.
type Format int

const (
	// V210 packs three 10-bit components per little-endian 32-bit word,
	// 6 pixels per 16-byte group, lines padded to 48 pixels (128 bytes).
	V210 Format = iota
	// Planar10LE is YUV422P10LE: Y, Cb and Cr planes of 16-bit words.
	Planar10LE
	// YUYV10LE packs each pixel pair as Y0 Cb Y1 Cr 16-bit words.
	YUYV10LE
)

func (f Format) String() string {
	switch f {
	case V210:
		return "v210"
	case Planar10LE:
		return "yuv422p10le"
	case YUYV10LE:
		return "yuyv10le"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat accepts the names printed by String plus a few aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "v210":
		return V210, nil
	case "yuv422p10le", "planar", "planar10le":
		return Planar10LE, nil
	case "yuyv10le", "yuyv", "yuyv10", "yuv422":
		return YUYV10LE, nil
	}
	return 0, fmt.Errorf("unknown pixel format %q", name)
}

// LineBytes is the stride of one line. For Planar10LE it is the share of
// one line across all three planes.
func (f Format) LineBytes(width int) int {
	switch f {
	case V210:
		return (width + 47) / 48 * 128
	case Planar10LE, YUYV10LE:
		// width luma + width/2 Cb + width/2 Cr, 2 bytes each
		return width * 4
	}
	return 0
}

// FrameBytes is the size of a whole frame.
func (f Format) FrameBytes(g Geometry) int {
	return f.LineBytes(g.Width) * g.Height
}

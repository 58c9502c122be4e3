package video

// StudioRange holds the 10-bit quantization bounds of ITU-R BT.601.
type StudioRange struct {
	YBlack int // reference black
	YWhite int // reference white
	CMin   int
	CMax   int
	CZero  int // zero chroma
}

// BT601 returns the 10-bit studio range: Y' 64-940, Cb/Cr 64-960 centred on 512.
func BT601() StudioRange {
	return StudioRange{YBlack: 64, YWhite: 940, CMin: 64, CMax: 960, CZero: 512}
}

// Neutral returns the studio-black sample values used for
// padding and for filling truncated input.
func (r StudioRange) Neutral() (y, cb, cr uint16) {
	return uint16(r.YBlack), uint16(r.CZero), uint16(r.CZero)
}

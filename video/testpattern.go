package video

// RGB is a 10-bit studio-range colour triple.
type RGB struct {
	R, G, B int
}

// BarCount is the number of bars in an EIA/EBU colour bar pattern.
const BarCount = 8

// BarNames lists the bars left to right.
var BarNames = [BarCount]string{
	"White", "Yellow", "Cyan", "Green", "Magenta", "Red", "Blue", "Black",
}

// ColorBarSet is an 8-bar pattern at a given saturation.
type ColorBarSet struct {
	Saturation int // percent, 100 or 75
	Bars       [BarCount]RGB
}

// NewColorBars returns the EIA/EBU bars at the given saturation. Each
// component is scaled about black level and truncated, so 75% white is
// 64 + int(0.75*876) = 721.
func NewColorBars(saturation int, r StudioRange) ColorBarSet {
	lo, hi := r.YBlack, r.YWhite
	full := [BarCount]RGB{
		{hi, hi, hi}, // White
		{hi, hi, lo}, // Yellow
		{lo, hi, hi}, // Cyan
		{lo, hi, lo}, // Green
		{hi, lo, hi}, // Magenta
		{hi, lo, lo}, // Red
		{lo, lo, hi}, // Blue
		{lo, lo, lo}, // Black
	}
	set := ColorBarSet{Saturation: saturation, Bars: full}
	if saturation == 100 {
		return set
	}
	scale := float64(saturation) / 100.0
	for i, c := range full {
		set.Bars[i] = RGB{
			R: lo + int(scale*float64(c.R-lo)),
			G: lo + int(scale*float64(c.G-lo)),
			B: lo + int(scale*float64(c.B-lo)),
		}
	}
	return set
}

// BarIndex returns which bar column x falls in for a frame of the given
// width. The last bar absorbs any remainder.
func BarIndex(x, width int) int {
	barWidth := width / BarCount
	if barWidth == 0 {
		return BarCount - 1
	}
	idx := x / barWidth
	if idx >= BarCount {
		idx = BarCount - 1
	}
	return idx
}

// BarCenter returns the pixel column at the centre of bar i.
func BarCenter(i, width int) int {
	barWidth := width / BarCount
	return i*barWidth + barWidth/2
}

package testcard

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"golang.org/x/image/tiff"

	"tbctools/pixfmt"
	"tbctools/video"
)

// Preview converts an RGB48 frame to a 16-bit image, stretching the studio
// range so black is 0 and white is 0xFFFF.
func Preview(f *pixfmt.RGB48, r video.StudioRange) *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			cr, cg, cb := f.At(x, y)
			img.SetRGBA64(x, y, color.RGBA64{
				R: stretch(cr, r),
				G: stretch(cg, r),
				B: stretch(cb, r),
				A: 0xFFFF,
			})
		}
	}
	return img
}

func stretch(v uint16, r video.StudioRange) uint16 {
	span := r.YWhite - r.YBlack
	if span <= 0 {
		return 0
	}
	s := (int(v) - r.YBlack) * 0xFFFF / span
	return uint16(min(max(s, 0), 0xFFFF))
}

// WriteTIFF encodes a preview of f as a deflate-compressed 16-bit TIFF.
func WriteTIFF(w io.Writer, f *pixfmt.RGB48, r video.StudioRange) error {
	return tiff.Encode(w, Preview(f, r), &tiff.Options{Compression: tiff.Deflate})
}

// SaveTIFF writes a TIFF preview of f to path.
func SaveTIFF(path string, f *pixfmt.RGB48, r video.StudioRange) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview: %w", err)
	}
	if err := WriteTIFF(out, f, r); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return out.Close()
}

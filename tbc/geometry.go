// Package tbc addresses fields, lines and samples inside time-base-corrected
// capture files.
//
// A TBC file is a sequence of frames; each frame is field 0 followed by
// field 1, each field LinesPerField lines of SamplesPerLine little-endian
// 16-bit samples.
package tbc

import (
	"fmt"

	"tbctools/video"
)

const (
	// BytesPerSample is fixed by the file format.
	BytesPerSample = 2
	// FieldsPerFrame is fixed for interlaced video.
	FieldsPerFrame = 2
)

// FieldGeometry describes the sample layout of one field.
type FieldGeometry struct {
	System         video.System
	SamplesPerLine int
	LinesPerField  int
}

// PAL is 1135 samples by 313 lines.
var PAL = FieldGeometry{System: video.PAL, SamplesPerLine: 1135, LinesPerField: 313}

// NTSC is 910 samples by 263 lines.
var NTSC = FieldGeometry{System: video.NTSC, SamplesPerLine: 910, LinesPerField: 263}

// GeometryFor returns the field geometry of a standard.
func GeometryFor(std video.Standard) FieldGeometry {
	return FieldGeometry{
		System:         std.System,
		SamplesPerLine: std.FieldWidth,
		LinesPerField:  std.FieldHeight,
	}
}

// Validate rejects non-positive dimensions.
func (g FieldGeometry) Validate() error {
	if g.SamplesPerLine <= 0 || g.LinesPerField <= 0 {
		return fmt.Errorf("field %dx%d: %w", g.SamplesPerLine, g.LinesPerField, video.ErrInvalidGeometry)
	}
	return nil
}

func (g FieldGeometry) SamplesPerField() int { return g.SamplesPerLine * g.LinesPerField }
func (g FieldGeometry) BytesPerLine() int    { return g.SamplesPerLine * BytesPerSample }
func (g FieldGeometry) BytesPerField() int   { return g.SamplesPerField() * BytesPerSample }
func (g FieldGeometry) BytesPerFrame() int   { return g.BytesPerField() * FieldsPerFrame }

// LinesPerFrame is the number of frame lines: 625 for PAL, 525 for NTSC.
// The second field stores one line more than it carries (313 and 263
// slots for 312 and 262 lines), and that trailing slot has no frame line.
func (g FieldGeometry) LinesPerFrame() int { return g.LinesPerField*FieldsPerFrame - 1 }

// FieldByteOffset is the offset of the first sample of a field.
func (g FieldGeometry) FieldByteOffset(field int) int64 {
	return int64(field) * int64(g.LinesPerField) * int64(g.SamplesPerLine) * BytesPerSample
}

// LineByteOffset is the offset of the first sample of a line in a field.
func (g FieldGeometry) LineByteOffset(field, line int) int64 {
	return g.FieldByteOffset(field) + int64(line)*int64(g.SamplesPerLine)*BytesPerSample
}

// FieldCount is the number of complete fields in a file of size bytes.
func (g FieldGeometry) FieldCount(size int64) int {
	if g.BytesPerField() == 0 {
		return 0
	}
	return int(size / int64(g.BytesPerField()))
}

// SampleRange is a half-open span [Start, End) of samples within a line.
type SampleRange struct {
	Start int
	End   int
}

// Len is the number of samples in the range.
func (r SampleRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r SampleRange) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// LineAddress locates a span of samples in one field line.
type LineAddress struct {
	Field   int
	Line    int // 0-based within the field
	Samples SampleRange
}

// FrameLineToField maps a 1-based frame line onto the field that carries
// it. Lines 1..LinesPerField are field 0, the rest field 1.
func (g FieldGeometry) FrameLineToField(frameLine int) (LineAddress, error) {
	if frameLine < 1 || frameLine > g.LinesPerFrame() {
		return LineAddress{}, fmt.Errorf("frame line %d outside [1,%d]: %w", frameLine, g.LinesPerFrame(), video.ErrAddressing)
	}
	addr := LineAddress{Samples: SampleRange{0, g.SamplesPerLine}}
	if frameLine <= g.LinesPerField {
		addr.Line = frameLine - 1
	} else {
		addr.Field = 1
		addr.Line = frameLine - g.LinesPerField - 1
	}
	return addr, nil
}

// FieldToFrameLine is the inverse of FrameLineToField for field 0 or 1.
func (g FieldGeometry) FieldToFrameLine(field, line int) (int, error) {
	if field < 0 || field >= FieldsPerFrame || line < 0 || line >= g.LinesPerField || (field == 1 && line == g.LinesPerField-1) {
		return 0, fmt.Errorf("field %d line %d: %w", field, line, video.ErrAddressing)
	}
	return field*g.LinesPerField + line + 1, nil
}

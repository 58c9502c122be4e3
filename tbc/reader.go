package tbc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"tbctools/video"
)

// checkAddress validates a field line and sample span against g.
func (g FieldGeometry) checkAddress(line int, span SampleRange) error {
	if line < 0 || line >= g.LinesPerField {
		return fmt.Errorf("line %d outside [0,%d): %w", line, g.LinesPerField, video.ErrAddressing)
	}
	if span.Start < 0 || span.End > g.SamplesPerLine || span.End < span.Start {
		return fmt.Errorf("samples %v outside [0,%d): %w", span, g.SamplesPerLine, video.ErrAddressing)
	}
	return nil
}

// ReadLine returns the samples of span in one field line of an in-memory
// TBC file. field counts from the start of the file.
func ReadLine(data []byte, field, line int, span SampleRange, g FieldGeometry) ([]uint16, error) {
	if field < 0 {
		return nil, fmt.Errorf("field %d: %w", field, video.ErrAddressing)
	}
	if err := g.checkAddress(line, span); err != nil {
		return nil, err
	}
	start := g.LineByteOffset(field, line) + int64(span.Start)*BytesPerSample
	end := start + int64(span.Len())*BytesPerSample
	if end > int64(len(data)) {
		return nil, fmt.Errorf("field %d line %d %v: have %d bytes, need %d: %w",
			field, line, span, len(data), end, video.ErrShortRead)
	}
	return decodeSamples(data[start:end]), nil
}

func decodeSamples(b []byte) []uint16 {
	out := make([]uint16, len(b)/BytesPerSample)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return out
}

// Reader reads lines from a TBC file through random access.
type Reader struct {
	r    io.ReaderAt
	size int64
	geom FieldGeometry
}

// NewReader wraps r, which holds size bytes laid out according to g.
func NewReader(r io.ReaderAt, size int64, g FieldGeometry) (*Reader, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Reader{r: r, size: size, geom: g}, nil
}

// File is a Reader backed by an open file.
type File struct {
	*Reader
	f *os.File
}

// Open opens a TBC file for reading.
func Open(path string, g FieldGeometry) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open TBC file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat TBC file: %w", err)
	}
	r, err := NewReader(f, st.Size(), g)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{Reader: r, f: f}, nil
}

// Close closes the underlying file.
func (f *File) Close() error { return f.f.Close() }

// Geometry returns the field layout the reader was opened with.
func (r *Reader) Geometry() FieldGeometry { return r.geom }

// FieldCount is the number of complete fields in the file.
func (r *Reader) FieldCount() int { return r.geom.FieldCount(r.size) }

// FrameCount is the number of complete frames in the file.
func (r *Reader) FrameCount() int { return r.FieldCount() / FieldsPerFrame }

// Line reads span from one field line. A line that extends past the end
// of the file is an ErrShortRead.
func (r *Reader) Line(field, line int, span SampleRange) ([]uint16, error) {
	if field < 0 {
		return nil, fmt.Errorf("field %d: %w", field, video.ErrAddressing)
	}
	if err := r.geom.checkAddress(line, span); err != nil {
		return nil, err
	}
	off := r.geom.LineByteOffset(field, line) + int64(span.Start)*BytesPerSample
	buf := make([]byte, span.Len()*BytesPerSample)
	n, err := r.r.ReadAt(buf, off)
	if n < len(buf) {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("field %d line %d %v: got %d of %d bytes: %w",
				field, line, span, n, len(buf), video.ErrShortRead)
		}
		return nil, fmt.Errorf("failed to read field %d line %d: %w", field, line, err)
	}
	return decodeSamples(buf), nil
}

// FullLine reads every sample of one field line.
func (r *Reader) FullLine(field, line int) ([]uint16, error) {
	return r.Line(field, line, SampleRange{0, r.geom.SamplesPerLine})
}

// FrameLine reads a 1-based frame line of the given frame.
func (r *Reader) FrameLine(frame, frameLine int) (LineAddress, []uint16, error) {
	if frame < 0 {
		return LineAddress{}, nil, fmt.Errorf("frame %d: %w", frame, video.ErrAddressing)
	}
	addr, err := r.geom.FrameLineToField(frameLine)
	if err != nil {
		return LineAddress{}, nil, err
	}
	addr.Field += frame * FieldsPerFrame
	samples, err := r.Line(addr.Field, addr.Line, addr.Samples)
	return addr, samples, err
}

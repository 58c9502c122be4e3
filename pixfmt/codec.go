package pixfmt

import (
	"fmt"
	"log/slog"

	"tbctools/video"
)

// Codec converts frames between layouts. Its zero value is not usable;
// start from NewCodec.
type Codec struct {
	// Range supplies the neutral pixel used for padding and for filling
	// truncated input.
	Range video.StudioRange

	// Strict makes truncated input an error instead of a warning.
	Strict bool

	// Logger receives short-input warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// NewCodec returns a lenient codec using the BT.601 studio range.
func NewCodec() Codec {
	return Codec{Range: video.BT601()}
}

func (c Codec) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// checkSize reports whether buf covers want bytes. Short input is fatal
// only in strict mode; otherwise the missing part is filled with neutral
// pixels by the caller and a warning is logged.
func (c Codec) checkSize(what string, got, want int) error {
	if got >= want {
		return nil
	}
	if c.Strict {
		return fmt.Errorf("%s frame: have %d bytes, need %d: %w", what, got, want, video.ErrShortRead)
	}
	c.log().Warn("pixfmt: truncated input, filling with neutral pixels",
		"format", what,
		"have", got,
		"need", want)
	return nil
}

// Unpack decodes buf in format f into planar form.
func (c Codec) Unpack(buf []byte, f Format, g Geometry) (*Planar, error) {
	switch f {
	case V210:
		return c.UnpackV210(buf, g)
	case Planar10LE:
		return c.UnpackPlanar(buf, g)
	case YUYV10LE:
		return c.UnpackYUYV(buf, g)
	}
	return nil, fmt.Errorf("unpack: unsupported format %v", f)
}

// Pack encodes p in format f.
func (c Codec) Pack(p *Planar, f Format) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch f {
	case V210:
		return PackV210(p), nil
	case Planar10LE:
		return PackPlanar(p), nil
	case YUYV10LE:
		return PackYUYV(p), nil
	}
	return nil, fmt.Errorf("pack: unsupported format %v", f)
}

// Convert re-encodes a frame from one layout to another.
func (c Codec) Convert(buf []byte, from, to Format, g Geometry) ([]byte, error) {
	p, err := c.Unpack(buf, from, g)
	if err != nil {
		return nil, fmt.Errorf("convert %v to %v: %w", from, to, err)
	}
	return c.Pack(p, to)
}

package synth

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"tbctools/capturedb"
	"tbctools/tbc"
)

// Write streams frames complete frames to w as little-endian 16-bit
// samples, field after field.
func (g *Generator) Write(ctx context.Context, w io.Writer, frames int) error {
	bw := bufio.NewWriterSize(w, g.geometry.BytesPerField())
	buf := make([]byte, g.geometry.BytesPerLine())
	for f := 0; f < frames*tbc.FieldsPerFrame; f++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for l := 0; l < g.Standard.FieldHeight; l++ {
			for i, v := range g.Line(f, l) {
				binary.LittleEndian.PutUint16(buf[2*i:], v)
			}
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("failed to write field %d: %w", f, err)
			}
		}
	}
	return bw.Flush()
}

// WriteFile writes frames frames to path and the capture metadata that
// describes them to path's database.
func (g *Generator) WriteFile(ctx context.Context, path string, frames int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create TBC file: %w", err)
	}
	if err := g.Write(ctx, f, frames); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	meta := capturedb.FromStandard(g.Standard, frames*tbc.FieldsPerFrame)
	if err := capturedb.Create(ctx, capturedb.PathFor(path), "tbctool-synth", meta); err != nil {
		return err
	}
	g.log().Debug("synth: wrote capture", "path", path, "frames", frames, "system", g.Standard.System.String())
	return nil
}

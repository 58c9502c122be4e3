// Package source runs ffmpeg and ffprobe to turn a container file into
// raw YUV422P10LE frames.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"tbctools/pixfmt"
	"tbctools/video"
)

// Decoder invokes external tools. Empty paths fall back to the binaries
// on PATH.
type Decoder struct {
	FFmpeg  string
	FFprobe string
	Logger  *slog.Logger
}

// NewDecoder returns a decoder using ffmpeg and ffprobe from PATH.
func NewDecoder() *Decoder {
	return &Decoder{FFmpeg: "ffmpeg", FFprobe: "ffprobe"}
}

func (d *Decoder) log() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d *Decoder) ffmpeg() string {
	if d.FFmpeg == "" {
		return "ffmpeg"
	}
	return d.FFmpeg
}

func (d *Decoder) ffprobe() string {
	if d.FFprobe == "" {
		return "ffprobe"
	}
	return d.FFprobe
}

// Frame is one decoded planar frame. Reported is what the container
// claims; Geometry is what the byte count supports.
type Frame struct {
	Data     []byte
	Reported pixfmt.Geometry
	Geometry pixfmt.Geometry
}

// ProbeArgs builds the ffprobe command line that prints "width,height".
func ProbeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0",
		path,
	}
}

// DecodeArgs builds the ffmpeg command line that writes the first frame
// of path to stdout as YUV422P10LE.
func DecodeArgs(path string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vframes", "1",
		"-vf", "format=yuv422p10le",
		"-f", "rawvideo",
		"-an",
		"-",
	}
}

// ParseProbe reads ffprobe's "width,height" output.
func ParseProbe(out []byte) (pixfmt.Geometry, error) {
	line := strings.TrimSpace(string(out))
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	fields := strings.Split(strings.TrimSuffix(line, ","), ",")
	if len(fields) != 2 {
		return pixfmt.Geometry{}, fmt.Errorf("unexpected ffprobe output %q", line)
	}
	w, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return pixfmt.Geometry{}, fmt.Errorf("bad width in ffprobe output: %w", err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return pixfmt.Geometry{}, fmt.Errorf("bad height in ffprobe output: %w", err)
	}
	return pixfmt.Geometry{Width: w, Height: h}, nil
}

// ResolveGeometry finds the frame size a planar buffer of n bytes holds,
// trying each candidate height in order. A height fits when it divides the
// buffer into whole lines of an even, positive width.
func ResolveGeometry(n int, heights ...int) (pixfmt.Geometry, error) {
	for _, h := range heights {
		if h <= 0 || n%(4*h) != 0 {
			continue
		}
		g := pixfmt.Geometry{Width: pixfmt.InferWidth(n, h), Height: h}
		if g.Validate() == nil {
			return g, nil
		}
	}
	return pixfmt.Geometry{}, fmt.Errorf("%d bytes fit none of heights %v: %w", n, heights, video.ErrInvalidGeometry)
}

func run(cmd *exec.Cmd) ([]byte, error) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %w: %s", cmd.Path, err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("failed to run %s: %w", cmd.Path, err)
	}
	return out, nil
}

// Probe returns the dimensions of the first video stream of path.
func (d *Decoder) Probe(ctx context.Context, path string) (pixfmt.Geometry, error) {
	out, err := run(exec.CommandContext(ctx, d.ffprobe(), ProbeArgs(path)...))
	if err != nil {
		return pixfmt.Geometry{}, err
	}
	return ParseProbe(out)
}

// DecodeFirstFrame decodes the first frame of path. The width is taken
// from the byte count, since ffmpeg may crop; the reported height is tried
// after any preferred heights.
func (d *Decoder) DecodeFirstFrame(ctx context.Context, path string, preferHeights ...int) (Frame, error) {
	reported, err := d.Probe(ctx, path)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to probe %s: %w", path, err)
	}
	d.log().Info("source: probed input", "path", path, "geometry", reported.String())

	data, err := run(exec.CommandContext(ctx, d.ffmpeg(), DecodeArgs(path)...))
	if err != nil {
		return Frame{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	g, err := ResolveGeometry(len(data), append(slices.Clip(preferHeights), reported.Height)...)
	if err != nil {
		return Frame{}, err
	}
	if g.Width != reported.Width {
		d.log().Warn("source: decoded width differs from container",
			"reported", reported.Width,
			"actual", g.Width)
	}
	return Frame{Data: data, Reported: reported, Geometry: g}, nil
}

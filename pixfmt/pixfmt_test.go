package pixfmt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"testing"

	"tbctools/video"
)

func quietCodec() Codec {
	c := NewCodec()
	c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return c
}

// rampFrame builds a 4:2:2-consistent frame with distinct values in
// every plane so that misplaced components show up.
func rampFrame(g Geometry) *Planar {
	p := NewPlanar(g)
	for i := range p.Y {
		p.Y[i] = uint16(64 + (i*7)%877)
	}
	for i := range p.Cb {
		p.Cb[i] = uint16(64 + (i*11)%897)
		p.Cr[i] = uint16(64 + (i*13+5)%897)
	}
	return p
}

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		g    Geometry
		ok   bool
		name string
	}{
		{Geometry{720, 576}, true, "pal"},
		{Geometry{702, 576}, true, "cropped"},
		{Geometry{721, 576}, false, "odd width"},
		{Geometry{0, 576}, false, "zero width"},
		{Geometry{720, -1}, false, "negative height"},
	}
	for _, tt := range tests {
		err := tt.g.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, video.ErrInvalidGeometry) {
			t.Errorf("%s: got %v, want ErrInvalidGeometry", tt.name, err)
		}
	}
}

func TestLineBytes(t *testing.T) {
	tests := []struct {
		f     Format
		width int
		want  int
	}{
		{V210, 720, 1920},
		{V210, 48, 128},
		{V210, 50, 256},
		{V210, 1920, 5120},
		{YUYV10LE, 720, 2880},
		{Planar10LE, 720, 2880},
	}
	for _, tt := range tests {
		if got := tt.f.LineBytes(tt.width); got != tt.want {
			t.Errorf("%v.LineBytes(%d) = %d, want %d", tt.f, tt.width, got, tt.want)
		}
	}
}

func TestUnpackV210KnownGroup(t *testing.T) {
	g := Geometry{Width: 6, Height: 1}
	buf := make([]byte, V210.LineBytes(6))
	// Cb0=100 Y0=200 Cr0=300 | Y1=201 Cb2=101 Y2=202 | Cr2=301 Y3=203 Cb4=102 | Y4=204 Cr4=302 Y5=205
	words := []uint32{
		100 | 200<<10 | 300<<20,
		201 | 101<<10 | 202<<20,
		301 | 203<<10 | 102<<20,
		204 | 302<<10 | 205<<20,
	}
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}

	p, err := quietCodec().UnpackV210(buf, g)
	if err != nil {
		t.Fatal(err)
	}
	wantY := []uint16{200, 201, 202, 203, 204, 205}
	wantCb := []uint16{100, 101, 102}
	wantCr := []uint16{300, 301, 302}
	for i, v := range wantY {
		if p.Y[i] != v {
			t.Errorf("Y[%d] = %d, want %d", i, p.Y[i], v)
		}
	}
	for i := range wantCb {
		if p.Cb[i] != wantCb[i] || p.Cr[i] != wantCr[i] {
			t.Errorf("chroma[%d] = (%d,%d), want (%d,%d)", i, p.Cb[i], p.Cr[i], wantCb[i], wantCr[i])
		}
	}
}

func TestUnpackV210DropsPaddingComponents(t *testing.T) {
	// width 4: the second pair of the group is used, the third is padding
	g := Geometry{Width: 4, Height: 1}
	full := rampFrame(Geometry{Width: 6, Height: 1})
	buf := PackV210(full)

	p, err := quietCodec().UnpackV210(buf, g)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Y) != 4 || len(p.Cb) != 2 {
		t.Fatalf("plane sizes %d/%d", len(p.Y), len(p.Cb))
	}
	for i := 0; i < 4; i++ {
		if p.Y[i] != full.Y[i] {
			t.Errorf("Y[%d] = %d, want %d", i, p.Y[i], full.Y[i])
		}
	}
}

func TestV210RoundTrip(t *testing.T) {
	for _, g := range []Geometry{{720, 4}, {702, 3}, {6, 1}, {2, 2}, {1920, 2}} {
		src := rampFrame(g)
		got, err := quietCodec().UnpackV210(PackV210(src), g)
		if err != nil {
			t.Fatalf("%v: %v", g, err)
		}
		if !got.Equal(src) {
			t.Errorf("%v: v210 round trip changed samples", g)
		}
	}
}

func TestYUYVLayout(t *testing.T) {
	p := NewPlanar(Geometry{Width: 2, Height: 1})
	p.SetPair(0, 0, 100, 200, 300, 400)
	got := PackYUYV(p)
	want := []byte{100, 0, 44, 1, 200, 0, 144, 1} // 100, 300, 200, 400 LE
	if !bytes.Equal(got, want) {
		t.Errorf("PackYUYV = %v, want %v", got, want)
	}
}

func TestPackMasksTo10Bits(t *testing.T) {
	p := NewPlanar(Geometry{Width: 2, Height: 1})
	p.Y[0] = 0xFFFF
	out := PackYUYV(p)
	if v := binary.LittleEndian.Uint16(out); v != 0x3FF {
		t.Errorf("Y0 = %#x, want 0x3ff", v)
	}
}

func TestFullRoundTrip(t *testing.T) {
	// planar -> v210 -> planar -> yuyv -> planar
	g := Geometry{Width: 720, Height: 8}
	src := rampFrame(g)
	c := quietCodec()

	v210, err := c.Convert(PackPlanar(src), Planar10LE, V210, g)
	if err != nil {
		t.Fatal(err)
	}
	yuyv, err := c.Convert(v210, V210, YUYV10LE, g)
	if err != nil {
		t.Fatal(err)
	}
	back, err := c.UnpackYUYV(yuyv, g)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(src) {
		t.Fatal("planar -> v210 -> yuyv -> planar changed samples")
	}
	planar, err := c.Pack(back, Planar10LE)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(planar, PackPlanar(src)) {
		t.Error("planar bytes differ after round trip")
	}
}

func TestUnpackPlanarLayout(t *testing.T) {
	g := Geometry{Width: 2, Height: 1}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:], 0xFC40) // upper bits set, 10-bit value 0x040
	binary.LittleEndian.PutUint16(buf[2:], 940)
	binary.LittleEndian.PutUint16(buf[4:], 512)
	binary.LittleEndian.PutUint16(buf[6:], 960)
	p, err := quietCodec().UnpackPlanar(buf, g)
	if err != nil {
		t.Fatal(err)
	}
	if p.Y[0] != 64 || p.Y[1] != 940 || p.Cb[0] != 512 || p.Cr[0] != 960 {
		t.Errorf("got Y=%v Cb=%v Cr=%v", p.Y, p.Cb, p.Cr)
	}
}

func TestAtSharesChroma(t *testing.T) {
	p := NewPlanar(Geometry{Width: 4, Height: 1})
	p.SetPair(2, 0, 10, 20, 30, 40)
	_, cb0, cr0 := p.At(2, 0)
	_, cb1, cr1 := p.At(3, 0)
	if cb0 != 30 || cb1 != 30 || cr0 != 40 || cr1 != 40 {
		t.Errorf("chroma not shared: (%d,%d) (%d,%d)", cb0, cr0, cb1, cr1)
	}
}

func TestShortInputLenient(t *testing.T) {
	g := Geometry{Width: 4, Height: 2}
	src := rampFrame(g)
	buf := PackYUYV(src)
	// keep only the first line
	p, err := quietCodec().UnpackYUYV(buf[:YUYV10LE.LineBytes(4)], g)
	if err != nil {
		t.Fatalf("lenient codec failed: %v", err)
	}
	for x := 0; x < 4; x++ {
		if y, _, _ := p.At(x, 0); y != src.Y[x] {
			t.Errorf("line 0 Y[%d] = %d, want %d", x, y, src.Y[x])
		}
		y, cb, cr := p.At(x, 1)
		if y != 64 || cb != 512 || cr != 512 {
			t.Errorf("missing pixel (%d,1) = (%d,%d,%d), want neutral", x, y, cb, cr)
		}
	}
}

func TestShortInputStrict(t *testing.T) {
	c := quietCodec()
	c.Strict = true
	g := Geometry{Width: 48, Height: 2}
	for _, f := range []Format{V210, Planar10LE, YUYV10LE} {
		_, err := c.Unpack(make([]byte, 10), f, g)
		if !errors.Is(err, video.ErrShortRead) {
			t.Errorf("%v: got %v, want ErrShortRead", f, err)
		}
	}
}

func TestUnpackRejectsOddWidth(t *testing.T) {
	_, err := quietCodec().UnpackV210(make([]byte, 1024), Geometry{Width: 7, Height: 1})
	if !errors.Is(err, video.ErrInvalidGeometry) {
		t.Errorf("got %v, want ErrInvalidGeometry", err)
	}
}

func TestPadWidthSymmetry(t *testing.T) {
	tests := []struct {
		width, target     int
		leftPairs, rightP int
	}{
		{702, 720, 4, 5}, // 9 pairs: odd pair goes right
		{704, 720, 4, 4},
		{716, 720, 1, 1},
		{718, 720, 0, 1},
		{720, 720, 0, 0},
	}
	c := quietCodec()
	for _, tt := range tests {
		g := Geometry{Width: tt.width, Height: 3}
		src := rampFrame(g)
		out, err := c.PadWidth(PackYUYV(src), g, tt.target)
		if err != nil {
			t.Fatalf("%d->%d: %v", tt.width, tt.target, err)
		}
		if tt.leftPairs != (tt.target-tt.width)/4 {
			t.Fatalf("table error: left pairs for %d->%d", tt.width, tt.target)
		}
		p, err := c.UnpackYUYV(out, Geometry{Width: tt.target, Height: 3})
		if err != nil {
			t.Fatal(err)
		}
		for row := 0; row < 3; row++ {
			for x := 0; x < tt.target; x++ {
				y, cb, cr := p.At(x, row)
				pad := x < 2*tt.leftPairs || x >= tt.target-2*tt.rightP
				if pad {
					if y != 64 || cb != 512 || cr != 512 {
						t.Fatalf("%d->%d: pixel (%d,%d) = (%d,%d,%d), want neutral", tt.width, tt.target, x, row, y, cb, cr)
					}
					continue
				}
				sy, scb, scr := src.At(x-2*tt.leftPairs, row)
				if y != sy || cb != scb || cr != scr {
					t.Fatalf("%d->%d: pixel (%d,%d) moved", tt.width, tt.target, x, row)
				}
			}
		}
	}
}

func TestPadWidthRejectsNarrowerTarget(t *testing.T) {
	g := Geometry{Width: 720, Height: 1}
	_, err := quietCodec().PadWidth(make([]byte, YUYV10LE.FrameBytes(g)), g, 702)
	if !errors.Is(err, video.ErrInvalidGeometry) {
		t.Errorf("got %v", err)
	}
	_, err = quietCodec().PadWidth(make([]byte, YUYV10LE.FrameBytes(g)), g, 723)
	if !errors.Is(err, video.ErrInvalidGeometry) {
		t.Errorf("odd target: got %v", err)
	}
}

func TestCropOrPadHeight(t *testing.T) {
	c := quietCodec()
	g := Geometry{Width: 4, Height: 4}
	src := PackYUYV(rampFrame(g))
	line := YUYV10LE.LineBytes(4)

	cropped, err := c.CropOrPadHeight(src, g, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(cropped, src[:2*line]) {
		t.Error("crop must keep the first lines")
	}

	padded, err := c.CropOrPadHeight(src, g, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(padded) != 6*line || !bytes.Equal(padded[:4*line], src) {
		t.Fatalf("pad changed original lines or size %d", len(padded))
	}
	p, err := c.UnpackYUYV(padded, Geometry{Width: 4, Height: 6})
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 4; x++ {
		if y, cb, cr := p.At(x, 5); y != 64 || cb != 512 || cr != 512 {
			t.Errorf("padded line pixel %d = (%d,%d,%d)", x, y, cb, cr)
		}
	}
}

func TestRGB48(t *testing.T) {
	g := Geometry{Width: 2, Height: 1}
	f := NewRGB48(g)
	f.Set(1, 0, 940, 64, 0x7FF)
	buf := f.Bytes()
	if len(buf) != 12 {
		t.Fatalf("len = %d", len(buf))
	}
	back, err := quietCodec().UnpackRGB48(buf, g)
	if err != nil {
		t.Fatal(err)
	}
	r, gr, b := back.At(1, 0)
	if r != 940 || gr != 64 || b != 0x3FF {
		t.Errorf("At(1,0) = %d,%d,%d", r, gr, b)
	}
}

func TestInferWidth(t *testing.T) {
	g := Geometry{Width: 702, Height: 576}
	if got := InferWidth(Planar10LE.FrameBytes(g), 576); got != 702 {
		t.Errorf("InferWidth = %d, want 702", got)
	}
	if got := InferWidth(100, 0); got != 0 {
		t.Errorf("InferWidth with zero height = %d", got)
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{V210, Planar10LE, YUYV10LE} {
		got, err := ParseFormat(f.String())
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseFormat("nv12"); err == nil {
		t.Error("ParseFormat(nv12) should fail")
	}
}

package video

import (
	"errors"
	"math"
	"testing"
)

func TestParseSystem(t *testing.T) {
	tests := []struct {
		in   string
		want System
	}{
		{"PAL", PAL},
		{"pal", PAL},
		{"NTSC", NTSC},
		{" ntsc ", NTSC},
		{"PAL_M", PALM},
		{"pal-m", PALM},
	}
	for _, tt := range tests {
		got, err := ParseSystem(tt.in)
		if err != nil {
			t.Fatalf("ParseSystem(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseSystem(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseSystem("SECAM"); err == nil {
		t.Error("ParseSystem(SECAM) should fail")
	}
}

func TestSystemString(t *testing.T) {
	for _, s := range []System{PAL, NTSC, PALM} {
		back, err := ParseSystem(s.String())
		if err != nil || back != s {
			t.Errorf("round trip of %v gave %v, %v", s, back, err)
		}
	}
}

func TestForSystemGeometry(t *testing.T) {
	tests := []struct {
		sys           System
		width, height int
	}{
		{PAL, 1135, 313},
		{NTSC, 910, 263},
		{PALM, 909, 263},
	}
	for _, tt := range tests {
		std, err := ForSystem(tt.sys)
		if err != nil {
			t.Fatal(err)
		}
		if std.FieldWidth != tt.width || std.FieldHeight != tt.height {
			t.Errorf("%v: got %dx%d, want %dx%d", tt.sys, std.FieldWidth, std.FieldHeight, tt.width, tt.height)
		}
		if std.SampleRate != 4*std.Fsc && tt.sys != PAL {
			t.Errorf("%v: sample rate %v is not 4*fsc", tt.sys, std.SampleRate)
		}
	}
}

func TestIREToSample(t *testing.T) {
	std := NewPAL()
	if got := std.IREToSample(0); got != float64(std.Blanking) {
		t.Errorf("0 IRE = %v, want blanking %d", got, std.Blanking)
	}
	if got := std.IREToSample(100); got != float64(std.White) {
		t.Errorf("100 IRE = %v, want white %d", got, std.White)
	}
	if got := std.IREToSample(-43); math.Abs(got-float64(std.Sync)) > 1e-9 {
		t.Errorf("-43 IRE = %v, want sync %d", got, std.Sync)
	}
}

func TestSentinelErrorsDistinct(t *testing.T) {
	all := []error{ErrInvalidGeometry, ErrShortRead, ErrAddressing, ErrDegenerateRange}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v matches %v", a, b)
			}
		}
	}
}

func TestNewColorBars(t *testing.T) {
	r := BT601()
	full := NewColorBars(100, r)
	if full.Bars[0] != (RGB{940, 940, 940}) {
		t.Errorf("100%% white = %v", full.Bars[0])
	}
	if full.Bars[7] != (RGB{64, 64, 64}) {
		t.Errorf("100%% black = %v", full.Bars[7])
	}

	bars75 := NewColorBars(75, r)
	if bars75.Bars[0] != (RGB{721, 721, 721}) {
		t.Errorf("75%% white = %v, want 721", bars75.Bars[0])
	}
	if bars75.Bars[1] != (RGB{721, 721, 64}) {
		t.Errorf("75%% yellow = %v", bars75.Bars[1])
	}
	if bars75.Bars[7] != full.Bars[7] {
		t.Errorf("black must not scale: %v", bars75.Bars[7])
	}
}

func TestBarIndex(t *testing.T) {
	if got := BarIndex(0, 720); got != 0 {
		t.Errorf("BarIndex(0) = %d", got)
	}
	if got := BarIndex(89, 720); got != 0 {
		t.Errorf("BarIndex(89) = %d", got)
	}
	if got := BarIndex(90, 720); got != 1 {
		t.Errorf("BarIndex(90) = %d", got)
	}
	// 702/8 = 87, the remainder lands in the last bar
	if got := BarIndex(701, 702); got != 7 {
		t.Errorf("BarIndex(701, 702) = %d", got)
	}
	if got := BarCenter(3, 720); got != 315 {
		t.Errorf("BarCenter(3) = %d", got)
	}
}

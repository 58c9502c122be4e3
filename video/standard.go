package video

import (
	"fmt"
	"strings"
)

// System identifies the colour television system a capture was made in.
type System int

const (
	PAL System = iota
	NTSC
	PALM
)

func (s System) String() string {
	switch s {
	case PAL:
		return "PAL"
	case NTSC:
		return "NTSC"
	case PALM:
		return "PAL_M"
	default:
		return "UNKNOWN"
	}
}

// IsPAL reports whether the system uses PAL's alternating burst (PAL and PAL-M).
func (s System) IsPAL() bool { return s == PAL || s == PALM }

// ParseSystem accepts the names used by ld-decode metadata ("PAL", "NTSC",
// "PAL_M") case-insensitively, plus "PAL-M" and "PALM".
func ParseSystem(name string) (System, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "PAL":
		return PAL, nil
	case "NTSC":
		return NTSC, nil
	case "PAL_M", "PAL-M", "PALM":
		return PALM, nil
	}
	return 0, fmt.Errorf("unknown video system %q", name)
}

// Standard holds the sampling and level constants of one system, in the
// layout ld-decode uses for its TBC files. Levels are on the 16-bit scale.
type Standard struct {
	System     System
	Fsc        float64 // subcarrier frequency, Hz
	SampleRate float64 // Hz, 4*Fsc

	FieldWidth  int // samples per line
	FieldHeight int // lines per field

	BurstStart  int
	BurstEnd    int
	ActiveStart int
	ActiveEnd   int

	Sync     int
	Blanking int
	Black    int
	White    int
}

// NewPAL returns the 625-line PAL parameters.
func NewPAL() Standard {
	return Standard{
		System:      PAL,
		Fsc:         4433618.75,
		SampleRate:  17734475.0,
		FieldWidth:  1135,
		FieldHeight: 313,
		BurstStart:  98,
		BurstEnd:    138,
		ActiveStart: 185,
		ActiveEnd:   1107,
		Sync:        0x0000,
		Blanking:    0x4000,
		Black:       0x4000, // no setup
		White:       0xE000,
	}
}

// NewNTSC returns the 525-line NTSC parameters.
func NewNTSC() Standard {
	fsc := 315.0e6 / 88.0
	return Standard{
		System:      NTSC,
		Fsc:         fsc,
		SampleRate:  4 * fsc,
		FieldWidth:  910,
		FieldHeight: 263,
		BurstStart:  89,
		BurstEnd:    125,
		ActiveStart: 172,
		ActiveEnd:   910,
		Sync:        0x0000,
		Blanking:    0x4000,
		Black:       0x4680, // 7.5 IRE setup
		White:       0xC800,
	}
}

// NewPALM returns the 525-line PAL-M parameters. Line timing follows NTSC,
// the subcarrier is 227.25 times the line rate and there is no setup.
func NewPALM() Standard {
	fsc := 3575611.49
	return Standard{
		System:      PALM,
		Fsc:         fsc,
		SampleRate:  4 * fsc,
		FieldWidth:  909,
		FieldHeight: 263,
		BurstStart:  89,
		BurstEnd:    125,
		ActiveStart: 172,
		ActiveEnd:   909,
		Sync:        0x0000,
		Blanking:    0x4000,
		Black:       0x4000,
		White:       0xC800,
	}
}

// ForSystem returns the default parameters of s.
func ForSystem(s System) (Standard, error) {
	switch s {
	case PAL:
		return NewPAL(), nil
	case NTSC:
		return NewNTSC(), nil
	case PALM:
		return NewPALM(), nil
	}
	return Standard{}, fmt.Errorf("no parameters for system %v", s)
}

// SamplesPerMicrosecond is the number of samples in one microsecond of line time.
func (s Standard) SamplesPerMicrosecond() float64 {
	return s.SampleRate / 1e6
}

// MicrosecondsToSample converts a time from the start of the line into a
// sample index, truncating.
func (s Standard) MicrosecondsToSample(us float64) int {
	return int(us * s.SamplesPerMicrosecond())
}

// IREToSample maps an IRE value onto the 16-bit sample scale: 0 IRE is
// blanking, 100 IRE is white, -43 IRE is sync tip.
func (s Standard) IREToSample(ire float64) float64 {
	if ire <= 0 {
		return float64(s.Blanking) + ire/43.0*float64(s.Blanking-s.Sync)
	}
	return float64(s.Blanking) + ire/100.0*float64(s.White-s.Blanking)
}

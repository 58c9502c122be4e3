// Package measure reduces TBC line samples to signal measurements: level
// statistics, IRE and millivolt conversion, test-signal segmentation,
// staircase linearity, burst phase and transition timing.
//
// Every function is pure; out-of-tolerance results are returned as data.
package measure

import "tbctools/video"

// Levels are the reference points of the 16-bit sample scale.
type Levels struct {
	Sync     float64
	Blanking float64
	White    float64
}

// LevelsFor returns the levels of a standard.
func LevelsFor(std video.Standard) Levels {
	return Levels{
		Sync:     float64(std.Sync),
		Blanking: float64(std.Blanking),
		White:    float64(std.White),
	}
}

// Degenerate reports whether the levels cannot scale samples: blanking at
// or above white, or blanking at sync.
func (l Levels) Degenerate() bool {
	return l.Blanking >= l.White || l.Blanking <= l.Sync
}

// SampleToIRE converts a sample with sync at 0.
func SampleToIRE(sample, blanking, white float64) float64 {
	return Levels{Blanking: blanking, White: white}.IRE(sample)
}

// IRE converts a sample to IRE units. At or below blanking the sample is
// in sync/blanking and maps onto [-43, 0]; above it maps onto [0, 100] at
// white. Blanking at or above white yields 0 for every sample, as does a
// zero-width sync range below blanking.
func (l Levels) IRE(sample float64) float64 {
	if l.Blanking >= l.White {
		return 0
	}
	if sample <= l.Blanking {
		syncRange := l.Blanking - l.Sync
		if syncRange <= 0 {
			return 0
		}
		return -43.0 * (l.Blanking - sample) / syncRange
	}
	return 100.0 * (sample - l.Blanking) / (l.White - l.Blanking)
}

// FromIRE is the inverse of IRE.
func (l Levels) FromIRE(ire float64) float64 {
	if ire <= 0 {
		return l.Blanking + ire/43.0*(l.Blanking-l.Sync)
	}
	return l.Blanking + ire/100.0*(l.White-l.Blanking)
}

// SampleToMillivolts converts a sample on the PAL ld-decode scale, where
// 0x0000 is -300 mV (sync tip) and full scale spans 1203.3 mV.
func SampleToMillivolts(sample float64) float64 {
	return sample/65535.0*1203.3 - 300.0
}

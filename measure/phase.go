package measure

import (
	"fmt"
	"math"

	"tbctools/video"
)

// Phase is the result of correlating a burst against a reference
// subcarrier.
type Phase struct {
	Degrees float64 // [0, 360)
	ASin    float64
	ACos    float64
}

// BurstPhase correlates the blanking-subtracted burst with sin(wn) and
// cos(wn), w = 2*pi*fsc/sampleRate, and returns the angle of the result.
// n counts from the first sample of burst.
func BurstPhase(burst []uint16, blanking, fsc, sampleRate float64) Phase {
	w := 2 * math.Pi * fsc / sampleRate
	var p Phase
	for n, v := range burst {
		x := float64(v) - blanking
		p.ASin += x * math.Sin(w*float64(n))
		p.ACos += x * math.Cos(w*float64(n))
	}
	p.Degrees = normalizeDegrees(math.Atan2(p.ASin, p.ACos) * 180 / math.Pi)
	return p
}

// BurstPhaseFor measures the burst window of a full line.
func BurstPhaseFor(line []uint16, std video.Standard) (Phase, error) {
	if std.BurstStart < 0 || std.BurstEnd > len(line) || std.BurstEnd <= std.BurstStart {
		return Phase{}, fmt.Errorf("burst [%d,%d) outside line of %d samples: %w",
			std.BurstStart, std.BurstEnd, len(line), video.ErrAddressing)
	}
	return BurstPhase(line[std.BurstStart:std.BurstEnd], float64(std.Blanking), std.Fsc, std.SampleRate), nil
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		// tiny negative angles round up to a full turn
		d -= 360
	}
	return d
}

// Amplitude is the magnitude of the correlation.
func (p Phase) Amplitude() float64 { return math.Hypot(p.ASin, p.ACos) }

// Signed maps the phase onto [-180, 180).
func (p Phase) Signed() float64 {
	return normalizeDegrees(p.Degrees+180) - 180
}

// Quadrant buckets an NTSC burst phase into 1..4, each quadrant centred on
// a multiple of 90 degrees.
func (p Phase) Quadrant() int {
	return int(normalizeDegrees(p.Degrees+45)/90) + 1
}

// Swing is the PAL burst reference a phase is closest to: +135 or -135.
func (p Phase) Swing() float64 {
	if p.Signed() > 0 {
		return 135
	}
	return -135
}

// SwingSign is "+" or "-" for the PAL burst swing.
func (p Phase) SwingSign() string {
	if p.Signed() > 0 {
		return "+"
	}
	return "-"
}

// SwingDeviation is the distance from the nearer ±135 degree reference.
func (p Phase) SwingDeviation() float64 {
	return p.Signed() - p.Swing()
}

// Describe formats the phase the way it is read for the system: swing and
// deviation for PAL, quadrant for NTSC.
func (p Phase) Describe(s video.System) string {
	if s.IsPAL() {
		return fmt.Sprintf("%+.1f° (%s135° ref, dev %+.1f°)", p.Signed(), p.SwingSign(), p.SwingDeviation())
	}
	return fmt.Sprintf("%.1f° (Q%d)", p.Degrees, p.Quadrant())
}

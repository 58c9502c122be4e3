package synth

import (
	"math"

	"tbctools/measure"
)

// render draws the ideal form of each component of spec into buf. Levels
// sit at the middle of their expected range, pulses and envelopes are
// sine-squared shaped and staircases rise in equal steps.
func (g *Generator) render(buf []float64, spec measure.LineSpec) {
	line := make([]uint16, len(buf))
	segs, err := spec.Segment(line)
	if err != nil {
		return
	}
	for _, seg := range segs {
		r := seg.Range
		c := seg.Component
		n := r.Len()
		if n == 0 {
			continue
		}
		switch c.Kind {
		case measure.KindLevel:
			v := g.levels.FromIRE((c.ExpectedMin + c.ExpectedMax) / 2)
			for s := r.Start; s < r.End; s++ {
				buf[s] = v
			}
		case measure.KindPulse:
			for k := 0; k < n; k++ {
				e := sinSquared(k, n)
				buf[r.Start+k] = g.levels.FromIRE(c.ExpectedMin + e*(c.ExpectedMax-c.ExpectedMin))
			}
		case measure.KindEnvelope:
			w := 2 * math.Pi * g.Standard.Fsc / g.Standard.SampleRate
			mid := (c.ExpectedMin + c.ExpectedMax) / 2
			amp := (c.ExpectedMax - c.ExpectedMin) / 2
			for k := 0; k < n; k++ {
				e := sinSquared(k, n)
				ped := c.ExpectedMin + e*(mid-c.ExpectedMin)
				buf[r.Start+k] = g.levels.FromIRE(ped + e*amp*math.Cos(w*float64(k)))
			}
		case measure.KindStaircase:
			steps := max(c.Steps, 2)
			width := n / steps
			for k := 0; k < n; k++ {
				step := min(k/max(width, 1), steps-1)
				ire := c.ExpectedMin + (c.ExpectedMax-c.ExpectedMin)*float64(step)/float64(steps-1)
				buf[r.Start+k] = g.levels.FromIRE(ire)
			}
		}
	}
}

// sinSquared is the sin^2 envelope at sample k of n, peaking at n/2.
func sinSquared(k, n int) float64 {
	s := math.Sin(math.Pi * float64(k) / float64(n))
	return s * s
}

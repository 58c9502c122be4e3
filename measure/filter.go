package measure

import "math"

// LowPassTaps designs a Blackman-windowed sinc low-pass FIR. bandwidth is
// the two-sided bandwidth, so the cutoff sits at bandwidth/2. Taps are
// normalized to unity gain at DC.
func LowPassTaps(numTaps int, bandwidth, sampleRate float64) []float64 {
	if numTaps < 1 {
		return nil
	}
	taps := make([]float64, numTaps)
	if numTaps == 1 {
		taps[0] = 1
		return taps
	}
	cutoff := bandwidth / 2.0 / sampleRate

	m := float64(numTaps - 1)
	var sum float64
	for i := range taps {
		n := float64(i)
		window := 0.42 - 0.5*math.Cos(2*math.Pi*n/m) + 0.08*math.Cos(4*math.Pi*n/m)

		var sinc float64
		if d := n - m/2; d == 0 {
			sinc = 2 * math.Pi * cutoff
		} else {
			sinc = math.Sin(2*math.Pi*cutoff*d) / d
		}
		taps[i] = sinc * window
		sum += taps[i]
	}

	for i := range taps {
		taps[i] /= sum
	}
	return taps
}

// LumaTaps returns a filter that removes the subcarrier of a system
// sampled at 4*fsc, keeping luminance edges for transition timing.
func LumaTaps(fsc, sampleRate float64) []float64 {
	return LowPassTaps(17, fsc, sampleRate)
}

// Filter convolves samples with taps centred on each output sample.
// Samples beyond either end repeat the edge value, so a flat line stays
// flat.
func Filter(samples []uint16, taps []float64) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}
	half := len(taps) / 2
	last := len(samples) - 1
	for i := range samples {
		var acc float64
		for k, t := range taps {
			j := min(max(i+k-half, 0), last)
			acc += t * float64(samples[j])
		}
		out[i] = acc
	}
	return out
}

package measure

// Transition is one crossing of a threshold.
type Transition struct {
	Index  int
	Rising bool
	Value  uint16
}

// DetectTransitions scans samples for crossings of threshold, in order.
// A sample at or above threshold counts as above; the scan starts below,
// so a line that opens above threshold begins with a rising transition at
// index 0.
func DetectTransitions(samples []uint16, threshold uint16) []Transition {
	var out []Transition
	above := false
	for i, v := range samples {
		a := v >= threshold
		if a != above {
			out = append(out, Transition{Index: i, Rising: a, Value: v})
			above = a
		}
	}
	return out
}

// DetectTransitionsFloat is DetectTransitions over filtered samples.
func DetectTransitionsFloat(samples []float64, threshold float64) []Transition {
	var out []Transition
	above := false
	for i, v := range samples {
		a := v >= threshold
		if a != above {
			out = append(out, Transition{Index: i, Rising: a, Value: clampSample(v)})
			above = a
		}
	}
	return out
}

func clampSample(v float64) uint16 {
	switch {
	case v <= 0:
		return 0
	case v >= 65535:
		return 65535
	}
	return uint16(v + 0.5)
}

// MidThreshold is halfway between the lowest and highest sample.
func MidThreshold(samples []uint16) uint16 {
	st := ComputeStats(samples)
	return uint16((int(st.Min) + int(st.Max)) / 2)
}

// HalfAmplitudeDuration measures the width of the first pulse in samples
// at half its amplitude above base, with crossings placed by linear
// interpolation, and returns it in nanoseconds. It returns false when no
// complete pulse is found.
func HalfAmplitudeDuration(samples []float64, base, sampleRate float64) (float64, bool) {
	if len(samples) < 3 || sampleRate <= 0 {
		return 0, false
	}
	peak := samples[0]
	for _, v := range samples {
		if v > peak {
			peak = v
		}
	}
	half := base + (peak-base)/2
	if peak <= base {
		return 0, false
	}

	rise, fall := -1.0, -1.0
	for i := 1; i < len(samples); i++ {
		a, b := samples[i-1], samples[i]
		switch {
		case rise < 0 && a < half && b >= half:
			rise = float64(i-1) + (half-a)/(b-a)
		case rise >= 0 && a >= half && b < half:
			fall = float64(i-1) + (a-half)/(a-b)
		}
		if fall >= 0 {
			break
		}
	}
	if rise < 0 || fall < 0 {
		return 0, false
	}
	return (fall - rise) / sampleRate * 1e9, true
}

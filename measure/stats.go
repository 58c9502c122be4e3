package measure

// Stats summarizes a run of samples.
type Stats struct {
	Count int
	Min   uint16
	Max   uint16
	Mean  float64
}

// ComputeStats returns min, max and real-valued mean. An empty slice gives
// the zero Stats.
func ComputeStats(samples []uint16) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	s := Stats{Count: len(samples), Min: samples[0], Max: samples[0]}
	var sum uint64
	for _, v := range samples {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += uint64(v)
	}
	s.Mean = float64(sum) / float64(len(samples))
	return s
}

// MeanTrunc is the integer-truncated mean, for display only. Pass/fail
// decisions use Mean.
func (s Stats) MeanTrunc() int { return int(s.Mean) }

// PeakToPeak is Max-Min.
func (s Stats) PeakToPeak() int { return int(s.Max) - int(s.Min) }

// HasSignal reports whether the samples swing by more than threshold, which
// separates a test-signal line from a line at blanking.
func (s Stats) HasSignal(threshold int) bool {
	return s.PeakToPeak() > threshold
}

// DefaultSignalThreshold is the peak-to-peak swing above which a line is
// taken to carry a test signal.
const DefaultSignalThreshold = 30000

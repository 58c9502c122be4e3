package measure

import "tbctools/tbc"

// Step is one riser of a staircase.
type Step struct {
	Level    int // 0 at blanking, Steps-1 at white
	Range    tbc.SampleRange
	Mean     float64
	Expected float64
	IRE      float64
}

// Deviation is the difference between measured and expected mean in samples.
func (s Step) Deviation() float64 { return s.Mean - s.Expected }

// ExpectedStepLevel is the sample value of step k of an n-step staircase
// running from blanking to white.
func ExpectedStepLevel(blanking, white float64, k, n int) float64 {
	if n < 2 {
		return blanking
	}
	return blanking + (white-blanking)*float64(k)/float64(n-1)
}

// Staircase splits samples into n equal sub-bands, the last one taking the
// remainder, and compares each band's mean to its expected level. Ranges
// are relative to the start of samples.
func Staircase(samples []uint16, l Levels, n int) []Step {
	if n <= 0 || len(samples) == 0 {
		return nil
	}
	width := len(samples) / n
	steps := make([]Step, n)
	for k := 0; k < n; k++ {
		start := k * width
		end := start + width
		if k == n-1 {
			end = len(samples)
		}
		st := ComputeStats(samples[start:end])
		steps[k] = Step{
			Level:    k,
			Range:    tbc.SampleRange{Start: start, End: end},
			Mean:     st.Mean,
			Expected: ExpectedStepLevel(l.Blanking, l.White, k, n),
			IRE:      l.IRE(st.Mean),
		}
	}
	return steps
}

package measure

import (
	"fmt"
	"log/slog"
	"math"

	"tbctools/tbc"
	"tbctools/video"
)

// Analyzer measures test lines against LineSpecs using one set of levels.
type Analyzer struct {
	Standard        video.Standard
	Levels          Levels
	SignalThreshold int
	Logger          *slog.Logger
}

// NewAnalyzer returns an analyzer using the levels of std.
func NewAnalyzer(std video.Standard) *Analyzer {
	return &Analyzer{
		Standard:        std,
		Levels:          LevelsFor(std),
		SignalThreshold: DefaultSignalThreshold,
	}
}

func (a *Analyzer) log() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// ComponentResult is the measurement of one segment.
type ComponentResult struct {
	ID          string
	Description string
	Kind        Kind
	Range       tbc.SampleRange
	Stats       Stats
	MinIRE      float64
	MaxIRE      float64
	MeanIRE     float64
	ExpectedMin float64
	ExpectedMax float64
	Tolerance   float64
	Pass        bool
	Steps       []Step  `json:",omitempty"`
	DurationNs  float64 `json:",omitempty"` // half-amplitude duration, pulses only
}

// LineReport is the analysis of one line.
type LineReport struct {
	Spec       string
	Stats      Stats
	HasSignal  bool
	Degenerate bool
	Components []ComponentResult
}

// Pass reports whether every component is within tolerance.
func (r LineReport) Pass() bool {
	if r.Degenerate || len(r.Components) == 0 {
		return false
	}
	for _, c := range r.Components {
		if !c.Pass {
			return false
		}
	}
	return true
}

// Failed returns the IDs of the components out of tolerance.
func (r LineReport) Failed() []string {
	var ids []string
	for _, c := range r.Components {
		if !c.Pass {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// AnalyzeLine segments a full line according to spec and measures every
// component. Only addressing problems are errors; a line that does not
// match its spec is reported through Pass.
func (a *Analyzer) AnalyzeLine(line []uint16, spec LineSpec) (LineReport, error) {
	segs, err := spec.Segment(line)
	if err != nil {
		return LineReport{}, err
	}
	active := line[spec.Active.Start:spec.Active.End]
	rep := LineReport{
		Spec:       spec.Name,
		Stats:      ComputeStats(active),
		Degenerate: a.Levels.Degenerate(),
	}
	rep.HasSignal = rep.Stats.HasSignal(a.SignalThreshold)
	if rep.Degenerate {
		a.log().Warn("measure: degenerate levels, IRE values will be zero",
			"spec", spec.Name,
			"sync", a.Levels.Sync,
			"blanking", a.Levels.Blanking,
			"white", a.Levels.White,
			"err", video.ErrDegenerateRange)
	}

	for _, s := range segs {
		rep.Components = append(rep.Components, a.measure(s, rep.Degenerate))
	}
	return rep, nil
}

func (a *Analyzer) measure(s Segment, degenerate bool) ComponentResult {
	c := s.Component
	st := ComputeStats(s.Samples)
	res := ComponentResult{
		ID:          c.ID,
		Description: c.Description,
		Kind:        c.Kind,
		Range:       s.Range,
		Stats:       st,
		ExpectedMin: c.ExpectedMin,
		ExpectedMax: c.ExpectedMax,
		Tolerance:   c.Tolerance,
	}
	if st.Count == 0 {
		a.log().Warn("measure: empty component", "id", c.ID, "range", s.Range.String())
		return res
	}
	res.MinIRE = a.Levels.IRE(float64(st.Min))
	res.MaxIRE = a.Levels.IRE(float64(st.Max))
	res.MeanIRE = a.Levels.IRE(st.Mean)
	if degenerate {
		return res
	}

	lo, hi := c.ExpectedMin-c.Tolerance, c.ExpectedMax+c.Tolerance
	switch c.Kind {
	case KindLevel:
		res.Pass = res.MeanIRE >= lo && res.MeanIRE <= hi
	case KindPulse:
		res.Pass = math.Abs(res.MaxIRE-c.ExpectedMax) <= c.Tolerance && res.MinIRE >= lo
		if d, ok := HalfAmplitudeDuration(toFloat(s.Samples), a.Levels.Blanking, a.Standard.SampleRate); ok {
			res.DurationNs = d
		}
	case KindEnvelope:
		res.Pass = res.MinIRE >= lo && res.MaxIRE <= hi
	case KindStaircase:
		n := c.Steps
		if n <= 0 {
			n = 6
		}
		res.Steps = Staircase(s.Samples, a.Levels, n)
		res.Pass = true
		for _, step := range res.Steps {
			if math.Abs(step.IRE-a.Levels.IRE(step.Expected)) > c.Tolerance {
				res.Pass = false
			}
		}
	}
	return res
}

func toFloat(samples []uint16) []float64 {
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = float64(v)
	}
	return out
}

// Timing is the transition scan of a line.
type Timing struct {
	Threshold   uint16
	Transitions []Transition
}

// Transitions low-pass filters the active part of line to strip the
// subcarrier and reports crossings of the mid level. Indexes are
// positions in the full line.
func (a *Analyzer) Transitions(line []uint16, active tbc.SampleRange) (Timing, error) {
	if active.Start < 0 || active.End > len(line) || active.End < active.Start {
		return Timing{}, fmt.Errorf("active span %v outside line of %d samples: %w", active, len(line), video.ErrAddressing)
	}
	samples := line[active.Start:active.End]
	filtered := Filter(samples, LumaTaps(a.Standard.Fsc, a.Standard.SampleRate))
	th := MidThreshold(samples)
	tr := DetectTransitionsFloat(filtered, float64(th))
	for i := range tr {
		tr[i].Index += active.Start
	}
	return Timing{Threshold: th, Transitions: tr}, nil
}

// LineSummary is the per-line statistics report used when no spec applies.
type LineSummary struct {
	Stats      Stats
	MinIRE     float64
	MaxIRE     float64
	MeanIRE    float64
	MinMV      float64
	MaxMV      float64
	HasSignal  bool
	Degenerate bool
}

// Summarize reduces a line to its statistics in samples, IRE and mV.
func (a *Analyzer) Summarize(samples []uint16) LineSummary {
	st := ComputeStats(samples)
	sum := LineSummary{
		Stats:      st,
		MinIRE:     a.Levels.IRE(float64(st.Min)),
		MaxIRE:     a.Levels.IRE(float64(st.Max)),
		MeanIRE:    a.Levels.IRE(st.Mean),
		MinMV:      SampleToMillivolts(float64(st.Min)),
		MaxMV:      SampleToMillivolts(float64(st.Max)),
		HasSignal:  st.HasSignal(a.SignalThreshold),
		Degenerate: a.Levels.Degenerate(),
	}
	if sum.Degenerate {
		a.log().Warn("measure: degenerate levels", "blanking", a.Levels.Blanking, "white", a.Levels.White)
	}
	return sum
}

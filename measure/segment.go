package measure

import (
	"fmt"

	"tbctools/tbc"
	"tbctools/video"
)

// Kind says how a component is judged against its expected levels.
type Kind int

const (
	// KindLevel compares the mean against [ExpectedMin, ExpectedMax].
	KindLevel Kind = iota
	// KindPulse compares the peak (max) against the expected range.
	KindPulse
	// KindEnvelope requires min and max to stay inside the range.
	KindEnvelope
	// KindStaircase splits the segment into equal steps from blanking
	// to white.
	KindStaircase
)

var kindNames = map[Kind]string{
	KindLevel:     "level",
	KindPulse:     "pulse",
	KindEnvelope:  "envelope",
	KindStaircase: "staircase",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText writes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText reads a kind written by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown component kind %q", s)
}

// Component is one named test-signal region of a line. Expected levels
// and tolerance are in IRE.
type Component struct {
	ID          string
	Description string
	Span        int // samples; the last component also takes any remainder
	Kind        Kind
	ExpectedMin float64
	ExpectedMax float64
	Tolerance   float64
	Steps       int // KindStaircase only
}

// LineSpec is an ordered list of components covering an active span.
type LineSpec struct {
	Name       string
	Active     tbc.SampleRange
	Components []Component
}

// Segment is the part of a line assigned to one component.
type Segment struct {
	Component Component
	Range     tbc.SampleRange // absolute sample positions in the line
	Samples   []uint16
}

// Segment partitions line according to spec. Components are laid out
// back to back from Active.Start; the last one is stretched or cut so the
// segments cover exactly the active span. Components that start past the
// active end get an empty range.
func (spec LineSpec) Segment(line []uint16) ([]Segment, error) {
	if spec.Active.Start < 0 || spec.Active.End > len(line) || spec.Active.End < spec.Active.Start {
		return nil, fmt.Errorf("%s: active span %v outside line of %d samples: %w",
			spec.Name, spec.Active, len(line), video.ErrAddressing)
	}
	if len(spec.Components) == 0 {
		return nil, nil
	}

	segs := make([]Segment, len(spec.Components))
	start := spec.Active.Start
	for i, c := range spec.Components {
		end := start + c.Span
		if i == len(spec.Components)-1 || end > spec.Active.End {
			end = spec.Active.End
		}
		if start > end {
			start = end
		}
		segs[i] = Segment{
			Component: c,
			Range:     tbc.SampleRange{Start: start, End: end},
			Samples:   line[start:end],
		}
		start = end
	}
	return segs, nil
}

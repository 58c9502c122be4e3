package measure

import (
	"fmt"
	"sort"
	"strings"

	"tbctools/tbc"
	"tbctools/video"
)

// PALLine19IEC60856 describes the IEC 60856 test line carried on PAL frame
// line 19: white bar B2, 2T pulse B1, 20T carrier-borne pulse F and the
// six-level staircase D1 across the rest of the active line.
func PALLine19IEC60856(std video.Standard) LineSpec {
	return LineSpec{
		Name:   "pal-line19-iec60856",
		Active: tbc.SampleRange{Start: std.ActiveStart, End: std.ActiveEnd},
		Components: []Component{
			{ID: "B2", Description: "white reference bar", Span: 92, Kind: KindLevel, ExpectedMin: 100, ExpectedMax: 100, Tolerance: 2},
			{ID: "B1", Description: "2T sine-squared pulse", Span: 4, Kind: KindPulse, ExpectedMin: 0, ExpectedMax: 100, Tolerance: 5},
			{ID: "F", Description: "20T carrier-borne pulse", Span: 36, Kind: KindEnvelope, ExpectedMin: 0, ExpectedMax: 100, Tolerance: 5},
			{ID: "D1", Description: "6-level staircase", Kind: KindStaircase, ExpectedMin: 0, ExpectedMax: 100, Tolerance: 2, Steps: 6},
		},
	}
}

// NTSCVIR describes the vertical interval reference signal on NTSC line 19:
// blanking spacing, chroma reference, luma reference and black reference,
// each placed by its time from the start of the line.
func NTSCVIR(std video.Standard) LineSpec {
	at := std.MicrosecondsToSample
	return LineSpec{
		Name:   "ntsc-vir",
		Active: tbc.SampleRange{Start: at(5.5), End: min(at(60), std.FieldWidth)},
		Components: []Component{
			{ID: "spacing", Description: "blanking, 5.5-12 us", Span: at(12) - at(5.5), Kind: KindLevel, ExpectedMin: 0, ExpectedMax: 0, Tolerance: 2},
			{ID: "chroma", Description: "chroma reference, 12-36 us", Span: at(36) - at(12), Kind: KindEnvelope, ExpectedMin: 50, ExpectedMax: 90, Tolerance: 5},
			{ID: "luma", Description: "luminance reference, 36-48 us", Span: at(48) - at(36), Kind: KindLevel, ExpectedMin: 50, ExpectedMax: 50, Tolerance: 2},
			{ID: "black", Description: "black reference, 48-60 us", Kind: KindLevel, ExpectedMin: 7.5, ExpectedMax: 7.5, Tolerance: 2},
		},
	}
}

var builtinSpecs = map[string]func(video.Standard) LineSpec{
	"pal-line19-iec60856": PALLine19IEC60856,
	"ntsc-vir":            NTSCVIR,
}

// SpecNames lists the built-in line specs.
func SpecNames() []string {
	names := make([]string, 0, len(builtinSpecs))
	for n := range builtinSpecs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SpecByName returns a built-in line spec laid out for std.
func SpecByName(name string, std video.Standard) (LineSpec, error) {
	fn, ok := builtinSpecs[strings.ToLower(name)]
	if !ok {
		return LineSpec{}, fmt.Errorf("unknown line spec %q (have %s)", name, strings.Join(SpecNames(), ", "))
	}
	return fn(std), nil
}

// DefaultSpec returns the test line normally found on frame line 19 of std.
func DefaultSpec(std video.Standard) LineSpec {
	if std.System == video.NTSC {
		return NTSCVIR(std)
	}
	return PALLine19IEC60856(std)
}

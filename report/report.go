// Package report renders measurement results as terminal tables or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"tbctools/measure"
	"tbctools/pixfmt"
)

// Run identifies one tool invocation. Every JSON document carries it so
// results from batch runs can be told apart.
type Run struct {
	ID      string    `json:"id"`
	Command string    `json:"command"`
	Input   string    `json:"input,omitempty"`
	System  string    `json:"system,omitempty"`
	Started time.Time `json:"started"`
}

// NewRun stamps a run with a fresh ID.
func NewRun(command, input, system string) Run {
	return Run{
		ID:      uuid.New().String(),
		Command: command,
		Input:   input,
		System:  system,
		Started: time.Now().UTC(),
	}
}

// LineEntry is the analysis of one frame line.
type LineEntry struct {
	FrameLine int                `json:"frame_line"`
	Field     int                `json:"field"`
	FieldLine int                `json:"field_line"`
	Report    measure.LineReport `json:"report"`
	Timing    *measure.Timing    `json:"timing,omitempty"`
}

// VITS is the result of the vits command.
type VITS struct {
	Run   Run         `json:"run"`
	Frame int         `json:"frame"`
	Lines []LineEntry `json:"lines"`
}

// Pass reports whether every analyzed line passed.
func (v VITS) Pass() bool {
	for _, l := range v.Lines {
		if !l.Report.Pass() {
			return false
		}
	}
	return len(v.Lines) > 0
}

// PhaseEntry is the burst phase of one field.
type PhaseEntry struct {
	Field     int     `json:"field"`
	Line      int     `json:"line"`
	Degrees   float64 `json:"degrees"`
	Signed    float64 `json:"signed"`
	Amplitude float64 `json:"amplitude"`
	Quadrant  int     `json:"quadrant,omitempty"`  // NTSC
	Swing     float64 `json:"swing,omitempty"`     // PAL reference, ±135
	Deviation float64 `json:"deviation,omitempty"` // PAL
	Sequence  *int    `json:"sequence,omitempty"`  // colour sequence position from the field records
}

// NewPhaseEntry fills an entry from a measurement. PAL systems get swing
// fields, NTSC a quadrant.
func NewPhaseEntry(field, line int, p measure.Phase, pal bool) PhaseEntry {
	e := PhaseEntry{
		Field:     field,
		Line:      line,
		Degrees:   p.Degrees,
		Signed:    p.Signed(),
		Amplitude: p.Amplitude(),
	}
	if pal {
		e.Swing = p.Swing()
		e.Deviation = p.SwingDeviation()
	} else {
		e.Quadrant = p.Quadrant()
	}
	return e
}

// Phase is the result of the phase command.
type Phase struct {
	Run    Run          `json:"run"`
	PAL    bool         `json:"pal"`
	Fields []PhaseEntry `json:"fields"`
}

// LineStats is the summary of one field line.
type LineStats struct {
	Field   int                 `json:"field"`
	Line    int                 `json:"line"`
	Summary measure.LineSummary `json:"summary"`
}

// Lines is the result of the lines command.
type Lines struct {
	Run   Run         `json:"run"`
	Lines []LineStats `json:"lines"`
}

// Convert describes a finished conversion.
type Convert struct {
	Run      Run             `json:"run"`
	Reported pixfmt.Geometry `json:"reported"`
	Decoded  pixfmt.Geometry `json:"decoded"`
	Output   pixfmt.Geometry `json:"output"`
	Format   string          `json:"format"`
	Path     string          `json:"path"`
	Bytes    int             `json:"bytes"`
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

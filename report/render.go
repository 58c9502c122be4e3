package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func verdict(pass bool) string {
	if pass {
		return passStyle.Render("PASS")
	}
	return failStyle.Render("FAIL")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func header(r Run) string {
	parts := []string{r.Command}
	if r.Input != "" {
		parts = append(parts, r.Input)
	}
	if r.System != "" {
		parts = append(parts, r.System)
	}
	return titleStyle.Render(strings.Join(parts, " · ")) + " " + dimStyle.Render(r.ID)
}

func f1(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func hex(v uint16) string { return fmt.Sprintf("0x%04X", v) }

func expected(lo, hi float64) string {
	if lo == hi {
		return f1(lo)
	}
	return f1(lo) + "–" + f1(hi)
}

// RenderVITS writes the vits report as one table per line.
func RenderVITS(w io.Writer, v VITS) error {
	var b strings.Builder
	b.WriteString(header(v.Run) + "\n")
	for _, l := range v.Lines {
		rep := l.Report
		fmt.Fprintf(&b, "\n%s %s\n",
			titleStyle.Render(fmt.Sprintf("Frame %d line %d (field %d line %d) %s", v.Frame, l.FrameLine, l.Field, l.FieldLine, rep.Spec)),
			verdict(rep.Pass()))
		fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("active %s–%s mean %s, signal %v",
			hex(rep.Stats.Min), hex(rep.Stats.Max), hex(uint16(rep.Stats.MeanTrunc())), rep.HasSignal)))
		if rep.Degenerate {
			b.WriteString(warnStyle.Render("levels are degenerate; IRE values are zero") + "\n")
		}

		t := newTable("ID", "Component", "Samples", "Min IRE", "Max IRE", "Mean IRE", "Expected", "Result")
		for _, c := range rep.Components {
			t.Row(c.ID, c.Description, c.Range.String(), f1(c.MinIRE), f1(c.MaxIRE), f1(c.MeanIRE),
				expected(c.ExpectedMin, c.ExpectedMax)+" ±"+f1(c.Tolerance), verdict(c.Pass))
		}
		b.WriteString(t.Render() + "\n")

		for _, c := range rep.Components {
			if len(c.Steps) == 0 {
				continue
			}
			st := newTable("Step", "Samples", "Mean", "Expected", "IRE", "Error")
			for _, s := range c.Steps {
				st.Row(strconv.Itoa(s.Level), s.Range.String(), f1(s.Mean), f1(s.Expected), f1(s.IRE), f1(s.Deviation()))
			}
			b.WriteString(dimStyle.Render(c.ID+" staircase") + "\n" + st.Render() + "\n")
		}
		if l.Timing != nil {
			tt := newTable("Sample", "Edge", "Level")
			for _, tr := range l.Timing.Transitions {
				edge := "↓"
				if tr.Rising {
					edge = "↑"
				}
				tt.Row(strconv.Itoa(tr.Index), edge, hex(tr.Value))
			}
			b.WriteString(dimStyle.Render("transitions at "+hex(l.Timing.Threshold)) + "\n" + tt.Render() + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderPhase writes the phase report.
func RenderPhase(w io.Writer, p Phase) error {
	var t *table.Table
	if p.PAL {
		t = newTable("Field", "Seq", "Line", "Phase", "Signed", "Ref", "Deviation", "Amplitude")
		for _, e := range p.Fields {
			t.Row(strconv.Itoa(e.Field), sequence(e.Sequence), strconv.Itoa(e.Line), f1(e.Degrees)+"°", f1(e.Signed)+"°",
				fmt.Sprintf("%+.0f°", e.Swing), fmt.Sprintf("%+.1f°", e.Deviation), f1(e.Amplitude))
		}
	} else {
		t = newTable("Field", "Seq", "Line", "Phase", "Quadrant", "Amplitude")
		for _, e := range p.Fields {
			t.Row(strconv.Itoa(e.Field), sequence(e.Sequence), strconv.Itoa(e.Line), f1(e.Degrees)+"°",
				"Q"+strconv.Itoa(e.Quadrant), f1(e.Amplitude))
		}
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", header(p.Run), t.Render())
	return err
}

func sequence(p *int) string {
	if p == nil {
		return dimStyle.Render("-")
	}
	return strconv.Itoa(*p)
}

// RenderLines writes per-line statistics.
func RenderLines(w io.Writer, l Lines) error {
	t := newTable("Field", "Line", "Min", "Max", "Mean", "Min IRE", "Max IRE", "Min mV", "Max mV", "Signal")
	for _, s := range l.Lines {
		sum := s.Summary
		signal := dimStyle.Render("no")
		if sum.HasSignal {
			signal = passStyle.Render("yes")
		}
		t.Row(strconv.Itoa(s.Field), strconv.Itoa(s.Line),
			hex(sum.Stats.Min), hex(sum.Stats.Max), f1(sum.Stats.Mean),
			f1(sum.MinIRE), f1(sum.MaxIRE), f1(sum.MinMV), f1(sum.MaxMV), signal)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", header(l.Run), t.Render())
	return err
}

// RenderConvert writes a one-table summary of a conversion.
func RenderConvert(w io.Writer, c Convert) error {
	t := newTable("Stage", "Geometry")
	t.Row("container", c.Reported.String())
	t.Row("decoded", c.Decoded.String())
	t.Row("output "+c.Format, c.Output.String())
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", header(c.Run), t.Render(),
		dimStyle.Render(fmt.Sprintf("wrote %d bytes to %s", c.Bytes, c.Path)))
	return err
}

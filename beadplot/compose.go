package beadplot

import (
	"fmt"
	"strings"
)

// Dash is the stroke style of a trace.
type Dash string

const (
	DashSolid  Dash = "solid"
	DashDashed Dash = "dashed"
)

// Trace widths in pixels.
const (
	BackgroundWidth = 1.0
	OverlayWidth    = 2.0
)

// BackgroundLabel names the full-range trace of every chart.
const BackgroundLabel = "All Data"

// Trace is one line of a chart.
type Trace struct {
	Name       string
	Legend     string
	X          []float64
	Y          []float64
	Color      string
	Width      float64
	Dash       Dash
	ShowLegend bool
}

// ChartSpec describes one chart independent of the rendering library.
type ChartSpec struct {
	Title  string
	XLabel string
	YLabel string
	Traces []Trace
}

// Compose builds the two stacked chart specs, one per tracked channel. Segments
// are drawn in the given order so later ones paint over earlier ones.
func Compose(series *Series, segments []Segment, style ChartStyle) [2]ChartSpec {
	var specs [2]ChartSpec
	n := series.Len()
	for ch := 0; ch < 2; ch++ {
		label := style.ChannelLabels[ch]
		if label == "" && series != nil {
			label = series.Names[ch]
		}
		spec := ChartSpec{
			Title:  fmt.Sprintf("%s (All Indices)", label),
			XLabel: "Index",
			YLabel: label,
		}
		if n > 0 {
			xs, ys := series.Window(ch, 0, n-1)
			spec.Traces = append(spec.Traces, Trace{
				Name:       BackgroundLabel,
				Legend:     BackgroundLabel,
				X:          xs,
				Y:          ys,
				Color:      style.BackgroundColor,
				Width:      BackgroundWidth,
				Dash:       DashSolid,
				ShowLegend: true,
			})
		}
		seen := map[string]struct{}{BackgroundLabel: {}}
		for _, seg := range segments {
			xs, ys := series.Window(ch, seg.StartIndex, seg.EndIndex)
			if len(xs) == 0 {
				continue
			}
			legend := LegendLabel(seg)
			_, dup := seen[legend]
			seen[legend] = struct{}{}
			spec.Traces = append(spec.Traces, Trace{
				Name:       SegmentLabel(seg),
				Legend:     legend,
				X:          xs,
				Y:          ys,
				Color:      ClassColor(style, seg.Class),
				Width:      OverlayWidth,
				Dash:       DashFor(seg.IsTest),
				ShowLegend: !dup,
			})
		}
		specs[ch] = spec
	}
	return specs
}

// ClassColor looks the class up in the palette and falls back for unmapped classes.
func ClassColor(style ChartStyle, class float64) string {
	if c, ok := style.Palette[ClassKey(class)]; ok && c != "" {
		return c
	}
	return style.FallbackColor
}

// DashFor returns dashed strokes for test beads and solid ones for training beads.
func DashFor(isTest bool) Dash {
	if isTest {
		return DashDashed
	}
	return DashSolid
}

// SegmentLabel names a single overlay trace.
func SegmentLabel(seg Segment) string {
	parts := []string{"Class " + ClassKey(seg.Class)}
	if c := correctnessText(seg.Correct); c != "" {
		parts = append(parts, c)
	}
	return fmt.Sprintf("Bead %d (%s)", seg.BeadNumber, strings.Join(parts, ", "))
}

// LegendLabel is the legend entry shared by every segment with the same
// class, correctness and split.
func LegendLabel(seg Segment) string {
	var parts []string
	if c := correctnessText(seg.Correct); c != "" {
		parts = append(parts, c)
	}
	if seg.IsTest {
		parts = append(parts, "test")
	} else {
		parts = append(parts, "train")
	}
	return fmt.Sprintf("Class %s (%s)", ClassKey(seg.Class), strings.Join(parts, ", "))
}

func correctnessText(c *bool) string {
	switch {
	case c == nil:
		return ""
	case *c:
		return "Correct"
	default:
		return "Incorrect"
	}
}

package beadplot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/colornames"
)

var dashPattern = []float64{6, 4}

const minDotWidth = 3.0

// RenderChart draws one chart spec into an image of w x h pixels.
func RenderChart(spec ChartSpec, w, h int) (image.Image, error) {
	series, legend := buildSeries(spec.Traces)
	if len(series) == 0 {
		return nil, errors.New("chart has no finite samples")
	}
	xr, yr := paddedRanges(spec.Traces)
	ch := chart.Chart{
		Title:      spec.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: spec.XLabel},
		YAxis:      chart.YAxis{Name: spec.YLabel},
		Series:     series,
	}
	if xr != nil {
		ch.XAxis.Range = xr
	}
	if yr != nil {
		ch.YAxis.Range = yr
	}
	// Legend only reads Series from its chart, so a shallow copy limited to the
	// legend-visible series keeps repeated labels out of the box.
	legendSrc := ch
	legendSrc.Series = legend
	ch.Elements = []chart.Renderable{chart.Legend(&legendSrc)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", spec.Title, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", spec.Title, err)
	}
	return img, nil
}

// RenderStacked renders both channel charts and stacks them vertically.
func RenderStacked(specs [2]ChartSpec, w, h int) (image.Image, error) {
	var imgs [2]image.Image
	for i, spec := range specs {
		img, err := RenderChart(spec, w, h)
		if err != nil {
			return nil, err
		}
		imgs[i] = img
	}
	return stack(imgs[0], imgs[1]), nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Blank returns a plain white placeholder image.
func Blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func stack(top, bottom image.Image) image.Image {
	tb, bb := top.Bounds(), bottom.Bounds()
	width := tb.Dx()
	if bb.Dx() > width {
		width = bb.Dx()
	}
	out := image.NewRGBA(image.Rect(0, 0, width, tb.Dy()+bb.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, tb.Dx(), tb.Dy()), top, tb.Min, draw.Over)
	draw.Draw(out, image.Rect(0, tb.Dy(), bb.Dx(), tb.Dy()+bb.Dy()), bottom, bb.Min, draw.Over)
	return out
}

// buildSeries converts traces into go-chart series. NaN samples split a trace
// into separate runs so gaps stay visible instead of poisoning the axis range.
func buildSeries(traces []Trace) (all []chart.Series, legend []chart.Series) {
	for _, tr := range traces {
		style := chart.Style{
			StrokeColor: parseColor(tr.Color),
			StrokeWidth: tr.Width,
		}
		if tr.Dash == DashDashed {
			style.StrokeDashArray = dashPattern
		}
		for i, run := range finiteRuns(tr.X, tr.Y) {
			s := chart.ContinuousSeries{
				Name:    tr.Legend,
				XValues: run[0],
				YValues: run[1],
				Style:   style,
			}
			// A lone sample has no segment to stroke.
			if len(run[0]) == 1 {
				s.Style.DotColor = style.StrokeColor
				s.Style.DotWidth = math.Max(minDotWidth, tr.Width*1.5)
			}
			all = append(all, s)
			if i == 0 && tr.ShowLegend {
				legend = append(legend, s)
			}
		}
	}
	return all, legend
}

func finiteRuns(xs, ys []float64) [][2][]float64 {
	var runs [][2][]float64
	var cur [2][]float64
	flush := func() {
		if len(cur[0]) > 0 {
			runs = append(runs, cur)
		}
		cur = [2][]float64{}
	}
	for i := range xs {
		if i >= len(ys) || !isFinite(ys[i]) || !isFinite(xs[i]) {
			flush()
			continue
		}
		cur[0] = append(cur[0], xs[i])
		cur[1] = append(cur[1], ys[i])
	}
	flush()
	return runs
}

// paddedRanges returns explicit axis ranges only when the data span is zero,
// which go-chart refuses to render.
func paddedRanges(traces []Trace) (x, y *chart.ContinuousRange) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, tr := range traces {
		for i := range tr.X {
			if i >= len(tr.Y) || !isFinite(tr.X[i]) || !isFinite(tr.Y[i]) {
				continue
			}
			minX, maxX = math.Min(minX, tr.X[i]), math.Max(maxX, tr.X[i])
			minY, maxY = math.Min(minY, tr.Y[i]), math.Max(maxY, tr.Y[i])
		}
	}
	if minX == maxX {
		x = &chart.ContinuousRange{Min: minX - 1, Max: maxX + 1}
	}
	if minY == maxY {
		y = &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}
	return x, y
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// parseColor accepts #rgb, #rrggbb and SVG colour names; anything else renders black.
func parseColor(v string) drawing.Color {
	v = strings.ToLower(strings.TrimSpace(v))
	if named, ok := colornames.Map[v]; ok {
		return drawing.Color{R: named.R, G: named.G, B: named.B, A: named.A}
	}
	hex := strings.TrimPrefix(v, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return drawing.ColorBlack
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return drawing.ColorBlack
	}
	return drawing.Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}
}

// ValidColor reports whether parseColor understands v.
func ValidColor(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if _, ok := colornames.Map[v]; ok {
		return true
	}
	hex := strings.TrimPrefix(v, "#")
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 32)
	return err == nil
}

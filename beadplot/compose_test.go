package beadplot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultStyle() ChartStyle {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg.Style()
}

func TestComposeTwoBeadScenario(t *testing.T) {
	s := mustSummary(t, `file,start_index,end_index,bead_number,is_test,M_Prediction
a.csv,0,4,1,false,1.0
a.csv,5,9,2,true,2.0
`)
	style := defaultStyle()
	series := mustSeries(t, 10)
	segs := Resolve(s, "a.csv", mustModel(t, s, "M"))
	specs := Compose(series, segs, style)

	for ch, spec := range specs {
		require.Len(t, spec.Traces, 3, "channel %d", ch)

		bg := spec.Traces[0]
		assert.Equal(t, BackgroundLabel, bg.Name)
		assert.Equal(t, style.BackgroundColor, bg.Color)
		assert.Equal(t, BackgroundWidth, bg.Width)
		assert.Len(t, bg.X, 10)

		first, second := spec.Traces[1], spec.Traces[2]
		assert.Equal(t, style.Palette["1"], first.Color)
		assert.Equal(t, DashSolid, first.Dash)
		assert.Equal(t, []float64{0, 1, 2, 3, 4}, first.X)

		assert.Equal(t, style.Palette["2"], second.Color)
		assert.Equal(t, DashDashed, second.Dash)
		assert.Equal(t, []float64{5, 6, 7, 8, 9}, second.X)
	}
	assert.Equal(t, []float64{5, 6, 7, 8, 9}, specs[0].Traces[2].Y)
	assert.Equal(t, []float64{50, 60, 70, 80, 90}, specs[1].Traces[2].Y)
}

func TestComposeNullPredictionDrawsBackgroundOnly(t *testing.T) {
	s := mustSummary(t, `file,start_index,end_index,bead_number,is_test,M_Prediction
a.csv,0,4,1,false,
`)
	specs := Compose(mustSeries(t, 10), Resolve(s, "a.csv", mustModel(t, s, "M")), defaultStyle())
	for _, spec := range specs {
		require.Len(t, spec.Traces, 1)
		assert.Equal(t, BackgroundLabel, spec.Traces[0].Name)
	}
}

func TestComposeUnknownClassUsesFallback(t *testing.T) {
	style := defaultStyle()
	specs := Compose(mustSeries(t, 10), []Segment{{StartIndex: 2, EndIndex: 3, Class: 9.0}}, style)
	require.Len(t, specs[0].Traces, 2)
	assert.Equal(t, style.FallbackColor, specs[0].Traces[1].Color)
}

func TestComposeLegendDeduplication(t *testing.T) {
	correct := true
	segs := []Segment{
		{BeadNumber: 1, StartIndex: 0, EndIndex: 1, Class: 1, Correct: &correct},
		{BeadNumber: 2, StartIndex: 2, EndIndex: 3, Class: 1, Correct: &correct},
		{BeadNumber: 3, StartIndex: 4, EndIndex: 5, Class: 2},
		{BeadNumber: 4, StartIndex: 6, EndIndex: 7, Class: 1, Correct: &correct, IsTest: true},
	}
	specs := Compose(mustSeries(t, 10), segs, defaultStyle())
	traces := specs[0].Traces
	require.Len(t, traces, 5)

	assert.True(t, traces[1].ShowLegend)
	assert.False(t, traces[2].ShowLegend, "same class and correctness as bead 1")
	assert.True(t, traces[3].ShowLegend)
	assert.True(t, traces[4].ShowLegend, "test split gets its own entry")

	assert.Equal(t, "Bead 2 (Class 1, Correct)", traces[2].Name)
	assert.Equal(t, "Class 1 (Correct, train)", traces[2].Legend)
	assert.Equal(t, "Bead 3 (Class 2)", traces[3].Name)
	assert.Equal(t, "Class 1 (Correct, test)", traces[4].Legend)
}

func TestComposeOverlapsKeepTableOrder(t *testing.T) {
	segs := []Segment{
		{BeadNumber: 1, StartIndex: 0, EndIndex: 6, Class: 0},
		{BeadNumber: 2, StartIndex: 3, EndIndex: 9, Class: 3},
	}
	traces := Compose(mustSeries(t, 10), segs, defaultStyle())[1].Traces
	require.Len(t, traces, 3)
	assert.Equal(t, 1, indexOfBead(traces, "Bead 1 (Class 0)"))
	assert.Equal(t, 2, indexOfBead(traces, "Bead 2 (Class 3)"))
}

func TestComposeIsIdempotent(t *testing.T) {
	s := mustSummary(t, sampleSummary)
	m := mustModel(t, s, "RF")
	series := mustSeries(t, 10)

	a := Compose(series, Resolve(s, "a.csv", m), defaultStyle())
	b := Compose(series, Resolve(s, "a.csv", m), defaultStyle())
	assert.Equal(t, a, b)
}

func TestComposeChannelLabels(t *testing.T) {
	style := defaultStyle()
	style.ChannelLabels = [2]string{"", "Voltage (V)"}
	specs := Compose(mustSeries(t, 3), nil, style)
	assert.Equal(t, "current", specs[0].YLabel)
	assert.Equal(t, "Voltage (V)", specs[1].YLabel)
	assert.Equal(t, "Index", specs[1].XLabel)
}

func TestComposeSkipsOutOfRangeSegments(t *testing.T) {
	specs := Compose(mustSeries(t, 5), []Segment{{StartIndex: 3, EndIndex: 7, Class: 1}}, defaultStyle())
	assert.Len(t, specs[0].Traces, 1)
}

func TestComposeKeepsGaps(t *testing.T) {
	series := &Series{Channels: [2][]float64{{1, math.NaN(), 3}, {4, 5, 6}}}
	specs := Compose(series, nil, defaultStyle())
	require.Len(t, specs[0].Traces, 1)
	assert.True(t, math.IsNaN(specs[0].Traces[0].Y[1]))
}

func TestClassColor(t *testing.T) {
	style := defaultStyle()
	assert.Equal(t, "#1f77b4", ClassColor(style, 0))
	assert.Equal(t, "#9467bd", ClassColor(style, 4.0))
	assert.Equal(t, style.FallbackColor, ClassColor(style, 1.5))
	assert.Equal(t, style.FallbackColor, ClassColor(style, -1))
}

func indexOfBead(traces []Trace, name string) int {
	for i, tr := range traces {
		if tr.Name == name {
			return i
		}
	}
	return -1
}

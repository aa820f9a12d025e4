package beadplot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSummary = `file,start_index,end_index,bead_number,is_test,RF_Prediction,RF_Correct,CNN_Prediction
a.csv,0,4,1,False,1.0,True,2.0
a.csv,5,9,2,True,2.0,False,
b.csv,0,3,1,False,,,0.0
data/run1/a.csv,2,3,3,True,9.0,,1.0
`

func rawCSV(n int) string {
	var b strings.Builder
	b.WriteString("current,voltage\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d,%d\n", i, i*10)
	}
	return b.String()
}

func mustSummary(t *testing.T, text string) *Summary {
	t.Helper()
	s, err := ParseSummary(strings.NewReader(text), SummaryColumns{})
	require.NoError(t, err)
	return s
}

func mustSeries(t *testing.T, n int) *Series {
	t.Helper()
	s, err := ParseSeries(strings.NewReader(rawCSV(n)))
	require.NoError(t, err)
	return s
}

func mustModel(t *testing.T, s *Summary, name string) ModelColumns {
	t.Helper()
	m, ok := s.Model(name)
	require.True(t, ok, "model %s", name)
	return m
}

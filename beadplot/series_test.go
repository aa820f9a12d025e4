package beadplot

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeriesWithHeader(t *testing.T) {
	s, err := ParseSeries(strings.NewReader("\ufeffcurrent,voltage,extra\n1,10,x\n2,20,y\n3,30,z\n"))
	require.NoError(t, err)
	assert.Equal(t, [2]string{"current", "voltage"}, s.Names)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{1, 2, 3}, s.Channels[0])
	assert.Equal(t, []float64{10, 20, 30}, s.Channels[1])
}

func TestParseSeriesWithoutHeader(t *testing.T) {
	s, err := ParseSeries(strings.NewReader("1.5,2\n2.5,3\n"))
	require.NoError(t, err)
	assert.Equal(t, [2]string{"#1", "#2"}, s.Names)
	assert.Equal(t, []float64{1.5, 2.5}, s.Channels[0])
}

func TestParseSeriesMissingFirstSample(t *testing.T) {
	s, err := ParseSeries(strings.NewReader(",10\n1,20\n2,30\n"))
	require.NoError(t, err)
	assert.Equal(t, [2]string{"#1", "#2"}, s.Names)
	require.Equal(t, 3, s.Len())
	assert.True(t, math.IsNaN(s.Channels[0][0]))
	assert.Equal(t, []float64{10, 20, 30}, s.Channels[1])

	s, err = ParseSeries(strings.NewReader("NaN,null\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	s, err = ParseSeries(strings.NewReader(",voltage\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, [2]string{"#1", "voltage"}, s.Names)
	assert.Equal(t, 1, s.Len())
}

func TestParseSeriesKeepsRowPositions(t *testing.T) {
	s, err := ParseSeries(strings.NewReader("a,b\n1,2\n,3\nbad,4\n5,6\n"))
	require.NoError(t, err)
	require.Equal(t, 4, s.Len())
	assert.True(t, math.IsNaN(s.Channels[0][1]))
	assert.True(t, math.IsNaN(s.Channels[0][2]))
	assert.Equal(t, 5.0, s.Channels[0][3])
	assert.Equal(t, 4.0, s.Channels[1][2])
}

func TestParseSeriesErrors(t *testing.T) {
	_, err := ParseSeries(strings.NewReader("only\n1\n2\n"))
	require.ErrorIs(t, err, ErrTooFewColumns)

	_, err = ParseSeries(strings.NewReader("a,b\n"))
	require.Error(t, err)

	_, err = ParseSeries(strings.NewReader(""))
	require.Error(t, err)
}

func TestSeriesWindow(t *testing.T) {
	s := mustSeries(t, 10)

	xs, ys := s.Window(1, 2, 4)
	assert.Equal(t, []float64{2, 3, 4}, xs)
	assert.Equal(t, []float64{20, 30, 40}, ys)

	xs, ys = s.Window(0, 9, 9)
	assert.Equal(t, []float64{9}, xs)
	assert.Equal(t, []float64{9}, ys)

	xs, _ = s.Window(0, 5, 10)
	assert.Nil(t, xs)
	xs, _ = s.Window(2, 0, 1)
	assert.Nil(t, xs)
	xs, _ = s.Window(0, 4, 3)
	assert.Nil(t, xs)

	var empty *Series
	assert.Equal(t, 0, empty.Len())
}

func TestLoadSeriesFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")
	require.NoError(t, os.WriteFile(path, []byte(rawCSV(5)), 0o644))

	s, err := LoadSeries(path)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Len())

	_, err = LoadSeries(filepath.Join(t.TempDir(), "nope.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

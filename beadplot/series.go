package beadplot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// Series holds the two tracked channels of a raw data file. Row position is
// the index that summary start/end offsets refer to.
type Series struct {
	Names    [2]string
	Channels [2][]float64
}

// Len returns the number of rows.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Channels[0])
}

// Window returns the index and values of channel ch over [start, end] inclusive.
func (s *Series) Window(ch, start, end int) ([]float64, []float64) {
	if s == nil || ch < 0 || ch > 1 || start > end || start < 0 || end >= s.Len() {
		return nil, nil
	}
	xs := make([]float64, 0, end-start+1)
	ys := make([]float64, 0, end-start+1)
	for i := start; i <= end; i++ {
		xs = append(xs, float64(i))
		ys = append(ys, s.Channels[ch][i])
	}
	return xs, ys
}

// LoadSeries reads a raw data CSV from disk.
func LoadSeries(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	series, err := ParseSeries(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return series, nil
}

// ParseSeries parses a raw data table. The first two columns are the tracked
// channels; a leading row is a header only when one of them holds text.
func ParseSeries(r io.Reader) (*Series, error) {
	reader := csv.NewReader(newTextReader(r))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	out := &Series{Names: [2]string{"#1", "#2"}}
	first := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if isBlankRow(row) {
			continue
		}
		if len(row) < 2 {
			return nil, ErrTooFewColumns
		}
		if first {
			first = false
			if isHeaderCell(row[0]) || isHeaderCell(row[1]) {
				for i := 0; i < 2; i++ {
					if name := cleanCell(row[i]); name != "" {
						out.Names[i] = name
					}
				}
				continue
			}
		}
		for i := 0; i < 2; i++ {
			out.Channels[i] = append(out.Channels[i], parseSample(row[i]))
		}
	}
	if out.Len() == 0 {
		return nil, errors.New("no data rows")
	}
	return out, nil
}

// isHeaderCell reports whether a first-row cell is a column name. Empty and
// null cells are missing samples, not names.
func isHeaderCell(v string) bool {
	v = cleanCell(v)
	if isNull(v) {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err != nil
}

func parseSample(v string) float64 {
	v = cleanCell(v)
	if isNull(v) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

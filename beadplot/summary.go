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
	"strings"
)

// Summary is the parsed summary table with its validated model schema.
type Summary struct {
	Name   string
	Rows   []SummaryRow
	models []ModelColumns
}

// Models returns the model column families in header order.
func (s *Summary) Models() []ModelColumns {
	if s == nil {
		return nil
	}
	out := make([]ModelColumns, len(s.models))
	copy(out, s.models)
	return out
}

// ModelNames returns the prediction column names offered for selection.
func (s *Summary) ModelNames() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.models))
	for i, m := range s.models {
		out[i] = m.Prediction
	}
	return out
}

// Model looks a model up by its name or by its prediction column.
func (s *Summary) Model(name string) (ModelColumns, bool) {
	if s == nil {
		return ModelColumns{}, false
	}
	name = strings.TrimSpace(name)
	for _, m := range s.models {
		if strings.EqualFold(m.Name, name) || strings.EqualFold(m.Prediction, name) {
			return m, true
		}
	}
	return ModelColumns{}, false
}

// Files returns the distinct file references in table order.
func (s *Summary) Files() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, row := range s.Rows {
		if _, ok := seen[row.File]; ok {
			continue
		}
		seen[row.File] = struct{}{}
		out = append(out, row.File)
	}
	return out
}

// LoadSummary reads a summary CSV from disk.
func LoadSummary(path string, cols SummaryColumns) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	summary, err := ParseSummary(f, cols)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	summary.Name = filepath.Base(path)
	return summary, nil
}

// ParseSummary parses a summary table and validates its schema.
func ParseSummary(r io.Reader, cols SummaryColumns) (*Summary, error) {
	cols = cols.withDefaults()
	reader := csv.NewReader(newTextReader(r))
	reader.FieldsPerRecord = -1
	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty summary file")
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	header := make([]string, len(first))
	for i, c := range first {
		header[i] = cleanCell(c)
	}
	layout, err := resolveSummaryLayout(header, cols)
	if err != nil {
		return nil, err
	}

	out := &Summary{models: layout.models}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlankRow(row) {
			continue
		}
		parsed, err := parseSummaryRow(row, layout)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		parsed.Line = line
		out.Rows = append(out.Rows, parsed)
	}
	return out, nil
}

type summaryLayout struct {
	file, start, end, bead, test int
	models                       []ModelColumns
	prediction                   map[string]int
	correct                      map[string]int
}

func resolveSummaryLayout(header []string, cols SummaryColumns) (summaryLayout, error) {
	layout := summaryLayout{
		prediction: make(map[string]int),
		correct:    make(map[string]int),
	}
	required := []struct {
		name       string
		candidates []string
		dst        *int
	}{
		{"file", cols.File, &layout.file},
		{"start_index", cols.StartIndex, &layout.start},
		{"end_index", cols.EndIndex, &layout.end},
		{"bead_number", cols.BeadNumber, &layout.bead},
		{"is_test", cols.IsTest, &layout.test},
	}
	for _, req := range required {
		idx := findColumn(header, req.candidates)
		if idx < 0 {
			return layout, fmt.Errorf("%w: %s", ErrMissingColumn, req.name)
		}
		*req.dst = idx
	}

	for i, col := range header {
		if !strings.HasSuffix(col, PredictionSuffix) {
			continue
		}
		name := strings.TrimSuffix(col, PredictionSuffix)
		if name == "" {
			continue
		}
		m := ModelColumns{Name: name, Prediction: col}
		layout.prediction[name] = i
		if j := findColumn(header, []string{name + CorrectSuffix}); j >= 0 {
			m.Correct = header[j]
			layout.correct[name] = j
		}
		layout.models = append(layout.models, m)
	}
	return layout, nil
}

func parseSummaryRow(row []string, layout summaryLayout) (SummaryRow, error) {
	out := SummaryRow{
		Predictions: make(map[string]*float64, len(layout.models)),
		Correct:     make(map[string]*bool, len(layout.models)),
	}
	out.File = NormalizeName(cell(row, layout.file))
	if out.File == "" {
		return out, errors.New("file is empty")
	}
	var err error
	if out.StartIndex, err = parseIndex(cell(row, layout.start)); err != nil {
		return out, fmt.Errorf("start_index: %w", err)
	}
	if out.EndIndex, err = parseIndex(cell(row, layout.end)); err != nil {
		return out, fmt.Errorf("end_index: %w", err)
	}
	if out.EndIndex < out.StartIndex {
		return out, fmt.Errorf("end_index %d is before start_index %d", out.EndIndex, out.StartIndex)
	}
	if v := cell(row, layout.bead); !isNull(v) {
		if out.BeadNumber, err = parseInteger(v); err != nil {
			return out, fmt.Errorf("bead_number: %w", err)
		}
	}
	if out.IsTest, err = parseBool(cell(row, layout.test)); err != nil {
		return out, fmt.Errorf("is_test: %w", err)
	}
	for _, m := range layout.models {
		if v := cell(row, layout.prediction[m.Name]); !isNull(v) {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(f) {
				return out, fmt.Errorf("%s: invalid class %q", m.Prediction, v)
			}
			out.Predictions[m.Name] = &f
		}
		if idx, ok := layout.correct[m.Name]; ok {
			if v := cell(row, idx); !isNull(v) {
				b, err := parseBool(v)
				if err != nil {
					return out, fmt.Errorf("%s: %w", m.Correct, err)
				}
				out.Correct[m.Name] = &b
			}
		}
	}
	return out, nil
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if cleanCell(v) != "" {
			return false
		}
	}
	return true
}

func isNull(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "null", "na", "n/a", "none", "<na>":
		return true
	}
	return false
}

func parseIndex(v string) (int, error) {
	n, err := parseInteger(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative index %d", n)
	}
	return n, nil
}

// parseInteger accepts "12" and the "12.0" spelling produced by float columns.
func parseInteger(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return int(f), nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "t", "yes", "y", "1", "1.0":
		return true, nil
	case "false", "f", "no", "n", "0", "0.0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", v)
}

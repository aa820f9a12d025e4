package beadplot

import (
	"encoding/json"
	"strconv"
)

// ClipMode controls what happens to segments that reach outside the raw series.
type ClipMode string

const (
	// ClipTruncate trims out-of-range segments to the series bounds.
	ClipTruncate ClipMode = "clip"
	// ClipSkip drops any segment that is not fully inside the series.
	ClipSkip ClipMode = "skip"
	// ClipError fails the render when a segment is out of range.
	ClipError ClipMode = "error"
)

// ModelColumns names the prediction/correctness column pair of one model.
type ModelColumns struct {
	Name       string `json:"name"`
	Prediction string `json:"prediction"`
	Correct    string `json:"correct,omitempty"`
}

// SummaryRow is a single bead range of the summary table.
type SummaryRow struct {
	Line        int
	File        string
	StartIndex  int
	EndIndex    int
	BeadNumber  int
	IsTest      bool
	Predictions map[string]*float64
	Correct     map[string]*bool
}

// Segment is the resolved, read-only view of a summary row for one model.
type Segment struct {
	File       string  `json:"file"`
	StartIndex int     `json:"startIndex"`
	EndIndex   int     `json:"endIndex"`
	Class      float64 `json:"class"`
	BeadNumber int     `json:"beadNumber"`
	IsTest     bool    `json:"isTest"`
	Correct    *bool   `json:"correct,omitempty"`
}

// Len returns the number of samples covered by the segment.
func (s Segment) Len() int {
	return s.EndIndex - s.StartIndex + 1
}

// Skipped records a segment that was dropped or trimmed while clipping.
type Skipped struct {
	Segment Segment
	Reason  string
}

// ChartStyle carries the colours and labels used by the composer.
type ChartStyle struct {
	Palette         map[string]string
	FallbackColor   string
	BackgroundColor string
	ChannelLabels   [2]string
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	SummaryPath     string            `json:"summaryPath"`
	DataPath        string            `json:"dataPath"`
	Model           string            `json:"model"`
	ClipMode        ClipMode          `json:"clipMode"`
	ChannelLabels   []string          `json:"channelLabels"`
	Palette         map[string]string `json:"palette"`
	FallbackColor   string            `json:"fallbackColor"`
	BackgroundColor string            `json:"backgroundColor"`
	ChartWidth      int               `json:"chartWidth"`
	ChartHeight     int               `json:"chartHeight"`
	CacheTTLMinutes int               `json:"cacheTtlMinutes"`
	OutputDir       string            `json:"outputDir"`
	Columns         SummaryColumns    `json:"columns"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	switch c.ClipMode {
	case ClipTruncate, ClipSkip, ClipError:
	default:
		c.ClipMode = ClipTruncate
	}
	if len(c.ChannelLabels) < 2 {
		defaults := []string{"First Column Values", "Second Column Values"}
		labels := append([]string(nil), c.ChannelLabels...)
		c.ChannelLabels = append(labels, defaults[len(labels):]...)
	}
	if len(c.Palette) == 0 {
		c.Palette = DefaultPalette()
	}
	if c.FallbackColor == "" {
		c.FallbackColor = "#000000"
	}
	if c.BackgroundColor == "" {
		c.BackgroundColor = "#808080"
	}
	if c.ChartWidth <= 0 {
		c.ChartWidth = 1200
	}
	if c.ChartHeight <= 0 {
		c.ChartHeight = 420
	}
	if c.CacheTTLMinutes == 0 {
		c.CacheTTLMinutes = 30
	}
	if c.OutputDir == "" {
		c.OutputDir = "plots"
	}
	c.Columns = c.Columns.withDefaults()
}

// Style derives the composer style from the configuration.
func (c Config) Style() ChartStyle {
	cfg := c.Clone()
	cfg.ApplyDefaults()
	return ChartStyle{
		Palette:         cfg.Palette,
		FallbackColor:   cfg.FallbackColor,
		BackgroundColor: cfg.BackgroundColor,
		ChannelLabels:   [2]string{cfg.ChannelLabels[0], cfg.ChannelLabels[1]},
	}
}

// DefaultPalette returns the built-in class to colour table.
func DefaultPalette() map[string]string {
	return map[string]string{
		"0": "#1f77b4",
		"1": "#2ca02c",
		"2": "#ff7f0e",
		"3": "#d62728",
		"4": "#9467bd",
	}
}

// ClassKey formats a class id the way palette keys and labels spell it.
func ClassKey(class float64) string {
	return strconv.FormatFloat(class, 'f', -1, 64)
}

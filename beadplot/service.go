package beadplot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Plot is the result of one render request.
type Plot struct {
	File     string
	Model    string
	Rows     int
	Segments []Segment
	Skipped  []Skipped
	Charts   [2]ChartSpec
}

// Service loads inputs and turns a (summary, file, model) selection into charts.
type Service struct {
	cfgMu sync.RWMutex
	cfg   Config

	cache  *SummaryCache
	logger *log.Logger
}

// NewService constructs a service with the given configuration.
func NewService(cfg Config, logger *log.Logger) *Service {
	cfg.ApplyDefaults()
	s := &Service{
		cfg:    cfg,
		cache:  NewSummaryCache(time.Duration(cfg.CacheTTLMinutes) * time.Minute),
		logger: logger,
	}
	s.checkColors(cfg)
	return s
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration. The summary cache is kept.
func (s *Service) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
	s.checkColors(cfg)
}

// checkColors warns about palette entries that would render black.
func (s *Service) checkColors(cfg Config) {
	keys := make([]string, 0, len(cfg.Palette))
	for k := range cfg.Palette {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !ValidColor(cfg.Palette[k]) {
			s.logf("[WARN] Unknown colour %q for class %s, drawing it black", cfg.Palette[k], k)
		}
	}
	for name, v := range map[string]string{"fallbackColor": cfg.FallbackColor, "backgroundColor": cfg.BackgroundColor} {
		if !ValidColor(v) {
			s.logf("[WARN] Unknown colour %q for %s, drawing it black", v, name)
		}
	}
}

// LoadSummary reads and parses a summary file, reusing a cached parse when the content is unchanged.
func (s *Service) LoadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read summary %s: %w", filepath.Base(path), err)
	}
	return s.LoadSummaryBytes(filepath.Base(path), data)
}

// LoadSummaryBytes parses summary content such as an uploaded file.
func (s *Service) LoadSummaryBytes(name string, data []byte) (*Summary, error) {
	cols := s.Config().Columns
	key := ContentKey(data, cols)
	if cached, ok := s.cache.Get(key); ok {
		s.logf("Summary %s served from cache", name)
		named := *cached
		named.Name = name
		return &named, nil
	}
	summary, err := ParseSummary(bytes.NewReader(data), cols)
	if err != nil {
		return nil, fmt.Errorf("parse summary %s: %w", name, err)
	}
	summary.Name = name
	s.cache.Put(key, summary)
	s.logf("Loaded summary %s: %d rows, %d files, %d models", name, len(summary.Rows), len(summary.Files()), len(summary.Models()))
	return summary, nil
}

// OpenSource opens the raw data location and logs what it found.
func (s *Service) OpenSource(path string) (Source, error) {
	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	s.logf("Opened data source %s: %d csv files", src.Name(), len(src.Files()))
	return src, nil
}

// Plot loads the raw file for fileName and composes the highlighted charts.
// An empty model name yields the background traces only.
func (s *Service) Plot(summary *Summary, src Source, fileName, modelName string) (*Plot, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no data source loaded", ErrFileNotFound)
	}
	cfg := s.Config()
	rc, err := src.Open(fileName)
	if err != nil {
		return nil, err
	}
	series, err := ParseSeries(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}

	plot := &Plot{File: fileName, Rows: series.Len()}
	if modelName != "" {
		model, ok := summary.Model(modelName)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModel, modelName)
		}
		plot.Model = model.Prediction
		segs := Resolve(summary, fileName, model)
		plot.Segments, plot.Skipped, err = ClipSegments(segs, series.Len(), cfg.ClipMode)
		if err != nil {
			return nil, fmt.Errorf("clip %s: %w", fileName, err)
		}
		for _, sk := range plot.Skipped {
			s.logf("Bead %d of %s: %s", sk.Segment.BeadNumber, fileName, sk.Reason)
		}
	}
	plot.Charts = Compose(series, plot.Segments, cfg.Style())
	s.logf("Composed %s: %d rows, %d segments", fileName, plot.Rows, len(plot.Segments))
	return plot, nil
}

// Render draws both charts of a plot at the configured size.
func (s *Service) Render(plot *Plot) (image.Image, error) {
	if plot == nil {
		return nil, errors.New("nothing to render")
	}
	cfg := s.Config()
	return RenderStacked(plot.Charts, cfg.ChartWidth, cfg.ChartHeight)
}

// RenderCharts draws each chart of a plot separately.
func (s *Service) RenderCharts(plot *Plot) ([2]image.Image, error) {
	var out [2]image.Image
	if plot == nil {
		return out, errors.New("nothing to render")
	}
	cfg := s.Config()
	for i, spec := range plot.Charts {
		img, err := RenderChart(spec, cfg.ChartWidth, cfg.ChartHeight)
		if err != nil {
			return out, err
		}
		out[i] = img
	}
	return out, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

package beadplot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultConfigFile = "config.json"

// LoadConfig loads configuration from the given path or the default config.json.
// Environment overrides are applied on top of the file.
func LoadConfig(path string) (Config, error) {
	cfg, err := ReadConfigFile(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}

// ReadConfigFile returns only what is stored on disk, without environment
// overrides or defaults. A missing file yields a zero Config. Callers that
// save settings back start from this so temporary BEADPLOT_* values are not persisted.
func ReadConfigFile(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from BEADPLOT_* environment variables.
func (c *Config) ApplyEnv() {
	c.SummaryPath = getenv("BEADPLOT_SUMMARY", c.SummaryPath)
	c.DataPath = getenv("BEADPLOT_DATA", c.DataPath)
	c.Model = getenv("BEADPLOT_MODEL", c.Model)
	c.ClipMode = ClipMode(getenv("BEADPLOT_CLIP_MODE", string(c.ClipMode)))
	c.OutputDir = getenv("BEADPLOT_OUTPUT_DIR", c.OutputDir)
	c.ChartWidth = getenvInt("BEADPLOT_CHART_WIDTH", c.ChartWidth)
	c.ChartHeight = getenvInt("BEADPLOT_CHART_HEIGHT", c.ChartHeight)
	c.CacheTTLMinutes = getenvInt("BEADPLOT_CACHE_TTL_MINUTES", c.CacheTTLMinutes)
	if v := strings.TrimSpace(os.Getenv("BEADPLOT_CHANNEL_LABELS")); v != "" {
		parts := strings.Split(v, ",")
		labels := make([]string, 0, len(parts))
		for _, p := range parts {
			labels = append(labels, strings.TrimSpace(p))
		}
		c.ChannelLabels = labels
	}
}

func getenv(k, fallback string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

package app

import (
	"fmt"

	"yashubustudio/beadplot/beadplot"
)

// fileOptions lists the summary's files when a summary is loaded, otherwise
// whatever the data source contains.
func fileOptions(summary *beadplot.Summary, src beadplot.Source) []string {
	if summary != nil && len(summary.Rows) > 0 {
		return summary.Files()
	}
	if src != nil {
		return src.Files()
	}
	return nil
}

func modelOptions(summary *beadplot.Summary) []string {
	return append([]string{noModelOption}, summary.ModelNames()...)
}

func statusText(plot *beadplot.Plot) string {
	if plot == nil {
		return ""
	}
	model := plot.Model
	if model == "" {
		model = "no model"
	}
	text := fmt.Sprintf("%s: %d rows, %d beads highlighted (%s)", plot.File, plot.Rows, len(plot.Segments), model)
	if n := len(plot.Skipped); n > 0 {
		text += fmt.Sprintf(", %d adjusted", n)
	}
	return text
}

func exportName(plot *beadplot.Plot) string {
	return beadplot.PlotFileName(plot.File, plot.Model)
}

// persistConfig applies mutate to the settings read from disk and writes them
// back. Environment overrides never reach the file this way.
func persistConfig(path string, stored beadplot.Config, mutate func(cfg *beadplot.Config)) (beadplot.Config, error) {
	stored = stored.Clone()
	mutate(&stored)
	return stored, beadplot.SaveConfig(path, stored)
}

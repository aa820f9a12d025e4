package beadplot

// SummaryColumns defines accepted header names for the fixed summary columns.
// Nil fields fall back to the built-in defaults, so callers override only what they need.
type SummaryColumns struct {
	File       []string `json:"file,omitempty"`
	StartIndex []string `json:"startIndex,omitempty"`
	EndIndex   []string `json:"endIndex,omitempty"`
	BeadNumber []string `json:"beadNumber,omitempty"`
	IsTest     []string `json:"isTest,omitempty"`
}

// Suffixes that identify per-model column families.
const (
	PredictionSuffix = "_Prediction"
	CorrectSuffix    = "_Correct"
)

func defaultSummaryColumns() SummaryColumns {
	return SummaryColumns{
		File:       []string{"file", "file_name", "filename"},
		StartIndex: []string{"start_index", "start"},
		EndIndex:   []string{"end_index", "end"},
		BeadNumber: []string{"bead_number", "bead"},
		IsTest:     []string{"is_test", "test"},
	}
}

// DefaultSummaryColumns returns the built-in header candidates.
func DefaultSummaryColumns() SummaryColumns {
	return defaultSummaryColumns().clone()
}

func (c SummaryColumns) withDefaults() SummaryColumns {
	defaults := defaultSummaryColumns()
	return SummaryColumns{
		File:       pickStrings(c.File, defaults.File),
		StartIndex: pickStrings(c.StartIndex, defaults.StartIndex),
		EndIndex:   pickStrings(c.EndIndex, defaults.EndIndex),
		BeadNumber: pickStrings(c.BeadNumber, defaults.BeadNumber),
		IsTest:     pickStrings(c.IsTest, defaults.IsTest),
	}
}

func (c SummaryColumns) clone() SummaryColumns {
	return SummaryColumns{
		File:       cloneStrings(c.File),
		StartIndex: cloneStrings(c.StartIndex),
		EndIndex:   cloneStrings(c.EndIndex),
		BeadNumber: cloneStrings(c.BeadNumber),
		IsTest:     cloneStrings(c.IsTest),
	}
}

func pickStrings(custom, fallback []string) []string {
	if len(custom) == 0 {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

package beadplot

import "fmt"

// Resolve returns the segments of fileName for one model in summary order.
// Rows without a prediction for the model are training or unlabeled ranges and are left out.
// When some rows name fileName exactly, base-name matches are ignored.
func Resolve(summary *Summary, fileName string, model ModelColumns) []Segment {
	if summary == nil {
		return nil
	}
	want := NormalizeName(fileName)
	exact := false
	for _, row := range summary.Rows {
		if row.File == want {
			exact = true
			break
		}
	}
	var out []Segment
	for _, row := range summary.Rows {
		if exact && row.File != want {
			continue
		}
		if !SameFile(row.File, want) {
			continue
		}
		pred := row.Predictions[model.Name]
		if pred == nil {
			continue
		}
		seg := Segment{
			File:       row.File,
			StartIndex: row.StartIndex,
			EndIndex:   row.EndIndex,
			Class:      *pred,
			BeadNumber: row.BeadNumber,
			IsTest:     row.IsTest,
		}
		if c := row.Correct[model.Name]; c != nil {
			v := *c
			seg.Correct = &v
		}
		out = append(out, seg)
	}
	return out
}

// ClipSegments enforces 0 <= start <= end <= n-1 for a series of n rows.
// In ClipTruncate mode segments are trimmed and dropped only when nothing is left;
// ClipSkip drops every segment that reaches outside; ClipError fails on the first one.
func ClipSegments(segs []Segment, n int, mode ClipMode) ([]Segment, []Skipped, error) {
	out := make([]Segment, 0, len(segs))
	var skipped []Skipped
	for _, seg := range segs {
		if seg.StartIndex >= 0 && seg.EndIndex < n && seg.StartIndex <= seg.EndIndex {
			out = append(out, seg)
			continue
		}
		reason := fmt.Sprintf("range [%d, %d] outside series of %d rows", seg.StartIndex, seg.EndIndex, n)
		switch mode {
		case ClipError:
			return nil, nil, fmt.Errorf("%w: bead %d %s", ErrSegmentOutOfRange, seg.BeadNumber, reason)
		case ClipSkip:
			skipped = append(skipped, Skipped{Segment: seg, Reason: reason})
		default:
			trimmed := seg
			if trimmed.StartIndex < 0 {
				trimmed.StartIndex = 0
			}
			if trimmed.EndIndex > n-1 {
				trimmed.EndIndex = n - 1
			}
			if trimmed.StartIndex > trimmed.EndIndex {
				skipped = append(skipped, Skipped{Segment: seg, Reason: reason})
				continue
			}
			skipped = append(skipped, Skipped{Segment: seg, Reason: "trimmed: " + reason})
			out = append(out, trimmed)
		}
	}
	return out, skipped, nil
}

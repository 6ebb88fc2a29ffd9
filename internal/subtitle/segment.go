package subtitle

import "strings"

// Segment is a single timed unit of recognized speech.
// Times are milliseconds from the start of the source media.
type Segment struct {
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Text  string `json:"text"`
}

// WithText returns a copy of the segment carrying new text with the same timing.
// Used when a translation replaces the recognized text.
func (s Segment) WithText(text string) Segment {
	return Segment{Start: s.Start, End: s.End, Text: text}
}

// Empty reports whether the segment carries no visible text.
func (s Segment) Empty() bool {
	return strings.TrimSpace(s.Text) == ""
}

// JoinTranscript concatenates the non-empty segment texts into a single
// space-separated transcript string.
func JoinTranscript(segments []Segment) string {
	var parts []string
	for _, seg := range segments {
		if seg.Empty() {
			continue
		}
		parts = append(parts, strings.TrimSpace(seg.Text))
	}
	return strings.Join(parts, " ")
}

package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MinDuration is the shortest display time for a rendered subtitle entry.
// Entries shorter than this are extended so fast speech stays readable.
const MinDuration = 500 * time.Millisecond

// Entry is one rendered block of an SRT stream.
type Entry struct {
	Index int
	Start int64 // ms
	End   int64 // ms
	Text  string
}

// BuildEntries converts segments into SRT entries in input order.
// Segments with blank text are dropped and consume no index number.
// An entry shorter than minDuration keeps its start and is extended to
// exactly minDuration.
func BuildEntries(segments []Segment, minDuration time.Duration) []Entry {
	minMs := minDuration.Milliseconds()
	var entries []Entry
	index := 1

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		duration := seg.End - seg.Start
		if duration < minMs {
			duration = minMs
		}

		entries = append(entries, Entry{
			Index: index,
			Start: seg.Start,
			End:   seg.Start + duration,
			Text:  text,
		})
		index++
	}

	return entries
}

// FormatSRT renders segments as a SubRip subtitle stream.
// Returns the empty string when no segment survives filtering; callers must
// treat that as "no subtitles" and skip the burn-in step.
func FormatSRT(segments []Segment, minDuration time.Duration) string {
	entries := BuildEntries(segments, minDuration)
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(strconv.Itoa(e.Index))
		sb.WriteString("\n")
		sb.WriteString(FormatTimestamp(e.Start))
		sb.WriteString(" --> ")
		sb.WriteString(FormatTimestamp(e.End))
		sb.WriteString("\n")
		sb.WriteString(e.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// FormatTimestamp renders milliseconds as an SRT timestamp (HH:MM:SS,mmm).
// Hours are not capped at 24 but are always zero-padded to two digits.
func FormatTimestamp(ms int64) string {
	h := ms / 3600000
	ms %= 3600000
	m := ms / 60000
	ms %= 60000
	s := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

var srtTimestampRe = regexp.MustCompile(`(\d{2,}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2,}):(\d{2}):(\d{2}),(\d{3})`)

// ParseSRT parses SubRip content back into segments. Index lines are
// ignored; multi-line cue text is joined with newlines.
func ParseSRT(content string) []Segment {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var segments []Segment
	var current *Segment

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" {
			if current != nil && current.Text != "" {
				segments = append(segments, *current)
			}
			current = nil
			continue
		}

		if m := srtTimestampRe.FindStringSubmatch(line); m != nil {
			if current != nil && current.Text != "" {
				segments = append(segments, *current)
			}
			current = &Segment{
				Start: parseTimestampParts(m[1], m[2], m[3], m[4]),
				End:   parseTimestampParts(m[5], m[6], m[7], m[8]),
			}
			continue
		}

		// Cue index line before a timestamp
		if _, err := strconv.Atoi(line); err == nil && current == nil {
			continue
		}

		if current != nil {
			if current.Text != "" {
				current.Text += "\n"
			}
			current.Text += line
		}
	}

	if current != nil && current.Text != "" {
		segments = append(segments, *current)
	}

	return segments
}

func parseTimestampParts(h, m, s, ms string) int64 {
	hi, _ := strconv.ParseInt(h, 10, 64)
	mi, _ := strconv.ParseInt(m, 10, 64)
	si, _ := strconv.ParseInt(s, 10, 64)
	msi, _ := strconv.ParseInt(ms, 10, 64)
	return hi*3600000 + mi*60000 + si*1000 + msi
}

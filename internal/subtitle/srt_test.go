package subtitle

import (
	"strings"
	"testing"
	"time"
)

func TestFormatSRTEmptyInput(t *testing.T) {
	if got := FormatSRT(nil, MinDuration); got != "" {
		t.Errorf("FormatSRT(nil) = %q, want empty string", got)
	}
	if got := FormatSRT([]Segment{}, MinDuration); got != "" {
		t.Errorf("FormatSRT([]) = %q, want empty string", got)
	}
}

func TestFormatSRTAllBlank(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1000, Text: ""},
		{Start: 1000, End: 2000, Text: "   "},
		{Start: 2000, End: 3000, Text: "\t\n"},
	}
	if got := FormatSRT(segments, MinDuration); got != "" {
		t.Errorf("FormatSRT(all blank) = %q, want empty string", got)
	}
}

func TestBuildEntriesSkipsBlankAndKeepsIndicesContiguous(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1000, Text: "A"},
		{Start: 1000, End: 2000, Text: ""},
		{Start: 2000, End: 3000, Text: "B"},
	}

	entries := BuildEntries(segments, MinDuration)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Index != 1 || entries[0].Text != "A" {
		t.Errorf("entry 0 = %+v, want index 1 text A", entries[0])
	}
	if entries[1].Index != 2 || entries[1].Text != "B" {
		t.Errorf("entry 1 = %+v, want index 2 text B", entries[1])
	}
	if entries[1].Start != 2000 {
		t.Errorf("entry 1 start = %d, want 2000", entries[1].Start)
	}
}

func TestBuildEntriesMinDuration(t *testing.T) {
	tests := []struct {
		name    string
		seg     Segment
		wantEnd int64
	}{
		{"shorter than floor", Segment{Start: 1000, End: 1100, Text: "x"}, 1500},
		{"zero duration", Segment{Start: 1000, End: 1000, Text: "x"}, 1500},
		{"exactly floor", Segment{Start: 1000, End: 1500, Text: "x"}, 1500},
		{"longer than floor", Segment{Start: 1000, End: 4000, Text: "x"}, 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := BuildEntries([]Segment{tt.seg}, 500*time.Millisecond)
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			if entries[0].Start != tt.seg.Start {
				t.Errorf("start = %d, want %d", entries[0].Start, tt.seg.Start)
			}
			if entries[0].End != tt.wantEnd {
				t.Errorf("end = %d, want %d", entries[0].End, tt.wantEnd)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00:00,000"},
		{1500, "00:00:01,500"},
		{3661000, "01:01:01,000"},
		{59999, "00:00:59,999"},
		{90000000, "25:00:00,000"}, // hours are not capped at 24
		{360000000, "100:00:00,000"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.ms); got != tt.want {
			t.Errorf("FormatTimestamp(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestFormatSRTRendering(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1000, Text: " Hello "},
		{Start: 1000, End: 2000, Text: ""},
		{Start: 2000, End: 2100, Text: "World"},
	}

	got := FormatSRT(segments, 500*time.Millisecond)
	want := "1\n00:00:00,000 --> 00:00:01,000\nHello\n\n" +
		"2\n00:00:02,000 --> 00:00:02,500\nWorld\n\n"
	if got != want {
		t.Errorf("FormatSRT = %q, want %q", got, want)
	}
}

func TestFormatSRTDeterministic(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 400, Text: "one"},
		{Start: 500, End: 5000, Text: "two"},
	}
	a := FormatSRT(segments, MinDuration)
	b := FormatSRT(segments, MinDuration)
	if a != b {
		t.Error("FormatSRT is not deterministic for identical input")
	}
}

func TestParseSRTRoundTrip(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1200, Text: "first line"},
		{Start: 1200, End: 3400, Text: "second"},
	}

	parsed := ParseSRT(FormatSRT(segments, MinDuration))
	if len(parsed) != 2 {
		t.Fatalf("got %d segments, want 2", len(parsed))
	}
	for i, seg := range parsed {
		if seg.Start != segments[i].Start {
			t.Errorf("segment %d start = %d, want %d", i, seg.Start, segments[i].Start)
		}
		if seg.Text != segments[i].Text {
			t.Errorf("segment %d text = %q, want %q", i, seg.Text, segments[i].Text)
		}
	}
}

func TestJoinTranscript(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1000, Text: "Hello"},
		{Start: 1000, End: 2000, Text: "  "},
		{Start: 2000, End: 3000, Text: " world "},
	}
	if got := JoinTranscript(segments); got != "Hello world" {
		t.Errorf("JoinTranscript = %q, want %q", got, "Hello world")
	}
	if got := JoinTranscript(nil); got != "" {
		t.Errorf("JoinTranscript(nil) = %q, want empty", got)
	}
}

func TestWithTextPreservesTiming(t *testing.T) {
	seg := Segment{Start: 100, End: 200, Text: "original"}
	out := seg.WithText("translated")
	if out.Start != 100 || out.End != 200 || out.Text != "translated" {
		t.Errorf("WithText = %+v", out)
	}
	if seg.Text != "original" {
		t.Error("WithText mutated the receiver")
	}
}

func TestFormatSRTTrimsMultilineWhitespaceOnly(t *testing.T) {
	got := FormatSRT([]Segment{{Start: 0, End: 900, Text: "\n \t "}}, MinDuration)
	if strings.TrimSpace(got) != "" {
		t.Errorf("whitespace-only segment produced output: %q", got)
	}
}

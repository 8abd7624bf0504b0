package whisper

import (
	"strconv"
	"strings"
	"time"
)

// Segment is one timestamped line of whisper-cli stdout.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Result contains the parsed transcript of one transcription run.
type Result struct {
	Segments []Segment
}

// Text joins the segment texts into the plain transcript.
func (r Result) Text() string {
	parts := make([]string, 0, len(r.Segments))
	for _, seg := range r.Segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ParseTranscript extracts timestamped segments from whisper-cli stdout.
// Lines look like:
//
//	[00:00:00.000 --> 00:00:02.560]   And so my fellow Americans...
//
// Anything that does not match that shape (progress output, system info) is
// skipped.
func ParseTranscript(stdout string) Result {
	var result Result
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") || !strings.Contains(line, "-->") {
			continue
		}
		closing := strings.Index(line, "]")
		if closing < 0 {
			continue
		}

		segment := Segment{
			Text: strings.TrimSpace(line[closing+1:]),
		}
		window := line[1:closing]
		if bounds := strings.Split(window, "-->"); len(bounds) == 2 {
			segment.Start = parseTimestamp(bounds[0])
			segment.End = parseTimestamp(bounds[1])
		}
		result.Segments = append(result.Segments, segment)
	}
	return result
}

// parseTimestamp reads whisper-cli's HH:MM:SS.mmm stamps. Unparseable input
// yields zero rather than failing the whole transcript.
func parseTimestamp(value string) time.Duration {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
}

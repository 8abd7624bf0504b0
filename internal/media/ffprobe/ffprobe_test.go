package ffprobe

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"stai/internal/testsupport"
)

func sampleResult() Result {
	return Result{
		Streams: []Stream{
			{Index: 0, CodecName: "h264", CodecType: "video"},
			{Index: 1, CodecName: "aac", CodecType: "audio", SampleRate: "44100", Channels: 2},
			{Index: 2, CodecName: "pcm_s16le", CodecType: "AUDIO"},
		},
		Format: Format{Duration: "12.5", Size: "1048576", FormatName: "mov,mp4"},
	}
}

func TestResultStreamHelpers(t *testing.T) {
	result := sampleResult()

	if !result.HasAudio() {
		t.Fatal("expected audio present")
	}
	if got := result.AudioStreamCount(); got != 2 {
		t.Fatalf("expected 2 audio streams, got %d", got)
	}
	if got := result.VideoStreamCount(); got != 1 {
		t.Fatalf("expected 1 video stream, got %d", got)
	}

	primary, ok := result.PrimaryAudio()
	if !ok {
		t.Fatal("expected a primary audio stream")
	}
	if primary.CodecName != "aac" {
		t.Fatalf("expected first audio stream, got %s", primary.CodecName)
	}

	if got := result.DurationSeconds(); got != 12.5 {
		t.Fatalf("expected 12.5s duration, got %v", got)
	}
	if got := result.SizeBytes(); got != 1048576 {
		t.Fatalf("expected 1 MiB size, got %d", got)
	}
}

func TestResultHandlesMissingMetadata(t *testing.T) {
	result := Result{Format: Format{Duration: "n/a", Size: ""}}

	if result.HasAudio() {
		t.Fatal("empty result must report no audio")
	}
	if _, ok := result.PrimaryAudio(); ok {
		t.Fatal("empty result must have no primary audio stream")
	}
	if got := result.DurationSeconds(); got != 0 {
		t.Fatalf("expected 0 duration for unparsable value, got %v", got)
	}
	if got := result.SizeBytes(); got != 0 {
		t.Fatalf("expected 0 size, got %d", got)
	}
}

func TestInspectParsesProbeOutput(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "ffprobe")
	testsupport.WriteScript(t, stub, `#!/bin/sh
cat <<'EOF'
{
  "streams": [
    {"index": 0, "codec_name": "pcm_s16le", "codec_type": "audio", "sample_rate": "16000", "channels": 1}
  ],
  "format": {"filename": "sample.wav", "nb_streams": 1, "duration": "2.000000", "size": "64044", "format_name": "wav"}
}
EOF
`)

	result, err := Inspect(context.Background(), stub, "/tmp/sample.wav")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !result.HasAudio() {
		t.Fatal("expected audio stream from stub output")
	}
	primary, _ := result.PrimaryAudio()
	if primary.SampleRate != "16000" || primary.Channels != 1 {
		t.Fatalf("unexpected primary stream %+v", primary)
	}
	if result.DurationSeconds() != 2 {
		t.Fatalf("expected 2s duration, got %v", result.DurationSeconds())
	}
}

func TestInspectRejectsUndecodableFiles(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "ffprobe")
	testsupport.WriteScript(t, stub, `#!/bin/sh
echo "sample.txt: Invalid data found when processing input" >&2
exit 1
`)

	_, err := Inspect(context.Background(), stub, "/tmp/sample.txt")
	if err == nil {
		t.Fatal("expected error for non-zero probe exit")
	}
	if !strings.Contains(err.Error(), "Invalid data") {
		t.Fatalf("expected probe stderr in error, got %q", err.Error())
	}
}

func TestInspectRequiresPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

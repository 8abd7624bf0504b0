package whisper

import "time"

// whisper.cpp installation layout constants. The binary and scripts ship
// with the whisper.cpp checkout; stai never manages them itself.
const (
	ModelFilePrefix    = "ggml-"
	ModelFileSuffix    = ".bin"
	DownloadScriptName = "download-ggml-model.sh"
	CoreMLScriptName   = "generate-coreml-model.sh"

	downloadLockName = ".download.lock"
	lockRetryDelay   = 250 * time.Millisecond
)

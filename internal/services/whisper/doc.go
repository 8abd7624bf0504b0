// Package whisper wraps an externally built whisper.cpp installation.
//
// This package handles:
//   - Binary and model weight path resolution under the whisper.cpp root
//   - Model discovery by parsing the stock download-ggml-model.sh script
//   - Model downloads (serialized across processes with a file lock)
//   - Transcription invocation and stdout transcript parsing
//
// The transcription engine itself is never reimplemented; every operation
// here is a subprocess call into the whisper.cpp toolchain.
package whisper

// Package fetch materializes remote audio sources as local files.
//
// Two paths exist: yt-dlp extraction for video-hosting page URLs (the audio
// stream is converted to mono 16 kHz WAV for whisper.cpp) and a plain HTTP
// download for URLs that point directly at a media resource. Neither path
// retries; downloader diagnostics propagate to the caller unchanged.
package fetch

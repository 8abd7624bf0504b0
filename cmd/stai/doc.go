// Command stai transcribes speech from local files or remote URLs by
// orchestrating externally installed tools: yt-dlp and ffmpeg/ffprobe for
// fetching and probing audio, and whisper.cpp for the transcription itself.
package main

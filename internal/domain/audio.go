package domain

import (
	"fmt"
	"strings"
)

const (
	DefaultSpeechFormat = "mp3"
	DefaultAudioMIME    = "audio/mpeg"
)

var speechFormatMIME = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"opus": "audio/ogg",
	"aac":  "audio/aac",
	"flac": "audio/flac",
	"pcm":  "audio/pcm",
}

// NormalizeSpeechFormat returns the lowercase form of a known output format,
// or mp3 for anything else.
func NormalizeSpeechFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if _, ok := speechFormatMIME[format]; ok {
		return format
	}
	return DefaultSpeechFormat
}

// SpeechMIMEType maps a synthesis output format to its MIME type.
// Unknown formats fall back to audio/mpeg.
func SpeechMIMEType(format string) string {
	if mime, ok := speechFormatMIME[strings.ToLower(format)]; ok {
		return mime
	}
	return DefaultAudioMIME
}

// SpeechContentDisposition never echoes an unknown format into the header.
func SpeechContentDisposition(format string) string {
	return fmt.Sprintf(`inline; filename="speech.%s"`, NormalizeSpeechFormat(format))
}

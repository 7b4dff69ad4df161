package speech

import (
	"io"
)

// ASRRequest 音声認識リクエスト
type ASRRequest struct {
	Audio    io.Reader `json:"-"`
	Filename string    `json:"filename"` // original upload name, carries the audio extension
	Language string    `json:"language"` // ISO-639-1 hint, e.g. "ja"
}

// TTSRequest 音声合成リクエスト
type TTSRequest struct {
	Text   string  `json:"text"`
	Voice  string  `json:"voice"`
	Speed  float32 `json:"speed"`  // playback rate 0.25-4.0
	Format string  `json:"format"` // mp3, wav, etc.
}

package speech

// ASRResult 音声認識レスポンス
type ASRResult struct {
	Text string `json:"text"`
}

// TTSResult 音声合成レスポンス
type TTSResult struct {
	Audio  []byte `json:"-"`
	Format string `json:"format"`
}

package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// Config サービス全体の設定をまとめる。
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Speech SpeechConfig
	Upload UploadConfig
}

// Load 環境変数から設定を読み込む。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		AI:     ai,
		Speech: speech,
		Upload: loadUploadConfig(),
	}, nil
}

// ServerConfig HTTP サーバーの設定。
type ServerConfig struct {
	Addr string
}

// loadServerConfig リッスンアドレスを解釈する。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3001"
	}

	if strings.Contains(port, ":") {
		// ":3001" や "127.0.0.1:3001" をそのまま渡せるようにする。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig チャットモデル関連の設定。
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float64
	Timeout     int // provider call timeout in seconds
}

// SpeechConfig 音声系（文字起こし・合成）の設定。
type SpeechConfig struct {
	APIKey          string
	BaseURL         string
	TranscribeModel string
	Language        string // transcription language hint
	TTSModel        string
	TTSVoice        string
	TTSSpeed        float32
	TTSFormat       string
	Timeout         int // provider call timeout in seconds
}

// UploadConfig アップロードの一時保存ディレクトリ。
type UploadConfig struct {
	Dir string
}

// Enabled 必須のクレデンシャルが揃っているかを返す。
func (c AIConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// NewChatModel 設定からチャットモデルを生成する。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ToolCallingChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("OPENAI_API_KEY and CHAT_MODEL are required for the chat model")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &openaimodel.ChatModelConfig{
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		Temperature: temperature,
	}

	return openaimodel.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("CHAT_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		// The coach speaks with a moderately high creativity setting.
		val := 0.9
		temperature = &val
	}

	timeout, err := parseOptionalIntEnv("PROVIDER_TIMEOUT")
	if err != nil {
		return AIConfig{}, err
	}
	timeoutSeconds := 30
	if timeout != nil {
		timeoutSeconds = *timeout
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL:     getEnvOrDefault("OPENAI_BASE_URL", ""),
		Model:       getEnvOrDefault("CHAT_MODEL", "gpt-4o-mini"),
		Temperature: temperature,
		Timeout:     timeoutSeconds,
	}, nil
}

func loadSpeechConfig() (SpeechConfig, error) {
	timeout, err := parseOptionalIntEnv("PROVIDER_TIMEOUT")
	if err != nil {
		return SpeechConfig{}, err
	}
	timeoutSeconds := 30
	if timeout != nil {
		timeoutSeconds = *timeout
	}

	speed, err := parseOptionalFloat32Env("TTS_SPEED")
	if err != nil {
		return SpeechConfig{}, err
	}
	ttsSpeed := float32(1.0)
	if speed != nil {
		ttsSpeed = *speed
	}

	return SpeechConfig{
		APIKey:          strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL:         getEnvOrDefault("OPENAI_BASE_URL", ""),
		TranscribeModel: getEnvOrDefault("TRANSCRIBE_MODEL", "gpt-4o-mini-transcribe"),
		Language:        getEnvOrDefault("TRANSCRIBE_LANGUAGE", "ja"),
		TTSModel:        getEnvOrDefault("TTS_MODEL", "gpt-4o-mini-tts"),
		TTSVoice:        getEnvOrDefault("TTS_VOICE", "alloy"),
		TTSSpeed:        ttsSpeed,
		TTSFormat:       getEnvOrDefault("TTS_FORMAT", "mp3"),
		Timeout:         timeoutSeconds,
	}, nil
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		Dir: getEnvOrDefault("UPLOAD_DIR", "uploads"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloat32Env(key string) (*float32, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	result := float32(val)
	return &result, nil
}

// Package speech calls the provider's audio endpoints: transcription and
// speech synthesis.
package speech

import (
	"context"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bushido-log/backend/internal/config"
	speechmodel "github.com/bushido-log/backend/internal/model/speech"
	"github.com/bushido-log/backend/internal/provider"
)

// Service 音声サービスのコアロジック。
type Service struct {
	client *openai.Client
	cfg    config.SpeechConfig
}

// NewService 音声サービスを生成する。
func NewService(cfg config.SpeechConfig) *Service {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Service{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// Transcribe 音声をテキストに変換する。
func (s *Service) Transcribe(ctx context.Context, req *speechmodel.ASRRequest) (*speechmodel.ASRResult, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	language := req.Language
	if language == "" {
		language = s.cfg.Language
	}

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.cfg.TranscribeModel,
		Reader:   req.Audio,
		FilePath: req.Filename,
		Language: language,
	})
	if err != nil {
		return nil, provider.Wrap(err)
	}

	return &speechmodel.ASRResult{Text: resp.Text}, nil
}

// Synthesize テキストを音声に変換する。
func (s *Service) Synthesize(ctx context.Context, req *speechmodel.TTSRequest) (*speechmodel.TTSResult, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	voice := req.Voice
	if voice == "" {
		voice = s.cfg.TTSVoice
	}
	format := req.Format
	if format == "" {
		format = s.cfg.TTSFormat
	}
	speed := req.Speed
	if speed == 0 {
		speed = s.cfg.TTSSpeed
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.cfg.TTSModel),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormat(format),
		Speed:          float64(speed),
	})
	if err != nil {
		return nil, provider.Wrap(err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, &provider.Error{Kind: provider.NetworkFailure, Err: err}
	}
	if len(audio) == 0 {
		return nil, provider.Malformed("provider returned empty audio")
	}

	return &speechmodel.TTSResult{Audio: audio, Format: format}, nil
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(s.cfg.Timeout)*time.Second)
}

package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	speechmodel "github.com/bushido-log/backend/internal/model/speech"
	"github.com/bushido-log/backend/internal/provider"
	"github.com/bushido-log/backend/internal/upload"
	"github.com/bushido-log/backend/pkg/utils"
)

const maxUploadBytes = 32 << 20 // 32MB max

// SpeechService 音声業務の抽象。テストでの差し替え用。
type SpeechService interface {
	Transcribe(ctx context.Context, req *speechmodel.ASRRequest) (*speechmodel.ASRResult, error)
	Synthesize(ctx context.Context, req *speechmodel.TTSRequest) (*speechmodel.TTSResult, error)
}

// UploadStore アップロード一時保存の抽象。
type UploadStore interface {
	Save(r io.Reader, originalName, contentType string) (*upload.Asset, error)
	Remove(path string) error
}

// Handler 音声系エンドポイントのHTTPハンドラ
type Handler struct {
	speechSvc SpeechService
	uploads   UploadStore
}

// New 音声ハンドラを生成する
func New(speechSvc SpeechService, uploads UploadStore) *Handler {
	return &Handler{
		speechSvc: speechSvc,
		uploads:   uploads,
	}
}

// RegisterRoutes 音声関連のルートを登録する
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/transcribe", h.handleTranscribe)
	r.Post("/tts", h.handleTTS)
}

// handleTranscribe 音声 → テキスト
func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		log.Printf("[transcribe] no file received")
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	asset, err := h.uploads.Save(file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("[transcribe] store upload: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Transcription failed")
		return
	}
	// 削除はリクエストごとに必ず一度。成功・失敗どちらの経路でも走る。
	defer h.cleanup(asset)

	f, err := os.Open(asset.Path)
	if err != nil {
		log.Printf("[transcribe] open upload: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Transcription failed")
		return
	}
	defer f.Close()

	result, err := h.speechSvc.Transcribe(r.Context(), &speechmodel.ASRRequest{
		Audio:    f,
		Filename: asset.OriginalName,
	})
	if err != nil {
		log.Printf("[transcribe] error: %v", err)
		utils.RespondErrorDetail(w, http.StatusInternalServerError, "Transcription failed", provider.Detail(err))
		return
	}

	log.Printf("[transcribe] success, length=%d", len(result.Text))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"text": result.Text})
}

// handleTTS テキスト → 音声
func (h *Handler) handleTTS(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.speechSvc.Synthesize(r.Context(), &speechmodel.TTSRequest{Text: payload.Text})
	if err != nil {
		log.Printf("[tts] error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "tts error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"audioBase64": base64.StdEncoding.EncodeToString(result.Audio),
	})
}

// cleanup は保存済みアップロードを削除する。失敗はログのみでレスポンスには影響させない。
func (h *Handler) cleanup(asset *upload.Asset) {
	if err := h.uploads.Remove(asset.Path); err != nil {
		log.Printf("[transcribe] cleanup failed for %s: %v", asset.Path, err)
	}
}

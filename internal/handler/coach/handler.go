package coach

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bushido-log/backend/internal/provider"
	"github.com/bushido-log/backend/internal/service/ai"
	"github.com/bushido-log/backend/pkg/utils"
)

// CoachService チャット業務の抽象。テストでの差し替え用。
type CoachService interface {
	Chat(ctx context.Context, text string) (string, error)
	Mission(ctx context.Context, in ai.MissionInput) (string, error)
}

// Handler コーチ系エンドポイントのHTTPハンドラ
type Handler struct {
	coachSvc CoachService
}

// New コーチハンドラを生成する
func New(coachSvc CoachService) *Handler {
	return &Handler{coachSvc: coachSvc}
}

// RegisterRoutes コーチ関連のルートを登録する
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/samurai-chat", h.handleSamuraiChat)
	r.Post("/mission", h.handleMission)
}

// handleSamuraiChat サムライキングとのチャット
func (h *Handler) handleSamuraiChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	reply, err := h.coachSvc.Chat(r.Context(), payload.Text)
	if err != nil {
		log.Printf("[samurai-chat] error: %v", err)
		utils.RespondErrorDetail(w, http.StatusInternalServerError, "samurai-chat error", provider.Detail(err))
		return
	}

	if reply == "" {
		reply = ai.ChatFallbackReply
	}

	log.Printf("[samurai-chat] reply length=%d", len(reply))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// handleMission 今日のミッション生成
func (h *Handler) handleMission(w http.ResponseWriter, r *http.Request) {
	var payload ai.MissionInput
	// 全フィールド任意。ボディ無し・壊れたボディは空として扱う。
	_ = json.NewDecoder(r.Body).Decode(&payload)

	raw, err := h.coachSvc.Mission(r.Context(), payload)
	if err != nil {
		log.Printf("[mission] error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "mission error")
		return
	}

	// クライアントには必ず1行だけ返す。
	mission := firstLine(raw)
	if mission == "" {
		mission = ai.DefaultMission
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"mission": mission})
}

// firstLine returns the first non-empty-trimmed line of s.
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

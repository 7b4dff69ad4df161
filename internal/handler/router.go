package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bushido-log/backend/internal/handler/coach"
	speechhandler "github.com/bushido-log/backend/internal/handler/speech"
	middlewarePkg "github.com/bushido-log/backend/internal/middleware"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(coachSvc coach.CoachService, speechSvc speechhandler.SpeechService, uploads speechhandler.UploadStore) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	// 動作確認用
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Bushido Log Samurai server running"))
	})

	coach.New(coachSvc).RegisterRoutes(r)
	speechhandler.New(speechSvc, uploads).RegisterRoutes(r)

	return r
}

package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"

	speechmodel "github.com/bushido-log/backend/internal/model/speech"
	"github.com/bushido-log/backend/internal/provider"
	"github.com/bushido-log/backend/internal/upload"
)

type fakeSpeechService struct {
	text          string
	transcribeErr error
	audio         []byte
	synthErr      error

	gotFilename string
	gotText     string
}

func (f *fakeSpeechService) Transcribe(ctx context.Context, req *speechmodel.ASRRequest) (*speechmodel.ASRResult, error) {
	f.gotFilename = req.Filename
	if f.transcribeErr != nil {
		return nil, f.transcribeErr
	}
	return &speechmodel.ASRResult{Text: f.text}, nil
}

func (f *fakeSpeechService) Synthesize(ctx context.Context, req *speechmodel.TTSRequest) (*speechmodel.TTSResult, error) {
	f.gotText = req.Text
	if f.synthErr != nil {
		return nil, f.synthErr
	}
	return &speechmodel.TTSResult{Audio: f.audio, Format: "mp3"}, nil
}

// recordingStore wraps a real upload.Store and counts lifecycle calls.
type recordingStore struct {
	store    *upload.Store
	saves    int
	removes  int
	lastPath string
}

func (r *recordingStore) Save(reader io.Reader, originalName, contentType string) (*upload.Asset, error) {
	r.saves++
	asset, err := r.store.Save(reader, originalName, contentType)
	if asset != nil {
		r.lastPath = asset.Path
	}
	return asset, err
}

func (r *recordingStore) Remove(path string) error {
	r.removes++
	return r.store.Remove(path)
}

func setupRouter(t *testing.T, svc SpeechService) (*chi.Mux, *recordingStore) {
	t.Helper()
	store, err := upload.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore err: %v", err)
	}
	rec := &recordingStore{store: store}

	r := chi.NewRouter()
	New(svc, rec).RegisterRoutes(r)
	return r, rec
}

func audioRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		t.Fatalf("CreateFormFile err: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write audio err: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close err: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response err: %v", err)
	}
	return body
}

func TestTranscribeNoFile(t *testing.T) {
	r, rec := setupRouter(t, &fakeSpeechService{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("language", "ja"); err != nil {
		t.Fatalf("WriteField err: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close err: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if b := decodeBody(t, resp); b["error"] != "audio file is required" {
		t.Fatalf("unexpected error: %q", b["error"])
	}
	if rec.saves != 0 || rec.removes != 0 {
		t.Fatalf("scratch storage touched: saves=%d removes=%d", rec.saves, rec.removes)
	}
}

func TestTranscribeSuccessCleansUp(t *testing.T) {
	svc := &fakeSpeechService{text: "今日も稽古だ"}
	r, rec := setupRouter(t, svc)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, audioRequest(t, "memo.wav", []byte("fake-wav-bytes")))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if b := decodeBody(t, resp); b["text"] != "今日も稽古だ" {
		t.Fatalf("unexpected text: %q", b["text"])
	}
	if svc.gotFilename != "memo.wav" {
		t.Fatalf("service saw wrong filename: %q", svc.gotFilename)
	}
	if rec.removes != 1 {
		t.Fatalf("expected exactly one delete, got %d", rec.removes)
	}
	if _, err := os.Stat(rec.lastPath); !os.IsNotExist(err) {
		t.Fatalf("temp file still present: %s", rec.lastPath)
	}
}

func TestTranscribeFailureCleansUp(t *testing.T) {
	svc := &fakeSpeechService{
		transcribeErr: &provider.Error{Kind: provider.ProviderRejected, Status: 400, Body: "unsupported audio"},
	}
	r, rec := setupRouter(t, svc)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, audioRequest(t, "memo.webm", []byte("fake-webm-bytes")))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	b := decodeBody(t, resp)
	if b["error"] != "Transcription failed" {
		t.Fatalf("unexpected error label: %q", b["error"])
	}
	if b["detail"] != "unsupported audio" {
		t.Fatalf("unexpected detail: %q", b["detail"])
	}
	if rec.removes != 1 {
		t.Fatalf("expected exactly one delete, got %d", rec.removes)
	}
	if _, err := os.Stat(rec.lastPath); !os.IsNotExist(err) {
		t.Fatalf("temp file still present: %s", rec.lastPath)
	}
}

func TestTTSEncodesAudio(t *testing.T) {
	r, _ := setupRouter(t, &fakeSpeechService{audio: []byte{0x00, 0x01, 0x02}})

	payload := []byte(`{"text":"こんにちは"}`)
	req := httptest.NewRequest(http.MethodPost, "/tts", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if b := decodeBody(t, resp); b["audioBase64"] != "AAEC" {
		t.Fatalf("unexpected audioBase64: %q", b["audioBase64"])
	}
}

func TestTTSMissingText(t *testing.T) {
	r, _ := setupRouter(t, &fakeSpeechService{})

	for _, payload := range []string{`{}`, `{"text":""}`} {
		req := httptest.NewRequest(http.MethodPost, "/tts", bytes.NewReader([]byte(payload)))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, resp.Code)
		}
		if b := decodeBody(t, resp); b["error"] != "text is required" {
			t.Fatalf("payload %s: unexpected error: %q", payload, b["error"])
		}
	}
}

func TestTTSAdapterFailure(t *testing.T) {
	r, _ := setupRouter(t, &fakeSpeechService{
		synthErr: &provider.Error{Kind: provider.NetworkFailure},
	})

	req := httptest.NewRequest(http.MethodPost, "/tts", bytes.NewReader([]byte(`{"text":"おはよう"}`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if b := decodeBody(t, resp); b["error"] != "tts error" {
		t.Fatalf("unexpected error label: %q", b["error"])
	}
}

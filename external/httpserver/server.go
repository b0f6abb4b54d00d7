package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/foxseedlab/ahirun/internal/codec"
	"github.com/foxseedlab/ahirun/internal/finalize"
	"github.com/foxseedlab/ahirun/internal/journal"
)

// JournalService is the slice of the journal engine the HTTP layer
// invokes.
type JournalService interface {
	Resolve(ctx context.Context, kind journal.EventKind, userID string) ([]byte, string, error)
	CreateHint(ctx context.Context, userID, text string) (string, error)
	DeleteHint(ctx context.Context, userID, hintID string) error
	SyncRecording(ctx context.Context, userID, duckID string, wavData []byte) (string, error)
	AddVoiceLog(ctx context.Context, userID, duckID string, wavData []byte) (string, error)
	AddPromptLog(ctx context.Context, userID, duckID, text string) (string, error)
}

// FinalizeRouter handles storage-finalize event deliveries.
type FinalizeRouter interface {
	Route(ctx context.Context, subject string) (finalize.Outcome, error)
}

type Server struct {
	addr      string
	journal   JournalService
	finalizer FinalizeRouter
	srv       *http.Server
}

func New(addr string, j JournalService, f FinalizeRouter) *Server {
	s := &Server{addr: addr, journal: j, finalizer: f}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /{$}", s.handleSync)
	mux.HandleFunc("POST /sync", s.handleSync)
	mux.HandleFunc("GET /start_work", s.handleEvent(journal.EventStartWork))
	mux.HandleFunc("GET /pause_work", s.handleEvent(journal.EventPauseWork))
	mux.HandleFunc("GET /start_review", s.handleEvent(journal.EventStartReview))
	mux.HandleFunc("POST /log/prompt", s.handlePromptLog)
	mux.HandleFunc("POST /log/record", s.handleRecordLog)
	mux.HandleFunc("POST /users/hints", s.handleCreateHint)
	mux.HandleFunc("DELETE /users/hints", s.handleDeleteHint)
	mux.HandleFunc("POST /on_gcs_finalize", s.handleFinalize)
	return withCORS(mux)
}

func (s *Server) ListenAndServe() error {
	slog.Info("http server listening", "addr", s.addr)
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

// workCtx detaches the request's work from client disconnects: once an
// upload or resolution has started there is no cancellation path, only
// the adapters' own deadlines.
func workCtx(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (s *Server) handleEvent(kind journal.EventKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		audio, text, err := s.journal.Resolve(workCtx(r), kind, userID)
		if err != nil {
			slog.Error("prompt resolution failed", "error", err, "event", string(kind), "user_id", userID)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"audio": codec.Marshal(audio),
			"text":  text,
		})
	}
}

type uploadRequest struct {
	UserID string `json:"user_id"`
	DuckID string `json:"duck_id"`
	Audio  string `json:"audio"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	data, err := codec.Unmarshal(req.Audio)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid audio encoding")
		return
	}
	recordID, err := s.journal.SyncRecording(workCtx(r), req.UserID, req.DuckID, data)
	if err != nil {
		slog.Error("sync recording failed", "error", err, "user_id", req.UserID)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"record_id": recordID})
}

type promptLogRequest struct {
	UserID string `json:"user_id"`
	DuckID string `json:"duck_id"`
	Text   string `json:"text"`
}

func (s *Server) handlePromptLog(w http.ResponseWriter, r *http.Request) {
	var req promptLogRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	logID, err := s.journal.AddPromptLog(workCtx(r), req.UserID, req.DuckID, req.Text)
	if err != nil {
		slog.Error("prompt log failed", "error", err, "user_id", req.UserID)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"log_id": logID})
}

func (s *Server) handleRecordLog(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	data, err := codec.Unmarshal(req.Audio)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid audio encoding")
		return
	}
	logID, err := s.journal.AddVoiceLog(workCtx(r), req.UserID, req.DuckID, data)
	if err != nil {
		slog.Error("voice log failed", "error", err, "user_id", req.UserID)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"log_id": logID})
}

type hintRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
	HintID string `json:"hint_id"`
}

func (s *Server) handleCreateHint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, "user_id and text are required")
		return
	}
	hintID, err := s.journal.CreateHint(workCtx(r), req.UserID, req.Text)
	if err != nil {
		slog.Error("hint creation failed", "error", err, "user_id", req.UserID)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hint_id": hintID})
}

func (s *Server) handleDeleteHint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.HintID == "" {
		writeError(w, http.StatusBadRequest, "user_id and hint_id are required")
		return
	}
	if err := s.journal.DeleteHint(workCtx(r), req.UserID, req.HintID); err != nil {
		slog.Error("hint deletion failed", "error", err, "user_id", req.UserID, "hint_id", req.HintID)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

type finalizeEvent struct {
	Subject string `json:"subject"`
}

// handleFinalize always acknowledges a parseable event: the event
// source retries on error responses indefinitely, and every outcome
// here is either final or re-derivable on the next legitimate delivery.
func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	var ev finalizeEvent
	if !decodeBody(w, r, &ev) {
		return
	}
	outcome, err := s.finalizer.Route(workCtx(r), ev.Subject)
	if err != nil {
		if errors.Is(err, finalize.ErrUpstream) {
			slog.Error("finalize event hit downstream failure; acknowledging anyway", "error", err, "subject", ev.Subject)
		} else {
			slog.Error("finalize event failed", "error", err, "subject", ev.Subject)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"outcome": string(outcome)})
}

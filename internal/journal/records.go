package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/ahirun/internal/docstore"
)

// SyncRecording stores an uploaded voice recording: a record document
// without a transcript yet, plus the raw audio blob whose finalize
// event later triggers transcription and enrichment.
func (e *Engine) SyncRecording(ctx context.Context, userID, duckID string, wavData []byte) (string, error) {
	entry := docstore.Remark{
		From:      docstore.RemarkFromUser,
		UserID:    userID,
		DuckID:    duckID,
		CreatedAt: e.now(),
	}
	recordID, err := e.store.AddRecord(ctx, userID, entry)
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("records/%s/%s.wav", userID, recordID)
	if err := e.blobs.Put(ctx, path, wavData, wavContentType); err != nil {
		return "", fmt.Errorf("store recording %s: %w", path, err)
	}
	slog.Info("recording synced", "user_id", userID, "record_id", recordID, "bytes", len(wavData))
	return recordID, nil
}

// AddVoiceLog appends an audio-backed user log entry awaiting
// transcription.
func (e *Engine) AddVoiceLog(ctx context.Context, userID, duckID string, wavData []byte) (string, error) {
	entry := docstore.Remark{
		From:      docstore.RemarkFromUser,
		UserID:    userID,
		DuckID:    duckID,
		CreatedAt: e.now(),
	}
	logID, err := e.store.AddLog(ctx, userID, entry)
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("logs/%s/%s.wav", userID, logID)
	if err := e.blobs.Put(ctx, path, wavData, wavContentType); err != nil {
		return "", fmt.Errorf("store voice log %s: %w", path, err)
	}
	slog.Info("voice log appended", "user_id", userID, "log_id", logID, "bytes", len(wavData))
	return logID, nil
}

// AddPromptLog appends a text-only user log entry.
func (e *Engine) AddPromptLog(ctx context.Context, userID, duckID, text string) (string, error) {
	entry := docstore.Remark{
		From:      docstore.RemarkFromUser,
		UserID:    userID,
		DuckID:    duckID,
		Text:      text,
		CreatedAt: e.now(),
	}
	logID, err := e.store.AddLog(ctx, userID, entry)
	if err != nil {
		return "", err
	}
	slog.Info("prompt log appended", "user_id", userID, "log_id", logID)
	return logID, nil
}

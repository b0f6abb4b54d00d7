package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// CreateHint registers a new hint on the user document and pre-seeds
// its audio at the deterministic per-user cache path.
func (e *Engine) CreateHint(ctx context.Context, userID, text string) (string, error) {
	hintID := uuid.NewString()
	if err := e.store.SetHint(ctx, userID, hintID, text); err != nil {
		return "", err
	}
	data, err := e.synth.Synthesize(ctx, text)
	if err != nil {
		return "", fmt.Errorf("synthesize hint %s: %w", hintID, err)
	}
	if err := e.blobs.Put(ctx, hintPath(userID, hintID), data, wavContentType); err != nil {
		return "", fmt.Errorf("store hint audio %s: %w", hintID, err)
	}
	slog.Info("hint created", "user_id", userID, "hint_id", hintID)
	return hintID, nil
}

// DeleteHint removes exactly the given hint from the user's mapping.
func (e *Engine) DeleteHint(ctx context.Context, userID, hintID string) error {
	if err := e.store.DeleteHint(ctx, userID, hintID); err != nil {
		return err
	}
	slog.Info("hint deleted", "user_id", userID, "hint_id", hintID)
	return nil
}

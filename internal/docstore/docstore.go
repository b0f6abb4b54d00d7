package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that the addressed document does not exist. The
// finalize webhook relies on distinguishing this from other failures,
// since its target may legitimately vanish between upload and
// transcription.
var ErrNotFound = errors.New("document not found")

type Store interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	// UpdateUserDaily persists the new-day bookkeeping as one update so
	// last_active and hint_for_today are never observed independently
	// stale.
	UpdateUserDaily(ctx context.Context, userID string, lastActive time.Time, hintID string) error
	SetHint(ctx context.Context, userID, hintID, text string) error
	DeleteHint(ctx context.Context, userID, hintID string) error
	AddLog(ctx context.Context, userID string, r Remark) (string, error)
	AddRecord(ctx context.Context, userID string, r Remark) (string, error)
	// UpdateDocument merges fields into the document at a slash-separated
	// path such as "users/u1/records/r9" or "remarks/r5".
	UpdateDocument(ctx context.Context, path string, fields map[string]any) error
}

// Package journal holds the prompt-orchestration core: deciding which
// audio segments a habit event plays, assembling their text, keeping
// the synthesized-audio cache warm and tracking the daily hint loop.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/foxseedlab/ahirun/internal/audio"
	"github.com/foxseedlab/ahirun/internal/blobstore"
	"github.com/foxseedlab/ahirun/internal/docstore"
	"github.com/foxseedlab/ahirun/internal/synthesizer"
)

// EventKind names the habit-loop events a client can trigger.
type EventKind string

const (
	EventStartWork   EventKind = "start_work"
	EventPauseWork   EventKind = "pause_work"
	EventStartReview EventKind = "start_review"
)

const wavContentType = "audio/wav"

type Engine struct {
	store docstore.Store
	blobs blobstore.Store
	synth synthesizer.Synthesizer
	now   func() time.Time
}

func NewEngine(store docstore.Store, blobs blobstore.Store, synth synthesizer.Synthesizer) *Engine {
	return &Engine{
		store: store,
		blobs: blobs,
		synth: synth,
		now:   time.Now,
	}
}

// segment pairs a cached-audio path with the text that path must speak,
// so a cache miss can be repaired by synthesis.
type segment struct {
	path string
	text string
}

func promptPath(userID, promptID string) string {
	return fmt.Sprintf("prompts/%s/%s.wav", userID, promptID)
}

func hintPath(userID, hintID string) string {
	return fmt.Sprintf("hints/%s/%s.wav", userID, hintID)
}

// Resolve maps a habit event to its spoken response: the ordered
// concatenation of the event's audio segments and the matching text.
// It also appends a duck-authored log entry carrying that text.
func (e *Engine) Resolve(ctx context.Context, kind EventKind, userID string) ([]byte, string, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	templates, err := parsePromptTemplates(user.Prompts)
	if err != nil {
		return nil, "", err
	}

	now := e.now()
	newDay := IsNewDay(user.LastActive, now)

	var (
		segments []segment
		text     string
	)
	switch kind {
	case EventStartWork:
		segments, text, err = e.planStartWork(ctx, user, templates, newDay, now)
	case EventPauseWork:
		segments, text, err = planSingle(user, templates, tagPauseWork)
	case EventStartReview:
		segments, text, err = e.planStartReview(ctx, user, templates, now)
	default:
		return nil, "", fmt.Errorf("unknown event kind %q", kind)
	}
	if err != nil {
		return nil, "", err
	}

	parts := make([][]byte, 0, len(segments))
	for _, seg := range segments {
		data, err := e.loadSegment(ctx, seg.path, seg.text)
		if err != nil {
			return nil, "", err
		}
		parts = append(parts, data)
	}
	combined, err := audio.Concat(parts...)
	if err != nil {
		return nil, "", err
	}

	entry := docstore.Remark{
		From:      docstore.RemarkFromDuck,
		UserID:    user.ID,
		DuckID:    user.DuckID,
		Text:      text,
		CreatedAt: now,
	}
	if _, err := e.store.AddLog(ctx, user.ID, entry); err != nil {
		return nil, "", fmt.Errorf("append duck log entry: %w", err)
	}

	slog.Info("resolved prompt event", "event", string(kind), "user_id", user.ID, "segments", len(segments), "new_day", newDay)
	return combined, text, nil
}

func (e *Engine) planStartWork(ctx context.Context, user *docstore.User, templates map[string]PromptTemplate, newDay bool, now time.Time) ([]segment, string, error) {
	startWork, err := promptSegment(user, templates, tagStartWork, "")
	if err != nil {
		return nil, "", err
	}
	if !newDay {
		return []segment{startWork}, startWork.text, nil
	}

	hintID, hintText, err := e.ensureDailyHint(ctx, user, now)
	if err != nil {
		return nil, "", err
	}
	hello, err := promptSegment(user, templates, tagHello, hintText)
	if err != nil {
		return nil, "", err
	}
	beforeHint, err := promptSegment(user, templates, tagBeforeHint, hintText)
	if err != nil {
		return nil, "", err
	}
	afterHint, err := promptSegment(user, templates, tagAfterHint, hintText)
	if err != nil {
		return nil, "", err
	}
	startWork, err = promptSegment(user, templates, tagStartWork, hintText)
	if err != nil {
		return nil, "", err
	}
	segments := []segment{
		hello,
		beforeHint,
		{path: hintPath(user.ID, hintID), text: hintText},
		afterHint,
		startWork,
	}
	text := hello.text + "\n" + beforeHint.text + hintText + afterHint.text + "\n" + startWork.text
	return segments, text, nil
}

func (e *Engine) planStartReview(ctx context.Context, user *docstore.User, templates map[string]PromptTemplate, now time.Time) ([]segment, string, error) {
	hintID, hintText, err := e.ensureDailyHint(ctx, user, now)
	if err != nil {
		return nil, "", err
	}
	bye, err := promptSegment(user, templates, tagBye, hintText)
	if err != nil {
		return nil, "", err
	}
	beforeReview, err := promptSegment(user, templates, tagBeforeReview, hintText)
	if err != nil {
		return nil, "", err
	}
	afterReview, err := promptSegment(user, templates, tagAfterReview, hintText)
	if err != nil {
		return nil, "", err
	}
	segments := []segment{
		bye,
		beforeReview,
		{path: hintPath(user.ID, hintID), text: hintText},
		afterReview,
	}
	text := bye.text + "\n" + beforeReview.text + "\"" + hintText + "\"" + afterReview.text
	return segments, text, nil
}

func planSingle(user *docstore.User, templates map[string]PromptTemplate, tag string) ([]segment, string, error) {
	seg, err := promptSegment(user, templates, tag, "")
	if err != nil {
		return nil, "", err
	}
	return []segment{seg}, seg.text, nil
}

func promptSegment(user *docstore.User, templates map[string]PromptTemplate, tag, hintText string) (segment, error) {
	tpl, err := lookupTemplate(templates, tag)
	if err != nil {
		return segment{}, err
	}
	return segment{
		path: promptPath(user.ID, tpl.ID),
		text: substitutePlaceholders(tpl.Text, user.Name, hintText),
	}, nil
}

// ensureDailyHint returns today's hint, picking and persisting a fresh
// one when the recorded hint is stale, absent or dangling. last_active
// and hint_for_today are written in a single update.
func (e *Engine) ensureDailyHint(ctx context.Context, user *docstore.User, now time.Time) (string, string, error) {
	if !IsNewDay(user.LastActive, now) && user.HintForToday != "" {
		if text, ok := user.Hints[user.HintForToday]; ok {
			return user.HintForToday, text, nil
		}
		slog.Warn("hint_for_today references a missing hint; repicking", "user_id", user.ID, "hint_id", user.HintForToday)
	}
	hintID, hintText, err := PickHint(user.Hints)
	if err != nil {
		return "", "", fmt.Errorf("pick daily hint for user %s: %w", user.ID, err)
	}
	if err := e.store.UpdateUserDaily(ctx, user.ID, now, hintID); err != nil {
		return "", "", err
	}
	user.LastActive = now
	user.HintForToday = hintID
	slog.Info("picked daily hint", "user_id", user.ID, "hint_id", hintID)
	return hintID, hintText, nil
}

// loadSegment applies the cache-or-synthesize rule: stored bytes win,
// otherwise the text is synthesized and written back to the same path.
// No lock is held across the read-synthesize-write sequence; a
// concurrent first access may synthesize twice and the last write wins.
func (e *Engine) loadSegment(ctx context.Context, path, text string) ([]byte, error) {
	data, err := e.blobs.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if data != nil {
		return data, nil
	}
	slog.Info("cache miss; synthesizing segment", "path", path)
	data, err = e.synth.Synthesize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("synthesize segment %s: %w", path, err)
	}
	if err := e.blobs.Put(ctx, path, data, wavContentType); err != nil {
		return nil, fmt.Errorf("cache synthesized segment %s: %w", path, err)
	}
	return data, nil
}

// Package finalize maps storage-finalize events back onto the documents
// whose audio they describe: it parses the event subject, transcribes
// the new blob and merges the transcript into the target document.
package finalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/foxseedlab/ahirun/internal/blobstore"
	"github.com/foxseedlab/ahirun/internal/docstore"
	"github.com/foxseedlab/ahirun/internal/notify"
	"github.com/foxseedlab/ahirun/internal/transcriber"
)

// Outcome classifies what a finalize event delivery led to. Every
// outcome is acknowledgeable: the event source must never be told to
// retry, since re-processing the same subject re-derives the same
// update anyway.
type Outcome string

const (
	// OutcomeProcessed means the target document was enriched.
	OutcomeProcessed Outcome = "processed"
	// OutcomeMalformed means the subject matched no known blob scheme.
	OutcomeMalformed Outcome = "malformed"
	// OutcomeMissing means the target document vanished between upload
	// and transcription completion.
	OutcomeMissing Outcome = "missing"
	// OutcomeFailed means a downstream service failed; the returned
	// error wraps ErrUpstream.
	OutcomeFailed Outcome = "failed"
)

// ErrUpstream marks a downstream service failure (transcription or
// store) as distinct from data errors.
var ErrUpstream = errors.New("upstream service unavailable")

// subjectMatchers is the ordered, first-match-wins set of blob path
// schemes observed on the bucket. The legacy flat remarks scheme stays
// supported next to the per-user namespaced one.
var subjectMatchers = []struct {
	pattern *regexp.Regexp
	docPath func(m []string) string
}{
	{
		pattern: regexp.MustCompile(`^objects/(remarks/[^/]+)\.wav$`),
		docPath: func(m []string) string { return m[1] },
	},
	{
		pattern: regexp.MustCompile(`^objects/(logs|records)/([^/]+)/([^/]+)\.wav$`),
		docPath: func(m []string) string { return "users/" + m[2] + "/" + m[1] + "/" + m[3] },
	},
}

type Router struct {
	store        docstore.Store
	blobs        blobstore.Store
	stt          transcriber.Transcriber
	notifier     notify.Sender
	promptMarker string
}

func NewRouter(store docstore.Store, blobs blobstore.Store, stt transcriber.Transcriber, notifier notify.Sender, promptMarker string) *Router {
	return &Router{
		store:        store,
		blobs:        blobs,
		stt:          stt,
		notifier:     notifier,
		promptMarker: promptMarker,
	}
}

// parseSubject resolves an event subject of the form
// objects/<blob_path>.wav into the blob path and the logical document
// path it belongs to.
func parseSubject(subject string) (blobPath, docPath string, ok bool) {
	for _, m := range subjectMatchers {
		groups := m.pattern.FindStringSubmatch(subject)
		if groups == nil {
			continue
		}
		return strings.TrimPrefix(subject, "objects/"), m.docPath(groups), true
	}
	return "", "", false
}

// Route handles one finalize event end to end. Malformed subjects and
// vanished documents are recoverable, logged conditions; only
// downstream failures return an error, wrapped in ErrUpstream so the
// HTTP layer can still acknowledge the event.
func (r *Router) Route(ctx context.Context, subject string) (Outcome, error) {
	blobPath, docPath, ok := parseSubject(subject)
	if !ok {
		slog.Warn("unrecognized finalize subject", "subject", subject)
		return OutcomeMalformed, nil
	}

	uri := r.blobs.StorageURI(blobPath)
	slog.Info("transcribing finalized blob", "subject", subject, "uri", uri, "document", docPath)
	text, err := r.stt.Transcribe(ctx, uri)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("%w: transcribe %s: %v", ErrUpstream, uri, err)
	}

	fields := map[string]any{
		"audio_url": r.blobs.PublicURL(blobPath),
		"text":      text,
	}
	if r.promptMarker != "" && strings.Contains(text, r.promptMarker) {
		fields["prompt"] = text
	}

	if err := r.store.UpdateDocument(ctx, docPath, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			slog.Warn("finalize target document no longer exists", "document", docPath, "subject", subject)
			return OutcomeMissing, nil
		}
		return OutcomeFailed, fmt.Errorf("%w: update %s: %v", ErrUpstream, docPath, err)
	}

	if err := r.notifier.SendTranscript(ctx, notify.TranscriptNotification{
		Document: docPath,
		Text:     text,
		AudioURL: r.blobs.PublicURL(blobPath),
	}); err != nil {
		slog.Error("transcript notification failed", "error", err, "document", docPath)
	}

	slog.Info("finalize event processed", "document", docPath, "transcript_len", len(text))
	return OutcomeProcessed, nil
}

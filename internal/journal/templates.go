package journal

import (
	"errors"
	"fmt"
	"strings"
)

// Prompt tags a user's configuration must provide for the habit flows.
const (
	tagHello        = "hello"
	tagBeforeHint   = "before_hint"
	tagAfterHint    = "after_hint"
	tagStartWork    = "start_work"
	tagPauseWork    = "pause_work"
	tagBye          = "bye"
	tagBeforeReview = "before_review"
	tagAfterReview  = "after_review"
)

// ErrMissingTag reports a prompt tag absent from the user's templates.
var ErrMissingTag = errors.New("prompt tag not configured")

// PromptTemplate is the typed view of one tag's prompt line. The stored
// shape is a single-entry {prompt_id: text} map per tag; anything else
// is a data error and rejected up front.
type PromptTemplate struct {
	ID   string
	Text string
}

func parsePromptTemplates(raw map[string]map[string]string) (map[string]PromptTemplate, error) {
	templates := make(map[string]PromptTemplate, len(raw))
	for tag, entry := range raw {
		if len(entry) != 1 {
			return nil, fmt.Errorf("prompt config for tag %q must hold exactly one entry, got %d (raw: %v)", tag, len(entry), entry)
		}
		for id, text := range entry {
			templates[tag] = PromptTemplate{ID: id, Text: text}
		}
	}
	return templates, nil
}

func lookupTemplate(templates map[string]PromptTemplate, tag string) (PromptTemplate, error) {
	tpl, ok := templates[tag]
	if !ok {
		return PromptTemplate{}, fmt.Errorf("%w: %q", ErrMissingTag, tag)
	}
	return tpl, nil
}

// substitutePlaceholders fills the literal [user] and [hint] markers a
// prompt line may carry.
func substitutePlaceholders(text, userName, hintText string) string {
	text = strings.ReplaceAll(text, "[user]", userName)
	text = strings.ReplaceAll(text, "[hint]", hintText)
	return text
}

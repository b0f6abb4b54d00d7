package notify

import "context"

// TranscriptNotification is posted to the configured webhook once a
// finalize event has been transcribed and merged back into its document.
type TranscriptNotification struct {
	Document string `json:"document"`
	Text     string `json:"text"`
	AudioURL string `json:"audio_url"`
}

type Sender interface {
	SendTranscript(ctx context.Context, n TranscriptNotification) error
}

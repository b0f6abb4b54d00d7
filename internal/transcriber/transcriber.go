package transcriber

import "context"

// Transcriber converts a stored audio blob, addressed by its storage
// URI, into transcript text. Implementations block until the recognizer
// finishes or the configured deadline elapses.
type Transcriber interface {
	Transcribe(ctx context.Context, storageURI string) (string, error)
}

package synthesizer

import "context"

// Synthesizer turns a line of prompt text into LINEAR16 WAV bytes using
// the fixed duck voice parameters from configuration.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

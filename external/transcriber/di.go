package transcriber

import (
	"context"
	"time"

	"github.com/foxseedlab/ahirun/internal/config"
	"github.com/foxseedlab/ahirun/internal/transcriber"
	"github.com/samber/do/v2"
)

const clientInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Transcriber, error) {
		c := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), clientInitTimeout)
		defer cancel()
		return NewCloudSpeechTranscriber(ctx, CloudSpeechConfig{
			CredentialsJSON: c.GoogleCloudCredentialsJSON,
			Language:        c.TranscribeLanguage,
			SampleRateHertz: c.AudioSampleRate,
			Timeout:         time.Duration(c.TranscribeTimeoutSec) * time.Second,
		})
	})
}

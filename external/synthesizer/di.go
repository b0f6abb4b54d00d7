package synthesizer

import (
	"context"
	"time"

	"github.com/foxseedlab/ahirun/internal/config"
	"github.com/foxseedlab/ahirun/internal/synthesizer"
	"github.com/samber/do/v2"
)

const clientInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (synthesizer.Synthesizer, error) {
		c := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), clientInitTimeout)
		defer cancel()
		return NewCloudTTSSynthesizer(ctx, CloudTTSConfig{
			CredentialsJSON: c.GoogleCloudCredentialsJSON,
			Language:        c.SynthesisLanguage,
			Voice:           c.SynthesisVoice,
			Pitch:           c.SynthesisPitch,
			SpeakingRate:    c.SynthesisSpeakingRate,
			SampleRateHertz: c.AudioSampleRate,
		})
	})
}

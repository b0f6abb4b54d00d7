package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/ahirun/internal/config"
)

type envConfig struct {
	Env                        string  `env:"ENV" envDefault:"production"`
	ListenAddr                 string  `env:"LISTEN_ADDR" envDefault:":8080"`
	GoogleCloudProjectID       string  `env:"GOOGLE_CLOUD_PROJECT_ID,required"`
	GoogleCloudCredentialsJSON string  `env:"GOOGLE_CLOUD_CREDENTIALS_JSON,required"`
	StorageBucket              string  `env:"STORAGE_BUCKET" envDefault:"duck-audio"`
	SynthesisLanguage          string  `env:"SYNTHESIS_LANGUAGE" envDefault:"ja-JP"`
	SynthesisVoice             string  `env:"SYNTHESIS_VOICE" envDefault:"ja-JP-Neural2-B"`
	SynthesisPitch             float64 `env:"SYNTHESIS_PITCH" envDefault:"1.60"`
	SynthesisSpeakingRate      float64 `env:"SYNTHESIS_SPEAKING_RATE" envDefault:"1.15"`
	TranscribeLanguage         string  `env:"TRANSCRIBE_LANGUAGE" envDefault:"ja-JP"`
	TranscribeTimeoutSec       int     `env:"TRANSCRIBE_TIMEOUT_SEC" envDefault:"90"`
	AudioSampleRate            int     `env:"AUDIO_SAMPLE_RATE" envDefault:"44100"`
	AudioChannels              int     `env:"AUDIO_CHANNELS" envDefault:"1"`
	AudioBitDepth              int     `env:"AUDIO_BIT_DEPTH" envDefault:"16"`
	PromptMarker               string  `env:"PROMPT_MARKER" envDefault:"プロンプト"`
	NotifyWebhookURL           string  `env:"NOTIFY_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		ListenAddr:                 raw.ListenAddr,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		StorageBucket:              raw.StorageBucket,
		SynthesisLanguage:          raw.SynthesisLanguage,
		SynthesisVoice:             raw.SynthesisVoice,
		SynthesisPitch:             raw.SynthesisPitch,
		SynthesisSpeakingRate:      raw.SynthesisSpeakingRate,
		TranscribeLanguage:         raw.TranscribeLanguage,
		TranscribeTimeoutSec:       raw.TranscribeTimeoutSec,
		AudioSampleRate:            raw.AudioSampleRate,
		AudioChannels:              raw.AudioChannels,
		AudioBitDepth:              raw.AudioBitDepth,
		PromptMarker:               raw.PromptMarker,
		NotifyWebhookURL:           raw.NotifyWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

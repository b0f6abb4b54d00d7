package config

import "fmt"

type Config struct {
	Env                        string
	ListenAddr                 string
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	StorageBucket              string
	SynthesisLanguage          string
	SynthesisVoice             string
	SynthesisPitch             float64
	SynthesisSpeakingRate      float64
	TranscribeLanguage         string
	TranscribeTimeoutSec       int
	AudioSampleRate            int
	AudioChannels              int
	AudioBitDepth              int
	PromptMarker               string
	NotifyWebhookURL           string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.TranscribeTimeoutSec <= 0 {
		return fmt.Errorf("TRANSCRIBE_TIMEOUT_SEC must be positive, got %d", c.TranscribeTimeoutSec)
	}
	if c.AudioSampleRate <= 0 {
		return fmt.Errorf("AUDIO_SAMPLE_RATE must be positive, got %d", c.AudioSampleRate)
	}
	if c.AudioChannels <= 0 {
		return fmt.Errorf("AUDIO_CHANNELS must be positive, got %d", c.AudioChannels)
	}
	if c.AudioBitDepth != 8 && c.AudioBitDepth != 16 && c.AudioBitDepth != 24 && c.AudioBitDepth != 32 {
		return fmt.Errorf("AUDIO_BIT_DEPTH must be 8, 16, 24 or 32, got %d", c.AudioBitDepth)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "LISTEN_ADDR", value: c.ListenAddr},
		{name: "GOOGLE_CLOUD_PROJECT_ID", value: c.GoogleCloudProjectID},
		{name: "GOOGLE_CLOUD_CREDENTIALS_JSON", value: c.GoogleCloudCredentialsJSON},
		{name: "STORAGE_BUCKET", value: c.StorageBucket},
		{name: "SYNTHESIS_LANGUAGE", value: c.SynthesisLanguage},
		{name: "SYNTHESIS_VOICE", value: c.SynthesisVoice},
		{name: "TRANSCRIBE_LANGUAGE", value: c.TranscribeLanguage},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

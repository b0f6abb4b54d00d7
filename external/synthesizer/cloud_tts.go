package synthesizer

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/auth/credentials"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/foxseedlab/ahirun/internal/synthesizer"
	"google.golang.org/api/option"
)

type CloudTTSConfig struct {
	CredentialsJSON string
	Language        string
	Voice           string
	Pitch           float64
	SpeakingRate    float64
	SampleRateHertz int
}

type CloudTTSSynthesizer struct {
	client          *texttospeech.Client
	language        string
	voice           string
	pitch           float64
	speakingRate    float64
	sampleRateHertz int32
}

func NewCloudTTSSynthesizer(ctx context.Context, cfg CloudTTSConfig) (synthesizer.Synthesizer, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(cfg.CredentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}
	client, err := texttospeech.NewClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create text-to-speech client: %w", err)
	}
	return &CloudTTSSynthesizer{
		client:          client,
		language:        cfg.Language,
		voice:           cfg.Voice,
		pitch:           cfg.Pitch,
		speakingRate:    cfg.SpeakingRate,
		sampleRateHertz: int32(cfg.SampleRateHertz),
	}, nil
}

func (s *CloudTTSSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	slog.Info("synthesizing speech", "voice", s.voice, "text_len", len(text))
	resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.language,
			Name:         s.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:   texttospeechpb.AudioEncoding_LINEAR16,
			Pitch:           s.pitch,
			SpeakingRate:    s.speakingRate,
			SampleRateHertz: s.sampleRateHertz,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	return resp.GetAudioContent(), nil
}

package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/foxseedlab/ahirun/internal/transcriber"
	"google.golang.org/api/option"
)

type CloudSpeechConfig struct {
	CredentialsJSON string
	Language        string
	SampleRateHertz int
	Timeout         time.Duration
}

type CloudSpeechTranscriber struct {
	client          *speech.Client
	language        string
	sampleRateHertz int32
	timeout         time.Duration
}

func NewCloudSpeechTranscriber(ctx context.Context, cfg CloudSpeechConfig) (transcriber.Transcriber, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(cfg.CredentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}
	client, err := speech.NewClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	return &CloudSpeechTranscriber{
		client:          client,
		language:        cfg.Language,
		sampleRateHertz: int32(cfg.SampleRateHertz),
		timeout:         cfg.Timeout,
	}, nil
}

// Transcribe starts a long-running recognition on the blob behind
// storageURI and blocks until it completes or the configured timeout
// elapses. The top alternative of each consecutive result is joined
// with newlines.
func (t *CloudSpeechTranscriber) Transcribe(ctx context.Context, storageURI string) (string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	op, err := t.client.LongRunningRecognize(waitCtx, &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: t.sampleRateHertz,
			LanguageCode:    t.language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: storageURI},
		},
	})
	if err != nil {
		return "", fmt.Errorf("start recognition of %s: %w", storageURI, err)
	}

	slog.Info("waiting for recognition to complete", "uri", storageURI, "timeout", t.timeout)
	resp, err := op.Wait(waitCtx)
	if err != nil {
		return "", fmt.Errorf("wait for recognition of %s: %w", storageURI, err)
	}

	lines := make([]string, 0, len(resp.GetResults()))
	for _, result := range resp.GetResults() {
		if len(result.GetAlternatives()) == 0 {
			continue
		}
		lines = append(lines, result.GetAlternatives()[0].GetTranscript())
	}
	transcript := strings.Join(lines, "\n")
	slog.Info("recognition finished", "uri", storageURI, "transcript_len", len(transcript))
	return transcript, nil
}

package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teslashibe/go-gaze/internal/httpc"
	"github.com/teslashibe/go-gaze/pkg/audioio"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	speechv1 "google.golang.org/api/speech/v1"
)

// Google transcribes audio with the Google Cloud Speech-to-Text v1 API.
type Google struct {
	svc    *speechv1.Service
	cfg    Config
	logger *slog.Logger
}

// NewGoogle creates a Google recognizer. With an API key the key is sent
// on every request; otherwise application default credentials are used.
func NewGoogle(ctx context.Context, cfg Config, logger *slog.Logger) (*Google, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	var opts []option.ClientOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		ts, err := google.DefaultTokenSource(ctx, speechv1.CloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("default credentials: %w", err)
		}
		base := context.WithValue(ctx, oauth2.HTTPClient, httpc.NewClient(cfg.Timeout))
		opts = append(opts, option.WithHTTPClient(oauth2.NewClient(base, ts)))
	}

	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := speechv1.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech service: %w", err)
	}

	logger.Info("google speech recognizer ready",
		"language", cfg.Language,
		"sample_rate", cfg.SampleRate,
		"api_key", cfg.APIKey != "",
	)

	return &Google{svc: svc, cfg: cfg, logger: logger}, nil
}

// Name returns "google".
func (g *Google) Name() string {
	return "google"
}

// Transcribe uploads the chunk as 16-bit linear PCM and returns the joined
// top-alternative transcripts.
func (g *Google) Transcribe(ctx context.Context, chunk audioio.AudioChunk) (string, error) {
	if len(chunk.Samples) == 0 {
		return "", ErrEmptyAudio
	}

	mono := chunk.Mono()
	samples := audioio.Resample(mono.Samples, mono.SampleRate, g.cfg.SampleRate)
	pcm := audioio.SamplesToBytes(samples)

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	req := &speechv1.RecognizeRequest{
		Config: &speechv1.RecognitionConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: int64(g.cfg.SampleRate),
			LanguageCode:    g.cfg.Language,
			MaxAlternatives: 1,
		},
		Audio: &speechv1.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(pcm),
		},
	}

	resp, err := g.svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return "", &RecognitionError{
				StatusCode: apiErr.Code,
				Message:    apiErr.Message,
				Provider:   g.Name(),
				Err:        err,
			}
		}
		return "", &RecognitionError{Provider: g.Name(), Err: err}
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(result.Alternatives[0].Transcript); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoSpeech
	}

	return strings.Join(parts, " "), nil
}

var _ Recognizer = (*Google)(nil)

package voice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/teslashibe/go-gaze/pkg/audioio"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/speech"
)

// Sink receives matched actions. *dispatch.Queue satisfies it.
type Sink interface {
	Push(a gaze.Action) bool
}

// Result is the outcome of one listen iteration.
type Result struct {
	Text    string
	Action  gaze.Action
	Matched bool
	Queued  bool
	Err     error
}

// Channel is the background producer of voice command actions.
type Channel struct {
	cfg        Config
	source     audioio.Source
	recognizer speech.Recognizer
	sink       Sink
	logger     *slog.Logger
	metrics    *MetricsCollector

	// OnResult, if set, is called after every iteration.
	OnResult func(Result)
}

// New creates a voice channel. The source must already be started.
func New(cfg Config, source audioio.Source, recognizer speech.Recognizer, sink Sink, logger *slog.Logger) (*Channel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil || recognizer == nil || sink == nil {
		return nil, errors.New("voice: source, recognizer and sink are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		cfg:        cfg,
		source:     source,
		recognizer: recognizer,
		sink:       sink,
		logger:     logger.With("component", "voice"),
		metrics:    NewMetricsCollector(),
	}, nil
}

// Metrics returns the channel's metrics collector.
func (c *Channel) Metrics() *MetricsCollector {
	return c.metrics
}

// Listen runs one iteration: record, gate, transcribe, match, enqueue.
// Failures are reported in the Result, never returned.
func (c *Channel) Listen(ctx context.Context) Result {
	c.metrics.MarkCaptureStart()

	chunk, err := audioio.Record(ctx, c.source, c.cfg.PhraseLimit)
	if err != nil {
		c.metrics.MarkFailure()
		return Result{Err: &CaptureError{Err: err}}
	}
	c.metrics.MarkCaptured()

	mono := chunk.Mono()
	if c.cfg.MinRMS > 0 && mono.RMS() < c.cfg.MinRMS {
		c.metrics.MarkSilent()
		return Result{Err: ErrSilent}
	}

	text, err := c.recognizer.Transcribe(ctx, chunk)
	c.metrics.MarkTranscript()
	if err != nil {
		c.metrics.MarkFailure()
		return Result{Err: err}
	}

	text = strings.ToLower(strings.TrimSpace(text))
	res := Result{Text: text}

	action, ok := Match(text, c.cfg.ScrollSpeed)
	if !ok {
		c.metrics.MarkDone()
		return res
	}

	res.Action = action
	res.Matched = true
	res.Queued = c.sink.Push(action)
	c.metrics.MarkCommand()
	return res
}

// Run loops until ctx is cancelled. It always returns ctx.Err().
func (c *Channel) Run(ctx context.Context) error {
	c.logger.Info("voice channel listening",
		"recognizer", c.recognizer.Name(),
		"phrase_limit", c.cfg.PhraseLimit,
		"scroll_speed", c.cfg.ScrollSpeed,
	)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		res := c.Listen(ctx)
		c.report(res)
		if c.OnResult != nil {
			c.OnResult(res)
		}

		if shouldBackOff(res.Err) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}
	}
}

func (c *Channel) report(res Result) {
	switch {
	case res.Err == nil && res.Matched:
		c.logger.Info("voice command", "text", res.Text, "action", res.Action.String(), "queued", res.Queued)
	case res.Err == nil:
		c.logger.Debug("voice phrase ignored", "text", res.Text)
	case errors.Is(res.Err, ErrSilent), errors.Is(res.Err, speech.ErrNoSpeech), errors.Is(res.Err, context.Canceled):
		// Nothing said
	default:
		c.logger.Warn("voice iteration failed", "error", res.Err)
	}
}

// shouldBackOff reports whether the next iteration should wait. Capture
// errors usually repeat immediately and rate limits need room to recover.
func shouldBackOff(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var capErr *CaptureError
	if errors.As(err, &capErr) {
		return true
	}
	var recErr *speech.RecognitionError
	return errors.As(err, &recErr) && recErr.IsRateLimited()
}

package audioio

import (
	"fmt"
	"log/slog"
	"sort"
)

type constructor func(cfg Config, logger *slog.Logger) (Source, error)

var backends = map[Backend]constructor{
	BackendPortAudio: func(cfg Config, logger *slog.Logger) (Source, error) {
		src, err := newPortAudioSource(cfg, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	},
	BackendMock: func(cfg Config, logger *slog.Logger) (Source, error) {
		return NewMockSource(cfg, logger), nil
	},
}

// NewSource creates an audio source for cfg.Backend. BackendAuto selects
// PortAudio.
func NewSource(cfg Config, logger *slog.Logger) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	backend := cfg.Backend
	if backend == BackendAuto {
		backend = BackendPortAudio
	}
	create, ok := backends[backend]
	if !ok {
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	logger.Info("creating audio source",
		"backend", backend,
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"buffer_ms", cfg.BufferDuration.Milliseconds(),
	)
	return create(cfg, logger)
}

// AvailableBackends lists the selectable backends, auto first.
func AvailableBackends() []Backend {
	out := []Backend{BackendAuto}
	names := make([]string, 0, len(backends))
	for b := range backends {
		names = append(names, string(b))
	}
	sort.Strings(names)
	for _, n := range names {
		out = append(out, Backend(n))
	}
	return out
}

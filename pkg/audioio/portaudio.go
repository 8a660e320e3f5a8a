package audioio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// PortAudioSource captures audio from an input device through PortAudio.
type PortAudioSource struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	running  bool
	closed   bool
	stream   *portaudio.Stream
	buf      []int16
	streamCh chan AudioChunk
	stopCh   chan struct{}
	done     chan struct{}

	// Stats
	chunksRead  atomic.Int64
	samplesRead atomic.Int64
	overruns    atomic.Int64
}

// newPortAudioSource creates a new PortAudio source. The device is opened on Start.
func newPortAudioSource(cfg Config, logger *slog.Logger) (*PortAudioSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}

	s := &PortAudioSource{
		cfg:      cfg,
		logger:   logger,
		streamCh: make(chan AudioChunk, 64),
		stopCh:   make(chan struct{}),
	}

	logger.Info("PortAudio source created",
		"device", deviceLabel(cfg.Device),
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
	)

	return s, nil
}

func deviceLabel(name string) string {
	if name == "" {
		return "default"
	}
	return name
}

// findDevice returns the named input device, or the default one.
func findDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		return portaudio.DefaultInputDevice()
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Name == name && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("input device not found: %s", name)
}

// Start opens the device and begins capture.
func (s *PortAudioSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return io.ErrClosedPipe
	}
	if s.running {
		return nil
	}

	device, err := findDevice(s.cfg.Device)
	if err != nil {
		return fmt.Errorf("input device: %w", err)
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: s.cfg.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(s.cfg.SampleRate),
		FramesPerBuffer: s.cfg.BufferSize(),
	}

	s.buf = make([]int16, s.cfg.BufferSize()*s.cfg.Channels)
	stream, err := portaudio.OpenStream(params, s.buf)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start stream: %w", err)
	}

	s.stream = stream
	s.running = true
	s.stopCh = make(chan struct{})
	s.streamCh = make(chan AudioChunk, 64)
	s.done = make(chan struct{})

	go s.captureLoop(ctx, stream, s.stopCh, s.streamCh, s.done)

	s.logger.Info("PortAudio capture started", "device", device.Name)
	return nil
}

func (s *PortAudioSource) captureLoop(ctx context.Context, stream *portaudio.Stream, stopCh chan struct{}, out chan AudioChunk, done chan struct{}) {
	defer close(done)
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		default:
		}

		if err := stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				s.overruns.Add(1)
			} else {
				s.logger.Warn("PortAudio read failed", "error", err)
				return
			}
		}

		samples := make([]int16, len(s.buf))
		copy(samples, s.buf)
		chunk := AudioChunk{
			Samples:    samples,
			SampleRate: s.cfg.SampleRate,
			Channels:   s.cfg.Channels,
		}

		select {
		case out <- chunk:
			s.chunksRead.Add(1)
			s.samplesRead.Add(int64(len(samples)))
		default:
			// Reader not keeping up, drop chunk
			s.overruns.Add(1)
		}
	}
}

// Stop halts capture and closes the stream.
func (s *PortAudioSource) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	stream := s.stream
	done := s.done
	s.stream = nil
	s.mu.Unlock()

	<-done

	var errs []error
	if err := stream.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := stream.Close(); err != nil {
		errs = append(errs, err)
	}

	s.logger.Info("PortAudio capture stopped")
	return errors.Join(errs...)
}

// Read reads the next audio chunk.
func (s *PortAudioSource) Read(ctx context.Context) (AudioChunk, error) {
	s.mu.Lock()
	ch := s.streamCh
	running := s.running
	s.mu.Unlock()

	if !running {
		return AudioChunk{}, io.EOF
	}

	select {
	case <-ctx.Done():
		return AudioChunk{}, ctx.Err()
	case chunk, ok := <-ch:
		if !ok {
			return AudioChunk{}, io.EOF
		}
		return chunk, nil
	}
}

// Config returns the audio configuration.
func (s *PortAudioSource) Config() Config {
	return s.cfg
}

// Name returns "portaudio".
func (s *PortAudioSource) Name() string {
	return "portaudio"
}

// Close stops capture and releases PortAudio.
func (s *PortAudioSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.Stop()
	if termErr := portaudio.Terminate(); termErr != nil {
		err = errors.Join(err, termErr)
	}
	return err
}

// Stats returns source statistics.
func (s *PortAudioSource) Stats() SourceStats {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	return SourceStats{
		ChunksRead:  s.chunksRead.Load(),
		SamplesRead: s.samplesRead.Load(),
		Overruns:    s.overruns.Load(),
		Running:     running,
		Backend:     "portaudio",
	}
}

var _ SourceWithStats = (*PortAudioSource)(nil)

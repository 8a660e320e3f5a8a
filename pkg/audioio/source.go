package audioio

import (
	"context"
	"io"
)

// AudioChunk represents a chunk of audio data.
type AudioChunk struct {
	// Samples contains PCM16 audio samples, interleaved by channel.
	Samples []int16

	// SampleRate is the sample rate of this chunk.
	SampleRate int

	// Channels is the number of channels in this chunk.
	Channels int
}

// Bytes returns the raw little-endian bytes of the audio chunk.
func (c *AudioChunk) Bytes() []byte {
	return SamplesToBytes(c.Samples)
}

// FromBytes populates the chunk from raw PCM16 bytes.
func (c *AudioChunk) FromBytes(data []byte, sampleRate, channels int) {
	c.SampleRate = sampleRate
	c.Channels = channels
	c.Samples = BytesToSamples(data)
}

// Duration returns the duration of this audio chunk in seconds.
func (c *AudioChunk) Duration() float64 {
	if c.SampleRate == 0 || c.Channels == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate*c.Channels)
}

// Mono returns the chunk downmixed to a single channel.
// Only mono and stereo input are downmixed; other layouts keep channel 0.
func (c AudioChunk) Mono() AudioChunk {
	switch c.Channels {
	case 0, 1:
		return c
	case 2:
		return AudioChunk{Samples: StereoToMono(c.Samples), SampleRate: c.SampleRate, Channels: 1}
	default:
		mono := make([]int16, len(c.Samples)/c.Channels)
		for i := range mono {
			mono[i] = c.Samples[i*c.Channels]
		}
		return AudioChunk{Samples: mono, SampleRate: c.SampleRate, Channels: 1}
	}
}

// RMS returns the normalized root mean square level of the chunk (0.0 to 1.0).
func (c *AudioChunk) RMS() float64 {
	return CalculateRMS(c.Samples)
}

// Source captures audio from a microphone or other input device.
type Source interface {
	// Start begins audio capture.
	// After calling Start, audio chunks will be available via Read.
	Start(ctx context.Context) error

	// Stop halts audio capture.
	// It is safe to call Stop multiple times.
	Stop() error

	// Read reads the next audio chunk, blocking if necessary.
	// Returns io.EOF when the source is stopped.
	Read(ctx context.Context) (AudioChunk, error)

	// Config returns the current audio configuration.
	Config() Config

	// Name returns the backend name (e.g., "portaudio", "mock").
	Name() string

	// Close releases all resources.
	// After Close, the source cannot be restarted.
	io.Closer
}

// SourceStats contains statistics about the audio source.
type SourceStats struct {
	// ChunksRead is the total number of chunks read.
	ChunksRead int64 `json:"chunks_read"`

	// SamplesRead is the total number of samples read.
	SamplesRead int64 `json:"samples_read"`

	// Overruns is the number of buffer overruns (dropped audio).
	Overruns int64 `json:"overruns"`

	// Running indicates if the source is currently capturing.
	Running bool `json:"running"`

	// Backend is the name of the audio backend.
	Backend string `json:"backend"`
}

// SourceWithStats extends Source with statistics.
type SourceWithStats interface {
	Source
	Stats() SourceStats
}

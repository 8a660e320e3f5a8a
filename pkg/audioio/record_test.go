package audioio

import (
	"context"
	"io"
	"testing"
	"time"
)

func TestRecord_CollectsDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BufferDuration = 5 * time.Millisecond

	src := NewMockSource(cfg, nil, WithTone(300, 0.2))
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	chunk, err := Record(ctx, src, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if got := chunk.Duration(); got < 0.05 {
		t.Errorf("expected at least 50ms of audio, got %fs", got)
	}
	if chunk.SampleRate != cfg.SampleRate {
		t.Errorf("expected sample rate %d, got %d", cfg.SampleRate, chunk.SampleRate)
	}
}

func TestRecord_KeepsScriptOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleRate = 1000
	cfg.BufferDuration = time.Millisecond

	src := NewMockSource(cfg, nil, WithScript(
		AudioChunk{Samples: []int16{1, 2}, SampleRate: 1000, Channels: 1},
		AudioChunk{Samples: []int16{3, 4}, SampleRate: 1000, Channels: 1},
	))
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	chunk, err := Record(ctx, src, 4*time.Millisecond)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	expected := []int16{1, 2, 3, 4}
	if len(chunk.Samples) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, chunk.Samples)
	}
	for i := range expected {
		if chunk.Samples[i] != expected[i] {
			t.Errorf("sample %d: expected %d, got %d", i, expected[i], chunk.Samples[i])
		}
	}
}

func TestRecord_StoppedSource(t *testing.T) {
	src := NewMockSource(DefaultConfig(), nil)
	defer src.Close()

	_, err := Record(context.Background(), src, 100*time.Millisecond)
	if err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestRecord_InvalidDuration(t *testing.T) {
	src := NewMockSource(DefaultConfig(), nil)
	defer src.Close()

	if _, err := Record(context.Background(), src, 0); err == nil {
		t.Error("expected error for zero duration")
	}
}

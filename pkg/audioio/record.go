package audioio

import (
	"context"
	"fmt"
	"time"
)

// Record reads from a started source until at least d of audio has been
// collected and returns it as one chunk.
func Record(ctx context.Context, src Source, d time.Duration) (AudioChunk, error) {
	cfg := src.Config()
	out := AudioChunk{SampleRate: cfg.SampleRate, Channels: cfg.Channels}

	want := int(d.Seconds() * float64(cfg.SampleRate*cfg.Channels))
	if want <= 0 {
		return out, fmt.Errorf("record duration must be positive, got %v", d)
	}
	out.Samples = make([]int16, 0, want)

	for len(out.Samples) < want {
		chunk, err := src.Read(ctx)
		if err != nil {
			return out, err
		}
		if chunk.SampleRate != 0 {
			out.SampleRate = chunk.SampleRate
		}
		if chunk.Channels != 0 {
			out.Channels = chunk.Channels
		}
		out.Samples = append(out.Samples, chunk.Samples...)
	}

	return out, nil
}

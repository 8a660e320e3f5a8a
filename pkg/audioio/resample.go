package audioio

import (
	"encoding/binary"
	"math"
)

// Resample converts audio between sample rates with linear interpolation.
// Quality is adequate for keyword recognition.
func Resample(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate || len(samples) == 0 {
		return samples
	}

	step := float64(fromRate) / float64(toRate)
	out := make([]int16, int(float64(len(samples))/step))
	last := len(samples) - 1

	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= last {
			out[i] = samples[last]
			continue
		}
		a, b := float64(samples[j]), float64(samples[j+1])
		out[i] = int16(a + (pos-float64(j))*(b-a))
	}
	return out
}

// BytesToSamples decodes PCM16 little-endian bytes. A trailing odd byte is
// ignored.
func BytesToSamples(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return samples
}

// SamplesToBytes encodes samples as PCM16 little-endian, the LINEAR16
// layout speech backends expect.
func SamplesToBytes(samples []int16) []byte {
	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}
	return data
}

// StereoToMono averages interleaved left/right pairs.
func StereoToMono(samples []int16) []int16 {
	mono := make([]int16, len(samples)/2)
	for i := range mono {
		mono[i] = int16((int32(samples[2*i]) + int32(samples[2*i+1])) / 2)
	}
	return mono
}

// CalculateRMS returns the root mean square level, where a full-scale
// signal is 1.0. The voice channel gates silence on it.
func CalculateRMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		v := float64(s) / math.MaxInt16
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

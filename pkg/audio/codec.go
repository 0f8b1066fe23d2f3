// Package audio converts between the base64-encoded PCM16 payloads used on
// the wire and the normalized float buffers used for playback and capture.
package audio

import (
	"encoding/base64"
	"fmt"

	"github.com/SmileAfterBurn/social-map-care/pkg/core"
)

const (
	// CaptureSampleRate is the microphone pipeline rate.
	CaptureSampleRate = 16000
	// PlaybackSampleRate is the synthesis pipeline rate.
	PlaybackSampleRate = 24000

	bytesPerSample = 2
)

// Buffer holds de-interleaved normalized samples, one slice per channel.
// Samples are in [-1, 1] after PCM16 normalization.
type Buffer struct {
	Channels   [][]float32
	SampleRate int
}

// Duration returns the playback length of the buffer in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 || len(b.Channels) == 0 {
		return 0
	}
	return float64(len(b.Channels[0])) / float64(b.SampleRate)
}

// DecodeBase64 decodes a standard base64 payload into raw bytes.
func DecodeBase64(data string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, core.NewDecodeError(fmt.Sprintf("malformed base64 payload: %v", err))
	}
	return decoded, nil
}

// EncodeBase64 encodes raw bytes as standard base64.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// PCM16ToBuffer interprets data as little-endian signed 16-bit samples,
// de-interleaves them by channel and normalizes each sample by 32768.
func PCM16ToBuffer(data []byte, sampleRate, channels int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, core.NewInvalidRequestError("sample rate must be positive")
	}
	if channels <= 0 {
		return nil, core.NewInvalidRequestError("channel count must be positive")
	}
	frameBytes := bytesPerSample * channels
	if len(data)%frameBytes != 0 {
		return nil, core.NewMalformedAudioError(fmt.Sprintf(
			"pcm payload length %d is not a multiple of %d (2 bytes x %d channels)",
			len(data), frameBytes, channels))
	}

	frames := len(data) / frameBytes
	buf := &Buffer{
		Channels:   make([][]float32, channels),
		SampleRate: sampleRate,
	}
	for ch := range buf.Channels {
		buf.Channels[ch] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * bytesPerSample
			sample := int16(uint16(data[off]) | uint16(data[off+1])<<8)
			buf.Channels[ch][i] = float32(sample) / 32768.0
		}
	}
	return buf, nil
}

// BufferToPCM16 interleaves the buffer's channels back into little-endian
// signed 16-bit bytes. Out-of-range samples clamp to the int16 range instead
// of wrapping.
func BufferToPCM16(buf *Buffer) []byte {
	if buf == nil || len(buf.Channels) == 0 {
		return nil
	}
	channels := len(buf.Channels)
	frames := len(buf.Channels[0])
	out := make([]byte, frames*channels*bytesPerSample)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			s := clampToInt16(buf.Channels[ch][i])
			off := (i*channels + ch) * bytesPerSample
			out[off] = byte(s)
			out[off+1] = byte(uint16(s) >> 8)
		}
	}
	return out
}

// Float32ToPCM16 converts a mono normalized sample slice to little-endian
// signed 16-bit bytes, clamping out-of-range input. This is the capture path:
// microphone frames go through here before base64 encoding.
func Float32ToPCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*bytesPerSample)
	for i, v := range samples {
		s := clampToInt16(v)
		out[i*2] = byte(s)
		out[i*2+1] = byte(uint16(s) >> 8)
	}
	return out
}

func clampToInt16(v float32) int16 {
	scaled := float64(v) * 32768.0
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}

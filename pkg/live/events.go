// Package live implements the duplex voice session state machine: it owns
// the microphone source, the playback timeline and the dispatch loop over
// typed server events, independent of any concrete transport.
package live

import (
	"context"

	"github.com/SmileAfterBurn/social-map-care/pkg/assistant"
	"github.com/SmileAfterBurn/social-map-care/pkg/audio"
)

// FrameSamples is the capture batch size: mic samples are accumulated into
// frames of this many samples before being sent upstream.
const FrameSamples = 4096

// ServerEvent is a typed message received from the live channel.
type ServerEvent interface {
	serverEventType() string
}

// InputTranscriptionEvent carries a transcript fragment of the user's own
// speech.
type InputTranscriptionEvent struct {
	Text string
}

func (InputTranscriptionEvent) serverEventType() string { return "input_transcription" }

// OutputTranscriptionEvent carries a transcript fragment of the model's
// spoken reply.
type OutputTranscriptionEvent struct {
	Text string
}

func (OutputTranscriptionEvent) serverEventType() string { return "output_transcription" }

// AudioChunkEvent carries one clip of model speech as raw PCM16 at the
// playback rate.
type AudioChunkEvent struct {
	Data []byte
}

func (AudioChunkEvent) serverEventType() string { return "audio_chunk" }

// ToolCallEvent carries a batch of tool invocations from the model.
type ToolCallEvent struct {
	Calls []assistant.FunctionCallRequest
}

func (ToolCallEvent) serverEventType() string { return "tool_call" }

// InterruptedEvent signals barge-in: the user spoke over the model and all
// pending playback must be discarded.
type InterruptedEvent struct{}

func (InterruptedEvent) serverEventType() string { return "interrupted" }

// TurnCompleteEvent marks the end of a model turn.
type TurnCompleteEvent struct{}

func (TurnCompleteEvent) serverEventType() string { return "turn_complete" }

// Transport is the duplex channel to the live endpoint. The events channel
// closes when the channel terminates, for any reason; Err then reports the
// terminal error, nil for a clean close.
type Transport interface {
	Events() <-chan ServerEvent
	SendAudioFrame(pcm []byte) error
	SendToolResponse(resp assistant.FunctionCallResponse) error
	Close() error
	Err() error
}

// DialFunc opens a Transport. The session applies no retry; a failed dial
// fails the Connect call.
type DialFunc func(ctx context.Context) (Transport, error)

// Source is the capture side, typically a microphone. Start blocks until
// capture is running (a permission prompt may suspend it) and returns a
// channel of mono float frames at the capture rate; the channel closes when
// the source stops. A refusal surfaces as a permission error from Start.
type Source interface {
	Start(ctx context.Context) (<-chan []float32, error)
	Stop() error
}

// Handle is one scheduled playback clip.
type Handle interface {
	Stop()
}

// Player renders decoded audio on a virtual timeline measured in seconds.
// Now reports the current playhead position; Play schedules a clip to start
// at the given position.
type Player interface {
	Play(buf *audio.Buffer, at float64) (Handle, error)
	Now() float64
	Close() error
}

// Callbacks are the three notifications a session owner receives. Nil
// callbacks are skipped. They are invoked from the session's dispatch
// goroutine and must not block.
type Callbacks struct {
	OnStatusChange  func(active bool)
	OnTranscription func(text string, role assistant.MessageRole)
	OnFunctionCall  func(call assistant.FunctionCallRequest)
}

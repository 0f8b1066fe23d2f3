package live

import (
	"context"
	"sync"

	"github.com/SmileAfterBurn/social-map-care/pkg/assistant"
	"github.com/SmileAfterBurn/social-map-care/pkg/audio"
	"github.com/SmileAfterBurn/social-map-care/pkg/core"
)

// State is the session lifecycle phase.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosed     State = "closed"
)

// ToolAckMessage is the synthetic success sent back for every recognized
// tool call so the model can continue its turn.
const ToolAckMessage = "Трасування розпочато."

// Session drives one live voice conversation: it forwards captured audio
// upstream, dispatches server events, schedules model speech for gapless
// playback and acknowledges tool calls. A Session may be reused across
// connect/disconnect cycles, but holds at most one open channel at a time.
type Session struct {
	dial      DialFunc
	source    Source
	player    Player
	callbacks Callbacks

	mu        sync.Mutex
	state     State
	transport Transport
	sched     *scheduler
	done      chan struct{}

	err error
}

// Options wires a Session's collaborators. Dial, Source and Player are
// required.
type Options struct {
	Dial      DialFunc
	Source    Source
	Player    Player
	Callbacks Callbacks
}

// NewSession builds an idle session.
func NewSession(opts Options) (*Session, error) {
	if opts.Dial == nil || opts.Source == nil || opts.Player == nil {
		return nil, core.NewInvalidRequestError("live session requires a dialer, a source and a player")
	}
	return &Session{
		dial:      opts.Dial,
		source:    opts.Source,
		player:    opts.Player,
		callbacks: opts.Callbacks,
		state:     StateIdle,
	}, nil
}

// State reports the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the terminal error of the most recent session, nil after a
// clean close.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Connect opens the microphone and the live channel, then starts the
// capture and dispatch loops. It fails without side effects when the
// session is already connecting or open: one session owns at most one
// microphone stream at a time. A microphone refusal surfaces as the
// source's permission error and leaves the session reconnectable.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateOpen || s.state == StateConnecting {
		s.mu.Unlock()
		return core.NewInvalidRequestError("live session is already active")
	}
	s.state = StateConnecting
	s.err = nil
	s.mu.Unlock()

	frames, err := s.source.Start(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		return err
	}

	transport, err := s.dial(ctx)
	if err != nil {
		_ = s.source.Stop()
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		return err
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.transport = transport
	s.sched = newScheduler(s.player)
	s.done = done
	s.state = StateOpen
	s.mu.Unlock()

	if s.callbacks.OnStatusChange != nil {
		s.callbacks.OnStatusChange(true)
	}

	go s.forwardAudio(transport, frames)
	go s.dispatch(transport, done)
	return nil
}

// Disconnect tears the session down: stops capture, closes the channel and
// notifies the status callback. Safe to call from any state, any number of
// times, including before Connect ever succeeded; teardown is best-effort
// and never reports secondary errors.
func (s *Session) Disconnect() {
	s.mu.Lock()
	if s.state != StateOpen {
		s.state = StateClosed
		s.mu.Unlock()
		return
	}
	transport := s.transport
	sched := s.sched
	done := s.done
	s.transport = nil
	s.state = StateClosed
	s.mu.Unlock()

	if sched != nil {
		sched.interrupt()
	}
	_ = s.source.Stop()
	_ = transport.Close()
	<-done

	s.mu.Lock()
	s.err = transport.Err()
	s.mu.Unlock()

	if s.callbacks.OnStatusChange != nil {
		s.callbacks.OnStatusChange(false)
	}
}

// forwardAudio streams captured frames upstream as PCM16. Each frame is
// fire-and-forget; a send failure means the channel is going down and the
// dispatch loop will handle cleanup.
func (s *Session) forwardAudio(transport Transport, frames <-chan []float32) {
	for frame := range frames {
		if err := transport.SendAudioFrame(audio.Float32ToPCM16(frame)); err != nil {
			return
		}
	}
}

// dispatch consumes server events until the transport closes, then routes
// through the common disconnect path so abnormal termination and remote
// close look identical to the caller.
func (s *Session) dispatch(transport Transport, done chan struct{}) {
	for event := range transport.Events() {
		switch e := event.(type) {
		case InputTranscriptionEvent:
			if s.callbacks.OnTranscription != nil {
				s.callbacks.OnTranscription(e.Text, assistant.RoleUser)
			}
		case OutputTranscriptionEvent:
			if s.callbacks.OnTranscription != nil {
				s.callbacks.OnTranscription(e.Text, assistant.RoleModel)
			}
		case AudioChunkEvent:
			s.handleAudio(e.Data)
		case ToolCallEvent:
			s.handleToolCalls(transport, e.Calls)
		case InterruptedEvent:
			s.mu.Lock()
			sched := s.sched
			s.mu.Unlock()
			if sched != nil {
				sched.interrupt()
			}
		case TurnCompleteEvent:
			// Nothing to flush; playback is already scheduled.
		}
	}

	s.mu.Lock()
	stillOpen := s.state == StateOpen && s.transport == transport
	s.mu.Unlock()
	close(done)
	if stillOpen {
		s.Disconnect()
	}
}

func (s *Session) handleAudio(data []byte) {
	buf, err := audio.PCM16ToBuffer(data, audio.PlaybackSampleRate, 1)
	if err != nil {
		// Malformed clip; skip it rather than poison the timeline.
		return
	}
	s.mu.Lock()
	sched := s.sched
	s.mu.Unlock()
	if sched != nil {
		_ = sched.schedule(buf)
	}
}

func (s *Session) handleToolCalls(transport Transport, calls []assistant.FunctionCallRequest) {
	for _, call := range calls {
		if call.Name != assistant.TraceToolName {
			continue
		}
		if s.callbacks.OnFunctionCall != nil {
			s.callbacks.OnFunctionCall(call)
		}
		_ = transport.SendToolResponse(assistant.FunctionCallResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: map[string]any{"result": ToolAckMessage},
		})
	}
}

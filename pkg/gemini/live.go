package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SmileAfterBurn/social-map-care/pkg/assistant"
	"github.com/SmileAfterBurn/social-map-care/pkg/audio"
	"github.com/SmileAfterBurn/social-map-care/pkg/core"
	"github.com/SmileAfterBurn/social-map-care/pkg/live"
)

const (
	defaultLiveConnectTimeout = 15 * time.Second

	captureMIMEType = "audio/pcm;rate=16000"
)

// Bidi wire frames. Client and server messages are single-key JSON
// envelopes; the set key identifies the frame.

type bidiClientSetup struct {
	Setup bidiSetup `json:"setup"`
}

type bidiSetup struct {
	Model                    string           `json:"model"`
	GenerationConfig         *geminiGenConfig `json:"generationConfig,omitempty"`
	SystemInstruction        *geminiContent   `json:"systemInstruction,omitempty"`
	Tools                    []geminiTool     `json:"tools,omitempty"`
	InputAudioTranscription  *struct{}        `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription *struct{}        `json:"outputAudioTranscription,omitempty"`
}

type bidiClientRealtimeInput struct {
	RealtimeInput bidiRealtimeInput `json:"realtimeInput"`
}

type bidiRealtimeInput struct {
	Media geminiBlob `json:"media"`
}

type bidiClientToolResponse struct {
	ToolResponse bidiToolResponse `json:"toolResponse"`
}

type bidiToolResponse struct {
	FunctionResponses []bidiFunctionResponse `json:"functionResponses"`
}

type bidiFunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type bidiServerMessage struct {
	SetupComplete *struct{}          `json:"setupComplete,omitempty"`
	ServerContent *bidiServerContent `json:"serverContent,omitempty"`
	ToolCall      *bidiToolCall      `json:"toolCall,omitempty"`
}

type bidiServerContent struct {
	InputTranscription  *bidiTranscription `json:"inputTranscription,omitempty"`
	OutputTranscription *bidiTranscription `json:"outputTranscription,omitempty"`
	ModelTurn           *geminiContent     `json:"modelTurn,omitempty"`
	Interrupted         bool               `json:"interrupted,omitempty"`
	TurnComplete        bool               `json:"turnComplete,omitempty"`
}

type bidiTranscription struct {
	Text string `json:"text"`
}

type bidiToolCall struct {
	FunctionCalls []geminiFunctionCall `json:"functionCalls"`
}

// LiveConn is one open BidiGenerateContent channel. It implements
// live.Transport: a read loop decodes server frames into typed events, and
// writes are serialized behind a mutex.
type LiveConn struct {
	conn *websocket.Conn

	events chan live.ServerEvent
	done   chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool

	errMu sync.Mutex
	err   error
}

// DialLive opens a live channel speaking with the given voice: full-duplex
// audio, the persona instruction, the trace tool always attached and
// transcription enabled in both directions. When the caller's context has
// no deadline a default dial timeout applies.
func (c *Client) DialLive(ctx context.Context, voice assistant.Voice) (live.Transport, error) {
	if voice == "" {
		voice = assistant.DefaultVoice
	}
	if !assistant.ValidVoice(voice) {
		return nil, core.NewInvalidRequestError(fmt.Sprintf("unknown voice %q", voice))
	}

	wsURL := c.liveURL + "?key=" + c.apiKey

	dialer := websocket.DefaultDialer
	if dialer == nil {
		dialer = &websocket.Dialer{}
	}

	dialCtx := ctx
	var cancel context.CancelFunc
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		dialCtx, cancel = context.WithTimeout(ctx, defaultLiveConnectTimeout)
		defer cancel()
	}

	conn, resp, err := dialer.DialContext(dialCtx, wsURL, nil)
	if err != nil {
		if resp != nil {
			if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
				return nil, core.NewAuthenticationError("live endpoint rejected the API credential")
			}
			return nil, &core.TransportError{Op: http.MethodGet, URL: wsURL, Err: fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)}
		}
		return nil, &core.TransportError{Op: http.MethodGet, URL: wsURL, Err: err}
	}

	setup := bidiClientSetup{Setup: bidiSetup{
		Model: "models/" + c.cfg.LiveModel,
		GenerationConfig: &geminiGenConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &geminiSpeechConfig{
				VoiceConfig: &geminiVoiceConfig{
					PrebuiltVoiceConfig: &geminiPrebuiltVoice{VoiceName: string(voice)},
				},
			},
		},
		SystemInstruction:        personaInstruction(),
		Tools:                    []geminiTool{traceTool()},
		InputAudioTranscription:  &struct{}{},
		OutputAudioTranscription: &struct{}{},
	}}
	if err := conn.WriteJSON(setup); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send live setup: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(defaultLiveConnectTimeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read setup ack: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	var first bidiServerMessage
	if err := json.Unmarshal(payload, &first); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("decode setup ack: %w", err)
	}
	if first.SetupComplete == nil {
		_ = conn.Close()
		return nil, core.NewAPIError("live channel did not acknowledge setup")
	}

	session := &LiveConn{
		conn:   conn,
		events: make(chan live.ServerEvent, 256),
		done:   make(chan struct{}),
	}
	go session.readLoop()
	return session, nil
}

// Events yields decoded server events. The channel closes when the
// connection terminates.
func (s *LiveConn) Events() <-chan live.ServerEvent {
	if s == nil {
		return nil
	}
	return s.events
}

// SendAudioFrame forwards one frame of captured PCM16 upstream.
func (s *LiveConn) SendAudioFrame(pcm []byte) error {
	return s.sendJSON(bidiClientRealtimeInput{
		RealtimeInput: bidiRealtimeInput{
			Media: geminiBlob{
				MIMEType: captureMIMEType,
				Data:     audio.EncodeBase64(pcm),
			},
		},
	})
}

// SendToolResponse acknowledges a tool call so the model can continue.
func (s *LiveConn) SendToolResponse(resp assistant.FunctionCallResponse) error {
	return s.sendJSON(bidiClientToolResponse{
		ToolResponse: bidiToolResponse{
			FunctionResponses: []bidiFunctionResponse{{
				ID:       resp.ID,
				Name:     resp.Name,
				Response: resp.Response,
			}},
		},
	})
}

func (s *LiveConn) sendJSON(v any) error {
	if s == nil {
		return fmt.Errorf("live connection must not be nil")
	}
	if s.closed.Load() {
		return fmt.Errorf("live connection is closed")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

// Close shuts the channel down and waits for the read loop to drain.
func (s *LiveConn) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
	<-s.done
	return nil
}

// Err returns the terminal connection error, nil for a clean close.
func (s *LiveConn) Err() error {
	if s == nil {
		return nil
	}
	<-s.done
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *LiveConn) setErr(err error) {
	if err == nil {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *LiveConn) readLoop() {
	defer close(s.done)
	defer close(s.events)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || s.closed.Load() {
				return
			}
			s.setErr(err)
			return
		}

		events, frameErr := decodeServerFrame(data)
		if frameErr != nil {
			s.setErr(frameErr)
			return
		}
		for _, event := range events {
			s.emit(event)
		}
	}
}

func (s *LiveConn) emit(event live.ServerEvent) {
	if event == nil {
		return
	}
	select {
	case s.events <- event:
	default:
		// Avoid deadlocking the read loop if the consumer stops.
	}
}

// decodeServerFrame translates one server frame into typed events, checking
// each section independently: one frame can carry a transcription, audio
// and an interruption at once.
func decodeServerFrame(data []byte) ([]live.ServerEvent, error) {
	var msg bidiServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode live frame: %w", err)
	}

	var events []live.ServerEvent

	if content := msg.ServerContent; content != nil {
		if content.InputTranscription != nil && content.InputTranscription.Text != "" {
			events = append(events, live.InputTranscriptionEvent{Text: content.InputTranscription.Text})
		}
		if content.OutputTranscription != nil && content.OutputTranscription.Text != "" {
			events = append(events, live.OutputTranscriptionEvent{Text: content.OutputTranscription.Text})
		}
		if content.ModelTurn != nil {
			for _, part := range content.ModelTurn.Parts {
				if part.InlineData == nil || part.InlineData.Data == "" {
					continue
				}
				pcm, err := audio.DecodeBase64(part.InlineData.Data)
				if err != nil {
					return nil, err
				}
				events = append(events, live.AudioChunkEvent{Data: pcm})
			}
		}
		if content.Interrupted {
			events = append(events, live.InterruptedEvent{})
		}
		if content.TurnComplete {
			events = append(events, live.TurnCompleteEvent{})
		}
	}

	if msg.ToolCall != nil && len(msg.ToolCall.FunctionCalls) > 0 {
		calls := make([]assistant.FunctionCallRequest, 0, len(msg.ToolCall.FunctionCalls))
		for _, fc := range msg.ToolCall.FunctionCalls {
			calls = append(calls, assistant.FunctionCallRequest{
				ID:   fc.ID,
				Name: fc.Name,
				Args: fc.Args,
			})
		}
		events = append(events, live.ToolCallEvent{Calls: calls})
	}

	return events, nil
}

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SmileAfterBurn/social-map-care/pkg/assistant"
	"github.com/SmileAfterBurn/social-map-care/pkg/audio"
	"github.com/SmileAfterBurn/social-map-care/pkg/core"
)

// synthesisStylePrefix keeps the spoken delivery consistent regardless of
// the text being read.
const synthesisStylePrefix = "[STYLE: Warm, motherly Ukrainian] "

// Synthesize renders text as raw PCM16 audio at the playback rate. Every
// call re-synthesizes; there is no cache. A response without an inline
// audio part is a synthesis error.
func (c *Client) Synthesize(ctx context.Context, text string, voice assistant.Voice) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.NewInvalidRequestError("text must not be empty")
	}
	if voice == "" {
		voice = assistant.DefaultVoice
	}
	if !assistant.ValidVoice(voice) {
		return nil, core.NewInvalidRequestError(fmt.Sprintf("unknown voice %q", voice))
	}

	req := &geminiRequest{
		Contents: userContents(synthesisStylePrefix + text),
		GenerationConfig: &geminiGenConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &geminiSpeechConfig{
				VoiceConfig: &geminiVoiceConfig{
					PrebuiltVoiceConfig: &geminiPrebuiltVoice{VoiceName: string(voice)},
				},
			},
		},
	}

	body, err := c.doRequest(ctx, c.cfg.TTSModel, req)
	if err != nil {
		return nil, err
	}

	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return audio.DecodeBase64(part.InlineData.Data)
			}
		}
	}
	return nil, core.NewSynthesisError("response contains no inline audio payload")
}

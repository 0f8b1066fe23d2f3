package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SmileAfterBurn/social-map-care/pkg/assistant"
	"github.com/SmileAfterBurn/social-map-care/pkg/audio"
	"github.com/SmileAfterBurn/social-map-care/pkg/core"
)

// capture spins up a fake API that records the last request and returns a
// fixed JSON body.
type capture struct {
	model string
	body  geminiRequest
}

func newTestClient(t *testing.T, status int, response string, captured *capture) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request: %v", err)
		}
		if captured != nil {
			captured.model = r.URL.Path
			captured.body = geminiRequest{}
			if err := json.Unmarshal(raw, &captured.body); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return New("test-key", nil, WithBaseURL(srv.URL))
}

const textOnlyResponse = `{"candidates":[{"content":{"role":"model","parts":[{"text":"Ось відповідь. ### 🕊️ Порада від пані Думки"}]}}]}`

func TestAnalyze_DiagnosticQueryGetsOnlyTraceTool(t *testing.T) {
	var captured capture
	client := newTestClient(t, http.StatusOK, textOnlyResponse, &captured)

	if _, err := client.Analyze(context.Background(), "додаток гальмує", 5200, false); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(captured.body.Tools) != 1 {
		t.Fatalf("tool count = %d, want 1", len(captured.body.Tools))
	}
	tool := captured.body.Tools[0]
	if len(tool.FunctionDeclarations) != 1 || tool.FunctionDeclarations[0].Name != assistant.TraceToolName {
		t.Fatalf("diagnostic query tools = %+v, want only the trace declaration", tool)
	}
	if tool.GoogleSearch != nil {
		t.Fatal("diagnostic query must not carry the search tool")
	}
}

func TestAnalyze_RegularQueryGetsOnlySearchTool(t *testing.T) {
	var captured capture
	client := newTestClient(t, http.StatusOK, textOnlyResponse, &captured)

	if _, err := client.Analyze(context.Background(), "де знайти прихисток в Одесі", 5200, false); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(captured.body.Tools) != 1 {
		t.Fatalf("tool count = %d, want 1", len(captured.body.Tools))
	}
	tool := captured.body.Tools[0]
	if tool.GoogleSearch == nil {
		t.Fatal("regular query must carry the search tool")
	}
	if len(tool.FunctionDeclarations) != 0 {
		t.Fatal("regular query must not carry function declarations")
	}
}

func TestAnalyze_ModelTierAndThinkingBudget(t *testing.T) {
	var captured capture
	client := newTestClient(t, http.StatusOK, textOnlyResponse, &captured)

	if _, err := client.Analyze(context.Background(), "питання", 10, true); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if captured.model != "/models/gemini-3-pro-preview:generateContent" {
		t.Fatalf("deep path = %q", captured.model)
	}
	cfg := captured.body.GenerationConfig
	if cfg == nil || cfg.ThinkingConfig == nil || cfg.ThinkingConfig.ThinkingBudget == nil {
		t.Fatal("deep reasoning request missing thinking config")
	}
	if *cfg.ThinkingConfig.ThinkingBudget != 32768 {
		t.Fatalf("thinking budget = %d", *cfg.ThinkingConfig.ThinkingBudget)
	}

	if _, err := client.Analyze(context.Background(), "питання", 10, false); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if captured.model != "/models/gemini-3-flash-preview:generateContent" {
		t.Fatalf("fast path = %q", captured.model)
	}
	if captured.body.GenerationConfig.ThinkingConfig != nil {
		t.Fatal("fast tier must not carry a thinking config")
	}
}

func TestAnalyze_PersonaAndPreamble(t *testing.T) {
	var captured capture
	client := newTestClient(t, http.StatusOK, textOnlyResponse, &captured)

	if _, err := client.Analyze(context.Background(), "де допомога", 5200, false); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	sys := captured.body.SystemInstruction
	if sys == nil || len(sys.Parts) != 1 || sys.Parts[0].Text != assistant.PaniDumkaPrompt {
		t.Fatal("system instruction must be the persona prompt")
	}
	if len(captured.body.Contents) != 1 {
		t.Fatalf("content count = %d", len(captured.body.Contents))
	}
	want := "Контекст: База містить 5200 організацій. Запит: де допомога"
	if got := captured.body.Contents[0].Parts[0].Text; got != want {
		t.Fatalf("preamble = %q, want %q", got, want)
	}
}

func TestAnalyze_ParsesGroundingLinksAndFunctionCalls(t *testing.T) {
	response := `{"candidates":[{
		"content":{"role":"model","parts":[
			{"text":"Хвилинку, "},
			{"text":"зараз перевірю."},
			{"functionCall":{"id":"fc-1","name":"performance_start_trace","args":{"trace_id":"t1","reason":"скарга"}}}
		]},
		"groundingMetadata":{"groundingChunks":[
			{"web":{"uri":"https://example.org/a","title":"Джерело А"}},
			{"web":{"uri":"https://example.org/b","title":""}},
			{"web":{"uri":""}}
		]}
	}]}`
	client := newTestClient(t, http.StatusOK, response, nil)

	result, err := client.Analyze(context.Background(), "повільно працює", 3, false)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Text != "Хвилинку, зараз перевірю." {
		t.Fatalf("text = %q", result.Text)
	}
	if len(result.GroundingLinks) != 2 {
		t.Fatalf("link count = %d, want 2", len(result.GroundingLinks))
	}
	if result.GroundingLinks[1].Title != "Джерело" {
		t.Fatalf("untitled link label = %q", result.GroundingLinks[1].Title)
	}
	if result.GroundingLinks[0].Type != assistant.LinkWeb {
		t.Fatalf("link type = %q", result.GroundingLinks[0].Type)
	}
	if len(result.FunctionCalls) != 1 {
		t.Fatalf("function call count = %d", len(result.FunctionCalls))
	}
	call := result.FunctionCalls[0]
	if call.ID != "fc-1" || call.Name != assistant.TraceToolName || call.Args["reason"] != "скарга" {
		t.Fatalf("function call = %+v", call)
	}
}

func TestAnalyze_AuthErrorIsTyped(t *testing.T) {
	response := `{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`
	client := newTestClient(t, http.StatusUnauthorized, response, nil)

	_, err := client.Analyze(context.Background(), "питання", 1, false)
	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		t.Fatalf("error type = %T, want *core.Error", err)
	}
	if coreErr.Type != core.ErrAuthentication {
		t.Fatalf("error kind = %q, want authentication_error", coreErr.Type)
	}
}

func TestAnalyze_RateLimitErrorIsRetryable(t *testing.T) {
	response := `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`
	client := newTestClient(t, http.StatusTooManyRequests, response, nil)

	_, err := client.Analyze(context.Background(), "питання", 1, false)
	var coreErr *core.Error
	if !errors.As(err, &coreErr) || coreErr.Type != core.ErrRateLimit {
		t.Fatalf("error = %v, want rate_limit_error", err)
	}
	if !coreErr.IsRetryable() {
		t.Fatal("rate limit errors must report retryable")
	}
}

func TestSummarize_FallsBackOnEmptyAnswer(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{"candidates":[]}`, nil)

	got, err := client.Summarize(context.Background(), 5200)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != assistant.FallbackSummary {
		t.Fatalf("summary = %q, want fallback", got)
	}
}

func TestSynthesize_RequestShapeAndDecoding(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	response := `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/pcm;rate=24000","data":"` +
		audio.EncodeBase64(pcm) + `"}}]}}]}`
	var captured capture
	client := newTestClient(t, http.StatusOK, response, &captured)

	got, err := client.Synthesize(context.Background(), "Вітаю, сонечко!", assistant.VoiceZephyr)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(got) != len(pcm) {
		t.Fatalf("audio length = %d, want %d", len(got), len(pcm))
	}

	if captured.model != "/models/gemini-2.5-flash-preview-tts:generateContent" {
		t.Fatalf("path = %q", captured.model)
	}
	wantText := "[STYLE: Warm, motherly Ukrainian] Вітаю, сонечко!"
	if got := captured.body.Contents[0].Parts[0].Text; got != wantText {
		t.Fatalf("synthesis text = %q", got)
	}
	cfg := captured.body.GenerationConfig
	if cfg == nil || len(cfg.ResponseModalities) != 1 || cfg.ResponseModalities[0] != "AUDIO" {
		t.Fatalf("modalities = %+v, want [AUDIO]", cfg)
	}
	if cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Zephyr" {
		t.Fatalf("voice = %q", cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
	}
}

func TestSynthesize_NoAudioPayload(t *testing.T) {
	client := newTestClient(t, http.StatusOK, textOnlyResponse, nil)

	_, err := client.Synthesize(context.Background(), "текст", assistant.VoiceKore)
	var coreErr *core.Error
	if !errors.As(err, &coreErr) || coreErr.Type != core.ErrSynthesis {
		t.Fatalf("error = %v, want synthesis_error", err)
	}
}

func TestSynthesize_RejectsEmptyText(t *testing.T) {
	client := New("test-key", nil, WithBaseURL("http://127.0.0.1:0"))

	_, err := client.Synthesize(context.Background(), "   ", assistant.VoiceKore)
	var coreErr *core.Error
	if !errors.As(err, &coreErr) || coreErr.Type != core.ErrInvalidRequest {
		t.Fatalf("error = %v, want invalid_request_error", err)
	}
}

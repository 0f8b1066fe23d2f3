package gemini

import (
	"encoding/json"

	"github.com/SmileAfterBurn/social-map-care/pkg/assistant"
)

// Gemini API JSON uses camelCase field names throughout.

type geminiRequest struct {
	Contents          []geminiContent  `json:"contents"`
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Tools             []geminiTool     `json:"tools,omitempty"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"` // "user" or "model"
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text         string              `json:"text,omitempty"`
	InlineData   *geminiBlob         `json:"inlineData,omitempty"`
	FunctionCall *geminiFunctionCall `json:"functionCall,omitempty"`
}

type geminiBlob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type geminiFunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// geminiTool carries either function declarations or search grounding.
// The API rejects requests combining both, so callers set exactly one.
type geminiTool struct {
	FunctionDeclarations []geminiFunctionDecl `json:"functionDeclarations,omitempty"`
	GoogleSearch         *geminiGoogleSearch  `json:"googleSearch,omitempty"`
}

type geminiFunctionDecl struct {
	Name       string          `json:"name"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

type geminiGoogleSearch struct{}

type geminiGenConfig struct {
	Temperature        *float64              `json:"temperature,omitempty"`
	ResponseModalities []string              `json:"responseModalities,omitempty"`
	SpeechConfig       *geminiSpeechConfig   `json:"speechConfig,omitempty"`
	ThinkingConfig     *geminiThinkingConfig `json:"thinkingConfig,omitempty"`
}

type geminiThinkingConfig struct {
	ThinkingBudget *int `json:"thinkingBudget,omitempty"`
}

type geminiSpeechConfig struct {
	VoiceConfig *geminiVoiceConfig `json:"voiceConfig,omitempty"`
}

type geminiVoiceConfig struct {
	PrebuiltVoiceConfig *geminiPrebuiltVoice `json:"prebuiltVoiceConfig,omitempty"`
}

type geminiPrebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content           *geminiContent           `json:"content"`
	GroundingMetadata *geminiGroundingMetadata `json:"groundingMetadata,omitempty"`
}

type geminiGroundingMetadata struct {
	GroundingChunks []geminiGroundingChunk `json:"groundingChunks,omitempty"`
}

type geminiGroundingChunk struct {
	Web *geminiWebSource `json:"web,omitempty"`
}

type geminiWebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

var traceToolParameters = json.RawMessage(`{
	"type": "OBJECT",
	"description": "Починає глибоке трасування продуктивності системи для діагностики затримок або помилок.",
	"properties": {
		"trace_id": {
			"type": "STRING",
			"description": "Унікальний ідентифікатор сесії трасування (UUID)"
		},
		"reason": {
			"type": "STRING",
			"description": "Причина запуску трасування (наприклад, висока латентність або скарга користувача)"
		},
		"sampling_rate": {
			"type": "NUMBER",
			"description": "Частота вибірки даних від 0 до 1"
		}
	},
	"required": ["trace_id", "reason"]
}`)

func traceTool() geminiTool {
	return geminiTool{
		FunctionDeclarations: []geminiFunctionDecl{{
			Name:       assistant.TraceToolName,
			Parameters: traceToolParameters,
		}},
	}
}

func personaInstruction() *geminiContent {
	return &geminiContent{Parts: []geminiPart{{Text: assistant.PaniDumkaPrompt}}}
}

func userContents(text string) []geminiContent {
	return []geminiContent{{Role: "user", Parts: []geminiPart{{Text: text}}}}
}

// Package assistant holds the conversational model of "пані Думка": the
// persona, the chat transcript with live-fragment coalescing, the diagnostic
// query classifier, the voice catalog and the narrow interfaces the UI layer
// programs against. It knows nothing about any particular AI platform.
package assistant

import (
	"context"
	"fmt"
)

// PaniDumkaPrompt is the persona system instruction attached to every
// analysis request and to the live session setup.
const PaniDumkaPrompt = `Ти — пані Думка, інтелектуальне серце "Інклюзивної мапи України".
Твій стиль: мудра, тепла українська жінка. Використовуй "серденько", "сонечко", "рідненькі".
Твої завдання:
1. Пошук допомоги серед організацій у контексті.
2. Верифікація даних через Google Search.
3. Технічний моніторинг: якщо користувач каже що додаток "гальмує", "довго думає", "повільний" або ти відчуваєш технічні труднощі, НЕГАЙНО викликай інструмент performance_start_trace для діагностики.

Завжди завершуй важливою порадою у блоці: ### 🕊️ Порада від пані Думки`

// FallbackSummary is shown when the model returns an empty overview.
const FallbackSummary = "Зараз складно сказати точно, серденько."

// TraceToolName is the single tool function the model may invoke.
const TraceToolName = "performance_start_trace"

// ContextPreamble frames a user query with the size of the registry the
// assistant may draw on.
func ContextPreamble(orgCount int, query string) string {
	return fmt.Sprintf("Контекст: База містить %d організацій. Запит: %s", orgCount, query)
}

// SummaryPrompt asks for a situational overview in the persona register.
func SummaryPrompt(orgCount int) string {
	return fmt.Sprintf("Надай огляд стану допомоги в Україні на основі %d організацій. Стиль пані Думки.", orgCount)
}

// LinkType distinguishes web citations from in-app map references.
type LinkType string

const (
	LinkWeb LinkType = "web"
	LinkMap LinkType = "map"
)

// GroundingLink is a citation returned alongside an answer.
type GroundingLink struct {
	URI   string
	Title string
	Type  LinkType
}

// FunctionCallRequest is a tool invocation the model asks the host to
// perform. Only performance_start_trace is recognized today.
type FunctionCallRequest struct {
	ID   string
	Name string
	Args map[string]any
}

// FunctionCallResponse acknowledges a tool invocation back to the model.
// Only the live channel carries responses; in one-shot mode the caller is
// merely notified.
type FunctionCallResponse struct {
	ID       string
	Name     string
	Response map[string]any
}

// AnalyzeResult is the outcome of one analysis turn.
type AnalyzeResult struct {
	Text           string
	GroundingLinks []GroundingLink
	FunctionCalls  []FunctionCallRequest
}

// ConversationAnalyzer runs one analysis turn against the model.
type ConversationAnalyzer interface {
	Analyze(ctx context.Context, query string, orgCount int, useDeepReasoning bool) (*AnalyzeResult, error)
}

// SpeechSynthesizer renders text as raw PCM16 audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error)
}

// LiveAudioSession is the duplex voice channel. Connect blocks until the
// channel is open or the attempt fails; Disconnect is safe from any state.
type LiveAudioSession interface {
	Connect(ctx context.Context) error
	Disconnect()
}

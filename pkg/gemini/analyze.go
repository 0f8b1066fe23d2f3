package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SmileAfterBurn/social-map-care/pkg/assistant"
	"github.com/google/uuid"
)

// Analyze runs one conversational turn. Diagnostic queries get only the
// trace function tool; every other query gets only search grounding — the
// API rejects requests carrying both. useDeepReasoning switches to the
// higher-capability model with an extended thinking budget; role gating for
// that flag lives in the caller.
func (c *Client) Analyze(ctx context.Context, query string, orgCount int, useDeepReasoning bool) (*assistant.AnalyzeResult, error) {
	model := c.cfg.FastModel
	temperature := c.cfg.Temperature
	genCfg := &geminiGenConfig{Temperature: &temperature}
	if useDeepReasoning {
		model = c.cfg.DeepModel
		budget := c.cfg.ThinkingBudget
		genCfg.ThinkingConfig = &geminiThinkingConfig{ThinkingBudget: &budget}
	}

	var tools []geminiTool
	if c.classify(query) {
		tools = []geminiTool{traceTool()}
	} else {
		tools = []geminiTool{{GoogleSearch: &geminiGoogleSearch{}}}
	}

	req := &geminiRequest{
		Contents:          userContents(assistant.ContextPreamble(orgCount, query)),
		SystemInstruction: personaInstruction(),
		Tools:             tools,
		GenerationConfig:  genCfg,
	}

	body, err := c.doRequest(ctx, model, req)
	if err != nil {
		return nil, err
	}
	return parseAnalyzeResponse(body)
}

// Summarize asks for a situational overview of the registry in the persona
// register. An empty answer falls back to the canned apology.
func (c *Client) Summarize(ctx context.Context, orgCount int) (string, error) {
	req := &geminiRequest{
		Contents:          userContents(assistant.SummaryPrompt(orgCount)),
		SystemInstruction: personaInstruction(),
	}

	body, err := c.doRequest(ctx, c.cfg.FastModel, req)
	if err != nil {
		return "", err
	}
	result, err := parseAnalyzeResponse(body)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result.Text) == "" {
		return assistant.FallbackSummary, nil
	}
	return result.Text, nil
}

func parseAnalyzeResponse(body []byte) (*assistant.AnalyzeResult, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	result := &assistant.AnalyzeResult{}
	if len(resp.Candidates) == 0 {
		return result, nil
	}
	candidate := resp.Candidates[0]

	if candidate.Content != nil {
		var text strings.Builder
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
			if part.FunctionCall != nil {
				id := part.FunctionCall.ID
				if id == "" {
					id = uuid.New().String()
				}
				result.FunctionCalls = append(result.FunctionCalls, assistant.FunctionCallRequest{
					ID:   id,
					Name: part.FunctionCall.Name,
					Args: part.FunctionCall.Args,
				})
			}
		}
		result.Text = text.String()
	}

	// Citations pass through as received, untitled sources get a generic
	// label.
	if candidate.GroundingMetadata != nil {
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			title := chunk.Web.Title
			if title == "" {
				title = "Джерело"
			}
			result.GroundingLinks = append(result.GroundingLinks, assistant.GroundingLink{
				URI:   chunk.Web.URI,
				Title: title,
				Type:  assistant.LinkWeb,
			})
		}
	}
	return result, nil
}

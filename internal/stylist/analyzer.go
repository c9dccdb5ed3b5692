package stylist

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// GeminiAnalyzer implements Analyzer on top of a Gemini multimodal model.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates a new Gemini-backed analyzer
func NewGeminiAnalyzer(client *genai.Client, model string) *GeminiAnalyzer {
	return &GeminiAnalyzer{client: client, model: model}
}

// Analyze sends the apparel image with the stylist prompt and parses the
// model's JSON reply.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, image []byte) (*AnalysisResult, error) {
	model := a.client.GenerativeModel(a.model)

	resp, err := model.GenerateContent(ctx,
		genai.Text(analysisPrompt),
		genai.ImageData("jpeg", image),
	)
	if err != nil {
		return nil, NewAnalysisError("vision model call failed", err)
	}

	raw, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	return parseAnalysis(raw)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", NewAnalysisError("vision model returned no content", nil)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", NewAnalysisError("vision model returned no text content", nil)
	}
	return sb.String(), nil
}

// analysisWire is the JSON shape the prompt asks the model for.
type analysisWire struct {
	Apparel     string            `json:"apparel"`
	Details     []string          `json:"details"`
	Suggestions map[string]string `json:"suggestions"`
}

// parseAnalysis decodes the model output into an AnalysisResult. Models often
// wrap JSON in markdown fences despite instructions, so those are stripped.
func parseAnalysis(raw string) (*AnalysisResult, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var wire analysisWire
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, NewAnalysisError("vision model returned unparseable output", err)
	}

	result := &AnalysisResult{
		ApparelPresent: strings.EqualFold(wire.Apparel, "yes"),
		Details:        wire.Details,
		Suggestions:    wire.Suggestions,
	}
	if result.Suggestions == nil {
		result.Suggestions = map[string]string{}
	}
	return result, nil
}

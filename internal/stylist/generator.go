package stylist

import (
	"context"

	"github.com/google/generative-ai-go/genai"
)

// GeminiGenerator implements Generator on top of a Gemini image-preview model.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a new Gemini-backed image generator
func NewGeminiGenerator(client *genai.Client, model string) *GeminiGenerator {
	return &GeminiGenerator{client: client, model: model}
}

// Generate shows the model the reference template style and the input apparel,
// then asks it to render the described outfit. Returns the raw image bytes of
// the first image part in the reply.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, reference, input []byte) ([]byte, error) {
	model := g.client.GenerativeModel(g.model)

	parts := []genai.Part{
		genai.Text("This is the REFERENCE TEMPLATE IMAGE style every generated outfit must match exactly:"),
		genai.ImageData("jpeg", reference),
		genai.Text("This is the INPUT APPAREL image the outfit is built around:"),
		genai.ImageData("jpeg", input),
		genai.Text(prompt),
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, NewGenerationError("", "image model call failed", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, NewGenerationError("", "image model returned no content", nil)
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			return blob.Data, nil
		}
	}

	return nil, NewGenerationError("", "image model returned no image part", nil)
}

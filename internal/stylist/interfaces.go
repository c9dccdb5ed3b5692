package stylist

import "context"

// Analyzer describes the apparel in an uploaded image and proposes one outfit
// per occasion.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte) (*AnalysisResult, error)
}

// Generator renders one outfit photo from a prompt, matching the style of the
// reference image and including the input apparel.
type Generator interface {
	Generate(ctx context.Context, prompt string, reference, input []byte) ([]byte, error)
}

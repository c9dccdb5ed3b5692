package stylist

import (
	"fmt"
	"strings"
)

const analysisPrompt = `You are a fashion stylist AI. Analyze the image and return the following JSON:
{
  "apparel": "yes" or "no" based on whether the image contains any apparel,
  "details": [list of visual and stylistic details about the apparel, very intricate and minute],
  "suggestions": {
    "party": "describe a complete party outfit including accessories, shoes, etc. using the given apparel, very intricate and minute",
    "office": "describe a complete office outfit with accessories and shoes using the given apparel, very intricate and minute",
    "vacation": "describe a vacation-appropriate outfit in detail using the given apparel, very intricate and minute"
  }
}
Ensure the output is valid JSON only.
Also, try to identify whether the given apparel is male/female/unisex, and draft the suggestions accordingly.`

const styleGuidelines = `Follow these STRICT guidelines:
1. Use a plain beige/off-white background
2. Display outfit items floating (invisible mannequin) in centered composition
3. Use bright, even lighting with soft shadows
4. Include all mentioned accessories arranged as in the reference
5. Keep the exact same minimalist aesthetic and clean composition as the reference
6. Use similar professional product photography style
7. Do not include any text, logos, or watermarks`

// occasionPrompt builds the rendering prompt for one occasion of a full
// analysis, tying the outfit back to the analyzed apparel details.
func occasionPrompt(occasion, description string, details []string) string {
	return fmt.Sprintf(`Create a fashion photo in the exact same minimalist, clean style as the reference template image.
Show a complete %s outfit as described:
%s

%s
8. The outfit must contain the given input apparel, whose details are: %s`,
		occasion, description, styleGuidelines, strings.Join(details, ", "))
}

// singleOutfitPrompt builds the rendering prompt for a user-described outfit.
func singleOutfitPrompt(category, description string) string {
	return fmt.Sprintf(`Create a fashion photo in the exact same minimalist, clean style as the reference template image.
Show a complete %s outfit as described:
%s

%s`, category, description, styleGuidelines)
}

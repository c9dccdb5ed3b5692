package stylist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis(t *testing.T) {
	t.Run("PlainJSON", func(t *testing.T) {
		raw := `{
			"apparel": "yes",
			"details": ["ribbed texture", "short sleeves"],
			"suggestions": {
				"party": "pair with a dark skirt",
				"office": "tailored trousers",
				"vacation": "linen skirt"
			}
		}`

		result, err := parseAnalysis(raw)
		require.NoError(t, err)
		assert.True(t, result.ApparelPresent)
		assert.Equal(t, []string{"ribbed texture", "short sleeves"}, result.Details)
		assert.Equal(t, "tailored trousers", result.Suggestions["office"])
	})

	t.Run("MarkdownFencedJSON", func(t *testing.T) {
		raw := "```json\n{\"apparel\": \"yes\", \"details\": [], \"suggestions\": {}}\n```"

		result, err := parseAnalysis(raw)
		require.NoError(t, err)
		assert.True(t, result.ApparelPresent)
	})

	t.Run("NoApparel", func(t *testing.T) {
		result, err := parseAnalysis(`{"apparel": "no", "details": [], "suggestions": {}}`)
		require.NoError(t, err)
		assert.False(t, result.ApparelPresent)
	})

	t.Run("ApparelCaseInsensitive", func(t *testing.T) {
		result, err := parseAnalysis(`{"apparel": "Yes", "details": [], "suggestions": {}}`)
		require.NoError(t, err)
		assert.True(t, result.ApparelPresent)
	})

	t.Run("MissingSuggestionsBecomesEmptyMap", func(t *testing.T) {
		result, err := parseAnalysis(`{"apparel": "no"}`)
		require.NoError(t, err)
		assert.NotNil(t, result.Suggestions)
		assert.Empty(t, result.Suggestions)
	})

	t.Run("UnparseableOutput", func(t *testing.T) {
		_, err := parseAnalysis("I'm sorry, I cannot analyze this image.")
		require.Error(t, err)
		assert.True(t, IsAnalysisError(err))
	})
}

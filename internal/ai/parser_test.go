package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suspybot/suspy/internal/ai"
	"github.com/suspybot/suspy/internal/database/types/enum"
)

func TestParseScanResponseFencedJSON(t *testing.T) {
	t.Parallel()

	input := "```json\n{\"confidence_score\":0.85,\"url\":\"https://evil.example/a\"," +
		"\"block_type\":\"hostname\",\"category\":\"phishing\",\"reason\":\"Fake login form [1]\"}\n```"

	result, scanErr, err := ai.ParseScanResponse(input)
	require.NoError(t, err)
	require.Nil(t, scanErr)
	require.NotNil(t, result)

	assert.InDelta(t, 0.85, result.ConfidenceScore, 0.0001)
	assert.Equal(t, "https://evil.example/a", result.URL)
	assert.Equal(t, "Fake login form", result.Reason, "citation marker should be stripped")
	assert.Equal(t, enum.LinkCategoryPhishing, result.Category)
	assert.True(t, result.BlockHost())
}

func TestParseScanResponseRawJSON(t *testing.T) {
	t.Parallel()

	input := `{"confidence_score":0.1,"url":"https://example.com","reason":"Reputable site"}`

	result, scanErr, err := ai.ParseScanResponse(input)
	require.NoError(t, err)
	require.Nil(t, scanErr)
	require.NotNil(t, result)

	assert.InDelta(t, 0.1, result.ConfidenceScore, 0.0001)
	assert.Empty(t, result.Category)
	assert.False(t, result.BlockHost())
}

func TestParseScanResponseErrorPayload(t *testing.T) {
	t.Parallel()

	input := "```json\n{\"error\":true,\"url\":\"https://dead.example\",\"reason\":\"Unable to load the page\"}\n```"

	result, scanErr, err := ai.ParseScanResponse(input)
	require.NoError(t, err)
	require.Nil(t, result)
	require.NotNil(t, scanErr)

	assert.Equal(t, "https://dead.example", scanErr.URL)
	assert.Equal(t, "Unable to load the page", scanErr.Reason)
}

func TestParseScanResponseRepairsQuotes(t *testing.T) {
	t.Parallel()

	input := "```json\n{\"confidence_score\":0.9,\"url\":\"https://evil.example\"," +
		"\"reason\":\"Fake \"security alert\" overlay\"}\n```"

	result, scanErr, err := ai.ParseScanResponse(input)
	require.NoError(t, err)
	require.Nil(t, scanErr)
	require.NotNil(t, result)

	assert.Equal(t, `Fake "security alert" overlay`, result.Reason)
}

func TestParseScanResponseInvalidCategoryDropped(t *testing.T) {
	t.Parallel()

	input := `{"confidence_score":0.8,"url":"https://x.example","category":"gambling","reason":"Risky"}`

	result, _, err := ai.ParseScanResponse(input)
	require.NoError(t, err)
	assert.Empty(t, result.Category)
}

func TestParseScanResponseRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "plain text",
			input: "I could not check this URL, sorry.",
		},
		{
			name:  "missing url",
			input: `{"confidence_score":0.5,"reason":"no url"}`,
		},
		{
			name:  "missing reason",
			input: `{"confidence_score":0.5,"url":"https://example.com"}`,
		},
		{
			name:  "missing confidence score",
			input: `{"url":"https://example.com","reason":"no score"}`,
		},
		{
			name:  "score out of range",
			input: `{"confidence_score":1.5,"url":"https://example.com","reason":"too big"}`,
		},
		{
			name:  "unclosed fence",
			input: "```json\n{\"confidence_score\":0.5",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := ai.ParseScanResponse(tt.input)
			require.ErrorIs(t, err, ai.ErrUnparseableResponse)
		})
	}
}

func TestParseScanResponseTruncatesLongReason(t *testing.T) {
	t.Parallel()

	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}

	input := `{"confidence_score":0.5,"url":"https://example.com","reason":"` + string(long) + `"}`

	result, _, err := ai.ParseScanResponse(input)
	require.NoError(t, err)
	assert.Len(t, result.Reason, 120)
}

package ai

import (
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/suspybot/suspy/internal/database/types/enum"
)

var (
	// fencedJSONPattern extracts the payload from a ```json code block.
	fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

	// quoteRepairPattern matches string values so stray quotes inside them can
	// be escaped. The trailing delimiter is captured because Go regexp has no
	// lookahead.
	quoteRepairPattern = regexp.MustCompile(`(?s):\s*"(.*?[^\\])"(\s*[,}])`)

	// citationPattern matches a trailing bracketed citation marker like " [1]".
	citationPattern = regexp.MustCompile(`\s*\[\d+\]\s*$`)
)

// rawScanPayload mirrors the classifier's wire format. Pointer fields
// distinguish absent values from zero values during validation.
type rawScanPayload struct {
	Error           *bool    `json:"error"`
	URL             string   `json:"url"`
	Reason          string   `json:"reason"`
	ConfidenceScore *float64 `json:"confidence_score"`
	BlockType       *string  `json:"block_type"`
	Category        *string  `json:"category"`
}

// ParseScanResponse parses the model output into either a verdict or a
// structured scan error. The output may be raw JSON or fenced inside a
// ```json block; minor quote malformation is repaired before validation.
// Any validation failure returns ErrUnparseableResponse.
func ParseScanResponse(input string) (*ScanResult, *ScanError, error) {
	input = strings.TrimSpace(input)

	payload := tryParse(input)
	if payload == nil {
		match := fencedJSONPattern.FindStringSubmatch(input)
		if match == nil {
			return nil, nil, ErrUnparseableResponse
		}

		payload = tryParse(repairQuotes(match[1]))
	}

	if payload == nil || payload.URL == "" || payload.Reason == "" {
		return nil, nil, ErrUnparseableResponse
	}

	payload.Reason = citationPattern.ReplaceAllString(payload.Reason, "")

	if payload.Error != nil && *payload.Error {
		return nil, &ScanError{
			URL:    payload.URL,
			Reason: truncate(payload.Reason, maxErrorReasonLength),
		}, nil
	}

	if payload.ConfidenceScore == nil ||
		*payload.ConfidenceScore < 0 || *payload.ConfidenceScore > 1 {
		return nil, nil, ErrUnparseableResponse
	}

	result := &ScanResult{
		URL:             payload.URL,
		ConfidenceScore: *payload.ConfidenceScore,
		Reason:          truncate(payload.Reason, maxReasonLength),
	}

	if payload.BlockType != nil {
		result.BlockType = *payload.BlockType
	}

	if payload.Category != nil {
		category := enum.LinkCategory(*payload.Category)
		if category.IsValid() {
			result.Category = category
		}
	}

	return result, nil, nil
}

// tryParse attempts a strict JSON parse, returning nil on any failure.
func tryParse(input string) *rawScanPayload {
	if !strings.HasPrefix(input, "{") {
		return nil
	}

	var payload rawScanPayload
	if err := sonic.Unmarshal([]byte(input), &payload); err != nil {
		return nil
	}

	return &payload
}

// repairQuotes escapes stray double quotes inside string values. The model
// occasionally emits reasons containing unescaped quotes.
func repairQuotes(jsonStr string) string {
	return quoteRepairPattern.ReplaceAllStringFunc(jsonStr, func(match string) string {
		sub := quoteRepairPattern.FindStringSubmatch(match)
		value := strings.ReplaceAll(strings.ReplaceAll(sub[1], `\"`, `"`), `"`, `\"`)

		return `: "` + value + `"` + sub[2]
	})
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit]
}

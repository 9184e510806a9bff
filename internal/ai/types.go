// Package ai classifies URLs through the Gemini model and parses its
// loosely-structured responses into typed verdicts.
package ai

import (
	"errors"
	"fmt"

	"github.com/suspybot/suspy/internal/database/types/enum"
)

var (
	// ErrUnparseableResponse indicates the model output could not be parsed
	// into a valid payload.
	ErrUnparseableResponse = errors.New("unparseable model response")

	// ErrScanFailed indicates no verdict could be obtained at all.
	ErrScanFailed = errors.New("scan failed")
)

const (
	// maxReasonLength bounds the reason field of a verdict.
	maxReasonLength = 120
	// maxErrorReasonLength bounds the reason field of a scan error.
	maxErrorReasonLength = 60
)

// ScanResult is the classifier's verdict for a URL. The confidence score uses
// the wire format, a fraction between 0.0 (very safe) and 1.0 (definitely
// malicious).
type ScanResult struct {
	URL             string
	ConfidenceScore float64
	BlockType       string // "url" or "hostname", empty when not risky
	Category        enum.LinkCategory
	Reason          string
}

// BlockHost reports whether the whole hostname should be blocked.
func (r *ScanResult) BlockHost() bool {
	return r.BlockType == "hostname"
}

// ScanError is a structured error response from the classifier, e.g. the URL
// could not be reached. It satisfies error so callers can surface the model's
// own reason to the user.
type ScanError struct {
	URL    string
	Reason string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error for %s: %s", e.URL, e.Reason)
}

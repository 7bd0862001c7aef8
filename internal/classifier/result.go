// Package classifier calls the remote text classification service that gates
// review auto-confirmation. Classification never fails from the caller's point of
// view: any upstream problem yields the Fallback result.
package classifier

import (
	"context"
	"strconv"
)

// Label is the classification verdict. The wire format uses 0 for content that
// must not be auto-confirmed and any other value for clean content.
type Label int

const (
	Flagged Label = 0
	Clean   Label = 1
)

// LabelFromWire converts the service's "results" value into a Label.
func LabelFromWire(v int) Label {
	if v == 0 {
		return Flagged
	}
	return Clean
}

func (l Label) String() string {
	if l == Flagged {
		return "flagged"
	}
	return "clean"
}

// Result is a classification outcome. Fallback marks a result that was
// substituted because the service could not be consulted; a fallback result
// never auto-confirms content.
type Result struct {
	Label      Label   `json:"results"`
	Confidence float64 `json:"probability"`
	Fallback   bool    `json:"fallback"`
}

// Fallback returns the result used when classification is unavailable:
// label Clean with zero confidence, flagged as a fallback.
func Fallback() Result {
	return Result{Label: Clean, Confidence: 0, Fallback: true}
}

// ConfidenceText renders the confidence as stored display text, e.g. "87" or "0.87".
func (r Result) ConfidenceText() string {
	return strconv.FormatFloat(r.Confidence, 'f', -1, 64)
}

// Classifier scores a title and body. Implementations absorb every failure.
type Classifier interface {
	Classify(ctx context.Context, title, body string) Result
}

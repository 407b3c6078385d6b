// Package gate decides whether a classification is trusted as-is or
// routed through user confirmation.
package gate

import (
	"github.com/minuteman-notes/minuteman/internal/model"
)

// Confidence thresholds for routing a classification.
const (
	// AutoAcceptThreshold and above proceeds without interaction.
	AutoAcceptThreshold = 0.6
	// ConfirmThreshold and above (but below auto-accept) asks the user
	// to confirm, with the classified type preselected.
	ConfirmThreshold = 0.5
)

// Mode is the routing outcome for a classification.
type Mode string

const (
	ModeAutoAccept Mode = "auto_accept"
	ModeConfirm    Mode = "confirm"
	ModeMustReview Mode = "must_review"
)

// Decision carries the routing mode plus what a confirmation surface
// needs to present: the default selection and the ranked alternatives.
type Decision struct {
	Mode    Mode
	Default model.MeetingTypeID
	Choices []model.Candidate
}

// Route maps a classification result to its handling mode. The function
// is pure: same result, same decision.
func Route(result model.ClassificationResult) Decision {
	choices := make([]model.Candidate, 0, len(result.Candidates)+1)
	choices = append(choices, model.Candidate{Type: result.Type, Score: result.Confidence})
	choices = append(choices, result.Candidates...)

	d := Decision{Default: result.Type, Choices: choices}
	switch {
	case result.Confidence >= AutoAcceptThreshold:
		d.Mode = ModeAutoAccept
	case result.Confidence >= ConfirmThreshold:
		d.Mode = ModeConfirm
	default:
		d.Mode = ModeMustReview
	}
	return d
}

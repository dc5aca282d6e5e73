// Package review applies a reviewer's terminal decision to a case.
package review

import (
	"strings"
	"time"

	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/workflow"
	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
)

// Input is a decision as submitted by a reviewer. Notes are kept verbatim.
type Input struct {
	Decision  models.Decision   `json:"status"`
	Notes     string            `json:"review_notes"`
	RiskLevel *models.RiskLevel `json:"risk_level,omitempty"`
}

// ParseDecision requires an explicit approved or rejected verdict.
func ParseDecision(s string) (models.Decision, error) {
	switch d := models.Decision(strings.TrimSpace(s)); d {
	case models.DecisionApproved, models.DecisionRejected:
		return d, nil
	case "":
		return "", dErrors.New(dErrors.CodeValidation, "a review decision is required")
	}
	return "", dErrors.New(dErrors.CodeValidation, "invalid review decision: "+s)
}

// Validate checks the decision and, when present, the risk level.
func (in Input) Validate() error {
	_, err := in.Normalize()
	return err
}

// Normalize returns the input with its decision in canonical form. The risk
// level, when present, must already be canonical.
func (in Input) Normalize() (Input, error) {
	decision, err := ParseDecision(string(in.Decision))
	if err != nil {
		return Input{}, err
	}
	in.Decision = decision
	if in.RiskLevel != nil {
		rl, err := models.ParseRiskLevel(string(*in.RiskLevel))
		if err != nil {
			return Input{}, err
		}
		in.RiskLevel = &rl
	}
	return in, nil
}

// Guard reports whether reviewer input may be applied to a case in status.
// A submitted case counts as reviewable because Apply claims it first.
func Guard(status models.Status, actor workflow.Actor) error {
	if status == models.StatusSubmitted {
		return workflow.Check(status, workflow.ActionClaim, actor)
	}
	return workflow.Check(status, workflow.ActionApprove, actor)
}

// Apply moves the case to the decided terminal status. A submitted case is
// claimed on the reviewer's behalf first. Nothing changes on error.
func Apply(c *models.Case, in Input, reviewerID id.UserID, now time.Time) error {
	in, err := in.Normalize()
	if err != nil {
		return err
	}
	action, err := workflow.DecisionAction(in.Decision)
	if err != nil {
		return err
	}
	if err := Guard(c.Status, workflow.ActorReviewer); err != nil {
		return err
	}
	working := c.Clone()
	if working.Status == models.StatusSubmitted {
		if err := workflow.Apply(working, workflow.ActionClaim, workflow.ActorReviewer, now); err != nil {
			return err
		}
	}
	if err := workflow.Apply(working, action, workflow.ActorReviewer, now); err != nil {
		return err
	}
	working.Review = &models.ReviewRecord{
		Decision:   in.Decision,
		Notes:      in.Notes,
		ReviewerID: reviewerID,
		DecidedAt:  now,
	}
	if in.RiskLevel != nil {
		rl := *in.RiskLevel
		working.RiskLevel = &rl
	}
	*c = *working
	return nil
}

// Package workflow is the closed transition table of a case and the guard
// that every status change and every draft edit goes through.
package workflow

import (
	"slices"
	"time"

	"verifyflow/internal/casework/models"
	dErrors "verifyflow/pkg/domain-errors"
)

// Action names something a caller wants to do to a case.
type Action string

const (
	// ActionEdit covers profile saves and document uploads or deletions.
	ActionEdit    Action = "edit"
	ActionSubmit  Action = "submit"
	ActionClaim   Action = "claim"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Actor is the role performing an action.
type Actor string

const (
	ActorApplicant Actor = "applicant"
	ActorReviewer  Actor = "reviewer"
	ActorSystem    Actor = "system"
)

func ParseActor(s string) (Actor, error) {
	switch a := Actor(s); a {
	case ActorApplicant, ActorReviewer, ActorSystem:
		return a, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role: "+s)
}

// Transition is one row of the table.
type Transition struct {
	Action Action
	From   models.Status
	To     models.Status
	Actors []Actor
}

var transitions = map[Action]Transition{
	ActionEdit:    {ActionEdit, models.StatusDraft, models.StatusDraft, []Actor{ActorApplicant}},
	ActionSubmit:  {ActionSubmit, models.StatusDraft, models.StatusSubmitted, []Actor{ActorApplicant}},
	ActionClaim:   {ActionClaim, models.StatusSubmitted, models.StatusUnderReview, []Actor{ActorSystem, ActorReviewer}},
	ActionApprove: {ActionApprove, models.StatusUnderReview, models.StatusApproved, []Actor{ActorReviewer}},
	ActionReject:  {ActionReject, models.StatusUnderReview, models.StatusRejected, []Actor{ActorReviewer}},
}

// Transitions returns the table rows in workflow order.
func Transitions() []Transition {
	order := []Action{ActionEdit, ActionSubmit, ActionClaim, ActionApprove, ActionReject}
	out := make([]Transition, 0, len(order))
	for _, a := range order {
		out = append(out, transitions[a])
	}
	return out
}

// Check reports whether actor may perform action on a case in status from.
// A wrong source status yields CodeIllegalTransition, a wrong actor
// CodeForbidden.
func Check(from models.Status, action Action, actor Actor) error {
	t, ok := transitions[action]
	if !ok {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown action: "+string(action))
	}
	if from != t.From {
		return dErrors.New(dErrors.CodeIllegalTransition,
			"cannot "+string(action)+" a case in status "+string(from))
	}
	if !slices.Contains(t.Actors, actor) {
		return dErrors.New(dErrors.CodeForbidden,
			string(actor)+" may not "+string(action)+" a case")
	}
	return nil
}

// Target returns the status an action leads to.
func Target(action Action) (models.Status, bool) {
	t, ok := transitions[action]
	return t.To, ok
}

// Apply checks and performs the transition, recording it on the case.
func Apply(c *models.Case, action Action, actor Actor, now time.Time) error {
	if err := Check(c.Status, action, actor); err != nil {
		return err
	}
	c.Status = transitions[action].To
	c.Touch(now)
	return nil
}

// Allowed lists the actions actor may take from status.
func Allowed(status models.Status, actor Actor) []Action {
	var out []Action
	for _, t := range Transitions() {
		if Check(status, t.Action, actor) == nil {
			out = append(out, t.Action)
		}
	}
	return out
}

// IsTerminal reports whether no action leaves status. Approved and rejected
// cases cannot be reopened.
func IsTerminal(status models.Status) bool {
	for _, t := range transitions {
		if t.From == status {
			return false
		}
	}
	return true
}

// IsEditable reports whether the applicant may still edit the case.
func IsEditable(status models.Status) bool {
	return status == transitions[ActionEdit].From
}

// DecisionAction maps a reviewer decision to its action.
func DecisionAction(d models.Decision) (Action, error) {
	switch d {
	case models.DecisionApproved:
		return ActionApprove, nil
	case models.DecisionRejected:
		return ActionReject, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "invalid decision: "+string(d))
}

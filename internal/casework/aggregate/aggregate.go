// Package aggregate derives completion and submission readiness from a case
// and guards beneficial-owner edits on it.
package aggregate

import (
	"math"
	"strconv"
	"strings"
	"time"

	"verifyflow/internal/casework/documents"
	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/schema"
	"verifyflow/internal/casework/workflow"
	dErrors "verifyflow/pkg/domain-errors"
)

const (
	DefaultProfileWeight  = 80
	DefaultDocumentWeight = 20
)

// Evaluator computes derived values of a case. The zero value is not usable;
// construct with NewEvaluator.
type Evaluator struct {
	registry       *schema.Registry
	policy         documents.Policy
	profileWeight  int
	documentWeight int
	expectedDocs   map[models.CaseType]int
	// enforceOwnershipTotal requires owner percentages to add up to 100.
	enforceOwnershipTotal bool
}

type Option func(*Evaluator)

func WithDocumentPolicy(p documents.Policy) Option {
	return func(e *Evaluator) { e.policy = p }
}

// WithOwnershipTotal enables the 100% beneficial-ownership rule.
func WithOwnershipTotal(enabled bool) Option {
	return func(e *Evaluator) { e.enforceOwnershipTotal = enabled }
}

// WithWeights overrides the profile and document shares of the percentage.
func WithWeights(profile, document int) Option {
	return func(e *Evaluator) {
		e.profileWeight = profile
		e.documentWeight = document
	}
}

func WithExpectedDocuments(caseType models.CaseType, n int) Option {
	return func(e *Evaluator) { e.expectedDocs[caseType] = n }
}

func NewEvaluator(registry *schema.Registry, opts ...Option) *Evaluator {
	e := &Evaluator{
		registry:       registry,
		policy:         documents.DefaultPolicy(),
		profileWeight:  DefaultProfileWeight,
		documentWeight: DefaultDocumentWeight,
		expectedDocs: map[models.CaseType]int{
			models.CaseTypeIndividual: 2,
			models.CaseTypeBusiness:   3,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) Policy() documents.Policy {
	return e.policy
}

// ComputeCompletion is a pure function of the profile's required fields and
// the document count, clamped to [0, 100].
func (e *Evaluator) ComputeCompletion(c *models.Case) int {
	pct := 0
	if c.Profile != nil {
		if filled, total, err := e.registry.Filled(c.Profile); err == nil && total > 0 {
			pct += filled * e.profileWeight / total
		}
	}
	if expected := e.expectedDocs[c.CaseType]; expected > 0 {
		pct += min(len(c.Documents), expected) * e.documentWeight / expected
	}
	return max(0, min(100, pct))
}

// Refresh stores the recomputed completion on the case.
func (e *Evaluator) Refresh(c *models.Case) {
	c.CompletionPercentage = e.ComputeCompletion(c)
}

// ValidateForSubmission returns every failure that blocks submission.
func (e *Evaluator) ValidateForSubmission(c *models.Case, now time.Time) (models.ValidationErrors, error) {
	errs, err := e.registry.Validate(c.Profile, now)
	if err != nil {
		return nil, err
	}
	if e.enforceOwnershipTotal {
		if bp, ok := c.Business(); ok {
			errs = append(errs, ownershipTotal(bp)...)
		}
	}
	return append(errs, e.policy.CheckMinimum(c)...), nil
}

// ReadyForSubmission combines validation with the workflow guard for the
// applicant. Field failures come back as a CodeValidation error carrying the
// list.
func (e *Evaluator) ReadyForSubmission(c *models.Case, now time.Time) error {
	if err := workflow.Check(c.Status, workflow.ActionSubmit, workflow.ActorApplicant); err != nil {
		return err
	}
	errs, err := e.ValidateForSubmission(c, now)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return dErrors.Wrap(errs, dErrors.CodeValidation, "case is not ready for submission")
	}
	return nil
}

// ownershipTotal checks parsable percentages only; unparsable rows already
// fail their own field rule.
func ownershipTotal(bp *models.BusinessProfile) models.ValidationErrors {
	if len(bp.BeneficialOwners) == 0 {
		return nil
	}
	var sum float64
	for _, o := range bp.BeneficialOwners {
		if v, err := strconv.ParseFloat(strings.TrimSpace(o.OwnershipPercentage), 64); err == nil {
			sum += v
		}
	}
	if math.Abs(sum-100) > 0.01 {
		return models.ValidationErrors{{
			FieldPath: schema.OwnersPath,
			Message:   "Beneficial ownership must total 100%",
		}}
	}
	return nil
}

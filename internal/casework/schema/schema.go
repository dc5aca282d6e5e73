// Package schema declares, per case type, which profile fields are required
// and which field rules each must pass.
package schema

import (
	"strconv"
	"strings"
	"time"

	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/validation"
	dErrors "verifyflow/pkg/domain-errors"
)

// OwnersPath is the path prefix of beneficial-owner rows in error reports.
const OwnersPath = "beneficial_owners"

// Record is anything whose raw field values can be looked up by path.
type Record interface {
	Value(path string) (string, bool)
}

// Context carries what a rule may need beyond its own value.
type Context struct {
	Now    time.Time
	Record Record
}

// Lookup returns a sibling value, empty if the path is unknown.
func (c Context) Lookup(path string) string {
	v, _ := c.Record.Value(path)
	return v
}

// Rule validates one non-blank value.
type Rule func(value string, rc Context) error

// Field declares one validated path. Optional fields are checked only when
// they hold a value.
type Field struct {
	Path     string
	Label    string
	Required bool
	Rules    []Rule
}

// check returns the first failure for the field, or nil.
func (f Field) check(rc Context) error {
	value, _ := rc.Record.Value(f.Path)
	if strings.TrimSpace(value) == "" {
		if f.Required {
			return validation.Required(value, f.Label)
		}
		return nil
	}
	for _, rule := range f.Rules {
		if err := rule(value, rc); err != nil {
			return err
		}
	}
	return nil
}

// Schema is the ordered field list for one case type.
type Schema struct {
	CaseType models.CaseType
	Fields   []Field
	// OwnerFields applies to every beneficial-owner row. Nil for individuals.
	OwnerFields []Field
}

// Validate returns every failure in field order, owner rows last.
func (s *Schema) Validate(profile models.Profile, now time.Time) models.ValidationErrors {
	var errs models.ValidationErrors
	rc := Context{Now: now, Record: profile}
	for _, f := range s.Fields {
		if err := f.check(rc); err != nil {
			errs = append(errs, models.ValidationError{FieldPath: f.Path, Message: err.Error()})
		}
	}
	bp, ok := profile.(*models.BusinessProfile)
	if !ok || len(s.OwnerFields) == 0 {
		return errs
	}
	for i, owner := range bp.BeneficialOwners {
		orc := Context{Now: now, Record: owner}
		for _, f := range s.OwnerFields {
			if err := f.check(orc); err != nil {
				errs = append(errs, models.ValidationError{
					FieldPath: OwnerFieldPath(i, f.Path),
					Message:   err.Error(),
				})
			}
		}
	}
	return errs
}

// OwnerFieldPath formats the path of a field inside owner row i.
func OwnerFieldPath(i int, field string) string {
	return OwnersPath + "[" + strconv.Itoa(i) + "]." + field
}

// RequiredPaths lists top-level required paths in declaration order.
func (s *Schema) RequiredPaths() []string {
	var paths []string
	for _, f := range s.Fields {
		if f.Required {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// Filled counts required top-level fields holding a non-blank value.
func (s *Schema) Filled(profile models.Profile) (filled, total int) {
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		total++
		if v, _ := profile.Value(f.Path); strings.TrimSpace(v) != "" {
			filled++
		}
	}
	return filled, total
}

// Registry maps case types to their schema.
type Registry struct {
	schemas map[models.CaseType]*Schema
}

// NewRegistry returns a registry with the individual and business schemas.
func NewRegistry() *Registry {
	return &Registry{schemas: map[models.CaseType]*Schema{
		models.CaseTypeIndividual: IndividualSchema(),
		models.CaseTypeBusiness:   BusinessSchema(),
	}}
}

func (r *Registry) Schema(caseType models.CaseType) (*Schema, error) {
	s, ok := r.schemas[caseType]
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "no schema for case type: "+string(caseType))
	}
	return s, nil
}

// Validate checks a profile against the schema of its own variant.
func (r *Registry) Validate(profile models.Profile, now time.Time) (models.ValidationErrors, error) {
	if profile == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "profile is required")
	}
	s, err := r.Schema(profile.CaseType())
	if err != nil {
		return nil, err
	}
	return s.Validate(profile, now), nil
}

func (r *Registry) RequiredPaths(caseType models.CaseType) ([]string, error) {
	s, err := r.Schema(caseType)
	if err != nil {
		return nil, err
	}
	return s.RequiredPaths(), nil
}

func (r *Registry) Filled(profile models.Profile) (filled, total int, err error) {
	if profile == nil {
		return 0, 0, dErrors.New(dErrors.CodeInvalidInput, "profile is required")
	}
	s, err := r.Schema(profile.CaseType())
	if err != nil {
		return 0, 0, err
	}
	filled, total = s.Filled(profile)
	return filled, total, nil
}

package models

import (
	dErrors "verifyflow/pkg/domain-errors"
)

// Status is the workflow position of a case. The set is closed; legal moves
// between values live in the workflow package.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

var validStatuses = map[Status]bool{
	StatusDraft:       true,
	StatusSubmitted:   true,
	StatusUnderReview: true,
	StatusApproved:    true,
	StatusRejected:    true,
}

// AllStatuses lists statuses in workflow order.
func AllStatuses() []Status {
	return []Status{StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected}
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid status: "+s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

func (s Status) String() string {
	return string(s)
}

// CaseType selects the profile variant and its schema.
type CaseType string

const (
	CaseTypeIndividual CaseType = "individual"
	CaseTypeBusiness   CaseType = "business"
)

func ParseCaseType(s string) (CaseType, error) {
	ct := CaseType(s)
	if !ct.IsValid() {
		if s == "" {
			return "", dErrors.New(dErrors.CodeInvalidInput, "case type is required")
		}
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid case type: "+s)
	}
	return ct, nil
}

func (t CaseType) IsValid() bool {
	return t == CaseTypeIndividual || t == CaseTypeBusiness
}

func (t CaseType) String() string {
	return string(t)
}

// RiskLevel is assigned by a reviewer; absent until then.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func ParseRiskLevel(s string) (RiskLevel, error) {
	switch r := RiskLevel(s); r {
	case RiskLow, RiskMedium, RiskHigh:
		return r, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "invalid risk level: "+s)
}

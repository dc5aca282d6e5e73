package models

import (
	"encoding/json"
	"time"

	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
)

// Decision is a reviewer's terminal verdict on a case.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ReviewRecord keeps the reviewer decision with the notes exactly as given.
type ReviewRecord struct {
	Decision   Decision  `json:"decision"`
	Notes      string    `json:"review_notes"`
	ReviewerID id.UserID `json:"reviewer_id"`
	DecidedAt  time.Time `json:"decided_at"`
}

// Case is one KYC/KYB application.
type Case struct {
	ID                   id.CaseID     `json:"id"`
	UserID               id.UserID     `json:"user_id"`
	CaseType             CaseType      `json:"application_type"`
	Status               Status        `json:"status"`
	Profile              Profile       `json:"profile"`
	Documents            []Document    `json:"documents"`
	CompletionPercentage int           `json:"completion_percentage"`
	RiskLevel            *RiskLevel    `json:"risk_level,omitempty"`
	Version              int64         `json:"version"`
	Review               *ReviewRecord `json:"review,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// NewCase creates a draft case with an empty profile of the matching variant.
func NewCase(caseID id.CaseID, userID id.UserID, caseType CaseType, now time.Time) (*Case, error) {
	if caseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "case ID cannot be nil")
	}
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user ID cannot be nil")
	}
	profile, err := NewProfile(caseType)
	if err != nil {
		return nil, err
	}
	return &Case{
		ID:        caseID,
		UserID:    userID,
		CaseType:  caseType,
		Status:    StatusDraft,
		Profile:   profile,
		Documents: []Document{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetProfile replaces the profile. A variant that does not match the case
// type is refused.
func (c *Case) SetProfile(p Profile) error {
	if p == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "profile is required")
	}
	if p.CaseType() != c.CaseType {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"profile variant "+string(p.CaseType())+" does not match case type "+string(c.CaseType))
	}
	c.Profile = p
	return nil
}

// Touch records a mutation at now.
func (c *Case) Touch(now time.Time) {
	c.Version++
	c.UpdatedAt = now
}

// Business returns the business profile, or false for individual cases.
func (c *Case) Business() (*BusinessProfile, bool) {
	bp, ok := c.Profile.(*BusinessProfile)
	return bp, ok
}

func (c *Case) Individual() (*IndividualProfile, bool) {
	ip, ok := c.Profile.(*IndividualProfile)
	return ip, ok
}

func (c *Case) Document(docID id.DocumentID) (Document, bool) {
	for _, d := range c.Documents {
		if d.ID == docID {
			return d, true
		}
	}
	return Document{}, false
}

// Clone returns a deep copy so that callers can keep a snapshot.
func (c *Case) Clone() *Case {
	cp := *c
	if c.Profile != nil {
		cp.Profile = c.Profile.Clone()
	}
	if c.Documents != nil {
		cp.Documents = make([]Document, len(c.Documents))
		copy(cp.Documents, c.Documents)
	}
	if c.RiskLevel != nil {
		rl := *c.RiskLevel
		cp.RiskLevel = &rl
	}
	if c.Review != nil {
		rv := *c.Review
		cp.Review = &rv
	}
	return &cp
}

type caseAlias Case

// UnmarshalJSON decodes the profile into the variant named by the case type.
func (c *Case) UnmarshalJSON(b []byte) error {
	aux := struct {
		*caseAlias
		Profile json.RawMessage `json:"profile"`
	}{caseAlias: (*caseAlias)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if !c.CaseType.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid case type: "+string(c.CaseType))
	}
	profile, err := DecodeProfile(c.CaseType, aux.Profile)
	if err != nil {
		return err
	}
	if bp, ok := profile.(*BusinessProfile); ok {
		bp.EnsureOwnerLocalIDs()
	}
	c.Profile = profile
	return nil
}

// DashboardStats summarises case counts for reviewers.
type DashboardStats struct {
	TotalApplications int `json:"total_applications"`
	Draft             int `json:"draft"`
	PendingReview     int `json:"pending_review"`
	UnderReview       int `json:"under_review"`
	Approved          int `json:"approved"`
	Rejected          int `json:"rejected"`
}

// Tally counts one case into the stats. Submitted and under-review cases
// both count as pending review.
func (s *DashboardStats) Tally(status Status) {
	s.TotalApplications++
	switch status {
	case StatusDraft:
		s.Draft++
	case StatusSubmitted:
		s.PendingReview++
	case StatusUnderReview:
		s.PendingReview++
		s.UnderReview++
	case StatusApproved:
		s.Approved++
	case StatusRejected:
		s.Rejected++
	}
}

package audit

import (
	"context"
	"time"

	id "verifyflow/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: every
	// case state change and every review decision. Long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers session lifecycle events.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity that can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string        `json:"id,omitempty"`
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	// UserID owns the case (applicant). ActorID is whoever acted, which for
	// review events is the reviewer.
	UserID    id.UserID `json:"user_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	CaseID    string    `json:"case_id,omitempty"`
	Action    string    `json:"action"`
	Decision  string    `json:"decision,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Device    string    `json:"device,omitempty"`
}

// Store persists audit events. Implementations: memory, postgres outbox, kafka.
type Store interface {
	Append(ctx context.Context, event Event) error
}

type AuditEvent string

const (
	// Case events
	EventCaseCreated      AuditEvent = "case_created"
	EventProfileSaved     AuditEvent = "profile_saved"
	EventCaseSubmitted    AuditEvent = "case_submitted"
	EventDocumentUploaded AuditEvent = "document_uploaded"
	EventDocumentDeleted  AuditEvent = "document_deleted"
	EventReviewClaimed    AuditEvent = "review_claimed"
	EventCaseApproved     AuditEvent = "case_approved"
	EventCaseRejected     AuditEvent = "case_rejected"

	// Identity events
	EventUserRegistered AuditEvent = "user_registered"
	EventSessionCreated AuditEvent = "session_created"
	EventSessionRevoked AuditEvent = "session_revoked"
	EventAuthFailed     AuditEvent = "auth_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventCaseCreated:      CategoryCompliance,
	EventCaseSubmitted:    CategoryCompliance,
	EventReviewClaimed:    CategoryCompliance,
	EventCaseApproved:     CategoryCompliance,
	EventCaseRejected:     CategoryCompliance,
	EventDocumentUploaded: CategoryCompliance,
	EventDocumentDeleted:  CategoryCompliance,
	EventUserRegistered:   CategoryCompliance,

	EventSessionRevoked: CategorySecurity,
	EventAuthFailed:     CategorySecurity,

	EventProfileSaved:   CategoryOperations,
	EventSessionCreated: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Normalize fills the category from the action and a zero timestamp from now.
func (e Event) Normalize(now time.Time) Event {
	e.Category = AuditEvent(e.Action).Category()
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	return e
}

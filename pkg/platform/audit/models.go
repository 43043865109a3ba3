package audit

import (
	"time"

	"chorale/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp      time.Time             `json:"timestamp"`
	OrganizationID domain.OrganizationID `json:"organization_id"`
	// ActorID identifies who performed the action. Empty for guest-triggered
	// events (which should not normally occur; guests cannot mutate).
	ActorID string `json:"actor_id,omitempty"`
	Action  string `json:"action"`
	// Subject identifies the entity acted upon, e.g. "song:<id>".
	Subject string `json:"subject,omitempty"`
	// Reason carries human-readable detail (verification outcome, denial
	// reason) for forensics.
	Reason string `json:"reason,omitempty"`
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	// Organization events
	EventOrganizationCreated  AuditEvent = "organization_created"
	EventOrganizationVerified AuditEvent = "organization_verified"
	EventOrganizationRejected AuditEvent = "organization_rejected"

	// Content events
	EventContentCreated     AuditEvent = "content_created"
	EventContentEdited      AuditEvent = "content_edited"
	EventContentSoftDeleted AuditEvent = "content_soft_deleted"
	EventContentHardDeleted AuditEvent = "content_hard_deleted"
	EventContentRestored    AuditEvent = "content_restored"
)

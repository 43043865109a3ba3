package models

import (
	"time"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

// Organization is the aggregate root for a content-publishing tenant
// ("church" in product terms).
//
// Invariants:
//   - Name is non-empty, at most 128 characters, globally unique (store-enforced)
//   - Verification is one of pending/verified/rejected
//   - Verification transitions: pending→verified, pending→rejected,
//     verified→rejected, rejected→verified; no state is terminal, but nothing
//     transitions back to pending
//   - At most one Administrator references the organization (store-enforced)
//   - CreatedAt is immutable after construction
//
// # Verification cascade
//
// When verification changes, the linked Administrator's copy of the status is
// updated in the same transaction by the verification workflow — that
// workflow is the sole writer of the administrator's flag. Content that was
// forced hidden while the organization was pending stays hidden after
// verification; republishing requires an explicit edit per item.
type Organization struct {
	ID           domain.OrganizationID     `json:"id"`
	Name         string                    `json:"name"`
	Verification domain.VerificationStatus `json:"verification"`
	// LogoURL is an opaque asset reference from the blob store; stored and
	// returned verbatim, never interpreted.
	LogoURL   string    `json:"logo_url,omitempty"`
	About     string    `json:"about,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Organization) IsVerified() bool {
	return o.Verification == domain.VerificationVerified
}

// verificationTransitions is the single source of truth for the workflow
// state machine.
var verificationTransitions = map[domain.VerificationStatus][]domain.VerificationStatus{
	domain.VerificationPending:  {domain.VerificationVerified, domain.VerificationRejected},
	domain.VerificationVerified: {domain.VerificationRejected},
	domain.VerificationRejected: {domain.VerificationVerified},
}

// CanSetVerification checks whether the organization may transition to the
// given status. Use with ApplyVerification in Execute callbacks.
func (o *Organization) CanSetVerification(status domain.VerificationStatus) error {
	if !status.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown verification status: "+string(status))
	}
	if o.Verification == status {
		return dErrors.New(dErrors.CodeInvariantViolation, "organization is already "+string(status))
	}
	for _, allowed := range verificationTransitions[o.Verification] {
		if allowed == status {
			return nil
		}
	}
	return dErrors.Newf(dErrors.CodeInvariantViolation,
		"cannot transition verification from %s to %s", o.Verification, status)
}

// ApplyVerification transitions the organization to the given status.
// Call CanSetVerification first to validate the transition.
func (o *Organization) ApplyVerification(status domain.VerificationStatus, now time.Time) {
	o.Verification = status
	o.UpdatedAt = now
}

// ApplyProfile updates the editable profile fields.
func (o *Organization) ApplyProfile(logoURL, about string, now time.Time) {
	o.LogoURL = logoURL
	o.About = about
	o.UpdatedAt = now
}

// NewOrganization constructs an organization. Organizations created through
// self-registration start pending; a global administrator may create one
// already verified.
func NewOrganization(id domain.OrganizationID, name string, verification domain.VerificationStatus, now time.Time) (*Organization, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization name must be 128 characters or less")
	}
	if !verification.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown verification status: "+string(verification))
	}
	return &Organization{
		ID:           id,
		Name:         name,
		Verification: verification,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

// Administrator is the single account that manages one organization.
//
// Invariants:
//   - OrganizationID is set (an administrator always belongs to exactly one
//     organization; the store enforces at most one administrator per
//     organization)
//   - Verification mirrors the organization and is written only by the
//     verification workflow
type Administrator struct {
	ID             domain.AdministratorID    `json:"id"`
	OrganizationID domain.OrganizationID     `json:"organization_id"`
	Email          string                    `json:"email"`
	DisplayName    string                    `json:"display_name"`
	Verification   domain.VerificationStatus `json:"verification"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// ApplyVerification mirrors the organization's verification outcome onto the
// administrator. Only the verification workflow calls this.
func (a *Administrator) ApplyVerification(status domain.VerificationStatus, now time.Time) {
	a.Verification = status
	a.UpdatedAt = now
}

// Actor derives the request-scoped actor value for this administrator.
func (a *Administrator) Actor() domain.Actor {
	return domain.Actor{
		ID:             uuid.UUID(a.ID),
		Role:           domain.RoleOrgAdmin,
		OrganizationID: a.OrganizationID,
		Verification:   a.Verification,
	}
}

// NewAdministrator constructs an administrator linked to an organization.
// The initial verification status always matches the organization's.
func NewAdministrator(id domain.AdministratorID, orgID domain.OrganizationID, email, displayName string, verification domain.VerificationStatus, now time.Time) (*Administrator, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "administrator email cannot be empty")
	}
	if orgID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "administrator must belong to an organization")
	}
	if !verification.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown verification status: "+string(verification))
	}
	return &Administrator{
		ID:             id,
		OrganizationID: orgID,
		Email:          email,
		DisplayName:    displayName,
		Verification:   verification,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

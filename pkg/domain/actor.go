package domain

import (
	"github.com/google/uuid"

	dErrors "chorale/pkg/domain-errors"
)

// Role classifies the caller of every engine operation.
//
// Invariant: RoleOrgAdmin implies OrganizationID is set on the Actor;
// RoleGuest implies no identity at all.
type Role string

const (
	RoleGuest       Role = "guest"
	RoleUser        Role = "user"
	RoleOrgAdmin    Role = "org_admin"
	RoleGlobalAdmin Role = "global_admin"
)

var validRoles = map[Role]bool{
	RoleGuest:       true,
	RoleUser:        true,
	RoleOrgAdmin:    true,
	RoleGlobalAdmin: true,
}

func (r Role) IsValid() bool { return validRoles[r] }

// ParseRole constructs a Role from external input (JWT claims, requests).
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidActor, "unknown role: "+s)
	}
	return r, nil
}

// VerificationStatus is the pending/verified/rejected state shared by an
// Organization and its linked Administrator. The verification workflow is the
// sole writer of an administrator's copy.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

var validVerificationStatuses = map[VerificationStatus]bool{
	VerificationPending:  true,
	VerificationVerified: true,
	VerificationRejected: true,
}

func (v VerificationStatus) IsValid() bool { return validVerificationStatuses[v] }

func ParseVerificationStatus(s string) (VerificationStatus, error) {
	v := VerificationStatus(s)
	if !v.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown verification status: "+s)
	}
	return v, nil
}

// Actor is the authenticated identity (or anonymous guest) making a request.
// It is derived per request by the credential layer and passed explicitly to
// every engine function — there is no ambient current-user state.
//
// OrganizationID and Verification are meaningful only for RoleOrgAdmin and
// mirror the Administrator record as read at authentication time. Mutation
// guards re-read the persisted state before deciding; the Actor snapshot is
// never trusted for authorization of a specific target beyond that.
type Actor struct {
	// ID is the underlying account identity: an administrator ID for
	// org_admins, a user ID otherwise. Zero for guests.
	ID             uuid.UUID
	Role           Role
	OrganizationID OrganizationID
	Verification   VerificationStatus
}

// Guest is the anonymous actor.
func Guest() Actor { return Actor{Role: RoleGuest} }

// Validate checks the Actor's structural invariants. An invalid actor is a
// programming error upstream and is reported as CodeInvalidActor, never
// silently defaulted to guest.
func (a Actor) Validate() error {
	if !a.Role.IsValid() {
		return dErrors.New(dErrors.CodeInvalidActor, "unknown role: "+string(a.Role))
	}
	if a.Role == RoleOrgAdmin {
		if a.OrganizationID.IsZero() {
			return dErrors.New(dErrors.CodeInvalidActor, "org_admin actor has no organization")
		}
		if !a.Verification.IsValid() {
			return dErrors.New(dErrors.CodeInvalidActor, "org_admin actor has no verification status")
		}
	}
	return nil
}

// IsVerifiedOrgAdmin reports whether the actor is an org_admin whose
// organization has been verified, as of the actor snapshot.
func (a Actor) IsVerifiedOrgAdmin() bool {
	return a.Role == RoleOrgAdmin && a.Verification == VerificationVerified
}

// Owns reports whether the actor administers the given organization.
func (a Actor) Owns(orgID OrganizationID) bool {
	return a.Role == RoleOrgAdmin && a.OrganizationID == orgID
}

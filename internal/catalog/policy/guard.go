package policy

import (
	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

// Action is a mutation the guard can authorize.
type Action string

const (
	ActionEdit       Action = "edit"
	ActionSoftDelete Action = "soft_delete"
	ActionHardDelete Action = "hard_delete"
	ActionRestore    Action = "restore"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionEdit, ActionSoftDelete, ActionHardDelete, ActionRestore:
		return true
	}
	return false
}

// AuthorizeCreation decides whether the actor may create content under the
// given organization. Unverified org_admins MAY create — their drafts are
// forced hidden by the publication policy — but only within their own
// organization. This create-allowed/mutate-blocked asymmetry is intentional;
// see AuthorizeMutation.
func AuthorizeCreation(actor domain.Actor, orgID domain.OrganizationID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleGlobalAdmin:
		return nil
	case domain.RoleOrgAdmin:
		if !actor.Owns(orgID) {
			return dErrors.New(dErrors.CodeForbidden, dErrors.ReasonNotAuthorized)
		}
		return nil
	default:
		return dErrors.New(dErrors.CodeForbidden, dErrors.ReasonNotAuthorized)
	}
}

// AuthorizeMutation decides whether the actor may perform the action on
// content owned by targetOrg. The caller must supply an actor whose
// verification status was re-read from the store for this request.
//
// The single most important rule: an org_admin whose organization is pending
// or rejected may not edit or delete ANYTHING — including drafts they created
// themselves while unverified. Creation is allowed, mutation is not, until a
// global administrator verifies the organization.
func AuthorizeMutation(actor domain.Actor, targetOrg domain.OrganizationID, action Action) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !action.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown action: "+string(action))
	}

	switch actor.Role {
	case domain.RoleGlobalAdmin:
		return nil

	case domain.RoleOrgAdmin:
		if !actor.Owns(targetOrg) {
			return dErrors.New(dErrors.CodeForbidden, dErrors.ReasonNotAuthorized)
		}
		switch action {
		case ActionHardDelete:
			// Never, verified or not: hard delete is irreversible and
			// reserved for the global administrator.
			return dErrors.New(dErrors.CodeForbidden, dErrors.ReasonNotAuthorized)
		case ActionRestore:
			return dErrors.New(dErrors.CodeForbidden, dErrors.ReasonNotAuthorized)
		}
		if actor.Verification != domain.VerificationVerified {
			return dErrors.New(dErrors.CodeForbidden, dErrors.ReasonPendingVerification)
		}
		return nil

	default:
		return dErrors.New(dErrors.CodeForbidden, dErrors.ReasonNotAuthorized)
	}
}

package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

func requireForbiddenReason(t *testing.T, err error, reason string) {
	t.Helper()
	require.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	require.Equal(t, reason, dErrors.MessageOf(err))
}

func TestAuthorizeCreation(t *testing.T) {
	orgID := domain.NewOrganizationID()

	t.Run("unverified org_admin may create in own organization", func(t *testing.T) {
		require.NoError(t, AuthorizeCreation(orgAdmin(orgID, domain.VerificationPending), orgID))
	})

	t.Run("rejected org_admin may still create", func(t *testing.T) {
		require.NoError(t, AuthorizeCreation(orgAdmin(orgID, domain.VerificationRejected), orgID))
	})

	t.Run("org_admin may not create in another organization", func(t *testing.T) {
		err := AuthorizeCreation(orgAdmin(orgID, domain.VerificationVerified), domain.NewOrganizationID())
		requireForbiddenReason(t, err, dErrors.ReasonNotAuthorized)
	})

	t.Run("global_admin may create anywhere", func(t *testing.T) {
		require.NoError(t, AuthorizeCreation(globalAdmin(), orgID))
	})

	t.Run("guests and users may not create", func(t *testing.T) {
		err := AuthorizeCreation(domain.Guest(), orgID)
		requireForbiddenReason(t, err, dErrors.ReasonNotAuthorized)
	})
}

func TestAuthorizeMutationOrgAdmin(t *testing.T) {
	orgID := domain.NewOrganizationID()

	t.Run("verified admin may edit and soft delete own content", func(t *testing.T) {
		admin := orgAdmin(orgID, domain.VerificationVerified)
		require.NoError(t, AuthorizeMutation(admin, orgID, ActionEdit))
		require.NoError(t, AuthorizeMutation(admin, orgID, ActionSoftDelete))
	})

	t.Run("pending admin is blocked with the verification reason", func(t *testing.T) {
		admin := orgAdmin(orgID, domain.VerificationPending)
		err := AuthorizeMutation(admin, orgID, ActionEdit)
		requireForbiddenReason(t, err, dErrors.ReasonPendingVerification)
	})

	t.Run("rejected admin is blocked with the verification reason", func(t *testing.T) {
		admin := orgAdmin(orgID, domain.VerificationRejected)
		err := AuthorizeMutation(admin, orgID, ActionSoftDelete)
		requireForbiddenReason(t, err, dErrors.ReasonPendingVerification)
	})

	t.Run("foreign content denial says not authorized, not verification", func(t *testing.T) {
		admin := orgAdmin(orgID, domain.VerificationPending)
		err := AuthorizeMutation(admin, domain.NewOrganizationID(), ActionEdit)
		requireForbiddenReason(t, err, dErrors.ReasonNotAuthorized)
	})

	t.Run("hard delete is denied even when verified", func(t *testing.T) {
		admin := orgAdmin(orgID, domain.VerificationVerified)
		err := AuthorizeMutation(admin, orgID, ActionHardDelete)
		requireForbiddenReason(t, err, dErrors.ReasonNotAuthorized)
	})

	t.Run("restore is denied even when verified", func(t *testing.T) {
		admin := orgAdmin(orgID, domain.VerificationVerified)
		err := AuthorizeMutation(admin, orgID, ActionRestore)
		requireForbiddenReason(t, err, dErrors.ReasonNotAuthorized)
	})
}

func TestAuthorizeMutationOtherRoles(t *testing.T) {
	orgID := domain.NewOrganizationID()

	t.Run("global_admin may do everything", func(t *testing.T) {
		for _, action := range []Action{ActionEdit, ActionSoftDelete, ActionHardDelete, ActionRestore} {
			require.NoError(t, AuthorizeMutation(globalAdmin(), orgID, action))
		}
	})

	t.Run("guests and users are denied", func(t *testing.T) {
		user := domain.Actor{Role: domain.RoleUser}
		requireForbiddenReason(t, AuthorizeMutation(domain.Guest(), orgID, ActionEdit), dErrors.ReasonNotAuthorized)
		requireForbiddenReason(t, AuthorizeMutation(user, orgID, ActionEdit), dErrors.ReasonNotAuthorized)
	})

	t.Run("unknown action is a bad request", func(t *testing.T) {
		err := AuthorizeMutation(globalAdmin(), orgID, Action("rename"))
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

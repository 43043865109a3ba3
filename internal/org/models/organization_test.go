package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newOrg(t *testing.T, status domain.VerificationStatus) *Organization {
	t.Helper()
	org, err := NewOrganization(domain.NewOrganizationID(), "St. Cecilia Parish", status, now)
	require.NoError(t, err)
	return org
}

func TestVerificationTransitions(t *testing.T) {
	cases := []struct {
		from    domain.VerificationStatus
		to      domain.VerificationStatus
		allowed bool
	}{
		{domain.VerificationPending, domain.VerificationVerified, true},
		{domain.VerificationPending, domain.VerificationRejected, true},
		{domain.VerificationVerified, domain.VerificationRejected, true},
		{domain.VerificationRejected, domain.VerificationVerified, true},
		{domain.VerificationVerified, domain.VerificationPending, false},
		{domain.VerificationRejected, domain.VerificationPending, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			org := newOrg(t, tc.from)
			err := org.CanSetVerification(tc.to)
			if tc.allowed {
				require.NoError(t, err)
			} else {
				require.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
			}
		})
	}

	t.Run("same-state transition is rejected", func(t *testing.T) {
		org := newOrg(t, domain.VerificationVerified)
		err := org.CanSetVerification(domain.VerificationVerified)
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		require.Contains(t, err.Error(), "already")
	})

	t.Run("unknown status is invalid input", func(t *testing.T) {
		org := newOrg(t, domain.VerificationPending)
		err := org.CanSetVerification(domain.VerificationStatus("approved"))
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestNewOrganization(t *testing.T) {
	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewOrganization(domain.NewOrganizationID(), "", domain.VerificationPending, now)
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		long := make([]byte, 129)
		for i := range long {
			long[i] = 'x'
		}
		_, err := NewOrganization(domain.NewOrganizationID(), string(long), domain.VerificationPending, now)
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestAdministratorActor(t *testing.T) {
	orgID := domain.NewOrganizationID()
	admin, err := NewAdministrator(domain.NewAdministratorID(), orgID, "Grace@Example.ORG", "Grace", domain.VerificationPending, now)
	require.NoError(t, err)

	t.Run("email is normalized", func(t *testing.T) {
		require.Equal(t, "grace@example.org", admin.Email)
	})

	t.Run("actor mirrors the administrator record", func(t *testing.T) {
		actor := admin.Actor()
		require.Equal(t, domain.RoleOrgAdmin, actor.Role)
		require.Equal(t, orgID, actor.OrganizationID)
		require.Equal(t, domain.VerificationPending, actor.Verification)
		require.NoError(t, actor.Validate())
	})
}

package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

func orgAdmin(orgID domain.OrganizationID, status domain.VerificationStatus) domain.Actor {
	return domain.Actor{
		ID:             uuid.New(),
		Role:           domain.RoleOrgAdmin,
		OrganizationID: orgID,
		Verification:   status,
	}
}

func globalAdmin() domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: domain.RoleGlobalAdmin}
}

func TestBuildFilterGuest(t *testing.T) {
	t.Run("forces visible-only and non-deleted", func(t *testing.T) {
		filter, err := BuildFilter(domain.Guest(), KindSong, ListParams{})
		require.NoError(t, err)

		require.True(t, filter.VisibleOnly)
		require.NotNil(t, filter.Deleted)
		require.False(t, *filter.Deleted)
		require.Nil(t, filter.OrganizationID)
	})

	t.Run("organization param narrows but never widens", func(t *testing.T) {
		orgID := domain.NewOrganizationID()
		filter, err := BuildFilter(domain.Guest(), KindAlbum, ListParams{OrganizationID: &orgID})
		require.NoError(t, err)

		require.Equal(t, orgID, *filter.OrganizationID)
		require.True(t, filter.VisibleOnly)
	})

	t.Run("include_deleted is ignored for guests", func(t *testing.T) {
		filter, err := BuildFilter(domain.Guest(), KindArtist, ListParams{IncludeDeleted: true})
		require.NoError(t, err)

		require.NotNil(t, filter.Deleted)
		require.False(t, *filter.Deleted)
	})
}

func TestBuildFilterUser(t *testing.T) {
	// A plain user sees exactly what a guest sees.
	user := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}

	guestFilter, err := BuildFilter(domain.Guest(), KindSong, ListParams{})
	require.NoError(t, err)
	userFilter, err := BuildFilter(user, KindSong, ListParams{})
	require.NoError(t, err)

	require.Equal(t, guestFilter, userFilter)
}

func TestBuildFilterOrgAdmin(t *testing.T) {
	orgID := domain.NewOrganizationID()
	otherOrg := domain.NewOrganizationID()

	t.Run("scoped to own organization including hidden rows", func(t *testing.T) {
		filter, err := BuildFilter(orgAdmin(orgID, domain.VerificationVerified), KindAlbum, ListParams{})
		require.NoError(t, err)

		require.Equal(t, orgID, *filter.OrganizationID)
		require.False(t, filter.VisibleOnly)
		require.False(t, *filter.Deleted)
	})

	t.Run("cannot escape own organization via params", func(t *testing.T) {
		filter, err := BuildFilter(orgAdmin(orgID, domain.VerificationVerified), KindAlbum, ListParams{
			OrganizationID: &otherOrg,
		})
		require.NoError(t, err)

		require.Equal(t, orgID, *filter.OrganizationID)
	})

	t.Run("trash view flips to deleted-only, same organization", func(t *testing.T) {
		filter, err := BuildFilter(orgAdmin(orgID, domain.VerificationPending), KindSong, ListParams{
			TrashView: true,
		})
		require.NoError(t, err)

		require.Equal(t, orgID, *filter.OrganizationID)
		require.True(t, *filter.Deleted)
	})
}

func TestBuildFilterGlobalAdmin(t *testing.T) {
	t.Run("unconstrained except deleted exclusion", func(t *testing.T) {
		filter, err := BuildFilter(globalAdmin(), KindArtist, ListParams{})
		require.NoError(t, err)

		require.Nil(t, filter.OrganizationID)
		require.False(t, filter.VisibleOnly)
		require.False(t, *filter.Deleted)
	})

	t.Run("include_deleted lifts the exclusion", func(t *testing.T) {
		filter, err := BuildFilter(globalAdmin(), KindArtist, ListParams{IncludeDeleted: true})
		require.NoError(t, err)

		require.Nil(t, filter.Deleted)
	})
}

func TestBuildFilterRejectsInvalidInput(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		_, err := BuildFilter(domain.Guest(), Kind("playlist"), ListParams{})
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("malformed actor is an error, not a guest", func(t *testing.T) {
		_, err := BuildFilter(domain.Actor{Role: "superuser"}, KindSong, ListParams{})
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidActor))
	})

	t.Run("org_admin without organization", func(t *testing.T) {
		_, err := BuildFilter(domain.Actor{Role: domain.RoleOrgAdmin}, KindSong, ListParams{})
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidActor))
	})
}

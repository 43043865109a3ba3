package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	dErrors "chorale/pkg/domain-errors"
)

func TestParseOrganizationID(t *testing.T) {
	t.Run("round-trips a generated id", func(t *testing.T) {
		id := NewOrganizationID()
		parsed, err := ParseOrganizationID(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
		require.False(t, parsed.IsZero())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseOrganizationID("not-a-uuid")
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ParseOrganizationID("")
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects the nil UUID", func(t *testing.T) {
		_, err := ParseOrganizationID(uuid.Nil.String())
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestZeroValues(t *testing.T) {
	require.True(t, OrganizationID{}.IsZero())
	require.True(t, ArtistID{}.IsZero())
	require.True(t, AlbumID{}.IsZero())
	require.True(t, SongID{}.IsZero())
	require.True(t, AdministratorID{}.IsZero())
}

func TestTypedParsersShareValidation(t *testing.T) {
	for name, parse := range map[string]func(string) error{
		"artist": func(s string) error { _, err := ParseArtistID(s); return err },
		"album":  func(s string) error { _, err := ParseAlbumID(s); return err },
		"song":   func(s string) error { _, err := ParseSongID(s); return err },
		"admin":  func(s string) error { _, err := ParseAdministratorID(s); return err },
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, parse(uuid.NewString()))
			require.Error(t, parse("nope"))
		})
	}
}

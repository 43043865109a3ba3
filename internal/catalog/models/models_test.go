package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestArtist(t *testing.T, orgID domain.OrganizationID) *Artist {
	t.Helper()
	artist, err := NewArtist(domain.NewArtistID(), orgID, "Cathedral Voices", "", "", true, now)
	require.NoError(t, err)
	return artist
}

func newTestAlbum(t *testing.T, orgID domain.OrganizationID, artist *Artist) *Album {
	t.Helper()
	album, err := NewAlbum(domain.NewAlbumID(), orgID, artist, "Evensong", "", true, now)
	require.NoError(t, err)
	return album
}

func TestArtistLifecycle(t *testing.T) {
	orgID := domain.NewOrganizationID()

	t.Run("requires an organization", func(t *testing.T) {
		_, err := NewArtist(domain.NewArtistID(), domain.OrganizationID{}, "X", "", "", true, now)
		require.True(t, dErrors.HasCode(err, dErrors.CodeConsistencyViolation))
	})

	t.Run("soft delete downgrades visibility in the same mutation", func(t *testing.T) {
		artist := newTestArtist(t, orgID)
		require.True(t, artist.PubliclyVisible())

		require.NoError(t, artist.CanSoftDelete())
		artist.ApplySoftDelete(now.Add(time.Hour))

		require.True(t, artist.IsDeleted)
		require.False(t, artist.IsActive)
		require.False(t, artist.PubliclyVisible())
	})

	t.Run("double delete violates the invariant", func(t *testing.T) {
		artist := newTestArtist(t, orgID)
		artist.ApplySoftDelete(now)
		require.True(t, dErrors.HasCode(artist.CanSoftDelete(), dErrors.CodeInvariantViolation))
	})

	t.Run("restore does not re-activate", func(t *testing.T) {
		artist := newTestArtist(t, orgID)
		artist.ApplySoftDelete(now)

		require.NoError(t, artist.CanRestore())
		artist.ApplyRestore(now.Add(time.Hour))

		require.False(t, artist.IsDeleted)
		require.False(t, artist.IsActive)
		require.False(t, artist.PubliclyVisible())
	})

	t.Run("name length is capped", func(t *testing.T) {
		long := make([]byte, 201)
		for i := range long {
			long[i] = 'a'
		}
		_, err := NewArtist(domain.NewArtistID(), orgID, string(long), "", "", true, now)
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestAlbumLifecycle(t *testing.T) {
	orgID := domain.NewOrganizationID()

	t.Run("declared organization must match the artist's", func(t *testing.T) {
		artist := newTestArtist(t, orgID)
		_, err := NewAlbum(domain.NewAlbumID(), domain.NewOrganizationID(), artist, "Evensong", "", true, now)
		require.True(t, dErrors.HasCode(err, dErrors.CodeConsistencyViolation))
	})

	t.Run("artist link is derived, not declared", func(t *testing.T) {
		artist := newTestArtist(t, orgID)
		album := newTestAlbum(t, orgID, artist)
		require.Equal(t, artist.ID, album.ArtistID)
	})

	t.Run("soft delete clears both publication flags", func(t *testing.T) {
		artist := newTestArtist(t, orgID)
		album := newTestAlbum(t, orgID, artist)
		album.IsFeatured = true

		album.ApplySoftDelete(now)

		require.True(t, album.IsDeleted)
		require.False(t, album.IsPublished)
		require.False(t, album.IsFeatured)
	})

	t.Run("featuring an unpublished album is normalized away", func(t *testing.T) {
		artist := newTestArtist(t, orgID)
		album := newTestAlbum(t, orgID, artist)

		require.NoError(t, album.CanEdit("Evensong"))
		album.ApplyEdit("Evensong", "", false, true, now)

		require.False(t, album.IsPublished)
		require.False(t, album.IsFeatured)
	})
}

func TestSongLifecycle(t *testing.T) {
	orgID := domain.NewOrganizationID()
	artist := newTestArtist(t, orgID)

	t.Run("declared organization must match the album's", func(t *testing.T) {
		album := newTestAlbum(t, orgID, artist)
		_, err := NewSong(domain.NewSongID(), domain.NewOrganizationID(), album, "Magnificat", "", 240, 1, SongStatusActive, now)
		require.True(t, dErrors.HasCode(err, dErrors.CodeConsistencyViolation))
	})

	t.Run("artist link comes from the album chain", func(t *testing.T) {
		album := newTestAlbum(t, orgID, artist)
		song, err := NewSong(domain.NewSongID(), orgID, album, "Magnificat", "", 240, 1, SongStatusActive, now)
		require.NoError(t, err)
		require.Equal(t, album.ArtistID, song.ArtistID)
		require.Equal(t, album.ID, song.AlbumID)
	})

	t.Run("soft delete archives in the same mutation", func(t *testing.T) {
		album := newTestAlbum(t, orgID, artist)
		song, err := NewSong(domain.NewSongID(), orgID, album, "Magnificat", "", 240, 1, SongStatusActive, now)
		require.NoError(t, err)

		song.ApplySoftDelete(now)

		require.True(t, song.IsDeleted)
		require.Equal(t, SongStatusArchived, song.Status)
		require.False(t, song.PubliclyVisible())
	})

	t.Run("restore keeps the song archived", func(t *testing.T) {
		album := newTestAlbum(t, orgID, artist)
		song, err := NewSong(domain.NewSongID(), orgID, album, "Magnificat", "", 240, 1, SongStatusActive, now)
		require.NoError(t, err)

		song.ApplySoftDelete(now)
		song.ApplyRestore(now.Add(time.Hour))

		require.False(t, song.IsDeleted)
		require.Equal(t, SongStatusArchived, song.Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		album := newTestAlbum(t, orgID, artist)
		_, err := NewSong(domain.NewSongID(), orgID, album, "Magnificat", "", 240, 1, SongStatus("draft"), now)
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

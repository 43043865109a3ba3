package artist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"chorale/internal/catalog/policy"
	"chorale/pkg/domain"
	"chorale/pkg/platform/sentinel"
)

func newMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func artistRows(id domain.ArtistID, orgID domain.OrganizationID) *sqlmock.Rows {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "organization_id", "name", "image_url", "bio", "is_active", "is_deleted",
		"albums_count", "songs_count", "created_at", "updated_at",
	}).AddRow(id.String(), orgID.String(), "Cathedral Voices", "", "", true, false, 2, 9, now, now)
}

func TestPostgresFindByID(t *testing.T) {
	store, mock := newMock(t)
	id := domain.NewArtistID()
	orgID := domain.NewOrganizationID()

	mock.ExpectQuery("SELECT (.+) FROM artists WHERE id").
		WithArgs(id).
		WillReturnRows(artistRows(id, orgID))

	artist, err := store.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, id, artist.ID)
	require.Equal(t, 2, artist.Stats.AlbumsCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	store, mock := newMock(t)
	id := domain.NewArtistID()

	mock.ExpectQuery("SELECT (.+) FROM artists WHERE id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.FindByID(context.Background(), id)
	require.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestPostgresListFilterClauses(t *testing.T) {
	store, mock := newMock(t)
	orgID := domain.NewOrganizationID()

	t.Run("unconstrained", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM artists ORDER BY lower\(name\)`).
			WillReturnRows(artistRows(domain.NewArtistID(), orgID))
		out, err := store.List(context.Background(), policy.ListFilter{})
		require.NoError(t, err)
		require.Len(t, out, 1)
	})

	t.Run("scoped and trash-only", func(t *testing.T) {
		deleted := true
		mock.ExpectQuery(`SELECT (.+) FROM artists WHERE organization_id = \$1 AND is_deleted = \$2 ORDER BY lower\(name\)`).
			WithArgs(orgID, deleted).
			WillReturnRows(artistRows(domain.NewArtistID(), orgID))
		out, err := store.List(context.Background(), policy.ListFilter{OrganizationID: &orgID, Deleted: &deleted})
		require.NoError(t, err)
		require.Len(t, out, 1)
	})

	t.Run("visible-only adds the activity clause", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM artists WHERE is_active = TRUE ORDER BY lower\(name\)`).
			WillReturnRows(artistRows(domain.NewArtistID(), orgID))
		out, err := store.List(context.Background(), policy.ListFilter{VisibleOnly: true})
		require.NoError(t, err)
		require.Len(t, out, 1)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStatsDelta(t *testing.T) {
	store, mock := newMock(t)
	id := domain.NewArtistID()

	t.Run("applies the clamped update", func(t *testing.T) {
		mock.ExpectExec(`UPDATE artists\s+SET albums_count = GREATEST`).
			WithArgs(id, 1, -2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, store.ApplyStatsDelta(context.Background(), id, 1, -2))
	})

	t.Run("missing row is NotFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE artists\s+SET albums_count = GREATEST`).
			WithArgs(id, 1, 0).
			WillReturnResult(sqlmock.NewResult(0, 0))
		err := store.ApplyStatsDelta(context.Background(), id, 1, 0)
		require.True(t, errors.Is(err, sentinel.ErrNotFound))
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresHardDelete(t *testing.T) {
	store, mock := newMock(t)
	id := domain.NewArtistID()

	mock.ExpectExec("DELETE FROM artists WHERE id").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.HardDelete(context.Background(), id)
	require.True(t, errors.Is(err, sentinel.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"chorale/internal/catalog/models"
	albumstore "chorale/internal/catalog/store/album"
	artiststore "chorale/internal/catalog/store/artist"
	"chorale/pkg/domain"
)

type failingArtistStore struct{}

func (failingArtistStore) ApplyStatsDelta(context.Context, domain.ArtistID, int, int) error {
	return errors.New("connection refused")
}

type failingAlbumStore struct{}

func (failingAlbumStore) ApplyStatsDelta(context.Context, domain.AlbumID, int) error {
	return errors.New("connection refused")
}

type fakeCache struct {
	keys map[string]int64
}

func (f *fakeCache) IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd {
	f.keys[key] += value
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(f.keys[key])
	return cmd
}

func seedArtist(t *testing.T, store *artiststore.InMemory) *models.Artist {
	t.Helper()
	artist := &models.Artist{ID: domain.NewArtistID(), OrganizationID: domain.NewOrganizationID(), Name: "Seed"}
	require.NoError(t, store.Create(context.Background(), artist))
	return artist
}

func seedAlbum(t *testing.T, store *albumstore.InMemory, artistID domain.ArtistID) *models.Album {
	t.Helper()
	album := &models.Album{ID: domain.NewAlbumID(), ArtistID: artistID, Title: "Seed"}
	require.NoError(t, store.Create(context.Background(), album))
	return album
}

func TestCounterDeltas(t *testing.T) {
	ctx := context.Background()
	artists := artiststore.NewInMemory()
	albums := albumstore.NewInMemory()
	artist := seedArtist(t, artists)
	album := seedAlbum(t, albums, artist.ID)

	svc := New(artists, albums)

	svc.OnAlbumCreated(ctx, artist.ID)
	svc.OnSongCreated(ctx, artist.ID, album.ID)
	svc.OnSongCreated(ctx, artist.ID, album.ID)
	svc.OnSongHardDeleted(ctx, artist.ID, album.ID)

	got, err := artists.FindByID(ctx, artist.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Stats.AlbumsCount)
	require.Equal(t, 1, got.Stats.SongsCount)

	gotAlbum, err := albums.FindByID(ctx, album.ID)
	require.NoError(t, err)
	require.Equal(t, 1, gotAlbum.Stats.SongsCount)
}

func TestAlbumHardDeleteRemovesItsSongs(t *testing.T) {
	ctx := context.Background()
	artists := artiststore.NewInMemory()
	albums := albumstore.NewInMemory()
	artist := seedArtist(t, artists)

	svc := New(artists, albums)
	svc.OnAlbumCreated(ctx, artist.ID)
	svc.OnAlbumCreated(ctx, artist.ID)
	svc.OnAlbumHardDeleted(ctx, artist.ID, 3)

	got, err := artists.FindByID(ctx, artist.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Stats.AlbumsCount)
	// Songs the deleted album carried leave the artist total too. The
	// in-store clamp keeps a drifted decrement from going negative.
	require.Equal(t, 0, got.Stats.SongsCount)
}

// TestFailuresAreSwallowed is the best-effort contract: a broken counter
// store must never surface an error to the caller.
func TestFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	svc := New(failingArtistStore{}, failingAlbumStore{})

	require.NotPanics(t, func() {
		svc.OnAlbumCreated(ctx, domain.NewArtistID())
		svc.OnSongCreated(ctx, domain.NewArtistID(), domain.NewAlbumID())
		svc.OnSongHardDeleted(ctx, domain.NewArtistID(), domain.NewAlbumID())
		svc.OnAlbumHardDeleted(ctx, domain.NewArtistID(), 2)
	})
}

func TestCacheMirror(t *testing.T) {
	ctx := context.Background()
	artists := artiststore.NewInMemory()
	albums := albumstore.NewInMemory()
	artist := seedArtist(t, artists)
	album := seedAlbum(t, albums, artist.ID)

	cache := &fakeCache{keys: make(map[string]int64)}
	svc := New(artists, albums, WithCache(cache))

	svc.OnSongCreated(ctx, artist.ID, album.ID)
	svc.OnSongCreated(ctx, artist.ID, album.ID)

	require.Equal(t, int64(2), cache.keys[artistSongsKey(artist.ID)])
	require.Equal(t, int64(2), cache.keys[albumSongsKey(album.ID)])
}

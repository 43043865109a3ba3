// Package stats maintains the denormalized child counters on artists and
// albums. All updates are best effort: a failed counter write is logged and
// swallowed so it never fails the content operation that triggered it.
package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"chorale/internal/catalog/metrics"
	"chorale/pkg/domain"
)

// ArtistCounterStore adjusts the album and song counters on an artist.
type ArtistCounterStore interface {
	ApplyStatsDelta(ctx context.Context, id domain.ArtistID, albumsDelta, songsDelta int) error
}

// AlbumCounterStore adjusts the song counter on an album.
type AlbumCounterStore interface {
	ApplyStatsDelta(ctx context.Context, id domain.AlbumID, songsDelta int) error
}

// CacheCmdable is the slice of the redis API the display mirror needs.
type CacheCmdable interface {
	IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd
}

// Service applies counter deltas in response to content lifecycle events.
// Counters are display-only; authorization and visibility never read them.
type Service struct {
	artists ArtistCounterStore
	albums  AlbumCounterStore
	cache   CacheCmdable
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

// WithCache mirrors counter deltas into redis for cheap display reads.
func WithCache(cache CacheCmdable) Option {
	return func(s *Service) { s.cache = cache }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(artists ArtistCounterStore, albums AlbumCounterStore, opts ...Option) *Service {
	s := &Service{
		artists: artists,
		albums:  albums,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnAlbumCreated increments the owning artist's albums counter.
func (s *Service) OnAlbumCreated(ctx context.Context, artistID domain.ArtistID) {
	s.applyArtistDelta(ctx, artistID, 1, 0)
	s.mirror(ctx, artistAlbumsKey(artistID), 1)
}

// OnAlbumHardDeleted decrements the owning artist's albums counter. The
// songs the album carried are handled separately by the caller, which knows
// how many were cascaded away.
func (s *Service) OnAlbumHardDeleted(ctx context.Context, artistID domain.ArtistID, songsRemoved int) {
	s.applyArtistDelta(ctx, artistID, -1, -songsRemoved)
	s.mirror(ctx, artistAlbumsKey(artistID), -1)
	if songsRemoved != 0 {
		s.mirror(ctx, artistSongsKey(artistID), int64(-songsRemoved))
	}
}

// OnSongCreated increments the song counters on both the album and the
// artist above it.
func (s *Service) OnSongCreated(ctx context.Context, artistID domain.ArtistID, albumID domain.AlbumID) {
	s.applyAlbumDelta(ctx, albumID, 1)
	s.applyArtistDelta(ctx, artistID, 0, 1)
	s.mirror(ctx, albumSongsKey(albumID), 1)
	s.mirror(ctx, artistSongsKey(artistID), 1)
}

// OnSongHardDeleted decrements the song counters on the album and artist.
func (s *Service) OnSongHardDeleted(ctx context.Context, artistID domain.ArtistID, albumID domain.AlbumID) {
	s.applyAlbumDelta(ctx, albumID, -1)
	s.applyArtistDelta(ctx, artistID, 0, -1)
	s.mirror(ctx, albumSongsKey(albumID), -1)
	s.mirror(ctx, artistSongsKey(artistID), -1)
}

func (s *Service) applyArtistDelta(ctx context.Context, id domain.ArtistID, albumsDelta, songsDelta int) {
	if err := s.artists.ApplyStatsDelta(ctx, id, albumsDelta, songsDelta); err != nil {
		s.swallow(ctx, err, "artist", id.String())
	}
}

func (s *Service) applyAlbumDelta(ctx context.Context, id domain.AlbumID, songsDelta int) {
	if err := s.albums.ApplyStatsDelta(ctx, id, songsDelta); err != nil {
		s.swallow(ctx, err, "album", id.String())
	}
}

func (s *Service) swallow(ctx context.Context, err error, kind, id string) {
	s.logger.WarnContext(ctx, "counter update failed",
		slog.String("kind", kind),
		slog.String("id", id),
		slog.Any("error", err))
	if s.metrics != nil {
		s.metrics.IncrementCounterFailure()
	}
}

func (s *Service) mirror(ctx context.Context, key string, delta int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.IncrBy(ctx, key, delta).Err(); err != nil {
		s.logger.WarnContext(ctx, "counter cache mirror failed",
			slog.String("key", key),
			slog.Any("error", err))
	}
}

func artistAlbumsKey(id domain.ArtistID) string {
	return fmt.Sprintf("stats:artist:%s:albums", id)
}

func artistSongsKey(id domain.ArtistID) string {
	return fmt.Sprintf("stats:artist:%s:songs", id)
}

func albumSongsKey(id domain.AlbumID) string {
	return fmt.Sprintf("stats:album:%s:songs", id)
}

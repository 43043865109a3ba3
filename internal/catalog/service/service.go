// Package service orchestrates the content lifecycle for the three catalog
// kinds: creation under the publication policy, visibility-filtered reads,
// guarded mutations, and the hard-delete cascades. Persisted ownership and
// verification state is re-read before every mutation decision; token
// snapshots are never trusted for authorization.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	catalogmetrics "chorale/internal/catalog/metrics"
	"chorale/internal/catalog/models"
	"chorale/internal/catalog/policy"
	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
	audit "chorale/pkg/platform/audit"
	"chorale/pkg/platform/sentinel"
	"chorale/pkg/platform/tx"
)

// ArtistStore is the persistence contract for artists.
type ArtistStore interface {
	Create(ctx context.Context, artist *models.Artist) error
	FindByID(ctx context.Context, id domain.ArtistID) (*models.Artist, error)
	Execute(ctx context.Context, id domain.ArtistID, validate func(*models.Artist) error, mutate func(*models.Artist)) (*models.Artist, error)
	List(ctx context.Context, filter policy.ListFilter) ([]*models.Artist, error)
	HardDelete(ctx context.Context, id domain.ArtistID) error
}

// AlbumStore is the persistence contract for albums.
type AlbumStore interface {
	Create(ctx context.Context, album *models.Album) error
	FindByID(ctx context.Context, id domain.AlbumID) (*models.Album, error)
	Execute(ctx context.Context, id domain.AlbumID, validate func(*models.Album) error, mutate func(*models.Album)) (*models.Album, error)
	List(ctx context.Context, filter policy.ListFilter) ([]*models.Album, error)
	HardDelete(ctx context.Context, id domain.AlbumID) error
	DeleteByArtist(ctx context.Context, artistID domain.ArtistID) error
}

// SongStore is the persistence contract for songs.
type SongStore interface {
	Create(ctx context.Context, song *models.Song) error
	FindByID(ctx context.Context, id domain.SongID) (*models.Song, error)
	Execute(ctx context.Context, id domain.SongID, validate func(*models.Song) error, mutate func(*models.Song)) (*models.Song, error)
	List(ctx context.Context, filter policy.ListFilter) ([]*models.Song, error)
	HardDelete(ctx context.Context, id domain.SongID) error
	DeleteByAlbum(ctx context.Context, albumID domain.AlbumID) error
	DeleteByArtist(ctx context.Context, artistID domain.ArtistID) error
}

// VerificationSource reports the persisted verification status of an
// organization. The org service implements it.
type VerificationSource interface {
	OrganizationVerification(ctx context.Context, id domain.OrganizationID) (domain.VerificationStatus, error)
}

// Counters receives content lifecycle events that move the denormalized
// child counts. All methods are best effort and must not return errors.
type Counters interface {
	OnAlbumCreated(ctx context.Context, artistID domain.ArtistID)
	OnAlbumHardDeleted(ctx context.Context, artistID domain.ArtistID, songsRemoved int)
	OnSongCreated(ctx context.Context, artistID domain.ArtistID, albumID domain.AlbumID)
	OnSongHardDeleted(ctx context.Context, artistID domain.ArtistID, albumID domain.AlbumID)
}

// AuditEmitter receives audit events from the service.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the content lifecycle for artists, albums and songs.
type Service struct {
	artists      ArtistStore
	albums       AlbumStore
	songs        SongStore
	verification VerificationSource
	counters     Counters
	txr          tx.Runner
	logger       *slog.Logger
	metrics      *catalogmetrics.Metrics
	auditor      AuditEmitter
	tracer       trace.Tracer
}

type serviceConfig struct {
	verification VerificationSource
	counters     Counters
	txr          tx.Runner
	logger       *slog.Logger
	metrics      *catalogmetrics.Metrics
	auditor      AuditEmitter
	tracer       trace.Tracer
}

type Option func(*serviceConfig)

// WithVerificationSource wires the per-request verification re-read. Without
// it the service falls back to the actor snapshot, which is only acceptable
// in tests.
func WithVerificationSource(v VerificationSource) Option {
	return func(c *serviceConfig) { c.verification = v }
}

func WithCounters(counters Counters) Option {
	return func(c *serviceConfig) { c.counters = counters }
}

// WithTxRunner sets the transaction boundary used for multi-store writes.
func WithTxRunner(r tx.Runner) Option {
	return func(c *serviceConfig) { c.txr = r }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

func WithMetrics(m *catalogmetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

func WithAuditEmitter(a AuditEmitter) Option {
	return func(c *serviceConfig) { c.auditor = a }
}

func WithTracer(t trace.Tracer) Option {
	return func(c *serviceConfig) { c.tracer = t }
}

func New(artists ArtistStore, albums AlbumStore, songs SongStore, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.txr == nil {
		cfg.txr = tx.NoopRunner{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer("chorale/catalog")
	}
	return &Service{
		artists:      artists,
		albums:       albums,
		songs:        songs,
		verification: cfg.verification,
		counters:     cfg.counters,
		txr:          cfg.txr,
		logger:       cfg.logger,
		metrics:      cfg.metrics,
		auditor:      cfg.auditor,
		tracer:       cfg.tracer,
	}
}

// freshActor returns the actor with verification re-read from the store. A
// token issued before a rejection must not keep its verified snapshot.
func (s *Service) freshActor(ctx context.Context, actor domain.Actor) (domain.Actor, error) {
	if actor.Role != domain.RoleOrgAdmin || s.verification == nil {
		return actor, nil
	}
	status, err := s.verification.OrganizationVerification(ctx, actor.OrganizationID)
	if err != nil {
		return domain.Actor{}, err
	}
	actor.Verification = status
	return actor, nil
}

// authorizeMutation runs the guard against the refreshed actor and records
// denials.
func (s *Service) authorizeMutation(ctx context.Context, actor domain.Actor, targetOrg domain.OrganizationID, action policy.Action) error {
	fresh, err := s.freshActor(ctx, actor)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeMutation(fresh, targetOrg, action); err != nil {
		if dErrors.HasCode(err, dErrors.CodeForbidden) && s.metrics != nil {
			s.metrics.IncrementDenied(dErrors.MessageOf(err))
		}
		return err
	}
	return nil
}

// canView reports whether the actor may see the given row at all. Hidden or
// foreign content reads as NotFound so its existence is not leaked.
func canView(actor domain.Actor, orgID domain.OrganizationID, publiclyVisible bool) bool {
	switch actor.Role {
	case domain.RoleGlobalAdmin:
		return true
	case domain.RoleOrgAdmin:
		return actor.Owns(orgID) || publiclyVisible
	default:
		return publiclyVisible
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

func (s *Service) countersOrNoop() Counters {
	if s.counters == nil {
		return noopCounters{}
	}
	return s.counters
}

type noopCounters struct{}

func (noopCounters) OnAlbumCreated(context.Context, domain.ArtistID)          {}
func (noopCounters) OnAlbumHardDeleted(context.Context, domain.ArtistID, int) {}
func (noopCounters) OnSongCreated(context.Context, domain.ArtistID, domain.AlbumID) {
}
func (noopCounters) OnSongHardDeleted(context.Context, domain.ArtistID, domain.AlbumID) {
}

func wrapCatalogErr(err error, kind policy.Kind) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, string(kind)+" not found")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "catalog store failure")
}

func notFound(kind policy.Kind) error {
	return dErrors.New(dErrors.CodeNotFound, string(kind)+" not found")
}

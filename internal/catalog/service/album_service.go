package service

import (
	"context"
	"time"

	"chorale/internal/catalog/models"
	"chorale/internal/catalog/policy"
	"chorale/pkg/domain"
	audit "chorale/pkg/platform/audit"
	"chorale/pkg/requestcontext"
)

// CreateAlbumInput carries the caller-supplied album fields. The declared
// OrganizationID must match the parent artist's organization.
type CreateAlbumInput struct {
	OrganizationID domain.OrganizationID
	ArtistID       domain.ArtistID
	Title          string
	CoverURL       string
	Visible        *bool
	ReleasedAt     *time.Time
}

// CreatedAlbum is the creation result, with the draft advisory when forced.
type CreatedAlbum struct {
	Album    *models.Album
	Advisory string
}

// UpdateAlbumInput carries the editable album fields.
type UpdateAlbumInput struct {
	Title    string
	CoverURL string
	Visible  bool
	Featured bool
}

// CreateAlbum creates an album under an existing artist. The parent must
// belong to the declared organization; a mismatched chain is a consistency
// violation, not a permissions problem.
func (s *Service) CreateAlbum(ctx context.Context, actor domain.Actor, in CreateAlbumInput) (*CreatedAlbum, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateAlbum")
	defer span.End()

	if err := policy.AuthorizeCreation(actor, in.OrganizationID); err != nil {
		return nil, err
	}
	artist, err := s.artists.FindByID(ctx, in.ArtistID)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindArtist)
	}
	if artist.IsDeleted {
		return nil, notFound(policy.KindArtist)
	}
	fresh, err := s.freshActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	decision, err := policy.DecideInitialVisibility(fresh, policy.KindAlbum, in.Visible)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	album, err := models.NewAlbum(domain.NewAlbumID(), in.OrganizationID, artist, in.Title, in.CoverURL, decision.Visible, now)
	if err != nil {
		return nil, err
	}
	album.ReleasedAt = in.ReleasedAt
	if err := s.albums.Create(ctx, album); err != nil {
		return nil, wrapCatalogErr(err, policy.KindAlbum)
	}
	s.countersOrNoop().OnAlbumCreated(ctx, album.ArtistID)

	if s.metrics != nil {
		s.metrics.IncrementCreated(string(policy.KindAlbum), decision.Draft)
	}
	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: album.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentCreated),
		Subject:        "album:" + album.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return &CreatedAlbum{Album: album, Advisory: decision.Advisory}, nil
}

// GetAlbum retrieves one album. Hidden or foreign albums read as NotFound.
func (s *Service) GetAlbum(ctx context.Context, actor domain.Actor, id domain.AlbumID) (*models.Album, error) {
	album, err := s.albums.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindAlbum)
	}
	if !canView(actor, album.OrganizationID, album.PubliclyVisible()) {
		return nil, notFound(policy.KindAlbum)
	}
	return album, nil
}

// ListAlbums returns the albums the actor may see, per the query policy.
func (s *Service) ListAlbums(ctx context.Context, actor domain.Actor, params policy.ListParams) ([]*models.Album, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListAlbums")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveList(time.Now())
	}

	filter, err := policy.BuildFilter(actor, policy.KindAlbum, params)
	if err != nil {
		return nil, err
	}
	albums, err := s.albums.List(ctx, filter)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindAlbum)
	}
	return albums, nil
}

// UpdateAlbum edits an album, including its publication flags.
func (s *Service) UpdateAlbum(ctx context.Context, actor domain.Actor, id domain.AlbumID, in UpdateAlbumInput) (*models.Album, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateAlbum")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveMutation(time.Now())
	}

	album, err := s.albums.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindAlbum)
	}
	if err := s.authorizeMutation(ctx, actor, album.OrganizationID, policy.ActionEdit); err != nil {
		return nil, err
	}
	fresh, err := s.freshActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	decision, err := policy.DecideEditVisibility(fresh, policy.KindAlbum, in.Visible)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	updated, err := s.albums.Execute(ctx, id,
		func(a *models.Album) error { return a.CanEdit(in.Title) },
		func(a *models.Album) { a.ApplyEdit(in.Title, in.CoverURL, decision.Visible, in.Featured, now) },
	)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindAlbum)
	}

	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: updated.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentEdited),
		Subject:        "album:" + updated.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return updated, nil
}

// SoftDeleteAlbum hides an album, downgrading both publication flags in one
// store update. Counters are untouched; soft-deleted children still exist.
func (s *Service) SoftDeleteAlbum(ctx context.Context, actor domain.Actor, id domain.AlbumID) (*models.Album, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.SoftDeleteAlbum")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveMutation(time.Now())
	}

	album, err := s.albums.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindAlbum)
	}
	if err := s.authorizeMutation(ctx, actor, album.OrganizationID, policy.ActionSoftDelete); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	deleted, err := s.albums.Execute(ctx, id,
		func(a *models.Album) error { return a.CanSoftDelete() },
		func(a *models.Album) { a.ApplySoftDelete(now) },
	)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindAlbum)
	}

	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: deleted.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentSoftDeleted),
		Subject:        "album:" + deleted.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return deleted, nil
}

// RestoreAlbum clears the soft-delete flag; republishing takes an edit.
func (s *Service) RestoreAlbum(ctx context.Context, actor domain.Actor, id domain.AlbumID) (*models.Album, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.RestoreAlbum")
	defer span.End()

	album, err := s.albums.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindAlbum)
	}
	if err := s.authorizeMutation(ctx, actor, album.OrganizationID, policy.ActionRestore); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	restored, err := s.albums.Execute(ctx, id,
		func(a *models.Album) error { return a.CanRestore() },
		func(a *models.Album) { a.ApplyRestore(now) },
	)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindAlbum)
	}

	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: restored.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentRestored),
		Subject:        "album:" + restored.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return restored, nil
}

// HardDeleteAlbum permanently removes an album and its songs. Global
// administrator only. Row deletions are transactional; the artist counter
// decrements afterwards, best effort.
func (s *Service) HardDeleteAlbum(ctx context.Context, actor domain.Actor, id domain.AlbumID) error {
	ctx, span := s.tracer.Start(ctx, "catalog.HardDeleteAlbum")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveMutation(time.Now())
	}

	album, err := s.albums.FindByID(ctx, id)
	if err != nil {
		return wrapCatalogErr(err, policy.KindAlbum)
	}
	if err := s.authorizeMutation(ctx, actor, album.OrganizationID, policy.ActionHardDelete); err != nil {
		return err
	}

	var songsRemoved int
	err = s.txr.RunInTx(ctx, func(txCtx context.Context) error {
		albumID := id
		songs, err := s.songs.List(txCtx, policy.ListFilter{AlbumID: &albumID})
		if err != nil {
			return err
		}
		songsRemoved = len(songs)
		if err := s.songs.DeleteByAlbum(txCtx, id); err != nil {
			return err
		}
		return s.albums.HardDelete(txCtx, id)
	})
	if err != nil {
		return wrapCatalogErr(err, policy.KindAlbum)
	}
	s.countersOrNoop().OnAlbumHardDeleted(ctx, album.ArtistID, songsRemoved)

	s.emit(ctx, audit.Event{
		Timestamp:      requestcontext.Now(ctx),
		OrganizationID: album.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentHardDeleted),
		Subject:        "album:" + id.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return nil
}

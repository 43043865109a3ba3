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

// CreateArtistInput carries the caller-supplied artist fields. Visible is the
// requested initial visibility; nil takes the kind default.
type CreateArtistInput struct {
	OrganizationID domain.OrganizationID
	Name           string
	ImageURL       string
	Bio            string
	Visible        *bool
}

// CreatedArtist is the creation result. Advisory is non-empty when the
// publication policy forced the artist into a hidden draft.
type CreatedArtist struct {
	Artist   *models.Artist
	Advisory string
}

// UpdateArtistInput carries the editable artist fields.
type UpdateArtistInput struct {
	Name     string
	ImageURL string
	Bio      string
	Visible  bool
}

// CreateArtist creates an artist under the given organization. Unverified
// administrators may create; the publication policy decides whether the
// artist starts active or as a hidden draft.
func (s *Service) CreateArtist(ctx context.Context, actor domain.Actor, in CreateArtistInput) (*CreatedArtist, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateArtist")
	defer span.End()

	if err := policy.AuthorizeCreation(actor, in.OrganizationID); err != nil {
		return nil, err
	}
	fresh, err := s.freshActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	decision, err := policy.DecideInitialVisibility(fresh, policy.KindArtist, in.Visible)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	artist, err := models.NewArtist(domain.NewArtistID(), in.OrganizationID, in.Name, in.ImageURL, in.Bio, decision.Visible, now)
	if err != nil {
		return nil, err
	}
	if err := s.artists.Create(ctx, artist); err != nil {
		return nil, wrapCatalogErr(err, policy.KindArtist)
	}

	if s.metrics != nil {
		s.metrics.IncrementCreated(string(policy.KindArtist), decision.Draft)
	}
	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: artist.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentCreated),
		Subject:        "artist:" + artist.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return &CreatedArtist{Artist: artist, Advisory: decision.Advisory}, nil
}

// GetArtist retrieves one artist. Hidden or foreign artists read as NotFound.
func (s *Service) GetArtist(ctx context.Context, actor domain.Actor, id domain.ArtistID) (*models.Artist, error) {
	artist, err := s.artists.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindArtist)
	}
	if !canView(actor, artist.OrganizationID, artist.PubliclyVisible()) {
		return nil, notFound(policy.KindArtist)
	}
	return artist, nil
}

// ListArtists returns the artists the actor may see, per the query policy.
func (s *Service) ListArtists(ctx context.Context, actor domain.Actor, params policy.ListParams) ([]*models.Artist, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListArtists")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveList(time.Now())
	}

	filter, err := policy.BuildFilter(actor, policy.KindArtist, params)
	if err != nil {
		return nil, err
	}
	artists, err := s.artists.List(ctx, filter)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindArtist)
	}
	return artists, nil
}

// UpdateArtist edits an artist, including its visibility flag. The edit runs
// under the mutation guard with verification re-read from the store.
func (s *Service) UpdateArtist(ctx context.Context, actor domain.Actor, id domain.ArtistID, in UpdateArtistInput) (*models.Artist, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateArtist")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveMutation(time.Now())
	}

	artist, err := s.artists.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindArtist)
	}
	if err := s.authorizeMutation(ctx, actor, artist.OrganizationID, policy.ActionEdit); err != nil {
		return nil, err
	}
	fresh, err := s.freshActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	decision, err := policy.DecideEditVisibility(fresh, policy.KindArtist, in.Visible)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	updated, err := s.artists.Execute(ctx, id,
		func(a *models.Artist) error { return a.CanEdit(in.Name) },
		func(a *models.Artist) { a.ApplyEdit(in.Name, in.ImageURL, in.Bio, decision.Visible, now) },
	)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindArtist)
	}

	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: updated.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentEdited),
		Subject:        "artist:" + updated.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return updated, nil
}

// SoftDeleteArtist hides an artist and downgrades its visibility flag in one
// store update. Children stay in place; their listings are already scoped by
// the query policy.
func (s *Service) SoftDeleteArtist(ctx context.Context, actor domain.Actor, id domain.ArtistID) (*models.Artist, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.SoftDeleteArtist")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveMutation(time.Now())
	}

	artist, err := s.artists.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindArtist)
	}
	if err := s.authorizeMutation(ctx, actor, artist.OrganizationID, policy.ActionSoftDelete); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	deleted, err := s.artists.Execute(ctx, id,
		func(a *models.Artist) error { return a.CanSoftDelete() },
		func(a *models.Artist) { a.ApplySoftDelete(now) },
	)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindArtist)
	}

	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: deleted.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentSoftDeleted),
		Subject:        "artist:" + deleted.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return deleted, nil
}

// RestoreArtist clears the soft-delete flag. Restore is reserved for the
// global administrator; visibility stays downgraded until an explicit edit.
func (s *Service) RestoreArtist(ctx context.Context, actor domain.Actor, id domain.ArtistID) (*models.Artist, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.RestoreArtist")
	defer span.End()

	artist, err := s.artists.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindArtist)
	}
	if err := s.authorizeMutation(ctx, actor, artist.OrganizationID, policy.ActionRestore); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	restored, err := s.artists.Execute(ctx, id,
		func(a *models.Artist) error { return a.CanRestore() },
		func(a *models.Artist) { a.ApplyRestore(now) },
	)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindArtist)
	}

	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: restored.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentRestored),
		Subject:        "artist:" + restored.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return restored, nil
}

// HardDeleteArtist permanently removes an artist and everything under it.
// Global administrator only. The row deletions run in one transaction; no
// counter work is needed because the counter rows disappear with the artist.
func (s *Service) HardDeleteArtist(ctx context.Context, actor domain.Actor, id domain.ArtistID) error {
	ctx, span := s.tracer.Start(ctx, "catalog.HardDeleteArtist")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveMutation(time.Now())
	}

	artist, err := s.artists.FindByID(ctx, id)
	if err != nil {
		return wrapCatalogErr(err, policy.KindArtist)
	}
	if err := s.authorizeMutation(ctx, actor, artist.OrganizationID, policy.ActionHardDelete); err != nil {
		return err
	}

	err = s.txr.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.songs.DeleteByArtist(txCtx, id); err != nil {
			return err
		}
		if err := s.albums.DeleteByArtist(txCtx, id); err != nil {
			return err
		}
		return s.artists.HardDelete(txCtx, id)
	})
	if err != nil {
		return wrapCatalogErr(err, policy.KindArtist)
	}

	s.emit(ctx, audit.Event{
		Timestamp:      requestcontext.Now(ctx),
		OrganizationID: artist.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentHardDeleted),
		Subject:        "artist:" + id.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return nil
}

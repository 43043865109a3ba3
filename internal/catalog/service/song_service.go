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

// CreateSongInput carries the caller-supplied song fields. The declared
// OrganizationID must match the parent album's organization; the artist link
// is derived from the album.
type CreateSongInput struct {
	OrganizationID  domain.OrganizationID
	AlbumID         domain.AlbumID
	Title           string
	AudioURL        string
	DurationSeconds int
	TrackNumber     int
	Visible         *bool
}

// CreatedSong is the creation result, with the draft advisory when forced.
type CreatedSong struct {
	Song     *models.Song
	Advisory string
}

// UpdateSongInput carries the editable song fields.
type UpdateSongInput struct {
	Title           string
	AudioURL        string
	DurationSeconds int
	TrackNumber     int
	Visible         bool
}

func songStatusFor(visible bool) models.SongStatus {
	if visible {
		return models.SongStatusActive
	}
	return models.SongStatusArchived
}

// CreateSong creates a song under an existing album and bumps the song
// counters on the album and artist, best effort.
func (s *Service) CreateSong(ctx context.Context, actor domain.Actor, in CreateSongInput) (*CreatedSong, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateSong")
	defer span.End()

	if err := policy.AuthorizeCreation(actor, in.OrganizationID); err != nil {
		return nil, err
	}
	album, err := s.albums.FindByID(ctx, in.AlbumID)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindAlbum)
	}
	if album.IsDeleted {
		return nil, notFound(policy.KindAlbum)
	}
	fresh, err := s.freshActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	decision, err := policy.DecideInitialVisibility(fresh, policy.KindSong, in.Visible)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	song, err := models.NewSong(domain.NewSongID(), in.OrganizationID, album, in.Title, in.AudioURL,
		in.DurationSeconds, in.TrackNumber, songStatusFor(decision.Visible), now)
	if err != nil {
		return nil, err
	}
	if err := s.songs.Create(ctx, song); err != nil {
		return nil, wrapCatalogErr(err, policy.KindSong)
	}
	s.countersOrNoop().OnSongCreated(ctx, song.ArtistID, song.AlbumID)

	if s.metrics != nil {
		s.metrics.IncrementCreated(string(policy.KindSong), decision.Draft)
	}
	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: song.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentCreated),
		Subject:        "song:" + song.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return &CreatedSong{Song: song, Advisory: decision.Advisory}, nil
}

// GetSong retrieves one song. Hidden or foreign songs read as NotFound.
func (s *Service) GetSong(ctx context.Context, actor domain.Actor, id domain.SongID) (*models.Song, error) {
	song, err := s.songs.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindSong)
	}
	if !canView(actor, song.OrganizationID, song.PubliclyVisible()) {
		return nil, notFound(policy.KindSong)
	}
	return song, nil
}

// ListSongs returns the songs the actor may see, per the query policy.
func (s *Service) ListSongs(ctx context.Context, actor domain.Actor, params policy.ListParams) ([]*models.Song, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListSongs")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveList(time.Now())
	}

	filter, err := policy.BuildFilter(actor, policy.KindSong, params)
	if err != nil {
		return nil, err
	}
	songs, err := s.songs.List(ctx, filter)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindSong)
	}
	return songs, nil
}

// UpdateSong edits a song, including its visibility status.
func (s *Service) UpdateSong(ctx context.Context, actor domain.Actor, id domain.SongID, in UpdateSongInput) (*models.Song, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateSong")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveMutation(time.Now())
	}

	song, err := s.songs.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindSong)
	}
	if err := s.authorizeMutation(ctx, actor, song.OrganizationID, policy.ActionEdit); err != nil {
		return nil, err
	}
	fresh, err := s.freshActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	decision, err := policy.DecideEditVisibility(fresh, policy.KindSong, in.Visible)
	if err != nil {
		return nil, err
	}
	status := songStatusFor(decision.Visible)

	now := requestcontext.Now(ctx)
	updated, err := s.songs.Execute(ctx, id,
		func(sg *models.Song) error { return sg.CanEdit(in.Title, status) },
		func(sg *models.Song) {
			sg.ApplyEdit(in.Title, in.AudioURL, in.DurationSeconds, in.TrackNumber, status, now)
		},
	)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindSong)
	}

	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: updated.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentEdited),
		Subject:        "song:" + updated.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return updated, nil
}

// SoftDeleteSong hides a song and archives it in one store update. Counters
// are untouched; the song still exists.
func (s *Service) SoftDeleteSong(ctx context.Context, actor domain.Actor, id domain.SongID) (*models.Song, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.SoftDeleteSong")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveMutation(time.Now())
	}

	song, err := s.songs.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindSong)
	}
	if err := s.authorizeMutation(ctx, actor, song.OrganizationID, policy.ActionSoftDelete); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	deleted, err := s.songs.Execute(ctx, id,
		func(sg *models.Song) error { return sg.CanSoftDelete() },
		func(sg *models.Song) { sg.ApplySoftDelete(now) },
	)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindSong)
	}

	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: deleted.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentSoftDeleted),
		Subject:        "song:" + deleted.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return deleted, nil
}

// RestoreSong clears the soft-delete flag; the song stays archived until an
// explicit edit re-activates it.
func (s *Service) RestoreSong(ctx context.Context, actor domain.Actor, id domain.SongID) (*models.Song, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.RestoreSong")
	defer span.End()

	song, err := s.songs.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindSong)
	}
	if err := s.authorizeMutation(ctx, actor, song.OrganizationID, policy.ActionRestore); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	restored, err := s.songs.Execute(ctx, id,
		func(sg *models.Song) error { return sg.CanRestore() },
		func(sg *models.Song) { sg.ApplyRestore(now) },
	)
	if err != nil {
		return nil, wrapCatalogErr(err, policy.KindSong)
	}

	s.emit(ctx, audit.Event{
		Timestamp:      now,
		OrganizationID: restored.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentRestored),
		Subject:        "song:" + restored.ID.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return restored, nil
}

// HardDeleteSong permanently removes a song and decrements the song counters
// on the album and artist, best effort. Global administrator only.
func (s *Service) HardDeleteSong(ctx context.Context, actor domain.Actor, id domain.SongID) error {
	ctx, span := s.tracer.Start(ctx, "catalog.HardDeleteSong")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveMutation(time.Now())
	}

	song, err := s.songs.FindByID(ctx, id)
	if err != nil {
		return wrapCatalogErr(err, policy.KindSong)
	}
	if err := s.authorizeMutation(ctx, actor, song.OrganizationID, policy.ActionHardDelete); err != nil {
		return err
	}

	if err := s.songs.HardDelete(ctx, id); err != nil {
		return wrapCatalogErr(err, policy.KindSong)
	}
	s.countersOrNoop().OnSongHardDeleted(ctx, song.ArtistID, song.AlbumID)

	s.emit(ctx, audit.Event{
		Timestamp:      requestcontext.Now(ctx),
		OrganizationID: song.OrganizationID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventContentHardDeleted),
		Subject:        "song:" + id.String(),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return nil
}

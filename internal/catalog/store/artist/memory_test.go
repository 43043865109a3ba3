package artist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"chorale/internal/catalog/models"
	"chorale/internal/catalog/policy"
	"chorale/pkg/domain"
	"chorale/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemory
	orgID domain.OrganizationID
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.orgID = domain.NewOrganizationID()
}

func (s *MemoryStoreSuite) seed(name string, active, deleted bool) *models.Artist {
	artist := &models.Artist{
		ID:             domain.NewArtistID(),
		OrganizationID: s.orgID,
		Name:           name,
		IsActive:       active,
		IsDeleted:      deleted,
	}
	s.Require().NoError(s.store.Create(s.ctx, artist))
	return artist
}

func boolp(b bool) *bool { return &b }

func (s *MemoryStoreSuite) TestListFilter() {
	visible := s.seed("Visible", true, false)
	hidden := s.seed("Hidden", false, false)
	deleted := s.seed("Deleted", false, true)
	foreign := &models.Artist{
		ID:             domain.NewArtistID(),
		OrganizationID: domain.NewOrganizationID(),
		Name:           "Foreign",
		IsActive:       true,
	}
	s.Require().NoError(s.store.Create(s.ctx, foreign))

	s.Run("visible-only keeps active rows", func() {
		out, err := s.store.List(s.ctx, policy.ListFilter{VisibleOnly: true, Deleted: boolp(false)})
		s.Require().NoError(err)
		s.Require().Len(out, 2)
		s.Equal(foreign.ID, out[0].ID)
		s.Equal(visible.ID, out[1].ID)
	})

	s.Run("organization scope includes hidden rows", func() {
		out, err := s.store.List(s.ctx, policy.ListFilter{OrganizationID: &s.orgID, Deleted: boolp(false)})
		s.Require().NoError(err)
		s.Require().Len(out, 2)
		s.Equal(hidden.ID, out[0].ID)
		s.Equal(visible.ID, out[1].ID)
	})

	s.Run("trash view lists only deleted rows", func() {
		out, err := s.store.List(s.ctx, policy.ListFilter{OrganizationID: &s.orgID, Deleted: boolp(true)})
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal(deleted.ID, out[0].ID)
	})

	s.Run("unconstrained filter returns everything", func() {
		out, err := s.store.List(s.ctx, policy.ListFilter{})
		s.Require().NoError(err)
		s.Len(out, 4)
	})
}

func (s *MemoryStoreSuite) TestExecuteAbortLeavesStateIntact() {
	artist := s.seed("Choir", true, false)
	boom := errors.New("validation failed")

	_, err := s.store.Execute(s.ctx, artist.ID,
		func(*models.Artist) error { return boom },
		func(a *models.Artist) { a.Name = "mutated" },
	)
	s.Require().True(errors.Is(err, boom))

	got, err := s.store.FindByID(s.ctx, artist.ID)
	s.Require().NoError(err)
	s.Equal("Choir", got.Name)
}

func (s *MemoryStoreSuite) TestStatsDeltaClamps() {
	artist := s.seed("Choir", true, false)

	s.Require().NoError(s.store.ApplyStatsDelta(s.ctx, artist.ID, 2, 5))
	s.Require().NoError(s.store.ApplyStatsDelta(s.ctx, artist.ID, -3, -1))

	got, err := s.store.FindByID(s.ctx, artist.ID)
	s.Require().NoError(err)
	s.Equal(0, got.Stats.AlbumsCount)
	s.Equal(4, got.Stats.SongsCount)

	s.Require().True(errors.Is(
		s.store.ApplyStatsDelta(s.ctx, domain.NewArtistID(), 1, 0),
		sentinel.ErrNotFound,
	))
}

func (s *MemoryStoreSuite) TestHardDelete() {
	artist := s.seed("Choir", true, false)

	s.Require().NoError(s.store.HardDelete(s.ctx, artist.ID))
	_, err := s.store.FindByID(s.ctx, artist.ID)
	s.Require().True(errors.Is(err, sentinel.ErrNotFound))
	s.Require().True(errors.Is(s.store.HardDelete(s.ctx, artist.ID), sentinel.ErrNotFound))
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	adminstore "chorale/internal/org/store/admin"
	orgstore "chorale/internal/org/store/organization"
	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
	audit "chorale/pkg/platform/audit"
	auditpublisher "chorale/pkg/platform/audit/publisher"
	auditmemory "chorale/pkg/platform/audit/store/memory"
	"chorale/pkg/requestcontext"
)

type OrgServiceSuite struct {
	suite.Suite
	ctx        context.Context
	orgs       *orgstore.InMemory
	admins     *adminstore.InMemory
	auditStore *auditmemory.InMemoryStore
	svc        *Service

	global domain.Actor
}

func TestOrgServiceSuite(t *testing.T) {
	suite.Run(t, new(OrgServiceSuite))
}

func (s *OrgServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	s.orgs = orgstore.NewInMemory()
	s.admins = adminstore.NewInMemory()
	s.auditStore = auditmemory.NewInMemoryStore()
	s.svc = New(s.orgs, s.admins,
		WithAuditEmitter(auditpublisher.NewPublisher(s.auditStore)),
	)
	s.global = domain.Actor{ID: uuid.New(), Role: domain.RoleGlobalAdmin}
}

func (s *OrgServiceSuite) register(name string) *Registration {
	reg, err := s.svc.RegisterOrganization(s.ctx, domain.Guest(), name, "admin@"+name+".example", "Admin")
	s.Require().NoError(err)
	return reg
}

func (s *OrgServiceSuite) TestRegistration() {
	s.Run("self-registration starts pending", func() {
		reg := s.register("stcecilia")
		s.Equal(domain.VerificationPending, reg.Organization.Verification)
		s.Equal(domain.VerificationPending, reg.Administrator.Verification)
		s.Equal(reg.Organization.ID, reg.Administrator.OrganizationID)
	})

	s.Run("global admin registers already verified", func() {
		reg, err := s.svc.RegisterOrganization(s.ctx, s.global, "preverified", "a@b.example", "Admin")
		s.Require().NoError(err)
		s.Equal(domain.VerificationVerified, reg.Organization.Verification)
		s.Equal(domain.VerificationVerified, reg.Administrator.Verification)
	})

	s.Run("duplicate name conflicts", func() {
		s.register("duplicate")
		_, err := s.svc.RegisterOrganization(s.ctx, domain.Guest(), "Duplicate", "x@y.example", "Admin")
		s.Require().True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("registration is audited", func() {
		reg := s.register("audited")
		events, err := s.auditStore.ListByOrganization(s.ctx, reg.Organization.ID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventOrganizationCreated), events[0].Action)
	})
}

func (s *OrgServiceSuite) TestSetVerification() {
	reg := s.register("stcecilia")
	orgID := reg.Organization.ID

	s.Run("only the global administrator may verify", func() {
		_, err := s.svc.SetVerification(s.ctx, reg.Administrator.Actor(), orgID, domain.VerificationVerified)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal(dErrors.ReasonNotAuthorized, dErrors.MessageOf(err))
	})

	s.Run("verification mirrors to the administrator", func() {
		org, err := s.svc.SetVerification(s.ctx, s.global, orgID, domain.VerificationVerified)
		s.Require().NoError(err)
		s.Equal(domain.VerificationVerified, org.Verification)

		admin, err := s.admins.FindByOrganization(s.ctx, orgID)
		s.Require().NoError(err)
		s.Equal(domain.VerificationVerified, admin.Verification)
	})

	s.Run("same-state transition conflicts and mirrors nothing", func() {
		_, err := s.svc.SetVerification(s.ctx, s.global, orgID, domain.VerificationVerified)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("rejection flows back through the same workflow", func() {
		org, err := s.svc.SetVerification(s.ctx, s.global, orgID, domain.VerificationRejected)
		s.Require().NoError(err)
		s.Equal(domain.VerificationRejected, org.Verification)

		admin, err := s.admins.FindByOrganization(s.ctx, orgID)
		s.Require().NoError(err)
		s.Equal(domain.VerificationRejected, admin.Verification)
	})

	s.Run("unknown organization is NotFound", func() {
		_, err := s.svc.SetVerification(s.ctx, s.global, domain.NewOrganizationID(), domain.VerificationVerified)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("transitions are audited with the outcome", func() {
		events, err := s.auditStore.ListByOrganization(s.ctx, orgID)
		s.Require().NoError(err)
		var actions []string
		for _, e := range events {
			actions = append(actions, e.Action)
		}
		s.Contains(actions, string(audit.EventOrganizationVerified))
		s.Contains(actions, string(audit.EventOrganizationRejected))
	})
}

func (s *OrgServiceSuite) TestUpdateProfile() {
	reg := s.register("stcecilia")
	orgID := reg.Organization.ID
	adminActor := reg.Administrator.Actor()

	s.Run("pending administrator may not edit the profile", func() {
		_, err := s.svc.UpdateProfile(s.ctx, adminActor, orgID, "https://cdn.example/logo.png", "About us")
		s.Require().True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal(dErrors.ReasonPendingVerification, dErrors.MessageOf(err))
	})

	s.Run("verification state is re-read, not trusted from the actor", func() {
		_, err := s.svc.SetVerification(s.ctx, s.global, orgID, domain.VerificationVerified)
		s.Require().NoError(err)

		// adminActor still carries the stale pending snapshot.
		org, err := s.svc.UpdateProfile(s.ctx, adminActor, orgID, "https://cdn.example/logo.png", "About us")
		s.Require().NoError(err)
		s.Equal("About us", org.About)
	})

	s.Run("a foreign administrator is not authorized", func() {
		other := s.register("other")
		_, err := s.svc.UpdateProfile(s.ctx, other.Administrator.Actor(), orgID, "", "hijack")
		s.Require().True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal(dErrors.ReasonNotAuthorized, dErrors.MessageOf(err))
	})
}

func (s *OrgServiceSuite) TestListOrganizations() {
	pending := s.register("pendingorg")
	verified := s.register("verifiedorg")
	_, err := s.svc.SetVerification(s.ctx, s.global, verified.Organization.ID, domain.VerificationVerified)
	s.Require().NoError(err)

	s.Run("guests see only verified organizations", func() {
		orgs, err := s.svc.ListOrganizations(s.ctx, domain.Guest())
		s.Require().NoError(err)
		s.Require().Len(orgs, 1)
		s.Equal(verified.Organization.ID, orgs[0].ID)
	})

	s.Run("an admin also sees their own pending organization", func() {
		orgs, err := s.svc.ListOrganizations(s.ctx, pending.Administrator.Actor())
		s.Require().NoError(err)
		s.Len(orgs, 2)
	})

	s.Run("the global administrator sees everything", func() {
		orgs, err := s.svc.ListOrganizations(s.ctx, s.global)
		s.Require().NoError(err)
		s.Len(orgs, 2)
	})
}

func (s *OrgServiceSuite) TestRefreshActor() {
	reg := s.register("stcecilia")
	stale := reg.Administrator.Actor()

	_, err := s.svc.SetVerification(s.ctx, s.global, reg.Organization.ID, domain.VerificationVerified)
	s.Require().NoError(err)

	refreshed, err := s.svc.RefreshActor(s.ctx, stale)
	s.Require().NoError(err)
	s.Equal(domain.VerificationVerified, refreshed.Verification)

	s.Run("non-admin actors pass through", func() {
		guest, err := s.svc.RefreshActor(s.ctx, domain.Guest())
		s.Require().NoError(err)
		s.Equal(domain.Guest(), guest)
	})
}

func (s *OrgServiceSuite) TestOrganizationVerification() {
	reg := s.register("stcecilia")

	status, err := s.svc.OrganizationVerification(s.ctx, reg.Organization.ID)
	s.Require().NoError(err)
	s.Equal(domain.VerificationPending, status)

	_, err = s.svc.OrganizationVerification(s.ctx, domain.NewOrganizationID())
	s.Require().True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

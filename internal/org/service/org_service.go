package service

import (
	"context"
	"errors"
	"strings"

	"chorale/internal/org/models"
	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
	audit "chorale/pkg/platform/audit"
	"chorale/pkg/platform/sentinel"
	"chorale/pkg/requestcontext"
)

// Registration bundles the result of RegisterOrganization.
type Registration struct {
	Organization  *models.Organization
	Administrator *models.Administrator
}

// RegisterOrganization creates an organization together with its single
// administrator. Self-registration starts pending; a global administrator
// registers the organization already verified.
func (s *Service) RegisterOrganization(ctx context.Context, actor domain.Actor, name, adminEmail, adminName string) (*Registration, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	verification := domain.VerificationPending
	if actor.Role == domain.RoleGlobalAdmin {
		verification = domain.VerificationVerified
	}

	var reg *Registration
	err := s.txr.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)
		org, err := models.NewOrganization(domain.NewOrganizationID(), name, verification, now)
		if err != nil {
			return err
		}
		if err := s.orgs.CreateIfNameAvailable(txCtx, org); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "organization name must be unique")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create organization")
		}

		admin, err := models.NewAdministrator(domain.NewAdministratorID(), org.ID, adminEmail, adminName, verification, now)
		if err != nil {
			return err
		}
		if err := s.admins.Create(txCtx, admin); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "organization already has an administrator")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create administrator")
		}

		reg = &Registration{Organization: org, Administrator: admin}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementRegistered()
	}
	s.emit(ctx, audit.Event{
		Timestamp:      requestcontext.Now(ctx),
		OrganizationID: reg.Organization.ID,
		ActorID:        actor.ID.String(),
		Action:         string(audit.EventOrganizationCreated),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return reg, nil
}

// GetOrganization retrieves one organization by ID.
func (s *Service) GetOrganization(ctx context.Context, id domain.OrganizationID) (*models.Organization, error) {
	if id.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "organization id is required")
	}
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return nil, wrapOrgErr(err)
	}
	return org, nil
}

// ListOrganizations returns organizations visible to the actor: everything
// for a global administrator, verified organizations for everyone else.
func (s *Service) ListOrganizations(ctx context.Context, actor domain.Actor) ([]*models.Organization, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	orgs, err := s.orgs.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list organizations")
	}
	if actor.Role == domain.RoleGlobalAdmin {
		return orgs, nil
	}
	visible := orgs[:0]
	for _, org := range orgs {
		if org.IsVerified() || actor.Owns(org.ID) {
			visible = append(visible, org)
		}
	}
	return visible, nil
}

// UpdateProfile edits the organization's profile fields. Allowed for the
// global administrator and for the organization's own verified administrator;
// an unverified administrator may not edit, matching the content mutation
// rules.
func (s *Service) UpdateProfile(ctx context.Context, actor domain.Actor, orgID domain.OrganizationID, logoURL, about string) (*models.Organization, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	switch {
	case actor.Role == domain.RoleGlobalAdmin:
	case actor.Owns(orgID):
		// Re-read the persisted verification state; the actor snapshot may be
		// stale relative to a concurrent rejection.
		admin, err := s.admins.FindByOrganization(ctx, orgID)
		if err != nil {
			return nil, wrapOrgErr(err)
		}
		if admin.Verification != domain.VerificationVerified {
			return nil, dErrors.New(dErrors.CodeForbidden, dErrors.ReasonPendingVerification)
		}
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, dErrors.ReasonNotAuthorized)
	}

	now := requestcontext.Now(ctx)
	org, err := s.orgs.Execute(ctx, orgID,
		func(*models.Organization) error { return nil },
		func(o *models.Organization) { o.ApplyProfile(logoURL, about, now) },
	)
	if err != nil {
		return nil, wrapOrgErr(err)
	}
	return org, nil
}

// RefreshActor rebuilds an org_admin actor from the persisted administrator
// record, so verification changes take effect on the next request rather
// than at token expiry. Implements the transport's ActorRefresher.
func (s *Service) RefreshActor(ctx context.Context, actor domain.Actor) (domain.Actor, error) {
	if actor.Role != domain.RoleOrgAdmin {
		return actor, nil
	}
	admin, err := s.admins.FindByID(ctx, domain.AdministratorID(actor.ID))
	if err != nil {
		return domain.Actor{}, wrapOrgErr(err)
	}
	return admin.Actor(), nil
}

// OrganizationVerification reports the persisted verification status of an
// organization. Mutation paths re-read it per request so a stale actor
// snapshot cannot outlive a concurrent rejection.
func (s *Service) OrganizationVerification(ctx context.Context, id domain.OrganizationID) (domain.VerificationStatus, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return "", wrapOrgErr(err)
	}
	return org.Verification, nil
}

func wrapOrgErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "organization not found")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "organization store failure")
}

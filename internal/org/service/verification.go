package service

import (
	"context"
	"errors"
	"time"

	"chorale/internal/org/models"
	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
	audit "chorale/pkg/platform/audit"
	"chorale/pkg/platform/sentinel"
	"chorale/pkg/requestcontext"
)

// SetVerification runs the organization verification workflow: a global
// administrator moves the organization between pending, verified, and
// rejected. The linked administrator's verification flag is updated in the
// same transaction — this method is the sole writer of that flag.
//
// Content drafted while the organization was pending stays hidden after
// verification; republishing requires an explicit edit per item. That is
// observed product behavior, kept rather than corrected.
func (s *Service) SetVerification(ctx context.Context, actor domain.Actor, orgID domain.OrganizationID, status domain.VerificationStatus) (*models.Organization, error) {
	start := time.Now()
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleGlobalAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, dErrors.ReasonNotAuthorized)
	}
	if orgID.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "organization id is required")
	}
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown verification status: "+string(status))
	}

	var org *models.Organization
	err := s.txr.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)

		updated, err := s.orgs.Execute(txCtx, orgID,
			func(o *models.Organization) error {
				if err := o.CanSetVerification(status); err != nil {
					if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
						return dErrors.Wrap(err, dErrors.CodeConflict, "verification transition not allowed")
					}
					return err
				}
				return nil
			},
			func(o *models.Organization) {
				o.ApplyVerification(status, now)
			},
		)
		if err != nil {
			return wrapOrgErr(err)
		}

		// The administrator link is optional; an orphaned organization just
		// has no flag to mirror.
		admin, err := s.admins.FindByOrganization(txCtx, orgID)
		switch {
		case err == nil:
			admin.ApplyVerification(status, now)
			if err := s.admins.Update(txCtx, admin); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update administrator verification")
			}
		case errors.Is(err, sentinel.ErrNotFound):
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load administrator")
		}

		org = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementTransition(string(status))
		s.metrics.ObserveSetVerification(start)
	}
	action := audit.EventOrganizationVerified
	if status == domain.VerificationRejected {
		action = audit.EventOrganizationRejected
	}
	s.emit(ctx, audit.Event{
		Timestamp:      requestcontext.Now(ctx),
		OrganizationID: orgID,
		ActorID:        actor.ID.String(),
		Action:         string(action),
		Reason:         "verification set to " + string(status),
		RequestID:      requestcontext.RequestID(ctx),
	})
	return org, nil
}

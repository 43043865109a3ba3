package policy

import (
	"chorale/pkg/domain"
)

// Decision is the outcome of the publication policy for one creation or edit.
type Decision struct {
	// Visible is the lifecycle status the content must be stored with,
	// expressed kind-neutrally (the store maps it to active/published/active).
	Visible bool
	// Draft is set when the policy forced the content hidden because the
	// creator's organization is not verified. The creation still succeeds;
	// the response must carry Advisory so the client can message draft mode.
	Draft bool
	// Advisory is a human-readable draft notice, empty unless Draft.
	Advisory string
}

// DecideInitialVisibility applies the publication policy at creation time.
//
// requested is the caller's explicit visibility wish; nil means "no
// preference", which yields the kind's default (all three kinds currently
// default to visible, but each kind carries its own descriptor — do not
// assume one global default).
//
// An org_admin whose organization is pending or rejected always gets the
// kind's hidden status, no matter what was requested. This is not an error:
// the create succeeds and the advisory tells the client the entry is a draft
// pending verification.
func DecideInitialVisibility(actor domain.Actor, kind Kind, requested *bool) (Decision, error) {
	if err := actor.Validate(); err != nil {
		return Decision{}, err
	}
	desc, err := kind.describe()
	if err != nil {
		return Decision{}, err
	}

	wish := desc.defaultVisible
	if requested != nil {
		wish = *requested
	}

	if actor.Role == domain.RoleOrgAdmin && actor.Verification != domain.VerificationVerified {
		return Decision{
			Visible:  false,
			Draft:    true,
			Advisory: "saved as " + desc.hiddenLabel + " draft pending organization verification",
		}, nil
	}
	return Decision{Visible: wish}, nil
}

// DecideEditVisibility applies the forcing rule at edit time. The guard
// already blocks unverified org_admins from editing at all, so in practice
// the forcing rule only fires at creation; this exists so a future guard
// change cannot silently let a forced-hidden draft flip itself visible.
func DecideEditVisibility(actor domain.Actor, kind Kind, requested bool) (Decision, error) {
	req := requested
	return DecideInitialVisibility(actor, kind, &req)
}

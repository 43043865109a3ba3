package policy

import (
	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

// ListParams are the caller-supplied filters a listing may request. The
// filter builder intersects them with the actor's forced predicate; they can
// narrow visibility, never widen it.
type ListParams struct {
	OrganizationID *domain.OrganizationID
	ArtistID       *domain.ArtistID
	AlbumID        *domain.AlbumID

	// IncludeDeleted lifts the default soft-delete exclusion. Honored only
	// for the global administrator.
	IncludeDeleted bool
	// TrashView flips an org_admin listing to deleted-only for their own
	// organization. Ignored for other roles.
	TrashView bool
}

// ListFilter is the predicate a listing must apply, expressed as data so any
// store capable of simple equality filters can interpret it.
type ListFilter struct {
	OrganizationID *domain.OrganizationID
	ArtistID       *domain.ArtistID
	AlbumID        *domain.AlbumID

	// Deleted constrains the soft-delete flag; nil means no constraint.
	Deleted *bool
	// VisibleOnly restricts to the kind's public-visible condition
	// (song: status=active, album: is_published, artist: is_active).
	VisibleOnly bool
}

// BuildFilter produces the filter a listing must apply for the given actor.
//
// Rules, in order of specificity:
//   - global_admin: only explicit caller filters; deleted rows excluded
//     unless IncludeDeleted.
//   - org_admin: forced to their own organization, non-deleted rows — or
//     deleted-only for the same organization when TrashView is set. A
//     caller-supplied organization filter cannot escape the forced scope.
//   - guest/user: non-deleted, publicly visible rows only; an explicit
//     organization filter narrows within that.
func BuildFilter(actor domain.Actor, kind Kind, params ListParams) (ListFilter, error) {
	if err := actor.Validate(); err != nil {
		return ListFilter{}, err
	}
	if !kind.IsValid() {
		return ListFilter{}, dErrors.New(dErrors.CodeBadRequest, "unknown content kind: "+string(kind))
	}

	filter := ListFilter{
		ArtistID: params.ArtistID,
		AlbumID:  params.AlbumID,
	}

	switch actor.Role {
	case domain.RoleGlobalAdmin:
		filter.OrganizationID = params.OrganizationID
		if !params.IncludeDeleted {
			filter.Deleted = boolPtr(false)
		}
		return filter, nil

	case domain.RoleOrgAdmin:
		own := actor.OrganizationID
		filter.OrganizationID = &own
		filter.Deleted = boolPtr(params.TrashView)
		return filter, nil

	case domain.RoleGuest, domain.RoleUser:
		filter.OrganizationID = params.OrganizationID
		filter.Deleted = boolPtr(false)
		filter.VisibleOnly = true
		return filter, nil

	default:
		// Unreachable after Validate, kept so a new role cannot silently
		// widen visibility.
		return ListFilter{}, dErrors.New(dErrors.CodeInvalidActor, "unknown role: "+string(actor.Role))
	}
}

func boolPtr(b bool) *bool { return &b }

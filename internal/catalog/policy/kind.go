// Package policy holds the pure decision rules of the publication engine:
// which rows a listing may return for a given actor, whether a mutation is
// permitted, and what visibility newly created content receives.
//
// Everything here is a pure function over domain values. Callers re-read
// persisted ownership/verification state before invoking the mutation guard;
// the policy never trusts a cached actor snapshot beyond what the caller
// supplies.
package policy

import dErrors "chorale/pkg/domain-errors"

// Kind identifies one of the three content kinds. The kinds share one policy
// shape but are independently parameterized — there is deliberately no global
// default they all inherit.
type Kind string

const (
	KindArtist Kind = "artist"
	KindAlbum  Kind = "album"
	KindSong   Kind = "song"
)

// descriptor parameterizes the shared policy per kind.
type descriptor struct {
	// defaultVisible is the visibility a verified creator gets when the
	// request does not say otherwise.
	defaultVisible bool
	// hiddenLabel and visibleLabel name the kind's statuses in advisory
	// messages (active/archived, published/unpublished, active/inactive).
	hiddenLabel  string
	visibleLabel string
}

var descriptors = map[Kind]descriptor{
	KindArtist: {defaultVisible: true, hiddenLabel: "inactive", visibleLabel: "active"},
	KindAlbum:  {defaultVisible: true, hiddenLabel: "unpublished", visibleLabel: "published"},
	KindSong:   {defaultVisible: true, hiddenLabel: "archived", visibleLabel: "active"},
}

func (k Kind) IsValid() bool {
	_, ok := descriptors[k]
	return ok
}

func (k Kind) describe() (descriptor, error) {
	d, ok := descriptors[k]
	if !ok {
		return descriptor{}, dErrors.New(dErrors.CodeBadRequest, "unknown content kind: "+string(k))
	}
	return d, nil
}

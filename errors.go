package hike

import (
	"errors"
	"fmt"
)

var (
	// ErrServing is returned when configuration or page registration is
	// attempted after the server has started serving.
	ErrServing = errors.New("hike: server already serving")

	// ErrNotFound marks a request path that resolved to no readable file.
	ErrNotFound = errors.New("hike: not found")

	// ErrBadRequest marks a request target that could not be interpreted
	// as a path. Such requests are dropped without a response.
	ErrBadRequest = errors.New("hike: bad request target")

	// ErrBadPageURL is returned for a dynamic page whose URL is empty or
	// not rooted at "/".
	ErrBadPageURL = errors.New("hike: bad page url")

	// ErrNoAnchors is returned for a dynamic page registered without any
	// anchors.
	ErrNoAnchors = errors.New("hike: page has no anchors")

	// ErrBadAnchor is returned for an anchor with an empty marker or a
	// nil function.
	ErrBadAnchor = errors.New("hike: bad anchor")

	// ErrDuplicatePage is returned when a URL is registered twice.
	ErrDuplicatePage = errors.New("hike: page already registered")

	// ErrDuplicateMarker is returned when one page lists the same marker
	// more than once.
	ErrDuplicateMarker = errors.New("hike: duplicate marker")
)

// AnchorError reports a failed anchor callback. It wraps the callback's
// error (or the recovered panic value) and records which marker failed.
type AnchorError struct {
	Marker string
	Err    error
}

func (e *AnchorError) Error() string {
	return fmt.Sprintf("hike: anchor %q: %v", e.Marker, e.Err)
}

func (e *AnchorError) Unwrap() error { return e.Err }

package hike

import "fmt"

// AnchorFunc produces the replacement text for one marker. It runs
// synchronously while the response is being built, at most once per request,
// and only when the marker actually occurs in the page. Returning an error
// fails the whole request with a 500.
type AnchorFunc func() (string, error)

// Anchor binds a literal marker substring to the function whose output
// replaces it. Markers are matched byte-for-byte; there is no pattern
// syntax and no escaping.
type Anchor struct {
	Marker string
	Func   AnchorFunc
}

// DynamicPage declares one URL whose file content passes through anchor
// substitution before it is served. URL is compared exactly against the
// decoded, query-stripped request path, not against the resolved file, so
// "/" and "/index.html" are distinct registrations.
type DynamicPage struct {
	URL     string
	Anchors []Anchor
}

// pageRegistry maps request paths to their anchor lists. It is filled
// before the server accepts connections and read-only afterwards, so
// lookups need no locking.
type pageRegistry struct {
	pages map[string][]Anchor
}

func newPageRegistry() *pageRegistry {
	return &pageRegistry{pages: make(map[string][]Anchor)}
}

func (r *pageRegistry) register(p DynamicPage) error {
	if p.URL == "" || p.URL[0] != '/' {
		return fmt.Errorf("%w: %q", ErrBadPageURL, p.URL)
	}
	if len(p.Anchors) == 0 {
		return fmt.Errorf("%w: %q", ErrNoAnchors, p.URL)
	}
	if _, ok := r.pages[p.URL]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePage, p.URL)
	}
	seen := make(map[string]struct{}, len(p.Anchors))
	for _, a := range p.Anchors {
		if a.Marker == "" {
			return fmt.Errorf("%w: empty marker in page %q", ErrBadAnchor, p.URL)
		}
		if a.Func == nil {
			return fmt.Errorf("%w: nil func for marker %q in page %q", ErrBadAnchor, a.Marker, p.URL)
		}
		if _, dup := seen[a.Marker]; dup {
			return fmt.Errorf("%w: %q in page %q", ErrDuplicateMarker, a.Marker, p.URL)
		}
		seen[a.Marker] = struct{}{}
	}
	anchors := make([]Anchor, len(p.Anchors))
	copy(anchors, p.Anchors)
	r.pages[p.URL] = anchors
	return nil
}

// lookup returns the anchors registered for path, or nil when the path is
// not a dynamic page.
func (r *pageRegistry) lookup(path string) []Anchor {
	return r.pages[path]
}

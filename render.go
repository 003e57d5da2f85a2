package hike

import (
	"bytes"
	"fmt"
)

// renderAnchors applies each anchor to page in registration order. An anchor
// whose marker does not occur in the current buffer is skipped and its
// function is never invoked. When the marker occurs the function runs once
// and every occurrence is replaced with its output, so an earlier anchor's
// output can still be rewritten by a later anchor's marker.
//
// The first failing anchor aborts the render; the partial buffer is
// discarded.
func renderAnchors(page []byte, anchors []Anchor) ([]byte, error) {
	for _, a := range anchors {
		marker := []byte(a.Marker)
		if !bytes.Contains(page, marker) {
			continue
		}
		out, err := callAnchor(a)
		if err != nil {
			return nil, &AnchorError{Marker: a.Marker, Err: err}
		}
		page = bytes.ReplaceAll(page, marker, []byte(out))
	}
	return page, nil
}

// callAnchor invokes the anchor function, converting a panic in callback
// code into an ordinary error so one bad page cannot take down the
// connection goroutine.
func callAnchor(a Anchor) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Func()
}

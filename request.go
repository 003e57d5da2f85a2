package hike

import (
	"fmt"
	"net/url"
	"strings"
)

// request is the server-side view of one parsed request. path is the
// query-stripped, percent-decoded form of the target; both the dynamic page
// registry and the path resolver key on it.
type request struct {
	method string
	target string
	path   string
	proto  string
	header map[string][]string
	peer   string
	id     string
}

// cleanRequestPath reduces a request target to the path the server works
// with: the query string is dropped and percent-escapes are decoded. A
// target that does not parse, or whose path is not rooted at "/", is
// rejected; the caller drops the connection without responding.
func cleanRequestPath(target string) (string, error) {
	u, err := url.ParseRequestURI(target)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadRequest, target)
	}
	if !strings.HasPrefix(u.Path, "/") {
		return "", fmt.Errorf("%w: %q", ErrBadRequest, target)
	}
	return u.Path, nil
}

// acceptsGzip reports whether the Accept-Encoding header offers gzip. Only
// coding names are inspected; qvalues are ignored, so "gzip;q=0" still
// counts as an offer.
func acceptsGzip(header map[string][]string) bool {
	for _, v := range header["Accept-Encoding"] {
		for _, enc := range strings.Split(v, ",") {
			enc = strings.TrimSpace(enc)
			if enc == "gzip" || strings.HasPrefix(enc, "gzip;") {
				return true
			}
		}
	}
	return false
}

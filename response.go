package hike

import (
	"bytes"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/manoeldesouza/hike/internal/http1"
)

// minGzipSize is the smallest body considered for compression.
const minGzipSize = 1024

// response is the handler's product: a status, a body and the headers this
// server emits beyond the fixed ones the wire layer adds.
type response struct {
	status      int
	body        []byte
	contentType string
	gzipped     bool
}

func okResponse(body []byte, contentType string) *response {
	return &response{status: http.StatusOK, body: body, contentType: contentType}
}

func notFoundResponse() *response {
	return &response{status: http.StatusNotFound}
}

func serverErrorResponse() *response {
	return &response{status: http.StatusInternalServerError}
}

// serverToken identifies the server software in responses.
const serverToken = "hike"

// fields lays out the response headers in emission order. Content-Length
// and Connection are appended by the wire layer.
func (r *response) fields() []http1.Field {
	f := make([]http1.Field, 0, 5)
	f = append(f, http1.Field{Name: "Server", Value: serverToken})
	f = append(f, http1.Field{Name: "Date", Value: time.Now().UTC().Format(http.TimeFormat)})
	if r.contentType != "" {
		f = append(f, http1.Field{Name: "Content-Type", Value: r.contentType})
	}
	if r.gzipped {
		f = append(f, http1.Field{Name: "Content-Encoding", Value: "gzip"})
		f = append(f, http1.Field{Name: "Vary", Value: "Accept-Encoding"})
	}
	return f
}

// maybeGzip compresses the body in place when it is large enough, of a
// compressible type, and actually shrinks. A body that compresses larger
// is left alone.
func (r *response) maybeGzip() {
	if r.gzipped || len(r.body) < minGzipSize || !compressibleType(r.contentType) {
		return
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(r.body); err != nil {
		return
	}
	if err := zw.Close(); err != nil {
		return
	}
	if buf.Len() >= len(r.body) {
		return
	}
	r.body = buf.Bytes()
	r.gzipped = true
}

// contentTypeFor derives the Content-Type from the resolved file's
// extension, falling back to a byte stream.
func contentTypeFor(fsPath string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fsPath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// compressibleType reports whether gzip is applied for this content type.
// Already compressed formats (images, archives, fonts) are excluded.
func compressibleType(contentType string) bool {
	switch {
	case strings.HasPrefix(contentType, "text/"):
		return true
	case strings.HasPrefix(contentType, "application/json"),
		strings.HasPrefix(contentType, "application/javascript"),
		strings.HasPrefix(contentType, "application/xml"),
		strings.HasPrefix(contentType, "image/svg+xml"):
		return true
	}
	return false
}

package http1

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
)

func readReq(t *testing.T, raw string, max int) (*ParsedRequest, error) {
	t.Helper()
	r := &Reader{BR: bufio.NewReader(strings.NewReader(raw)), MaxHeaderBytes: max}
	return r.ReadRequest()
}

func TestReadRequestSimple(t *testing.T) {
	pr, err := readReq(t, "GET /index.html HTTP/1.1\r\nHost: hike.test\r\nAccept-Encoding: gzip\r\n\r\n", 0)
	if err != nil {
		t.Fatalf("ReadRequest: %v", err)
	}
	if pr.Method != "GET" || pr.Target != "/index.html" || pr.Proto != "HTTP/1.1" {
		t.Fatalf("request line = %q %q %q", pr.Method, pr.Target, pr.Proto)
	}
	if got := getHeader(pr.Header, "host"); got != "hike.test" {
		t.Fatalf("Host = %q", got)
	}
	if got := getHeader(pr.Header, "Accept-Encoding"); got != "gzip" {
		t.Fatalf("Accept-Encoding = %q", got)
	}
}

func TestReadRequestBareLF(t *testing.T) {
	pr, err := readReq(t, "GET / HTTP/1.0\nHost: a\n\n", 0)
	if err != nil {
		t.Fatalf("ReadRequest: %v", err)
	}
	if pr.Proto != "HTTP/1.0" {
		t.Fatalf("proto = %q", pr.Proto)
	}
	if got := getHeader(pr.Header, "Host"); got != "a" {
		t.Fatalf("Host = %q", got)
	}
}

func TestReadRequestRepeatedHeader(t *testing.T) {
	pr, err := readReq(t, "GET / HTTP/1.1\r\nX-Tag: one\r\nx-tag: two\r\n\r\n", 0)
	if err != nil {
		t.Fatalf("ReadRequest: %v", err)
	}
	vv := pr.Header["X-Tag"]
	if len(vv) != 2 || vv[0] != "one" || vv[1] != "two" {
		t.Fatalf("X-Tag = %v", vv)
	}
}

func TestReadRequestMalformed(t *testing.T) {
	cases := []string{
		"GET /\r\n\r\n",
		"GET  HTTP/1.1\r\n\r\n",
		"\r\n\r\n",
		"GET / FTP/1.1\r\n\r\n",
		"GET / HTTP/1.1\r\nno colon here\r\n\r\n",
		"GET / HTTP/1.1\r\n: empty key\r\n\r\n",
	}
	for _, raw := range cases {
		if _, err := readReq(t, raw, 0); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%q: err = %v, want ErrMalformed", raw, err)
		}
	}
}

func TestReadRequestTooLarge(t *testing.T) {
	long := "GET /" + strings.Repeat("a", 100) + " HTTP/1.1\r\n\r\n"
	if _, err := readReq(t, long, 64); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("long request line: err = %v, want ErrTooLarge", err)
	}

	// The cap covers the whole head, not individual lines.
	many := "GET / HTTP/1.1\r\n" + strings.Repeat("X-Pad: aaaaaaaaaa\r\n", 20) + "\r\n"
	if _, err := readReq(t, many, 128); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("long header block: err = %v, want ErrTooLarge", err)
	}
	if _, err := readReq(t, many, 0); err != nil {
		t.Fatalf("uncapped: %v", err)
	}
}

func TestReadRequestEOF(t *testing.T) {
	if _, err := readReq(t, "", 0); !errors.Is(err, io.EOF) {
		t.Fatalf("empty input: err = %v, want io.EOF", err)
	}
	if _, err := readReq(t, "GET / HTTP/1.1\r\nHost: a", 0); !errors.Is(err, io.EOF) {
		t.Fatalf("truncated head: err = %v, want io.EOF", err)
	}
}

func TestCanonicalHeaderKey(t *testing.T) {
	cases := []struct{ in, want string }{
		{"content-type", "Content-Type"},
		{"ACCEPT-ENCODING", "Accept-Encoding"},
		{"x-request-id", "X-Request-Id"},
		{"Host", "Host"},
	}
	for _, tc := range cases {
		if got := canonicalHeaderKey(tc.in); got != tc.want {
			t.Fatalf("canonicalHeaderKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

package http1

import (
	"bufio"
	"errors"
	"strings"
)

var (
	// ErrMalformed marks a request head that does not parse.
	ErrMalformed = errors.New("http1: malformed request")

	// ErrTooLarge marks a request head exceeding the configured cap.
	ErrTooLarge = errors.New("http1: request head too large")
)

// ParsedRequest is the minimal representation read off the wire. Bodies
// are never consumed: the server answers one request per connection and
// closes it.
type ParsedRequest struct {
	Method string
	Target string
	Proto  string
	Header map[string][]string
}

// Reader parses one request head from a buffered connection.
// MaxHeaderBytes caps the total bytes consumed for the request line plus
// header block; zero means no cap.
type Reader struct {
	BR             *bufio.Reader
	MaxHeaderBytes int

	used int
}

func (r *Reader) ReadRequest() (*ParsedRequest, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, ErrMalformed
	}
	method, target, proto := parts[0], parts[1], parts[2]
	if !strings.HasPrefix(proto, "HTTP/1.") {
		return nil, ErrMalformed
	}
	hdr, err := r.readHeaders()
	if err != nil {
		return nil, err
	}
	return &ParsedRequest{
		Method: method,
		Target: target,
		Proto:  proto,
		Header: hdr,
	}, nil
}

func (r *Reader) readHeaders() (map[string][]string, error) {
	h := make(map[string][]string)
	for {
		line, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return nil, ErrMalformed
		}
		k := strings.TrimSpace(line[:i])
		v := strings.TrimSpace(line[i+1:])
		addHeader(h, k, v)
	}
	return h, nil
}

// readLine consumes bytes up to and including the next LF, stripping CR.
// Every byte counts against MaxHeaderBytes, including line terminators.
func (r *Reader) readLine() (string, error) {
	var sb strings.Builder
	for {
		b, err := r.BR.ReadByte()
		if err != nil {
			return "", err
		}
		r.used++
		if r.MaxHeaderBytes > 0 && r.used > r.MaxHeaderBytes {
			return "", ErrTooLarge
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
	}
	return sb.String(), nil
}

func addHeader(h map[string][]string, k, v string) {
	hk := canonicalHeaderKey(k)
	h[hk] = append(h[hk], v)
}

func getHeader(h map[string][]string, k string) string {
	hk := canonicalHeaderKey(k)
	if vv, ok := h[hk]; ok && len(vv) > 0 {
		return vv[0]
	}
	return ""
}

// Very small canonicalizer to avoid importing textproto here.
func canonicalHeaderKey(s string) string {
	b := []byte(strings.ToLower(s))
	upper := true
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			if upper {
				b[i] = byte(c - 'a' + 'A')
			}
			upper = false
			continue
		}
		upper = c == '-'
	}
	return string(b)
}

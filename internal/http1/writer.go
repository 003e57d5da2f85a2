package http1

import (
	"bufio"
	"fmt"
	"strings"
)

// Field is one response header, emitted in slice order.
type Field struct {
	Name  string
	Value string
}

// WriteResponse writes one complete HTTP/1.1 response. Content-Length is
// derived from body, and "Connection: close" is always emitted; this
// server never keeps a connection alive. Field values are sanitized so a
// crafted value cannot inject extra header lines.
func WriteResponse(bw *bufio.Writer, status int, fields []Field, body []byte) error {
	if _, err := fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", status, defaultReason(status)); err != nil {
		return err
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", f.Name, sanitizeHeaderValue(f.Value)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "Content-Length: %d\r\n", len(body)); err != nil {
		return err
	}
	if _, err := fmt.Fprint(bw, "Connection: close\r\n\r\n"); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := bw.Write(body); err != nil {
			return err
		}
	}
	return nil
}

func defaultReason(code int) string {
	switch code {
	case 200:
		return "OK"
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 500:
		return "Internal Server Error"
	default:
		return ""
	}
}

func sanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	// Remove CR/LF and other control chars except HTAB
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

package hike

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manoeldesouza/hike/internal/http1"
	"github.com/manoeldesouza/hike/internal/obs"
)

// Server serves files below a root directory over HTTP/1.1 and applies
// anchor substitution to registered dynamic pages. Configuration and page
// registration happen before Run or Serve; once serving, the registry and
// settings are sealed and InsertDynamicPage returns ErrServing.
//
// Each accepted connection is handled by its own goroutine, reads exactly
// one request and is closed after the response. Request bodies are never
// read.
type Server struct {
	addr string
	port int

	rootDir   string
	indexFile string
	debug     bool

	// ReadTimeout and WriteTimeout bound the read and write halves of a
	// connection's single exchange. Zero disables the deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxHeaderBytes caps the request line plus header block. Zero means
	// 8KB. Oversized requests are dropped without a response.
	MaxHeaderBytes int

	// EnableGzip compresses compressible 200 bodies when the client sends
	// Accept-Encoding: gzip.
	EnableGzip bool

	// Logger receives server logs; nil falls back to obs.NopLogger.
	// Meter receives counters and timings; nil falls back to obs.NopMeter.
	Logger obs.Logger
	Meter  obs.Meter

	registry *pageRegistry

	mu      sync.Mutex
	serving bool
	closed  bool
	ln      net.Listener
	conns   sync.WaitGroup
}

// New returns a Server that will listen on addr:port, serving the current
// directory with index.html as the index file.
func New(addr string, port int) *Server {
	return &Server{
		addr:      addr,
		port:      port,
		rootDir:   ".",
		indexFile: "index.html",
		registry:  newPageRegistry(),
	}
}

// SetRootDir points the server at the directory to serve. The directory
// must exist at call time; on error the previous root is kept.
func (s *Server) SetRootDir(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serving {
		return ErrServing
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("hike: root dir %q: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("hike: root dir %q: not a directory", dir)
	}
	s.rootDir = dir
	return nil
}

// SetIndexFile sets the file name appended for directory requests. The name
// must be a bare file name without path separators.
func (s *Server) SetIndexFile(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serving {
		return ErrServing
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("hike: index file %q: must be a bare file name", name)
	}
	s.indexFile = name
	return nil
}

// SetDebug toggles per-request log lines. It has no effect once the server
// is serving.
func (s *Server) SetDebug(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serving {
		return
	}
	s.debug = on
}

// InsertDynamicPage registers a page for anchor substitution. Registration
// is rejected once the server is serving, for a duplicate URL, and for
// pages that fail validation (see DynamicPage).
func (s *Server) InsertDynamicPage(p DynamicPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serving {
		return ErrServing
	}
	return s.registry.register(p)
}

// Run listens on the configured address and serves until the listener
// fails or Shutdown is called.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", net.JoinHostPort(s.addr, strconv.Itoa(s.port)))
	if err != nil {
		return fmt.Errorf("hike: listen %s:%d: %w", s.addr, s.port, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on l, spawning one goroutine per connection.
// It returns nil after Shutdown, or the first Accept error otherwise. The
// listener is closed on return.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.serving {
		s.mu.Unlock()
		l.Close()
		return ErrServing
	}
	s.serving = true
	s.ln = l
	s.mu.Unlock()
	defer l.Close()

	s.logf(obs.Info, "serving %s at http://%s (index %s)", s.rootDir, l.Addr(), s.indexFile)
	for {
		c, err := l.Accept()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			return fmt.Errorf("hike: accept: %w", err)
		}
		s.conns.Add(1)
		go s.serveConn(c)
	}
}

// Shutdown closes the listener and waits for in-flight connections to
// finish, or until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	ln := s.ln
	s.mu.Unlock()
	if ln != nil {
		ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// serveConn handles one connection: read a single request, run it through
// the handler, write the response, close. Requests that cannot be parsed
// within the header limit are dropped without a response.
func (s *Server) serveConn(c net.Conn) {
	defer s.conns.Done()
	defer c.Close()

	start := time.Now()
	if s.ReadTimeout > 0 {
		c.SetReadDeadline(time.Now().Add(s.ReadTimeout))
	}
	rd := &http1.Reader{BR: bufio.NewReader(c), MaxHeaderBytes: s.headerLimit()}
	pr, err := rd.ReadRequest()
	if err != nil {
		s.count("hike_request_read_errors_total")
		s.logf(obs.Debug, "read %s: %v", c.RemoteAddr(), err)
		return
	}
	path, err := cleanRequestPath(pr.Target)
	if err != nil {
		s.count("hike_request_read_errors_total")
		s.logf(obs.Debug, "read %s: %v", c.RemoteAddr(), err)
		return
	}

	req := &request{
		method: pr.Method,
		target: pr.Target,
		path:   path,
		proto:  pr.Proto,
		header: pr.Header,
		peer:   c.RemoteAddr().String(),
		id:     uuid.NewString(),
	}
	resp := s.handle(req)

	if s.WriteTimeout > 0 {
		c.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
	}
	bw := bufio.NewWriter(c)
	if err := http1.WriteResponse(bw, resp.status, resp.fields(), resp.body); err != nil {
		s.logf(obs.Error, "write %s [%s]: %v", c.RemoteAddr(), req.id, err)
		return
	}
	if err := bw.Flush(); err != nil {
		s.logf(obs.Error, "write %s [%s]: %v", c.RemoteAddr(), req.id, err)
		return
	}
	s.observe("hike_request_duration_seconds", time.Since(start).Seconds())
}

func (s *Server) headerLimit() int {
	if s.MaxHeaderBytes > 0 {
		return s.MaxHeaderBytes
	}
	return 8 << 10
}

func (s *Server) logf(level obs.Level, format string, args ...interface{}) {
	if s.Logger == nil {
		return
	}
	s.Logger.Logf(level, format, args...)
}

func (s *Server) count(name string, labels ...obs.Label) {
	if s.Meter == nil {
		return
	}
	s.Meter.Counter(name, 1, labels...)
}

func (s *Server) observe(name string, v float64, labels ...obs.Label) {
	if s.Meter == nil {
		return
	}
	s.Meter.Histogram(name, v, labels...)
}

// Package hike implements a bare-bones HTTP/1.1 file server with dynamic
// page substitution, built from scratch on top of net.Listener rather than
// net/http.
//
// A Server maps request paths to files below a root directory. Pages
// registered as dynamic carry a list of anchors: literal marker substrings
// paired with callback functions. When a dynamic page is served, each marker
// that occurs in the file is replaced with its callback's output before the
// response is written.
//
// Highlights:
//   - thread-per-connection serving: one goroutine per accepted conn
//   - exact-match dynamic page registry, sealed once serving starts
//   - index-file fallback for directory requests
//   - root-confined path resolution (no traversal above the root dir)
//   - GET-only, one request per connection, always Connection: close
//   - optional gzip response encoding
//   - pluggable leveled logging and metrics (internal/obs)
//
// Quick start:
//
//	srv := hike.New("127.0.0.1", 8080)
//	if err := srv.SetRootDir("./public"); err != nil {
//		log.Fatal(err)
//	}
//	err := srv.InsertDynamicPage(hike.DynamicPage{
//		URL: "/",
//		Anchors: []hike.Anchor{
//			{Marker: "<!-- [Uptime] -->", Func: func() (string, error) {
//				out, err := exec.Command("uptime").Output()
//				return string(out), err
//			}},
//		},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(srv.Run())
//
// The server intentionally omits keep-alive, request bodies, chunked
// transfer encoding and TLS. Every response carries Content-Length and
// closes the connection.
package hike

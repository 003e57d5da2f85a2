package hike

import (
	"os"
	"strconv"

	"github.com/manoeldesouza/hike/internal/obs"
)

// handle runs one parsed request through the pipeline: resolve the path,
// read the file, render anchors when the path is a registered dynamic page,
// then shape the response. Only GET is served; any other method is answered
// with the same 404 an unknown path gets.
func (s *Server) handle(req *request) *response {
	s.count("hike_requests_total", obs.Label{Key: "method", Value: req.method})

	resp := s.serveRequest(req)
	if s.EnableGzip && resp.status == 200 && acceptsGzip(req.header) {
		resp.maybeGzip()
	}

	s.count("hike_responses_total", obs.Label{Key: "status", Value: strconv.Itoa(resp.status)})
	if s.debug {
		s.logf(obs.Info, "%s [%s] %s %s = %d", req.peer, req.id, req.method, req.target, resp.status)
	}
	return resp
}

func (s *Server) serveRequest(req *request) *response {
	if req.method != "GET" {
		return notFoundResponse()
	}

	fsPath, err := resolvePath(s.rootDir, s.indexFile, req.path)
	if err != nil {
		return notFoundResponse()
	}
	body, err := os.ReadFile(fsPath)
	if err != nil {
		return notFoundResponse()
	}

	if anchors := s.registry.lookup(req.path); anchors != nil {
		s.count("hike_anchor_renders_total")
		rendered, err := renderAnchors(body, anchors)
		if err != nil {
			s.count("hike_anchor_render_errors_total")
			s.logf(obs.Error, "render %s [%s]: %v", req.path, req.id, err)
			return serverErrorResponse()
		}
		body = rendered
	}
	return okResponse(body, contentTypeFor(fsPath))
}

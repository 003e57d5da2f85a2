package main

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/manoeldesouza/hike"
)

// pagesFile is the on-disk declaration of dynamic pages, e.g.:
//
//	pages:
//	  - url: /
//	    anchors:
//	      - marker: "<!-- [Uptime] -->"
//	        generator: command
//	        args: ["uptime"]
//	      - marker: "<!-- [Host] -->"
//	        generator: hostname
type pagesFile struct {
	Pages []pageSpec `yaml:"pages"`
}

type pageSpec struct {
	URL     string       `yaml:"url"`
	Anchors []anchorSpec `yaml:"anchors"`
}

type anchorSpec struct {
	Marker    string   `yaml:"marker"`
	Generator string   `yaml:"generator"`
	Args      []string `yaml:"args,omitempty"`
}

// loadPages reads a YAML pages file and builds the dynamic pages to
// register. Page and anchor validation beyond generator wiring is left to
// the server at registration time.
func loadPages(path string) ([]hike.DynamicPage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pages file: %w", err)
	}
	var pf pagesFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("pages file %v: %w", path, err)
	}

	pages := make([]hike.DynamicPage, 0, len(pf.Pages))
	for _, ps := range pf.Pages {
		anchors := make([]hike.Anchor, 0, len(ps.Anchors))
		for _, as := range ps.Anchors {
			fn, err := makeGenerator(as)
			if err != nil {
				return nil, fmt.Errorf("pages file %v, page %v: %w", path, ps.URL, err)
			}
			anchors = append(anchors, hike.Anchor{Marker: as.Marker, Func: fn})
		}
		pages = append(pages, hike.DynamicPage{URL: ps.URL, Anchors: anchors})
	}
	return pages, nil
}

// makeGenerator maps one anchor declaration to its AnchorFunc. The command
// generator runs its argv on every render; its combined exit status and
// output discipline is exec.Command's.
func makeGenerator(as anchorSpec) (hike.AnchorFunc, error) {
	switch as.Generator {
	case "command":
		if len(as.Args) == 0 {
			return nil, fmt.Errorf("generator command needs at least one arg")
		}
		argv := as.Args
		return func() (string, error) {
			out, err := exec.Command(argv[0], argv[1:]...).Output()
			if err != nil {
				return "", fmt.Errorf("command %v: %w", argv[0], err)
			}
			return string(out), nil
		}, nil
	case "time":
		layout := time.RFC1123
		if len(as.Args) > 0 {
			layout = as.Args[0]
		}
		return func() (string, error) {
			return time.Now().Format(layout), nil
		}, nil
	case "hostname":
		return func() (string, error) {
			return os.Hostname()
		}, nil
	case "env":
		if len(as.Args) != 1 {
			return nil, fmt.Errorf("generator env needs exactly one arg")
		}
		key := as.Args[0]
		return func() (string, error) {
			return os.Getenv(key), nil
		}, nil
	case "text":
		if len(as.Args) != 1 {
			return nil, fmt.Errorf("generator text needs exactly one arg")
		}
		text := as.Args[0]
		return func() (string, error) {
			return text, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown generator %q", as.Generator)
	}
}

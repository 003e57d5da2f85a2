package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "net/http/pprof"

	"github.com/pkg/profile"

	"github.com/manoeldesouza/hike"
	"github.com/manoeldesouza/hike/internal/obs"
)

// Use ldflags to set version
// go build -ldflags "-X main.version=v0.1.0" -o hike-serve ./cmd/hike-serve
var version string

func main() {

	c := NewConfiguration()
	if err := c.Check(); err != nil {
		log.Fatalf("error: %v\n", err)
	}

	// Start profiling if profiling port is specified
	if c.ProfilingPort != "" {

		switch c.Profiling {
		case "block":
			defer profile.Start(profile.BlockProfile).Stop()
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		case "trace":
			defer profile.Start(profile.TraceProfile, profile.ProfilePath(".")).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.MemProfileRate(1)).Stop()
		default:
			log.Fatalf("error: profiling port defined, but no valid profiling type defined. Check --help. Got: %v\n", c.Profiling)
		}

		go func() {
			http.ListenAndServe("localhost:"+c.ProfilingPort, nil)
		}()

	}

	minLevel, err := obs.ParseLevel(c.LogLevel)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	logger := obs.StdLogger{
		L:   log.New(os.Stderr, "", log.LstdFlags),
		Min: minLevel,
	}

	var meter obs.Meter = obs.NopMeter{}
	if c.PromHostAndPort != "" {
		pm := obs.NewPromMeter()
		go func() {
			if err := pm.Start(c.PromHostAndPort); err != nil {
				logger.Logf(obs.Error, "metrics listener: %v", err)
			}
		}()
		meter = pm
	}

	srv := hike.New(c.ListenAddress, c.Port)
	srv.ReadTimeout = time.Duration(c.ReadTimeout) * time.Second
	srv.WriteTimeout = time.Duration(c.WriteTimeout) * time.Second
	srv.MaxHeaderBytes = c.MaxHeaderBytes
	srv.EnableGzip = c.EnableGzip
	srv.Logger = logger
	srv.Meter = meter
	srv.SetDebug(c.EnableDebug)
	if err := srv.SetRootDir(c.RootDir); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	if err := srv.SetIndexFile(c.IndexFile); err != nil {
		log.Fatalf("error: %v\n", err)
	}

	if c.PagesFile != "" {
		pages, err := loadPages(c.PagesFile)
		if err != nil {
			log.Fatalf("error: %v\n", err)
		}
		for _, p := range pages {
			if err := srv.InsertDynamicPage(p); err != nil {
				log.Fatalf("error: %v\n", err)
			}
		}
		logger.Logf(obs.Info, "registered %v dynamic pages from %v", len(pages), c.PagesFile)
	}

	logger.Logf(obs.Info, "starting hike-serve %v", version)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	// Wait for ctrl+c to stop the server.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("error: %v\n", err)
		}
		return
	case sig := <-sigCh:
		logger.Logf(obs.Info, "got exit signal, shutting down, %v", sig)
	}

	// Safety function so the process still exits if draining the open
	// connections hangs.
	go func() {
		time.Sleep(time.Second * 10)
		log.Printf("error: doing a non graceful shutdown..\n")
		os.Exit(1)
	}()

	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("error: shutdown: %v\n", err)
	}
}

// Command gpxstat prints trail statistics for GPX files.
//
//	gpxstat [--meta] [--workers N] file.gpx...
//
// One JSON document is written per file, in argument order. Files that
// cannot be read or parsed are reported on stderr and make the exit status 1.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync"

	"backend-lobotracks/internal/gpx"

	"github.com/spf13/pflag"
)

type result struct {
	File  string        `json:"file"`
	Meta  *gpx.Metadata `json:"meta,omitempty"`
	Stats gpx.Stats     `json:"stats"`
	err   error
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("gpxstat", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	withMeta := flags.BoolP("meta", "m", false, "include document metadata")
	workers := flags.IntP("workers", "w", runtime.NumCPU(), "number of files parsed concurrently")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	files := flags.Args()
	if len(files) == 0 {
		fmt.Fprintln(stderr, "Usage: gpxstat [--meta] [--workers N] <file1.gpx> [file2.gpx] ...")
		return 2
	}

	logger := log.New(stderr, "", 0)
	results := make([]result, len(files))
	sem := make(chan struct{}, max(*workers, 1))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = analyze(file, *withMeta)
		}(i, file)
	}
	wg.Wait()

	enc := json.NewEncoder(stdout)
	status := 0
	for _, r := range results {
		if r.err != nil {
			logger.Printf("Error processing %s: %v", r.File, r.err)
			status = 1
			continue
		}
		if err := enc.Encode(r); err != nil {
			logger.Printf("Error writing %s: %v", r.File, err)
			status = 1
		}
	}
	return status
}

func analyze(file string, withMeta bool) result {
	r := result{File: file}
	data, err := os.ReadFile(file)
	if err != nil {
		r.err = err
		return r
	}
	doc := string(data)

	track, err := gpx.ParseTrack(doc)
	if err != nil {
		r.err = err
		return r
	}
	r.Stats = track.Stats
	if withMeta {
		meta := gpx.ParseMetadata(doc)
		r.Meta = &meta
	}
	return r
}

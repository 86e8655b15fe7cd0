package tracks

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"backend-lobotracks/internal/gpx"
	"backend-lobotracks/internal/storage"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var gpxSuffix = regexp.MustCompile(`(?i)\.gpx$`)

// Library is the read side of the GPX directory.
type Library interface {
	List(ctx context.Context) ([]storage.FileInfo, error)
	Read(ctx context.Context, name string) ([]byte, error)
}

type Service struct {
	files   Library
	workers int
}

func NewService(files Library) *Service {
	return &Service{files: files, workers: runtime.NumCPU()}
}

// List summarizes every file of the library, in library order. Files are
// parsed concurrently; a file that cannot be read or parsed is logged and
// left out.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	files, err := s.files.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*Summary, len(files))
	sem := make(chan struct{}, max(s.workers, 1))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f storage.FileInfo) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			summary, err := s.summarize(ctx, f)
			if err != nil {
				log.Printf("skipping %s: %v", f.Name, err)
				return
			}
			results[i] = &summary
		}(i, f)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(files))
	for _, r := range results {
		if r != nil {
			summaries = append(summaries, *r)
		}
	}
	return summaries, nil
}

func (s *Service) summarize(ctx context.Context, f storage.FileInfo) (Summary, error) {
	data, err := s.files.Read(ctx, f.Name)
	if err != nil {
		return Summary{}, err
	}
	doc := string(data)

	meta := gpx.ParseMetadata(doc)
	track, err := gpx.ParseTrack(doc)
	if err != nil {
		return Summary{}, err
	}

	title := DisplayTitle(f.Name)
	if meta.Title != nil && *meta.Title != "" {
		title = *meta.Title
	}

	return Summary{
		Filename:    f.Name,
		Title:       title,
		Description: meta.MetaDesc,
		Date:        meta.Date,
		Creator:     meta.Creator,
		LinkHref:    meta.LinkHref,
		LinkText:    meta.LinkText,
		AuthorName:  meta.AuthorName,
		Keywords:    meta.Keywords,
		SizeKb:      gpx.RoundTenth(float64(f.Size) / 1024),
		Modified:    f.Modified.UTC().Format("2006-01-02"),
		Stats:       track.Stats,
	}, nil
}

// Get parses one file in full.
func (s *Service) Get(ctx context.Context, name string) (Detail, error) {
	data, err := s.files.Read(ctx, name)
	if err != nil {
		return Detail{}, err
	}
	doc := string(data)

	track, err := gpx.ParseTrack(doc)
	if err != nil {
		return Detail{}, fmt.Errorf("parse %s: %w", name, err)
	}

	return Detail{
		Filename:    name,
		Meta:        gpx.ParseMetadata(doc),
		TrackPoints: track.TrackPoints,
		Waypoints:   track.Waypoints,
		Stats:       track.Stats,
	}, nil
}

// GeoJSON renders one file as a feature collection: a LineString for the
// track, when it has points, followed by a Point per waypoint.
func (s *Service) GeoJSON(ctx context.Context, name string) (*geojson.FeatureCollection, error) {
	detail, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()

	if len(detail.TrackPoints) > 0 {
		line := make(orb.LineString, 0, len(detail.TrackPoints))
		for _, p := range detail.TrackPoints {
			line = append(line, orb.Point{p.Lon, p.Lat})
		}
		title := DisplayTitle(name)
		if detail.Meta.Title != nil && *detail.Meta.Title != "" {
			title = *detail.Meta.Title
		}

		f := geojson.NewFeature(line)
		f.Properties["filename"] = name
		f.Properties["title"] = title
		f.Properties["pointCount"] = detail.Stats.PointCount
		f.Properties["distanceKm"] = detail.Stats.DistanceKm
		f.Properties["minEleM"] = detail.Stats.MinEleM
		f.Properties["maxEleM"] = detail.Stats.MaxEleM
		f.Properties["elevGainM"] = detail.Stats.ElevGainM
		f.Properties["elevLossM"] = detail.Stats.ElevLossM
		fc.Append(f)
	}

	for _, w := range detail.Waypoints {
		f := geojson.NewFeature(orb.Point{w.Lon, w.Lat})
		f.Properties["name"] = w.Name
		f.Properties["desc"] = w.Desc
		f.Properties["sym"] = w.Sym
		f.Properties["type"] = w.Type
		f.Properties["cmt"] = w.Cmt
		fc.Append(f)
	}

	return fc, nil
}

// DisplayTitle derives a label from a file name: the .gpx extension is
// dropped and underscores become spaces.
func DisplayTitle(filename string) string {
	return strings.ReplaceAll(gpxSuffix.ReplaceAllString(filename, ""), "_", " ")
}

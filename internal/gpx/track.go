package gpx

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const defaultWaypointName = "Waypoint"

// ErrMalformedCoordinate is returned when a lat or lon attribute is missing
// or is not a finite decimal number.
var ErrMalformedCoordinate = errors.New("malformed coordinate")

// ParseTrack extracts every <trkpt> in document order, every <wpt>, and the
// statistics computed over them. A single malformed coordinate fails the
// whole document, as does a document that cannot be tokenized
// (ErrMalformedDocument); no partial Track is returned. A document without
// points or waypoints is not an error.
func ParseTrack(doc string) (Track, error) {
	root, err := decode(doc)
	if err != nil {
		return Track{}, err
	}

	trkpts := root.findAll("trkpt")
	points := make([]TrackPoint, 0, len(trkpts))
	for i, el := range trkpts {
		lat, lon, err := coordinates(el)
		if err != nil {
			return Track{}, fmt.Errorf("trkpt %d: %w", i, err)
		}
		points = append(points, TrackPoint{Lat: lat, Lon: lon, Ele: elevation(el)})
	}

	wpts := root.findAll("wpt")
	waypoints := make([]Waypoint, 0, len(wpts))
	for i, el := range wpts {
		lat, lon, err := coordinates(el)
		if err != nil {
			return Track{}, fmt.Errorf("wpt %d: %w", i, err)
		}
		wp := Waypoint{
			Lat:  lat,
			Lon:  lon,
			Name: el.find("name").textOrEmpty(),
			Desc: el.find("desc").textOrEmpty(),
			Sym:  el.find("sym").textOrEmpty(),
			Type: el.find("type").textOrEmpty(),
			Cmt:  el.find("cmt").textOrEmpty(),
		}
		if wp.Name == "" {
			wp.Name = defaultWaypointName
		}
		waypoints = append(waypoints, wp)
	}

	return Track{
		TrackPoints: points,
		Waypoints:   waypoints,
		Stats:       ComputeStats(points, len(waypoints)),
	}, nil
}

func coordinates(el *element) (lat, lon float64, err error) {
	if lat, err = coordinate(el, "lat"); err != nil {
		return 0, 0, err
	}
	if lon, err = coordinate(el, "lon"); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func coordinate(el *element, name string) (float64, error) {
	raw, ok := el.attr(name)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedCoordinate, name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s=%q", ErrMalformedCoordinate, name, raw)
	}
	return v, nil
}

// elevation returns the <ele> value in meters. An absent, empty or
// unparsable <ele> counts as no elevation.
func elevation(el *element) *float64 {
	raw := el.find("ele").text()
	if raw == nil || *raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Package gpx extracts descriptive metadata, track geometry and trail
// statistics from GPX documents held in memory.
//
// Every function is a pure transformation of its input text: nothing is
// cached, logged or read from disk, so callers may parse any number of
// documents concurrently.
package gpx

// TrackPoint is one recorded position; Ele is nil when the point has no
// usable elevation.
type TrackPoint struct {
	Lat float64  `json:"lat"`
	Lon float64  `json:"lon"`
	Ele *float64 `json:"ele"`
}

// Waypoint is a named point of interest. Missing text children are empty
// strings.
type Waypoint struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
	Desc string  `json:"desc"`
	Sym  string  `json:"sym"`
	Type string  `json:"type"`
	Cmt  string  `json:"cmt"`
}

// Metadata holds the descriptive fields of a document. A nil field means the
// source had no such element.
type Metadata struct {
	Title      *string `json:"title"`
	MetaDesc   *string `json:"metaDesc"`
	Date       *string `json:"date"`
	Creator    *string `json:"creator"`
	LinkHref   *string `json:"linkHref"`
	LinkText   *string `json:"linkText"`
	AuthorName *string `json:"authorName"`
	Keywords   *string `json:"keywords"`
}

// Stats is derived from a track point sequence. The four elevation fields are
// either all nil (no point carried an elevation) or all set.
type Stats struct {
	PointCount    int     `json:"pointCount"`
	WaypointCount int     `json:"waypointCount"`
	DistanceKm    float64 `json:"distanceKm"`
	MinEleM       *int    `json:"minEleM"`
	MaxEleM       *int    `json:"maxEleM"`
	ElevGainM     *int    `json:"elevGainM"`
	ElevLossM     *int    `json:"elevLossM"`
}

// Track is the full-parse result of a document.
type Track struct {
	TrackPoints []TrackPoint `json:"trackPoints"`
	Waypoints   []Waypoint   `json:"waypoints"`
	Stats       Stats        `json:"stats"`
}

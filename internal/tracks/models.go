package tracks

import "backend-lobotracks/internal/gpx"

// Summary is one entry of the track listing.
type Summary struct {
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Date        *string   `json:"date"`
	Creator     *string   `json:"creator"`
	LinkHref    *string   `json:"linkHref"`
	LinkText    *string   `json:"linkText"`
	AuthorName  *string   `json:"authorName"`
	Keywords    *string   `json:"keywords"`
	SizeKb      float64   `json:"sizeKb"`
	Modified    string    `json:"modified"`
	Stats       gpx.Stats `json:"stats"`
}

// Detail is the full parse of one file.
type Detail struct {
	Filename    string           `json:"filename"`
	Meta        gpx.Metadata     `json:"meta"`
	TrackPoints []gpx.TrackPoint `json:"trackPoints"`
	Waypoints   []gpx.Waypoint   `json:"waypoints"`
	Stats       gpx.Stats        `json:"stats"`
}

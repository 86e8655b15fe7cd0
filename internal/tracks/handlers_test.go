package tracks

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T, svc *Service) *fiber.App {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app.Group("/api/tracks"), svc)
	return app
}

func TestTracksHandlersList(t *testing.T) {
	app := newTestApp(t, NewService(newLibrary(t, map[string]string{"ridge_loop.gpx": ridgeLoop})))

	req := httptest.NewRequest(http.MethodGet, "/api/tracks", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", err)
	}

	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0]["filename"] != "ridge_loop.gpx" || body[0]["title"] != "Ridge Loop" {
		t.Fatalf("unexpected body %v", body)
	}
	for _, key := range []string{"description", "date", "creator", "linkHref", "linkText", "authorName", "keywords", "sizeKb", "modified", "stats"} {
		if _, ok := body[0][key]; !ok {
			t.Fatalf("missing key %q", key)
		}
	}
}

func TestTracksHandlersListError(t *testing.T) {
	app := newTestApp(t, NewService(failingLibrary{listErr: errRead}))

	req := httptest.NewRequest(http.MethodGet, "/api/tracks", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected error")
	}
}

func TestTracksHandlersDetail(t *testing.T) {
	app := newTestApp(t, NewService(newLibrary(t, map[string]string{"ridge_loop.gpx": ridgeLoop})))

	req := httptest.NewRequest(http.MethodGet, "/api/tracks/ridge_loop.gpx", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("detail status: %v", err)
	}

	var body struct {
		Filename    string           `json:"filename"`
		Meta        map[string]any   `json:"meta"`
		TrackPoints []map[string]any `json:"trackPoints"`
		Waypoints   []map[string]any `json:"waypoints"`
		Stats       map[string]any   `json:"stats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Filename != "ridge_loop.gpx" || body.Meta["title"] != "Ridge Loop" {
		t.Fatalf("unexpected body %+v", body)
	}
	if len(body.TrackPoints) != 2 || body.TrackPoints[1]["ele"] != 150.0 {
		t.Fatalf("unexpected track points %v", body.TrackPoints)
	}
	if body.Stats["distanceKm"] != 111.2 || body.Stats["elevLossM"] != 0.0 {
		t.Fatalf("unexpected stats %v", body.Stats)
	}
	if v, ok := body.Meta["linkHref"]; !ok || v != nil {
		t.Fatalf("expected explicit null linkHref, got %v", v)
	}
}

func TestTracksHandlersDetailErrors(t *testing.T) {
	app := newTestApp(t, NewService(newLibrary(t, map[string]string{"broken.gpx": broken, "garbled.gpx": garbled})))

	cases := map[string]int{
		"/api/tracks/garbled.gpx":         http.StatusInternalServerError,
		"/api/tracks/garbled.gpx/geojson": http.StatusInternalServerError,
		"/api/tracks/broken.gpx":          http.StatusInternalServerError,
		"/api/tracks/missing.gpx":         http.StatusNotFound,
		"/api/tracks/notes.txt":           http.StatusBadRequest,
		"/api/tracks/..hidden.gpx":        http.StatusBadRequest,
		"/api/tracks/broken.gpx/geojson":  http.StatusInternalServerError,
		"/api/tracks/missing.gpx/geojson": http.StatusNotFound,
	}
	for path, want := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		if err != nil || resp.StatusCode != want {
			t.Fatalf("%s: expected %d", path, want)
		}
	}
}

func TestTracksHandlersGeoJSON(t *testing.T) {
	app := newTestApp(t, NewService(newLibrary(t, map[string]string{"ridge_loop.gpx": ridgeLoop})))

	req := httptest.NewRequest(http.MethodGet, "/api/tracks/ridge_loop.gpx/geojson", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("geojson status: %v", err)
	}
	if got := resp.Header.Get(fiber.HeaderContentType); got != "application/geo+json" {
		t.Fatalf("unexpected content type %q", got)
	}

	data, _ := io.ReadAll(resp.Body)
	var body struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Type != "FeatureCollection" || len(body.Features) != 2 {
		t.Fatalf("unexpected body %s", data)
	}
	if body.Features[0].Geometry.Type != "LineString" || body.Features[1].Geometry.Type != "Point" {
		t.Fatalf("unexpected geometries %s", data)
	}
}

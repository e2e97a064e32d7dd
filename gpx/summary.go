package gpx

import (
	"bytes"
	"fmt"

	gpxgo "github.com/tkrajina/gpxgo/gpx"
)

// Summary describes the structure of a GPX document.
type Summary struct {
	Version     string `json:"version"`
	Creator     string `json:"creator"`
	Name        string `json:"name,omitempty"`
	Waypoints   int    `json:"waypoints"`
	Routes      int    `json:"routes"`
	RoutePoints int    `json:"routePoints"`
	Tracks      int    `json:"tracks"`
	Segments    int    `json:"segments"`
	TrackPoints int    `json:"trackPoints"`
}

// Points returns the total number of point elements gpxgo found.
func (s *Summary) Points() int {
	return s.Waypoints + s.RoutePoints + s.TrackPoints
}

// Summarize reads data with gpxgo, which follows the GPX schema structure
// (wpt under gpx, rtept under rte, trkpt under trkseg).
func Summarize(data []byte) (*Summary, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	g, err := gpxgo.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedXML, err)
	}

	s := &Summary{
		Version:   g.Version,
		Creator:   g.Creator,
		Name:      g.Name,
		Waypoints: len(g.Waypoints),
		Routes:    len(g.Routes),
		Tracks:    len(g.Tracks),
	}

	for _, route := range g.Routes {
		s.RoutePoints += len(route.Points)
	}

	for _, track := range g.Tracks {
		s.Segments += len(track.Segments)
		for _, segment := range track.Segments {
			s.TrackPoints += len(segment.Points)
		}
	}

	return s, nil
}

package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/lib/incident"
	"github.com/dpup/saferoute/mapcore/internal/lib/routing"
)

// routeInput mirrors the route analysis response: risk segments plus either
// [[lat, lng], ...] pairs or an encoded polyline.
type routeInput struct {
	Segments []routing.RouteSegment `json:"segments"`
	Path     [][]float64            `json:"path,omitempty"`
	Polyline string                 `json:"polyline,omitempty"`
}

func (r routeInput) path() (geo.Path, error) {
	if r.Polyline != "" {
		return geo.NewGeoUtils().DecodePolyline(r.Polyline)
	}
	return geo.PathFromPairs(r.Path), nil
}

type densityInput struct {
	Mode   incident.DensityMode     `json:"mode"`
	Points []incident.WeightedPoint `json:"points"`
}

type markerInput struct {
	Slot  string  `json:"slot"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

type flyToInput struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// scenario is one composed map state
type scenario struct {
	Density   *densityInput              `json:"density,omitempty"`
	Route     *routeInput                `json:"route,omitempty"`
	Incidents []incident.LiveIncident    `json:"incidents,omitempty"`
	POIs      []incident.PointOfInterest `json:"pois,omitempty"`
	Markers   []markerInput              `json:"markers,omitempty"`
	FlyTo     *flyToInput                `json:"fly_to,omitempty"`
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "failed to read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "failed to parse %s", path)
	}
	return nil
}

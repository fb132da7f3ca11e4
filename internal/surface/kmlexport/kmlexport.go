// Package kmlexport renders the contents of an in-memory surface as a KML
// document, so a composed map can be inspected in Google Earth or any GIS tool.
package kmlexport

import (
	"fmt"
	"image/color"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
	kml "github.com/twpayne/go-kml"

	"github.com/dpup/saferoute/mapcore/internal/config"
	"github.com/dpup/saferoute/mapcore/internal/surface/memory"
)

const documentName = "Safety overlays"

// Write renders every source feature and marker on the surface. Sources become
// folders; route segments share one line style per risk level.
func Write(w io.Writer, s *memory.Surface, cfg config.OverlayConfig) error {
	styles := lineStyles(cfg)

	children := []kml.Element{kml.Name(documentName)}
	for _, risk := range sortedKeys(styles) {
		children = append(children, styles[risk])
	}

	for _, id := range s.SourceIDs() {
		fc, _ := s.Source(id)
		folder, err := sourceFolder(id, fc, styles)
		if err != nil {
			return err
		}
		children = append(children, folder)
	}

	if markers := s.Markers(); len(markers) > 0 {
		folder := []kml.Element{kml.Name("markers")}
		for _, m := range markers {
			at := m.LngLat()
			name := strings.TrimPrefix(m.Options().ClassName, "marker-")
			placemark := []kml.Element{
				kml.Name(name),
				kml.Point(kml.Coordinates(kml.Coordinate{Lon: at.Longitude, Lat: at.Latitude})),
			}
			if p, ok := m.Popup().(*memory.Popup); ok {
				placemark = append(placemark, kml.Description(p.HTML()))
			}
			folder = append(folder, kml.Placemark(placemark...))
		}
		children = append(children, kml.Folder(folder...))
	}

	if err := kml.KML(kml.Document(children...)).WriteIndent(w, "", "  "); err != nil {
		return eris.Wrap(err, "failed to write KML")
	}
	return nil
}

func sourceFolder(id string, fc *geojson.FeatureCollection, styles map[string]*kml.SharedElement) (kml.Element, error) {
	folder := []kml.Element{kml.Name(strings.TrimSuffix(id, "-source"))}
	for _, f := range fc.Features {
		placemark, err := featurePlacemark(f, styles)
		if err != nil {
			return nil, eris.Wrapf(err, "source %q", id)
		}
		folder = append(folder, placemark)
	}
	return kml.Folder(folder...), nil
}

func featurePlacemark(f *geojson.Feature, styles map[string]*kml.SharedElement) (kml.Element, error) {
	props := f.Properties
	name := props.MustString("name", props.MustString("type", fmt.Sprint(f.ID)))
	children := []kml.Element{kml.Name(name)}
	if d := props.MustString("description", ""); d != "" {
		children = append(children, kml.Description(d))
	}

	switch g := f.Geometry.(type) {
	case orb.Point:
		children = append(children, kml.Point(kml.Coordinates(coordinate(g))))
	case orb.LineString:
		coords := make([]kml.Coordinate, len(g))
		for i, p := range g {
			coords[i] = coordinate(p)
		}
		if style, ok := styles[props.MustString("risk", "")]; ok {
			children = append(children, kml.StyleURL(style.URL()))
		}
		children = append(children, kml.LineString(kml.Tessellate(true), kml.Coordinates(coords...)))
	default:
		return nil, eris.Errorf("unsupported geometry %s", f.Geometry.GeoJSONType())
	}
	return kml.Placemark(children...), nil
}

func coordinate(p orb.Point) kml.Coordinate {
	return kml.Coordinate{Lon: p.Lon(), Lat: p.Lat()}
}

func lineStyles(cfg config.OverlayConfig) map[string]*kml.SharedElement {
	style := func(risk, hex string, width float64) *kml.SharedElement {
		return kml.SharedStyle("route-"+risk, kml.LineStyle(kml.Color(parseHex(hex)), kml.Width(width)))
	}
	return map[string]*kml.SharedElement{
		"safe":    style("safe", cfg.RouteColors.Safe, cfg.RouteWidth),
		"caution": style("caution", cfg.RouteColors.Caution, cfg.RouteWidth),
		"danger":  style("danger", cfg.RouteColors.Danger, cfg.RouteDangerWidth),
	}
}

// parseHex reads #rrggbb; anything else renders opaque gray
func parseHex(hex string) color.RGBA {
	gray := color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return gray
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return gray
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func sortedKeys(m map[string]*kml.SharedElement) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

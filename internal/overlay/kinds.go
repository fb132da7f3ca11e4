package overlay

import "fmt"

// Kind classifies an overlay
type Kind int

const (
	KindDensity Kind = iota
	KindHotspots
	KindRouteLines
	KindPointMarkers
	KindLabeledMarker
	KindIncidentField
)

func (k Kind) String() string {
	switch k {
	case KindDensity:
		return "density"
	case KindHotspots:
		return "hotspots"
	case KindRouteLines:
		return "routeLines"
	case KindPointMarkers:
		return "pointMarkers"
	case KindLabeledMarker:
		return "labeledMarker"
	case KindIncidentField:
		return "incidentField"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Overlay IDs. Each owns a source named "<id>-source" and layers "<id>-<role>".
const (
	DensityID   = "density"
	HotspotsID  = "hotspots"
	RouteID     = "route"
	POIsID      = "pois"
	IncidentsID = "incidents"
)

// Named marker slots
const (
	SlotSearchCenter = "search-center"
	SlotDestination  = "destination"
	SlotUserPosition = "user-position"
)

func sourceID(id string) string {
	return id + "-source"
}

func layerID(id, role string) string {
	return id + "-" + role
}

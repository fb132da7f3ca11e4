// Package cache holds the restoration snapshot: the last display state drawn
// on the map, kept so overlays can be redrawn after the map style is rebuilt.
package cache

import (
	"sync"
	"time"

	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/lib/incident"
	"github.com/dpup/saferoute/mapcore/internal/lib/routing"
)

// DensityEntry is the last density/hotspot dataset
type DensityEntry struct {
	Points    []incident.WeightedPoint `json:"points"`
	Mode      incident.DensityMode     `json:"mode"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// POIEntry is the last point-of-interest set
type POIEntry struct {
	POIs      []incident.PointOfInterest `json:"pois"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// IncidentEntry is the last live incident dataset
type IncidentEntry struct {
	Points    []incident.WeightedPoint `json:"points"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// RouteEntry is the last drawn route
type RouteEntry struct {
	Route     routing.Route `json:"route"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Snapshot holds at most one entry per overlay kind. Nil means nothing to restore.
type Snapshot struct {
	Density   *DensityEntry  `json:"density,omitempty"`
	POIs      *POIEntry      `json:"pois,omitempty"`
	Incidents *IncidentEntry `json:"incidents,omitempty"`
	Route     *RouteEntry    `json:"route,omitempty"`
}

// Replayer redraws restored entries. Replay calls it in stacking order.
type Replayer interface {
	ReplayDensity(points []incident.WeightedPoint, mode incident.DensityMode)
	ReplayPointsOfInterest(pois []incident.PointOfInterest)
	ReplayIncidentField(points []incident.WeightedPoint)
	ReplayRoute(route routing.Route)
}

// RestorationCache is a thread-safe, last-write-wins display snapshot
type RestorationCache struct {
	snapshot Snapshot
	mutex    sync.RWMutex
	now      func() time.Time
}

// CacheStats provides cache usage statistics
type CacheStats struct {
	Slots       int
	OldestEntry time.Time
	NewestEntry time.Time
}

var defaultCache = NewRestorationCache()

// Default returns the process-wide restoration cache
func Default() *RestorationCache {
	return defaultCache
}

// NewRestorationCache creates an empty restoration cache
func NewRestorationCache() *RestorationCache {
	return &RestorationCache{now: time.Now}
}

// SetDensity stores the density dataset and mode
func (c *RestorationCache) SetDensity(points []incident.WeightedPoint, mode incident.DensityMode) {
	entry := &DensityEntry{Points: copyPoints(points), Mode: mode, UpdatedAt: c.now()}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.snapshot.Density = entry
}

// ClearDensity empties the density slot
func (c *RestorationCache) ClearDensity() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.snapshot.Density = nil
}

// SetPointsOfInterest stores the POI set
func (c *RestorationCache) SetPointsOfInterest(pois []incident.PointOfInterest) {
	entry := &POIEntry{POIs: append([]incident.PointOfInterest(nil), pois...), UpdatedAt: c.now()}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.snapshot.POIs = entry
}

// ClearPointsOfInterest empties the POI slot
func (c *RestorationCache) ClearPointsOfInterest() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.snapshot.POIs = nil
}

// SetIncidentField stores the live incident dataset
func (c *RestorationCache) SetIncidentField(points []incident.WeightedPoint) {
	entry := &IncidentEntry{Points: copyPoints(points), UpdatedAt: c.now()}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.snapshot.Incidents = entry
}

// ClearIncidentField empties the live incident slot
func (c *RestorationCache) ClearIncidentField() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.snapshot.Incidents = nil
}

// SetRoute stores the route segments and path
func (c *RestorationCache) SetRoute(route routing.Route) {
	entry := &RouteEntry{Route: copyRoute(route), UpdatedAt: c.now()}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.snapshot.Route = entry
}

// ClearRoute empties the route slot
func (c *RestorationCache) ClearRoute() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.snapshot.Route = nil
}

// Clear removes every entry
func (c *RestorationCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.snapshot = Snapshot{}
}

// Snapshot returns a copy of the current entries
func (c *RestorationCache) Snapshot() Snapshot {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var s Snapshot
	if d := c.snapshot.Density; d != nil {
		s.Density = &DensityEntry{Points: copyPoints(d.Points), Mode: d.Mode, UpdatedAt: d.UpdatedAt}
	}
	if p := c.snapshot.POIs; p != nil {
		s.POIs = &POIEntry{POIs: append([]incident.PointOfInterest(nil), p.POIs...), UpdatedAt: p.UpdatedAt}
	}
	if i := c.snapshot.Incidents; i != nil {
		s.Incidents = &IncidentEntry{Points: copyPoints(i.Points), UpdatedAt: i.UpdatedAt}
	}
	if r := c.snapshot.Route; r != nil {
		s.Route = &RouteEntry{Route: copyRoute(r.Route), UpdatedAt: r.UpdatedAt}
	}
	return s
}

// Empty reports whether there is nothing to restore
func (c *RestorationCache) Empty() bool {
	return c.Stats().Slots == 0
}

// Stats returns cache statistics
func (c *RestorationCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var stats CacheStats
	track := func(updated time.Time) {
		stats.Slots++
		if stats.OldestEntry.IsZero() || updated.Before(stats.OldestEntry) {
			stats.OldestEntry = updated
		}
		if updated.After(stats.NewestEntry) {
			stats.NewestEntry = updated
		}
	}
	if c.snapshot.Density != nil {
		track(c.snapshot.Density.UpdatedAt)
	}
	if c.snapshot.POIs != nil {
		track(c.snapshot.POIs.UpdatedAt)
	}
	if c.snapshot.Incidents != nil {
		track(c.snapshot.Incidents.UpdatedAt)
	}
	if c.snapshot.Route != nil {
		track(c.snapshot.Route.UpdatedAt)
	}
	return stats
}

// Replay redraws every non-empty slot in stacking order:
// density/hotspots, points of interest, live incidents, route.
// It works from a copy so the replayer may write back to the cache.
func (c *RestorationCache) Replay(r Replayer) int {
	s := c.Snapshot()
	replayed := 0
	if s.Density != nil {
		r.ReplayDensity(s.Density.Points, s.Density.Mode)
		replayed++
	}
	if s.POIs != nil {
		r.ReplayPointsOfInterest(s.POIs.POIs)
		replayed++
	}
	if s.Incidents != nil {
		r.ReplayIncidentField(s.Incidents.Points)
		replayed++
	}
	if s.Route != nil {
		r.ReplayRoute(s.Route.Route)
		replayed++
	}
	return replayed
}

func copyPoints(points []incident.WeightedPoint) []incident.WeightedPoint {
	return append([]incident.WeightedPoint(nil), points...)
}

func copyRoute(route routing.Route) routing.Route {
	return routing.Route{
		Segments: append([]routing.RouteSegment(nil), route.Segments...),
		Path:     append(geo.Path(nil), route.Path...),
	}
}

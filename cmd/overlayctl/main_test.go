package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/saferoute/mapcore/internal/config"
)

const sampleRoute = `{
  "segments": [
    {"startLat": 40.0, "startLng": -73.0, "endLat": 40.02, "endLng": -73.0, "safetyScore": 82},
    {"startLat": 40.02, "startLng": -73.0, "endLat": 40.03, "endLng": -73.0, "riskLevel": "danger"}
  ],
  "path": [[40.0, -73.0], [40.01, -73.0], [40.02, -73.0], [40.03, -73.0]]
}`

func TestWriteMatches(t *testing.T) {
	var in routeInput
	require.NoError(t, json.Unmarshal([]byte(sampleRoute), &in))

	var buf bytes.Buffer
	require.NoError(t, writeMatches(&buf, in))

	var results []matchResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, matchResult{Risk: "safe", StartIndex: 0, EndIndex: 2, Points: 3}, results[0])
	assert.Equal(t, matchResult{Risk: "danger", StartIndex: 2, EndIndex: 3, Points: 2}, results[1])
}

func TestRunScenario(t *testing.T) {
	sc := scenario{
		Density: &densityInput{Points: nil},
		Markers: []markerInput{{Slot: "search-center", Lat: 40.0, Lng: -73.0, Label: "Search"}},
		FlyTo:   &flyToInput{Lat: 40.0, Lng: -73.0},
	}
	require.NoError(t, json.Unmarshal([]byte(sampleRoute), &sc.Route))
	sc.POIs = nil

	s, err := runScenario(context.Background(), config.DefaultConfig(), sc, true)
	require.NoError(t, err)

	assert.Equal(t, 2, s.StyleLoads())
	require.Len(t, s.Layers(), 2)
	assert.Equal(t, "route-outline", s.Layers()[0].ID)
	assert.Len(t, s.Markers(), 1)
	assert.Equal(t, 13.0, s.Camera().Zoom)

	var buf bytes.Buffer
	printSummary(&buf, s)
	assert.Contains(t, buf.String(), "route-line")
	assert.Contains(t, buf.String(), "marker-search-center")
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "scenario.json")
	kmlPath := filepath.Join(dir, "out.kml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte(`{"route": `+sampleRoute+`}`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"render", "--scenario", scenarioPath, "--kml", kmlPath})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "route-outline")
	data, err := os.ReadFile(kmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#route-danger")
}

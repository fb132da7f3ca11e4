package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/dpup/saferoute/mapcore/internal/lib/routing"
)

var matchRoutePath string

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match route risk segments onto the route path",
	Example: `  overlayctl match --route route.json

route.json:
  {"segments": [{"startLat": 40.0, "startLng": -73.0, "endLat": 40.02, "endLng": -73.0, "riskLevel": "safe"}],
   "path": [[40.0, -73.0], [40.01, -73.0], [40.02, -73.0]]}`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if matchRoutePath == "" {
			return eris.New("--route is required")
		}
		var in routeInput
		if err := readJSON(matchRoutePath, &in); err != nil {
			return err
		}
		return writeMatches(cmd.OutOrStdout(), in)
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchRoutePath, "route", "", "JSON file with segments and path")
}

type matchResult struct {
	Risk       routing.RiskLevel `json:"risk"`
	StartIndex int               `json:"start_index"`
	EndIndex   int               `json:"end_index"`
	Points     int               `json:"points"`
	Fallback   bool              `json:"fallback"`
}

func writeMatches(w io.Writer, in routeInput) error {
	path, err := in.path()
	if err != nil {
		return err
	}
	matched := routing.NewSegmentMatcher().MatchSegments(path, in.Segments)

	results := make([]matchResult, len(matched))
	for i, m := range matched {
		results[i] = matchResult{
			Risk:       m.Segment.Risk(),
			StartIndex: m.StartIndex,
			EndIndex:   m.EndIndex,
			Points:     len(m.Points),
			Fallback:   m.Fallback,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/dpup/saferoute/mapcore/internal/cache"
	"github.com/dpup/saferoute/mapcore/internal/config"
	"github.com/dpup/saferoute/mapcore/internal/overlay"
	"github.com/dpup/saferoute/mapcore/internal/surface/kmlexport"
	"github.com/dpup/saferoute/mapcore/internal/surface/memory"
)

var (
	renderScenarioPath string
	renderKMLPath      string
	renderReload       bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Compose a scenario on an in-memory map and summarize the result",
	Long: "Draws every overlay in the scenario before the map style has loaded, loads the style, " +
		"optionally simulates a style swap, then prints the resulting layer stack.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if renderScenarioPath == "" {
			return eris.New("--scenario is required")
		}
		var sc scenario
		if err := readJSON(renderScenarioPath, &sc); err != nil {
			return err
		}

		s, err := runScenario(cmd.Context(), cfg, sc, renderReload)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), s)

		if renderKMLPath == "" {
			return nil
		}
		f, err := os.Create(renderKMLPath)
		if err != nil {
			return eris.Wrapf(err, "failed to create %s", renderKMLPath)
		}
		defer f.Close()
		if err := kmlexport.Write(f, s, cfg.Overlay); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", renderKMLPath)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderScenarioPath, "scenario", "", "JSON scenario file")
	renderCmd.Flags().StringVar(&renderKMLPath, "kml", "", "write the composed map as KML")
	renderCmd.Flags().BoolVar(&renderReload, "reload", false, "simulate a style swap after loading")
}

// runScenario draws a scenario the way the web client does: requests arrive
// before the style is ready and are drawn once it loads.
func runScenario(ctx context.Context, cfg *config.Config, sc scenario, reload bool) (*memory.Surface, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := memory.New()
	e := overlay.New(ctx, s, overlay.WithConfig(cfg), overlay.WithCache(cache.NewRestorationCache()))
	defer e.Close()

	if sc.Density != nil {
		mode := sc.Density.Mode
		if mode == "" {
			mode = "density"
		}
		if err := e.DrawDensity(sc.Density.Points, mode); err != nil {
			return nil, err
		}
	}
	if sc.Route != nil {
		path, err := sc.Route.path()
		if err != nil {
			return nil, err
		}
		if err := e.DrawRoute(sc.Route.Segments, path); err != nil {
			return nil, err
		}
	}
	if err := e.DrawLiveIncidents(sc.Incidents); err != nil {
		return nil, err
	}
	if err := e.SetPointsOfInterest(sc.POIs); err != nil {
		return nil, err
	}
	for _, m := range sc.Markers {
		if err := e.SetNamedMarker(m.Slot, m.Lat, m.Lng, m.Label); err != nil {
			return nil, err
		}
	}

	s.LoadStyle()
	if reload {
		s.SwapStyle()
	}

	if sc.FlyTo != nil {
		if err := e.FlyTo(sc.FlyTo.Lat, sc.FlyTo.Lng, nil, 0); err != nil {
			return nil, err
		}
		s.CompleteMove()
	}
	return s, nil
}

func printSummary(w io.Writer, s *memory.Surface) {
	fmt.Fprintf(w, "Style loads: %d\n", s.StyleLoads())
	fmt.Fprintln(w, "Layers (bottom to top):")
	for _, l := range s.Layers() {
		fc, _ := s.Source(l.Source)
		fmt.Fprintf(w, "  %-20s %-8s %d features\n", l.ID, l.Type, len(fc.Features))
	}
	fmt.Fprintln(w, "Markers:")
	for _, m := range s.Markers() {
		at := m.LngLat()
		fmt.Fprintf(w, "  %-20s %.5f,%.5f\n", m.Options().ClassName, at.Latitude, at.Longitude)
	}
	cam := s.Camera()
	fmt.Fprintf(w, "Camera: %.5f,%.5f zoom %.2f\n", cam.Center.Latitude, cam.Center.Longitude, cam.Zoom)
}

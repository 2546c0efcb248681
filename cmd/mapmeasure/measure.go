package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"
	"github.com/philipparndt/mapmeasure/internal/session"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
	"github.com/spf13/cobra"
)

var (
	measureKind     string
	measureCoords   string
	measureSegments bool
	measureNoAngles bool
	measureJSON     bool
	measureOutput   string
)

var measureCmd = &cobra.Command{
	Use:   "measure [file.geojson]",
	Short: "Measure lines and polygons from GeoJSON or coordinates",
	Long: `Measure every LineString and Polygon of a GeoJSON file, or a single
geometry given with --coords as "lon,lat;lon,lat;...".

Each geometry is drawn through the measurement engine and reported with the
same text as the drawing log. Coordinates are WGS84 degrees.`,
	Example: `  mapmeasure measure --coords "13.40,52.52;13.41,52.52;13.41,52.53"
  mapmeasure measure --kind polygon --unit imperial --coords "..."
  mapmeasure measure parcels.geojson --segments --output annotated.geojson`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().StringVar(&measureKind, "kind", "line", "geometry type of --coords: line or polygon")
	measureCmd.Flags().StringVar(&measureCoords, "coords", "", `vertices as "lon,lat;lon,lat;..."`)
	measureCmd.Flags().BoolVar(&measureSegments, "segments", false, "add segment length labels")
	measureCmd.Flags().BoolVar(&measureNoAngles, "no-angles", false, "do not compute angles")
	measureCmd.Flags().BoolVar(&measureJSON, "json", false, "print the log entries as JSON")
	measureCmd.Flags().StringVarP(&measureOutput, "output", "o", "", "write the annotated overlay as GeoJSON")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	geometries, err := measureInput(args)
	if err != nil {
		return err
	}

	opts, err := cfg.Measure.SessionOptions()
	if err != nil {
		return err
	}
	opts.Modifiers.ShowSegments = opts.Modifiers.ShowSegments || measureSegments
	opts.Modifiers.ClearPrevious = false
	s := newSession(opts)

	for i, g := range geometries {
		if err := draw(s, g, measureNoAngles); err != nil {
			return fmt.Errorf("geometry %d: %w", i+1, err)
		}
	}

	if measureJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.Log().All()); err != nil {
			return err
		}
	} else {
		printLog(s.Log())
	}

	if measureOutput != "" {
		return writeOverlay(s, measureOutput)
	}
	return nil
}

func measureInput(args []string) ([]*geometry.Geometry, error) {
	switch {
	case len(args) == 1 && measureCoords != "":
		return nil, fmt.Errorf("use either a file or --coords, not both")
	case len(args) == 1:
		return readGeoJSON(args[0])
	case measureCoords != "":
		kind, err := geometry.ParseKind(measureKind)
		if err != nil {
			return nil, err
		}
		g, err := parseCoords(measureCoords, kind)
		if err != nil {
			return nil, err
		}
		return []*geometry.Geometry{g}, nil
	}
	return nil, fmt.Errorf("nothing to measure: pass a GeoJSON file or --coords")
}

// draw feeds a geometry through the session like a user drawing it
func draw(s *session.Session, g *geometry.Geometry, suppressAngles bool) error {
	m := s.Modifiers()
	m.Kind = g.Kind
	if err := s.Dispatch(session.SetModifiers{Modifiers: m}); err != nil {
		return err
	}
	if err := s.Dispatch(session.DrawStart{Shift: suppressAngles}); err != nil {
		return err
	}
	for _, v := range g.Vertices {
		if err := s.Dispatch(session.AddVertex{Point: v}); err != nil {
			return err
		}
	}
	before := s.Log().Len()
	if err := s.Dispatch(session.DrawEnd{}); err != nil {
		return err
	}
	if s.Log().Len() == before {
		return fmt.Errorf("%s needs at least %d distinct vertices", g.Kind, g.Kind.MinVertices())
	}
	return nil
}

// parseCoords parses "lon,lat;lon,lat" into a geometry in map coordinates
func parseCoords(s string, kind geometry.Kind) (*geometry.Geometry, error) {
	g := geometry.New(kind)
	for i, pair := range strings.Split(s, ";") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("coordinate %d: expected lon,lat, got %q", i+1, pair)
		}
		p, ok := session.ParseLonLat(parts[0], parts[1])
		if !ok {
			return nil, fmt.Errorf("coordinate %d: invalid lon,lat %q", i+1, pair)
		}
		g.Append(p)
	}
	return g, nil
}

// readGeoJSON reads the lines and polygons of a GeoJSON file in WGS84
func readGeoJSON(path string) ([]*geometry.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var geoms []orb.Geometry
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && fc.Type == "FeatureCollection" {
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	} else if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		geoms = append(geoms, f.Geometry)
	} else if g, err := geojson.UnmarshalGeometry(data); err == nil {
		geoms = append(geoms, g.Geometry())
	} else {
		return nil, fmt.Errorf("failed to parse %s: not a GeoJSON feature collection, feature or geometry", path)
	}

	var result []*geometry.Geometry
	for _, og := range flatten(geoms) {
		g, err := geometry.FromOrb(project.Geometry(orb.Clone(og), project.WGS84.ToMercator))
		if err != nil {
			continue
		}
		result = append(result, g)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%s contains no LineString or Polygon", path)
	}
	return result, nil
}

// flatten splits multi geometries and collections into their parts
func flatten(geoms []orb.Geometry) []orb.Geometry {
	var out []orb.Geometry
	for _, g := range geoms {
		switch v := g.(type) {
		case orb.MultiLineString:
			for _, ls := range v {
				out = append(out, ls)
			}
		case orb.MultiPolygon:
			for _, p := range v {
				out = append(out, p)
			}
		case orb.Collection:
			out = append(out, flatten(v)...)
		case orb.LineString, orb.Polygon:
			out = append(out, v)
		}
	}
	return out
}

// writeOverlay writes the overlay in WGS84 as GeoJSON
func writeOverlay(s *session.Session, path string) error {
	fc := s.Store().Snapshot()
	for _, f := range fc.Features {
		f.Geometry = project.Geometry(f.Geometry, project.Mercator.ToWGS84)
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Overlay written to %s (%d features)\n", path, len(fc.Features))
	return nil
}

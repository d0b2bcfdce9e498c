package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/geodem/go-dem"
	"github.com/geodem/go-dem/plot"
)

var rootCmd = &cobra.Command{
	Use:   "dem",
	Short: "Query and plot digital elevation models from ESRI ASCII grid tiles",
	Long: `dem selects the ESRI ASCII grid tile covering a square area around a
point, interpolates elevations, and renders the area.

Configuration can be set with flags or the environment variables DEM_PATH,
DEM_RADIUS, DEM_NATIVE_CRS, DEM_GEOGRAPHIC_CRS, and DEM_INTERPOLATION.`,
	SilenceUsage: true,
}

var elevationCmd = &cobra.Command{
	Use:   "elevation latitude longitude",
	Short: "Print the elevation at a point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return err
		}

		center := []float64{lat, lon}
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
			if center, err = centerFlags(cmd); err != nil {
				return err
			}
		}

		cfg := LoadConfig(cmd)
		d, err := cfg.NewDEM(center)
		if err != nil {
			return err
		}
		elevation, err := d.Elevation(lat, lon)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), elevation)
		return nil
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render the area of interest in 2D and 3D",
	RunE: func(cmd *cobra.Command, args []string) error {
		center, err := centerFlags(cmd)
		if err != nil {
			return err
		}
		colorRange, _ := cmd.Flags().GetFloat64Slice("color-range")
		if len(colorRange) != 2 {
			return errors.New("color-range: expected two values")
		}
		azimuth, _ := cmd.Flags().GetFloat64("azimuth")
		viewElevation, _ := cmd.Flags().GetFloat64("view-elevation")
		out2D, _ := cmd.Flags().GetString("out-2d")
		out3D, _ := cmd.Flags().GetString("out-3d")
		outTile, _ := cmd.Flags().GetString("out-tile")

		cfg := LoadConfig(cmd)
		d, err := cfg.NewDEM(center)
		if err != nil {
			return err
		}

		options := []plot.Option{
			plot.WithColorRange(colorRange[0], colorRange[1]),
			plot.WithView(azimuth, viewElevation),
		}
		for _, output := range []struct {
			path    string
			geoGrid *dem.GeoGrid
			render  func(*dem.GeoGrid, ...plot.Option) (image.Image, error)
		}{
			{path: out2D, geoGrid: d.WindowGeoGrid(), render: plot.Raster2D},
			{path: out3D, geoGrid: d.WindowGeoGrid(), render: plot.Surface3D},
			{path: outTile, geoGrid: d.TileGeoGrid(), render: plot.Raster2D},
		} {
			if output.path == "" {
				continue
			}
			img, err := output.render(output.geoGrid, options...)
			if err != nil {
				return fmt.Errorf("%s: %w", output.path, err)
			}
			if err := plot.SavePNG(output.path, img); err != nil {
				return err
			}
		}
		return nil
	},
}

var footprintCmd = &cobra.Command{
	Use:   "footprint",
	Short: "Write the tile, area of interest, and window as GeoJSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		center, err := centerFlags(cmd)
		if err != nil {
			return err
		}
		cfg := LoadConfig(cmd)
		d, err := cfg.NewDEM(center)
		if err != nil {
			return err
		}
		featureCollection, err := d.Footprint()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(featureCollection, "", "  ")
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		if output == "" || output == "-" {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}
		return os.WriteFile(output, append(data, '\n'), 0o666)
	},
}

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "List tiles and their extents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := LoadConfig(cmd)
		catalog, err := cfg.Catalog()
		if err != nil {
			return err
		}
		tiles, err := catalog.Tiles()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tNCOLS\tNROWS\tCELLSIZE\tMINX\tMINY\tMAXX\tMAXY")
		for _, tile := range tiles {
			bounds := tile.Header.Bounds()
			fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%g\t%g\t%g\t%g\n",
				tile.Name, tile.Header.NCols, tile.Header.NRows, tile.Header.CellSize,
				bounds.Min.X(), bounds.Min.Y(), bounds.Max.X(), bounds.Max.Y())
		}
		return w.Flush()
	},
}

func centerFlags(cmd *cobra.Command) ([]float64, error) {
	if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
		return nil, errors.New("--lat and --lon are required")
	}
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("%g: latitude must be between -90 and 90", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%g: longitude must be between -180 and 180", lon)
	}
	return []float64{lat, lon}, nil
}

func init() {
	rootCmd.PersistentFlags().StringP("path", "p", ".", "directory containing tiles")
	rootCmd.PersistentFlags().Float64P("radius", "r", 1000, "half-width of the area of interest in native units")
	rootCmd.PersistentFlags().String("native-crs", dem.DefaultNativeCRS, "CRS of the tiles")
	rootCmd.PersistentFlags().String("geographic-crs", dem.DefaultGeographicCRS, "geographic CRS")
	rootCmd.PersistentFlags().String("interpolation", dem.InterpolationBicubic.String(), "interpolation (bicubic or bilinear)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().Float64("lat", 0, "latitude of the center of the area of interest")
	rootCmd.PersistentFlags().Float64("lon", 0, "longitude of the center of the area of interest")

	plotCmd.Flags().Float64Slice("color-range", []float64{0, 1}, "part of the terrain color map to use")
	plotCmd.Flags().Float64("azimuth", -60, "azimuth of the 3D view in degrees")
	plotCmd.Flags().Float64("view-elevation", 30, "elevation of the 3D view in degrees")
	plotCmd.Flags().String("out-2d", "2D.png", "2D output file, empty to skip")
	plotCmd.Flags().String("out-3d", "3D.png", "3D output file, empty to skip")
	plotCmd.Flags().String("out-tile", "", "2D output file of the whole tile, empty to skip")

	footprintCmd.Flags().StringP("output", "o", "-", "output file")

	rootCmd.AddCommand(elevationCmd, plotCmd, footprintCmd, tilesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

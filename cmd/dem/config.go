package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/geodem/go-dem"
)

// Config holds the configuration shared by all commands.
type Config struct {
	Path          string
	Radius        float64
	NativeCRS     string
	GeographicCRS string
	Interpolation string
	Verbose       bool
}

// LoadConfig loads the configuration from flags, then environment variables,
// then defaults.
func LoadConfig(cmd *cobra.Command) Config {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return Config{
		Path:          getConfigString(cmd, "path", "DEM_PATH", "."),
		Radius:        getConfigFloat(cmd, "radius", "DEM_RADIUS", 1000),
		NativeCRS:     getConfigString(cmd, "native-crs", "DEM_NATIVE_CRS", dem.DefaultNativeCRS),
		GeographicCRS: getConfigString(cmd, "geographic-crs", "DEM_GEOGRAPHIC_CRS", dem.DefaultGeographicCRS),
		Interpolation: getConfigString(cmd, "interpolation", "DEM_INTERPOLATION", dem.InterpolationBicubic.String()),
		Verbose:       verbose,
	}
}

// Logger returns a logger writing to stderr.
func (c *Config) Logger() *slog.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// Catalog returns the catalog of tiles in c.Path.
func (c *Config) Catalog() (*dem.Catalog, error) {
	return dem.NewCatalog(os.DirFS(c.Path), dem.WithCatalogLogger(c.Logger()))
}

// NewDEM returns the DEM around center, latitude first.
func (c *Config) NewDEM(center []float64) (*dem.DEM, error) {
	interpolation, err := dem.ParseInterpolation(c.Interpolation)
	if err != nil {
		return nil, err
	}
	return dem.New(
		os.DirFS(c.Path),
		center,
		c.Radius,
		dem.WithCRS(c.NativeCRS, c.GeographicCRS),
		dem.WithInterpolation(interpolation),
		dem.WithLogger(c.Logger()),
	)
}

func getConfigString(cmd *cobra.Command, flagName, envName, defaultValue string) string {
	if cmd.Flags().Changed(flagName) {
		value, _ := cmd.Flags().GetString(flagName)
		return value
	}
	if value := os.Getenv(envName); value != "" {
		return value
	}
	return defaultValue
}

func getConfigFloat(cmd *cobra.Command, flagName, envName string, defaultValue float64) float64 {
	if cmd.Flags().Changed(flagName) {
		value, _ := cmd.Flags().GetFloat64(flagName)
		return value
	}
	if value := os.Getenv(envName); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

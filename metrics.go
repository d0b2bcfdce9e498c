package dem

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	headerCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dem_header_cache_hits_total",
		Help: "The total number of hits on the tile header cache",
	})
	headerCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dem_header_cache_misses_total",
		Help: "The total number of misses on the tile header cache",
	})
	tilesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dem_tiles_scanned_total",
		Help: "The total number of tiles tested against an area of interest",
	})
	tilesSelected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dem_tiles_selected_total",
		Help: "The total number of tiles selected for an area of interest",
	})
	elevationQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dem_elevation_queries_total",
		Help: "The total number of elevation queries",
	})
	outOfBoundsQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dem_out_of_bounds_queries_total",
		Help: "The total number of elevation queries outside the grid",
	})
)

package dem

import (
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// A Tile is a named tile and its header.
type Tile struct {
	Name   string
	Header Header
}

// A Catalog is a set of ESRI ASCII grid tiles in a filesystem. It caches the
// parsed headers of the tiles that it has read.
type Catalog struct {
	mutex           sync.Mutex
	fsys            fs.FS
	patterns        []string
	headerCacheSize int
	headerCache     *lru.Cache[string, Header]
	logger          *slog.Logger
}

// A CatalogOption sets an option on a Catalog.
type CatalogOption func(*Catalog)

// NewCatalog returns a new Catalog of the tiles in fsys.
func NewCatalog(fsys fs.FS, options ...CatalogOption) (*Catalog, error) {
	c := &Catalog{
		fsys:            fsys,
		patterns:        []string{"*.asc", "*.asc.gz"},
		headerCacheSize: 1024,
		logger:          discardLogger,
	}
	for _, option := range options {
		option(c)
	}

	var err error
	c.headerCache, err = lru.New[string, Header](c.headerCacheSize)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// WithPatterns sets the glob patterns that match tile names.
func WithPatterns(patterns ...string) CatalogOption {
	return func(c *Catalog) {
		c.patterns = patterns
	}
}

func WithHeaderCacheSize(headerCacheSize int) CatalogOption {
	return func(c *Catalog) {
		c.headerCacheSize = headerCacheSize
	}
}

func WithCatalogLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// Names returns the names of all tiles in c in lexical order.
func (c *Catalog) Names() ([]string, error) {
	var names []string
	for _, pattern := range c.patterns {
		matches, err := fs.Glob(c.fsys, pattern)
		if err != nil {
			return nil, err
		}
		names = append(names, matches...)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Tiles returns all tiles in c.
func (c *Catalog) Tiles() ([]Tile, error) {
	names, err := c.Names()
	if err != nil {
		return nil, err
	}
	tiles := make([]Tile, 0, len(names))
	for _, name := range names {
		header, err := c.Header(name)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, Tile{
			Name:   name,
			Header: header,
		})
	}
	return tiles, nil
}

// Header returns the header of the tile name.
func (c *Catalog) Header(name string) (Header, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if header, ok := c.headerCache.Get(name); ok {
		headerCacheHits.Inc()
		return header, nil
	}
	headerCacheMisses.Inc()

	header, err := c.readHeader(name)
	if err != nil {
		return Header{}, err
	}
	c.headerCache.Add(name, header)
	return header, nil
}

// Select returns the tile that contains a. If several tiles intersect a, the
// first whose nodes enclose all of a, as reported by Within, is returned.
// A single intersecting tile is returned even if a extends beyond its nodes,
// in which case its window is clipped.
func (c *Catalog) Select(a AreaOfInterest) (Tile, error) {
	tiles, err := c.Tiles()
	if err != nil {
		return Tile{}, err
	}

	var candidates []Tile
	for _, tile := range tiles {
		tilesScanned.Inc()
		if a.Intersects(tile.Header) {
			candidates = append(candidates, tile)
		}
	}

	switch len(candidates) {
	case 0:
		return Tile{}, fmt.Errorf("%w: %v", ErrNoMatchingTile, a.Bound())
	case 1:
		tilesSelected.Inc()
		return candidates[0], nil
	}

	names := make([]string, 0, len(candidates))
	for _, tile := range candidates {
		if a.Within(tile.Header) {
			c.logger.Debug("area intersects several tiles", "selected", tile.Name, "candidates", len(candidates))
			tilesSelected.Inc()
			return tile, nil
		}
		names = append(names, tile.Name)
	}
	return Tile{}, fmt.Errorf("%w: %v intersects %s", ErrAreaSpansTiles, a.Bound(), strings.Join(names, ", "))
}

// LoadGrid loads the grid of tile.
func (c *Catalog) LoadGrid(tile Tile) (*Grid, error) {
	c.logger.Debug("loading grid", "name", tile.Name, "ncols", tile.Header.NCols, "nrows", tile.Header.NRows)
	return LoadGrid(c.fsys, tile.Name)
}

func (c *Catalog) readHeader(name string) (Header, error) {
	rc, err := openTile(c.fsys, name)
	if err != nil {
		return Header{}, err
	}
	defer rc.Close()
	header, err := ReadHeader(rc)
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", name, err)
	}
	return header, nil
}

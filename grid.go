package dem

import (
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/floats"
)

// A Grid is a tile's elevation samples in the tile's native coordinate
// system. Z[j][i] is the sample at (X[i], Y[j]). Rows run from south to
// north.
type Grid struct {
	Header
	X []float64
	Y []float64
	Z [][]float64
}

// ReadGrid reads a complete ESRI ASCII grid from r.
func ReadGrid(r io.Reader) (*Grid, error) {
	scanner := newScanner(r)
	header, err := readHeader(scanner)
	if err != nil {
		return nil, err
	}

	// Rows are stored north to south, so the first row read is the last row
	// of the grid. Rows are sized by what was read, never by the header.
	z := make([][]float64, 0, min(header.NRows, 1<<12))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(z) == header.NRows {
			return nil, fmt.Errorf("%w: more than %d rows", ErrFileFormat, header.NRows)
		}
		if len(fields) != header.NCols {
			return nil, fmt.Errorf("%w: row %d: found %d values, expected %d", ErrFileFormat, len(z)+1, len(fields), header.NCols)
		}
		samples := make([]float64, len(fields))
		for i, field := range fields {
			sample, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %w", ErrFileFormat, len(z)+1, err)
			}
			samples[i] = sample
		}
		z = append(z, samples)
	}
	if err := scanErr(scanner); err != nil {
		return nil, err
	}
	if len(z) != header.NRows {
		return nil, fmt.Errorf("%w: found %d rows, expected %d", ErrFileFormat, len(z), header.NRows)
	}
	slices.Reverse(z)

	return newGrid(header, z), nil
}

// LoadGrid reads the tile name from fsys.
func LoadGrid(fsys fs.FS, name string) (*Grid, error) {
	rc, err := openTile(fsys, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	grid, err := ReadGrid(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return grid, nil
}

func newGrid(header Header, z [][]float64) *Grid {
	return &Grid{
		Header: header,
		X:      axis(header.XLLCorner, header.CellSize, header.NCols),
		Y:      axis(header.YLLCorner, header.CellSize, header.NRows),
		Z:      z,
	}
}

// axis returns n evenly spaced coordinates starting at origin.
func axis(origin, cellSize float64, n int) []float64 {
	coords := make([]float64, n)
	if n == 1 {
		coords[0] = origin
		return coords
	}
	return floats.Span(coords, origin, origin+cellSize*float64(n-1))
}

// openTile opens the tile name in fsys, transparently decompressing gzipped
// tiles.
func openTile(fsys fs.FS, name string) (io.ReadCloser, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, ".gz") {
		return file, nil
	}
	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &gzipReadCloser{Reader: gzipReader, file: file}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	file fs.File
}

func (r *gzipReadCloser) Close() error {
	err := r.Reader.Close()
	if fileErr := r.file.Close(); err == nil {
		err = fileErr
	}
	return err
}

package dem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

const headerLines = 6

var maxLineLength = 64 << 20 // 64MB.

// A Header is the header of an ESRI ASCII grid tile.
type Header struct {
	NCols       int
	NRows       int
	XLLCorner   float64
	YLLCorner   float64
	CellSize    float64
	NoDataValue float64
}

// ReadHeader reads the six header lines from r. Each line is a key followed
// by a value. Keys are ignored and the values are expected in the order
// ncols, nrows, xllcorner, yllcorner, cellsize, nodata_value.
func ReadHeader(r io.Reader) (Header, error) {
	return readHeader(newScanner(r))
}

// Bounds returns the tile's rectangle.
func (h Header) Bounds() orb.Bound {
	return orb.Bound{
		Min: orb.Point{h.XLLCorner, h.YLLCorner},
		Max: orb.Point{
			h.XLLCorner + h.CellSize*float64(h.NCols),
			h.YLLCorner + h.CellSize*float64(h.NRows),
		},
	}
}

// GridBounds returns the extent of the tile's sample nodes, which is one cell
// smaller than Bounds in each direction.
func (h Header) GridBounds() orb.Bound {
	return orb.Bound{
		Min: orb.Point{h.XLLCorner, h.YLLCorner},
		Max: orb.Point{
			h.XLLCorner + h.CellSize*float64(h.NCols-1),
			h.YLLCorner + h.CellSize*float64(h.NRows-1),
		},
	}
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64<<10, maxLineLength)), maxLineLength)
	return scanner
}

// scanErr returns scanner's error, treating over-long lines as malformed
// input.
func scanErr(scanner *bufio.Scanner) error {
	err := scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		return fmt.Errorf("%w: line longer than %d bytes", ErrFileFormat, maxLineLength)
	}
	return err
}

func readHeader(scanner *bufio.Scanner) (Header, error) {
	var values [headerLines]float64
	for i := range headerLines {
		if !scanner.Scan() {
			if err := scanErr(scanner); err != nil {
				return Header{}, err
			}
			return Header{}, fmt.Errorf("%w: header line %d: unexpected end of file", ErrFileFormat, i+1)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			return Header{}, fmt.Errorf("%w: header line %d: empty", ErrFileFormat, i+1)
		}
		value, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return Header{}, fmt.Errorf("%w: header line %d: %w", ErrFileFormat, i+1, err)
		}
		values[i] = value
	}

	nCols, err := parseCount("ncols", values[0])
	if err != nil {
		return Header{}, err
	}
	nRows, err := parseCount("nrows", values[1])
	if err != nil {
		return Header{}, err
	}
	if !(values[4] > 0) || math.IsInf(values[4], 0) {
		return Header{}, fmt.Errorf("%w: cellsize %g must be positive", ErrFileFormat, values[4])
	}

	return Header{
		NCols:       nCols,
		NRows:       nRows,
		XLLCorner:   values[2],
		YLLCorner:   values[3],
		CellSize:    values[4],
		NoDataValue: values[5],
	}, nil
}

func parseCount(key string, value float64) (int, error) {
	if value != math.Trunc(value) || value < 1 || value > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s %g must be a positive integer", ErrFileFormat, key, value)
	}
	return int(value), nil
}

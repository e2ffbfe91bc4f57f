package gcomc

import "github.com/airbusgeo/godal"

// DType is the element type of a raster band.
type DType int

const (
	Byte DType = iota
	Int16
	UInt16
	Int32
	UInt32
	Float32
	Float64
)

// String returns the GDAL-style name of the type.
func (d DType) String() string {
	switch d {
	case Byte:
		return "Byte"
	case Int16:
		return "Int16"
	case UInt16:
		return "UInt16"
	case Int32:
		return "Int32"
	case UInt32:
		return "UInt32"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	}
	return "Unknown"
}

func (d DType) gdal() godal.DataType {
	switch d {
	case Byte:
		return godal.Byte
	case Int16:
		return godal.Int16
	case UInt16:
		return godal.UInt16
	case Int32:
		return godal.Int32
	case UInt32:
		return godal.UInt32
	case Float32:
		return godal.Float32
	}
	return godal.Float64
}

func (d DType) isFloat() bool {
	return d == Float32 || d == Float64
}

// fitsFloat32 reports whether every value of the type is exactly
// representable as a float32.
func (d DType) fitsFloat32() bool {
	switch d {
	case Byte, Int16, UInt16, Float32:
		return true
	}
	return false
}

// promote returns the smallest type that can represent every value of both
// operands without loss. Numeric promotion, never truncation.
func promote(a, b DType) DType {
	if a == b {
		return a
	}
	if a.isFloat() || b.isFloat() {
		if a.fitsFloat32() && b.fitsFloat32() {
			return Float32
		}
		return Float64
	}

	// Both integral. Same signedness: the wider type wins.
	signed := func(d DType) bool { return d == Int16 || d == Int32 }
	width := func(d DType) int {
		switch d {
		case Byte:
			return 8
		case Int16, UInt16:
			return 16
		}
		return 32
	}
	if signed(a) == signed(b) {
		if width(a) >= width(b) {
			return a
		}
		return b
	}

	// Mixed signedness: need a signed type wider than the unsigned operand
	// and at least as wide as the signed one.
	u, s := a, b
	if signed(a) {
		u, s = b, a
	}
	need := 2 * width(u)
	if width(s) > need {
		need = width(s)
	}
	switch {
	case need <= 16:
		return Int16
	case need <= 32:
		return Int32
	}
	// uint32 vs int32 has no common 32-bit integer; Float64 holds both
	// ranges exactly.
	return Float64
}

// Grid is a 2-D data array classified as spatial. Named datasets that are
// not exactly two-dimensional (time coordinates, QA vectors) never become
// grids; they are filtered out at classification time so the writer does
// not re-check dimensionality.
type Grid struct {
	rows, cols int
	dtype      DType
	data       any // [][]T with T matching dtype
}

// Shape returns {height, width}.
func (g *Grid) Shape() [2]int {
	return [2]int{g.rows, g.cols}
}

// DType returns the element type of the grid.
func (g *Grid) DType() DType {
	return g.dtype
}

// gridFrom classifies a raw dataset value. It returns false for anything
// that is not a 2-D numeric array.
func gridFrom(values any) (*Grid, bool) {
	switch rows := values.(type) {
	case [][]uint8:
		return newGrid(rows, Byte)
	case [][]int8:
		// GDAL Byte is unsigned; widen signed bytes.
		wide := make([][]int16, len(rows))
		for i, r := range rows {
			wide[i] = make([]int16, len(r))
			for j, v := range r {
				wide[i][j] = int16(v)
			}
		}
		return newGrid(wide, Int16)
	case [][]int16:
		return newGrid(rows, Int16)
	case [][]uint16:
		return newGrid(rows, UInt16)
	case [][]int32:
		return newGrid(rows, Int32)
	case [][]uint32:
		return newGrid(rows, UInt32)
	case [][]float32:
		return newGrid(rows, Float32)
	case [][]float64:
		return newGrid(rows, Float64)
	}
	return nil, false
}

func newGrid[T number](rows [][]T, dt DType) (*Grid, bool) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, false
	}
	return &Grid{rows: len(rows), cols: len(rows[0]), dtype: dt, data: rows}, true
}

type number interface {
	~int16 | ~int32 | ~uint8 | ~uint16 | ~uint32 | ~float32 | ~float64
}

// at returns the element at (i, j) as a float64. Valid for every supported
// element type without loss.
func (g *Grid) at(i, j int) float64 {
	switch rows := g.data.(type) {
	case [][]uint8:
		return float64(rows[i][j])
	case [][]int16:
		return float64(rows[i][j])
	case [][]uint16:
		return float64(rows[i][j])
	case [][]int32:
		return float64(rows[i][j])
	case [][]uint32:
		return float64(rows[i][j])
	case [][]float32:
		return float64(rows[i][j])
	}
	return g.data.([][]float64)[i][j]
}

// flatten returns the grid as a row-major buffer of its native type,
// suitable for a raster band write.
func (g *Grid) flatten() any {
	switch rows := g.data.(type) {
	case [][]uint8:
		return flattenRows(rows)
	case [][]int16:
		return flattenRows(rows)
	case [][]uint16:
		return flattenRows(rows)
	case [][]int32:
		return flattenRows(rows)
	case [][]uint32:
		return flattenRows(rows)
	case [][]float32:
		return flattenRows(rows)
	}
	return flattenRows(g.data.([][]float64))
}

// flattenAs returns the grid as a row-major buffer converted to dt. The
// caller guarantees dt was produced by promote over the grid's type, so the
// conversion is lossless.
func (g *Grid) flattenAs(dt DType) any {
	if dt == g.dtype {
		return g.flatten()
	}
	switch dt {
	case Byte:
		return convertRows[uint8](g)
	case Int16:
		return convertRows[int16](g)
	case UInt16:
		return convertRows[uint16](g)
	case Int32:
		return convertRows[int32](g)
	case UInt32:
		return convertRows[uint32](g)
	case Float32:
		return convertRows[float32](g)
	}
	return convertRows[float64](g)
}

func flattenRows[T number](rows [][]T) []T {
	out := make([]T, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

func convertRows[D number](g *Grid) []D {
	out := make([]D, 0, g.rows*g.cols)
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			out = append(out, D(g.at(i, j)))
		}
	}
	return out
}

package gcomc

import (
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/sankichi92/gportal-go/pkg/hdf"
)

// ProjectionKind is the closed set of Image_projection encodings. It is
// decided once, at the top of projection resolution.
type ProjectionKind int

const (
	// ReferenceGrid is the L1B encoding: a sparse lat/lon sample grid that
	// requires ground-control-point interpolation.
	ReferenceGrid ProjectionKind = iota
	// SinusoidalEqualArea is the tiled EQA encoding anchored at 0°
	// longitude.
	SinusoidalEqualArea
	// EqualRectangular is plate carrée; corner attributes map directly to
	// bounds.
	EqualRectangular
)

const (
	projReferenceGrid    = "L1B reference grid"
	projSinusoidal       = "EQA (sinusoidal equal area) projection"
	projEqualRectangular = "Equal Rectangular projection"
)

func (k ProjectionKind) String() string {
	switch k {
	case ReferenceGrid:
		return projReferenceGrid
	case SinusoidalEqualArea:
		return projSinusoidal
	case EqualRectangular:
		return projEqualRectangular
	}
	return fmt.Sprintf("ProjectionKind(%d)", int(k))
}

func parseProjectionKind(s string) (ProjectionKind, error) {
	switch s {
	case projReferenceGrid:
		return ReferenceGrid, nil
	case projSinusoidal:
		return SinusoidalEqualArea, nil
	case projEqualRectangular:
		return EqualRectangular, nil
	}
	return 0, &UnsupportedProjectionError{Projection: s}
}

const (
	// Sphere-based sinusoidal equal-area, lon_0=0. Equivalent to the
	// "Sinusoidal (Sphere)" authority definition (ESRI:53008).
	sinusoidalProj4 = "+proj=sinu +lon_0=0 +x_0=0 +y_0=0 +a=6371007.181 +b=6371007.181 +units=m +no_defs"
	longlatProj4    = "+proj=longlat +ellps=WGS84 +datum=WGS84 +no_defs"
)

// CRS identifies a coordinate reference system, either by EPSG code or by
// proj4 definition.
type CRS struct {
	epsg  int
	proj4 string
}

var (
	crsWGS84      = CRS{epsg: 4326}
	crsSinusoidal = CRS{proj4: sinusoidalProj4}
)

// String returns a diagnostic name for the CRS.
func (c CRS) String() string {
	if c.epsg != 0 {
		return fmt.Sprintf("EPSG:%d", c.epsg)
	}
	return c.proj4
}

func (c CRS) spatialRef() (*godal.SpatialRef, error) {
	if c.epsg != 0 {
		return godal.NewSpatialRefFromEPSG(c.epsg)
	}
	return godal.NewSpatialRefFromProj4(c.proj4)
}

// GroundControlPoint binds a pixel coordinate to a geographic coordinate.
type GroundControlPoint struct {
	Pixel     float64 // column in the full-resolution image
	Line      float64 // row in the full-resolution image
	Longitude float64
	Latitude  float64
}

// ResolvedProjection is the georeferencing of one array shape: a CRS plus
// either an affine transform or a set of ground control points, never both.
type ResolvedProjection struct {
	Kind ProjectionKind
	CRS  CRS

	// Transform is the GDAL-order affine geotransform. nil for
	// ReferenceGrid.
	Transform *[6]float64

	// ControlPoints is the sparse GCP set. nil for the affine kinds.
	ControlPoints []GroundControlPoint
}

// ResolveProjection derives the georeferencing for an array of the given
// {height, width} shape from the file's geometry attributes. Unknown
// Image_projection values fail with UnsupportedProjectionError carrying the
// raw string.
func (f *File) ResolveProjection(shape [2]int) (*ResolvedProjection, error) {
	attrs := f.GeometryAttributes()

	raw, _ := attrs["Image_projection"].Text()
	kind, err := parseProjectionKind(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case EqualRectangular:
		return resolveEqualRectangular(attrs, shape)
	case SinusoidalEqualArea:
		return resolveSinusoidal(attrs, shape)
	default:
		lat, err := f.geometryGrid("Latitude")
		if err != nil {
			return nil, err
		}
		lon, err := f.geometryGrid("Longitude")
		if err != nil {
			return nil, err
		}
		return resolveReferenceGrid(lat, lon, shape)
	}
}

// resolveEqualRectangular maps the geographic corner attributes directly
// onto the pixel grid, north-up.
func resolveEqualRectangular(attrs map[string]hdf.Value, shape [2]int) (*ResolvedProjection, error) {
	west, north, east, south, err := cornerBounds(attrs)
	if err != nil {
		return nil, err
	}
	tr := transformFromBounds(west, south, east, north, shape)
	return &ResolvedProjection{Kind: EqualRectangular, CRS: crsWGS84, Transform: &tr}, nil
}

// resolveSinusoidal reprojects the two geographic corner points into the
// sinusoidal system and builds the affine from the projected box.
// Reprojecting only the corners is the documented approximation; the
// projection's distortion across the array is not modeled.
func resolveSinusoidal(attrs map[string]hdf.Value, shape [2]int) (*ResolvedProjection, error) {
	west, north, east, south, err := cornerBounds(attrs)
	if err != nil {
		return nil, err
	}

	src, err := godal.NewSpatialRefFromProj4(longlatProj4)
	if err != nil {
		return nil, fmt.Errorf("failed to create geographic CRS: %w", err)
	}
	defer src.Close()

	dst, err := crsSinusoidal.spatialRef()
	if err != nil {
		return nil, fmt.Errorf("failed to create sinusoidal CRS: %w", err)
	}
	defer dst.Close()

	trn, err := godal.NewTransform(src, dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create corner transform: %w", err)
	}
	defer trn.Close()

	x := []float64{west, east}
	y := []float64{north, south}
	if err := trn.TransformEx(x, y, make([]float64, 2), make([]bool, 2)); err != nil {
		return nil, fmt.Errorf("failed to reproject corners: %w", err)
	}

	tr := transformFromBounds(x[0], y[1], x[1], y[0], shape)
	return &ResolvedProjection{Kind: SinusoidalEqualArea, CRS: crsSinusoidal, Transform: &tr}, nil
}

// gcpStride keeps the control-point count within raster-format limits by
// emitting only every 10th geometry sample along each axis.
const gcpStride = 10

// resolveReferenceGrid builds ground control points from the
// lower-resolution latitude/longitude sample grids. Each sample at grid
// index (i, j) maps to full-resolution pixel
// (i·H/(latRows−1), j·W/(latCols−1)).
//
// TODO: validate the control-point placement along the longitude axis
// against output from the vendor conversion tools; the scaling there is
// suspected to be off by one sample.
func resolveReferenceGrid(lat, lon *Grid, shape [2]int) (*ResolvedProjection, error) {
	if lat.Shape() != lon.Shape() {
		return nil, &StructureError{
			Node:   "Geometry_data/Longitude",
			Detail: fmt.Sprintf("shape %v does not match Latitude %v", lon.Shape(), lat.Shape()),
		}
	}
	rows, cols := lat.Shape()[0], lat.Shape()[1]
	if rows < 2 || cols < 2 {
		return nil, &StructureError{Node: "Geometry_data/Latitude", Detail: "sample grid too small"}
	}

	rowScale := float64(shape[0]) / float64(rows-1)
	colScale := float64(shape[1]) / float64(cols-1)

	var points []GroundControlPoint
	for i := 0; i < rows; i += gcpStride {
		for j := 0; j < cols; j += gcpStride {
			points = append(points, GroundControlPoint{
				Pixel:     float64(j) * colScale,
				Line:      float64(i) * rowScale,
				Longitude: lon.at(i, j),
				Latitude:  lat.at(i, j),
			})
		}
	}

	return &ResolvedProjection{Kind: ReferenceGrid, CRS: crsWGS84, ControlPoints: points}, nil
}

// transformFromBounds is the unique north-up affine mapping the bounding
// box onto a {height, width} pixel grid, in GDAL parameter order.
func transformFromBounds(west, south, east, north float64, shape [2]int) [6]float64 {
	height, width := shape[0], shape[1]
	return [6]float64{
		west, (east - west) / float64(width), 0,
		north, 0, (south - north) / float64(height),
	}
}

func cornerBounds(attrs map[string]hdf.Value) (west, north, east, south float64, err error) {
	for _, c := range []struct {
		name string
		dst  *float64
	}{
		{"Upper_left_longitude", &west},
		{"Upper_left_latitude", &north},
		{"Lower_right_longitude", &east},
		{"Lower_right_latitude", &south},
	} {
		v, ok := attrs[c.name].Float()
		if !ok {
			return 0, 0, 0, 0, &StructureError{
				Node:   "Geometry_data/" + c.name,
				Detail: "corner attribute missing or not numeric",
			}
		}
		*c.dst = v
	}
	return west, north, east, south, nil
}

package gcomc

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sankichi92/gportal-go/pkg/hdf"
)

func eqrAttrs() map[string]hdf.Value {
	return map[string]hdf.Value{
		"Image_projection":      hdf.TextValue("Equal Rectangular projection"),
		"Upper_left_longitude":  hdf.RealValue(120),
		"Upper_left_latitude":   hdf.RealValue(50),
		"Lower_right_longitude": hdf.RealValue(150),
		"Lower_right_latitude":  hdf.RealValue(20),
	}
}

// applyTransform maps pixel (col, row) through a GDAL-order geotransform.
func applyTransform(tr [6]float64, col, row float64) (x, y float64) {
	x = tr[0] + col*tr[1] + row*tr[2]
	y = tr[3] + col*tr[4] + row*tr[5]
	return x, y
}

func TestResolveEqualRectangular(t *testing.T) {
	proj, err := resolveEqualRectangular(eqrAttrs(), [2]int{300, 300})
	if err != nil {
		t.Fatalf("resolveEqualRectangular failed: %v", err)
	}

	if proj.Transform == nil {
		t.Fatal("expected an affine transform")
	}
	if proj.ControlPoints != nil {
		t.Fatal("equal rectangular must not produce control points")
	}
	if proj.CRS != crsWGS84 {
		t.Errorf("expected EPSG:4326, got %s", proj.CRS)
	}

	x, y := applyTransform(*proj.Transform, 0, 0)
	if x != 120 || y != 50 {
		t.Errorf("pixel (0,0) maps to (%g, %g), want (120, 50)", x, y)
	}

	x, y = applyTransform(*proj.Transform, 300, 300)
	if x != 150 || y != 20 {
		t.Errorf("pixel (300,300) maps to (%g, %g), want (150, 20)", x, y)
	}
}

func TestResolveEqualRectangularMissingCorner(t *testing.T) {
	attrs := eqrAttrs()
	delete(attrs, "Lower_right_latitude")

	_, err := resolveEqualRectangular(attrs, [2]int{300, 300})
	var structErr *StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected StructureError, got %v", err)
	}
}

func TestResolveEqualRectangularDeterministic(t *testing.T) {
	first, err := resolveEqualRectangular(eqrAttrs(), [2]int{300, 300})
	if err != nil {
		t.Fatalf("first resolution failed: %v", err)
	}
	second, err := resolveEqualRectangular(eqrAttrs(), [2]int{300, 300})
	if err != nil {
		t.Fatalf("second resolution failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolution is not deterministic: %+v vs %+v", first, second)
	}
}

func sampleGrid(rows, cols int, base float64) *Grid {
	data := make([][]float32, rows)
	for i := range data {
		data[i] = make([]float32, cols)
		for j := range data[i] {
			data[i][j] = float32(base + float64(i)*0.1 + float64(j)*0.01)
		}
	}
	g, _ := gridFrom(data)
	return g
}

func TestResolveReferenceGrid(t *testing.T) {
	lat := sampleGrid(10, 10, 30)
	lon := sampleGrid(10, 10, 130)

	proj, err := resolveReferenceGrid(lat, lon, [2]int{100, 100})
	if err != nil {
		t.Fatalf("resolveReferenceGrid failed: %v", err)
	}

	if proj.Transform != nil {
		t.Fatal("reference grid must not produce an affine transform")
	}
	if proj.CRS != crsWGS84 {
		t.Errorf("expected EPSG:4326, got %s", proj.CRS)
	}

	// Only sample indices divisible by the stride are emitted: for a 10x10
	// grid that is index 0 along each axis, a single point.
	if len(proj.ControlPoints) != 1 {
		t.Fatalf("expected 1 control point, got %d", len(proj.ControlPoints))
	}
	p := proj.ControlPoints[0]
	if p.Pixel != 0 || p.Line != 0 {
		t.Errorf("control point at pixel (%g, %g), want (0, 0)", p.Pixel, p.Line)
	}
	if p.Latitude != 30 || p.Longitude != 130 {
		t.Errorf("control point coords (%g, %g), want (130, 30)", p.Longitude, p.Latitude)
	}
}

func TestResolveReferenceGridScaling(t *testing.T) {
	// A 21x21 sample grid over a 200x400 target: samples at 0, 10, 20 per
	// axis, lines scaled by 200/20 and pixels by 400/20.
	lat := sampleGrid(21, 21, 30)
	lon := sampleGrid(21, 21, 130)

	proj, err := resolveReferenceGrid(lat, lon, [2]int{200, 400})
	if err != nil {
		t.Fatalf("resolveReferenceGrid failed: %v", err)
	}
	if len(proj.ControlPoints) != 9 {
		t.Fatalf("expected 9 control points, got %d", len(proj.ControlPoints))
	}

	for _, p := range proj.ControlPoints {
		wantLines := map[float64]bool{0: true, 100: true, 200: true}
		wantPixels := map[float64]bool{0: true, 200: true, 400: true}
		if !wantLines[p.Line] {
			t.Errorf("unexpected line %g", p.Line)
		}
		if !wantPixels[p.Pixel] {
			t.Errorf("unexpected pixel %g", p.Pixel)
		}
	}
}

func eqaAttrs() map[string]hdf.Value {
	return map[string]hdf.Value{
		"Image_projection":      hdf.TextValue("EQA (sinusoidal equal area) projection"),
		"Upper_left_longitude":  hdf.RealValue(120),
		"Upper_left_latitude":   hdf.RealValue(50),
		"Lower_right_longitude": hdf.RealValue(150),
		"Lower_right_latitude":  hdf.RealValue(20),
	}
}

func TestResolveSinusoidal(t *testing.T) {
	proj, err := resolveSinusoidal(eqaAttrs(), [2]int{300, 300})
	if err != nil {
		t.Fatalf("resolveSinusoidal failed: %v", err)
	}

	if proj.Transform == nil {
		t.Fatal("expected an affine transform")
	}
	if proj.ControlPoints != nil {
		t.Fatal("sinusoidal must not produce control points")
	}
	if proj.CRS != crsSinusoidal {
		t.Errorf("expected sinusoidal CRS, got %s", proj.CRS)
	}

	// North-up raster in projected meters: positive pixel width, negative
	// pixel height.
	if proj.Transform[1] <= 0 {
		t.Errorf("pixel width must be positive, got %g", proj.Transform[1])
	}
	if proj.Transform[5] >= 0 {
		t.Errorf("pixel height must be negative, got %g", proj.Transform[5])
	}
}

func TestResolveSinusoidalMissingCorner(t *testing.T) {
	attrs := eqaAttrs()
	delete(attrs, "Upper_left_longitude")

	_, err := resolveSinusoidal(attrs, [2]int{300, 300})
	var structErr *StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected StructureError, got %v", err)
	}
}

func TestResolveSinusoidalDeterministic(t *testing.T) {
	first, err := resolveSinusoidal(eqaAttrs(), [2]int{300, 300})
	if err != nil {
		t.Fatalf("first resolution failed: %v", err)
	}
	second, err := resolveSinusoidal(eqaAttrs(), [2]int{300, 300})
	if err != nil {
		t.Fatalf("second resolution failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolution is not deterministic: %+v vs %+v", first, second)
	}
}

func TestResolveReferenceGridShapeMismatch(t *testing.T) {
	lat := sampleGrid(10, 10, 30)
	lon := sampleGrid(10, 9, 130)

	_, err := resolveReferenceGrid(lat, lon, [2]int{100, 100})
	var structErr *StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected StructureError, got %v", err)
	}
}

func TestParseProjectionKind(t *testing.T) {
	tests := []struct {
		raw  string
		want ProjectionKind
	}{
		{"L1B reference grid", ReferenceGrid},
		{"EQA (sinusoidal equal area) projection", SinusoidalEqualArea},
		{"Equal Rectangular projection", EqualRectangular},
	}
	for _, tt := range tests {
		got, err := parseProjectionKind(tt.raw)
		if err != nil {
			t.Errorf("parseProjectionKind(%q) failed: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseProjectionKind(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseProjectionKindUnsupported(t *testing.T) {
	_, err := parseProjectionKind("Polar Stereographic projection")

	var unsupported *UnsupportedProjectionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedProjectionError, got %v", err)
	}
	if unsupported.Projection != "Polar Stereographic projection" {
		t.Errorf("error should carry the raw projection string, got %q", unsupported.Projection)
	}
}

func TestTransformFromBoundsNorthUp(t *testing.T) {
	tr := transformFromBounds(0, -10, 10, 0, [2]int{100, 50})

	if tr[1] <= 0 {
		t.Errorf("pixel width must be positive, got %g", tr[1])
	}
	if tr[5] >= 0 {
		t.Errorf("pixel height must be negative for north-up rasters, got %g", tr[5])
	}
	if tr[3] != 0 {
		t.Errorf("origin Y must be the north edge, got %g", tr[3])
	}
}

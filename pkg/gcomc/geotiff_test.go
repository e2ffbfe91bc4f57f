package gcomc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testBand(t *testing.T, name string, rows, cols int, errorValue *float64) *Band {
	t.Helper()
	data := make([][]uint16, rows)
	for i := range data {
		data[i] = make([]uint16, cols)
	}
	grid, ok := gridFrom(data)
	if !ok {
		t.Fatalf("failed to build %dx%d grid", rows, cols)
	}
	return &Band{
		Name:     name,
		Grid:     grid,
		Metadata: BandMetadata{ErrorValue: errorValue, Slope: 1},
	}
}

func f64(v float64) *float64 { return &v }

func TestWriteMultiBandShapeMismatch(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "mismatch.tif")
	proj := &ResolvedProjection{Kind: EqualRectangular, CRS: crsWGS84, Transform: &[6]float64{0, 1, 0, 0, 0, -1}}

	bands := []*Band{
		testBand(t, "a", 100, 100, nil),
		testBand(t, "b", 100, 99, nil),
	}

	err := WriteMultiBand(bands, proj, outputPath)
	var mismatch *ShapeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ShapeMismatchError, got %v", err)
	}
	if mismatch.Band != "b" {
		t.Errorf("error names band %q, want %q", mismatch.Band, "b")
	}

	// The check runs before any file is created.
	if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
		t.Errorf("no output file should exist, stat returned %v", statErr)
	}
}

func TestCommonNoData(t *testing.T) {
	tests := []struct {
		name   string
		values []*float64
		want   *float64
	}{
		{"all equal", []*float64{f64(5), f64(5), f64(5)}, f64(5)},
		{"disagreeing", []*float64{f64(5), f64(5), f64(7)}, nil},
		{"one absent", []*float64{f64(5), nil, f64(5)}, nil},
		{"all absent", []*float64{nil, nil}, nil},
		{"zero is a value", []*float64{f64(0), f64(0)}, f64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bands := make([]*Band, len(tt.values))
			for i, v := range tt.values {
				bands[i] = testBand(t, "b", 2, 2, v)
			}

			got := commonNoData(bands)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("expected no shared nodata, got %g", *got)
			case tt.want != nil && got == nil:
				t.Errorf("expected nodata %g, got none", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("nodata = %g, want %g", *got, *tt.want)
			}
		})
	}
}

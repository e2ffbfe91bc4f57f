package gcomc

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/airbusgeo/godal"
)

var registerDrivers sync.Once

// WriteSingleBand writes one band to a GeoTIFF at outputPath with the
// band's native element type, its nodata value if declared, and its
// scale/offset metadata.
func WriteSingleBand(band *Band, proj *ResolvedProjection, outputPath string) error {
	if band == nil || band.Grid == nil {
		return fmt.Errorf("no band to write")
	}
	return writeGeoTIFF(outputPath, []*Band{band}, band.Grid.DType(), proj, band.Metadata.ErrorValue)
}

// WriteMultiBand writes the bands to one GeoTIFF at outputPath, in input
// order. All bands must share a single shape; the element type is the
// smallest type that represents every band without loss. Nodata is written
// only when every band declares the same error value — inconsistent nodata
// is omitted entirely rather than written partially.
func WriteMultiBand(bands []*Band, proj *ResolvedProjection, outputPath string) error {
	if len(bands) == 0 {
		return fmt.Errorf("no bands to write")
	}

	want := bands[0].Grid.Shape()
	dt := bands[0].Grid.DType()
	for _, b := range bands[1:] {
		if got := b.Grid.Shape(); got != want {
			return &ShapeMismatchError{Band: b.Name, Got: got, Want: want}
		}
		dt = promote(dt, b.Grid.DType())
	}

	return writeGeoTIFF(outputPath, bands, dt, proj, commonNoData(bands))
}

// commonNoData returns the shared error value, or nil if any band declares
// none or the declared values disagree.
func commonNoData(bands []*Band) *float64 {
	first := bands[0].Metadata.ErrorValue
	if first == nil {
		return nil
	}
	for _, b := range bands[1:] {
		ev := b.Metadata.ErrorValue
		if ev == nil || *ev != *first {
			return nil
		}
	}
	v := *first
	return &v
}

// writeGeoTIFF produces one complete file or none: any failure after
// creation removes the partial output.
func writeGeoTIFF(outputPath string, bands []*Band, dt DType, proj *ResolvedProjection, nodata *float64) (err error) {
	registerDrivers.Do(func() { godal.RegisterInternalDrivers() })

	shape := bands[0].Grid.Shape()
	height, width := shape[0], shape[1]

	ds, err := godal.Create(godal.GTiff, outputPath, len(bands), dt.gdal(), width, height)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	committed := false
	defer func() {
		if !committed {
			ds.Close()
			os.Remove(outputPath)
		}
	}()

	if err := setGeoreferencing(ds, proj); err != nil {
		return err
	}

	dsBands := ds.Bands()
	for i, band := range bands {
		dst := dsBands[i]
		if nodata != nil {
			if err := dst.SetNoData(*nodata); err != nil {
				return fmt.Errorf("failed to set nodata on band %d: %w", i+1, err)
			}
		}
		if err := dst.SetScaleOffset(band.Metadata.Slope, band.Metadata.Offset); err != nil {
			return fmt.Errorf("failed to set scale/offset on band %d: %w", i+1, err)
		}
		if err := dst.Write(0, 0, band.Grid.flattenAs(dt), width, height); err != nil {
			return fmt.Errorf("failed to write band %d: %w", i+1, err)
		}
	}

	if err := ds.Close(); err != nil {
		os.Remove(outputPath)
		committed = true // already cleaned up
		return fmt.Errorf("failed to finalize %s: %w", outputPath, err)
	}
	committed = true
	return nil
}

// setGeoreferencing embeds either the affine transform or the control-point
// set, never both.
func setGeoreferencing(ds *godal.Dataset, proj *ResolvedProjection) error {
	sr, err := proj.CRS.spatialRef()
	if err != nil {
		return fmt.Errorf("failed to create CRS %s: %w", proj.CRS, err)
	}
	defer sr.Close()

	if proj.Transform != nil {
		if err := ds.SetGeoTransform(*proj.Transform); err != nil {
			return fmt.Errorf("failed to set geotransform: %w", err)
		}
		if err := ds.SetSpatialRef(sr); err != nil {
			return fmt.Errorf("failed to set CRS: %w", err)
		}
		return nil
	}

	gcps := make([]godal.GCP, len(proj.ControlPoints))
	for i, p := range proj.ControlPoints {
		gcps[i] = godal.GCP{
			PszId:      strconv.Itoa(i + 1),
			DfGCPPixel: p.Pixel,
			DfGCPLine:  p.Line,
			DfGCPX:     p.Longitude,
			DfGCPY:     p.Latitude,
		}
	}
	if err := ds.SetGCPs2(gcps, sr); err != nil {
		return fmt.Errorf("failed to set ground control points: %w", err)
	}
	return nil
}

package gcomc

import (
	"errors"
	"fmt"
	"path/filepath"
)

// SaveAsGeoTIFF writes datasets of the open file as single-band GeoTIFFs
// named {granuleID}-{dataset}.tif under outputDir, and returns the paths
// written. With no names given, every spatial dataset is converted and
// non-spatial datasets (time coordinates and the like) are skipped.
// Explicitly requested datasets must be spatial.
func (f *File) SaveAsGeoTIFF(outputDir string, names ...string) ([]string, error) {
	granule, err := f.GranuleID()
	if err != nil {
		return nil, err
	}

	explicit := len(names) > 0
	if !explicit {
		names, err = f.ImageDataNames()
		if err != nil {
			return nil, err
		}
	}

	// One resolution per distinct array shape; resolving is deterministic,
	// so the cache is purely to avoid re-reading geometry grids.
	projections := make(map[[2]int]*ResolvedProjection)

	var outputs []string
	for _, name := range names {
		band, err := f.Band(name)
		if err != nil {
			if !explicit && errors.Is(err, errNotSpatial) {
				continue
			}
			return outputs, err
		}

		shape := band.Grid.Shape()
		proj, ok := projections[shape]
		if !ok {
			proj, err = f.ResolveProjection(shape)
			if err != nil {
				return outputs, err
			}
			projections[shape] = proj
		}

		outputPath := filepath.Join(outputDir, fmt.Sprintf("%s-%s.tif", granule, name))
		if err := WriteSingleBand(band, proj, outputPath); err != nil {
			return outputs, err
		}
		outputs = append(outputs, outputPath)
	}

	return outputs, nil
}

// SaveAsMultibandGeoTIFF writes the named datasets of the open file into
// one multiband GeoTIFF, bands in the given order. An empty outputPath
// defaults to {granuleID}.tif in the current directory. The written path is
// returned.
func (f *File) SaveAsMultibandGeoTIFF(outputPath string, names []string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("no datasets given")
	}

	bands := make([]*Band, 0, len(names))
	for _, name := range names {
		band, err := f.Band(name)
		if err != nil {
			return "", err
		}
		bands = append(bands, band)
	}

	proj, err := f.ResolveProjection(bands[0].Grid.Shape())
	if err != nil {
		return "", err
	}

	if outputPath == "" {
		granule, err := f.GranuleID()
		if err != nil {
			return "", err
		}
		outputPath = granule + ".tif"
	}

	if err := WriteMultiBand(bands, proj, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

// ConvertToGeoTIFF opens a GCOM-C file, converts datasets to single-band
// GeoTIFFs under outputDir, and closes the file on every path.
func ConvertToGeoTIFF(inputPath, outputDir string, names ...string) ([]string, error) {
	f, err := Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.SaveAsGeoTIFF(outputDir, names...)
}

// ConvertToMultibandGeoTIFF opens a GCOM-C file, converts the named
// datasets into one multiband GeoTIFF, and closes the file on every path.
func ConvertToMultibandGeoTIFF(inputPath, outputPath string, names []string) (string, error) {
	f, err := Open(inputPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return f.SaveAsMultibandGeoTIFF(outputPath, names)
}

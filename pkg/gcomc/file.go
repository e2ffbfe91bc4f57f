// Package gcomc reads GCOM-C SGLI HDF5 products and converts them to
// georeferenced GeoTIFF rasters.
//
// A product file carries three top-level groups: Global_attributes,
// Geometry_data, and Image_data. Image_data holds the named 2-D bands;
// Geometry_data holds the projection attributes and, for L1B granules, the
// lower-resolution latitude/longitude sample grids used for ground control
// points.
package gcomc

import (
	"errors"
	"fmt"
	"path"
	"sort"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/hdf5"
	"github.com/sankichi92/gportal-go/pkg/hdf"
)

// gcomcSatellite is the value of the Satellite global attribute that marks
// a file as part of the expected sensor family.
const gcomcSatellite = "Global Change Observation Mission - Climate (GCOM-C)"

var errNotSpatial = errors.New("dataset is not a 2-D image")

// BandMetadata carries the radiometric metadata of one band. Values are
// written as raster metadata, never applied to pixels.
type BandMetadata struct {
	// ErrorValue is the nodata sentinel. nil means the band declares no
	// error value, which is different from an error value of 0.
	ErrorValue *float64
	// Offset is the additive radiometric correction, default 0.
	Offset float64
	// Slope is the multiplicative radiometric correction, default 1.
	Slope float64
}

// Band is one spatial dataset of a product file.
type Band struct {
	Name     string
	Grid     *Grid
	Metadata BandMetadata
}

// File is an open GCOM-C product. It is not safe for concurrent use of a
// single handle; run parallel conversions with one File each.
type File struct {
	path     string
	root     api.Group
	global   api.Group
	geometry api.Group
	image    api.Group
	closed   bool
}

// Open opens a GCOM-C HDF5 file. It fails with a FormatError if the
// container lacks the Global_attributes or Geometry_data group, or if the
// Satellite attribute does not declare GCOM-C. No handle is left open on
// failure.
func Open(filePath string) (*File, error) {
	root, err := hdf5.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}

	global, err := root.GetGroup("Global_attributes")
	if err != nil {
		root.Close()
		return nil, &FormatError{Path: filePath, Reason: "missing Global_attributes group"}
	}

	geometry, err := root.GetGroup("Geometry_data")
	if err != nil {
		global.Close()
		root.Close()
		return nil, &FormatError{Path: filePath, Reason: "missing Geometry_data group"}
	}

	sat := hdf.Normalize(attrValue(global.Attributes(), "Satellite"))
	if text, ok := sat.Text(); !ok || text != gcomcSatellite {
		geometry.Close()
		global.Close()
		root.Close()
		return nil, &FormatError{Path: filePath, Reason: fmt.Sprintf("Satellite attribute is %s", sat)}
	}

	return &File{path: filePath, root: root, global: global, geometry: geometry}, nil
}

// Close releases the underlying file handle. It is idempotent.
func (f *File) Close() {
	if f.closed {
		return
	}
	f.closed = true
	if f.image != nil {
		f.image.Close()
	}
	f.geometry.Close()
	f.global.Close()
	f.root.Close()
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// GlobalAttributes returns the normalized Global_attributes set.
func (f *File) GlobalAttributes() map[string]hdf.Value {
	return attrMap(f.global.Attributes())
}

// GeometryAttributes returns the normalized Geometry_data attribute set.
func (f *File) GeometryAttributes() map[string]hdf.Value {
	return attrMap(f.geometry.Attributes())
}

// GranuleID is the filename stem of the Product_file_name attribute. Every
// output raster is named after it.
func (f *File) GranuleID() (string, error) {
	v := hdf.Normalize(attrValue(f.global.Attributes(), "Product_file_name"))
	name, ok := v.Text()
	if !ok || name == "" {
		return "", &StructureError{Node: "Global_attributes/Product_file_name", Detail: "attribute missing or not text"}
	}
	return granuleIDFromFileName(name), nil
}

// ImageDataNames returns the names of the datasets in Image_data, sorted.
func (f *File) ImageDataNames() ([]string, error) {
	img, err := f.imageGroup()
	if err != nil {
		return nil, err
	}
	names := img.ListVariables()
	sort.Strings(names)
	return names, nil
}

// Band reads one Image_data dataset together with its radiometric
// metadata. Datasets that are not 2-D numeric arrays are rejected.
func (f *File) Band(name string) (*Band, error) {
	img, err := f.imageGroup()
	if err != nil {
		return nil, err
	}
	v, err := img.GetVariable(name)
	if err != nil {
		return nil, &StructureError{Node: "Image_data/" + name, Detail: "dataset not found"}
	}
	grid, ok := gridFrom(v.Values)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errNotSpatial)
	}
	return &Band{Name: name, Grid: grid, Metadata: bandMetadata(v.Attributes)}, nil
}

// geometryGrid reads a Geometry_data array such as Latitude or Longitude.
func (f *File) geometryGrid(name string) (*Grid, error) {
	v, err := f.geometry.GetVariable(name)
	if err != nil {
		return nil, &StructureError{Node: "Geometry_data/" + name, Detail: "dataset not found"}
	}
	grid, ok := gridFrom(v.Values)
	if !ok {
		return nil, &StructureError{Node: "Geometry_data/" + name, Detail: "not a 2-D numeric array"}
	}
	return grid, nil
}

func (f *File) imageGroup() (api.Group, error) {
	if f.image != nil {
		return f.image, nil
	}
	img, err := f.root.GetGroup("Image_data")
	if err != nil {
		for _, v := range f.root.ListVariables() {
			if v == "Image_data" {
				return nil, &StructureError{Node: "Image_data", Detail: "expected a group, found a dataset"}
			}
		}
		return nil, &StructureError{Node: "Image_data", Detail: "group not found"}
	}
	f.image = img
	return img, nil
}

func bandMetadata(attrs api.AttributeMap) BandMetadata {
	meta := BandMetadata{Slope: 1}

	if ev, ok := hdf.Normalize(attrValue(attrs, "Error_DN")).Float(); ok {
		meta.ErrorValue = &ev
	}
	if offset, ok := hdf.Normalize(attrValue(attrs, "Offset")).Float(); ok {
		meta.Offset = offset
	}
	if slope, ok := hdf.Normalize(attrValue(attrs, "Slope")).Float(); ok {
		meta.Slope = slope
	}

	return meta
}

func attrValue(attrs api.AttributeMap, key string) any {
	if attrs == nil {
		return nil
	}
	raw, ok := attrs.Get(key)
	if !ok {
		return nil
	}
	return raw
}

func attrMap(attrs api.AttributeMap) map[string]hdf.Value {
	out := make(map[string]hdf.Value)
	if attrs == nil {
		return out
	}
	for _, key := range attrs.Keys() {
		raw, _ := attrs.Get(key)
		out[key] = hdf.Normalize(raw)
	}
	return out
}

func granuleIDFromFileName(name string) string {
	base := path.Base(name)
	return base[:len(base)-len(path.Ext(base))]
}

package gcomc

import "fmt"

// FormatError reports that a file is not a GCOM-C product: the container
// lacks a required top-level group or declares a different satellite.
// It is fatal to Open.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: not a GCOM-C file: %s", e.Path, e.Reason)
}

// StructureError reports that an expected container node is missing or is
// not of the expected kind, e.g. a dataset where a group was expected. It
// indicates a corrupt or unsupported file variant.
type StructureError struct {
	Node   string
	Detail string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("unexpected structure at %q: %s", e.Node, e.Detail)
}

// UnsupportedProjectionError reports an Image_projection value outside the
// three known encodings. It carries the raw attribute string for
// diagnostics and is never silently defaulted.
type UnsupportedProjectionError struct {
	Projection string
}

func (e *UnsupportedProjectionError) Error() string {
	return fmt.Sprintf("unsupported projection %q", e.Projection)
}

// ShapeMismatchError reports that the bands of a multiband write do not
// share a single shape. It is raised before any output is created.
type ShapeMismatchError struct {
	Band string
	Got  [2]int
	Want [2]int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("band %q has shape %dx%d, want %dx%d",
		e.Band, e.Got[0], e.Got[1], e.Want[0], e.Want[1])
}

package gportal

import "errors"

var (
	// ErrMissingSourceURL is returned when a product record carries no
	// downloadable file reference.
	ErrMissingSourceURL = errors.New("product has no source URL")

	// ErrNoMorePages is returned by Pager.Next after the last page has
	// been consumed.
	ErrNoMorePages = errors.New("no more pages")
)

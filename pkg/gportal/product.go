package gportal

import "strings"

// downloadPrefix is stripped from product file URLs to obtain the path on
// the SFTP server.
const downloadPrefix = "https://gportal.jaxa.jp/download/"

// ID returns the product identifier.
func (p *Product) ID() string {
	return p.Properties.Identifier
}

// DatasetID returns the dataset the product belongs to.
func (p *Product) DatasetID() string {
	return p.Properties.GPP.DatasetID.String()
}

// StartTime returns the observation start time as reported by the
// catalogue.
func (p *Product) StartTime() string {
	return p.Properties.BeginPosition
}

// EndTime returns the observation end time as reported by the catalogue.
func (p *Product) EndTime() string {
	return p.Properties.EndPosition
}

// DataURL returns the download URL of the product file, or an empty string
// when the record carries none.
func (p *Product) DataURL() string {
	return p.Properties.Product.FileName
}

// DataPath returns the product file path on the SFTP server. It fails with
// ErrMissingSourceURL when the record has no downloadable file.
func (p *Product) DataPath() (string, error) {
	dataURL := p.DataURL()
	if dataURL == "" {
		return "", ErrMissingSourceURL
	}
	return strings.TrimPrefix(dataURL, downloadPrefix), nil
}

// ThumbnailURL returns the URL of the thumbnail browse image, or an empty
// string when the record has none.
func (p *Product) ThumbnailURL() string {
	for _, browse := range p.Properties.Browse {
		if browse.Type == "THUMBNAIL" {
			return browse.FileName
		}
	}
	return ""
}

// FlattenedProperties returns the product metadata as a flat map: the
// nested product block is prefixed with "product", browse images keyed by
// their lowercased type, and the gpp block merged in. Useful for feeding
// tabular consumers.
func (p *Product) FlattenedProperties() map[string]any {
	flat := map[string]any{
		"identifier":    p.Properties.Identifier,
		"beginPosition": p.Properties.BeginPosition,
		"endPosition":   p.Properties.EndPosition,
		"datasetId":     p.Properties.GPP.DatasetID.String(),
	}

	if p.Properties.Product.FileName != "" {
		flat["productFileName"] = p.Properties.Product.FileName
	}
	if size := p.Properties.Product.Size.String(); size != "" {
		flat["productSize"] = size
	}

	for _, browse := range p.Properties.Browse {
		if browse.Type != "" && browse.FileName != "" {
			flat[strings.ToLower(browse.Type)] = browse.FileName
		}
	}

	return flat
}

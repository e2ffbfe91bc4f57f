package gportal

import (
	"fmt"
	"time"

	"github.com/planetlabs/go-stac"
)

// gportalTimeLayouts are the observation-time formats seen in catalogue
// responses.
var gportalTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
}

// ParseTime parses an observation time from a catalogue record.
func ParseTime(value string) (time.Time, error) {
	for _, layout := range gportalTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", value)
}

// ToSTACItem converts a product record to a STAC Item for interchange with
// STAC-speaking tools. collectionID may be empty.
func (p *Product) ToSTACItem(collectionID, stacVersion string) (*stac.Item, error) {
	if p.ID() == "" {
		return nil, fmt.Errorf("product has no identifier")
	}

	item := &stac.Item{
		Version:    stacVersion,
		Id:         p.ID(),
		Collection: collectionID,
		Properties: make(map[string]any),
		Assets:     make(map[string]*stac.Asset),
		Links:      make([]*stac.Link, 0),
	}

	if len(p.Geometry) > 0 {
		item.Geometry = p.Geometry
	}

	// STAC requires either datetime or a start/end pair; observations are
	// ranges, so datetime stays null.
	item.Properties["datetime"] = nil
	if p.StartTime() != "" {
		t, err := ParseTime(p.StartTime())
		if err != nil {
			return nil, fmt.Errorf("failed to parse start time: %w", err)
		}
		item.Properties["start_datetime"] = t
	}
	if p.EndTime() != "" {
		t, err := ParseTime(p.EndTime())
		if err != nil {
			return nil, fmt.Errorf("failed to parse end time: %w", err)
		}
		item.Properties["end_datetime"] = t
	}

	item.Properties["platform"] = "gcom-c"
	item.Properties["instruments"] = []string{"sgli"}
	if datasetID := p.DatasetID(); datasetID != "" {
		item.Properties["gportal:dataset_id"] = datasetID
	}

	if dataURL := p.DataURL(); dataURL != "" {
		item.Assets["data"] = &stac.Asset{
			Href:  dataURL,
			Type:  "application/x-hdf5",
			Title: "Product file",
			Roles: []string{"data"},
		}
	}
	if thumbnail := p.ThumbnailURL(); thumbnail != "" {
		item.Assets["thumbnail"] = &stac.Asset{
			Href:  thumbnail,
			Type:  "image/png",
			Title: "Thumbnail",
			Roles: []string{"thumbnail"},
		}
	}

	return item, nil
}

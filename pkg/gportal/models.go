package gportal

import "encoding/json"

// FeatureCollection is one page of catalogue results, a GeoJSON
// FeatureCollection with paging counters in its top-level properties.
type FeatureCollection struct {
	Type       string         `json:"type"`
	Properties PageProperties `json:"properties"`
	Features   []*Product     `json:"features"`
}

// PageProperties carries the CSW paging counters.
type PageProperties struct {
	NumberOfRecordsMatched  int `json:"numberOfRecordsMatched"`
	NumberOfRecordsReturned int `json:"numberOfRecordsReturned"`
}

// Product represents a product record in search results.
type Product struct {
	Type       string            `json:"type"`
	Geometry   json.RawMessage   `json:"geometry"`
	Properties ProductProperties `json:"properties"`
}

// ProductProperties is the metadata associated with a product record.
type ProductProperties struct {
	Identifier    string       `json:"identifier"`
	BeginPosition string       `json:"beginPosition"`
	EndPosition   string       `json:"endPosition"`
	GPP           GPPInfo      `json:"gpp"`
	Product       ProductInfo  `json:"product"`
	Browse        []BrowseInfo `json:"browse"`
}

// GPPInfo is the G-Portal-specific property block.
type GPPInfo struct {
	DatasetID json.Number `json:"datasetId"`
}

// ProductInfo describes the downloadable product file.
type ProductInfo struct {
	FileName string      `json:"fileName"`
	Size     json.Number `json:"size"`
}

// BrowseInfo is one browse image reference.
type BrowseInfo struct {
	Type     string `json:"type"`
	FileName string `json:"fileName"`
}

package gportal

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultCount is the number of products per page when none is given.
const DefaultCount = 100

// SearchParams represents parameters for a G-Portal catalogue query.
type SearchParams struct {
	// DatasetIDs filters by dataset. IDs come from the dataset taxonomy.
	DatasetIDs []string

	// BBox is the bounding box of coordinates as [west, south, east,
	// north].
	BBox []float64

	// Start and End bound the observation time (inclusive).
	Start *time.Time
	End   *time.Time

	// Count is the number of products per page; DefaultCount when zero.
	Count int

	// Extra carries additional search parameters from the G-Portal User's
	// Manual, passed through verbatim.
	Extra map[string]string
}

// ToURLValues converts the parameters to url.Values for query building.
func (p *SearchParams) ToURLValues() url.Values {
	values := url.Values{}

	for key, value := range p.Extra {
		values.Set(key, value)
	}

	if len(p.DatasetIDs) > 0 {
		values.Set("datasetId", strings.Join(p.DatasetIDs, ","))
	}

	if len(p.BBox) > 0 {
		coords := make([]string, len(p.BBox))
		for i, c := range p.BBox {
			coords[i] = strconv.FormatFloat(c, 'f', -1, 64)
		}
		values.Set("bbox", strings.Join(coords, ","))
	}

	if p.Start != nil {
		values.Set("startTime", p.Start.Format(time.RFC3339))
	}
	if p.End != nil {
		values.Set("endTime", p.End.Format(time.RFC3339))
	}

	count := p.Count
	if count <= 0 {
		count = DefaultCount
	}
	values.Set("count", strconv.Itoa(count))

	return values
}

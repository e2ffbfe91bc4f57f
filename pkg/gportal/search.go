package gportal

import (
	"context"
	"net/url"
	"strconv"
)

// Search is a deferred catalogue query. It performs no request until
// Matched, Products, or a Pager is consumed.
type Search struct {
	client  *Client
	params  SearchParams
	matched *int
}

// Matched returns the number of products matching the query without
// fetching any records. The result is cached, so repeated calls are cheap.
func (s *Search) Matched(ctx context.Context) (int, error) {
	if s.matched != nil {
		return *s.matched, nil
	}

	overrides := url.Values{}
	overrides.Set("count", "0")
	page, err := s.client.getRecords(ctx, s.params, overrides)
	if err != nil {
		return 0, err
	}

	matched := page.Properties.NumberOfRecordsMatched
	s.matched = &matched
	return matched, nil
}

// Products fetches every page of the query and returns the collected
// product records.
func (s *Search) Products(ctx context.Context) ([]*Product, error) {
	var products []*Product

	pager := s.Pager()
	for pager.More() {
		page, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		products = append(products, page.Features...)
	}

	return products, nil
}

// Pager starts paginated iteration over the query results.
func (s *Search) Pager() *Pager {
	// CSW startIndex is 1-based.
	return &Pager{search: s, startIndex: 1}
}

// Pager iterates a search request page by page.
type Pager struct {
	search     *Search
	startIndex int
	done       bool
}

// More reports whether another page remains.
func (p *Pager) More() bool {
	return !p.done
}

// Next fetches the next page and advances the cursor by the number of
// records returned. After the last page it returns ErrNoMorePages.
func (p *Pager) Next(ctx context.Context) (*FeatureCollection, error) {
	if p.done {
		return nil, ErrNoMorePages
	}

	overrides := url.Values{}
	overrides.Set("startIndex", strconv.Itoa(p.startIndex))
	page, err := p.search.client.getRecords(ctx, p.search.params, overrides)
	if err != nil {
		return nil, err
	}

	returned := page.Properties.NumberOfRecordsReturned
	p.startIndex += returned
	if returned == 0 || p.startIndex > page.Properties.NumberOfRecordsMatched {
		p.done = true
	}

	return page, nil
}

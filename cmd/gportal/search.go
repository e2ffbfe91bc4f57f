package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sankichi92/gportal-go/internal/config"
	"github.com/sankichi92/gportal-go/pkg/gportal"
)

func runSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	datasets := fs.String("dataset", "", "comma-separated dataset IDs")
	bbox := fs.String("bbox", "", "bounding box as west,south,east,north")
	start := fs.String("start", "", "observation start time (RFC 3339)")
	end := fs.String("end", "", "observation end time (RFC 3339)")
	count := fs.Int("count", gportal.DefaultCount, "products per page")
	matchedOnly := fs.Bool("matched-only", false, "print the match count and exit")
	asSTAC := fs.Bool("stac", false, "print products as STAC Items")
	collection := fs.String("collection", "", "collection ID for STAC output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params, err := buildSearchParams(*datasets, *bbox, *start, *end, *count)
	if err != nil {
		return err
	}

	client := gportal.NewClient(cfg.Catalogue.BaseURL, cfg.Catalogue.Timeout).WithLogger(logger)
	search := client.Search(params)

	if *matchedOnly {
		matched, err := search.Matched(ctx)
		if err != nil {
			return err
		}
		fmt.Println(matched)
		return nil
	}

	products, err := search.Products(ctx)
	if err != nil {
		return err
	}
	logger.Info("search finished", "products", len(products))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *asSTAC {
		for _, product := range products {
			item, err := product.ToSTACItem(*collection, "1.0.0")
			if err != nil {
				return fmt.Errorf("failed to convert %s: %w", product.ID(), err)
			}
			if err := enc.Encode(item); err != nil {
				return err
			}
		}
		return nil
	}

	for _, product := range products {
		if err := enc.Encode(product.FlattenedProperties()); err != nil {
			return err
		}
	}
	return nil
}

func buildSearchParams(datasets, bbox, start, end string, count int) (gportal.SearchParams, error) {
	params := gportal.SearchParams{Count: count}

	if datasets != "" {
		params.DatasetIDs = strings.Split(datasets, ",")
	}

	if bbox != "" {
		parts := strings.Split(bbox, ",")
		if len(parts) != 4 {
			return params, fmt.Errorf("bbox must have 4 coordinates, got %d", len(parts))
		}
		coords := make([]float64, 4)
		for i, part := range parts {
			c, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return params, fmt.Errorf("invalid bbox coordinate %q: %w", part, err)
			}
			coords[i] = c
		}
		params.BBox = coords
	}

	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return params, fmt.Errorf("invalid start time: %w", err)
		}
		params.Start = &t
	}
	if end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return params, fmt.Errorf("invalid end time: %w", err)
		}
		params.End = &t
	}

	return params, nil
}

func runDatasets(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("datasets", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client := gportal.NewClient(cfg.Catalogue.BaseURL, cfg.Catalogue.Timeout).WithLogger(logger)
	datasets, err := client.Datasets(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(datasets)
}

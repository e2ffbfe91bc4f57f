package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sankichi92/gportal-go/internal/config"
	"github.com/sankichi92/gportal-go/pkg/gcomc"
)

func runConvert(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	dir := fs.String("dir", ".", "output directory for single-band GeoTIFFs")
	datasets := fs.String("dataset", "", "comma-separated dataset names (default: all spatial datasets)")
	multiband := fs.String("multiband", "", "write the named datasets into one multiband GeoTIFF at this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputPaths := fs.Args()
	if len(inputPaths) == 0 {
		return fmt.Errorf("no input files given")
	}

	var names []string
	if *datasets != "" {
		names = strings.Split(*datasets, ",")
	}

	if *multiband != "" {
		if len(inputPaths) != 1 {
			return fmt.Errorf("multiband conversion takes exactly one input file, got %d", len(inputPaths))
		}
		if len(names) == 0 {
			return fmt.Errorf("multiband conversion requires -dataset")
		}
		outputPath, err := gcomc.ConvertToMultibandGeoTIFF(inputPaths[0], *multiband, names)
		if err != nil {
			return err
		}
		logger.Info("converted", "input", inputPaths[0], "output", outputPath, "bands", len(names))
		fmt.Println(outputPath)
		return nil
	}

	for _, inputPath := range inputPaths {
		if err := ctx.Err(); err != nil {
			return err
		}
		outputs, err := gcomc.ConvertToGeoTIFF(inputPath, *dir, names...)
		if err != nil {
			return fmt.Errorf("failed to convert %s: %w", inputPath, err)
		}
		logger.Info("converted", "input", inputPath, "outputs", len(outputs))
		for _, output := range outputs {
			fmt.Println(output)
		}
	}
	return nil
}

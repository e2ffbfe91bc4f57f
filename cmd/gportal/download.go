package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/sankichi92/gportal-go/internal/config"
	"github.com/sankichi92/gportal-go/pkg/transfer"
)

func runDownload(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	dir := fs.String("dir", ".", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remotePaths := fs.Args()
	if len(remotePaths) == 0 {
		return fmt.Errorf("no remote paths given")
	}

	if cfg.SFTP.Username == "" || cfg.SFTP.Password == "" {
		return fmt.Errorf("GPORTAL_SFTP_USERNAME and GPORTAL_SFTP_PASSWORD are required for download")
	}

	client, err := transfer.Connect(transfer.Options{
		Addr:     cfg.SFTP.Address(),
		Username: cfg.SFTP.Username,
		Password: cfg.SFTP.Password,
		Timeout:  cfg.SFTP.Timeout,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	localPaths, err := client.Download(remotePaths, *dir)
	if err != nil {
		return err
	}

	logger.Info("download finished", "files", len(localPaths), "dir", *dir)
	for _, localPath := range localPaths {
		fmt.Println(localPath)
	}
	return nil
}

// Package transfer downloads product files from the G-Portal SFTP server.
package transfer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// DefaultAddr is the G-Portal SFTP endpoint. Registered users authenticate
// with their account name and password.
const DefaultAddr = "ftp.gportal.jaxa.jp:2051"

// Client is a connection to the G-Portal SFTP server.
type Client struct {
	conn   *ssh.Client
	sftp   *sftp.Client
	logger *slog.Logger
}

// Options configures an SFTP connection.
type Options struct {
	// Addr is the host:port of the server; DefaultAddr when empty.
	Addr string

	// Username and Password are the G-Portal account credentials.
	Username string
	Password string

	// Timeout bounds the TCP connection attempt.
	Timeout time.Duration

	// Logger receives download progress; slog.Default() when nil.
	Logger *slog.Logger
}

// Connect dials the SFTP server and authenticates.
func Connect(opts Options) (*Client, error) {
	addr := opts.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	config := &ssh.ClientConfig{
		User:            opts.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(opts.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         opts.Timeout,
	}

	conn, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to start sftp session: %w", err)
	}

	return &Client{conn: conn, sftp: client, logger: logger}, nil
}

// Close terminates the SFTP session and the underlying connection.
func (c *Client) Close() error {
	sftpErr := c.sftp.Close()
	connErr := c.conn.Close()
	if sftpErr != nil {
		return sftpErr
	}
	return connErr
}

// List returns the sorted entry names under the given directory.
// Directories carry a trailing slash.
func (c *Client) List(dir string) ([]string, error) {
	entries, err := c.sftp.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Download fetches each remote path into localDir, keeping the remote base
// name, and returns the local paths written. A failed file removes its
// partial output before returning.
func (c *Client) Download(remotePaths []string, localDir string) ([]string, error) {
	localPaths := make([]string, 0, len(remotePaths))
	for _, remotePath := range remotePaths {
		localPath := filepath.Join(localDir, path.Base(remotePath))
		if err := c.downloadFile(remotePath, localPath); err != nil {
			return localPaths, err
		}
		localPaths = append(localPaths, localPath)
	}
	return localPaths, nil
}

func (c *Client) downloadFile(remotePath, localPath string) error {
	src, err := c.sftp.Open(remotePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", remotePath, err)
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}

	c.logger.Info("downloading", "remote", remotePath, "local", localPath)

	written, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		os.Remove(localPath)
		return fmt.Errorf("failed to download %s: %w", remotePath, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(localPath)
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	c.logger.Info("downloaded", "local", localPath, "bytes", written)
	return nil
}

package sftp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// ErrNotConnected is returned for any remote operation attempted while
// no session is active.
var ErrNotConnected = errors.New("not connected to remote host")

// Client wraps an SFTP session over an established SSH connection.
type Client struct {
	sftpClient *sftp.Client
}

// FileInfo describes one remote file or directory.
type FileInfo struct {
	Name    string
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
	IsDir   bool
}

// NewClient creates an SFTP client from an existing SSH connection.
func NewClient(sshClient *ssh.Client) (*Client, error) {
	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create SFTP client: %w", err)
	}
	return &Client{sftpClient: sftpClient}, nil
}

// List lists files in a remote directory.
func (c *Client) List(path string) ([]FileInfo, error) {
	entries, err := c.sftpClient.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Size:    entry.Size(),
			Mode:    entry.Mode(),
			ModTime: entry.ModTime(),
			IsDir:   entry.IsDir(),
		})
	}
	return files, nil
}

// Open opens a remote file for reading.
func (c *Client) Open(path string) (io.ReadCloser, error) {
	f, err := c.sftpClient.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file: %w", err)
	}
	return f, nil
}

// Create creates (or truncates) a remote file for writing.
func (c *Client) Create(path string) (io.WriteCloser, error) {
	f, err := c.sftpClient.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote file: %w", err)
	}
	return f, nil
}

// Stat gets remote file info.
func (c *Client) Stat(path string) (*FileInfo, error) {
	info, err := c.sftpClient.Stat(path)
	if err != nil {
		return nil, err
	}
	return &FileInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// Mkdir creates a remote directory. An already existing directory is
// not an error; the executor re-creates destination trees freely.
func (c *Client) Mkdir(path string) error {
	if err := c.sftpClient.Mkdir(path); err != nil {
		if stat, statErr := c.sftpClient.Stat(path); statErr == nil && stat.IsDir() {
			return nil
		}
		return err
	}
	return nil
}

// Getwd returns the session's working directory.
func (c *Client) Getwd() (string, error) {
	return c.sftpClient.Getwd()
}

// Close closes the SFTP session.
func (c *Client) Close() error {
	return c.sftpClient.Close()
}

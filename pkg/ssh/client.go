package ssh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Client holds one SSH connection.
type Client struct {
	config    *Config
	client    *ssh.Client
	mu        sync.Mutex
	connected bool
}

// NewClient creates an unconnected client for config.
func NewClient(config *Config) *Client {
	return &Client{config: config}
}

// getHostKeyCallback returns a host key verification callback backed by
// ~/.ssh/known_hosts, creating the file if needed.
func getHostKeyCallback() ssh.HostKeyCallback {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ssh.InsecureIgnoreHostKey()
	}

	sshDir := filepath.Join(homeDir, ".ssh")
	if _, err := os.Stat(sshDir); os.IsNotExist(err) {
		os.MkdirAll(sshDir, 0700)
	}

	knownHostsPath := filepath.Join(sshDir, "known_hosts")
	if _, err := os.Stat(knownHostsPath); os.IsNotExist(err) {
		f, err := os.OpenFile(knownHostsPath, os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return ssh.InsecureIgnoreHostKey()
		}
		f.Close()
	}

	hostKeyCallback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return ssh.InsecureIgnoreHostKey()
	}
	return hostKeyCallback
}

// Connect establishes the SSH connection.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.config.Validate(); err != nil {
		return fmt.Errorf("%w: invalid config: %v", ErrConnect, err)
	}

	auth, cleanup, err := c.config.authMethod()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	sshConfig := &ssh.ClientConfig{
		User:            c.config.Username,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: getHostKeyCallback(),
		Timeout:         30 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)
	client, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		if isAuthFailure(err) {
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	c.client = client
	c.connected = true
	return nil
}

// isAuthFailure distinguishes rejected credentials from transport
// failures. x/crypto/ssh does not export the auth error from Dial, so
// match on the stable message.
func isAuthFailure(err error) bool {
	return strings.Contains(err.Error(), "unable to authenticate")
}

// Raw returns the underlying SSH client for SFTP usage.
func (c *Client) Raw() *ssh.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// IsConnected returns true if connected.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = false
	if c.client != nil {
		err := c.client.Close()
		c.client = nil
		return err
	}
	return nil
}

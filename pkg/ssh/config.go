package ssh

import (
	"errors"
	"fmt"
	"net"
	"os"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// ErrAuth marks a connect attempt rejected during authentication.
var ErrAuth = errors.New("authentication failed")

// ErrConnect marks a connect attempt that failed before or outside
// authentication (unreachable host, handshake failure, bad config).
var ErrConnect = errors.New("connection failed")

// Config describes one SSH connection target.
type Config struct {
	Host         string
	Port         int
	Username     string
	IdentityFile string // path to a private key file
	Password     string // collected interactively; used only when no agent or key applies
}

// Validate checks the configuration before dialing.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("invalid port number")
	}
	if c.Username == "" {
		return errors.New("username is required")
	}
	return nil
}

// AgentAvailable reports whether an SSH agent socket is reachable.
func AgentAvailable() bool {
	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return false
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// NeedsPassword reports whether connecting with this config will
// require an interactive password: no reachable agent and no key file.
func (c *Config) NeedsPassword() bool {
	return !AgentAvailable() && c.IdentityFile == ""
}

// authMethod picks exactly one authentication method: an agent-provided
// identity if an agent is reachable, else the configured key file, else
// the interactive password. The chosen method is final for the attempt;
// there is no fallback chaining across methods.
func (c *Config) authMethod() (ssh.AuthMethod, func(), error) {
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			ag := agent.NewClient(conn)
			closeFn := func() { conn.Close() }
			return ssh.PublicKeysCallback(ag.Signers), closeFn, nil
		}
	}

	if c.IdentityFile != "" {
		key, err := os.ReadFile(c.IdentityFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read private key %s: %w", c.IdentityFile, err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse private key %s: %w", c.IdentityFile, err)
		}
		return ssh.PublicKeys(signer), nil, nil
	}

	if c.Password != "" {
		return ssh.Password(c.Password), nil, nil
	}

	return nil, nil, errors.New("no usable authentication method (no agent, key file, or password)")
}

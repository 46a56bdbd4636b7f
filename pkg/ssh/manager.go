package ssh

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/sftui/sftui/pkg/sftp"
	"github.com/sftui/sftui/pkg/sshconfig"
)

// Manager owns the single active remote session. Switching hosts fully
// tears down the previous session before the new connect attempt; at no
// point are two sessions alive concurrently.
type Manager struct {
	mu      sync.Mutex
	hosts   []sshconfig.Host
	client  *Client
	session *sftp.Client
	active  *sshconfig.Host
}

// NewManager creates a manager over the known host records.
func NewManager(hosts []sshconfig.Host) *Manager {
	return &Manager{hosts: hosts}
}

// Hosts returns the known host records, in config order.
func (m *Manager) Hosts() []sshconfig.Host {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hosts
}

// ActiveHost returns the connected host record, or nil.
func (m *Manager) ActiveHost() *sshconfig.Host {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Connected reports whether a session is live.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// ConfigFor builds the dial config for a host record.
func ConfigFor(host sshconfig.Host, password string) *Config {
	return &Config{
		Host:         host.Addr(),
		Port:         host.EffectivePort(),
		Username:     host.User,
		IdentityFile: host.IdentityFile,
		Password:     password,
	}
}

// Connect tears down any active session and establishes a new one
// against host. On failure the manager is left disconnected.
func (m *Manager) Connect(host sshconfig.Host, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teardown()

	cfg := ConfigFor(host, password)
	if cfg.Username == "" {
		return fmt.Errorf("%w: no user configured for host %s", ErrConnect, host.Alias)
	}

	client := NewClient(cfg)
	if err := client.Connect(); err != nil {
		slog.Error("connect failed", "host", host.Alias, "error", err)
		return err
	}

	session, err := sftp.NewClient(client.Raw())
	if err != nil {
		client.Close()
		slog.Error("sftp subsystem failed", "host", host.Alias, "error", err)
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	m.client = client
	m.session = session
	h := host
	m.active = &h
	slog.Info("connected", "host", host.Alias, "addr", cfg.Host, "port", cfg.Port)
	return nil
}

// Disconnect closes the active session. Idempotent.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardown()
}

// teardown closes session and client, ignoring close errors. Caller
// holds the lock.
func (m *Manager) teardown() {
	if m.session != nil {
		m.session.Close()
		m.session = nil
	}
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	if m.active != nil {
		slog.Info("disconnected", "host", m.active.Alias)
		m.active = nil
	}
}

// Session returns the live SFTP session, or sftp.ErrNotConnected.
func (m *Manager) Session() (*sftp.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, sftp.ErrNotConnected
	}
	return m.session, nil
}

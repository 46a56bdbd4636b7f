package ssh

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{Host: "example.com", Port: 22, Username: "deploy"}

	t.Run("valid config passes", func(t *testing.T) {
		c := valid
		if err := c.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("missing host", func(t *testing.T) {
		c := valid
		c.Host = ""
		if err := c.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("missing username", func(t *testing.T) {
		c := valid
		c.Username = ""
		if err := c.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("port out of range", func(t *testing.T) {
		for _, port := range []int{0, -1, 70000} {
			c := valid
			c.Port = port
			if err := c.Validate(); err == nil {
				t.Errorf("Validate() with port %d = nil, want error", port)
			}
		}
	})
}

func TestConfig_NeedsPassword(t *testing.T) {
	// Point SSH_AUTH_SOCK at nothing so no agent is reachable.
	t.Setenv("SSH_AUTH_SOCK", "")

	t.Run("no agent and no key file", func(t *testing.T) {
		c := Config{Host: "h", Port: 22, Username: "u"}
		if !c.NeedsPassword() {
			t.Error("NeedsPassword() = false, want true")
		}
	})

	t.Run("key file configured", func(t *testing.T) {
		c := Config{Host: "h", Port: 22, Username: "u", IdentityFile: "/home/u/.ssh/id_ed25519"}
		if c.NeedsPassword() {
			t.Error("NeedsPassword() = true, want false")
		}
	})
}

func TestConfig_authMethod(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	t.Run("password used when nothing else applies", func(t *testing.T) {
		c := Config{Host: "h", Port: 22, Username: "u", Password: "hunter2"}
		auth, cleanup, err := c.authMethod()
		if err != nil {
			t.Fatalf("authMethod() error = %v", err)
		}
		if cleanup != nil {
			t.Error("password auth should not need cleanup")
		}
		if auth == nil {
			t.Error("authMethod() returned nil method")
		}
	})

	t.Run("unreadable key file is an error not a fallback", func(t *testing.T) {
		c := Config{
			Host: "h", Port: 22, Username: "u",
			IdentityFile: filepath.Join(t.TempDir(), "missing_key"),
			Password:     "hunter2",
		}
		if _, _, err := c.authMethod(); err == nil {
			t.Error("authMethod() = nil error, want failure for missing key file")
		}
	})

	t.Run("garbage key file is an error", func(t *testing.T) {
		keyPath := filepath.Join(t.TempDir(), "id_bad")
		if err := os.WriteFile(keyPath, []byte("not a pem block"), 0600); err != nil {
			t.Fatal(err)
		}
		c := Config{Host: "h", Port: 22, Username: "u", IdentityFile: keyPath}
		if _, _, err := c.authMethod(); err == nil {
			t.Error("authMethod() = nil error, want parse failure")
		}
	})

	t.Run("no method available", func(t *testing.T) {
		c := Config{Host: "h", Port: 22, Username: "u"}
		if _, _, err := c.authMethod(); err == nil {
			t.Error("authMethod() = nil error, want no-method error")
		}
	})
}

func TestIsAuthFailure(t *testing.T) {
	if !isAuthFailure(errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none publickey]")) {
		t.Error("rejected credentials not classified as auth failure")
	}
	if isAuthFailure(errors.New("dial tcp 10.0.0.5:22: connect: connection refused")) {
		t.Error("transport failure misclassified as auth failure")
	}
}

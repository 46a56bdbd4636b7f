package sshconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func loadTestConfig(t *testing.T, content string) *Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	return cfg
}

func TestLookup_ExactMatch(t *testing.T) {
	cfg := loadTestConfig(t, `
Host server1
    HostName 192.168.1.10
    User admin
    Port 2222

Host server2
    HostName server2.example.com
    User root
`)

	h, ok := cfg.Lookup("server1")
	if !ok {
		t.Fatal("server1 not found")
	}
	if h.Hostname != "192.168.1.10" {
		t.Errorf("Hostname = %q, want 192.168.1.10", h.Hostname)
	}
	if h.User != "admin" {
		t.Errorf("User = %q, want admin", h.User)
	}
	if h.Port != 2222 {
		t.Errorf("Port = %d, want 2222", h.Port)
	}

	h, ok = cfg.Lookup("server2")
	if !ok {
		t.Fatal("server2 not found")
	}
	if h.Hostname != "server2.example.com" || h.User != "root" {
		t.Errorf("unexpected record: %+v", h)
	}

	if _, ok := cfg.Lookup("server3"); ok {
		t.Error("server3 should not resolve")
	}
}

func TestLookup_Wildcards(t *testing.T) {
	cfg := loadTestConfig(t, `
Host web.example.com
    User specific

Host prod-*.example.com
    User produser
    Port 22

Host *.example.com
    User webuser
    Port 443
`)

	t.Run("first match wins over later wildcard", func(t *testing.T) {
		h, _ := cfg.Lookup("web.example.com")
		if h.User != "specific" {
			t.Errorf("User = %q, want specific", h.User)
		}
	})

	t.Run("more specific wildcard declared first", func(t *testing.T) {
		h, _ := cfg.Lookup("prod-app.example.com")
		if h.User != "produser" || h.Port != 22 {
			t.Errorf("unexpected record: %+v", h)
		}
	})

	t.Run("general wildcard", func(t *testing.T) {
		h, _ := cfg.Lookup("test.example.com")
		if h.User != "webuser" || h.Port != 443 {
			t.Errorf("unexpected record: %+v", h)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, ok := cfg.Lookup("example.org"); ok {
			t.Error("example.org should not resolve")
		}
	})
}

func TestLookup_QuestionMark(t *testing.T) {
	cfg := loadTestConfig(t, `
Host server?
    User admin

Host server??
    User superadmin
`)

	if h, _ := cfg.Lookup("server1"); h.User != "admin" {
		t.Errorf("server1 User = %q, want admin", h.User)
	}
	if h, _ := cfg.Lookup("server10"); h.User != "superadmin" {
		t.Errorf("server10 User = %q, want superadmin", h.User)
	}
	if _, ok := cfg.Lookup("server100"); ok {
		t.Error("server100 should not resolve")
	}
}

func TestLookup_Precedence(t *testing.T) {
	cfg := loadTestConfig(t, `
Host specific.example.com
    User specific_user

Host *.example.com
    User wildcard_user

Host *
    User default_user
`)

	cases := []struct {
		name string
		want string
	}{
		{"specific.example.com", "specific_user"},
		{"other.example.com", "wildcard_user"},
		{"random.server.org", "default_user"},
	}
	for _, tc := range cases {
		h, ok := cfg.Lookup(tc.name)
		if !ok {
			t.Fatalf("%s not found", tc.name)
		}
		if h.User != tc.want {
			t.Errorf("Lookup(%q).User = %q, want %q", tc.name, h.User, tc.want)
		}
	}
}

func TestHosts_ExcludesWildcards(t *testing.T) {
	cfg := loadTestConfig(t, `
Host server1
    HostName 192.168.1.1

Host server2
    HostName 192.168.1.2

Host *.example.com
    User webuser

Host server?
    User admin
`)

	hosts := cfg.Hosts()
	if len(hosts) != 2 {
		t.Fatalf("got %d concrete hosts, want 2", len(hosts))
	}
	if hosts[0].Alias != "server1" || hosts[1].Alias != "server2" {
		t.Errorf("unexpected aliases: %s, %s", hosts[0].Alias, hosts[1].Alias)
	}
}

func TestMultiPatternHostLine(t *testing.T) {
	cfg := loadTestConfig(t, `
Host db1 db2
    User dbadmin
    Port 5432
`)

	hosts := cfg.Hosts()
	if len(hosts) != 2 {
		t.Fatalf("got %d hosts, want 2", len(hosts))
	}
	for _, h := range hosts {
		if h.User != "dbadmin" || h.Port != 5432 {
			t.Errorf("directives not shared across patterns: %+v", h)
		}
	}
}

func TestHostnameFallback(t *testing.T) {
	cfg := loadTestConfig(t, `
Host myserver
    User admin
`)

	h, ok := cfg.Lookup("myserver")
	if !ok {
		t.Fatal("myserver not found")
	}
	if h.Hostname != "" {
		t.Errorf("Hostname = %q, want empty", h.Hostname)
	}
	if h.Addr() != "myserver" {
		t.Errorf("Addr() = %q, want myserver", h.Addr())
	}
	if h.EffectivePort() != 22 {
		t.Errorf("EffectivePort() = %d, want 22", h.EffectivePort())
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nonexistent"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if len(cfg.Hosts()) != 0 {
		t.Errorf("expected empty config, got %d hosts", len(cfg.Hosts()))
	}
}

func TestPatternMatches_Negation(t *testing.T) {
	if patternMatches("!*.internal.com", "app.internal.com") {
		t.Error("negated pattern should not match app.internal.com")
	}
	if !patternMatches("!*.internal.com", "app.example.com") {
		t.Error("negated pattern should match app.example.com")
	}
}

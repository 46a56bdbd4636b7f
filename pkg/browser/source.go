package browser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/sftui/sftui/pkg/sftp"
)

// ErrNotDirectory is returned when navigation targets a non-directory.
var ErrNotDirectory = errors.New("not a directory")

// Source is the capability interface both panes browse through. A
// listing never includes the ".." marker; Pane injects it.
type Source interface {
	List(path string) ([]Entry, error)
	Open(path string) (io.ReadCloser, error)
	Create(path string) (io.WriteCloser, error)
	Stat(path string) (Entry, error)
	Mkdir(path string) error

	// Path semantics differ between the variants: the local side uses
	// the platform separator, the remote side is always slash-based.
	Join(dir, name string) string
	Parent(path string) string
	Root() string
	Origin() Origin
}

// LocalSource browses the local filesystem.
type LocalSource struct{}

func NewLocalSource() *LocalSource { return &LocalSource{} }

func (s *LocalSource) List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		e := Entry{
			Name: de.Name(),
			Kind: KindFile,
			Path: filepath.Join(dir, de.Name()),
		}
		if de.IsDir() {
			e.Kind = KindDir
		}
		if info, err := de.Info(); err == nil {
			e.Size = info.Size()
			e.ModTime = info.ModTime()
		}
		entries = append(entries, e)
	}
	SortEntries(entries)
	return entries, nil
}

func (s *LocalSource) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (s *LocalSource) Create(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func (s *LocalSource) Stat(path string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, err
	}
	kind := KindFile
	if info.IsDir() {
		kind = KindDir
	}
	return Entry{
		Name:    info.Name(),
		Kind:    kind,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Path:    path,
	}, nil
}

func (s *LocalSource) Mkdir(path string) error {
	if err := os.Mkdir(path, 0755); err != nil && !os.IsExist(err) {
		return err
	}
	return nil
}

func (s *LocalSource) Join(dir, name string) string { return filepath.Join(dir, name) }
func (s *LocalSource) Parent(p string) string       { return filepath.Dir(p) }
func (s *LocalSource) Root() string                 { return string(filepath.Separator) }
func (s *LocalSource) Origin() Origin               { return OriginLocal }

// SessionProvider hands out the live SFTP session; ssh.Manager
// implements it. Every call re-resolves the session so a connection
// switch is picked up immediately.
type SessionProvider interface {
	Session() (*sftp.Client, error)
}

// RemoteSource browses the active remote session. All operations fail
// with sftp.ErrNotConnected while no session is live.
type RemoteSource struct {
	conn SessionProvider
}

func NewRemoteSource(conn SessionProvider) *RemoteSource {
	return &RemoteSource{conn: conn}
}

func (s *RemoteSource) List(dir string) ([]Entry, error) {
	client, err := s.conn.Session()
	if err != nil {
		return nil, err
	}

	files, err := client.List(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		kind := KindFile
		if f.IsDir {
			kind = KindDir
		}
		entries = append(entries, Entry{
			Name:    f.Name,
			Kind:    kind,
			Size:    f.Size,
			ModTime: f.ModTime,
			Path:    path.Join(dir, f.Name),
		})
	}
	SortEntries(entries)
	return entries, nil
}

func (s *RemoteSource) Open(p string) (io.ReadCloser, error) {
	client, err := s.conn.Session()
	if err != nil {
		return nil, err
	}
	return client.Open(p)
}

func (s *RemoteSource) Create(p string) (io.WriteCloser, error) {
	client, err := s.conn.Session()
	if err != nil {
		return nil, err
	}
	return client.Create(p)
}

func (s *RemoteSource) Stat(p string) (Entry, error) {
	client, err := s.conn.Session()
	if err != nil {
		return Entry{}, err
	}
	info, err := client.Stat(p)
	if err != nil {
		return Entry{}, err
	}
	kind := KindFile
	if info.IsDir {
		kind = KindDir
	}
	return Entry{
		Name:    info.Name,
		Kind:    kind,
		Size:    info.Size,
		ModTime: info.ModTime,
		Path:    p,
	}, nil
}

func (s *RemoteSource) Mkdir(p string) error {
	client, err := s.conn.Session()
	if err != nil {
		return err
	}
	return client.Mkdir(p)
}

func (s *RemoteSource) Join(dir, name string) string { return path.Join(dir, name) }
func (s *RemoteSource) Parent(p string) string       { return path.Dir(p) }
func (s *RemoteSource) Root() string                 { return "/" }
func (s *RemoteSource) Origin() Origin               { return OriginRemote }

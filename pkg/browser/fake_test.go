package browser

import (
	"bytes"
	"io"
	"os"
	"path"
)

// fakeSource is an in-memory Source for exercising panes, the planner,
// and the executor without a filesystem or a live session.
type fakeSource struct {
	origin  Origin
	dirs    map[string][]Entry
	files   map[string][]byte
	written map[string][]byte
	mkdirs  []string
	listErr map[string]error
	openErr map[string]error
	statErr map[string]error
}

func newFakeSource(origin Origin) *fakeSource {
	return &fakeSource{
		origin:  origin,
		dirs:    map[string][]Entry{"/": {}},
		files:   make(map[string][]byte),
		written: make(map[string][]byte),
		listErr: make(map[string]error),
		openErr: make(map[string]error),
		statErr: make(map[string]error),
	}
}

func (f *fakeSource) addDir(p string) {
	if _, ok := f.dirs[p]; !ok {
		f.dirs[p] = []Entry{}
	}
	parent := path.Dir(p)
	f.dirs[parent] = append(f.dirs[parent], Entry{Name: path.Base(p), Kind: KindDir, Path: p})
}

func (f *fakeSource) addFile(p string, data []byte) {
	f.files[p] = data
	parent := path.Dir(p)
	f.dirs[parent] = append(f.dirs[parent], Entry{
		Name: path.Base(p),
		Kind: KindFile,
		Size: int64(len(data)),
		Path: p,
	})
}

func (f *fakeSource) List(p string) ([]Entry, error) {
	if err := f.listErr[p]; err != nil {
		return nil, err
	}
	children, ok := f.dirs[p]
	if !ok {
		return nil, os.ErrNotExist
	}
	out := make([]Entry, len(children))
	copy(out, children)
	SortEntries(out)
	return out, nil
}

func (f *fakeSource) Open(p string) (io.ReadCloser, error) {
	if err := f.openErr[p]; err != nil {
		return nil, err
	}
	data, ok := f.files[p]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fakeWriter struct {
	buf *bytes.Buffer
	f   *fakeSource
	p   string
}

func (w *fakeWriter) Write(b []byte) (int, error) { return w.buf.Write(b) }
func (w *fakeWriter) Close() error {
	w.f.written[w.p] = w.buf.Bytes()
	return nil
}

func (f *fakeSource) Create(p string) (io.WriteCloser, error) {
	return &fakeWriter{buf: &bytes.Buffer{}, f: f, p: p}, nil
}

func (f *fakeSource) Stat(p string) (Entry, error) {
	if err := f.statErr[p]; err != nil {
		return Entry{}, err
	}
	if _, ok := f.dirs[p]; ok {
		return Entry{Name: path.Base(p), Kind: KindDir, Path: p}, nil
	}
	if data, ok := f.files[p]; ok {
		return Entry{Name: path.Base(p), Kind: KindFile, Size: int64(len(data)), Path: p}, nil
	}
	return Entry{}, os.ErrNotExist
}

func (f *fakeSource) Mkdir(p string) error {
	f.mkdirs = append(f.mkdirs, p)
	if _, ok := f.dirs[p]; !ok {
		f.dirs[p] = []Entry{}
	}
	return nil
}

func (f *fakeSource) Join(dir, name string) string { return path.Join(dir, name) }
func (f *fakeSource) Parent(p string) string       { return path.Dir(p) }
func (f *fakeSource) Root() string                 { return "/" }
func (f *fakeSource) Origin() Origin               { return f.origin }

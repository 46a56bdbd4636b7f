package browser

import (
	"fmt"
	"strings"
)

// Pane owns one side of the browser: a source, the current path, the
// cached listing, the cursor, the search filter, and the staged
// selection. Listing loads are split into Load (pure fetch, safe to run
// off the UI goroutine) and Apply (commit), with request sequence
// numbers so a stale load can never clobber a fresher one.
type Pane struct {
	source   Source
	path     string
	entries  []Entry // current listing, ".." marker first when present
	view     []int   // indices into entries matching the search filter
	query    string
	cursor   int // index into view
	selected map[string]struct{} // staged entries, keyed by path

	issuedSeq  int // newest listing request handed out
	appliedSeq int // newest listing result committed
}

// NewPane creates a pane rooted at start. No listing is loaded; the
// caller issues the first Navigate/Load.
func NewPane(source Source, start string) *Pane {
	return &Pane{
		source:   source,
		path:     start,
		selected: make(map[string]struct{}),
	}
}

func (p *Pane) Source() Source { return p.source }
func (p *Pane) Path() string   { return p.path }
func (p *Pane) Query() string  { return p.query }

// Load fetches the listing for dir without touching pane state:
// validates that dir is a directory on the source, lists it, and
// prepends the ".." marker unless dir is the source root.
func (p *Pane) Load(dir string) ([]Entry, error) {
	info, err := p.source.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", dir, err)
	}
	if info.Kind != KindDir {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	listed, err := p.source.List(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(listed)+1)
	if dir != p.source.Root() {
		entries = append(entries, ParentEntry(p.source.Parent(dir)))
	}
	entries = append(entries, listed...)
	return entries, nil
}

// Navigate synchronously loads dir and commits it. On error the pane
// keeps its previous path, listing, cursor, and selection untouched.
func (p *Pane) Navigate(dir string) error {
	entries, err := p.Load(dir)
	if err != nil {
		return err
	}
	p.Apply(dir, entries)
	return nil
}

// NextRequest hands out a sequence number for an asynchronous listing
// request. Only the newest outstanding request will be accepted.
func (p *Pane) NextRequest() int {
	p.issuedSeq++
	return p.issuedSeq
}

// Accept reports whether the result for seq may be applied, i.e. no
// newer request has been issued or committed since. Superseded results
// must be discarded by the caller.
func (p *Pane) Accept(seq int) bool {
	if seq != p.issuedSeq || seq <= p.appliedSeq {
		return false
	}
	p.appliedSeq = seq
	return true
}

// Apply commits a listing. Moving to a different path clears the
// staged selection and any active search; reloading the current path
// preserves both (dropping selected paths that no longer exist).
func (p *Pane) Apply(dir string, entries []Entry) {
	samePath := dir == p.path && p.entries != nil

	p.path = dir
	p.entries = entries

	if !samePath {
		p.selected = make(map[string]struct{})
		p.query = ""
	} else {
		present := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			present[e.Path] = struct{}{}
		}
		for sel := range p.selected {
			if _, ok := present[sel]; !ok {
				delete(p.selected, sel)
			}
		}
	}

	p.refilter()
	if !samePath || p.cursor >= len(p.view) {
		p.cursor = 0
	}
}

// Entries returns the raw listing.
func (p *Pane) Entries() []Entry { return p.entries }

// View returns the filtered listing the user is looking at.
func (p *Pane) View() []Entry {
	out := make([]Entry, len(p.view))
	for i, idx := range p.view {
		out[i] = p.entries[idx]
	}
	return out
}

// Len returns the number of visible entries.
func (p *Pane) Len() int { return len(p.view) }

// Cursor returns the cursor position within the view.
func (p *Pane) Cursor() int { return p.cursor }

// CursorEntry returns the entry under the cursor.
func (p *Pane) CursorEntry() (Entry, bool) {
	if p.cursor < 0 || p.cursor >= len(p.view) {
		return Entry{}, false
	}
	return p.entries[p.view[p.cursor]], true
}

// MoveCursor moves the cursor by delta, clamped to the view.
func (p *Pane) MoveCursor(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if max := len(p.view) - 1; p.cursor > max {
		if max < 0 {
			max = 0
		}
		p.cursor = max
	}
}

// EnterTarget resolves the directory to descend into from the entry
// under the cursor: the entry's own path for a directory, the parent
// path for the ".." marker. Returns false on a file or empty view.
func (p *Pane) EnterTarget() (string, bool) {
	e, ok := p.CursorEntry()
	if !ok || !e.IsDir() {
		return "", false
	}
	return e.Path, true
}

// ToggleSelection stages or unstages the entry under the cursor. The
// ".." marker is never selectable.
func (p *Pane) ToggleSelection() {
	e, ok := p.CursorEntry()
	if !ok || e.Kind == KindParent {
		return
	}
	if _, ok := p.selected[e.Path]; ok {
		delete(p.selected, e.Path)
	} else {
		p.selected[e.Path] = struct{}{}
	}
}

// IsSelected reports whether an entry is staged.
func (p *Pane) IsSelected(e Entry) bool {
	_, ok := p.selected[e.Path]
	return ok
}

// Selected returns the staged entries in listing order.
func (p *Pane) Selected() []Entry {
	out := make([]Entry, 0, len(p.selected))
	for _, e := range p.entries {
		if _, ok := p.selected[e.Path]; ok {
			out = append(out, e)
		}
	}
	return out
}

// SelectionCount returns the number of staged entries.
func (p *Pane) SelectionCount() int { return len(p.selected) }

// Deselect unstages one entry by path; used as transfers complete.
func (p *Pane) Deselect(path string) {
	delete(p.selected, path)
}

// ClearSelection unstages everything.
func (p *Pane) ClearSelection() {
	p.selected = make(map[string]struct{})
}

// SetSearch filters the view to entries whose name contains query,
// case-insensitive. The ".." marker always stays visible. The staged
// selection is untouched.
func (p *Pane) SetSearch(query string) {
	p.query = query
	p.refilter()
	if p.cursor >= len(p.view) {
		p.cursor = 0
	}
}

// ClearSearch restores the unfiltered view.
func (p *Pane) ClearSearch() {
	p.SetSearch("")
}

func (p *Pane) refilter() {
	p.view = p.view[:0]
	q := strings.ToLower(p.query)
	for i, e := range p.entries {
		if q == "" || e.Kind == KindParent || strings.Contains(strings.ToLower(e.Name), q) {
			p.view = append(p.view, i)
		}
	}
}

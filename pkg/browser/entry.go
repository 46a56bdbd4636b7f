package browser

import (
	"sort"
	"strings"
	"time"
)

// Origin identifies which side of the browser an entry belongs to.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

func (o Origin) String() string {
	if o == OriginLocal {
		return "local"
	}
	return "remote"
}

// EntryKind classifies a listing entry.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
	KindParent // the ".." navigation entry
)

// Entry is the normalized representation of one filesystem item,
// independent of whether it came from the local disk or the remote
// session.
type Entry struct {
	Name    string
	Kind    EntryKind
	Size    int64
	ModTime time.Time
	Path    string // absolute path on the entry's origin
}

// IsDir reports whether the entry can be descended into.
func (e Entry) IsDir() bool {
	return e.Kind == KindDir || e.Kind == KindParent
}

// ParentEntry builds the ".." marker pointing at parentPath.
func ParentEntry(parentPath string) Entry {
	return Entry{
		Name: "..",
		Kind: KindParent,
		Path: parentPath,
	}
}

// SortEntries orders a listing in place: directories first, then
// case-insensitive lexicographic by name. The parent marker, when
// present, is expected to be prepended by the caller after sorting.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if (a.Kind == KindDir) != (b.Kind == KindDir) {
			return a.Kind == KindDir
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

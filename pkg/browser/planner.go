package browser

import "errors"

// ErrEmptySelection is returned when a transfer is requested with
// nothing staged; the transfer dialog must not open.
var ErrEmptySelection = errors.New("no entries selected")

// Direction of a transfer item.
type Direction int

const (
	Upload Direction = iota
	Download
)

func (d Direction) String() string {
	if d == Upload {
		return "upload"
	}
	return "download"
}

// Status of a transfer item.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusSucceeded
	StatusFailed
)

// Item is one entry of the transfer queue. Composition is fixed once
// execution starts; only Status and Err mutate in place.
type Item struct {
	Direction  Direction
	Name       string
	SourcePath string
	DestPath   string
	IsDir      bool // directory items are expanded recursively by the executor
	Size       int64
	Status     Status
	Err        error
}

// BuildQueue converts src's staged selection into transfer items headed
// for dst's current directory, in listing order. Direction follows the
// source pane's origin: a Local source pane uploads, a Remote one
// downloads. Directories stay single recursive items so the review
// dialog shows exactly what the user selected.
func BuildQueue(src, dst *Pane) ([]Item, error) {
	selected := src.Selected()
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}

	direction := Download
	if src.Source().Origin() == OriginLocal {
		direction = Upload
	}

	items := make([]Item, 0, len(selected))
	for _, e := range selected {
		items = append(items, Item{
			Direction:  direction,
			Name:       e.Name,
			SourcePath: e.Path,
			DestPath:   dst.Source().Join(dst.Path(), e.Name),
			IsDir:      e.Kind == KindDir,
			Size:       e.Size,
			Status:     StatusPending,
		})
	}
	return items, nil
}

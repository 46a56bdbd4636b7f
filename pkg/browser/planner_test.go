package browser

import (
	"errors"
	"testing"
)

func TestBuildQueue(t *testing.T) {
	t.Run("local selection uploads into remote path", func(t *testing.T) {
		local := newFakeSource(OriginLocal)
		local.addDir("/home/u")
		local.addFile("/home/u/a.txt", []byte("data"))
		remote := newFakeSource(OriginRemote)
		remote.addDir("/srv/data")

		src := NewPane(local, "/home/u")
		if err := src.Navigate("/home/u"); err != nil {
			t.Fatal(err)
		}
		dst := NewPane(remote, "/srv/data")
		if err := dst.Navigate("/srv/data"); err != nil {
			t.Fatal(err)
		}

		src.MoveCursor(1) // past the marker, onto a.txt
		src.ToggleSelection()

		queue, err := BuildQueue(src, dst)
		if err != nil {
			t.Fatalf("BuildQueue failed: %v", err)
		}
		if len(queue) != 1 {
			t.Fatalf("got %d items, want 1", len(queue))
		}

		item := queue[0]
		if item.Direction != Upload {
			t.Errorf("Direction = %v, want Upload", item.Direction)
		}
		if item.SourcePath != "/home/u/a.txt" {
			t.Errorf("SourcePath = %q, want /home/u/a.txt", item.SourcePath)
		}
		if item.DestPath != "/srv/data/a.txt" {
			t.Errorf("DestPath = %q, want /srv/data/a.txt", item.DestPath)
		}
		if item.IsDir {
			t.Error("a.txt should not be a directory item")
		}
		if item.Status != StatusPending {
			t.Errorf("Status = %v, want StatusPending", item.Status)
		}
	})

	t.Run("remote selection downloads", func(t *testing.T) {
		remote := newFakeSource(OriginRemote)
		remote.addDir("/srv")
		remote.addFile("/srv/log.txt", []byte("x"))
		remote.addDir("/srv/backup")
		local := newFakeSource(OriginLocal)
		local.addDir("/home/u")

		src := NewPane(remote, "/srv")
		if err := src.Navigate("/srv"); err != nil {
			t.Fatal(err)
		}
		dst := NewPane(local, "/home/u")
		if err := dst.Navigate("/home/u"); err != nil {
			t.Fatal(err)
		}

		// Stage both the directory and the file.
		src.MoveCursor(1)
		src.ToggleSelection()
		src.MoveCursor(1)
		src.ToggleSelection()

		queue, err := BuildQueue(src, dst)
		if err != nil {
			t.Fatalf("BuildQueue failed: %v", err)
		}
		if len(queue) != 2 {
			t.Fatalf("got %d items, want 2", len(queue))
		}
		for _, item := range queue {
			if item.Direction != Download {
				t.Errorf("item %s Direction = %v, want Download", item.Name, item.Direction)
			}
		}
		if !queue[0].IsDir || queue[0].Name != "backup" {
			t.Errorf("queue[0] = %+v, want recursive backup item", queue[0])
		}
		if queue[1].DestPath != "/home/u/log.txt" {
			t.Errorf("DestPath = %q, want /home/u/log.txt", queue[1].DestPath)
		}
	})

	t.Run("empty selection is rejected", func(t *testing.T) {
		local := newFakeSource(OriginLocal)
		local.addDir("/home")
		remote := newFakeSource(OriginRemote)

		src := NewPane(local, "/home")
		if err := src.Navigate("/home"); err != nil {
			t.Fatal(err)
		}
		dst := NewPane(remote, "/")
		if err := dst.Navigate("/"); err != nil {
			t.Fatal(err)
		}

		if _, err := BuildQueue(src, dst); !errors.Is(err, ErrEmptySelection) {
			t.Errorf("error = %v, want ErrEmptySelection", err)
		}
	})
}

package browser

import "testing"

func TestSortEntries(t *testing.T) {
	t.Run("directories sort before files", func(t *testing.T) {
		entries := []Entry{
			{Name: "zebra.txt", Kind: KindFile},
			{Name: "alpha", Kind: KindDir},
			{Name: "beta.txt", Kind: KindFile},
			{Name: "omega", Kind: KindDir},
		}
		SortEntries(entries)

		want := []string{"alpha", "omega", "beta.txt", "zebra.txt"}
		for i, name := range want {
			if entries[i].Name != name {
				t.Errorf("entries[%d].Name = %q, want %q", i, entries[i].Name, name)
			}
		}
	})

	t.Run("name ordering is case-insensitive", func(t *testing.T) {
		entries := []Entry{
			{Name: "Zan.txt", Kind: KindFile},
			{Name: "apple.txt", Kind: KindFile},
			{Name: "Banana.txt", Kind: KindFile},
		}
		SortEntries(entries)

		want := []string{"apple.txt", "Banana.txt", "Zan.txt"}
		for i, name := range want {
			if entries[i].Name != name {
				t.Errorf("entries[%d].Name = %q, want %q", i, entries[i].Name, name)
			}
		}
	})
}

func TestParentEntry(t *testing.T) {
	e := ParentEntry("/home")
	if e.Name != ".." {
		t.Errorf("Name = %q, want ..", e.Name)
	}
	if e.Kind != KindParent {
		t.Errorf("Kind = %v, want KindParent", e.Kind)
	}
	if e.Path != "/home" {
		t.Errorf("Path = %q, want /home", e.Path)
	}
	if !e.IsDir() {
		t.Error("parent marker should be enterable")
	}
}

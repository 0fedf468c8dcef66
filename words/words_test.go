package words

import (
	"sort"
	"testing"
)

func TestIsCategory(t *testing.T) {
	for _, key := range []string{"animals", "objects", "food", "places", "sports", "jobs", "actions", "transport", "fantasy", "wildcard"} {
		if !IsCategory(key) {
			t.Errorf("IsCategory(%q) = false", key)
		}
	}
	for _, key := range []string{"", "Animals", "colors", "ANIMALS "} {
		if IsCategory(key) {
			t.Errorf("IsCategory(%q) = true", key)
		}
	}
}

func TestCategoriesSorted(t *testing.T) {
	cats := Categories()
	if len(cats) != 10 {
		t.Fatalf("categories = %d, want 10", len(cats))
	}
	if !sort.StringsAreSorted(cats) {
		t.Errorf("categories not sorted: %v", cats)
	}
}

func TestPickNeverRepeats(t *testing.T) {
	used := make(map[string]bool)
	seen := make(map[string]bool)
	total := Size("animals")
	if total == 0 {
		t.Fatal("animals category is empty")
	}

	for i := 0; i < total; i++ {
		word, ok := Pick("animals", used)
		if !ok {
			t.Fatalf("Pick ran dry after %d of %d words", i, total)
		}
		if seen[word] {
			t.Fatalf("word %q picked twice", word)
		}
		seen[word] = true
		if !used[word] {
			t.Fatalf("word %q not committed to the used set", word)
		}
	}

	if _, ok := Pick("animals", used); ok {
		t.Error("Pick succeeded on an exhausted category")
	}
}

func TestPickUnknownCategory(t *testing.T) {
	if _, ok := Pick("nonsense", map[string]bool{}); ok {
		t.Error("Pick succeeded on an unknown category")
	}
}

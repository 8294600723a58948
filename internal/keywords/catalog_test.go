package keywords

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ktanaka/notices-tracker/constants"
)

func TestDefaultCoversEverySection(t *testing.T) {
	c := Default()
	sections := map[string][]string{
		"meetings":         c.Meetings,
		"urgency":          c.Urgency,
		"homework":         c.Homework,
		"subjects":         c.Subjects,
		"locations":        c.Locations,
		"location_headers": c.LocationHeaders,
		"item_headers":     c.ItemHeaders,
		"note_headers":     c.NoteHeaders,
		"due_markers":      c.DueMarkers,
		"due_suffixes":     c.DueSuffixes,
		"range_markers":    c.RangeMarkers,
	}
	for name, terms := range sections {
		if len(terms) == 0 {
			t.Fatalf("default %s vocabulary is empty", name)
		}
	}
	for _, cat := range constants.ItemCategories() {
		if len(c.Items[cat]) == 0 {
			t.Fatalf("default item vocabulary for %q is empty", cat)
		}
	}
}

func TestClassifyItem(t *testing.T) {
	c := Default()
	tests := []struct {
		noun    string
		want    constants.ItemCategory
		matched bool
	}{
		{"水筒", constants.ItemBelongings, true},
		{"漢字練習帳", constants.ItemMaterials, true},
		{"上履き", constants.ItemClothing, true},
		{"お弁当", constants.ItemFood, true},
		{"返信用封筒", constants.ItemDocuments, true},
		{"謎の品", constants.ItemOther, false},
	}
	for _, tt := range tests {
		got, matched := c.ClassifyItem(tt.noun)
		if got != tt.want || matched != tt.matched {
			t.Fatalf("ClassifyItem(%q) = %q, %v, want %q, %v", tt.noun, got, matched, tt.want, tt.matched)
		}
	}
}

func TestLoadFileLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	doc := "locations:\n  - 第一グラウンド\nurgency:\n  - 大至急\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(c.Locations) != 1 || c.Locations[0] != "第一グラウンド" {
		t.Fatalf("locations = %v, want the file to replace the section", c.Locations)
	}
	if len(c.Urgency) != 1 || c.Urgency[0] != "大至急" {
		t.Fatalf("urgency = %v, want [大至急]", c.Urgency)
	}
	// Omitted sections keep the built-in vocabulary.
	if len(c.ItemHeaders) == 0 || len(c.Items[constants.ItemBelongings]) == 0 {
		t.Fatal("omitted sections lost the defaults")
	}
}

func TestLoadFileMissingPath(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadFile on a missing path succeeded")
	}
}

func TestContainsAny(t *testing.T) {
	terms := []string{"至急", "緊急"}
	if !ContainsAny("※至急ご提出ください", terms) {
		t.Fatal("ContainsAny missed a present term")
	}
	if ContainsAny("特になし", terms) {
		t.Fatal("ContainsAny matched an absent term")
	}
	if ContainsAny("なんでも", []string{""}) {
		t.Fatal("ContainsAny matched the empty term")
	}
}

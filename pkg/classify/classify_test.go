package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0xmhha/folder-organizer/pkg/logger"
	"github.com/0xmhha/folder-organizer/pkg/rules"
)

// pngHeader is the fixed eight-byte PNG signature.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func newSet(t *testing.T, list []rules.Rule) *rules.Set {
	t.Helper()
	set, err := rules.New(list)
	if err != nil {
		t.Fatalf("rules.New() error = %v", err)
	}
	return set
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

func TestClassifyByExtension(t *testing.T) {
	c := New(rules.Default(), logger.Noop())

	tests := []struct {
		name         string
		file         string
		wantCategory string
		wantReason   string
	}{
		{"pdf", "report.pdf", "Documents", "extension .pdf"},
		{"uppercase", "PHOTO.JPG", "Images", "extension .jpg"},
		{"multi dot name", "backup.2024.csv", "Spreadsheets", "extension .csv"},
		{"installer", "setup.exe", "Installers", "extension .exe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.file, "")
			if !res.Matched {
				t.Fatalf("Classify(%q).Matched = false, want true", tt.file)
			}
			if res.Category != tt.wantCategory {
				t.Errorf("Category = %s, want %s", res.Category, tt.wantCategory)
			}
			if res.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", res.Reason, tt.wantReason)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := New(rules.Default(), logger.Noop())

	first := c.Classify("archive.tar.gz", "")
	for i := 0; i < 5; i++ {
		if got := c.Classify("archive.tar.gz", ""); got != first {
			t.Fatalf("Classify() changed between calls: %+v vs %+v", got, first)
		}
	}
}

func TestLongestSuffixWins(t *testing.T) {
	set := newSet(t, []rules.Rule{
		{Category: "Compressed", Extensions: []string{".gz"}},
		{Category: "Tarballs", Extensions: []string{".tar.gz"}},
	})
	c := New(set, logger.Noop())

	res := c.Classify("a.tar.gz", "")
	if res.Category != "Tarballs" {
		t.Errorf("Classify(a.tar.gz).Category = %s, want Tarballs", res.Category)
	}

	res = c.Classify("a.gz", "")
	if res.Category != "Compressed" {
		t.Errorf("Classify(a.gz).Category = %s, want Compressed", res.Category)
	}
}

func TestIncompleteDownloadsWait(t *testing.T) {
	c := New(rules.Default(), logger.Noop())

	tests := []string{
		"movie.mkv.part",
		"big-file.zip.crdownload",
		"track.mp3.download",
		"linux.iso.!qb",
		"staging.tmp",
	}

	for _, file := range tests {
		res := c.Classify(file, "")
		if !res.Waiting {
			t.Errorf("Classify(%q).Waiting = false, want true", file)
		}
		if res.Matched {
			t.Errorf("Classify(%q).Matched = true, want false", file)
		}
	}

	// The real extension takes over once the marker is gone.
	res := c.Classify("movie.mkv", "")
	if !res.Matched || res.Category != "Videos" {
		t.Errorf("Classify(movie.mkv) = %+v, want Videos match", res)
	}
}

func TestBareNameIsNotItsOwnExtension(t *testing.T) {
	set := newSet(t, []rules.Rule{
		{Category: "Data", Extensions: []string{".csv"}},
	})
	c := New(set, logger.Noop())

	// A file literally named ".csv" must not match the ".csv" rule.
	if res := c.Classify(".csv", ""); res.Matched {
		t.Errorf("Classify(.csv) = %+v, want unclassified", res)
	}
}

func TestContentTypeFallback(t *testing.T) {
	dir := t.TempDir()
	c := New(rules.Default(), logger.Noop())

	pngPath := writeFile(t, dir, "photo-no-ext", pngHeader)
	res := c.Classify("photo-no-ext", pngPath)
	if !res.Matched || res.Category != "Images" {
		t.Fatalf("Classify(png content) = %+v, want Images match", res)
	}
	if res.Reason != "content type image/png" {
		t.Errorf("Reason = %q, want %q", res.Reason, "content type image/png")
	}

	textPath := writeFile(t, dir, "readme-file", []byte("plain text notes\n"))
	res = c.Classify("readme-file", textPath)
	if !res.Matched || res.Category != "Documents" {
		t.Errorf("Classify(text content) = %+v, want Documents match", res)
	}
}

func TestFallbackNeverOverridesExtension(t *testing.T) {
	dir := t.TempDir()
	set := newSet(t, []rules.Rule{
		{Category: "Notes", Extensions: []string{".xyz"}},
		{Category: "Images", Extensions: []string{".jpg"}},
	})
	c := New(set, logger.Noop())

	// PNG bytes, but the extension rule owns the name.
	path := writeFile(t, dir, "sketch.xyz", pngHeader)
	res := c.Classify("sketch.xyz", path)
	if res.Category != "Notes" {
		t.Errorf("Classify(sketch.xyz).Category = %s, want Notes", res.Category)
	}
}

func TestFallbackRequiresCategoryInRuleSet(t *testing.T) {
	dir := t.TempDir()
	set := newSet(t, []rules.Rule{
		{Category: "Images", Extensions: []string{".jpg"}},
	})
	c := New(set, logger.Noop())

	// Text content maps to Documents, which this set does not have.
	path := writeFile(t, dir, "notes-file", []byte("some text\n"))
	res := c.Classify("notes-file", path)
	if res.Matched {
		t.Errorf("Classify(text without Documents category) = %+v, want unclassified", res)
	}
}

func TestUnclassified(t *testing.T) {
	c := New(rules.Default(), logger.Noop())

	res := c.Classify("mystery.unknownext", "")
	if res.Matched || res.Waiting {
		t.Errorf("Classify(mystery.unknownext) = %+v, want unclassified", res)
	}
	if res.Reason != "no matching rule" {
		t.Errorf("Reason = %q, want %q", res.Reason, "no matching rule")
	}
}

func TestSniffFailureDegradesToUnclassified(t *testing.T) {
	c := New(rules.Default(), logger.Noop())

	res := c.Classify("gone.bin", filepath.Join(t.TempDir(), "does-not-exist"))
	if res.Matched {
		t.Errorf("Classify(missing file) = %+v, want unclassified", res)
	}
}

func TestRuleSnapshotIsolation(t *testing.T) {
	set := newSet(t, []rules.Rule{
		{Category: "Docs", Extensions: []string{".pdf"}},
		{Category: "Images", Extensions: []string{".jpg"}},
	})
	c := New(set, logger.Noop())

	// Mutating the set after construction must not change the classifier.
	if err := set.Remove("Docs"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	res := c.Classify("paper.pdf", "")
	if !res.Matched || res.Category != "Docs" {
		t.Errorf("Classify(paper.pdf) = %+v, want Docs match from snapshot", res)
	}
}

func TestIncompleteExtensions(t *testing.T) {
	exts := IncompleteExtensions()
	if len(exts) == 0 {
		t.Fatal("IncompleteExtensions() returned nothing")
	}

	// Callers must not be able to mutate the package table.
	exts[0] = ".hacked"
	if IncompleteExtensions()[0] == ".hacked" {
		t.Error("IncompleteExtensions() exposes internal state")
	}
}

// Package classify decides which category, if any, a file belongs to.
//
// Classification is a pure function of the file name, the rule set, and
// (for the content-type fallback) the file bytes: the longest known
// extension suffix wins, incomplete-download markers park the file for a
// later pass, and files whose extension matches no rule fall back to
// content sniffing.
//
// Example usage:
//
//	c := classify.New(rules.Default(), logger.Noop())
//	res := c.Classify("paper.tar.gz", "/downloads/paper.tar.gz")
//	// res.Category == "Archives", res.Reason == "extension .tar.gz"
package classify

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/0xmhha/folder-organizer/pkg/logger"
	"github.com/0xmhha/folder-organizer/pkg/rules"
)

// incompleteExtensions marks files that a browser or download manager is
// still writing. They are never organized, only reported as waiting.
var incompleteExtensions = []string{
	".crdownload",
	".download",
	".opdownload",
	".part",
	".partial",
	".tmp",
	".!qb",
}

// Result is the outcome of classifying one file.
type Result struct {
	// Category is the owning category when Matched is true.
	Category string

	// Reason describes why the file classified the way it did, e.g.
	// "extension .pdf" or "content type image/png".
	Reason string

	// Matched is true when a category was assigned.
	Matched bool

	// Waiting is true when the file carries an incomplete-download marker
	// and should be left alone until the download finishes.
	Waiting bool
}

// Classifier assigns categories to files.
//
// A classifier snapshots the rule set at construction time; the engine
// builds a fresh one whenever rules change, which keeps Classify free of
// locking and hidden state.
type Classifier interface {
	// Classify returns the classification of a single file.
	//
	// fileName is the bare name used for extension matching; filePath is
	// the full path used only by the content-type fallback. Sniffing
	// failures degrade to an unclassified result, never an error.
	Classify(fileName, filePath string) Result
}

// classifier implements the Classifier interface.
type classifier struct {
	set *rules.Set

	// known is the union of rule extensions and incomplete markers,
	// searched longest-suffix-first.
	known []string

	log logger.Logger
}

// New creates a Classifier over a snapshot of the given rule set.
func New(set *rules.Set, log logger.Logger) Classifier {
	if log == nil {
		log = logger.Noop()
	}

	snapshot := set.Clone()
	known := snapshot.AllExtensions()
	known = append(known, incompleteExtensions...)

	return &classifier{
		set:   snapshot,
		known: known,
		log:   log,
	}
}

// Classify implements Classifier.Classify.
func (c *classifier) Classify(fileName, filePath string) Result {
	ext, ok := c.longestSuffix(fileName)
	if ok {
		if isIncomplete(ext) {
			return Result{Waiting: true, Reason: "incomplete download " + ext}
		}
		if category, owned := c.set.Owner(ext); owned {
			return Result{Category: category, Reason: "extension " + ext, Matched: true}
		}
	}

	// No extension matched a rule; inspect the content. The fallback never
	// overrides an extension match because matched files return above.
	if category, mime, ok := c.sniff(filePath); ok {
		return Result{Category: category, Reason: "content type " + mime, Matched: true}
	}

	return Result{Reason: "no matching rule"}
}

// longestSuffix finds the longest known extension that ends fileName.
//
// Longest wins so that ".tar.gz" beats ".gz". The whole name never counts
// as its own extension.
func (c *classifier) longestSuffix(fileName string) (string, bool) {
	name := strings.ToLower(fileName)

	best := ""
	for _, ext := range c.known {
		if len(name) > len(ext) && strings.HasSuffix(name, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	return best, best != ""
}

// sniff maps the detected content type onto a category, when that category
// exists in the rule set.
func (c *classifier) sniff(filePath string) (category, mime string, ok bool) {
	if filePath == "" {
		return "", "", false
	}

	detected, err := mimetype.DetectFile(filePath)
	if err != nil {
		c.log.Debug("content sniff failed", "path", filePath, "error", err)
		return "", "", false
	}

	mime = detected.String()
	// Strip parameters such as "; charset=utf-8".
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	category = categoryForContentType(mime)
	if category == "" || !c.set.Has(category) {
		return "", mime, false
	}
	return category, mime, true
}

// categoryForContentType maps broad content-type classes onto the stock
// category names. Files only land here when the category actually exists
// in the user's rule set.
func categoryForContentType(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return "Images"
	case strings.HasPrefix(mime, "video/"):
		return "Videos"
	case strings.HasPrefix(mime, "audio/"):
		return "Audio"
	case mime == "application/pdf", strings.HasPrefix(mime, "text/"):
		return "Documents"
	case mime == "application/zip",
		mime == "application/gzip",
		mime == "application/x-tar",
		mime == "application/x-7z-compressed",
		mime == "application/x-rar-compressed":
		return "Archives"
	default:
		return ""
	}
}

// isIncomplete reports whether ext is an incomplete-download marker.
func isIncomplete(ext string) bool {
	for _, inc := range incompleteExtensions {
		if ext == inc {
			return true
		}
	}
	return false
}

// IncompleteExtensions returns the incomplete-download markers.
func IncompleteExtensions() []string {
	out := make([]string, len(incompleteExtensions))
	copy(out, incompleteExtensions)
	return out
}

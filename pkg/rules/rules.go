// Package rules defines the ordered mapping from category names to file
// extensions that drives classification.
//
// Category order is load-bearing: when an extension could belong to more
// than one category, the category declared earlier wins. The set therefore
// keeps rules in an ordered slice rather than a map, and reordering is an
// explicit operation.
//
// Example usage:
//
//	set := rules.Default()
//	if err := set.Add("Books", ".epub"); err != nil {
//	    log.Fatal(err)
//	}
//	category, ok := set.Owner(".pdf") // "Documents", true
package rules

import (
	"fmt"
	"strings"
)

// Rule maps one category to its ordered list of extensions.
type Rule struct {
	// Category is the case-sensitive category name, used as the destination
	// subfolder name.
	Category string `json:"category" yaml:"category"`

	// Extensions are normalized lower-case dotted extensions owned by the
	// category.
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// Set is an ordered collection of rules.
//
// Set is not safe for concurrent use; the organize engine serializes all
// access to it.
type Set struct {
	list []Rule
}

// New builds a Set from the given rules after normalizing every extension.
//
// Returns an error if:
//   - the list is empty (ErrNoCategories)
//   - a category name is empty or repeated
//   - an extension cannot be normalized
//   - an extension appears in more than one category (ErrDuplicateExtension)
func New(list []Rule) (*Set, error) {
	if len(list) == 0 {
		return nil, ErrNoCategories
	}

	s := &Set{list: make([]Rule, 0, len(list))}
	owned := make(map[string]string, len(list)*4)

	for _, r := range list {
		if err := validateCategory(r.Category); err != nil {
			return nil, err
		}
		if s.Has(r.Category) {
			return nil, fmt.Errorf("%w: %s", ErrCategoryExists, r.Category)
		}

		exts := make([]string, 0, len(r.Extensions))
		for _, ext := range r.Extensions {
			norm, err := NormalizeExtension(ext)
			if err != nil {
				return nil, err
			}
			if owner, dup := owned[norm]; dup {
				return nil, fmt.Errorf("%w: %s already in %s", ErrDuplicateExtension, norm, owner)
			}
			owned[norm] = r.Category
			exts = append(exts, norm)
		}

		s.list = append(s.list, Rule{Category: r.Category, Extensions: exts})
	}

	return s, nil
}

// Default returns the stock rule set used when no configuration exists.
func Default() *Set {
	s, err := New(defaultRules())
	if err != nil {
		// The built-in table is static; failing to load it is a programming
		// error, not a runtime condition.
		panic(fmt.Sprintf("rules: invalid default rule set: %v", err))
	}
	return s
}

// Len returns the number of categories.
func (s *Set) Len() int {
	return len(s.list)
}

// Categories returns the category names in declared order.
func (s *Set) Categories() []string {
	names := make([]string, len(s.list))
	for i, r := range s.list {
		names[i] = r.Category
	}
	return names
}

// Has reports whether the category exists.
func (s *Set) Has(category string) bool {
	return s.index(category) >= 0
}

// Extensions returns a copy of the category's extension list.
func (s *Set) Extensions(category string) ([]string, error) {
	i := s.index(category)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	exts := make([]string, len(s.list[i].Extensions))
	copy(exts, s.list[i].Extensions)
	return exts, nil
}

// Rules returns a deep copy of the rule list in declared order.
func (s *Set) Rules() []Rule {
	out := make([]Rule, len(s.list))
	for i, r := range s.list {
		exts := make([]string, len(r.Extensions))
		copy(exts, r.Extensions)
		out[i] = Rule{Category: r.Category, Extensions: exts}
	}
	return out
}

// Add appends a new category owning firstExt.
//
// New categories are appended at the end of the order, giving them the
// lowest precedence until reordered.
func (s *Set) Add(category, firstExt string) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	if s.Has(category) {
		return fmt.Errorf("%w: %s", ErrCategoryExists, category)
	}

	norm, err := NormalizeExtension(firstExt)
	if err != nil {
		return err
	}
	if owner, ok := s.Owner(norm); ok {
		return fmt.Errorf("%w: %s already in %s", ErrDuplicateExtension, norm, owner)
	}

	s.list = append(s.list, Rule{Category: category, Extensions: []string{norm}})
	return nil
}

// Remove deletes a category and all of its extensions.
//
// The last remaining category cannot be removed (ErrLastCategory); the
// classifier requires at least one.
func (s *Set) Remove(category string) error {
	i := s.index(category)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	if len(s.list) == 1 {
		return ErrLastCategory
	}

	s.list = append(s.list[:i], s.list[i+1:]...)
	return nil
}

// AddExtension assigns an extension to an existing category.
//
// An extension can belong to at most one category; assigning one that is
// already owned returns ErrDuplicateExtension regardless of which category
// owns it.
func (s *Set) AddExtension(category, ext string) error {
	i := s.index(category)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	norm, err := NormalizeExtension(ext)
	if err != nil {
		return err
	}
	if owner, ok := s.Owner(norm); ok {
		return fmt.Errorf("%w: %s already in %s", ErrDuplicateExtension, norm, owner)
	}

	s.list[i].Extensions = append(s.list[i].Extensions, norm)
	return nil
}

// RemoveExtension removes an extension from a category.
//
// A category always keeps at least one extension; removing the last one
// returns ErrLastExtension (remove the category instead).
func (s *Set) RemoveExtension(category, ext string) error {
	i := s.index(category)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	norm, err := NormalizeExtension(ext)
	if err != nil {
		return err
	}

	exts := s.list[i].Extensions
	for j, e := range exts {
		if e == norm {
			if len(exts) == 1 {
				return fmt.Errorf("%w: %s", ErrLastExtension, category)
			}
			s.list[i].Extensions = append(exts[:j], exts[j+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s in %s", ErrUnknownExtension, norm, category)
}

// Reorder rearranges categories into the given order.
//
// names must contain every existing category exactly once; otherwise
// ErrReorderMismatch is returned and the order is unchanged. Reordering
// changes classification precedence, not just display order.
func (s *Set) Reorder(names []string) error {
	if len(names) != len(s.list) {
		return ErrReorderMismatch
	}

	reordered := make([]Rule, 0, len(s.list))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return fmt.Errorf("%w: %s repeated", ErrReorderMismatch, name)
		}
		seen[name] = true

		i := s.index(name)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownCategory, name)
		}
		reordered = append(reordered, s.list[i])
	}

	s.list = reordered
	return nil
}

// Owner returns the category owning ext, searching in declared order.
//
// The first category listing the extension wins, which makes declared
// order the precedence order if duplicates are ever forced into a set.
func (s *Set) Owner(ext string) (string, bool) {
	norm, err := NormalizeExtension(ext)
	if err != nil {
		return "", false
	}
	for _, r := range s.list {
		for _, e := range r.Extensions {
			if e == norm {
				return r.Category, true
			}
		}
	}
	return "", false
}

// AllExtensions returns every extension in the set, in declared order.
func (s *Set) AllExtensions() []string {
	var out []string
	for _, r := range s.list {
		out = append(out, r.Extensions...)
	}
	return out
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	return &Set{list: s.Rules()}
}

// index returns the position of category in the list, or -1.
func (s *Set) index(category string) int {
	for i, r := range s.list {
		if r.Category == category {
			return i
		}
	}
	return -1
}

// NormalizeExtension lower-cases ext and ensures a single leading dot.
//
// Multi-dot extensions such as ".tar.gz" are kept whole. Returns
// ErrInvalidExtension for empty strings, bare dots, or anything containing
// whitespace or path separators.
func NormalizeExtension(ext string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(ext))
	if norm == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidExtension)
	}
	if !strings.HasPrefix(norm, ".") {
		norm = "." + norm
	}
	if norm == "." || strings.HasSuffix(norm, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	if strings.ContainsAny(norm, " \t/\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	return norm, nil
}

// validateCategory rejects names that cannot be used as a subfolder name.
func validateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidCategory)
	}
	if category != strings.TrimSpace(category) {
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidCategory, category)
	}
	if category == "." || category == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if strings.ContainsAny(category, "/\\") {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidCategory, category)
	}
	return nil
}

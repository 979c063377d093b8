package asset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ValidationError is returned when adding assets would exceed the cap
type ValidationError struct {
	Count int
	Max   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("too many files: %d (maximum %d)", e.Count, e.Max)
}

// List is an ordered, capped collection of assets. The zero value is not
// usable, construct it with NewList.
type List struct {
	items []Asset
	max   int
}

func NewList(limit int) *List {
	return &List{max: limit}
}

// Add appends assets. If the result would exceed the cap nothing is added.
func (l *List) Add(assets ...Asset) error {
	if len(l.items)+len(assets) > l.max {
		return &ValidationError{Count: len(l.items) + len(assets), Max: l.max}
	}
	l.items = append(l.items, assets...)
	return nil
}

// Remove drops the asset with the given id and reports whether it was found
func (l *List) Remove(id string) bool {
	for i, a := range l.items {
		if a.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

func (l *List) Clear() {
	l.items = nil
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) Max() int {
	return l.max
}

// Items returns a copy of the assets in insertion order
func (l *List) Items() []Asset {
	out := make([]Asset, len(l.items))
	copy(out, l.items)
	return out
}

// Resolve expands sources (files, directories or glob patterns) into a
// de-duplicated, naturally sorted list of supported file paths.
func Resolve(sources []string) ([]string, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no files provided")
	}

	var all []string
	seen := make(map[string]bool)

	for _, source := range sources {
		paths, err := resolveSource(source)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", source, err)
		}
		for _, p := range paths {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("failed to get absolute path for %s: %w", p, err)
			}
			if !seen[abs] {
				seen[abs] = true
				all = append(all, abs)
			}
		}
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("no supported files found")
	}

	sort.Slice(all, func(i, j int) bool {
		return naturalSort(filepath.Base(all[i]), filepath.Base(all[j]))
	})
	return all, nil
}

func resolveSource(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err == nil {
		if info.IsDir() {
			return loadFromDirectory(source)
		}
		if IsSupportedFile(source) {
			return []string{source}, nil
		}
		return nil, fmt.Errorf("not a supported file: %s", source)
	}

	matches, err := filepath.Glob(source)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files found matching: %s", source)
	}

	var paths []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.IsDir() {
			if dirFiles, err := loadFromDirectory(match); err == nil {
				paths = append(paths, dirFiles...)
			}
		} else if IsSupportedFile(match) {
			paths = append(paths, match)
		}
	}
	return paths, nil
}

func loadFromDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if IsSupportedFile(path) {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported files found in directory")
	}
	return files, nil
}

// naturalSort orders filenames with embedded numbers numerically,
// e.g. page_2.png before page_10.png
func naturalSort(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	i, j := 0, 0

	for i < len(a) && j < len(b) {
		ac, bc := a[i], b[j]
		if isDigit(ac) && isDigit(bc) {
			si, sj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			an, bn := parseNumber(a[si:i]), parseNumber(b[sj:j])
			if an != bn {
				return an < bn
			}
			continue
		}
		if ac != bc {
			return ac < bc
		}
		i++
		j++
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func parseNumber(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

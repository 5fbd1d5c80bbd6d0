package pipeline

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/compcheck/pkg/errors"
	"github.com/matzehuels/compcheck/pkg/syntax/tsparse"
)

// Matcher selects files by slash-separated glob patterns.
//
// A segment "**" matches any number of path segments, including none. Other
// segments follow path.Match.
type Matcher struct {
	include []string
	exclude []string
}

// NewMatcher returns a matcher. An empty include list selects every path
// not excluded.
func NewMatcher(include, exclude []string) *Matcher {
	return &Matcher{include: include, exclude: exclude}
}

// Match reports whether the file at rel is selected.
func (m *Matcher) Match(rel string) bool {
	if m.Excluded(rel) {
		return false
	}
	if len(m.include) == 0 {
		return true
	}
	for _, p := range m.include {
		if matchGlob(p, rel) {
			return true
		}
	}
	return false
}

// Excluded reports whether rel matches an exclude pattern.
func (m *Matcher) Excluded(rel string) bool {
	for _, p := range m.exclude {
		if matchGlob(p, rel) {
			return true
		}
	}
	return false
}

func matchGlob(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pat, segs []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			for i := 0; i <= len(segs); i++ {
				if matchSegments(pat[1:], segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if ok, _ := path.Match(pat[0], segs[0]); !ok {
			return false
		}
		pat, segs = pat[1:], segs[1:]
	}
	return len(segs) == 0
}

// Collect reads every supported file under root selected by m, in path
// order. Directories matching an exclude pattern are not entered.
func Collect(root string, m *Matcher) ([]tsparse.Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "%s does not exist", root)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", root)
	}

	var sources []tsparse.Source
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && (d.Name() == ".git" || m.Excluded(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !tsparse.Supported(rel) || !m.Match(rel) {
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", rel)
		}
		sources = append(sources, tsparse.Source{Path: rel, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(sources, func(a, b tsparse.Source) int { return strings.Compare(a.Path, b.Path) })
	return sources, nil
}

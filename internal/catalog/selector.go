package catalog

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/fsutil"
)

// pattern is one compiled include or exclude glob. A "**" segment may stand
// for zero directories, so one raw pattern can compile to several globs.
type pattern struct {
	raw   string
	base  string
	globs []glob.Glob
}

func (p pattern) match(rel string) bool {
	for _, g := range p.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Selector is an ordered list of include patterns followed by an ordered list
// of exclude patterns. A path matched by any exclude pattern is never
// selected, regardless of which include pattern matched it.
type Selector struct {
	Name     string
	includes []pattern
	excludes []pattern
}

// NewSelector compiles the include and exclude patterns. Patterns are
// slash-separated and relative to the project root; "**" crosses directory
// boundaries and "*" stays within one segment.
func NewSelector(name string, include, exclude []string) (*Selector, error) {
	if len(include) == 0 {
		return nil, fmt.Errorf("selector %q: at least one include pattern is required", name)
	}
	s := &Selector{Name: name}
	for _, raw := range include {
		p, err := compile(raw)
		if err != nil {
			return nil, fmt.Errorf("selector %q: include %q: %w", name, raw, err)
		}
		s.includes = append(s.includes, p)
	}
	for _, raw := range exclude {
		// gulp-style negation is accepted for familiarity.
		p, err := compile(strings.TrimPrefix(raw, "!"))
		if err != nil {
			return nil, fmt.Errorf("selector %q: exclude %q: %w", name, raw, err)
		}
		s.excludes = append(s.excludes, p)
	}
	return s, nil
}

func compile(raw string) (pattern, error) {
	clean := normalize(raw)
	if clean == "" {
		return pattern{}, fmt.Errorf("empty pattern")
	}
	p := pattern{raw: raw, base: staticBase(clean)}
	for _, variant := range globstarVariants(clean) {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return pattern{}, err
		}
		p.globs = append(p.globs, g)
	}
	return p, nil
}

// globstarVariants expands every "**/" segment of p into the form that
// crosses at least one directory and the form that crosses none, so
// "a/**/*.svg" selects "a/x.svg" as well as "a/b/x.svg".
func globstarVariants(p string) []string {
	variants := []string{""}
	rest := p
	for {
		i := strings.Index(rest, "**/")
		if i < 0 || (i > 0 && rest[i-1] != '/') {
			break
		}
		head := rest[:i]
		next := make([]string, 0, 2*len(variants))
		for _, v := range variants {
			next = append(next, v+head+"**/", v+head)
		}
		variants = next
		rest = rest[i+len("**/"):]
	}
	for i := range variants {
		variants[i] += rest
	}
	return variants
}

func normalize(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	return strings.TrimPrefix(p, "./")
}

// staticBase returns the leading directory segments of p that contain no glob
// metacharacters. For a literal file path it is the file's directory.
func staticBase(p string) string {
	segments := strings.Split(p, "/")
	var static []string
	for i, seg := range segments {
		if strings.ContainsAny(seg, "*?[{") || i == len(segments)-1 {
			break
		}
		static = append(static, seg)
	}
	if len(static) == 0 {
		return "."
	}
	return path.Join(static...)
}

// Includes returns the raw include patterns in declaration order.
func (s *Selector) Includes() []string {
	out := make([]string, len(s.includes))
	for i, p := range s.includes {
		out[i] = p.raw
	}
	return out
}

// Excludes returns the raw exclude patterns in declaration order.
func (s *Selector) Excludes() []string {
	out := make([]string, len(s.excludes))
	for i, p := range s.excludes {
		out[i] = p.raw
	}
	return out
}

// Bases returns the distinct static base directories of the include
// patterns, relative to the project root.
func (s *Selector) Bases() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.includes {
		if _, ok := seen[p.base]; ok {
			continue
		}
		seen[p.base] = struct{}{}
		out = append(out, p.base)
	}
	return out
}

// Match reports whether the root-relative path rel is selected.
func (s *Selector) Match(rel string) bool {
	rel = normalize(rel)
	if s.excluded(rel) {
		return false
	}
	for _, p := range s.includes {
		if p.match(rel) {
			return true
		}
	}
	return false
}

func (s *Selector) excluded(rel string) bool {
	for _, p := range s.excludes {
		if p.match(rel) {
			return true
		}
	}
	return false
}

// Resolve matches the selector against the live filesystem under root and
// returns the selected files. Files are ordered by include pattern, then
// lexically; a file selected by several patterns keeps its first position
// and the base of the pattern that selected it first. When read is false the
// contents are left empty.
func (s *Selector) Resolve(root string, read bool) (fileset.FileSet, error) {
	var out fileset.FileSet
	seen := make(map[string]struct{})

	for _, p := range s.includes {
		baseDir := filepath.Join(root, filepath.FromSlash(p.base))
		paths, err := fsutil.FindFiles(baseDir, func(rel string) bool {
			full := path.Join(p.base, rel)
			return p.match(full) && !s.excluded(full)
		})
		if err != nil {
			return nil, fmt.Errorf("selector %q: resolving %q: %w", s.Name, p.raw, err)
		}
		for _, fp := range paths {
			if _, dup := seen[fp]; dup {
				continue
			}
			seen[fp] = struct{}{}
			f, err := load(fp, baseDir, read)
			if err != nil {
				return nil, fmt.Errorf("selector %q: %w", s.Name, err)
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func load(fp, base string, read bool) (*fileset.File, error) {
	if read {
		return fileset.Read(fp, base)
	}
	info, err := os.Stat(fp)
	if err != nil {
		return nil, err
	}
	return &fileset.File{Path: fp, Base: base, ModTime: info.ModTime()}, nil
}

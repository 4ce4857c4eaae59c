// Package template implements the work-file path templates used by the
// publish and scene-operation hooks. A template is a path pattern with
// named fields, e.g.
//
//	shots/{shot}/work/{shot}_{task}_v{version:03}.katana
//
// Fields extract from and apply to concrete paths; the {version} field is
// numeric and may carry a zero-padding width after a colon.
package template

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// VersionField is the reserved numeric field tracking work-file versions.
const VersionField = "version"

// Fields holds concrete values for a template's fields. Numeric fields
// (version) are ints; everything else is a string.
type Fields map[string]any

// Version returns the version field value, or 0 when absent.
func (f Fields) Version() int {
	v, _ := f[VersionField].(int)
	return v
}

// Clone returns a shallow copy, so callers can apply a new version
// without mutating the source (contexts and fields are replaced, never
// edited in place).
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

type fieldSpec struct {
	name string
	pad  int // zero-padding width, 0 for plain string fields
}

// Template is a parsed work-file path pattern.
type Template struct {
	raw     string
	parts   []string    // literal segments, len(parts) == len(fields)+1
	fields  []fieldSpec // fields between the literal segments
	aliases [][2]string // [aliased group, canonical field] for repeats
	re      *regexp.Regexp
}

var fieldToken = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(?::0?(\d+))?\}`)

// Parse compiles a template pattern. Field names may repeat; repeated
// fields must extract to the same value.
func Parse(raw string) (*Template, error) {
	raw = filepath.ToSlash(raw)
	t := &Template{raw: raw}

	matches := fieldToken.FindAllStringSubmatchIndex(raw, -1)
	last := 0
	var reBuilder strings.Builder
	reBuilder.WriteString("^")
	seen := map[string]bool{}

	for _, m := range matches {
		literal := raw[last:m[0]]
		t.parts = append(t.parts, literal)
		reBuilder.WriteString(regexp.QuoteMeta(literal))

		name := raw[m[2]:m[3]]
		spec := fieldSpec{name: name}
		if m[4] >= 0 {
			pad, err := strconv.Atoi(raw[m[4]:m[5]])
			if err != nil {
				return nil, fmt.Errorf("invalid padding in template %q: %w", raw, err)
			}
			spec.pad = pad
		}
		if name == VersionField && spec.pad == 0 {
			spec.pad = 1 // version is always numeric
		}

		t.fields = append(t.fields, spec)
		group := name
		if seen[name] {
			// RE2 has no backreferences; repeated fields capture under an
			// aliased group and are checked for consistency on extraction.
			group = fmt.Sprintf("%s_x%d", name, len(t.fields))
			t.aliases = append(t.aliases, [2]string{group, name})
		}
		if spec.pad > 0 {
			reBuilder.WriteString(fmt.Sprintf(`(?P<%s>\d+)`, group))
		} else {
			reBuilder.WriteString(fmt.Sprintf(`(?P<%s>[^/]+?)`, group))
		}
		seen[name] = true
		last = m[1]
	}
	t.parts = append(t.parts, raw[last:])
	reBuilder.WriteString(regexp.QuoteMeta(raw[last:]))
	reBuilder.WriteString("$")

	if len(t.fields) == 0 {
		return nil, fmt.Errorf("template %q has no fields", raw)
	}

	re, err := regexp.Compile(reBuilder.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile template %q: %w", raw, err)
	}
	t.re = re
	return t, nil
}

// String returns the raw pattern.
func (t *Template) String() string { return t.raw }

// GetFields extracts field values from a concrete path.
func (t *Template) GetFields(path string) (Fields, error) {
	path = filepath.ToSlash(path)
	m := t.re.FindStringSubmatch(path)
	if m == nil {
		return nil, fmt.Errorf("path %q does not match template %q", path, t.raw)
	}

	raws := map[string]string{}
	for i, name := range t.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		raws[name] = m[i]
	}
	for _, alias := range t.aliases {
		if raws[alias[0]] != raws[alias[1]] {
			return nil, fmt.Errorf("field %q is inconsistent in %q", alias[1], path)
		}
		delete(raws, alias[0])
	}

	fields := Fields{}
	for name, raw := range raws {
		if t.isNumeric(name) {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("field %q in %q is not numeric: %w", name, path, err)
			}
			fields[name] = n
		} else {
			fields[name] = raw
		}
	}
	return fields, nil
}

// ApplyFields renders the template with the given field values. All
// fields must be present.
func (t *Template) ApplyFields(fields Fields) (string, error) {
	var b strings.Builder
	for i, spec := range t.fields {
		b.WriteString(t.parts[i])
		rendered, err := t.render(spec, fields)
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
	}
	b.WriteString(t.parts[len(t.parts)-1])
	return filepath.FromSlash(b.String()), nil
}

// Paths returns the existing files on disk matching the template with the
// named fields wildcarded and the rest pinned to the given values. The
// publish hook uses it to enumerate existing work-file versions.
func (t *Template) Paths(fields Fields, wildcards ...string) ([]string, error) {
	wild := map[string]bool{}
	for _, w := range wildcards {
		wild[w] = true
	}

	var b strings.Builder
	for i, spec := range t.fields {
		b.WriteString(t.parts[i])
		if wild[spec.name] {
			b.WriteString("*")
			continue
		}
		rendered, err := t.render(spec, fields)
		if err != nil {
			return nil, err
		}
		b.WriteString(rendered)
	}
	b.WriteString(t.parts[len(t.parts)-1])

	matches, err := doublestar.FilepathGlob(filepath.FromSlash(b.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to glob template paths: %w", err)
	}

	// Glob is looser than the template regex; keep only true matches.
	out := matches[:0]
	for _, m := range matches {
		if t.re.MatchString(filepath.ToSlash(m)) {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Versions extracts the version numbers of the given paths, skipping any
// path that does not match the template.
func (t *Template) Versions(paths []string) []int {
	var out []int
	for _, p := range paths {
		fields, err := t.GetFields(p)
		if err != nil {
			continue
		}
		out = append(out, fields.Version())
	}
	return out
}

func (t *Template) isNumeric(name string) bool {
	for _, spec := range t.fields {
		if spec.name == name {
			return spec.pad > 0
		}
	}
	return false
}

func (t *Template) render(spec fieldSpec, fields Fields) (string, error) {
	val, ok := fields[spec.name]
	if !ok {
		return "", fmt.Errorf("missing field %q for template %q", spec.name, t.raw)
	}
	if spec.pad > 0 {
		n, ok := val.(int)
		if !ok {
			return "", fmt.Errorf("field %q must be an int, got %T", spec.name, val)
		}
		return fmt.Sprintf("%0*d", spec.pad, n), nil
	}
	return fmt.Sprintf("%v", val), nil
}

// Package launcher discovers installed host executables and prepares
// their launch environment. Discovery walks per-OS match templates with
// {version} and {product} tokens; each token expands to a glob wildcard
// for scanning and a named capture group for extraction.
package launcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/ardenfx/stagehand/internal/logging"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/bmatcuk/doublestar/v4"
)

// Template tokens.
const (
	TokenVersion = "{version}"
	TokenProduct = "{product}"
)

// DefaultProduct is assumed when a match template has no {product} token.
const DefaultProduct = "Katana"

// Launchable version window. Unlike the engine's runtime gate, scanning
// rejects below the minimum and keeps-but-warns above the tested maximum.
var (
	MinimumVersion = domain.Version{Major: 3, Minor: 1, Release: 0}
	MaximumVersion = domain.Version{Major: 6, Minor: 0, Release: 4}
)

// SoftwareVersion is one discovered host installation.
type SoftwareVersion struct {
	Product string
	Version domain.Version
	Path    string
}

// DisplayName renders "Katana 6.0v2".
func (s SoftwareVersion) DisplayName() string {
	return s.Product + " " + s.Version.String()
}

// Scanner discovers host installations from glob templates.
type Scanner struct {
	templates map[string][]string
	products  []string
	min       domain.Version
	max       domain.Version
	logger    *slog.Logger
	goos      string
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithScannerLogger sets the scanner logger.
func WithScannerLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) { s.logger = logger }
}

// WithProducts restricts discovery to the named products.
func WithProducts(products ...string) ScannerOption {
	return func(s *Scanner) { s.products = products }
}

// WithVersionWindow overrides the launchable version window.
func WithVersionWindow(min, max domain.Version) ScannerOption {
	return func(s *Scanner) { s.min, s.max = min, max }
}

// WithOS overrides the operating system key used to select templates.
func WithOS(goos string) ScannerOption {
	return func(s *Scanner) { s.goos = goos }
}

// NewScanner creates a scanner over per-OS match templates, keyed by
// GOOS name.
func NewScanner(templates map[string][]string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		templates: templates,
		products:  []string{DefaultProduct},
		min:       MinimumVersion,
		max:       MaximumVersion,
		logger:    logging.NewNop(),
		goos:      runtime.GOOS,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultTemplates returns the standard install locations per OS.
func DefaultTemplates() map[string][]string {
	return map[string][]string{
		"linux":   {"/opt/Foundry/Katana{version}/katana"},
		"darwin":  {"/Applications/Katana{version}/Katana{version}.app/Contents/MacOS/Katana"},
		"windows": {`C:\Program Files\Katana{version}\bin\katanaBin.exe`},
	}
}

// Scan walks the match templates for the current OS and returns the
// supported installations found on disk, newest first not guaranteed;
// callers sort as needed.
func (s *Scanner) Scan() ([]SoftwareVersion, error) {
	var found []SoftwareVersion
	for _, tmpl := range s.templates[s.goos] {
		matches, err := s.scanTemplate(tmpl)
		if err != nil {
			return nil, err
		}
		found = append(found, matches...)
	}
	return found, nil
}

func (s *Scanner) scanTemplate(tmpl string) ([]SoftwareVersion, error) {
	re, err := templateRegexp(tmpl)
	if err != nil {
		return nil, err
	}

	pattern := strings.ReplaceAll(tmpl, TokenVersion, "*")
	pattern = strings.ReplaceAll(pattern, TokenProduct, "*")
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %q: %w", tmpl, err)
	}

	var out []SoftwareVersion
	for _, path := range paths {
		sw, ok := s.extract(re, path)
		if !ok {
			continue
		}
		out = append(out, sw)
	}
	return out, nil
}

func (s *Scanner) extract(re *regexp.Regexp, path string) (SoftwareVersion, bool) {
	m := re.FindStringSubmatch(filepath.ToSlash(path))
	if m == nil {
		return SoftwareVersion{}, false
	}

	sw := SoftwareVersion{Product: DefaultProduct, Path: path}
	var rawVersion string
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		switch {
		case name == "product":
			sw.Product = m[i]
		case strings.HasPrefix(name, "version"):
			if rawVersion != "" && m[i] != rawVersion {
				// The same install path mentions two different versions.
				return SoftwareVersion{}, false
			}
			rawVersion = m[i]
		}
	}

	if !s.productSupported(sw.Product) {
		s.logger.Debug("skipping unsupported product", "product", sw.Product, "path", path)
		return SoftwareVersion{}, false
	}

	version, err := domain.ParseVersion(rawVersion)
	if err != nil {
		s.logger.Debug("skipping unparsable version", "version", rawVersion, "path", path)
		return SoftwareVersion{}, false
	}
	sw.Version = version

	if version.Compare(s.min) < 0 {
		s.logger.Debug("skipping version below minimum",
			"version", version.String(), "minimum", s.min.String(), "path", path)
		return SoftwareVersion{}, false
	}
	if version.Compare(s.max) > 0 {
		s.logger.Warn("version is newer than the last tested release",
			"version", version.String(), "max_tested", s.max.String(), "path", path)
	}
	return sw, true
}

func (s *Scanner) productSupported(product string) bool {
	for _, p := range s.products {
		if strings.EqualFold(p, product) {
			return true
		}
	}
	return false
}

// templateRegexp compiles a match template into an anchored regexp with
// version/product capture groups. Repeated tokens capture under aliased
// names and are checked for consistency on extraction.
func templateRegexp(tmpl string) (*regexp.Regexp, error) {
	tmpl = filepath.ToSlash(tmpl)
	var b strings.Builder
	b.WriteString("^")

	versionSeen := 0
	for len(tmpl) > 0 {
		vi := strings.Index(tmpl, TokenVersion)
		pi := strings.Index(tmpl, TokenProduct)
		if vi == -1 && pi == -1 {
			b.WriteString(regexp.QuoteMeta(tmpl))
			break
		}

		next, token := vi, TokenVersion
		if vi == -1 || (pi != -1 && pi < vi) {
			next, token = pi, TokenProduct
		}

		b.WriteString(regexp.QuoteMeta(tmpl[:next]))
		if token == TokenVersion {
			group := "version"
			if versionSeen > 0 {
				group = fmt.Sprintf("version_x%d", versionSeen)
			}
			versionSeen++
			b.WriteString(fmt.Sprintf(`(?P<%s>[0-9][0-9v.]*)`, group))
		} else {
			// Non-greedy so a trailing {version} token starts at the
			// first digit.
			b.WriteString(`(?P<product>[^/\\]+?)`)
		}
		tmpl = tmpl[next+len(token):]
	}

	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid match template: %w", err)
	}
	return re, nil
}

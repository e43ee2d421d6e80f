package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/stratoforge/strato/internal/log"
)

// EnvConfigPath is the environment variable consulted for a configuration
// file path when the caller does not pass one explicitly.
const EnvConfigPath = "STRATO_CONFIG"

// DefaultSearchPaths returns the default on-disk candidate locations, in
// priority order: the user-scoped config first, then the system-wide one.
func DefaultSearchPaths() []string {
	paths := []string{"/etc/strato.toml"}
	home, err := os.UserHomeDir()
	if err != nil {
		return paths
	}
	return append([]string{filepath.Join(home, ".config", "strato.toml")}, paths...)
}

// Source is an explicit configuration source passed by a caller: either a
// file path or an already-open reader. When Reader is set it takes
// precedence over Path.
type Source struct {
	Path   string
	Reader io.Reader
}

// Document is a fully parsed configuration file: provider name to that
// provider's flat section. Immutable after parse.
type Document map[string]Values

// Section returns the configuration section for provider. A provider absent
// from the document yields an empty section, not an error: callers may
// legitimately supply everything as overrides.
func (d Document) Section(provider string) Values {
	if section, ok := d[provider]; ok {
		return section
	}
	return Values{}
}

// Loader locates and parses a configuration document. The zero value is not
// usable; construct with NewLoader. SearchPaths is exported so tests can
// substitute temp-dir candidates without touching process-wide state.
type Loader struct {
	// EnvVar names the environment variable checked for a config path.
	EnvVar string
	// SearchPaths are the default candidate locations, in priority order.
	SearchPaths []string
}

// NewLoader returns a Loader with the standard environment variable and
// search paths.
func NewLoader() *Loader {
	return &Loader{
		EnvVar:      EnvConfigPath,
		SearchPaths: DefaultSearchPaths(),
	}
}

// Load finds and parses the first candidate source that exists. Candidates
// are tried in order: the explicit source (if any), the path named by the
// loader's environment variable (if set), then each search path. A missing
// file advances to the next candidate; a file that exists but fails to parse
// aborts immediately with a SourceParseError. If no candidate exists at all,
// Load returns a SourceNotFoundError naming every attempted location.
func (l *Loader) Load(explicit *Source) (Document, error) {
	if explicit != nil && explicit.Reader != nil {
		return parseReader(explicit.Reader)
	}

	var candidates []string
	if explicit != nil && explicit.Path != "" {
		candidates = append(candidates, explicit.Path)
	}
	if l.EnvVar != "" {
		if p := os.Getenv(l.EnvVar); p != "" {
			candidates = append(candidates, p)
		}
	}
	candidates = append(candidates, l.SearchPaths...)

	for _, path := range candidates {
		doc, err := parseFile(path)
		if err == nil {
			log.Named("config").Debugw("loaded configuration", "path", path)
			return doc, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		// Found but broken: fatal, never fall through to a later candidate.
		return nil, err
	}

	return nil, &SourceNotFoundError{Attempted: candidates}
}

func parseFile(path string) (Document, error) {
	// #nosec G304 -- candidate paths are caller- or operator-chosen by design
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	doc, err := parseDocument(data)
	if err != nil {
		return nil, &SourceParseError{Location: path, Err: err}
	}
	return doc, nil
}

func parseReader(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config stream: %w", err)
	}
	doc, err := parseDocument(data)
	if err != nil {
		return nil, &SourceParseError{Location: "<stream>", Err: err}
	}
	return doc, nil
}

// parseDocument decodes TOML into provider sections. The document contract
// is named top-level sections of scalar key/values; a top-level key that is
// not a table is a shape error and reported like any other parse failure.
func parseDocument(data []byte) (Document, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	doc := make(Document, len(raw))
	for provider, section := range raw {
		table, ok := section.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("top-level key %q is not a provider section", provider)
		}
		doc[provider] = Values(table)
	}
	return doc, nil
}

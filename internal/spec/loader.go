// Package spec loads the user-declared grouped browser specs.
package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"browser-matrix/internal/matcher"
)

// Load reads a grouped-spec file. JSON is the default; a .yaml/.yml
// extension selects YAML. Malformed entries are rejected here with a
// descriptive error rather than surfacing later as a silent non-match.
func Load(path string) ([]matcher.GroupedSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}

	var groups []matcher.GroupedSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &groups)
	default:
		err = json.Unmarshal(raw, &groups)
	}
	if err != nil {
		return nil, fmt.Errorf("parse spec file %s: %w", path, err)
	}

	for i, g := range groups {
		if err := validate(i, g); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// validate enforces the spec shape. Device stays optional: desktop
// catalog entries carry no device and match on the empty string.
func validate(i int, g matcher.GroupedSpec) error {
	switch {
	case g.OS == "":
		return fmt.Errorf("spec entry %d: missing os", i)
	case g.OSVersion == "":
		return fmt.Errorf("spec entry %d: missing os_version", i)
	case len(g.Browsers) == 0:
		return fmt.Errorf("spec entry %d: no browsers declared", i)
	}
	for j, b := range g.Browsers {
		if b.Browser == "" {
			return fmt.Errorf("spec entry %d: browser %d has no name", i, j)
		}
	}
	return nil
}

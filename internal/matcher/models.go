package matcher

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AvailableBrowser is one catalog entry from the device cloud.
// Read-only within a run.
type AvailableBrowser struct {
	OS             string `json:"os" yaml:"os"`
	OSVersion      string `json:"os_version" yaml:"os_version"`
	Browser        string `json:"browser" yaml:"browser"`
	BrowserVersion string `json:"browser_version,omitempty" yaml:"browser_version,omitempty"`
	Device         string `json:"device,omitempty" yaml:"device,omitempty"`
}

// Key is the identity used to de-duplicate matched browsers across specs.
func (b AvailableBrowser) Key() string {
	return strings.Join([]string{b.OS, b.OSVersion, b.Browser, b.BrowserVersion, b.Device}, "|")
}

// BrowserSpec is one desired browser within a grouped spec, with an
// optional raw version expression ("", "9,10", "last 2").
type BrowserSpec struct {
	Browser        string `json:"browser" yaml:"browser"`
	BrowserVersion string `json:"browser_version,omitempty" yaml:"browser_version,omitempty"`
}

// GroupedSpec is a user declaration bundling an os/os_version/device
// with the browsers wanted on it.
type GroupedSpec struct {
	OS        string        `json:"os" yaml:"os"`
	OSVersion string        `json:"os_version" yaml:"os_version"`
	Device    string        `json:"device,omitempty" yaml:"device,omitempty"`
	Browsers  []BrowserSpec `json:"browsers" yaml:"browsers"`
}

// ResolvedSpec is one flattened per-browser spec ready for matching.
type ResolvedSpec struct {
	Device     string `json:"device,omitempty"`
	OS         string `json:"os"`
	OSVersion  string `json:"os_version"`
	Browser    string `json:"browser"`
	RawVersion string `json:"browser_version,omitempty"`

	Versions VersionConstraint `json:"-"`
}

type constraintKind int

const (
	anyVersion constraintKind = iota
	exactList
	lastN
)

// VersionConstraint is the parsed form of a spec's raw version expression:
// match any version, match a literal set, or take the n numerically
// highest available versions.
type VersionConstraint struct {
	kind constraintKind
	set  map[string]struct{}
	n    int
}

var lastNPattern = regexp.MustCompile(`^last ([0-9]+)$`)

// ParseConstraint maps a raw version expression to its constraint.
// Empty means any version. "last N" (case-sensitive) takes the N highest.
// Anything else is a comma-separated list of literal version strings,
// compared exactly as split — no trimming.
func ParseConstraint(raw string) VersionConstraint {
	if raw == "" {
		return VersionConstraint{kind: anyVersion}
	}
	if m := lastNPattern.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return VersionConstraint{kind: lastN, n: n}
	}
	set := map[string]struct{}{}
	for _, v := range strings.Split(raw, ",") {
		set[v] = struct{}{}
	}
	return VersionConstraint{kind: exactList, set: set}
}

// Warning records a duplicate identity key seen during aggregation.
// Non-fatal: two grouped specs may legitimately request the same
// physical browser.
type Warning struct {
	Key     string
	Browser AvailableBrowser
}

// ConfigError reports a spec that cannot be satisfied by the catalog:
// either no candidates matched at all, or fewer versions are available
// than a "last N" request needs. The caller decides exit behavior.
type ConfigError struct {
	Spec   ResolvedSpec
	Reason string
}

func (e *ConfigError) Error() string {
	raw, _ := json.Marshal(e.Spec)
	return fmt.Sprintf("%s: %s", e.Reason, raw)
}

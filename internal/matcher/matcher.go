// Package matcher resolves declared browser specs against the device-cloud
// catalog and aggregates the matches into a de-duplicated target list.
package matcher

import (
	"slices"
	"strconv"
)

// Flatten expands grouped specs into one ResolvedSpec per declared browser,
// inheriting device/os/os_version from the group.
func Flatten(groups []GroupedSpec) []ResolvedSpec {
	var out []ResolvedSpec
	for _, g := range groups {
		for _, b := range g.Browsers {
			out = append(out, ResolvedSpec{
				Device:     g.Device,
				OS:         g.OS,
				OSVersion:  g.OSVersion,
				Browser:    b.Browser,
				RawVersion: b.BrowserVersion,
				Versions:   ParseConstraint(b.BrowserVersion),
			})
		}
	}
	return out
}

// Match filters the catalog down to the entries satisfying one resolved spec.
// An empty result, or fewer available versions than a "last N" request
// needs, is a *ConfigError.
func (rs ResolvedSpec) Match(catalog []AvailableBrowser) ([]AvailableBrowser, error) {
	var cand []AvailableBrowser
	for _, b := range catalog {
		if b.Device == rs.Device && b.OS == rs.OS && b.OSVersion == rs.OSVersion && b.Browser == rs.Browser {
			cand = append(cand, b)
		}
	}

	switch rs.Versions.kind {
	case anyVersion:
		// all candidates pass regardless of version
	case exactList:
		kept := make([]AvailableBrowser, 0, len(cand))
		for _, b := range cand {
			if _, ok := rs.Versions.set[b.BrowserVersion]; ok {
				kept = append(kept, b)
			}
		}
		cand = kept
	case lastN:
		if len(cand) < rs.Versions.n {
			return nil, &ConfigError{Spec: rs, Reason: "fewer browser versions available than requested"}
		}
		// Numeric descending. Versions that fail to parse sort as 0; ties
		// keep catalog order. Non-numeric suffixes ("10.0-beta") are
		// outside the ordering guarantee.
		slices.SortStableFunc(cand, func(a, b AvailableBrowser) int {
			av, bv := numericVersion(a.BrowserVersion), numericVersion(b.BrowserVersion)
			switch {
			case av > bv:
				return -1
			case av < bv:
				return 1
			}
			return 0
		})
		cand = cand[:rs.Versions.n]
	}

	if len(cand) == 0 {
		return nil, &ConfigError{Spec: rs, Reason: "no browsers in the catalog match this spec"}
	}
	return cand, nil
}

func numericVersion(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// Aggregate is the whole pipeline core as a pure fold: flatten the grouped
// specs, match each against the catalog, and merge the results into an
// identity-keyed target set. Last write wins on a key collision and the
// collision is reported as a warning. The returned list is sorted by key so
// output is stable for a fixed catalog and spec list.
func Aggregate(catalog []AvailableBrowser, groups []GroupedSpec) ([]AvailableBrowser, []Warning, error) {
	targets := map[string]AvailableBrowser{}
	var warnings []Warning

	for _, rs := range Flatten(groups) {
		matched, err := rs.Match(catalog)
		if err != nil {
			return nil, nil, err
		}
		for _, b := range matched {
			k := b.Key()
			if _, dup := targets[k]; dup {
				warnings = append(warnings, Warning{Key: k, Browser: b})
			}
			targets[k] = b
		}
	}

	keys := make([]string, 0, len(targets))
	for k := range targets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]AvailableBrowser, 0, len(keys))
	for _, k := range keys {
		out = append(out, targets[k])
	}
	return out, warnings, nil
}

package main

import (
	"log/slog"
	"slices"
	"strings"
)

// a set of version strings.
type VersionSet map[string]bool

// adds `candidate` to `versions` if it is numerically greater than `than`.
// returns `true` if it was added.
func add_if_greater(versions VersionSet, candidate string, than int) bool {
	n, ok := to_int(candidate)
	if !ok || n <= than {
		return false
	}
	versions[candidate] = true
	return true
}

// collects the current versions of `variant`: the base version, plus any beta and test versions
// that are newer than it.
func resolve_current(variant Variant, beta, test bool, lookup VersionLookup) VersionSet {
	d := variant.Descriptor()
	base := lookup.Version(d.ID)
	versions := VersionSet{base: true}

	base_n, _ := to_int(base)
	if beta {
		for _, product := range d.Beta {
			add_if_greater(versions, lookup.Version(product), base_n)
		}
	}
	if test {
		for _, product := range d.Test {
			add_if_greater(versions, lookup.Version(product), base_n)
		}
	}
	return versions
}

// infers the variant a declared version number belongs to from its major version,
// everything before the last four digits: "11505" => 1 => ClassicEra, "40401" => 4 => Classic.
func variant_for_version(version string) (Variant, bool) {
	if len(version) <= 4 {
		return Retail, false
	}
	major, ok := to_int(version[:len(version)-4])
	if !ok {
		return Retail, false
	}
	switch {
	case major == 0:
		return Retail, false
	case major == 1:
		return ClassicEra, true
	case major <= 10:
		return Classic, true
	default:
		return Retail, true
	}
}

// maps each declared version in `detected` to the current versions of the variant it belongs to.
// beta and test versions are added when newer than the declared version they were found for.
// the union is returned, so a directive declaring versions for several variants keeps doing so.
func resolve_from_detected(detected VersionSet, beta, test bool, lookup VersionLookup) VersionSet {
	versions := VersionSet{}
	for _, declared := range sorted_versions(detected) {
		variant, ok := variant_for_version(declared)
		if !ok {
			slog.Debug("ignoring unrecognised version", "version", declared)
			continue
		}
		declared_n, _ := to_int(declared)
		d := variant.Descriptor()

		versions[lookup.Version(d.ID)] = true
		if beta {
			for _, product := range d.Beta {
				add_if_greater(versions, lookup.Version(product), declared_n)
			}
		}
		if test {
			for _, product := range d.Test {
				add_if_greater(versions, lookup.Version(product), declared_n)
			}
		}
	}
	return versions
}

// the members of `versions` in ascending numeric order.
// anything non-numeric sorts first, then lexically.
func sorted_versions(versions VersionSet) []string {
	keys := []string{}
	for v := range versions {
		keys = append(keys, v)
	}
	slices.SortFunc(keys, func(a, b string) int {
		an, a_ok := to_int(a)
		bn, b_ok := to_int(b)
		switch {
		case a_ok && b_ok && an != bn:
			if an < bn {
				return -1
			}
			return 1
		case a_ok != b_ok:
			if b_ok {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})
	return keys
}

// {"110007", "11505"} => "11505, 110007"
func format_interface(versions VersionSet) string {
	return strings.Join(sorted_versions(versions), ", ")
}

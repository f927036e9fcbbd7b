package main

import (
	"strings"
)

// returns the first base directive line declaring more than one version, "## Interface: 11505, 110007"
func single_line_multi_value(lines []string) (string, bool) {
	for _, line := range lines {
		if strings.HasPrefix(line, DirectiveBase) && strings.Contains(line[len(DirectiveBase):], ",") {
			return line[len(DirectiveBase):], true
		}
	}
	return "", false
}

// " 11505, 110007" => {"11505", "110007"}
// anything that isn't a version number is skipped.
func split_versions(value string, versions VersionSet) {
	for _, bit := range strings.Split(value, ",") {
		bit = strings.TrimSpace(bit)
		if _, ok := to_int(bit); ok {
			versions[bit] = true
		}
	}
}

// detects the versions already declared in `text` for `variant` and whether they're declared as a
// comma separated list on the base directive ("single line multi").
//
// a single line multi base directive is incompatible with multi mode, nothing is detected and the
// per-variant directives are left to the freshly resolved versions.
// outside of multi mode only a single line multi base directive is detected.
func detect_existing_versions(text string, variant Variant, multi bool) (VersionSet, bool) {
	lines := strings.Split(text, "\n")
	versions := VersionSet{}

	value, single_line_multi := single_line_multi_value(lines)
	if single_line_multi {
		if multi {
			return versions, false
		}
		split_versions(value, versions)
		return versions, true
	}

	if !multi {
		return versions, false
	}

	for _, label := range variant.Descriptor().Directives {
		for _, line := range lines {
			if strings.HasPrefix(line, label) {
				split_versions(line[len(label):], versions)
			}
		}
	}
	return versions, false
}

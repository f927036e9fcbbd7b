package main

import (
	"strings"
)

// replaces every line in `lines` starting with `label` with "<label> <value>".
func replace_directive(lines []string, label, value string) {
	for i, line := range lines {
		if strings.HasPrefix(line, label) {
			lines[i] = label + " " + value
		}
	}
}

// rewrites the directive(s) of `variant` in `text` to declare `interface_value`.
// in multi mode the per-variant directives are rewritten, otherwise the base directive.
// directives are never added and all other lines are left as they are.
func update_interface_content(text string, variant Variant, interface_value string, multi, single_line_multi bool) string {
	lines := strings.Split(text, "\n")
	if multi && !single_line_multi {
		for _, label := range variant.Descriptor().Directives {
			replace_directive(lines, label, interface_value)
		}
	} else {
		replace_directive(lines, DirectiveBase, interface_value)
	}
	return strings.Join(lines, "\n")
}

// returns the line ending used in `text`: "\r\n", "\r" or "\n".
// the first kind found wins.
func detect_line_ending(text string) string {
	i := strings.IndexAny(text, "\r\n")
	if i == -1 || text[i] == '\n' {
		return "\n"
	}
	if strings.HasPrefix(text[i:], "\r\n") {
		return "\r\n"
	}
	return "\r"
}

// converts all line endings in `text` to "\n".
func normalise_line_endings(text string) string {
	return strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
}

// converts the "\n" line endings in `text` to `line_ending`.
func restore_line_endings(text, line_ending string) string {
	if line_ending == "\n" {
		return text
	}
	return strings.ReplaceAll(text, "\n", line_ending)
}

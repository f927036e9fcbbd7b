package main

import (
	"fmt"
	"log/slog"
	"os"
)

// options and collaborators for a single run.
type State struct {
	Beta           bool
	Test           bool
	DefaultVariant Variant
	Versions       VersionLookup
}

func NewState(versions VersionLookup) *State {
	return &State{
		DefaultVariant: Retail,
		Versions:       versions,
	}
}

// the contents of a .toc file ready for processing.
type TocFile struct {
	Path       string
	Text       string // "\n" line endings, no byte-order mark
	LineEnding string
	BOM        bool
	Mode       os.FileMode
}

func read_toc_file(path string) (TocFile, error) {
	empty_response := TocFile{}

	info, err := os.Stat(path)
	if err != nil {
		return empty_response, fmt.Errorf("failed to stat file: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return empty_response, fmt.Errorf("failed to read file: %w", err)
	}

	raw, has_bom, err := elide_bom(raw)
	if err != nil {
		return empty_response, fmt.Errorf("failed to read byte-order mark: %w", err)
	}

	text := string(raw)
	return TocFile{
		Path:       path,
		Text:       normalise_line_endings(text),
		LineEnding: detect_line_ending(text),
		BOM:        has_bom,
		Mode:       info.Mode().Perm(),
	}, nil
}

// writes `text` to the file, restoring its original line endings and byte-order mark.
func write_toc_file(toc TocFile, text string) error {
	out := restore_line_endings(text, toc.LineEnding)
	if toc.BOM {
		out = string(bom) + out
	}
	err := os.WriteFile(toc.Path, []byte(out), toc.Mode)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// updates the directive(s) of `target.Variant` in the .toc file at `path`.
// the file is only written if its content changes.
// returns `true` if the file was modified.
func update_versions(state *State, path string, target Target) (bool, error) {
	toc, err := read_toc_file(path)
	if err != nil {
		return false, err
	}

	versions := resolve_current(target.Variant, state.Beta, state.Test, state.Versions)
	interface_value := format_interface(versions)

	detected, single_line_multi := detect_existing_versions(toc.Text, target.Variant, target.Multi)
	if len(detected) > 0 {
		reconciled := resolve_from_detected(detected, state.Beta, state.Test, state.Versions)
		if len(reconciled) > 0 {
			interface_value = format_interface(reconciled)
		}
	}

	slog.Debug("determined interface versions", "file", path, "flavor", target.Variant, "multi", target.Multi,
		"detected", format_interface(detected), "interface", interface_value)

	updated := update_interface_content(toc.Text, target.Variant, interface_value, target.Multi, single_line_multi)
	if updated == toc.Text {
		slog.Info("no change", "file", path, "flavor", target.Variant)
		return false, nil
	}

	err = write_toc_file(toc, updated)
	if err != nil {
		return false, err
	}
	slog.Info("updated", "file", path, "flavor", target.Variant, "interface", interface_value)
	return true, nil
}

// runs every variant pass that applies to the .toc file at `path`.
// returns `true` if any pass modified the file.
func process_file(state *State, path string) (bool, error) {
	modified := false
	for _, target := range targets_for_file(path, state.DefaultVariant) {
		slog.Debug("checking", "file", path, "flavor", target.Variant, "multi", target.Multi)
		changed, err := update_versions(state, path, target)
		if err != nil {
			return modified, fmt.Errorf("failed to update '%s': %w", path, err)
		}
		modified = modified || changed
	}
	return modified, nil
}

// processes each .toc file in `path_list` in order,
// returning the paths of modified files in the order they were modified.
// stops at the first file that can't be read or written.
func process_files(state *State, path_list []string) ([]string, error) {
	modified_files := []string{}
	for _, path := range path_list {
		modified, err := process_file(state, path)
		if modified {
			modified_files = append(modified_files, path)
		}
		if err != nil {
			return unique(modified_files), err
		}
	}
	return unique(modified_files), nil
}

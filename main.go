package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
)

var APP_VERSION = "unreleased"

var LOG_LEVEL = new(slog.LevelVar)

var (
	modified_style   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	unmodified_style = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// command line arguments
type Args struct {
	Directory    string
	Config       string
	Flavor       string
	Beta         bool
	PTR          bool
	Exclude      []string
	VersionsFile string
	Timeout      time.Duration
	NoGitignore  bool
	LogLevel     string
	ShowVersion  bool

	flags *pflag.FlagSet
}

// `true` if the flag `name` was given on the command line.
func (a Args) changed(name string) bool {
	return a.flags != nil && a.flags.Changed(name)
}

func parse_args(arg_list []string) (Args, error) {
	args := Args{}
	defaults := default_settings()

	flags := pflag.NewFlagSet("toc-updater", pflag.ContinueOnError)
	flags.StringVarP(&args.Directory, "directory", "d", defaults.Directory, "directory to search for .toc files")
	flags.StringVarP(&args.Config, "config", "c", "", fmt.Sprintf("path to a config file (default <directory>/%s)", CONFIG_FILENAME))
	flags.StringVarP(&args.Flavor, "flavor", "f", "retail", "game flavor for .toc files without a flavor suffix ("+strings.Join(flavor_names(), ", ")+")")
	flags.BoolVarP(&args.Beta, "beta", "b", false, "include beta versions")
	flags.BoolVarP(&args.PTR, "ptr", "p", false, "include test versions")
	flags.StringSliceVarP(&args.Exclude, "exclude", "x", []string{}, "glob patterns of .toc files to skip, relative to the directory")
	flags.StringVar(&args.VersionsFile, "versions", "", "JSON file of pinned product versions")
	flags.DurationVar(&args.Timeout, "timeout", defaults.Timeout, "timeout for each version lookup")
	flags.BoolVar(&args.NoGitignore, "no-gitignore", false, "also update .toc files ignored by .gitignore")
	flags.StringVar(&args.LogLevel, "loglevel", "info", "logging verbosity (debug, info, warn, error)")
	flags.BoolVarP(&args.ShowVersion, "version", "v", false, "print version and exit")

	err := flags.Parse(arg_list)
	if err != nil {
		return args, err
	}
	if flags.NArg() > 0 {
		return args, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}
	args.flags = flags
	return args, nil
}

func parse_log_level(level string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// combines defaults, the config file and command line arguments, in that order.
func build_settings(args Args) (Settings, error) {
	settings := default_settings()
	settings.Directory = args.Directory

	cfg_path := args.Config
	required := cfg_path != ""
	if !required {
		cfg_path = default_config_path(args.Directory)
	}
	cfg, err := load_config(cfg_path, required)
	if err != nil {
		return settings, err
	}
	settings, err = apply_config(settings, cfg, cfg_path)
	if err != nil {
		return settings, err
	}

	if args.changed("flavor") {
		settings.Flavor, err = parse_flavor(args.Flavor)
		if err != nil {
			return settings, err
		}
	}
	if args.changed("beta") {
		settings.Beta = args.Beta
	}
	if args.changed("ptr") {
		settings.PTR = args.PTR
	}
	if args.changed("exclude") {
		settings.Exclude = append(settings.Exclude, args.Exclude...)
	}
	if args.changed("versions") {
		settings.VersionsFile = args.VersionsFile
	}
	if args.changed("timeout") {
		settings.Timeout = args.Timeout
	}
	if args.changed("no-gitignore") {
		settings.UseGitignore = !args.NoGitignore
	}
	return settings, nil
}

// prints the list of modified files to `out`.
func report(out io.Writer, modified_files []string) {
	if len(modified_files) == 0 {
		fmt.Fprintln(out, unmodified_style.Render("No files were modified."))
		return
	}
	fmt.Fprintln(out, modified_style.Render("Files modified:"))
	for _, path := range modified_files {
		fmt.Fprintln(out, modified_style.Render(path))
	}
}

// updates all .toc files found using `settings` and `source` for version lookups.
func run(settings Settings, source *VersionSource) ([]string, error) {
	if settings.VersionsFile != "" {
		err := load_pins(settings.VersionsFile, source.Cache)
		if err != nil {
			return nil, err
		}
	}

	path_list, err := find_toc_files(settings.Directory, DiscoverOptions{
		UseGitignore: settings.UseGitignore,
		Exclude:      settings.Exclude,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("found .toc files", "num", len(path_list), "directory", settings.Directory)

	state := NewState(source)
	state.Beta = settings.Beta
	state.Test = settings.PTR
	state.DefaultVariant = settings.Flavor

	return process_files(state, path_list)
}

// --- bootstrap

func init() {
	if is_testing() {
		return
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: LOG_LEVEL})))
}

func main() {
	args, err := parse_args(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	die(err != nil, "bad arguments", "error", err)

	if args.ShowVersion {
		fmt.Println("toc-updater " + APP_VERSION)
		os.Exit(0)
	}

	level, err := parse_log_level(args.LogLevel)
	die(err != nil, "bad arguments", "error", err)
	LOG_LEVEL.Set(level)

	settings, err := build_settings(args)
	die(err != nil, "bad configuration", "error", err)

	slog.Debug("settings", "directory", settings.Directory, "flavor", settings.Flavor, "beta", settings.Beta,
		"ptr", settings.PTR, "exclude", settings.Exclude, "versions-file", settings.VersionsFile)

	source := NewVersionSource(settings.Timeout)
	modified_files, err := run(settings, source)
	if len(modified_files) > 0 || err == nil {
		report(os.Stdout, modified_files)
	}
	die(err != nil, "failed to update .toc files", "error", err)
}

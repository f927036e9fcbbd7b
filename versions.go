package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptrace"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

var VERSIONS_URL = "https://us.version.battle.net/v2/products/%s/versions"

// substituted for any version that could not be looked up.
const SENTINEL_VERSION = "00000"

// the record in a versions table we read from.
const REGION = "us"

// index of the dotted "VersionsName" field in a versions table record.
const VERSION_FIELD = 5

// product => "MAJORMMPP" version string.
// lives for a single run, entries are never replaced once set.
type VersionCache map[Product]string

// anything that can tell us the current version string of a product.
type VersionLookup interface {
	Version(product Product) string
}

// looks up product versions from the versions endpoint, remembering each answer for the run.
type VersionSource struct {
	Client *http.Client
	URL    string // a format string taking the product name
	Cache  VersionCache
}

func NewVersionSource(timeout time.Duration) *VersionSource {
	return &VersionSource{
		Client: &http.Client{Timeout: timeout},
		URL:    VERSIONS_URL,
		Cache:  VersionCache{},
	}
}

// returns the version of `product`, fetching it once per run.
// failures are logged and yield `SENTINEL_VERSION`, which is cached like any other answer.
func (vs *VersionSource) Version(product Product) string {
	version, present := vs.Cache[product]
	if present {
		return version
	}

	version, err := vs.fetch(product)
	if err != nil {
		slog.Warn("failed to fetch product version, using sentinel", "product", product, "sentinel", SENTINEL_VERSION, "error", err)
		version = SENTINEL_VERSION
	}

	slog.Debug("product version", "product", product, "version", version)
	vs.Cache[product] = version
	return version
}

func (vs *VersionSource) fetch(product Product) (string, error) {
	text, err := vs.download(fmt.Sprintf(vs.URL, product))
	if err != nil {
		return "", err
	}
	return parse_versions_table(text)
}

// client trace to log whether the request's underlying tcp connection was re-used
func trace_context() context.Context {
	client_tracer := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			slog.Debug("HTTP connection reuse", "reused", info.Reused, "remote", info.Conn.RemoteAddr())
		},
	}
	return httptrace.WithClientTrace(context.Background(), client_tracer)
}

func (vs *VersionSource) download(url string) (string, error) {
	slog.Debug("HTTP GET", "url", url)

	req, err := http.NewRequestWithContext(trace_context(), http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := vs.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch '%s': %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unsuccessful response fetching '%s': %s", url, resp.Status)
	}

	content_bytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(content_bytes), nil
}

// finds the dotted version in a pipe-delimited versions table and converts it to a version string.
//
//	Region!STRING:0|BuildConfig!HEX:16|CDNConfig!HEX:16|KeyRing!HEX:16|BuildId!DEC:4|VersionsName!String:0|ProductConfig!HEX:16
//	## seqn = 3016547
//	us|6b1f...|b5e1...||58187|11.0.7.58187|53020d...
//
// => "110007"
func parse_versions_table(text string) (string, error) {
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		fields := strings.Split(line, "|")
		if fields[0] != REGION {
			continue
		}
		if len(fields) <= VERSION_FIELD {
			return "", fmt.Errorf("record for region '%s' has %d fields, expected more than %d", REGION, len(fields), VERSION_FIELD)
		}
		return version_string(fields[VERSION_FIELD])
	}
	return "", errors.New("no record found for region: " + REGION)
}

// "11.0.7.58187" => "110007"
// "1.15.5" => "11505"
func version_string(dotted string) (string, error) {
	bits := strings.Split(strings.TrimSpace(dotted), ".")
	if len(bits) == 4 {
		bits = bits[:3] // build number
	}
	if len(bits) != 3 {
		return "", fmt.Errorf("expected a 'major.minor.patch[.build]' version, got: %q", dotted)
	}
	segments := []int{}
	for _, bit := range bits {
		n, ok := to_int(bit)
		if !ok {
			return "", fmt.Errorf("non-numeric segment in version: %q", dotted)
		}
		segments = append(segments, n)
	}

	// "11.00.7" => "11.0.7", leading zeros are not valid semver
	v, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", segments[0], segments[1], segments[2]))
	if err != nil {
		return "", fmt.Errorf("failed to parse version %q: %w", dotted, err)
	}
	return fmt.Sprintf("%d%02d%02d", v.Major(), v.Minor(), v.Patch()), nil
}

package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var versions_table = `Region!STRING:0|BuildConfig!HEX:16|CDNConfig!HEX:16|KeyRing!HEX:16|BuildId!DEC:4|VersionsName!String:0|ProductConfig!HEX:16
## seqn = 3016547
eu|6b1f4c1aa2ae7e5e8c19d3a6ae9f2d56|b5e1ef8f5e7d9d6c84a7e2fbfc6f2d11||58187|11.0.7.58187|53020d32e1a25648c8e1eafd5771935f
us|6b1f4c1aa2ae7e5e8c19d3a6ae9f2d56|b5e1ef8f5e7d9d6c84a7e2fbfc6f2d11||58187|11.0.7.58187|53020d32e1a25648c8e1eafd5771935f
kr|6b1f4c1aa2ae7e5e8c19d3a6ae9f2d56|b5e1ef8f5e7d9d6c84a7e2fbfc6f2d11||58186|11.0.7.58186|53020d32e1a25648c8e1eafd5771935f
`

func Test_parse_versions_table(t *testing.T) {
	version, err := parse_versions_table(versions_table)
	require.NoError(t, err)
	assert.Equal(t, "110007", version)

	version, err = parse_versions_table(strings.ReplaceAll(versions_table, "\n", "\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "110007", version)

	version, err = parse_versions_table("us|a|b||1|1.15.5.57979|c")
	require.NoError(t, err)
	assert.Equal(t, "11505", version)
}

func Test_parse_versions_table__bad(t *testing.T) {
	cases := []string{
		"",
		"Region!STRING:0|BuildConfig!HEX:16\n",
		"eu|a|b||1|11.0.7.58187|c",
		"us|a|b||1",
		"us|a|b||1||c",
		"us|a|b||1|11.0|c",
		"user|a|b||1|11.0.7.58187|c",
	}
	for _, given := range cases {
		_, err := parse_versions_table(given)
		assert.Error(t, err, given)
	}
}

func Test_version_string(t *testing.T) {
	cases := map[string]string{
		"11.0.7.58187": "110007",
		"11.0.7":       "110007",
		"1.15.5.57979": "11505",
		"4.4.2.60895":  "40402",
		"5.5.0.61208":  "50500",
		"12.0.0.1":     "120000",
		"11.1.10.1":    "110110",
		" 11.0.7.1 ":   "110007",
		"11.0.07.1":    "110007",
		"11.00.7":      "110007",
		"011.0.7":      "110007",
	}
	for given, expected := range cases {
		actual, err := version_string(given)
		require.NoError(t, err, given)
		assert.Equal(t, expected, actual, given)
	}

	for _, given := range []string{"", "11", "11.0", "11.0.7.1.2", "11.a.7", "11..7", "v11.0.7", "11.0.-7"} {
		_, err := version_string(given)
		assert.Error(t, err, given)
	}
}

// a versions endpoint serving `tables` by product, counting requests.
func versions_server(t *testing.T, tables map[string]string, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		for product, table := range tables {
			if r.URL.Path == fmt.Sprintf("/v2/products/%s/versions", product) {
				fmt.Fprint(w, table)
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func Test_VersionSource(t *testing.T) {
	var hits int32
	server := versions_server(t, map[string]string{"wow": versions_table}, &hits)

	source := NewVersionSource(time.Second)
	source.URL = server.URL + "/v2/products/%s/versions"

	assert.Equal(t, "110007", source.Version(ProductRetail))
	assert.Equal(t, "110007", source.Version(ProductRetail))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, VersionCache{ProductRetail: "110007"}, source.Cache)
}

func Test_VersionSource__failure(t *testing.T) {
	var hits int32
	server := versions_server(t, map[string]string{
		"wow_classic": "us|a|b||1|garbage|c",
	}, &hits)

	source := NewVersionSource(time.Second)
	source.URL = server.URL + "/v2/products/%s/versions"

	// not found
	assert.Equal(t, SENTINEL_VERSION, source.Version(ProductClassicEraPTR))
	assert.Equal(t, SENTINEL_VERSION, source.Version(ProductClassicEraPTR))

	// malformed
	assert.Equal(t, SENTINEL_VERSION, source.Version(ProductClassic))

	// failures are remembered too
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func Test_VersionSource__unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	source := NewVersionSource(time.Second)
	source.URL = url + "/v2/products/%s/versions"
	assert.Equal(t, SENTINEL_VERSION, source.Version(ProductRetail))
}

func Test_VersionSource__timeout(t *testing.T) {
	release := make(chan bool)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	source := NewVersionSource(50 * time.Millisecond)
	source.URL = server.URL + "/v2/products/%s/versions"
	assert.Equal(t, SENTINEL_VERSION, source.Version(ProductRetail))
}

func Test_VersionSource__cached(t *testing.T) {
	source := seeded_source(t, VersionCache{ProductRetail: "110105"})
	assert.Equal(t, "110105", source.Version(ProductRetail))
}

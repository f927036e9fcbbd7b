package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_toc_suffix(t *testing.T) {
	cases := map[string]string{
		"MyAddon-Classic.toc":      "Classic",
		"MyAddon_Vanilla.toc":      "Vanilla",
		"MyAddon-Mainline.toc":     "Mainline",
		"MyAddon_Mists.toc":        "Mists",
		"Foo/MyAddon-Mists.toc":    "Mists",
		"Foo-Classic/MyAddon.toc":  "", // directories don't count
		"MyAddon.toc":              "",
		"MyAddon-Unknown.toc":      "",
		"MyAddon-Classic.lua":      "",
		"MyAddon-classic.toc":      "", // case sensitive
		"MyAddon-CLASSIC.toc":      "",
		"MyAddonClassic.toc":       "", // separator required
		"MyAddon-Classic.toc.bak":  "",
		"MyAddon-Vanilla-Beta.toc": "",
	}
	for given, expected := range cases {
		actual, matched := toc_suffix(given)
		assert.Equal(t, expected != "", matched, given)
		assert.Equal(t, expected, actual, given)
	}
}

func Test_targets_for_file(t *testing.T) {
	cases := map[string]Target{
		"TestAddon_Mainline.toc": {Variant: Retail},
		"TestAddon_Classic.toc":  {Variant: Classic},
		"TestAddon_Mists.toc":    {Variant: Classic},
		"TestAddon_Vanilla.toc":  {Variant: ClassicEra},
		"TestAddon-Mainline.toc": {Variant: Retail},
	}
	for given, expected := range cases {
		// the default doesn't apply when a suffix matches
		assert.Equal(t, []Target{expected}, targets_for_file(given, ClassicEra), given)
	}
}

func Test_targets_for_file__ambiguous(t *testing.T) {
	expected := []Target{
		{Variant: Retail, Multi: false},
		{Variant: Classic, Multi: true},
		{Variant: ClassicEra, Multi: true},
	}
	assert.Equal(t, expected, targets_for_file("TestAddon.toc", Retail))

	expected[0] = Target{Variant: Classic, Multi: false}
	assert.Equal(t, expected, targets_for_file("TestAddon.toc", Classic))
}

func Test_current_classic_aliases(t *testing.T) {
	assert.Equal(t, SUFFIX_VARIANT[SuffixClassic], SUFFIX_VARIANT[SuffixCurrentClassic])
	assert.Equal(t, []string{DirectiveCurrentClassic, DirectiveClassic}, Classic.Descriptor().Directives)
}

func Test_variant_products(t *testing.T) {
	assert.Equal(t, ProductRetail, Retail.Descriptor().ID)
	assert.Equal(t, []Product{ProductRetailBeta}, Retail.Descriptor().Beta)
	assert.Equal(t, []Product{ProductRetailPTR, ProductRetailXPTR}, Retail.Descriptor().Test)

	assert.Equal(t, ProductClassic, Classic.Descriptor().ID)
	assert.Equal(t, []Product{ProductClassicBeta}, Classic.Descriptor().Beta)
	assert.Equal(t, []Product{ProductClassicPTR}, Classic.Descriptor().Test)

	assert.Equal(t, ProductClassicEra, ClassicEra.Descriptor().ID)
	assert.Empty(t, ClassicEra.Descriptor().Beta)
	assert.Equal(t, []Product{ProductClassicEraPTR}, ClassicEra.Descriptor().Test)
}

func Test_variant_string(t *testing.T) {
	assert.Equal(t, "Retail", Retail.String())
	assert.Equal(t, "Classic", Classic.String())
	assert.Equal(t, "Classic Era", ClassicEra.String())
	assert.Panics(t, func() { _ = Variant(99).String() })
}

func Test_parse_flavor(t *testing.T) {
	cases := map[string]Variant{
		"retail":      Retail,
		"Mainline":    Retail,
		"classic":     Classic,
		"Mists":       Classic,
		"classic_era": ClassicEra,
		"VANILLA":     ClassicEra,
		" vanilla ":   ClassicEra,
	}
	for given, expected := range cases {
		actual, err := parse_flavor(given)
		require.NoError(t, err, given)
		assert.Equal(t, expected, actual, given)
	}

	for _, given := range []string{"", "wow", "cata", "classic era"} {
		_, err := parse_flavor(given)
		assert.Error(t, err, given)
	}
}

package main

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// a game edition an addon can target.
type Variant int

const (
	Retail Variant = iota
	Classic
	ClassicEra
)

// a product name as known to the versions endpoint, "wow", "wow_classic_ptr", etc.
type Product string

const (
	ProductRetail     Product = "wow"
	ProductRetailBeta Product = "wow_beta"
	ProductRetailPTR  Product = "wowt"
	ProductRetailXPTR Product = "wowxptr"

	ProductClassic     Product = "wow_classic"
	ProductClassicBeta Product = "wow_classic_beta"
	ProductClassicPTR  Product = "wow_classic_ptr"

	ProductClassicEra    Product = "wow_classic_era"
	ProductClassicEraPTR Product = "wow_classic_era_ptr"
)

// directive labels, always matched at the start of a line.
const (
	DirectiveBase           = "## Interface:"
	DirectiveMists          = "## Interface-Mists:"
	DirectiveClassic        = "## Interface-Classic:"
	DirectiveVanilla        = "## Interface-Vanilla:"
	DirectiveCurrentClassic = DirectiveMists
)

// filename suffixes, "MyAddon-Classic.toc", "MyAddon_Vanilla.toc", etc.
const (
	SuffixMainline       = "Mainline"
	SuffixClassic        = "Classic"
	SuffixMists          = "Mists"
	SuffixVanilla        = "Vanilla"
	SuffixCurrentClassic = SuffixMists
)

type VariantDescriptor struct {
	ID    Product // canonical identifier, also the base product
	Label string  // "classic era"
	Beta  []Product
	Test  []Product
	// per-variant directives updated in multi mode.
	// the current classic expansion and classic directives are updated together.
	Directives []string
}

var VARIANTS = map[Variant]VariantDescriptor{
	Retail: {
		ID:    ProductRetail,
		Label: "retail",
		Beta:  []Product{ProductRetailBeta},
		Test:  []Product{ProductRetailPTR, ProductRetailXPTR},
	},
	Classic: {
		ID:         ProductClassic,
		Label:      "classic",
		Beta:       []Product{ProductClassicBeta},
		Test:       []Product{ProductClassicPTR},
		Directives: []string{DirectiveCurrentClassic, DirectiveClassic},
	},
	ClassicEra: {
		ID:         ProductClassicEra,
		Label:      "classic era",
		Test:       []Product{ProductClassicEraPTR},
		Directives: []string{DirectiveVanilla},
	},
}

var SUFFIX_VARIANT = map[string]Variant{
	SuffixMainline: Retail,
	SuffixClassic:  Classic,
	SuffixMists:    Classic,
	SuffixVanilla:  ClassicEra,
}

// accepted `--flavor` values.
var FLAVOR_VARIANT = map[string]Variant{
	"retail":      Retail,
	"mainline":    Retail,
	"classic":     Classic,
	"mists":       Classic,
	"classic_era": ClassicEra,
	"vanilla":     ClassicEra,
}

// case sensitive, unlike the flavor names.
var toc_suffix_pattern = regexp.MustCompile(fmt.Sprintf(`[-_](%s|%s|%s|%s)\.toc$`,
	SuffixMainline, SuffixClassic, SuffixCurrentClassic, SuffixVanilla))

func (v Variant) Descriptor() VariantDescriptor {
	d, present := VARIANTS[v]
	ensure(present, fmt.Sprintf("unknown variant: %d", int(v)))
	return d
}

func (v Variant) String() string {
	return title_case(v.Descriptor().Label)
}

// a single (variant, multi mode) pass over a file.
type Target struct {
	Variant Variant
	Multi   bool
}

// returns the suffix token of a .toc filename, "Foo/Foo-Classic.toc" => "Classic", true
func toc_suffix(path string) (string, bool) {
	matches := toc_suffix_pattern.FindStringSubmatch(filepath.Base(path))
	if len(matches) != 2 {
		return "", false
	}
	return matches[1], true
}

// determines which variants apply to the .toc file at `path`.
// a recognised suffix selects exactly one variant, updated through the base directive.
// anything else is ambiguous and gets one pass per variant: the `default_variant` through the base
// directive, then the classic and classic era per-variant directives.
func targets_for_file(path string, default_variant Variant) []Target {
	suffix, matched := toc_suffix(path)
	if matched {
		return []Target{{Variant: SUFFIX_VARIANT[suffix], Multi: false}}
	}
	return []Target{
		{Variant: default_variant, Multi: false},
		{Variant: Classic, Multi: true},
		{Variant: ClassicEra, Multi: true},
	}
}

// "Vanilla" => ClassicEra
func parse_flavor(flavor string) (Variant, error) {
	v, present := FLAVOR_VARIANT[strings.ToLower(strings.TrimSpace(flavor))]
	if !present {
		return Retail, fmt.Errorf("invalid flavor %q, allowed values are: %s", flavor, strings.Join(flavor_names(), ", "))
	}
	return v, nil
}

func flavor_names() []string {
	return []string{"retail", "mainline", "classic", "mists", "classic_era", "vanilla"}
}

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// a pinned versions file maps product names to version strings:
//
//	{"wow": "110007", "wow_classic_era": "11505"}
var PINS_SCHEMA = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"propertyNames": {"enum": [%s]},
	"additionalProperties": {"type": "string", "pattern": "^[0-9]{5,}$"}
}`

func known_products() []Product {
	products := []Product{}
	for _, v := range []Variant{Retail, Classic, ClassicEra} {
		d := v.Descriptor()
		products = append(products, d.ID)
		products = append(products, d.Beta...)
		products = append(products, d.Test...)
	}
	return products
}

func pins_schema() (*jsonschema.Schema, error) {
	quoted := []string{}
	for _, product := range known_products() {
		quoted = append(quoted, fmt.Sprintf("%q", product))
	}
	return jsonschema.CompileString("pins.json", fmt.Sprintf(PINS_SCHEMA, strings.Join(quoted, ", ")))
}

// validates the json `blob` and returns the product versions within it.
func parse_pins(blob []byte) (VersionCache, error) {
	schema, err := pins_schema()
	ensure(err == nil, fmt.Sprintf("bad pinned versions schema: %v", err))

	if !gjson.ValidBytes(blob) {
		return nil, errors.New("failed to parse pinned versions as JSON")
	}
	doc := gjson.ParseBytes(blob)

	err = schema.Validate(doc.Value())
	if err != nil {
		return nil, fmt.Errorf("pinned versions are invalid: %w", err)
	}

	pins := VersionCache{}
	doc.ForEach(func(key, value gjson.Result) bool {
		pins[Product(key.String())] = value.String()
		return true
	})
	return pins, nil
}

// reads the pinned versions file at `path` into `cache`.
// pinned products are never fetched.
func load_pins(path string, cache VersionCache) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pinned versions: %w", err)
	}

	pins, err := parse_pins(blob)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for product, version := range pins {
		slog.Debug("pinned product version", "product", product, "version", version)
		cache[product] = version
	}
	return nil
}

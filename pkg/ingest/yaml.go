// SPDX-License-Identifier: Apache-2.0

// Package ingest loads .ir.yaml files off disk and runs them through the
// schema and semantic validators, producing a validated
// ir.SpecIR or the full set of diagnostics explaining why it failed. This
// is the one place gopkg.in/yaml.v3 is used to decode spec documents.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/specgo-dev/specgo/pkg/ir"
	"github.com/specgo-dev/specgo/pkg/irschema"
	"github.com/specgo-dev/specgo/pkg/semantic"
)

// LoadYAML reads path and decodes it into a generic mapping, the same
// untyped shape irschema.Validate expects.
func LoadYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return doc, nil
}

// LoadAndValidate runs the full two-layer validation pipeline over the
// file at path: schema validation, then (only if schema
// validation passed) semantic validation. Either layer's diagnostics can be
// non-empty; a spec is usable only when Ok() is true.
func LoadAndValidate(path string) (ir.SpecIR, ir.Diagnostics) {
	doc, err := LoadYAML(path)
	if err != nil {
		return ir.SpecIR{}, ir.Diagnostics{ir.SchemaError("", "%v", err)}
	}

	spec, diags := irschema.Validate(doc)
	if !diags.Ok() {
		return ir.SpecIR{}, diags
	}

	semDiags := semantic.Validate(spec)
	diags = append(diags, semDiags...)
	if !diags.Ok() {
		return ir.SpecIR{}, diags
	}

	return spec, diags
}

// Glob expands an IR glob pattern into a sorted list of absolute paths
// whose names end in ".ir.yaml": matches are filtered again by suffix,
// since "**/*.yaml" would also pick up non-IR YAML siblings.
// doublestar supports the "**" recursive-descent pattern the
// stdlib's path/filepath.Glob does not.
func Glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob %q: %w", pattern, err)
	}

	var paths []string
	for _, m := range matches {
		if filepath.Ext(m) != ".yaml" {
			continue
		}
		if !hasIRSuffix(m) {
			continue
		}
		abs, err := filepath.Abs(m)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", m, err)
		}
		paths = append(paths, abs)
	}

	sort.Strings(paths)
	return paths, nil
}

func hasIRSuffix(name string) bool {
	const suffix = ".ir.yaml"
	if len(name) < len(suffix) {
		return false
	}
	return name[len(name)-len(suffix):] == suffix
}

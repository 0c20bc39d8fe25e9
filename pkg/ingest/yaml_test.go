// SPDX-License-Identifier: Apache-2.0
package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specgo-dev/specgo/internal/assert"
)

const testdataDir = "../../testdata"

func TestLoadAndValidateAcceptsValidIR(t *testing.T) {
	spec, diags := LoadAndValidate(filepath.Join(testdataDir, "s1_single_bit.ir.yaml"))
	assert.True(t, diags.Ok(), "unexpected diagnostics: %v", diags.Strings())
	assert.Equal(t, 1, len(spec.Messages))
	assert.Equal(t, "Flag", spec.Messages[0].Name)
}

// A range invariant broken in a real file must surface from the semantic
// layer, not the schema layer: the schema pass accepts the shape, so the
// semantic pass is reached and reports with its own prefix.
func TestLoadAndValidateReportsRangeViolationsAsSemantic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad_scale.ir.yaml")
	doc := `ir_version: "0.1"
meta:
  name: bad_scale
  format: text
bus_type:
  bustype: CAN
messages:
  - id: 1
    name: M
    dlc: 1
    signals:
      - name: v
        start_bit: 0
        bit_length: 8
        byte_order: little_endian
        scale: 0.0
        min: 10
        max: 5
`
	assert.True(t, os.WriteFile(path, []byte(doc), 0o644) == nil, "unexpected write error")

	_, diags := LoadAndValidate(path)
	assert.True(t, !diags.Ok(), "expected diagnostics for scale=0 and min>max")
	for _, d := range diags.Strings() {
		assert.True(t, strings.HasPrefix(d, "[semantic]"), "expected a semantic diagnostic, got %q", d)
	}
}

func TestLoadAndValidateRejectsOverlappingSignals(t *testing.T) {
	_, diags := LoadAndValidate(filepath.Join(testdataDir, "s7_overlap.ir.yaml"))
	assert.True(t, !diags.Ok(), "expected a diagnostic for overlapping signals")
}

func TestLoadAndValidateReportsUnreadableFile(t *testing.T) {
	_, diags := LoadAndValidate(filepath.Join(testdataDir, "does_not_exist.ir.yaml"))
	assert.True(t, !diags.Ok(), "expected a diagnostic for a missing file")
}

func TestLoadAndValidateReportsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.ir.yaml")
	assert.True(t, os.WriteFile(path, []byte("messages: [this is not: valid: yaml"), 0o644) == nil, "unexpected write error")

	_, diags := LoadAndValidate(path)
	assert.True(t, !diags.Ok(), "expected a diagnostic for malformed yaml")
}

func TestGlobFindsIRFilesRecursively(t *testing.T) {
	matches, err := Glob(filepath.Join(testdataDir, "**", "*.ir.yaml"))
	assert.True(t, err == nil, "unexpected error: %v", err)
	assert.True(t, len(matches) >= 7, "expected at least 7 fixture files, got %d", len(matches))

	for i := 1; i < len(matches); i++ {
		assert.True(t, matches[i-1] <= matches[i], "expected sorted output")
	}
}

func TestGlobExcludesNonIRYAMLSiblings(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, os.WriteFile(filepath.Join(dir, "notes.yaml"), []byte("x: 1\n"), 0o644) == nil, "unexpected write error")
	assert.True(t, os.WriteFile(filepath.Join(dir, "real.ir.yaml"), []byte("x: 1\n"), 0o644) == nil, "unexpected write error")

	matches, err := Glob(filepath.Join(dir, "*.yaml"))
	assert.True(t, err == nil, "unexpected error: %v", err)
	assert.Equal(t, 1, len(matches))
	assert.True(t, matches[0][len(matches[0])-len("real.ir.yaml"):] == "real.ir.yaml", "expected only the .ir.yaml file to match")
}

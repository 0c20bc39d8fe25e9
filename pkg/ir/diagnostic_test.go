// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/specgo-dev/specgo/internal/assert"
)

func TestDiagnosticStringIncludesPath(t *testing.T) {
	d := SchemaError("messages[0].dlc", "must be non-negative, got %d", -1)
	assert.Equal(t, "[schema] messages[0].dlc: must be non-negative, got -1", d.String())
}

func TestDiagnosticStringOmitsEmptyPath(t *testing.T) {
	d := SchemaError("", "unrecognised top-level key %q", "bogus")
	assert.Equal(t, `[schema] unrecognised top-level key "bogus"`, d.String())
}

func TestDiagnosticsOkEmpty(t *testing.T) {
	var diags Diagnostics
	assert.True(t, diags.Ok(), "nil Diagnostics must be Ok")
}

func TestDiagnosticsOkFalseWhenNonEmpty(t *testing.T) {
	diags := Diagnostics{SemanticError("x", "boom")}
	assert.True(t, !diags.Ok(), "non-empty Diagnostics must not be Ok")
}

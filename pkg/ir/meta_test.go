// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/specgo-dev/specgo/internal/assert"
)

func TestNewMetaAcceptsValidInput(t *testing.T) {
	meta, diags := NewMeta("meta", "fleet", "1.0", "fleet.dbc", FormatDBC)
	assert.True(t, diags.Ok(), "unexpected diagnostics: %v", diags.Strings())
	assert.Equal(t, "fleet", meta.Name)
}

func TestNewMetaRejectsEmptyName(t *testing.T) {
	_, diags := NewMeta("meta", "", "1.0", "", FormatDBC)
	assert.True(t, !diags.Ok(), "expected a diagnostic for an empty name")
}

func TestNewMetaRejectsUnrecognisedFormat(t *testing.T) {
	_, diags := NewMeta("meta", "fleet", "1.0", "", Format("json"))
	assert.True(t, !diags.Ok(), "expected a diagnostic for an unrecognised format")
}

// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/specgo-dev/specgo/internal/assert"
)

func TestNewMessageRejectsEmptyName(t *testing.T) {
	_, diags := NewMessage("messages[0]", Message{DLC: 1})
	assert.True(t, !diags.Ok(), "expected a diagnostic for an empty message name")
}

func TestNewMessageRejectsUnrecognisedDirection(t *testing.T) {
	_, diags := NewMessage("messages[0]", Message{Name: "M", Direction: "sideways"})
	assert.True(t, !diags.Ok(), "expected a diagnostic for an unrecognised direction")
}

func TestNewMessageAcceptsEmptyDirection(t *testing.T) {
	_, diags := NewMessage("messages[0]", Message{Name: "M", Direction: DirNone})
	assert.True(t, diags.Ok(), "unexpected diagnostics: %v", diags.Strings())
}

func TestNewMessageRejectsDuplicateSignalNames(t *testing.T) {
	msg := Message{
		Name: "M",
		Signals: []Signal{
			{Name: "a", BitLength: 1, ByteOrder: LittleEndian, Scale: 1},
			{Name: "a", BitLength: 1, ByteOrder: LittleEndian, Scale: 1},
		},
	}
	_, diags := NewMessage("messages[0]", msg)
	assert.True(t, !diags.Ok(), "expected a diagnostic for duplicate signal names")
}

// SPDX-License-Identifier: Apache-2.0
package ir

import "fmt"

// Diagnostic is a single structured validation complaint, tagged with the
// layer that raised it ("schema" or "semantic") and the field path it
// concerns. Diagnostics are collected, never raised: a validator that hits
// one violation keeps going so a single pass surfaces every problem.
type Diagnostic struct {
	// Layer is "schema" or "semantic".
	Layer string
	// Path is a dotted field path, e.g. "messages[2].signals[0].start_bit".
	Path string
	// Message is a human-readable description of the violation.
	Message string
}

// String renders a diagnostic in the "[layer] path: message" form used
// throughout reports and CLI output.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("[%s] %s", d.Layer, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Layer, d.Path, d.Message)
}

// SchemaError constructs a schema-layer diagnostic.
func SchemaError(path, format string, args ...any) Diagnostic {
	return Diagnostic{Layer: "schema", Path: path, Message: fmt.Sprintf(format, args...)}
}

// SemanticError constructs a semantic-layer diagnostic.
func SemanticError(path, format string, args ...any) Diagnostic {
	return Diagnostic{Layer: "semantic", Path: path, Message: fmt.Sprintf(format, args...)}
}

// Diagnostics is an ordered list of Diagnostic.
type Diagnostics []Diagnostic

// Ok reports whether no diagnostics were collected.
func (d Diagnostics) Ok() bool {
	return len(d) == 0
}

// Strings renders every diagnostic via String(), in order.
func (d Diagnostics) Strings() []string {
	out := make([]string, len(d))
	for i, diag := range d {
		out[i] = diag.String()
	}
	return out
}

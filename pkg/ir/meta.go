// SPDX-License-Identifier: Apache-2.0
package ir

// Format identifies the original, pre-ingest representation a spec file was
// derived from. Closed set: {dbc, pdf, text, md}.
type Format string

// Recognised Format values.
const (
	FormatDBC  Format = "dbc"
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
	FormatMD   Format = "md"
)

// IsValid reports whether f is one of the recognised original-format tags.
func (f Format) IsValid() bool {
	switch f {
	case FormatDBC, FormatPDF, FormatText, FormatMD:
		return true
	}
	return false
}

// Meta is the identifying header for one spec file. It is immutable once
// constructed: callers never mutate a Meta in place, they build a new one.
type Meta struct {
	// Name is used as the codegen project prefix (see pkg/naming).
	Name string
	// Version is a free-form version string for the spec file itself.
	Version string
	// Source records provenance: where this spec file came from.
	Source string
	// Format is the original-format tag this IR was ingested from.
	Format Format
}

// NewMeta constructs a Meta, validating field-level constraints. Structural
// problems are returned as diagnostics rather than an error, so the caller
// can accumulate several before giving up (see pkg/irschema).
func NewMeta(path, name, version, source string, format Format) (Meta, Diagnostics) {
	var diags Diagnostics

	if name == "" {
		diags = append(diags, SchemaError(path+".name", "must not be empty"))
	}

	if !format.IsValid() {
		diags = append(diags, SchemaError(path+".format", "unrecognised format %q (want one of dbc, pdf, text, md)", format))
	}

	return Meta{Name: name, Version: version, Source: source, Format: format}, diags
}

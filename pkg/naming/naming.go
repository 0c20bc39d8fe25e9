// SPDX-License-Identifier: Apache-2.0

// Package naming implements the deterministic identifier/symbol/filename
// derivation policy. Every function here is a pure mapping of
// its inputs; there is no global or package-level mutable state, so the
// renderer, the gates and the roundtrip harness always agree on the same
// symbol names.
package naming

import "strings"

// CIdentifier converts s into a valid C identifier: every character outside
// [A-Za-z0-9_] becomes '_', leading/trailing underscores are stripped, an
// empty result becomes "unnamed", and a leading digit gets a '_' prefix.
func CIdentifier(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "unnamed"
	}

	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}

	return out
}

// ProjectCName returns the project C-name for a spec's meta.name.
func ProjectCName(metaName string) string {
	return CIdentifier(metaName)
}

// OutputFilenames returns the (header, source) filenames for a project.
func OutputFilenames(metaName string) (header, source string) {
	proj := ProjectCName(metaName)
	return proj + "_protocol.h", proj + "_protocol.c"
}

// HeaderGuard returns the #ifndef guard macro for a project's header.
func HeaderGuard(metaName string) string {
	return "SPECGO_" + strings.ToUpper(ProjectCName(metaName)) + "_PROTOCOL_H"
}

// MessageSymbols bundles every per-message identifier the codegen renderer
// and roundtrip harness need to agree on the same ABI names.
type MessageSymbols struct {
	// StructName is "<projC>_<msgC>_t".
	StructName string
	// EncodeFn is "<projC>_encode_<msgC>".
	EncodeFn string
	// DecodeFn is "<projC>_decode_<msgC>".
	DecodeFn string
	// IDMacro is "SPECGO_<UPPER(projC)>_<UPPER(msgC)>_ID".
	IDMacro string
	// DLCMacro is "SPECGO_<UPPER(projC)>_<UPPER(msgC)>_DLC".
	DLCMacro string
}

// MessageSymbolsFor derives every stable symbol name for one message within
// one project, from the project's and message's raw (pre-sanitised) names.
func MessageSymbolsFor(metaName, messageName string) MessageSymbols {
	projC := ProjectCName(metaName)
	msgC := CIdentifier(messageName)
	upperProj := strings.ToUpper(projC)
	upperMsg := strings.ToUpper(msgC)

	return MessageSymbols{
		StructName: projC + "_" + msgC + "_t",
		EncodeFn:   projC + "_encode_" + msgC,
		DecodeFn:   projC + "_decode_" + msgC,
		IDMacro:    "SPECGO_" + upperProj + "_" + upperMsg + "_ID",
		DLCMacro:   "SPECGO_" + upperProj + "_" + upperMsg + "_DLC",
	}
}

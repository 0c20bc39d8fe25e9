// SPDX-License-Identifier: Apache-2.0

// Package codegen renders a validated ir.SpecIR into one C header and one
// C source file via text/template, deterministically: messages and signals
// are emitted in a fixed sort order and nothing time-, host- or
// map-iteration-dependent ever reaches the output. The gates in gates.go
// check a rendered artifact before it is handed to the roundtrip harness.
package codegen

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/specgo-dev/specgo/pkg/ir"
	"github.com/specgo-dev/specgo/pkg/layout"
	"github.com/specgo-dev/specgo/pkg/naming"
)

//go:embed templates/protocol.h.tmpl
var headerTemplateSource string

//go:embed templates/protocol.c.tmpl
var sourceTemplateSource string

var (
	headerTemplate = template.Must(template.New("protocol.h").Parse(headerTemplateSource))
	sourceTemplate = template.Must(template.New("protocol.c").Parse(sourceTemplateSource))
)

// MaxSignalBits is the largest bit_length codegen can represent in the
// fixed-width 64-bit ABI; wider signals are rejected outright.
const MaxSignalBits = 64

type signalContext struct {
	Name         string
	CName        string
	CType        string
	StartBit     uint
	BitLength    uint
	Signed       bool
	ByteOrder    string
	Scale        float64
	Offset       float64
	BitMaskC     string
	BitPositionsC string
}

type messageContext struct {
	Name       string
	CName      string
	StructName string
	ID         uint
	DLC        uint
	IDMacro    string
	DLCMacro   string
	EncodeFn   string
	DecodeFn   string
	Signals    []signalContext
}

type projectContext struct {
	ProjectName   string
	ProjectCName  string
	HeaderGuard   string
	HeaderFilename string
	SourceFilename string
	Messages      []messageContext
}

// Error is a code-generation failure: unsupported language, unsupported
// byte order, a signal wider than 64 bits, or (from callers) an I/O
// failure writing output. It is fatal for the affected spec only.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

func bitMaskLiteral(bitLength uint) string {
	if bitLength >= 64 {
		return "UINT64_MAX"
	}
	return fmt.Sprintf("0x%XULL", uint64(1)<<bitLength-1)
}

func buildContext(spec ir.SpecIR) (projectContext, error) {
	projCName := naming.ProjectCName(spec.Meta.Name)
	header, source := naming.OutputFilenames(spec.Meta.Name)

	messages := make([]ir.Message, len(spec.Messages))
	copy(messages, spec.Messages)
	// Messages are emitted in ascending order by (id, name).
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].ID != messages[j].ID {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].Name < messages[j].Name
	})

	ctx := projectContext{
		ProjectName:    spec.Meta.Name,
		ProjectCName:   projCName,
		HeaderGuard:    naming.HeaderGuard(spec.Meta.Name),
		HeaderFilename: header,
		SourceFilename: source,
	}

	for _, msg := range messages {
		symbols := naming.MessageSymbolsFor(spec.Meta.Name, msg.Name)

		signals := make([]ir.Signal, len(msg.Signals))
		copy(signals, msg.Signals)
		// Signals are emitted in ascending order by (start_bit, name).
		sort.Slice(signals, func(i, j int) bool {
			if signals[i].StartBit != signals[j].StartBit {
				return signals[i].StartBit < signals[j].StartBit
			}
			return signals[i].Name < signals[j].Name
		})

		sigCtxs := make([]signalContext, 0, len(signals))
		for _, sig := range signals {
			if sig.BitLength > MaxSignalBits {
				return projectContext{}, newError(
					"message %q signal %q: bit_length %d exceeds the %d-bit codegen limit",
					msg.Name, sig.Name, sig.BitLength, MaxSignalBits,
				)
			}

			positions, err := layout.SignalBitPositions(sig)
			if err != nil {
				return projectContext{}, newError("message %q signal %q: %v", msg.Name, sig.Name, err)
			}

			positionLiterals := make([]string, len(positions))
			for i, p := range positions {
				positionLiterals[i] = fmt.Sprintf("%dU", p)
			}

			cType := "uint64_t"
			if sig.Signed {
				cType = "int64_t"
			}

			sigCtxs = append(sigCtxs, signalContext{
				Name:          sig.Name,
				CName:         naming.CIdentifier(sig.Name),
				CType:         cType,
				StartBit:      sig.StartBit,
				BitLength:     sig.BitLength,
				Signed:        sig.Signed,
				ByteOrder:     string(sig.ByteOrder),
				Scale:         sig.Scale,
				Offset:        sig.Offset,
				BitMaskC:      bitMaskLiteral(sig.BitLength),
				BitPositionsC: strings.Join(positionLiterals, ", "),
			})
		}

		ctx.Messages = append(ctx.Messages, messageContext{
			Name:       msg.Name,
			CName:      naming.CIdentifier(msg.Name),
			StructName: symbols.StructName,
			ID:         msg.ID,
			DLC:        msg.DLC,
			IDMacro:    symbols.IDMacro,
			DLCMacro:   symbols.DLCMacro,
			EncodeFn:   symbols.EncodeFn,
			DecodeFn:   symbols.DecodeFn,
			Signals:    sigCtxs,
		})
	}

	return ctx, nil
}

// Artifact is the rendered pair of output files for one SpecIR.
type Artifact struct {
	HeaderFilename string
	HeaderBytes    []byte
	SourceFilename string
	SourceBytes    []byte
}

// Generate lowers spec into a deterministic C header/source pair. lang
// must be "c"; any other value is an Error.
func Generate(spec ir.SpecIR, lang string) (Artifact, error) {
	if lang != "c" {
		return Artifact{}, newError("unsupported language %q; only \"c\" is recognized", lang)
	}

	ctx, err := buildContext(spec)
	if err != nil {
		return Artifact{}, err
	}

	var headerBuf, sourceBuf bytes.Buffer
	if err := headerTemplate.Execute(&headerBuf, ctx); err != nil {
		return Artifact{}, newError("rendering header: %v", err)
	}
	if err := sourceTemplate.Execute(&sourceBuf, ctx); err != nil {
		return Artifact{}, newError("rendering source: %v", err)
	}

	return Artifact{
		HeaderFilename: ctx.HeaderFilename,
		HeaderBytes:    trimToOneTrailingNewline(headerBuf.Bytes()),
		SourceFilename: ctx.SourceFilename,
		SourceBytes:    trimToOneTrailingNewline(sourceBuf.Bytes()),
	}, nil
}

// trimToOneTrailingNewline fixes the output's tail whitespace: exactly
// one trailing newline, no accumulated blank lines from template control
// structures.
func trimToOneTrailingNewline(b []byte) []byte {
	trimmed := bytes.TrimRight(b, "\n")
	return append(trimmed, '\n')
}

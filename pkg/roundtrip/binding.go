// SPDX-License-Identifier: Apache-2.0

package roundtrip

import (
	"fmt"
	"sort"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/specgo-dev/specgo/internal/bitset"
	"github.com/specgo-dev/specgo/pkg/ir"
	"github.com/specgo-dev/specgo/pkg/layout"
	"github.com/specgo-dev/specgo/pkg/naming"
)

// fieldWidth is the width in bytes of every generated struct field: the
// ABI fixes every signal to an int64_t/uint64_t raw slot, so no
// field ever needs anything narrower and no inter-field padding is
// possible — every offset is simply index*8.
const fieldWidth = 8

type fieldInfo struct {
	name     string // original signal name
	cname    string
	signed   bool
	offset   int
}

// abiFn is the calling convention every generated encode/decode function
// shares: (uint8_t *payload, size_t len, <Struct> *io) -> int status. purego
// binds it through raw pointer-sized arguments, since the struct's shape is
// only known at runtime (one per message, derived from its IR).
type abiFn func(payload uintptr, length uintptr, structPtr uintptr) int32

// MessageBinding is a bound pair of encode/decode functions for one
// message, plus the byte-offset layout purego needs to read/write its
// struct fields out of a raw buffer (there is no way to declare a Go
// struct type whose shape is only known at runtime, so field access works
// in raw bytes).
type MessageBinding struct {
	Message    ir.Message
	EncodeName string
	DecodeName string
	Fields     []fieldInfo
	StructSize int
	Occupied   *bitset.Set

	encodeFn abiFn
	decodeFn abiFn
}

// NewStruct allocates a zeroed raw struct buffer for this message.
func (b *MessageBinding) NewStruct() []byte {
	return make([]byte, b.StructSize)
}

// SetField writes a raw signal value into struct buf at its bound offset.
func (b *MessageBinding) SetField(buf []byte, fieldIndex int, value int64) {
	putU64(buf[b.Fields[fieldIndex].offset:], uint64(value))
}

// GetField reads a raw signal value out of struct buf, reinterpreting its
// 8 bytes as an int64. No per-field sign extension happens here; signed
// fields hold whatever the generated decoder (or SetField) wrote.
func (b *MessageBinding) GetField(buf []byte, fieldIndex int) int64 {
	raw := getU64(buf[b.Fields[fieldIndex].offset:])
	return int64(raw)
}

func putU64(b []byte, v uint64) {
	for i := 0; i < fieldWidth; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getU64(b []byte) uint64 {
	var v uint64
	for i := 0; i < fieldWidth; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// Encode invokes the generated encode function: payload must have length
// >= message DLC.
func (b *MessageBinding) Encode(payload []byte, structBuf []byte) int32 {
	return b.encodeFn(slicePtr(payload), uintptr(len(payload)), slicePtr(structBuf))
}

// Decode invokes the generated decode function.
func (b *MessageBinding) Decode(payload []byte, structBuf []byte) int32 {
	return b.decodeFn(slicePtr(payload), uintptr(len(payload)), slicePtr(structBuf))
}

func slicePtr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// SpecBinding is a compiled, loaded, and symbol-bound project: the shared
// library stays mapped for the lifetime of a campaign so every loop reuses
// the same bindings.
type SpecBinding struct {
	Spec        ir.SpecIR
	IRPath      string
	ProjectName string
	SourcePath  string
	HeaderPath  string
	LibraryPath string
	Messages    []*MessageBinding

	handle uintptr
}

// Close unmaps the shared library. No message binding may be invoked
// after Close; callers release every binding before removing the
// directory the library lives in, since some platforms hold file locks on
// mapped libraries.
func (sb *SpecBinding) Close() error {
	if sb.handle == 0 {
		return nil
	}
	err := purego.Dlclose(sb.handle)
	sb.handle = 0
	return err
}

// LoadAndBind opens libraryPath and binds every message's encode/decode
// symbols, in the same (id, name) order the renderer emits them.
func LoadAndBind(spec ir.SpecIR, irPath, sourcePath, headerPath, libraryPath string) (*SpecBinding, error) {
	handle, err := purego.Dlopen(libraryPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", libraryPath, err)
	}

	messages := make([]ir.Message, len(spec.Messages))
	copy(messages, spec.Messages)
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].ID != messages[j].ID {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].Name < messages[j].Name
	})

	sb := &SpecBinding{
		Spec:        spec,
		IRPath:      irPath,
		ProjectName: spec.Meta.Name,
		SourcePath:  sourcePath,
		HeaderPath:  headerPath,
		LibraryPath: libraryPath,
		handle:      handle,
	}

	for _, msg := range messages {
		binding, err := bindMessage(handle, spec.Meta.Name, msg)
		if err != nil {
			return nil, err
		}
		sb.Messages = append(sb.Messages, binding)
	}

	return sb, nil
}

func bindMessage(handle uintptr, projectName string, msg ir.Message) (*MessageBinding, error) {
	symbols := naming.MessageSymbolsFor(projectName, msg.Name)

	signals := make([]ir.Signal, len(msg.Signals))
	copy(signals, msg.Signals)
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].StartBit != signals[j].StartBit {
			return signals[i].StartBit < signals[j].StartBit
		}
		return signals[i].Name < signals[j].Name
	})

	fields := make([]fieldInfo, len(signals))
	for i, sig := range signals {
		fields[i] = fieldInfo{
			name:   sig.Name,
			cname:  naming.CIdentifier(sig.Name),
			signed: sig.Signed,
			offset: i * fieldWidth,
		}
	}

	binding := &MessageBinding{
		Message:    msg,
		EncodeName: symbols.EncodeFn,
		DecodeName: symbols.DecodeFn,
		Fields:     fields,
		StructSize: len(fields) * fieldWidth,
		Occupied:   layout.OccupiedSet(msg),
	}

	encodeAddr, err := purego.Dlsym(handle, symbols.EncodeFn)
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", symbols.EncodeFn, err)
	}
	decodeAddr, err := purego.Dlsym(handle, symbols.DecodeFn)
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", symbols.DecodeFn, err)
	}

	var encodeFn abiFn
	var decodeFn abiFn
	purego.RegisterFunc(&encodeFn, encodeAddr)
	purego.RegisterFunc(&decodeFn, decodeAddr)
	binding.encodeFn = encodeFn
	binding.decodeFn = decodeFn

	return binding, nil
}

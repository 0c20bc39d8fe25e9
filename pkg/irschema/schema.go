// SPDX-License-Identifier: Apache-2.0

// Package irschema is the first validation layer: pure mapping-shape
// validation that turns an untyped map[string]any (as decoded from an
// .ir.yaml document) into a fully-typed ir.SpecIR, or a zero-value SpecIR
// plus an ordered list of diagnostics. It never
// panics and never performs cross-field semantic checks (that is
// pkg/semantic's job); it only checks shape, type, and per-field ranges,
// delegating most of the latter to the ir package's own constructors.
package irschema

import (
	"fmt"

	"github.com/specgo-dev/specgo/pkg/ir"
)

// rootKeys is the closed set of top-level SpecIR keys. Unknown root keys
// are rejected: this is the repo's one
// strict-shape boundary. Nested entities are more forgiving, see
// decodeMessage/decodeSignal below, which silently drop unrecognised keys
// to allow forward-compatible ingest from richer format-specific ingesters.
var rootKeys = map[string]bool{
	"ir_version": true,
	"meta":       true,
	"bus_type":   true,
	"messages":   true,
}

// Validate converts a raw YAML-shaped mapping into a SpecIR. On success the
// returned Diagnostics is empty (Ok() is true); on failure the SpecIR
// return value is the zero value and must not be used.
func Validate(doc map[string]any) (ir.SpecIR, ir.Diagnostics) {
	var diags ir.Diagnostics

	for key := range doc {
		if !rootKeys[key] {
			diags = append(diags, ir.SchemaError("", "unrecognised top-level key %q", key))
		}
	}

	irVersion, _ := stringField(doc, "", "ir_version", false, &diags)

	metaRaw, ok := mapField(doc, "", "meta", true, &diags)
	var meta ir.Meta
	if ok {
		var d ir.Diagnostics
		meta, d = decodeMeta(metaRaw)
		diags = append(diags, d...)
	}

	busRaw, ok := mapField(doc, "", "bus_type", true, &diags)
	var bus ir.BusType
	if ok {
		var d ir.Diagnostics
		bus, d = decodeBusType("bus_type", busRaw)
		diags = append(diags, d...)
	}

	messagesRaw, _ := listField(doc, "", "messages", false, &diags)
	messages := make([]ir.Message, 0, len(messagesRaw))
	for i, raw := range messagesRaw {
		path := fmt.Sprintf("messages[%d]", i)
		m, ok := raw.(map[string]any)
		if !ok {
			diags = append(diags, ir.SchemaError(path, "must be a mapping"))
			continue
		}
		msg, d := decodeMessage(path, m)
		diags = append(diags, d...)
		messages = append(messages, msg)
	}

	if !diags.Ok() {
		return ir.SpecIR{}, diags
	}

	spec, d := ir.NewSpecIR(irVersion, meta, bus, messages)
	diags = append(diags, d...)
	if !diags.Ok() {
		return ir.SpecIR{}, diags
	}

	return spec, nil
}

func decodeMeta(m map[string]any) (ir.Meta, ir.Diagnostics) {
	var diags ir.Diagnostics

	name, _ := stringField(m, "meta", "name", true, &diags)
	version, _ := stringField(m, "meta", "version", false, &diags)
	source, _ := stringField(m, "meta", "source", false, &diags)
	format, _ := stringField(m, "meta", "format", true, &diags)

	meta, d := ir.NewMeta("meta", name, version, source, ir.Format(format))
	diags = append(diags, d...)

	return meta, diags
}

func decodeBusType(path string, m map[string]any) (ir.BusType, ir.Diagnostics) {
	var diags ir.Diagnostics

	kind, _ := stringField(m, path, "bustype", true, &diags)
	mode, _ := stringField(m, path, "busmode", false, &diags)

	var bitRates []int
	if raw, ok := m["sup_bitrates"]; ok {
		list, ok := raw.([]any)
		if !ok {
			diags = append(diags, ir.SchemaError(path+".sup_bitrates", "must be a list of integers"))
		} else {
			for _, item := range list {
				v, ok := toInt(item)
				if !ok {
					diags = append(diags, ir.SchemaError(path+".sup_bitrates", "entries must be integers"))
					continue
				}
				bitRates = append(bitRates, v)
			}
		}
	}

	bus, d := ir.NewBusType(path, ir.BusKind(kind), ir.BusMode(mode), bitRates)
	diags = append(diags, d...)

	return bus, diags
}

func decodeMessage(path string, m map[string]any) (ir.Message, ir.Diagnostics) {
	var diags ir.Diagnostics

	idVal, _ := intField(m, path, "id", true, &diags)
	name, _ := stringField(m, path, "name", true, &diags)
	dlcVal, _ := intField(m, path, "dlc", true, &diags)
	isExtended, _ := boolField(m, path, "is_extended", false, &diags)
	isFD, _ := boolField(m, path, "is_fd", false, &diags)
	description, _ := stringField(m, path, "description", false, &diags)
	direction, _ := stringField(m, path, "direction", false, &diags)

	if idVal < 0 {
		diags = append(diags, ir.SchemaError(path+".id", "must be non-negative, got %d", idVal))
	}
	if dlcVal < 0 {
		diags = append(diags, ir.SchemaError(path+".dlc", "must be non-negative, got %d", dlcVal))
	}

	msg := ir.Message{
		ID:          uintOrZero(idVal),
		Name:        name,
		DLC:         uintOrZero(dlcVal),
		IsExtended:  isExtended,
		IsFD:        isFD,
		Description: description,
		Direction:   ir.Direction(direction),
	}

	if raw, ok := m["bus_type"]; ok {
		sub, ok := raw.(map[string]any)
		if !ok {
			diags = append(diags, ir.SchemaError(path+".bus_type", "must be a mapping"))
		} else {
			bus, d := decodeBusType(path+".bus_type", sub)
			diags = append(diags, d...)
			msg.HasBusType = true
			msg.BusType = bus
		}
	}

	signalsRaw, _ := listField(m, path, "signals", false, &diags)
	signals := make([]ir.Signal, 0, len(signalsRaw))
	for i, raw := range signalsRaw {
		sigPath := fmt.Sprintf("%s.signals[%d]", path, i)
		sm, ok := raw.(map[string]any)
		if !ok {
			diags = append(diags, ir.SchemaError(sigPath, "must be a mapping"))
			continue
		}
		sig, d := decodeSignal(sigPath, sm)
		diags = append(diags, d...)
		signals = append(signals, sig)
	}
	msg.Signals = signals

	result, d := ir.NewMessage(path, msg)
	diags = append(diags, d...)

	return result, diags
}

func decodeSignal(path string, m map[string]any) (ir.Signal, ir.Diagnostics) {
	var diags ir.Diagnostics

	name, _ := stringField(m, path, "name", true, &diags)
	startBit, _ := intField(m, path, "start_bit", true, &diags)
	bitLength, _ := intField(m, path, "bit_length", true, &diags)
	byteOrder, _ := stringField(m, path, "byte_order", true, &diags)
	signed, _ := boolField(m, path, "signed", false, &diags)
	scale, hasScale := floatField(m, path, "scale", false, &diags)
	if !hasScale {
		scale = 1.0
	}
	offset, _ := floatField(m, path, "offset", false, &diags)

	if startBit < 0 {
		diags = append(diags, ir.SchemaError(path+".start_bit", "must be non-negative, got %d", startBit))
	}
	if bitLength < 0 {
		diags = append(diags, ir.SchemaError(path+".bit_length", "must be non-negative, got %d", bitLength))
	}

	sig := ir.Signal{
		Name:      name,
		StartBit:  uintOrZero(startBit),
		BitLength: uintOrZero(bitLength),
		ByteOrder: ir.ByteOrder(byteOrder),
		Signed:    signed,
		Scale:     scale,
		Offset:    offset,
		Unit:      mustString(m["unit"]),
	}

	if v, ok := m["min"]; ok {
		sig.HasMin = true
		sig.Min, _ = toFloat(v)
	}
	if v, ok := m["default"]; ok {
		sig.HasDefault = true
		sig.Default, _ = toFloat(v)
	}
	if v, ok := m["max"]; ok {
		sig.HasMax = true
		sig.Max, _ = toFloat(v)
	}

	// byte_order=unknown is a hard ingest-time error rather than something
	// tolerated through to codegen.
	if sig.ByteOrder == ir.Unknown {
		diags = append(diags, ir.SchemaError(path+".byte_order", "byte_order \"unknown\" is not accepted; a concrete little_endian or big_endian layout is required"))
	}

	enumRaw, _ := listField(m, path, "enum", false, &diags)
	for i, raw := range enumRaw {
		em, ok := raw.(map[string]any)
		if !ok {
			diags = append(diags, ir.SchemaError(fmt.Sprintf("%s.enum[%d]", path, i), "must be a mapping"))
			continue
		}
		entryPath := fmt.Sprintf("%s.enum[%d]", path, i)
		entryName, _ := stringField(em, entryPath, "name", true, &diags)
		value, _ := intField(em, entryPath, "value", true, &diags)
		entry := ir.EnumEntry{Name: entryName, Value: int64(value)}
		if d, ok := em["description"]; ok {
			entry.Description, _ = d.(string)
			entry.HasDesc = true
		}
		sig.Enum = append(sig.Enum, entry)
	}

	result, d := ir.NewSignal(path, sig)
	diags = append(diags, d...)

	return result, diags
}

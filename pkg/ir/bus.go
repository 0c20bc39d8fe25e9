// SPDX-License-Identifier: Apache-2.0
package ir

// BusKind is the transport classification of a BusType. Closed set.
type BusKind string

// Recognised BusKind values.
const (
	BusCAN     BusKind = "CAN"
	BusUART    BusKind = "UART"
	BusSPI     BusKind = "SPI"
	BusI2C     BusKind = "I2C"
	BusUnknown BusKind = "unknown"
)

// IsValid reports whether k is a recognised bus kind.
func (k BusKind) IsValid() bool {
	switch k {
	case BusCAN, BusUART, BusSPI, BusI2C, BusUnknown:
		return true
	}
	return false
}

// BusMode further qualifies a CAN bus; meaningless for other bus kinds.
type BusMode string

// Recognised BusMode values.
const (
	BusModeClassic BusMode = "classic"
	BusModeFD      BusMode = "fd"
	// BusModeNone indicates no mode was supplied (valid for non-CAN buses,
	// or a CAN bus that did not specify classic/fd).
	BusModeNone BusMode = ""
)

// IsValid reports whether m is a recognised (or absent) bus mode.
func (m BusMode) IsValid() bool {
	switch m {
	case BusModeClassic, BusModeFD, BusModeNone:
		return true
	}
	return false
}

// BusType is the transport classification shared by a SpecIR (as a default)
// and, optionally, overridden per Message.
type BusType struct {
	Kind BusKind
	// Mode is only meaningful when Kind == BusCAN.
	Mode BusMode
	// BitRates lists supported bit rates in bits per second; each entry
	// must be strictly positive. Nil means "not specified".
	BitRates []int
}

// NewBusType constructs a BusType, validating field-level constraints.
func NewBusType(path string, kind BusKind, mode BusMode, bitRates []int) (BusType, Diagnostics) {
	var diags Diagnostics

	if !kind.IsValid() {
		diags = append(diags, SchemaError(path+".bustype", "unrecognised bus kind %q", kind))
	}

	if !mode.IsValid() {
		diags = append(diags, SchemaError(path+".busmode", "unrecognised bus mode %q", mode))
	} else if mode != BusModeNone && kind != BusCAN {
		// Rejected: a classic/fd mode is only accepted together with a CAN
		// bus kind.
		diags = append(diags, SchemaError(path+".busmode", "bus mode %q is only meaningful for CAN buses", mode))
	}

	for i, rate := range bitRates {
		if rate <= 0 {
			diags = append(diags, SchemaError(path+".sup_bitrates", "entry %d (%d) must be strictly positive", i, rate))
		}
	}

	return BusType{Kind: kind, Mode: mode, BitRates: bitRates}, diags
}

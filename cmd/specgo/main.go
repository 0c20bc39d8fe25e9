// SPDX-License-Identifier: Apache-2.0

// Command specgo is the entry point for the specgo CLI: validate,
// codegen, and test-roundtrip.
package main

import (
	"github.com/specgo-dev/specgo/pkg/cmd"
)

func main() {
	cmd.Execute()
}

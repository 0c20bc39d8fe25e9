// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected bool flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetInt gets an expected signed integer flag, or exits if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}

	return r
}

// GetIntOrNil returns nil if flag was never set on the command line,
// otherwise a pointer to its value. Used for options like --master-seed
// that distinguish "absent" from "zero".
func GetIntOrNil(cmd *cobra.Command, flag string) *int64 {
	if !cmd.Flags().Changed(flag) {
		return nil
	}

	v := GetInt(cmd, flag)
	v64 := int64(v)

	return &v64
}

// GetStringOrEmpty returns "" if flag was never set, otherwise its value;
// used to distinguish an unset optional path flag from an explicit "".
func GetStringOrEmpty(cmd *cobra.Command, flag string) string {
	if !cmd.Flags().Changed(flag) {
		return ""
	}

	return GetString(cmd, flag)
}

// defaultTableWidth is used when stdout is not a terminal (piped output,
// CI logs) and term.GetSize has nothing to report.
const defaultTableWidth = 100

// terminalWidth reports the width to wrap the roundtrip loop summary
// table to, asking the terminal its own size rather than hard-coding a
// column count.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultTableWidth
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultTableWidth
	}

	return width
}

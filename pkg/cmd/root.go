// SPDX-License-Identifier: Apache-2.0

// Package cmd wires specgo's cobra CLI surface: validate, codegen, and
// test-roundtrip.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled in when building with a release tag; otherwise the
// --version banner falls back to the embedded build info's module version,
// or "(unknown version)" when the binary carries no build info.
var Version string

var rootCmd = &cobra.Command{
	Use:   "specgo",
	Short: "Generate and verify embedded-bus message codecs from a YAML catalog.",
	Long: `specgo ingests a YAML message catalog describing an embedded bus
(CAN, CAN-FD, ...), validates it, generates bit-exact C encode/decode
functions, and verifies the generated code with a seeded roundtrip
campaign.`,
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("specgo ")
			switch {
			case Version != "":
				fmt.Print(Version)
			default:
				if info, ok := debug.ReadBuildInfo(); ok {
					fmt.Print(info.Main.Version)
				} else {
					fmt.Print("(unknown version)")
				}
			}
			fmt.Println()
			return
		}
		fmt.Println(cmd.UsageString())
	},
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")

	cobra.OnInitialize(func() {
		if GetFlag(rootCmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	})
}

func resolvedVersion() string {
	if Version != "" {
		return Version
	}
	return "dev"
}

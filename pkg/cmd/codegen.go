// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specgo-dev/specgo/pkg/codegen"
	"github.com/specgo-dev/specgo/pkg/ingest"
)

var codegenCmd = &cobra.Command{
	Use:   "codegen [flags] <ir file>",
	Short: "Generate C encoder/decoder code from an .ir.yaml catalog.",
	Long: `Validate the given IR file (or glob), render a deterministic C
header/source pair for each match, write it to --out, and run the codegen
gates (file existence, self-include, determinism, and a syntax-only
compile when --check-compile is set). Only --lang c is recognised.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		outDir := GetString(cmd, "out")
		lang := GetString(cmd, "lang")
		checkCompile := GetFlag(cmd, "check-compile")

		if lang != "c" {
			fmt.Fprintf(os.Stderr, "Error: unsupported --lang %q; only \"c\" is recognized\n", lang)
			os.Exit(1)
		}

		files, err := resolveIRArgs(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		if len(files) == 0 {
			fmt.Fprintf(os.Stderr, "Error: no .ir.yaml files matched: %s\n", args[0])
			os.Exit(1)
		}

		anyFailed := false

		for _, path := range files {
			spec, diags := ingest.LoadAndValidate(path)
			if !diags.Ok() {
				anyFailed = true
				fmt.Printf("%s: validation FAILED\n", path)
				for _, d := range diags.Strings() {
					fmt.Printf("  %s\n", d)
				}
				continue
			}

			gates, art, err := codegen.RunGates(spec, lang, outDir, checkCompile)
			if err != nil {
				anyFailed = true
				fmt.Printf("%s: codegen FAILED: %v\n", path, err)
				continue
			}

			fmt.Printf("%s -> %s, %s\n", path, art.HeaderFilename, art.SourceFilename)
			for _, g := range gates.Results {
				status := "pass"
				if !g.Passed {
					status = "FAIL"
					anyFailed = true
				}
				fmt.Printf("  [%s] %s: %s\n", status, g.Name, g.Detail)
			}
		}

		if anyFailed {
			os.Exit(1)
		}
	},
}

func init() {
	codegenCmd.Flags().StringP("out", "o", "gen", "output directory for generated header/source files")
	codegenCmd.Flags().String("lang", "c", "target language; only \"c\" is recognized")
	codegenCmd.Flags().Bool("check-compile", false, "also run a syntax-only compile of the generated source")
	rootCmd.AddCommand(codegenCmd)
}

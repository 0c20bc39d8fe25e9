// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/specgo-dev/specgo/pkg/ingest"
	"github.com/specgo-dev/specgo/pkg/report"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] <ir files>...",
	Short: "Validate one or more .ir.yaml message catalogs.",
	Long: `Run the schema validator (shape and type) and the semantic
validator (cross-field invariants) over each given IR file (or glob),
printing every diagnostic found rather than stopping at the first one, and
writing a "<input>.validation.yaml" report next to each input.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		files, err := resolveIRArgs(args)
		if err != nil {
			log.Errorln(err)
			os.Exit(1)
		}
		if len(files) == 0 {
			log.Errorln("no .ir.yaml files matched the given arguments")
			os.Exit(1)
		}

		anyFailed := false

		for _, path := range files {
			spec, diags := ingest.LoadAndValidate(path)

			vr := report.ValidationReport{
				IRPath:       path,
				Diagnostics:  diags.Strings(),
				MessageCount: len(spec.Messages),
			}

			if diags.Ok() {
				vr.Status = "OK"
				fmt.Printf("%s: OK (%d message(s))\n", path, len(spec.Messages))
			} else {
				anyFailed = true
				vr.Status = "FAILED"
				fmt.Printf("%s: FAILED\n", path)
				for _, d := range diags.Strings() {
					fmt.Printf("  %s\n", d)
				}
			}

			if err := report.WriteValidationReport(path, vr); err != nil {
				fmt.Fprintf(os.Stderr, "Error: writing validation report for %s: %v\n", path, err)
				anyFailed = true
			}
		}

		if anyFailed {
			os.Exit(1)
		}
	},
}

// resolveIRArgs expands each CLI argument as a glob pattern (arguments
// may be literal paths or globs); an argument matching no
// glob wildcard that exists verbatim on disk is kept even if its name
// doesn't end in ".ir.yaml", so a user can point validate at a single file
// directly without renaming it.
func resolveIRArgs(args []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}

	for _, arg := range args {
		matches, err := ingest.Glob(arg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			if _, statErr := os.Stat(arg); statErr == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}

	return out, nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

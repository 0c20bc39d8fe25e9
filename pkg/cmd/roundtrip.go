// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/specgo-dev/specgo/pkg/campaign"
)

var roundtripCmd = &cobra.Command{
	Use:     "test-roundtrip [flags] <ir-glob>",
	Aliases: []string{"rt"},
	Short:   "Run a seeded roundtrip property-test campaign and emit YAML reports.",
	Long: `Compile generated (or pre-existing) C code to a shared library,
dynamically bind its encode/decode ABI, and run seeded property tests
(raw_encode_decode_roundtrip and raw_decode_encode_masked_roundtrip)
plus a function-coverage check, across --loops seeded iterations.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		irGlob := GetString(cmd, "ir-glob")
		if !cmd.Flags().Changed("ir-glob") {
			irGlob = envOr("SPECGO_IR_GLOB", irGlob)
		}
		if len(args) == 1 {
			irGlob = args[0]
		}
		if irGlob == "" {
			fmt.Fprintln(os.Stderr, "Error: an ir-glob is required, via --ir-glob, positionally, or SPECGO_IR_GLOB")
			os.Exit(1)
		}

		seedsRaw := GetString(cmd, "seeds")
		if !cmd.Flags().Changed("seeds") {
			seedsRaw = envOr("SPECGO_SEEDS", seedsRaw)
		}
		seeds, err := parseSeedList(seedsRaw)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

		compiler := GetString(cmd, "compiler")
		if !cmd.Flags().Changed("compiler") {
			compiler = envOr("SPECGO_COMPILER", compiler)
		}

		artifactDir := GetStringOrEmpty(cmd, "artifact-dir")
		if artifactDir == "" {
			artifactDir = envOr("SPECGO_ARTIFACT_DIR", "")
		}

		casesPerSeed := GetInt(cmd, "cases-per-seed")
		if !cmd.Flags().Changed("cases-per-seed") {
			if v := envOr("SPECGO_CASES_PER_SEED", ""); v != "" {
				if parsed, err := strconv.Atoi(v); err == nil {
					casesPerSeed = parsed
				}
			}
		}

		continueOnFail := GetFlag(cmd, "continue-on-fail")
		if GetFlag(cmd, "stop-on-fail") {
			continueOnFail = false
		}

		cfg := campaign.Config{
			IRGlob:         irGlob,
			ArtifactDir:    artifactDir,
			Compiler:       compiler,
			Loops:          GetInt(cmd, "loops"),
			MasterSeed:     GetIntOrNil(cmd, "master-seed"),
			ExplicitSeeds:  seeds,
			CasesPerSeed:   casesPerSeed,
			ReportDir:      GetStringOrEmpty(cmd, "report-dir"),
			TestFileName:   GetString(cmd, "test-file-name"),
			ContinueOnFail: continueOnFail,
			SpecgoVersion:  resolvedVersion(),
		}

		fmt.Println("Running raw roundtrip campaign:")
		fmt.Printf("  test_file_name: %s\n", cfg.TestFileName)
		fmt.Printf("  ir_glob: %s\n", cfg.IRGlob)
		if cfg.ArtifactDir == "" {
			fmt.Println("  artifact_dir: (auto-generate in temp dir)")
		} else {
			fmt.Printf("  artifact_dir: %s\n", cfg.ArtifactDir)
		}
		fmt.Printf("  loops: %d\n", cfg.Loops)
		if cfg.MasterSeed == nil {
			fmt.Println("  master_seed: (auto)")
		} else {
			fmt.Printf("  master_seed: %d\n", *cfg.MasterSeed)
		}
		fmt.Printf("  cases_per_seed: %d\n", cfg.CasesPerSeed)
		fmt.Printf("  compiler: %s\n", cfg.Compiler)
		fmt.Printf("  continue_on_fail: %v\n", cfg.ContinueOnFail)

		result, err := campaign.Run(cfg, time.Now())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

		summary := result.Summary.Summary
		fmt.Println()
		fmt.Println("Raw roundtrip summary:")
		fmt.Printf("  status: %s\n", summary.Status)
		fmt.Printf("  loops_executed: %d\n", summary.TotalLoopsExecuted)
		fmt.Printf("  total_cases_run: %d\n", summary.TotalCasesRun)
		fmt.Printf("  total_failures: %d\n", summary.TotalFailures)
		fmt.Printf("  master_seed: %d\n", result.Summary.Config.MasterSeed)
		fmt.Printf("  loop_seeds: %v\n", result.Summary.Config.LoopSeeds)
		fmt.Printf("  summary_report: %s\n", result.SummaryPath)
		if result.ErrorPath != "" {
			fmt.Printf("  error_report: %s\n", result.ErrorPath)
		}
		fmt.Println()
		fmt.Println(campaign.RenderLoopTable(result.Summary.LoopSummaries, terminalWidth()))

		if summary.Status != "PASSED" {
			os.Exit(1)
		}
	},
}

// envOr returns os.Getenv(key) if non-empty, otherwise fallback. The
// roundtrip harness documents SPECGO_IR_GLOB, SPECGO_ARTIFACT_DIR,
// SPECGO_COMPILER, SPECGO_SEEDS and SPECGO_CASES_PER_SEED as CLI-flag
// equivalents for use in test harnesses only.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseSeedList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	seeds := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing seed %q: %w", p, err)
		}
		seeds = append(seeds, v)
	}

	return seeds, nil
}

func init() {
	roundtripCmd.Flags().String("test-file-name", "roundtrip_property", "logical test file name stored in report metadata")
	roundtripCmd.Flags().StringP("ir-glob", "i", "", "glob pattern of IR YAML files used by the property tests")
	roundtripCmd.Flags().StringP("artifact-dir", "a", "", "directory containing already-generated protocol C/H artifacts to test directly")
	roundtripCmd.Flags().IntP("loops", "n", 10, "number of loop iterations to execute")
	roundtripCmd.Flags().IntP("master-seed", "m", 0, "master seed for reproducible loop seed generation (random if omitted)")
	roundtripCmd.Flags().StringP("seeds", "s", "", "optional comma-separated seed list, consumed before any generated seeds")
	roundtripCmd.Flags().IntP("cases-per-seed", "c", 2, "number of random cases per seed per message")
	roundtripCmd.Flags().String("compiler", defaultRoundtripCompiler(), "compiler used to build generated C source")
	roundtripCmd.Flags().StringP("report-dir", "r", "", "report output directory (default: sibling raw_reports next to artifact dir)")
	roundtripCmd.Flags().Bool("continue-on-fail", true, "continue remaining loops after failures")
	roundtripCmd.Flags().Bool("stop-on-fail", false, "stop after the first failing loop (overrides --continue-on-fail)")
	roundtripCmd.MarkFlagsMutuallyExclusive("continue-on-fail", "stop-on-fail")
	rootCmd.AddCommand(roundtripCmd)
}

func defaultRoundtripCompiler() string {
	if strings.EqualFold(runtime.GOOS, "windows") {
		return "cl"
	}
	return "cc"
}

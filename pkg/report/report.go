// SPDX-License-Identifier: Apache-2.0

// Package report defines the two YAML documents a roundtrip campaign
// emits: a summary report, always written, and an error
// report, written only when at least one failure occurred. Field names
// and nesting follow the raw_roundtrip_run / raw_error_report document
// shape, so tooling built against those reports needs no changes to read
// this repo's output.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// UTCNowISO returns the current instant in RFC 3339 (ISO 8601) form, UTC.
func UTCNowISO(now time.Time) string {
	return now.UTC().Format(time.RFC3339Nano)
}

// UTCTimestampSlug returns a filesystem-safe UTC timestamp suitable for a
// report filename prefix, e.g. "20260729T120501Z".
func UTCTimestampSlug(now time.Time) string {
	return now.UTC().Format("20060102T150405Z")
}

// ResolveReportDir picks the report output directory: an explicit
// reportDir wins, otherwise a sibling "raw_reports" directory next to
// artifactDir, otherwise "./raw_reports" under the current directory.
func ResolveReportDir(reportDir, artifactDir string) (string, error) {
	if reportDir != "" {
		return filepath.Abs(reportDir)
	}
	if artifactDir != "" {
		abs, err := filepath.Abs(artifactDir)
		if err != nil {
			return "", err
		}
		return filepath.Join(filepath.Dir(abs), "raw_reports"), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, "raw_reports"), nil
}

// Toolchain records the environment a campaign ran under.
type Toolchain struct {
	GoVersion      string `yaml:"go_version"`
	Platform       string `yaml:"platform"`
	Compiler       string `yaml:"compiler"`
	CompilerVersion string `yaml:"compiler_version"`
	SpecgoVersion  string `yaml:"specgo_version"`
}

// Config records the resolved campaign configuration, including the full
// seed schedule, for reproducibility.
type Config struct {
	IRGlob          string  `yaml:"ir_glob"`
	ArtifactDir     *string `yaml:"artifact_dir"`
	ReportDir       string  `yaml:"report_dir"`
	Loops           int     `yaml:"loops"`
	CasesPerSeed    int     `yaml:"cases_per_seed"`
	ContinueOnFail  bool    `yaml:"continue_on_fail"`
	MasterSeed      int64   `yaml:"master_seed"`
	SeedListInput   []int64 `yaml:"seed_list_input"`
	LoopSeeds       []int64 `yaml:"loop_seeds"`
}

// InputSpec records one bound IR/artifact pair the campaign exercised.
type InputSpec struct {
	ProjectName string `yaml:"project_name"`
	IRPath      string `yaml:"ir_path"`
	IRVersion   string `yaml:"ir_version"`
	SourcePath  string `yaml:"source_path"`
	HeaderPath  string `yaml:"header_path"`
}

// LoopSummary records one loop's outcome.
type LoopSummary struct {
	LoopIndex    int    `yaml:"loop_index"`
	Seed         int64  `yaml:"seed"`
	CasesRun     int    `yaml:"cases_run"`
	FailureCount int    `yaml:"failure_count"`
	Status       string `yaml:"status"`
}

// Summary is the campaign's pass/fail rollup.
type Summary struct {
	TotalLoopsExecuted int    `yaml:"total_loops_executed"`
	PassedLoops        int    `yaml:"passed_loops"`
	FailedLoops        int    `yaml:"failed_loops"`
	TotalCasesRun      int    `yaml:"total_cases_run"`
	TotalFailures      int    `yaml:"total_failures"`
	Status             string `yaml:"status"`
}

// FailureHighlight is an abbreviated failure surfaced in the summary
// report; the full record lives only in the error report.
type FailureHighlight struct {
	LoopIndex   int    `yaml:"loop_index"`
	Seed        int64  `yaml:"seed"`
	ProjectName string `yaml:"project_name"`
	MessageName string `yaml:"message_name"`
	Property    string `yaml:"property"`
	Detail      string `yaml:"detail"`
}

// FailureRecord is one fully detailed property or coverage failure.
type FailureRecord struct {
	TimestampUTC string `yaml:"timestamp_utc"`
	LoopIndex    int    `yaml:"loop_index"`
	Seed         int64  `yaml:"seed"`
	ProjectName  string `yaml:"project_name"`
	IRPath       string `yaml:"ir_path"`
	IRVersion    string `yaml:"ir_version"`
	MessageName  string `yaml:"message_name"`
	EncodeFn     string `yaml:"encode_fn"`
	DecodeFn     string `yaml:"decode_fn"`
	Property     string `yaml:"property"`
	CaseIndex    *int   `yaml:"case_index"`
	Detail       string `yaml:"detail"`
}

// RunReport is the root of a "<slug>-raw.report.yaml" document.
type RunReport struct {
	RunStamp            string             `yaml:"run_stamp"`
	StartedAtUTC         string             `yaml:"started_at_utc"`
	FinishedAtUTC        string             `yaml:"finished_at_utc"`
	TestFileName         string             `yaml:"test_file_name"`
	Toolchain            Toolchain          `yaml:"toolchain"`
	Config               Config             `yaml:"config"`
	Inputs               []InputSpec        `yaml:"inputs"`
	LoopSummaries        []LoopSummary      `yaml:"loop_summaries"`
	Summary              Summary            `yaml:"summary"`
	RawFailureHighlights []FailureHighlight `yaml:"raw_failure_highlights"`
}

// ErrorReport is the root of a "<slug>-raw.error.report.yaml" document,
// written only when the run produced at least one failure.
type ErrorReport struct {
	RunStamp      string          `yaml:"run_stamp"`
	GeneratedAtUTC string         `yaml:"generated_at_utc"`
	TestFileName  string          `yaml:"test_file_name"`
	Toolchain     Toolchain       `yaml:"toolchain"`
	Config        Config          `yaml:"config"`
	Inputs        []InputSpec     `yaml:"inputs"`
	MasterSeed    int64           `yaml:"master_seed"`
	TotalFailures int             `yaml:"total_failures"`
	Failures      []FailureRecord `yaml:"failures"`
}

// Each report document is wrapped under a named top-level key:
// {"raw_roundtrip_run": {...}} or {"raw_error_report": {...}}.
type runReportDoc struct {
	RawRoundtripRun RunReport `yaml:"raw_roundtrip_run"`
}

type errorReportDoc struct {
	RawErrorReport ErrorReport `yaml:"raw_error_report"`
}

// WriteYAML marshals data with yaml.v3 and writes it to path, creating
// parent directories as needed.
func WriteYAML(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", path, err)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// ValidationReport is the root of a "<input>.validation.yaml" document
// written by the "validate" CLI command next to the IR file it
// describes.
type ValidationReport struct {
	IRPath      string   `yaml:"ir_path"`
	Status      string   `yaml:"status"`
	MessageCount int     `yaml:"message_count"`
	Diagnostics []string `yaml:"diagnostics"`
}

type validationReportDoc struct {
	ValidationReport ValidationReport `yaml:"validation_report"`
}

// ValidationReportPath returns the "<input>.validation.yaml" path the
// validate command writes its report to, next to irPath.
func ValidationReportPath(irPath string) string {
	return irPath + ".validation.yaml"
}

// WriteValidationReport writes one IR file's validation outcome to its
// "<input>.validation.yaml" sibling.
func WriteValidationReport(irPath string, r ValidationReport) error {
	return WriteYAML(ValidationReportPath(irPath), validationReportDoc{ValidationReport: r})
}

// WriteReports writes the summary report and, if errorReport is non-nil,
// the error report, returning their paths.
func WriteReports(reportDir, runStamp string, summary RunReport, errorReport *ErrorReport) (summaryPath string, errorPath string, err error) {
	summaryPath = filepath.Join(reportDir, fmt.Sprintf("%s-raw.report.yaml", runStamp))
	if err := WriteYAML(summaryPath, runReportDoc{RawRoundtripRun: summary}); err != nil {
		return "", "", err
	}

	if errorReport == nil {
		return summaryPath, "", nil
	}

	errorPath = filepath.Join(reportDir, fmt.Sprintf("%s-raw.error.report.yaml", runStamp))
	if err := WriteYAML(errorPath, errorReportDoc{RawErrorReport: *errorReport}); err != nil {
		return "", "", err
	}

	return summaryPath, errorPath, nil
}

// SPDX-License-Identifier: Apache-2.0

// Package campaign orchestrates a full roundtrip campaign: preflight
// (load, validate, codegen-or-locate, compile, load, bind, per IR file,
// without aborting on a single file's failure), seeded loop scheduling
// honoring continue_on_fail, and report emission. This is the component
// the "test-roundtrip" CLI command drives.
package campaign

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/specgo-dev/specgo/pkg/codegen"
	"github.com/specgo-dev/specgo/pkg/ingest"
	"github.com/specgo-dev/specgo/pkg/ir"
	"github.com/specgo-dev/specgo/pkg/naming"
	"github.com/specgo-dev/specgo/pkg/report"
	"github.com/specgo-dev/specgo/pkg/roundtrip"
	"github.com/specgo-dev/specgo/pkg/seed"
)

// Config is the fully resolved set of options one campaign run needs,
// mirroring the original "specgo test-roundtrip" command's option set.
type Config struct {
	IRGlob         string
	ArtifactDir    string // "" means: codegen fresh artifacts into a temp dir
	Compiler       string
	Loops          int
	MasterSeed     *int64
	ExplicitSeeds  []int64
	CasesPerSeed   int
	ReportDir      string
	TestFileName   string
	ContinueOnFail bool
	SpecgoVersion  string
}

// Result is what a completed (or partially completed) campaign produced.
type Result struct {
	SummaryPath string
	ErrorPath   string
	Summary     report.RunReport
}

func defaultCompiler() string {
	if runtime.GOOS == "windows" {
		return "cl"
	}
	return "cc"
}

// Run executes one full campaign: preflight over every matched IR file,
// then `cfg.Loops` seeded property-test loops, then report emission.
func Run(cfg Config, now time.Time) (Result, error) {
	if cfg.Loops < 1 {
		return Result{}, fmt.Errorf("campaign: loops must be >= 1")
	}
	if cfg.CasesPerSeed < 1 {
		return Result{}, fmt.Errorf("campaign: cases_per_seed must be >= 1")
	}
	compiler := cfg.Compiler
	if compiler == "" {
		compiler = defaultCompiler()
	}
	if _, err := exec.LookPath(compiler); err != nil {
		return Result{}, fmt.Errorf("campaign: compiler not found: %s", compiler)
	}

	reportDir, err := report.ResolveReportDir(cfg.ReportDir, cfg.ArtifactDir)
	if err != nil {
		return Result{}, fmt.Errorf("campaign: resolving report dir: %w", err)
	}

	runStamp := report.UTCTimestampSlug(now)
	startedAt := report.UTCNowISO(now)

	master, err := seed.ResolveMasterSeed(cfg.MasterSeed)
	if err != nil {
		return Result{}, err
	}
	plan := seed.BuildPlan(cfg.Loops, master, cfg.ExplicitSeeds)

	irFiles, err := ingest.Glob(cfg.IRGlob)
	if err != nil {
		return Result{}, err
	}
	if len(irFiles) == 0 {
		return Result{}, fmt.Errorf("campaign: no .ir.yaml files found for glob: %s", cfg.IRGlob)
	}

	tempRoot, err := os.MkdirTemp("", "specgo-raw-roundtrip-")
	if err != nil {
		return Result{}, fmt.Errorf("campaign: creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempRoot)

	bindings, preflightFailures := prepareBindings(irFiles, cfg.ArtifactDir, compiler, tempRoot, now)
	// Registered after the RemoveAll defer so the libraries are unmapped,
	// in reverse bind order, before the temp dir holding them goes away.
	defer func() {
		for i := len(bindings) - 1; i >= 0; i-- {
			_ = bindings[i].Close()
		}
	}()

	var allFailures []roundtrip.Failure
	allFailures = append(allFailures, preflightFailures...)

	var loopSummaries []report.LoopSummary
	totalCasesRun := 0

	for loopIndex, loopSeed := range plan.LoopSeeds {
		if len(bindings) == 0 {
			break
		}

		loopResult := roundtrip.RunLoop(loopIndex, loopSeed, cfg.CasesPerSeed, bindings)
		totalCasesRun += loopResult.CasesRun
		allFailures = append(allFailures, loopResult.Failures...)

		status := "PASSED"
		if len(loopResult.Failures) > 0 {
			status = "FAILED"
		}
		loopSummaries = append(loopSummaries, report.LoopSummary{
			LoopIndex:    loopIndex,
			Seed:         loopSeed,
			CasesRun:     loopResult.CasesRun,
			FailureCount: len(loopResult.Failures),
			Status:       status,
		})

		if len(loopResult.Failures) > 0 && !cfg.ContinueOnFail {
			break
		}
	}

	inputs := make([]report.InputSpec, 0, len(bindings))
	for _, b := range bindings {
		inputs = append(inputs, report.InputSpec{
			ProjectName: b.ProjectName,
			IRPath:      b.IRPath,
			IRVersion:   b.Spec.IRVersion,
			SourcePath:  b.SourcePath,
			HeaderPath:  b.HeaderPath,
		})
	}

	highlights := make([]report.FailureHighlight, 0, min(20, len(allFailures)))
	for _, f := range allFailures[:min(20, len(allFailures))] {
		highlights = append(highlights, report.FailureHighlight{
			LoopIndex:   f.LoopIndex,
			Seed:        f.Seed,
			ProjectName: f.ProjectName,
			MessageName: f.MessageName,
			Property:    f.Property,
			Detail:      f.Detail,
		})
	}

	failedLoops := 0
	for _, ls := range loopSummaries {
		if ls.FailureCount > 0 {
			failedLoops++
		}
	}

	status := "PASSED"
	if len(allFailures) > 0 {
		status = "FAILED"
	}

	var artifactDirPtr *string
	if cfg.ArtifactDir != "" {
		abs, _ := filepath.Abs(cfg.ArtifactDir)
		artifactDirPtr = &abs
	}

	config := report.Config{
		IRGlob:         cfg.IRGlob,
		ArtifactDir:    artifactDirPtr,
		ReportDir:      reportDir,
		Loops:          cfg.Loops,
		CasesPerSeed:   cfg.CasesPerSeed,
		ContinueOnFail: cfg.ContinueOnFail,
		MasterSeed:     master,
		SeedListInput:  cfg.ExplicitSeeds,
		LoopSeeds:      plan.LoopSeeds,
	}

	toolchain := report.Toolchain{
		GoVersion:       runtime.Version(),
		Platform:        runtime.GOOS,
		Compiler:        compiler,
		CompilerVersion: roundtrip.CompilerVersion(compiler),
		SpecgoVersion:   cfg.SpecgoVersion,
	}

	summary := report.RunReport{
		RunStamp:     runStamp,
		StartedAtUTC: startedAt,
		FinishedAtUTC: report.UTCNowISO(now),
		TestFileName: cfg.TestFileName,
		Toolchain:    toolchain,
		Config:       config,
		Inputs:       inputs,
		LoopSummaries: loopSummaries,
		Summary: report.Summary{
			TotalLoopsExecuted: len(loopSummaries),
			PassedLoops:        len(loopSummaries) - failedLoops,
			FailedLoops:        failedLoops,
			TotalCasesRun:      totalCasesRun,
			TotalFailures:      len(allFailures),
			Status:             status,
		},
		RawFailureHighlights: highlights,
	}

	var errorReportPtr *report.ErrorReport
	if len(allFailures) > 0 {
		records := make([]report.FailureRecord, 0, len(allFailures))
		for _, f := range allFailures {
			records = append(records, report.FailureRecord{
				TimestampUTC: report.UTCNowISO(now),
				LoopIndex:    f.LoopIndex,
				Seed:         f.Seed,
				ProjectName:  f.ProjectName,
				IRPath:       f.IRPath,
				IRVersion:    f.IRVersion,
				MessageName:  f.MessageName,
				EncodeFn:     f.EncodeFn,
				DecodeFn:     f.DecodeFn,
				Property:     f.Property,
				CaseIndex:    f.CaseIndex,
				Detail:       f.Detail,
			})
		}
		errorReportPtr = &report.ErrorReport{
			RunStamp:       runStamp,
			GeneratedAtUTC: report.UTCNowISO(now),
			TestFileName:   cfg.TestFileName,
			Toolchain:      toolchain,
			Config:         config,
			Inputs:         inputs,
			MasterSeed:     master,
			TotalFailures:  len(allFailures),
			Failures:       records,
		}
	}

	summaryPath, errorPath, err := report.WriteReports(reportDir, runStamp, summary, errorReportPtr)
	if err != nil {
		return Result{}, err
	}

	return Result{SummaryPath: summaryPath, ErrorPath: errorPath, Summary: summary}, nil
}

// prepareBindings loads, validates, codegens-or-locates, compiles, and
// binds every matched IR file. A failure in any one file is recorded as a
// "preflight" failure and does not stop the remaining files from being
// attempted.
func prepareBindings(irFiles []string, artifactDir, compiler, tempRoot string, now time.Time) ([]*roundtrip.SpecBinding, []roundtrip.Failure) {
	var bindings []*roundtrip.SpecBinding
	var failures []roundtrip.Failure

	for _, irFile := range irFiles {
		binding, err := prepareOneBinding(irFile, artifactDir, compiler, tempRoot)
		if err != nil {
			failures = append(failures, roundtrip.Failure{
				TimestampUTC: report.UTCNowISO(now),
				ProjectName:  "*",
				IRPath:       irFile,
				MessageName:  "*",
				EncodeFn:     "*",
				DecodeFn:     "*",
				Property:     "preflight",
				Detail:       err.Error(),
			})
			continue
		}
		bindings = append(bindings, binding)
	}

	return bindings, failures
}

func prepareOneBinding(irFile, artifactDir, compiler, tempRoot string) (*roundtrip.SpecBinding, error) {
	spec, diags := ingest.LoadAndValidate(irFile)
	if !diags.Ok() {
		return nil, fmt.Errorf("validating %s: %s", irFile, firstDiagnostics(diags, 3))
	}

	projectCName := naming.ProjectCName(spec.Meta.Name)

	var sourcePath, headerPath string

	if artifactDir != "" {
		headerName, sourceName := naming.OutputFilenames(spec.Meta.Name)
		headerPath = filepath.Join(artifactDir, headerName)
		sourcePath = filepath.Join(artifactDir, sourceName)
		if _, err := os.Stat(sourcePath); err != nil {
			return nil, fmt.Errorf("source artifact not found: %s", sourcePath)
		}
		if _, err := os.Stat(headerPath); err != nil {
			return nil, fmt.Errorf("header artifact not found: %s", headerPath)
		}
	} else {
		generatedDir := filepath.Join(tempRoot, projectCName+"_raw_gen")
		art, err := codegen.Generate(spec, "c")
		if err != nil {
			return nil, err
		}
		headerPath, sourcePath, err = codegen.WriteArtifact(generatedDir, art)
		if err != nil {
			return nil, err
		}
	}

	libraryPath := filepath.Join(tempRoot, "lib"+projectCName+"_raw_roundtrip"+roundtrip.SharedLibrarySuffix())
	if err := roundtrip.CompileSharedLibrary(sourcePath, filepath.Dir(sourcePath), libraryPath, compiler); err != nil {
		return nil, err
	}

	binding, err := roundtrip.LoadAndBind(spec, irFile, sourcePath, headerPath, libraryPath)
	if err != nil {
		return nil, err
	}
	if len(binding.Messages) == 0 {
		return nil, fmt.Errorf("no messages found in validated IR: %s", irFile)
	}

	return binding, nil
}

func firstDiagnostics(diags ir.Diagnostics, n int) string {
	strs := diags.Strings()
	sort.Strings(strs)
	if len(strs) > n {
		strs = strs[:n]
	}
	out := ""
	for i, s := range strs {
		if i > 0 {
			out += "; "
		}
		out += s
	}
	return out
}

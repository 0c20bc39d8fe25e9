// SPDX-License-Identifier: Apache-2.0
package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specgo-dev/specgo/internal/assert"
	"gopkg.in/yaml.v3"
)

func fixedInstant() time.Time {
	return time.Date(2026, time.July, 29, 12, 5, 1, 0, time.FixedZone("CEST", 2*3600))
}

func TestUTCNowISOConvertsToUTC(t *testing.T) {
	got := UTCNowISO(fixedInstant())
	assert.Equal(t, "2026-07-29T10:05:01Z", got)
}

func TestUTCTimestampSlugFormat(t *testing.T) {
	got := UTCTimestampSlug(fixedInstant())
	assert.Equal(t, "20260729T100501Z", got)
}

func TestResolveReportDirPrefersExplicit(t *testing.T) {
	dir, err := ResolveReportDir("/tmp/explicit", "/tmp/artifacts")
	assert.True(t, err == nil, "unexpected error: %v", err)
	assert.Equal(t, "/tmp/explicit", dir)
}

func TestResolveReportDirFallsBackToArtifactDirSibling(t *testing.T) {
	dir, err := ResolveReportDir("", "/tmp/campaign/artifacts")
	assert.True(t, err == nil, "unexpected error: %v", err)
	assert.Equal(t, "/tmp/campaign/raw_reports", dir)
}

func TestResolveReportDirFallsBackToCWD(t *testing.T) {
	dir, err := ResolveReportDir("", "")
	assert.True(t, err == nil, "unexpected error: %v", err)
	assert.True(t, strings.HasSuffix(dir, string(filepath.Separator)+"raw_reports"), "expected dir to end in raw_reports, got %q", dir)
	assert.True(t, filepath.IsAbs(dir), "expected an absolute path")
}

func TestWriteReportsWritesOnlySummaryWhenNoFailures(t *testing.T) {
	dir := t.TempDir()
	summaryPath, errorPath, err := WriteReports(dir, "20260729T100501Z", RunReport{
		RunStamp: "20260729T100501Z",
		Summary:  Summary{Status: "pass"},
	}, nil)
	assert.True(t, err == nil, "unexpected error: %v", err)
	assert.Equal(t, "", errorPath)

	if _, statErr := os.Stat(summaryPath); statErr != nil {
		t.Fatalf("expected summary report on disk: %v", statErr)
	}

	raw, err := os.ReadFile(summaryPath)
	assert.True(t, err == nil, "unexpected error: %v", err)

	var doc runReportDoc
	assert.True(t, yaml.Unmarshal(raw, &doc) == nil, "expected valid yaml")
	assert.Equal(t, "pass", doc.RawRoundtripRun.Summary.Status)
}

func TestWriteReportsWritesErrorReportWhenPresent(t *testing.T) {
	dir := t.TempDir()
	errRep := &ErrorReport{
		RunStamp:      "20260729T100501Z",
		TotalFailures: 1,
		Failures: []FailureRecord{
			{MessageName: "Flag", Property: "raw_encode_decode_roundtrip", Detail: "mismatch"},
		},
	}

	_, errorPath, err := WriteReports(dir, "20260729T100501Z", RunReport{RunStamp: "20260729T100501Z"}, errRep)
	assert.True(t, err == nil, "unexpected error: %v", err)
	assert.True(t, errorPath != "", "expected a non-empty error report path")

	raw, err := os.ReadFile(errorPath)
	assert.True(t, err == nil, "unexpected error: %v", err)

	var doc errorReportDoc
	assert.True(t, yaml.Unmarshal(raw, &doc) == nil, "expected valid yaml")
	assert.Equal(t, 1, doc.RawErrorReport.TotalFailures)
	assert.Equal(t, "Flag", doc.RawErrorReport.Failures[0].MessageName)
}

func TestValidationReportPathAppendsSuffix(t *testing.T) {
	got := ValidationReportPath("/tmp/fleet.ir.yaml")
	assert.Equal(t, "/tmp/fleet.ir.yaml.validation.yaml", got)
}

func TestWriteValidationReportRoundTrips(t *testing.T) {
	dir := t.TempDir()
	irPath := filepath.Join(dir, "fleet.ir.yaml")

	err := WriteValidationReport(irPath, ValidationReport{
		IRPath:       irPath,
		Status:       "ok",
		MessageCount: 3,
	})
	assert.True(t, err == nil, "unexpected error: %v", err)

	raw, err := os.ReadFile(ValidationReportPath(irPath))
	assert.True(t, err == nil, "unexpected error: %v", err)

	var doc validationReportDoc
	assert.True(t, yaml.Unmarshal(raw, &doc) == nil, "expected valid yaml")
	assert.Equal(t, "ok", doc.ValidationReport.Status)
	assert.Equal(t, 3, doc.ValidationReport.MessageCount)
}

// SPDX-License-Identifier: Apache-2.0
package campaign

import (
	"strings"
	"testing"

	"github.com/specgo-dev/specgo/internal/assert"
	"github.com/specgo-dev/specgo/pkg/report"
)

func sampleLoops() []report.LoopSummary {
	return []report.LoopSummary{
		{LoopIndex: 0, Seed: 123, CasesRun: 50, FailureCount: 0, Status: "pass"},
		{LoopIndex: 1, Seed: 456, CasesRun: 50, FailureCount: 2, Status: "fail"},
	}
}

func TestRenderLoopTableReportsNoLoops(t *testing.T) {
	assert.Equal(t, "(no loops executed)", RenderLoopTable(nil, 100))
}

func TestRenderLoopTableIncludesHeaderAndEveryLoop(t *testing.T) {
	out := RenderLoopTable(sampleLoops(), 100)
	lines := strings.Split(out, "\n")
	assert.True(t, len(lines) >= 4, "expected header, separator, and two rows, got %d lines", len(lines))
	assert.True(t, strings.Contains(lines[0], "loop") && strings.Contains(lines[0], "status"), "expected header row")
	assert.True(t, strings.Contains(out, "123"), "expected loop 0's seed in the table")
	assert.True(t, strings.Contains(out, "fail"), "expected loop 1's failing status in the table")
}

func TestRenderLoopTableDegradesBelowMinWidth(t *testing.T) {
	out := RenderLoopTable(sampleLoops(), 10)
	assert.True(t, strings.HasPrefix(out, "loop 0: seed=123"), "expected one-line-per-loop fallback, got %q", out)
	assert.Equal(t, 2, len(strings.Split(out, "\n")))
}

func TestRenderLoopTableColumnsAreAligned(t *testing.T) {
	out := RenderLoopTable(sampleLoops(), 100)
	lines := strings.Split(out, "\n")
	header := lines[0]
	row := lines[2]
	// the "seed" column should start at the same byte offset in both lines
	seedCol := strings.Index(header, "seed")
	assert.True(t, seedCol >= 0, "expected seed header")
	assert.True(t, len(row) >= seedCol, "expected data row to reach the seed column")
	assert.True(t, strings.HasPrefix(row[seedCol:], "123"), "expected loop 0's seed to start at the seed column, got %q", row)
}

// SPDX-License-Identifier: Apache-2.0

package campaign

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/specgo-dev/specgo/pkg/report"
)

// minTableWidth is the narrowest width RenderLoopTable will still draw a
// column table at; below this it falls back to one line per loop.
const minTableWidth = 40

// RenderLoopTable renders a campaign's per-loop pass/fail summary as a
// plain-text table with fixed columns (loop, seed, cases, failures,
// status), a header row and a dashed separator. When width is below
// minTableWidth it prints one line per loop instead. At or above that
// width the columns are drawn at their natural width and only the
// separator is clamped to width; rows wider than width are not shortened.
func RenderLoopTable(loops []report.LoopSummary, width int) string {
	if len(loops) == 0 {
		return "(no loops executed)"
	}

	if width < minTableWidth {
		var b strings.Builder
		for _, l := range loops {
			fmt.Fprintf(&b, "loop %d: seed=%d cases=%d failures=%d %s\n",
				l.LoopIndex, l.Seed, l.CasesRun, l.FailureCount, l.Status)
		}
		return strings.TrimRight(b.String(), "\n")
	}

	headers := []string{"loop", "seed", "cases", "failures", "status"}
	rows := make([][]string, 0, len(loops))
	for _, l := range loops {
		rows = append(rows, []string{
			strconv.Itoa(l.LoopIndex),
			strconv.FormatInt(l.Seed, 10),
			strconv.Itoa(l.CasesRun),
			strconv.Itoa(l.FailureCount),
			l.Status,
		})
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", colWidths[i]-len(cell)))
		}
		b.WriteByte('\n')
	}

	writeRow(headers)
	separatorWidth := 0
	for _, w := range colWidths {
		separatorWidth += w
	}
	separatorWidth += 2 * (len(headers) - 1)
	if separatorWidth > width {
		separatorWidth = width
	}
	b.WriteString(strings.Repeat("-", separatorWidth))
	b.WriteByte('\n')
	for _, row := range rows {
		writeRow(row)
	}

	return strings.TrimRight(b.String(), "\n")
}

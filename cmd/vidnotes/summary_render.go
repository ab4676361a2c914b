package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"vidnotes/internal/pipeline"
)

func renderSummary(summary pipeline.Summary, colorize bool) string {
	var b strings.Builder
	if summary.DryRun {
		writeLines(&b, renderSectionHeader("Dry run", colorize))
		b.WriteString(renderCandidates(summary))
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%d listed, %d would be processed\n", summary.Listed, summary.Selected)
		return b.String()
	}

	writeLines(&b, renderSectionHeader("Run "+shortRunID(summary.RunID), colorize))
	if len(summary.Outcomes) > 0 {
		b.WriteString(renderOutcomes(summary))
		b.WriteByte('\n')
	}
	b.WriteString(renderStatusLine("Listed", statusInfo, fmt.Sprintf("%d entries", summary.Listed), colorize))
	b.WriteByte('\n')
	b.WriteString(renderStatusLine("Selected", statusInfo, fmt.Sprintf("%d candidates", summary.Selected), colorize))
	b.WriteByte('\n')
	b.WriteString(renderStatusLine("Processed", statusOK, fmt.Sprintf("%d", summary.Processed()), colorize))
	b.WriteByte('\n')
	failedKind := statusOK
	if summary.Failed() > 0 {
		failedKind = statusError
	}
	b.WriteString(renderStatusLine("Failed", failedKind, fmt.Sprintf("%d", summary.Failed()), colorize))
	b.WriteByte('\n')
	if skipped := summary.Selected - len(summary.Outcomes); skipped > 0 {
		b.WriteString(renderStatusLine("Not attempted", statusWarn, fmt.Sprintf("%d (interrupted)", skipped), colorize))
		b.WriteByte('\n')
	}
	b.WriteString(renderStatusLine("Duration", statusInfo, summary.Duration().Round(time.Second).String(), colorize))
	b.WriteByte('\n')
	return b.String()
}

func renderOutcomes(summary pipeline.Summary) string {
	rows := make([][]string, 0, len(summary.Outcomes))
	for _, o := range summary.Outcomes {
		rows = append(rows, []string{
			o.Entry.Name,
			string(o.Kind),
			o.Reason,
			o.Elapsed.Round(time.Second).String(),
		})
	}
	footer := []string{"Total", fmt.Sprintf("%d processed", summary.Processed()), fmt.Sprintf("%d failed", summary.Failed()), ""}
	return renderTable(
		[]string{"Recording", "Outcome", "Reason", "Elapsed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
		footer,
	)
}

func renderCandidates(summary pipeline.Summary) string {
	if len(summary.Candidates) == 0 {
		return "No new recordings"
	}
	rows := make([][]string, 0, len(summary.Candidates))
	var total uint64
	for _, entry := range summary.Candidates {
		size := uint64(max(entry.Size, 0))
		total += size
		rows = append(rows, []string{
			entry.Path,
			humanize.Bytes(size),
			entry.Modified.UTC().Format(time.RFC3339),
		})
	}
	return renderTable(
		[]string{"Path", "Size", "Modified"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
		[]string{fmt.Sprintf("%d recordings", len(rows)), humanize.Bytes(total), ""},
	)
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "(no id)"
	}
	return id
}

func writeLines(b *strings.Builder, lines []string) {
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

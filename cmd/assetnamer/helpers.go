package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"assetnamer/internal/batch"
	"assetnamer/internal/ledger"
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// confirm prompts for a yes/no answer on the given reader. Anything but an
// explicit yes declines.
func confirm(out io.Writer, in io.Reader, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func entryStatusLabel(status batch.EntryStatus) string {
	switch status {
	case batch.EntryProposed:
		return "rename"
	case batch.EntryUnchanged:
		return "unchanged"
	case batch.EntryDescriptionFailed:
		return "no description"
	case batch.EntryApplied:
		return "renamed"
	case batch.EntryFailed:
		return "failed"
	default:
		return string(status)
	}
}

func writePlan(out io.Writer, plan *batch.Plan) {
	if len(plan.Entries) == 0 {
		fmt.Fprintln(out, "No supported media files found.")
		return
	}

	rows := make([][]string, 0, len(plan.Entries))
	for _, entry := range plan.Entries {
		detail := entry.NewName
		if entry.Status == batch.EntryDescriptionFailed {
			detail = entry.Detail
		}
		rows = append(rows, []string{
			filepath.Base(entry.Asset.Path),
			detail,
			entryStatusLabel(entry.Status),
		})
	}
	if stdoutIsTerminal() {
		fmt.Fprintln(out, renderTable([]string{"Current", "Proposed", "Action"}, rows))
	} else {
		for _, row := range rows {
			fmt.Fprintf(out, "%s -> %s (%s)\n", row[0], row[1], row[2])
		}
	}

	for _, skip := range plan.Excluded {
		fmt.Fprintf(out, "skipped %s: %s\n", filepath.Base(skip.Path), skip.Reason)
	}
	fmt.Fprintf(out, "%d to rename, %d unchanged, %d without description\n",
		plan.Proposed(), plan.Unchanged(), plan.DescriptionFailures())
}

func writeSummary(out io.Writer, summary *batch.Summary) {
	fmt.Fprintf(out, "Batch %s: %d renamed, %d failed", shortID(summary.BatchID), summary.Renamed, summary.Failed)
	if summary.Unchanged > 0 {
		fmt.Fprintf(out, ", %d unchanged", summary.Unchanged)
	}
	if summary.DescriptionFailures > 0 {
		fmt.Fprintf(out, ", %d without description", summary.DescriptionFailures)
	}
	fmt.Fprintf(out, " (%s)\n", summary.Duration.Round(10*time.Millisecond))
	if summary.BackupDir != "" {
		fmt.Fprintf(out, "Originals backed up to %s\n", summary.BackupDir)
	}
	if summary.Status == ledger.StatusPartiallyFailed {
		fmt.Fprintln(out, "Some files failed; run 'assetnamer undo' to revert the batch.")
	}
}

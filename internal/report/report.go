package report

import (
	"fmt"
	"io"

	"dedup-go/internal/dedup"
)

// maxGroupsListed caps how many groups get their full file listing in
// non-verbose mode.
const maxGroupsListed = 10

// WriteText renders the human-readable duplicate report. In verbose
// mode every group lists all member paths; otherwise only the first
// maxGroupsListed groups do.
func WriteText(w io.Writer, res *dedup.ScanResult, verbose bool) {
	fmt.Fprintf(w, "Duplicate report for %s\n\n", res.Root)

	if len(res.Groups) == 0 {
		fmt.Fprintln(w, "No duplicate files found.")
		writeStats(w, res)
		return
	}

	fmt.Fprintf(w, "Found %d group(s) of duplicate files\n", len(res.Groups))
	fmt.Fprintf(w, "Total duplicates: %d\n", res.Stats.DuplicatesFound)
	fmt.Fprintf(w, "Wasted space:     %s\n", HumanSize(res.Stats.WastedSpace))

	for i, group := range res.Groups {
		fmt.Fprintf(w, "\nGroup %d: %s x %d files (wasted %s)\n",
			i+1, HumanSize(group.Size), len(group.Files), HumanSize(group.WastedSpace))
		fmt.Fprintf(w, "  digest: %.16s...\n", group.Digest)

		if verbose || len(res.Groups) <= maxGroupsListed {
			for _, rec := range group.Files {
				fmt.Fprintf(w, "  %s\n", rec.Path)
			}
		}
	}

	writeStats(w, res)
}

func writeStats(w io.Writer, res *dedup.ScanResult) {
	stats := res.Stats
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scan statistics")
	fmt.Fprintf(w, "  Files scanned:    %d\n", stats.FilesScanned)
	fmt.Fprintf(w, "  Files hashed:     %d\n", stats.FilesHashed)
	fmt.Fprintf(w, "  Data scanned:     %s\n", HumanSize(stats.BytesScanned))
	fmt.Fprintf(w, "  Duplicates found: %d\n", stats.DuplicatesFound)
	fmt.Fprintf(w, "  Wasted space:     %s\n", HumanSize(stats.WastedSpace))
	fmt.Fprintf(w, "  Scan time:        %.2fs\n", stats.Elapsed.Seconds())
	if n := res.Errors.Total(); n > 0 {
		fmt.Fprintf(w, "  Skipped entries:  %d (unreadable)\n", n)
	}
}

// WriteOutcomes renders an action summary: what was (or would have
// been) deleted or moved, and what failed.
func WriteOutcomes(w io.Writer, results []dedup.GroupResult) {
	var acted, failed, declined int
	var freed int64

	for _, res := range results {
		for _, out := range res.Outcomes {
			switch {
			case out.Reason == "declined":
				declined++
			case !out.OK:
				failed++
				fmt.Fprintf(w, "failed: %s (%s)\n", out.Path, out.Reason)
			default:
				acted++
				freed += res.Group.Size
				verb := actionVerb(out)
				if out.Dest != "" {
					fmt.Fprintf(w, "%s: %s -> %s\n", verb, out.Path, out.Dest)
				} else {
					fmt.Fprintf(w, "%s: %s\n", verb, out.Path)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%d file(s) processed, %d failed, %d declined, %s reclaimable\n",
		acted, failed, declined, HumanSize(freed))
}

func actionVerb(out dedup.ActionOutcome) string {
	switch {
	case out.DryRun && out.Action == dedup.ActionDelete:
		return "would delete"
	case out.DryRun && out.Action == dedup.ActionMove:
		return "would move"
	case out.Action == dedup.ActionDelete:
		return "deleted"
	default:
		return "moved"
	}
}

// HumanSize formats a byte count in binary units.
func HumanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

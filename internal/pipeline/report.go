package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// UnmatchedWarning heads the list of incident units that have no polygon.
const UnmatchedWarning = "WARNING: these units were not found in the boundary file and won't be colored:"

// Report writes the operator diagnostic for a completed run: the saved path,
// the summary path if one was exported, and any unmatched incident units.
func Report(w io.Writer, res *Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Saved: %s\n", res.Output)
	if res.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", res.Summary)
	}
	writeUnmatched(&b, res)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "pipeline: write report")
	}
	return nil
}

// FormatMatch renders the join outcome as plain text: matched districts with
// their statistics, districts without data and unmatched incident units.
func FormatMatch(res *Result) string {
	var b strings.Builder

	matched := res.Join.Matched()
	fmt.Fprintf(&b, "Matched districts (%d):\n", len(matched))
	for _, d := range res.Join.Districts {
		if s := d.Summary; s != nil {
			fmt.Fprintf(&b, "  %s\ttotal=%d\ttop=%s (%d)\n", d.Key, s.TotalCount, s.TopCategory, s.TopCategoryCount)
		}
	}

	noData := res.Join.NoData()
	fmt.Fprintf(&b, "Districts without data (%d):\n", len(noData))
	for _, k := range noData {
		fmt.Fprintf(&b, "  %s\n", k)
	}

	if len(res.Join.Unmatched) == 0 {
		b.WriteString("All incident units matched a district.\n")
	} else {
		writeUnmatched(&b, res)
	}
	return b.String()
}

func writeUnmatched(b *strings.Builder, res *Result) {
	if len(res.Join.Unmatched) == 0 {
		return
	}
	b.WriteString(UnmatchedWarning + "\n")
	for _, k := range res.Join.Unmatched {
		fmt.Fprintf(b, "  %s\n", k)
	}
}

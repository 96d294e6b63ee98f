package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
)

const (
	ansiBold   = "\033[1m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiReset  = "\033[0m"
)

// ReportPrinter renders one pipeline run as a human-readable summary.
type ReportPrinter struct {
	out io.Writer
}

func NewReportPrinter(out io.Writer) *ReportPrinter {
	return &ReportPrinter{out: out}
}

// Print writes the ranked results and the run report.
func (rp *ReportPrinter) Print(result *models.SearchResult) {
	report := result.Report

	fmt.Fprintf(rp.out, "\n%s=== SEARCH RESULTS (query %s) ===%s\n\n", ansiBold, report.QueryID, ansiReset)

	if len(result.Ranked) == 0 {
		fmt.Fprintf(rp.out, "%sNo matching properties found.%s\n", ansiYellow, ansiReset)
	}
	for i, item := range result.Ranked {
		p := item.Property
		fmt.Fprintf(rp.out, "%s%2d. %s%s\n", ansiBold, i+1, p.Address, ansiReset)
		fmt.Fprintf(rp.out, "    %s%s%s | %s | %d bed, %d bath, %d car\n",
			ansiGreen, p.DisplayPrice(), ansiReset, p.PropertyType, p.Bedrooms, p.Bathrooms, p.Parking)
		fmt.Fprintf(rp.out, "    Score %.1f | %s | %s\n", item.Score, p.Source, p.Link)
		if len(p.Features) > 0 {
			fmt.Fprintf(rp.out, "    Features: %s\n", strings.Join(p.Features, ", "))
		}
		fmt.Fprintln(rp.out)
	}

	fmt.Fprintf(rp.out, "%s--- Run report ---%s\n", ansiCyan, ansiReset)
	fmt.Fprintf(rp.out, "Tasks submitted:    %d\n", report.TasksSubmitted)
	fmt.Fprintf(rp.out, "Raw records:        %d\n", report.RawFound)
	fmt.Fprintf(rp.out, "Unique records:     %d (%d duplicate(s) removed)\n", report.UniqueFound, report.DuplicatesRemoved)
	fmt.Fprintf(rp.out, "Ranked returned:    %d\n", report.Ranked)
	fmt.Fprintf(rp.out, "Fetch / dedup time: %v / %v (total %v)\n",
		report.FetchElapsed, report.DedupElapsed, report.TotalElapsed)

	names := make([]string, 0, len(report.Sources))
	for name := range report.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := report.Sources[name]
		fmt.Fprintf(rp.out, "  %-20s %d task(s), %d ok, %d failed, %d rate-limited, %d found\n",
			name, s.Tasks, s.Succeeded, s.Failed, s.RateLimited, s.PropertiesFound)
	}
}

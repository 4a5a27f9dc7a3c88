package fleet

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/evpn"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
)

// Summary aggregates a batch of Results for reporting and metrics.
type Summary struct {
	Results  []Result
	Totals   evpn.Counts
	Rejected []Result
	Failed   int
}

// Summarize folds per-device results into fleet-wide totals. Only devices
// with a successful status fetch contribute to Totals.
func Summarize(results []Result) *Summary {
	s := &Summary{
		Results: results,
		Totals:  evpn.NewCounts(),
	}
	for i := range results {
		result := &results[i]
		if result.Err != nil {
			s.Failed++
			continue
		}
		if result.Counts == nil {
			continue
		}
		s.Totals.Add(result.Counts)
		if result.Counts.NeedsFix() {
			s.Rejected = append(s.Rejected, *result)
		}
	}
	return s
}

// Print writes the human-readable batch report.
func (s *Summary) Print(w io.Writer, fixMode bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EVPN Route Status Summary:")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	for i := range s.Results {
		result := &s.Results[i]
		name := result.DisplayName()

		if result.Err != nil {
			if !result.Connected {
				failColor.Fprintf(w, "%-30s - CONNECTION FAILED\n", name)
			} else {
				failColor.Fprintf(w, "%-30s - ERROR: %s\n", name, result.Err)
			}
			continue
		}

		line := result.Counts.String()
		if fixMode {
			switch {
			case result.FixAttempted && result.FixSucceeded:
				line += okColor.Sprint(" [restart: success]")
			case result.FixAttempted:
				line += failColor.Sprint(" [restart: failed]")
			default:
				line += " [restart: not needed]"
			}
		}
		fmt.Fprintf(w, "%-30s - %s\n", name, line)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "Overall Summary:")
	fmt.Fprintf(w, "Total routes: %s\n", s.Totals)
	if s.Failed > 0 {
		failColor.Fprintf(w, "Failed devices: %d\n", s.Failed)
	}

	if len(s.Rejected) == 0 {
		return
	}

	warnColor.Fprintf(w, "\nDevices with rejected routes: %d\n", len(s.Rejected))
	if fixMode {
		s.printFixes(w)
		return
	}
	for i := range s.Rejected {
		result := &s.Rejected[i]
		fmt.Fprintf(w, "  - %s: %d rejected routes\n", result.DisplayName(), result.Counts[evpn.Rejected])
	}
	fmt.Fprintln(w, "\nTo fix rejected routes, run with --fix")
}

func (s *Summary) printFixes(w io.Writer) {
	fixed := []Result{}
	failed := []Result{}
	for i := range s.Rejected {
		result := s.Rejected[i]
		switch {
		case result.FixAttempted && result.FixSucceeded:
			fixed = append(fixed, result)
		case result.FixAttempted:
			failed = append(failed, result)
		default:
			fmt.Fprintf(w, "  - %s: %d rejected routes (no fix attempted)\n",
				result.DisplayName(), result.Counts[evpn.Rejected])
		}
	}

	if len(fixed) > 0 {
		okColor.Fprintf(w, "\nSuccessfully restarted routing on %d device(s):\n", len(fixed))
		for i := range fixed {
			fmt.Fprintf(w, "  - %s: fixed %d rejected routes\n", fixed[i].DisplayName(), fixed[i].Counts[evpn.Rejected])
		}
	}
	if len(failed) > 0 {
		failColor.Fprintf(w, "\nFailed to restart routing on %d device(s):\n", len(failed))
		for i := range failed {
			fmt.Fprintf(w, "  - %s: %d rejected routes (fix failed)\n", failed[i].DisplayName(), failed[i].Counts[evpn.Rejected])
		}
	}
}

package checker

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pacwatch/pacwatch/internal/state"
)

const reportWidth = 80

// Report is the outcome of a single one-shot update check, ready for
// rendering in either human-readable or JSON form.
type Report struct {
	Official      []state.PackageUpdate `json:"official"`
	AUR           []state.PackageUpdate `json:"aur"`
	OfficialCount int                   `json:"official_count"`
	AURCount      int                   `json:"aur_count"`
	TotalCount    int                   `json:"total_count"`
	Helper        Helper                `json:"helper"`
	StartedAt     time.Time             `json:"started_at"`
	Duration      time.Duration         `json:"duration"`
}

func NewReport(result *Result, startedAt time.Time, duration time.Duration) Report {
	report := new(Report)
	report.Official = append([]state.PackageUpdate{}, result.Snapshot.Official...)
	report.AUR = append([]state.PackageUpdate{}, result.Snapshot.AUR...)
	report.OfficialCount = len(report.Official)
	report.AURCount = len(report.AUR)
	report.TotalCount = report.OfficialCount + report.AURCount
	report.Helper = result.Helper
	report.StartedAt = startedAt
	report.Duration = duration
	return *report
}

// PrintReport outputs the check results in the requested format.
// If jsonOutput is true, it prints machine-readable JSON of the full report.
// Otherwise, it prints a human-readable summary grouped by package source.
func PrintReport(w io.Writer, report Report, jsonOutput bool) {
	if jsonOutput {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Fprintln(w, string(output))
		return
	}

	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	fmt.Fprintln(w, "PACWATCH UPDATE REPORT")
	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	fmt.Fprintf(w, "Check Time: %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(
		w,
		"Pending: %d official, %d AUR, %d total (duration: %s)\n",
		report.OfficialCount,
		report.AURCount,
		report.TotalCount,
		HumanDuration(report.Duration),
	)
	if report.Helper == HelperNone {
		fmt.Fprintln(w, "AUR Helper: none detected")
	} else {
		fmt.Fprintf(w, "AUR Helper: %s\n", report.Helper.Binary())
	}

	if report.TotalCount == 0 {
		fmt.Fprintf(w, "\n✅ SYSTEM UP TO DATE\n")
		return
	}

	if len(report.Official) > 0 {
		fmt.Fprintf(w, "\n📦 OFFICIAL REPOSITORY UPDATES\n")
		fmt.Fprintln(w, strings.Repeat("=", reportWidth))
		for _, update := range report.Official {
			fmt.Fprintf(w, "   %s %s -> %s\n", update.Name, update.Current, update.Latest)
		}
	}

	if len(report.AUR) > 0 {
		fmt.Fprintf(w, "\n🧰 AUR UPDATES\n")
		fmt.Fprintln(w, strings.Repeat("=", reportWidth))
		for _, update := range report.AUR {
			fmt.Fprintf(w, "   %s %s -> %s\n", update.Name, update.Current, update.Latest)
		}
	}
}

// HumanDuration returns a compact, human-readable duration string.
// Examples: 850ms, 1.23s, 2m05s, 1h02m.
func HumanDuration(d time.Duration) string {
	if d < time.Millisecond {
		us := d / time.Microsecond
		return fmt.Sprintf("%dµs", us)
	}
	if d < time.Second {
		ms := d / time.Millisecond
		return fmt.Sprintf("%dms", ms)
	}
	if d < time.Minute {
		secs := float64(d) / float64(time.Second)
		return fmt.Sprintf("%.2fs", secs)
	}
	if d < time.Hour {
		m := d / time.Minute
		s := (d % time.Minute) / time.Second
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	return fmt.Sprintf("%dh%02dm", h, m)
}

package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const reportTimeFormat = "2006-01-02 15:04:05"

var separator = strings.Repeat("=", 80)

// Export renders a finalized report as a deterministic human-readable
// summary. It only reads the report, never re-derives scan data
func Export(report *Report) string {
	b := &strings.Builder{}

	b.WriteString("Network Scan Results\n")

	fmt.Fprintf(b, "Network: %s\n", report.Cidr)
	fmt.Fprintf(b, "Scan Date: %s\n", report.StartedAt.Format(reportTimeFormat))
	fmt.Fprintf(b, "Scan Duration: %.2f seconds\n", report.Elapsed.Seconds())

	b.WriteString(separator + "\n\n")

	for _, host := range report.Hosts {
		if host.Hostname != "" {
			fmt.Fprintf(b, "Host: %s (%s)\n", host.Addr, host.Hostname)
		} else {
			fmt.Fprintf(b, "Host: %s\n", host.Addr)
		}

		fmt.Fprintf(b, "Status: %s\n", host.Status)

		if host.Status == StatusUp {
			if len(host.Ports) > 0 {
				b.WriteString("Open Ports:\n")

				for _, p := range host.Ports {
					fmt.Fprintf(b, "  - %d/tcp (%s)\n", p.Port, p.Service)
				}
			} else {
				b.WriteString("No open ports found\n")
			}
		}

		b.WriteString("\n")
	}

	b.WriteString(separator + "\n")

	fmt.Fprintf(b, "Total hosts scanned: %d\n", report.TotalHosts)
	fmt.Fprintf(b, "Active hosts: %d\n", report.ActiveHosts)

	return b.String()
}

// WriteFile writes the exported report to path atomically: the report
// is written to a temp file in the same directory then renamed into
// place so a failed write never leaves a truncated report
func WriteFile(report *Report, path string) error {
	dir := filepath.Dir(path)

	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(dir, "netsweep-*.tmp")

	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(Export(report)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename report into place: %w", err)
	}

	return nil
}

package ui

import (
	"fmt"
	"strings"

	"github.com/okessler/sitecache/internal/registry"
)

// CheckRow is one host readiness check in a doctor report.
type CheckRow struct {
	Name    string
	OK      bool
	Fatal   bool
	Details string
}

// RenderDoctorReport produces the host readiness listing. Failed
// optional checks render dimmed rather than red since they only
// downgrade features.
func RenderDoctorReport(rows []CheckRow, styled bool) string {
	var b strings.Builder

	title := "Host readiness"
	if styled {
		title = titleStyle.Render(title)
	}
	b.WriteString(title + "\n")

	for _, r := range rows {
		mark := markRunning
		if !r.OK {
			mark = markStopped
		}
		line := fmt.Sprintf("  %s %s", mark, r.Name)
		if r.Details != "" {
			line += " (" + r.Details + ")"
		}
		if styled {
			switch {
			case r.OK:
				line = runningStyle.Render(line)
			case r.Fatal:
				line = stoppedStyle.Render(line)
			default:
				line = dimStyle.Render(line)
			}
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderInstanceTable produces the tabular instance listing shown
// before and after a provisioning run. With styled false the output
// is plain text for non-TTY and JSON-adjacent consumers.
func RenderInstanceTable(sums []registry.Summary, styled bool) string {
	var b strings.Builder

	title := "Known cache instances"
	if styled {
		title = titleStyle.Render(title)
	}
	b.WriteString(title + "\n")

	if len(sums) == 0 {
		empty := "  (none)"
		if styled {
			empty = dimStyle.Render(empty)
		}
		b.WriteString(empty + "\n")
		return b.String()
	}

	siteWidth := len("SITE")
	for _, s := range sums {
		if len(s.SiteName) > siteWidth {
			siteWidth = len(s.SiteName)
		}
	}

	header := fmt.Sprintf("  %-*s  %-6s  %-9s  %s", siteWidth, "SITE", "PORT", "MEMORY", "STATUS")
	if styled {
		header = headerStyle.Render(header)
	}
	b.WriteString(header + "\n")

	for _, s := range sums {
		port := "?"
		if s.Port != registry.PortUnknown {
			port = fmt.Sprintf("%d", s.Port)
		}
		status := markStopped + " stopped"
		if s.Running {
			status = markRunning + " running"
		}
		row := fmt.Sprintf("  %-*s  %-6s  %-9s  %s", siteWidth, s.SiteName, port, s.MaxMemory, status)
		if styled {
			if s.Running {
				row = runningStyle.Render(row)
			} else {
				row = stoppedStyle.Render(row)
			}
		}
		b.WriteString(row + "\n")
	}
	return b.String()
}

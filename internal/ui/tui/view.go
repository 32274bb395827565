package tui

import (
	"fmt"
	"strings"

	"github.com/okessler/sitecache/internal/registry"
)

func renderView(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("sitecache: instance status"))
	b.WriteString("\n\n")

	switch {
	case !m.Loaded:
		b.WriteString("  loading...\n")
	case len(m.Instances) == 0:
		b.WriteString("  no instances provisioned\n")
	default:
		renderInstances(&b, m.Instances)
	}

	footer := "q: quit"
	if !m.LastPoll.IsZero() {
		footer += fmt.Sprintf("  |  last poll %s", m.LastPoll.Format("15:04:05"))
	}
	b.WriteString(footerStyle.Render(footer))
	b.WriteString("\n")

	return b.String()
}

func renderInstances(b *strings.Builder, sums []registry.Summary) {
	siteWidth := len("SITE")
	for _, s := range sums {
		if len(s.SiteName) > siteWidth {
			siteWidth = len(s.SiteName)
		}
	}

	b.WriteString(headerStyle.Render(
		fmt.Sprintf("  %-*s  %-6s  %-9s  %s", siteWidth, "SITE", "PORT", "MEMORY", "STATUS")))
	b.WriteString("\n")

	for _, s := range sums {
		port := "?"
		if s.Port != registry.PortUnknown {
			port = fmt.Sprintf("%d", s.Port)
		}
		if s.Running {
			b.WriteString(runningStyle.Render(
				fmt.Sprintf("  %-*s  %-6s  %-9s  %s running", siteWidth, s.SiteName, port, s.MaxMemory, markRunning)))
		} else {
			b.WriteString(stoppedStyle.Render(
				fmt.Sprintf("  %-*s  %-6s  %-9s  %s stopped", siteWidth, s.SiteName, port, s.MaxMemory, markStopped)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

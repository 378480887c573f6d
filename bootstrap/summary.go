package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/container/component"
	"github.com/kbukum/container/container"
)

// Summary prints what the app started and what the container holds.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

// NewSummary creates a summary for the named service.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Display writes the summary to w with live health from components.
func (s *Summary) Display(w io.Writer, components *component.Registry, reg *container.Registry) {
	fmt.Fprintf(w, "\n🚀 %s %s started in %.2fs\n\n", s.serviceName, s.versionLabel(), s.startupDuration.Seconds())

	descriptions := components.Describe()
	health := make(map[string]component.Health)
	for _, h := range components.HealthAll(context.Background()) {
		health[h.Name] = h
	}

	fmt.Fprintf(w, "📊 Infrastructure\n")
	if len(descriptions) == 0 {
		fmt.Fprintf(w, "   └── none configured\n")
	}
	for i, d := range descriptions {
		h := health[d.Name]
		fmt.Fprintf(w, "   %s %s %s [%s] %s\n", branch(i, len(descriptions)), statusIcon(h.Status), d.Name, d.Type, d.Details)
	}

	entries := reg.Entries()
	fmt.Fprintf(w, "\n📦 Registry %s (%d entries)\n", reg.ID(), len(entries))
	for i, e := range entries {
		fmt.Fprintf(w, "   %s %s (%s) %s\n", branch(i, len(entries)), e.Key, e.Category, e.Type)
	}

	healthy, total := 0, 0
	for _, h := range health {
		if h.Status == component.StatusDisabled {
			continue
		}
		total++
		if h.Status == component.StatusHealthy {
			healthy++
		}
	}
	if healthy == total {
		fmt.Fprintf(w, "\n✅ All components healthy (%d/%d)\n\n", healthy, total)
	} else {
		fmt.Fprintf(w, "\n⚠️  Some components have issues (%d/%d healthy)\n\n", healthy, total)
	}
}

func (s *Summary) versionLabel() string {
	switch {
	case s.version == "":
		return "dev"
	case strings.HasPrefix(s.version, "v"):
		return s.version
	}
	return "v" + s.version
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusDisabled:
		return "⏸️"
	default:
		return "❌"
	}
}

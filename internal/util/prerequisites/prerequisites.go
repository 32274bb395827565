// Package prerequisites checks required host capabilities before a
// provisioning run mutates anything.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a host binary that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string
}

// DefaultTools returns the tools every provisioning run depends on.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "systemctl",
			Required:    true,
			Description: "Required for managing per-site service units",
		},
		{
			Name:        "redis-server",
			Required:    true,
			Description: "The cache daemon started by each per-site unit",
		},
	}
}

// IntegrationTools returns tools used by the optional application
// integration step. Missing ones downgrade the step to a warning.
func IntegrationTools() []Tool {
	return []Tool{
		{
			Name:        "wp",
			Required:    false,
			Description: "Used to point a site's application at its cache instance",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Check looks up each tool in PATH.
func Check(tools []Tool) *CheckResults {
	out := &CheckResults{}
	for _, tool := range tools {
		path, err := lookPath(tool.Name)
		result := CheckResult{Tool: tool, Found: err == nil, Path: path}
		out.Results = append(out.Results, result)
		if err != nil {
			out.Missing = append(out.Missing, tool)
		}
	}
	return out
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

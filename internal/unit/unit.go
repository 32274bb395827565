// Package unit materializes per-site systemd unit files.
//
// A unit is always produced from the pristine stock template, never
// from a previously substituted unit: the substitutions are textual
// and would corrupt an already-substituted file. Exactly four fields
// are site-scoped: the description, the config path in ExecStart, the
// pid file, and the install alias. The unit never embeds the
// credential, so credential rotation leaves it untouched.
package unit

import (
	"fmt"
	"os"
	"strings"

	"github.com/okessler/sitecache/internal/artifacts"
	"github.com/okessler/sitecache/internal/instance"
	"github.com/okessler/sitecache/internal/mode"
)

const unitPerm = os.FileMode(0o644)

// Materializer writes per-site units from template.
type Materializer struct {
	template string
}

// NewMaterializer returns a materializer cloning from the stock unit
// template at the given path.
func NewMaterializer(template string) *Materializer {
	return &Materializer{template: template}
}

// Materialize writes the unit for an instance and returns its path.
// On Reconfigure an existing unit is reused as-is; it only points at
// the base config, which has not moved.
func (m *Materializer) Materialize(inst instance.Instance, md mode.Mode) (string, error) {
	unitPath := inst.Paths.Unit()

	if md == mode.Reconfigure {
		if _, err := os.Stat(unitPath); err == nil {
			return unitPath, nil
		}
	}

	tmpl, err := os.ReadFile(m.template) // #nosec G304
	if err != nil {
		return "", fmt.Errorf("read unit template %s: %w", m.template, err)
	}

	rendered := Substitute(string(tmpl), inst)
	if err := artifacts.WriteFileAtomic(unitPath, []byte(rendered), unitPerm); err != nil {
		return "", fmt.Errorf("write unit %s: %w", unitPath, err)
	}
	return unitPath, nil
}

// Substitute rewrites the four site-scoped fields of a stock unit.
// All other lines pass through unchanged.
func Substitute(template string, inst instance.Instance) string {
	lines := strings.Split(template, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Description="):
			lines[i] = fmt.Sprintf("Description=Cache instance for site %s", inst.SiteName)
		case strings.HasPrefix(trimmed, "ExecStart="):
			lines[i] = substituteExecStart(trimmed, inst.Paths.BaseConfig())
		case strings.HasPrefix(trimmed, "PIDFile="):
			lines[i] = "PIDFile=" + inst.Paths.PIDFile()
		case strings.HasPrefix(trimmed, "Alias="):
			lines[i] = "Alias=" + inst.Paths.ServiceAlias()
		}
	}
	return strings.Join(lines, "\n")
}

// substituteExecStart redirects the config-file argument of the stock
// line to the site's base config. Every other argument survives; the
// stock unit may rely on flags like --supervised systemd to reach the
// active state.
func substituteExecStart(line, configPath string) string {
	value := strings.TrimPrefix(line, "ExecStart=")
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return "ExecStart=" + configPath
	}
	for i := 1; i < len(fields); i++ {
		if strings.HasSuffix(fields[i], ".conf") {
			fields[i] = configPath
			return "ExecStart=" + strings.Join(fields, " ")
		}
	}
	// No config argument in the stock line; insert ours right after
	// the binary.
	rest := append([]string{configPath}, fields[1:]...)
	return "ExecStart=" + strings.Join(append(fields[:1:1], rest...), " ")
}

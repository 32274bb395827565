package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/okessler/sitecache/internal/config"
	"github.com/okessler/sitecache/internal/ui"
	"github.com/okessler/sitecache/internal/util/prerequisites"
)

// doctorCheck is one host readiness probe result.
type doctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Fatal   bool   `json:"fatal"`
	Details string `json:"details"`
}

// lookupUser is swapped in tests.
var lookupUser = user.Lookup

// Doctor handles the doctor command. It reports every check rather
// than stopping at the first failure, and exits non-zero only when a
// fatal check fails.
func Doctor(ctx context.Context, settingsPath string, jsonOutput bool) error {
	settings, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}

	checks := runDoctorChecks(settings)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(checks); err != nil {
			return err
		}
	} else {
		rows := make([]ui.CheckRow, len(checks))
		for i, c := range checks {
			rows[i] = ui.CheckRow(c)
		}
		fmt.Print(ui.RenderDoctorReport(rows, isInteractiveTTY()))
	}

	for _, c := range checks {
		if !c.OK && c.Fatal {
			return fmt.Errorf("host is not ready for provisioning")
		}
	}
	return nil
}

func runDoctorChecks(settings *config.Settings) []doctorCheck {
	var checks []doctorCheck

	tools := append(prerequisites.DefaultTools(), prerequisites.IntegrationTools()...)
	for _, res := range prerequisites.Check(tools).Results {
		details := res.Path
		if !res.Found {
			details = res.Tool.Description
		}
		checks = append(checks, doctorCheck{
			Name:    "tool: " + res.Tool.Name,
			OK:      res.Found,
			Fatal:   res.Tool.Required,
			Details: details,
		})
	}

	// An empty runtime user disables ownership changes entirely, so
	// there is nothing to check.
	if settings.RuntimeUser != "" {
		checks = append(checks, checkRuntimeUser(settings.RuntimeUser))
	}

	for _, dir := range []struct {
		name  string
		path  string
		fatal bool
	}{
		{"config root", settings.ConfigRoot, true},
		{"unit root", settings.UnitRoot, true},
		{"web root", settings.WebRoot, false},
	} {
		checks = append(checks, checkWritableDir(dir.name, dir.path, dir.fatal))
	}

	checks = append(checks, checkFileExists("base template", settings.BaseTemplate))
	checks = append(checks, checkFileExists("unit template", settings.UnitTemplate))

	return checks
}

func checkRuntimeUser(name string) doctorCheck {
	c := doctorCheck{Name: "runtime user: " + name, Fatal: true}
	u, err := lookupUser(name)
	if err != nil {
		c.Details = err.Error()
		return c
	}
	c.OK = true
	c.Details = fmt.Sprintf("uid %s, gid %s", u.Uid, u.Gid)
	return c
}

func checkWritableDir(name, path string, fatal bool) doctorCheck {
	c := doctorCheck{Name: name + ": " + path, Fatal: fatal}
	info, err := os.Stat(path)
	if err != nil {
		c.Details = err.Error()
		return c
	}
	if !info.IsDir() {
		c.Details = "not a directory"
		return c
	}

	// Stat alone cannot prove writability for the current user.
	f, err := os.CreateTemp(path, ".sitecache-doctor-*")
	if err != nil {
		c.Details = "not writable: " + err.Error()
		return c
	}
	f.Close()
	os.Remove(f.Name())

	c.OK = true
	c.Details = "writable"
	return c
}

func checkFileExists(name, path string) doctorCheck {
	c := doctorCheck{Name: name + ": " + filepath.Base(path), Fatal: true}
	info, err := os.Stat(path)
	if err != nil {
		c.Details = err.Error()
		return c
	}
	if info.IsDir() {
		c.Details = "is a directory"
		return c
	}
	c.OK = true
	c.Details = path
	return c
}

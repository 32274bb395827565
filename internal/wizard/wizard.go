// Package wizard collects provisioning parameters interactively.
//
// Each question group is a huh form with per-field validation, so a
// rejected port or memory size re-prompts in place without losing
// previously confirmed answers. Scripted runs bypass the wizard
// entirely through command flags.
package wizard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/okessler/sitecache/internal/instance"
	"github.com/okessler/sitecache/internal/mode"
	"github.com/okessler/sitecache/internal/registry"
)

// AskSite prompts for the site name.
func AskSite(ctx context.Context) (string, error) {
	var site string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Site").
				Description("Site name, matching its directory under the web root").
				Placeholder("shop.example.com").
				Value(&site).
				Validate(instance.ValidateSiteName),
		).Title("Cache Instance"),
	).RunWithContext(ctx)
	return site, err
}

// AskChoice prompts for the action on an existing instance.
func AskChoice(ctx context.Context, existing registry.Summary) (mode.Choice, error) {
	choice := mode.ChooseReconfigure

	port := "unknown port"
	if existing.Port != registry.PortUnknown {
		port = fmt.Sprintf("port %d", existing.Port)
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[mode.Choice]().
				Title(fmt.Sprintf("Instance for %s already exists (%s, %s)", existing.SiteName, port, existing.MaxMemory)).
				Description("Reconfigure rotates only the credential; reinstall re-specifies everything").
				Options(
					huh.NewOption("Reconfigure (rotate credential only)", mode.ChooseReconfigure),
					huh.NewOption("Reinstall (re-specify port and memory)", mode.ChooseReinstall),
					huh.NewOption("Cancel", mode.ChooseCancel),
				).
				Value(&choice),
		).Title("Existing Instance"),
	).RunWithContext(ctx)
	return choice, err
}

// AskPort prompts for the listening port, defaulting to the
// suggestion. The validate callback runs the allocator's full
// predicate; failures re-prompt.
func AskPort(ctx context.Context, suggested int, validate func(int) error) (int, error) {
	input := strconv.Itoa(suggested)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Port").
				Description(fmt.Sprintf("Listening port (suggested: %d)", suggested)).
				Value(&input).
				Validate(func(s string) error {
					p, err := strconv.Atoi(s)
					if err != nil {
						return fmt.Errorf("not a number: %q", s)
					}
					return validate(p)
				}),
		).Title("Port"),
	).RunWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(input)
}

// AskMemory prompts for the memory ceiling.
func AskMemory(ctx context.Context) (instance.MemorySize, error) {
	input := "128M"

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Max Memory").
				Description("Daemon memory ceiling, e.g. 128M or 2G").
				Value(&input).
				Validate(func(s string) error {
					_, err := instance.ParseMemorySize(s)
					return err
				}),
		).Title("Memory"),
	).RunWithContext(ctx)
	if err != nil {
		return instance.MemorySize{}, err
	}
	return instance.ParseMemorySize(input)
}

// Confirm asks for a final go-ahead before artifacts are written.
func Confirm(ctx context.Context, site string, md mode.Mode, port int, mem instance.MemorySize) (bool, error) {
	ok := true
	title := fmt.Sprintf("%s for %s", md, site)
	if md != mode.Reconfigure {
		title += fmt.Sprintf(" (port %d, %s)", port, mem)
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description("Artifacts are written and the service restarted; the run cannot be abandoned partway").
				Affirmative("Proceed").
				Negative("Cancel").
				Value(&ok),
		).Title("Confirm"),
	).RunWithContext(ctx)
	return ok, err
}

package handlers

import (
	"context"
	"fmt"

	"github.com/okessler/sitecache/internal/appconfig"
	"github.com/okessler/sitecache/internal/artifacts"
	"github.com/okessler/sitecache/internal/instance"
	"github.com/okessler/sitecache/internal/lifecycle"
	"github.com/okessler/sitecache/internal/lock"
	"github.com/okessler/sitecache/internal/logger"
	"github.com/okessler/sitecache/internal/mode"
	"github.com/okessler/sitecache/internal/ports"
	"github.com/okessler/sitecache/internal/probe"
	"github.com/okessler/sitecache/internal/provision"
	"github.com/okessler/sitecache/internal/registry"
	"github.com/okessler/sitecache/internal/systemd"
	"github.com/okessler/sitecache/internal/unit"
	"github.com/okessler/sitecache/internal/util/prerequisites"
	"github.com/okessler/sitecache/internal/wizard"
)

// ProvisionOptions carries the provision command's flags.
type ProvisionOptions struct {
	SettingsPath string
	Site         string
	Mode         string
	Port         int
	Memory       string
	Yes          bool
}

// Function variables for dependency injection in tests.
var (
	wizardAskSite   = wizard.AskSite
	wizardAskChoice = wizard.AskChoice
	wizardAskPort   = wizard.AskPort
	wizardAskMemory = wizard.AskMemory
	wizardConfirm   = wizard.Confirm

	acquireLock = lock.Acquire
	lockPath    = lock.DefaultPath

	checkPrerequisites = func() error {
		return prerequisites.Check(prerequisites.DefaultTools()).Error()
	}

	newLifecycle = func(mgr systemd.Manager, log logger.Logger) *lifecycle.Controller {
		return lifecycle.NewController(mgr, probe.NewRedisProber(), log)
	}
)

// Provision handles the provision command.
//
// The run executes the full pipeline: discovery, mode resolution,
// port allocation, artifact materialization, and the lifecycle
// transition with liveness verification. Cancellation at any prompt
// exits zero with no changes made.
func Provision(ctx context.Context, opts ProvisionOptions) error {
	settings, err := loadSettings(opts.SettingsPath)
	if err != nil {
		return err
	}

	// Precondition gate: abort before any state mutation.
	if err := checkPrerequisites(); err != nil {
		return err
	}

	tty := isInteractiveTTY()
	log := logger.New("info", tty)
	defer log.Sync()

	mgr := newManager()
	reg := registry.New(settings.OverrideDir)
	alloc := ports.New(reg, settings.PortRangeStart, settings.PortRangeEnd)

	if err := printInstanceReport(ctx, reg, mgr, settings.ServicePrefix, tty); err != nil {
		return err
	}

	req, cancelled, err := resolveRequest(ctx, opts, reg, alloc)
	if err != nil {
		return err
	}
	if cancelled {
		fmt.Println("Cancelled, no changes made.")
		return nil
	}

	// One provisioning run at a time on this host.
	l, err := acquireLock(lockPath)
	if err != nil {
		return err
	}
	defer l.Release()

	prov := provision.New(settings, reg, alloc,
		artifacts.NewMaterializer(settings.BaseTemplate, settings.RuntimeUser),
		unit.NewMaterializer(settings.UnitTemplate),
		newLifecycle(mgr, log),
		appconfig.NewWPConfigurer(settings.WebRoot),
		log)

	out, err := prov.Run(ctx, req)
	if err != nil {
		return err
	}

	printOutcome(out)
	return printInstanceReport(ctx, reg, mgr, settings.ServicePrefix, tty)
}

// resolveRequest turns flags and prompts into a full request. The
// second return value reports operator cancellation, a normal
// zero-exit outcome.
func resolveRequest(ctx context.Context, opts ProvisionOptions, reg *registry.Registry, alloc *ports.Allocator) (provision.Request, bool, error) {
	site := opts.Site
	if site == "" {
		var err error
		site, err = wizardAskSite(ctx)
		if err != nil {
			return provision.Request{}, false, err
		}
	}
	if err := instance.ValidateSiteName(site); err != nil {
		return provision.Request{}, false, err
	}

	existing, err := reg.Lookup(ctx, site)
	if err != nil {
		return provision.Request{}, false, err
	}

	choice := mode.ChooseNone
	if existing != nil {
		if opts.Mode != "" {
			choice, err = parseChoice(opts.Mode)
		} else {
			choice, err = wizardAskChoice(ctx, *existing)
		}
		if err != nil {
			return provision.Request{}, false, err
		}
	}

	md, err := mode.Resolve(existing != nil, choice)
	if err != nil {
		return provision.Request{}, false, err
	}
	if md == mode.Cancel {
		return provision.Request{}, true, nil
	}

	req := provision.Request{Site: site, Mode: md}
	if md.RecreatesArtifacts() {
		if req.Port, err = resolvePort(ctx, opts, site, alloc); err != nil {
			return provision.Request{}, false, err
		}
		if req.MaxMemory, err = resolveMemory(ctx, opts); err != nil {
			return provision.Request{}, false, err
		}
	}

	if !opts.Yes {
		ok, err := wizardConfirm(ctx, site, md, req.Port, req.MaxMemory)
		if err != nil {
			return provision.Request{}, false, err
		}
		if !ok {
			return provision.Request{}, true, nil
		}
	}
	return req, false, nil
}

func resolvePort(ctx context.Context, opts ProvisionOptions, site string, alloc *ports.Allocator) (int, error) {
	if opts.Port != 0 {
		// Programmatic callers get the typed rejection directly.
		if err := alloc.ValidateFor(ctx, site, opts.Port); err != nil {
			return 0, err
		}
		return opts.Port, nil
	}

	suggested, err := alloc.Suggest(ctx)
	if err != nil {
		return 0, err
	}
	return wizardAskPort(ctx, suggested, func(p int) error {
		return alloc.ValidateFor(ctx, site, p)
	})
}

func resolveMemory(ctx context.Context, opts ProvisionOptions) (instance.MemorySize, error) {
	if opts.Memory != "" {
		return instance.ParseMemorySize(opts.Memory)
	}
	return wizardAskMemory(ctx)
}

func parseChoice(s string) (mode.Choice, error) {
	switch s {
	case "reconfigure":
		return mode.ChooseReconfigure, nil
	case "reinstall":
		return mode.ChooseReinstall, nil
	case "cancel":
		return mode.ChooseCancel, nil
	}
	return mode.ChooseNone, fmt.Errorf("invalid --mode %q: expected reconfigure, reinstall or cancel", s)
}

func printOutcome(out *provision.Outcome) {
	fmt.Printf("\nInstance for %s is running on port %d.\n", out.Instance.SiteName, out.Instance.Port)
	fmt.Printf("  base config:     %s\n", out.Artifacts.BaseConfig)
	fmt.Printf("  override config: %s\n", out.Artifacts.OverrideConfig)
	fmt.Printf("  service unit:    %s\n", out.UnitPath)
	if len(out.Warnings) > 0 {
		fmt.Printf("  application integration finished with %d warning(s); see log above\n", len(out.Warnings))
	}
}
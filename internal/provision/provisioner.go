// Package provision runs the provisioning pipeline for one site.
//
// Stages execute strictly in sequence — registry lookup, port
// resolution, config materialization, unit materialization, lifecycle
// transition — because each stage's output is the next stage's input.
// The caller holds the host-wide advisory lock for the whole run; the
// pipeline still re-validates the chosen port immediately before
// committing the override, so a late conflict surfaces as a typed
// retryable error instead of a silently shared port.
package provision

import (
	"context"
	"fmt"

	"github.com/okessler/sitecache/internal/appconfig"
	"github.com/okessler/sitecache/internal/artifacts"
	"github.com/okessler/sitecache/internal/config"
	"github.com/okessler/sitecache/internal/instance"
	"github.com/okessler/sitecache/internal/lifecycle"
	"github.com/okessler/sitecache/internal/logger"
	"github.com/okessler/sitecache/internal/mode"
	"github.com/okessler/sitecache/internal/ports"
	"github.com/okessler/sitecache/internal/registry"
	"github.com/okessler/sitecache/internal/secret"
	"github.com/okessler/sitecache/internal/unit"
)

// Request is the resolved parameter set for one run. Port and
// MaxMemory are ignored for Reconfigure, which carries the existing
// values forward.
type Request struct {
	Site      string
	Mode      mode.Mode
	Port      int
	MaxMemory instance.MemorySize
}

// Outcome reports what a run did.
type Outcome struct {
	Cancelled bool
	Instance  instance.Instance
	Artifacts artifacts.Result
	UnitPath  string
	// Warnings from the best-effort application integration.
	Warnings []error
}

// Provisioner wires the pipeline stages.
type Provisioner struct {
	Settings  *config.Settings
	Registry  *registry.Registry
	Allocator *ports.Allocator
	Config    *artifacts.Materializer
	Unit      *unit.Materializer
	Lifecycle *lifecycle.Controller
	App       appconfig.Configurer
	Log       logger.Logger

	// newCredential is swapped in tests.
	newCredential func() (string, error)
}

// New builds a provisioner over the real pipeline components.
func New(s *config.Settings, reg *registry.Registry, alloc *ports.Allocator,
	cfgMat *artifacts.Materializer, unitMat *unit.Materializer,
	lc *lifecycle.Controller, app appconfig.Configurer, log logger.Logger) *Provisioner {
	return &Provisioner{
		Settings:      s,
		Registry:      reg,
		Allocator:     alloc,
		Config:        cfgMat,
		Unit:          unitMat,
		Lifecycle:     lc,
		App:           app,
		Log:           log,
		newCredential: secret.NewCredential,
	}
}

// Run executes the pipeline to a terminal state. Once artifacts begin
// being written the run proceeds to completion or a fatal error; it
// is not abandoned partway.
func (p *Provisioner) Run(ctx context.Context, req Request) (*Outcome, error) {
	if req.Mode == mode.Cancel {
		p.Log.Info("provisioning cancelled", logger.String("site", req.Site))
		return &Outcome{Cancelled: true}, nil
	}

	inst, err := p.resolveInstance(ctx, req)
	if err != nil {
		return nil, err
	}

	// Late re-validation closes the window between the earlier
	// free-port check and this commit.
	if err := p.Allocator.ValidateFor(ctx, inst.SiteName, inst.Port); err != nil {
		return nil, fmt.Errorf("port re-validation before commit failed: %w", err)
	}

	p.Log.Info("materializing artifacts",
		logger.String("site", inst.SiteName),
		logger.String("mode", req.Mode.String()),
		logger.Int("port", inst.Port),
		logger.String("maxmemory", inst.MaxMemory.String()),
		logger.Redacted("credential"))

	res, err := p.Config.Materialize(inst, req.Mode)
	if err != nil {
		return nil, err
	}

	unitPath, err := p.Unit.Materialize(inst, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("unit materialization failed (committed: %s, %s): %w",
			res.BaseConfig, res.OverrideConfig, err)
	}

	if err := p.Lifecycle.Apply(ctx, inst, req.Mode); err != nil {
		return nil, err
	}

	outcome := &Outcome{Instance: inst, Artifacts: res, UnitPath: unitPath}
	if p.App != nil {
		outcome.Warnings = p.App.Apply(ctx, inst)
		for _, w := range outcome.Warnings {
			p.Log.Warn("application integration step failed",
				logger.String("site", inst.SiteName), logger.Error(w))
		}
	}
	return outcome, nil
}

// resolveInstance turns a request into the full parameter set,
// carrying forward port and memory on Reconfigure and rotating the
// credential in every mode.
func (p *Provisioner) resolveInstance(ctx context.Context, req Request) (instance.Instance, error) {
	if err := instance.ValidateSiteName(req.Site); err != nil {
		return instance.Instance{}, err
	}

	inst := instance.Instance{
		SiteName:       req.Site,
		Port:           req.Port,
		MaxMemory:      req.MaxMemory,
		EvictionPolicy: p.Settings.EvictionPolicy,
		Paths:          instance.NewPaths(p.Settings, req.Site),
	}

	if req.Mode == mode.Reconfigure {
		existing, err := p.Registry.Lookup(ctx, req.Site)
		if err != nil {
			return instance.Instance{}, err
		}
		if existing == nil {
			return instance.Instance{}, fmt.Errorf("cannot reconfigure %s: no existing instance", req.Site)
		}
		if existing.Port == registry.PortUnknown {
			return instance.Instance{}, fmt.Errorf("cannot reconfigure %s: existing override declares no port", req.Site)
		}
		inst.Port = existing.Port
		mem, err := instance.ParseMemorySize(existing.MaxMemory)
		if err != nil {
			return instance.Instance{}, fmt.Errorf("cannot reconfigure %s: existing override declares no usable maxmemory: %w", req.Site, err)
		}
		inst.MaxMemory = mem
	} else {
		// Programmatic callers get the same typed rejection the
		// allocator produces.
		if err := instance.ValidatePort(inst.Port); err != nil {
			return instance.Instance{}, &ports.ValidationError{Port: inst.Port, Reason: "must be within 1024-65535"}
		}
		if inst.MaxMemory.IsZero() {
			return instance.Instance{}, fmt.Errorf("max memory is required for %s", req.Mode)
		}
	}

	cred, err := p.newCredential()
	if err != nil {
		return instance.Instance{}, err
	}
	inst.Credential = cred
	return inst, nil
}

// Package registry discovers existing per-site instances from their
// override configs. It is a pure read: nothing here mutates the host.
package registry

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/okessler/sitecache/internal/instance"
	"github.com/okessler/sitecache/internal/systemd"
)

// overrideNameRegex extracts the site name from an override filename.
var overrideNameRegex = regexp.MustCompile(`^overrides\.(.+)\.conf$`)

// PortUnknown marks an override that declares no port keyword.
// A missing keyword is reported, not treated as an error.
const PortUnknown = 0

// Summary is one discovered instance. MaxMemory is the raw declared
// value ("unknown" when the keyword is absent).
type Summary struct {
	SiteName  string
	Port      int
	MaxMemory string
	Running   bool
}

// Registry scans the override directory.
type Registry struct {
	overrideDir string
}

// New returns a registry over the given override directory.
func New(overrideDir string) *Registry {
	return &Registry{overrideDir: overrideDir}
}

// List enumerates every instance declared under the override
// directory, sorted by site name. A missing directory means no
// instances, not an error.
func (r *Registry) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(r.overrideDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan override directory %s: %w", r.overrideDir, err)
	}

	var out []Summary
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := overrideNameRegex.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sum, err := r.parseOverride(m[1], filepath.Join(r.overrideDir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].SiteName < out[j].SiteName })
	return out, nil
}

// Lookup returns the summary for one site, or nil when absent.
func (r *Registry) Lookup(ctx context.Context, site string) (*Summary, error) {
	if err := instance.ValidateSiteName(site); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(r.overrideDir, instance.OverrideFileName(site))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	sum, err := r.parseOverride(site, path)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// parseOverride pulls port and maxmemory from the first matching
// keyword lines. Missing keywords yield unknown fields.
func (r *Registry) parseOverride(site, path string) (Summary, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read override for %s: %w", site, err)
	}
	defer f.Close()

	sum := Summary{SiteName: site, Port: PortUnknown, MaxMemory: "unknown"}
	portSeen, memSeen := false, false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case !portSeen && strings.HasPrefix(line, "port "):
			if p, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "port "))); err == nil {
				sum.Port = p
			}
			portSeen = true
		case !memSeen && strings.HasPrefix(line, "maxmemory "):
			sum.MaxMemory = strings.TrimSpace(strings.TrimPrefix(line, "maxmemory "))
			memSeen = true
		}
		if portSeen && memSeen {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return Summary{}, fmt.Errorf("failed to read override for %s: %w", site, err)
	}
	return sum, nil
}

// DeclaredPorts returns every port declared by an existing override.
func (r *Registry) DeclaredPorts(ctx context.Context) (map[int]string, error) {
	sums, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	ports := make(map[int]string, len(sums))
	for _, s := range sums {
		if s.Port != PortUnknown {
			ports[s.Port] = s.SiteName
		}
	}
	return ports, nil
}

// WithStatus decorates summaries with live service state. A status
// query failure reports the instance as stopped rather than failing
// the whole listing.
func WithStatus(ctx context.Context, mgr systemd.Manager, servicePrefix string, sums []Summary) []Summary {
	out := make([]Summary, len(sums))
	for i, s := range sums {
		unit := instance.UnitFileName(servicePrefix, s.SiteName)
		active, err := mgr.IsActive(ctx, unit)
		s.Running = err == nil && active
		out[i] = s
	}
	return out
}

// Package artifacts materializes the per-site configuration files.
//
// Two artifacts per site: a base config cloned from the stock
// template, and an override config holding the authoritative mutable
// settings (port, memory ceiling, credential, paths). The base gains
// exactly one include directive pointing at the override; the guard
// is an explicit contains check, never duplicated on re-runs.
//
// Every write is wholesale and atomic (stage + rename), which makes
// re-applying the same parameters byte-stable. Any failure is a
// MutationError and aborts the run; the error reports which artifacts
// were already committed.
package artifacts

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/okessler/sitecache/internal/instance"
	"github.com/okessler/sitecache/internal/mode"
)

const (
	overridePerm = os.FileMode(0o640)
	basePerm     = os.FileMode(0o644)
)

// MutationError is a fatal artifact write failure. Written lists the
// artifacts committed before the failure, in order.
type MutationError struct {
	Op      string
	Path    string
	Written []string
	Err     error
}

func (e *MutationError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	if len(e.Written) > 0 {
		msg += fmt.Sprintf(" (already committed: %s)", strings.Join(e.Written, ", "))
	}
	return msg
}

func (e *MutationError) Unwrap() error { return e.Err }

// Result reports what a materialization wrote.
type Result struct {
	BaseConfig     string
	OverrideConfig string
}

// Materializer writes base and override configs for one host.
type Materializer struct {
	baseTemplate string
	runtimeUser  string

	// chownFile is swapped in tests; the real one resolves the
	// runtime user and chowns the override.
	chownFile func(path, username string) error
}

// NewMaterializer returns a materializer cloning from baseTemplate.
// An empty runtimeUser skips ownership changes.
func NewMaterializer(baseTemplate, runtimeUser string) *Materializer {
	return &Materializer{
		baseTemplate: baseTemplate,
		runtimeUser:  runtimeUser,
		chownFile:    chownToUser,
	}
}

// OverrideContent renders the override config for an instance. The
// field set is fixed: port, pid, log, data file, memory ceiling,
// eviction policy, credential. Identical inputs produce identical
// bytes.
func OverrideContent(inst instance.Instance) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Managed by sitecache for site %s. Do not edit by hand.\n", inst.SiteName)
	fmt.Fprintf(&b, "port %d\n", inst.Port)
	fmt.Fprintf(&b, "pidfile %s\n", inst.Paths.PIDFile())
	fmt.Fprintf(&b, "logfile %s\n", inst.Paths.LogFile())
	fmt.Fprintf(&b, "dbfilename %s\n", inst.Paths.DataFile())
	fmt.Fprintf(&b, "maxmemory %s\n", inst.MaxMemory)
	fmt.Fprintf(&b, "maxmemory-policy %s\n", inst.EvictionPolicy)
	fmt.Fprintf(&b, "requirepass %s\n", inst.Credential)
	return []byte(b.String())
}

// Materialize writes the site's artifacts for the given mode and
// returns their paths. Fresh and Reinstall clone the base template
// wholesale; Reconfigure leaves an existing base alone. The include
// directive is ensured exactly once in all modes.
func (m *Materializer) Materialize(inst instance.Instance, md mode.Mode) (Result, error) {
	basePath := inst.Paths.BaseConfig()
	overridePath := inst.Paths.OverrideConfig()
	var written []string

	fail := func(op, path string, err error) (Result, error) {
		return Result{}, &MutationError{Op: op, Path: path, Written: written, Err: err}
	}

	cloneBase := md.RecreatesArtifacts()
	if !cloneBase {
		// Reconfigure recreates a missing base rather than failing.
		if _, err := os.Stat(basePath); os.IsNotExist(err) {
			cloneBase = true
		}
	}
	if cloneBase {
		tmpl, err := os.ReadFile(m.baseTemplate) // #nosec G304
		if err != nil {
			return fail("read base template", m.baseTemplate, err)
		}
		if err := WriteFileAtomic(basePath, tmpl, basePerm); err != nil {
			return fail("write base config", basePath, err)
		}
		written = append(written, basePath)
	}

	if err := ensureInclude(basePath, overridePath); err != nil {
		return fail("append include directive", basePath, err)
	}

	if err := os.MkdirAll(inst.Paths.OverrideDir(), 0o750); err != nil {
		return fail("create override directory", inst.Paths.OverrideDir(), err)
	}
	if err := WriteFileAtomic(overridePath, OverrideContent(inst), overridePerm); err != nil {
		return fail("write override config", overridePath, err)
	}
	written = append(written, overridePath)

	if m.runtimeUser != "" {
		if err := m.chownFile(overridePath, m.runtimeUser); err != nil {
			return fail("set override ownership", overridePath, err)
		}
	}

	return Result{BaseConfig: basePath, OverrideConfig: overridePath}, nil
}

// ensureInclude appends the include directive unless the base already
// carries it. The explicit contains check keeps re-runs from ever
// duplicating the line.
func ensureInclude(basePath, overridePath string) error {
	data, err := os.ReadFile(basePath) // #nosec G304
	if err != nil {
		return err
	}
	directive := "include " + overridePath
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == directive {
			return nil
		}
	}

	f, err := os.OpenFile(basePath, os.O_APPEND|os.O_WRONLY, basePerm) // #nosec G304
	if err != nil {
		return err
	}

	prefix := "\n"
	if len(data) == 0 || data[len(data)-1] == '\n' {
		prefix = ""
	}
	if _, err := f.WriteString(prefix + directive + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// chownToUser gives the daemon's runtime user ownership of a file
// holding its credential.
func chownToUser(path, username string) error {
	u, err := user.Lookup(username)
	if err != nil {
		return fmt.Errorf("runtime user %s not found: %w", username, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return fmt.Errorf("unparsable uid for %s: %w", username, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return fmt.Errorf("unparsable gid for %s: %w", username, err)
	}
	return os.Chown(path, uid, gid)
}

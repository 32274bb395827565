// Package mode resolves which provisioning action a run performs.
//
// The resolver is pure: the registry lookup result and the operator's
// choice map deterministically to a Mode, with no I/O. This is the
// only state machine in the provisioner.
package mode

import "fmt"

// Mode is the resolved provisioning action.
type Mode int

const (
	// Fresh establishes a brand-new instance: all artifacts created,
	// all fields chosen now.
	Fresh Mode = iota
	// Reconfigure rotates the credential only; port and memory are
	// carried forward unchanged.
	Reconfigure
	// Reinstall re-specifies everything; every artifact is recreated
	// from its pristine template.
	Reinstall
	// Cancel ends the run with no side effects. It is a normal
	// outcome, not a failure.
	Cancel
)

func (m Mode) String() string {
	switch m {
	case Fresh:
		return "fresh install"
	case Reconfigure:
		return "reconfigure"
	case Reinstall:
		return "reinstall"
	case Cancel:
		return "cancel"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Choice is the operator's decision when an instance already exists.
type Choice int

const (
	// ChooseNone means no choice was offered or made. Only valid when
	// the site has no existing instance.
	ChooseNone Choice = iota
	ChooseReconfigure
	ChooseReinstall
	ChooseCancel
)

// Resolve maps the lookup result and operator choice to a Mode.
//
// A site with no existing instance goes straight to Fresh; any
// operator choice in that state is a caller bug. A site with an
// existing instance requires an explicit choice.
func Resolve(exists bool, choice Choice) (Mode, error) {
	if !exists {
		if choice != ChooseNone {
			return Cancel, fmt.Errorf("choice given for a site with no existing instance")
		}
		return Fresh, nil
	}
	switch choice {
	case ChooseReconfigure:
		return Reconfigure, nil
	case ChooseReinstall:
		return Reinstall, nil
	case ChooseCancel:
		return Cancel, nil
	case ChooseNone:
		return Cancel, fmt.Errorf("existing instance requires an explicit choice")
	}
	return Cancel, fmt.Errorf("unknown choice %d", int(choice))
}

// RotatesCredential reports whether the mode generates a new
// credential. Every non-cancel mode does.
func (m Mode) RotatesCredential() bool {
	return m != Cancel
}

// RecreatesArtifacts reports whether base config and unit are rebuilt
// from their pristine templates.
func (m Mode) RecreatesArtifacts() bool {
	return m == Fresh || m == Reinstall
}

package uninstall

import (
	"github.com/arthur-debert/zprof/pkg/errors"
)

// Restoration is what to put back in the home directory. The set of
// implementations is closed: RestoreOriginal, PromoteProfile and
// CleanRemoval.
type Restoration interface {
	String() string
	restoration()
}

// RestoreOriginal replays the pre-install snapshot.
type RestoreOriginal struct{}

// PromoteProfile copies one profile's files into the home directory.
type PromoteProfile struct {
	Name string
}

// CleanRemoval restores nothing.
type CleanRemoval struct{}

func (RestoreOriginal) restoration() {}
func (PromoteProfile) restoration()  {}
func (CleanRemoval) restoration()    {}

func (RestoreOriginal) String() string  { return "original" }
func (p PromoteProfile) String() string { return "promote:" + p.Name }
func (CleanRemoval) String() string     { return "clean" }

// ParseRestoration maps a command-line choice to a Restoration. An empty
// kind returns nil, meaning the orchestrator selects.
func ParseRestoration(kind, profile string) (Restoration, error) {
	switch kind {
	case "":
		if profile != "" {
			return PromoteProfile{Name: profile}, nil
		}
		return nil, nil
	case "original":
		return RestoreOriginal{}, nil
	case "promote":
		if profile == "" {
			return nil, errors.New(errors.ErrInvalidInput, "promote requires a profile name")
		}
		return PromoteProfile{Name: profile}, nil
	case "clean":
		return CleanRemoval{}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown restoration option %q", kind).
			WithDetail("valid", []string{"original", "promote", "clean"})
	}
}

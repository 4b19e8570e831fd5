package uninstall

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/paths"
	"github.com/arthur-debert/zprof/pkg/probe"
	"github.com/arthur-debert/zprof/pkg/profiles"
	"github.com/arthur-debert/zprof/pkg/snapshot"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

// writeCheckName is created and removed in the home directory to prove it
// is writable.
const writeCheckName = ".zprof-write-check"

// Preconditions is the state found before anything is changed. Installed,
// HomeResolvable and HomeWritable gate the uninstall; everything else is
// advisory.
type Preconditions struct {
	Installed       bool            `yaml:"installed"`
	HomeResolvable  bool            `yaml:"home_resolvable"`
	HomeWritable    bool            `yaml:"home_writable"`
	SnapshotPresent bool            `yaml:"snapshot_present"`
	Profiles        []string        `yaml:"profiles"`
	ActiveSessions  []probe.Session `yaml:"active_sessions,omitempty"`
	FreeDiskSpace   uint64          `yaml:"free_disk_space,omitempty"`
	FreeDiskKnown   bool            `yaml:"free_disk_known"`
	Warnings        []string        `yaml:"warnings,omitempty"`
}

// CanProceed reports whether the load-bearing checks passed.
func (p *Preconditions) CanProceed() bool {
	return p.Installed && p.HomeResolvable && p.HomeWritable
}

// IsInstalled reports whether a managed tree exists at p: the root is a
// directory holding a settings file or a profiles directory.
func IsInstalled(fsys afero.Fs, p paths.Paths) bool {
	info, err := fsys.Stat(p.Root())
	if err != nil || !info.IsDir() {
		return false
	}
	if filesystem.IsRegularFile(fsys, p.SettingsFile()) {
		return true
	}
	info, err = fsys.Stat(p.ProfilesDir())
	return err == nil && info.IsDir()
}

// ValidatePreconditions inspects the installation without changing it,
// apart from a short-lived write check in the home directory.
func ValidatePreconditions(fsys afero.Fs, p paths.Paths, pr probe.Probe) *Preconditions {
	pre := &Preconditions{Installed: IsInstalled(fsys, p)}

	if info, err := fsys.Stat(p.Home()); err == nil && info.IsDir() {
		pre.HomeResolvable = true
		pre.HomeWritable = homeWritable(fsys, p.Home())
	}
	if !pre.HomeWritable {
		pre.Warnings = append(pre.Warnings, "home directory "+p.Home()+" is not writable")
	}
	if !pre.Installed {
		return pre
	}

	if _, err := snapshot.ValidateSnapshot(fsys, p.PreInstallSnapshotDir()); err == nil {
		pre.SnapshotPresent = true
	} else {
		pre.Warnings = append(pre.Warnings, "no usable pre-install snapshot, the original configuration cannot be restored")
	}

	if names, err := profiles.List(fsys, p); err == nil {
		pre.Profiles = names
	} else {
		pre.Warnings = append(pre.Warnings, "could not list profiles: "+err.Error())
	}

	sessions, err := pr.ActiveSessions()
	switch {
	case err != nil:
		pre.Warnings = append(pre.Warnings, "could not check for other shell sessions")
	case len(sessions) > 0:
		pre.ActiveSessions = sessions
		pre.Warnings = append(pre.Warnings, fmt.Sprintf(
			"%d other zsh session(s) appear active, restart them after uninstalling", len(sessions)))
	}

	pre.FreeDiskSpace, pre.FreeDiskKnown = pr.FreeDiskSpace(p.Home())
	if pre.FreeDiskKnown && pre.FreeDiskSpace < lowDiskThreshold {
		pre.Warnings = append(pre.Warnings, "low disk space: "+humanize.IBytes(pre.FreeDiskSpace)+" free")
	}
	return pre
}

const lowDiskThreshold = 10 << 20

func homeWritable(fsys afero.Fs, home string) bool {
	probePath := filepath.Join(home, writeCheckName)
	if err := afero.WriteFile(fsys, probePath, nil, 0600); err != nil {
		return false
	}
	_ = fsys.Remove(probePath)
	return true
}

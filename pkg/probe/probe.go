// Package probe isolates the best-effort platform lookups zprof performs:
// the installed shell version, other running shell sessions and free disk
// space. Every probe degrades to "unknown" instead of failing, and the rest
// of the system never branches on the platform itself.
package probe

import (
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/arthur-debert/zprof/pkg/logging"
)

// Unknown is reported when a probe cannot produce an answer.
const Unknown = "unknown"

// Session is another running shell process.
type Session struct {
	PID int    `yaml:"pid"`
	TTY string `yaml:"tty"`
}

// Probe answers best-effort questions about the host.
type Probe interface {
	// ShellVersion returns the shell's version line or Unknown.
	ShellVersion() string
	// ActiveSessions lists other running shell sessions. An error means
	// detection itself was unavailable, not that sessions exist.
	ActiveSessions() ([]Session, error)
	// FreeDiskSpace reports free bytes under path when known.
	FreeDiskSpace(path string) (uint64, bool)
}

// Runner runs a short-lived child process and returns its stdout.
type Runner func(name string, args ...string) ([]byte, error)

func execRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// Exec probes the host through child processes.
type Exec struct {
	Shell string
	Run   Runner
	// SelfPIDs are excluded from ActiveSessions; by default the current
	// process and its parent (the shell zprof was started from).
	SelfPIDs []int
}

// New returns the probe suited to the current platform.
func New() Probe {
	if runtime.GOOS == "windows" {
		return Noop{}
	}
	return &Exec{
		Shell:    "zsh",
		Run:      execRunner,
		SelfPIDs: []int{os.Getpid(), os.Getppid()},
	}
}

// ShellVersion runs "<shell> --version".
func (e *Exec) ShellVersion() string {
	out, err := e.Run(e.Shell, "--version")
	if err != nil {
		logger := logging.GetLogger("probe")
		logger.Debug().Err(err).Str("shell", e.Shell).Msg("Shell version lookup failed")
		return Unknown
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return Unknown
	}
	return version
}

// ActiveSessions scans the process table for interactive shells.
func (e *Exec) ActiveSessions() ([]Session, error) {
	out, err := e.Run("ps", "-eo", "pid=,tty=,comm=")
	if err != nil {
		logger := logging.GetLogger("probe")
		logger.Debug().Err(err).Msg("Process listing failed")
		return nil, err
	}
	return parseSessions(string(out), e.Shell, e.SelfPIDs), nil
}

// FreeDiskSpace is not measured; zprof does no disk accounting.
func (e *Exec) FreeDiskSpace(string) (uint64, bool) {
	return 0, false
}

func parseSessions(out, shell string, exclude []int) []Session {
	skip := make(map[int]bool, len(exclude))
	for _, pid := range exclude {
		skip[pid] = true
	}

	var sessions []Session
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil || skip[pid] {
			continue
		}
		tty, comm := fields[1], strings.TrimPrefix(fields[2], "-")
		if tty == "?" || tty == "??" {
			continue
		}
		if comm != shell && !strings.HasSuffix(comm, "/"+shell) {
			continue
		}
		sessions = append(sessions, Session{PID: pid, TTY: tty})
	}
	return sessions
}

// Noop answers Unknown / none detected to everything.
type Noop struct{}

func (Noop) ShellVersion() string                { return Unknown }
func (Noop) ActiveSessions() ([]Session, error)  { return nil, nil }
func (Noop) FreeDiskSpace(string) (uint64, bool) { return 0, false }

package testutil

import (
	"github.com/arthur-debert/zprof/pkg/probe"
	"github.com/arthur-debert/zprof/pkg/types"
	"github.com/stretchr/testify/mock"
)

// MockPrompter is a testify mock of types.Prompter.
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Confirm(req types.ConfirmationRequest) (bool, error) {
	args := m.Called(req)
	return args.Bool(0), args.Error(1)
}

func (m *MockPrompter) Choose(req types.ChoiceRequest) (int, error) {
	args := m.Called(req)
	return args.Int(0), args.Error(1)
}

// MockProbe is a testify mock of probe.Probe.
type MockProbe struct {
	mock.Mock
}

func (m *MockProbe) ShellVersion() string {
	return m.Called().String(0)
}

func (m *MockProbe) ActiveSessions() ([]probe.Session, error) {
	args := m.Called()
	sessions, _ := args.Get(0).([]probe.Session)
	return sessions, args.Error(1)
}

func (m *MockProbe) FreeDiskSpace(path string) (uint64, bool) {
	args := m.Called(path)
	return args.Get(0).(uint64), args.Bool(1)
}

// StaticProbe answers fixed values.
type StaticProbe struct {
	Version  string
	Sessions []probe.Session
	Err      error
}

func (s StaticProbe) ShellVersion() string                     { return s.Version }
func (s StaticProbe) ActiveSessions() ([]probe.Session, error) { return s.Sessions, s.Err }
func (s StaticProbe) FreeDiskSpace(string) (uint64, bool)      { return 0, false }

package config

// Config is the fully merged zprof configuration.
type Config struct {
	General   General   `koanf:"general" yaml:"general"`
	Uninstall Uninstall `koanf:"uninstall" yaml:"uninstall"`
	Restore   Restore   `koanf:"restore" yaml:"restore"`
	Log       Log       `koanf:"log" yaml:"log"`
}

// General holds installation-wide settings written by the installer.
type General struct {
	ActiveProfile string `koanf:"active_profile" yaml:"active_profile"`
	Framework     string `koanf:"framework" yaml:"framework"`
}

// Uninstall controls the uninstall flow.
type Uninstall struct {
	KeepBackups    bool `koanf:"keep_backups" yaml:"keep_backups"`
	SafetySnapshot bool `koanf:"safety_snapshot" yaml:"safety_snapshot"`
}

// Restore controls snapshot restoration.
type Restore struct {
	Interactive bool `koanf:"interactive" yaml:"interactive"`
}

// Log controls logging.
type Log struct {
	Verbosity int `koanf:"verbosity" yaml:"verbosity"`
}

// MaxVerbosity is the highest meaningful log verbosity.
const MaxVerbosity = 3

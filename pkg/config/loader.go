package config

import (
	_ "embed"
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/logging"
	"github.com/arthur-debert/zprof/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ZPROF_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// aferoProvider is a koanf provider reading one file through an afero.Fs.
type aferoProvider struct {
	fs   afero.Fs
	path string
}

func (a *aferoProvider) ReadBytes() ([]byte, error) { return afero.ReadFile(a.fs, a.path) }
func (a *aferoProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// DefaultContent returns the embedded defaults file.
func DefaultContent() string {
	return string(defaultConfig)
}

// envKey maps ZPROF_UNINSTALL__KEEP_BACKUPS to uninstall.keep_backups.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Load merges every configuration layer for the installation at p, reading
// the settings file from fsys. overrides are dotted keys such as
// "uninstall.keep_backups".
func Load(fsys afero.Fs, p paths.Paths, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Settings file of the managed tree
	settings := p.SettingsFile()
	if _, err := fsys.Stat(settings); err == nil {
		if err := k.Load(&aferoProvider{fs: fsys, path: settings}, toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load %s", settings).
				WithDetail("path", settings)
		}
		logger.Debug().Str("path", settings).Msg("Loaded settings file")
	} else if !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat %s", settings).
			WithDetail("path", settings)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Explicit overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if cfg.Log.Verbosity < 0 {
		cfg.Log.Verbosity = 0
	}
	if cfg.Log.Verbosity > MaxVerbosity {
		cfg.Log.Verbosity = MaxVerbosity
	}
	return &cfg, nil
}

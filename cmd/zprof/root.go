package zprof

import (
	"embed"
	"io"
	"io/fs"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/arthur-debert/zprof/internal/version"
	"github.com/arthur-debert/zprof/pkg/cobrax/topics"
	"github.com/arthur-debert/zprof/pkg/config"
	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/logging"
	"github.com/arthur-debert/zprof/pkg/paths"
	"github.com/arthur-debert/zprof/pkg/probe"
	"github.com/arthur-debert/zprof/pkg/style"
	"github.com/arthur-debert/zprof/pkg/types"
	"github.com/arthur-debert/zprof/pkg/ui"
	"github.com/arthur-debert/zprof/pkg/ui/markdown"
	"github.com/arthur-debert/zprof/pkg/ui/prompt"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// Exit codes
const (
	ExitOK        = 0
	ExitError     = 1
	ExitCancelled = 2
)

// app carries everything a command needs. Commands never reach for
// process globals directly so tests can swap any of these.
type app struct {
	fs    afero.Fs
	in    io.Reader
	out   io.Writer
	err   io.Writer
	probe probe.Probe
	now   func() time.Time

	verbosity int
	noColor   bool
	output    string

	paths paths.Paths
	cfg   *config.Config
}

func newApp() *app {
	return &app{
		fs:    filesystem.NewOS(),
		in:    os.Stdin,
		out:   os.Stdout,
		err:   os.Stderr,
		probe: probe.New(),
		now:   time.Now,
	}
}

// load resolves paths and configuration. overrides are dotted config keys
// set from flags the user passed explicitly.
func (a *app) load(overrides map[string]interface{}) error {
	p, err := paths.FromEnvironment()
	if err != nil {
		return err
	}
	cfg, err := config.Load(a.fs, p, overrides)
	if err != nil {
		return err
	}
	a.paths = p
	a.cfg = cfg

	if cfg.Log.Verbosity > a.verbosity {
		a.verbosity = cfg.Log.Verbosity
		logging.SetupLogger(a.verbosity)
	}
	log.Debug().
		Str("home", p.Home()).
		Str("root", p.Root()).
		Msg("Configuration loaded")
	return nil
}

func (a *app) format() (ui.Format, error) {
	format, err := ui.ParseFormat(a.output)
	if err != nil {
		return ui.FormatText, err
	}
	if a.noColor && (format == ui.FormatAuto || format == ui.FormatTerminal) {
		format = ui.FormatText
	}
	return format, nil
}

func (a *app) renderer(w io.Writer) (ui.Renderer, error) {
	format, err := a.format()
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, w)
}

// render writes a result to stdout in the selected format.
func (a *app) render(result interface{}) error {
	r, err := a.renderer(a.out)
	if err != nil {
		return err
	}
	return r.RenderResult(result)
}

// renderError reports err on stderr, falling back to plain text when the
// selected format itself is invalid.
func (a *app) renderError(err error) {
	r, rerr := a.renderer(a.err)
	if rerr != nil {
		r, _ = ui.NewRenderer(ui.FormatText, a.err)
	}
	_ = r.RenderError(err)
}

func (a *app) stdinIsTerminal() bool {
	f, ok := a.in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// interactive is true when prompting is both possible and allowed.
func (a *app) interactive() bool {
	return a.cfg != nil && a.cfg.Restore.Interactive && a.stdinIsTerminal()
}

func (a *app) prompter() types.Prompter {
	if !a.interactive() {
		return types.DeclineAll{}
	}
	return prompt.NewConsole(a.in, a.err)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// helpStyled is false under --no-color, NO_COLOR or a redirected stdout.
func (a *app) helpStyled() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set || a.noColor {
		return false
	}
	return stdoutIsTerminal()
}

// usageFuncs are the template functions of the usage template. heading
// normalizes "usage", "usage:" and "USAGE:" to one form.
func (a *app) usageFuncs() template.FuncMap {
	return template.FuncMap{
		"heading": func(s string) string {
			s = strings.ToUpper(strings.TrimSuffix(s, ":")) + ":"
			if !a.helpStyled() {
				return s
			}
			return style.SubtitleStyle.Render(s)
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	cobra.AddTemplateFuncs(a.usageFuncs())

	rootCmd := &cobra.Command{
		Use:     "zprof",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			_, err := a.format()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, "no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.err)

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, MsgFlagNoColor)
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "auto", MsgFlagOutput)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newSnapshotCmd(a))
	rootCmd.AddCommand(newVerifyCmd(a))
	rootCmd.AddCommand(newRestoreCmd(a))
	rootCmd.AddCommand(newUninstallCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))
	rootCmd.AddCommand(newCompletionCmd())

	helpTopics, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		opts := topics.Options{Renderer: markdown.New(stdoutIsTerminal())}
		if err := topics.InitializeWithOptions(rootCmd, helpTopics, opts); err != nil {
			log.Debug().Err(err).Msg("Help topics unavailable")
		}
	}

	return rootCmd
}

// Execute runs the CLI against the process environment and returns the
// exit code.
func Execute() int {
	a := newApp()
	return run(a, newRootCmd(a), os.Args[1:])
}

func run(a *app, rootCmd *cobra.Command, args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}
	a.renderError(err)
	if errors.IsErrorCode(err, errors.ErrCancelled) {
		return ExitCancelled
	}
	return ExitError
}

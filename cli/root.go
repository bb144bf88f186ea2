package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yhkl-dev/qqm/auth"
	"github.com/yhkl-dev/qqm/config"
	"github.com/yhkl-dev/qqm/logging"
	"github.com/yhkl-dev/qqm/output"
)

// Version is set at build time
var Version = "dev"

type globalFlags struct {
	json       bool
	plain      bool
	pretty     bool
	quiet      bool
	noColor    bool
	profile    string
	verbose    bool
	debug      bool
	timeout    int
	configFile string
}

// outputMode resolves --json and --plain over the configured mode
func (g *globalFlags) outputMode(configured string) string {
	switch {
	case g.json:
		return string(output.ModeJSON)
	case g.plain:
		return string(output.ModePlain)
	}
	return configured
}

// runner holds the state of one invocation
type runner struct {
	env   Env
	flags globalFlags
	app   *App
}

// Execute runs the command line of the current process and returns its exit status
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, Env{Args: os.Args[1:], Stdout: os.Stdout, Stderr: os.Stderr})
}

// Run executes args and returns the exit status
func Run(ctx context.Context, env Env) int {
	r := &runner{env: env}
	root := r.newRootCommand()
	root.SetArgs(env.Args)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	err := root.ExecuteContext(ctx)
	if r.app != nil {
		if cerr := r.app.Close(); cerr != nil {
			log.Debugf("close: %v", cerr)
		}
	}
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if !errors.As(err, &ee) {
		r.printer().Error(errorCode(err), err.Error())
	}
	return exitCode(err)
}

// printer returns the configured printer, or one built from flags alone
// when setup failed before it existed
func (r *runner) printer() *output.Printer {
	if r.app != nil {
		return r.app.Printer
	}
	return output.New(r.env.Stdout, output.Options{
		Mode:    r.flags.outputMode(""),
		Pretty:  r.flags.pretty,
		Quiet:   r.flags.quiet,
		NoColor: r.flags.noColor,
	})
}

func (r *runner) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "qqm",
		Short:         "QQ Music from the command line",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&r.flags.json, "json", false, "output JSON")
	pf.BoolVar(&r.flags.plain, "plain", false, "output tab separated text")
	pf.BoolVar(&r.flags.pretty, "pretty", false, "indent JSON output")
	pf.BoolVar(&r.flags.quiet, "quiet", false, "suppress output")
	pf.BoolVar(&r.flags.noColor, "no-color", false, "disable colors")
	pf.StringVar(&r.flags.profile, "profile", auth.DefaultProfile, "credential profile")
	pf.BoolVarP(&r.flags.verbose, "verbose", "v", false, "log progress to stderr")
	pf.BoolVarP(&r.flags.debug, "debug", "d", false, "log requests to stderr")
	pf.IntVar(&r.flags.timeout, "timeout", 30, "request timeout in seconds")
	pf.StringVar(&r.flags.configFile, "config", "", "config file")
	root.MarkFlagsMutuallyExclusive("json", "plain")

	root.AddCommand(
		r.newAuthCommand(),
		r.newSearchCommand(),
		r.newTrackCommand(),
		r.newLibraryCommand(),
		r.newPlaylistCommand(),
		r.newPlayerCommand(),
	)
	return root
}

func (r *runner) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{
		File:  r.flags.configFile,
		Flags: cmd.Flags(),
	})
	if err != nil {
		return err
	}

	printer := output.New(r.env.Stdout, output.Options{
		Mode:    r.flags.outputMode(cfg.Output.Mode),
		Pretty:  cfg.Output.Pretty,
		Quiet:   cfg.Output.Quiet,
		NoColor: cfg.Output.NoColor,
	})
	logging.Setup(r.env.Stderr, logging.Options{
		Verbose: r.flags.verbose,
		Debug:   r.flags.debug,
		NoColor: !output.IsTerminal(r.env.Stderr) || cfg.Output.NoColor,
	})

	app, err := newApp(cfg, printer, r.env)
	if err != nil {
		return err
	}
	r.app = app
	return nil
}

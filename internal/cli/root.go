// Package cli implements the vra command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/usestring/vra-mcp/internal/config"
	"github.com/usestring/vra-mcp/internal/logging"
	"github.com/usestring/vra-mcp/internal/prompt"
	"github.com/usestring/vra-mcp/internal/render"
	"github.com/usestring/vra-mcp/pkg/client"
)

// Version is set at build time via ldflags.
var Version = "dev"

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	server     string
	username   string
	tenant     string
	insecure   bool
	output     string
	query      string
	configFile string
	profile    string
	logLevel   string
}

// App carries the state shared by the subcommands of one invocation.
type App struct {
	cfg      *config.Config
	prompter prompt.Prompter
	stdout   io.Writer
	stderr   io.Writer

	flags   globalFlags
	session *client.Session

	setupLogging func(logging.Config) (func() error, error)
	cleanup      func() error
}

// NewApp creates an App. cfg is typically config.Load().
func NewApp(cfg *config.Config, prompter prompt.Prompter, stdout, stderr io.Writer) *App {
	return &App{
		cfg:      cfg,
		prompter: prompter,
		stdout:   stdout,
		stderr:   stderr,

		setupLogging: logging.Setup,
	}
}

// NewRootCmd builds the vra command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "vra",
		Short: "Command line client for vRealize Automation 7",
		Long: `vra talks to the REST API of a vRealize Automation 7 appliance.

Connection settings come from VRA_* environment variables, an optional YAML
profile file (--config) and the flags below, in increasing order of
precedence. Missing usernames and passwords are prompted for.

Examples:
  # List the business groups of the default tenant
  vra -s vra-01a.corp.local -u cloudadmin@corp.local business-groups

  # Request a catalog item and wait for it
  vra request-item -b Development -c centos -r "load test"

  # Extract the ids of successful requests
  vra requests -o json -q '.[] | select(.state == "SUCCESSFUL") | .id'
`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.prepare(cmd)
		},
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&app.flags.server, "server", "s", "", "FQDN or URL of the vRA appliance (VRA_HOST)")
	pf.StringVarP(&app.flags.username, "username", "u", "", "username as user@domain (VRA_USERNAME)")
	pf.StringVarP(&app.flags.tenant, "tenant", "t", "", "vRA tenant (VRA_TENANT, default vsphere.local)")
	pf.BoolVar(&app.flags.insecure, "insecure", false, "skip TLS certificate verification")
	pf.StringVarP(&app.flags.output, "output", "o", render.FormatTable, "output format: table, json or yaml")
	pf.StringVarP(&app.flags.query, "query", "q", "", "jq expression applied to the result; prints the list of values it yields")
	pf.StringVar(&app.flags.configFile, "config", "", "YAML profile file")
	pf.StringVar(&app.flags.profile, "profile", "", "profile name within the --config file")
	pf.StringVar(&app.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (LOG_LEVEL)")

	root.AddCommand(
		newBusinessGroupsCmd(app),
		newCatalogCmd(app),
		newResourcesCmd(app),
		newRolesCmd(app),
		newRequestsCmd(app),
		newRequestItemCmd(app),
		newReservationsCmd(app),
		newEventsCmd(app),
		newReportCmd(app),
	)
	return root
}

// prepare merges profile and flags into the configuration and sets up logging.
func (a *App) prepare(cmd *cobra.Command) error {
	if a.flags.configFile != "" {
		p, err := config.LoadProfile(a.flags.configFile, a.flags.profile)
		if err != nil {
			return err
		}
		a.cfg.Apply(p)
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		a.cfg.Host = a.flags.server
	}
	if flags.Changed("username") {
		a.cfg.Username = a.flags.username
	}
	if flags.Changed("tenant") {
		a.cfg.Tenant = a.flags.tenant
	}
	if flags.Changed("insecure") {
		a.cfg.SSLVerify = !a.flags.insecure
	}
	if flags.Changed("log-level") {
		a.cfg.LogLevel = a.flags.logLevel
	}

	logCfg := logging.FromConfig(a.cfg)
	logCfg.Fallback = a.stderr
	cleanup, err := a.setupLogging(logCfg)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.cleanup = cleanup
	return nil
}

// Session logs in on first use, prompting for missing credentials.
func (a *App) Session(ctx context.Context) (*client.Session, error) {
	if a.session != nil {
		return a.session, nil
	}
	if a.cfg.Host == "" {
		return nil, errors.New("vRA host is required (--server or VRA_HOST)")
	}

	if a.cfg.Username == "" {
		username, err := a.prompter.Input("vRA Username (user@domain)", "cloudadmin@corp.local")
		if err != nil {
			return nil, err
		}
		a.cfg.Username = username
	}
	if a.cfg.Password == "" {
		password, err := a.prompter.Password("vRA Password")
		if err != nil {
			return nil, err
		}
		a.cfg.Password = password
	}

	s, err := client.Login(ctx, a.cfg.Credentials(), a.cfg.ClientOptions("vra/"+Version)...)
	if err != nil {
		return nil, err
	}
	slog.Debug("logged in", slog.String("host", s.Host()), slog.String("tenant", s.Tenant()))
	a.session = s
	return s, nil
}

// Run executes the command tree for args. Logging set up by the command is
// released on every path, failed commands included.
func (a *App) Run(ctx context.Context, args []string) error {
	root := NewRootCmd(a)
	root.SetArgs(args)
	defer a.close()
	return root.ExecuteContext(ctx)
}

func (a *App) close() {
	if a.cleanup == nil {
		return
	}
	if err := a.cleanup(); err != nil {
		fmt.Fprintf(a.stderr, "closing log file: %v\n", err)
	}
	a.cleanup = nil
}

// print writes a result in the selected output format.
func (a *App) print(data any) error {
	f, err := render.NewFormatter(a.flags.output, &render.Options{
		Writer: a.stdout,
		Query:  a.flags.query,
	})
	if err != nil {
		return err
	}
	return f.Format(data)
}

// status writes a progress line to stderr so stdout stays parseable.
func (a *App) status(format string, args ...any) {
	fmt.Fprintf(a.stderr, format+"\n", args...)
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := NewApp(config.Load(), prompt.Terminal{}, stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(stderr, "operation cancelled")
			return 1
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

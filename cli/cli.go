package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ardnew/rptkit/cli/cmd"
	"github.com/ardnew/rptkit/log"
	"github.com/ardnew/rptkit/pkg"
	"github.com/ardnew/rptkit/store"
)

// dbConfig selects the template store.
type dbConfig struct {
	Driver string `default:"${dbDriver}"  enum:"sqlite,postgres,mysql,sqlserver" help:"Template store driver."`
	DSN    string `default:"${database}"                                        help:"Template store DSN; a file path for sqlite." name:"dsn" env:"RPTKIT_DB_DSN"`
}

func (dbConfig) vars() kong.Vars {
	return kong.Vars{
		"dbDriver":             store.DefaultDriver,
		cmd.DatabaseIdentifier: configPath(baseDatabase),
	}
}

func (dbConfig) group() kong.Group {
	return kong.Group{Key: "db", Title: "Template store"}
}

// CLI is the top-level command-line interface for rptkit.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	DB    dbConfig    `embed:"" group:"db"    prefix:"db-"`

	MetricsFile string `help:"Write Prometheus metrics to this file on exit." placeholder:"FILE" type:"path"`

	Init       cmd.Init       `cmd:"" help:"Initialize configuration file."`
	Template   cmd.Template   `cmd:"" help:"Manage report templates."`
	Section    cmd.Section    `cmd:"" help:"Edit template sections."`
	Element    cmd.Element    `cmd:"" help:"Edit template elements."`
	Connection cmd.Connection `cmd:"" help:"Manage database connections."`
	DataSource cmd.DataSource `cmd:"" help:"Manage data sources."          name:"datasource"`
	Eval       cmd.Eval       `cmd:"" help:"Evaluate a formula."`
	Validate   cmd.Validate   `cmd:"" help:"Check formula syntax."`
	Functions  cmd.Functions  `cmd:"" help:"List built-in functions."`
	Render     cmd.Render     `cmd:"" help:"Render a template to pages."`
	Repl       cmd.Repl       `cmd:"" help:"Start the interactive formula console."`
	Version    cmd.Version    `cmd:"" help:"Print the version."`
}

// Run executes the rptkit CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) (err error) {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.DB.vars()).
		CloneWith(cmd.FunctionVars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before parsing so that parse errors and config
	// file problems are reported in the requested format.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.DB.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	reg := prometheus.NewRegistry()

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithRuntime(ctx, &cmd.Runtime{
		Registry: reg,
		Driver:   cli.DB.Driver,
		DSN:      cli.DB.DSN,
		CacheDir: cacheDir(),
	})

	if cli.MetricsFile != "" {
		defer func() {
			if werr := writeMetrics(cli.MetricsFile, reg, ktx.Command(), err); werr != nil && err == nil {
				err = werr
			}
		}()
	}

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	log.DebugContext(ctx, "run command", slog.String("command", ktx.Command()))

	return ktx.Run(ctx, &cli)
}

// writeMetrics records the outcome of command in reg and writes every
// metric of reg to path in the Prometheus text format.
func writeMetrics(path string, reg *prometheus.Registry, command string, runErr error) error {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: pkg.Name,
		Name:      "command_runs_total",
		Help:      "Command invocations by command and result.",
	}, []string{"command", "result"})

	if err := reg.Register(runs); err != nil {
		return ErrMetrics.Wrap(err)
	}

	result := "ok"
	if runErr != nil {
		result = "error"
	}

	runs.WithLabelValues(command, result).Inc()

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return ErrMetrics.With(slog.String("file", path)).Wrap(err)
	}

	return nil
}

// Package cli implements the popis command line: the HTTP server and
// database maintenance commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/popis/internal/config"
)

// rootOptions holds the global flags. Flags only override the loaded
// configuration when they are set explicitly.
type rootOptions struct {
	configPath string
	addr       string
	dbDriver   string
	dbPath     string
	logLevel   string
	logFile    string
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "popis",
		Short: "Office IT asset inventory server",
		Long: "popis tracks office equipment through its lifecycle: available, assigned,\n" +
			"in maintenance and retired. Without a subcommand it runs the HTTP API.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default $"+config.ConfigFileEnv+")")
	pf.StringVarP(&opts.addr, "addr", "a", "", "listen address (default :5000)")
	pf.StringVar(&opts.dbDriver, "db-driver", "", "database driver: sqlite or postgres")
	pf.StringVarP(&opts.dbPath, "db", "d", "", "SQLite database path (default popis.sqlite3)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&opts.logFile, "log", "l", "", "also write JSON logs to this file")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd(&rootOptions{}).Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies explicitly set flags.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.HTTPAddr = o.addr
	}
	if flags.Changed("db-driver") {
		cfg.DBDriver = o.dbDriver
	}
	if flags.Changed("db") {
		cfg.DBPath = o.dbPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log") {
		cfg.LogFile = o.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

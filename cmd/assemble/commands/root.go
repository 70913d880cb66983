// Package commands implements the CLI commands for assemble.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/assemble/internal/build"
	"go.trai.ch/assemble/internal/core/domain"
)

// CLI represents the command line interface for assemble.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	LoadSettings(root string) (domain.Settings, error)
	ConfigureLogging(s domain.Settings)
	Sync(ctx context.Context, s domain.Settings) (*domain.Ledger, error)
	Status(ctx context.Context, s domain.Settings) ([]domain.ProjectStatus, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "assemble",
		Short:         "Assemble a workspace of git repositories from a manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	pf := rootCmd.PersistentFlags()
	pf.String("root", ".", "Workspace root that project paths are relative to")
	pf.String("ledger", domain.DefaultLedgerPath(), "Commit ledger path, relative to the root")
	pf.IntP("jobs", "j", 0, "Number of parallel workers (0 uses one per CPU)")
	pf.BoolP("verbose", "v", false, "Stream git output and enable debug logging")
	pf.String("log-format", string(domain.LogFormatAuto), "Log format: auto, text, or json")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newSyncCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// settings loads the workspace settings and applies every flag the user set
// explicitly on top of them.
func (c *CLI) settings(cmd *cobra.Command) (domain.Settings, error) {
	flags := cmd.Flags()

	root, _ := flags.GetString("root")
	s, err := c.app.LoadSettings(root)
	if err != nil {
		return domain.Settings{}, err
	}

	if changed(flags, "manifest") {
		s.Manifest, _ = flags.GetString("manifest")
	}
	if changed(flags, "ledger") {
		s.Ledger, _ = flags.GetString("ledger")
	}
	if changed(flags, "jobs") {
		s.Jobs, _ = flags.GetInt("jobs")
	}
	if changed(flags, "depth") {
		s.Depth, _ = flags.GetInt("depth")
	}
	if changed(flags, "verbose") {
		s.Verbose, _ = flags.GetBool("verbose")
	}
	if changed(flags, "cancel-on-failure") {
		s.CancelOnFailure, _ = flags.GetBool("cancel-on-failure")
	}
	if changed(flags, "log-format") {
		format, _ := flags.GetString("log-format")
		s.LogFormat = domain.LogFormat(format)
	}

	if err := s.Validate(); err != nil {
		return domain.Settings{}, err
	}
	c.app.ConfigureLogging(s)
	return s, nil
}

func changed(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

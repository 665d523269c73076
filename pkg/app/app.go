// Package app provides the scaffolding shared by all binaries: a cobra
// command wired to pflag option structs, optional config-file loading via
// viper, and option completion/validation before the run function starts.
package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlagName = "config"

// RunFunc defines the application's startup callback function.
type RunFunc func() error

// CliOptions abstracts configuration options for reading parameters from the
// command line.
type CliOptions interface {
	// AddFlags adds flags to the specified FlagSet object.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
	Validate() []error
}

// CompleteableOptions abstracts options which can be completed.
type CompleteableOptions interface {
	Complete() error
}

// App is the main structure of a cli application.
type App struct {
	name        string
	shortDesc   string
	description string
	options     CliOptions
	runFunc     RunFunc
	noConfig    bool
	cmdArgs     cobra.PositionalArgs

	cmd        *cobra.Command
	configFile string
}

// Option defines optional parameters for initializing the application
// structure.
type Option func(*App)

// WithOptions opens the application's function to read from the command line
// or read parameters from the configuration file.
func WithOptions(opts CliOptions) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc is used to set the application startup callback function option.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// WithDescription is used to set the description of the application.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithNoConfig set the application does not provide a config flag.
func WithNoConfig() Option {
	return func(a *App) {
		a.noConfig = true
	}
}

// WithDefaultValidArgs set default validation function to valid non-flag
// arguments: the command accepts none.
func WithDefaultValidArgs() Option {
	return func(a *App) {
		a.cmdArgs = cobra.NoArgs
	}
}

// NewApp creates a new application instance based on the given application
// name, binary name, and other options.
func NewApp(name string, shortDesc string, opts ...Option) *App {
	a := &App{
		name:      name,
		shortDesc: shortDesc,
	}

	for _, o := range opts {
		o(a)
	}

	a.buildCommand()

	return a
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.shortDesc,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          a.cmdArgs,
	}
	cmd.Flags().SortFlags = false

	if a.options != nil {
		a.options.AddFlags(cmd.Flags())
	}
	if !a.noConfig {
		cmd.Flags().StringVarP(&a.configFile, configFlagName, "c", "",
			"Read configuration from specified `FILE`, support JSON, TOML, YAML formats.")
	}

	cmd.RunE = a.runCommand
	a.cmd = cmd
}

// Command returns the underlying cobra command, for embedding as a
// subcommand.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// Run launches the application.
func (a *App) Run() error {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func (a *App) runCommand(cmd *cobra.Command, args []string) error {
	if a.options != nil {
		if err := a.applyOptions(cmd.Flags()); err != nil {
			return err
		}
	}

	if a.runFunc != nil {
		return a.runFunc()
	}

	return nil
}

// applyOptions merges the config file under the flag values, completes and
// validates the final option set. Explicit flags always win over the file.
func (a *App) applyOptions(fs *pflag.FlagSet) error {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	if a.configFile != "" {
		v.SetConfigFile(a.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read configuration file %q: %w", a.configFile, err)
		}
		if err := v.Unmarshal(a.options); err != nil {
			return fmt.Errorf("failed to apply configuration file %q: %w", a.configFile, err)
		}
		// Re-apply explicitly set flags on top of the file values.
		fs.Visit(func(f *pflag.Flag) {
			_ = fs.Set(f.Name, f.Value.String())
		})
	}

	if co, ok := a.options.(CompleteableOptions); ok {
		if err := co.Complete(); err != nil {
			return err
		}
	}

	if errs := a.options.Validate(); len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

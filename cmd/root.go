// Package cmd contains the entitystore command line interface.
// It seeds a store from the configuration and lets you inspect its entities.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-arrower/entitystore"
)

const name = "entitystore"

// Option configures the cli returned by NewCLI.
type Option func(c *cli)

// WithContainer uses di instead of initialising the dependencies from the configuration.
func WithContainer(di *entitystore.Container) Option {
	return func(c *cli) {
		c.di = di
	}
}

// WithViper loads the configuration with vip instead of entitystore.DefaultViper.
func WithViper(vip *entitystore.Viper) Option {
	return func(c *cli) {
		c.vip = vip
	}
}

// NewCLI initialises the complete entitystore cli with its commands and returns the root command.
func NewCLI(opts ...Option) *cobra.Command {
	c := &cli{
		vip:       entitystore.DefaultViper(),
		startedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(c)
	}

	rootCmd := &cobra.Command{
		Use:   name,
		Short: "Entitystore keeps users, posts, news, and forum threads in memory.",
		Long: `An in-memory store seeded with placeholder data.
List, look up, and dump the seeded entities or show the latest news.`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configFile, "config", "", "path to a configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "overwrite the configured log level, e.g. debug or store:info")
	_ = c.vip.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		newListCmd(c),
		newGetCmd(c),
		newNewsCmd(c),
		newStatsCmd(c),
		newDumpCmd(c),
		Version(name),
	)

	return rootCmd
}

// cli initialises the dependencies lazily, so commands not using the store stay cheap.
type cli struct {
	vip        *entitystore.Viper
	configFile string

	di        *entitystore.Container
	shutdown  func(ctx context.Context) error
	startedAt time.Time
}

func (c *cli) container(cmd *cobra.Command) (*entitystore.Container, error) {
	if c.di != nil {
		return c.di, nil
	}

	if c.configFile != "" {
		c.vip.SetConfigFile(c.configFile)

		if err := c.vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	conf := entitystore.Config{}
	if err := c.vip.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	di, shutdown, err := entitystore.InitialiseDependencies(cmd.Context(), &conf, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("could not initialise dependencies: %w", err)
	}

	c.di = di
	c.shutdown = shutdown

	return di, nil
}

// run wraps a command using the container, so the dependencies are shut down
// after the command has finished, even if it failed.
func (c *cli) run(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)

		return errors.Join(err, c.close(cmd.Context()))
	}
}

func (c *cli) close(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	err := c.shutdown(ctx)
	c.shutdown = nil

	if err != nil {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	return nil
}

// Execute runs the entitystore cli.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewCLI().ExecuteContext(ctx); err != nil {
		log.Println(err)
		stop()
		os.Exit(1) //nolint:gocritic // stop is called explicitly
	}
}

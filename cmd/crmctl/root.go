package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/keyxmakerx/rolodex/internal/config"
	"github.com/keyxmakerx/rolodex/internal/dashboard"
	"github.com/keyxmakerx/rolodex/internal/remote"
)

// cli carries flag values and the connection shared by subcommands.
type cli struct {
	out     io.Writer
	remote  config.RemoteConfig
	envErr  error
	asJSON  bool
	verbose bool

	client *remote.Client
	dash   *dashboard.Dashboard
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	// Environment supplies defaults; flags override them.
	c.remote, c.envErr = env.ParseAs[config.RemoteConfig]()

	root := &cobra.Command{
		Use:           "crmctl",
		Short:         "crmctl manages contacts, campaigns and tags in a rolodex store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.envErr != nil {
				return fmt.Errorf("reading environment: %w", c.envErr)
			}
			return c.connect(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if c.client == nil || c.remote.Email == "" {
				return nil
			}
			return c.client.SignOut(cmd.Context())
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.remote.URL, "url", c.remote.URL, "store API base URL (env REMOTE_URL)")
	flags.StringVar(&c.remote.Email, "email", c.remote.Email, "account email (env REMOTE_EMAIL)")
	flags.StringVar(&c.remote.Password, "password", c.remote.Password, "account password (env REMOTE_PASSWORD)")
	flags.DurationVar(&c.remote.Timeout, "timeout", c.remote.Timeout, "per-request timeout")
	flags.BoolVar(&c.asJSON, "json", false, "output as JSON")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log store requests to stderr")

	root.AddCommand(c.contactsCmd(), c.campaignsCmd(), c.tagsCmd())
	return root
}

// connect creates the client, signs in and builds the controllers.
func (c *cli) connect(ctx context.Context) error {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	client, err := remote.New(c.remote.URL,
		remote.WithTimeout(c.remote.Timeout),
		remote.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	if c.remote.Email != "" {
		if _, err := client.SignIn(ctx, c.remote.Email, c.remote.Password); err != nil {
			return fmt.Errorf("signing in: %w", err)
		}
	}

	c.client = client
	c.dash = dashboard.New(dashboard.Stores{
		Contacts:  client.Contacts(),
		Campaigns: client.Campaigns(),
		Tags:      client.Tags(),
	}, dashboard.Options{Logger: logger})
	return nil
}

// printJSON writes v as indented JSON.
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package ctl

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/studycompanion/internal/buildinfo"
	"github.com/dmitrijs2005/studycompanion/internal/client/bootstrap"
	"github.com/dmitrijs2005/studycompanion/internal/client/config"
	"github.com/dmitrijs2005/studycompanion/internal/logging"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is returned by commands that need a remembered session.
var ErrNotLoggedIn = errors.New("not logged in, run studyctl login --remember first")

// Opener builds the dependencies for one command run. args are config flags
// in the form config.Load understands.
type Opener func(ctx context.Context, args []string) (*bootstrap.Deps, error)

// DefaultOpener loads the configuration from args, the environment and the
// .env overlay, and logs to stderr.
func DefaultOpener(stderr io.Writer) Opener {
	return func(ctx context.Context, args []string) (*bootstrap.Deps, error) {
		cfg, err := config.Load(args, config.ProcessEnv())
		if err != nil {
			return nil, err
		}
		return bootstrap.Open(ctx, cfg, logging.New(stderr, cfg.LogLevel))
	}
}

type rootOptions struct {
	open Opener

	configFile string
	backend    string
	dsn        string
	dataDir    string
	platform   string
	logLevel   string
}

// NewRootCmd builds the studyctl command tree.
func NewRootCmd(open Opener) *cobra.Command {
	o := &rootOptions{open: open}

	root := &cobra.Command{
		Use:           "studyctl",
		Short:         "studyctl talks to the Study Companion backend",
		Long:          "studyctl manages the Study Companion session and endpoint and processes study material.",
		Version:       buildinfo.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configFile, "config", "c", "", "config file (JSON or YAML)")
	pf.StringVarP(&o.backend, "storage", "s", "", "storage backend (sqlite, postgres, badger, redis, memory)")
	pf.StringVar(&o.dsn, "dsn", "", "storage DSN")
	pf.StringVarP(&o.dataDir, "data-dir", "d", "", "data directory")
	pf.StringVarP(&o.platform, "platform", "p", "", "platform (ios, android, web, other)")
	pf.StringVarP(&o.logLevel, "log-level", "l", "", "log level")

	root.AddCommand(
		newStatusCmd(o),
		newEndpointCmd(o),
		newWhoAmICmd(o),
		newLoginCmd(o),
		newRegisterCmd(o),
		newLogoutCmd(o),
		newProcessCmd(o),
	)
	return root
}

// configArgs translates the flags the user set into config.Load flags.
func (o *rootOptions) configArgs(cmd *cobra.Command) []string {
	var args []string
	add := func(flag, name, value string) {
		if cmd.Flags().Changed(flag) {
			args = append(args, name, value)
		}
	}
	add("config", "-c", o.configFile)
	add("storage", "-s", o.backend)
	add("dsn", "-dsn", o.dsn)
	add("data-dir", "-d", o.dataDir)
	add("platform", "-p", o.platform)
	add("log-level", "-l", o.logLevel)
	return args
}

// run opens the dependencies, calls fn and releases them.
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, d *bootstrap.Deps) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := o.open(ctx, o.configArgs(cmd))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := d.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close storage: %w", cerr)
		}
	}()

	return fn(ctx, d)
}

func requireLogin(d *bootstrap.Deps) error {
	if !d.Sessions.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	return nil
}
